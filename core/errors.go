package core

import "errors"

var (
	// ErrProviderAuth means the identity provider rejected the login or the user cancelled consent.
	ErrProviderAuth = errors.New("provider_auth_failure")
	// ErrStoreUnavailable wraps any failure of a backing store.
	ErrStoreUnavailable = errors.New("store_unavailable")
	// ErrInvalidSession covers missing, expired and dangling session tokens.
	ErrInvalidSession = errors.New("invalid_session")
	// ErrLogoutFailure means the session record could not be deleted.
	ErrLogoutFailure = errors.New("logout_failure")
	// ErrInvalidProfile means the provider profile lacks a subject id.
	ErrInvalidProfile = errors.New("invalid_profile")
)
