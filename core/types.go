package core

import "time"

// ExternalProfile is the verified identity handed over by the provider callback.
type ExternalProfile struct {
	SubjectID   string
	Email       *string
	DisplayName *string
	AvatarURL   *string
}

// Principal is the locally persisted identity of an authenticated user.
type Principal struct {
	ID          string    `json:"id"`
	ExternalID  string    `json:"external_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	LastLoginAt time.Time `json:"last_login_at"`
}

// LoginEvent is one append-only record of a successful authentication.
type LoginEvent struct {
	PrincipalID string    `json:"principal_id"`
	Email       string    `json:"email"`
	OccurredAt  time.Time `json:"occurred_at"`
	SourceIP    string    `json:"source_ip"`
	UserAgent   string    `json:"user_agent"`
}

// SessionRecord is what a SessionStore keeps per token. Only the principal id
// is serialized; the principal itself is reloaded on every validation.
type SessionRecord struct {
	PrincipalID string    `json:"principal_id"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Session is a freshly issued session; Token is only ever handed to the transport.
type Session struct {
	Token       string
	PrincipalID string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// RequestMeta carries requester metadata captured at the HTTP edge.
type RequestMeta struct {
	SourceIP  string
	UserAgent string
}

// SessionResult is the outcome of validating a session token for one request.
// Handlers receive it explicitly instead of reading ambient session state.
type SessionResult struct {
	Principal *Principal
	Err       error
}

// Valid reports whether the result carries a live principal.
func (r SessionResult) Valid() bool { return r.Err == nil && r.Principal != nil }
