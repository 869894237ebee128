package core

import (
	"context"
	"time"
)

// IdentityStore persists principals keyed by provider subject id.
// Lookups return (nil, nil) when nothing matches.
type IdentityStore interface {
	FindByID(ctx context.Context, id string) (*Principal, error)
	FindByExternalID(ctx context.Context, externalID string) (*Principal, error)
	// InsertIfAbsent inserts p unless a principal with the same ExternalID
	// exists. It reports false, nil on conflict.
	InsertIfAbsent(ctx context.Context, p Principal) (bool, error)
	// TouchLastLogin atomically advances last_login_at and returns the stored
	// principal, or nil if no principal has that external id. The stored value
	// must strictly increase even when at does not.
	TouchLastLogin(ctx context.Context, externalID string, at time.Time) (*Principal, error)
}

// AuditStore is an append-only sink for login events.
type AuditStore interface {
	Append(ctx context.Context, ev LoginEvent) error
	// ListByPrincipal returns at most limit events for principalID, newest first.
	ListByPrincipal(ctx context.Context, principalID string, limit int) ([]LoginEvent, error)
}

// SessionStore maps opaque tokens to session records.
// Get returns ok=false for unknown tokens; Delete of an unknown token is not an error.
type SessionStore interface {
	Get(ctx context.Context, token string) (SessionRecord, bool, error)
	Put(ctx context.Context, token string, rec SessionRecord, ttl time.Duration) error
	Delete(ctx context.Context, token string) error
}
