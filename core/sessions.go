package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PaulFidika/oauthgate/metrics"
	"github.com/sirupsen/logrus"
)

// SessionManager owns the session lifecycle: Active until it expires or is
// destroyed, after which the token is simply invalid.
type SessionManager struct {
	sessions   SessionStore
	identities IdentityStore
	ttl        time.Duration
	log        logrus.FieldLogger
	now        func() time.Time
}

func NewSessionManager(sessions SessionStore, identities IdentityStore, ttl time.Duration, log logrus.FieldLogger, now func() time.Time) *SessionManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	if now == nil {
		now = time.Now
	}
	return &SessionManager{sessions: sessions, identities: identities, ttl: ttl, log: log, now: now}
}

// TTL returns the fixed session lifetime.
func (m *SessionManager) TTL() time.Duration { return m.ttl }

// Create issues a new token bound to p.ID.
func (m *SessionManager) Create(ctx context.Context, p *Principal) (Session, error) {
	if p == nil || p.ID == "" {
		return Session{}, errors.New("session: principal required")
	}
	token, err := NewSessionToken()
	if err != nil {
		return Session{}, fmt.Errorf("session: generate token: %w", err)
	}
	now := m.now()
	rec := SessionRecord{PrincipalID: p.ID, CreatedAt: now, ExpiresAt: now.Add(m.ttl)}
	if err := m.sessions.Put(ctx, token, rec, m.ttl); err != nil {
		return Session{}, fmt.Errorf("%w: put session: %w", ErrStoreUnavailable, err)
	}
	return Session{Token: token, PrincipalID: p.ID, CreatedAt: rec.CreatedAt, ExpiresAt: rec.ExpiresAt}, nil
}

// Validate loads the principal behind token. Missing, expired and dangling
// sessions yield ErrInvalidSession; store failures yield ErrStoreUnavailable.
// Either way the caller must deny access.
func (m *SessionManager) Validate(ctx context.Context, token string) (*Principal, error) {
	p, err := m.validate(ctx, token)
	switch {
	case err == nil:
		metrics.SessionValidationsTotal.WithLabelValues(metrics.ResultValid).Inc()
	case errors.Is(err, ErrInvalidSession):
		metrics.SessionValidationsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
	default:
		metrics.SessionValidationsTotal.WithLabelValues(metrics.ResultError).Inc()
	}
	return p, err
}

func (m *SessionManager) validate(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}
	rec, ok, err := m.sessions.Get(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: get session: %w", ErrStoreUnavailable, err)
	}
	if !ok {
		return nil, ErrInvalidSession
	}
	if m.now().After(rec.ExpiresAt) {
		if err := m.sessions.Delete(ctx, token); err != nil {
			m.log.WithError(err).Warn("failed to delete expired session")
		}
		return nil, ErrInvalidSession
	}
	p, err := m.identities.FindByID(ctx, rec.PrincipalID)
	if err != nil {
		return nil, fmt.Errorf("%w: find principal: %w", ErrStoreUnavailable, err)
	}
	if p == nil {
		m.log.WithField("principal_id", rec.PrincipalID).Warn("session references missing principal")
		return nil, ErrInvalidSession
	}
	return p, nil
}

// Destroy deletes the session. Destroying an unknown or expired token is a no-op.
func (m *SessionManager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("%w: %w", ErrLogoutFailure, err)
	}
	return nil
}
