package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PaulFidika/oauthgate/metrics"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Resolver maps a verified provider profile onto exactly one local principal.
type Resolver struct {
	store IdentityStore
	log   logrus.FieldLogger
	now   func() time.Time
}

func NewResolver(store IdentityStore, log logrus.FieldLogger, now func() time.Time) *Resolver {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if now == nil {
		now = time.Now
	}
	return &Resolver{store: store, log: log, now: now}
}

// Resolve finds or creates the principal for profile.SubjectID.
//
// An existing principal only gets last_login_at advanced; stored email, name
// and avatar are never overwritten from the provider. A new principal is
// inserted with insert-if-absent semantics; losing that race falls back to the
// update path once instead of surfacing an error.
func (r *Resolver) Resolve(ctx context.Context, profile ExternalProfile) (*Principal, error) {
	sub := strings.TrimSpace(profile.SubjectID)
	if sub == "" {
		return nil, ErrInvalidProfile
	}
	now := r.now()

	p, err := r.store.TouchLastLogin(ctx, sub, now)
	if err != nil {
		return nil, fmt.Errorf("%w: touch principal: %w", ErrStoreUnavailable, err)
	}
	if p != nil {
		return p, nil
	}

	np := Principal{
		ID:          uuid.NewString(),
		ExternalID:  sub,
		Email:       deref(profile.Email),
		DisplayName: deref(profile.DisplayName),
		AvatarURL:   nonEmpty(profile.AvatarURL),
		CreatedAt:   now,
		LastLoginAt: now,
	}
	inserted, err := r.store.InsertIfAbsent(ctx, np)
	if err != nil {
		return nil, fmt.Errorf("%w: insert principal: %w", ErrStoreUnavailable, err)
	}
	if inserted {
		metrics.PrincipalsCreatedTotal.Inc()
		r.log.WithFields(logrus.Fields{"principal_id": np.ID, "external_id": sub}).Info("principal created")
		return &np, nil
	}

	// Another request created the principal between our update and insert.
	metrics.UpsertConflictsTotal.Inc()
	p, err = r.store.TouchLastLogin(ctx, sub, r.now())
	if err != nil {
		return nil, fmt.Errorf("%w: touch principal after conflict: %w", ErrStoreUnavailable, err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: principal %q vanished after insert conflict", ErrStoreUnavailable, sub)
	}
	return p, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := *s
	return &v
}
