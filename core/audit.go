package core

import (
	"context"
	"fmt"
	"time"

	"github.com/PaulFidika/oauthgate/metrics"
	"github.com/sirupsen/logrus"
)

// AuditRecorder writes login events. Writes are best-effort: a failed append
// is logged and counted but never fails the login it describes.
type AuditRecorder struct {
	store AuditStore
	limit int
	log   logrus.FieldLogger
	now   func() time.Time
}

func NewAuditRecorder(store AuditStore, limit int, log logrus.FieldLogger, now func() time.Time) *AuditRecorder {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	if now == nil {
		now = time.Now
	}
	return &AuditRecorder{store: store, limit: limit, log: log, now: now}
}

// Record appends one LoginEvent for p.
func (a *AuditRecorder) Record(ctx context.Context, p *Principal, meta RequestMeta) {
	if p == nil {
		return
	}
	ev := LoginEvent{
		PrincipalID: p.ID,
		Email:       p.Email,
		OccurredAt:  a.now(),
		SourceIP:    meta.SourceIP,
		UserAgent:   meta.UserAgent,
	}
	if err := a.store.Append(ctx, ev); err != nil {
		metrics.AuditWriteFailuresTotal.Inc()
		a.log.WithError(err).WithField("principal_id", p.ID).Error("failed to record login event")
	}
}

// History returns principalID's own login events, newest first. A limit
// outside (0, cap] is clamped to the cap.
func (a *AuditRecorder) History(ctx context.Context, principalID string, limit int) ([]LoginEvent, error) {
	if limit <= 0 || limit > a.limit {
		limit = a.limit
	}
	evs, err := a.store.ListByPrincipal(ctx, principalID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list login events: %w", ErrStoreUnavailable, err)
	}
	if len(evs) > limit {
		evs = evs[:limit]
	}
	return evs, nil
}
