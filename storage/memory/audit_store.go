package memorystore

import (
	"context"
	"sort"
	"sync"

	"github.com/PaulFidika/oauthgate/core"
)

// AuditStore is an in-memory append-only core.AuditStore.
type AuditStore struct {
	mu     sync.Mutex
	events map[string][]core.LoginEvent
}

func NewAuditStore() *AuditStore {
	return &AuditStore{events: make(map[string][]core.LoginEvent)}
}

func (s *AuditStore) Append(ctx context.Context, ev core.LoginEvent) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[ev.PrincipalID] = append(s.events[ev.PrincipalID], ev)
	return nil
}

func (s *AuditStore) ListByPrincipal(ctx context.Context, principalID string, limit int) ([]core.LoginEvent, error) {
	_ = ctx
	s.mu.Lock()
	src := s.events[principalID]
	out := make([]core.LoginEvent, len(src))
	// Reverse insertion order so equal timestamps still come out newest first.
	for i, ev := range src {
		out[len(src)-1-i] = ev
	}
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].OccurredAt.After(out[j].OccurredAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ core.AuditStore = (*AuditStore)(nil)
