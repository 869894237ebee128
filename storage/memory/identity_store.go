package memorystore

import (
	"context"
	"sync"
	"time"

	"github.com/PaulFidika/oauthgate/core"
)

// IdentityStore is an in-memory core.IdentityStore. The external id index
// plays the role of a unique constraint.
type IdentityStore struct {
	mu         sync.Mutex
	byID       map[string]*core.Principal
	byExternal map[string]string
}

func NewIdentityStore() *IdentityStore {
	return &IdentityStore{
		byID:       make(map[string]*core.Principal),
		byExternal: make(map[string]string),
	}
}

func (s *IdentityStore) FindByID(ctx context.Context, id string) (*core.Principal, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *IdentityStore) FindByExternalID(ctx context.Context, externalID string) (*core.Principal, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byExternal[externalID]
	if !ok {
		return nil, nil
	}
	cp := *s.byID[id]
	return &cp, nil
}

func (s *IdentityStore) InsertIfAbsent(ctx context.Context, p core.Principal) (bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byExternal[p.ExternalID]; ok {
		return false, nil
	}
	cp := p
	s.byID[p.ID] = &cp
	s.byExternal[p.ExternalID] = p.ID
	return true, nil
}

func (s *IdentityStore) TouchLastLogin(ctx context.Context, externalID string, at time.Time) (*core.Principal, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byExternal[externalID]
	if !ok {
		return nil, nil
	}
	p := s.byID[id]
	if !at.After(p.LastLoginAt) {
		at = p.LastLoginAt.Add(time.Microsecond)
	}
	p.LastLoginAt = at
	cp := *p
	return &cp, nil
}

// Delete removes a principal. Only tests use it, to simulate dangling sessions.
func (s *IdentityStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.byID[id]; ok {
		delete(s.byExternal, p.ExternalID)
		delete(s.byID, id)
	}
}

// Len reports the number of stored principals.
func (s *IdentityStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

var _ core.IdentityStore = (*IdentityStore)(nil)
