package memorystore

import (
	"context"
	"sync"
	"time"

	oidckit "github.com/PaulFidika/oauthgate/oidc"
)

// StateCache is an in-memory oidckit.StateCache with TTL. Intended for
// single-node deployments and tests.
type StateCache struct {
	mu     sync.Mutex
	ttl    time.Duration
	data   map[string]stateItem
	closed chan struct{}
	once   sync.Once
}

type stateItem struct {
	v   oidckit.StateData
	exp time.Time
}

// NewStateCache creates a new in-memory state cache with the given TTL
// (default 10 minutes) and starts a cleanup goroutine; call Close to stop it.
func NewStateCache(ttl time.Duration) *StateCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	c := &StateCache{ttl: ttl, data: make(map[string]stateItem), closed: make(chan struct{})}
	go c.cleanupLoop()
	return c
}

func (s *StateCache) Put(ctx context.Context, state string, v oidckit.StateData) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[state] = stateItem{v: v, exp: time.Now().Add(s.ttl)}
	return nil
}

// Take returns and removes the entry for state.
func (s *StateCache) Take(ctx context.Context, state string) (oidckit.StateData, bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.data[state]
	if !ok {
		return oidckit.StateData{}, false, nil
	}
	delete(s.data, state)
	if time.Now().After(it.exp) {
		return oidckit.StateData{}, false, nil
	}
	return it.v, true, nil
}

func (s *StateCache) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.closed:
			return
		}
	}
}

func (s *StateCache) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for k, v := range s.data {
		if now.After(v.exp) {
			delete(s.data, k)
		}
	}
}

// Close stops the background cleanup goroutine.
func (s *StateCache) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}

var _ oidckit.StateCache = (*StateCache)(nil)
