package memorystore

import (
	"context"
	"sync"
	"time"

	"github.com/PaulFidika/oauthgate/core"
)

// SessionStore is an in-memory core.SessionStore with per-entry TTL.
type SessionStore struct {
	mu     sync.Mutex
	data   map[string]sessionItem
	closed chan struct{}
	once   sync.Once
}

type sessionItem struct {
	rec core.SessionRecord
	exp time.Time
}

// NewSessionStore creates an empty store and starts a goroutine that drops
// expired entries every minute. Call Close to stop it.
func NewSessionStore() *SessionStore {
	s := &SessionStore{data: make(map[string]sessionItem), closed: make(chan struct{})}
	go s.cleanupLoop()
	return s
}

func (s *SessionStore) Put(ctx context.Context, token string, rec core.SessionRecord, ttl time.Duration) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[token] = sessionItem{rec: rec, exp: time.Now().Add(ttl)}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, token string) (core.SessionRecord, bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.data[token]
	if !ok {
		return core.SessionRecord{}, false, nil
	}
	if time.Now().After(it.exp) {
		delete(s.data, token)
		return core.SessionRecord{}, false, nil
	}
	return it.rec, true, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, token)
	return nil
}

// Len reports the number of stored sessions, expired or not.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

func (s *SessionStore) cleanupLoop() {
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

func (s *SessionStore) cleanup() {
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
func (s *SessionStore) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}

var _ core.SessionStore = (*SessionStore)(nil)
