package redisstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/PaulFidika/oauthgate/core"
	"github.com/redis/go-redis/v9"
)

// SessionStore keeps session records in Redis with the session TTL as key
// expiry. Keys hold a SHA-256 of the token, never the token itself.
type SessionStore struct {
	rdb   redis.UniversalClient
	keyNS string
}

func NewSessionStore(rdb redis.UniversalClient, keyPrefix string) *SessionStore {
	if keyPrefix == "" {
		keyPrefix = "auth:session:"
	}
	return &SessionStore{rdb: rdb, keyNS: keyPrefix}
}

func (s *SessionStore) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return s.keyNS + hex.EncodeToString(sum[:])
}

func (s *SessionStore) Put(ctx context.Context, token string, rec core.SessionRecord, ttl time.Duration) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key(token), b, ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, token string) (core.SessionRecord, bool, error) {
	val, err := s.rdb.Get(ctx, s.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return core.SessionRecord{}, false, nil
	}
	if err != nil {
		return core.SessionRecord{}, false, err
	}
	var rec core.SessionRecord
	if err := json.Unmarshal(val, &rec); err != nil {
		return core.SessionRecord{}, false, err
	}
	return rec, true, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, s.key(token)).Err()
}

var _ core.SessionStore = (*SessionStore)(nil)
