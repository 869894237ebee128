package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	oidckit "github.com/PaulFidika/oauthgate/oidc"
	"github.com/redis/go-redis/v9"
)

// StateCache keeps pending authorization requests in Redis.
type StateCache struct {
	rdb   redis.UniversalClient
	keyNS string
	ttl   time.Duration
}

func NewStateCache(rdb redis.UniversalClient, keyPrefix string, ttl time.Duration) *StateCache {
	if keyPrefix == "" {
		keyPrefix = "auth:oidc:state:"
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &StateCache{rdb: rdb, keyNS: keyPrefix, ttl: ttl}
}

func (s *StateCache) key(state string) string { return s.keyNS + state }

func (s *StateCache) Put(ctx context.Context, state string, data oidckit.StateData) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key(state), b, s.ttl).Err()
}

// Take uses GETDEL so two callbacks racing on the same state cannot both win.
func (s *StateCache) Take(ctx context.Context, state string) (oidckit.StateData, bool, error) {
	val, err := s.rdb.GetDel(ctx, s.key(state)).Bytes()
	if errors.Is(err, redis.Nil) {
		return oidckit.StateData{}, false, nil
	}
	if err != nil {
		return oidckit.StateData{}, false, err
	}
	var d oidckit.StateData
	if err := json.Unmarshal(val, &d); err != nil {
		return oidckit.StateData{}, false, err
	}
	return d, true, nil
}

var _ oidckit.StateCache = (*StateCache)(nil)
