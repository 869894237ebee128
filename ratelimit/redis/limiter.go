package redislimiter

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Limit defines window and max count for a bucket.
type Limit struct {
	Limit  int
	Window time.Duration
}

// Limiter is a Redis-backed sliding window limiter using one ZSET per key,
// so limits hold across gateway replicas.
type Limiter struct {
	rdb    redis.UniversalClient
	limits map[string]Limit
	prefix string
}

func New(rdb redis.UniversalClient, limits map[string]Limit) *Limiter {
	if limits == nil {
		limits = map[string]Limit{}
	}
	return &Limiter{rdb: rdb, limits: limits, prefix: "auth:rl:"}
}

func (l *Limiter) get(bucket string) Limit {
	if v, ok := l.limits[bucket]; ok {
		return v
	}
	if v, ok := l.limits["default"]; ok {
		return v
	}
	return Limit{Limit: 100, Window: time.Minute}
}

// Allow records a hit for key in bucket and reports whether it is within the limit.
func (l *Limiter) Allow(ctx context.Context, bucket, key string) (bool, error) {
	if l == nil || l.rdb == nil {
		return true, nil
	}
	if bucket == "" || key == "" {
		return false, errors.New("ratelimit: bucket and key required")
	}
	lim := l.get(bucket)
	now := time.Now().UnixMilli()
	start := now - lim.Window.Milliseconds()
	zkey := l.prefix + bucket + ":" + key
	// Unique members so two hits in the same millisecond both count.
	member := strconv.FormatInt(now, 10) + ":" + uuid.NewString()

	pipe := l.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, zkey, "0", strconv.FormatInt(start, 10))
	pipe.ZAdd(ctx, zkey, redis.Z{Score: float64(now), Member: member})
	count := pipe.ZCard(ctx, zkey)
	pipe.Expire(ctx, zkey, lim.Window+time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	if count.Val() > int64(lim.Limit) {
		l.rdb.ZRem(ctx, zkey, member)
		return false, nil
	}
	return true, nil
}
