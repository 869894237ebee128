package ginutil

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RateLimiter is satisfied by both the memory and the redis limiter.
type RateLimiter interface {
	Allow(ctx context.Context, bucket, key string) (bool, error)
}

// Rate limit buckets.
const (
	RLLoginStart    = "auth:login_start"
	RLLoginCallback = "auth:login_callback"
	RLLogout        = "auth:logout"
)

// AllowNamed checks bucket for the caller's IP. A nil limiter allows
// everything; a limiter error is logged to log and the request allowed, so a
// cache outage cannot lock users out.
func AllowNamed(c *gin.Context, rl RateLimiter, bucket string, log logrus.FieldLogger) bool {
	if rl == nil {
		return true
	}
	ok, err := rl.Allow(c.Request.Context(), bucket, c.ClientIP())
	if err != nil {
		log.WithError(err).WithField("bucket", bucket).Warn("rate limiter unavailable")
		return true
	}
	return ok
}
