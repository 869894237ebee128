package core

import (
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultSessionTTL is the fixed lifetime of a session.
	DefaultSessionTTL = 24 * time.Hour
	// DefaultHistoryLimit caps login history queries.
	DefaultHistoryLimit = 10
)

// Config wires the store capabilities into a Service.
type Config struct {
	Identities IdentityStore
	Audit      AuditStore
	Sessions   SessionStore

	// SessionTTL defaults to 24h. Sessions never slide.
	SessionTTL time.Duration
	// HistoryLimit is the maximum number of login events returned (default 10).
	HistoryLimit int

	Logger logrus.FieldLogger
	// Now is the clock; defaults to time.Now.
	Now func() time.Time
}

func (c Config) defaulted() Config {
	out := c
	if out.SessionTTL <= 0 {
		out.SessionTTL = DefaultSessionTTL
	}
	if out.HistoryLimit <= 0 {
		out.HistoryLimit = DefaultHistoryLimit
	}
	if out.Logger == nil {
		out.Logger = logrus.StandardLogger()
	}
	if out.Now == nil {
		out.Now = time.Now
	}
	return out
}
