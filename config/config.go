// Package config loads gateway settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration. DATABASE_URL and REDIS_URL are
// optional; without them the gateway keeps everything in memory, which only
// suits a single local instance.
type Config struct {
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID,required"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET,required"`
	CallbackURL        string `env:"OAUTH_CALLBACK_URL" envDefault:"http://localhost:3000/auth/google/callback"`
	GoogleIssuer       string `env:"GOOGLE_ISSUER" envDefault:"https://accounts.google.com"`

	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`

	SessionSecret string        `env:"SESSION_SECRET,required"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":3000"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// TrustedProxies lists the proxies whose X-Forwarded-For is believed.
	// Empty means the peer address is always the client address.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	LoginHistoryLimit    int    `env:"LOGIN_HISTORY_LIMIT" envDefault:"10"`
	SessionSweepSchedule string `env:"SESSION_SWEEP_SCHEDULE" envDefault:"@hourly"`
	AuditAsync           bool   `env:"AUDIT_ASYNC"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if len(c.SessionSecret) < 16 {
		return errors.New("config: SESSION_SECRET must be at least 16 bytes")
	}
	if c.SessionTTL <= 0 {
		return errors.New("config: SESSION_TTL must be positive")
	}
	if c.LoginHistoryLimit <= 0 {
		return errors.New("config: LOGIN_HISTORY_LIMIT must be positive")
	}
	if c.AuditAsync && c.DatabaseURL == "" {
		return errors.New("config: AUDIT_ASYNC requires DATABASE_URL")
	}
	return nil
}

// Production reports whether cookies must be marked Secure.
func (c Config) Production() bool {
	return strings.EqualFold(strings.TrimSpace(c.AppEnv), "production")
}
