package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "client")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")
	t.Setenv("SESSION_SECRET", "0123456789abcdef")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("expected 24h ttl, got %v", cfg.SessionTTL)
	}
	if cfg.LoginHistoryLimit != 10 || cfg.HTTPAddr != ":3000" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.GoogleIssuer != "https://accounts.google.com" {
		t.Fatalf("unexpected issuer %q", cfg.GoogleIssuer)
	}
	if cfg.Production() {
		t.Fatalf("expected development by default")
	}
	if len(cfg.TrustedProxies) != 0 {
		t.Fatalf("expected no trusted proxies by default, got %v", cfg.TrustedProxies)
	}
}

func TestLoad_TrustedProxies(t *testing.T) {
	setRequired(t)
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1,10.0.0.0/8")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.TrustedProxies) != 2 || cfg.TrustedProxies[1] != "10.0.0.0/8" {
		t.Fatalf("unexpected proxies %v", cfg.TrustedProxies)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "")
	t.Setenv("GOOGLE_CLIENT_SECRET", "")
	t.Setenv("SESSION_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without required settings")
	}
}

func TestLoad_ShortSecretRejected(t *testing.T) {
	setRequired(t)
	t.Setenv("SESSION_SECRET", "short")
	if _, err := Load(); err == nil {
		t.Fatalf("expected short secret to be rejected")
	}
}

func TestLoad_AsyncAuditNeedsDatabase(t *testing.T) {
	setRequired(t)
	t.Setenv("AUDIT_ASYNC", "true")
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for AUDIT_ASYNC without DATABASE_URL")
	}
}

func TestProduction(t *testing.T) {
	if !(Config{AppEnv: "Production"}).Production() {
		t.Fatalf("expected production")
	}
}
