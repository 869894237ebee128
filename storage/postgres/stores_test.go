package pgstore

import (
	"context"
	"testing"
	"time"

	"github.com/PaulFidika/oauthgate/core"
)

func TestTokenHash(t *testing.T) {
	h := tokenHash("abc")
	if h != "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad" {
		t.Fatalf("unexpected hash %q", h)
	}
	if tokenHash("abd") == h {
		t.Fatalf("expected distinct hashes")
	}
}

func TestStores_SchemaDefault(t *testing.T) {
	if got := NewSessionStore(nil, " ").table(); got != "auth.sessions" {
		t.Fatalf("unexpected table %q", got)
	}
	if got := NewAuditStore(nil, "tenant").table(); got != "tenant.login_events" {
		t.Fatalf("unexpected table %q", got)
	}
}

func TestStores_NoDatabase(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore(nil, "")
	if err := s.Put(ctx, "t", core.SessionRecord{}, time.Hour); err == nil {
		t.Fatalf("expected error without database")
	}
	if _, _, err := s.Get(ctx, "t"); err == nil {
		t.Fatalf("expected error without database")
	}
	if _, err := s.DeleteExpired(ctx, time.Now()); err == nil {
		t.Fatalf("expected error without database")
	}
	a := NewAuditStore(nil, "")
	if err := a.Append(ctx, core.LoginEvent{}); err == nil {
		t.Fatalf("expected error without database")
	}
	if _, err := a.ListByPrincipal(ctx, "p", 10); err == nil {
		t.Fatalf("expected error without database")
	}
}

func TestNewAuditQueue_RequiresStore(t *testing.T) {
	if _, err := NewAuditQueue(nil, nil, 0, nil); err == nil {
		t.Fatalf("expected error without audit store")
	}
}
