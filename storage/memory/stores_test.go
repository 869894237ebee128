package memorystore

import (
	"context"
	"testing"
	"time"

	"github.com/PaulFidika/oauthgate/core"
	oidckit "github.com/PaulFidika/oauthgate/oidc"
)

func TestIdentityStore_InsertIfAbsent(t *testing.T) {
	s := NewIdentityStore()
	ctx := context.Background()
	now := time.Now()
	ok, err := s.InsertIfAbsent(ctx, core.Principal{ID: "a", ExternalID: "g-1", CreatedAt: now, LastLoginAt: now})
	if err != nil || !ok {
		t.Fatalf("expected insert, got %v %v", ok, err)
	}
	ok, _ = s.InsertIfAbsent(ctx, core.Principal{ID: "b", ExternalID: "g-1"})
	if ok {
		t.Fatalf("expected duplicate external id to be rejected")
	}
	p, _ := s.FindByExternalID(ctx, "g-1")
	if p == nil || p.ID != "a" {
		t.Fatalf("expected original principal, got %+v", p)
	}
	if q, _ := s.FindByID(ctx, "b"); q != nil {
		t.Fatalf("loser of the insert must not be stored")
	}
}

func TestIdentityStore_TouchLastLogin(t *testing.T) {
	s := NewIdentityStore()
	ctx := context.Background()
	now := time.Now()
	if p, _ := s.TouchLastLogin(ctx, "missing", now); p != nil {
		t.Fatalf("expected nil for unknown principal")
	}
	_, _ = s.InsertIfAbsent(ctx, core.Principal{ID: "a", ExternalID: "g-1", LastLoginAt: now})
	p, _ := s.TouchLastLogin(ctx, "g-1", now.Add(-time.Hour))
	if !p.LastLoginAt.After(now) {
		t.Fatalf("expected last login to move forward, got %v", p.LastLoginAt)
	}
	// Returned values are copies.
	p.Email = "changed"
	if q, _ := s.FindByID(ctx, "a"); q.Email == "changed" {
		t.Fatalf("store leaked internal pointer")
	}
}

func TestSessionStore_PutGetDelete(t *testing.T) {
	s := NewSessionStore()
	defer s.Close()
	ctx := context.Background()
	rec := core.SessionRecord{PrincipalID: "a"}
	if err := s.Put(ctx, "tok", rec, time.Hour); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := s.Get(ctx, "tok")
	if err != nil || !ok || got.PrincipalID != "a" {
		t.Fatalf("unexpected Get: %+v %v %v", got, ok, err)
	}
	if err := s.Delete(ctx, "tok"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "tok"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "tok"); ok {
		t.Fatalf("expected session gone")
	}
}

func TestSessionStore_ExpiredEntryMissing(t *testing.T) {
	s := NewSessionStore()
	defer s.Close()
	_ = s.Put(context.Background(), "tok", core.SessionRecord{PrincipalID: "a"}, -time.Second)
	if _, ok, _ := s.Get(context.Background(), "tok"); ok {
		t.Fatalf("expected expired entry to be missing")
	}
}

func TestAuditStore_NewestFirstWithLimit(t *testing.T) {
	s := NewAuditStore()
	ctx := context.Background()
	base := time.Now()
	for i := 0; i < 5; i++ {
		_ = s.Append(ctx, core.LoginEvent{PrincipalID: "a", OccurredAt: base.Add(time.Duration(i) * time.Second), UserAgent: string(rune('0' + i))})
	}
	_ = s.Append(ctx, core.LoginEvent{PrincipalID: "b", OccurredAt: base})

	evs, _ := s.ListByPrincipal(ctx, "a", 3)
	if len(evs) != 3 {
		t.Fatalf("expected 3 events, got %d", len(evs))
	}
	if evs[0].UserAgent != "4" || evs[2].UserAgent != "2" {
		t.Fatalf("unexpected order: %+v", evs)
	}
	if evs, _ := s.ListByPrincipal(ctx, "b", 10); len(evs) != 1 {
		t.Fatalf("expected events scoped by principal")
	}
}

func TestAuditStore_EqualTimestampsKeepInsertionOrderReversed(t *testing.T) {
	s := NewAuditStore()
	at := time.Now()
	_ = s.Append(context.Background(), core.LoginEvent{PrincipalID: "a", OccurredAt: at, UserAgent: "first"})
	_ = s.Append(context.Background(), core.LoginEvent{PrincipalID: "a", OccurredAt: at, UserAgent: "second"})
	evs, _ := s.ListByPrincipal(context.Background(), "a", 10)
	if evs[0].UserAgent != "second" {
		t.Fatalf("expected latest append first, got %q", evs[0].UserAgent)
	}
}

func TestStateCache_TakeIsSingleUse(t *testing.T) {
	c := NewStateCache(time.Minute)
	defer c.Close()
	ctx := context.Background()
	_ = c.Put(ctx, "s1", oidckit.StateData{Verifier: "v", Nonce: "n"})
	got, ok, err := c.Take(ctx, "s1")
	if err != nil || !ok || got.Verifier != "v" || got.Nonce != "n" {
		t.Fatalf("unexpected Take: %+v %v %v", got, ok, err)
	}
	if _, ok, _ := c.Take(ctx, "s1"); ok {
		t.Fatalf("expected state to be consumed")
	}
}
