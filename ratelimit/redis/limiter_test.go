package redislimiter

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_NilClientAllows(t *testing.T) {
	l := New(nil, nil)
	ok, err := l.Allow(context.Background(), "b", "k")
	if err != nil || !ok {
		t.Fatalf("expected allow without redis, got %v %v", ok, err)
	}
}

func TestLimiter_LimitLookup(t *testing.T) {
	l := New(nil, map[string]Limit{
		"login":   {Limit: 5, Window: time.Second},
		"default": {Limit: 50, Window: time.Minute},
	})
	if got := l.get("login"); got.Limit != 5 || got.Window != time.Second {
		t.Fatalf("unexpected bucket limit %+v", got)
	}
	if got := l.get("other"); got.Limit != 50 {
		t.Fatalf("expected default bucket, got %+v", got)
	}
	if got := New(nil, nil).get("x"); got.Limit != 100 || got.Window != time.Minute {
		t.Fatalf("expected built-in default, got %+v", got)
	}
	if l.prefix != "auth:rl:" {
		t.Fatalf("unexpected prefix %q", l.prefix)
	}
}
