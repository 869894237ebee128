package pgstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
)

type fakeDeleter struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeDeleter) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return 3, f.err
}

func TestSweeper_SweepCallsStore(t *testing.T) {
	d := &fakeDeleter{}
	log, hook := test.NewNullLogger()
	s, err := NewSweeper(d, "", log)
	if err != nil {
		t.Fatalf("NewSweeper: %v", err)
	}
	s.Sweep()
	if d.calls != 1 {
		t.Fatalf("expected one call, got %d", d.calls)
	}
	d.err = errors.New("db down")
	s.Sweep()
	if hook.LastEntry() == nil || hook.LastEntry().Message != "session sweep failed" {
		t.Fatalf("expected sweep failure to be logged")
	}
}

func TestSweeper_RejectsBadSchedule(t *testing.T) {
	if _, err := NewSweeper(&fakeDeleter{}, "not a schedule", nil); err == nil {
		t.Fatalf("expected schedule parse error")
	}
}

func TestSweeper_StartStop(t *testing.T) {
	s, err := NewSweeper(&fakeDeleter{}, "@every 1h", nil)
	if err != nil {
		t.Fatalf("NewSweeper: %v", err)
	}
	s.Start()
	s.Stop()
}
