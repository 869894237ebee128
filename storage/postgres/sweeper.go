package pgstore

import (
	"context"
	"time"

	"github.com/PaulFidika/oauthgate/metrics"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DefaultSweepSchedule runs the sweep at the top of every hour.
const DefaultSweepSchedule = "@hourly"

// ExpiredSessionDeleter is the part of SessionStore the sweeper needs.
type ExpiredSessionDeleter interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Sweeper periodically deletes expired session rows. Validation already
// treats them as invalid; this only keeps the table small.
type Sweeper struct {
	cron    *cron.Cron
	store   ExpiredSessionDeleter
	log     logrus.FieldLogger
	timeout time.Duration
}

// NewSweeper schedules the sweep using a standard cron spec or descriptor
// (default @hourly). Call Start to begin.
func NewSweeper(store ExpiredSessionDeleter, schedule string, log logrus.FieldLogger) (*Sweeper, error) {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Sweeper{cron: cron.New(), store: store, log: log, timeout: time.Minute}
	if _, err := s.cron.AddFunc(schedule, s.Sweep); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Sweeper) Start() { s.cron.Start() }

// Stop halts scheduling and waits for a running sweep to finish.
func (s *Sweeper) Stop() { <-s.cron.Stop().Done() }

// Sweep runs a single pass.
func (s *Sweeper) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	n, err := s.store.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.log.WithError(err).Warn("session sweep failed")
		return
	}
	metrics.SessionsSweptTotal.Add(float64(n))
	if n > 0 {
		s.log.WithField("deleted", n).Info("expired sessions swept")
	}
}
