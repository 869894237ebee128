package pgstore

import (
	"context"
	"errors"

	"github.com/PaulFidika/oauthgate/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/sirupsen/logrus"
)

// LoginEventArgs is the river job carrying one login event.
type LoginEventArgs struct {
	Event core.LoginEvent `json:"event"`
}

func (LoginEventArgs) Kind() string { return "login_event" }

type loginEventWorker struct {
	river.WorkerDefaults[LoginEventArgs]
	store *AuditStore
}

func (w *loginEventWorker) Work(ctx context.Context, job *river.Job[LoginEventArgs]) error {
	return w.store.Append(ctx, job.Args.Event)
}

// AuditQueue is a core.AuditStore whose appends are enqueued as river jobs
// and written to the AuditStore by workers, with river's retries. History
// reads go straight to the AuditStore, so a just-enqueued event may not be
// visible yet.
type AuditQueue struct {
	client *river.Client[pgx.Tx]
	store  *AuditStore
	log    logrus.FieldLogger
}

// NewAuditQueue builds a river client on pool. River's own schema must be
// migrated beforehand (see migrations.MigrateRiver).
func NewAuditQueue(pool *pgxpool.Pool, store *AuditStore, maxWorkers int, log logrus.FieldLogger) (*AuditQueue, error) {
	if store == nil {
		return nil, errors.New("audit queue: store required")
	}
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	workers := river.NewWorkers()
	river.AddWorker(workers, &loginEventWorker{store: store})
	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues:  map[string]river.QueueConfig{river.QueueDefault: {MaxWorkers: maxWorkers}},
		Workers: workers,
	})
	if err != nil {
		return nil, err
	}
	return &AuditQueue{client: client, store: store, log: log}, nil
}

func (q *AuditQueue) Start(ctx context.Context) error { return q.client.Start(ctx) }

// Stop waits for in-flight jobs to finish.
func (q *AuditQueue) Stop(ctx context.Context) error { return q.client.Stop(ctx) }

func (q *AuditQueue) Append(ctx context.Context, ev core.LoginEvent) error {
	if _, err := q.client.Insert(ctx, LoginEventArgs{Event: ev}, nil); err != nil {
		return err
	}
	q.log.WithField("principal_id", ev.PrincipalID).Debug("login event enqueued")
	return nil
}

func (q *AuditQueue) ListByPrincipal(ctx context.Context, principalID string, limit int) ([]core.LoginEvent, error) {
	return q.store.ListByPrincipal(ctx, principalID, limit)
}

var _ core.AuditStore = (*AuditQueue)(nil)
