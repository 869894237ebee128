// Package pgstore holds the Postgres-backed audit and session stores, the
// expired-session sweeper, and the queue that makes audit writes asynchronous.
package pgstore

import (
	"context"
	"errors"
	"strings"

	"github.com/PaulFidika/oauthgate/core"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditStore appends login events to <schema>.login_events.
type AuditStore struct {
	pg     *pgxpool.Pool
	schema string
}

func NewAuditStore(pg *pgxpool.Pool, schema string) *AuditStore {
	s := strings.TrimSpace(schema)
	if s == "" {
		s = "auth"
	}
	return &AuditStore{pg: pg, schema: s}
}

func (s *AuditStore) table() string { return s.schema + ".login_events" }

func (s *AuditStore) Append(ctx context.Context, ev core.LoginEvent) error {
	if s.pg == nil {
		return errors.New("audit: no database")
	}
	_, err := s.pg.Exec(ctx, `INSERT INTO `+s.table()+`
		(principal_id, email, occurred_at, source_ip, user_agent)
		VALUES ($1::uuid, $2, $3, $4, $5)`,
		ev.PrincipalID, ev.Email, ev.OccurredAt, ev.SourceIP, ev.UserAgent)
	return err
}

// ListByPrincipal orders by occurred_at then the serial id so that events
// sharing a timestamp still come back newest first.
func (s *AuditStore) ListByPrincipal(ctx context.Context, principalID string, limit int) ([]core.LoginEvent, error) {
	if s.pg == nil {
		return nil, errors.New("audit: no database")
	}
	rows, err := s.pg.Query(ctx, `SELECT principal_id::text, email, occurred_at, source_ip, user_agent
		FROM `+s.table()+`
		WHERE principal_id=$1::uuid
		ORDER BY occurred_at DESC, id DESC
		LIMIT $2`, principalID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]core.LoginEvent, 0, limit)
	for rows.Next() {
		var ev core.LoginEvent
		if err := rows.Scan(&ev.PrincipalID, &ev.Email, &ev.OccurredAt, &ev.SourceIP, &ev.UserAgent); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

var _ core.AuditStore = (*AuditStore)(nil)
