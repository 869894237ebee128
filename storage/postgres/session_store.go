package pgstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/PaulFidika/oauthgate/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionStore keeps sessions in <schema>.sessions keyed by the SHA-256 of
// the token. The ttl argument is already reflected in rec.ExpiresAt; expired
// rows are removed lazily on validation and in bulk by the Sweeper.
type SessionStore struct {
	pg     *pgxpool.Pool
	schema string
}

func NewSessionStore(pg *pgxpool.Pool, schema string) *SessionStore {
	s := strings.TrimSpace(schema)
	if s == "" {
		s = "auth"
	}
	return &SessionStore{pg: pg, schema: s}
}

func (s *SessionStore) table() string { return s.schema + ".sessions" }

func tokenHash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (s *SessionStore) Put(ctx context.Context, token string, rec core.SessionRecord, ttl time.Duration) error {
	if s.pg == nil {
		return errors.New("sessions: no database")
	}
	_ = ttl
	_, err := s.pg.Exec(ctx, `INSERT INTO `+s.table()+` (token_hash, principal_id, created_at, expires_at)
		VALUES ($1, $2::uuid, $3, $4)`,
		tokenHash(token), rec.PrincipalID, rec.CreatedAt, rec.ExpiresAt)
	return err
}

func (s *SessionStore) Get(ctx context.Context, token string) (core.SessionRecord, bool, error) {
	if s.pg == nil {
		return core.SessionRecord{}, false, errors.New("sessions: no database")
	}
	var rec core.SessionRecord
	err := s.pg.QueryRow(ctx, `SELECT principal_id::text, created_at, expires_at FROM `+s.table()+` WHERE token_hash=$1`,
		tokenHash(token)).Scan(&rec.PrincipalID, &rec.CreatedAt, &rec.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.SessionRecord{}, false, nil
	}
	if err != nil {
		return core.SessionRecord{}, false, err
	}
	return rec, true, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if s.pg == nil {
		return errors.New("sessions: no database")
	}
	_, err := s.pg.Exec(ctx, `DELETE FROM `+s.table()+` WHERE token_hash=$1`, tokenHash(token))
	return err
}

// DeleteExpired removes every session that expired before now.
func (s *SessionStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if s.pg == nil {
		return 0, errors.New("sessions: no database")
	}
	tag, err := s.pg.Exec(ctx, `DELETE FROM `+s.table()+` WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

var _ core.SessionStore = (*SessionStore)(nil)
