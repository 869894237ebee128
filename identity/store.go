package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/PaulFidika/oauthgate/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists principals in Postgres. The unique index on external_id is
// what makes concurrent first logins collapse into one row.
type Store struct {
	pg     *pgxpool.Pool
	schema string
}

func NewStore(pg *pgxpool.Pool, schema string) *Store {
	s := strings.TrimSpace(schema)
	if s == "" {
		s = "auth"
	}
	return &Store{pg: pg, schema: s}
}

func (s *Store) principalsTable() string { return s.schema + ".principals" }

const principalColumns = `id::text, external_id, email, display_name, avatar_url, created_at, last_login_at`

func scanPrincipal(row pgx.Row) (*core.Principal, error) {
	var p core.Principal
	err := row.Scan(&p.ID, &p.ExternalID, &p.Email, &p.DisplayName, &p.AvatarURL, &p.CreatedAt, &p.LastLoginAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) FindByID(ctx context.Context, id string) (*core.Principal, error) {
	if s.pg == nil {
		return nil, errors.New("identity: no database")
	}
	if strings.TrimSpace(id) == "" {
		return nil, nil
	}
	return scanPrincipal(s.pg.QueryRow(ctx,
		`SELECT `+principalColumns+` FROM `+s.principalsTable()+` WHERE id=$1::uuid LIMIT 1`, id))
}

func (s *Store) FindByExternalID(ctx context.Context, externalID string) (*core.Principal, error) {
	if s.pg == nil {
		return nil, errors.New("identity: no database")
	}
	return scanPrincipal(s.pg.QueryRow(ctx,
		`SELECT `+principalColumns+` FROM `+s.principalsTable()+` WHERE external_id=$1 LIMIT 1`, externalID))
}

// InsertIfAbsent relies on ON CONFLICT DO NOTHING; zero affected rows means
// another writer owns the external id.
func (s *Store) InsertIfAbsent(ctx context.Context, p core.Principal) (bool, error) {
	if s.pg == nil {
		return false, errors.New("identity: no database")
	}
	tag, err := s.pg.Exec(ctx, `INSERT INTO `+s.principalsTable()+`
		(id, external_id, email, display_name, avatar_url, created_at, last_login_at)
		VALUES ($1::uuid, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (external_id) DO NOTHING`,
		p.ID, p.ExternalID, p.Email, p.DisplayName, p.AvatarURL, p.CreatedAt, p.LastLoginAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// TouchLastLogin advances last_login_at in a single statement. GREATEST keeps
// the column strictly increasing when two logins land in the same microsecond.
func (s *Store) TouchLastLogin(ctx context.Context, externalID string, at time.Time) (*core.Principal, error) {
	if s.pg == nil {
		return nil, errors.New("identity: no database")
	}
	return scanPrincipal(s.pg.QueryRow(ctx, `UPDATE `+s.principalsTable()+`
		SET last_login_at = GREATEST($2::timestamptz, last_login_at + interval '1 microsecond')
		WHERE external_id=$1
		RETURNING `+principalColumns, externalID, at))
}

var _ core.IdentityStore = (*Store)(nil)
