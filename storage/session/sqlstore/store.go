// Package sqlstore keeps sessions in the Postgres "sessions" table.
package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/core/session"
)

const (
	upsertQuery = `INSERT INTO sessions (id, user_id, full_name, role, token, created_at, expires_at)
VALUES (:id, :user_id, :full_name, :role, :token, :created_at, :expires_at)
ON CONFLICT (id) DO UPDATE SET
    user_id = EXCLUDED.user_id, full_name = EXCLUDED.full_name, role = EXCLUDED.role,
    token = EXCLUDED.token, expires_at = EXCLUDED.expires_at`
	selectQuery = `SELECT id, user_id, full_name, role, token, created_at, expires_at FROM sessions WHERE id = $1`
	deleteQuery = `DELETE FROM sessions WHERE id = $1`
	purgeQuery  = `DELETE FROM sessions WHERE expires_at IS NOT NULL AND expires_at <= $1`
)

// row is a sessions table row. role holds the backend role value.
type row struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	FullName  string    `db:"full_name"`
	Role      string    `db:"role"`
	Token     string    `db:"token"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt null.Time `db:"expires_at"`
}

func toRow(sess session.Session) row {
	raw := sess.RawRole
	if raw == "" {
		raw = sess.Role.String()
	}
	r := row{
		ID:        sess.ID,
		UserID:    sess.UserID,
		FullName:  sess.FullName,
		Role:      raw,
		Token:     sess.Token,
		CreatedAt: sess.CreatedAt.UTC(),
	}
	if !sess.ExpiresAt.IsZero() {
		r.ExpiresAt = null.TimeFrom(sess.ExpiresAt.UTC())
	}
	return r
}

func (r row) session() session.Session {
	role, _ := session.ParseRole(r.Role)
	sess := session.Session{
		ID:        r.ID,
		UserID:    r.UserID,
		FullName:  r.FullName,
		Role:      role,
		RawRole:   r.Role,
		Token:     r.Token,
		CreatedAt: r.CreatedAt.UTC(),
	}
	if r.ExpiresAt.Valid {
		sess.ExpiresAt = r.ExpiresAt.Time.UTC()
	}
	return sess
}

type Store struct {
	db core.DBExecutor
}

var _ session.Store = (*Store)(nil)

func NewStore(db core.DBExecutor) *Store {
	return &Store{db: db}
}

func (s *Store) Save(ctx context.Context, sess session.Session) error {
	_, err := s.db.NamedExecContext(ctx, upsertQuery, toRow(sess))
	return errors.Wrap(err, "saving session")
}

func (s *Store) Get(ctx context.Context, id string) (session.Session, error) {
	var r row
	if err := s.db.GetContext(ctx, &r, selectQuery, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return session.Session{}, session.ErrNotFound
		}
		return session.Session{}, errors.Wrap(err, "getting session")
	}
	return r.session(), nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, deleteQuery, id)
	if err != nil {
		return errors.Wrap(err, "deleting session")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return session.ErrNotFound
	}
	return nil
}

// Purge deletes the sessions expired at now and returns how many were removed.
func (s *Store) Purge(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, purgeQuery, now.UTC())
	if err != nil {
		return 0, errors.Wrap(err, "purging sessions")
	}
	return res.RowsAffected()
}
