package session

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidshop/storefront/pkg/pg"
)

// PostgresStore implements Store on the sessions table created by the
// embedded migrations in pkg/pg.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store backed by pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const sessionColumns = `id, user_id, token, user_agent, created_at, expires_at, is_active`

// Create inserts a session row.
func (s *PostgresStore) Create(ctx context.Context, session *Session) error {
	if session == nil || session.ID == "" || session.Token == "" {
		return ErrInvalidSession
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO sessions (`+sessionColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		session.ID, session.UserID, session.Token, session.UserAgent,
		session.CreatedAt, session.ExpiresAt, session.IsActive,
	)
	if pg.IsDuplicateKeyError(err) {
		return ErrDuplicateToken
	}
	return err
}

// FindByToken fetches the session with the exact token.
func (s *PostgresStore) FindByToken(ctx context.Context, token string) (*Session, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE token = $1`, token)

	out, err := scanSession(row)
	if pg.IsNotFoundError(err) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Deactivate sets is_active to false.
func (s *PostgresStore) Deactivate(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE sessions SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ListActiveByUser returns active sessions of a user, oldest first.
func (s *PostgresStore) ListActiveByUser(ctx context.Context, userID string) ([]*Session, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE user_id = $1 AND is_active ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

func scanSession(row pgx.Row) (*Session, error) {
	var s Session
	if err := row.Scan(&s.ID, &s.UserID, &s.Token, &s.UserAgent, &s.CreatedAt, &s.ExpiresAt, &s.IsActive); err != nil {
		return nil, err
	}
	return &s, nil
}
