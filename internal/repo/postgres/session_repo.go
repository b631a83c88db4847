package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRepo struct {
	pool *pgxpool.Pool
}

type SessionRecord struct {
	ID           string
	UserID       int64
	RefreshToken string
	ExpiresAt    time.Time
}

func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

func (r *SessionRepo) Create(ctx context.Context, session SessionRecord) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(session.ID) == "" || session.UserID <= 0 || session.RefreshToken == "" {
		return fmt.Errorf("invalid session payload")
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO sessions (id, user_id, refresh_token, expires_at, last_rotated_at, created_at)
VALUES ($1, $2, $3, $4, NOW(), NOW())
`, session.ID, session.UserID, session.RefreshToken, session.ExpiresAt.UTC()); err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

func (r *SessionRepo) Get(ctx context.Context, sid string) (SessionRecord, error) {
	if r.pool == nil {
		return SessionRecord{}, fmt.Errorf("postgres pool is nil")
	}

	var session SessionRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, user_id, refresh_token, expires_at
FROM sessions
WHERE id = $1
`, sid).Scan(&session.ID, &session.UserID, &session.RefreshToken, &session.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SessionRecord{}, ErrSessionNotFound
		}
		return SessionRecord{}, fmt.Errorf("get session: %w", err)
	}

	return session, nil
}

func (r *SessionRepo) IsValid(ctx context.Context, sid, refreshToken string) (bool, error) {
	session, err := r.Get(ctx, sid)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return false, nil
		}
		return false, err
	}
	if time.Now().After(session.ExpiresAt) {
		return false, nil
	}
	return session.RefreshToken == refreshToken, nil
}

// Rotate swaps the stored refresh token for a new one. The WHERE clause
// only matches the current token of a live session, so of two racing
// refresh calls exactly one sees a row and the other gets
// ErrSessionNotFound. The superseded token can never win the race back.
func (r *SessionRepo) Rotate(ctx context.Context, sid, oldToken, newToken string, expiresAt time.Time) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(sid) == "" || oldToken == "" || newToken == "" {
		return fmt.Errorf("invalid rotation payload")
	}

	res, err := r.pool.Exec(ctx, `
UPDATE sessions
SET refresh_token = $3,
    expires_at = $4,
    last_rotated_at = NOW()
WHERE id = $1
  AND refresh_token = $2
  AND expires_at > NOW()
`, sid, oldToken, newToken, expiresAt.UTC())
	if err != nil {
		return fmt.Errorf("rotate session: %w", err)
	}
	if res.RowsAffected() == 0 {
		return ErrSessionNotFound
	}

	return nil
}

func (r *SessionRepo) Delete(ctx context.Context, sid string) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(sid) == "" {
		return nil
	}

	res, err := r.pool.Exec(ctx, `
DELETE FROM sessions
WHERE id = $1
`, sid)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if res.RowsAffected() == 0 {
		return ErrSessionNotFound
	}

	return nil
}

func (r *SessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	res, err := r.pool.Exec(ctx, `
DELETE FROM sessions
WHERE expires_at <= NOW()
`)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}

	return res.RowsAffected(), nil
}
