package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already taken")
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

type UserRecord struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Roles        []string
	CreatedAt    time.Time
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// CreateWithRoles inserts the user row and its role assignments in one
// transaction. A failed role insert rolls back the user row as well.
func (r *UserRepo) CreateWithRoles(ctx context.Context, username, email, passwordHash string, roles []string) (UserRecord, error) {
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || passwordHash == "" {
		return UserRecord{}, fmt.Errorf("invalid user payload")
	}
	if len(roles) == 0 {
		return UserRecord{}, fmt.Errorf("at least one role is required")
	}

	var user UserRecord
	err := WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
INSERT INTO users (username, email, password_hash, created_at, updated_at)
VALUES ($1, $2, $3, NOW(), NOW())
RETURNING id, username, email, password_hash, created_at
`, strings.TrimSpace(username), strings.TrimSpace(email), passwordHash).
			Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
		if err != nil {
			return translateUserConflict(err)
		}

		for _, role := range roles {
			if _, err := tx.Exec(ctx, `
INSERT INTO user_roles (user_id, role)
VALUES ($1, $2)
`, user.ID, role); err != nil {
				return fmt.Errorf("assign role %q: %w", role, err)
			}
		}
		user.Roles = append(user.Roles, roles...)

		return nil
	})
	if err != nil {
		return UserRecord{}, err
	}

	return user, nil
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (UserRecord, error) {
	return r.findOne(ctx, `LOWER(u.username) = LOWER($1)`, strings.TrimSpace(username))
}

func (r *UserRepo) FindByID(ctx context.Context, userID int64) (UserRecord, error) {
	if userID <= 0 {
		return UserRecord{}, ErrUserNotFound
	}
	return r.findOne(ctx, `u.id = $1`, userID)
}

func (r *UserRepo) findOne(ctx context.Context, where string, arg any) (UserRecord, error) {
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}

	query := fmt.Sprintf(`
SELECT u.id, u.username, u.email, u.password_hash, u.created_at,
       COALESCE(ARRAY_AGG(r.role) FILTER (WHERE r.role IS NOT NULL), '{}')
FROM users u
LEFT JOIN user_roles r ON r.user_id = u.id
WHERE %s
GROUP BY u.id
`, where)

	var user UserRecord
	err := r.pool.QueryRow(ctx, query, arg).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.Roles)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, fmt.Errorf("find user: %w", err)
	}

	return user, nil
}

func translateUserConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch pgErr.ConstraintName {
		case "users_username_key":
			return ErrUsernameTaken
		case "users_email_key":
			return ErrEmailTaken
		}
	}
	return fmt.Errorf("insert user: %w", err)
}
