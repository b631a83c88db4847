package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ugis90/playlistplayer/internal/domain/model"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
)

type CategoryRepo struct {
	pool *pgxpool.Pool
}

func NewCategoryRepo(pool *pgxpool.Pool) *CategoryRepo {
	return &CategoryRepo{pool: pool}
}

func (r *CategoryRepo) Create(ctx context.Context, name, description string) (model.Category, error) {
	if r.pool == nil {
		return model.Category{}, fmt.Errorf("postgres pool is nil")
	}

	var category model.Category
	err := r.pool.QueryRow(ctx, `
INSERT INTO categories (name, description, created_at, updated_at)
VALUES ($1, $2, NOW(), NOW())
RETURNING id, name, description, created_at, updated_at
`, strings.TrimSpace(name), strings.TrimSpace(description)).
		Scan(&category.ID, &category.Name, &category.Description, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.Category{}, ErrCategoryExists
		}
		return model.Category{}, fmt.Errorf("insert category: %w", err)
	}

	return category, nil
}

func (r *CategoryRepo) Get(ctx context.Context, id int64) (model.Category, error) {
	if r.pool == nil {
		return model.Category{}, fmt.Errorf("postgres pool is nil")
	}

	var category model.Category
	err := r.pool.QueryRow(ctx, `
SELECT id, name, description, created_at, updated_at
FROM categories
WHERE id = $1
`, id).Scan(&category.ID, &category.Name, &category.Description, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Category{}, ErrCategoryNotFound
		}
		return model.Category{}, fmt.Errorf("get category: %w", err)
	}

	return category, nil
}

func (r *CategoryRepo) List(ctx context.Context, offset, limit int) ([]model.Category, int64, error) {
	if r.pool == nil {
		return nil, 0, fmt.Errorf("postgres pool is nil")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, name, description, created_at, updated_at
FROM categories
ORDER BY name
OFFSET $1 LIMIT $2
`, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var category model.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Description, &category.CreatedAt, &category.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate categories: %w", err)
	}

	return categories, total, nil
}

func (r *CategoryRepo) Update(ctx context.Context, id int64, name, description string) (model.Category, error) {
	if r.pool == nil {
		return model.Category{}, fmt.Errorf("postgres pool is nil")
	}

	var category model.Category
	err := r.pool.QueryRow(ctx, `
UPDATE categories
SET name = $2, description = $3, updated_at = NOW()
WHERE id = $1
RETURNING id, name, description, created_at, updated_at
`, id, strings.TrimSpace(name), strings.TrimSpace(description)).
		Scan(&category.ID, &category.Name, &category.Description, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Category{}, ErrCategoryNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.Category{}, ErrCategoryExists
		}
		return model.Category{}, fmt.Errorf("update category: %w", err)
	}

	return category, nil
}

// Delete removes the category; playlists and songs underneath go with it
// via ON DELETE CASCADE.
func (r *CategoryRepo) Delete(ctx context.Context, id int64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	res, err := r.pool.Exec(ctx, `
DELETE FROM categories
WHERE id = $1
`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if res.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}

	return nil
}
