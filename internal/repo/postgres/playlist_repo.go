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

var ErrPlaylistNotFound = errors.New("playlist not found")

type PlaylistRepo struct {
	pool *pgxpool.Pool
}

func NewPlaylistRepo(pool *pgxpool.Pool) *PlaylistRepo {
	return &PlaylistRepo{pool: pool}
}

func (r *PlaylistRepo) Create(ctx context.Context, categoryID int64, name, description string) (model.Playlist, error) {
	if r.pool == nil {
		return model.Playlist{}, fmt.Errorf("postgres pool is nil")
	}

	var playlist model.Playlist
	err := r.pool.QueryRow(ctx, `
INSERT INTO playlists (category_id, name, description, created_at, updated_at)
VALUES ($1, $2, $3, NOW(), NOW())
RETURNING id, category_id, name, description, cover_key, created_at, updated_at
`, categoryID, strings.TrimSpace(name), strings.TrimSpace(description)).
		Scan(&playlist.ID, &playlist.CategoryID, &playlist.Name, &playlist.Description,
			&playlist.CoverKey, &playlist.CreatedAt, &playlist.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return model.Playlist{}, ErrCategoryNotFound
		}
		return model.Playlist{}, fmt.Errorf("insert playlist: %w", err)
	}

	return playlist, nil
}

func (r *PlaylistRepo) Get(ctx context.Context, id int64) (model.Playlist, error) {
	if r.pool == nil {
		return model.Playlist{}, fmt.Errorf("postgres pool is nil")
	}

	var playlist model.Playlist
	err := r.pool.QueryRow(ctx, `
SELECT id, category_id, name, description, cover_key, created_at, updated_at
FROM playlists
WHERE id = $1
`, id).Scan(&playlist.ID, &playlist.CategoryID, &playlist.Name, &playlist.Description,
		&playlist.CoverKey, &playlist.CreatedAt, &playlist.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Playlist{}, ErrPlaylistNotFound
		}
		return model.Playlist{}, fmt.Errorf("get playlist: %w", err)
	}

	return playlist, nil
}

func (r *PlaylistRepo) ListByCategory(ctx context.Context, categoryID int64, offset, limit int) ([]model.Playlist, int64, error) {
	if r.pool == nil {
		return nil, 0, fmt.Errorf("postgres pool is nil")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `
SELECT COUNT(*) FROM playlists WHERE category_id = $1
`, categoryID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count playlists: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, category_id, name, description, cover_key, created_at, updated_at
FROM playlists
WHERE category_id = $1
ORDER BY name
OFFSET $2 LIMIT $3
`, categoryID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list playlists: %w", err)
	}
	defer rows.Close()

	var playlists []model.Playlist
	for rows.Next() {
		var playlist model.Playlist
		if err := rows.Scan(&playlist.ID, &playlist.CategoryID, &playlist.Name, &playlist.Description,
			&playlist.CoverKey, &playlist.CreatedAt, &playlist.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan playlist: %w", err)
		}
		playlists = append(playlists, playlist)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate playlists: %w", err)
	}

	return playlists, total, nil
}

func (r *PlaylistRepo) Update(ctx context.Context, id int64, name, description string) (model.Playlist, error) {
	if r.pool == nil {
		return model.Playlist{}, fmt.Errorf("postgres pool is nil")
	}

	var playlist model.Playlist
	err := r.pool.QueryRow(ctx, `
UPDATE playlists
SET name = $2, description = $3, updated_at = NOW()
WHERE id = $1
RETURNING id, category_id, name, description, cover_key, created_at, updated_at
`, id, strings.TrimSpace(name), strings.TrimSpace(description)).
		Scan(&playlist.ID, &playlist.CategoryID, &playlist.Name, &playlist.Description,
			&playlist.CoverKey, &playlist.CreatedAt, &playlist.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Playlist{}, ErrPlaylistNotFound
		}
		return model.Playlist{}, fmt.Errorf("update playlist: %w", err)
	}

	return playlist, nil
}

func (r *PlaylistRepo) SetCoverKey(ctx context.Context, id int64, coverKey string) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	res, err := r.pool.Exec(ctx, `
UPDATE playlists
SET cover_key = $2, updated_at = NOW()
WHERE id = $1
`, id, coverKey)
	if err != nil {
		return fmt.Errorf("set playlist cover: %w", err)
	}
	if res.RowsAffected() == 0 {
		return ErrPlaylistNotFound
	}

	return nil
}

func (r *PlaylistRepo) Delete(ctx context.Context, id int64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	res, err := r.pool.Exec(ctx, `
DELETE FROM playlists
WHERE id = $1
`, id)
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	if res.RowsAffected() == 0 {
		return ErrPlaylistNotFound
	}

	return nil
}
