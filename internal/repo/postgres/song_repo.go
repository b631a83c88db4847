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

var ErrSongNotFound = errors.New("song not found")

type SongRepo struct {
	pool *pgxpool.Pool
}

func NewSongRepo(pool *pgxpool.Pool) *SongRepo {
	return &SongRepo{pool: pool}
}

func (r *SongRepo) Create(ctx context.Context, playlistID int64, title, artist string, durationSec int, trackURL string) (model.Song, error) {
	if r.pool == nil {
		return model.Song{}, fmt.Errorf("postgres pool is nil")
	}

	var song model.Song
	err := r.pool.QueryRow(ctx, `
INSERT INTO songs (playlist_id, title, artist, duration_sec, track_url, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
RETURNING id, playlist_id, title, artist, duration_sec, track_url, created_at, updated_at
`, playlistID, strings.TrimSpace(title), strings.TrimSpace(artist), durationSec, strings.TrimSpace(trackURL)).
		Scan(&song.ID, &song.PlaylistID, &song.Title, &song.Artist, &song.DurationSec,
			&song.TrackURL, &song.CreatedAt, &song.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return model.Song{}, ErrPlaylistNotFound
		}
		return model.Song{}, fmt.Errorf("insert song: %w", err)
	}

	return song, nil
}

func (r *SongRepo) Get(ctx context.Context, id int64) (model.Song, error) {
	if r.pool == nil {
		return model.Song{}, fmt.Errorf("postgres pool is nil")
	}

	var song model.Song
	err := r.pool.QueryRow(ctx, `
SELECT id, playlist_id, title, artist, duration_sec, track_url, created_at, updated_at
FROM songs
WHERE id = $1
`, id).Scan(&song.ID, &song.PlaylistID, &song.Title, &song.Artist, &song.DurationSec,
		&song.TrackURL, &song.CreatedAt, &song.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Song{}, ErrSongNotFound
		}
		return model.Song{}, fmt.Errorf("get song: %w", err)
	}

	return song, nil
}

func (r *SongRepo) ListByPlaylist(ctx context.Context, playlistID int64, offset, limit int) ([]model.Song, int64, error) {
	if r.pool == nil {
		return nil, 0, fmt.Errorf("postgres pool is nil")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `
SELECT COUNT(*) FROM songs WHERE playlist_id = $1
`, playlistID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count songs: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, playlist_id, title, artist, duration_sec, track_url, created_at, updated_at
FROM songs
WHERE playlist_id = $1
ORDER BY id
OFFSET $2 LIMIT $3
`, playlistID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list songs: %w", err)
	}
	defer rows.Close()

	var songs []model.Song
	for rows.Next() {
		var song model.Song
		if err := rows.Scan(&song.ID, &song.PlaylistID, &song.Title, &song.Artist, &song.DurationSec,
			&song.TrackURL, &song.CreatedAt, &song.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan song: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate songs: %w", err)
	}

	return songs, total, nil
}

func (r *SongRepo) Update(ctx context.Context, id int64, title, artist string, durationSec int, trackURL string) (model.Song, error) {
	if r.pool == nil {
		return model.Song{}, fmt.Errorf("postgres pool is nil")
	}

	var song model.Song
	err := r.pool.QueryRow(ctx, `
UPDATE songs
SET title = $2, artist = $3, duration_sec = $4, track_url = $5, updated_at = NOW()
WHERE id = $1
RETURNING id, playlist_id, title, artist, duration_sec, track_url, created_at, updated_at
`, id, strings.TrimSpace(title), strings.TrimSpace(artist), durationSec, strings.TrimSpace(trackURL)).
		Scan(&song.ID, &song.PlaylistID, &song.Title, &song.Artist, &song.DurationSec,
			&song.TrackURL, &song.CreatedAt, &song.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Song{}, ErrSongNotFound
		}
		return model.Song{}, fmt.Errorf("update song: %w", err)
	}

	return song, nil
}

func (r *SongRepo) Delete(ctx context.Context, id int64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	res, err := r.pool.Exec(ctx, `
DELETE FROM songs
WHERE id = $1
`, id)
	if err != nil {
		return fmt.Errorf("delete song: %w", err)
	}
	if res.RowsAffected() == 0 {
		return ErrSongNotFound
	}

	return nil
}
