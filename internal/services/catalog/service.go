package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ugis90/playlistplayer/internal/domain/model"
	pgrepo "github.com/ugis90/playlistplayer/internal/repo/postgres"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

type CategoryStore interface {
	Create(ctx context.Context, name, description string) (model.Category, error)
	Get(ctx context.Context, id int64) (model.Category, error)
	List(ctx context.Context, offset, limit int) ([]model.Category, int64, error)
	Update(ctx context.Context, id int64, name, description string) (model.Category, error)
	Delete(ctx context.Context, id int64) error
}

type PlaylistStore interface {
	Create(ctx context.Context, categoryID int64, name, description string) (model.Playlist, error)
	Get(ctx context.Context, id int64) (model.Playlist, error)
	ListByCategory(ctx context.Context, categoryID int64, offset, limit int) ([]model.Playlist, int64, error)
	Update(ctx context.Context, id int64, name, description string) (model.Playlist, error)
	SetCoverKey(ctx context.Context, id int64, coverKey string) error
	Delete(ctx context.Context, id int64) error
}

type SongStore interface {
	Create(ctx context.Context, playlistID int64, title, artist string, durationSec int, trackURL string) (model.Song, error)
	Get(ctx context.Context, id int64) (model.Song, error)
	ListByPlaylist(ctx context.Context, playlistID int64, offset, limit int) ([]model.Song, int64, error)
	Update(ctx context.Context, id int64, title, artist string, durationSec int, trackURL string) (model.Song, error)
	Delete(ctx context.Context, id int64) error
}

type ListingCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	InvalidateScope(ctx context.Context, scope string) error
}

type CoverStorage interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type Config struct {
	CacheTTL        time.Duration
	DefaultPageSize int
	MaxPageSize     int
	CoverURLTTL     time.Duration
}

type Page struct {
	Number int
	Size   int
}

type CategoriesPage struct {
	Items    []model.Category
	Total    int64
	Page     int
	PageSize int
}

type PlaylistsPage struct {
	Items    []model.Playlist
	Total    int64
	Page     int
	PageSize int
}

type SongsPage struct {
	Items    []model.Song
	Total    int64
	Page     int
	PageSize int
}

type Service struct {
	categories CategoryStore
	playlists  PlaylistStore
	songs      SongStore
	cache      ListingCache
	covers     CoverStorage
	cfg        Config
}

func NewService(categories CategoryStore, playlists PlaylistStore, songs SongStore, cfg Config) *Service {
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 20
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 100
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.CoverURLTTL <= 0 {
		cfg.CoverURLTTL = time.Hour
	}

	return &Service{
		categories: categories,
		playlists:  playlists,
		songs:      songs,
		cfg:        cfg,
	}
}

// AttachCache enables read-through caching for listing calls. Without it
// every listing goes straight to the store.
func (s *Service) AttachCache(cache ListingCache) {
	s.cache = cache
}

func (s *Service) AttachCovers(covers CoverStorage) {
	s.covers = covers
}

func (s *Service) normalizePage(page Page) Page {
	if page.Number <= 0 {
		page.Number = 1
	}
	if page.Size <= 0 {
		page.Size = s.cfg.DefaultPageSize
	}
	if page.Size > s.cfg.MaxPageSize {
		page.Size = s.cfg.MaxPageSize
	}
	return page
}

func (s *Service) CreateCategory(ctx context.Context, name, description string) (model.Category, error) {
	if strings.TrimSpace(name) == "" {
		return model.Category{}, fmt.Errorf("category name is required: %w", ErrValidation)
	}

	category, err := s.categories.Create(ctx, name, description)
	if err != nil {
		if errors.Is(err, pgrepo.ErrCategoryExists) {
			return model.Category{}, fmt.Errorf("category name is taken: %w", ErrConflict)
		}
		return model.Category{}, fmt.Errorf("create category: %w", err)
	}

	s.invalidate(ctx, "categories")
	return category, nil
}

func (s *Service) GetCategory(ctx context.Context, id int64) (model.Category, error) {
	category, err := s.categories.Get(ctx, id)
	if err != nil {
		if errors.Is(err, pgrepo.ErrCategoryNotFound) {
			return model.Category{}, ErrNotFound
		}
		return model.Category{}, fmt.Errorf("get category: %w", err)
	}
	return category, nil
}

func (s *Service) ListCategories(ctx context.Context, page Page) (CategoriesPage, error) {
	page = s.normalizePage(page)
	cacheKey := fmt.Sprintf("categories:page=%d:size=%d", page.Number, page.Size)

	var cached CategoriesPage
	if s.cacheGet(ctx, cacheKey, &cached) {
		return cached, nil
	}

	items, total, err := s.categories.List(ctx, (page.Number-1)*page.Size, page.Size)
	if err != nil {
		return CategoriesPage{}, fmt.Errorf("list categories: %w", err)
	}

	result := CategoriesPage{Items: items, Total: total, Page: page.Number, PageSize: page.Size}
	s.cacheSet(ctx, cacheKey, result)
	return result, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id int64, name, description string) (model.Category, error) {
	if strings.TrimSpace(name) == "" {
		return model.Category{}, fmt.Errorf("category name is required: %w", ErrValidation)
	}

	category, err := s.categories.Update(ctx, id, name, description)
	if err != nil {
		switch {
		case errors.Is(err, pgrepo.ErrCategoryNotFound):
			return model.Category{}, ErrNotFound
		case errors.Is(err, pgrepo.ErrCategoryExists):
			return model.Category{}, fmt.Errorf("category name is taken: %w", ErrConflict)
		}
		return model.Category{}, fmt.Errorf("update category: %w", err)
	}

	s.invalidate(ctx, "categories")
	return category, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, pgrepo.ErrCategoryNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete category: %w", err)
	}

	// Playlists and songs cascade away with the category.
	s.invalidate(ctx, "categories")
	s.invalidate(ctx, "playlists")
	s.invalidate(ctx, "songs")
	return nil
}

func (s *Service) CreatePlaylist(ctx context.Context, categoryID int64, name, description string) (model.Playlist, error) {
	if categoryID <= 0 || strings.TrimSpace(name) == "" {
		return model.Playlist{}, fmt.Errorf("playlist name and category are required: %w", ErrValidation)
	}

	playlist, err := s.playlists.Create(ctx, categoryID, name, description)
	if err != nil {
		if errors.Is(err, pgrepo.ErrCategoryNotFound) {
			return model.Playlist{}, ErrNotFound
		}
		return model.Playlist{}, fmt.Errorf("create playlist: %w", err)
	}

	s.invalidate(ctx, "playlists")
	return playlist, nil
}

func (s *Service) GetPlaylist(ctx context.Context, id int64) (model.Playlist, error) {
	playlist, err := s.playlists.Get(ctx, id)
	if err != nil {
		if errors.Is(err, pgrepo.ErrPlaylistNotFound) {
			return model.Playlist{}, ErrNotFound
		}
		return model.Playlist{}, fmt.Errorf("get playlist: %w", err)
	}
	return playlist, nil
}

func (s *Service) ListPlaylists(ctx context.Context, categoryID int64, page Page) (PlaylistsPage, error) {
	page = s.normalizePage(page)
	cacheKey := fmt.Sprintf("playlists:cat=%d:page=%d:size=%d", categoryID, page.Number, page.Size)

	var cached PlaylistsPage
	if s.cacheGet(ctx, cacheKey, &cached) {
		return cached, nil
	}

	items, total, err := s.playlists.ListByCategory(ctx, categoryID, (page.Number-1)*page.Size, page.Size)
	if err != nil {
		return PlaylistsPage{}, fmt.Errorf("list playlists: %w", err)
	}

	result := PlaylistsPage{Items: items, Total: total, Page: page.Number, PageSize: page.Size}
	s.cacheSet(ctx, cacheKey, result)
	return result, nil
}

func (s *Service) UpdatePlaylist(ctx context.Context, id int64, name, description string) (model.Playlist, error) {
	if strings.TrimSpace(name) == "" {
		return model.Playlist{}, fmt.Errorf("playlist name is required: %w", ErrValidation)
	}

	playlist, err := s.playlists.Update(ctx, id, name, description)
	if err != nil {
		if errors.Is(err, pgrepo.ErrPlaylistNotFound) {
			return model.Playlist{}, ErrNotFound
		}
		return model.Playlist{}, fmt.Errorf("update playlist: %w", err)
	}

	s.invalidate(ctx, "playlists")
	return playlist, nil
}

func (s *Service) DeletePlaylist(ctx context.Context, id int64) error {
	if err := s.playlists.Delete(ctx, id); err != nil {
		if errors.Is(err, pgrepo.ErrPlaylistNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete playlist: %w", err)
	}

	s.invalidate(ctx, "playlists")
	s.invalidate(ctx, "songs")
	return nil
}

func (s *Service) CreateSong(ctx context.Context, playlistID int64, title, artist string, durationSec int, trackURL string) (model.Song, error) {
	if playlistID <= 0 || strings.TrimSpace(title) == "" {
		return model.Song{}, fmt.Errorf("song title and playlist are required: %w", ErrValidation)
	}
	if durationSec < 0 {
		return model.Song{}, fmt.Errorf("song duration must not be negative: %w", ErrValidation)
	}

	song, err := s.songs.Create(ctx, playlistID, title, artist, durationSec, trackURL)
	if err != nil {
		if errors.Is(err, pgrepo.ErrPlaylistNotFound) {
			return model.Song{}, ErrNotFound
		}
		return model.Song{}, fmt.Errorf("create song: %w", err)
	}

	s.invalidate(ctx, "songs")
	return song, nil
}

func (s *Service) GetSong(ctx context.Context, id int64) (model.Song, error) {
	song, err := s.songs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, pgrepo.ErrSongNotFound) {
			return model.Song{}, ErrNotFound
		}
		return model.Song{}, fmt.Errorf("get song: %w", err)
	}
	return song, nil
}

func (s *Service) ListSongs(ctx context.Context, playlistID int64, page Page) (SongsPage, error) {
	page = s.normalizePage(page)
	cacheKey := fmt.Sprintf("songs:pl=%d:page=%d:size=%d", playlistID, page.Number, page.Size)

	var cached SongsPage
	if s.cacheGet(ctx, cacheKey, &cached) {
		return cached, nil
	}

	items, total, err := s.songs.ListByPlaylist(ctx, playlistID, (page.Number-1)*page.Size, page.Size)
	if err != nil {
		return SongsPage{}, fmt.Errorf("list songs: %w", err)
	}

	result := SongsPage{Items: items, Total: total, Page: page.Number, PageSize: page.Size}
	s.cacheSet(ctx, cacheKey, result)
	return result, nil
}

func (s *Service) UpdateSong(ctx context.Context, id int64, title, artist string, durationSec int, trackURL string) (model.Song, error) {
	if strings.TrimSpace(title) == "" {
		return model.Song{}, fmt.Errorf("song title is required: %w", ErrValidation)
	}

	song, err := s.songs.Update(ctx, id, title, artist, durationSec, trackURL)
	if err != nil {
		if errors.Is(err, pgrepo.ErrSongNotFound) {
			return model.Song{}, ErrNotFound
		}
		return model.Song{}, fmt.Errorf("update song: %w", err)
	}

	s.invalidate(ctx, "songs")
	return song, nil
}

func (s *Service) DeleteSong(ctx context.Context, id int64) error {
	if err := s.songs.Delete(ctx, id); err != nil {
		if errors.Is(err, pgrepo.ErrSongNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete song: %w", err)
	}

	s.invalidate(ctx, "songs")
	return nil
}

const maxCoverBytes = 5 << 20

// UploadCover stores the image and points the playlist at it. The old
// object is left behind; covers are content-addressed by upload, not
// reused, and the bucket carries a lifecycle rule for orphans.
func (s *Service) UploadCover(ctx context.Context, playlistID int64, body io.Reader, size int64, contentType string) (string, error) {
	if s.covers == nil {
		return "", fmt.Errorf("cover storage is not configured")
	}
	if playlistID <= 0 || body == nil || size <= 0 {
		return "", fmt.Errorf("invalid cover payload: %w", ErrValidation)
	}
	if size > maxCoverBytes {
		return "", fmt.Errorf("cover exceeds %d bytes: %w", int64(maxCoverBytes), ErrValidation)
	}
	if contentType != "image/jpeg" && contentType != "image/png" {
		return "", fmt.Errorf("unsupported cover content type %q: %w", contentType, ErrValidation)
	}

	if _, err := s.GetPlaylist(ctx, playlistID); err != nil {
		return "", err
	}

	key := fmt.Sprintf("playlists/%d/%s", playlistID, uuid.NewString())
	if err := s.covers.Put(ctx, key, body, size, contentType); err != nil {
		return "", fmt.Errorf("store cover: %w", err)
	}

	if err := s.playlists.SetCoverKey(ctx, playlistID, key); err != nil {
		if errors.Is(err, pgrepo.ErrPlaylistNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("set cover key: %w", err)
	}

	s.invalidate(ctx, "playlists")
	return key, nil
}

func (s *Service) CoverURL(ctx context.Context, playlistID int64) (string, error) {
	if s.covers == nil {
		return "", fmt.Errorf("cover storage is not configured")
	}

	playlist, err := s.GetPlaylist(ctx, playlistID)
	if err != nil {
		return "", err
	}
	if playlist.CoverKey == "" {
		return "", ErrNotFound
	}

	url, err := s.covers.PresignGet(ctx, playlist.CoverKey, s.cfg.CoverURLTTL)
	if err != nil {
		return "", fmt.Errorf("presign cover url: %w", err)
	}

	return url, nil
}

func (s *Service) cacheGet(ctx context.Context, key string, target any) bool {
	if s.cache == nil {
		return false
	}
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil || !ok {
		return false
	}
	return json.Unmarshal(data, target) == nil
}

func (s *Service) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, key, data, s.cfg.CacheTTL)
}

func (s *Service) invalidate(ctx context.Context, scope string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.InvalidateScope(ctx, scope)
}
