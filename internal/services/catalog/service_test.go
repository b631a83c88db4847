package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/ugis90/playlistplayer/internal/domain/model"
	pgrepo "github.com/ugis90/playlistplayer/internal/repo/postgres"
)

type fakeCategoryStore struct {
	items  map[int64]model.Category
	nextID int64
	lists  int
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{items: map[int64]model.Category{}, nextID: 1}
}

func (f *fakeCategoryStore) Create(_ context.Context, name, description string) (model.Category, error) {
	for _, c := range f.items {
		if strings.EqualFold(c.Name, name) {
			return model.Category{}, pgrepo.ErrCategoryExists
		}
	}
	c := model.Category{ID: f.nextID, Name: name, Description: description, CreatedAt: time.Now()}
	f.items[c.ID] = c
	f.nextID++
	return c, nil
}

func (f *fakeCategoryStore) Get(_ context.Context, id int64) (model.Category, error) {
	c, ok := f.items[id]
	if !ok {
		return model.Category{}, pgrepo.ErrCategoryNotFound
	}
	return c, nil
}

func (f *fakeCategoryStore) List(_ context.Context, offset, limit int) ([]model.Category, int64, error) {
	f.lists++
	all := make([]model.Category, 0, len(f.items))
	for id := int64(1); id < f.nextID; id++ {
		if c, ok := f.items[id]; ok {
			all = append(all, c)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (f *fakeCategoryStore) Update(_ context.Context, id int64, name, description string) (model.Category, error) {
	c, ok := f.items[id]
	if !ok {
		return model.Category{}, pgrepo.ErrCategoryNotFound
	}
	c.Name = name
	c.Description = description
	f.items[id] = c
	return c, nil
}

func (f *fakeCategoryStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.items[id]; !ok {
		return pgrepo.ErrCategoryNotFound
	}
	delete(f.items, id)
	return nil
}

type fakePlaylistStore struct {
	items  map[int64]model.Playlist
	nextID int64
}

func newFakePlaylistStore() *fakePlaylistStore {
	return &fakePlaylistStore{items: map[int64]model.Playlist{}, nextID: 1}
}

func (f *fakePlaylistStore) Create(_ context.Context, categoryID int64, name, description string) (model.Playlist, error) {
	p := model.Playlist{ID: f.nextID, CategoryID: categoryID, Name: name, Description: description, CreatedAt: time.Now()}
	f.items[p.ID] = p
	f.nextID++
	return p, nil
}

func (f *fakePlaylistStore) Get(_ context.Context, id int64) (model.Playlist, error) {
	p, ok := f.items[id]
	if !ok {
		return model.Playlist{}, pgrepo.ErrPlaylistNotFound
	}
	return p, nil
}

func (f *fakePlaylistStore) ListByCategory(_ context.Context, categoryID int64, offset, limit int) ([]model.Playlist, int64, error) {
	var all []model.Playlist
	for id := int64(1); id < f.nextID; id++ {
		if p, ok := f.items[id]; ok && p.CategoryID == categoryID {
			all = append(all, p)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (f *fakePlaylistStore) Update(_ context.Context, id int64, name, description string) (model.Playlist, error) {
	p, ok := f.items[id]
	if !ok {
		return model.Playlist{}, pgrepo.ErrPlaylistNotFound
	}
	p.Name = name
	p.Description = description
	f.items[id] = p
	return p, nil
}

func (f *fakePlaylistStore) SetCoverKey(_ context.Context, id int64, coverKey string) error {
	p, ok := f.items[id]
	if !ok {
		return pgrepo.ErrPlaylistNotFound
	}
	p.CoverKey = coverKey
	f.items[id] = p
	return nil
}

func (f *fakePlaylistStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.items[id]; !ok {
		return pgrepo.ErrPlaylistNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeSongStore struct {
	items  map[int64]model.Song
	nextID int64
}

func newFakeSongStore() *fakeSongStore {
	return &fakeSongStore{items: map[int64]model.Song{}, nextID: 1}
}

func (f *fakeSongStore) Create(_ context.Context, playlistID int64, title, artist string, durationSec int, trackURL string) (model.Song, error) {
	s := model.Song{ID: f.nextID, PlaylistID: playlistID, Title: title, Artist: artist, DurationSec: durationSec, TrackURL: trackURL, CreatedAt: time.Now()}
	f.items[s.ID] = s
	f.nextID++
	return s, nil
}

func (f *fakeSongStore) Get(_ context.Context, id int64) (model.Song, error) {
	s, ok := f.items[id]
	if !ok {
		return model.Song{}, pgrepo.ErrSongNotFound
	}
	return s, nil
}

func (f *fakeSongStore) ListByPlaylist(_ context.Context, playlistID int64, offset, limit int) ([]model.Song, int64, error) {
	var all []model.Song
	for id := int64(1); id < f.nextID; id++ {
		if s, ok := f.items[id]; ok && s.PlaylistID == playlistID {
			all = append(all, s)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (f *fakeSongStore) Update(_ context.Context, id int64, title, artist string, durationSec int, trackURL string) (model.Song, error) {
	s, ok := f.items[id]
	if !ok {
		return model.Song{}, pgrepo.ErrSongNotFound
	}
	s.Title = title
	s.Artist = artist
	s.DurationSec = durationSec
	s.TrackURL = trackURL
	f.items[id] = s
	return s, nil
}

func (f *fakeSongStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.items[id]; !ok {
		return pgrepo.ErrSongNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeCache struct {
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}}
}

func (f *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, ok := f.entries[key]
	return data, ok, nil
}

func (f *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	f.entries[key] = value
	return nil
}

func (f *fakeCache) InvalidateScope(_ context.Context, scope string) error {
	for key := range f.entries {
		if strings.HasPrefix(key, scope+":") {
			delete(f.entries, key)
		}
	}
	return nil
}

type fakeCovers struct {
	objects map[string][]byte
}

func newFakeCovers() *fakeCovers {
	return &fakeCovers{objects: map[string][]byte{}}
}

func (f *fakeCovers) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeCovers) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	if _, ok := f.objects[key]; !ok {
		return "", errors.New("no such object")
	}
	return "https://covers.local/" + key, nil
}

func newTestService() (*Service, *fakeCategoryStore, *fakePlaylistStore, *fakeSongStore) {
	categories := newFakeCategoryStore()
	playlists := newFakePlaylistStore()
	songs := newFakeSongStore()
	svc := NewService(categories, playlists, songs, Config{DefaultPageSize: 2, MaxPageSize: 4})
	return svc, categories, playlists, songs
}

func TestListCategoriesPagination(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := svc.CreateCategory(ctx, fmt.Sprintf("Genre %d", i), ""); err != nil {
			t.Fatalf("create category: %v", err)
		}
	}

	page, err := svc.ListCategories(ctx, Page{Number: 2, Size: 2})
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if page.Total != 5 {
		t.Fatalf("total = %d, want 5", page.Total)
	}
	if len(page.Items) != 2 || page.Items[0].Name != "Genre 2" {
		t.Fatalf("unexpected page contents: %+v", page.Items)
	}

	// Out-of-range values are clamped rather than rejected.
	page, err = svc.ListCategories(ctx, Page{Number: -1, Size: 99})
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if page.Page != 1 || page.PageSize != 4 {
		t.Fatalf("page normalized to %d/%d, want 1/4", page.Page, page.PageSize)
	}
}

func TestListCategoriesUsesCache(t *testing.T) {
	svc, categories, _, _ := newTestService()
	svc.AttachCache(newFakeCache())
	ctx := context.Background()

	if _, err := svc.CreateCategory(ctx, "Rock", ""); err != nil {
		t.Fatalf("create category: %v", err)
	}

	if _, err := svc.ListCategories(ctx, Page{}); err != nil {
		t.Fatalf("first list: %v", err)
	}
	if _, err := svc.ListCategories(ctx, Page{}); err != nil {
		t.Fatalf("second list: %v", err)
	}
	if categories.lists != 1 {
		t.Fatalf("store hit %d times, want 1", categories.lists)
	}

	// A write must drop the cached listing.
	if _, err := svc.CreateCategory(ctx, "Jazz", ""); err != nil {
		t.Fatalf("create category: %v", err)
	}
	page, err := svc.ListCategories(ctx, Page{})
	if err != nil {
		t.Fatalf("third list: %v", err)
	}
	if categories.lists != 2 {
		t.Fatalf("store hit %d times after invalidation, want 2", categories.lists)
	}
	if page.Total != 2 {
		t.Fatalf("total = %d, want 2", page.Total)
	}
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.CreateCategory(ctx, "Rock", ""); err != nil {
		t.Fatalf("create category: %v", err)
	}
	_, err := svc.CreateCategory(ctx, "Rock", "again")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestGetPlaylistNotFound(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.GetPlaylist(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateSongValidation(t *testing.T) {
	svc, _, playlists, _ := newTestService()
	ctx := context.Background()

	playlist, err := playlists.Create(ctx, 1, "Drive", "")
	if err != nil {
		t.Fatalf("seed playlist: %v", err)
	}

	_, err = svc.CreateSong(ctx, playlist.ID, "  ", "Artist", 180, "")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	_, err = svc.CreateSong(ctx, playlist.ID, "Song", "Artist", -1, "")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestUploadCover(t *testing.T) {
	svc, _, playlists, _ := newTestService()
	covers := newFakeCovers()
	svc.AttachCovers(covers)
	ctx := context.Background()

	playlist, err := playlists.Create(ctx, 1, "Drive", "")
	if err != nil {
		t.Fatalf("seed playlist: %v", err)
	}

	body := []byte("jpeg bytes")
	key, err := svc.UploadCover(ctx, playlist.ID, bytes.NewReader(body), int64(len(body)), "image/jpeg")
	if err != nil {
		t.Fatalf("upload cover: %v", err)
	}
	if !bytes.Equal(covers.objects[key], body) {
		t.Fatalf("stored object does not match upload")
	}

	stored, err := playlists.Get(ctx, playlist.ID)
	if err != nil {
		t.Fatalf("get playlist: %v", err)
	}
	if stored.CoverKey != key {
		t.Fatalf("cover key = %q, want %q", stored.CoverKey, key)
	}

	url, err := svc.CoverURL(ctx, playlist.ID)
	if err != nil {
		t.Fatalf("cover url: %v", err)
	}
	if !strings.Contains(url, key) {
		t.Fatalf("url %q does not reference %q", url, key)
	}
}

func TestUploadCoverRejectsBadContentType(t *testing.T) {
	svc, _, playlists, _ := newTestService()
	svc.AttachCovers(newFakeCovers())
	ctx := context.Background()

	playlist, err := playlists.Create(ctx, 1, "Drive", "")
	if err != nil {
		t.Fatalf("seed playlist: %v", err)
	}

	_, err = svc.UploadCover(ctx, playlist.ID, strings.NewReader("gif"), 3, "image/gif")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}
