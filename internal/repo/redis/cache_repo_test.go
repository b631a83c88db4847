package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newCacheRepoForTest(t *testing.T) (*CacheRepo, *miniredis.Miniredis) {
	t.Helper()

	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mini.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewCacheRepo(client), mini
}

func TestCacheSetGetRoundTrip(t *testing.T) {
	repo, _ := newCacheRepoForTest(t)
	ctx := context.Background()

	if err := repo.Set(ctx, "categories:page=1", []byte(`{"items":[]}`), time.Minute); err != nil {
		t.Fatalf("set cache: %v", err)
	}

	data, ok, err := repo.Get(ctx, "categories:page=1")
	if err != nil {
		t.Fatalf("get cache: %v", err)
	}
	if !ok {
		t.Fatalf("cache key should exist")
	}
	if string(data) != `{"items":[]}` {
		t.Fatalf("unexpected cache value: %s", data)
	}
}

func TestCacheGetMissing(t *testing.T) {
	repo, _ := newCacheRepoForTest(t)

	_, ok, err := repo.Get(context.Background(), "categories:page=9")
	if err != nil {
		t.Fatalf("get cache: %v", err)
	}
	if ok {
		t.Fatalf("missing key reported as present")
	}
}

func TestCacheInvalidateScopeDropsOnlyThatScope(t *testing.T) {
	repo, _ := newCacheRepoForTest(t)
	ctx := context.Background()

	if err := repo.Set(ctx, "categories:page=1", []byte(`a`), time.Minute); err != nil {
		t.Fatalf("set cache: %v", err)
	}
	if err := repo.Set(ctx, "categories:page=2", []byte(`b`), time.Minute); err != nil {
		t.Fatalf("set cache: %v", err)
	}
	if err := repo.Set(ctx, "playlists:cat=3:page=1", []byte(`c`), time.Minute); err != nil {
		t.Fatalf("set cache: %v", err)
	}

	if err := repo.InvalidateScope(ctx, "categories"); err != nil {
		t.Fatalf("invalidate scope: %v", err)
	}

	if _, ok, _ := repo.Get(ctx, "categories:page=1"); ok {
		t.Fatalf("categories page 1 should be gone")
	}
	if _, ok, _ := repo.Get(ctx, "categories:page=2"); ok {
		t.Fatalf("categories page 2 should be gone")
	}
	if _, ok, _ := repo.Get(ctx, "playlists:cat=3:page=1"); !ok {
		t.Fatalf("playlists scope should survive")
	}
}

func TestCacheEntriesExpire(t *testing.T) {
	repo, mini := newCacheRepoForTest(t)
	ctx := context.Background()

	if err := repo.Set(ctx, "categories:page=1", []byte(`a`), time.Second); err != nil {
		t.Fatalf("set cache: %v", err)
	}

	mini.FastForward(2 * time.Second)

	if _, ok, _ := repo.Get(ctx, "categories:page=1"); ok {
		t.Fatalf("expired key reported as present")
	}
}
