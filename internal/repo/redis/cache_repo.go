package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const cachePrefix = "catalog:"

// CacheRepo stores rendered catalog listings keyed by resource scope and
// query. Keys live under one prefix per scope so writes can drop the
// whole scope at once.
type CacheRepo struct {
	client *goredis.Client
}

func NewCacheRepo(client *goredis.Client) *CacheRepo {
	return &CacheRepo{client: client}
}

func (r *CacheRepo) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if r.client == nil {
		return nil, false, fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(key) == "" {
		return nil, false, fmt.Errorf("cache key is empty")
	}

	data, err := r.client.Get(ctx, cachePrefix+key).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get cache key: %w", err)
	}

	return data, true, nil
}

func (r *CacheRepo) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(key) == "" || len(value) == 0 {
		return fmt.Errorf("invalid cache payload")
	}
	if ttl <= 0 {
		ttl = time.Minute
	}

	if err := r.client.Set(ctx, cachePrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("set cache key: %w", err)
	}

	return nil
}

func (r *CacheRepo) InvalidateScope(ctx context.Context, scope string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(scope) == "" {
		return fmt.Errorf("cache scope is empty")
	}

	pattern := cachePrefix + scope + ":*"
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan cache scope: %w", err)
	}

	if len(keys) > 0 {
		if err := r.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("delete cache keys: %w", err)
		}
	}

	return nil
}
