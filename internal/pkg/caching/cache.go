package caching

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
)

// ReadOnlyCache is the read side, typically pointed at a replica.
type ReadOnlyCache interface {
	Get(ctx context.Context, key string, target any) error
}

type Cache interface {
	ReadOnlyCache
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// UseCache serves key from the writer cache, filling it on a miss.
func UseCache[T any](ctx context.Context, store Cache, key string, ttl time.Duration, fill func() (T, error)) (T, error) {
	return UseCacheWithRO(ctx, store, store, key, ttl, fill)
}

// UseCacheWithRO reads through the replica and writes misses back through the
// writer. Fill errors pass through untouched; set failures are ignored, the
// next miss just fills again.
func UseCacheWithRO[T any](ctx context.Context, replica ReadOnlyCache, store Cache, key string, ttl time.Duration, fill func() (T, error)) (T, error) {
	var value T
	err := replica.Get(ctx, key, &value)
	if !errors.Is(err, cache.ErrCacheMiss) {
		return value, err
	}

	value, err = fill()
	if err != nil {
		return value, err
	}

	//nolint:errcheck
	store.Set(ctx, key, value, ttl)
	return value, nil
}

// CacheRedis backs the Cache interfaces with go-redis/cache (msgpack values).
type CacheRedis struct {
	backend *cache.Cache
}

func NewCacheRedis(client redis.UniversalClient, withLocalCache bool) (*CacheRedis, error) {
	var localCache cache.LocalCache
	if withLocalCache {
		localCache = cache.NewTinyLFU(10000, time.Minute)
	}
	return &CacheRedis{cache.New(&cache.Options{
		Redis:      client,
		LocalCache: localCache,
	})}, nil
}

func (c *CacheRedis) Get(ctx context.Context, key string, target any) error {
	return c.backend.Get(ctx, key, target)
}

func (c *CacheRedis) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return c.backend.Set(&cache.Item{
		Ctx:   ctx,
		Key:   key,
		Value: value,
		TTL:   ttl,
	})
}

func (c *CacheRedis) Delete(ctx context.Context, key string) error {
	return c.backend.Delete(ctx, key)
}

type keyCommands interface {
	Keys(ctx context.Context, pattern string) *redis.StringSliceCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// DeleteKeys drops every key matching pattern, visiting each master on a
// cluster.
func DeleteKeys(ctx context.Context, client redis.UniversalClient, pattern string) error {
	if clusterClient, ok := client.(*redis.ClusterClient); ok {
		return clusterClient.ForEachMaster(ctx, func(ctx context.Context, c *redis.Client) error {
			deleteKeys(ctx, c, pattern)
			return nil
		})
	}

	deleteKeys(ctx, client, pattern)
	return nil
}

func deleteKeys(ctx context.Context, client keyCommands, pattern string) {
	for _, key := range client.Keys(ctx, pattern).Val() {
		if err := client.Del(ctx, key).Err(); err != nil {
			log.Println("delete cache key", key, ":", err)
		}
	}
}
