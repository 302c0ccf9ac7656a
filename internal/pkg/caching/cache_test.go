package caching

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/go-redis/cache/v9"
)

type memoryCache struct {
	values map[string]any
	sets   int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]any{}}
}

func (m *memoryCache) Get(ctx context.Context, key string, target any) error {
	v, ok := m.values[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	reflect.ValueOf(target).Elem().Set(reflect.ValueOf(v))
	return nil
}

func (m *memoryCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.values[key] = value
	m.sets++
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, key string) error {
	delete(m.values, key)
	return nil
}

func TestUseCacheFillsOnMiss(t *testing.T) {
	ctx := context.Background()
	store := newMemoryCache()

	calls := 0
	fill := func() (int64, error) {
		calls++
		return 42, nil
	}

	got, err := UseCache(ctx, store, "answer", time.Minute, fill)
	if err != nil {
		t.Fatal(err)
	}
	if got != 42 || calls != 1 || store.sets != 1 {
		t.Fatalf("got %d, calls %d, sets %d", got, calls, store.sets)
	}

	got, err = UseCache(ctx, store, "answer", time.Minute, fill)
	if err != nil {
		t.Fatal(err)
	}
	if got != 42 || calls != 1 {
		t.Fatalf("second read must come from the cache, got %d after %d fills", got, calls)
	}
}

func TestUseCacheWithROPrefersReplica(t *testing.T) {
	ctx := context.Background()
	replica := newMemoryCache()
	store := newMemoryCache()
	replica.values["answer"] = int64(7)

	got, err := UseCacheWithRO(ctx, replica, store, "answer", time.Minute, func() (int64, error) {
		t.Fatal("fill must not run on a replica hit")
		return 0, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
}

func TestUseCacheWithROFillError(t *testing.T) {
	ctx := context.Background()
	replica := newMemoryCache()
	store := newMemoryCache()

	boom := errors.New("db down")
	_, err := UseCacheWithRO(ctx, replica, store, "answer", time.Minute, func() (int64, error) {
		return 0, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want fill error", err)
	}
	if store.sets != 0 {
		t.Fatal("a failed fill must not be cached")
	}
}
