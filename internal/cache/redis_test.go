package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewRedisCacheWithClient(client, DefaultConfig())
	return cache, mr
}

func TestRedisCacheGetSetDelete(t *testing.T) {
	cache, mr := setupTestRedis(t)
	defer mr.Close()
	ctx := context.Background()

	_, err := cache.Get(ctx, "missing")
	require.True(t, IsCacheMiss(err))

	require.NoError(t, cache.Set(ctx, "fidelis:abc", []byte("export function f() {}"), time.Minute))

	ok, err := cache.Exists(ctx, "fidelis:abc")
	require.NoError(t, err)
	require.True(t, ok)

	value, err := cache.Get(ctx, "fidelis:abc")
	require.NoError(t, err)
	require.Equal(t, "export function f() {}", string(value))

	require.NoError(t, cache.Delete(ctx, "fidelis:abc"))
	_, err = cache.Get(ctx, "fidelis:abc")
	require.True(t, IsCacheMiss(err))
}

func TestRedisCacheClear(t *testing.T) {
	cache, mr := setupTestRedis(t)
	defer mr.Close()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, cache.Set(ctx, "b", []byte("2"), time.Minute))
	require.NoError(t, cache.Clear(ctx))

	ok, err := cache.Exists(ctx, "a")
	require.NoError(t, err)
	require.False(t, ok)
}
