package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestSQLiteCache(t *testing.T) *SQLiteCache {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.db")
	c, err := NewSQLiteCache(path)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestSQLiteCacheGetSetDelete(t *testing.T) {
	ctx := context.Background()
	c := newTestSQLiteCache(t)

	_, err := c.Get(ctx, "missing")
	require.True(t, IsCacheMiss(err))

	require.NoError(t, c.Set(ctx, "k1", []byte("v1"), time.Hour))
	got, err := c.Get(ctx, "k1")
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), got)

	exists, err := c.Exists(ctx, "k1")
	require.NoError(t, err)
	require.True(t, exists)

	require.NoError(t, c.Delete(ctx, "k1"))
	_, err = c.Get(ctx, "k1")
	require.True(t, IsCacheMiss(err))
}

func TestSQLiteCacheSetOverwritesExistingKey(t *testing.T) {
	ctx := context.Background()
	c := newTestSQLiteCache(t)

	require.NoError(t, c.Set(ctx, "k1", []byte("v1"), time.Hour))
	require.NoError(t, c.Set(ctx, "k1", []byte("v2"), time.Hour))

	got, err := c.Get(ctx, "k1")
	require.NoError(t, err)
	require.Equal(t, []byte("v2"), got)
}

func TestSQLiteCacheExpiredEntryIsAMiss(t *testing.T) {
	ctx := context.Background()
	c := newTestSQLiteCache(t)

	require.NoError(t, c.Set(ctx, "k1", []byte("v1"), time.Millisecond))
	time.Sleep(10 * time.Millisecond)

	_, err := c.Get(ctx, "k1")
	require.True(t, IsCacheMiss(err))
}

func TestSQLiteCacheClearRemovesAllEntries(t *testing.T) {
	ctx := context.Background()
	c := newTestSQLiteCache(t)

	require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Hour))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), time.Hour))
	require.NoError(t, c.Clear(ctx))

	for _, key := range []string{"a", "b"} {
		_, err := c.Get(ctx, key)
		require.True(t, IsCacheMiss(err))
	}
}
