package cache

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteCache persists generated code on disk, keyed by content hash, so a
// cold CLI invocation can skip codegen for source it has already compiled.
type SQLiteCache struct {
	db     *sql.DB
	config Config
}

// NewSQLiteCache opens (creating if necessary) a SQLite-backed cache at path.
func NewSQLiteCache(path string) (*SQLiteCache, error) {
	return NewSQLiteCacheWithConfig(path, DefaultConfig())
}

// NewSQLiteCacheWithConfig opens path with custom cache configuration.
func NewSQLiteCacheWithConfig(path string, config Config) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	const schema = `
CREATE TABLE IF NOT EXISTS cache_entries (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	expires_at INTEGER NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteCache{db: db, config: config}, nil
}

// Get retrieves a value from the cache, treating an expired row as a miss.
func (c *SQLiteCache) Get(ctx context.Context, key string) ([]byte, error) {
	fullKey := c.config.Prefix + key
	var value []byte
	var expiresAt int64
	row := c.db.QueryRowContext(ctx, `SELECT value, expires_at FROM cache_entries WHERE key = ?`, fullKey)
	if err := row.Scan(&value, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCacheMiss{Key: key}
		}
		return nil, err
	}
	if expiresAt != 0 && time.Now().UnixNano() > expiresAt {
		_ = c.Delete(ctx, key)
		return nil, ErrCacheMiss{Key: key}
	}
	return value, nil
}

// Set stores a value in the cache with a TTL; ttl == 0 uses the configured default.
func (c *SQLiteCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.config.DefaultTTL
	}
	var expiresAt int64
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl).UnixNano()
	}
	fullKey := c.config.Prefix + key
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO cache_entries (key, value, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		fullKey, value, expiresAt)
	return err
}

// Delete removes a value from the cache.
func (c *SQLiteCache) Delete(ctx context.Context, key string) error {
	fullKey := c.config.Prefix + key
	_, err := c.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, fullKey)
	return err
}

// Clear removes every entry under this cache's prefix.
func (c *SQLiteCache) Clear(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key LIKE ?`, c.config.Prefix+"%")
	return err
}

// Exists checks if a (non-expired) key exists in the cache.
func (c *SQLiteCache) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.Get(ctx, key)
	if err == nil {
		return true, nil
	}
	if IsCacheMiss(err) {
		return false, nil
	}
	return false, err
}

// Close closes the underlying database handle.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
