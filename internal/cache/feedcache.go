// Package cache provides the local memoization layer in front of the
// calendar feed. Stores stay pure; the cache is keyed purely by the feed
// window parameters and can be evicted without correctness consequences.
package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"macromood/internal/calendar"
)

// FeedCache memoizes fetched raw calendar records by feed-window key.
type FeedCache interface {
	Get(key string) ([]calendar.Record, bool, error)
	Put(key string, records []calendar.Record) error
	Evict(key string) error
	Close() error
}

// SQLiteCache persists cached feed payloads to a local SQLite file.
type SQLiteCache struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewSQLiteCache opens (or creates) the cache database at path.
func NewSQLiteCache(path string, logger zerolog.Logger) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite cache: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS feed_cache (
		key        TEXT PRIMARY KEY,
		fetched_at INTEGER NOT NULL,
		payload    BLOB NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate feed cache: %w", err)
	}

	c := &SQLiteCache{db: db, logger: logger.With().Str("component", "feed_cache").Logger()}
	c.logger.Debug().Str("path", path).Msg("feed cache opened")
	return c, nil
}

// Get returns the cached records for key, if present.
func (c *SQLiteCache) Get(key string) ([]calendar.Record, bool, error) {
	var payload []byte
	err := c.db.QueryRow("SELECT payload FROM feed_cache WHERE key = ?", key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read feed cache: %w", err)
	}

	var records []calendar.Record
	if err := json.Unmarshal(payload, &records); err != nil {
		// A corrupt entry behaves like a miss; the caller will refetch
		// and overwrite it.
		c.logger.Warn().Err(err).Str("key", key).Msg("discarding corrupt cache entry")
		return nil, false, nil
	}
	return records, true, nil
}

// Put stores records under key, replacing any previous entry.
func (c *SQLiteCache) Put(key string, records []calendar.Record) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode feed cache payload: %w", err)
	}

	_, err = c.db.Exec(
		`INSERT INTO feed_cache (key, fetched_at, payload) VALUES (?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET fetched_at = excluded.fetched_at, payload = excluded.payload`,
		key, time.Now().Unix(), payload,
	)
	if err != nil {
		return fmt.Errorf("write feed cache: %w", err)
	}
	return nil
}

// Evict removes the entry for key, if any.
func (c *SQLiteCache) Evict(key string) error {
	if _, err := c.db.Exec("DELETE FROM feed_cache WHERE key = ?", key); err != nil {
		return fmt.Errorf("evict feed cache entry: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

// NopCache is used when no cache path is configured; every lookup misses.
type NopCache struct{}

func NewNopCache() *NopCache { return &NopCache{} }

func (NopCache) Get(string) ([]calendar.Record, bool, error) { return nil, false, nil }
func (NopCache) Put(string, []calendar.Record) error         { return nil }
func (NopCache) Evict(string) error                          { return nil }
func (NopCache) Close() error                                { return nil }

var (
	_ FeedCache = (*SQLiteCache)(nil)
	_ FeedCache = (*NopCache)(nil)
)
