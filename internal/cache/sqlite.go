// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/profile-engine/internal/errors"
	"github.com/pdiddy/profile-engine/pkg/types"
)

const defaultSQLitePath = "data/profile-cache.db"

// SQLiteStore keeps entries in a single SQLite table.
type SQLiteStore struct {
	db *sql.DB
	freshness
}

// NewSQLiteStore opens or creates the cache database at cfg.Path and
// creates the schema if it does not exist.
func NewSQLiteStore(cfg types.CacheConfig) (*SQLiteStore, error) {
	path := cfg.Path
	if path == "" {
		path = defaultSQLitePath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "creating cache directory")
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, errors.Wrap(err, "opening cache database")
	}

	s := &SQLiteStore{db: db, freshness: newFreshness(cfg.TTL)}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating cache schema")
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS profile_cache (
			query TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			written_at INTEGER NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return errors.Wrap(err, "executing schema statement")
		}
	}
	return nil
}

// Get returns the fresh entry for key, or nil.
func (s *SQLiteStore) Get(ctx context.Context, key string) (*types.CacheEntry, error) {
	var (
		data      string
		writtenAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT data, written_at FROM profile_cache WHERE query = ?`, key,
	).Scan(&data, &writtenAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading cache entry %q", key)
	}

	var profiles []types.Profile
	if err := json.Unmarshal([]byte(data), &profiles); err != nil {
		return nil, errors.Wrapf(err, "decoding cache entry %q", key)
	}
	return s.fresh(&types.CacheEntry{
		Key:       key,
		Profiles:  profiles,
		WrittenAt: time.UnixMilli(writtenAt),
	}), nil
}

// Put upserts the entry for key.
func (s *SQLiteStore) Put(ctx context.Context, key string, profiles []types.Profile) error {
	data, err := json.Marshal(profiles)
	if err != nil {
		return errors.Wrap(err, "encoding cache entry")
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO profile_cache (query, data, written_at)
		VALUES (?, ?, ?)
		ON CONFLICT(query) DO UPDATE SET
			data = excluded.data,
			written_at = excluded.written_at`,
		key, string(data), s.now().UnixMilli(),
	)
	if err != nil {
		return errors.Wrapf(err, "writing cache entry %q", key)
	}
	return nil
}
