// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache stores aggregation results keyed by canonical query string.
// An entry older than the configured TTL is treated as absent; stores never
// delete stale entries on read, so the next Put overwrites them.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pdiddy/profile-engine/internal/errors"
	"github.com/pdiddy/profile-engine/pkg/types"
)

const (
	defaultTTL       = 24 * time.Hour
	defaultRetention = 7 * 24 * time.Hour
)

// Cache is the freshness cache consulted before every aggregation.
type Cache interface {
	// Get returns the entry for key, or nil when it is missing or stale.
	Get(ctx context.Context, key string) (*types.CacheEntry, error)

	// Put stores profiles under key stamped with the current time. The last
	// writer wins.
	Put(ctx context.Context, key string, profiles []types.Profile) error
}

// Store is a Cache that holds a resource.
type Store interface {
	Cache
	Close() error
}

// envelope is the serialized form shared by the key-value backends.
type envelope struct {
	WrittenAt int64           `json:"written_at"`
	Profiles  []types.Profile `json:"profiles"`
}

func encode(profiles []types.Profile, at time.Time) ([]byte, error) {
	data, err := json.Marshal(envelope{WrittenAt: at.UnixMilli(), Profiles: profiles})
	if err != nil {
		return nil, errors.Wrap(err, "encoding cache entry")
	}
	return data, nil
}

func decode(key string, data []byte) (*types.CacheEntry, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrapf(err, "decoding cache entry %q", key)
	}
	return &types.CacheEntry{
		Key:       key,
		Profiles:  env.Profiles,
		WrittenAt: time.UnixMilli(env.WrittenAt),
	}, nil
}

// freshness holds the TTL and clock every backend evaluates entries with.
type freshness struct {
	ttl time.Duration
	now func() time.Time
}

func newFreshness(ttl time.Duration) freshness {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return freshness{ttl: ttl, now: time.Now}
}

// fresh returns e, or nil when e is nil or stale.
func (f freshness) fresh(e *types.CacheEntry) *types.CacheEntry {
	if e == nil || e.Stale(f.now(), f.ttl) {
		return nil
	}
	return e
}

func retention(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultRetention
	}
	return d
}

// Nop is a Cache that stores nothing.
type Nop struct{}

func (Nop) Get(context.Context, string) (*types.CacheEntry, error) { return nil, nil }

func (Nop) Put(context.Context, string, []types.Profile) error { return nil }

func (Nop) Close() error { return nil }

// Open builds the store selected by cfg.Backend. With MemoryFront set, a
// persistent backend is fronted by an in-process MemoryStore.
func Open(cfg types.CacheConfig) (Store, error) {
	var back Store
	switch cfg.Backend {
	case types.CacheNone:
		return Nop{}, nil
	case types.CacheMemory:
		return NewMemoryStore(cfg), nil
	case types.CacheRedis:
		s, err := NewRedisStore(cfg)
		if err != nil {
			return nil, err
		}
		back = s
	case types.CacheSQLite, "":
		s, err := NewSQLiteStore(cfg)
		if err != nil {
			return nil, err
		}
		back = s
	default:
		return nil, errors.WithHint(
			errors.Newf("unknown cache backend %q", cfg.Backend),
			"use one of sqlite, redis, memory, none",
		)
	}

	if cfg.MemoryFront {
		return &Tiered{Front: NewMemoryStore(cfg), Back: back}, nil
	}
	return back, nil
}
