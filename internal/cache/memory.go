// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/pdiddy/profile-engine/pkg/types"
)

const memoryCleanupInterval = 10 * time.Minute

// MemoryStore keeps encoded entries in process memory, so callers never
// share profile data with the store. Items expire after the configured
// retention; freshness is still judged against the TTL.
type MemoryStore struct {
	items     *gocache.Cache
	retention time.Duration
	freshness
}

// NewMemoryStore returns an empty store.
func NewMemoryStore(cfg types.CacheConfig) *MemoryStore {
	r := retention(cfg.Retention)
	return &MemoryStore{
		items:     gocache.New(r, memoryCleanupInterval),
		retention: r,
		freshness: newFreshness(cfg.TTL),
	}
}

// Get returns the fresh entry for key, or nil.
func (s *MemoryStore) Get(_ context.Context, key string) (*types.CacheEntry, error) {
	v, ok := s.items.Get(key)
	if !ok {
		return nil, nil
	}
	e, err := decode(key, v.([]byte))
	if err != nil {
		return nil, err
	}
	return s.fresh(e), nil
}

// Put stores profiles under key.
func (s *MemoryStore) Put(_ context.Context, key string, profiles []types.Profile) error {
	return s.Fill(types.CacheEntry{Key: key, Profiles: profiles, WrittenAt: s.now()})
}

// Fill stores e as is, keeping its WrittenAt.
func (s *MemoryStore) Fill(e types.CacheEntry) error {
	data, err := encode(e.Profiles, e.WrittenAt)
	if err != nil {
		return err
	}
	s.items.Set(e.Key, data, s.retention)
	return nil
}

// Close empties the store.
func (s *MemoryStore) Close() error {
	s.items.Flush()
	return nil
}
