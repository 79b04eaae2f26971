// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"

	"github.com/pdiddy/profile-engine/internal/errors"
	"github.com/pdiddy/profile-engine/pkg/types"
)

// Tiered fronts a persistent store with process memory. Reads that miss the
// front and hit the back fill the front with the back's entry unchanged.
type Tiered struct {
	Front *MemoryStore
	Back  Store
}

// Get consults the front, then the back.
func (t *Tiered) Get(ctx context.Context, key string) (*types.CacheEntry, error) {
	if e, _ := t.Front.Get(ctx, key); e != nil {
		return e, nil
	}
	e, err := t.Back.Get(ctx, key)
	if err != nil || e == nil {
		return nil, err
	}
	_ = t.Front.Fill(*e)
	return e, nil
}

// Put writes through to both tiers. A back failure is returned after the
// front has been updated.
func (t *Tiered) Put(ctx context.Context, key string, profiles []types.Profile) error {
	_ = t.Front.Put(ctx, key, profiles)
	return t.Back.Put(ctx, key, profiles)
}

// Close closes both tiers.
func (t *Tiered) Close() error {
	return errors.Join(t.Front.Close(), t.Back.Close())
}
