// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/profile-engine/pkg/types"
)

const testKey = "ringgold-org-id:6752"

func sampleProfiles() []types.Profile {
	return []types.Profile{{
		Identifier:  "0000-0002-1825-0097",
		Name:        "Josiah Carberry",
		Employments: []string{"Brown University: Professor"},
		Works: []types.Work{{
			Title:         "Psychoceramics",
			Type:          types.WorkJournalArticle,
			Year:          2011,
			DOI:           "10.5555/12345678",
			CitationCount: 3,
			Collaborators: []string{"0000-0002-1825-0097"},
		}},
		WorkCount:      1,
		TotalCitations: 3,
		HIndex:         1,
	}}
}

// clock is a settable time source.
type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newClock() *clock {
	return &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func newSQLite(t *testing.T, c *clock) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(types.CacheConfig{
		Path: filepath.Join(t.TempDir(), "nested", "cache.db"),
		TTL:  time.Hour,
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	s.now = c.now
	return s
}

func newMemory(c *clock) *MemoryStore {
	s := NewMemoryStore(types.CacheConfig{TTL: time.Hour})
	s.now = c.now
	return s
}

// storeContract runs the behaviour every backend shares.
func storeContract(t *testing.T, open func(t *testing.T, c *clock) Cache) {
	ctx := context.Background()

	t.Run("miss", func(t *testing.T) {
		s := open(t, newClock())
		e, err := s.Get(ctx, testKey)
		require.NoError(t, err)
		assert.Nil(t, e)
	})

	t.Run("round trip", func(t *testing.T) {
		c := newClock()
		s := open(t, c)
		require.NoError(t, s.Put(ctx, testKey, sampleProfiles()))

		e, err := s.Get(ctx, testKey)
		require.NoError(t, err)
		require.NotNil(t, e)
		assert.Equal(t, testKey, e.Key)
		assert.Equal(t, sampleProfiles(), e.Profiles)
		assert.True(t, c.t.Equal(e.WrittenAt))
	})

	t.Run("stale after ttl", func(t *testing.T) {
		c := newClock()
		s := open(t, c)
		require.NoError(t, s.Put(ctx, testKey, sampleProfiles()))

		c.t = c.t.Add(59 * time.Minute)
		e, err := s.Get(ctx, testKey)
		require.NoError(t, err)
		assert.NotNil(t, e)

		c.t = c.t.Add(2 * time.Minute)
		e, err = s.Get(ctx, testKey)
		require.NoError(t, err)
		assert.Nil(t, e)
	})

	t.Run("returned entries are copies", func(t *testing.T) {
		s := open(t, newClock())
		profiles := sampleProfiles()
		require.NoError(t, s.Put(ctx, testKey, profiles))
		profiles[0].Name = "changed after put"

		e, err := s.Get(ctx, testKey)
		require.NoError(t, err)
		require.NotNil(t, e)
		e.Profiles[0].Name = "changed after get"
		e.Profiles[0].Works[0].Title = "changed after get"
		e.Profiles[0].Works[0].Collaborators[0] = "changed after get"

		again, err := s.Get(ctx, testKey)
		require.NoError(t, err)
		require.NotNil(t, again)
		assert.Equal(t, sampleProfiles(), again.Profiles)
	})

	t.Run("last writer wins", func(t *testing.T) {
		c := newClock()
		s := open(t, c)
		require.NoError(t, s.Put(ctx, testKey, sampleProfiles()))

		c.t = c.t.Add(2 * time.Hour)
		require.NoError(t, s.Put(ctx, testKey, nil))

		e, err := s.Get(ctx, testKey)
		require.NoError(t, err)
		require.NotNil(t, e)
		assert.Empty(t, e.Profiles)
		assert.True(t, c.t.Equal(e.WrittenAt))
	})
}

func TestSQLiteStore(t *testing.T) {
	storeContract(t, func(t *testing.T, c *clock) Cache { return newSQLite(t, c) })
}

func TestSQLiteStore_StaleRowKept(t *testing.T) {
	ctx := context.Background()
	c := newClock()
	s := newSQLite(t, c)
	require.NoError(t, s.Put(ctx, testKey, sampleProfiles()))

	c.t = c.t.Add(48 * time.Hour)
	e, err := s.Get(ctx, testKey)
	require.NoError(t, err)
	assert.Nil(t, e)

	var n int
	require.NoError(t, s.db.QueryRow(`SELECT count(*) FROM profile_cache`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestSQLiteStore_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	cfg := types.CacheConfig{Path: filepath.Join(t.TempDir(), "cache.db"), TTL: time.Hour}

	s, err := NewSQLiteStore(cfg)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, testKey, sampleProfiles()))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(cfg)
	require.NoError(t, err)
	defer s.Close()
	e, err := s.Get(ctx, testKey)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Len(t, e.Profiles, 1)
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, func(_ *testing.T, c *clock) Cache { return newMemory(c) })
}

func TestTiered_FillsFrontFromBack(t *testing.T) {
	ctx := context.Background()
	c := newClock()
	back := newSQLite(t, c)
	require.NoError(t, back.Put(ctx, testKey, sampleProfiles()))

	front := newMemory(c)
	tiered := &Tiered{Front: front, Back: back}

	c.t = c.t.Add(10 * time.Minute)
	e, err := tiered.Get(ctx, testKey)
	require.NoError(t, err)
	require.NotNil(t, e)

	cached, err := front.Get(ctx, testKey)
	require.NoError(t, err)
	require.NotNil(t, cached)
	// The front keeps the back's timestamp, not the time of the fill.
	assert.True(t, cached.WrittenAt.Equal(e.WrittenAt))
	assert.True(t, cached.WrittenAt.Before(c.t))
}

func TestTiered_WritesThrough(t *testing.T) {
	ctx := context.Background()
	c := newClock()
	back := newSQLite(t, c)
	tiered := &Tiered{Front: newMemory(c), Back: back}

	require.NoError(t, tiered.Put(ctx, testKey, sampleProfiles()))

	e, err := back.Get(ctx, testKey)
	require.NoError(t, err)
	assert.NotNil(t, e)
	require.NoError(t, tiered.Close())
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(types.CacheConfig{Backend: types.CacheNone})
	require.NoError(t, err)
	assert.IsType(t, Nop{}, s)

	s, err = Open(types.CacheConfig{Backend: types.CacheMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(types.CacheConfig{Backend: types.CacheSQLite, Path: filepath.Join(dir, "a.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	s, err = Open(types.CacheConfig{Backend: types.CacheSQLite, Path: filepath.Join(dir, "b.db"), MemoryFront: true})
	require.NoError(t, err)
	assert.IsType(t, &Tiered{}, s)
	require.NoError(t, s.Close())

	_, err = Open(types.CacheConfig{Backend: "etcd"})
	assert.ErrorContains(t, err, "unknown cache backend")

	_, err = Open(types.CacheConfig{Backend: types.CacheRedis})
	assert.ErrorContains(t, err, "requires a URL")
}

func TestNop(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, Nop{}.Put(ctx, testKey, sampleProfiles()))
	e, err := Nop{}.Get(ctx, testKey)
	require.NoError(t, err)
	assert.Nil(t, e)
}
