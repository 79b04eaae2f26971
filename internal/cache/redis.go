// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pdiddy/profile-engine/internal/errors"
	"github.com/pdiddy/profile-engine/pkg/types"
)

const redisKeyPrefix = "profile-cache:"

// redisClient is the subset of *redis.Client the store uses.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Close() error
}

// RedisStore keeps entries as JSON envelopes in Redis. Freshness is decided
// at read time against WrittenAt; the Redis expiry only bounds how long
// abandoned keys linger.
type RedisStore struct {
	client    redisClient
	retention time.Duration
	freshness
}

// NewRedisStore connects to cfg.RedisURL.
func NewRedisStore(cfg types.CacheConfig) (*RedisStore, error) {
	if cfg.RedisURL == "" {
		return nil, errors.WithHint(
			errors.New("redis cache backend requires a URL"),
			"set cache.redis_url or PROFILE_ENGINE_CACHE_REDIS_URL",
		)
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, errors.Wrap(err, "parsing redis URL")
	}
	return newRedisStore(redis.NewClient(opts), cfg), nil
}

func newRedisStore(client redisClient, cfg types.CacheConfig) *RedisStore {
	return &RedisStore{
		client:    client,
		retention: retention(cfg.Retention),
		freshness: newFreshness(cfg.TTL),
	}
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Get returns the fresh entry for key, or nil.
func (s *RedisStore) Get(ctx context.Context, key string) (*types.CacheEntry, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading cache entry %q", key)
	}
	e, err := decode(key, data)
	if err != nil {
		return nil, err
	}
	return s.fresh(e), nil
}

// Put writes the entry for key with the retention expiry.
func (s *RedisStore) Put(ctx context.Context, key string, profiles []types.Profile) error {
	data, err := encode(profiles, s.now())
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, redisKeyPrefix+key, data, s.retention).Err(); err != nil {
		return errors.Wrapf(err, "writing cache entry %q", key)
	}
	return nil
}
