// Package cache provides the redis-backed result cache. The engine is
// deterministic, so a computation keyed by the hash of its inputs can be
// served from cache indefinitely; the TTL only bounds memory.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisResultCache stores serialized computation outputs in redis.
type RedisResultCache struct {
	client *redis.Client
}

// NewRedisResultCache connects a cache to the given redis instance.
func NewRedisResultCache(addr, password string, db int) *RedisResultCache {
	return &RedisResultCache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// Ping verifies connectivity at boot.
func (c *RedisResultCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Get returns the cached value for key, if any.
func (c *RedisResultCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Set stores a value under key with the given TTL.
func (c *RedisResultCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Close releases the client.
func (c *RedisResultCache) Close() error {
	return c.client.Close()
}

// NoopCache is used when redis is not configured: every lookup misses and
// every store succeeds silently.
type NoopCache struct{}

func (NoopCache) Get(ctx context.Context, key string) (string, bool) { return "", false }

func (NoopCache) Set(ctx context.Context, key, value string, ttl time.Duration) error { return nil }
