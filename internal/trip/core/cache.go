package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mohammad-safakhou/voyago/config"
)

// Cache holds provider responses so repeated queries within a run (or
// across nearby runs) do not hit the network again.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
}

// NewCache selects a cache backend from configuration.
func NewCache(cfg config.CacheConfig) (Cache, error) {
	switch cfg.Backend {
	case "", "memory":
		return newMemoryCache(cfg.TTL), nil
	case "redis":
		return newRedisCache(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", cfg.Backend)
	}
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

func newMemoryCache(ttl time.Duration) *memoryCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &memoryCache{entries: make(map[string]memoryEntry), ttl: ttl}
}

func (c *memoryCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		return "", false
	}
	return e.value, true
}

func (c *memoryCache) Set(_ context.Context, key, value string) {
	c.mu.Lock()
	c.entries[key] = memoryEntry{value: value, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func newRedisCache(cfg config.CacheConfig) *redisCache {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &redisCache{
		client: redis.NewClient(&redis.Options{
			Addr:        fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: cfg.Redis.Timeout,
		}),
		ttl: ttl,
	}
}

func (c *redisCache) Get(ctx context.Context, key string) (string, bool) {
	v, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return v, true
}

func (c *redisCache) Set(ctx context.Context, key, value string) {
	// Best effort; a cache write failure never affects planning.
	_ = c.client.Set(ctx, key, value, c.ttl).Err()
}
