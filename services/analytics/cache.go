package analytics

import (
	"context"
	"encoding/json"
	"time"

	"slotcal/models"

	"github.com/go-redis/redis/v8"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache stores analytics by snapshot fingerprint.
type Cache interface {
	Get(ctx context.Context, key string) (models.CalendarAnalytics, bool, error)
	Set(ctx context.Context, key string, a models.CalendarAnalytics) error
}

// MemoryCache is a size-bounded in-process cache with per-entry TTL.
type MemoryCache struct {
	lru *expirable.LRU[string, models.CalendarAnalytics]
}

func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = 256
	}
	return &MemoryCache{lru: expirable.NewLRU[string, models.CalendarAnalytics](size, nil, ttl)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (models.CalendarAnalytics, bool, error) {
	a, ok := c.lru.Get(key)
	return a, ok, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, a models.CalendarAnalytics) error {
	c.lru.Add(key, a)
	return nil
}

const analyticsKeyPrefix = "analytics:"

// RedisCache shares analytics between processes.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (models.CalendarAnalytics, bool, error) {
	var a models.CalendarAnalytics
	data, err := c.client.Get(ctx, analyticsKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return a, false, nil
	}
	if err != nil {
		return a, false, err
	}
	if err := json.Unmarshal(data, &a); err != nil {
		return a, false, err
	}
	return a, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, a models.CalendarAnalytics) error {
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, analyticsKeyPrefix+key, data, c.ttl).Err()
}

// TieredCache reads the in-process cache first and fills it from the shared one.
type TieredCache struct {
	Local  Cache
	Shared Cache
}

func (c TieredCache) Get(ctx context.Context, key string) (models.CalendarAnalytics, bool, error) {
	if a, ok, _ := c.Local.Get(ctx, key); ok {
		return a, true, nil
	}
	a, ok, err := c.Shared.Get(ctx, key)
	if err != nil || !ok {
		return a, ok, err
	}
	_ = c.Local.Set(ctx, key, a)
	return a, true, nil
}

func (c TieredCache) Set(ctx context.Context, key string, a models.CalendarAnalytics) error {
	_ = c.Local.Set(ctx, key, a)
	return c.Shared.Set(ctx, key, a)
}
