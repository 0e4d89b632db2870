// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"slotcal/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient backs the shared analytics cache.
	CacheClient *redis.Client
	// ContextCacheClient holds per-session search context.
	ContextCacheClient *redis.Client
)

func newRedisClient(db int, name string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis (%s): %v", name, err)
	}
	return client
}

// GetCacheClient returns the analytics cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		CacheClient = newRedisClient(config.AppConfig.RedisCacheDB, "Cache")
	}
	return CacheClient
}

// GetContextCacheClient returns the Redis client for search session context.
func GetContextCacheClient() *redis.Client {
	if ContextCacheClient == nil {
		ContextCacheClient = newRedisClient(config.AppConfig.RedisContextDB, "Search Context")
	}
	return ContextCacheClient
}
