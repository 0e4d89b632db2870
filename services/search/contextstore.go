package search

import (
	"context"
	"encoding/json"
	"time"

	"slotcal/models"

	"github.com/go-redis/redis/v8"
)

const searchContextPrefix = "search:ctx:"

// ContextStore remembers the last query of each session so suggestions can chain.
type ContextStore interface {
	Get(ctx context.Context, sessionID string) (*models.SearchContext, error)
	Set(ctx context.Context, sessionID string, sc *models.SearchContext) error
	Clear(ctx context.Context, sessionID string) error
}

type RedisContextStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisContextStore(client *redis.Client, ttl time.Duration) *RedisContextStore {
	return &RedisContextStore{client: client, ttl: ttl}
}

// Get returns an empty context for unknown sessions.
func (s *RedisContextStore) Get(ctx context.Context, sessionID string) (*models.SearchContext, error) {
	data, err := s.client.Get(ctx, searchContextPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return &models.SearchContext{}, nil
	}
	if err != nil {
		return nil, err
	}
	var sc models.SearchContext
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (s *RedisContextStore) Set(ctx context.Context, sessionID string, sc *models.SearchContext) error {
	b, err := json.Marshal(sc)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, searchContextPrefix+sessionID, b, s.ttl).Err()
}

func (s *RedisContextStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, searchContextPrefix+sessionID).Err()
}
