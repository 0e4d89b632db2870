package search

import (
	"context"
	"testing"
	"time"

	"slotcal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisContextStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisContextStore(client, 30*time.Minute)
	ctx := context.Background()

	empty, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, empty.LastMatched)

	require.NoError(t, store.Set(ctx, "s1", &models.SearchContext{LastQuery: "friday morning", LastMatched: []string{"friday", "morning"}}))
	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "friday morning", got.LastQuery)
	assert.Equal(t, []string{"friday", "morning"}, got.LastMatched)
	assert.Equal(t, 30*time.Minute, mr.TTL(searchContextPrefix+"s1"))

	mr.FastForward(31 * time.Minute)
	expired, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, expired.LastMatched)

	require.NoError(t, store.Set(ctx, "s2", &models.SearchContext{LastMatched: []string{"booked"}}))
	require.NoError(t, store.Clear(ctx, "s2"))
	cleared, err := store.Get(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, cleared.LastMatched)
}
