package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-route-planner/internal/types"
)

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, "planner:"), mr
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()

	t.Run("miss maps to ErrCacheMiss", func(t *testing.T) {
		store, _ := setupRedisStore(t)
		_, err := store.Get(ctx, "absent")
		assert.ErrorIs(t, err, types.ErrCacheMiss)
	})

	t.Run("prefixes keys", func(t *testing.T) {
		store, mr := setupRedisStore(t)
		require.NoError(t, store.Set(ctx, "image:paris", []byte("url"), time.Hour))
		assert.True(t, mr.Exists("planner:image:paris"))

		b, err := store.Get(ctx, "image:paris")
		require.NoError(t, err)
		assert.Equal(t, "url", string(b))
	})

	t.Run("ttl expiry", func(t *testing.T) {
		store, mr := setupRedisStore(t)
		require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))
		mr.FastForward(2 * time.Minute)
		_, err := store.Get(ctx, "k")
		assert.ErrorIs(t, err, types.ErrCacheMiss)
	})

	t.Run("zero ttl persists", func(t *testing.T) {
		store, mr := setupRedisStore(t)
		require.NoError(t, store.Set(ctx, "k", []byte("v"), 0))
		mr.FastForward(24 * time.Hour)
		_, err := store.Get(ctx, "k")
		assert.NoError(t, err)
		assert.Equal(t, time.Duration(0), mr.TTL("planner:k"))
	})

	t.Run("delete", func(t *testing.T) {
		store, _ := setupRedisStore(t)
		require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))
		require.NoError(t, store.Delete(ctx, "k"))
		_, err := store.Get(ctx, "k")
		assert.ErrorIs(t, err, types.ErrCacheMiss)
	})

	t.Run("unreachable server is an error, not a miss", func(t *testing.T) {
		store, mr := setupRedisStore(t)
		mr.Close()
		_, err := store.Get(ctx, "k")
		require.Error(t, err)
		assert.NotErrorIs(t, err, types.ErrCacheMiss)
	})
}
