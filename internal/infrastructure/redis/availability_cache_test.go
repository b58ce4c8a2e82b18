package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fardinGG/nocrashairlines/internal/config"
)

func setupTestRedis(t *testing.T) *redis.Client {
	client := NewClient(&config.RedisConfig{Host: "localhost", Port: "6379"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := Ping(ctx, client); err != nil {
		t.Skip("Redis not available")
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestAvailabilityCache_GetAvailableSeats(t *testing.T) {
	client := setupTestRedis(t)
	cache := NewAvailabilityCache(client)
	ctx := context.Background()
	flightID := "test-flight-123"

	t.Run("キャッシュミス時はErrCacheMissを返す", func(t *testing.T) {
		_, err := cache.GetAvailableSeats(ctx, flightID)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("キャッシュにセットした値を取得できる", func(t *testing.T) {
		err := cache.SetAvailableSeats(ctx, flightID, 180, 30*time.Second)
		require.NoError(t, err)

		count, err := cache.GetAvailableSeats(ctx, flightID)
		require.NoError(t, err)
		assert.Equal(t, 180, count)
	})

	t.Run("キャッシュを無効化できる", func(t *testing.T) {
		err := cache.SetAvailableSeats(ctx, flightID, 42, 30*time.Second)
		require.NoError(t, err)

		err = cache.Invalidate(ctx, flightID)
		require.NoError(t, err)

		_, err = cache.GetAvailableSeats(ctx, flightID)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})
}

func TestAvailabilityCache_TTL(t *testing.T) {
	client := setupTestRedis(t)
	cache := NewAvailabilityCache(client)
	ctx := context.Background()
	flightID := "test-flight-ttl"

	t.Run("TTL経過後はキャッシュミスになる", func(t *testing.T) {
		err := cache.SetAvailableSeats(ctx, flightID, 100, 100*time.Millisecond)
		require.NoError(t, err)

		count, err := cache.GetAvailableSeats(ctx, flightID)
		require.NoError(t, err)
		assert.Equal(t, 100, count)

		time.Sleep(150 * time.Millisecond)
		_, err = cache.GetAvailableSeats(ctx, flightID)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})
}
