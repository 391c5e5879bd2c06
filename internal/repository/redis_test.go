package repository

import (
	"context"
	"testing"
	"time"

	"wishbot/internal/config"
	"wishbot/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	client := NewRedisClient(config.RedisConfig{Address: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return s, client
}

func TestRedisStateRepository(t *testing.T) {
	s, client := setupRedis(t)
	repo := NewRedisStateRepository(client, time.Hour)
	ctx := context.Background()

	t.Run("SetAndGetState", func(t *testing.T) {
		state := &models.UserState{
			UserID:      123,
			CurrentStep: "item_name",
			TempData:    map[string]interface{}{"category_id": float64(7)},
		}

		require.NoError(t, repo.SetState(ctx, state))

		got, err := repo.GetState(ctx, 123)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, state.CurrentStep, got.CurrentStep)
		assert.Equal(t, int64(7), got.GetInt64("category_id"))
	})

	t.Run("GetNonExistentState", func(t *testing.T) {
		got, err := repo.GetState(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("StateExpires", func(t *testing.T) {
		require.NoError(t, repo.SetState(ctx, &models.UserState{UserID: 321, CurrentStep: "x"}))
		s.FastForward(time.Hour + time.Second)

		got, err := repo.GetState(ctx, 321)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("ClearState", func(t *testing.T) {
		require.NoError(t, repo.SetState(ctx, &models.UserState{UserID: 456, CurrentStep: "test"}))

		require.NoError(t, repo.ClearState(ctx, 456))

		got, _ := repo.GetState(ctx, 456)
		assert.Nil(t, got)
	})

	t.Run("RateLimit", func(t *testing.T) {
		userID := int64(789)
		window := time.Second

		allowed, err := repo.CheckRateLimit(ctx, userID, 2, window)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = repo.CheckRateLimit(ctx, userID, 2, window)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = repo.CheckRateLimit(ctx, userID, 2, window)
		require.NoError(t, err)
		assert.False(t, allowed)

		s.FastForward(window + time.Millisecond)

		allowed, err = repo.CheckRateLimit(ctx, userID, 2, window)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("NilClient", func(t *testing.T) {
		repo := NewRedisStateRepository(nil, time.Hour)
		_, err := repo.GetState(ctx, 123)
		assert.ErrorIs(t, err, errNilClient)
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, Ping(ctx, client))
	})
}

func TestRedisCounter(t *testing.T) {
	s, client := setupRedis(t)
	counter := NewRedisCounter(client)
	ctx := context.Background()
	key := "access_code_attempts:1"

	n, err := counter.Increment(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	s.FastForward(30 * time.Second)

	// the window slides with every increment
	n, err = counter.Increment(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = counter.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	ttl, err := counter.TTL(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, ttl)

	require.NoError(t, counter.Expire(ctx, key, 15*time.Minute))
	ttl, err = counter.TTL(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, ttl)

	s.FastForward(15*time.Minute + time.Second)
	ttl, err = counter.TTL(ctx, key)
	require.NoError(t, err)
	assert.Zero(t, ttl)

	n, err = counter.Increment(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, counter.Delete(ctx, key))
	assert.False(t, s.Exists(key))

	n, err = counter.Get(ctx, key)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedisCounter_Unavailable(t *testing.T) {
	s, client := setupRedis(t)
	counter := NewRedisCounter(client)
	s.Close()

	_, err := counter.Increment(context.Background(), "k", time.Minute)
	assert.Error(t, err)

	_, err = NewRedisCounter(nil).TTL(context.Background(), "k")
	assert.ErrorIs(t, err, errNilClient)
}

func TestRedisLease(t *testing.T) {
	s, client := setupRedis(t)
	lease := NewRedisLease(client)
	ctx := context.Background()
	key := "lease:notify"

	token, ok, err := lease.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEmpty(t, token)

	_, ok, err = lease.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	refreshed, err := lease.Refresh(ctx, key, token, 2*time.Minute)
	require.NoError(t, err)
	assert.True(t, refreshed)

	refreshed, err = lease.Refresh(ctx, key, "stranger", time.Minute)
	require.NoError(t, err)
	assert.False(t, refreshed)

	// a foreign token does not release the lease
	require.NoError(t, lease.Release(ctx, key, "stranger"))
	assert.True(t, s.Exists(key))

	require.NoError(t, lease.Release(ctx, key, token))
	assert.False(t, s.Exists(key))

	_, ok, err = lease.Acquire(ctx, key, time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	s.FastForward(2 * time.Second)

	_, ok, err = lease.Acquire(ctx, key, time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}
