package cache_test

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notekeeper/internal/notes/adapters/cache"
	cachePorts "notekeeper/internal/notes/ports/cache"
	"notekeeper/pkg/db/redis"
	"notekeeper/pkg/resilience"
)

func newRedisCache(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, cachePorts.Cache) {
	t.Helper()

	srv := miniredis.RunT(t)

	host, portStr, _ := strings.Cut(srv.Addr(), ":")
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	cfg := redis.DefaultConfig()
	cfg.Host = host
	cfg.Port = port

	client, err := redis.NewClient(context.Background(), cfg)
	require.NoError(t, err)

	c := cache.NewRedisCache(client, ttl)
	t.Cleanup(func() { _ = c.Close() })

	return srv, c
}

func TestRedisCache_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	srv, c := newRedisCache(t, time.Hour)

	value, err := c.Get(ctx, "notes:1")
	require.NoError(t, err, "miss should not be an error")
	assert.Empty(t, value)

	require.NoError(t, c.Set(ctx, "notes:1", `{"id":1}`, time.Minute))

	value, err = c.Get(ctx, "notes:1")
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, value)
	assert.Equal(t, time.Minute, srv.TTL("notes:1"))

	require.NoError(t, c.Delete(ctx, "notes:1"))
	assert.False(t, srv.Exists("notes:1"))
}

func TestRedisCache_SetIfAbsent(t *testing.T) {
	ctx := context.Background()
	srv, c := newRedisCache(t, time.Hour)

	stored, err := c.SetIfAbsent(ctx, "notes:4", "first", time.Minute)
	require.NoError(t, err)
	assert.True(t, stored)
	assert.Equal(t, time.Minute, srv.TTL("notes:4"))

	stored, err = c.SetIfAbsent(ctx, "notes:4", "second", time.Minute)
	require.NoError(t, err)
	assert.False(t, stored)

	value, err := c.Get(ctx, "notes:4")
	require.NoError(t, err)
	assert.Equal(t, "first", value)

	stored, err = c.SetIfAbsent(ctx, "notes:5", "x", 0)
	require.NoError(t, err)
	assert.True(t, stored)
	assert.Equal(t, time.Hour, srv.TTL("notes:5"))
}

func TestRedisCache_DefaultTTL(t *testing.T) {
	ctx := context.Background()
	srv, c := newRedisCache(t, 30*time.Second)

	require.NoError(t, c.Set(ctx, "notes:2", "cached", 0))
	assert.Equal(t, 30*time.Second, srv.TTL("notes:2"))

	srv.FastForward(31 * time.Second)

	value, err := c.Get(ctx, "notes:2")
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestRedisCache_ServerDown(t *testing.T) {
	ctx := context.Background()
	srv, c := newRedisCache(t, time.Minute)

	srv.Close()

	_, err := c.Get(ctx, "notes:3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), cache.ErrorFailedToGet)

	err = c.Set(ctx, "notes:3", "x", time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), cache.ErrorFailedToSet)

	err = c.Delete(ctx, "notes:3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), cache.ErrorFailedToDelete)

	_, err = c.SetIfAbsent(ctx, "notes:3", "x", time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), cache.ErrorFailedToSet)
}

func TestNoopCache(t *testing.T) {
	ctx := context.Background()
	c := cache.NewNoopCache()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))

	stored, err := c.SetIfAbsent(ctx, "k", "v", time.Minute)
	require.NoError(t, err)
	assert.False(t, stored)

	value, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, value)

	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.Close())
}

func TestBreakerCache(t *testing.T) {
	ctx := context.Background()
	srv, redisCache := newRedisCache(t, time.Minute)
	breaker := resilience.NewCircuitBreaker("test-cache", resilience.CircuitBreakerConfig{
		ErrorThreshold:   1,
		Timeout:          time.Hour,
		SuccessThreshold: 1,
	})
	c := cache.NewBreakerCache(redisCache, breaker)

	require.NoError(t, c.Set(ctx, "notes:1", "v", time.Minute))
	value, err := c.Get(ctx, "notes:1")
	require.NoError(t, err)
	assert.Equal(t, "v", value)

	srv.Close()

	_, err = c.Get(ctx, "notes:1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, resilience.StateOpen, breaker.GetState())

	_, err = c.Get(ctx, "notes:1")
	require.ErrorIs(t, err, resilience.ErrCircuitOpen)
	require.ErrorIs(t, c.Set(ctx, "notes:1", "v", 0), resilience.ErrCircuitOpen)
	require.ErrorIs(t, c.Delete(ctx, "notes:1"), resilience.ErrCircuitOpen)
	_, err = c.SetIfAbsent(ctx, "notes:1", "v", 0)
	require.ErrorIs(t, err, resilience.ErrCircuitOpen)
}

func TestBreakerCache_CanceledRequestsDoNotTrip(t *testing.T) {
	_, redisCache := newRedisCache(t, time.Minute)
	breaker := resilience.NewCircuitBreaker("test-cache", resilience.CircuitBreakerConfig{
		ErrorThreshold:   1,
		Timeout:          time.Hour,
		SuccessThreshold: 1,
	})
	c := cache.NewBreakerCache(redisCache, breaker)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for range 3 {
		_, err := c.Get(ctx, "notes:1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, resilience.ErrCircuitOpen)
	}
	assert.Equal(t, resilience.StateClosed, breaker.GetState())

	value, err := c.Get(context.Background(), "notes:1")
	require.NoError(t, err)
	assert.Empty(t, value)
}
