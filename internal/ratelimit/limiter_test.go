package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchlens/startup-meter/internal/monitoring"
)

func newFallbackLimiter(t *testing.T, limit int, window time.Duration) *RateLimiter {
	t.Helper()
	redisClient, err := NewRedisClient("", "", 0)
	require.NoError(t, err)
	require.False(t, redisClient.IsEnabled())

	return NewRateLimiter(redisClient, limit, window, monitoring.NewMetrics())
}

func TestAllowIPFallbackQuota(t *testing.T) {
	limiter := newFallbackLimiter(t, 5, time.Hour)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		result, err := limiter.AllowIP(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, result.Allowed, "request %d within quota must be allowed", i+1)
		assert.Equal(t, 5, result.Limit)
	}

	result, err := limiter.AllowIP(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Greater(t, result.RetryAfter, time.Duration(0))
	assert.Zero(t, result.Remaining)
}

func TestAllowIPIndependentKeys(t *testing.T) {
	limiter := newFallbackLimiter(t, 1, time.Hour)
	ctx := context.Background()

	first, err := limiter.AllowIP(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, first.Allowed)

	blocked, err := limiter.AllowIP(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, blocked.Allowed)

	// A different IP has its own bucket
	other, err := limiter.AllowIP(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, other.Allowed)
}

func TestAllowIPRemainingDecreases(t *testing.T) {
	limiter := newFallbackLimiter(t, 10, time.Hour)
	ctx := context.Background()

	first, err := limiter.AllowIP(ctx, "10.0.0.3")
	require.NoError(t, err)
	second, err := limiter.AllowIP(ctx, "10.0.0.3")
	require.NoError(t, err)

	assert.Greater(t, first.Remaining, second.Remaining)
}

func TestGetStats(t *testing.T) {
	limiter := newFallbackLimiter(t, 100, 15*time.Minute)

	for i := 0; i < 3; i++ {
		_, err := limiter.AllowIP(context.Background(), fmt.Sprintf("10.0.0.%d", i))
		require.NoError(t, err)
	}

	stats := limiter.GetStats()
	assert.Equal(t, false, stats["redis_enabled"])
	assert.Equal(t, 3, stats["fallback_limiters"])
	assert.Equal(t, 100, stats["limit"])
	assert.Equal(t, (15 * time.Minute).Seconds(), stats["window_seconds"])
}

func TestNewRedisClientDisabledWithoutAddr(t *testing.T) {
	client, err := NewRedisClient("", "", 0)
	require.NoError(t, err)
	assert.False(t, client.IsEnabled())
	assert.NoError(t, client.Close())
}
