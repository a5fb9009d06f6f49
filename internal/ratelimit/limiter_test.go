package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokensentry/tokensentry/internal/monitoring"
)

func TestRateLimiterFallbackMode(t *testing.T) {
	// No Redis configured, the limiter must run on the in-memory fallback.
	redisClient := &RedisClient{enabled: false}
	config := Config{
		IPLimitPerMin:   5,
		BurstMultiplier: 1,
	}
	metrics := monitoring.NewMetrics()

	limiter := NewRateLimiter(redisClient, config, metrics)

	ctx := context.Background()

	// Burst floor is 5, so the first 5 requests pass.
	for i := 0; i < 5; i++ {
		result, err := limiter.AllowIP(ctx, "203.0.113.7")
		require.NoError(t, err)
		assert.True(t, result.Allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 5, result.Limit)
	}

	result, err := limiter.AllowIP(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, result.Allowed, "6th request should be blocked")
	assert.Greater(t, result.RetryAfter, time.Duration(0))
}

func TestRateLimiterIsolatesIPs(t *testing.T) {
	redisClient := &RedisClient{enabled: false}
	limiter := NewRateLimiter(redisClient, Config{IPLimitPerMin: 5, BurstMultiplier: 1}, nil)

	ctx := context.Background()

	for i := 0; i < 5; i++ {
		result, err := limiter.AllowIP(ctx, "198.51.100.1")
		require.NoError(t, err)
		require.True(t, result.Allowed)
	}

	blocked, err := limiter.AllowIP(ctx, "198.51.100.1")
	require.NoError(t, err)
	assert.False(t, blocked.Allowed)

	// A different IP has its own bucket.
	other, err := limiter.AllowIP(ctx, "198.51.100.2")
	require.NoError(t, err)
	assert.True(t, other.Allowed)
}

func TestRateLimiterStats(t *testing.T) {
	redisClient := &RedisClient{enabled: false}
	limiter := NewRateLimiter(redisClient, DefaultConfig(), nil)

	_, err := limiter.AllowIP(context.Background(), "192.0.2.1")
	require.NoError(t, err)

	stats := limiter.GetStats()
	assert.Equal(t, false, stats["redis_enabled"])
	assert.Equal(t, 1, stats["fallback_limiters"])
}
