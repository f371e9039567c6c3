package graphclient

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_AllowWithinBurst(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{RequestsPerSecond: 100, BurstSize: 3})

	assert.True(t, limiter.Allow())
	assert.True(t, limiter.Allow())
	assert.True(t, limiter.Allow())
	assert.False(t, limiter.Allow(), "burst exhausted")
}

func TestRateLimiter_BackoffBlocksAllow(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{RequestsPerSecond: 100, BurstSize: 10})

	limiter.RecordRateLimitError(30)

	assert.False(t, limiter.Allow())
}

func TestRateLimiter_WaitHonoursContextDuringBackoff(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{RequestsPerSecond: 100, BurstSize: 10})
	limiter.RecordRateLimitError(60)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := limiter.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewRateLimiter_InvalidConfigFallsBack(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{})

	assert.True(t, limiter.Allow())
}
