package ratelimit

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLimiter(t *testing.T, cfg *Config) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisLimiter(client, cfg), mr
}

func TestAllowWithinBudget(t *testing.T) {
	limiter, _ := setupTestLimiter(t, &Config{
		Enabled:   true,
		KeyPrefix: "ratelimit:",
		Limits:    map[string]Limit{"auth": {Requests: 3, Window: time.Minute}},
	})

	for i := 0; i < 3; i++ {
		allowed, _, err := limiter.Allow("user:1", "auth")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should pass", i+1)
	}

	allowed, resetTime, err := limiter.Allow("user:1", "auth")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, resetTime, time.Duration(0))
}

func TestClientsAreIndependent(t *testing.T) {
	limiter, _ := setupTestLimiter(t, &Config{
		Enabled:   true,
		KeyPrefix: "ratelimit:",
		Limits:    map[string]Limit{"auth": {Requests: 1, Window: time.Minute}},
	})

	allowed, _, err := limiter.Allow("user:1", "auth")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, _, err = limiter.Allow("user:1", "auth")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, _, err = limiter.Allow("user:2", "auth")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestWindowResets(t *testing.T) {
	limiter, _ := setupTestLimiter(t, &Config{
		Enabled:   true,
		KeyPrefix: "ratelimit:",
		Limits:    map[string]Limit{"apply": {Requests: 1, Window: time.Second}},
	})

	allowed, _, err := limiter.Allow("user:1", "apply")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, _, err = limiter.Allow("user:1", "apply")
	require.NoError(t, err)
	assert.False(t, allowed)

	// The window is driven by the caller's clock, not Redis time
	time.Sleep(1100 * time.Millisecond)

	allowed, _, err = limiter.Allow("user:1", "apply")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestDisabledLimiterAllowsEverything(t *testing.T) {
	limiter, _ := setupTestLimiter(t, &Config{Enabled: false})

	for i := 0; i < 1000; i++ {
		allowed, _, err := limiter.Allow("user:1", "auth")
		require.NoError(t, err)
		assert.True(t, allowed)
	}
}

func TestUnknownCategoryFallsBackToDefault(t *testing.T) {
	limiter, _ := setupTestLimiter(t, DefaultConfig())

	limit := limiter.Limit("never-registered")
	assert.Equal(t, DefaultConfig().Limits["default"], limit)
}
