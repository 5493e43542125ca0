package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter answers whether a client may hit an endpoint category right
// now. resetTime is how long a refused client should wait.
type Limiter interface {
	Allow(clientID, category string) (allowed bool, resetTime time.Duration, err error)
	Limit(category string) Limit
}

// Limit is a fixed-window budget for one endpoint category.
type Limit struct {
	Requests int
	Window   time.Duration
}

// Config maps endpoint categories to budgets. Login and signup are kept
// tight; application submission a little looser.
type Config struct {
	Enabled   bool
	KeyPrefix string
	Limits    map[string]Limit
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:   true,
		KeyPrefix: "ratelimit:",
		Limits: map[string]Limit{
			"auth":    {Requests: 10, Window: time.Minute},
			"apply":   {Requests: 30, Window: time.Minute},
			"default": {Requests: 120, Window: time.Minute},
		},
	}
}

func (c *Config) limit(category string) Limit {
	if l, ok := c.Limits[category]; ok {
		return l
	}
	if l, ok := c.Limits["default"]; ok {
		return l
	}
	return Limit{Requests: 60, Window: time.Minute}
}

// RedisLimiter counts requests in Redis with one Lua script per check,
// so concurrent requests against the same window cannot both slip in.
type RedisLimiter struct {
	client *redis.Client
	config *Config
	ctx    context.Context
}

func NewRedisLimiter(client *redis.Client, config *Config) *RedisLimiter {
	if config == nil {
		config = DefaultConfig()
	}
	return &RedisLimiter{
		client: client,
		config: config,
		ctx:    context.Background(),
	}
}

var windowScript = redis.NewScript(`
	local key = KEYS[1]
	local budget = tonumber(ARGV[1])
	local window_ms = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])

	local count = tonumber(redis.call('HGET', key, 'count')) or 0
	local window_start = tonumber(redis.call('HGET', key, 'window_start')) or now

	if now - window_start >= window_ms then
		count = 0
		window_start = now
	end

	local allowed = count < budget
	if allowed then
		count = count + 1
	end

	local reset_ms = 0
	if not allowed then
		reset_ms = (window_start + window_ms) - now
	end

	redis.call('HSET', key, 'count', count, 'window_start', window_start)
	redis.call('PEXPIRE', key, window_ms + 1000)

	return {allowed and 1 or 0, reset_ms}
`)

func (r *RedisLimiter) Allow(clientID, category string) (bool, time.Duration, error) {
	if !r.config.Enabled {
		return true, 0, nil
	}

	limit := r.config.limit(category)
	key := fmt.Sprintf("%s%s:%s", r.config.KeyPrefix, category, clientID)

	result, err := windowScript.Run(r.ctx, r.client, []string{key},
		limit.Requests,
		limit.Window.Milliseconds(),
		time.Now().UnixMilli(),
	).Result()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit check failed: %w", err)
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 2 {
		return false, 0, fmt.Errorf("unexpected rate limit script result")
	}

	allowed := values[0].(int64) == 1
	resetTime := time.Duration(values[1].(int64)) * time.Millisecond
	return allowed, resetTime, nil
}

func (r *RedisLimiter) Limit(category string) Limit {
	return r.config.limit(category)
}
