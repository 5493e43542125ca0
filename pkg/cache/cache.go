package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/internal/config"
	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/internal/models"

	"github.com/redis/go-redis/v9"
)

// Manager caches the public hiring listing. A nil result with a nil
// error is a cache miss.
type Manager interface {
	GetHiringList(key string) (*HiringListEntry, error)
	SetHiringList(key string, entry *HiringListEntry, ttl time.Duration) error
	InvalidateHiringLists() error
	HealthCheck() error
	Close() error
}

// HiringListEntry is one cached page plus its total count, so the
// pagination envelope can be rebuilt without touching Mongo.
type HiringListEntry struct {
	Hirings []*models.DriverHiring `json:"hirings"`
	Total   int64                  `json:"total"`
}

// RedisManager implements Manager on top of go-redis. Every cached list
// key is tracked in a tag set so a mutation can drop all pages at once.
type RedisManager struct {
	client *redis.Client
	config Config
	ctx    context.Context
}

func NewRedisManager(cfg config.RedisConfig, cacheCfg Config) *RedisManager {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &RedisManager{
		client: client,
		config: cacheCfg,
		ctx:    context.Background(),
	}
}

// NewRedisManagerWithClient wires an existing client, letting callers
// share one connection pool across cache and limiter.
func NewRedisManagerWithClient(client *redis.Client, cacheCfg Config) *RedisManager {
	return &RedisManager{
		client: client,
		config: cacheCfg,
		ctx:    context.Background(),
	}
}

func (r *RedisManager) GetHiringList(key string) (*HiringListEntry, error) {
	data, err := r.client.Get(r.ctx, r.buildKey(key)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get hiring list from cache: %w", err)
	}

	var entry HiringListEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal hiring list: %w", err)
	}

	return &entry, nil
}

func (r *RedisManager) SetHiringList(key string, entry *HiringListEntry, ttl time.Duration) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal hiring list: %w", err)
	}

	fullKey := r.buildKey(key)
	if err := r.client.Set(r.ctx, fullKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache hiring list: %w", err)
	}

	// Track the key so InvalidateHiringLists can find it later
	if err := r.client.SAdd(r.ctx, r.tagKey(), fullKey).Err(); err != nil {
		return fmt.Errorf("failed to tag hiring list key: %w", err)
	}

	return nil
}

// InvalidateHiringLists drops every cached listing page. Called after
// any hiring mutation.
func (r *RedisManager) InvalidateHiringLists() error {
	keys, err := r.client.SMembers(r.ctx, r.tagKey()).Result()
	if err != nil {
		return fmt.Errorf("failed to read hiring list tag: %w", err)
	}

	if len(keys) > 0 {
		if err := r.client.Del(r.ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to delete hiring list keys: %w", err)
		}
	}

	return r.client.Del(r.ctx, r.tagKey()).Err()
}

func (r *RedisManager) HealthCheck() error {
	ctx, cancel := context.WithTimeout(r.ctx, 5*time.Second)
	defer cancel()
	return r.client.Ping(ctx).Err()
}

func (r *RedisManager) Close() error {
	return r.client.Close()
}

func (r *RedisManager) buildKey(key string) string {
	return r.config.KeyPrefix + "hiring_list:" + key
}

func (r *RedisManager) tagKey() string {
	return r.config.TagPrefix + "hiring_lists"
}
