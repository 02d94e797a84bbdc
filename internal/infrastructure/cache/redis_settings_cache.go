package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nextpos/printing/internal/domain/settings"
)

// DefaultSettingsKey is the Redis key holding the cached settings
const DefaultSettingsKey = "nextpos:printing:settings"

// RedisSettingsCache shares cached settings between service instances
type RedisSettingsCache struct {
	client redis.Cmdable
	key    string
}

var _ SettingsCache = (*RedisSettingsCache)(nil)

// NewRedisSettingsCache creates a cache on an existing client. An empty key
// selects DefaultSettingsKey.
func NewRedisSettingsCache(client redis.Cmdable, key string) *RedisSettingsCache {
	if key == "" {
		key = DefaultSettingsKey
	}
	return &RedisSettingsCache{client: client, key: key}
}

// Get reads and decodes the cached settings
func (c *RedisSettingsCache) Get(ctx context.Context) (*settings.PrintSettings, bool, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cached settings: %w", err)
	}
	var s settings.PrintSettings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached settings: %w", err)
	}
	return &s, true, nil
}

// Set encodes s and stores it with ttl
func (c *RedisSettingsCache) Set(ctx context.Context, s *settings.PrintSettings, ttl time.Duration) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := c.client.Set(ctx, c.key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache settings: %w", err)
	}
	return nil
}

// Invalidate deletes the cached settings
func (c *RedisSettingsCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached settings: %w", err)
	}
	return nil
}
