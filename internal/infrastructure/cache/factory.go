package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nextpos/printing/internal/infrastructure/config"
)

// SettingsCacheFactory creates the settings cache from configuration
type SettingsCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	pingTimeout           time.Duration
}

// SettingsCacheFactoryOption is a functional option for configuring the factory
type SettingsCacheFactoryOption func(*SettingsCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) SettingsCacheFactoryOption {
	return func(f *SettingsCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// the in-memory cache. Default is true.
func WithInMemoryFallback(allow bool) SettingsCacheFactoryOption {
	return func(f *SettingsCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// WithPingTimeout bounds the Redis connectivity check
func WithPingTimeout(d time.Duration) SettingsCacheFactoryOption {
	return func(f *SettingsCacheFactory) {
		f.pingTimeout = d
	}
}

// NewSettingsCacheFactory creates a new factory
func NewSettingsCacheFactory(cfg config.RedisConfig, opts ...SettingsCacheFactoryOption) *SettingsCacheFactory {
	f := &SettingsCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		pingTimeout:           5 * time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateRedisCache connects to Redis and returns a cache on that client
// together with the client so the caller can close it
func (f *SettingsCacheFactory) CreateRedisCache(ctx context.Context) (*RedisSettingsCache, *redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        f.redisConfig.Addr(),
		Password:    f.redisConfig.Password,
		DB:          f.redisConfig.DB,
		DialTimeout: f.pingTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, f.pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisSettingsCache(client, ""), client, nil
}

// CreateCache returns a Redis cache when Redis is enabled and reachable,
// otherwise an in-memory cache. The returned close function is never nil.
func (f *SettingsCacheFactory) CreateCache(ctx context.Context) (SettingsCache, func() error, error) {
	noop := func() error { return nil }
	if !f.redisConfig.Enabled {
		f.logger.Info("Using in-memory settings cache")
		return NewInMemorySettingsCache(), noop, nil
	}

	c, client, err := f.CreateRedisCache(ctx)
	if err == nil {
		f.logger.Info("Using Redis settings cache", zap.String("addr", f.redisConfig.Addr()))
		return c, client.Close, nil
	}
	if !f.allowInMemoryFallback {
		return nil, noop, fmt.Errorf("redis required for settings cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory settings cache. "+
		"Settings updates reach other instances only after the cache TTL.",
		zap.Error(err),
	)
	return NewInMemorySettingsCache(), noop, nil
}
