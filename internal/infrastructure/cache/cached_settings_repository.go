package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nextpos/printing/internal/domain/settings"
)

// CachedSettingsRepository is a read-through cache in front of a settings
// repository. Cache failures are logged and treated as misses; the
// underlying repository stays the source of truth.
type CachedSettingsRepository struct {
	repo   settings.Repository
	cache  SettingsCache
	ttl    time.Duration
	logger *zap.Logger
}

var _ settings.Repository = (*CachedSettingsRepository)(nil)

// NewCachedSettingsRepository wraps repo with cache
func NewCachedSettingsRepository(repo settings.Repository, cache SettingsCache, ttl time.Duration, logger *zap.Logger) *CachedSettingsRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSettingsRepository{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

// Get serves from the cache and fills it on a miss
func (r *CachedSettingsRepository) Get(ctx context.Context) (*settings.PrintSettings, error) {
	if s, ok, err := r.cache.Get(ctx); err != nil {
		r.logger.Warn("Settings cache read failed", zap.Error(err))
	} else if ok {
		return s, nil
	}

	s, err := r.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if r.ttl > 0 {
		if err := r.cache.Set(ctx, s, r.ttl); err != nil {
			r.logger.Warn("Settings cache write failed", zap.Error(err))
		}
	}
	return s, nil
}

// Save writes through to the repository and drops the cached copy
func (r *CachedSettingsRepository) Save(ctx context.Context, s *settings.PrintSettings) error {
	if err := r.repo.Save(ctx, s); err != nil {
		return err
	}
	if err := r.cache.Invalidate(ctx); err != nil {
		r.logger.Warn("Settings cache invalidation failed", zap.Error(err))
	}
	return nil
}
