package cache

import (
	"context"
	"sync"
	"time"

	"github.com/nextpos/printing/internal/domain/settings"
)

// SettingsCache holds the most recently read print settings
type SettingsCache interface {
	// Get returns the cached settings and whether they were present
	Get(ctx context.Context) (*settings.PrintSettings, bool, error)
	Set(ctx context.Context, s *settings.PrintSettings, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

// InMemorySettingsCache caches settings inside the process. It does not
// share state across instances, so an update made through one instance is
// visible on the others only after the TTL expires.
type InMemorySettingsCache struct {
	mu        sync.RWMutex
	value     *settings.PrintSettings
	expiresAt time.Time
	now       func() time.Time
}

var _ SettingsCache = (*InMemorySettingsCache)(nil)

// NewInMemorySettingsCache creates an empty in-memory cache
func NewInMemorySettingsCache() *InMemorySettingsCache {
	return &InMemorySettingsCache{now: time.Now}
}

// Get returns a copy of the cached settings
func (c *InMemorySettingsCache) Get(_ context.Context) (*settings.PrintSettings, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.value == nil || !c.now().Before(c.expiresAt) {
		return nil, false, nil
	}
	return clone(c.value), true, nil
}

// Set stores a copy of s for ttl
func (c *InMemorySettingsCache) Set(_ context.Context, s *settings.PrintSettings, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = clone(s)
	c.expiresAt = c.now().Add(ttl)
	return nil
}

// Invalidate drops the cached settings
func (c *InMemorySettingsCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = nil
	return nil
}

func clone(s *settings.PrintSettings) *settings.PrintSettings {
	if s == nil {
		return nil
	}
	cp := *s
	if s.PrinterMappings != nil {
		cp.PrinterMappings = append([]settings.PrinterMapping(nil), s.PrinterMappings...)
	}
	return &cp
}
