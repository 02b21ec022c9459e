package config

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	// DefaultStaleness is how long a cached snapshot stays fresh before the
	// next event is allowed to trigger a reload.
	DefaultStaleness = 30 * time.Second
	// DefaultRefreshTimeout bounds a single store load so a slow remote
	// never stalls the event loop.
	DefaultRefreshTimeout = 10 * time.Second
)

// Cache holds the last-loaded configuration snapshot and refreshes it from
// the backing store once the staleness interval has elapsed. A failed load
// keeps the previous snapshot and still advances the refresh clock, so the
// store is hit at most once per interval.
type Cache struct {
	store     Store
	staleness time.Duration
	timeout   time.Duration
	now       func() time.Time

	mu          sync.Mutex
	snapshot    *Config
	lastRefresh time.Time
}

// CacheOption customizes a Cache.
type CacheOption func(*Cache)

// WithStaleness overrides the staleness interval.
func WithStaleness(d time.Duration) CacheOption {
	return func(c *Cache) {
		if d > 0 {
			c.staleness = d
		}
	}
}

// WithRefreshTimeout overrides the per-load timeout.
func WithRefreshTimeout(d time.Duration) CacheOption {
	return func(c *Cache) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithClock injects a clock for tests.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCache wraps a Store with staleness-based refresh.
func NewCache(store Store, opts ...CacheOption) *Cache {
	c := &Cache{
		store:     store,
		staleness: DefaultStaleness,
		timeout:   DefaultRefreshTimeout,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrRefresh returns the current snapshot, reloading it first when stale.
// The second result reports whether a refresh attempt happened, which is the
// caller's cue to rebuild anything derived from the configuration. When no
// record has ever loaded, an inactive default is returned so every check
// downstream treats monitoring as off.
func (c *Cache) GetOrRefresh(ctx context.Context) (*Config, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if !c.lastRefresh.IsZero() && now.Sub(c.lastRefresh) <= c.staleness {
		return c.current(), false
	}

	loadCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cfg, err := c.store.Load(loadCtx)
	if err != nil {
		slog.Error("Config refresh failed, keeping previous snapshot", "error", err)
	} else {
		c.snapshot = cfg
	}
	// Advance the clock on failure too: a broken store is retried at most
	// once per staleness interval, not on every message.
	c.lastRefresh = now

	return c.current(), true
}

// Invalidate forces the next GetOrRefresh to reload regardless of age. The
// file watcher uses this when the local config changes on disk.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.lastRefresh = time.Time{}
	c.mu.Unlock()
}

func (c *Cache) current() *Config {
	if c.snapshot == nil {
		return Default()
	}
	return c.snapshot
}
