// Package cache holds the catalog cache behind the query bus
package cache

import (
	"context"
	"sync"
	"time"
)

// HitRecorder counts cache outcomes
type HitRecorder interface {
	RecordCacheHit()
	RecordCacheMiss()
}

// MemoryCache is a TTL cache for catalog lookups.
// Entries are evicted lazily on read and by a periodic sweep.
type MemoryCache struct {
	mu      sync.RWMutex
	items   map[string]cacheItem
	metrics HitRecorder
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

type cacheItem struct {
	value     interface{}
	expiresAt time.Time
}

// NewMemoryCache creates a cache that sweeps expired entries every interval
func NewMemoryCache(sweep time.Duration, metrics HitRecorder) *MemoryCache {
	c := &MemoryCache{
		items:   make(map[string]cacheItem),
		metrics: metrics,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	if sweep > 0 {
		go c.cleanupExpired(sweep)
	}
	return c
}

// Get retrieves a live value
func (c *MemoryCache) Get(ctx context.Context, key string) (interface{}, bool) {
	c.mu.RLock()
	item, exists := c.items[key]
	c.mu.RUnlock()

	if !exists || !c.now().Before(item.expiresAt) {
		c.record(false)
		return nil, false
	}
	c.record(true)
	return item.value, true
}

// Set stores a value until ttl elapses
func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = cacheItem{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

// Len counts stored entries, live or not yet swept
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Stop ends the sweep goroutine
func (c *MemoryCache) Stop() {
	c.once.Do(func() { close(c.stop) })
}

func (c *MemoryCache) record(hit bool) {
	if c.metrics == nil {
		return
	}
	if hit {
		c.metrics.RecordCacheHit()
	} else {
		c.metrics.RecordCacheMiss()
	}
}

func (c *MemoryCache) cleanupExpired(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *MemoryCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, item := range c.items {
		if !now.Before(item.expiresAt) {
			delete(c.items, key)
		}
	}
}
