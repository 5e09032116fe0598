package cache

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// CatalogCache keeps rendered storefront pages per tenant. Invalidate drops
// every page of the tenant at once. Failures are treated as misses.
type CatalogCache interface {
	Get(ctx context.Context, tenantID uuid.UUID, key string) ([]byte, bool)
	Set(ctx context.Context, tenantID uuid.UUID, key string, data []byte)
	Invalidate(ctx context.Context, tenantID uuid.UUID)
	Close() error
}

// CatalogCacheConfig tunes the storefront cache tiers
type CatalogCacheConfig struct {
	// LocalTTL bounds how stale a replica can be if an invalidation is lost
	LocalTTL  time.Duration
	SharedTTL time.Duration
	KeyPrefix string
	// Channel carries tenant IDs whose pages were invalidated
	Channel   string
}

// DefaultCatalogCacheConfig returns the defaults
func DefaultCatalogCacheConfig() CatalogCacheConfig {
	return CatalogCacheConfig{
		LocalTTL:  15 * time.Second,
		SharedTTL: 5 * time.Minute,
		KeyPrefix: "bakery:catalog",
		Channel:   "bakery:catalog:invalidate",
	}
}

const catalogCleanupInterval = 30 * time.Second

type catalogEntry struct {
	data      []byte
	expiresAt time.Time
}

// InMemoryCatalogCache is the process-local tier. Each tenant has a
// generation counter that is part of every key, so invalidation is a single
// increment and stale entries age out through the cleanup loop.
type InMemoryCatalogCache struct {
	entries     sync.Map // string -> catalogEntry
	generations sync.Map // uuid.UUID -> *atomic.Uint64
	ttl         time.Duration
	now         func() time.Time
	stopCh      chan struct{}
	stopOnce    sync.Once

	hits   atomic.Int64
	misses atomic.Int64
}

// NewInMemoryCatalogCache starts a cache whose entries live for ttl
func NewInMemoryCatalogCache(ttl time.Duration) *InMemoryCatalogCache {
	if ttl <= 0 {
		ttl = DefaultCatalogCacheConfig().LocalTTL
	}
	c := &InMemoryCatalogCache{
		ttl:    ttl,
		now:    time.Now,
		stopCh: make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

func (c *InMemoryCatalogCache) generation(tenantID uuid.UUID) *atomic.Uint64 {
	v, _ := c.generations.LoadOrStore(tenantID, new(atomic.Uint64))
	return v.(*atomic.Uint64)
}

func (c *InMemoryCatalogCache) entryKey(tenantID uuid.UUID, key string) string {
	gen := c.generation(tenantID).Load()
	return tenantID.String() + ":" + strconv.FormatUint(gen, 10) + ":" + key
}

// Get returns a live entry
func (c *InMemoryCatalogCache) Get(_ context.Context, tenantID uuid.UUID, key string) ([]byte, bool) {
	k := c.entryKey(tenantID, key)
	if v, ok := c.entries.Load(k); ok {
		entry := v.(catalogEntry)
		if c.now().Before(entry.expiresAt) {
			c.hits.Add(1)
			return entry.data, true
		}
		c.entries.Delete(k)
	}
	c.misses.Add(1)
	return nil, false
}

// Set stores data under the tenant's current generation
func (c *InMemoryCatalogCache) Set(_ context.Context, tenantID uuid.UUID, key string, data []byte) {
	c.entries.Store(c.entryKey(tenantID, key), catalogEntry{data: data, expiresAt: c.now().Add(c.ttl)})
}

// Invalidate makes every cached page of the tenant unreachable
func (c *InMemoryCatalogCache) Invalidate(_ context.Context, tenantID uuid.UUID) {
	c.generation(tenantID).Add(1)
}

// Stats returns hit and miss counts since start
func (c *InMemoryCatalogCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Close stops the cleanup loop. It is safe to call more than once.
func (c *InMemoryCatalogCache) Close() error {
	c.stopOnce.Do(func() { close(c.stopCh) })
	return nil
}

func (c *InMemoryCatalogCache) cleanupLoop() {
	ticker := time.NewTicker(catalogCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stopCh:
			return
		}
	}
}

func (c *InMemoryCatalogCache) removeExpired() {
	now := c.now()
	c.entries.Range(func(k, v any) bool {
		if !now.Before(v.(catalogEntry).expiresAt) {
			c.entries.Delete(k)
		}
		return true
	})
}
