package cache

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TieredCatalogCache reads through the local tier into Redis. Invalidations
// go to both tiers and reach other replicas through Redis Pub/Sub.
type TieredCatalogCache struct {
	local    *InMemoryCatalogCache
	shared   *RedisCatalogCache
	listener *invalidationListener
}

// NewTieredCatalogCache subscribes to invalidations before returning
func NewTieredCatalogCache(ctx context.Context, local *InMemoryCatalogCache, shared *RedisCatalogCache, logger *zap.Logger) (*TieredCatalogCache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &TieredCatalogCache{local: local, shared: shared}

	listener, err := shared.Listen(ctx, func(tenantID uuid.UUID) {
		local.Invalidate(context.Background(), tenantID)
		logger.Debug("catalog pages invalidated", zap.String("tenant_id", tenantID.String()))
	})
	if err != nil {
		_ = local.Close()
		return nil, err
	}
	c.listener = listener
	return c, nil
}

func (c *TieredCatalogCache) Get(ctx context.Context, tenantID uuid.UUID, key string) ([]byte, bool) {
	if data, ok := c.local.Get(ctx, tenantID, key); ok {
		return data, true
	}
	data, ok := c.shared.Get(ctx, tenantID, key)
	if ok {
		c.local.Set(ctx, tenantID, key, data)
	}
	return data, ok
}

func (c *TieredCatalogCache) Set(ctx context.Context, tenantID uuid.UUID, key string, data []byte) {
	c.local.Set(ctx, tenantID, key, data)
	c.shared.Set(ctx, tenantID, key, data)
}

func (c *TieredCatalogCache) Invalidate(ctx context.Context, tenantID uuid.UUID) {
	c.local.Invalidate(ctx, tenantID)
	c.shared.Invalidate(ctx, tenantID)
}

// Close stops the subscription and the local cleanup loop
func (c *TieredCatalogCache) Close() error {
	return errors.Join(c.listener.Stop(), c.local.Close())
}
