package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisCatalogCache is the shared tier. Like the local tier it versions keys
// with a per-tenant generation, kept in Redis so all replicas agree.
type RedisCatalogCache struct {
	client redis.UniversalClient
	config CatalogCacheConfig
	logger *zap.Logger
}

// NewRedisCatalogCache uses client without taking ownership of it
func NewRedisCatalogCache(client redis.UniversalClient, cfg CatalogCacheConfig, logger *zap.Logger) *RedisCatalogCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCatalogCache{client: client, config: cfg, logger: logger}
}

func (c *RedisCatalogCache) generationKey(tenantID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:gen", c.config.KeyPrefix, tenantID)
}

func (c *RedisCatalogCache) generation(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	gen, err := c.client.Get(ctx, c.generationKey(tenantID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *RedisCatalogCache) pageKey(ctx context.Context, tenantID uuid.UUID, key string) (string, error) {
	gen, err := c.generation(ctx, tenantID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s:%d:%s", c.config.KeyPrefix, tenantID, gen, key), nil
}

// Get returns a cached page; Redis errors are logged and reported as a miss
func (c *RedisCatalogCache) Get(ctx context.Context, tenantID uuid.UUID, key string) ([]byte, bool) {
	k, err := c.pageKey(ctx, tenantID, key)
	if err == nil {
		var data []byte
		data, err = c.client.Get(ctx, k).Bytes()
		if err == nil {
			return data, true
		}
	}
	if !errors.Is(err, redis.Nil) {
		c.logger.Warn("catalog cache read failed", zap.String("tenant_id", tenantID.String()), zap.Error(err))
	}
	return nil, false
}

// Set stores a page for SharedTTL
func (c *RedisCatalogCache) Set(ctx context.Context, tenantID uuid.UUID, key string, data []byte) {
	k, err := c.pageKey(ctx, tenantID, key)
	if err == nil {
		err = c.client.Set(ctx, k, data, c.config.SharedTTL).Err()
	}
	if err != nil {
		c.logger.Warn("catalog cache write failed", zap.String("tenant_id", tenantID.String()), zap.Error(err))
	}
}

// Invalidate bumps the tenant generation and announces it on the channel
func (c *RedisCatalogCache) Invalidate(ctx context.Context, tenantID uuid.UUID) {
	if err := c.client.Incr(ctx, c.generationKey(tenantID)).Err(); err != nil {
		c.logger.Warn("catalog cache invalidation failed", zap.String("tenant_id", tenantID.String()), zap.Error(err))
	}
	if err := c.client.Publish(ctx, c.config.Channel, tenantID.String()).Err(); err != nil {
		c.logger.Warn("catalog cache invalidation broadcast failed", zap.String("tenant_id", tenantID.String()), zap.Error(err))
	}
}

// Close is a no-op; the client belongs to the caller
func (c *RedisCatalogCache) Close() error {
	return nil
}

// invalidationListener relays invalidations published by any replica
type invalidationListener struct {
	pubsub *redis.PubSub
	done   chan struct{}
	once   sync.Once
}

// Listen calls fn with every tenant announced on the channel until the
// returned listener is stopped.
func (c *RedisCatalogCache) Listen(ctx context.Context, fn func(uuid.UUID)) (*invalidationListener, error) {
	pubsub := c.client.Subscribe(ctx, c.config.Channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", c.config.Channel, err)
	}

	l := &invalidationListener{pubsub: pubsub, done: make(chan struct{})}
	go func() {
		defer close(l.done)
		for msg := range pubsub.Channel() {
			tenantID, err := uuid.Parse(msg.Payload)
			if err != nil {
				c.logger.Warn("ignoring malformed catalog invalidation", zap.String("payload", msg.Payload))
				continue
			}
			fn(tenantID)
		}
	}()
	return l, nil
}

// Stop closes the subscription and waits for the relay goroutine
func (l *invalidationListener) Stop() error {
	var err error
	l.once.Do(func() {
		err = l.pubsub.Close()
		<-l.done
	})
	return err
}
