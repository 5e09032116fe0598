package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bakery/backend/internal/domain/shared"
	"github.com/bakery/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.uber.org/zap"
)

// Stores bundles the shared state backends used by the HTTP layer.
// Client is nil when Redis is disabled or unreachable.
type Stores struct {
	Client      *redis.Client
	Idempotency shared.IdempotencyStore
	Limiter     limiter.Store
	Catalog     CatalogCache
}

// Close releases the stores, then the Redis client
func (s *Stores) Close() error {
	err := errors.Join(s.Idempotency.Close(), s.Catalog.Close())
	if s.Client != nil {
		err = errors.Join(err, s.Client.Close())
	}
	return err
}

// StoreFactory creates idempotency and rate-limit stores based on configuration
type StoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	pingTimeout           time.Duration
	catalogConfig         CatalogCacheConfig
}

// StoreFactoryOption is a functional option for configuring the factory
type StoreFactoryOption func(*StoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// process-local stores. Default is true.
func WithInMemoryFallback(allow bool) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// WithCatalogCache overrides the storefront cache settings
func WithCatalogCache(cfg CatalogCacheConfig) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.catalogConfig = cfg
	}
}

// NewStoreFactory creates a new factory
func NewStoreFactory(cfg config.RedisConfig, opts ...StoreFactoryOption) *StoreFactory {
	f := &StoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		pingTimeout:           5 * time.Second,
		catalogConfig:         DefaultCatalogCacheConfig(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create builds the stores. With Redis enabled it connects and pings first;
// a failed ping falls back to memory stores when allowed.
func (f *StoreFactory) Create(ctx context.Context) (*Stores, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("redis disabled, using in-memory idempotency and rate-limit stores")
		return f.inMemory(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     f.redisConfig.Addr(),
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, f.pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("redis required but unavailable: %w", err)
		}
		f.logger.Warn("redis unavailable, falling back to in-memory stores; "+
			"idempotency keys and rate limits will not be shared between instances",
			zap.String("addr", f.redisConfig.Addr()),
			zap.Error(err),
		)
		return f.inMemory(), nil
	}

	limiterStore, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix: "bakery:limiter",
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to create redis limiter store: %w", err)
	}

	catalog, err := NewTieredCatalogCache(ctx,
		NewInMemoryCatalogCache(f.catalogConfig.LocalTTL),
		NewRedisCatalogCache(client, f.catalogConfig, f.logger),
		f.logger,
	)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to start catalog cache: %w", err)
	}

	f.logger.Info("using redis idempotency, rate-limit and catalog stores", zap.String("addr", f.redisConfig.Addr()))
	return &Stores{
		Client:      client,
		Idempotency: NewRedisIdempotencyStore(client, defaultIdempotencyPrefix),
		Limiter:     limiterStore,
		Catalog:     catalog,
	}, nil
}

func (f *StoreFactory) inMemory() *Stores {
	return &Stores{
		Idempotency: NewInMemoryIdempotencyStore(),
		Limiter:     memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: "bakery:limiter", CleanUpInterval: time.Minute}),
		Catalog:     NewInMemoryCatalogCache(f.catalogConfig.LocalTTL),
	}
}
