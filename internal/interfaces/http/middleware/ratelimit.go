package middleware

import (
	"fmt"
	"net/http"

	"github.com/bakery/backend/internal/infrastructure/logger"
	"github.com/bakery/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.uber.org/zap"
)

// RateLimitConfig configures one limiter instance
type RateLimitConfig struct {
	// Rate in ulule format, e.g. "300-M" or "20-S"
	Rate string
	// Prefix namespaces the counters in the store
	Prefix string
	// Store is used as is when set, e.g. the one built by cache.StoreFactory
	Store limiter.Store
	// Redis shares counters across replicas; nil keeps them in memory
	Redis redis.UniversalClient
	// Logger receives store failures
	Logger *zap.Logger
}

// RateLimit returns a limiter keyed by tenant and client IP. Exceeding the
// rate answers 429 with the standard envelope. Store failures let the
// request through.
func RateLimit(cfg RateLimitConfig) (gin.HandlerFunc, error) {
	rate, err := limiter.NewRateFromFormatted(cfg.Rate)
	if err != nil {
		return nil, fmt.Errorf("parse rate limit %q: %w", cfg.Rate, err)
	}

	opts := limiter.StoreOptions{Prefix: cfg.Prefix, CleanUpInterval: limiter.DefaultCleanUpInterval}
	store := cfg.Store
	switch {
	case store != nil:
		// shared store: namespace the keys instead
	case cfg.Redis != nil:
		store, err = sredis.NewStoreWithOptions(cfg.Redis, opts)
		if err != nil {
			return nil, fmt.Errorf("create redis rate limit store: %w", err)
		}
	default:
		store = memory.NewStoreWithOptions(opts)
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return mgin.NewMiddleware(
		limiter.New(store, rate),
		mgin.WithKeyGetter(func(c *gin.Context) string {
			if cfg.Store != nil && cfg.Prefix != "" {
				return cfg.Prefix + ":" + rateLimitKey(c)
			}
			return rateLimitKey(c)
		}),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.Fail(
				dto.ErrCodeRateLimited,
				"Too many requests. Please try again later.",
				c.GetString(logger.GinRequestIDKey),
			))
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			log.Warn("Rate limit store unavailable", zap.Error(err))
			c.Next()
		}),
	), nil
}

// rateLimitKey scopes counters by tenant when one is known
func rateLimitKey(c *gin.Context) string {
	key := c.ClientIP()
	if tenantID := c.GetHeader(TenantHeaderKey); tenantID != "" {
		key = tenantID + ":" + key
	}
	return key
}
