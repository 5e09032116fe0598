package middleware

import (
	"net/http"

	"github.com/bakery/backend/internal/infrastructure/logger"
	"github.com/bakery/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Tenant header and context key for unauthenticated storefront routes
const (
	TenantHeaderKey = "X-Tenant-ID"
	PublicTenantKey = "public_tenant_id"
)

// PublicTenant resolves the tenant of a storefront request from the
// X-Tenant-ID header. A missing or malformed header is a 400.
func PublicTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(TenantHeaderKey)
		if raw == "" {
			abortBadTenant(c, "X-Tenant-ID header is required")
			return
		}
		tenantID, err := uuid.Parse(raw)
		if err != nil || tenantID == uuid.Nil {
			abortBadTenant(c, "Invalid tenant ID format")
			return
		}
		c.Set(PublicTenantKey, tenantID)
		c.Set(logger.GinTenantIDKey, tenantID.String())
		c.Next()
	}
}

func abortBadTenant(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.Fail(
		dto.ErrCodeMissingTenant, message, c.GetString(logger.GinRequestIDKey),
	))
}
