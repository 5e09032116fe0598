// Package middleware provides HTTP middleware for the bakery backend.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bakery/backend/internal/domain/shared"
	"github.com/bakery/backend/internal/infrastructure/auth"
	"github.com/bakery/backend/internal/infrastructure/logger"
	"github.com/bakery/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Auth context keys
const (
	ClaimsKey     = "auth_claims"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// TokenValidator verifies a bearer token and returns its claims
type TokenValidator interface {
	ValidateToken(tokenString string) (*auth.Claims, error)
}

// JWTAuth rejects requests without a valid bearer token and stores the
// claims on the gin context for the handlers.
func JWTAuth(validator TokenValidator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			abortUnauthorized(c, log, dto.ErrCodeUnauthorized, "Missing authorization header", nil)
			return
		}
		if !strings.HasPrefix(header, BearerPrefix) {
			abortUnauthorized(c, log, dto.ErrCodeUnauthorized, "Invalid authorization header format", nil)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
		if token == "" {
			abortUnauthorized(c, log, dto.ErrCodeUnauthorized, "Missing token", nil)
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				abortUnauthorized(c, log, dto.ErrCodeTokenExpired, "Token has expired", err)
				return
			}
			abortUnauthorized(c, log, dto.ErrCodeTokenInvalid, "Invalid token", err)
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(logger.GinTenantIDKey, claims.TenantID)
		c.Set(logger.GinUserIDKey, claims.UserID)

		ctx := c.Request.Context()
		reqLogger := logger.FromContext(ctx).With(
			zap.String("tenant_id", claims.TenantID),
			zap.String("user_id", claims.UserID),
		)
		c.Request = c.Request.WithContext(logger.WithContext(ctx, reqLogger))

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, log *zap.Logger, code, message string, err error) {
	if log != nil {
		log.Warn("JWT authentication failed",
			zap.String("code", code),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Fail(code, message, c.GetString(logger.GinRequestIDKey)))
}

// GetClaims returns the verified claims, or nil on unauthenticated routes
func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// TenantID returns the tenant of the request: the token's tenant_id on
// authenticated routes, the X-Tenant-ID header on public ones.
func TenantID(c *gin.Context) (uuid.UUID, bool) {
	if claims := GetClaims(c); claims != nil {
		id := claims.TenantUUID()
		return id, id != uuid.Nil
	}
	if v, ok := c.Get(PublicTenantKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id, true
		}
	}
	return uuid.Nil, false
}

// Actor returns the authenticated user for audit records
func Actor(c *gin.Context) shared.Actor {
	claims := GetClaims(c)
	if claims == nil {
		return shared.Actor{}
	}
	return shared.Actor{UserID: claims.UserUUID(), Email: claims.Email}
}
