package middleware

import (
	"net/http"
	"slices"

	"github.com/bakery/backend/internal/infrastructure/auth"
	"github.com/bakery/backend/internal/infrastructure/logger"
	"github.com/bakery/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Gate lists the roles allowed to read, write and delete one resource.
// An empty list admits any authenticated role. ADMIN always passes.
type Gate struct {
	Read   []auth.Role
	Write  []auth.Role
	Delete []auth.Role
}

// RolesFor picks the role list that applies to an HTTP method
func (g Gate) RolesFor(method string) []auth.Role {
	switch method {
	case http.MethodGet, http.MethodHead:
		return g.Read
	case http.MethodDelete:
		return g.Delete
	default:
		return g.Write
	}
}

// Allows reports whether role passes the gate for method
func (g Gate) Allows(role auth.Role, method string) bool {
	if role == auth.RoleAdmin {
		return true
	}
	roles := g.RolesFor(method)
	return len(roles) == 0 || slices.Contains(roles, role)
}

// RequireGate enforces gate with the action derived from the HTTP method.
// It must run after JWTAuth.
func RequireGate(gate Gate, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			abortUnauthorized(c, log, dto.ErrCodeUnauthorized, "Authentication required", nil)
			return
		}
		if !gate.Allows(claims.Role, c.Request.Method) {
			handlePermissionDenied(c, log, claims)
			return
		}
		c.Next()
	}
}

// RequireRoles admits only the listed roles, plus ADMIN
func RequireRoles(log *zap.Logger, roles ...auth.Role) gin.HandlerFunc {
	return RequireGate(Gate{Read: roles, Write: roles, Delete: roles}, log)
}

func handlePermissionDenied(c *gin.Context, log *zap.Logger, claims *auth.Claims) {
	if log != nil {
		log.Warn("Permission denied",
			zap.String("user_id", claims.UserID),
			zap.String("role", string(claims.Role)),
			zap.String("path", c.FullPath()),
			zap.String("method", c.Request.Method),
		)
	}
	c.AbortWithStatusJSON(http.StatusForbidden, dto.Fail(
		dto.ErrCodeForbidden,
		"Access denied: role not allowed",
		c.GetString(logger.GinRequestIDKey),
	))
}
