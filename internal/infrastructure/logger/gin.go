package logger

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Gin context keys shared with the auth and request-id middleware
const (
	GinLoggerKey    = "logger"
	GinRequestIDKey = "request_id"
	GinTenantIDKey  = "tenant_id"
	GinUserIDKey    = "user_id"
)

// GinMiddleware attaches a request scoped logger to the gin and request
// contexts, then logs one line per request once the handlers finish.
func GinMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetString(GinRequestIDKey)
		reqLogger := logger.With(
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("client_ip", c.ClientIP()),
		)

		c.Set(GinLoggerKey, reqLogger)
		ctx := WithContext(c.Request.Context(), reqLogger)
		if requestID != "" {
			ctx = WithRequestID(ctx, requestID)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		reqLogger.Log(statusLevel(status), "HTTP Request", completionFields(c, status, time.Since(start))...)
	}
}

// statusLevel logs server errors at error and client errors at warn
func statusLevel(status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	}
	return zapcore.InfoLevel
}

// completionFields skips identity and query fields that are empty
func completionFields(c *gin.Context, status int, latency time.Duration) []zap.Field {
	fields := []zap.Field{
		zap.Int("status", status),
		zap.Duration("latency", latency),
		zap.Int("body_size", c.Writer.Size()),
	}
	optional := []struct{ key, value string }{
		{"query", c.Request.URL.RawQuery},
		{"tenant_id", c.GetString(GinTenantIDKey)},
		{"user_id", c.GetString(GinUserIDKey)},
	}
	for _, o := range optional {
		if o.value != "" {
			fields = append(fields, zap.String(o.key, o.value))
		}
	}
	if len(c.Errors) > 0 {
		fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
	}
	return fields
}

// panicBody matches the generic 500 envelope without importing the http dto
var panicBody = gin.H{
	"success": false,
	"error":   gin.H{"code": "INTERNAL_ERROR", "message": "An unexpected error occurred"},
}

// Recovery returns a gin middleware that recovers from panics, logs them
// with a stack and answers with the generic error envelope.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("Panic recovered",
					zap.String("request_id", c.GetString(GinRequestIDKey)),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Any("error", err),
					zap.Stack("stacktrace"),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, panicBody)
			}
		}()
		c.Next()
	}
}

// GetGinLogger retrieves the request logger from gin context
func GetGinLogger(c *gin.Context) *zap.Logger {
	if l, ok := c.Value(GinLoggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}
