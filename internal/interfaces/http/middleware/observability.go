package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/bakery/backend/internal/infrastructure/logger"
	"github.com/bakery/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Paths left out of traces, metrics and profiles
var observabilitySkipPaths = []string{"/health", "/metrics"}

func skipObservability(path string) bool {
	for _, p := range observabilitySkipPaths {
		if path == p {
			return true
		}
	}
	return strings.HasPrefix(path, "/swagger")
}

// Tracing wraps otelgin and tags the server span with request, tenant and
// user ids once the handlers have run. 4xx and 5xx responses mark the span
// as failed.
func Tracing(serviceName string, enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	base := otelgin.Middleware(serviceName, otelgin.WithFilter(func(r *http.Request) bool {
		return !skipObservability(r.URL.Path)
	}))
	return func(c *gin.Context) {
		base(c)

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		if id := c.GetString(logger.GinRequestIDKey); id != "" {
			span.SetAttributes(attribute.String("request_id", id))
		}
		if id := c.GetString(logger.GinTenantIDKey); id != "" {
			span.SetAttributes(attribute.String("tenant_id", id))
		}
		if id := c.GetString(logger.GinUserIDKey); id != "" {
			span.SetAttributes(attribute.String("user_id", id))
		}
	}
}

// SpanErrorMarker marks the active span failed for error responses.
// Place it after Tracing.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		status := c.Writer.Status()
		if !span.IsRecording() || status < http.StatusBadRequest {
			return
		}
		span.SetStatus(codes.Error, http.StatusText(status))
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
}

// HTTPMetrics records each request on the Prometheus registry served at
// /metrics and, when meter is non-nil, on the OTLP metric pipeline.
func HTTPMetrics(prom *telemetry.PrometheusMetrics, meter metric.Meter) gin.HandlerFunc {
	var otlp *telemetry.HTTPServerMetrics
	if meter != nil {
		otlp, _ = telemetry.NewHTTPServerMetrics(meter)
	}

	return func(c *gin.Context) {
		if skipObservability(c.Request.URL.Path) {
			c.Next()
			return
		}
		start := time.Now()
		if prom != nil {
			prom.IncrementHTTPRequestsInFlight()
			defer prom.DecrementHTTPRequestsInFlight()
		}

		c.Next()

		took := time.Since(start)
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		if prom != nil {
			prom.RecordHTTPRequest(c.Request.Method, route, status, took)
		}

		if otlp != nil {
			otlp.Record(c.Request.Context(), c.Request.Method, route, status, c.GetString(logger.GinTenantIDKey), took)
		}
	}
}

// Profiling labels CPU samples with the route template, method, resource
// and tenant so Pyroscope can slice profiles per endpoint.
func Profiling(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if skipObservability(c.Request.URL.Path) {
			c.Next()
			return
		}
		labels := map[string]string{telemetry.ProfilingLabelMethod: c.Request.Method}
		if route := c.FullPath(); route != "" {
			labels[telemetry.ProfilingLabelRoute] = route
			labels[telemetry.ProfilingLabelResource] = resourceFromRoute(route)
		}
		if tenantID := c.GetHeader(TenantHeaderKey); tenantID != "" && len(tenantID) <= 64 {
			labels[telemetry.ProfilingLabelTenantID] = tenantID
		}
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// resourceFromRoute returns the first segment after /api, skipping "public":
// "/api/inventory/:id/adjust" gives "inventory".
func resourceFromRoute(route string) string {
	for _, seg := range strings.Split(strings.Trim(route, "/"), "/") {
		if seg == "" || seg == "api" || seg == "public" || strings.HasPrefix(seg, ":") {
			continue
		}
		return seg
	}
	return ""
}
