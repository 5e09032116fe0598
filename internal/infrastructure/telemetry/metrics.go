package telemetry

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

const defaultExportInterval = time.Minute

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Collector
	Enabled bool
	// ExportInterval defaults to one minute
	ExportInterval time.Duration
}

// MeterProvider owns the metric pipeline
type MeterProvider struct {
	provider *sdkmetric.MeterProvider
}

// NewMeterProvider pushes metrics over OTLP gRPC on a fixed interval and
// installs the provider globally.
func NewMeterProvider(ctx context.Context, cfg MetricsConfig, logger *zap.Logger) (*MeterProvider, error) {
	if !cfg.Enabled {
		logger.Info("OTLP metrics disabled")
		return &MeterProvider{}, nil
	}

	interval := cfg.ExportInterval
	if interval <= 0 {
		interval = defaultExportInterval
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create metric exporter: %w", err)
	}
	res, err := cfg.resource()
	if err != nil {
		return nil, err
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(provider)

	logger.Info("OTLP metrics enabled", zap.String("collector", cfg.Endpoint), zap.Duration("interval", interval))
	return &MeterProvider{provider: provider}, nil
}

// Meter falls back to the global provider when metrics are disabled
func (mp *MeterProvider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if mp.provider == nil {
		return otel.GetMeterProvider().Meter(name, opts...)
	}
	return mp.provider.Meter(name, opts...)
}

func (mp *MeterProvider) IsEnabled() bool {
	return mp.provider != nil
}

// Shutdown pushes the last collection and stops the reader
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if mp.provider == nil {
		return nil
	}
	return stopWithin(ctx, "metric", mp.provider.Shutdown)
}

// instruments creates instruments on one meter and keeps the first error,
// so a constructor can declare all of them before checking.
type instruments struct {
	meter metric.Meter
	err   error
}

func (in *instruments) keep(name string, err error) {
	if err != nil && in.err == nil {
		in.err = fmt.Errorf("create instrument %s: %w", name, err)
	}
}

func (in *instruments) counter(name, description, unit string) metric.Int64Counter {
	c, err := in.meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	in.keep(name, err)
	return c
}

func (in *instruments) sum(name, description, unit string) metric.Float64Counter {
	c, err := in.meter.Float64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	in.keep(name, err)
	return c
}

func (in *instruments) histogram(name, description, unit string, bounds []float64) metric.Float64Histogram {
	h, err := in.meter.Float64Histogram(name,
		metric.WithDescription(description),
		metric.WithUnit(unit),
		metric.WithExplicitBucketBoundaries(bounds...),
	)
	in.keep(name, err)
	return h
}

func (in *instruments) gauge(name, description, unit string) metric.Int64ObservableGauge {
	g, err := in.meter.Int64ObservableGauge(name, metric.WithDescription(description), metric.WithUnit(unit))
	in.keep(name, err)
	return g
}

// HTTPServerMetrics is the OTLP side of request metrics; Prometheus keeps its own
type HTTPServerMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

// RequestDurationBuckets are request latency boundaries in seconds
var RequestDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

func NewHTTPServerMetrics(meter metric.Meter) (*HTTPServerMetrics, error) {
	in := &instruments{meter: meter}
	m := &HTTPServerMetrics{
		requests: in.counter("http_server_request_total", "Total number of HTTP requests", "{request}"),
		duration: in.histogram("http_server_request_duration_seconds", "HTTP request latency distribution in seconds", "s", RequestDurationBuckets),
	}
	if in.err != nil {
		return nil, in.err
	}
	return m, nil
}

// Record counts one request. route is the gin route template, never the raw path.
func (m *HTTPServerMetrics) Record(ctx context.Context, method, route string, status int, tenantID string, took time.Duration) {
	methodAttr := attribute.String("method", method)
	routeAttr := attribute.String("route", route)
	m.requests.Add(ctx, 1, metric.WithAttributes(methodAttr, routeAttr,
		attribute.String("status_code", strconv.Itoa(status)),
		AttrTenantID.String(tenantID),
	))
	m.duration.Record(ctx, took.Seconds(), metric.WithAttributes(methodAttr, routeAttr))
}

// Metric attribute keys
var (
	AttrTenantID      = attribute.Key("tenant_id")
	AttrChannel       = attribute.Key("channel")
	AttrPaymentMethod = attribute.Key("payment_method")
	AttrAdjustment    = attribute.Key("adjustment_type")
	AttrReasonCode    = attribute.Key("reason_code")
)

// CheckoutDurationBuckets spans a scanned-item sale up to a slow card terminal, in seconds
var CheckoutDurationBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}
