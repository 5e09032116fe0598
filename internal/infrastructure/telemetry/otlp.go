package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

const (
	serviceVersion = "1.0.0"

	// shutdownTimeout bounds the final flush of one signal
	shutdownTimeout = 10 * time.Second
)

// Collector is the OTLP gRPC endpoint that traces, metrics and logs are
// exported to, and the service name they are reported under.
type Collector struct {
	Endpoint    string
	Insecure    bool
	ServiceName string
}

func (c Collector) resource() (*resource.Resource, error) {
	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(c.ServiceName),
		semconv.ServiceVersion(serviceVersion),
	))
	if err != nil {
		return nil, fmt.Errorf("build %s resource: %w", c.ServiceName, err)
	}
	return res, nil
}

// Signal is one exported telemetry pipeline
type Signal interface {
	IsEnabled() bool
	Shutdown(ctx context.Context) error
}

// ShutdownAll flushes every signal, even after one of them fails
func ShutdownAll(ctx context.Context, signals ...Signal) error {
	var errs []error
	for _, s := range signals {
		if s == nil {
			continue
		}
		errs = append(errs, s.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// stopWithin runs stop under shutdownTimeout
func stopWithin(ctx context.Context, signal string, stop func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := stop(ctx); err != nil {
		return fmt.Errorf("shutdown %s pipeline: %w", signal, err)
	}
	return nil
}
