package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/bakery/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestProviders_Disabled(t *testing.T) {
	ctx := context.Background()
	logger := zaptest.NewLogger(t)
	collector := telemetry.Collector{ServiceName: "bakery-test"}

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.TracesConfig{Collector: collector}, logger)
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	assert.False(t, tp.EnableSpanProfiles(), "span profiles need a live provider")

	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{Collector: collector}, logger)
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())

	counter, err := mp.Meter("test").Int64Counter("test_counter")
	require.NoError(t, err)
	counter.Add(ctx, 1, metric.WithAttributes(attribute.String("k", "v")))

	lp, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{Collector: collector}, logger)
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())
	assert.False(t, lp.Core(zapcore.DebugLevel).Enabled(zapcore.ErrorLevel))

	assert.NoError(t, telemetry.ShutdownAll(ctx, mp, tp, lp, nil))
}

func TestBridge_Disabled(t *testing.T) {
	lp, err := telemetry.NewLoggerProvider(context.Background(), telemetry.LogsConfig{}, zap.NewNop())
	require.NoError(t, err)

	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)
	bridged := telemetry.Bridge(base, lp, zapcore.InfoLevel)
	assert.Same(t, base, bridged, "disabled bridge must not wrap the logger")

	bridged.Info("still logged")
	assert.Equal(t, 1, logs.Len())
}

type failingSignal struct{ err error }

func (f failingSignal) IsEnabled() bool { return true }

func (f failingSignal) Shutdown(context.Context) error { return f.err }

func TestShutdownAll_KeepsGoing(t *testing.T) {
	first := errors.New("trace exporter gone")
	second := errors.New("log exporter gone")
	calls := 0
	counting := countingSignal{calls: &calls}

	err := telemetry.ShutdownAll(context.Background(), failingSignal{first}, counting, failingSignal{second})
	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, second)
	assert.Equal(t, 1, calls)
}

type countingSignal struct{ calls *int }

func (c countingSignal) IsEnabled() bool { return true }

func (c countingSignal) Shutdown(context.Context) error {
	*c.calls++
	return nil
}
