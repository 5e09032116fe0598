package telemetry

import (
	"context"
	"runtime/pprof"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewProfiler_Disabled(t *testing.T) {
	p, err := NewProfiler(ProfilerConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestNewProfiler_Validation(t *testing.T) {
	_, err := NewProfiler(ProfilerConfig{Enabled: true, ApplicationName: "bakery"}, zap.NewNop())
	assert.ErrorIs(t, err, errProfilerAddress)

	_, err = NewProfiler(ProfilerConfig{Enabled: true}, zap.NewNop())
	assert.ErrorIs(t, err, errProfilerAddress)
	assert.ErrorIs(t, err, errProfilerName)
}

func TestWithProfilingLabels(t *testing.T) {
	var route, tenant string
	var called bool
	WithProfilingLabels(context.Background(), map[string]string{
		ProfilingLabelRoute:    "/api/products/:id",
		ProfilingLabelTenantID: "t-1",
	}, func(ctx context.Context) {
		called = true
		route, _ = pprof.Label(ctx, ProfilingLabelRoute)
		tenant, _ = pprof.Label(ctx, ProfilingLabelTenantID)
	})
	assert.True(t, called)
	assert.Equal(t, "/api/products/:id", route)
	assert.Equal(t, "t-1", tenant)

	called = false
	WithProfilingLabels(context.Background(), nil, func(context.Context) { called = true })
	assert.True(t, called)
}
