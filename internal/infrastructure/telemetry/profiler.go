package telemetry

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"sync"

	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"
)

// ProfilerConfig holds Pyroscope continuous profiling configuration
type ProfilerConfig struct {
	Enabled         bool
	ServerAddress   string
	ApplicationName string
}

var (
	errProfilerAddress = errors.New("profiler server address is required when profiling is enabled")
	errProfilerName    = errors.New("profiler application name is required when profiling is enabled")
)

func (c ProfilerConfig) validate() error {
	var errs []error
	if c.ServerAddress == "" {
		errs = append(errs, errProfilerAddress)
	}
	if c.ApplicationName == "" {
		errs = append(errs, errProfilerName)
	}
	return errors.Join(errs...)
}

// Mutex and block profiles need runtime sampling rates set and stay off
var profileTypes = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocObjects,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileInuseObjects,
	pyroscope.ProfileInuseSpace,
	pyroscope.ProfileGoroutines,
}

// Profiler pushes CPU, heap and goroutine profiles to Pyroscope. The zero
// value is a disabled profiler.
type Profiler struct {
	agent   *pyroscope.Profiler
	once    sync.Once
	stopErr error
}

func NewProfiler(cfg ProfilerConfig, logger *zap.Logger) (*Profiler, error) {
	if !cfg.Enabled {
		logger.Info("Continuous profiling disabled")
		return &Profiler{}, nil
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	tags := map[string]string{}
	if host, err := os.Hostname(); err == nil {
		tags["hostname"] = host
	}
	agent, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.ApplicationName,
		ServerAddress:   cfg.ServerAddress,
		Logger:          pyroscopeLogger{logger.Named("pyroscope").Sugar()},
		Tags:            tags,
		ProfileTypes:    profileTypes,
	})
	if err != nil {
		return nil, fmt.Errorf("start pyroscope: %w", err)
	}

	logger.Info("Continuous profiling enabled",
		zap.String("server_address", cfg.ServerAddress),
		zap.String("application_name", cfg.ApplicationName),
	)
	return &Profiler{agent: agent}, nil
}

// Stop flushes pending profiles once; later calls return the first result
func (p *Profiler) Stop() error {
	p.once.Do(func() {
		if p.agent != nil {
			p.stopErr = p.agent.Stop()
		}
	})
	return p.stopErr
}

func (p *Profiler) IsEnabled() bool {
	return p.agent != nil
}

// pyroscopeLogger adapts zap to pyroscope.Logger
type pyroscopeLogger struct {
	*zap.SugaredLogger
}

// Profiling label keys attached to request work
const (
	ProfilingLabelRoute    = "route"
	ProfilingLabelMethod   = "method"
	ProfilingLabelResource = "resource"
	ProfilingLabelTenantID = "tenant_id"
)

// WithProfilingLabels runs fn with labels on every CPU sample taken while
// it runs. Values must stay low cardinality: route templates, not paths.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	if len(labels) == 0 {
		fn(ctx)
		return
	}
	pairs := make([]string, 0, 2*len(labels))
	for _, k := range slices.Sorted(maps.Keys(labels)) {
		pairs = append(pairs, k, labels[k])
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}
