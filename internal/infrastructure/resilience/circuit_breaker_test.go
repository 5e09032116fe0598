package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestCircuitBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	var transitions []gobreaker.State
	cfg := DefaultCircuitBreakerConfig("receipt-pdf")
	cfg.FailureThreshold = 2
	cfg.Timeout = time.Hour
	cfg.OnStateChange = func(_ string, _, to gobreaker.State) {
		transitions = append(transitions, to)
	}
	cb := NewCircuitBreaker(cfg, zaptest.NewLogger(t))
	ctx := context.Background()
	boom := errors.New("chrome unreachable")

	calls := 0
	failing := func(context.Context) error {
		calls++
		return boom
	}

	assert.ErrorIs(t, cb.Execute(ctx, failing), boom)
	assert.ErrorIs(t, cb.Execute(ctx, failing), boom)
	assert.Equal(t, gobreaker.StateOpen, cb.State())

	err := cb.Execute(ctx, failing)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 2, calls, "open breaker must not call through")
	assert.Equal(t, []gobreaker.State{gobreaker.StateOpen}, transitions)
}

func TestCircuitBreaker_HalfOpenRecovers(t *testing.T) {
	cfg := DefaultCircuitBreakerConfig("receipt-upload")
	cfg.FailureThreshold = 1
	cfg.Timeout = 10 * time.Millisecond
	cb := NewCircuitBreaker(cfg, nil)
	ctx := context.Background()

	require.Error(t, cb.Execute(ctx, func(context.Context) error { return errors.New("down") }))
	require.Equal(t, gobreaker.StateOpen, cb.State())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, gobreaker.StateHalfOpen, cb.State())

	require.NoError(t, cb.Execute(ctx, func(context.Context) error { return nil }))
	assert.Equal(t, gobreaker.StateClosed, cb.State())
	assert.Equal(t, "receipt-upload", cb.Name())
}

func TestCircuitBreaker_FailureRatio(t *testing.T) {
	cfg := DefaultCircuitBreakerConfig("ratio")
	cfg.FailureThreshold = 100
	cfg.MinRequestsToTrip = 4
	cfg.FailureRatioThreshold = 0.5
	cb := NewCircuitBreaker(cfg, nil)
	ctx := context.Background()

	ok := func(context.Context) error { return nil }
	bad := func(context.Context) error { return errors.New("bad") }

	_ = cb.Execute(ctx, ok)
	_ = cb.Execute(ctx, bad)
	_ = cb.Execute(ctx, ok)
	assert.Equal(t, gobreaker.StateClosed, cb.State())
	_ = cb.Execute(ctx, bad)
	assert.Equal(t, gobreaker.StateOpen, cb.State())
}
