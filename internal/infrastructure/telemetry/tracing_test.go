package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/bakery/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTestTracer installs an in-memory span recorder as the global provider
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func attrMap(attrs []attribute.KeyValue) map[string]attribute.Value {
	m := make(map[string]attribute.Value, len(attrs))
	for _, a := range attrs {
		m[string(a.Key)] = a.Value
	}
	return m
}

func TestStartServiceSpan(t *testing.T) {
	sr := setupTestTracer(t)
	orderID := uuid.New()

	ctx, span := telemetry.StartServiceSpan(context.Background(), "order", "create",
		telemetry.SpanAttrOrderID, orderID,
		telemetry.SpanAttrQuantity, 3,
	)
	assert.NotEmpty(t, telemetry.GetTraceID(ctx))
	span.End()

	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "order.create", ended[0].Name())
	attrs := attrMap(ended[0].Attributes())
	assert.Equal(t, orderID.String(), attrs["order_id"].AsString())
	assert.Equal(t, int64(3), attrs["quantity"].AsInt64())
}

func TestSetAttributes(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "pos", "checkout")
	telemetry.SetAttributes(span,
		"amount", 108.5,
		"cash", true,
		42, "non-string key is skipped",
		"methods", []string{"CASH", "UPI"},
		"dangling",
	)
	span.End()

	attrs := attrMap(sr.Ended()[0].Attributes())
	assert.Len(t, attrs, 3)
	assert.Equal(t, 108.5, attrs["amount"].AsFloat64())
	assert.True(t, attrs["cash"].AsBool())
	assert.Equal(t, []string{"CASH", "UPI"}, attrs["methods"].AsStringSlice())
}

func TestRecordError(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "inventory", "adjust")
	telemetry.RecordError(span, errors.New("insufficient stock"))
	telemetry.RecordError(span, nil)
	telemetry.RecordError(nil, errors.New("ignored"))
	span.End()

	ended := sr.Ended()[0]
	assert.Equal(t, codes.Error, ended.Status().Code)
	assert.Equal(t, "insufficient stock", ended.Status().Description)
	require.Len(t, ended.Events(), 1)
	assert.Equal(t, "exception", ended.Events()[0].Name)
}

func TestAddEvent(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "pos", "checkout")
	telemetry.AddEvent(span, "receipt_skipped", "reason", "breaker open")
	span.End()

	events := sr.Ended()[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "receipt_skipped", events[0].Name)
	assert.Equal(t, "breaker open", attrMap(events[0].Attributes)["reason"].AsString())
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, telemetry.GetTraceID(context.Background()))
}
