package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics_HTTP(t *testing.T) {
	m := NewPrometheusMetrics(PrometheusConfig{ServiceName: "bakery-api"})

	m.RecordHTTPRequest(http.MethodGet, "/api/products/:id", http.StatusOK, 20*time.Millisecond)
	m.RecordHTTPRequest(http.MethodGet, "/api/products/:id", http.StatusOK, 30*time.Millisecond)
	m.RecordHTTPRequest(http.MethodPost, "/api/orders", http.StatusBadRequest, time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(
		m.HTTPRequestsTotal.WithLabelValues("bakery-api", "GET", "/api/products/:id", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.HTTPRequestsTotal.WithLabelValues("bakery-api", "POST", "/api/orders", "400")))

	m.IncrementHTTPRequestsInFlight()
	m.IncrementHTTPRequestsInFlight()
	m.DecrementHTTPRequestsInFlight()
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequestsInFlight))
}

func TestPrometheusMetrics_Breaker(t *testing.T) {
	m := NewPrometheusMetrics(PrometheusConfig{ServiceName: "bakery-api"})

	m.ObserveBreakerState("receipt-pdf", gobreaker.StateClosed, gobreaker.StateOpen)
	gauge := m.CircuitBreakerState.WithLabelValues("bakery-api", "receipt-pdf")
	assert.Equal(t, float64(2), testutil.ToFloat64(gauge))

	m.ObserveBreakerState("receipt-pdf", gobreaker.StateOpen, gobreaker.StateHalfOpen)
	assert.Equal(t, float64(1), testutil.ToFloat64(gauge))

	m.ObserveBreakerState("receipt-pdf", gobreaker.StateHalfOpen, gobreaker.StateClosed)
	assert.Equal(t, float64(0), testutil.ToFloat64(gauge))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CircuitBreakerTrips.WithLabelValues("bakery-api", "receipt-pdf")))
}

func TestPrometheusMetrics_Handler(t *testing.T) {
	m := NewPrometheusMetrics(PrometheusConfig{ServiceName: "bakery-api"})
	m.RecordEventPublished("OrderCreated", true)

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, m.RegisterDBStats(db, "bakery"))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "go_goroutines")
	assert.Contains(t, body, `bakery_events_published_total{event_type="OrderCreated",service="bakery-api",status="success"} 1`)
	assert.Contains(t, body, `go_sql_open_connections{db_name="bakery"}`)
}
