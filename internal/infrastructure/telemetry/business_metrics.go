package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when a metrics constructor gets a nil meter.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// LowStockCounter reports, per tenant, how many stock records sit at or under
// their reorder level.
type LowStockCounter interface {
	CountLowStockByTenant(ctx context.Context) (map[uuid.UUID]int64, error)
}

// BusinessMetrics records bakery activity: sales, till checkouts, stock
// movements and finished production batches.
type BusinessMetrics struct {
	logger *zap.Logger

	ordersCreated      metric.Int64Counter
	orderRevenue       metric.Float64Counter
	posCheckouts       metric.Int64Counter
	posRevenue         metric.Float64Counter
	checkoutDuration   metric.Float64Histogram
	stockAdjustments   metric.Int64Counter
	stockTransfers     metric.Int64Counter
	productionFinished metric.Int64Counter

	registration metric.Registration
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter    metric.Meter
	Logger   *zap.Logger
	LowStock LowStockCounter
}

// NewBusinessMetrics creates the instruments. When LowStock is set an
// observable gauge is registered and read on every collection cycle.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	in := &instruments{meter: cfg.Meter}
	bm := &BusinessMetrics{
		logger:             logger,
		ordersCreated:      in.counter("bakery_orders_created_total", "Orders created", "{orders}"),
		orderRevenue:       in.sum("bakery_order_revenue_total", "Order totals including tax", "{currency}"),
		posCheckouts:       in.counter("bakery_pos_checkouts_total", "Completed till sales", "{sales}"),
		posRevenue:         in.sum("bakery_pos_revenue_total", "Till sale totals including tax", "{currency}"),
		checkoutDuration:   in.histogram("bakery_pos_checkout_duration_seconds", "Time spent processing a till checkout", "s", CheckoutDurationBuckets),
		stockAdjustments:   in.counter("bakery_inventory_adjustments_total", "Stock adjustments applied", "{adjustments}"),
		stockTransfers:     in.counter("bakery_inventory_transfers_total", "Stock transfers between warehouses", "{transfers}"),
		productionFinished: in.counter("bakery_production_completed_total", "Production batches completed", "{batches}"),
	}
	if in.err != nil {
		return nil, in.err
	}
	if cfg.LowStock == nil {
		return bm, nil
	}

	gauge := in.gauge("bakery_inventory_low_stock_records", "Stock records at or under the product reorder level", "{records}")
	if in.err != nil {
		return nil, in.err
	}
	provider := cfg.LowStock
	registration, err := cfg.Meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		counts, err := provider.CountLowStockByTenant(ctx)
		if err != nil {
			logger.Warn("Failed to collect low stock counts", zap.Error(err))
			return nil
		}
		for tenantID, n := range counts {
			o.ObserveInt64(gauge, n, metric.WithAttributes(AttrTenantID.String(tenantID.String())))
		}
		return nil
	}, gauge)
	if err != nil {
		return nil, err
	}
	bm.registration = registration
	return bm, nil
}

// RecordOrderCreated counts an order and adds its total to revenue.
func (bm *BusinessMetrics) RecordOrderCreated(ctx context.Context, tenantID uuid.UUID, channel string, total decimal.Decimal) {
	attrs := metric.WithAttributes(AttrTenantID.String(tenantID.String()), AttrChannel.String(channel))
	bm.ordersCreated.Add(ctx, 1, attrs)
	bm.orderRevenue.Add(ctx, total.InexactFloat64(), attrs)
}

// RecordCheckout counts a till sale, one increment per payment method used.
func (bm *BusinessMetrics) RecordCheckout(ctx context.Context, tenantID uuid.UUID, methods []string, total decimal.Decimal, took time.Duration) {
	tenant := AttrTenantID.String(tenantID.String())
	for _, m := range methods {
		bm.posCheckouts.Add(ctx, 1, metric.WithAttributes(tenant, AttrPaymentMethod.String(m)))
	}
	bm.posRevenue.Add(ctx, total.InexactFloat64(), metric.WithAttributes(tenant))
	bm.checkoutDuration.Record(ctx, took.Seconds(), metric.WithAttributes(tenant))
}

// RecordStockAdjustment counts an adjustment by type and reason code.
func (bm *BusinessMetrics) RecordStockAdjustment(ctx context.Context, tenantID uuid.UUID, adjustmentType, reason string) {
	bm.stockAdjustments.Add(ctx, 1, metric.WithAttributes(
		AttrTenantID.String(tenantID.String()),
		AttrAdjustment.String(adjustmentType),
		AttrReasonCode.String(reason),
	))
}

func (bm *BusinessMetrics) RecordStockTransfer(ctx context.Context, tenantID uuid.UUID) {
	bm.stockTransfers.Add(ctx, 1, metric.WithAttributes(AttrTenantID.String(tenantID.String())))
}

func (bm *BusinessMetrics) RecordProductionCompleted(ctx context.Context, tenantID uuid.UUID) {
	bm.productionFinished.Add(ctx, 1, metric.WithAttributes(AttrTenantID.String(tenantID.String())))
}

// Stop unregisters the low stock callback.
func (bm *BusinessMetrics) Stop() {
	if bm.registration != nil {
		if err := bm.registration.Unregister(); err != nil {
			bm.logger.Warn("Failed to unregister metrics callback", zap.Error(err))
		}
		bm.registration = nil
	}
}
