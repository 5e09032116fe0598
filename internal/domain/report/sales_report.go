package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Filter bounds a report to a tenant and a half-open period [From, To)
type Filter struct {
	TenantID uuid.UUID `json:"-"`
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`
	Limit    int       `json:"limit,omitempty"`
}

// Summary is the dashboard headline for a period.
// Revenue counts orders not cancelled and POS sales not voided.
type Summary struct {
	From                 time.Time       `json:"from"`
	To                   time.Time       `json:"to"`
	OrderCount           int64           `json:"order_count"`
	POSOrderCount        int64           `json:"pos_order_count"`
	Revenue              decimal.Decimal `json:"revenue"`
	AvgOrderValue        decimal.Decimal `json:"avg_order_value"`
	ActiveCustomers      int64           `json:"active_customers"`
	LowStockItems        int64           `json:"low_stock_items"`
	ProductionsCompleted int64           `json:"productions_completed"`
}

// DailySales is one point of the sales trend
type DailySales struct {
	Date       string          `json:"date"`
	OrderCount int64           `json:"order_count"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// ProductSales ranks a product by what it sold across orders and POS
type ProductSales struct {
	Rank        int             `json:"rank"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// SalesReportRepository runs sales aggregations
type SalesReportRepository interface {
	// GetSummary returns the headline figures for the period
	GetSummary(ctx context.Context, filter Filter) (*Summary, error)

	// GetDailySales returns revenue and order count per day, oldest first
	GetDailySales(ctx context.Context, filter Filter) ([]DailySales, error)

	// GetTopProducts returns the best sellers by quantity
	GetTopProducts(ctx context.Context, filter Filter) ([]ProductSales, error)
}
