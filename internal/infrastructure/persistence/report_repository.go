package persistence

import (
	"context"
	"fmt"
	"sort"

	"github.com/bakery/backend/internal/domain/pos"
	"github.com/bakery/backend/internal/domain/production"
	"github.com/bakery/backend/internal/domain/report"
	"github.com/bakery/backend/internal/domain/trade"
	"github.com/bakery/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const defaultTopProductsLimit = 10

// lowStockCondition matches stock records whose available quantity is at or
// under the product reorder level. Expects inventory_items joined as-is and
// products aliased p.
const lowStockCondition = "p.reorder_level > 0 AND inventory_items.quantity - inventory_items.reserved_qty <= p.reorder_level"

// GormReportRepository runs report aggregations with GORM.
// Every figure comes from stored rows in the tenant.
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// dayExpr renders column as a YYYY-MM-DD string in the connected dialect
func (r *GormReportRepository) dayExpr(column string) string {
	if r.db.Dialector.Name() == "sqlite" {
		return "date(" + column + ")"
	}
	return "to_char(" + column + " AT TIME ZONE 'UTC', 'YYYY-MM-DD')"
}

// salesOrders scopes non-cancelled orders in the period
func salesOrders(filter report.Filter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("orders.tenant_id = ? AND orders.status <> ? AND orders.created_at >= ? AND orders.created_at < ?",
			filter.TenantID, trade.OrderStatusCancelled, filter.From, filter.To)
	}
}

// posSales scopes POS sales not voided in the period
func posSales(filter report.Filter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("pos_orders.tenant_id = ? AND pos_orders.status <> ? AND pos_orders.created_at >= ? AND pos_orders.created_at < ?",
			filter.TenantID, pos.OrderStatusVoided, filter.From, filter.To)
	}
}

type countSumRow struct {
	Count int64
	Total decimal.NullDecimal
}

// GetSummary returns the headline figures for the period
func (r *GormReportRepository) GetSummary(ctx context.Context, filter report.Filter) (*report.Summary, error) {
	db := r.db.WithContext(ctx)
	summary := &report.Summary{From: filter.From, To: filter.To}

	var orders countSumRow
	if err := db.Model(&models.OrderModel{}).Select("COUNT(*) AS count, SUM(total_amount) AS total").
		Scopes(salesOrders(filter)).Scan(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate orders: %w", err)
	}
	var sales countSumRow
	if err := db.Model(&models.POSOrderModel{}).Select("COUNT(*) AS count, SUM(total_amount) AS total").
		Scopes(posSales(filter)).Scan(&sales).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate pos sales: %w", err)
	}

	summary.OrderCount = orders.Count
	summary.POSOrderCount = sales.Count
	summary.Revenue = orders.Total.Decimal.Add(sales.Total.Decimal).Round(2)
	if n := orders.Count + sales.Count; n > 0 {
		summary.AvgOrderValue = summary.Revenue.Div(decimal.NewFromInt(n)).Round(2)
	}

	err := db.Raw(`SELECT COUNT(*) FROM (
		SELECT customer_id FROM orders
		WHERE tenant_id = ? AND status <> ? AND created_at >= ? AND created_at < ? AND customer_id IS NOT NULL
		UNION
		SELECT customer_id FROM pos_orders
		WHERE tenant_id = ? AND status <> ? AND created_at >= ? AND created_at < ? AND customer_id IS NOT NULL
	) c`,
		filter.TenantID, trade.OrderStatusCancelled, filter.From, filter.To,
		filter.TenantID, pos.OrderStatusVoided, filter.From, filter.To,
	).Scan(&summary.ActiveCustomers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count active customers: %w", err)
	}

	if err := db.Model(&models.InventoryItemModel{}).
		Joins("JOIN products p ON p.id = inventory_items.product_id").
		Where("inventory_items.tenant_id = ?", filter.TenantID).
		Where(lowStockCondition).
		Count(&summary.LowStockItems).Error; err != nil {
		return nil, fmt.Errorf("failed to count low stock items: %w", err)
	}

	if err := db.Model(&models.ProductionModel{}).
		Where("tenant_id = ? AND status = ? AND completed_at >= ? AND completed_at < ?",
			filter.TenantID, production.StatusCompleted, filter.From, filter.To).
		Count(&summary.ProductionsCompleted).Error; err != nil {
		return nil, fmt.Errorf("failed to count completed productions: %w", err)
	}

	return summary, nil
}

type dailyRow struct {
	Day   string
	Count int64
	Total decimal.NullDecimal
}

// GetDailySales returns revenue and order count per day, oldest first.
// Days without sales are omitted.
func (r *GormReportRepository) GetDailySales(ctx context.Context, filter report.Filter) ([]report.DailySales, error) {
	db := r.db.WithContext(ctx)

	var orderDays, saleDays []dailyRow
	orderDay := r.dayExpr("orders.created_at")
	if err := db.Model(&models.OrderModel{}).
		Select(orderDay + " AS day, COUNT(*) AS count, SUM(total_amount) AS total").
		Scopes(salesOrders(filter)).
		Group(orderDay).
		Scan(&orderDays).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate daily orders: %w", err)
	}
	saleDay := r.dayExpr("pos_orders.created_at")
	if err := db.Model(&models.POSOrderModel{}).
		Select(saleDay + " AS day, COUNT(*) AS count, SUM(total_amount) AS total").
		Scopes(posSales(filter)).
		Group(saleDay).
		Scan(&saleDays).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate daily pos sales: %w", err)
	}

	byDay := make(map[string]*report.DailySales)
	for _, row := range append(orderDays, saleDays...) {
		d, ok := byDay[row.Day]
		if !ok {
			d = &report.DailySales{Date: row.Day, Revenue: decimal.Zero}
			byDay[row.Day] = d
		}
		d.OrderCount += row.Count
		d.Revenue = d.Revenue.Add(row.Total.Decimal)
	}

	days := make([]report.DailySales, 0, len(byDay))
	for _, d := range byDay {
		d.Revenue = d.Revenue.Round(2)
		days = append(days, *d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days, nil
}

type productSalesRow struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    decimal.NullDecimal
	Revenue     decimal.NullDecimal
}

// GetTopProducts ranks products by quantity sold, then revenue, across orders
// and POS sales
func (r *GormReportRepository) GetTopProducts(ctx context.Context, filter report.Filter) ([]report.ProductSales, error) {
	db := r.db.WithContext(ctx)

	var orderRows, saleRows []productSalesRow
	if err := db.Model(&models.OrderItemModel{}).
		Select("order_items.product_id AS product_id, MAX(order_items.product_name) AS product_name, SUM(order_items.quantity) AS quantity, SUM(order_items.total) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Scopes(salesOrders(filter)).
		Group("order_items.product_id").
		Scan(&orderRows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate order items: %w", err)
	}
	if err := db.Model(&models.POSOrderItemModel{}).
		Select("pos_order_items.product_id AS product_id, MAX(pos_order_items.product_name) AS product_name, SUM(pos_order_items.quantity) AS quantity, SUM(pos_order_items.total_price) AS revenue").
		Joins("JOIN pos_orders ON pos_orders.id = pos_order_items.pos_order_id").
		Scopes(posSales(filter)).
		Group("pos_order_items.product_id").
		Scan(&saleRows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate pos items: %w", err)
	}

	byProduct := make(map[uuid.UUID]*report.ProductSales)
	for _, row := range append(orderRows, saleRows...) {
		p, ok := byProduct[row.ProductID]
		if !ok {
			p = &report.ProductSales{ProductID: row.ProductID, ProductName: row.ProductName}
			byProduct[row.ProductID] = p
		}
		if p.ProductName == "" {
			p.ProductName = row.ProductName
		}
		p.Quantity = p.Quantity.Add(row.Quantity.Decimal)
		p.Revenue = p.Revenue.Add(row.Revenue.Decimal)
	}

	ranked := make([]report.ProductSales, 0, len(byProduct))
	for _, p := range byProduct {
		p.Revenue = p.Revenue.Round(2)
		ranked = append(ranked, *p)
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if c := a.Quantity.Cmp(b.Quantity); c != 0 {
			return c > 0
		}
		if c := a.Revenue.Cmp(b.Revenue); c != 0 {
			return c > 0
		}
		return a.ProductID.String() < b.ProductID.String()
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultTopProductsLimit
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked, nil
}

type warehouseValueRow struct {
	WarehouseID   uuid.UUID
	WarehouseCode string
	WarehouseName string
	ItemCount     int64
	Quantity      decimal.NullDecimal
	Value         decimal.NullDecimal
}

// GetValueByWarehouse values stock at product cost price per warehouse.
// Warehouses without stock records report zero.
func (r *GormReportRepository) GetValueByWarehouse(ctx context.Context, tenantID uuid.UUID) ([]report.WarehouseValue, error) {
	var rows []warehouseValueRow
	err := r.db.WithContext(ctx).Model(&models.WarehouseModel{}).
		Select(`warehouses.id AS warehouse_id, warehouses.code AS warehouse_code, warehouses.name AS warehouse_name,
			COUNT(inventory_items.id) AS item_count,
			SUM(inventory_items.quantity) AS quantity,
			SUM(inventory_items.quantity * p.cost_price) AS value`).
		Joins("LEFT JOIN inventory_items ON inventory_items.warehouse_id = warehouses.id AND inventory_items.tenant_id = warehouses.tenant_id").
		Joins("LEFT JOIN products p ON p.id = inventory_items.product_id").
		Where("warehouses.tenant_id = ?", tenantID).
		Group("warehouses.id, warehouses.code, warehouses.name").
		Order("warehouses.code ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to value inventory: %w", err)
	}

	values := make([]report.WarehouseValue, len(rows))
	for i, row := range rows {
		values[i] = report.WarehouseValue{
			WarehouseID:   row.WarehouseID,
			WarehouseCode: row.WarehouseCode,
			WarehouseName: row.WarehouseName,
			ItemCount:     row.ItemCount,
			Quantity:      row.Quantity.Decimal,
			Value:         row.Value.Decimal.Round(2),
		}
	}
	return values, nil
}

type lowStockRow struct {
	InventoryItemID uuid.UUID
	WarehouseID     uuid.UUID
	WarehouseName   string
	ProductID       uuid.UUID
	ProductName     string
	SKU             string
	Quantity        decimal.Decimal
	ReservedQty     decimal.Decimal
	ReorderLevel    decimal.Decimal
}

// GetLowStock lists stock records at or under the product reorder level
func (r *GormReportRepository) GetLowStock(ctx context.Context, tenantID uuid.UUID) ([]report.LowStockItem, error) {
	var rows []lowStockRow
	err := r.db.WithContext(ctx).Model(&models.InventoryItemModel{}).
		Select(`inventory_items.id AS inventory_item_id, inventory_items.warehouse_id AS warehouse_id, w.name AS warehouse_name,
			inventory_items.product_id AS product_id, p.name AS product_name, p.sku AS sku,
			inventory_items.quantity AS quantity, inventory_items.reserved_qty AS reserved_qty, p.reorder_level AS reorder_level`).
		Joins("JOIN products p ON p.id = inventory_items.product_id").
		Joins("JOIN warehouses w ON w.id = inventory_items.warehouse_id").
		Where("inventory_items.tenant_id = ?", tenantID).
		Where(lowStockCondition).
		Order("w.code ASC").Order("p.sku ASC").Order("inventory_items.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock: %w", err)
	}

	items := make([]report.LowStockItem, len(rows))
	for i, row := range rows {
		items[i] = report.LowStockItem{
			InventoryItemID: row.InventoryItemID,
			WarehouseID:     row.WarehouseID,
			WarehouseName:   row.WarehouseName,
			ProductID:       row.ProductID,
			ProductName:     row.ProductName,
			SKU:             row.SKU,
			Quantity:        row.Quantity,
			ReservedQty:     row.ReservedQty,
			Available:       row.Quantity.Sub(row.ReservedQty),
			ReorderLevel:    row.ReorderLevel,
		}
	}
	return items, nil
}

type tenantCountRow struct {
	TenantID uuid.UUID
	Count    int64
}

// CountLowStockByTenant counts low-stock records for every tenant. It feeds
// the low stock gauge and is not tenant scoped.
func (r *GormReportRepository) CountLowStockByTenant(ctx context.Context) (map[uuid.UUID]int64, error) {
	var rows []tenantCountRow
	err := r.db.WithContext(ctx).Model(&models.InventoryItemModel{}).
		Select("inventory_items.tenant_id AS tenant_id, COUNT(*) AS count").
		Joins("JOIN products p ON p.id = inventory_items.product_id").
		Where(lowStockCondition).
		Group("inventory_items.tenant_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count low stock: %w", err)
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		counts[row.TenantID] = row.Count
	}
	return counts, nil
}

type statusCountRow struct {
	Status string
	Count  int64
}

type efficiencyRow struct {
	PlannedQuantity decimal.Decimal
	ActualQuantity  decimal.NullDecimal
}

// GetProductionSummary counts batches scheduled in the period by status and
// averages the efficiency of the completed ones
func (r *GormReportRepository) GetProductionSummary(ctx context.Context, filter report.Filter) (*report.ProductionSummary, error) {
	db := r.db.WithContext(ctx)
	inPeriod := func(q *gorm.DB) *gorm.DB {
		return q.Where("tenant_id = ? AND scheduled_date >= ? AND scheduled_date < ?", filter.TenantID, filter.From, filter.To)
	}

	var counts []statusCountRow
	if err := db.Model(&models.ProductionModel{}).
		Select("status, COUNT(*) AS count").
		Scopes(inPeriod).
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to count productions: %w", err)
	}

	summary := &report.ProductionSummary{
		From:     filter.From,
		To:       filter.To,
		ByStatus: make(map[string]int64, len(counts)),
	}
	for _, c := range counts {
		summary.ByStatus[c.Status] = c.Count
		summary.Total += c.Count
	}

	var completed []efficiencyRow
	if err := db.Model(&models.ProductionModel{}).
		Select("planned_quantity, actual_quantity").
		Scopes(inPeriod).
		Where("status = ?", production.StatusCompleted).
		Scan(&completed).Error; err != nil {
		return nil, fmt.Errorf("failed to load completed productions: %w", err)
	}
	if len(completed) > 0 {
		var sum int64
		for _, row := range completed {
			var actual *decimal.Decimal
			if row.ActualQuantity.Valid {
				actual = &row.ActualQuantity.Decimal
			}
			sum += production.Efficiency(row.PlannedQuantity, actual)
		}
		summary.AvgEfficiency = decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(len(completed)))).Round(0).IntPart()
	}

	return summary, nil
}

// Ensure interface compliance
var (
	_ report.SalesReportRepository      = (*GormReportRepository)(nil)
	_ report.InventoryReportRepository  = (*GormReportRepository)(nil)
	_ report.ProductionReportRepository = (*GormReportRepository)(nil)
)
