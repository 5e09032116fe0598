package report

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WarehouseValue is the stock held in one warehouse valued at cost
type WarehouseValue struct {
	WarehouseID   uuid.UUID       `json:"warehouse_id"`
	WarehouseCode string          `json:"warehouse_code"`
	WarehouseName string          `json:"warehouse_name"`
	ItemCount     int64           `json:"item_count"`
	Quantity      decimal.Decimal `json:"quantity"`
	Value         decimal.Decimal `json:"value"`
}

// LowStockItem is a stock record at or under its product reorder level
type LowStockItem struct {
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	WarehouseID     uuid.UUID       `json:"warehouse_id"`
	WarehouseName   string          `json:"warehouse_name"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"`
	SKU             string          `json:"sku"`
	Quantity        decimal.Decimal `json:"quantity"`
	ReservedQty     decimal.Decimal `json:"reserved_qty"`
	Available       decimal.Decimal `json:"available"`
	ReorderLevel    decimal.Decimal `json:"reorder_level"`
}

// InventoryValuation groups stock value by warehouse
type InventoryValuation struct {
	Warehouses []WarehouseValue `json:"warehouses"`
	TotalValue decimal.Decimal  `json:"total_value"`
	LowStock   []LowStockItem   `json:"low_stock"`
}

// InventoryReportRepository runs stock aggregations
type InventoryReportRepository interface {
	GetValueByWarehouse(ctx context.Context, tenantID uuid.UUID) ([]WarehouseValue, error)
	GetLowStock(ctx context.Context, tenantID uuid.UUID) ([]LowStockItem, error)
}
