package inventory

import (
	"time"

	"github.com/bakery/backend/internal/domain/inventory"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Warehouse DTOs
// =============================================================================

// CreateWarehouseRequest represents a request to create a warehouse
type CreateWarehouseRequest struct {
	Code    string `json:"code" binding:"required,min=1,max=50"`
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Address string `json:"address" binding:"max=500"`
}

// UpdateWarehouseRequest represents a request to update a warehouse.
// Nil fields are left unchanged.
type UpdateWarehouseRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=200"`
	Address  *string `json:"address" binding:"omitempty,max=500"`
	IsActive *bool   `json:"is_active"`
}

// WarehouseResponse represents a warehouse in API responses
type WarehouseResponse struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// WarehouseListFilter represents filter options for warehouse list
type WarehouseListFilter struct {
	Search   string `form:"search"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f WarehouseListFilter) toDomain() shared.Filter {
	df := shared.NewFilter(f.Page, f.PageSize, f.OrderBy, f.OrderDir)
	df.Search = f.Search
	if f.IsActive != nil {
		df.Filters["is_active"] = *f.IsActive
	}
	return df
}

// ToWarehouseResponse converts a domain Warehouse to WarehouseResponse
func ToWarehouseResponse(w *inventory.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID:        w.ID,
		TenantID:  w.TenantID,
		Code:      w.Code,
		Name:      w.Name,
		Address:   w.Address,
		IsActive:  w.IsActive,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
		Version:   w.Version,
	}
}

// =============================================================================
// Inventory item DTOs
// =============================================================================

// CreateInventoryItemRequest opens a stock record for a product in a warehouse
type CreateInventoryItemRequest struct {
	WarehouseID uuid.UUID       `json:"warehouse_id" binding:"required"`
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	ReservedQty decimal.Decimal `json:"reserved_qty"`
	BatchNumber string          `json:"batch_number" binding:"max=100"`
	ExpiryDate  *time.Time      `json:"expiry_date"`
}

// UpdateInventoryItemRequest changes record metadata. Quantities only move
// through adjust, transfer, reserve and release.
type UpdateInventoryItemRequest struct {
	BatchNumber *string    `json:"batch_number" binding:"omitempty,max=100"`
	ExpiryDate  *time.Time `json:"expiry_date"`
}

// AdjustStockRequest is a manual add, remove or set
type AdjustStockRequest struct {
	Type       string          `json:"type" binding:"required,oneof=add remove set ADD REMOVE SET"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	ReasonCode string          `json:"reason_code" binding:"required,oneof=RESTOCK DAMAGE EXPIRED THEFT COUNT_CORRECTION RETURN PRODUCTION OTHER"`
	Notes      string          `json:"notes" binding:"max=500"`
}

// TransferStockRequest moves stock from a record to another warehouse
type TransferStockRequest struct {
	ToWarehouseID uuid.UUID       `json:"to_warehouse_id" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	Notes         string          `json:"notes" binding:"max=500"`
}

// ReservationRequest reserves or releases quantity on a record
type ReservationRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	Notes    string          `json:"notes" binding:"max=500"`
}

// InventoryItemResponse represents a stock record. Available is derived.
type InventoryItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	TenantID        uuid.UUID       `json:"tenant_id"`
	WarehouseID     uuid.UUID       `json:"warehouse_id"`
	ProductID       uuid.UUID       `json:"product_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	ReservedQty     decimal.Decimal `json:"reserved_qty"`
	Available       decimal.Decimal `json:"available"`
	BatchNumber     string          `json:"batch_number"`
	ExpiryDate      *time.Time      `json:"expiry_date"`
	LastRestockedAt *time.Time      `json:"last_restocked_at"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

// TransferResponse carries both records after a transfer
type TransferResponse struct {
	Source      InventoryItemResponse `json:"source"`
	Destination InventoryItemResponse `json:"destination"`
}

// InventoryListFilter represents filter options for inventory list
type InventoryListFilter struct {
	WarehouseID    *uuid.UUID `form:"-"`
	ProductID      *uuid.UUID `form:"-"`
	LowStock       bool       `form:"low_stock"`
	ExpiringBefore *time.Time `form:"expiring_before" time_format:"2006-01-02"`
	Page           int        `form:"page" binding:"omitempty,min=1"`
	PageSize       int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string     `form:"order_by"`
	OrderDir       string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f InventoryListFilter) toDomain() inventory.ItemFilter {
	return inventory.ItemFilter{
		Filter:         shared.NewFilter(f.Page, f.PageSize, f.OrderBy, f.OrderDir),
		WarehouseID:    f.WarehouseID,
		ProductID:      f.ProductID,
		LowStock:       f.LowStock,
		ExpiringBefore: f.ExpiringBefore,
	}
}

// ToInventoryItemResponse converts a domain InventoryItem to InventoryItemResponse
func ToInventoryItemResponse(i *inventory.InventoryItem) InventoryItemResponse {
	return InventoryItemResponse{
		ID:              i.ID,
		TenantID:        i.TenantID,
		WarehouseID:     i.WarehouseID,
		ProductID:       i.ProductID,
		Quantity:        i.Quantity,
		ReservedQty:     i.ReservedQty,
		Available:       i.Available(),
		BatchNumber:     i.BatchNumber,
		ExpiryDate:      i.ExpiryDate,
		LastRestockedAt: i.LastRestockedAt,
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
		Version:         i.Version,
	}
}

// =============================================================================
// Transaction DTOs
// =============================================================================

// TransactionResponse represents an audit entry
type TransactionResponse struct {
	ID              uuid.UUID       `json:"id"`
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	WarehouseID     uuid.UUID       `json:"warehouse_id"`
	ProductID       uuid.UUID       `json:"product_id"`
	Type            string          `json:"type"`
	Quantity        decimal.Decimal `json:"quantity"`
	BalanceBefore   decimal.Decimal `json:"balance_before"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	ReasonCode      string          `json:"reason_code"`
	Notes           string          `json:"notes"`
	ReferenceID     *uuid.UUID      `json:"reference_id"`
	ActorID         uuid.UUID       `json:"actor_id"`
	ActorEmail      string          `json:"actor_email"`
	CreatedAt       time.Time       `json:"created_at"`
}

// TransactionListFilter pages through a record's audit trail
type TransactionListFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToTransactionResponse converts an audit entry
func ToTransactionResponse(tx *inventory.InventoryTransaction) TransactionResponse {
	return TransactionResponse{
		ID:              tx.ID,
		InventoryItemID: tx.InventoryItemID,
		WarehouseID:     tx.WarehouseID,
		ProductID:       tx.ProductID,
		Type:            string(tx.Type),
		Quantity:        tx.Quantity,
		BalanceBefore:   tx.BalanceBefore,
		BalanceAfter:    tx.BalanceAfter,
		ReasonCode:      string(tx.ReasonCode),
		Notes:           tx.Notes,
		ReferenceID:     tx.ReferenceID,
		ActorID:         tx.ActorID,
		ActorEmail:      tx.ActorEmail,
		CreatedAt:       tx.CreatedAt,
	}
}

