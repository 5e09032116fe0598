package inventory

import (
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeInventoryItem names the aggregate in published events
const AggregateTypeInventoryItem = "InventoryItem"

const (
	EventTypeInventoryAdjusted    = "InventoryAdjusted"
	EventTypeInventoryTransferred = "InventoryTransferred"
	EventTypeLowStockDetected     = "LowStockDetected"
)

// InventoryAdjustedEvent is raised by a manual adjustment
type InventoryAdjustedEvent struct {
	shared.EventHeader
	WarehouseID    uuid.UUID       `json:"warehouse_id"`
	ProductID      uuid.UUID       `json:"product_id"`
	AdjustmentType AdjustmentType  `json:"adjustment_type"`
	Quantity       decimal.Decimal `json:"quantity"`
	Before         decimal.Decimal `json:"before"`
	After          decimal.Decimal `json:"after"`
	ReasonCode     ReasonCode      `json:"reason_code"`
}

// NewInventoryAdjustedEvent creates an InventoryAdjustedEvent
func NewInventoryAdjustedEvent(item *InventoryItem, adjType AdjustmentType, qty, before decimal.Decimal, reason ReasonCode) *InventoryAdjustedEvent {
	return &InventoryAdjustedEvent{
		EventHeader:    shared.NewEventHeader(EventTypeInventoryAdjusted, AggregateTypeInventoryItem, item.ID, item.TenantID),
		WarehouseID:    item.WarehouseID,
		ProductID:      item.ProductID,
		AdjustmentType: adjType,
		Quantity:       qty,
		Before:         before,
		After:          item.Quantity,
		ReasonCode:     reason,
	}
}

// InventoryTransferredEvent is raised on the source record of a transfer
type InventoryTransferredEvent struct {
	shared.EventHeader
	ProductID           uuid.UUID       `json:"product_id"`
	FromWarehouseID     uuid.UUID       `json:"from_warehouse_id"`
	ToWarehouseID       uuid.UUID       `json:"to_warehouse_id"`
	DestinationRecordID uuid.UUID       `json:"destination_record_id"`
	Quantity            decimal.Decimal `json:"quantity"`
}

// NewInventoryTransferredEvent creates an InventoryTransferredEvent
func NewInventoryTransferredEvent(source, dest *InventoryItem, qty decimal.Decimal) *InventoryTransferredEvent {
	return &InventoryTransferredEvent{
		EventHeader:         shared.NewEventHeader(EventTypeInventoryTransferred, AggregateTypeInventoryItem, source.ID, source.TenantID),
		ProductID:           source.ProductID,
		FromWarehouseID:     source.WarehouseID,
		ToWarehouseID:       dest.WarehouseID,
		DestinationRecordID: dest.ID,
		Quantity:            qty,
	}
}

// LowStockDetectedEvent is raised when available stock reaches the reorder level
type LowStockDetectedEvent struct {
	shared.EventHeader
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Available   decimal.Decimal `json:"available"`
	Threshold   decimal.Decimal `json:"threshold"`
}

// NewLowStockDetectedEvent creates a LowStockDetectedEvent
func NewLowStockDetectedEvent(item *InventoryItem, threshold decimal.Decimal) *LowStockDetectedEvent {
	return &LowStockDetectedEvent{
		EventHeader: shared.NewEventHeader(EventTypeLowStockDetected, AggregateTypeInventoryItem, item.ID, item.TenantID),
		WarehouseID: item.WarehouseID,
		ProductID:   item.ProductID,
		Available:   item.Available(),
		Threshold:   threshold,
	}
}
