package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdjustmentType is the operation applied by a manual stock adjustment
type AdjustmentType string

const (
	AdjustmentAdd    AdjustmentType = "add"
	AdjustmentRemove AdjustmentType = "remove"
	AdjustmentSet    AdjustmentType = "set"
)

// ParseAdjustmentType accepts add, remove or set in any case
func ParseAdjustmentType(s string) (AdjustmentType, error) {
	t := AdjustmentType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case AdjustmentAdd, AdjustmentRemove, AdjustmentSet:
		return t, nil
	}
	return "", shared.NewDomainError("INVALID_ADJUSTMENT_TYPE", "Adjustment type must be one of add, remove, set")
}

// ReasonCode explains why stock was adjusted
type ReasonCode string

const (
	ReasonRestock         ReasonCode = "RESTOCK"
	ReasonDamage          ReasonCode = "DAMAGE"
	ReasonExpired         ReasonCode = "EXPIRED"
	ReasonTheft           ReasonCode = "THEFT"
	ReasonCountCorrection ReasonCode = "COUNT_CORRECTION"
	ReasonReturn          ReasonCode = "RETURN"
	ReasonProduction      ReasonCode = "PRODUCTION"
	ReasonTransfer        ReasonCode = "TRANSFER"
	ReasonOther           ReasonCode = "OTHER"
)

// IsValid reports whether the reason code is known
func (r ReasonCode) IsValid() bool {
	switch r {
	case ReasonRestock, ReasonDamage, ReasonExpired, ReasonTheft, ReasonCountCorrection,
		ReasonReturn, ReasonProduction, ReasonTransfer, ReasonOther:
		return true
	}
	return false
}

// InventoryItem is the stock record of one product in one warehouse.
// Invariant: Quantity >= ReservedQty >= 0.
type InventoryItem struct {
	shared.TenantAggregateRoot
	ProductID       uuid.UUID
	WarehouseID     uuid.UUID
	Quantity        decimal.Decimal
	ReservedQty     decimal.Decimal
	BatchNumber     string
	ExpiryDate      *time.Time
	LastRestockedAt *time.Time
}

// NewInventoryItem creates a stock record with an opening balance
func NewInventoryItem(tenantID, warehouseID, productID uuid.UUID, quantity, reserved decimal.Decimal) (*InventoryItem, error) {
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.IsNegative() || reserved.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantities cannot be negative")
	}
	if !shared.FitsScale(quantity, shared.QuantityScale) || !shared.FitsScale(reserved, shared.QuantityScale) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", fmt.Sprintf("Quantities allow at most %d decimal places", shared.QuantityScale))
	}
	if reserved.GreaterThan(quantity) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Reserved quantity cannot exceed quantity")
	}
	return &InventoryItem{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProductID:           productID,
		WarehouseID:         warehouseID,
		Quantity:            quantity,
		ReservedQty:         reserved,
	}, nil
}

// Available is quantity minus reserved. It is never stored.
func (i *InventoryItem) Available() decimal.Decimal {
	return i.Quantity.Sub(i.ReservedQty)
}

// OpeningTransaction returns the audit entry for the initial balance
func (i *InventoryItem) OpeningTransaction(actor Actor) *InventoryTransaction {
	return newTransaction(i, TransactionTypeInitial, i.Quantity, decimal.Zero, ReasonRestock, "", actor)
}

// SetBatch updates batch and expiry metadata
func (i *InventoryItem) SetBatch(batchNumber string, expiry *time.Time) {
	i.BatchNumber = strings.TrimSpace(batchNumber)
	i.ExpiryDate = expiry
	i.Touch()
	i.IncrementVersion()
}

// Adjust applies a manual add/remove/set and returns the audit entry.
// A remove larger than the available quantity is rejected, never clamped.
func (i *InventoryItem) Adjust(adjType AdjustmentType, qty decimal.Decimal, reason ReasonCode, notes string, actor Actor) (*InventoryTransaction, error) {
	if err := shared.ValidateQuantity("Adjustment quantity", qty); err != nil {
		return nil, err
	}
	if !reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_REASON", fmt.Sprintf("Unknown reason code %q", reason))
	}

	before := i.Quantity
	var txType TransactionType
	switch adjType {
	case AdjustmentAdd:
		i.Quantity = i.Quantity.Add(qty)
		txType = TransactionTypeAdd
		now := time.Now().UTC()
		i.LastRestockedAt = &now
	case AdjustmentRemove:
		if qty.GreaterThan(i.Available()) {
			return nil, insufficientStock(qty, i.Available())
		}
		i.Quantity = i.Quantity.Sub(qty)
		txType = TransactionTypeRemove
	case AdjustmentSet:
		if qty.LessThan(i.ReservedQty) {
			return nil, shared.NewDomainError("INVALID_QUANTITY",
				fmt.Sprintf("Cannot set quantity to %s below reserved quantity %s", qty, i.ReservedQty))
		}
		i.Quantity = qty
		txType = TransactionTypeSet
	default:
		return nil, shared.NewDomainError("INVALID_ADJUSTMENT_TYPE", "Adjustment type must be one of add, remove, set")
	}

	i.Touch()
	i.IncrementVersion()
	tx := newTransaction(i, txType, qty, before, reason, notes, actor)
	i.AddDomainEvent(NewInventoryAdjustedEvent(i, adjType, qty, before, reason))
	return tx, nil
}

// Reserve moves quantity from available to reserved
func (i *InventoryItem) Reserve(qty decimal.Decimal, notes string, actor Actor) (*InventoryTransaction, error) {
	if err := shared.ValidateQuantity("Reserve quantity", qty); err != nil {
		return nil, err
	}
	if qty.GreaterThan(i.Available()) {
		return nil, insufficientStock(qty, i.Available())
	}
	before := i.Quantity
	i.ReservedQty = i.ReservedQty.Add(qty)
	i.Touch()
	i.IncrementVersion()
	return newTransaction(i, TransactionTypeReserve, qty, before, ReasonOther, notes, actor), nil
}

// Release returns reserved quantity to available
func (i *InventoryItem) Release(qty decimal.Decimal, notes string, actor Actor) (*InventoryTransaction, error) {
	if err := shared.ValidateQuantity("Release quantity", qty); err != nil {
		return nil, err
	}
	if qty.GreaterThan(i.ReservedQty) {
		return nil, shared.NewDomainError("INVALID_QUANTITY",
			fmt.Sprintf("Cannot release %s: only %s reserved", qty, i.ReservedQty))
	}
	before := i.Quantity
	i.ReservedQty = i.ReservedQty.Sub(qty)
	i.Touch()
	i.IncrementVersion()
	return newTransaction(i, TransactionTypeRelease, qty, before, ReasonOther, notes, actor), nil
}

// IsLowStock reports whether available stock is at or below the threshold
func (i *InventoryItem) IsLowStock(threshold decimal.Decimal) bool {
	return threshold.IsPositive() && i.Available().LessThanOrEqual(threshold)
}

// FlagLowStock records a LowStockDetected event when the threshold is reached
func (i *InventoryItem) FlagLowStock(threshold decimal.Decimal) {
	if i.IsLowStock(threshold) {
		i.AddDomainEvent(NewLowStockDetectedEvent(i, threshold))
	}
}

func insufficientStock(requested, available decimal.Decimal) error {
	return shared.NewDomainError("INSUFFICIENT_STOCK",
		fmt.Sprintf("Insufficient stock: requested %s, available %s", requested, available))
}
