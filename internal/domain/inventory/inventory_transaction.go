package inventory

import (
	"time"

	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is the kind of movement recorded in the audit trail
type TransactionType string

const (
	TransactionTypeInitial     TransactionType = "INITIAL"
	TransactionTypeAdd         TransactionType = "ADJUSTMENT_ADD"
	TransactionTypeRemove      TransactionType = "ADJUSTMENT_REMOVE"
	TransactionTypeSet         TransactionType = "ADJUSTMENT_SET"
	TransactionTypeTransferOut TransactionType = "TRANSFER_OUT"
	TransactionTypeTransferIn  TransactionType = "TRANSFER_IN"
	TransactionTypeReserve     TransactionType = "RESERVE"
	TransactionTypeRelease     TransactionType = "RELEASE"
)

// Actor identifies who performed a stock movement
type Actor = shared.Actor

// InventoryTransaction is an immutable audit entry for a stock movement.
// Quantity is always positive; direction follows from Type.
type InventoryTransaction struct {
	ID              uuid.UUID
	TenantID        uuid.UUID
	InventoryItemID uuid.UUID
	WarehouseID     uuid.UUID
	ProductID       uuid.UUID
	Type            TransactionType
	Quantity        decimal.Decimal
	BalanceBefore   decimal.Decimal
	BalanceAfter    decimal.Decimal
	ReasonCode      ReasonCode
	Notes           string
	ReferenceID     *uuid.UUID
	ActorID         uuid.UUID
	ActorEmail      string
	CreatedAt       time.Time
}

func newTransaction(item *InventoryItem, txType TransactionType, qty, before decimal.Decimal, reason ReasonCode, notes string, actor Actor) *InventoryTransaction {
	return &InventoryTransaction{
		ID:              uuid.New(),
		TenantID:        item.TenantID,
		InventoryItemID: item.ID,
		WarehouseID:     item.WarehouseID,
		ProductID:       item.ProductID,
		Type:            txType,
		Quantity:        qty,
		BalanceBefore:   before,
		BalanceAfter:    item.Quantity,
		ReasonCode:      reason,
		Notes:           notes,
		ActorID:         actor.UserID,
		ActorEmail:      actor.Email,
		CreatedAt:       time.Now().UTC(),
	}
}

// ValidateTransaction checks an entry before it is persisted
func ValidateTransaction(tx *InventoryTransaction) error {
	if tx.InventoryItemID == uuid.Nil {
		return shared.NewDomainError("INVALID_ITEM", "Inventory item ID is required")
	}
	if tx.Quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Transaction quantity cannot be negative")
	}
	return nil
}
