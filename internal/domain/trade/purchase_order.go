package trade

import (
	"time"

	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus is the lifecycle state of a purchase order
type PurchaseOrderStatus string

const (
	POStatusDraft     PurchaseOrderStatus = "DRAFT"
	POStatusSubmitted PurchaseOrderStatus = "SUBMITTED"
	POStatusApproved  PurchaseOrderStatus = "APPROVED"
	POStatusOrdered   PurchaseOrderStatus = "ORDERED"
	POStatusReceived  PurchaseOrderStatus = "RECEIVED"
	POStatusCompleted PurchaseOrderStatus = "COMPLETED"
	POStatusCancelled PurchaseOrderStatus = "CANCELLED"
)

// IsValid checks if the status is known
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case POStatusDraft, POStatusSubmitted, POStatusApproved, POStatusOrdered,
		POStatusReceived, POStatusCompleted, POStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can move to target
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case POStatusDraft:
		return target == POStatusSubmitted || target == POStatusCancelled
	case POStatusSubmitted:
		return target == POStatusApproved || target == POStatusCancelled
	case POStatusApproved:
		return target == POStatusOrdered || target == POStatusCancelled
	case POStatusOrdered:
		return target == POStatusReceived
	case POStatusReceived:
		return target == POStatusCompleted
	}
	return false
}

// PurchaseOrderItem is one line of a purchase order
type PurchaseOrderItem struct {
	ID              uuid.UUID
	PurchaseOrderID uuid.UUID
	ProductID       uuid.UUID
	ProductName     string
	Quantity        decimal.Decimal
	UnitCost        decimal.Decimal
	Total           decimal.Decimal
}

// LineTotal is quantity times unit cost
func (i PurchaseOrderItem) LineTotal() decimal.Decimal {
	return i.Quantity.Mul(i.UnitCost)
}

// NewPurchaseOrderItem creates a line with its total computed
func NewPurchaseOrderItem(productID uuid.UUID, productName string, quantity, unitCost decimal.Decimal) (PurchaseOrderItem, error) {
	if productID == uuid.Nil {
		return PurchaseOrderItem{}, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if err := shared.ValidateQuantity("Quantity", quantity); err != nil {
		return PurchaseOrderItem{}, err
	}
	if err := shared.ValidatePrice("Unit cost", unitCost); err != nil {
		return PurchaseOrderItem{}, err
	}
	item := PurchaseOrderItem{
		ID:          uuid.New(),
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitCost:    unitCost,
	}
	item.Total = item.LineTotal().Round(2)
	return item, nil
}

// PurchaseOrder is a request to a supplier for stock.
// TotalAmount is always derived from Items.
type PurchaseOrder struct {
	shared.TenantAggregateRoot
	PONumber     string
	SupplierID   uuid.UUID
	WarehouseID  uuid.UUID
	Status       PurchaseOrderStatus
	ExpectedDate *time.Time
	Notes        string
	TotalAmount  decimal.Decimal
	Items        []PurchaseOrderItem
}

// NewPurchaseOrder creates a DRAFT purchase order
func NewPurchaseOrder(tenantID, supplierID, warehouseID uuid.UUID, items []PurchaseOrderItem) (*PurchaseOrder, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	po := &PurchaseOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SupplierID:          supplierID,
		WarehouseID:         warehouseID,
		Status:              POStatusDraft,
	}
	po.PONumber = shared.NewDocumentNumber("PO", po.CreatedAt)
	if err := po.setItems(items); err != nil {
		return nil, err
	}
	return po, nil
}

func (po *PurchaseOrder) setItems(items []PurchaseOrderItem) error {
	if len(items) == 0 {
		return shared.NewDomainError("EMPTY_PURCHASE_ORDER", "Purchase order must have at least one item")
	}
	total := decimal.Zero
	for i := range items {
		items[i].PurchaseOrderID = po.ID
		total = total.Add(items[i].Total)
	}
	po.Items = items
	po.TotalAmount = total
	return nil
}

// ReplaceItems swaps the lines while the order is still a draft
func (po *PurchaseOrder) ReplaceItems(items []PurchaseOrderItem) error {
	if po.Status != POStatusDraft {
		return shared.NewDomainError("PURCHASE_ORDER_LOCKED", "Items can only be changed on a DRAFT purchase order")
	}
	if err := po.setItems(items); err != nil {
		return err
	}
	po.Touch()
	po.IncrementVersion()
	return nil
}

// SetSchedule sets expected date and notes
func (po *PurchaseOrder) SetSchedule(expected *time.Time, notes string) {
	po.ExpectedDate = expected
	po.Notes = notes
	po.Touch()
}

// TransitionTo moves the purchase order to a new status
func (po *PurchaseOrder) TransitionTo(target PurchaseOrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown purchase order status")
	}
	if !po.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			"Cannot change purchase order status from "+string(po.Status)+" to "+string(target))
	}
	po.Status = target
	po.Touch()
	po.IncrementVersion()
	return nil
}

// CanDelete reports whether the purchase order may be hard deleted
func (po *PurchaseOrder) CanDelete() bool {
	return po.Status == POStatusDraft || po.Status == POStatusCancelled
}

// UpdateSchedule changes expected date and notes on an existing purchase order
func (po *PurchaseOrder) UpdateSchedule(expected *time.Time, notes string) error {
	if po.Status == POStatusCompleted || po.Status == POStatusCancelled {
		return shared.NewDomainError("PURCHASE_ORDER_LOCKED", "Closed purchase orders cannot change")
	}
	po.SetSchedule(expected, notes)
	po.IncrementVersion()
	return nil
}
