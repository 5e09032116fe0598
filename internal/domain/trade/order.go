package trade

import (
	"strings"
	"time"

	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusPreparing OrderStatus = "PREPARING"
	OrderStatusReady     OrderStatus = "READY"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsValid checks if the status is known
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusReady, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can move to target
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusConfirmed || target == OrderStatusCancelled
	case OrderStatusConfirmed:
		return target == OrderStatusPreparing || target == OrderStatusCancelled
	case OrderStatusPreparing:
		return target == OrderStatusReady || target == OrderStatusCancelled
	case OrderStatusReady:
		return target == OrderStatusDelivered
	}
	return false
}

// PaymentStatus is the settlement state of an order
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPartial  PaymentStatus = "PARTIAL"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
	PaymentStatusFailed   PaymentStatus = "FAILED"
)

// IsValid checks if the payment status is known
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPartial, PaymentStatusPaid, PaymentStatusRefunded, PaymentStatusFailed:
		return true
	}
	return false
}

// Channel is where the order came from
type Channel string

const (
	ChannelOnline Channel = "ONLINE"
	ChannelStore  Channel = "STORE"
	ChannelB2B    Channel = "B2B"
	ChannelPOS    Channel = "POS"
)

// IsValid checks if the channel is known
func (c Channel) IsValid() bool {
	switch c {
	case ChannelOnline, ChannelStore, ChannelB2B, ChannelPOS:
		return true
	}
	return false
}

// OrderItem is one line of an order
type OrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	SKU         string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
}

// LineTotal is quantity times unit price
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// NewOrderItem creates a line with its total computed
func NewOrderItem(productID uuid.UUID, productName, sku string, quantity, unitPrice decimal.Decimal) (OrderItem, error) {
	if productID == uuid.Nil {
		return OrderItem{}, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if err := shared.ValidateQuantity("Quantity", quantity); err != nil {
		return OrderItem{}, err
	}
	if err := shared.ValidatePrice("Unit price", unitPrice); err != nil {
		return OrderItem{}, err
	}
	item := OrderItem{
		ID:          uuid.New(),
		ProductID:   productID,
		ProductName: productName,
		SKU:         sku,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
	}
	item.Total = item.LineTotal().Round(2)
	return item, nil
}

// Order is a customer order. Subtotal, tax and total are stored, and are
// only ever produced by recomputing from Items.
type Order struct {
	shared.TenantAggregateRoot
	OrderNumber     string
	CustomerID      uuid.UUID
	Channel         Channel
	Status          OrderStatus
	PaymentStatus   PaymentStatus
	TaxRate         decimal.Decimal
	Subtotal        decimal.Decimal
	TaxAmount       decimal.Decimal
	TotalAmount     decimal.Decimal
	DeliveryDate    *time.Time
	ShippingAddress string
	Notes           string
	CancelReason    string
	Items           []OrderItem
}

// NewOrder creates a PENDING order and computes its totals.
// A nil taxRate uses DefaultTaxRate.
func NewOrder(tenantID, customerID uuid.UUID, channel Channel, taxRate *decimal.Decimal, items []OrderItem) (*Order, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if channel == "" {
		channel = ChannelStore
	}
	if !channel.IsValid() {
		return nil, shared.NewDomainError("INVALID_CHANNEL", "Unknown order channel")
	}
	rate := DefaultTaxRate
	if taxRate != nil {
		rate = *taxRate
	}
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}

	o := &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CustomerID:          customerID,
		Channel:             channel,
		Status:              OrderStatusPending,
		PaymentStatus:       PaymentStatusPending,
		TaxRate:             rate,
	}
	o.OrderNumber = shared.NewDocumentNumber("ORD", o.CreatedAt)
	if err := o.setItems(items); err != nil {
		return nil, err
	}
	o.AddDomainEvent(NewOrderCreatedEvent(o))
	return o, nil
}

func (o *Order) setItems(items []OrderItem) error {
	if len(items) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Order must have at least one item")
	}
	for i := range items {
		items[i].OrderID = o.ID
	}
	o.Items = items
	o.recalculate()
	return nil
}

func (o *Order) recalculate() {
	t := ComputeTotals(o.Items, o.TaxRate)
	o.Subtotal = t.Subtotal
	o.TaxAmount = t.TaxAmount
	o.TotalAmount = t.TotalAmount
}

// ReplaceItems swaps all lines and recomputes totals. A nil taxRate keeps the current rate.
func (o *Order) ReplaceItems(items []OrderItem, taxRate *decimal.Decimal) error {
	if o.Status != OrderStatusPending && o.Status != OrderStatusConfirmed {
		return shared.NewDomainError("ORDER_LOCKED", "Items can only be changed while the order is PENDING or CONFIRMED")
	}
	if taxRate != nil {
		if taxRate.IsNegative() || taxRate.GreaterThan(hundred) {
			return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
		}
		o.TaxRate = *taxRate
	}
	if err := o.setItems(items); err != nil {
		return err
	}
	o.Touch()
	o.IncrementVersion()
	return nil
}

// SetDelivery sets delivery date, address and notes
func (o *Order) SetDelivery(date *time.Time, address, notes string) {
	o.DeliveryDate = date
	o.ShippingAddress = strings.TrimSpace(address)
	o.Notes = notes
	o.Touch()
}

// TransitionTo moves the order to a new status
func (o *Order) TransitionTo(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown order status")
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			"Cannot change order status from "+string(o.Status)+" to "+string(target))
	}
	from := o.Status
	o.Status = target
	o.Touch()
	o.IncrementVersion()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from))
	return nil
}

// Cancel cancels the order with a reason
func (o *Order) Cancel(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}
	if err := o.TransitionTo(OrderStatusCancelled); err != nil {
		return err
	}
	o.CancelReason = reason
	return nil
}

// SetPaymentStatus records the settlement state
func (o *Order) SetPaymentStatus(status PaymentStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_STATUS", "Unknown payment status")
	}
	o.PaymentStatus = status
	o.Touch()
	o.IncrementVersion()
	return nil
}

// CanDelete reports whether the order may be hard deleted
func (o *Order) CanDelete() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusCancelled
}

// UpdateDelivery changes delivery details on an existing order
func (o *Order) UpdateDelivery(date *time.Time, address, notes string) error {
	if o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled {
		return shared.NewDomainError("ORDER_LOCKED", "Delivery details cannot change after the order is closed")
	}
	o.SetDelivery(date, address, notes)
	o.IncrementVersion()
	return nil
}
