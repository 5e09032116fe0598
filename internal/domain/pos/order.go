package pos

import (
	"strings"
	"time"

	"github.com/bakery/backend/internal/domain/shared"
	"github.com/bakery/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxRate is the fixed counter-sale tax percentage
var TaxRate = decimal.NewFromInt(8)

// OrderStatus is the state of a counter sale
type OrderStatus string

const (
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusVoided    OrderStatus = "VOIDED"
)

// PaymentMethod is how a tender was paid
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "CASH"
	PaymentMethodCard   PaymentMethod = "CARD"
	PaymentMethodUPI    PaymentMethod = "UPI"
	PaymentMethodOnline PaymentMethod = "ONLINE"
)

// IsValid checks if the payment method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodUPI, PaymentMethodOnline:
		return true
	}
	return false
}

// OrderItem is one line of a counter sale.
// Discount is recorded as entered and does not reduce TotalPrice.
type OrderItem struct {
	ID          uuid.UUID
	POSOrderID  uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal
	TotalPrice  decimal.Decimal
}

// LineTotal is quantity times unit price
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// NewOrderItem creates a sale line
func NewOrderItem(productID uuid.UUID, name string, quantity, unitPrice, discount decimal.Decimal) (OrderItem, error) {
	if productID == uuid.Nil {
		return OrderItem{}, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if err := shared.ValidateQuantity("Quantity", quantity); err != nil {
		return OrderItem{}, err
	}
	if err := shared.ValidatePrice("Unit price", unitPrice); err != nil {
		return OrderItem{}, err
	}
	if err := shared.ValidatePrice("Discount", discount); err != nil {
		return OrderItem{}, err
	}
	item := OrderItem{
		ID:          uuid.New(),
		ProductID:   productID,
		ProductName: name,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Discount:    discount,
	}
	item.TotalPrice = item.LineTotal().Round(2)
	return item, nil
}

// Payment is one tender against a sale
type Payment struct {
	ID         uuid.UUID
	POSOrderID uuid.UUID
	Method     PaymentMethod
	Amount     decimal.Decimal
	Reference  string
}

// NewPayment creates a tender
func NewPayment(method PaymentMethod, amount decimal.Decimal, reference string) (Payment, error) {
	if !method.IsValid() {
		return Payment{}, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method must be one of CASH, CARD, UPI, ONLINE")
	}
	if !amount.IsPositive() {
		return Payment{}, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	return Payment{
		ID:        uuid.New(),
		Method:    method,
		Amount:    amount.Round(2),
		Reference: strings.TrimSpace(reference),
	}, nil
}

// Order is a completed counter sale
type Order struct {
	shared.TenantAggregateRoot
	OrderNumber  string
	SessionID    uuid.UUID
	CashierID    uuid.UUID
	CustomerID   *uuid.UUID
	Status       OrderStatus
	Subtotal     decimal.Decimal
	TaxAmount    decimal.Decimal
	TotalAmount  decimal.Decimal
	PaidAmount   decimal.Decimal
	ChangeAmount decimal.Decimal
	VoidReason   string
	VoidedAt     *time.Time
	Items        []OrderItem
	Payments     []Payment
}

// Checkout rings up a sale on an open session. The sale is rejected with
// INSUFFICIENT_PAYMENT when the tenders do not cover the total.
func Checkout(session *Session, customerID *uuid.UUID, items []OrderItem, payments []Payment) (*Order, error) {
	if session == nil || !session.IsOpen() {
		return nil, shared.ErrSessionNotOpen
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Sale must have at least one item")
	}
	if len(payments) == 0 {
		return nil, shared.NewDomainError("NO_PAYMENT", "At least one payment is required")
	}

	o := &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(session.TenantID),
		SessionID:           session.ID,
		CashierID:           session.CashierID,
		CustomerID:          customerID,
		Status:              OrderStatusCompleted,
	}
	o.OrderNumber = shared.NewDocumentNumber("POS", o.CreatedAt)

	totals := trade.ComputeTotals(items, TaxRate)
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}
	if paid.LessThan(totals.TotalAmount) {
		return nil, shared.ErrInsufficientPayment
	}

	for i := range items {
		items[i].POSOrderID = o.ID
	}
	for i := range payments {
		payments[i].POSOrderID = o.ID
	}
	o.Items = items
	o.Payments = payments
	o.Subtotal = totals.Subtotal
	o.TaxAmount = totals.TaxAmount
	o.TotalAmount = totals.TotalAmount
	o.PaidAmount = paid
	o.ChangeAmount = paid.Sub(totals.TotalAmount)

	o.AddDomainEvent(NewOrderCompletedEvent(o))
	return o, nil
}

// CashTaken is the sum of the cash tenders
func (o *Order) CashTaken() decimal.Decimal {
	total := decimal.Zero
	for _, p := range o.Payments {
		if p.Method == PaymentMethodCash {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// Void cancels a completed sale. The sale's session must still be open:
// once a session is closed its expected cash is final.
func (o *Order) Void(session *Session, reason string) error {
	if session == nil || session.ID != o.SessionID {
		return shared.NewDomainError("SESSION_MISMATCH", "Sale does not belong to this session")
	}
	if !session.IsOpen() {
		return shared.ErrSessionNotOpen
	}
	if o.Status == OrderStatusVoided {
		return shared.NewDomainError("ALREADY_VOIDED", "Sale is already voided")
	}
	if strings.TrimSpace(reason) == "" {
		return shared.NewDomainError("INVALID_REASON", "Void reason is required")
	}
	now := time.Now().UTC()
	o.Status = OrderStatusVoided
	o.VoidReason = reason
	o.VoidedAt = &now
	o.Touch()
	o.IncrementVersion()
	return nil
}
