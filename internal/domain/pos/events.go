package pos

import (
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypePOSOrder names the aggregate in published events
const AggregateTypePOSOrder = "POSOrder"

// EventTypePOSOrderCompleted is raised when a counter sale completes
const EventTypePOSOrderCompleted = "POSOrderCompleted"

// OrderCompletedEvent carries the settled figures of a sale
type OrderCompletedEvent struct {
	shared.EventHeader
	OrderNumber  string          `json:"order_number"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
	ChangeAmount decimal.Decimal `json:"change_amount"`
}

// NewOrderCompletedEvent creates an OrderCompletedEvent
func NewOrderCompletedEvent(o *Order) *OrderCompletedEvent {
	return &OrderCompletedEvent{
		EventHeader:  shared.NewEventHeader(EventTypePOSOrderCompleted, AggregateTypePOSOrder, o.ID, o.TenantID),
		OrderNumber:  o.OrderNumber,
		TotalAmount:  o.TotalAmount,
		PaidAmount:   o.PaidAmount,
		ChangeAmount: o.ChangeAmount,
	}
}
