package trade

import (
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeOrder names the aggregate in published events
const AggregateTypeOrder = "Order"

const (
	EventTypeOrderCreated       = "OrderCreated"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
)

// OrderCreatedEvent is raised when an order is placed
type OrderCreatedEvent struct {
	shared.EventHeader
	OrderNumber string          `json:"order_number"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	Channel     Channel         `json:"channel"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemCount   int             `json:"item_count"`
}

// NewOrderCreatedEvent creates an OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		EventHeader: shared.NewEventHeader(EventTypeOrderCreated, AggregateTypeOrder, o.ID, o.TenantID),
		OrderNumber: o.OrderNumber,
		CustomerID:  o.CustomerID,
		Channel:     o.Channel,
		TotalAmount: o.TotalAmount,
		ItemCount:   len(o.Items),
	}
}

// OrderStatusChangedEvent is raised on every status transition
type OrderStatusChangedEvent struct {
	shared.EventHeader
	OrderNumber string      `json:"order_number"`
	From        OrderStatus `json:"from"`
	To          OrderStatus `json:"to"`
}

// NewOrderStatusChangedEvent creates an OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, from OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		EventHeader: shared.NewEventHeader(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID, o.TenantID),
		OrderNumber: o.OrderNumber,
		From:        from,
		To:          o.Status,
	}
}
