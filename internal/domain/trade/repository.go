package trade

import (
	"context"
	"time"

	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderFilter narrows order listings
type OrderFilter struct {
	shared.Filter
	Status        OrderStatus
	PaymentStatus PaymentStatus
	Channel       Channel
	CustomerID    *uuid.UUID
	From          *time.Time
	To            *time.Time
}

// OrderRepository persists orders together with their items
type OrderRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter OrderFilter) ([]Order, int64, error)
	// Create inserts the order and its items
	Create(ctx context.Context, o *Order) error
	// Save updates the header with an optimistic version check
	Save(ctx context.Context, o *Order) error
	// ReplaceItems deletes existing lines and inserts o.Items
	ReplaceItems(ctx context.Context, o *Order) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// PurchaseOrderFilter narrows purchase order listings
type PurchaseOrderFilter struct {
	shared.Filter
	Status     PurchaseOrderStatus
	SupplierID *uuid.UUID
}

// PurchaseOrderRepository persists purchase orders together with their items
type PurchaseOrderRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrder, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter PurchaseOrderFilter) ([]PurchaseOrder, int64, error)
	Create(ctx context.Context, po *PurchaseOrder) error
	Save(ctx context.Context, po *PurchaseOrder) error
	ReplaceItems(ctx context.Context, po *PurchaseOrder) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
