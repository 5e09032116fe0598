package notification

import (
	"context"

	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Filter narrows notification listings
type Filter struct {
	shared.Filter
	Type       Type
	Status     Status
	CustomerID *uuid.UUID
}

// Repository persists notifications
type Repository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Notification, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter Filter) ([]Notification, int64, error)
	Save(ctx context.Context, n *Notification) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
