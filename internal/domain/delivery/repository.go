package delivery

import (
	"context"
	"time"

	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Filter narrows delivery listings
type Filter struct {
	shared.Filter
	Status  Status
	OrderID *uuid.UUID
	From    *time.Time
	To      *time.Time
}

// Repository persists deliveries
type Repository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Delivery, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter Filter) ([]Delivery, int64, error)
	Save(ctx context.Context, d *Delivery) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
