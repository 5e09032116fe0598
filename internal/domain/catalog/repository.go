package catalog

import (
	"context"

	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository persists products
type ProductRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Product, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Product, int64, error)
	ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error)
	Save(ctx context.Context, p *Product) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
	// HasStock reports whether inventory records reference the product
	HasStock(ctx context.Context, tenantID, id uuid.UUID) (bool, error)
}
