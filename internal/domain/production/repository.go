package production

import (
	"context"
	"time"

	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RecipeRepository persists recipes with their ingredient lines
type RecipeRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Recipe, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Recipe, int64, error)
	Create(ctx context.Context, r *Recipe) error
	Save(ctx context.Context, r *Recipe) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// Filter narrows production listings
type Filter struct {
	shared.Filter
	Status    Status
	ProductID *uuid.UUID
	From      *time.Time
	To        *time.Time
}

// ProductionRepository persists batches with their ingredient lines
type ProductionRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Production, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter Filter) ([]Production, int64, error)
	Create(ctx context.Context, p *Production) error
	// Save updates the header and items with an optimistic version check
	Save(ctx context.Context, p *Production) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
