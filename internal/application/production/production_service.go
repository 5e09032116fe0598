package production

import (
	"context"

	"github.com/bakery/backend/internal/domain/catalog"
	"github.com/bakery/backend/internal/domain/production"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/bakery/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductionService handles production batch operations
type ProductionService struct {
	productionRepo  production.ProductionRepository
	recipeRepo      production.RecipeRepository
	productRepo     catalog.ProductRepository
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
}

// NewProductionService creates a new ProductionService
func NewProductionService(
	productionRepo production.ProductionRepository,
	recipeRepo production.RecipeRepository,
	productRepo catalog.ProductRepository,
) *ProductionService {
	return &ProductionService{
		productionRepo: productionRepo,
		recipeRepo:     recipeRepo,
		productRepo:    productRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ProductionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics recorder
func (s *ProductionService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

func (s *ProductionService) publishDomainEvents(ctx context.Context, p *production.Production) {
	if s.eventPublisher == nil {
		return
	}
	events := p.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	p.ClearDomainEvents()
}

func explicitItems(inputs []ProductionItemInput) ([]production.ProductionItem, error) {
	items := make([]production.ProductionItem, 0, len(inputs))
	for _, in := range inputs {
		if !in.PlannedQuantity.IsPositive() {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Planned ingredient quantity must be positive")
		}
		items = append(items, production.ProductionItem{
			ID:              uuid.New(),
			IngredientID:    in.IngredientID,
			PlannedQuantity: in.PlannedQuantity,
			Unit:            in.Unit,
		})
	}
	return items, nil
}

// Create schedules a PLANNED batch. With a recipe and no explicit items the
// ingredient lines are the recipe scaled to the planned quantity.
func (s *ProductionService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProductionRequest) (*ProductionResponse, error) {
	productID := req.ProductID
	var recipe *production.Recipe
	if req.RecipeID != nil {
		var err error
		recipe, err = s.recipeRepo.FindByIDForTenant(ctx, tenantID, *req.RecipeID)
		if err != nil {
			return nil, err
		}
		if productID == uuid.Nil {
			productID = recipe.ProductID
		}
		if productID != recipe.ProductID {
			return nil, shared.NewDomainError("RECIPE_PRODUCT_MISMATCH", "Recipe does not produce the requested product")
		}
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Either product_id or recipe_id is required")
	}
	if _, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID); err != nil {
		return nil, err
	}

	var items []production.ProductionItem
	switch {
	case len(req.Items) > 0:
		var err error
		if items, err = explicitItems(req.Items); err != nil {
			return nil, err
		}
	case recipe != nil && req.PlannedQuantity.IsPositive():
		items = recipe.ScaleTo(req.PlannedQuantity)
	}

	batch, err := production.NewProduction(tenantID, productID, req.RecipeID, req.PlannedQuantity, req.ScheduledDate, items)
	if err != nil {
		return nil, err
	}
	batch.Notes = req.Notes

	if err := s.productionRepo.Create(ctx, batch); err != nil {
		return nil, err
	}
	response := ToProductionResponse(batch)
	return &response, nil
}

// GetByID retrieves a batch
func (s *ProductionService) GetByID(ctx context.Context, tenantID, productionID uuid.UUID) (*ProductionResponse, error) {
	batch, err := s.productionRepo.FindByIDForTenant(ctx, tenantID, productionID)
	if err != nil {
		return nil, err
	}
	response := ToProductionResponse(batch)
	return &response, nil
}

// List retrieves batches with filtering and pagination
func (s *ProductionService) List(ctx context.Context, tenantID uuid.UUID, filter ProductionListFilter) ([]ProductionResponse, int64, error) {
	batches, total, err := s.productionRepo.FindAllForTenant(ctx, tenantID, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	responses := make([]ProductionResponse, len(batches))
	for i := range batches {
		responses[i] = ToProductionResponse(&batches[i])
	}
	return responses, total, nil
}

// Update changes planned figures while the batch is PLANNED or ON_HOLD
func (s *ProductionService) Update(ctx context.Context, tenantID, productionID uuid.UUID, req UpdateProductionRequest) (*ProductionResponse, error) {
	batch, err := s.productionRepo.FindByIDForTenant(ctx, tenantID, productionID)
	if err != nil {
		return nil, err
	}
	var items []production.ProductionItem
	if req.Items != nil {
		if items, err = explicitItems(req.Items); err != nil {
			return nil, err
		}
	}
	if err := batch.Reschedule(req.PlannedQuantity, req.ScheduledDate, req.Notes, items); err != nil {
		return nil, err
	}
	return s.save(ctx, batch)
}

// Start moves the batch to IN_PROGRESS
func (s *ProductionService) Start(ctx context.Context, tenantID, productionID uuid.UUID) (*ProductionResponse, error) {
	return s.mutate(ctx, tenantID, productionID, func(p *production.Production) error {
		return p.Start()
	})
}

// Hold pauses the batch
func (s *ProductionService) Hold(ctx context.Context, tenantID, productionID uuid.UUID, req ProductionNoteRequest) (*ProductionResponse, error) {
	return s.mutate(ctx, tenantID, productionID, func(p *production.Production) error {
		return p.Hold(req.Notes)
	})
}

// Cancel abandons the batch
func (s *ProductionService) Cancel(ctx context.Context, tenantID, productionID uuid.UUID, req ProductionNoteRequest) (*ProductionResponse, error) {
	return s.mutate(ctx, tenantID, productionID, func(p *production.Production) error {
		return p.Cancel(req.Notes)
	})
}

// Complete finishes the batch with the produced quantity and ingredient usage
func (s *ProductionService) Complete(ctx context.Context, tenantID, productionID uuid.UUID, req CompleteProductionRequest) (*ProductionResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "production", "complete",
		telemetry.SpanAttrTenantID, tenantID,
	)
	defer span.End()

	if req.ActualQuantity == nil {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Actual quantity is required to complete a batch")
	}
	usage := make(map[uuid.UUID]decimal.Decimal, len(req.Usage))
	for _, u := range req.Usage {
		if u.ActualQuantity.IsNegative() {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Actual ingredient usage cannot be negative")
		}
		usage[u.IngredientID] = u.ActualQuantity
	}

	resp, err := s.mutate(ctx, tenantID, productionID, func(p *production.Production) error {
		return p.Complete(*req.ActualQuantity, usage)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if s.businessMetrics != nil {
		s.businessMetrics.RecordProductionCompleted(ctx, tenantID)
	}
	return resp, nil
}

// Delete removes a PLANNED or CANCELLED batch
func (s *ProductionService) Delete(ctx context.Context, tenantID, productionID uuid.UUID) error {
	batch, err := s.productionRepo.FindByIDForTenant(ctx, tenantID, productionID)
	if err != nil {
		return err
	}
	if !batch.CanDelete() {
		return shared.NewDomainError("INVALID_STATE", "Only PLANNED or CANCELLED batches can be deleted")
	}
	return s.productionRepo.DeleteForTenant(ctx, tenantID, productionID)
}

func (s *ProductionService) mutate(ctx context.Context, tenantID, productionID uuid.UUID, apply func(*production.Production) error) (*ProductionResponse, error) {
	batch, err := s.productionRepo.FindByIDForTenant(ctx, tenantID, productionID)
	if err != nil {
		return nil, err
	}
	if err := apply(batch); err != nil {
		return nil, err
	}
	return s.save(ctx, batch)
}

func (s *ProductionService) save(ctx context.Context, batch *production.Production) (*ProductionResponse, error) {
	if err := s.productionRepo.Save(ctx, batch); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, batch)
	response := ToProductionResponse(batch)
	return &response, nil
}
