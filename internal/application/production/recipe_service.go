package production

import (
	"context"

	"github.com/bakery/backend/internal/domain/catalog"
	"github.com/bakery/backend/internal/domain/production"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RecipeService handles recipe operations
type RecipeService struct {
	recipeRepo  production.RecipeRepository
	productRepo catalog.ProductRepository
}

// NewRecipeService creates a new RecipeService
func NewRecipeService(recipeRepo production.RecipeRepository, productRepo catalog.ProductRepository) *RecipeService {
	return &RecipeService{recipeRepo: recipeRepo, productRepo: productRepo}
}

// resolve checks the output product and every ingredient exist, then builds the lines
func (s *RecipeService) resolve(ctx context.Context, tenantID uuid.UUID, req RecipeRequest) ([]production.RecipeItem, error) {
	ids := []uuid.UUID{req.ProductID}
	for _, in := range req.Items {
		ids = append(ids, in.IngredientID)
	}
	if err := ensureProducts(ctx, s.productRepo, tenantID, ids); err != nil {
		return nil, err
	}
	items := make([]production.RecipeItem, 0, len(req.Items))
	for _, in := range req.Items {
		item, err := production.NewRecipeItem(in.IngredientID, in.Quantity, in.Unit)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Create creates a recipe
func (s *RecipeService) Create(ctx context.Context, tenantID uuid.UUID, req RecipeRequest) (*RecipeResponse, error) {
	items, err := s.resolve(ctx, tenantID, req)
	if err != nil {
		return nil, err
	}
	recipe, err := production.NewRecipe(tenantID, req.ProductID, req.Name, req.YieldQuantity, req.Instructions, items)
	if err != nil {
		return nil, err
	}
	if err := s.recipeRepo.Create(ctx, recipe); err != nil {
		return nil, err
	}
	response := ToRecipeResponse(recipe)
	return &response, nil
}

// GetByID retrieves a recipe with its ingredients
func (s *RecipeService) GetByID(ctx context.Context, tenantID, recipeID uuid.UUID) (*RecipeResponse, error) {
	recipe, err := s.recipeRepo.FindByIDForTenant(ctx, tenantID, recipeID)
	if err != nil {
		return nil, err
	}
	response := ToRecipeResponse(recipe)
	return &response, nil
}

// List retrieves recipes with filtering and pagination
func (s *RecipeService) List(ctx context.Context, tenantID uuid.UUID, filter RecipeListFilter) ([]RecipeResponse, int64, error) {
	recipes, total, err := s.recipeRepo.FindAllForTenant(ctx, tenantID, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	responses := make([]RecipeResponse, len(recipes))
	for i := range recipes {
		responses[i] = ToRecipeResponse(&recipes[i])
	}
	return responses, total, nil
}

// Update replaces a recipe definition
func (s *RecipeService) Update(ctx context.Context, tenantID, recipeID uuid.UUID, req RecipeRequest) (*RecipeResponse, error) {
	recipe, err := s.recipeRepo.FindByIDForTenant(ctx, tenantID, recipeID)
	if err != nil {
		return nil, err
	}
	items, err := s.resolve(ctx, tenantID, req)
	if err != nil {
		return nil, err
	}
	if err := recipe.Update(req.ProductID, req.Name, req.YieldQuantity, req.Instructions, items); err != nil {
		return nil, err
	}
	if err := s.recipeRepo.Save(ctx, recipe); err != nil {
		return nil, err
	}
	response := ToRecipeResponse(recipe)
	return &response, nil
}

// Delete removes a recipe
func (s *RecipeService) Delete(ctx context.Context, tenantID, recipeID uuid.UUID) error {
	return s.recipeRepo.DeleteForTenant(ctx, tenantID, recipeID)
}

func ensureProducts(ctx context.Context, repo catalog.ProductRepository, tenantID uuid.UUID, ids []uuid.UUID) error {
	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	found, err := repo.FindByIDs(ctx, tenantID, unique)
	if err != nil {
		return err
	}
	if len(found) != len(unique) {
		return shared.NewDomainError("NOT_FOUND", "One or more referenced products do not exist")
	}
	return nil
}
