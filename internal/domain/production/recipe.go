package production

import (
	"strings"

	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecipeItem is one ingredient of a recipe, sized for one batch of YieldQuantity
type RecipeItem struct {
	ID           uuid.UUID
	RecipeID     uuid.UUID
	IngredientID uuid.UUID
	Quantity     decimal.Decimal
	Unit         string
}

// Recipe describes how to make a product
type Recipe struct {
	shared.TenantAggregateRoot
	Name          string
	ProductID     uuid.UUID
	YieldQuantity decimal.Decimal
	Instructions  string
	Items         []RecipeItem
}

// NewRecipeItem creates an ingredient line
func NewRecipeItem(ingredientID uuid.UUID, quantity decimal.Decimal, unit string) (RecipeItem, error) {
	if ingredientID == uuid.Nil {
		return RecipeItem{}, shared.NewDomainError("INVALID_INGREDIENT", "Ingredient ID cannot be empty")
	}
	if !quantity.IsPositive() {
		return RecipeItem{}, shared.NewDomainError("INVALID_QUANTITY", "Ingredient quantity must be positive")
	}
	return RecipeItem{ID: uuid.New(), IngredientID: ingredientID, Quantity: quantity, Unit: unit}, nil
}

// NewRecipe creates a recipe for productID
func NewRecipe(tenantID, productID uuid.UUID, name string, yield decimal.Decimal, instructions string, items []RecipeItem) (*Recipe, error) {
	r := &Recipe{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID)}
	if err := r.apply(productID, name, yield, instructions, items); err != nil {
		return nil, err
	}
	return r, nil
}

// Update replaces the recipe definition
func (r *Recipe) Update(productID uuid.UUID, name string, yield decimal.Decimal, instructions string, items []RecipeItem) error {
	if err := r.apply(productID, name, yield, instructions, items); err != nil {
		return err
	}
	r.Touch()
	r.IncrementVersion()
	return nil
}

func (r *Recipe) apply(productID uuid.UUID, name string, yield decimal.Decimal, instructions string, items []RecipeItem) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Recipe name cannot be empty")
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Recipe must produce a product")
	}
	if !yield.IsPositive() {
		return shared.NewDomainError("INVALID_YIELD", "Recipe yield must be positive")
	}
	for i := range items {
		items[i].RecipeID = r.ID
	}
	r.Name = name
	r.ProductID = productID
	r.YieldQuantity = yield
	r.Instructions = instructions
	r.Items = items
	return nil
}

// ScaleTo returns the ingredient quantities for producing qty units
func (r *Recipe) ScaleTo(qty decimal.Decimal) []ProductionItem {
	factor := qty.Div(r.YieldQuantity)
	out := make([]ProductionItem, 0, len(r.Items))
	for _, it := range r.Items {
		out = append(out, ProductionItem{
			ID:              uuid.New(),
			IngredientID:    it.IngredientID,
			PlannedQuantity: it.Quantity.Mul(factor).Round(4),
			Unit:            it.Unit,
		})
	}
	return out
}
