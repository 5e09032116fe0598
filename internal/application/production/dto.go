package production

import (
	"time"

	"github.com/bakery/backend/internal/domain/production"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Recipe DTOs ====================

// RecipeItemInput is one ingredient line
type RecipeItemInput struct {
	IngredientID uuid.UUID       `json:"ingredient_id" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required"`
	Unit         string          `json:"unit" binding:"max=20"`
}

// RecipeRequest creates or replaces a recipe
type RecipeRequest struct {
	Name          string            `json:"name" binding:"required,min=1,max=200"`
	ProductID     uuid.UUID         `json:"product_id" binding:"required"`
	YieldQuantity decimal.Decimal   `json:"yield_quantity" binding:"required"`
	Instructions  string            `json:"instructions" binding:"max=10000"`
	Items         []RecipeItemInput `json:"items" binding:"dive"`
}

// RecipeItemResponse represents an ingredient line
type RecipeItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	IngredientID uuid.UUID       `json:"ingredient_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
}

// RecipeResponse represents a recipe
type RecipeResponse struct {
	ID            uuid.UUID            `json:"id"`
	TenantID      uuid.UUID            `json:"tenant_id"`
	Name          string               `json:"name"`
	ProductID     uuid.UUID            `json:"product_id"`
	YieldQuantity decimal.Decimal      `json:"yield_quantity"`
	Instructions  string               `json:"instructions"`
	Items         []RecipeItemResponse `json:"items"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	Version       int                  `json:"version"`
}

// RecipeListFilter represents filter options for recipe list
type RecipeListFilter struct {
	Search    string     `form:"search"`
	ProductID *uuid.UUID `form:"-"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f RecipeListFilter) toDomain() shared.Filter {
	df := shared.NewFilter(f.Page, f.PageSize, f.OrderBy, f.OrderDir)
	df.Search = f.Search
	if f.ProductID != nil {
		df.Filters["product_id"] = *f.ProductID
	}
	return df
}

// ToRecipeResponse converts a domain Recipe to RecipeResponse
func ToRecipeResponse(r *production.Recipe) RecipeResponse {
	items := make([]RecipeItemResponse, len(r.Items))
	for i, it := range r.Items {
		items[i] = RecipeItemResponse{ID: it.ID, IngredientID: it.IngredientID, Quantity: it.Quantity, Unit: it.Unit}
	}
	return RecipeResponse{
		ID:            r.ID,
		TenantID:      r.TenantID,
		Name:          r.Name,
		ProductID:     r.ProductID,
		YieldQuantity: r.YieldQuantity,
		Instructions:  r.Instructions,
		Items:         items,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		Version:       r.Version,
	}
}

// ==================== Production DTOs ====================

// ProductionItemInput is a planned ingredient line given explicitly
type ProductionItemInput struct {
	IngredientID    uuid.UUID       `json:"ingredient_id" binding:"required"`
	PlannedQuantity decimal.Decimal `json:"planned_quantity" binding:"required"`
	Unit            string          `json:"unit" binding:"max=20"`
}

// CreateProductionRequest schedules a batch. When RecipeID is set and Items
// is empty, ingredient lines are scaled from the recipe.
type CreateProductionRequest struct {
	RecipeID        *uuid.UUID            `json:"recipe_id"`
	ProductID       uuid.UUID             `json:"product_id"`
	PlannedQuantity decimal.Decimal       `json:"planned_quantity" binding:"required"`
	ScheduledDate   time.Time             `json:"scheduled_date"`
	Notes           string                `json:"notes" binding:"max=1000"`
	Items           []ProductionItemInput `json:"items" binding:"dive"`
}

// UpdateProductionRequest changes planned figures while the batch has not started
type UpdateProductionRequest struct {
	PlannedQuantity decimal.Decimal       `json:"planned_quantity" binding:"required"`
	ScheduledDate   time.Time             `json:"scheduled_date"`
	Notes           string                `json:"notes" binding:"max=1000"`
	Items           []ProductionItemInput `json:"items" binding:"omitempty,dive"`
}

// ItemUsageInput is the actual consumption of one ingredient
type ItemUsageInput struct {
	IngredientID   uuid.UUID       `json:"ingredient_id" binding:"required"`
	ActualQuantity decimal.Decimal `json:"actual_quantity" binding:"required"`
}

// CompleteProductionRequest finishes a batch
type CompleteProductionRequest struct {
	ActualQuantity *decimal.Decimal `json:"actual_quantity" binding:"required"`
	Usage          []ItemUsageInput `json:"usage" binding:"dive"`
}

// ProductionNoteRequest carries an optional note for hold and cancel
type ProductionNoteRequest struct {
	Notes string `json:"notes" binding:"max=1000"`
}

// ProductionItemResponse represents an ingredient line of a batch
type ProductionItemResponse struct {
	ID              uuid.UUID        `json:"id"`
	IngredientID    uuid.UUID        `json:"ingredient_id"`
	PlannedQuantity decimal.Decimal  `json:"planned_quantity"`
	ActualQuantity  *decimal.Decimal `json:"actual_quantity"`
	Unit            string           `json:"unit"`
}

// ProductionResponse represents a batch. Efficiency is derived on every read.
type ProductionResponse struct {
	ID              uuid.UUID                `json:"id"`
	TenantID        uuid.UUID                `json:"tenant_id"`
	BatchNumber     string                   `json:"batch_number"`
	RecipeID        *uuid.UUID               `json:"recipe_id"`
	ProductID       uuid.UUID                `json:"product_id"`
	PlannedQuantity decimal.Decimal          `json:"planned_quantity"`
	ActualQuantity  *decimal.Decimal         `json:"actual_quantity"`
	Efficiency      int64                    `json:"efficiency"`
	Status          string                   `json:"status"`
	ScheduledDate   time.Time                `json:"scheduled_date"`
	StartedAt       *time.Time               `json:"started_at"`
	CompletedAt     *time.Time               `json:"completed_at"`
	Notes           string                   `json:"notes"`
	Items           []ProductionItemResponse `json:"items"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
	Version         int                      `json:"version"`
}

// ProductionListFilter represents filter options for production list
type ProductionListFilter struct {
	Search    string     `form:"search"`
	Status    string     `form:"status" binding:"omitempty,oneof=PLANNED IN_PROGRESS COMPLETED CANCELLED ON_HOLD"`
	ProductID *uuid.UUID `form:"-"`
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f ProductionListFilter) toDomain() production.Filter {
	df := shared.NewFilter(f.Page, f.PageSize, f.OrderBy, f.OrderDir)
	df.Search = f.Search
	return production.Filter{
		Filter:    df,
		Status:    production.Status(f.Status),
		ProductID: f.ProductID,
		From:      f.From,
		To:        f.To,
	}
}

// ToProductionResponse converts a domain Production to ProductionResponse
func ToProductionResponse(p *production.Production) ProductionResponse {
	items := make([]ProductionItemResponse, len(p.Items))
	for i, it := range p.Items {
		items[i] = ProductionItemResponse{
			ID:              it.ID,
			IngredientID:    it.IngredientID,
			PlannedQuantity: it.PlannedQuantity,
			ActualQuantity:  it.ActualQuantity,
			Unit:            it.Unit,
		}
	}
	return ProductionResponse{
		ID:              p.ID,
		TenantID:        p.TenantID,
		BatchNumber:     p.BatchNumber,
		RecipeID:        p.RecipeID,
		ProductID:       p.ProductID,
		PlannedQuantity: p.PlannedQuantity,
		ActualQuantity:  p.ActualQuantity,
		Efficiency:      p.Efficiency(),
		Status:          string(p.Status),
		ScheduledDate:   p.ScheduledDate,
		StartedAt:       p.StartedAt,
		CompletedAt:     p.CompletedAt,
		Notes:           p.Notes,
		Items:           items,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
		Version:         p.Version,
	}
}

