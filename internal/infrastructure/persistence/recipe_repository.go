package persistence

import (
	"context"
	"fmt"

	"github.com/bakery/backend/internal/domain/production"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/bakery/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var recipeFilterColumns = map[string]bool{
	"product_id": true,
}

// GormRecipeRepository implements RecipeRepository using GORM
type GormRecipeRepository struct {
	db *gorm.DB
}

// NewGormRecipeRepository creates a new GormRecipeRepository
func NewGormRecipeRepository(db *gorm.DB) *GormRecipeRepository {
	return &GormRecipeRepository{db: db}
}

// FindByIDForTenant loads a recipe with its ingredient lines
func (r *GormRecipeRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*production.Recipe, error) {
	var model models.RecipeModel
	err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Preload("Items", byLineNo).
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		return nil, mapNotFound(err, "recipe")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists recipes with their ingredient lines
func (r *GormRecipeRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]production.Recipe, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.RecipeModel{}).Scopes(
		tenantScope(tenantID),
		searchScope(filter.Search, "name"),
		equalityScope(filter.Filters, recipeFilterColumns),
	)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	var rows []models.RecipeModel
	err := query.Preload("Items", byLineNo).
		Scopes(orderScope(filter, RecipeSortFields, "name"), paginateScope(filter)).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}

	recipes := make([]production.Recipe, len(rows))
	for i := range rows {
		recipes[i] = *rows[i].ToDomain()
	}
	return recipes, total, nil
}

// Create inserts a recipe and its lines in one transaction
func (r *GormRecipeRepository) Create(ctx context.Context, rc *production.Recipe) error {
	model := models.RecipeModelFromDomain(rc)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return err
		}
		if len(model.Items) > 0 {
			return tx.Create(&model.Items).Error
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}
	rc.MarkPersisted()
	return nil
}

// Save updates the header with a version check and rewrites the lines
func (r *GormRecipeRepository) Save(ctx context.Context, rc *production.Recipe) error {
	model := models.RecipeModelFromDomain(rc)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateWithVersion(tx, model, rc.ID, rc.PersistedVersion()); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", rc.ID).Delete(&models.RecipeItemModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete recipe items: %w", err)
		}
		if len(model.Items) > 0 {
			if err := tx.Create(&model.Items).Error; err != nil {
				return fmt.Errorf("failed to insert recipe items: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	rc.MarkPersisted()
	return nil
}

// DeleteForTenant removes a recipe and its lines
func (r *GormRecipeRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(tenantScope(tenantID)).Where("recipe_id = ?", id).Delete(&models.RecipeItemModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete recipe items: %w", err)
		}
		result := tx.Scopes(tenantScope(tenantID)).Where("id = ?", id).Delete(&models.RecipeModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete recipe: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure interface compliance
var _ production.RecipeRepository = (*GormRecipeRepository)(nil)
