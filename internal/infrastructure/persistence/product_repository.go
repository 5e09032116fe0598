package persistence

import (
	"context"
	"fmt"

	"github.com/bakery/backend/internal/domain/catalog"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/bakery/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var productFilterColumns = map[string]bool{
	"category":  true,
	"is_active": true,
	"unit":      true,
}

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByIDForTenant finds a product by ID within a tenant
func (r *GormProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID)).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, mapNotFound(err, "product")
	}
	return model.ToDomain(), nil
}

// FindByIDs loads the products with the given IDs. Missing IDs are skipped.
func (r *GormProductRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID)).Where("id IN ?", ids).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products, nil
}

// FindAllForTenant lists products matching the filter
func (r *GormProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ProductModel{}).Scopes(
		tenantScope(tenantID),
		searchScope(filter.Search, "name", "sku", "description"),
		equalityScope(filter.Filters, productFilterColumns),
	)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var rows []models.ProductModel
	if err := query.Scopes(orderScope(filter, ProductSortFields, "name"), paginateScope(filter)).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products, total, nil
}

// ExistsBySKU checks if a SKU is taken within a tenant
func (r *GormProductRepository) ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Scopes(tenantScope(tenantID)).
		Where("sku = ?", sku).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check product sku: %w", err)
	}
	return count > 0, nil
}

// Save inserts a new product or updates an existing one with a version check
func (r *GormProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	model := models.ProductModelFromDomain(p)
	db := r.db.WithContext(ctx)
	if p.IsNew() {
		if err := db.Create(model).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
	} else if err := updateWithVersion(db, model, p.ID, p.PersistedVersion()); err != nil {
		return err
	}
	p.MarkPersisted()
	return nil
}

// DeleteForTenant hard deletes a product
func (r *GormProductRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Scopes(tenantScope(tenantID)).Where("id = ?", id).Delete(&models.ProductModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// HasStock reports whether any inventory record references the product
func (r *GormProductRepository) HasStock(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.InventoryItemModel{}).
		Scopes(tenantScope(tenantID)).
		Where("product_id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to count product stock records: %w", err)
	}
	return count > 0, nil
}

// Ensure interface compliance
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
