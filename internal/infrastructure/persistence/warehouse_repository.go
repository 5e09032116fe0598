package persistence

import (
	"context"
	"fmt"

	"github.com/bakery/backend/internal/domain/inventory"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/bakery/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var warehouseFilterColumns = map[string]bool{
	"is_active": true,
}

// GormWarehouseRepository implements WarehouseRepository using GORM
type GormWarehouseRepository struct {
	db *gorm.DB
}

// NewGormWarehouseRepository creates a new GormWarehouseRepository
func NewGormWarehouseRepository(db *gorm.DB) *GormWarehouseRepository {
	return &GormWarehouseRepository{db: db}
}

// FindByIDForTenant finds a warehouse by ID within a tenant
func (r *GormWarehouseRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.Warehouse, error) {
	var model models.WarehouseModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID)).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, mapNotFound(err, "warehouse")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists warehouses matching the filter
func (r *GormWarehouseRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.Warehouse, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.WarehouseModel{}).Scopes(
		tenantScope(tenantID),
		searchScope(filter.Search, "name", "code", "address"),
		equalityScope(filter.Filters, warehouseFilterColumns),
	)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count warehouses: %w", err)
	}

	var rows []models.WarehouseModel
	if err := query.Scopes(orderScope(filter, WarehouseSortFields, "code"), paginateScope(filter)).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list warehouses: %w", err)
	}

	warehouses := make([]inventory.Warehouse, len(rows))
	for i := range rows {
		warehouses[i] = *rows[i].ToDomain()
	}
	return warehouses, total, nil
}

// ExistsByCode checks if a warehouse code is taken within a tenant
func (r *GormWarehouseRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.WarehouseModel{}).
		Scopes(tenantScope(tenantID)).
		Where("code = ?", code).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check warehouse code: %w", err)
	}
	return count > 0, nil
}

// Save inserts a new warehouse or updates an existing one with a version check
func (r *GormWarehouseRepository) Save(ctx context.Context, w *inventory.Warehouse) error {
	model := models.WarehouseModelFromDomain(w)
	db := r.db.WithContext(ctx)
	if w.IsNew() {
		if err := db.Create(model).Error; err != nil {
			return fmt.Errorf("failed to create warehouse: %w", err)
		}
	} else if err := updateWithVersion(db, model, w.ID, w.PersistedVersion()); err != nil {
		return err
	}
	w.MarkPersisted()
	return nil
}

// DeleteForTenant hard deletes a warehouse
func (r *GormWarehouseRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Scopes(tenantScope(tenantID)).Where("id = ?", id).Delete(&models.WarehouseModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete warehouse: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure interface compliance
var _ inventory.WarehouseRepository = (*GormWarehouseRepository)(nil)
