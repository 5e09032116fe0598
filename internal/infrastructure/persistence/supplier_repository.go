package persistence

import (
	"context"
	"fmt"

	"github.com/bakery/backend/internal/domain/partner"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/bakery/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var supplierFilterColumns = map[string]bool{
	"is_active": true,
}

// GormSupplierRepository implements SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindByIDForTenant finds a supplier by ID within a tenant
func (r *GormSupplierRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Supplier, error) {
	var model models.SupplierModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID)).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, mapNotFound(err, "supplier")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists suppliers matching the filter
func (r *GormSupplierRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Supplier, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SupplierModel{}).Scopes(
		tenantScope(tenantID),
		searchScope(filter.Search, "name", "code", "contact_person", "email"),
		equalityScope(filter.Filters, supplierFilterColumns),
	)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count suppliers: %w", err)
	}

	var rows []models.SupplierModel
	if err := query.Scopes(orderScope(filter, SupplierSortFields, "name"), paginateScope(filter)).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list suppliers: %w", err)
	}

	suppliers := make([]partner.Supplier, len(rows))
	for i := range rows {
		suppliers[i] = *rows[i].ToDomain()
	}
	return suppliers, total, nil
}

// ExistsByCode checks if a supplier code is taken within a tenant
func (r *GormSupplierRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SupplierModel{}).
		Scopes(tenantScope(tenantID)).
		Where("code = ?", code).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check supplier code: %w", err)
	}
	return count > 0, nil
}

// Save inserts a new supplier or updates an existing one with a version check
func (r *GormSupplierRepository) Save(ctx context.Context, s *partner.Supplier) error {
	model := models.SupplierModelFromDomain(s)
	db := r.db.WithContext(ctx)
	if s.IsNew() {
		if err := db.Create(model).Error; err != nil {
			return fmt.Errorf("failed to create supplier: %w", err)
		}
	} else if err := updateWithVersion(db, model, s.ID, s.PersistedVersion()); err != nil {
		return err
	}
	s.MarkPersisted()
	return nil
}

// Ensure interface compliance
var _ partner.SupplierRepository = (*GormSupplierRepository)(nil)
