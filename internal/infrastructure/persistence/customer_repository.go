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

var customerFilterColumns = map[string]bool{
	"type":      true,
	"is_active": true,
	"city":      true,
}

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByIDForTenant finds a customer by ID within a tenant
func (r *GormCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID)).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, mapNotFound(err, "customer")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists customers matching the filter and returns the total match count
func (r *GormCustomerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Customer, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CustomerModel{}).Scopes(
		tenantScope(tenantID),
		searchScope(filter.Search, "name", "code", "email", "phone"),
		equalityScope(filter.Filters, customerFilterColumns),
	)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	var rows []models.CustomerModel
	if err := query.Scopes(orderScope(filter, CustomerSortFields, "created_at"), paginateScope(filter)).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}

	customers := make([]partner.Customer, len(rows))
	for i := range rows {
		customers[i] = *rows[i].ToDomain()
	}
	return customers, total, nil
}

// ExistsByCode checks if a customer code is taken within a tenant
func (r *GormCustomerRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CustomerModel{}).
		Scopes(tenantScope(tenantID)).
		Where("code = ?", code).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check customer code: %w", err)
	}
	return count > 0, nil
}

// Save inserts a new customer or updates an existing one with a version check
func (r *GormCustomerRepository) Save(ctx context.Context, c *partner.Customer) error {
	model := models.CustomerModelFromDomain(c)
	db := r.db.WithContext(ctx)
	if c.IsNew() {
		if err := db.Create(model).Error; err != nil {
			return fmt.Errorf("failed to create customer: %w", err)
		}
	} else if err := updateWithVersion(db, model, c.ID, c.PersistedVersion()); err != nil {
		return err
	}
	c.MarkPersisted()
	return nil
}

// DeleteForTenant hard deletes a customer
func (r *GormCustomerRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Scopes(tenantScope(tenantID)).Where("id = ?", id).Delete(&models.CustomerModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete customer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// HasOrders reports whether any order or till sale references the customer
func (r *GormCustomerRepository) HasOrders(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	db := r.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.OrderModel{}).Scopes(tenantScope(tenantID)).Where("customer_id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count customer orders: %w", err)
	}
	if count > 0 {
		return true, nil
	}
	if err := db.Model(&models.POSOrderModel{}).Scopes(tenantScope(tenantID)).Where("customer_id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count customer sales: %w", err)
	}
	return count > 0, nil
}

// Ensure interface compliance
var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
