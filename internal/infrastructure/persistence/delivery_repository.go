package persistence

import (
	"context"
	"fmt"

	"github.com/bakery/backend/internal/domain/delivery"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/bakery/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDeliveryRepository implements delivery.Repository using GORM
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewGormDeliveryRepository creates a new GormDeliveryRepository
func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// FindByIDForTenant finds a delivery by ID within a tenant
func (r *GormDeliveryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*delivery.Delivery, error) {
	var model models.DeliveryModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID)).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, mapNotFound(err, "delivery")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists deliveries, filtered by status, order and scheduled date
func (r *GormDeliveryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter delivery.Filter) ([]delivery.Delivery, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.DeliveryModel{}).
		Scopes(tenantScope(tenantID), searchScope(filter.Search, "tracking_number", "address", "driver_name"))

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OrderID != nil {
		query = query.Where("order_id = ?", *filter.OrderID)
	}
	if filter.From != nil {
		query = query.Where("scheduled_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("scheduled_date < ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count deliveries: %w", err)
	}

	var rows []models.DeliveryModel
	if err := query.Scopes(orderScope(filter.Filter, DeliverySortFields, "scheduled_date"), paginateScope(filter.Filter)).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list deliveries: %w", err)
	}

	deliveries := make([]delivery.Delivery, len(rows))
	for i := range rows {
		deliveries[i] = *rows[i].ToDomain()
	}
	return deliveries, total, nil
}

// Save inserts a new delivery or updates an existing one with a version check
func (r *GormDeliveryRepository) Save(ctx context.Context, d *delivery.Delivery) error {
	model := models.DeliveryModelFromDomain(d)
	db := r.db.WithContext(ctx)
	if d.IsNew() {
		if err := db.Create(model).Error; err != nil {
			return fmt.Errorf("failed to create delivery: %w", err)
		}
	} else if err := updateWithVersion(db, model, d.ID, d.PersistedVersion()); err != nil {
		return err
	}
	d.MarkPersisted()
	return nil
}

// DeleteForTenant hard deletes a delivery
func (r *GormDeliveryRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Scopes(tenantScope(tenantID)).Where("id = ?", id).Delete(&models.DeliveryModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete delivery: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure interface compliance
var _ delivery.Repository = (*GormDeliveryRepository)(nil)
