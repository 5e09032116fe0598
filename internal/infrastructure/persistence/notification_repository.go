package persistence

import (
	"context"
	"fmt"

	"github.com/bakery/backend/internal/domain/notification"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/bakery/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// FindByIDForTenant finds a notification by ID within a tenant
func (r *GormNotificationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*notification.Notification, error) {
	var model models.NotificationModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID)).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, mapNotFound(err, "notification")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists notifications, filtered by type, status and customer
func (r *GormNotificationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter notification.Filter) ([]notification.Notification, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.NotificationModel{}).
		Scopes(tenantScope(tenantID), searchScope(filter.Search, "recipient", "subject"))

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	var rows []models.NotificationModel
	if err := query.Scopes(orderScope(filter.Filter, NotificationSortFields, "created_at"), paginateScope(filter.Filter)).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}

	notifications := make([]notification.Notification, len(rows))
	for i := range rows {
		notifications[i] = *rows[i].ToDomain()
	}
	return notifications, total, nil
}

// Save inserts a new notification or updates an existing one with a version check
func (r *GormNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	model := models.NotificationModelFromDomain(n)
	db := r.db.WithContext(ctx)
	if n.IsNew() {
		if err := db.Create(model).Error; err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}
	} else if err := updateWithVersion(db, model, n.ID, n.PersistedVersion()); err != nil {
		return err
	}
	n.MarkPersisted()
	return nil
}

// DeleteForTenant hard deletes a notification
func (r *GormNotificationRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Scopes(tenantScope(tenantID)).Where("id = ?", id).Delete(&models.NotificationModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete notification: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure interface compliance
var _ notification.Repository = (*GormNotificationRepository)(nil)
