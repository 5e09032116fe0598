package persistence

import (
	"context"
	"fmt"

	"github.com/bakery/backend/internal/domain/shared"
	"github.com/bakery/backend/internal/domain/trade"
	"github.com/bakery/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func byLineNo(db *gorm.DB) *gorm.DB {
	return db.Order("line_no ASC")
}

// FindByIDForTenant loads an order with its items
func (r *GormOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
	err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Preload("Items", byLineNo).
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		return nil, mapNotFound(err, "order")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists orders with their items
func (r *GormOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter trade.OrderFilter) ([]trade.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Scopes(tenantScope(tenantID), searchScope(filter.Search, "order_number", "shipping_address"))

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.Channel != "" {
		query = query.Where("channel = ?", filter.Channel)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var rows []models.OrderModel
	err := query.Preload("Items", byLineNo).
		Scopes(orderScope(filter.Filter, OrderSortFields, "created_at"), paginateScope(filter.Filter)).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := make([]trade.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, total, nil
}

// Create inserts the order header and its items in one transaction
func (r *GormOrderRepository) Create(ctx context.Context, o *trade.Order) error {
	model := models.OrderModelFromDomain(o)
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
		return fmt.Errorf("failed to create order: %w", err)
	}
	o.MarkPersisted()
	return nil
}

// Save updates the order header with a version check
func (r *GormOrderRepository) Save(ctx context.Context, o *trade.Order) error {
	model := models.OrderModelFromDomain(o)
	if err := updateWithVersion(r.db.WithContext(ctx), model, o.ID, o.PersistedVersion()); err != nil {
		return err
	}
	o.MarkPersisted()
	return nil
}

// ReplaceItems rewrites the item rows and the recomputed header totals in one transaction
func (r *GormOrderRepository) ReplaceItems(ctx context.Context, o *trade.Order) error {
	model := models.OrderModelFromDomain(o)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateWithVersion(tx, model, o.ID, o.PersistedVersion()); err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", o.ID).Delete(&models.OrderItemModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete order items: %w", err)
		}
		if len(model.Items) > 0 {
			if err := tx.Create(&model.Items).Error; err != nil {
				return fmt.Errorf("failed to insert order items: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	o.MarkPersisted()
	return nil
}

// DeleteForTenant removes an order and its items
func (r *GormOrderRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(tenantScope(tenantID)).Where("order_id = ?", id).Delete(&models.OrderItemModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete order items: %w", err)
		}
		result := tx.Scopes(tenantScope(tenantID)).Where("id = ?", id).Delete(&models.OrderModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete order: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure interface compliance
var _ trade.OrderRepository = (*GormOrderRepository)(nil)
