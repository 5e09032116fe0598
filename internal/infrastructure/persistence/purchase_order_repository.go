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

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByIDForTenant loads a purchase order with its items
func (r *GormPurchaseOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Preload("Items", byLineNo).
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		return nil, mapNotFound(err, "purchase order")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists purchase orders with their items
func (r *GormPurchaseOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter trade.PurchaseOrderFilter) ([]trade.PurchaseOrder, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}).
		Scopes(tenantScope(tenantID), searchScope(filter.Search, "po_number", "notes"))

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count purchase orders: %w", err)
	}

	var rows []models.PurchaseOrderModel
	err := query.Preload("Items", byLineNo).
		Scopes(orderScope(filter.Filter, PurchaseOrderSortFields, "created_at"), paginateScope(filter.Filter)).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list purchase orders: %w", err)
	}

	pos := make([]trade.PurchaseOrder, len(rows))
	for i := range rows {
		pos[i] = *rows[i].ToDomain()
	}
	return pos, total, nil
}

// Create inserts the purchase order and its items in one transaction
func (r *GormPurchaseOrderRepository) Create(ctx context.Context, po *trade.PurchaseOrder) error {
	model := models.PurchaseOrderModelFromDomain(po)
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
		return fmt.Errorf("failed to create purchase order: %w", err)
	}
	po.MarkPersisted()
	return nil
}

// Save updates the purchase order header with a version check
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, po *trade.PurchaseOrder) error {
	model := models.PurchaseOrderModelFromDomain(po)
	if err := updateWithVersion(r.db.WithContext(ctx), model, po.ID, po.PersistedVersion()); err != nil {
		return err
	}
	po.MarkPersisted()
	return nil
}

// ReplaceItems rewrites the item rows and header total in one transaction
func (r *GormPurchaseOrderRepository) ReplaceItems(ctx context.Context, po *trade.PurchaseOrder) error {
	model := models.PurchaseOrderModelFromDomain(po)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateWithVersion(tx, model, po.ID, po.PersistedVersion()); err != nil {
			return err
		}
		if err := tx.Where("purchase_order_id = ?", po.ID).Delete(&models.PurchaseOrderItemModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete purchase order items: %w", err)
		}
		if len(model.Items) > 0 {
			if err := tx.Create(&model.Items).Error; err != nil {
				return fmt.Errorf("failed to insert purchase order items: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	po.MarkPersisted()
	return nil
}

// DeleteForTenant removes a purchase order and its items
func (r *GormPurchaseOrderRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(tenantScope(tenantID)).Where("purchase_order_id = ?", id).Delete(&models.PurchaseOrderItemModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete purchase order items: %w", err)
		}
		result := tx.Scopes(tenantScope(tenantID)).Where("id = ?", id).Delete(&models.PurchaseOrderModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete purchase order: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure interface compliance
var _ trade.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
