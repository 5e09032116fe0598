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

// GormInventoryItemRepository implements InventoryItemRepository using GORM
type GormInventoryItemRepository struct {
	db *gorm.DB
}

// NewGormInventoryItemRepository creates a new GormInventoryItemRepository
func NewGormInventoryItemRepository(db *gorm.DB) *GormInventoryItemRepository {
	return &GormInventoryItemRepository{db: db}
}

// FindByIDForTenant finds a stock record by ID within a tenant
func (r *GormInventoryItemRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.InventoryItem, error) {
	var model models.InventoryItemModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID)).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, mapNotFound(err, "inventory item")
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate loads a stock record holding a row lock.
// It must run inside a transaction.
func (r *GormInventoryItemRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*inventory.InventoryItem, error) {
	var model models.InventoryItemModel
	err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID), forUpdate).Where("id = ?", id).First(&model).Error
	if err != nil {
		return nil, mapNotFound(err, "inventory item")
	}
	return model.ToDomain(), nil
}

// FindByWarehouseAndProductForUpdate loads the record of a product in a warehouse holding a row lock
func (r *GormInventoryItemRepository) FindByWarehouseAndProductForUpdate(ctx context.Context, tenantID, warehouseID, productID uuid.UUID) (*inventory.InventoryItem, error) {
	var model models.InventoryItemModel
	err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID), forUpdate).
		Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).
		First(&model).Error
	if err != nil {
		return nil, mapNotFound(err, "inventory item")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists stock records. The low-stock filter compares
// available quantity with the product reorder level in SQL.
func (r *GormInventoryItemRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter inventory.ItemFilter) ([]inventory.InventoryItem, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.InventoryItemModel{}).
		Scopes(tenantScope(tenantID), searchScope(filter.Search, "batch_number"))

	if filter.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *filter.WarehouseID)
	}
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.ExpiringBefore != nil {
		query = query.Where("expiry_date IS NOT NULL AND expiry_date <= ?", *filter.ExpiringBefore)
	}
	if filter.LowStock {
		query = query.Where(`EXISTS (SELECT 1 FROM products p WHERE p.id = inventory_items.product_id
			AND p.reorder_level > 0 AND inventory_items.quantity - inventory_items.reserved_qty <= p.reorder_level)`)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count inventory items: %w", err)
	}

	var rows []models.InventoryItemModel
	if err := query.Scopes(orderScope(filter.Filter, InventorySortFields, "updated_at"), paginateScope(filter.Filter)).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list inventory items: %w", err)
	}

	items := make([]inventory.InventoryItem, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items, total, nil
}

// Create inserts a new stock record
func (r *GormInventoryItemRepository) Create(ctx context.Context, item *inventory.InventoryItem) error {
	if err := r.db.WithContext(ctx).Create(models.InventoryItemModelFromDomain(item)).Error; err != nil {
		return fmt.Errorf("failed to create inventory item: %w", err)
	}
	item.MarkPersisted()
	return nil
}

// SaveWithLock updates the record only if nobody changed it since it was loaded
func (r *GormInventoryItemRepository) SaveWithLock(ctx context.Context, item *inventory.InventoryItem) error {
	model := models.InventoryItemModelFromDomain(item)
	if err := updateWithVersion(r.db.WithContext(ctx), model, item.ID, item.PersistedVersion()); err != nil {
		return err
	}
	item.MarkPersisted()
	return nil
}

// DeleteForTenant removes a stock record
func (r *GormInventoryItemRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Scopes(tenantScope(tenantID)).Where("id = ?", id).Delete(&models.InventoryItemModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete inventory item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure interface compliance
var _ inventory.InventoryItemRepository = (*GormInventoryItemRepository)(nil)

// GormInventoryTransactionRepository implements InventoryTransactionRepository using GORM
type GormInventoryTransactionRepository struct {
	db *gorm.DB
}

// NewGormInventoryTransactionRepository creates a new GormInventoryTransactionRepository
func NewGormInventoryTransactionRepository(db *gorm.DB) *GormInventoryTransactionRepository {
	return &GormInventoryTransactionRepository{db: db}
}

// Create appends one audit entry
func (r *GormInventoryTransactionRepository) Create(ctx context.Context, tx *inventory.InventoryTransaction) error {
	if err := inventory.ValidateTransaction(tx); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(models.InventoryTransactionModelFromDomain(tx)).Error; err != nil {
		return fmt.Errorf("failed to create inventory transaction: %w", err)
	}
	return nil
}

// CreateBatch appends several audit entries in one statement
func (r *GormInventoryTransactionRepository) CreateBatch(ctx context.Context, txs []*inventory.InventoryTransaction) error {
	if len(txs) == 0 {
		return nil
	}
	rows := make([]*models.InventoryTransactionModel, len(txs))
	for i, tx := range txs {
		if err := inventory.ValidateTransaction(tx); err != nil {
			return err
		}
		rows[i] = models.InventoryTransactionModelFromDomain(tx)
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to create inventory transactions: %w", err)
	}
	return nil
}

// FindByItem lists the audit trail of a stock record, newest first
func (r *GormInventoryTransactionRepository) FindByItem(ctx context.Context, tenantID, itemID uuid.UUID, filter shared.Filter) ([]inventory.InventoryTransaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.InventoryTransactionModel{}).
		Scopes(tenantScope(tenantID)).
		Where("inventory_item_id = ?", itemID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count inventory transactions: %w", err)
	}

	var rows []models.InventoryTransactionModel
	if err := query.Order("created_at DESC").Order("id ASC").Scopes(paginateScope(filter)).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list inventory transactions: %w", err)
	}

	txs := make([]inventory.InventoryTransaction, len(rows))
	for i := range rows {
		txs[i] = *rows[i].ToDomain()
	}
	return txs, total, nil
}

// Ensure interface compliance
var _ inventory.InventoryTransactionRepository = (*GormInventoryTransactionRepository)(nil)
