package inventory

import (
	"context"
	"time"

	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// WarehouseRepository persists warehouses
type WarehouseRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Warehouse, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Warehouse, int64, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	Save(ctx context.Context, w *Warehouse) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// ItemFilter narrows inventory listings. Zero values mean "any".
type ItemFilter struct {
	shared.Filter
	WarehouseID    *uuid.UUID
	ProductID      *uuid.UUID
	LowStock       bool
	ExpiringBefore *time.Time
}

// InventoryItemRepository persists stock records
type InventoryItemRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*InventoryItem, error)
	// FindByIDForUpdate loads the record holding a row lock for the current transaction
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*InventoryItem, error)
	// FindByWarehouseAndProductForUpdate returns shared.ErrNotFound when no record exists
	FindByWarehouseAndProductForUpdate(ctx context.Context, tenantID, warehouseID, productID uuid.UUID) (*InventoryItem, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ItemFilter) ([]InventoryItem, int64, error)
	Create(ctx context.Context, item *InventoryItem) error
	// SaveWithLock updates the record only if its stored version is item.Version-1
	SaveWithLock(ctx context.Context, item *InventoryItem) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// InventoryTransactionRepository appends and reads audit entries
type InventoryTransactionRepository interface {
	Create(ctx context.Context, tx *InventoryTransaction) error
	CreateBatch(ctx context.Context, txs []*InventoryTransaction) error
	FindByItem(ctx context.Context, tenantID, itemID uuid.UUID, filter shared.Filter) ([]InventoryTransaction, int64, error)
}
