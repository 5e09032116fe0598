package persistence

import (
	"context"
	"testing"

	"github.com/bakery/backend/internal/domain/catalog"
	"github.com/bakery/backend/internal/domain/inventory"
	"github.com/bakery/backend/internal/domain/partner"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB opens a private in-memory SQLite database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := OpenSQLite("file:"+uuid.NewString()+"?mode=memory&cache=shared", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database.DB
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func seedProduct(t *testing.T, db *gorm.DB, tenantID uuid.UUID, sku string, cost, reorder int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(tenantID, sku, "Product "+sku, "pcs",
		catalog.Prices{Base: dec(cost), Selling: dec(cost * 2), Cost: dec(cost)}, dec(5))
	require.NoError(t, err)
	p.ReorderLevel = dec(reorder)
	require.NoError(t, NewGormProductRepository(db).Save(context.Background(), p))
	return p
}

func seedWarehouse(t *testing.T, db *gorm.DB, tenantID uuid.UUID, code string) *inventory.Warehouse {
	t.Helper()
	w, err := inventory.NewWarehouse(tenantID, code, "Warehouse "+code, "")
	require.NoError(t, err)
	require.NoError(t, NewGormWarehouseRepository(db).Save(context.Background(), w))
	return w
}

func seedItem(t *testing.T, db *gorm.DB, tenantID, warehouseID, productID uuid.UUID, qty, reserved int64) *inventory.InventoryItem {
	t.Helper()
	item, err := inventory.NewInventoryItem(tenantID, warehouseID, productID, dec(qty), dec(reserved))
	require.NoError(t, err)
	require.NoError(t, NewGormInventoryItemRepository(db).Create(context.Background(), item))
	return item
}

func seedCustomer(t *testing.T, db *gorm.DB, tenantID uuid.UUID, code string) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(tenantID, code, "Customer "+code, partner.CustomerTypeIndividual)
	require.NoError(t, err)
	require.NoError(t, NewGormCustomerRepository(db).Save(context.Background(), c))
	return c
}
