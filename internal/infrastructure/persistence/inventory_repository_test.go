package persistence

import (
	"context"
	"errors"
	"testing"

	appinv "github.com/bakery/backend/internal/application/inventory"
	"github.com/bakery/backend/internal/domain/inventory"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testActor = inventory.Actor{UserID: uuid.New(), Email: "keeper@bakery.test"}

func TestInventory_AdjustAndTransferScenario(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	tenantID := uuid.New()

	product := seedProduct(t, db, tenantID, "FLOUR-1", 40, 0)
	bakehouse := seedWarehouse(t, db, tenantID, "MAIN")
	annex := seedWarehouse(t, db, tenantID, "ANNEX")
	item := seedItem(t, db, tenantID, bakehouse.ID, product.ID, 100, 20)
	require.NoError(t, NewGormInventoryTransactionRepository(db).Create(ctx, item.OpeningTransaction(testActor)))

	scope := NewStockScope(db)
	items := NewGormInventoryItemRepository(db)
	audit := NewGormInventoryTransactionRepository(db)

	adjust := func(qty int64) error {
		return scope.Execute(ctx, func(repos appinv.StockRepos) error {
			locked, err := repos.Items.FindByIDForUpdate(ctx, tenantID, item.ID)
			if err != nil {
				return err
			}
			entry, err := locked.Adjust(inventory.AdjustmentRemove, dec(qty), inventory.ReasonDamage, "", testActor)
			if err != nil {
				return err
			}
			if err := repos.Items.SaveWithLock(ctx, locked); err != nil {
				return err
			}
			return repos.Ledger.Create(ctx, entry)
		})
	}

	t.Run("remove above available is rejected and nothing changes", func(t *testing.T) {
		err := adjust(90)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock))

		got, err := items.FindByIDForTenant(ctx, tenantID, item.ID)
		require.NoError(t, err)
		assert.True(t, got.Quantity.Equal(dec(100)))
		assert.True(t, got.ReservedQty.Equal(dec(20)))
	})

	t.Run("remove within available leaves fifty", func(t *testing.T) {
		require.NoError(t, adjust(50))

		got, err := items.FindByIDForTenant(ctx, tenantID, item.ID)
		require.NoError(t, err)
		assert.True(t, got.Quantity.Equal(dec(50)))
		assert.True(t, got.Available().Equal(dec(30)))
	})

	t.Run("transfer moves thirty into a new destination record", func(t *testing.T) {
		err := scope.Execute(ctx, func(repos appinv.StockRepos) error {
			source, err := repos.Items.FindByIDForUpdate(ctx, tenantID, item.ID)
			if err != nil {
				return err
			}
			dest, err := repos.Items.FindByWarehouseAndProductForUpdate(ctx, tenantID, annex.ID, product.ID)
			if errors.Is(err, shared.ErrNotFound) {
				dest, err = inventory.NewInventoryItem(tenantID, annex.ID, product.ID, dec(0), dec(0))
				if err == nil {
					err = repos.Items.Create(ctx, dest)
				}
			}
			if err != nil {
				return err
			}
			out, in, err := inventory.Transfer(source, dest, dec(30), "to annex", testActor)
			if err != nil {
				return err
			}
			if err := repos.Items.SaveWithLock(ctx, source); err != nil {
				return err
			}
			if err := repos.Items.SaveWithLock(ctx, dest); err != nil {
				return err
			}
			return repos.Ledger.CreateBatch(ctx, []*inventory.InventoryTransaction{out, in})
		})
		require.NoError(t, err)

		source, err := items.FindByIDForTenant(ctx, tenantID, item.ID)
		require.NoError(t, err)
		assert.True(t, source.Quantity.Equal(dec(20)))

		list, total, err := items.FindAllForTenant(ctx, tenantID, inventory.ItemFilter{WarehouseID: &annex.ID})
		require.NoError(t, err)
		require.Equal(t, int64(1), total)
		assert.True(t, list[0].Quantity.Equal(dec(30)))

		trail, count, err := audit.FindByItem(ctx, tenantID, item.ID, shared.Filter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
		types := make([]inventory.TransactionType, len(trail))
		for i, e := range trail {
			types[i] = e.Type
		}
		assert.ElementsMatch(t, []inventory.TransactionType{
			inventory.TransactionTypeInitial,
			inventory.TransactionTypeRemove,
			inventory.TransactionTypeTransferOut,
		}, types)
	})

	t.Run("failed transfer rolls back both rows", func(t *testing.T) {
		boom := errors.New("audit write failed")
		err := scope.Execute(ctx, func(repos appinv.StockRepos) error {
			source, err := repos.Items.FindByIDForUpdate(ctx, tenantID, item.ID)
			if err != nil {
				return err
			}
			dest, err := repos.Items.FindByWarehouseAndProductForUpdate(ctx, tenantID, annex.ID, product.ID)
			if err != nil {
				return err
			}
			if _, _, err := inventory.Transfer(source, dest, dec(10), "", testActor); err != nil {
				return err
			}
			if err := repos.Items.SaveWithLock(ctx, source); err != nil {
				return err
			}
			if err := repos.Items.SaveWithLock(ctx, dest); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		source, err := items.FindByIDForTenant(ctx, tenantID, item.ID)
		require.NoError(t, err)
		assert.True(t, source.Quantity.Equal(dec(20)))
		list, _, err := items.FindAllForTenant(ctx, tenantID, inventory.ItemFilter{WarehouseID: &annex.ID})
		require.NoError(t, err)
		assert.True(t, list[0].Quantity.Equal(dec(30)))
	})
}

func TestGormInventoryItemRepository_SaveWithLock(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	tenantID := uuid.New()
	product := seedProduct(t, db, tenantID, "SUGAR", 10, 0)
	w := seedWarehouse(t, db, tenantID, "MAIN")
	item := seedItem(t, db, tenantID, w.ID, product.ID, 10, 0)
	repo := NewGormInventoryItemRepository(db)

	first, err := repo.FindByIDForTenant(ctx, tenantID, item.ID)
	require.NoError(t, err)
	second, err := repo.FindByIDForTenant(ctx, tenantID, item.ID)
	require.NoError(t, err)

	_, err = first.Adjust(inventory.AdjustmentRemove, dec(6), inventory.ReasonOther, "", testActor)
	require.NoError(t, err)
	require.NoError(t, repo.SaveWithLock(ctx, first))

	_, err = second.Adjust(inventory.AdjustmentRemove, dec(6), inventory.ReasonOther, "", testActor)
	require.NoError(t, err)
	err = repo.SaveWithLock(ctx, second)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	got, err := repo.FindByIDForTenant(ctx, tenantID, item.ID)
	require.NoError(t, err)
	assert.True(t, got.Quantity.Equal(dec(4)))
	assert.Equal(t, 2, got.Version)

	t.Run("several saves on one loaded record", func(t *testing.T) {
		_, err := got.Adjust(inventory.AdjustmentAdd, dec(1), inventory.ReasonRestock, "", testActor)
		require.NoError(t, err)
		require.NoError(t, repo.SaveWithLock(ctx, got))
		_, err = got.Adjust(inventory.AdjustmentAdd, dec(1), inventory.ReasonRestock, "", testActor)
		require.NoError(t, err)
		require.NoError(t, repo.SaveWithLock(ctx, got))

		reloaded, err := repo.FindByIDForTenant(ctx, tenantID, item.ID)
		require.NoError(t, err)
		assert.True(t, reloaded.Quantity.Equal(dec(6)))
		assert.Equal(t, 4, reloaded.Version)
	})
}

func TestGormInventoryItemRepository_FindAllForTenant(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	tenantID := uuid.New()
	butter := seedProduct(t, db, tenantID, "BUTTER", 50, 10)
	yeast := seedProduct(t, db, tenantID, "YEAST", 5, 10)
	w := seedWarehouse(t, db, tenantID, "MAIN")
	seedItem(t, db, tenantID, w.ID, butter.ID, 100, 0)
	low := seedItem(t, db, tenantID, w.ID, yeast.ID, 12, 4)

	other := uuid.New()
	otherW := seedWarehouse(t, db, other, "MAIN")
	seedItem(t, db, other, otherW.ID, seedProduct(t, db, other, "BUTTER", 50, 10).ID, 1, 0)

	repo := NewGormInventoryItemRepository(db)

	t.Run("scoped to tenant", func(t *testing.T) {
		list, total, err := repo.FindAllForTenant(ctx, tenantID, inventory.ItemFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, list, 2)
	})

	t.Run("low stock compares available with reorder level", func(t *testing.T) {
		list, total, err := repo.FindAllForTenant(ctx, tenantID, inventory.ItemFilter{LowStock: true})
		require.NoError(t, err)
		require.Equal(t, int64(1), total)
		assert.Equal(t, low.ID, list[0].ID)
	})

	t.Run("product filter", func(t *testing.T) {
		_, total, err := repo.FindAllForTenant(ctx, tenantID, inventory.ItemFilter{ProductID: &butter.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := repo.FindByIDForTenant(ctx, tenantID, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
