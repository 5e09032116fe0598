package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/bakery/backend/internal/domain/shared"
	"github.com/bakery/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T, tenantID, customerID uuid.UUID, lines ...[2]int64) *trade.Order {
	t.Helper()
	items := make([]trade.OrderItem, len(lines))
	for i, l := range lines {
		it, err := trade.NewOrderItem(uuid.New(), "Item", "SKU", dec(l[0]), dec(l[1]))
		require.NoError(t, err)
		items[i] = it
	}
	o, err := trade.NewOrder(tenantID, customerID, trade.ChannelStore, nil, items)
	require.NoError(t, err)
	return o
}

func TestGormOrderRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	tenantID := uuid.New()
	customer := seedCustomer(t, db, tenantID, "C-1")
	repo := NewGormOrderRepository(db)

	order := newTestOrder(t, tenantID, customer.ID, [2]int64{3, 100}, [2]int64{1, 50})
	require.NoError(t, repo.Create(ctx, order))

	got, err := repo.FindByIDForTenant(ctx, tenantID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "350", got.Subtotal.String())
	assert.Equal(t, "63", got.TaxAmount.String())
	assert.Equal(t, "413", got.TotalAmount.String())
	require.Len(t, got.Items, 2)
	assert.True(t, got.Items[0].Quantity.Equal(dec(3)))
	assert.True(t, got.Items[1].UnitPrice.Equal(dec(50)))

	t.Run("other tenant cannot see it", func(t *testing.T) {
		_, err := repo.FindByIDForTenant(ctx, uuid.New(), order.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormOrderRepository_ReplaceItems(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	tenantID := uuid.New()
	customer := seedCustomer(t, db, tenantID, "C-1")
	repo := NewGormOrderRepository(db)

	order := newTestOrder(t, tenantID, customer.ID, [2]int64{3, 100}, [2]int64{1, 50})
	require.NoError(t, repo.Create(ctx, order))

	loaded, err := repo.FindByIDForTenant(ctx, tenantID, order.ID)
	require.NoError(t, err)
	stale, err := repo.FindByIDForTenant(ctx, tenantID, order.ID)
	require.NoError(t, err)

	line, err := trade.NewOrderItem(uuid.New(), "Sourdough", "SD-1", dec(2), dec(120))
	require.NoError(t, err)
	require.NoError(t, loaded.ReplaceItems([]trade.OrderItem{line}, nil))
	require.NoError(t, repo.ReplaceItems(ctx, loaded))

	got, err := repo.FindByIDForTenant(ctx, tenantID, order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Sourdough", got.Items[0].ProductName)
	assert.Equal(t, "240", got.Subtotal.String())
	assert.Equal(t, "43.2", got.TaxAmount.String())
	assert.Equal(t, "283.2", got.TotalAmount.String())

	t.Run("stale copy conflicts and keeps stored lines", func(t *testing.T) {
		require.NoError(t, stale.ReplaceItems([]trade.OrderItem{line}, nil))
		err := repo.ReplaceItems(ctx, stale)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

		again, err := repo.FindByIDForTenant(ctx, tenantID, order.ID)
		require.NoError(t, err)
		assert.Len(t, again.Items, 1)
	})
}

func TestGormOrderRepository_FindAllForTenant(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	tenantID := uuid.New()
	alice := seedCustomer(t, db, tenantID, "C-1")
	bob := seedCustomer(t, db, tenantID, "C-2")
	repo := NewGormOrderRepository(db)

	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for i, c := range []uuid.UUID{alice.ID, alice.ID, bob.ID} {
		o := newTestOrder(t, tenantID, c, [2]int64{1, 10})
		o.CreatedAt = created
		if i == 2 {
			require.NoError(t, o.TransitionTo(trade.OrderStatusConfirmed))
		}
		require.NoError(t, repo.Create(ctx, o))
		ids = append(ids, o.ID)
	}

	t.Run("filters by customer and status at the query", func(t *testing.T) {
		_, total, err := repo.FindAllForTenant(ctx, tenantID, trade.OrderFilter{CustomerID: &alice.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)

		list, total, err := repo.FindAllForTenant(ctx, tenantID, trade.OrderFilter{Status: trade.OrderStatusConfirmed})
		require.NoError(t, err)
		require.Equal(t, int64(1), total)
		assert.Equal(t, ids[2], list[0].ID)
		assert.Len(t, list[0].Items, 1)
	})

	t.Run("equal sort keys return in the same order every time", func(t *testing.T) {
		first, _, err := repo.FindAllForTenant(ctx, tenantID, trade.OrderFilter{})
		require.NoError(t, err)
		for range 5 {
			again, _, err := repo.FindAllForTenant(ctx, tenantID, trade.OrderFilter{})
			require.NoError(t, err)
			require.Len(t, again, len(first))
			for i := range first {
				assert.Equal(t, first[i].ID, again[i].ID)
			}
		}
	})

	t.Run("pages", func(t *testing.T) {
		f := trade.OrderFilter{Filter: shared.Filter{Page: 2, PageSize: 2}}
		list, total, err := repo.FindAllForTenant(ctx, tenantID, f)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, list, 1)
	})

	t.Run("date range is half open", func(t *testing.T) {
		from := created.Add(time.Second)
		_, total, err := repo.FindAllForTenant(ctx, tenantID, trade.OrderFilter{From: &from})
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})
}

func TestGormOrderRepository_DeleteForTenant(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	tenantID := uuid.New()
	customer := seedCustomer(t, db, tenantID, "C-1")
	repo := NewGormOrderRepository(db)

	order := newTestOrder(t, tenantID, customer.ID, [2]int64{1, 10})
	require.NoError(t, repo.Create(ctx, order))
	require.NoError(t, repo.DeleteForTenant(ctx, tenantID, order.ID))

	_, err := repo.FindByIDForTenant(ctx, tenantID, order.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteForTenant(ctx, tenantID, order.ID), shared.ErrNotFound)

	var lines int64
	require.NoError(t, db.Table("order_items").Where("order_id = ?", order.ID).Count(&lines).Error)
	assert.Zero(t, lines)
}
