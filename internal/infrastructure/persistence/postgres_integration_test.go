//go:build integration

package persistence

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	appinv "github.com/bakery/backend/internal/application/inventory"
	"github.com/bakery/backend/internal/domain/inventory"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/bakery/backend/internal/domain/trade"
	"github.com/bakery/backend/internal/infrastructure/config"
	"github.com/bakery/backend/internal/infrastructure/migration"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// newPostgresDB starts a throwaway Postgres and applies the embedded migrations
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("bakery_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	database, err := NewDatabase(&config.DatabaseConfig{
		Driver:       "postgres",
		URL:          dsn,
		MaxOpenConns: 10,
		MaxIdleConns: 5,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	sqlDB, err := database.DB.DB()
	require.NoError(t, err)
	migrator, err := migration.New(sqlDB, "", nil)
	require.NoError(t, err)
	require.NoError(t, migrator.Up())
	return database.DB
}

func TestPostgres_MigrationsRoundTrip(t *testing.T) {
	db := newPostgresDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	migrator, err := migration.New(sqlDB, "", nil)
	require.NoError(t, err)
	version, dirty, err := migrator.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(5), version)
	assert.False(t, dirty)

	require.NoError(t, migrator.Steps(-1))
	require.NoError(t, migrator.Up())
}

func TestPostgres_ConcurrentRemovesCannotOversell(t *testing.T) {
	ctx := context.Background()
	db := newPostgresDB(t)
	tenantID := uuid.New()

	product := seedProduct(t, db, tenantID, "FLOUR-1", 40, 0)
	bakehouse := seedWarehouse(t, db, tenantID, "MAIN")
	item := seedItem(t, db, tenantID, bakehouse.ID, product.ID, 100, 20)
	scope := NewStockScope(db)

	remove := func() error {
		return scope.Execute(ctx, func(repos appinv.StockRepos) error {
			locked, err := repos.Items.FindByIDForUpdate(ctx, tenantID, item.ID)
			if err != nil {
				return err
			}
			entry, err := locked.Adjust(inventory.AdjustmentRemove, dec(50), inventory.ReasonDamage, "", testActor)
			if err != nil {
				return err
			}
			if err := repos.Items.SaveWithLock(ctx, locked); err != nil {
				return err
			}
			return repos.Ledger.Create(ctx, entry)
		})
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = remove()
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock) || errors.Is(err, shared.ErrConcurrencyConflict), err)
	}
	assert.Equal(t, 1, succeeded)

	got, err := NewGormInventoryItemRepository(db).FindByIDForTenant(ctx, tenantID, item.ID)
	require.NoError(t, err)
	assert.True(t, got.Quantity.Equal(dec(50)), got.Quantity.String())
}

func TestPostgres_ReservedCheckConstraint(t *testing.T) {
	db := newPostgresDB(t)
	tenantID := uuid.New()
	product := seedProduct(t, db, tenantID, "SUGAR-1", 10, 0)
	bakehouse := seedWarehouse(t, db, tenantID, "MAIN")
	item := seedItem(t, db, tenantID, bakehouse.ID, product.ID, 10, 5)

	err := db.Exec("UPDATE inventory_items SET quantity = 1 WHERE id = ?", item.ID).Error
	assert.Error(t, err)
}

func TestPostgres_OrderTotalsPersist(t *testing.T) {
	ctx := context.Background()
	db := newPostgresDB(t)
	tenantID := uuid.New()
	customer := seedCustomer(t, db, tenantID, "C-1")

	bread, err := trade.NewOrderItem(uuid.New(), "Bread", "BRD", dec(3), dec(100))
	require.NoError(t, err)
	cake, err := trade.NewOrderItem(uuid.New(), "Cake", "CKE", dec(1), dec(50))
	require.NoError(t, err)
	order, err := trade.NewOrder(tenantID, customer.ID, trade.ChannelStore, nil, []trade.OrderItem{bread, cake})
	require.NoError(t, err)

	repo := NewGormOrderRepository(db)
	require.NoError(t, repo.Create(ctx, order))

	got, err := repo.FindByIDForTenant(ctx, tenantID, order.ID)
	require.NoError(t, err)
	assert.True(t, got.Subtotal.Equal(dec(350)))
	assert.True(t, got.TaxAmount.Equal(dec(63)))
	assert.True(t, got.TotalAmount.Equal(dec(413)))
	assert.Len(t, got.Items, 2)
}
