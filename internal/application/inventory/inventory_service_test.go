package inventory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/bakery/backend/internal/domain/catalog"
	"github.com/bakery/backend/internal/domain/inventory"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test doubles
// =============================================================================

// memInventoryRepo stores copies so a failed operation never leaks into "storage"
type memInventoryRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]inventory.InventoryItem
}

func newMemInventoryRepo() *memInventoryRepo {
	return &memInventoryRepo{items: make(map[uuid.UUID]inventory.InventoryItem)}
}

func (r *memInventoryRepo) load(tenantID, id uuid.UUID) (*inventory.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[id]
	if !ok || stored.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	item := stored
	item.ClearDomainEvents()
	item.MarkPersisted()
	return &item, nil
}

func (r *memInventoryRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*inventory.InventoryItem, error) {
	return r.load(tenantID, id)
}

func (r *memInventoryRepo) FindByIDForUpdate(_ context.Context, tenantID, id uuid.UUID) (*inventory.InventoryItem, error) {
	return r.load(tenantID, id)
}

func (r *memInventoryRepo) FindByWarehouseAndProductForUpdate(_ context.Context, tenantID, warehouseID, productID uuid.UUID) (*inventory.InventoryItem, error) {
	r.mu.Lock()
	var id uuid.UUID
	for _, it := range r.items {
		if it.TenantID == tenantID && it.WarehouseID == warehouseID && it.ProductID == productID {
			id = it.ID
		}
	}
	r.mu.Unlock()
	if id == uuid.Nil {
		return nil, shared.ErrNotFound
	}
	return r.load(tenantID, id)
}

func (r *memInventoryRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ inventory.ItemFilter) ([]inventory.InventoryItem, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []inventory.InventoryItem
	for _, it := range r.items {
		if it.TenantID == tenantID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, int64(len(out)), nil
}

func (r *memInventoryRepo) Create(_ context.Context, item *inventory.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item.MarkPersisted()
	r.items[item.ID] = *item
	return nil
}

func (r *memInventoryRepo) SaveWithLock(_ context.Context, item *inventory.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[item.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != item.PersistedVersion() {
		return shared.ErrConcurrencyConflict
	}
	item.MarkPersisted()
	r.items[item.ID] = *item
	return nil
}

func (r *memInventoryRepo) DeleteForTenant(_ context.Context, _, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

type memTransactionRepo struct {
	mu      sync.Mutex
	entries []inventory.InventoryTransaction
	failOn  error
}

func (r *memTransactionRepo) Create(_ context.Context, tx *inventory.InventoryTransaction) error {
	return r.CreateBatch(context.Background(), []*inventory.InventoryTransaction{tx})
}

func (r *memTransactionRepo) CreateBatch(_ context.Context, txs []*inventory.InventoryTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn != nil {
		return r.failOn
	}
	for _, tx := range txs {
		r.entries = append(r.entries, *tx)
	}
	return nil
}

func (r *memTransactionRepo) FindByItem(_ context.Context, _, itemID uuid.UUID, _ shared.Filter) ([]inventory.InventoryTransaction, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []inventory.InventoryTransaction
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].InventoryItemID == itemID {
			out = append(out, r.entries[i])
		}
	}
	return out, int64(len(out)), nil
}

// MockWarehouseRepository is a mock implementation of WarehouseRepository
type MockWarehouseRepository struct {
	mock.Mock
}

func (m *MockWarehouseRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.Warehouse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.Warehouse, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]inventory.Warehouse), args.Get(1).(int64), args.Error(2)
}

func (m *MockWarehouseRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockWarehouseRepository) Save(ctx context.Context, w *inventory.Warehouse) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockWarehouseRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// stubProductRepo serves one product; every other method is unused here
type stubProductRepo struct {
	catalog.ProductRepository
	product *catalog.Product
}

func (r *stubProductRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	if r.product == nil || r.product.ID != id || r.product.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return r.product, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

// =============================================================================
// Fixture
// =============================================================================

var testActor = inventory.Actor{UserID: uuid.New(), Email: "keeper@bakery.test"}

type inventoryFixture struct {
	tenantID   uuid.UUID
	product    *catalog.Product
	main       *inventory.Warehouse
	annex      *inventory.Warehouse
	items      *memInventoryRepo
	audit      *memTransactionRepo
	warehouses *MockWarehouseRepository
	publisher  *recordingPublisher
	service    *InventoryService
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newInventoryFixture(t *testing.T) *inventoryFixture {
	t.Helper()
	f := &inventoryFixture{
		tenantID:   uuid.New(),
		items:      newMemInventoryRepo(),
		audit:      &memTransactionRepo{},
		warehouses: new(MockWarehouseRepository),
		publisher:  &recordingPublisher{},
	}

	var err error
	f.product, err = catalog.NewProduct(f.tenantID, "FLOUR-MAIDA", "Maida 50kg", "bag",
		catalog.Prices{Selling: dec(2400), Cost: dec(2100)}, dec(5))
	require.NoError(t, err)
	require.NoError(t, f.product.SetStockThresholds(dec(0), dec(25)))

	f.main, err = inventory.NewWarehouse(f.tenantID, "MAIN", "Central Kitchen", "")
	require.NoError(t, err)
	f.annex, err = inventory.NewWarehouse(f.tenantID, "ANNEX", "Store Back Room", "")
	require.NoError(t, err)
	f.warehouses.On("FindByIDForTenant", mock.Anything, f.tenantID, f.main.ID).Return(f.main, nil).Maybe()
	f.warehouses.On("FindByIDForTenant", mock.Anything, f.tenantID, f.annex.ID).Return(f.annex, nil).Maybe()
	f.warehouses.On("FindByIDForTenant", mock.Anything, f.tenantID, mock.Anything).Return(nil, shared.ErrNotFound).Maybe()

	scope := DirectScope{Warehouses: f.warehouses, Items: f.items, Ledger: f.audit}
	f.service = NewInventoryService(scope, f.items, f.audit, &stubProductRepo{product: f.product})
	f.service.SetEventPublisher(f.publisher)
	return f
}

// seed opens a record at qty 100 with 20 reserved in the main warehouse
func (f *inventoryFixture) seed(t *testing.T) InventoryItemResponse {
	t.Helper()
	resp, err := f.service.Create(context.Background(), f.tenantID, CreateInventoryItemRequest{
		WarehouseID: f.main.ID, ProductID: f.product.ID, Quantity: dec(100), ReservedQty: dec(20),
	}, testActor)
	require.NoError(t, err)
	return *resp
}

// =============================================================================
// Tests
// =============================================================================

func TestInventoryService_AdjustAndTransferScenario(t *testing.T) {
	ctx := context.Background()
	f := newInventoryFixture(t)
	item := f.seed(t)
	assert.True(t, item.Available.Equal(dec(80)))

	t.Run("remove ninety is rejected and nothing changes", func(t *testing.T) {
		_, err := f.service.Adjust(ctx, f.tenantID, item.ID, AdjustStockRequest{
			Type: "remove", Quantity: dec(90), ReasonCode: "DAMAGE",
		}, testActor)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)

		got, err := f.service.GetByID(ctx, f.tenantID, item.ID)
		require.NoError(t, err)
		assert.True(t, got.Quantity.Equal(dec(100)))
		assert.True(t, got.ReservedQty.Equal(dec(20)))
	})

	t.Run("remove fifty leaves fifty", func(t *testing.T) {
		got, err := f.service.Adjust(ctx, f.tenantID, item.ID, AdjustStockRequest{
			Type: "remove", Quantity: dec(50), ReasonCode: "DAMAGE", Notes: "dropped tray",
		}, testActor)
		require.NoError(t, err)
		assert.True(t, got.Quantity.Equal(dec(50)))
		assert.True(t, got.Available.Equal(dec(30)))
	})

	t.Run("transfer thirty leaves twenty and creates destination with thirty", func(t *testing.T) {
		res, err := f.service.Transfer(ctx, f.tenantID, item.ID, TransferStockRequest{
			ToWarehouseID: f.annex.ID, Quantity: dec(30),
		}, testActor)
		require.NoError(t, err)
		assert.True(t, res.Source.Quantity.Equal(dec(20)))
		assert.True(t, res.Destination.Quantity.Equal(dec(30)))
		assert.Equal(t, f.annex.ID, res.Destination.WarehouseID)
		assert.Equal(t, f.product.ID, res.Destination.ProductID)
	})

	t.Run("every movement is audited", func(t *testing.T) {
		trail, total, err := f.service.ListTransactions(ctx, f.tenantID, item.ID, TransactionListFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Equal(t, "TRANSFER_OUT", trail[0].Type)
		assert.Equal(t, "ADJUSTMENT_REMOVE", trail[1].Type)
		assert.True(t, trail[1].BalanceBefore.Equal(dec(100)))
		assert.True(t, trail[1].BalanceAfter.Equal(dec(50)))
		assert.Equal(t, "keeper@bakery.test", trail[1].ActorEmail)
		assert.Equal(t, "INITIAL", trail[2].Type)
	})

	t.Run("events are published after commit", func(t *testing.T) {
		types := f.publisher.types()
		assert.Contains(t, types, inventory.EventTypeInventoryAdjusted)
		assert.Contains(t, types, inventory.EventTypeInventoryTransferred)
		// reorder level is 25: available 30 after the remove, 0 after the transfer
		assert.Contains(t, types, inventory.EventTypeLowStockDetected)
	})
}

func TestInventoryService_AdjustValidation(t *testing.T) {
	ctx := context.Background()
	f := newInventoryFixture(t)
	item := f.seed(t)

	tests := []struct {
		name string
		req  AdjustStockRequest
		code string
	}{
		{"zero quantity", AdjustStockRequest{Type: "add", Quantity: dec(0), ReasonCode: "RESTOCK"}, "INVALID_QUANTITY"},
		{"negative quantity", AdjustStockRequest{Type: "add", Quantity: dec(-5), ReasonCode: "RESTOCK"}, "INVALID_QUANTITY"},
		{"unknown type", AdjustStockRequest{Type: "multiply", Quantity: dec(5), ReasonCode: "RESTOCK"}, "INVALID_ADJUSTMENT_TYPE"},
		{"unknown reason", AdjustStockRequest{Type: "add", Quantity: dec(5), ReasonCode: "GIFT"}, "INVALID_REASON"},
		{"set below reserved", AdjustStockRequest{Type: "set", Quantity: dec(10), ReasonCode: "COUNT_CORRECTION"}, "INVALID_QUANTITY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Adjust(ctx, f.tenantID, item.ID, tt.req, testActor)
			var de *shared.DomainError
			require.True(t, errors.As(err, &de), "got %v", err)
			assert.Equal(t, tt.code, de.Code)
		})
	}

	got, err := f.service.Adjust(ctx, f.tenantID, item.ID, AdjustStockRequest{Type: "SET", Quantity: dec(20), ReasonCode: "count_correction"}, testActor)
	require.NoError(t, err)
	assert.True(t, got.Quantity.Equal(dec(20)))
	assert.True(t, got.Available.IsZero())

	got, err = f.service.Adjust(ctx, f.tenantID, item.ID, AdjustStockRequest{Type: "add", Quantity: dec(15), ReasonCode: "RESTOCK"}, testActor)
	require.NoError(t, err)
	assert.True(t, got.Quantity.Equal(dec(35)))
	assert.NotNil(t, got.LastRestockedAt)
}

func TestInventoryService_TransferValidation(t *testing.T) {
	ctx := context.Background()
	f := newInventoryFixture(t)
	item := f.seed(t)

	t.Run("same warehouse", func(t *testing.T) {
		_, err := f.service.Transfer(ctx, f.tenantID, item.ID, TransferStockRequest{ToWarehouseID: f.main.ID, Quantity: dec(5)}, testActor)
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "SAME_WAREHOUSE", de.Code)
	})

	t.Run("unknown destination", func(t *testing.T) {
		_, err := f.service.Transfer(ctx, f.tenantID, item.ID, TransferStockRequest{ToWarehouseID: uuid.New(), Quantity: dec(5)}, testActor)
		assert.ErrorIs(t, err, shared.ErrWarehouseNotFound)
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("more than available", func(t *testing.T) {
		_, err := f.service.Transfer(ctx, f.tenantID, item.ID, TransferStockRequest{ToWarehouseID: f.annex.ID, Quantity: dec(81)}, testActor)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("zero quantity", func(t *testing.T) {
		_, err := f.service.Transfer(ctx, f.tenantID, item.ID, TransferStockRequest{ToWarehouseID: f.annex.ID, Quantity: dec(0)}, testActor)
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "INVALID_QUANTITY", de.Code)
	})

	t.Run("audit failure surfaces", func(t *testing.T) {
		boom := errors.New("disk full")
		f.audit.failOn = boom
		defer func() { f.audit.failOn = nil }()
		_, err := f.service.Transfer(ctx, f.tenantID, item.ID, TransferStockRequest{ToWarehouseID: f.annex.ID, Quantity: dec(5)}, testActor)
		assert.ErrorIs(t, err, boom)
	})
}

func TestInventoryService_Create(t *testing.T) {
	ctx := context.Background()
	f := newInventoryFixture(t)
	f.seed(t)

	t.Run("duplicate record", func(t *testing.T) {
		_, err := f.service.Create(ctx, f.tenantID, CreateInventoryItemRequest{
			WarehouseID: f.main.ID, ProductID: f.product.ID, Quantity: dec(1),
		}, testActor)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("unknown warehouse", func(t *testing.T) {
		_, err := f.service.Create(ctx, f.tenantID, CreateInventoryItemRequest{
			WarehouseID: uuid.New(), ProductID: f.product.ID, Quantity: dec(1),
		}, testActor)
		assert.ErrorIs(t, err, shared.ErrWarehouseNotFound)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := f.service.Create(ctx, f.tenantID, CreateInventoryItemRequest{
			WarehouseID: f.annex.ID, ProductID: uuid.New(), Quantity: dec(1),
		}, testActor)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("reserved above quantity", func(t *testing.T) {
		_, err := f.service.Create(ctx, f.tenantID, CreateInventoryItemRequest{
			WarehouseID: f.annex.ID, ProductID: f.product.ID, Quantity: dec(1), ReservedQty: dec(2),
		}, testActor)
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "INVALID_QUANTITY", de.Code)
	})
}

func TestInventoryService_ReserveRelease(t *testing.T) {
	ctx := context.Background()
	f := newInventoryFixture(t)
	item := f.seed(t)

	got, err := f.service.Reserve(ctx, f.tenantID, item.ID, ReservationRequest{Quantity: dec(30)}, testActor)
	require.NoError(t, err)
	assert.True(t, got.ReservedQty.Equal(dec(50)))
	assert.True(t, got.Available.Equal(dec(50)))

	_, err = f.service.Reserve(ctx, f.tenantID, item.ID, ReservationRequest{Quantity: dec(51)}, testActor)
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)

	got, err = f.service.Release(ctx, f.tenantID, item.ID, ReservationRequest{Quantity: dec(50)}, testActor)
	require.NoError(t, err)
	assert.True(t, got.ReservedQty.IsZero())
	assert.True(t, got.Quantity.Equal(dec(100)))
}

func TestInventoryService_UpdateMetadata(t *testing.T) {
	ctx := context.Background()
	f := newInventoryFixture(t)
	item := f.seed(t)

	batch := "B-2026-10-01"
	got, err := f.service.Update(ctx, f.tenantID, item.ID, UpdateInventoryItemRequest{BatchNumber: &batch})
	require.NoError(t, err)
	assert.Equal(t, batch, got.BatchNumber)
	assert.True(t, got.Quantity.Equal(dec(100)))
	assert.Greater(t, got.Version, item.Version)
}

func TestWarehouseService(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("create", func(t *testing.T) {
		repo := new(MockWarehouseRepository)
		repo.On("ExistsByCode", ctx, tenantID, "MAIN").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*inventory.Warehouse")).Return(nil)

		got, err := NewWarehouseService(repo).Create(ctx, tenantID, CreateWarehouseRequest{Code: "main", Name: "Central Kitchen"})
		require.NoError(t, err)
		assert.Equal(t, "MAIN", got.Code)
		assert.True(t, got.IsActive)
	})

	t.Run("duplicate code", func(t *testing.T) {
		repo := new(MockWarehouseRepository)
		repo.On("ExistsByCode", ctx, tenantID, "MAIN").Return(true, nil)

		_, err := NewWarehouseService(repo).Create(ctx, tenantID, CreateWarehouseRequest{Code: "MAIN", Name: "Dup"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("update deactivates", func(t *testing.T) {
		repo := new(MockWarehouseRepository)
		w, err := inventory.NewWarehouse(tenantID, "MAIN", "Central Kitchen", "")
		require.NoError(t, err)
		repo.On("FindByIDForTenant", ctx, tenantID, w.ID).Return(w, nil)
		repo.On("Save", ctx, w).Return(nil)

		inactive := false
		name := "Old Kitchen"
		got, err := NewWarehouseService(repo).Update(ctx, tenantID, w.ID, UpdateWarehouseRequest{Name: &name, IsActive: &inactive})
		require.NoError(t, err)
		assert.Equal(t, "Old Kitchen", got.Name)
		assert.False(t, got.IsActive)
	})
}
