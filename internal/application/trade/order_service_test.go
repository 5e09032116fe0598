package trade

import (
	"context"
	"errors"
	"testing"

	"github.com/bakery/backend/internal/domain/catalog"
	"github.com/bakery/backend/internal/domain/inventory"
	"github.com/bakery/backend/internal/domain/partner"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/bakery/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter trade.OrderFilter) ([]trade.Order, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]trade.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) Create(ctx context.Context, o *trade.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *trade.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) ReplaceItems(ctx context.Context, o *trade.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Customer, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]partner.Customer), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, c *partner.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) HasOrders(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, id)
	return args.Bool(0), args.Error(1)
}

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error) {
	args := m.Called(ctx, tenantID, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockProductRepository) HasStock(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, id)
	return args.Bool(0), args.Error(1)
}

type capturePublisher struct {
	events []shared.DomainEvent
}

func (p *capturePublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func newTestProduct(t *testing.T, tenantID uuid.UUID, sku, name string, selling, cost int64) catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(tenantID, sku, name, "pcs",
		catalog.Prices{Selling: decimal.NewFromInt(selling), Cost: decimal.NewFromInt(cost)}, decimal.NewFromInt(5))
	require.NoError(t, err)
	return *p
}

func newTestCustomer(t *testing.T, tenantID uuid.UUID) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(tenantID, "CUST-001", "Sunrise Cafe", partner.CustomerTypeB2B)
	require.NoError(t, err)
	return c
}

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

type orderFixture struct {
	tenantID  uuid.UUID
	orders    *MockOrderRepository
	customers *MockCustomerRepository
	products  *MockProductRepository
	customer  *partner.Customer
	cake      catalog.Product
	bun       catalog.Product
	service   *OrderService
	published *capturePublisher
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	f := &orderFixture{
		tenantID:  uuid.New(),
		orders:    new(MockOrderRepository),
		customers: new(MockCustomerRepository),
		products:  new(MockProductRepository),
		published: &capturePublisher{},
	}
	f.customer = newTestCustomer(t, f.tenantID)
	f.cake = newTestProduct(t, f.tenantID, "CAKE-PLUM", "Plum Cake", 100, 60)
	f.bun = newTestProduct(t, f.tenantID, "BUN-CRM", "Cream Bun", 50, 20)
	f.service = NewOrderService(f.orders, f.customers, f.products)
	f.service.SetEventPublisher(f.published)
	return f
}

func TestOrderService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("computes totals server side", func(t *testing.T) {
		f := newOrderFixture(t)
		f.customers.On("FindByIDForTenant", mock.Anything, f.tenantID, f.customer.ID).Return(f.customer, nil)
		f.products.On("FindByIDs", mock.Anything, f.tenantID, []uuid.UUID{f.cake.ID, f.bun.ID}).
			Return([]catalog.Product{f.cake, f.bun}, nil)
		f.orders.On("Create", mock.Anything, mock.AnythingOfType("*trade.Order")).Return(nil)

		result, err := f.service.Create(ctx, f.tenantID, CreateOrderRequest{
			CustomerID: f.customer.ID,
			Items: []OrderItemInput{
				{ProductID: f.cake.ID, Quantity: dec("3")},
				{ProductID: f.bun.ID, Quantity: dec("1")},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "350", result.Subtotal.String())
		assert.Equal(t, "63", result.TaxAmount.String())
		assert.Equal(t, "413", result.TotalAmount.String())
		assert.True(t, result.TaxRate.Equal(dec("18")))
		assert.Equal(t, "STORE", result.Channel)
		assert.Equal(t, "PENDING", result.Status)
		assert.Equal(t, "PENDING", result.PaymentStatus)
		assert.Regexp(t, `^ORD-\d{8}-`, result.OrderNumber)
		require.Len(t, result.Items, 2)
		assert.Equal(t, "Plum Cake", result.Items[0].ProductName)
		assert.Equal(t, "CAKE-PLUM", result.Items[0].SKU)
		assert.Equal(t, "300", result.Items[0].Total.String())
		require.Len(t, f.published.events, 1)
		assert.Equal(t, trade.EventTypeOrderCreated, f.published.events[0].EventType())
		f.orders.AssertExpectations(t)
	})

	t.Run("explicit price and tax rate", func(t *testing.T) {
		f := newOrderFixture(t)
		f.customers.On("FindByIDForTenant", mock.Anything, f.tenantID, f.customer.ID).Return(f.customer, nil)
		f.products.On("FindByIDs", mock.Anything, f.tenantID, []uuid.UUID{f.bun.ID}).Return([]catalog.Product{f.bun}, nil)
		f.orders.On("Create", mock.Anything, mock.AnythingOfType("*trade.Order")).Return(nil)

		price := dec("33.33")
		rate := dec("5")
		result, err := f.service.Create(ctx, f.tenantID, CreateOrderRequest{
			CustomerID: f.customer.ID,
			Channel:    "online",
			TaxRate:    &rate,
			Items:      []OrderItemInput{{ProductID: f.bun.ID, Quantity: dec("3"), UnitPrice: &price}},
		})

		require.NoError(t, err)
		assert.Equal(t, "99.99", result.Subtotal.String())
		assert.Equal(t, "5", result.TaxAmount.String())
		assert.Equal(t, "104.99", result.TotalAmount.String())
		assert.Equal(t, "ONLINE", result.Channel)
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newOrderFixture(t)
		missing := uuid.New()
		f.customers.On("FindByIDForTenant", mock.Anything, f.tenantID, f.customer.ID).Return(f.customer, nil)
		f.products.On("FindByIDs", mock.Anything, f.tenantID, []uuid.UUID{missing}).Return([]catalog.Product{}, nil)

		_, err := f.service.Create(ctx, f.tenantID, CreateOrderRequest{
			CustomerID: f.customer.ID,
			Items:      []OrderItemInput{{ProductID: missing, Quantity: dec("1")}},
		})
		assert.True(t, shared.IsNotFound(err))
		f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown customer", func(t *testing.T) {
		f := newOrderFixture(t)
		id := uuid.New()
		f.customers.On("FindByIDForTenant", mock.Anything, f.tenantID, id).Return(nil, shared.ErrNotFound)

		_, err := f.service.Create(ctx, f.tenantID, CreateOrderRequest{
			CustomerID: id,
			Items:      []OrderItemInput{{ProductID: f.cake.ID, Quantity: dec("1")}},
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("inactive customer", func(t *testing.T) {
		f := newOrderFixture(t)
		f.customer.Deactivate()
		f.customers.On("FindByIDForTenant", mock.Anything, f.tenantID, f.customer.ID).Return(f.customer, nil)

		_, err := f.service.Create(ctx, f.tenantID, CreateOrderRequest{
			CustomerID: f.customer.ID,
			Items:      []OrderItemInput{{ProductID: f.cake.ID, Quantity: dec("1")}},
		})
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "CUSTOMER_INACTIVE", de.Code)
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		f := newOrderFixture(t)
		f.customers.On("FindByIDForTenant", mock.Anything, f.tenantID, f.customer.ID).Return(f.customer, nil)
		f.products.On("FindByIDs", mock.Anything, f.tenantID, []uuid.UUID{f.cake.ID}).Return([]catalog.Product{f.cake}, nil)

		_, err := f.service.Create(ctx, f.tenantID, CreateOrderRequest{
			CustomerID: f.customer.ID,
			Items:      []OrderItemInput{{ProductID: f.cake.ID, Quantity: dec("0")}},
		})
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "INVALID_QUANTITY", de.Code)
	})
}

func newStoredOrder(t *testing.T, f *orderFixture) *trade.Order {
	t.Helper()
	line, err := trade.NewOrderItem(f.cake.ID, f.cake.Name, f.cake.SKU, dec("3"), dec("100"))
	require.NoError(t, err)
	o, err := trade.NewOrder(f.tenantID, f.customer.ID, trade.ChannelStore, nil, []trade.OrderItem{line})
	require.NoError(t, err)
	o.ClearDomainEvents()
	o.MarkPersisted()
	return o
}

func TestOrderService_UpdateItemsRecomputes(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	order := newStoredOrder(t, f)
	f.orders.On("FindByIDForTenant", ctx, f.tenantID, order.ID).Return(order, nil)
	f.products.On("FindByIDs", ctx, f.tenantID, []uuid.UUID{f.cake.ID, f.bun.ID}).Return([]catalog.Product{f.bun, f.cake}, nil)
	f.products.On("FindByIDs", ctx, f.tenantID, []uuid.UUID{f.cake.ID}).Return([]catalog.Product{f.cake}, nil)
	f.orders.On("ReplaceItems", ctx, order).Return(nil)

	result, err := f.service.UpdateItems(ctx, f.tenantID, order.ID, UpdateOrderItemsRequest{
		Items: []OrderItemInput{
			{ProductID: f.cake.ID, Quantity: dec("3")},
			{ProductID: f.bun.ID, Quantity: dec("1")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "413", result.TotalAmount.String())
	assert.Len(t, result.Items, 2)
	f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)

	require.NoError(t, order.TransitionTo(trade.OrderStatusConfirmed))
	require.NoError(t, order.TransitionTo(trade.OrderStatusPreparing))
	_, err = f.service.UpdateItems(ctx, f.tenantID, order.ID, UpdateOrderItemsRequest{
		Items: []OrderItemInput{{ProductID: f.cake.ID, Quantity: dec("1")}},
	})
	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "ORDER_LOCKED", de.Code)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		path    []string
		wantErr string
	}{
		{"happy path to delivered", []string{"CONFIRMED", "PREPARING", "READY", "DELIVERED"}, ""},
		{"skip a step", []string{"READY"}, "INVALID_STATUS_TRANSITION"},
		{"cancel while preparing", []string{"CONFIRMED", "PREPARING", "CANCELLED"}, ""},
		{"cancel after ready", []string{"CONFIRMED", "PREPARING", "READY", "CANCELLED"}, "INVALID_STATUS_TRANSITION"},
		{"leave terminal", []string{"CANCELLED", "PENDING"}, "INVALID_STATUS_TRANSITION"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture(t)
			order := newStoredOrder(t, f)
			f.orders.On("FindByIDForTenant", ctx, f.tenantID, order.ID).Return(order, nil)
			f.orders.On("Save", ctx, order).Return(nil)

			var err error
			for _, status := range tt.path {
				_, err = f.service.UpdateStatus(ctx, f.tenantID, order.ID, UpdateOrderStatusRequest{Status: status})
				if err != nil {
					break
				}
			}
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.path[len(tt.path)-1], string(order.Status))
				assert.Len(t, f.published.events, len(tt.path))
				return
			}
			var de *shared.DomainError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tt.wantErr, de.Code)
		})
	}
}

func TestOrderService_CancelAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	order := newStoredOrder(t, f)
	f.orders.On("FindByIDForTenant", ctx, f.tenantID, order.ID).Return(order, nil)
	f.orders.On("Save", ctx, order).Return(nil)
	f.orders.On("DeleteForTenant", ctx, f.tenantID, order.ID).Return(nil)

	require.NoError(t, order.TransitionTo(trade.OrderStatusConfirmed))
	err := f.service.Delete(ctx, f.tenantID, order.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	result, err := f.service.Cancel(ctx, f.tenantID, order.ID, CancelOrderRequest{Reason: "customer called"})
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", result.Status)
	assert.Equal(t, "customer called", result.CancelReason)

	require.NoError(t, f.service.Delete(ctx, f.tenantID, order.ID))
	f.orders.AssertCalled(t, "DeleteForTenant", ctx, f.tenantID, order.ID)
}

func TestOrderService_UpdatePaymentStatus(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	order := newStoredOrder(t, f)
	f.orders.On("FindByIDForTenant", ctx, f.tenantID, order.ID).Return(order, nil)
	f.orders.On("Save", ctx, order).Return(nil)

	result, err := f.service.UpdatePaymentStatus(ctx, f.tenantID, order.ID, UpdatePaymentStatusRequest{PaymentStatus: "PAID"})
	require.NoError(t, err)
	assert.Equal(t, "PAID", result.PaymentStatus)
	assert.Equal(t, "PENDING", result.Status)
}

func TestOrderService_ListPassesFilters(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	order := newStoredOrder(t, f)
	customerID := f.customer.ID

	f.orders.On("FindAllForTenant", ctx, f.tenantID, mock.MatchedBy(func(of trade.OrderFilter) bool {
		return of.Status == trade.OrderStatusPending && of.Channel == trade.ChannelStore &&
			of.CustomerID != nil && *of.CustomerID == customerID &&
			of.Search == "ORD-" && of.Page == 2 && of.PageSize == 10
	})).Return([]trade.Order{*order}, int64(11), nil)

	result, total, err := f.service.List(ctx, f.tenantID, OrderListFilter{
		Search: "ORD-", Status: "PENDING", Channel: "STORE", CustomerID: &customerID, Page: 2, PageSize: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), total)
	assert.Len(t, result, 1)
}

// =============================================================================
// Purchase orders
// =============================================================================

type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.PurchaseOrder, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter trade.PurchaseOrderFilter) ([]trade.PurchaseOrder, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]trade.PurchaseOrder), args.Get(1).(int64), args.Error(2)
}

func (m *MockPurchaseOrderRepository) Create(ctx context.Context, po *trade.PurchaseOrder) error {
	args := m.Called(ctx, po)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) Save(ctx context.Context, po *trade.PurchaseOrder) error {
	args := m.Called(ctx, po)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) ReplaceItems(ctx context.Context, po *trade.PurchaseOrder) error {
	args := m.Called(ctx, po)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Supplier, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]partner.Supplier), args.Get(1).(int64), args.Error(2)
}

func (m *MockSupplierRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockSupplierRepository) Save(ctx context.Context, s *partner.Supplier) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

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

func TestPurchaseOrderService(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	flour := newTestProduct(t, tenantID, "RM-FLOUR", "Maida 50kg", 2400, 2100)
	supplier, err := partner.NewSupplier(tenantID, "SUP-MILL", "Annapurna Mills")
	require.NoError(t, err)
	warehouse, err := inventory.NewWarehouse(tenantID, "MAIN", "Central Kitchen", "")
	require.NoError(t, err)

	newService := func() (*PurchaseOrderService, *MockPurchaseOrderRepository, *MockSupplierRepository, *MockWarehouseRepository, *MockProductRepository) {
		pos, sups, whs, prods := new(MockPurchaseOrderRepository), new(MockSupplierRepository), new(MockWarehouseRepository), new(MockProductRepository)
		return NewPurchaseOrderService(pos, sups, whs, prods), pos, sups, whs, prods
	}

	t.Run("create uses cost price and sums lines", func(t *testing.T) {
		svc, pos, sups, whs, prods := newService()
		sups.On("FindByIDForTenant", ctx, tenantID, supplier.ID).Return(supplier, nil)
		whs.On("FindByIDForTenant", ctx, tenantID, warehouse.ID).Return(warehouse, nil)
		prods.On("FindByIDs", ctx, tenantID, []uuid.UUID{flour.ID}).Return([]catalog.Product{flour}, nil)
		pos.On("Create", ctx, mock.AnythingOfType("*trade.PurchaseOrder")).Return(nil)

		result, err := svc.Create(ctx, tenantID, CreatePurchaseOrderRequest{
			SupplierID: supplier.ID, WarehouseID: warehouse.ID,
			Items: []PurchaseOrderItemInput{{ProductID: flour.ID, Quantity: dec("4")}},
		})
		require.NoError(t, err)
		assert.Equal(t, "DRAFT", result.Status)
		assert.Equal(t, "8400", result.TotalAmount.String())
		assert.Regexp(t, `^PO-\d{8}-`, result.PONumber)
	})

	t.Run("unknown warehouse", func(t *testing.T) {
		svc, _, sups, whs, _ := newService()
		missing := uuid.New()
		sups.On("FindByIDForTenant", ctx, tenantID, supplier.ID).Return(supplier, nil)
		whs.On("FindByIDForTenant", ctx, tenantID, missing).Return(nil, shared.ErrNotFound)

		_, err := svc.Create(ctx, tenantID, CreatePurchaseOrderRequest{
			SupplierID: supplier.ID, WarehouseID: missing,
			Items: []PurchaseOrderItemInput{{ProductID: flour.ID, Quantity: dec("1")}},
		})
		assert.ErrorIs(t, err, shared.ErrWarehouseNotFound)
	})

	t.Run("items locked after submit", func(t *testing.T) {
		svc, pos, _, _, prods := newService()
		line, err := trade.NewPurchaseOrderItem(flour.ID, flour.Name, dec("1"), dec("2100"))
		require.NoError(t, err)
		po, err := trade.NewPurchaseOrder(tenantID, supplier.ID, warehouse.ID, []trade.PurchaseOrderItem{line})
		require.NoError(t, err)
		po.MarkPersisted()
		pos.On("FindByIDForTenant", ctx, tenantID, po.ID).Return(po, nil)
		pos.On("Save", ctx, po).Return(nil)
		prods.On("FindByIDs", ctx, tenantID, []uuid.UUID{flour.ID}).Return([]catalog.Product{flour}, nil)

		submitted, err := svc.UpdateStatus(ctx, tenantID, po.ID, UpdatePurchaseOrderStatusRequest{Status: "SUBMITTED"})
		require.NoError(t, err)
		assert.Equal(t, "SUBMITTED", submitted.Status)

		_, err = svc.UpdateItems(ctx, tenantID, po.ID, UpdatePurchaseOrderItemsRequest{
			Items: []PurchaseOrderItemInput{{ProductID: flour.ID, Quantity: dec("2")}},
		})
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "PURCHASE_ORDER_LOCKED", de.Code)

		_, err = svc.UpdateStatus(ctx, tenantID, po.ID, UpdatePurchaseOrderStatusRequest{Status: "RECEIVED"})
		assert.ErrorIs(t, err, shared.ErrInvalidStatusTransition)

		assert.ErrorIs(t, svc.Delete(ctx, tenantID, po.ID), shared.ErrInvalidState)
	})
}
