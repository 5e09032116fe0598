package delivery

import (
	"context"
	"testing"
	"time"

	"github.com/bakery/backend/internal/domain/delivery"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/bakery/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDeliveryRepository is a mock implementation of delivery.Repository
type MockDeliveryRepository struct {
	mock.Mock
}

func (m *MockDeliveryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter delivery.Filter) ([]delivery.Delivery, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]delivery.Delivery), args.Get(1).(int64), args.Error(2)
}

func (m *MockDeliveryRepository) Save(ctx context.Context, d *delivery.Delivery) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDeliveryRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// stubOrderRepo serves a single order; other methods are unused here
type stubOrderRepo struct {
	trade.OrderRepository
	order *trade.Order
}

func (s *stubOrderRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*trade.Order, error) {
	if s.order == nil || s.order.ID != id || s.order.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return s.order, nil
}

func newOrder(t *testing.T, tenantID uuid.UUID) *trade.Order {
	t.Helper()
	item, err := trade.NewOrderItem(uuid.New(), "Sourdough", "BRD-SD", decimal.NewFromInt(2), decimal.NewFromInt(120))
	require.NoError(t, err)
	o, err := trade.NewOrder(tenantID, uuid.New(), trade.ChannelOnline, nil, []trade.OrderItem{item})
	require.NoError(t, err)
	o.SetDelivery(nil, "12 Mill Lane", "")
	return o
}

func TestDeliveryService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	order := newOrder(t, tenantID)

	t.Run("falls back to order address", func(t *testing.T) {
		repo := new(MockDeliveryRepository)
		svc := NewDeliveryService(repo, &stubOrderRepo{order: order})
		repo.On("Save", ctx, mock.AnythingOfType("*delivery.Delivery")).Return(nil)

		resp, err := svc.Create(ctx, tenantID, CreateDeliveryRequest{
			OrderID:       order.ID,
			ScheduledDate: time.Now().Add(time.Hour),
			Driver:        DriverDTO{Name: "Ravi", Phone: "555-0101"},
		})
		require.NoError(t, err)
		assert.Equal(t, "12 Mill Lane", resp.Address)
		assert.Equal(t, "SCHEDULED", resp.Status)
		assert.Equal(t, "Ravi", resp.Driver.Name)
		assert.Contains(t, resp.TrackingNumber, "DLV-")
		repo.AssertExpectations(t)
	})

	t.Run("unknown order", func(t *testing.T) {
		repo := new(MockDeliveryRepository)
		svc := NewDeliveryService(repo, &stubOrderRepo{order: order})

		_, err := svc.Create(ctx, tenantID, CreateDeliveryRequest{OrderID: uuid.New(), ScheduledDate: time.Now()})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("order from another tenant", func(t *testing.T) {
		repo := new(MockDeliveryRepository)
		svc := NewDeliveryService(repo, &stubOrderRepo{order: order})

		_, err := svc.Create(ctx, uuid.New(), CreateDeliveryRequest{OrderID: order.ID, ScheduledDate: time.Now()})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("no address anywhere", func(t *testing.T) {
		bare := newOrder(t, tenantID)
		bare.SetDelivery(nil, "", "")
		svc := NewDeliveryService(new(MockDeliveryRepository), &stubOrderRepo{order: bare})

		_, err := svc.Create(ctx, tenantID, CreateDeliveryRequest{OrderID: bare.ID, ScheduledDate: time.Now()})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_ADDRESS", domainErr.Code)
	})

	t.Run("cancelled order", func(t *testing.T) {
		cancelled := newOrder(t, tenantID)
		require.NoError(t, cancelled.Cancel("customer changed mind"))
		svc := NewDeliveryService(new(MockDeliveryRepository), &stubOrderRepo{order: cancelled})

		_, err := svc.Create(ctx, tenantID, CreateDeliveryRequest{OrderID: cancelled.ID, ScheduledDate: time.Now()})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestDeliveryService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	d, err := delivery.NewDelivery(tenantID, uuid.New(), time.Now(), "Market Rd")
	require.NoError(t, err)

	repo := new(MockDeliveryRepository)
	svc := NewDeliveryService(repo, &stubOrderRepo{})
	repo.On("FindByIDForTenant", ctx, tenantID, d.ID).Return(d, nil)
	repo.On("Save", ctx, d).Return(nil)

	resp, err := svc.UpdateStatus(ctx, tenantID, d.ID, UpdateDeliveryStatusRequest{Status: "DELIVERED"})
	assert.Nil(t, resp)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATUS_TRANSITION", domainErr.Code)

	resp, err = svc.Update(ctx, tenantID, d.ID, UpdateDeliveryRequest{Driver: DriverDTO{Name: "Anu", VehicleNumber: "KA-01"}})
	require.NoError(t, err)
	assert.Equal(t, "Market Rd", resp.Address)
	assert.Equal(t, "KA-01", resp.Driver.VehicleNumber)

	_, err = svc.UpdateStatus(ctx, tenantID, d.ID, UpdateDeliveryStatusRequest{Status: "IN_TRANSIT"})
	require.NoError(t, err)

	err = svc.Delete(ctx, tenantID, d.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	resp, err = svc.UpdateStatus(ctx, tenantID, d.ID, UpdateDeliveryStatusRequest{Status: "DELIVERED"})
	require.NoError(t, err)
	require.NotNil(t, resp.ActualDate)

	_, err = svc.Update(ctx, tenantID, d.ID, UpdateDeliveryRequest{Notes: "late"})
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DELIVERY_CLOSED", domainErr.Code)
	repo.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeliveryService_DeleteScheduled(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	d, err := delivery.NewDelivery(tenantID, uuid.New(), time.Now(), "Market Rd")
	require.NoError(t, err)

	repo := new(MockDeliveryRepository)
	svc := NewDeliveryService(repo, &stubOrderRepo{})
	repo.On("FindByIDForTenant", ctx, tenantID, d.ID).Return(d, nil)
	repo.On("DeleteForTenant", ctx, tenantID, d.ID).Return(nil)

	require.NoError(t, svc.Delete(ctx, tenantID, d.ID))
	repo.AssertExpectations(t)
}

func TestDeliveryService_List(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	d, _ := delivery.NewDelivery(tenantID, uuid.New(), time.Now(), "Market Rd")

	repo := new(MockDeliveryRepository)
	svc := NewDeliveryService(repo, &stubOrderRepo{})
	repo.On("FindAllForTenant", ctx, tenantID, mock.MatchedBy(func(f delivery.Filter) bool {
		return f.Status == delivery.StatusScheduled && f.Page == 2 && f.PageSize == 20 && f.OrderBy == "scheduled_date"
	})).Return([]delivery.Delivery{*d}, int64(21), nil)

	list, total, err := svc.List(ctx, tenantID, DeliveryListFilter{Status: "SCHEDULED", Page: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(21), total)
	require.Len(t, list, 1)
	assert.Equal(t, d.ID, list[0].ID)
}
