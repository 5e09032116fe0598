package partner

import (
	"context"
	"errors"
	"testing"

	"github.com/bakery/backend/internal/domain/partner"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Repositories
// =============================================================================

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

// MockSupplierRepository is a mock implementation of SupplierRepository
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

// =============================================================================
// Helpers
// =============================================================================

func newTestCustomer(t *testing.T, tenantID uuid.UUID) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(tenantID, "CUST-001", "Lakeview Cafe", partner.CustomerTypeB2B)
	require.NoError(t, err)
	return c
}

// =============================================================================
// CustomerService Tests
// =============================================================================

func TestCustomerService_Create_Success(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo)

	ctx := context.Background()
	tenantID := uuid.New()
	req := CreateCustomerRequest{
		Code:  "cust-001",
		Name:  "Lakeview Cafe",
		Type:  "B2B",
		Email: "Orders@Lakeview.test",
		Phone: "+91 98450 12345",
		Address: &AddressDTO{
			Line: "12 MG Road", City: "Bengaluru", State: "KA", PostalCode: "560001", Country: "IN",
		},
		Billing: &BillingDTO{TaxID: "29ABCDE1234F1Z5", CreditLimit: decimal.NewFromInt(25000), PaymentTermsDays: 15},
	}

	mockRepo.On("ExistsByCode", ctx, tenantID, "CUST-001").Return(false, nil)
	mockRepo.On("Save", ctx, mock.AnythingOfType("*partner.Customer")).Return(nil)

	result, err := service.Create(ctx, tenantID, req)

	require.NoError(t, err)
	assert.Equal(t, "CUST-001", result.Code)
	assert.Equal(t, "B2B", result.Type)
	assert.Equal(t, "orders@lakeview.test", result.Email)
	assert.Equal(t, "Bengaluru", result.Address.City)
	assert.True(t, result.Billing.CreditLimit.Equal(decimal.NewFromInt(25000)))
	assert.True(t, result.IsActive)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_Create_DuplicateCode(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo)

	ctx := context.Background()
	tenantID := uuid.New()
	mockRepo.On("ExistsByCode", ctx, tenantID, "CUST-001").Return(true, nil)

	result, err := service.Create(ctx, tenantID, CreateCustomerRequest{Code: "CUST-001", Name: "Dup", Type: "INDIVIDUAL"})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCustomerService_Create_InvalidEmail(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo)

	ctx := context.Background()
	tenantID := uuid.New()
	mockRepo.On("ExistsByCode", ctx, tenantID, "CUST-002").Return(false, nil)

	_, err := service.Create(ctx, tenantID, CreateCustomerRequest{Code: "CUST-002", Name: "Asha", Type: "INDIVIDUAL", Email: "not-an-email"})

	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "INVALID_EMAIL", de.Code)
}

func TestCustomerService_List_PassesFilters(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo)

	ctx := context.Background()
	tenantID := uuid.New()
	active := true
	customer := newTestCustomer(t, tenantID)

	mockRepo.On("FindAllForTenant", ctx, tenantID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 2 && f.PageSize == 10 && f.Search == "cafe" &&
			f.Filters["type"] == "B2B" && f.Filters["is_active"] == true &&
			f.OrderBy == "name" && f.OrderDir == "asc"
	})).Return([]partner.Customer{*customer}, int64(11), nil)

	result, total, err := service.List(ctx, tenantID, CustomerListFilter{
		Search: "cafe", Type: "B2B", IsActive: &active, Page: 2, PageSize: 10, OrderBy: "name", OrderDir: "asc",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(11), total)
	require.Len(t, result, 1)
	assert.Equal(t, customer.ID, result[0].ID)
}

func TestCustomerService_Update_PartialFields(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo)

	ctx := context.Background()
	tenantID := uuid.New()
	customer := newTestCustomer(t, tenantID)
	require.NoError(t, customer.SetContact("old@lakeview.test", "080 1234"))

	mockRepo.On("FindByIDForTenant", ctx, tenantID, customer.ID).Return(customer, nil)
	mockRepo.On("Save", ctx, customer).Return(nil)

	phone := "080 9999"
	result, err := service.Update(ctx, tenantID, customer.ID, UpdateCustomerRequest{Phone: &phone})

	require.NoError(t, err)
	assert.Equal(t, "080 9999", result.Phone)
	assert.Equal(t, "old@lakeview.test", result.Email)
	assert.Equal(t, "Lakeview Cafe", result.Name)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_Update_ConcurrencyConflict(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo)

	ctx := context.Background()
	tenantID := uuid.New()
	customer := newTestCustomer(t, tenantID)
	name := "Renamed"

	mockRepo.On("FindByIDForTenant", ctx, tenantID, customer.ID).Return(customer, nil)
	mockRepo.On("Save", ctx, customer).Return(shared.ErrConcurrencyConflict)

	_, err := service.Update(ctx, tenantID, customer.ID, UpdateCustomerRequest{Name: &name})
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}

func TestCustomerService_ActivateDeactivate(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo)

	ctx := context.Background()
	tenantID := uuid.New()
	customer := newTestCustomer(t, tenantID)

	mockRepo.On("FindByIDForTenant", ctx, tenantID, customer.ID).Return(customer, nil)
	mockRepo.On("Save", ctx, customer).Return(nil)

	result, err := service.Deactivate(ctx, tenantID, customer.ID)
	require.NoError(t, err)
	assert.False(t, result.IsActive)

	result, err = service.Activate(ctx, tenantID, customer.ID)
	require.NoError(t, err)
	assert.True(t, result.IsActive)
}

func TestCustomerService_Delete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("no orders", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		customer := newTestCustomer(t, tenantID)
		mockRepo.On("FindByIDForTenant", ctx, tenantID, customer.ID).Return(customer, nil)
		mockRepo.On("HasOrders", ctx, tenantID, customer.ID).Return(false, nil)
		mockRepo.On("DeleteForTenant", ctx, tenantID, customer.ID).Return(nil)

		require.NoError(t, NewCustomerService(mockRepo).Delete(ctx, tenantID, customer.ID))
		mockRepo.AssertExpectations(t)
	})

	t.Run("referenced by orders", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		customer := newTestCustomer(t, tenantID)
		mockRepo.On("FindByIDForTenant", ctx, tenantID, customer.ID).Return(customer, nil)
		mockRepo.On("HasOrders", ctx, tenantID, customer.ID).Return(true, nil)

		err := NewCustomerService(mockRepo).Delete(ctx, tenantID, customer.ID)
		assert.ErrorIs(t, err, ErrCustomerInUse)
		mockRepo.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		id := uuid.New()
		mockRepo.On("FindByIDForTenant", ctx, tenantID, id).Return(nil, shared.ErrNotFound)

		err := NewCustomerService(mockRepo).Delete(ctx, tenantID, id)
		assert.True(t, shared.IsNotFound(err))
	})
}

// =============================================================================
// SupplierService Tests
// =============================================================================

func TestSupplierService_CreateAndUpdate(t *testing.T) {
	mockRepo := new(MockSupplierRepository)
	service := NewSupplierService(mockRepo)

	ctx := context.Background()
	tenantID := uuid.New()

	mockRepo.On("ExistsByCode", ctx, tenantID, "MILL-01").Return(false, nil)
	mockRepo.On("Save", ctx, mock.AnythingOfType("*partner.Supplier")).Return(nil)

	created, err := service.Create(ctx, tenantID, CreateSupplierRequest{
		Code: "mill-01", Name: "Shakti Flour Mill", ContactPerson: "R. Iyer", Email: "sales@shakti.test",
	})
	require.NoError(t, err)
	assert.Equal(t, "MILL-01", created.Code)
	assert.Equal(t, "R. Iyer", created.ContactPerson)

	supplier, err := partner.NewSupplier(tenantID, "MILL-01", "Shakti Flour Mill")
	require.NoError(t, err)
	mockRepo.On("FindByIDForTenant", ctx, tenantID, supplier.ID).Return(supplier, nil)

	phone := "044 2345 6789"
	updated, err := service.Update(ctx, tenantID, supplier.ID, UpdateSupplierRequest{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, updated.Phone)
	assert.Equal(t, "Shakti Flour Mill", updated.Name)

	deactivated, err := service.Deactivate(ctx, tenantID, supplier.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)
}

func TestSupplierService_Create_DuplicateCode(t *testing.T) {
	mockRepo := new(MockSupplierRepository)
	service := NewSupplierService(mockRepo)

	ctx := context.Background()
	tenantID := uuid.New()
	mockRepo.On("ExistsByCode", ctx, tenantID, "MILL-01").Return(true, nil)

	_, err := service.Create(ctx, tenantID, CreateSupplierRequest{Code: "MILL-01", Name: "Dup"})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}
