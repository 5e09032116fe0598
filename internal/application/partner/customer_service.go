package partner

import (
	"context"

	"github.com/bakery/backend/internal/domain/partner"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrCustomerInUse is returned when deleting a customer that orders still reference
var ErrCustomerInUse = shared.NewDomainError("CUSTOMER_IN_USE", "Customer is referenced by orders; deactivate it instead")

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
	}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	customer, err := partner.NewCustomer(tenantID, req.Code, req.Name, partner.CustomerType(req.Type))
	if err != nil {
		return nil, err
	}

	exists, err := s.customerRepo.ExistsByCode(ctx, tenantID, customer.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this code already exists")
	}

	if req.Email != "" || req.Phone != "" {
		if err := customer.SetContact(req.Email, req.Phone); err != nil {
			return nil, err
		}
	}
	if req.Address != nil {
		customer.SetAddress(req.Address.toDomain())
	}
	if req.Billing != nil {
		if err := customer.SetBilling(req.Billing.toDomain()); err != nil {
			return nil, err
		}
	}
	customer.Notes = req.Notes

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves a list of customers with filtering and pagination
func (s *CustomerService) List(ctx context.Context, tenantID uuid.UUID, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	customers, total, err := s.customerRepo.FindAllForTenant(ctx, tenantID, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	return ToCustomerResponses(customers), total, nil
}

// Update updates a customer
func (s *CustomerService) Update(ctx context.Context, tenantID, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Type != nil || req.Notes != nil {
		name, customerType, notes := customer.Name, customer.Type, customer.Notes
		if req.Name != nil {
			name = *req.Name
		}
		if req.Type != nil {
			customerType = partner.CustomerType(*req.Type)
		}
		if req.Notes != nil {
			notes = *req.Notes
		}
		if err := customer.Update(name, customerType, notes); err != nil {
			return nil, err
		}
	}

	if req.Email != nil || req.Phone != nil {
		email, phone := customer.Email, customer.Phone
		if req.Email != nil {
			email = *req.Email
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if err := customer.SetContact(email, phone); err != nil {
			return nil, err
		}
	}

	if req.Address != nil {
		customer.SetAddress(req.Address.toDomain())
	}
	if req.Billing != nil {
		if err := customer.SetBilling(req.Billing.toDomain()); err != nil {
			return nil, err
		}
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Activate re-enables a customer
func (s *CustomerService) Activate(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	customer.Activate()
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// Deactivate soft-deletes a customer
func (s *CustomerService) Deactivate(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	customer.Deactivate()
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// Delete hard-deletes a customer that no order references
func (s *CustomerService) Delete(ctx context.Context, tenantID, customerID uuid.UUID) error {
	if _, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID); err != nil {
		return err
	}

	inUse, err := s.customerRepo.HasOrders(ctx, tenantID, customerID)
	if err != nil {
		return err
	}
	if inUse {
		return ErrCustomerInUse
	}

	return s.customerRepo.DeleteForTenant(ctx, tenantID, customerID)
}
