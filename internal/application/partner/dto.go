package partner

import (
	"time"

	"github.com/bakery/backend/internal/domain/partner"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Customer DTOs
// =============================================================================

// AddressDTO is a postal address in requests and responses
type AddressDTO struct {
	Line       string `json:"line" binding:"max=500"`
	City       string `json:"city" binding:"max=100"`
	State      string `json:"state" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"max=20"`
	Country    string `json:"country" binding:"max=100"`
}

// BillingDTO carries invoicing terms
type BillingDTO struct {
	TaxID            string          `json:"tax_id" binding:"max=50"`
	BillingAddress   string          `json:"billing_address" binding:"max=500"`
	CreditLimit      decimal.Decimal `json:"credit_limit"`
	PaymentTermsDays int             `json:"payment_terms_days" binding:"min=0,max=365"`
}

// CreateCustomerRequest represents a request to create a new customer
type CreateCustomerRequest struct {
	Code    string      `json:"code" binding:"required,min=1,max=50"`
	Name    string      `json:"name" binding:"required,min=1,max=200"`
	Type    string      `json:"type" binding:"required,oneof=INDIVIDUAL B2B COMMUNITY"`
	Email   string      `json:"email" binding:"omitempty,email,max=200"`
	Phone   string      `json:"phone" binding:"max=50"`
	Address *AddressDTO `json:"address"`
	Billing *BillingDTO `json:"billing"`
	Notes   string      `json:"notes"`
}

// UpdateCustomerRequest represents a request to update a customer.
// Nil fields are left unchanged.
type UpdateCustomerRequest struct {
	Name    *string     `json:"name" binding:"omitempty,min=1,max=200"`
	Type    *string     `json:"type" binding:"omitempty,oneof=INDIVIDUAL B2B COMMUNITY"`
	Email   *string     `json:"email" binding:"omitempty,max=200"`
	Phone   *string     `json:"phone" binding:"omitempty,max=50"`
	Address *AddressDTO `json:"address"`
	Billing *BillingDTO `json:"billing"`
	Notes   *string     `json:"notes"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID        uuid.UUID  `json:"id"`
	TenantID  uuid.UUID  `json:"tenant_id"`
	Code      string     `json:"code"`
	Name      string     `json:"name"`
	Type      string     `json:"type"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Address   AddressDTO `json:"address"`
	Billing   BillingDTO `json:"billing"`
	Notes     string     `json:"notes"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Version   int        `json:"version"`
}

// CustomerListFilter represents filter options for customer list
type CustomerListFilter struct {
	Search   string `form:"search"`
	Type     string `form:"type" binding:"omitempty,oneof=INDIVIDUAL B2B COMMUNITY"`
	IsActive *bool  `form:"is_active"`
	City     string `form:"city"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f CustomerListFilter) toDomain() shared.Filter {
	df := shared.NewFilter(f.Page, f.PageSize, f.OrderBy, f.OrderDir)
	df.Search = f.Search
	if f.Type != "" {
		df.Filters["type"] = f.Type
	}
	if f.IsActive != nil {
		df.Filters["is_active"] = *f.IsActive
	}
	if f.City != "" {
		df.Filters["city"] = f.City
	}
	return df
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:       c.ID,
		TenantID: c.TenantID,
		Code:     c.Code,
		Name:     c.Name,
		Type:     string(c.Type),
		Email:    c.Email,
		Phone:    c.Phone,
		Address: AddressDTO{
			Line:       c.Address.Line,
			City:       c.Address.City,
			State:      c.Address.State,
			PostalCode: c.Address.PostalCode,
			Country:    c.Address.Country,
		},
		Billing: BillingDTO{
			TaxID:            c.Billing.TaxID,
			BillingAddress:   c.Billing.BillingAddress,
			CreditLimit:      c.Billing.CreditLimit,
			PaymentTermsDays: c.Billing.PaymentTermsDays,
		},
		Notes:     c.Notes,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Version:   c.Version,
	}
}

// ToCustomerResponses converts a slice of customers
func ToCustomerResponses(customers []partner.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses
}

func (a AddressDTO) toDomain() partner.Address {
	return partner.Address{
		Line:       a.Line,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

func (b BillingDTO) toDomain() partner.Billing {
	return partner.Billing{
		TaxID:            b.TaxID,
		BillingAddress:   b.BillingAddress,
		CreditLimit:      b.CreditLimit,
		PaymentTermsDays: b.PaymentTermsDays,
	}
}

// =============================================================================
// Supplier DTOs
// =============================================================================

// CreateSupplierRequest represents a request to create a supplier
type CreateSupplierRequest struct {
	Code          string `json:"code" binding:"required,min=1,max=50"`
	Name          string `json:"name" binding:"required,min=1,max=200"`
	ContactPerson string `json:"contact_person" binding:"max=100"`
	Email         string `json:"email" binding:"omitempty,email,max=200"`
	Phone         string `json:"phone" binding:"max=50"`
	Address       string `json:"address" binding:"max=500"`
	TaxID         string `json:"tax_id" binding:"max=50"`
}

// UpdateSupplierRequest represents a request to update a supplier.
// Nil fields are left unchanged.
type UpdateSupplierRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=1,max=200"`
	ContactPerson *string `json:"contact_person" binding:"omitempty,max=100"`
	Email         *string `json:"email" binding:"omitempty,max=200"`
	Phone         *string `json:"phone" binding:"omitempty,max=50"`
	Address       *string `json:"address" binding:"omitempty,max=500"`
	TaxID         *string `json:"tax_id" binding:"omitempty,max=50"`
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID            uuid.UUID `json:"id"`
	TenantID      uuid.UUID `json:"tenant_id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contact_person"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	TaxID         string    `json:"tax_id"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Version       int       `json:"version"`
}

// SupplierListFilter represents filter options for supplier list
type SupplierListFilter struct {
	Search   string `form:"search"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f SupplierListFilter) toDomain() shared.Filter {
	df := shared.NewFilter(f.Page, f.PageSize, f.OrderBy, f.OrderDir)
	df.Search = f.Search
	if f.IsActive != nil {
		df.Filters["is_active"] = *f.IsActive
	}
	return df
}

// ToSupplierResponse converts a domain Supplier to SupplierResponse
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:            s.ID,
		TenantID:      s.TenantID,
		Code:          s.Code,
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Email:         s.Email,
		Phone:         s.Phone,
		Address:       s.Address,
		TaxID:         s.TaxID,
		IsActive:      s.IsActive,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
		Version:       s.Version,
	}
}

// ToSupplierResponses converts a slice of suppliers
func ToSupplierResponses(suppliers []partner.Supplier) []SupplierResponse {
	responses := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		responses[i] = ToSupplierResponse(&suppliers[i])
	}
	return responses
}

