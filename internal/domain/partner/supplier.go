package partner

import (
	"net/mail"
	"strings"

	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Supplier provides raw materials (flour mills, dairies, packaging vendors)
type Supplier struct {
	shared.TenantAggregateRoot
	Code          string
	Name          string
	ContactPerson string
	Email         string
	Phone         string
	Address       string
	TaxID         string
	IsActive      bool
}

// NewSupplier creates an active supplier
func NewSupplier(tenantID uuid.UUID, code, name string) (*Supplier, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	name = strings.TrimSpace(name)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Supplier code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}
	return &Supplier{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                name,
		IsActive:            true,
	}, nil
}

// Update replaces the supplier profile
func (s *Supplier) Update(name, contactPerson, email, phone, address, taxID string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}
	email = strings.TrimSpace(email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
		}
	}
	if phone != "" && !phonePattern.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Phone number is not valid")
	}
	s.Name = name
	s.ContactPerson = contactPerson
	s.Email = strings.ToLower(email)
	s.Phone = phone
	s.Address = address
	s.TaxID = taxID
	s.Touch()
	s.IncrementVersion()
	return nil
}

// Deactivate stops new purchase orders to this supplier
func (s *Supplier) Deactivate() {
	s.IsActive = false
	s.Touch()
	s.IncrementVersion()
}
