package partner

import (
	"net/mail"
	"regexp"
	"strings"

	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerType classifies who the bakery sells to
type CustomerType string

const (
	CustomerTypeIndividual CustomerType = "INDIVIDUAL"
	CustomerTypeB2B        CustomerType = "B2B"       // cafes, hotels, resellers
	CustomerTypeCommunity  CustomerType = "COMMUNITY" // schools, temples, housing societies
)

// IsValid reports whether the type is known
func (t CustomerType) IsValid() bool {
	switch t {
	case CustomerTypeIndividual, CustomerTypeB2B, CustomerTypeCommunity:
		return true
	}
	return false
}

var phonePattern = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)

// Address is a postal address
type Address struct {
	Line       string
	City       string
	State      string
	PostalCode string
	Country    string
}

// Billing holds invoicing and credit terms
type Billing struct {
	TaxID            string // GSTIN for Indian B2B customers
	BillingAddress   string
	CreditLimit      decimal.Decimal
	PaymentTermsDays int
}

// Customer is the aggregate root for customer records.
// Customers are soft-deactivated through IsActive.
type Customer struct {
	shared.TenantAggregateRoot
	Code     string
	Name     string
	Type     CustomerType
	Email    string
	Phone    string
	Address  Address
	Billing  Billing
	Notes    string
	IsActive bool
}

// NewCustomer creates an active customer
func NewCustomer(tenantID uuid.UUID, code, name string, customerType CustomerType) (*Customer, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if err := validateCustomerCode(code); err != nil {
		return nil, err
	}
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}
	if !customerType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Customer type must be one of INDIVIDUAL, B2B, COMMUNITY")
	}
	return &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                strings.TrimSpace(name),
		Type:                customerType,
		Billing:             Billing{CreditLimit: decimal.Zero},
		IsActive:            true,
	}, nil
}

// Update replaces the profile fields
func (c *Customer) Update(name string, customerType CustomerType, notes string) error {
	if err := validateCustomerName(name); err != nil {
		return err
	}
	if !customerType.IsValid() {
		return shared.NewDomainError("INVALID_TYPE", "Customer type must be one of INDIVIDUAL, B2B, COMMUNITY")
	}
	c.Name = strings.TrimSpace(name)
	c.Type = customerType
	c.Notes = notes
	c.Touch()
	c.IncrementVersion()
	return nil
}

// SetContact sets email and phone. Empty values clear the field.
func (c *Customer) SetContact(email, phone string) error {
	email = strings.TrimSpace(email)
	phone = strings.TrimSpace(phone)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
		}
	}
	if phone != "" {
		if len(phone) > 50 || !phonePattern.MatchString(phone) {
			return shared.NewDomainError("INVALID_PHONE", "Phone number is not valid")
		}
	}
	c.Email = strings.ToLower(email)
	c.Phone = phone
	c.Touch()
	c.IncrementVersion()
	return nil
}

// SetAddress sets the postal address
func (c *Customer) SetAddress(addr Address) {
	c.Address = addr
	c.Touch()
	c.IncrementVersion()
}

// SetBilling sets tax and credit terms
func (c *Customer) SetBilling(b Billing) error {
	if b.CreditLimit.IsNegative() {
		return shared.NewDomainError("INVALID_CREDIT_LIMIT", "Credit limit cannot be negative")
	}
	if b.PaymentTermsDays < 0 {
		return shared.NewDomainError("INVALID_PAYMENT_TERMS", "Payment terms cannot be negative")
	}
	c.Billing = b
	c.Touch()
	c.IncrementVersion()
	return nil
}

// Activate re-enables the customer
func (c *Customer) Activate() {
	c.IsActive = true
	c.Touch()
	c.IncrementVersion()
}

// Deactivate soft-deletes the customer
func (c *Customer) Deactivate() {
	c.IsActive = false
	c.Touch()
	c.IncrementVersion()
}

func validateCustomerCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Customer code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Customer code cannot exceed 50 characters")
	}
	return nil
}

func validateCustomerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}
