package models

import (
	"github.com/bakery/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// CustomerModel is the persistence model for the Customer aggregate root.
type CustomerModel struct {
	TenantAggregateModel
	Code             string               `gorm:"type:varchar(50);not null;index"`
	Name             string               `gorm:"type:varchar(200);not null"`
	Type             partner.CustomerType `gorm:"type:varchar(20);not null;default:'INDIVIDUAL'"`
	Email            string               `gorm:"type:varchar(200)"`
	Phone            string               `gorm:"type:varchar(50)"`
	AddressLine      string               `gorm:"type:varchar(500)"`
	City             string               `gorm:"type:varchar(100)"`
	State            string               `gorm:"type:varchar(100)"`
	PostalCode       string               `gorm:"type:varchar(20)"`
	Country          string               `gorm:"type:varchar(100)"`
	TaxID            string               `gorm:"type:varchar(50)"`
	BillingAddress   string               `gorm:"type:varchar(500)"`
	CreditLimit      decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	PaymentTermsDays int                  `gorm:"not null;default:0"`
	Notes            string               `gorm:"type:text"`
	IsActive         bool                 `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		TenantAggregateRoot: m.Root(),
		Code:                m.Code,
		Name:                m.Name,
		Type:                m.Type,
		Email:               m.Email,
		Phone:               m.Phone,
		Address: partner.Address{
			Line:       m.AddressLine,
			City:       m.City,
			State:      m.State,
			PostalCode: m.PostalCode,
			Country:    m.Country,
		},
		Billing: partner.Billing{
			TaxID:            m.TaxID,
			BillingAddress:   m.BillingAddress,
			CreditLimit:      m.CreditLimit,
			PaymentTermsDays: m.PaymentTermsDays,
		},
		Notes:    m.Notes,
		IsActive: m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.SetRoot(c.TenantAggregateRoot)
	m.Code = c.Code
	m.Name = c.Name
	m.Type = c.Type
	m.Email = c.Email
	m.Phone = c.Phone
	m.AddressLine = c.Address.Line
	m.City = c.Address.City
	m.State = c.Address.State
	m.PostalCode = c.Address.PostalCode
	m.Country = c.Address.Country
	m.TaxID = c.Billing.TaxID
	m.BillingAddress = c.Billing.BillingAddress
	m.CreditLimit = c.Billing.CreditLimit
	m.PaymentTermsDays = c.Billing.PaymentTermsDays
	m.Notes = c.Notes
	m.IsActive = c.IsActive
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// SupplierModel is the persistence model for the Supplier aggregate root.
type SupplierModel struct {
	TenantAggregateModel
	Code          string `gorm:"type:varchar(50);not null;index"`
	Name          string `gorm:"type:varchar(200);not null"`
	ContactPerson string `gorm:"type:varchar(100)"`
	Email         string `gorm:"type:varchar(200)"`
	Phone         string `gorm:"type:varchar(50)"`
	Address       string `gorm:"type:varchar(500)"`
	TaxID         string `gorm:"type:varchar(50)"`
	IsActive      bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the persistence model to a domain Supplier entity.
func (m *SupplierModel) ToDomain() *partner.Supplier {
	return &partner.Supplier{
		TenantAggregateRoot: m.Root(),
		Code:                m.Code,
		Name:                m.Name,
		ContactPerson:       m.ContactPerson,
		Email:               m.Email,
		Phone:               m.Phone,
		Address:             m.Address,
		TaxID:               m.TaxID,
		IsActive:            m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Supplier entity.
func (m *SupplierModel) FromDomain(s *partner.Supplier) {
	m.SetRoot(s.TenantAggregateRoot)
	m.Code = s.Code
	m.Name = s.Name
	m.ContactPerson = s.ContactPerson
	m.Email = s.Email
	m.Phone = s.Phone
	m.Address = s.Address
	m.TaxID = s.TaxID
	m.IsActive = s.IsActive
}

// SupplierModelFromDomain creates a new persistence model from a domain Supplier entity.
func SupplierModelFromDomain(s *partner.Supplier) *SupplierModel {
	m := &SupplierModel{}
	m.FromDomain(s)
	return m
}
