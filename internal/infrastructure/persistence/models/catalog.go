package models

import (
	"github.com/bakery/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product aggregate root.
type ProductModel struct {
	TenantAggregateModel
	SKU           string          `gorm:"type:varchar(50);not null;index"`
	Name          string          `gorm:"type:varchar(200);not null"`
	Description   string          `gorm:"type:text"`
	Category      string          `gorm:"type:varchar(100);index"`
	Unit          string          `gorm:"type:varchar(20);not null;default:'pcs'"`
	BasePrice     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	CostPrice     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TaxRate       decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	MinStock      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReorderLevel  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ShelfLifeDays int             `gorm:"not null;default:0"`
	IsActive      bool            `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		TenantAggregateRoot: m.Root(),
		SKU:                 m.SKU,
		Name:                m.Name,
		Description:         m.Description,
		Category:            m.Category,
		Unit:                m.Unit,
		BasePrice:           m.BasePrice,
		SellingPrice:        m.SellingPrice,
		CostPrice:           m.CostPrice,
		TaxRate:             m.TaxRate,
		MinStock:            m.MinStock,
		ReorderLevel:        m.ReorderLevel,
		ShelfLifeDays:       m.ShelfLifeDays,
		IsActive:            m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.SetRoot(p.TenantAggregateRoot)
	m.SKU = p.SKU
	m.Name = p.Name
	m.Description = p.Description
	m.Category = p.Category
	m.Unit = p.Unit
	m.BasePrice = p.BasePrice
	m.SellingPrice = p.SellingPrice
	m.CostPrice = p.CostPrice
	m.TaxRate = p.TaxRate
	m.MinStock = p.MinStock
	m.ReorderLevel = p.ReorderLevel
	m.ShelfLifeDays = p.ShelfLifeDays
	m.IsActive = p.IsActive
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
