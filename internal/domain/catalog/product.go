package catalog

import (
	"strings"

	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Prices groups the three price points of a product
type Prices struct {
	Base    decimal.Decimal
	Selling decimal.Decimal
	Cost    decimal.Decimal
}

func (p Prices) validate() error {
	for _, v := range []struct {
		name  string
		price decimal.Decimal
	}{{"Base price", p.Base}, {"Selling price", p.Selling}, {"Cost price", p.Cost}} {
		if err := shared.ValidatePrice(v.name, v.price); err != nil {
			return err
		}
	}
	if p.Selling.IsZero() {
		return shared.NewDomainError("INVALID_PRICE", "Selling price is required")
	}
	return nil
}

// Product is a sellable or stocked item (bread, cake, flour, packaging)
type Product struct {
	shared.TenantAggregateRoot
	SKU           string
	Name          string
	Description   string
	Category      string
	Unit          string
	BasePrice     decimal.Decimal
	SellingPrice  decimal.Decimal
	CostPrice     decimal.Decimal
	TaxRate       decimal.Decimal // percent
	MinStock      decimal.Decimal
	ReorderLevel  decimal.Decimal
	ShelfLifeDays int
	IsActive      bool
}

// NewProduct creates an active product
func NewProduct(tenantID uuid.UUID, sku, name, unit string, prices Prices, taxRate decimal.Decimal) (*Product, error) {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	name = strings.TrimSpace(name)
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 50 {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 50 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if strings.TrimSpace(unit) == "" {
		unit = "pcs"
	}
	if err := prices.validate(); err != nil {
		return nil, err
	}
	if err := validateTaxRate(taxRate); err != nil {
		return nil, err
	}
	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SKU:                 sku,
		Name:                name,
		Unit:                unit,
		BasePrice:           prices.Base,
		SellingPrice:        prices.Selling,
		CostPrice:           prices.Cost,
		TaxRate:             taxRate,
		MinStock:            decimal.Zero,
		ReorderLevel:        decimal.Zero,
		IsActive:            true,
	}, nil
}

// UpdateDetails changes descriptive fields
func (p *Product) UpdateDetails(name, description, category, unit string, shelfLifeDays int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if shelfLifeDays < 0 {
		return shared.NewDomainError("INVALID_SHELF_LIFE", "Shelf life cannot be negative")
	}
	p.Name = name
	p.Description = description
	p.Category = strings.TrimSpace(category)
	if strings.TrimSpace(unit) != "" {
		p.Unit = unit
	}
	p.ShelfLifeDays = shelfLifeDays
	p.Touch()
	p.IncrementVersion()
	return nil
}

// UpdatePrices replaces the price points and tax rate
func (p *Product) UpdatePrices(prices Prices, taxRate decimal.Decimal) error {
	if err := prices.validate(); err != nil {
		return err
	}
	if err := validateTaxRate(taxRate); err != nil {
		return err
	}
	p.BasePrice = prices.Base
	p.SellingPrice = prices.Selling
	p.CostPrice = prices.Cost
	p.TaxRate = taxRate
	p.Touch()
	p.IncrementVersion()
	return nil
}

// SetStockThresholds sets the alerting thresholds
func (p *Product) SetStockThresholds(minStock, reorderLevel decimal.Decimal) error {
	if minStock.IsNegative() || reorderLevel.IsNegative() {
		return shared.NewDomainError("INVALID_THRESHOLD", "Stock thresholds cannot be negative")
	}
	p.MinStock = minStock
	p.ReorderLevel = reorderLevel
	p.Touch()
	p.IncrementVersion()
	return nil
}

// Activate makes the product sellable
func (p *Product) Activate() {
	p.IsActive = true
	p.Touch()
	p.IncrementVersion()
}

// Deactivate hides the product from sale
func (p *Product) Deactivate() {
	p.IsActive = false
	p.Touch()
	p.IncrementVersion()
}

// Margin is selling price minus cost price
func (p *Product) Margin() decimal.Decimal {
	return p.SellingPrice.Sub(p.CostPrice)
}

func validateTaxRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}
	return nil
}
