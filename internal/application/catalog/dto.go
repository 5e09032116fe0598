package catalog

import (
	"time"

	"github.com/bakery/backend/internal/domain/catalog"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	SKU           string           `json:"sku" binding:"required,min=1,max=50"`
	Name          string           `json:"name" binding:"required,min=1,max=200"`
	Description   string           `json:"description"`
	Category      string           `json:"category" binding:"max=100"`
	Unit          string           `json:"unit" binding:"max=20"`
	BasePrice     decimal.Decimal  `json:"base_price"`
	SellingPrice  decimal.Decimal  `json:"selling_price" binding:"required"`
	CostPrice     decimal.Decimal  `json:"cost_price"`
	TaxRate       *decimal.Decimal `json:"tax_rate"`
	MinStock      decimal.Decimal  `json:"min_stock"`
	ReorderLevel  decimal.Decimal  `json:"reorder_level"`
	ShelfLifeDays int              `json:"shelf_life_days" binding:"min=0"`
}

// UpdateProductRequest represents a request to update descriptive fields.
// Nil fields are left unchanged.
type UpdateProductRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description   *string          `json:"description"`
	Category      *string          `json:"category" binding:"omitempty,max=100"`
	Unit          *string          `json:"unit" binding:"omitempty,max=20"`
	ShelfLifeDays *int             `json:"shelf_life_days" binding:"omitempty,min=0"`
	MinStock      *decimal.Decimal `json:"min_stock"`
	ReorderLevel  *decimal.Decimal `json:"reorder_level"`
}

// UpdatePricesRequest replaces all price points at once
type UpdatePricesRequest struct {
	BasePrice    decimal.Decimal `json:"base_price"`
	SellingPrice decimal.Decimal `json:"selling_price" binding:"required"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	TenantID      uuid.UUID       `json:"tenant_id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Unit          string          `json:"unit"`
	BasePrice     decimal.Decimal `json:"base_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Margin        decimal.Decimal `json:"margin"`
	MinStock      decimal.Decimal `json:"min_stock"`
	ReorderLevel  decimal.Decimal `json:"reorder_level"`
	ShelfLifeDays int             `json:"shelf_life_days"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// PublicProductResponse is the storefront view; cost and margin are omitted
type PublicProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Unit          string          `json:"unit"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	ShelfLifeDays int             `json:"shelf_life_days"`
}

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Unit     string `form:"unit"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f ProductListFilter) toDomain() shared.Filter {
	df := shared.NewFilter(f.Page, f.PageSize, f.OrderBy, f.OrderDir)
	df.Search = f.Search
	if f.Category != "" {
		df.Filters["category"] = f.Category
	}
	if f.Unit != "" {
		df.Filters["unit"] = f.Unit
	}
	if f.IsActive != nil {
		df.Filters["is_active"] = *f.IsActive
	}
	return df
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		TenantID:      p.TenantID,
		SKU:           p.SKU,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		Unit:          p.Unit,
		BasePrice:     p.BasePrice,
		SellingPrice:  p.SellingPrice,
		CostPrice:     p.CostPrice,
		TaxRate:       p.TaxRate,
		Margin:        p.Margin(),
		MinStock:      p.MinStock,
		ReorderLevel:  p.ReorderLevel,
		ShelfLifeDays: p.ShelfLifeDays,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Version:       p.Version,
	}
}

// ToProductResponses converts a slice of products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// ToPublicProductResponse converts a product to its storefront view
func ToPublicProductResponse(p *catalog.Product) PublicProductResponse {
	return PublicProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		Unit:          p.Unit,
		SellingPrice:  p.SellingPrice,
		TaxRate:       p.TaxRate,
		ShelfLifeDays: p.ShelfLifeDays,
	}
}
