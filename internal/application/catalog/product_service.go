package catalog

import (
	"context"
	"encoding/json"

	"github.com/bakery/backend/internal/domain/catalog"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultProductTaxRate applies when a product is created without a tax rate
var DefaultProductTaxRate = decimal.NewFromInt(18)

// ErrProductInUse is returned when deleting a product that still has stock records
var ErrProductInUse = shared.NewDomainError("PRODUCT_IN_USE", "Product has inventory records; deactivate it instead")

// CatalogCache stores rendered storefront pages per tenant. Implementations
// treat their own failures as misses.
type CatalogCache interface {
	Get(ctx context.Context, tenantID uuid.UUID, key string) ([]byte, bool)
	Set(ctx context.Context, tenantID uuid.UUID, key string, data []byte)
	Invalidate(ctx context.Context, tenantID uuid.UUID)
}

// ProductService handles product-related business operations
type ProductService struct {
	productRepo catalog.ProductRepository
	cache       CatalogCache
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
	}
}

// SetCatalogCache enables caching of storefront listings. Every product
// write invalidates the tenant's cached pages.
func (s *ProductService) SetCatalogCache(cache CatalogCache) {
	s.cache = cache
}

func (s *ProductService) invalidateCatalog(ctx context.Context, tenantID uuid.UUID) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, tenantID)
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	taxRate := DefaultProductTaxRate
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}
	prices := catalog.Prices{Base: req.BasePrice, Selling: req.SellingPrice, Cost: req.CostPrice}
	product, err := catalog.NewProduct(tenantID, req.SKU, req.Name, req.Unit, prices, taxRate)
	if err != nil {
		return nil, err
	}

	exists, err := s.productRepo.ExistsBySKU(ctx, tenantID, product.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this SKU already exists")
	}

	if err := product.UpdateDetails(product.Name, req.Description, req.Category, product.Unit, req.ShelfLifeDays); err != nil {
		return nil, err
	}
	if err := product.SetStockThresholds(req.MinStock, req.ReorderLevel); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.invalidateCatalog(ctx, tenantID)

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, filter ProductListFilter) ([]ProductResponse, int64, error) {
	products, total, err := s.productRepo.FindAllForTenant(ctx, tenantID, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	return ToProductResponses(products), total, nil
}

type publicPage struct {
	Items []PublicProductResponse `json:"items"`
	Total int64                   `json:"total"`
}

// ListPublic lists active products for the storefront
func (s *ProductService) ListPublic(ctx context.Context, tenantID uuid.UUID, filter ProductListFilter) ([]PublicProductResponse, int64, error) {
	active := true
	filter.IsActive = &active

	var key string
	if s.cache != nil {
		if raw, err := json.Marshal(filter); err == nil {
			key = string(raw)
		}
	}
	if key != "" {
		if data, ok := s.cache.Get(ctx, tenantID, key); ok {
			var page publicPage
			if err := json.Unmarshal(data, &page); err == nil {
				return page.Items, page.Total, nil
			}
		}
	}

	products, total, err := s.productRepo.FindAllForTenant(ctx, tenantID, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	responses := make([]PublicProductResponse, len(products))
	for i := range products {
		responses[i] = ToPublicProductResponse(&products[i])
	}

	if key != "" {
		if data, err := json.Marshal(publicPage{Items: responses, Total: total}); err == nil {
			s.cache.Set(ctx, tenantID, key, data)
		}
	}
	return responses, total, nil
}

// Update updates descriptive fields and stock thresholds
func (s *ProductService) Update(ctx context.Context, tenantID, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil || req.Category != nil || req.Unit != nil || req.ShelfLifeDays != nil {
		name, description, category, unit, shelfLife := product.Name, product.Description, product.Category, product.Unit, product.ShelfLifeDays
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}
		if req.Category != nil {
			category = *req.Category
		}
		if req.Unit != nil {
			unit = *req.Unit
		}
		if req.ShelfLifeDays != nil {
			shelfLife = *req.ShelfLifeDays
		}
		if err := product.UpdateDetails(name, description, category, unit, shelfLife); err != nil {
			return nil, err
		}
	}

	if req.MinStock != nil || req.ReorderLevel != nil {
		minStock, reorder := product.MinStock, product.ReorderLevel
		if req.MinStock != nil {
			minStock = *req.MinStock
		}
		if req.ReorderLevel != nil {
			reorder = *req.ReorderLevel
		}
		if err := product.SetStockThresholds(minStock, reorder); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.invalidateCatalog(ctx, tenantID)
	response := ToProductResponse(product)
	return &response, nil
}

// UpdatePrices replaces the price points and tax rate
func (s *ProductService) UpdatePrices(ctx context.Context, tenantID, productID uuid.UUID, req UpdatePricesRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	prices := catalog.Prices{Base: req.BasePrice, Selling: req.SellingPrice, Cost: req.CostPrice}
	if err := product.UpdatePrices(prices, req.TaxRate); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.invalidateCatalog(ctx, tenantID)
	response := ToProductResponse(product)
	return &response, nil
}

// Activate makes a product sellable
func (s *ProductService) Activate(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	return s.setActive(ctx, tenantID, productID, true)
}

// Deactivate hides a product from sale
func (s *ProductService) Deactivate(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	return s.setActive(ctx, tenantID, productID, false)
}

func (s *ProductService) setActive(ctx context.Context, tenantID, productID uuid.UUID, active bool) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	if active {
		product.Activate()
	} else {
		product.Deactivate()
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.invalidateCatalog(ctx, tenantID)
	response := ToProductResponse(product)
	return &response, nil
}

// Delete hard-deletes a product with no stock records
func (s *ProductService) Delete(ctx context.Context, tenantID, productID uuid.UUID) error {
	inUse, err := s.productRepo.HasStock(ctx, tenantID, productID)
	if err != nil {
		return err
	}
	if inUse {
		return ErrProductInUse
	}
	if err := s.productRepo.DeleteForTenant(ctx, tenantID, productID); err != nil {
		return err
	}
	s.invalidateCatalog(ctx, tenantID)
	return nil
}
