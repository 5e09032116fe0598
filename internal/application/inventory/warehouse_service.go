package inventory

import (
	"context"

	"github.com/bakery/backend/internal/domain/inventory"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// WarehouseService handles warehouse operations
type WarehouseService struct {
	warehouseRepo inventory.WarehouseRepository
}

// NewWarehouseService creates a new WarehouseService
func NewWarehouseService(warehouseRepo inventory.WarehouseRepository) *WarehouseService {
	return &WarehouseService{warehouseRepo: warehouseRepo}
}

// Create creates a new warehouse
func (s *WarehouseService) Create(ctx context.Context, tenantID uuid.UUID, req CreateWarehouseRequest) (*WarehouseResponse, error) {
	warehouse, err := inventory.NewWarehouse(tenantID, req.Code, req.Name, req.Address)
	if err != nil {
		return nil, err
	}

	exists, err := s.warehouseRepo.ExistsByCode(ctx, tenantID, warehouse.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Warehouse with this code already exists")
	}

	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}
	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// GetByID retrieves a warehouse by ID
func (s *WarehouseService) GetByID(ctx context.Context, tenantID, warehouseID uuid.UUID) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByIDForTenant(ctx, tenantID, warehouseID)
	if err != nil {
		return nil, err
	}
	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// List retrieves warehouses with filtering and pagination
func (s *WarehouseService) List(ctx context.Context, tenantID uuid.UUID, filter WarehouseListFilter) ([]WarehouseResponse, int64, error) {
	warehouses, total, err := s.warehouseRepo.FindAllForTenant(ctx, tenantID, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	responses := make([]WarehouseResponse, len(warehouses))
	for i := range warehouses {
		responses[i] = ToWarehouseResponse(&warehouses[i])
	}
	return responses, total, nil
}

// Update updates a warehouse
func (s *WarehouseService) Update(ctx context.Context, tenantID, warehouseID uuid.UUID, req UpdateWarehouseRequest) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByIDForTenant(ctx, tenantID, warehouseID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Address != nil {
		name, address := warehouse.Name, warehouse.Address
		if req.Name != nil {
			name = *req.Name
		}
		if req.Address != nil {
			address = *req.Address
		}
		if err := warehouse.Update(name, address); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil && *req.IsActive != warehouse.IsActive {
		warehouse.SetActive(*req.IsActive)
	}

	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}
	response := ToWarehouseResponse(warehouse)
	return &response, nil
}
