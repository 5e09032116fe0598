package trade

import (
	"context"

	"github.com/bakery/backend/internal/domain/catalog"
	"github.com/bakery/backend/internal/domain/inventory"
	"github.com/bakery/backend/internal/domain/partner"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/bakery/backend/internal/domain/trade"
	"github.com/google/uuid"
)

// PurchaseOrderService handles purchase order business operations
type PurchaseOrderService struct {
	poRepo        trade.PurchaseOrderRepository
	supplierRepo  partner.SupplierRepository
	warehouseRepo inventory.WarehouseRepository
	productRepo   catalog.ProductRepository
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	poRepo trade.PurchaseOrderRepository,
	supplierRepo partner.SupplierRepository,
	warehouseRepo inventory.WarehouseRepository,
	productRepo catalog.ProductRepository,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		poRepo:        poRepo,
		supplierRepo:  supplierRepo,
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
	}
}

func (s *PurchaseOrderService) buildItems(ctx context.Context, tenantID uuid.UUID, inputs []PurchaseOrderItemInput) ([]trade.PurchaseOrderItem, error) {
	products, err := lookupProducts(ctx, s.productRepo, tenantID, inputs, func(in PurchaseOrderItemInput) uuid.UUID { return in.ProductID })
	if err != nil {
		return nil, err
	}
	items := make([]trade.PurchaseOrderItem, 0, len(inputs))
	for _, in := range inputs {
		p := products[in.ProductID]
		cost := p.CostPrice
		if in.UnitCost != nil {
			cost = *in.UnitCost
		}
		item, err := trade.NewPurchaseOrderItem(p.ID, p.Name, in.Quantity, cost)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Create creates a DRAFT purchase order with its items
func (s *PurchaseOrderService) Create(ctx context.Context, tenantID uuid.UUID, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, req.SupplierID)
	if err != nil {
		return nil, err
	}
	if !supplier.IsActive {
		return nil, shared.NewDomainError("SUPPLIER_INACTIVE", "Cannot order from an inactive supplier")
	}
	if _, err := s.warehouseRepo.FindByIDForTenant(ctx, tenantID, req.WarehouseID); err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.ErrWarehouseNotFound
		}
		return nil, err
	}

	items, err := s.buildItems(ctx, tenantID, req.Items)
	if err != nil {
		return nil, err
	}
	po, err := trade.NewPurchaseOrder(tenantID, req.SupplierID, req.WarehouseID, items)
	if err != nil {
		return nil, err
	}
	po.SetSchedule(req.ExpectedDate, req.Notes)

	if err := s.poRepo.Create(ctx, po); err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(po)
	return &response, nil
}

// GetByID retrieves a purchase order with its items
func (s *PurchaseOrderService) GetByID(ctx context.Context, tenantID, poID uuid.UUID) (*PurchaseOrderResponse, error) {
	po, err := s.poRepo.FindByIDForTenant(ctx, tenantID, poID)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(po)
	return &response, nil
}

// List retrieves purchase orders with filtering and pagination
func (s *PurchaseOrderService) List(ctx context.Context, tenantID uuid.UUID, filter PurchaseOrderListFilter) ([]PurchaseOrderResponse, int64, error) {
	pos, total, err := s.poRepo.FindAllForTenant(ctx, tenantID, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	responses := make([]PurchaseOrderResponse, len(pos))
	for i := range pos {
		responses[i] = ToPurchaseOrderResponse(&pos[i])
	}
	return responses, total, nil
}

// UpdateItems replaces the lines of a DRAFT purchase order
func (s *PurchaseOrderService) UpdateItems(ctx context.Context, tenantID, poID uuid.UUID, req UpdatePurchaseOrderItemsRequest) (*PurchaseOrderResponse, error) {
	po, err := s.poRepo.FindByIDForTenant(ctx, tenantID, poID)
	if err != nil {
		return nil, err
	}
	items, err := s.buildItems(ctx, tenantID, req.Items)
	if err != nil {
		return nil, err
	}
	if err := po.ReplaceItems(items); err != nil {
		return nil, err
	}
	if err := s.poRepo.ReplaceItems(ctx, po); err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(po)
	return &response, nil
}

// UpdateSchedule changes expected date and notes
func (s *PurchaseOrderService) UpdateSchedule(ctx context.Context, tenantID, poID uuid.UUID, req UpdatePurchaseOrderScheduleRequest) (*PurchaseOrderResponse, error) {
	po, err := s.poRepo.FindByIDForTenant(ctx, tenantID, poID)
	if err != nil {
		return nil, err
	}
	if err := po.UpdateSchedule(req.ExpectedDate, req.Notes); err != nil {
		return nil, err
	}
	if err := s.poRepo.Save(ctx, po); err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(po)
	return &response, nil
}

// UpdateStatus moves the purchase order along its status table
func (s *PurchaseOrderService) UpdateStatus(ctx context.Context, tenantID, poID uuid.UUID, req UpdatePurchaseOrderStatusRequest) (*PurchaseOrderResponse, error) {
	po, err := s.poRepo.FindByIDForTenant(ctx, tenantID, poID)
	if err != nil {
		return nil, err
	}
	if err := po.TransitionTo(trade.PurchaseOrderStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.poRepo.Save(ctx, po); err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(po)
	return &response, nil
}

// Delete removes a DRAFT or CANCELLED purchase order
func (s *PurchaseOrderService) Delete(ctx context.Context, tenantID, poID uuid.UUID) error {
	po, err := s.poRepo.FindByIDForTenant(ctx, tenantID, poID)
	if err != nil {
		return err
	}
	if !po.CanDelete() {
		return shared.NewDomainError("INVALID_STATE", "Only DRAFT or CANCELLED purchase orders can be deleted")
	}
	return s.poRepo.DeleteForTenant(ctx, tenantID, poID)
}
