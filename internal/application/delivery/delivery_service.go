package delivery

import (
	"context"
	"strings"

	"github.com/bakery/backend/internal/domain/delivery"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/bakery/backend/internal/domain/trade"
	"github.com/google/uuid"
)

// DeliveryService handles delivery scheduling and tracking
type DeliveryService struct {
	deliveryRepo delivery.Repository
	orderRepo    trade.OrderRepository
}

// NewDeliveryService creates a new DeliveryService
func NewDeliveryService(deliveryRepo delivery.Repository, orderRepo trade.OrderRepository) *DeliveryService {
	return &DeliveryService{deliveryRepo: deliveryRepo, orderRepo: orderRepo}
}

// Create schedules a delivery for an existing order
func (s *DeliveryService) Create(ctx context.Context, tenantID uuid.UUID, req CreateDeliveryRequest) (*DeliveryResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status == trade.OrderStatusCancelled {
		return nil, shared.NewDomainError("INVALID_STATE", "Cancelled orders cannot be delivered")
	}

	address := strings.TrimSpace(req.Address)
	if address == "" {
		address = order.ShippingAddress
	}
	d, err := delivery.NewDelivery(tenantID, order.ID, req.ScheduledDate, address)
	if err != nil {
		return nil, err
	}
	d.Driver = req.Driver.toDomain()
	d.Notes = req.Notes

	if err := s.deliveryRepo.Save(ctx, d); err != nil {
		return nil, err
	}
	response := ToDeliveryResponse(d)
	return &response, nil
}

// GetByID retrieves a delivery
func (s *DeliveryService) GetByID(ctx context.Context, tenantID, deliveryID uuid.UUID) (*DeliveryResponse, error) {
	d, err := s.deliveryRepo.FindByIDForTenant(ctx, tenantID, deliveryID)
	if err != nil {
		return nil, err
	}
	response := ToDeliveryResponse(d)
	return &response, nil
}

// List retrieves deliveries with filtering and pagination
func (s *DeliveryService) List(ctx context.Context, tenantID uuid.UUID, filter DeliveryListFilter) ([]DeliveryResponse, int64, error) {
	deliveries, total, err := s.deliveryRepo.FindAllForTenant(ctx, tenantID, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	responses := make([]DeliveryResponse, len(deliveries))
	for i := range deliveries {
		responses[i] = ToDeliveryResponse(&deliveries[i])
	}
	return responses, total, nil
}

// Update changes schedule, address, driver and notes of an open delivery
func (s *DeliveryService) Update(ctx context.Context, tenantID, deliveryID uuid.UUID, req UpdateDeliveryRequest) (*DeliveryResponse, error) {
	return s.mutate(ctx, tenantID, deliveryID, func(d *delivery.Delivery) error {
		return d.Update(req.ScheduledDate, req.Address, req.Driver.toDomain(), req.Notes)
	})
}

// UpdateStatus moves a delivery through its lifecycle
func (s *DeliveryService) UpdateStatus(ctx context.Context, tenantID, deliveryID uuid.UUID, req UpdateDeliveryStatusRequest) (*DeliveryResponse, error) {
	return s.mutate(ctx, tenantID, deliveryID, func(d *delivery.Delivery) error {
		return d.TransitionTo(delivery.Status(req.Status), req.Reason)
	})
}

// Delete removes a delivery that has not left yet
func (s *DeliveryService) Delete(ctx context.Context, tenantID, deliveryID uuid.UUID) error {
	d, err := s.deliveryRepo.FindByIDForTenant(ctx, tenantID, deliveryID)
	if err != nil {
		return err
	}
	if !d.CanDelete() {
		return shared.NewDomainError("INVALID_STATE", "Only SCHEDULED deliveries can be deleted")
	}
	return s.deliveryRepo.DeleteForTenant(ctx, tenantID, deliveryID)
}

func (s *DeliveryService) mutate(ctx context.Context, tenantID, deliveryID uuid.UUID, apply func(*delivery.Delivery) error) (*DeliveryResponse, error) {
	d, err := s.deliveryRepo.FindByIDForTenant(ctx, tenantID, deliveryID)
	if err != nil {
		return nil, err
	}
	if err := apply(d); err != nil {
		return nil, err
	}
	if err := s.deliveryRepo.Save(ctx, d); err != nil {
		return nil, err
	}
	response := ToDeliveryResponse(d)
	return &response, nil
}
