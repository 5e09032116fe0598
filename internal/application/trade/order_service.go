package trade

import (
	"context"
	"strings"

	"github.com/bakery/backend/internal/domain/catalog"
	"github.com/bakery/backend/internal/domain/partner"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/bakery/backend/internal/domain/trade"
	"github.com/bakery/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// OrderService handles customer order business operations
type OrderService struct {
	orderRepo       trade.OrderRepository
	customerRepo    partner.CustomerRepository
	productRepo     catalog.ProductRepository
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo trade.OrderRepository,
	customerRepo partner.CustomerRepository,
	productRepo catalog.ProductRepository,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics recorder
func (s *OrderService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

func (s *OrderService) publishDomainEvents(ctx context.Context, o *trade.Order) {
	if s.eventPublisher == nil {
		return
	}
	events := o.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	o.ClearDomainEvents()
}

// buildItems resolves product names, SKUs and default prices from the catalog
func (s *OrderService) buildItems(ctx context.Context, tenantID uuid.UUID, inputs []OrderItemInput) ([]trade.OrderItem, error) {
	products, err := lookupProducts(ctx, s.productRepo, tenantID, inputs, func(in OrderItemInput) uuid.UUID { return in.ProductID })
	if err != nil {
		return nil, err
	}
	items := make([]trade.OrderItem, 0, len(inputs))
	for _, in := range inputs {
		p := products[in.ProductID]
		price := p.SellingPrice
		if in.UnitPrice != nil {
			price = *in.UnitPrice
		}
		item, err := trade.NewOrderItem(p.ID, p.Name, p.SKU, in.Quantity, price)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Create places an order; header and items are written in one transaction
func (s *OrderService) Create(ctx context.Context, tenantID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "create",
		telemetry.SpanAttrTenantID, tenantID,
	)
	defer span.End()

	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive {
		return nil, shared.NewDomainError("CUSTOMER_INACTIVE", "Cannot place an order for an inactive customer")
	}

	items, err := s.buildItems(ctx, tenantID, req.Items)
	if err != nil {
		return nil, err
	}
	order, err := trade.NewOrder(tenantID, req.CustomerID, trade.Channel(strings.ToUpper(req.Channel)), req.TaxRate, items)
	if err != nil {
		return nil, err
	}
	order.SetDelivery(req.DeliveryDate, req.ShippingAddress, req.Notes)

	if err := s.orderRepo.Create(ctx, order); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, order.ID,
		telemetry.SpanAttrOrderNumber, order.OrderNumber,
		telemetry.SpanAttrAmount, order.TotalAmount,
	)

	s.publishDomainEvents(ctx, order)
	if s.businessMetrics != nil {
		s.businessMetrics.RecordOrderCreated(ctx, tenantID, string(order.Channel), order.TotalAmount)
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// GetByID retrieves an order with its items
func (s *OrderService) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, tenantID uuid.UUID, filter OrderListFilter) ([]OrderResponse, int64, error) {
	orders, total, err := s.orderRepo.FindAllForTenant(ctx, tenantID, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses, total, nil
}

// UpdateItems replaces every line and stores the recomputed totals with them
func (s *OrderService) UpdateItems(ctx context.Context, tenantID, orderID uuid.UUID, req UpdateOrderItemsRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	items, err := s.buildItems(ctx, tenantID, req.Items)
	if err != nil {
		return nil, err
	}
	if err := order.ReplaceItems(items, req.TaxRate); err != nil {
		return nil, err
	}
	if err := s.orderRepo.ReplaceItems(ctx, order); err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// UpdateDelivery changes delivery date, address and notes
func (s *OrderService) UpdateDelivery(ctx context.Context, tenantID, orderID uuid.UUID, req UpdateOrderDeliveryRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.UpdateDelivery(req.DeliveryDate, req.ShippingAddress, req.Notes); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// UpdateStatus moves the order along the status table
func (s *OrderService) UpdateStatus(ctx context.Context, tenantID, orderID uuid.UUID, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	target := trade.OrderStatus(req.Status)
	if target == trade.OrderStatusCancelled {
		reason := req.Reason
		if strings.TrimSpace(reason) == "" {
			reason = "cancelled"
		}
		err = order.Cancel(reason)
	} else {
		err = order.TransitionTo(target)
	}
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, order)
	response := ToOrderResponse(order)
	return &response, nil
}

// UpdatePaymentStatus records the settlement state
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, tenantID, orderID uuid.UUID, req UpdatePaymentStatusRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.SetPaymentStatus(trade.PaymentStatus(req.PaymentStatus)); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// Cancel cancels an order with a reason
func (s *OrderService) Cancel(ctx context.Context, tenantID, orderID uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Cancel(req.Reason); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, order)
	response := ToOrderResponse(order)
	return &response, nil
}

// Delete removes a PENDING or CANCELLED order
func (s *OrderService) Delete(ctx context.Context, tenantID, orderID uuid.UUID) error {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return err
	}
	if !order.CanDelete() {
		return shared.NewDomainError("INVALID_STATE", "Only PENDING or CANCELLED orders can be deleted")
	}
	return s.orderRepo.DeleteForTenant(ctx, tenantID, orderID)
}

// lookupProducts loads every referenced product in one query and fails on the
// first id that does not resolve
func lookupProducts[T any](ctx context.Context, repo catalog.ProductRepository, tenantID uuid.UUID, inputs []T, id func(T) uuid.UUID) (map[uuid.UUID]*catalog.Product, error) {
	ids := make([]uuid.UUID, 0, len(inputs))
	seen := make(map[uuid.UUID]bool, len(inputs))
	for _, in := range inputs {
		if pid := id(in); !seen[pid] {
			seen[pid] = true
			ids = append(ids, pid)
		}
	}
	products, err := repo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for _, pid := range ids {
		if _, ok := byID[pid]; !ok {
			return nil, shared.NewDomainError("NOT_FOUND", "Product "+pid.String()+" not found")
		}
	}
	return byID, nil
}
