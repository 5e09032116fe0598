package trade

import (
	"time"

	"github.com/bakery/backend/internal/domain/shared"
	"github.com/bakery/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Order DTOs ====================

// OrderItemInput is one requested line. UnitPrice defaults to the product's
// selling price; name and SKU always come from the catalog.
type OrderItemInput struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// CreateOrderRequest represents a request to place an order.
// Totals are never accepted from the client.
type CreateOrderRequest struct {
	CustomerID      uuid.UUID        `json:"customer_id" binding:"required"`
	Channel         string           `json:"channel" binding:"omitempty,oneof=ONLINE STORE B2B POS"`
	TaxRate         *decimal.Decimal `json:"tax_rate"`
	DeliveryDate    *time.Time       `json:"delivery_date"`
	ShippingAddress string           `json:"shipping_address" binding:"max=500"`
	Notes           string           `json:"notes" binding:"max=1000"`
	Items           []OrderItemInput `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderItemsRequest replaces every line of an order
type UpdateOrderItemsRequest struct {
	TaxRate *decimal.Decimal `json:"tax_rate"`
	Items   []OrderItemInput `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderDeliveryRequest changes delivery details
type UpdateOrderDeliveryRequest struct {
	DeliveryDate    *time.Time `json:"delivery_date"`
	ShippingAddress string     `json:"shipping_address" binding:"max=500"`
	Notes           string     `json:"notes" binding:"max=1000"`
}

// UpdateOrderStatusRequest moves an order through its lifecycle
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING CONFIRMED PREPARING READY DELIVERED CANCELLED"`
	Reason string `json:"reason" binding:"max=500"`
}

// UpdatePaymentStatusRequest records the settlement state
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required,oneof=PENDING PARTIAL PAID REFUNDED FAILED"`
}

// CancelOrderRequest cancels an order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// OrderItemResponse represents an order line
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// OrderResponse represents an order with its items
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	TenantID        uuid.UUID           `json:"tenant_id"`
	OrderNumber     string              `json:"order_number"`
	CustomerID      uuid.UUID           `json:"customer_id"`
	Channel         string              `json:"channel"`
	Status          string              `json:"status"`
	PaymentStatus   string              `json:"payment_status"`
	TaxRate         decimal.Decimal     `json:"tax_rate"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	TaxAmount       decimal.Decimal     `json:"tax_amount"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	DeliveryDate    *time.Time          `json:"delivery_date"`
	ShippingAddress string              `json:"shipping_address"`
	Notes           string              `json:"notes"`
	CancelReason    string              `json:"cancel_reason,omitempty"`
	Items           []OrderItemResponse `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	Version         int                 `json:"version"`
}

// OrderListFilter represents filter options for order list
type OrderListFilter struct {
	Search        string     `form:"search"`
	Status        string     `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED PREPARING READY DELIVERED CANCELLED"`
	PaymentStatus string     `form:"payment_status" binding:"omitempty,oneof=PENDING PARTIAL PAID REFUNDED FAILED"`
	Channel       string     `form:"channel" binding:"omitempty,oneof=ONLINE STORE B2B POS"`
	CustomerID    *uuid.UUID `form:"-"`
	From          *time.Time `form:"from" time_format:"2006-01-02"`
	To            *time.Time `form:"to" time_format:"2006-01-02"`
	Page          int        `form:"page" binding:"omitempty,min=1"`
	PageSize      int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy       string     `form:"order_by"`
	OrderDir      string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f OrderListFilter) toDomain() trade.OrderFilter {
	df := shared.NewFilter(f.Page, f.PageSize, f.OrderBy, f.OrderDir)
	df.Search = f.Search
	return trade.OrderFilter{
		Filter:        df,
		Status:        trade.OrderStatus(f.Status),
		PaymentStatus: trade.PaymentStatus(f.PaymentStatus),
		Channel:       trade.Channel(f.Channel),
		CustomerID:    f.CustomerID,
		From:          f.From,
		To:            f.To,
	}
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *trade.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			SKU:         it.SKU,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       it.Total,
		}
	}
	return OrderResponse{
		ID:              o.ID,
		TenantID:        o.TenantID,
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		Channel:         string(o.Channel),
		Status:          string(o.Status),
		PaymentStatus:   string(o.PaymentStatus),
		TaxRate:         o.TaxRate,
		Subtotal:        o.Subtotal,
		TaxAmount:       o.TaxAmount,
		TotalAmount:     o.TotalAmount,
		DeliveryDate:    o.DeliveryDate,
		ShippingAddress: o.ShippingAddress,
		Notes:           o.Notes,
		CancelReason:    o.CancelReason,
		Items:           items,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Version:         o.Version,
	}
}

// ==================== Purchase Order DTOs ====================

// PurchaseOrderItemInput is one requested line. UnitCost defaults to the
// product's cost price.
type PurchaseOrderItemInput struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity" binding:"required"`
	UnitCost  *decimal.Decimal `json:"unit_cost"`
}

// CreatePurchaseOrderRequest represents a request to create a purchase order
type CreatePurchaseOrderRequest struct {
	SupplierID   uuid.UUID                `json:"supplier_id" binding:"required"`
	WarehouseID  uuid.UUID                `json:"warehouse_id" binding:"required"`
	ExpectedDate *time.Time               `json:"expected_date"`
	Notes        string                   `json:"notes" binding:"max=1000"`
	Items        []PurchaseOrderItemInput `json:"items" binding:"required,min=1,dive"`
}

// UpdatePurchaseOrderItemsRequest replaces the lines of a DRAFT purchase order
type UpdatePurchaseOrderItemsRequest struct {
	Items []PurchaseOrderItemInput `json:"items" binding:"required,min=1,dive"`
}

// UpdatePurchaseOrderScheduleRequest changes expected date and notes
type UpdatePurchaseOrderScheduleRequest struct {
	ExpectedDate *time.Time `json:"expected_date"`
	Notes        string     `json:"notes" binding:"max=1000"`
}

// UpdatePurchaseOrderStatusRequest moves a purchase order through its lifecycle
type UpdatePurchaseOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=DRAFT SUBMITTED APPROVED ORDERED RECEIVED COMPLETED CANCELLED"`
}

// PurchaseOrderItemResponse represents a purchase order line
type PurchaseOrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Total       decimal.Decimal `json:"total"`
}

// PurchaseOrderResponse represents a purchase order with its items
type PurchaseOrderResponse struct {
	ID           uuid.UUID                   `json:"id"`
	TenantID     uuid.UUID                   `json:"tenant_id"`
	PONumber     string                      `json:"po_number"`
	SupplierID   uuid.UUID                   `json:"supplier_id"`
	WarehouseID  uuid.UUID                   `json:"warehouse_id"`
	Status       string                      `json:"status"`
	ExpectedDate *time.Time                  `json:"expected_date"`
	Notes        string                      `json:"notes"`
	TotalAmount  decimal.Decimal             `json:"total_amount"`
	Items        []PurchaseOrderItemResponse `json:"items"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
	Version      int                         `json:"version"`
}

// PurchaseOrderListFilter represents filter options for purchase order list
type PurchaseOrderListFilter struct {
	Search     string     `form:"search"`
	Status     string     `form:"status" binding:"omitempty,oneof=DRAFT SUBMITTED APPROVED ORDERED RECEIVED COMPLETED CANCELLED"`
	SupplierID *uuid.UUID `form:"-"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f PurchaseOrderListFilter) toDomain() trade.PurchaseOrderFilter {
	df := shared.NewFilter(f.Page, f.PageSize, f.OrderBy, f.OrderDir)
	df.Search = f.Search
	return trade.PurchaseOrderFilter{
		Filter:     df,
		Status:     trade.PurchaseOrderStatus(f.Status),
		SupplierID: f.SupplierID,
	}
}

// ToPurchaseOrderResponse converts a domain PurchaseOrder to PurchaseOrderResponse
func ToPurchaseOrderResponse(po *trade.PurchaseOrder) PurchaseOrderResponse {
	items := make([]PurchaseOrderItemResponse, len(po.Items))
	for i, it := range po.Items {
		items[i] = PurchaseOrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitCost:    it.UnitCost,
			Total:       it.Total,
		}
	}
	return PurchaseOrderResponse{
		ID:           po.ID,
		TenantID:     po.TenantID,
		PONumber:     po.PONumber,
		SupplierID:   po.SupplierID,
		WarehouseID:  po.WarehouseID,
		Status:       string(po.Status),
		ExpectedDate: po.ExpectedDate,
		Notes:        po.Notes,
		TotalAmount:  po.TotalAmount,
		Items:        items,
		CreatedAt:    po.CreatedAt,
		UpdatedAt:    po.UpdatedAt,
		Version:      po.Version,
	}
}

