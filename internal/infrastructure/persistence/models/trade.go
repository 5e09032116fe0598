package models

import (
	"time"

	"github.com/bakery/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	TenantAggregateModel
	OrderNumber     string              `gorm:"type:varchar(50);not null;index"`
	CustomerID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	Channel         trade.Channel       `gorm:"type:varchar(20);not null"`
	Status          trade.OrderStatus   `gorm:"type:varchar(20);not null;index"`
	PaymentStatus   trade.PaymentStatus `gorm:"type:varchar(20);not null"`
	TaxRate         decimal.Decimal     `gorm:"type:decimal(5,2);not null"`
	Subtotal        decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	TaxAmount       decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	TotalAmount     decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	DeliveryDate    *time.Time
	ShippingAddress string           `gorm:"type:varchar(500)"`
	Notes           string           `gorm:"type:text"`
	CancelReason    string           `gorm:"type:varchar(500)"`
	Items           []OrderItemModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *trade.Order {
	o := &trade.Order{
		TenantAggregateRoot: m.Root(),
		OrderNumber:         m.OrderNumber,
		CustomerID:          m.CustomerID,
		Channel:             m.Channel,
		Status:              m.Status,
		PaymentStatus:       m.PaymentStatus,
		TaxRate:             m.TaxRate,
		Subtotal:            m.Subtotal,
		TaxAmount:           m.TaxAmount,
		TotalAmount:         m.TotalAmount,
		DeliveryDate:        m.DeliveryDate,
		ShippingAddress:     m.ShippingAddress,
		Notes:               m.Notes,
		CancelReason:        m.CancelReason,
		Items:               make([]trade.OrderItem, len(m.Items)),
	}
	for i := range m.Items {
		o.Items[i] = m.Items[i].ToDomain()
	}
	return o
}

// FromDomain populates the persistence model from a domain Order entity.
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.SetRoot(o.TenantAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.CustomerID = o.CustomerID
	m.Channel = o.Channel
	m.Status = o.Status
	m.PaymentStatus = o.PaymentStatus
	m.TaxRate = o.TaxRate
	m.Subtotal = o.Subtotal
	m.TaxAmount = o.TaxAmount
	m.TotalAmount = o.TotalAmount
	m.DeliveryDate = o.DeliveryDate
	m.ShippingAddress = o.ShippingAddress
	m.Notes = o.Notes
	m.CancelReason = o.CancelReason
	m.Items = make([]OrderItemModel, len(o.Items))
	for i := range o.Items {
		m.Items[i] = OrderItemModelFromDomain(o.TenantID, o.Items[i])
		m.Items[i].LineNo = i + 1
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order entity.
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is one persisted order line
type OrderItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNo      int             `gorm:"not null;default:0"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200)"`
	SKU         string          `gorm:"type:varchar(50)"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Total       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persisted line to a domain OrderItem
func (m *OrderItemModel) ToDomain() trade.OrderItem {
	return trade.OrderItem{
		ID:          m.ID,
		OrderID:     m.OrderID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		SKU:         m.SKU,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		Total:       m.Total,
	}
}

// OrderItemModelFromDomain creates a persisted line from a domain OrderItem
func OrderItemModelFromDomain(tenantID uuid.UUID, it trade.OrderItem) OrderItemModel {
	return OrderItemModel{
		ID:          it.ID,
		TenantID:    tenantID,
		OrderID:     it.OrderID,
		ProductID:   it.ProductID,
		ProductName: it.ProductName,
		SKU:         it.SKU,
		Quantity:    it.Quantity,
		UnitPrice:   it.UnitPrice,
		Total:       it.Total,
	}
}

// PurchaseOrderModel is the persistence model for the PurchaseOrder aggregate root.
type PurchaseOrderModel struct {
	TenantAggregateModel
	PONumber     string                    `gorm:"column:po_number;type:varchar(50);not null;index"`
	SupplierID   uuid.UUID                 `gorm:"type:uuid;not null;index"`
	WarehouseID  uuid.UUID                 `gorm:"type:uuid;not null"`
	Status       trade.PurchaseOrderStatus `gorm:"type:varchar(20);not null;index"`
	ExpectedDate *time.Time
	Notes        string                   `gorm:"type:text"`
	TotalAmount  decimal.Decimal          `gorm:"type:decimal(18,2);not null;default:0"`
	Items        []PurchaseOrderItemModel `gorm:"foreignKey:PurchaseOrderID;references:ID"`
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToDomain converts the persistence model to a domain PurchaseOrder entity.
func (m *PurchaseOrderModel) ToDomain() *trade.PurchaseOrder {
	po := &trade.PurchaseOrder{
		TenantAggregateRoot: m.Root(),
		PONumber:            m.PONumber,
		SupplierID:          m.SupplierID,
		WarehouseID:         m.WarehouseID,
		Status:              m.Status,
		ExpectedDate:        m.ExpectedDate,
		Notes:               m.Notes,
		TotalAmount:         m.TotalAmount,
		Items:               make([]trade.PurchaseOrderItem, len(m.Items)),
	}
	for i := range m.Items {
		po.Items[i] = m.Items[i].ToDomain()
	}
	return po
}

// FromDomain populates the persistence model from a domain PurchaseOrder entity.
func (m *PurchaseOrderModel) FromDomain(po *trade.PurchaseOrder) {
	m.SetRoot(po.TenantAggregateRoot)
	m.PONumber = po.PONumber
	m.SupplierID = po.SupplierID
	m.WarehouseID = po.WarehouseID
	m.Status = po.Status
	m.ExpectedDate = po.ExpectedDate
	m.Notes = po.Notes
	m.TotalAmount = po.TotalAmount
	m.Items = make([]PurchaseOrderItemModel, len(po.Items))
	for i := range po.Items {
		m.Items[i] = PurchaseOrderItemModelFromDomain(po.TenantID, po.Items[i])
		m.Items[i].LineNo = i + 1
	}
}

// PurchaseOrderModelFromDomain creates a new persistence model from a domain PurchaseOrder entity.
func PurchaseOrderModelFromDomain(po *trade.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{}
	m.FromDomain(po)
	return m
}

// PurchaseOrderItemModel is one persisted purchase order line
type PurchaseOrderItemModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	TenantID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNo          int             `gorm:"not null;default:0"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName     string          `gorm:"type:varchar(200)"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Total           decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItemModel) TableName() string {
	return "purchase_order_items"
}

// ToDomain converts the persisted line to a domain PurchaseOrderItem
func (m *PurchaseOrderItemModel) ToDomain() trade.PurchaseOrderItem {
	return trade.PurchaseOrderItem{
		ID:              m.ID,
		PurchaseOrderID: m.PurchaseOrderID,
		ProductID:       m.ProductID,
		ProductName:     m.ProductName,
		Quantity:        m.Quantity,
		UnitCost:        m.UnitCost,
		Total:           m.Total,
	}
}

// PurchaseOrderItemModelFromDomain creates a persisted line from a domain PurchaseOrderItem
func PurchaseOrderItemModelFromDomain(tenantID uuid.UUID, it trade.PurchaseOrderItem) PurchaseOrderItemModel {
	return PurchaseOrderItemModel{
		ID:              it.ID,
		TenantID:        tenantID,
		PurchaseOrderID: it.PurchaseOrderID,
		ProductID:       it.ProductID,
		ProductName:     it.ProductName,
		Quantity:        it.Quantity,
		UnitCost:        it.UnitCost,
		Total:           it.Total,
	}
}
