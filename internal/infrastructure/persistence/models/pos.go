package models

import (
	"time"

	"github.com/bakery/backend/internal/domain/pos"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// POSSessionModel is the persistence model for a till session.
type POSSessionModel struct {
	TenantAggregateModel
	TerminalID     string            `gorm:"type:varchar(50);not null;index"`
	CashierID      uuid.UUID         `gorm:"type:uuid;not null"`
	CashierEmail   string            `gorm:"type:varchar(200)"`
	Status         pos.SessionStatus `gorm:"type:varchar(20);not null;index"`
	OpeningCash    decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	ClosingCash    *decimal.Decimal  `gorm:"type:decimal(18,2)"`
	ExpectedCash   *decimal.Decimal  `gorm:"type:decimal(18,2)"`
	CashDifference *decimal.Decimal  `gorm:"type:decimal(18,2)"`
	OpenedAt       time.Time         `gorm:"not null"`
	ClosedAt       *time.Time
	Notes          string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (POSSessionModel) TableName() string {
	return "pos_sessions"
}

// ToDomain converts the persistence model to a domain Session entity.
func (m *POSSessionModel) ToDomain() *pos.Session {
	return &pos.Session{
		TenantAggregateRoot: m.Root(),
		TerminalID:          m.TerminalID,
		CashierID:           m.CashierID,
		CashierEmail:        m.CashierEmail,
		Status:              m.Status,
		OpeningCash:         m.OpeningCash,
		ClosingCash:         m.ClosingCash,
		ExpectedCash:        m.ExpectedCash,
		CashDifference:      m.CashDifference,
		OpenedAt:            m.OpenedAt,
		ClosedAt:            m.ClosedAt,
		Notes:               m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Session entity.
func (m *POSSessionModel) FromDomain(s *pos.Session) {
	m.SetRoot(s.TenantAggregateRoot)
	m.TerminalID = s.TerminalID
	m.CashierID = s.CashierID
	m.CashierEmail = s.CashierEmail
	m.Status = s.Status
	m.OpeningCash = s.OpeningCash
	m.ClosingCash = s.ClosingCash
	m.ExpectedCash = s.ExpectedCash
	m.CashDifference = s.CashDifference
	m.OpenedAt = s.OpenedAt
	m.ClosedAt = s.ClosedAt
	m.Notes = s.Notes
}

// POSSessionModelFromDomain creates a new persistence model from a domain Session entity.
func POSSessionModelFromDomain(s *pos.Session) *POSSessionModel {
	m := &POSSessionModel{}
	m.FromDomain(s)
	return m
}

// POSOrderModel is the persistence model for a completed till sale.
type POSOrderModel struct {
	TenantAggregateModel
	OrderNumber  string          `gorm:"type:varchar(50);not null;index"`
	SessionID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	CashierID    uuid.UUID       `gorm:"type:uuid;not null"`
	CustomerID   *uuid.UUID      `gorm:"type:uuid"`
	Status       pos.OrderStatus `gorm:"type:varchar(20);not null;index"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TaxAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaidAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ChangeAmount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	VoidReason   string          `gorm:"type:varchar(500)"`
	VoidedAt     *time.Time
	Items        []POSOrderItemModel `gorm:"foreignKey:POSOrderID;references:ID"`
	Payments     []POSPaymentModel   `gorm:"foreignKey:POSOrderID;references:ID"`
}

// TableName returns the table name for GORM
func (POSOrderModel) TableName() string {
	return "pos_orders"
}

// ToDomain converts the persistence model to a domain POS Order.
func (m *POSOrderModel) ToDomain() *pos.Order {
	o := &pos.Order{
		TenantAggregateRoot: m.Root(),
		OrderNumber:         m.OrderNumber,
		SessionID:           m.SessionID,
		CashierID:           m.CashierID,
		CustomerID:          m.CustomerID,
		Status:              m.Status,
		Subtotal:            m.Subtotal,
		TaxAmount:           m.TaxAmount,
		TotalAmount:         m.TotalAmount,
		PaidAmount:          m.PaidAmount,
		ChangeAmount:        m.ChangeAmount,
		VoidReason:          m.VoidReason,
		VoidedAt:            m.VoidedAt,
		Items:               make([]pos.OrderItem, len(m.Items)),
		Payments:            make([]pos.Payment, len(m.Payments)),
	}
	for i, it := range m.Items {
		o.Items[i] = pos.OrderItem{
			ID:          it.ID,
			POSOrderID:  it.POSOrderID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Discount:    it.Discount,
			TotalPrice:  it.TotalPrice,
		}
	}
	for i, p := range m.Payments {
		o.Payments[i] = pos.Payment{
			ID:         p.ID,
			POSOrderID: p.POSOrderID,
			Method:     p.Method,
			Amount:     p.Amount,
			Reference:  p.Reference,
		}
	}
	return o
}

// FromDomain populates the persistence model from a domain POS Order.
func (m *POSOrderModel) FromDomain(o *pos.Order) {
	m.SetRoot(o.TenantAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.SessionID = o.SessionID
	m.CashierID = o.CashierID
	m.CustomerID = o.CustomerID
	m.Status = o.Status
	m.Subtotal = o.Subtotal
	m.TaxAmount = o.TaxAmount
	m.TotalAmount = o.TotalAmount
	m.PaidAmount = o.PaidAmount
	m.ChangeAmount = o.ChangeAmount
	m.VoidReason = o.VoidReason
	m.VoidedAt = o.VoidedAt
	m.Items = make([]POSOrderItemModel, len(o.Items))
	for i, it := range o.Items {
		m.Items[i] = POSOrderItemModel{
			ID:          it.ID,
			TenantID:    o.TenantID,
			POSOrderID:  o.ID,
			LineNo:      i + 1,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Discount:    it.Discount,
			TotalPrice:  it.TotalPrice,
		}
	}
	m.Payments = make([]POSPaymentModel, len(o.Payments))
	for i, p := range o.Payments {
		m.Payments[i] = POSPaymentModel{
			ID:         p.ID,
			TenantID:   o.TenantID,
			POSOrderID: o.ID,
			LineNo:     i + 1,
			Method:     p.Method,
			Amount:     p.Amount,
			Reference:  p.Reference,
		}
	}
}

// POSOrderModelFromDomain creates a new persistence model from a domain POS Order.
func POSOrderModelFromDomain(o *pos.Order) *POSOrderModel {
	m := &POSOrderModel{}
	m.FromDomain(o)
	return m
}

// POSOrderItemModel is one line of a till sale
type POSOrderItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	POSOrderID  uuid.UUID       `gorm:"column:pos_order_id;type:uuid;not null;index"`
	LineNo      int             `gorm:"not null;default:0"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200)"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Discount    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (POSOrderItemModel) TableName() string {
	return "pos_order_items"
}

// POSPaymentModel is one tender of a till sale
type POSPaymentModel struct {
	ID         uuid.UUID         `gorm:"type:uuid;primary_key"`
	TenantID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	POSOrderID uuid.UUID         `gorm:"column:pos_order_id;type:uuid;not null;index"`
	LineNo     int               `gorm:"not null;default:0"`
	Method     pos.PaymentMethod `gorm:"type:varchar(20);not null"`
	Amount     decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	Reference  string            `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (POSPaymentModel) TableName() string {
	return "pos_payments"
}

// ReceiptModel stores the rendered receipt of a till sale
type ReceiptModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID    uuid.UUID `gorm:"type:uuid;not null;index"`
	POSOrderID  uuid.UUID `gorm:"column:pos_order_id;type:uuid;not null;uniqueIndex"`
	OrderNumber string    `gorm:"type:varchar(50);not null"`
	HTML        string    `gorm:"column:html;type:text;not null"`
	PDFKey      string    `gorm:"column:pdf_key;type:varchar(500)"`
	PDFURL      string    `gorm:"column:pdf_url;type:text"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReceiptModel) TableName() string {
	return "receipts"
}

// ToDomain converts the persistence model to a domain Receipt.
func (m *ReceiptModel) ToDomain() *pos.Receipt {
	return &pos.Receipt{
		ID:          m.ID,
		TenantID:    m.TenantID,
		POSOrderID:  m.POSOrderID,
		OrderNumber: m.OrderNumber,
		HTML:        m.HTML,
		PDFKey:      m.PDFKey,
		PDFURL:      m.PDFURL,
		CreatedAt:   m.CreatedAt,
	}
}

// ReceiptModelFromDomain creates a persistence model from a domain Receipt.
func ReceiptModelFromDomain(r *pos.Receipt) *ReceiptModel {
	return &ReceiptModel{
		ID:          r.ID,
		TenantID:    r.TenantID,
		POSOrderID:  r.POSOrderID,
		OrderNumber: r.OrderNumber,
		HTML:        r.HTML,
		PDFKey:      r.PDFKey,
		PDFURL:      r.PDFURL,
		CreatedAt:   r.CreatedAt,
	}
}
