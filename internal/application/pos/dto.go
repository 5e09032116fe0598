package pos

import (
	"time"

	"github.com/bakery/backend/internal/domain/pos"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Session DTOs ====================

// OpenSessionRequest starts a till session
type OpenSessionRequest struct {
	TerminalID  string          `json:"terminal_id" binding:"required,max=50"`
	OpeningCash decimal.Decimal `json:"opening_cash"`
}

// CloseSessionRequest records the counted drawer
type CloseSessionRequest struct {
	ClosingCash decimal.Decimal `json:"closing_cash" binding:"required"`
	Notes       string          `json:"notes" binding:"max=1000"`
}

// SessionResponse represents a till session
type SessionResponse struct {
	ID             uuid.UUID        `json:"id"`
	TenantID       uuid.UUID        `json:"tenant_id"`
	TerminalID     string           `json:"terminal_id"`
	CashierID      uuid.UUID        `json:"cashier_id"`
	CashierEmail   string           `json:"cashier_email"`
	Status         string           `json:"status"`
	OpeningCash    decimal.Decimal  `json:"opening_cash"`
	ClosingCash    *decimal.Decimal `json:"closing_cash"`
	ExpectedCash   *decimal.Decimal `json:"expected_cash"`
	CashDifference *decimal.Decimal `json:"cash_difference"`
	OpenedAt       time.Time        `json:"opened_at"`
	ClosedAt       *time.Time       `json:"closed_at"`
	Notes          string           `json:"notes"`
	Version        int              `json:"version"`
}

// SessionListFilter represents filter options for session list
type SessionListFilter struct {
	Status     string `form:"status" binding:"omitempty,oneof=OPEN CLOSED"`
	TerminalID string `form:"terminal_id"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f SessionListFilter) toDomain() pos.SessionFilter {
	df := shared.NewFilter(f.Page, f.PageSize, f.OrderBy, f.OrderDir)
	if f.OrderBy == "" {
		df.OrderBy = "opened_at"
	}
	return pos.SessionFilter{Filter: df, Status: pos.SessionStatus(f.Status), TerminalID: f.TerminalID}
}

// ToSessionResponse converts a domain Session to SessionResponse
func ToSessionResponse(s *pos.Session) SessionResponse {
	return SessionResponse{
		ID:             s.ID,
		TenantID:       s.TenantID,
		TerminalID:     s.TerminalID,
		CashierID:      s.CashierID,
		CashierEmail:   s.CashierEmail,
		Status:         string(s.Status),
		OpeningCash:    s.OpeningCash,
		ClosingCash:    s.ClosingCash,
		ExpectedCash:   s.ExpectedCash,
		CashDifference: s.CashDifference,
		OpenedAt:       s.OpenedAt,
		ClosedAt:       s.ClosedAt,
		Notes:          s.Notes,
		Version:        s.Version,
	}
}

// ==================== Checkout DTOs ====================

// CartItemInput is one line rung at the till. UnitPrice defaults to the
// product's selling price; Discount is recorded but not applied.
type CartItemInput struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal  `json:"discount"`
}

// PaymentInput is one tender
type PaymentInput struct {
	Method    string          `json:"method" binding:"required,oneof=CASH CARD UPI ONLINE"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Reference string          `json:"reference" binding:"max=100"`
}

// CheckoutRequest rings up a sale on an open session
type CheckoutRequest struct {
	SessionID  uuid.UUID       `json:"session_id" binding:"required"`
	CustomerID *uuid.UUID      `json:"customer_id"`
	Items      []CartItemInput `json:"items" binding:"required,min=1,dive"`
	Payments   []PaymentInput  `json:"payments" binding:"required,min=1,dive"`
}

// VoidOrderRequest cancels a completed sale
type VoidOrderRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// OrderItemResponse represents a sale line
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// PaymentResponse represents a tender
type PaymentResponse struct {
	ID        uuid.UUID       `json:"id"`
	Method    string          `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference"`
}

// OrderResponse represents a counter sale
type OrderResponse struct {
	ID           uuid.UUID           `json:"id"`
	TenantID     uuid.UUID           `json:"tenant_id"`
	OrderNumber  string              `json:"order_number"`
	SessionID    uuid.UUID           `json:"session_id"`
	CashierID    uuid.UUID           `json:"cashier_id"`
	CustomerID   *uuid.UUID          `json:"customer_id"`
	Status       string              `json:"status"`
	Subtotal     decimal.Decimal     `json:"subtotal"`
	TaxAmount    decimal.Decimal     `json:"tax_amount"`
	TotalAmount  decimal.Decimal     `json:"total_amount"`
	PaidAmount   decimal.Decimal     `json:"paid_amount"`
	ChangeAmount decimal.Decimal     `json:"change_amount"`
	VoidReason   string              `json:"void_reason,omitempty"`
	VoidedAt     *time.Time          `json:"voided_at"`
	Items        []OrderItemResponse `json:"items"`
	Payments     []PaymentResponse   `json:"payments"`
	CreatedAt    time.Time           `json:"created_at"`
	Version      int                 `json:"version"`
}

// OrderListFilter represents filter options for sale list
type OrderListFilter struct {
	Search    string     `form:"search"`
	SessionID *uuid.UUID `form:"-"`
	Status    string     `form:"status" binding:"omitempty,oneof=COMPLETED VOIDED"`
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f OrderListFilter) toDomain() pos.OrderFilter {
	df := shared.NewFilter(f.Page, f.PageSize, f.OrderBy, f.OrderDir)
	df.Search = f.Search
	return pos.OrderFilter{
		Filter:    df,
		SessionID: f.SessionID,
		Status:    pos.OrderStatus(f.Status),
		From:      f.From,
		To:        f.To,
	}
}

// ToOrderResponse converts a domain POS Order to OrderResponse
func ToOrderResponse(o *pos.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Discount:    it.Discount,
			TotalPrice:  it.TotalPrice,
		}
	}
	payments := make([]PaymentResponse, len(o.Payments))
	for i, p := range o.Payments {
		payments[i] = PaymentResponse{ID: p.ID, Method: string(p.Method), Amount: p.Amount, Reference: p.Reference}
	}
	return OrderResponse{
		ID:           o.ID,
		TenantID:     o.TenantID,
		OrderNumber:  o.OrderNumber,
		SessionID:    o.SessionID,
		CashierID:    o.CashierID,
		CustomerID:   o.CustomerID,
		Status:       string(o.Status),
		Subtotal:     o.Subtotal,
		TaxAmount:    o.TaxAmount,
		TotalAmount:  o.TotalAmount,
		PaidAmount:   o.PaidAmount,
		ChangeAmount: o.ChangeAmount,
		VoidReason:   o.VoidReason,
		VoidedAt:     o.VoidedAt,
		Items:        items,
		Payments:     payments,
		CreatedAt:    o.CreatedAt,
		Version:      o.Version,
	}
}

// ==================== Receipt DTOs ====================

// ReceiptResponse is the stored receipt of a sale
type ReceiptResponse struct {
	ID          uuid.UUID `json:"id"`
	POSOrderID  uuid.UUID `json:"pos_order_id"`
	OrderNumber string    `json:"order_number"`
	HTML        string    `json:"html"`
	PDFURL      string    `json:"pdf_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToReceiptResponse converts a domain Receipt to ReceiptResponse
func ToReceiptResponse(r *pos.Receipt) ReceiptResponse {
	return ReceiptResponse{
		ID:          r.ID,
		POSOrderID:  r.POSOrderID,
		OrderNumber: r.OrderNumber,
		HTML:        r.HTML,
		PDFURL:      r.PDFURL,
		CreatedAt:   r.CreatedAt,
	}
}

