package pos

import (
	"context"
	"time"

	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SessionFilter narrows session listings
type SessionFilter struct {
	shared.Filter
	Status     SessionStatus
	TerminalID string
}

// SessionRepository persists till sessions
type SessionRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Session, error)
	// FindByIDForUpdate holds a row lock on the session until the
	// surrounding transaction ends. Checkout, close and void take it so
	// that a sale never lands on a session after its cash was counted.
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Session, error)
	FindOpenByTerminal(ctx context.Context, tenantID uuid.UUID, terminalID string) (*Session, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter SessionFilter) ([]Session, int64, error)
	Create(ctx context.Context, s *Session) error
	SaveWithLock(ctx context.Context, s *Session) error
}

// OrderFilter narrows sale listings
type OrderFilter struct {
	shared.Filter
	SessionID *uuid.UUID
	Status    OrderStatus
	From      *time.Time
	To        *time.Time
}

// OrderRepository persists counter sales with their lines and tenders
type OrderRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter OrderFilter) ([]Order, int64, error)
	Create(ctx context.Context, o *Order) error
	Save(ctx context.Context, o *Order) error
	// CashTotals returns cash tendered and change given over the completed
	// sales of a session.
	CashTotals(ctx context.Context, tenantID, sessionID uuid.UUID) (cash, change decimal.Decimal, err error)
}

// ReceiptRepository persists receipts
type ReceiptRepository interface {
	FindByOrder(ctx context.Context, tenantID, posOrderID uuid.UUID) (*Receipt, error)
	Save(ctx context.Context, r *Receipt) error
}
