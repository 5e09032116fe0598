package pos

import (
	"strings"
	"time"

	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SessionStatus is the state of a till session
type SessionStatus string

const (
	SessionStatusOpen   SessionStatus = "OPEN"
	SessionStatusClosed SessionStatus = "CLOSED"
)

// Session is a cashier's shift on one terminal.
// Only one OPEN session may exist per terminal.
type Session struct {
	shared.TenantAggregateRoot
	TerminalID     string
	CashierID      uuid.UUID
	CashierEmail   string
	Status         SessionStatus
	OpeningCash    decimal.Decimal
	ClosingCash    *decimal.Decimal
	ExpectedCash   *decimal.Decimal
	CashDifference *decimal.Decimal
	OpenedAt       time.Time
	ClosedAt       *time.Time
	Notes          string
}

// OpenSession starts a new session with the counted opening float
func OpenSession(tenantID uuid.UUID, terminalID string, cashier shared.Actor, openingCash decimal.Decimal) (*Session, error) {
	terminalID = strings.TrimSpace(terminalID)
	if terminalID == "" {
		return nil, shared.NewDomainError("INVALID_TERMINAL", "Terminal ID cannot be empty")
	}
	if cashier.UserID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CASHIER", "Cashier is required")
	}
	if openingCash.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Opening cash cannot be negative")
	}
	s := &Session{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		TerminalID:          terminalID,
		CashierID:           cashier.UserID,
		CashierEmail:        cashier.Email,
		Status:              SessionStatusOpen,
		OpeningCash:         openingCash.Round(2),
	}
	s.OpenedAt = s.CreatedAt
	return s, nil
}

// IsOpen reports whether sales can be rung on this session
func (s *Session) IsOpen() bool {
	return s.Status == SessionStatusOpen
}

// Close records the counted cash. Expected cash is the opening float plus
// cash taken minus change handed back.
func (s *Session) Close(closingCash, cashTaken, changeGiven decimal.Decimal, notes string) error {
	if !s.IsOpen() {
		return shared.ErrSessionNotOpen
	}
	if closingCash.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Closing cash cannot be negative")
	}
	expected := s.OpeningCash.Add(cashTaken).Sub(changeGiven).Round(2)
	closing := closingCash.Round(2)
	diff := closing.Sub(expected)
	now := time.Now().UTC()

	s.Status = SessionStatusClosed
	s.ClosingCash = &closing
	s.ExpectedCash = &expected
	s.CashDifference = &diff
	s.ClosedAt = &now
	s.Notes = notes
	s.Touch()
	s.IncrementVersion()
	return nil
}
