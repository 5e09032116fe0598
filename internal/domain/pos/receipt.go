package pos

import (
	"time"

	"github.com/google/uuid"
)

// Receipt is the printed record of a sale. PDF fields are empty when the
// PDF step was skipped or failed.
type Receipt struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	POSOrderID  uuid.UUID
	OrderNumber string
	HTML        string
	PDFKey      string
	PDFURL      string
	CreatedAt   time.Time
}

// NewReceipt creates a receipt for a sale
func NewReceipt(o *Order, html string) *Receipt {
	return &Receipt{
		ID:          uuid.New(),
		TenantID:    o.TenantID,
		POSOrderID:  o.ID,
		OrderNumber: o.OrderNumber,
		HTML:        html,
		CreatedAt:   time.Now().UTC(),
	}
}
