package production

import (
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventTypeProductionCompleted is published when a batch completes
const EventTypeProductionCompleted = "ProductionCompleted"

// ProductionCompletedEvent carries the batch outcome
type ProductionCompletedEvent struct {
	shared.EventHeader
	BatchNumber     string          `json:"batch_number"`
	ProductID       uuid.UUID       `json:"product_id"`
	PlannedQuantity decimal.Decimal `json:"planned_quantity"`
	ActualQuantity  decimal.Decimal `json:"actual_quantity"`
	Efficiency      int64           `json:"efficiency"`
}

// NewProductionCompletedEvent creates a ProductionCompletedEvent
func NewProductionCompletedEvent(p *Production) *ProductionCompletedEvent {
	actual := decimal.Zero
	if p.ActualQuantity != nil {
		actual = *p.ActualQuantity
	}
	return &ProductionCompletedEvent{
		EventHeader:     shared.NewEventHeader(EventTypeProductionCompleted, "Production", p.ID, p.TenantID),
		BatchNumber:     p.BatchNumber,
		ProductID:       p.ProductID,
		PlannedQuantity: p.PlannedQuantity,
		ActualQuantity:  actual,
		Efficiency:      p.Efficiency(),
	}
}
