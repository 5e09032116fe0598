package production

import (
	"time"

	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status drives the production batch workflow
type Status string

const (
	StatusPlanned    Status = "PLANNED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
	StatusOnHold     Status = "ON_HOLD"
)

// IsValid checks if the status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusPlanned, StatusInProgress, StatusCompleted, StatusCancelled, StatusOnHold:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can move to target
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPlanned:
		return target == StatusInProgress || target == StatusOnHold || target == StatusCancelled
	case StatusInProgress:
		return target == StatusCompleted || target == StatusOnHold || target == StatusCancelled
	case StatusOnHold:
		return target == StatusInProgress || target == StatusCancelled
	}
	return false
}

// ProductionItem is ingredient usage for a batch
type ProductionItem struct {
	ID              uuid.UUID
	ProductionID    uuid.UUID
	IngredientID    uuid.UUID
	PlannedQuantity decimal.Decimal
	ActualQuantity  *decimal.Decimal
	Unit            string
}

// Production is one baking batch
type Production struct {
	shared.TenantAggregateRoot
	BatchNumber     string
	RecipeID        *uuid.UUID
	ProductID       uuid.UUID
	PlannedQuantity decimal.Decimal
	ActualQuantity  *decimal.Decimal
	Status          Status
	ScheduledDate   time.Time
	StartedAt       *time.Time
	CompletedAt     *time.Time
	Notes           string
	Items           []ProductionItem
}

// NewProduction creates a PLANNED batch
func NewProduction(tenantID, productID uuid.UUID, recipeID *uuid.UUID, planned decimal.Decimal, scheduled time.Time, items []ProductionItem) (*Production, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !planned.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Planned quantity must be positive")
	}
	if scheduled.IsZero() {
		scheduled = time.Now().UTC()
	}
	p := &Production{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		RecipeID:            recipeID,
		ProductID:           productID,
		PlannedQuantity:     planned,
		Status:              StatusPlanned,
		ScheduledDate:       scheduled,
	}
	p.BatchNumber = shared.NewDocumentNumber("BATCH", p.CreatedAt)
	p.setItems(items)
	return p, nil
}

func (p *Production) setItems(items []ProductionItem) {
	for i := range items {
		items[i].ProductionID = p.ID
	}
	p.Items = items
}

// Reschedule changes the planned figures while the batch has not started
func (p *Production) Reschedule(planned decimal.Decimal, scheduled time.Time, notes string, items []ProductionItem) error {
	if p.Status != StatusPlanned && p.Status != StatusOnHold {
		return shared.NewDomainError("PRODUCTION_LOCKED", "Only PLANNED or ON_HOLD batches can be changed")
	}
	if !planned.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Planned quantity must be positive")
	}
	p.PlannedQuantity = planned
	if !scheduled.IsZero() {
		p.ScheduledDate = scheduled
	}
	p.Notes = notes
	if items != nil {
		p.setItems(items)
	}
	p.Touch()
	p.IncrementVersion()
	return nil
}

func (p *Production) transition(target Status) error {
	if !p.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			"Cannot change production status from "+string(p.Status)+" to "+string(target))
	}
	p.Status = target
	p.Touch()
	p.IncrementVersion()
	return nil
}

// Start begins the batch
func (p *Production) Start() error {
	if err := p.transition(StatusInProgress); err != nil {
		return err
	}
	if p.StartedAt == nil {
		now := time.Now().UTC()
		p.StartedAt = &now
	}
	return nil
}

// Hold pauses the batch
func (p *Production) Hold(notes string) error {
	if err := p.transition(StatusOnHold); err != nil {
		return err
	}
	if notes != "" {
		p.Notes = notes
	}
	return nil
}

// Cancel abandons the batch
func (p *Production) Cancel(notes string) error {
	if err := p.transition(StatusCancelled); err != nil {
		return err
	}
	if notes != "" {
		p.Notes = notes
	}
	return nil
}

// Complete finishes the batch with the quantity actually produced.
// usage maps ingredient ID to actual quantity consumed.
func (p *Production) Complete(actual decimal.Decimal, usage map[uuid.UUID]decimal.Decimal) error {
	if actual.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Actual quantity cannot be negative")
	}
	if err := p.transition(StatusCompleted); err != nil {
		return err
	}
	p.ActualQuantity = &actual
	now := time.Now().UTC()
	p.CompletedAt = &now
	for i := range p.Items {
		if used, ok := usage[p.Items[i].IngredientID]; ok {
			u := used
			p.Items[i].ActualQuantity = &u
		}
	}
	p.AddDomainEvent(NewProductionCompletedEvent(p))
	return nil
}

// Efficiency is round(actual / planned * 100), or 0 when either figure is missing
func (p *Production) Efficiency() int64 {
	return Efficiency(p.PlannedQuantity, p.ActualQuantity)
}

// Efficiency computes a batch yield percentage. It is a display value only.
func Efficiency(planned decimal.Decimal, actual *decimal.Decimal) int64 {
	if actual == nil || !planned.IsPositive() {
		return 0
	}
	return actual.Div(planned).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// CanDelete reports whether the batch may be hard deleted
func (p *Production) CanDelete() bool {
	return p.Status == StatusPlanned || p.Status == StatusCancelled
}
