package delivery

import (
	"strings"
	"time"

	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Status tracks a delivery run
type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusInTransit Status = "IN_TRANSIT"
	StatusDelivered Status = "DELIVERED"
	StatusFailed    Status = "FAILED"
	StatusReturned  Status = "RETURNED"
)

// IsValid checks if the status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusInTransit, StatusDelivered, StatusFailed, StatusReturned:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can move to target.
// FAILED deliveries may be rescheduled.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusScheduled:
		return target == StatusInTransit || target == StatusFailed
	case StatusInTransit:
		return target == StatusDelivered || target == StatusFailed || target == StatusReturned
	case StatusFailed:
		return target == StatusScheduled
	}
	return false
}

// Driver identifies who carries the delivery
type Driver struct {
	Name          string
	Phone         string
	VehicleNumber string
}

// Delivery is the shipment of one order
type Delivery struct {
	shared.TenantAggregateRoot
	OrderID        uuid.UUID
	Status         Status
	ScheduledDate  time.Time
	ActualDate     *time.Time
	Address        string
	Driver         Driver
	TrackingNumber string
	Notes          string
	FailureReason  string
}

// NewDelivery schedules a delivery for an order
func NewDelivery(tenantID, orderID uuid.UUID, scheduled time.Time, address string) (*Delivery, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if scheduled.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Scheduled date is required")
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Delivery address is required")
	}
	d := &Delivery{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderID:             orderID,
		Status:              StatusScheduled,
		ScheduledDate:       scheduled,
		Address:             address,
	}
	d.TrackingNumber = shared.NewDocumentNumber("DLV", d.CreatedAt)
	return d, nil
}

// Update changes schedule, address, driver and notes
func (d *Delivery) Update(scheduled time.Time, address string, driver Driver, notes string) error {
	if d.Status == StatusDelivered || d.Status == StatusReturned {
		return shared.NewDomainError("DELIVERY_CLOSED", "Closed deliveries cannot change")
	}
	if !scheduled.IsZero() {
		d.ScheduledDate = scheduled
	}
	if a := strings.TrimSpace(address); a != "" {
		d.Address = a
	}
	d.Driver = driver
	d.Notes = notes
	d.Touch()
	d.IncrementVersion()
	return nil
}

// TransitionTo moves the delivery to target. Entering DELIVERED stamps the actual date.
func (d *Delivery) TransitionTo(target Status, reason string) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown delivery status")
	}
	if !d.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			"Cannot change delivery status from "+string(d.Status)+" to "+string(target))
	}
	switch target {
	case StatusDelivered:
		now := time.Now().UTC()
		d.ActualDate = &now
	case StatusFailed:
		if strings.TrimSpace(reason) == "" {
			return shared.NewDomainError("INVALID_REASON", "Failure reason is required")
		}
		d.FailureReason = reason
	case StatusScheduled:
		d.FailureReason = ""
	}
	d.Status = target
	d.Touch()
	d.IncrementVersion()
	return nil
}

// CanDelete reports whether the delivery may be hard deleted
func (d *Delivery) CanDelete() bool {
	return d.Status == StatusScheduled
}
