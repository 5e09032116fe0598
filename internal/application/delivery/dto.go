package delivery

import (
	"cmp"
	"time"

	"github.com/bakery/backend/internal/domain/delivery"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DriverDTO identifies who carries a delivery
type DriverDTO struct {
	Name          string `json:"name" binding:"max=100"`
	Phone         string `json:"phone" binding:"max=50"`
	VehicleNumber string `json:"vehicle_number" binding:"max=50"`
}

// CreateDeliveryRequest schedules a delivery. An empty address falls back to
// the order's shipping address.
type CreateDeliveryRequest struct {
	OrderID       uuid.UUID `json:"order_id" binding:"required"`
	ScheduledDate time.Time `json:"scheduled_date" binding:"required"`
	Address       string    `json:"address" binding:"max=500"`
	Driver        DriverDTO `json:"driver"`
	Notes         string    `json:"notes" binding:"max=1000"`
}

// UpdateDeliveryRequest changes schedule, address, driver and notes
type UpdateDeliveryRequest struct {
	ScheduledDate time.Time `json:"scheduled_date"`
	Address       string    `json:"address" binding:"max=500"`
	Driver        DriverDTO `json:"driver"`
	Notes         string    `json:"notes" binding:"max=1000"`
}

// UpdateDeliveryStatusRequest moves a delivery through its lifecycle.
// Reason is required when the target is FAILED.
type UpdateDeliveryStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=SCHEDULED IN_TRANSIT DELIVERED FAILED RETURNED"`
	Reason string `json:"reason" binding:"max=500"`
}

// DeliveryResponse represents a delivery
type DeliveryResponse struct {
	ID             uuid.UUID  `json:"id"`
	TenantID       uuid.UUID  `json:"tenant_id"`
	OrderID        uuid.UUID  `json:"order_id"`
	Status         string     `json:"status"`
	ScheduledDate  time.Time  `json:"scheduled_date"`
	ActualDate     *time.Time `json:"actual_date"`
	Address        string     `json:"address"`
	Driver         DriverDTO  `json:"driver"`
	TrackingNumber string     `json:"tracking_number"`
	Notes          string     `json:"notes"`
	FailureReason  string     `json:"failure_reason,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Version        int        `json:"version"`
}

// DeliveryListFilter represents filter options for delivery list
type DeliveryListFilter struct {
	Search   string     `form:"search"`
	Status   string     `form:"status" binding:"omitempty,oneof=SCHEDULED IN_TRANSIT DELIVERED FAILED RETURNED"`
	OrderID  *uuid.UUID `form:"-"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f DeliveryListFilter) toDomain() delivery.Filter {
	df := shared.NewFilter(f.Page, f.PageSize, cmp.Or(f.OrderBy, "scheduled_date"), f.OrderDir)
	df.Search = f.Search
	return delivery.Filter{Filter: df, Status: delivery.Status(f.Status), OrderID: f.OrderID, From: f.From, To: f.To}
}

// ToDeliveryResponse converts a domain Delivery to DeliveryResponse
func ToDeliveryResponse(d *delivery.Delivery) DeliveryResponse {
	return DeliveryResponse{
		ID:             d.ID,
		TenantID:       d.TenantID,
		OrderID:        d.OrderID,
		Status:         string(d.Status),
		ScheduledDate:  d.ScheduledDate,
		ActualDate:     d.ActualDate,
		Address:        d.Address,
		Driver:         DriverDTO{Name: d.Driver.Name, Phone: d.Driver.Phone, VehicleNumber: d.Driver.VehicleNumber},
		TrackingNumber: d.TrackingNumber,
		Notes:          d.Notes,
		FailureReason:  d.FailureReason,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
		Version:        d.Version,
	}
}

func (d DriverDTO) toDomain() delivery.Driver {
	return delivery.Driver{Name: d.Name, Phone: d.Phone, VehicleNumber: d.VehicleNumber}
}
