package models

import (
	"time"

	"github.com/bakery/backend/internal/domain/delivery"
	"github.com/google/uuid"
)

// DeliveryModel is the persistence model for the Delivery aggregate root.
type DeliveryModel struct {
	TenantAggregateModel
	OrderID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status         delivery.Status `gorm:"type:varchar(20);not null;index"`
	ScheduledDate  time.Time       `gorm:"not null;index"`
	ActualDate     *time.Time
	Address        string `gorm:"type:varchar(500);not null"`
	DriverName     string `gorm:"type:varchar(100)"`
	DriverPhone    string `gorm:"type:varchar(50)"`
	VehicleNumber  string `gorm:"type:varchar(50)"`
	TrackingNumber string `gorm:"type:varchar(50);index"`
	Notes          string `gorm:"type:text"`
	FailureReason  string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (DeliveryModel) TableName() string {
	return "deliveries"
}

// ToDomain converts the persistence model to a domain Delivery entity.
func (m *DeliveryModel) ToDomain() *delivery.Delivery {
	return &delivery.Delivery{
		TenantAggregateRoot: m.Root(),
		OrderID:             m.OrderID,
		Status:              m.Status,
		ScheduledDate:       m.ScheduledDate,
		ActualDate:          m.ActualDate,
		Address:             m.Address,
		Driver: delivery.Driver{
			Name:          m.DriverName,
			Phone:         m.DriverPhone,
			VehicleNumber: m.VehicleNumber,
		},
		TrackingNumber: m.TrackingNumber,
		Notes:          m.Notes,
		FailureReason:  m.FailureReason,
	}
}

// FromDomain populates the persistence model from a domain Delivery entity.
func (m *DeliveryModel) FromDomain(d *delivery.Delivery) {
	m.SetRoot(d.TenantAggregateRoot)
	m.OrderID = d.OrderID
	m.Status = d.Status
	m.ScheduledDate = d.ScheduledDate
	m.ActualDate = d.ActualDate
	m.Address = d.Address
	m.DriverName = d.Driver.Name
	m.DriverPhone = d.Driver.Phone
	m.VehicleNumber = d.Driver.VehicleNumber
	m.TrackingNumber = d.TrackingNumber
	m.Notes = d.Notes
	m.FailureReason = d.FailureReason
}

// DeliveryModelFromDomain creates a new persistence model from a domain Delivery entity.
func DeliveryModelFromDomain(d *delivery.Delivery) *DeliveryModel {
	m := &DeliveryModel{}
	m.FromDomain(d)
	return m
}
