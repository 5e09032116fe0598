package models

import (
	"encoding/json"
	"time"

	"github.com/bakery/backend/internal/domain/notification"
	"github.com/google/uuid"
)

// NotificationModel is the persistence model for the Notification aggregate root.
// Variables are stored as the raw JSON text the caller sent.
type NotificationModel struct {
	TenantAggregateModel
	Type          notification.Type   `gorm:"type:varchar(20);not null;index"`
	Status        notification.Status `gorm:"type:varchar(20);not null;index"`
	Recipient     string              `gorm:"type:varchar(200);not null"`
	Subject       string              `gorm:"type:varchar(500)"`
	Template      string              `gorm:"type:text;not null"`
	Variables     string              `gorm:"type:text"`
	Message       string              `gorm:"type:text"`
	CustomerID    *uuid.UUID          `gorm:"type:uuid;index"`
	SentAt        *time.Time
	FailureReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the persistence model to a domain Notification entity.
func (m *NotificationModel) ToDomain() *notification.Notification {
	return &notification.Notification{
		TenantAggregateRoot: m.Root(),
		Type:                m.Type,
		Status:              m.Status,
		Recipient:           m.Recipient,
		Subject:             m.Subject,
		Template:            m.Template,
		Variables:           json.RawMessage(m.Variables),
		Message:             m.Message,
		CustomerID:          m.CustomerID,
		SentAt:              m.SentAt,
		FailureReason:       m.FailureReason,
	}
}

// FromDomain populates the persistence model from a domain Notification entity.
func (m *NotificationModel) FromDomain(n *notification.Notification) {
	m.SetRoot(n.TenantAggregateRoot)
	m.Type = n.Type
	m.Status = n.Status
	m.Recipient = n.Recipient
	m.Subject = n.Subject
	m.Template = n.Template
	m.Variables = string(n.Variables)
	m.Message = n.Message
	m.CustomerID = n.CustomerID
	m.SentAt = n.SentAt
	m.FailureReason = n.FailureReason
}

// NotificationModelFromDomain creates a new persistence model from a domain Notification entity.
func NotificationModelFromDomain(n *notification.Notification) *NotificationModel {
	m := &NotificationModel{}
	m.FromDomain(n)
	return m
}
