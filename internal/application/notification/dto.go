package notification

import (
	"encoding/json"
	"time"

	"github.com/bakery/backend/internal/domain/notification"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CreateNotificationRequest queues a message. Variables is a JSON document
// whose paths fill {{placeholders}} in Subject and Template.
type CreateNotificationRequest struct {
	Type       string          `json:"type" binding:"required,oneof=SMS EMAIL WHATSAPP PUSH"`
	Recipient  string          `json:"recipient" binding:"required,max=200"`
	Subject    string          `json:"subject" binding:"max=200"`
	Template   string          `json:"template" binding:"required,max=5000"`
	Variables  json.RawMessage `json:"variables" swaggertype:"object"`
	CustomerID *uuid.UUID      `json:"customer_id"`
}

// MarkFailedRequest records why the provider rejected a notification
type MarkFailedRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// NotificationResponse represents a notification
type NotificationResponse struct {
	ID            uuid.UUID       `json:"id"`
	TenantID      uuid.UUID       `json:"tenant_id"`
	Type          string          `json:"type"`
	Status        string          `json:"status"`
	Recipient     string          `json:"recipient"`
	Subject       string          `json:"subject"`
	Template      string          `json:"template"`
	Variables     json.RawMessage `json:"variables" swaggertype:"object"`
	Message       string          `json:"message"`
	CustomerID    *uuid.UUID      `json:"customer_id"`
	SentAt        *time.Time      `json:"sent_at"`
	FailureReason string          `json:"failure_reason,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// NotificationListFilter represents filter options for notification list
type NotificationListFilter struct {
	Type       string     `form:"type" binding:"omitempty,oneof=SMS EMAIL WHATSAPP PUSH"`
	Status     string     `form:"status" binding:"omitempty,oneof=PENDING SENT FAILED"`
	CustomerID *uuid.UUID `form:"-"`
	Search     string     `form:"search"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f NotificationListFilter) toDomain() notification.Filter {
	df := shared.NewFilter(f.Page, f.PageSize, f.OrderBy, f.OrderDir)
	df.Search = f.Search
	return notification.Filter{
		Filter:     df,
		Type:       notification.Type(f.Type),
		Status:     notification.Status(f.Status),
		CustomerID: f.CustomerID,
	}
}

// ToNotificationResponse converts a domain Notification to NotificationResponse
func ToNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:            n.ID,
		TenantID:      n.TenantID,
		Type:          string(n.Type),
		Status:        string(n.Status),
		Recipient:     n.Recipient,
		Subject:       n.Subject,
		Template:      n.Template,
		Variables:     n.Variables,
		Message:       n.Message,
		CustomerID:    n.CustomerID,
		SentAt:        n.SentAt,
		FailureReason: n.FailureReason,
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
		Version:       n.Version,
	}
}
