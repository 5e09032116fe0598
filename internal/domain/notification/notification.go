package notification

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// Type is the channel a notification is meant for
type Type string

const (
	TypeSMS      Type = "SMS"
	TypeEmail    Type = "EMAIL"
	TypeWhatsApp Type = "WHATSAPP"
	TypePush     Type = "PUSH"
)

// IsValid checks if the type is known
func (t Type) IsValid() bool {
	switch t {
	case TypeSMS, TypeEmail, TypeWhatsApp, TypePush:
		return true
	}
	return false
}

// Status is the delivery state reported back by the sender
type Status string

const (
	StatusPending Status = "PENDING"
	StatusSent    Status = "SENT"
	StatusFailed  Status = "FAILED"
)

var placeholder = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.\-]+)\s*\}\}`)

// Render replaces {{path}} placeholders with values looked up in the JSON
// variables document. Unknown paths are left as written.
func Render(template string, variables json.RawMessage) string {
	if len(variables) == 0 || !gjson.ValidBytes(variables) {
		return template
	}
	return placeholder.ReplaceAllStringFunc(template, func(m string) string {
		path := placeholder.FindStringSubmatch(m)[1]
		v := gjson.GetBytes(variables, path)
		if !v.Exists() {
			return m
		}
		return v.String()
	})
}

// Notification is a message queued for a customer or staff member
type Notification struct {
	shared.TenantAggregateRoot
	Type          Type
	Status        Status
	Recipient     string
	Subject       string
	Template      string
	Variables     json.RawMessage
	Message       string
	CustomerID    *uuid.UUID
	SentAt        *time.Time
	FailureReason string
}

// NewNotification creates a PENDING notification and renders its message
func NewNotification(tenantID uuid.UUID, typ Type, recipient, subject, template string, variables json.RawMessage, customerID *uuid.UUID) (*Notification, error) {
	if !typ.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Notification type must be one of SMS, EMAIL, WHATSAPP, PUSH")
	}
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return nil, shared.NewDomainError("INVALID_RECIPIENT", "Recipient is required")
	}
	if strings.TrimSpace(template) == "" {
		return nil, shared.NewDomainError("INVALID_TEMPLATE", "Message template is required")
	}
	if len(variables) > 0 && !gjson.ValidBytes(variables) {
		return nil, shared.NewDomainError("INVALID_VARIABLES", "Template variables must be a JSON document")
	}
	if typ == TypeEmail && strings.TrimSpace(subject) == "" {
		return nil, shared.NewDomainError("INVALID_SUBJECT", "Email notifications need a subject")
	}
	if len(variables) == 0 {
		variables = json.RawMessage(`{}`)
	}
	return &Notification{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Type:                typ,
		Status:              StatusPending,
		Recipient:           recipient,
		Subject:             Render(subject, variables),
		Template:            template,
		Variables:           variables,
		Message:             Render(template, variables),
		CustomerID:          customerID,
	}, nil
}

// MarkSent records a successful hand-off to the provider
func (n *Notification) MarkSent() error {
	if n.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Only PENDING notifications can be marked sent")
	}
	now := time.Now().UTC()
	n.Status = StatusSent
	n.SentAt = &now
	n.Touch()
	n.IncrementVersion()
	return nil
}

// MarkFailed records a provider failure
func (n *Notification) MarkFailed(reason string) error {
	if n.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Only PENDING notifications can be marked failed")
	}
	if strings.TrimSpace(reason) == "" {
		return shared.NewDomainError("INVALID_REASON", "Failure reason is required")
	}
	n.Status = StatusFailed
	n.FailureReason = reason
	n.Touch()
	n.IncrementVersion()
	return nil
}
