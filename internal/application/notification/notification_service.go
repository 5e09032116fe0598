package notification

import (
	"context"

	"github.com/bakery/backend/internal/domain/notification"
	"github.com/bakery/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// NotificationService handles queued customer and staff messages
type NotificationService struct {
	notificationRepo notification.Repository
	customerRepo     partner.CustomerRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo notification.Repository, customerRepo partner.CustomerRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo, customerRepo: customerRepo}
}

// Create renders the template against its variables and stores a PENDING notification
func (s *NotificationService) Create(ctx context.Context, tenantID uuid.UUID, req CreateNotificationRequest) (*NotificationResponse, error) {
	if req.CustomerID != nil {
		if _, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, *req.CustomerID); err != nil {
			return nil, err
		}
	}
	n, err := notification.NewNotification(tenantID, notification.Type(req.Type), req.Recipient, req.Subject, req.Template, req.Variables, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if err := s.notificationRepo.Save(ctx, n); err != nil {
		return nil, err
	}
	response := ToNotificationResponse(n)
	return &response, nil
}

// GetByID retrieves a notification
func (s *NotificationService) GetByID(ctx context.Context, tenantID, notificationID uuid.UUID) (*NotificationResponse, error) {
	n, err := s.notificationRepo.FindByIDForTenant(ctx, tenantID, notificationID)
	if err != nil {
		return nil, err
	}
	response := ToNotificationResponse(n)
	return &response, nil
}

// List retrieves notifications with filtering and pagination
func (s *NotificationService) List(ctx context.Context, tenantID uuid.UUID, filter NotificationListFilter) ([]NotificationResponse, int64, error) {
	items, total, err := s.notificationRepo.FindAllForTenant(ctx, tenantID, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	responses := make([]NotificationResponse, len(items))
	for i := range items {
		responses[i] = ToNotificationResponse(&items[i])
	}
	return responses, total, nil
}

// MarkSent records that the provider accepted the message
func (s *NotificationService) MarkSent(ctx context.Context, tenantID, notificationID uuid.UUID) (*NotificationResponse, error) {
	return s.mutate(ctx, tenantID, notificationID, func(n *notification.Notification) error {
		return n.MarkSent()
	})
}

// MarkFailed records that the provider rejected the message
func (s *NotificationService) MarkFailed(ctx context.Context, tenantID, notificationID uuid.UUID, req MarkFailedRequest) (*NotificationResponse, error) {
	return s.mutate(ctx, tenantID, notificationID, func(n *notification.Notification) error {
		return n.MarkFailed(req.Reason)
	})
}

// Delete removes a notification
func (s *NotificationService) Delete(ctx context.Context, tenantID, notificationID uuid.UUID) error {
	if _, err := s.notificationRepo.FindByIDForTenant(ctx, tenantID, notificationID); err != nil {
		return err
	}
	return s.notificationRepo.DeleteForTenant(ctx, tenantID, notificationID)
}

func (s *NotificationService) mutate(ctx context.Context, tenantID, notificationID uuid.UUID, apply func(*notification.Notification) error) (*NotificationResponse, error) {
	n, err := s.notificationRepo.FindByIDForTenant(ctx, tenantID, notificationID)
	if err != nil {
		return nil, err
	}
	if err := apply(n); err != nil {
		return nil, err
	}
	if err := s.notificationRepo.Save(ctx, n); err != nil {
		return nil, err
	}
	response := ToNotificationResponse(n)
	return &response, nil
}
