package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bakery/backend/internal/domain/inventory"
	"github.com/bakery/backend/internal/domain/notification"
	"github.com/bakery/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const lowStockTemplate = "Stock of product {{product_id}} in warehouse {{warehouse_id}} is down to {{available}} (reorder level {{threshold}})"

// LowStockAlertHandler queues an EMAIL notification to the stock desk
// whenever LowStockDetected is published
type LowStockAlertHandler struct {
	notificationRepo notification.Repository
	recipient        string
	logger           *zap.Logger
}

// NewLowStockAlertHandler creates a handler that alerts recipient.
// An empty recipient turns the handler into a no-op.
func NewLowStockAlertHandler(notificationRepo notification.Repository, recipient string, logger *zap.Logger) *LowStockAlertHandler {
	return &LowStockAlertHandler{
		notificationRepo: notificationRepo,
		recipient:        recipient,
		logger:           logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *LowStockAlertHandler) EventTypes() []string {
	return []string{inventory.EventTypeLowStockDetected}
}

// Handle renders and stores the alert
func (h *LowStockAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	lowStock, ok := event.(*inventory.LowStockDetectedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeLowStockDetected, event.EventType())
	}
	if h.recipient == "" {
		return nil
	}

	vars, err := json.Marshal(lowStock)
	if err != nil {
		return fmt.Errorf("encode low stock variables: %w", err)
	}
	n, err := notification.NewNotification(lowStock.TenantID(), notification.TypeEmail, h.recipient,
		"Low stock alert", lowStockTemplate, vars, nil)
	if err != nil {
		return err
	}
	if err := h.notificationRepo.Save(ctx, n); err != nil {
		h.logger.Error("failed to queue low stock alert",
			zap.String("product_id", lowStock.ProductID.String()),
			zap.String("warehouse_id", lowStock.WarehouseID.String()),
			zap.Error(err),
		)
		return err
	}

	h.logger.Info("queued low stock alert",
		zap.String("notification_id", n.ID.String()),
		zap.String("product_id", lowStock.ProductID.String()),
		zap.String("available", lowStock.Available.String()),
	)
	return nil
}
