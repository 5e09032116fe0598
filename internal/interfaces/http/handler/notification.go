package handler

import (
	notificationapp "github.com/bakery/backend/internal/application/notification"
	"github.com/gin-gonic/gin"
)

// NotificationHandler handles notification endpoints
type NotificationHandler struct {
	BaseHandler
	notificationService *notificationapp.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *notificationapp.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// Create godoc
// @ID           createNotification
// @Summary      Queue a notification
// @Description  Double-brace placeholders in subject and template are filled from the variables document. Unknown placeholders stay as written.
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        request body notificationapp.CreateNotificationRequest true "Notification"
// @Success      201 {object} APIResponse[notificationapp.NotificationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notifications [post]
func (h *NotificationHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req notificationapp.CreateNotificationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	n, err := h.notificationService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, n)
}

// GetByID godoc
// @ID           getNotificationById
// @Summary      Get notification by ID
// @Tags         notifications
// @Produce      json
// @Param        id path string true "Notification ID" format(uuid)
// @Success      200 {object} APIResponse[notificationapp.NotificationResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notifications/{id} [get]
func (h *NotificationHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	notificationID, ok := h.pathID(c, "id", "notification")
	if !ok {
		return
	}

	n, err := h.notificationService.GetByID(c.Request.Context(), tenantID, notificationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, n)
}

// List godoc
// @ID           listNotifications
// @Summary      List notifications
// @Tags         notifications
// @Produce      json
// @Param        type        query string false "Type" Enums(SMS, EMAIL, WHATSAPP, PUSH)
// @Param        status      query string false "Status" Enums(PENDING, SENT, FAILED)
// @Param        customer_id query string false "Customer ID" format(uuid)
// @Param        search      query string false "Recipient or subject search"
// @Param        page        query int    false "Page number" default(1)
// @Param        page_size   query int    false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]notificationapp.NotificationResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter notificationapp.NotificationListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.CustomerID, ok = h.queryUUID(c, "customer_id"); !ok {
		return
	}

	notifications, total, err := h.notificationService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, notifications, total, filter.Page, filter.PageSize)
}

// MarkSent godoc
// @ID           markNotificationSent
// @Summary      Mark a notification sent
// @Tags         notifications
// @Produce      json
// @Param        id path string true "Notification ID" format(uuid)
// @Success      200 {object} APIResponse[notificationapp.NotificationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notifications/{id}/sent [post]
func (h *NotificationHandler) MarkSent(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	notificationID, ok := h.pathID(c, "id", "notification")
	if !ok {
		return
	}

	n, err := h.notificationService.MarkSent(c.Request.Context(), tenantID, notificationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, n)
}

// MarkFailed godoc
// @ID           markNotificationFailed
// @Summary      Mark a notification failed
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        id      path string true "Notification ID" format(uuid)
// @Param        request body notificationapp.MarkFailedRequest true "Failure reason"
// @Success      200 {object} APIResponse[notificationapp.NotificationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notifications/{id}/failed [post]
func (h *NotificationHandler) MarkFailed(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	notificationID, ok := h.pathID(c, "id", "notification")
	if !ok {
		return
	}

	var req notificationapp.MarkFailedRequest
	if !h.bindJSON(c, &req) {
		return
	}

	n, err := h.notificationService.MarkFailed(c.Request.Context(), tenantID, notificationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, n)
}

// Delete godoc
// @ID           deleteNotification
// @Summary      Delete a notification
// @Tags         notifications
// @Param        id path string true "Notification ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	notificationID, ok := h.pathID(c, "id", "notification")
	if !ok {
		return
	}

	if err := h.notificationService.Delete(c.Request.Context(), tenantID, notificationID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
