package handler

import (
	deliveryapp "github.com/bakery/backend/internal/application/delivery"
	"github.com/gin-gonic/gin"
)

// DeliveryHandler handles delivery endpoints
type DeliveryHandler struct {
	BaseHandler
	deliveryService *deliveryapp.DeliveryService
}

// NewDeliveryHandler creates a new DeliveryHandler
func NewDeliveryHandler(deliveryService *deliveryapp.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{
		deliveryService: deliveryService,
	}
}

// Create godoc
// @ID           createDelivery
// @Summary      Schedule a delivery
// @Description  The order must exist. An empty address falls back to the order's shipping address.
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Param        request body deliveryapp.CreateDeliveryRequest true "Delivery"
// @Success      201 {object} APIResponse[deliveryapp.DeliveryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /deliveries [post]
func (h *DeliveryHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req deliveryapp.CreateDeliveryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	d, err := h.deliveryService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, d)
}

// GetByID godoc
// @ID           getDeliveryById
// @Summary      Get delivery by ID
// @Tags         deliveries
// @Produce      json
// @Param        id path string true "Delivery ID" format(uuid)
// @Success      200 {object} APIResponse[deliveryapp.DeliveryResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /deliveries/{id} [get]
func (h *DeliveryHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	deliveryID, ok := h.pathID(c, "id", "delivery")
	if !ok {
		return
	}

	d, err := h.deliveryService.GetByID(c.Request.Context(), tenantID, deliveryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, d)
}

// List godoc
// @ID           listDeliveries
// @Summary      List deliveries
// @Tags         deliveries
// @Produce      json
// @Param        search    query string false "Tracking number or driver search"
// @Param        status    query string false "Status" Enums(SCHEDULED, IN_TRANSIT, DELIVERED, FAILED, RETURNED)
// @Param        order_id  query string false "Order ID" format(uuid)
// @Param        from      query string false "Scheduled from (YYYY-MM-DD)"
// @Param        to        query string false "Scheduled to (YYYY-MM-DD)"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]deliveryapp.DeliveryResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /deliveries [get]
func (h *DeliveryHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter deliveryapp.DeliveryListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.OrderID, ok = h.queryUUID(c, "order_id"); !ok {
		return
	}

	deliveries, total, err := h.deliveryService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, deliveries, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateDelivery
// @Summary      Update schedule, address, driver and notes
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Param        id      path string true "Delivery ID" format(uuid)
// @Param        request body deliveryapp.UpdateDeliveryRequest true "Delivery update"
// @Success      200 {object} APIResponse[deliveryapp.DeliveryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /deliveries/{id} [put]
func (h *DeliveryHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	deliveryID, ok := h.pathID(c, "id", "delivery")
	if !ok {
		return
	}

	var req deliveryapp.UpdateDeliveryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	d, err := h.deliveryService.Update(c.Request.Context(), tenantID, deliveryID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, d)
}

// UpdateStatus godoc
// @ID           updateDeliveryStatus
// @Summary      Change delivery status
// @Description  SCHEDULED to IN_TRANSIT or FAILED, IN_TRANSIT to DELIVERED, FAILED or RETURNED, FAILED to SCHEDULED. DELIVERED stamps the actual date.
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Param        id      path string true "Delivery ID" format(uuid)
// @Param        request body deliveryapp.UpdateDeliveryStatusRequest true "Target status"
// @Success      200 {object} APIResponse[deliveryapp.DeliveryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /deliveries/{id}/status [patch]
func (h *DeliveryHandler) UpdateStatus(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	deliveryID, ok := h.pathID(c, "id", "delivery")
	if !ok {
		return
	}

	var req deliveryapp.UpdateDeliveryStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	d, err := h.deliveryService.UpdateStatus(c.Request.Context(), tenantID, deliveryID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, d)
}

// Delete godoc
// @ID           deleteDelivery
// @Summary      Delete a delivery
// @Description  SCHEDULED only
// @Tags         deliveries
// @Param        id path string true "Delivery ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /deliveries/{id} [delete]
func (h *DeliveryHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	deliveryID, ok := h.pathID(c, "id", "delivery")
	if !ok {
		return
	}

	if err := h.deliveryService.Delete(c.Request.Context(), tenantID, deliveryID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
