package handler

import (
	tradeapp "github.com/bakery/backend/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// PurchaseOrderHandler handles purchase order endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	purchaseOrderService *tradeapp.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(purchaseOrderService *tradeapp.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		purchaseOrderService: purchaseOrderService,
	}
}

// Create godoc
// @ID           createPurchaseOrder
// @Summary      Create a purchase order
// @Description  Creates a DRAFT purchase order with its items in one transaction
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreatePurchaseOrderRequest true "Purchase order"
// @Success      201 {object} APIResponse[tradeapp.PurchaseOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req tradeapp.CreatePurchaseOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	po, err := h.purchaseOrderService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, po)
}

// GetByID godoc
// @ID           getPurchaseOrderById
// @Summary      Get purchase order by ID
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.PurchaseOrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	poID, ok := h.pathID(c, "id", "purchase order")
	if !ok {
		return
	}

	po, err := h.purchaseOrderService.GetByID(c.Request.Context(), tenantID, poID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, po)
}

// List godoc
// @ID           listPurchaseOrders
// @Summary      List purchase orders
// @Tags         purchase-orders
// @Produce      json
// @Param        search      query string false "PO number search"
// @Param        status      query string false "Status" Enums(DRAFT, SUBMITTED, APPROVED, ORDERED, RECEIVED, COMPLETED, CANCELLED)
// @Param        supplier_id query string false "Supplier ID" format(uuid)
// @Param        page        query int    false "Page number" default(1)
// @Param        page_size   query int    false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]tradeapp.PurchaseOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter tradeapp.PurchaseOrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.SupplierID, ok = h.queryUUID(c, "supplier_id"); !ok {
		return
	}

	pos, total, err := h.purchaseOrderService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, pos, total, filter.Page, filter.PageSize)
}

// UpdateItems godoc
// @ID           updatePurchaseOrderItems
// @Summary      Replace purchase order items
// @Description  DRAFT only
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id      path string true "Purchase order ID" format(uuid)
// @Param        request body tradeapp.UpdatePurchaseOrderItemsRequest true "Items"
// @Success      200 {object} APIResponse[tradeapp.PurchaseOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/items [put]
func (h *PurchaseOrderHandler) UpdateItems(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	poID, ok := h.pathID(c, "id", "purchase order")
	if !ok {
		return
	}

	var req tradeapp.UpdatePurchaseOrderItemsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	po, err := h.purchaseOrderService.UpdateItems(c.Request.Context(), tenantID, poID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, po)
}

// UpdateSchedule godoc
// @ID           updatePurchaseOrderSchedule
// @Summary      Update expected date and notes
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id      path string true "Purchase order ID" format(uuid)
// @Param        request body tradeapp.UpdatePurchaseOrderScheduleRequest true "Schedule"
// @Success      200 {object} APIResponse[tradeapp.PurchaseOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders/{id} [put]
func (h *PurchaseOrderHandler) UpdateSchedule(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	poID, ok := h.pathID(c, "id", "purchase order")
	if !ok {
		return
	}

	var req tradeapp.UpdatePurchaseOrderScheduleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	po, err := h.purchaseOrderService.UpdateSchedule(c.Request.Context(), tenantID, poID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, po)
}

// UpdateStatus godoc
// @ID           updatePurchaseOrderStatus
// @Summary      Change purchase order status
// @Description  DRAFT to SUBMITTED or CANCELLED, SUBMITTED to APPROVED or CANCELLED, APPROVED to ORDERED or CANCELLED, ORDERED to RECEIVED, RECEIVED to COMPLETED
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id      path string true "Purchase order ID" format(uuid)
// @Param        request body tradeapp.UpdatePurchaseOrderStatusRequest true "Target status"
// @Success      200 {object} APIResponse[tradeapp.PurchaseOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/status [patch]
func (h *PurchaseOrderHandler) UpdateStatus(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	poID, ok := h.pathID(c, "id", "purchase order")
	if !ok {
		return
	}

	var req tradeapp.UpdatePurchaseOrderStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	po, err := h.purchaseOrderService.UpdateStatus(c.Request.Context(), tenantID, poID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, po)
}

// Delete godoc
// @ID           deletePurchaseOrder
// @Summary      Delete a purchase order
// @Description  DRAFT or CANCELLED only
// @Tags         purchase-orders
// @Param        id path string true "Purchase order ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders/{id} [delete]
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	poID, ok := h.pathID(c, "id", "purchase order")
	if !ok {
		return
	}

	if err := h.purchaseOrderService.Delete(c.Request.Context(), tenantID, poID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
