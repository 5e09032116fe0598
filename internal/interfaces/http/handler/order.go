package handler

import (
	tradeapp "github.com/bakery/backend/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// OrderHandler handles customer order endpoints
type OrderHandler struct {
	BaseHandler
	orderService *tradeapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *tradeapp.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// Create godoc
// @ID           createOrder
// @Summary      Place an order
// @Description  Creates the order and its items in one transaction. Totals are computed from the items.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreateOrderRequest true "Order"
// @Success      201 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req tradeapp.CreateOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// GetByID godoc
// @ID           getOrderById
// @Summary      Get order by ID
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c, "id", "order")
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// List godoc
// @ID           listOrders
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Param        search         query string false "Order number search"
// @Param        status         query string false "Status" Enums(PENDING, CONFIRMED, PREPARING, READY, DELIVERED, CANCELLED)
// @Param        payment_status query string false "Payment status" Enums(PENDING, PARTIAL, PAID, REFUNDED, FAILED)
// @Param        channel        query string false "Channel" Enums(ONLINE, STORE, B2B, POS)
// @Param        customer_id    query string false "Customer ID" format(uuid)
// @Param        from           query string false "From date (YYYY-MM-DD)"
// @Param        to             query string false "To date (YYYY-MM-DD)"
// @Param        page           query int    false "Page number" default(1)
// @Param        page_size      query int    false "Page size" default(20) maximum(100)
// @Param        order_by       query string false "Sort field" default(created_at)
// @Param        order_dir      query string false "Sort direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]tradeapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter tradeapp.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.CustomerID, ok = h.queryUUID(c, "customer_id"); !ok {
		return
	}

	orders, total, err := h.orderService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// UpdateItems godoc
// @ID           updateOrderItems
// @Summary      Replace order items
// @Description  Allowed while PENDING or CONFIRMED. Recomputes subtotal, tax and total.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id      path string true "Order ID" format(uuid)
// @Param        request body tradeapp.UpdateOrderItemsRequest true "Items"
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/items [put]
func (h *OrderHandler) UpdateItems(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c, "id", "order")
	if !ok {
		return
	}

	var req tradeapp.UpdateOrderItemsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.UpdateItems(c.Request.Context(), tenantID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// UpdateDelivery godoc
// @ID           updateOrderDelivery
// @Summary      Update delivery details
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id      path string true "Order ID" format(uuid)
// @Param        request body tradeapp.UpdateOrderDeliveryRequest true "Delivery details"
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/delivery [put]
func (h *OrderHandler) UpdateDelivery(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c, "id", "order")
	if !ok {
		return
	}

	var req tradeapp.UpdateOrderDeliveryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.UpdateDelivery(c.Request.Context(), tenantID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// UpdateStatus godoc
// @ID           updateOrderStatus
// @Summary      Change order status
// @Description  PENDING to CONFIRMED or CANCELLED, CONFIRMED to PREPARING or CANCELLED, PREPARING to READY or CANCELLED, READY to DELIVERED
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id      path string true "Order ID" format(uuid)
// @Param        request body tradeapp.UpdateOrderStatusRequest true "Target status"
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c, "id", "order")
	if !ok {
		return
	}

	var req tradeapp.UpdateOrderStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), tenantID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// UpdatePaymentStatus godoc
// @ID           updateOrderPaymentStatus
// @Summary      Change payment status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id      path string true "Order ID" format(uuid)
// @Param        request body tradeapp.UpdatePaymentStatusRequest true "Payment status"
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/payment-status [patch]
func (h *OrderHandler) UpdatePaymentStatus(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c, "id", "order")
	if !ok {
		return
	}

	var req tradeapp.UpdatePaymentStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.UpdatePaymentStatus(c.Request.Context(), tenantID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Cancel godoc
// @ID           cancelOrder
// @Summary      Cancel an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id      path string true "Order ID" format(uuid)
// @Param        request body tradeapp.CancelOrderRequest true "Reason"
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c, "id", "order")
	if !ok {
		return
	}

	var req tradeapp.CancelOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), tenantID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Delete godoc
// @ID           deleteOrder
// @Summary      Delete an order
// @Description  Only PENDING or CANCELLED orders can be deleted
// @Tags         orders
// @Param        id path string true "Order ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c, "id", "order")
	if !ok {
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), tenantID, orderID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
