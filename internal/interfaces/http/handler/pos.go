package handler

import (
	"net/http"
	"strings"

	posapp "github.com/bakery/backend/internal/application/pos"
	"github.com/bakery/backend/internal/interfaces/http/dto"
	"github.com/bakery/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// maxIdempotencyKeyLength bounds the Idempotency-Key header
const maxIdempotencyKeyLength = 128

// POSHandler handles till sessions and counter sales
type POSHandler struct {
	BaseHandler
	posService *posapp.POSService
}

// NewPOSHandler creates a new POSHandler
func NewPOSHandler(posService *posapp.POSService) *POSHandler {
	return &POSHandler{
		posService: posService,
	}
}

// OpenSession godoc
// @ID           openPOSSession
// @Summary      Open a till session
// @Description  The authenticated user becomes the cashier. A terminal has at most one open session.
// @Tags         pos
// @Accept       json
// @Produce      json
// @Param        request body posapp.OpenSessionRequest true "Session"
// @Success      201 {object} APIResponse[posapp.SessionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /pos/sessions [post]
func (h *POSHandler) OpenSession(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req posapp.OpenSessionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	session, err := h.posService.OpenSession(c.Request.Context(), tenantID, middleware.Actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, session)
}

// CloseSession godoc
// @ID           closePOSSession
// @Summary      Close a till session
// @Description  Expected cash is opening cash plus cash taken minus change given; the difference against the counted drawer is stored
// @Tags         pos
// @Accept       json
// @Produce      json
// @Param        id      path string true "Session ID" format(uuid)
// @Param        request body posapp.CloseSessionRequest true "Counted drawer"
// @Success      200 {object} APIResponse[posapp.SessionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /pos/sessions/{id}/close [post]
func (h *POSHandler) CloseSession(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	sessionID, ok := h.pathID(c, "id", "session")
	if !ok {
		return
	}

	var req posapp.CloseSessionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	session, err := h.posService.CloseSession(c.Request.Context(), tenantID, sessionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, session)
}

// GetSession godoc
// @ID           getPOSSession
// @Summary      Get till session by ID
// @Tags         pos
// @Produce      json
// @Param        id path string true "Session ID" format(uuid)
// @Success      200 {object} APIResponse[posapp.SessionResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /pos/sessions/{id} [get]
func (h *POSHandler) GetSession(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	sessionID, ok := h.pathID(c, "id", "session")
	if !ok {
		return
	}

	session, err := h.posService.GetSession(c.Request.Context(), tenantID, sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, session)
}

// ListSessions godoc
// @ID           listPOSSessions
// @Summary      List till sessions
// @Tags         pos
// @Produce      json
// @Param        status      query string false "Status" Enums(OPEN, CLOSED)
// @Param        terminal_id query string false "Terminal"
// @Param        page        query int    false "Page number" default(1)
// @Param        page_size   query int    false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]posapp.SessionResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /pos/sessions [get]
func (h *POSHandler) ListSessions(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter posapp.SessionListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	sessions, total, err := h.posService.ListSessions(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, sessions, total, filter.Page, filter.PageSize)
}

// Checkout godoc
// @ID           posCheckout
// @Summary      Ring up a sale
// @Description  Requires an open session. Payments must cover the total (8% tax). Replaying an Idempotency-Key answers 409 DUPLICATE_REQUEST.
// @Tags         pos
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string true "Client-generated key, unique per sale"
// @Param        request         body   posapp.CheckoutRequest true "Cart and payments"
// @Success      201 {object} APIResponse[posapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /pos/checkout [post]
func (h *POSHandler) Checkout(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	key := strings.TrimSpace(c.GetHeader(middleware.IdempotencyKeyHeader))
	if key == "" || len(key) > maxIdempotencyKeyLength {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeMissingIdempotentKey,
			"Idempotency-Key header is required (at most 128 characters)")
		return
	}

	var req posapp.CheckoutRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.posService.Checkout(c.Request.Context(), tenantID, key, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// GetOrder godoc
// @ID           getPOSOrder
// @Summary      Get sale by ID
// @Tags         pos
// @Produce      json
// @Param        id path string true "POS order ID" format(uuid)
// @Success      200 {object} APIResponse[posapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /pos/orders/{id} [get]
func (h *POSHandler) GetOrder(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c, "id", "order")
	if !ok {
		return
	}

	order, err := h.posService.GetOrder(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// ListOrders godoc
// @ID           listPOSOrders
// @Summary      List sales
// @Tags         pos
// @Produce      json
// @Param        search     query string false "Order number search"
// @Param        session_id query string false "Session ID" format(uuid)
// @Param        status     query string false "Status" Enums(COMPLETED, VOIDED)
// @Param        from       query string false "From date (YYYY-MM-DD)"
// @Param        to         query string false "To date (YYYY-MM-DD)"
// @Param        page       query int    false "Page number" default(1)
// @Param        page_size  query int    false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]posapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /pos/orders [get]
func (h *POSHandler) ListOrders(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter posapp.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.SessionID, ok = h.queryUUID(c, "session_id"); !ok {
		return
	}

	orders, total, err := h.posService.ListOrders(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// VoidOrder godoc
// @ID           voidPOSOrder
// @Summary      Void a sale
// @Tags         pos
// @Accept       json
// @Produce      json
// @Param        id      path string true "POS order ID" format(uuid)
// @Param        request body posapp.VoidOrderRequest true "Reason"
// @Success      200 {object} APIResponse[posapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /pos/orders/{id}/void [post]
func (h *POSHandler) VoidOrder(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c, "id", "order")
	if !ok {
		return
	}

	var req posapp.VoidOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.posService.VoidOrder(c.Request.Context(), tenantID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// GetReceipt godoc
// @ID           getPOSReceipt
// @Summary      Get the receipt of a sale
// @Description  JSON record by default; format=html returns the printable page
// @Tags         pos
// @Produce      json,html
// @Param        id     path  string true  "POS order ID" format(uuid)
// @Param        format query string false "Response format" Enums(json, html)
// @Success      200 {object} APIResponse[posapp.ReceiptResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /pos/orders/{id}/receipt [get]
func (h *POSHandler) GetReceipt(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c, "id", "order")
	if !ok {
		return
	}

	receipt, err := h.posService.GetReceipt(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if c.Query("format") == "html" {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(receipt.HTML))
		return
	}
	h.Success(c, receipt)
}
