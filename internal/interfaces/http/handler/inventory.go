package handler

import (
	inventoryapp "github.com/bakery/backend/internal/application/inventory"
	"github.com/bakery/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// InventoryHandler handles stock record endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *inventoryapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
	}
}

// Create godoc
// @ID           createInventoryItem
// @Summary      Open a stock record
// @Description  Creates the record for a product in a warehouse and writes an INITIAL audit entry
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.CreateInventoryItemRequest true "Stock record"
// @Success      201 {object} APIResponse[inventoryapp.InventoryItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory [post]
func (h *InventoryHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req inventoryapp.CreateInventoryItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.inventoryService.Create(c.Request.Context(), tenantID, req, middleware.Actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, item)
}

// GetByID godoc
// @ID           getInventoryItemById
// @Summary      Get stock record by ID
// @Tags         inventory
// @Produce      json
// @Param        id path string true "Inventory item ID" format(uuid)
// @Success      200 {object} APIResponse[inventoryapp.InventoryItemResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/{id} [get]
func (h *InventoryHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	itemID, ok := h.pathID(c, "id", "inventory item")
	if !ok {
		return
	}

	item, err := h.inventoryService.GetByID(c.Request.Context(), tenantID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// List godoc
// @ID           listInventoryItems
// @Summary      List stock records
// @Tags         inventory
// @Produce      json
// @Param        warehouse_id    query string false "Warehouse ID" format(uuid)
// @Param        product_id      query string false "Product ID" format(uuid)
// @Param        low_stock       query bool   false "Only records at or under the reorder level"
// @Param        expiring_before query string false "Expiry cut-off (YYYY-MM-DD)"
// @Param        page            query int    false "Page number" default(1)
// @Param        page_size       query int    false "Page size" default(20) maximum(100)
// @Param        order_by        query string false "Sort field" default(created_at)
// @Param        order_dir       query string false "Sort direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]inventoryapp.InventoryItemResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory [get]
func (h *InventoryHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter inventoryapp.InventoryListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.WarehouseID, ok = h.queryUUID(c, "warehouse_id"); !ok {
		return
	}
	if filter.ProductID, ok = h.queryUUID(c, "product_id"); !ok {
		return
	}

	items, total, err := h.inventoryService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateInventoryItem
// @Summary      Update stock record metadata
// @Description  Changes batch number and expiry date. Quantities move only through adjust, transfer, reserve and release.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id      path string true "Inventory item ID" format(uuid)
// @Param        request body inventoryapp.UpdateInventoryItemRequest true "Metadata"
// @Success      200 {object} APIResponse[inventoryapp.InventoryItemResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/{id} [put]
func (h *InventoryHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	itemID, ok := h.pathID(c, "id", "inventory item")
	if !ok {
		return
	}

	var req inventoryapp.UpdateInventoryItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.inventoryService.Update(c.Request.Context(), tenantID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// Adjust godoc
// @ID           adjustInventoryItem
// @Summary      Adjust stock
// @Description  add, remove or set the quantity. A remove larger than the available quantity fails with INSUFFICIENT_STOCK.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id      path string true "Inventory item ID" format(uuid)
// @Param        request body inventoryapp.AdjustStockRequest true "Adjustment"
// @Success      200 {object} APIResponse[inventoryapp.InventoryItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/{id}/adjust [post]
func (h *InventoryHandler) Adjust(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	itemID, ok := h.pathID(c, "id", "inventory item")
	if !ok {
		return
	}

	var req inventoryapp.AdjustStockRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.inventoryService.Adjust(c.Request.Context(), tenantID, itemID, req, middleware.Actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// Transfer godoc
// @ID           transferInventoryItem
// @Summary      Transfer stock to another warehouse
// @Description  Moves available quantity to the same product's record in the destination warehouse, creating it when missing. Both sides commit together.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id      path string true "Source inventory item ID" format(uuid)
// @Param        request body inventoryapp.TransferStockRequest true "Transfer"
// @Success      200 {object} APIResponse[inventoryapp.TransferResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/{id}/transfer [post]
func (h *InventoryHandler) Transfer(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	itemID, ok := h.pathID(c, "id", "inventory item")
	if !ok {
		return
	}

	var req inventoryapp.TransferStockRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.inventoryService.Transfer(c.Request.Context(), tenantID, itemID, req, middleware.Actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Reserve godoc
// @ID           reserveInventoryItem
// @Summary      Reserve stock
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id      path string true "Inventory item ID" format(uuid)
// @Param        request body inventoryapp.ReservationRequest true "Quantity to reserve"
// @Success      200 {object} APIResponse[inventoryapp.InventoryItemResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/{id}/reserve [post]
func (h *InventoryHandler) Reserve(c *gin.Context) {
	h.reservation(c, true)
}

// Release godoc
// @ID           releaseInventoryItem
// @Summary      Release reserved stock
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id      path string true "Inventory item ID" format(uuid)
// @Param        request body inventoryapp.ReservationRequest true "Quantity to release"
// @Success      200 {object} APIResponse[inventoryapp.InventoryItemResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/{id}/release [post]
func (h *InventoryHandler) Release(c *gin.Context) {
	h.reservation(c, false)
}

func (h *InventoryHandler) reservation(c *gin.Context, reserve bool) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	itemID, ok := h.pathID(c, "id", "inventory item")
	if !ok {
		return
	}

	var req inventoryapp.ReservationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	var (
		item *inventoryapp.InventoryItemResponse
		err  error
	)
	if reserve {
		item, err = h.inventoryService.Reserve(c.Request.Context(), tenantID, itemID, req, middleware.Actor(c))
	} else {
		item, err = h.inventoryService.Release(c.Request.Context(), tenantID, itemID, req, middleware.Actor(c))
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// ListTransactions godoc
// @ID           listInventoryTransactions
// @Summary      List audit entries of a stock record
// @Description  Newest first
// @Tags         inventory
// @Produce      json
// @Param        id        path  string true  "Inventory item ID" format(uuid)
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]inventoryapp.TransactionResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/{id}/transactions [get]
func (h *InventoryHandler) ListTransactions(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	itemID, ok := h.pathID(c, "id", "inventory item")
	if !ok {
		return
	}

	var filter inventoryapp.TransactionListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	transactions, total, err := h.inventoryService.ListTransactions(c.Request.Context(), tenantID, itemID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, transactions, total, filter.Page, filter.PageSize)
}
