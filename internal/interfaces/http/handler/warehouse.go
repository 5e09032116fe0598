package handler

import (
	inventoryapp "github.com/bakery/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// WarehouseHandler handles warehouse-related API endpoints
type WarehouseHandler struct {
	BaseHandler
	warehouseService *inventoryapp.WarehouseService
}

// NewWarehouseHandler creates a new WarehouseHandler
func NewWarehouseHandler(warehouseService *inventoryapp.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{
		warehouseService: warehouseService,
	}
}

// Create godoc
// @ID           createWarehouse
// @Summary      Create a new warehouse
// @Tags         warehouses
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.CreateWarehouseRequest true "Warehouse creation request"
// @Success      201 {object} APIResponse[inventoryapp.WarehouseResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /warehouses [post]
func (h *WarehouseHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req inventoryapp.CreateWarehouseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	warehouse, err := h.warehouseService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, warehouse)
}

// GetByID godoc
// @ID           getWarehouseById
// @Summary      Get warehouse by ID
// @Tags         warehouses
// @Produce      json
// @Param        id path string true "Warehouse ID" format(uuid)
// @Success      200 {object} APIResponse[inventoryapp.WarehouseResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /warehouses/{id} [get]
func (h *WarehouseHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	warehouseID, ok := h.pathID(c, "id", "warehouse")
	if !ok {
		return
	}

	warehouse, err := h.warehouseService.GetByID(c.Request.Context(), tenantID, warehouseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, warehouse)
}

// List godoc
// @ID           listWarehouses
// @Summary      List warehouses
// @Tags         warehouses
// @Produce      json
// @Param        search    query string false "Search by code or name"
// @Param        is_active query bool   false "Active flag"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]inventoryapp.WarehouseResponse]
// @Security     BearerAuth
// @Router       /warehouses [get]
func (h *WarehouseHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter inventoryapp.WarehouseListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	warehouses, total, err := h.warehouseService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, warehouses, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateWarehouse
// @Summary      Update a warehouse
// @Tags         warehouses
// @Accept       json
// @Produce      json
// @Param        id      path string true "Warehouse ID" format(uuid)
// @Param        request body inventoryapp.UpdateWarehouseRequest true "Warehouse update request"
// @Success      200 {object} APIResponse[inventoryapp.WarehouseResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /warehouses/{id} [put]
func (h *WarehouseHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	warehouseID, ok := h.pathID(c, "id", "warehouse")
	if !ok {
		return
	}

	var req inventoryapp.UpdateWarehouseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	warehouse, err := h.warehouseService.Update(c.Request.Context(), tenantID, warehouseID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, warehouse)
}
