package handler

import (
	"context"

	productionapp "github.com/bakery/backend/internal/application/production"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductionHandler handles production batch endpoints
type ProductionHandler struct {
	BaseHandler
	productionService *productionapp.ProductionService
}

// NewProductionHandler creates a new ProductionHandler
func NewProductionHandler(productionService *productionapp.ProductionService) *ProductionHandler {
	return &ProductionHandler{
		productionService: productionService,
	}
}

// Create godoc
// @ID           createProduction
// @Summary      Plan a production batch
// @Description  With a recipe and no explicit items, ingredient lines are scaled from the recipe to the planned quantity
// @Tags         productions
// @Accept       json
// @Produce      json
// @Param        request body productionapp.CreateProductionRequest true "Batch"
// @Success      201 {object} APIResponse[productionapp.ProductionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /productions [post]
func (h *ProductionHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req productionapp.CreateProductionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	batch, err := h.productionService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, batch)
}

// GetByID godoc
// @ID           getProductionById
// @Summary      Get production batch by ID
// @Tags         productions
// @Produce      json
// @Param        id path string true "Production ID" format(uuid)
// @Success      200 {object} APIResponse[productionapp.ProductionResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /productions/{id} [get]
func (h *ProductionHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	productionID, ok := h.pathID(c, "id", "production")
	if !ok {
		return
	}

	batch, err := h.productionService.GetByID(c.Request.Context(), tenantID, productionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, batch)
}

// List godoc
// @ID           listProductions
// @Summary      List production batches
// @Tags         productions
// @Produce      json
// @Param        search     query string false "Batch number search"
// @Param        status     query string false "Status" Enums(PLANNED, IN_PROGRESS, COMPLETED, CANCELLED, ON_HOLD)
// @Param        product_id query string false "Product ID" format(uuid)
// @Param        from       query string false "Scheduled from (YYYY-MM-DD)"
// @Param        to         query string false "Scheduled to (YYYY-MM-DD)"
// @Param        page       query int    false "Page number" default(1)
// @Param        page_size  query int    false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]productionapp.ProductionResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /productions [get]
func (h *ProductionHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter productionapp.ProductionListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.ProductID, ok = h.queryUUID(c, "product_id"); !ok {
		return
	}

	batches, total, err := h.productionService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, batches, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateProduction
// @Summary      Update planned figures
// @Description  Allowed while PLANNED or ON_HOLD
// @Tags         productions
// @Accept       json
// @Produce      json
// @Param        id      path string true "Production ID" format(uuid)
// @Param        request body productionapp.UpdateProductionRequest true "Plan"
// @Success      200 {object} APIResponse[productionapp.ProductionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /productions/{id} [put]
func (h *ProductionHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	productionID, ok := h.pathID(c, "id", "production")
	if !ok {
		return
	}

	var req productionapp.UpdateProductionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	batch, err := h.productionService.Update(c.Request.Context(), tenantID, productionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, batch)
}

// Start godoc
// @ID           startProduction
// @Summary      Start a batch
// @Tags         productions
// @Produce      json
// @Param        id path string true "Production ID" format(uuid)
// @Success      200 {object} APIResponse[productionapp.ProductionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /productions/{id}/start [post]
func (h *ProductionHandler) Start(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	productionID, ok := h.pathID(c, "id", "production")
	if !ok {
		return
	}

	batch, err := h.productionService.Start(c.Request.Context(), tenantID, productionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, batch)
}

// Hold godoc
// @ID           holdProduction
// @Summary      Put a batch on hold
// @Tags         productions
// @Accept       json
// @Produce      json
// @Param        id      path string true "Production ID" format(uuid)
// @Param        request body productionapp.ProductionNoteRequest false "Note"
// @Success      200 {object} APIResponse[productionapp.ProductionResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /productions/{id}/hold [post]
func (h *ProductionHandler) Hold(c *gin.Context) {
	h.withNote(c, h.productionService.Hold)
}

// Cancel godoc
// @ID           cancelProduction
// @Summary      Cancel a batch
// @Tags         productions
// @Accept       json
// @Produce      json
// @Param        id      path string true "Production ID" format(uuid)
// @Param        request body productionapp.ProductionNoteRequest false "Note"
// @Success      200 {object} APIResponse[productionapp.ProductionResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /productions/{id}/cancel [post]
func (h *ProductionHandler) Cancel(c *gin.Context) {
	h.withNote(c, h.productionService.Cancel)
}

type noteTransition func(ctx context.Context, tenantID, productionID uuid.UUID, req productionapp.ProductionNoteRequest) (*productionapp.ProductionResponse, error)

// withNote runs a transition whose body is optional
func (h *ProductionHandler) withNote(c *gin.Context, transition noteTransition) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	productionID, ok := h.pathID(c, "id", "production")
	if !ok {
		return
	}

	var req productionapp.ProductionNoteRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}

	batch, err := transition(c.Request.Context(), tenantID, productionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, batch)
}

// Complete godoc
// @ID           completeProduction
// @Summary      Complete a batch
// @Description  Requires the actual quantity. Efficiency is reported as round(actual / planned * 100).
// @Tags         productions
// @Accept       json
// @Produce      json
// @Param        id      path string true "Production ID" format(uuid)
// @Param        request body productionapp.CompleteProductionRequest true "Outcome"
// @Success      200 {object} APIResponse[productionapp.ProductionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /productions/{id}/complete [post]
func (h *ProductionHandler) Complete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	productionID, ok := h.pathID(c, "id", "production")
	if !ok {
		return
	}

	var req productionapp.CompleteProductionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	batch, err := h.productionService.Complete(c.Request.Context(), tenantID, productionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, batch)
}

// Delete godoc
// @ID           deleteProduction
// @Summary      Delete a batch
// @Description  PLANNED or CANCELLED only
// @Tags         productions
// @Param        id path string true "Production ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /productions/{id} [delete]
func (h *ProductionHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	productionID, ok := h.pathID(c, "id", "production")
	if !ok {
		return
	}

	if err := h.productionService.Delete(c.Request.Context(), tenantID, productionID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
