package handler

import (
	productionapp "github.com/bakery/backend/internal/application/production"
	"github.com/gin-gonic/gin"
)

// RecipeHandler handles recipe endpoints
type RecipeHandler struct {
	BaseHandler
	recipeService *productionapp.RecipeService
}

// NewRecipeHandler creates a new RecipeHandler
func NewRecipeHandler(recipeService *productionapp.RecipeService) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
	}
}

// Create godoc
// @ID           createRecipe
// @Summary      Create a recipe
// @Tags         recipes
// @Accept       json
// @Produce      json
// @Param        request body productionapp.RecipeRequest true "Recipe"
// @Success      201 {object} APIResponse[productionapp.RecipeResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /recipes [post]
func (h *RecipeHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req productionapp.RecipeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	recipe, err := h.recipeService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, recipe)
}

// GetByID godoc
// @ID           getRecipeById
// @Summary      Get recipe by ID
// @Tags         recipes
// @Produce      json
// @Param        id path string true "Recipe ID" format(uuid)
// @Success      200 {object} APIResponse[productionapp.RecipeResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /recipes/{id} [get]
func (h *RecipeHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	recipeID, ok := h.pathID(c, "id", "recipe")
	if !ok {
		return
	}

	recipe, err := h.recipeService.GetByID(c.Request.Context(), tenantID, recipeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, recipe)
}

// List godoc
// @ID           listRecipes
// @Summary      List recipes
// @Tags         recipes
// @Produce      json
// @Param        search     query string false "Search by name"
// @Param        product_id query string false "Output product ID" format(uuid)
// @Param        page       query int    false "Page number" default(1)
// @Param        page_size  query int    false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]productionapp.RecipeResponse]
// @Security     BearerAuth
// @Router       /recipes [get]
func (h *RecipeHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter productionapp.RecipeListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.ProductID, ok = h.queryUUID(c, "product_id"); !ok {
		return
	}

	recipes, total, err := h.recipeService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, recipes, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateRecipe
// @Summary      Replace a recipe
// @Tags         recipes
// @Accept       json
// @Produce      json
// @Param        id      path string true "Recipe ID" format(uuid)
// @Param        request body productionapp.RecipeRequest true "Recipe"
// @Success      200 {object} APIResponse[productionapp.RecipeResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /recipes/{id} [put]
func (h *RecipeHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	recipeID, ok := h.pathID(c, "id", "recipe")
	if !ok {
		return
	}

	var req productionapp.RecipeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	recipe, err := h.recipeService.Update(c.Request.Context(), tenantID, recipeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, recipe)
}

// Delete godoc
// @ID           deleteRecipe
// @Summary      Delete a recipe
// @Tags         recipes
// @Param        id path string true "Recipe ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /recipes/{id} [delete]
func (h *RecipeHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	recipeID, ok := h.pathID(c, "id", "recipe")
	if !ok {
		return
	}

	if err := h.recipeService.Delete(c.Request.Context(), tenantID, recipeID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
