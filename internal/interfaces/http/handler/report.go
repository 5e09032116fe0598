package handler

import (
	"mime"
	"net/http"

	reportapp "github.com/bakery/backend/internal/application/report"
	"github.com/gin-gonic/gin"
)

// ReportHandler serves dashboard reports aggregated from stored records
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// Summary godoc
// @ID           getReportSummary
// @Summary      Dashboard summary
// @Description  Orders not cancelled plus POS sales not voided. Dates are inclusive; the default period is the last 30 days.
// @Tags         reports
// @Produce      json
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to   query string false "To date (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[report.Summary]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req reportapp.PeriodRequest
	if !h.bindQuery(c, &req) {
		return
	}

	summary, err := h.reportService.Summary(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// SalesTrend godoc
// @ID           getReportSalesTrend
// @Summary      Revenue and order count per day
// @Tags         reports
// @Produce      json
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to   query string false "To date (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[[]report.DailySales]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/sales-trend [get]
func (h *ReportHandler) SalesTrend(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req reportapp.PeriodRequest
	if !h.bindQuery(c, &req) {
		return
	}

	trend, err := h.reportService.SalesTrend(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, trend)
}

// TopProducts godoc
// @ID           getReportTopProducts
// @Summary      Best sellers
// @Description  Ranked by quantity sold across order items and POS items
// @Tags         reports
// @Produce      json
// @Param        from  query string false "From date (YYYY-MM-DD)"
// @Param        to    query string false "To date (YYYY-MM-DD)"
// @Param        limit query int    false "Number of products" default(10) maximum(100)
// @Success      200 {object} APIResponse[[]report.ProductSales]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/top-products [get]
func (h *ReportHandler) TopProducts(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req reportapp.PeriodRequest
	if !h.bindQuery(c, &req) {
		return
	}

	products, err := h.reportService.TopProducts(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, products)
}

// InventoryValuation godoc
// @ID           getReportInventoryValuation
// @Summary      Stock value per warehouse
// @Description  quantity * cost price per warehouse, plus the low-stock list
// @Tags         reports
// @Produce      json
// @Success      200 {object} APIResponse[report.InventoryValuation]
// @Security     BearerAuth
// @Router       /reports/inventory-valuation [get]
func (h *ReportHandler) InventoryValuation(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	valuation, err := h.reportService.InventoryValuation(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, valuation)
}

// ProductionSummary godoc
// @ID           getReportProductionSummary
// @Summary      Production counts and efficiency
// @Tags         reports
// @Produce      json
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to   query string false "To date (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[report.ProductionSummary]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/production-summary [get]
func (h *ReportHandler) ProductionSummary(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req reportapp.PeriodRequest
	if !h.bindQuery(c, &req) {
		return
	}

	summary, err := h.reportService.ProductionSummary(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// Export godoc
// @ID           exportReport
// @Summary      Export a report as JSON
// @Description  With object storage configured the document is uploaded and a presigned URL returned; otherwise it is streamed as an attachment.
// @Tags         reports
// @Produce      json
// @Param        kind  query string true  "Report" Enums(summary, sales-trend, top-products, inventory-valuation, production-summary)
// @Param        from  query string false "From date (YYYY-MM-DD)"
// @Param        to    query string false "To date (YYYY-MM-DD)"
// @Param        limit query int    false "Limit for top-products" default(10)
// @Success      200 {object} APIResponse[reportapp.ExportResult]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req reportapp.ExportRequest
	if !h.bindQuery(c, &req) {
		return
	}

	result, err := h.reportService.Export(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if result.URL != "" {
		h.Success(c, result)
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": result.FileName}))
	c.Data(http.StatusOK, "application/json", result.Content)
}
