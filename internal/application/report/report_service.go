package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bakery/backend/internal/domain/report"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/bakery/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// exportURLExpiry is how long a presigned export link stays valid
const exportURLExpiry = 15 * time.Minute

// ExportStorage stores exported documents and hands out download links
type ExportStorage interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
}

// ReportService aggregates stored records into dashboard reports
type ReportService struct {
	salesRepo      report.SalesReportRepository
	inventoryRepo  report.InventoryReportRepository
	productionRepo report.ProductionReportRepository
	storage        ExportStorage
	now            func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(
	salesRepo report.SalesReportRepository,
	inventoryRepo report.InventoryReportRepository,
	productionRepo report.ProductionReportRepository,
) *ReportService {
	return &ReportService{
		salesRepo:      salesRepo,
		inventoryRepo:  inventoryRepo,
		productionRepo: productionRepo,
		now:            time.Now,
	}
}

// SetExportStorage enables uploading exports. Without it Export returns the
// document inline.
func (s *ReportService) SetExportStorage(storage ExportStorage) {
	s.storage = storage
}

// Summary returns the headline figures for a period
func (s *ReportService) Summary(ctx context.Context, tenantID uuid.UUID, req PeriodRequest) (*report.Summary, error) {
	filter, err := req.toFilter(tenantID, s.now())
	if err != nil {
		return nil, err
	}
	return s.salesRepo.GetSummary(ctx, filter)
}

// SalesTrend returns revenue and order count per day
func (s *ReportService) SalesTrend(ctx context.Context, tenantID uuid.UUID, req PeriodRequest) ([]report.DailySales, error) {
	filter, err := req.toFilter(tenantID, s.now())
	if err != nil {
		return nil, err
	}
	days, err := s.salesRepo.GetDailySales(ctx, filter)
	if err != nil {
		return nil, err
	}
	if days == nil {
		days = []report.DailySales{}
	}
	return days, nil
}

// TopProducts ranks products by quantity sold across orders and POS sales
func (s *ReportService) TopProducts(ctx context.Context, tenantID uuid.UUID, req PeriodRequest) ([]report.ProductSales, error) {
	filter, err := req.toFilter(tenantID, s.now())
	if err != nil {
		return nil, err
	}
	products, err := s.salesRepo.GetTopProducts(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].Rank = i + 1
	}
	if products == nil {
		products = []report.ProductSales{}
	}
	return products, nil
}

// InventoryValuation values stock per warehouse at cost and lists low stock
func (s *ReportService) InventoryValuation(ctx context.Context, tenantID uuid.UUID) (*report.InventoryValuation, error) {
	warehouses, err := s.inventoryRepo.GetValueByWarehouse(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.inventoryRepo.GetLowStock(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, w := range warehouses {
		total = total.Add(w.Value)
	}
	if warehouses == nil {
		warehouses = []report.WarehouseValue{}
	}
	if lowStock == nil {
		lowStock = []report.LowStockItem{}
	}
	return &report.InventoryValuation{
		Warehouses: warehouses,
		TotalValue: total.Round(2),
		LowStock:   lowStock,
	}, nil
}

// ProductionSummary counts batches by status and averages completed efficiency
func (s *ReportService) ProductionSummary(ctx context.Context, tenantID uuid.UUID, req PeriodRequest) (*report.ProductionSummary, error) {
	filter, err := req.toFilter(tenantID, s.now())
	if err != nil {
		return nil, err
	}
	return s.productionRepo.GetProductionSummary(ctx, filter)
}

// Export builds the JSON document of one report. With export storage
// configured the document is uploaded and a presigned URL returned.
func (s *ReportService) Export(ctx context.Context, tenantID uuid.UUID, req ExportRequest) (*ExportResult, error) {
	kind := report.Kind(req.Kind)
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "export",
		telemetry.SpanAttrTenantID, tenantID,
	)
	defer span.End()

	filter, err := req.toFilter(tenantID, s.now())
	if err != nil {
		return nil, err
	}
	data, err := s.build(ctx, tenantID, kind, req.PeriodRequest)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	doc := ExportDocument{
		Kind:        kind,
		TenantID:    tenantID,
		From:        filter.From,
		To:          filter.To,
		GeneratedAt: s.now().UTC(),
		Data:        data,
	}
	content, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode %s export: %w", kind, err)
	}

	name := fmt.Sprintf("%s_%s_%s.json", kind, filter.From.Format("20060102"), filter.To.AddDate(0, 0, -1).Format("20060102"))
	result := &ExportResult{Kind: string(kind), FileName: name}
	if s.storage == nil {
		result.Content = content
		return result, nil
	}

	key := fmt.Sprintf("reports/%s/%d_%s", tenantID, doc.GeneratedAt.Unix(), name)
	if err := s.storage.Upload(ctx, key, content, "application/json"); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("upload %s export: %w", kind, err)
	}
	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, key, exportURLExpiry)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("presign %s export: %w", kind, err)
	}
	result.URL = url
	result.ExpiresAt = expiresAt
	return result, nil
}

func (s *ReportService) build(ctx context.Context, tenantID uuid.UUID, kind report.Kind, req PeriodRequest) (any, error) {
	switch kind {
	case report.KindSummary:
		return s.Summary(ctx, tenantID, req)
	case report.KindSalesTrend:
		return s.SalesTrend(ctx, tenantID, req)
	case report.KindTopProducts:
		return s.TopProducts(ctx, tenantID, req)
	case report.KindInventoryValuation:
		return s.InventoryValuation(ctx, tenantID)
	case report.KindProductionSummary:
		return s.ProductionSummary(ctx, tenantID, req)
	}
	return nil, shared.NewDomainError("INVALID_REPORT_KIND", "Unknown report kind "+string(kind))
}
