package report

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/bakery/backend/internal/domain/report"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockReportRepository implements every report repository interface
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) GetSummary(ctx context.Context, filter report.Filter) (*report.Summary, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Summary), args.Error(1)
}

func (m *MockReportRepository) GetDailySales(ctx context.Context, filter report.Filter) ([]report.DailySales, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]report.DailySales), args.Error(1)
}

func (m *MockReportRepository) GetTopProducts(ctx context.Context, filter report.Filter) ([]report.ProductSales, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]report.ProductSales), args.Error(1)
}

func (m *MockReportRepository) GetValueByWarehouse(ctx context.Context, tenantID uuid.UUID) ([]report.WarehouseValue, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]report.WarehouseValue), args.Error(1)
}

func (m *MockReportRepository) GetLowStock(ctx context.Context, tenantID uuid.UUID) ([]report.LowStockItem, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]report.LowStockItem), args.Error(1)
}

func (m *MockReportRepository) GetProductionSummary(ctx context.Context, filter report.Filter) (*report.ProductionSummary, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.ProductionSummary), args.Error(1)
}

type memStorage struct {
	objects map[string][]byte
	failOn  error
}

func (s *memStorage) Upload(_ context.Context, key string, data []byte, _ string) error {
	if s.failOn != nil {
		return s.failOn
	}
	s.objects[key] = data
	return nil
}

func (s *memStorage) GenerateDownloadURL(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	return "https://objects.test/" + key, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC).Add(expiresIn), nil
}

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestService(repo *MockReportRepository) *ReportService {
	svc := NewReportService(repo, repo, repo)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPeriodRequest_ToFilter(t *testing.T) {
	tenantID := uuid.New()

	tests := []struct {
		name      string
		req       PeriodRequest
		from, to  time.Time
		limit     int
		wantError bool
	}{
		{"defaults to last 30 days", PeriodRequest{}, day(2026, 2, 9), day(2026, 3, 11), 10, false},
		{"inclusive end day", PeriodRequest{From: day(2026, 3, 1), To: day(2026, 3, 1)}, day(2026, 3, 1), day(2026, 3, 2), 10, false},
		{"time of day dropped", PeriodRequest{From: day(2026, 3, 1).Add(15 * time.Hour), To: day(2026, 3, 5).Add(time.Hour), Limit: 3}, day(2026, 3, 1), day(2026, 3, 6), 3, false},
		{"limit capped", PeriodRequest{Limit: 1000}, day(2026, 2, 9), day(2026, 3, 11), 100, false},
		{"from after to", PeriodRequest{From: day(2026, 3, 5), To: day(2026, 3, 1)}, time.Time{}, time.Time{}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := tt.req.toFilter(tenantID, fixedNow)
			if tt.wantError {
				var domainErr *shared.DomainError
				require.ErrorAs(t, err, &domainErr)
				assert.Equal(t, "INVALID_PERIOD", domainErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tenantID, f.TenantID)
			assert.Equal(t, tt.from, f.From)
			assert.Equal(t, tt.to, f.To)
			assert.Equal(t, tt.limit, f.Limit)
		})
	}
}

func TestReportService_Summary(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(MockReportRepository)
	svc := newTestService(repo)

	want := &report.Summary{OrderCount: 2, POSOrderCount: 1, Revenue: decimal.RequireFromString("791")}
	repo.On("GetSummary", ctx, report.Filter{TenantID: tenantID, From: day(2026, 3, 1), To: day(2026, 3, 8), Limit: 10}).Return(want, nil)

	got, err := svc.Summary(ctx, tenantID, PeriodRequest{From: day(2026, 3, 1), To: day(2026, 3, 7)})
	require.NoError(t, err)
	assert.Same(t, want, got)
	repo.AssertExpectations(t)
}

func TestReportService_ListsAreNeverNull(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(MockReportRepository)
	svc := newTestService(repo)

	repo.On("GetDailySales", ctx, mock.Anything).Return([]report.DailySales(nil), nil)
	repo.On("GetTopProducts", ctx, mock.Anything).Return([]report.ProductSales(nil), nil)
	repo.On("GetValueByWarehouse", ctx, tenantID).Return([]report.WarehouseValue(nil), nil)
	repo.On("GetLowStock", ctx, tenantID).Return([]report.LowStockItem(nil), nil)

	trend, err := svc.SalesTrend(ctx, tenantID, PeriodRequest{})
	require.NoError(t, err)
	top, err := svc.TopProducts(ctx, tenantID, PeriodRequest{})
	require.NoError(t, err)
	valuation, err := svc.InventoryValuation(ctx, tenantID)
	require.NoError(t, err)

	body, err := json.Marshal(map[string]any{"trend": trend, "top": top, "valuation": valuation})
	require.NoError(t, err)
	assert.JSONEq(t, `{"trend":[],"top":[],"valuation":{"warehouses":[],"total_value":"0","low_stock":[]}}`, string(body))
}

func TestReportService_TopProductsRanks(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(MockReportRepository)
	svc := newTestService(repo)

	repo.On("GetTopProducts", ctx, mock.MatchedBy(func(f report.Filter) bool { return f.Limit == 2 })).Return([]report.ProductSales{
		{ProductName: "Sourdough", Quantity: decimal.NewFromInt(40)},
		{ProductName: "Croissant", Quantity: decimal.NewFromInt(31)},
	}, nil)

	top, err := svc.TopProducts(ctx, tenantID, PeriodRequest{Limit: 2})
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, 1, top[0].Rank)
	assert.Equal(t, 2, top[1].Rank)
}

func TestReportService_InventoryValuationTotals(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(MockReportRepository)
	svc := newTestService(repo)

	repo.On("GetValueByWarehouse", ctx, tenantID).Return([]report.WarehouseValue{
		{WarehouseCode: "MAIN", Value: decimal.RequireFromString("1250.50")},
		{WarehouseCode: "ANNEX", Value: decimal.RequireFromString("99.25")},
	}, nil)
	repo.On("GetLowStock", ctx, tenantID).Return([]report.LowStockItem{{SKU: "FLOUR-MAIDA"}}, nil)

	v, err := svc.InventoryValuation(ctx, tenantID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1349.75").Equal(v.TotalValue))
	assert.Len(t, v.LowStock, 1)
}

func TestReportService_Export(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	period := PeriodRequest{From: day(2026, 3, 1), To: day(2026, 3, 7)}
	summary := &report.ProductionSummary{ByStatus: map[string]int64{"COMPLETED": 3}, Total: 3, AvgEfficiency: 96}

	t.Run("inline without storage", func(t *testing.T) {
		repo := new(MockReportRepository)
		svc := newTestService(repo)
		repo.On("GetProductionSummary", mock.Anything, mock.Anything).Return(summary, nil)

		res, err := svc.Export(ctx, tenantID, ExportRequest{PeriodRequest: period, Kind: "production-summary"})
		require.NoError(t, err)
		assert.Equal(t, "production-summary_20260301_20260307.json", res.FileName)
		assert.Empty(t, res.URL)

		var doc map[string]any
		require.NoError(t, json.Unmarshal(res.Content, &doc))
		assert.Equal(t, "production-summary", doc["kind"])
		assert.Equal(t, float64(96), doc["data"].(map[string]any)["avg_efficiency"])
	})

	t.Run("uploaded to storage", func(t *testing.T) {
		repo := new(MockReportRepository)
		svc := newTestService(repo)
		storage := &memStorage{objects: map[string][]byte{}}
		svc.SetExportStorage(storage)
		repo.On("GetProductionSummary", mock.Anything, mock.Anything).Return(summary, nil)

		res, err := svc.Export(ctx, tenantID, ExportRequest{PeriodRequest: period, Kind: "production-summary"})
		require.NoError(t, err)
		assert.Nil(t, res.Content)
		assert.Contains(t, res.URL, "https://objects.test/reports/"+tenantID.String()+"/")
		assert.Equal(t, fixedNow.Add(exportURLExpiry), res.ExpiresAt)
		assert.Len(t, storage.objects, 1)
	})

	t.Run("upload failure", func(t *testing.T) {
		repo := new(MockReportRepository)
		svc := newTestService(repo)
		svc.SetExportStorage(&memStorage{objects: map[string][]byte{}, failOn: errors.New("bucket gone")})
		repo.On("GetProductionSummary", mock.Anything, mock.Anything).Return(summary, nil)

		_, err := svc.Export(ctx, tenantID, ExportRequest{PeriodRequest: period, Kind: "production-summary"})
		assert.ErrorContains(t, err, "bucket gone")
	})

	t.Run("unknown kind", func(t *testing.T) {
		svc := newTestService(new(MockReportRepository))
		_, err := svc.Export(ctx, tenantID, ExportRequest{PeriodRequest: period, Kind: "payroll"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_REPORT_KIND", domainErr.Code)
	})
}
