package report

import (
	"context"
	"time"
)

// ProductionSummary counts batches by status for a period.
// AvgEfficiency only considers completed batches.
type ProductionSummary struct {
	From          time.Time        `json:"from"`
	To            time.Time        `json:"to"`
	ByStatus      map[string]int64 `json:"by_status"`
	Total         int64            `json:"total"`
	AvgEfficiency int64            `json:"avg_efficiency"`
}

// ProductionReportRepository runs production aggregations
type ProductionReportRepository interface {
	GetProductionSummary(ctx context.Context, filter Filter) (*ProductionSummary, error)
}
