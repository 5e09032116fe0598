package report

import (
	"time"

	"github.com/bakery/backend/internal/domain/report"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	defaultPeriodDays = 30
	defaultTopN       = 10
	maxTopN           = 100
)

// PeriodRequest bounds a report. Dates are inclusive calendar days; an empty
// To means today and an empty From means 30 days before To.
type PeriodRequest struct {
	From  time.Time `form:"from" time_format:"2006-01-02"`
	To    time.Time `form:"to" time_format:"2006-01-02"`
	Limit int       `form:"limit" binding:"omitempty,min=1,max=100"`
}

// toFilter converts inclusive days into the half-open range [from, to+1day)
func (r PeriodRequest) toFilter(tenantID uuid.UUID, now time.Time) (report.Filter, error) {
	to := r.To
	if to.IsZero() {
		to = now.UTC()
	}
	to = truncateDay(to).AddDate(0, 0, 1)
	from := r.From
	if from.IsZero() {
		from = to.AddDate(0, 0, -defaultPeriodDays)
	}
	from = truncateDay(from)
	if !from.Before(to) {
		return report.Filter{}, shared.NewDomainError("INVALID_PERIOD", "from must not be after to")
	}
	limit := r.Limit
	if limit <= 0 {
		limit = defaultTopN
	}
	if limit > maxTopN {
		limit = maxTopN
	}
	return report.Filter{TenantID: tenantID, From: from, To: to, Limit: limit}, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ExportRequest selects the report to export
type ExportRequest struct {
	PeriodRequest
	Kind string `form:"kind" binding:"required,oneof=summary sales-trend top-products inventory-valuation production-summary"`
}

// ExportDocument is the JSON body of an exported report
type ExportDocument struct {
	Kind        report.Kind `json:"kind"`
	TenantID    uuid.UUID   `json:"tenant_id"`
	From        time.Time   `json:"from"`
	To          time.Time   `json:"to"`
	GeneratedAt time.Time   `json:"generated_at"`
	Data        any         `json:"data"`
}

// ExportResult is either an uploaded object (URL set) or an inline document
// to be streamed as an attachment (Content set)
type ExportResult struct {
	Kind      string    `json:"kind"`
	FileName  string    `json:"file_name"`
	URL       string    `json:"url,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
	Content   []byte    `json:"-"`
}
