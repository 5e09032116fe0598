package report

// Kind names an exportable report
type Kind string

const (
	KindSummary            Kind = "summary"
	KindSalesTrend         Kind = "sales-trend"
	KindTopProducts        Kind = "top-products"
	KindInventoryValuation Kind = "inventory-valuation"
	KindProductionSummary  Kind = "production-summary"
)

// IsValid checks if the kind is known
func (k Kind) IsValid() bool {
	switch k {
	case KindSummary, KindSalesTrend, KindTopProducts, KindInventoryValuation, KindProductionSummary:
		return true
	}
	return false
}
