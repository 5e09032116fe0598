package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"type":       true,
	"email":      true,
	"city":       true,
	"is_active":  true,
}

// SupplierSortFields contains allowed sort fields for suppliers
var SupplierSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"is_active":  true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"sku":           true,
	"name":          true,
	"category":      true,
	"selling_price": true,
	"cost_price":    true,
	"is_active":     true,
}

// WarehouseSortFields contains allowed sort fields for warehouses
var WarehouseSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"is_active":  true,
}

// InventorySortFields contains allowed sort fields for inventory records
var InventorySortFields = map[string]bool{
	"created_at":        true,
	"updated_at":        true,
	"quantity":          true,
	"reserved_qty":      true,
	"expiry_date":       true,
	"last_restocked_at": true,
	"batch_number":      true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"created_at":     true,
	"updated_at":     true,
	"order_number":   true,
	"status":         true,
	"payment_status": true,
	"total_amount":   true,
	"delivery_date":  true,
}

// PurchaseOrderSortFields contains allowed sort fields for purchase orders
var PurchaseOrderSortFields = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"po_number":     true,
	"status":        true,
	"total_amount":  true,
	"expected_date": true,
}

// RecipeSortFields contains allowed sort fields for recipes
var RecipeSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
}

// ProductionSortFields contains allowed sort fields for production batches
var ProductionSortFields = map[string]bool{
	"created_at":     true,
	"updated_at":     true,
	"batch_number":   true,
	"status":         true,
	"scheduled_date": true,
	"completed_at":   true,
}

// DeliverySortFields contains allowed sort fields for deliveries
var DeliverySortFields = map[string]bool{
	"created_at":     true,
	"updated_at":     true,
	"status":         true,
	"scheduled_date": true,
	"actual_date":    true,
}

// NotificationSortFields contains allowed sort fields for notifications
var NotificationSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"type":       true,
	"status":     true,
	"sent_at":    true,
}

// POSSessionSortFields contains allowed sort fields for till sessions
var POSSessionSortFields = map[string]bool{
	"created_at":  true,
	"opened_at":   true,
	"closed_at":   true,
	"terminal_id": true,
	"status":      true,
}

// POSOrderSortFields contains allowed sort fields for till sales
var POSOrderSortFields = map[string]bool{
	"created_at":   true,
	"order_number": true,
	"total_amount": true,
	"status":       true,
}
