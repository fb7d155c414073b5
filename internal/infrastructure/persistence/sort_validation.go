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

// InventoryItemSortFields contains allowed sort fields for inventory items
var InventoryItemSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"item_code":          true,
	"name":               true,
	"category":           true,
	"warehouse_id":       true,
	"current_stock":      true,
	"available_stock":    true,
	"reserved_stock":     true,
	"standard_cost":      true,
	"reorder_level":      true,
	"safety_stock":       true,
	"last_movement_date": true,
}

// StockTransactionSortFields contains allowed sort fields for ledger entries
var StockTransactionSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"transaction_date":  true,
	"transaction_type":  true,
	"inventory_item_id": true,
	"warehouse_id":      true,
	"quantity":          true,
	"reference_type":    true,
	"reference_id":      true,
}

// BatchRecordSortFields contains allowed sort fields for batch records
var BatchRecordSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"batch_number":  true,
	"quantity":      true,
	"expiry_date":   true,
	"received_date": true,
	"status":        true,
}

// StockTransferSortFields contains allowed sort fields for stock transfers
var StockTransferSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"transfer_number":   true,
	"from_warehouse_id": true,
	"to_warehouse_id":   true,
	"status":            true,
	"shipped_date":      true,
	"received_date":     true,
}

// CycleCountSortFields contains allowed sort fields for cycle counts
var CycleCountSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"count_number": true,
	"warehouse_id": true,
	"count_date":   true,
	"counted_by":   true,
}

// AlertSortFields contains allowed sort fields for stock alerts
var AlertSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"alert_type":        true,
	"inventory_item_id": true,
	"item_code":         true,
	"warehouse_id":      true,
	"status":            true,
	"resolved_at":       true,
}
