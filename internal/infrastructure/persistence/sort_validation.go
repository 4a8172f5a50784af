package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC, defaulting to DESC
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when it is whitelisted, otherwise defaultField
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

func withCommonFields(fields ...string) map[string]bool {
	allowed := map[string]bool{
		"id":         true,
		"created_at": true,
		"updated_at": true,
	}
	for _, f := range fields {
		allowed[f] = true
	}
	return allowed
}

// Allowed sort fields per table
var (
	PartnerSortFields         = withCommonFields("code", "name", "active")
	OrderSortFields           = withCommonFields("order_number", "client_name", "project_name", "status", "priority", "workflow_type")
	PurchaseOrderSortFields   = withCommonFields("po_number", "supplier_name", "status", "total_amount", "delivery_date")
	SalesInvoiceSortFields    = withCommonFields("invoice_number", "status", "total", "issue_date", "due_date")
	ShippingInvoiceSortFields = withCommonFields("shipping_number", "carrier", "ship_date", "total_shipping_cost")
	AccountSortFields         = withCommonFields("account_number", "name", "type", "balance")
	TransactionSortFields     = withCommonFields("transaction_number", "date", "status", "total_amount")
)
