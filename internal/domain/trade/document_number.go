package trade

import (
	"fmt"
	"strconv"
	"strings"
)

// Document number prefixes
const (
	PrefixOrder           = "ORD"
	PrefixQuotation       = "QT"
	PrefixPurchaseOrder   = "PO"
	PrefixSalesInvoice    = "INV"
	PrefixShippingInvoice = "SHP"
)

// FormatDocumentNumber renders PREFIX-YYYY-NNNNN (e.g., ORD-2026-00001)
func FormatDocumentNumber(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%05d", prefix, year, seq)
}

// DocumentNumberPrefix returns the "PREFIX-YYYY-" part shared by a year's numbers
func DocumentNumberPrefix(prefix string, year int) string {
	return fmt.Sprintf("%s-%d-", prefix, year)
}

// ParseDocumentSequence extracts NNNNN from a number produced by
// FormatDocumentNumber. ok is false for foreign formats.
func ParseDocumentSequence(number string) (seq int64, ok bool) {
	parts := strings.Split(number, "-")
	if len(parts) != 3 {
		return 0, false
	}
	n, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
