package valueobject

import (
	"fmt"
	"strings"
)

// Currency represents an ISO 4217 currency code
type Currency string

const (
	USD Currency = "USD" // US Dollar (default)
	EUR Currency = "EUR" // Euro
	GBP Currency = "GBP" // British Pound
	CNY Currency = "CNY" // Chinese Yuan
	JPY Currency = "JPY" // Japanese Yen
	HKD Currency = "HKD" // Hong Kong Dollar
	AED Currency = "AED" // UAE Dirham
)

// DefaultCurrency is used when an order does not name one
const DefaultCurrency = USD

var supportedCurrencies = map[Currency]struct{}{
	USD: {}, EUR: {}, GBP: {}, CNY: {}, JPY: {}, HKD: {}, AED: {},
}

// ParseCurrency normalizes and validates a currency code.
// An empty code yields DefaultCurrency.
func ParseCurrency(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return DefaultCurrency, nil
	}
	c := Currency(code)
	if !c.IsValid() {
		return "", fmt.Errorf("unsupported currency: %s", code)
	}
	return c, nil
}

// IsValid reports whether the currency is supported
func (c Currency) IsValid() bool {
	_, ok := supportedCurrencies[c]
	return ok
}

// String returns the currency code
func (c Currency) String() string {
	return string(c)
}
