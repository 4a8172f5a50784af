package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	hundred       = decimal.NewFromInt(100)
	minPercentage = decimal.Zero
	maxPercentage = hundred
)

// Percentage is a rate expressed in percent, bounded to [0, 100].
// It is immutable.
type Percentage struct {
	value decimal.Decimal
}

// NewPercentage validates the bounds and returns a Percentage
func NewPercentage(value decimal.Decimal) (Percentage, error) {
	if value.LessThan(minPercentage) || value.GreaterThan(maxPercentage) {
		return Percentage{}, fmt.Errorf("percentage must be between 0 and 100, got %s", value.String())
	}
	return Percentage{value: value}, nil
}

// NewPercentageFromFloat creates a Percentage from a float64 value
func NewPercentageFromFloat(value float64) (Percentage, error) {
	return NewPercentage(decimal.NewFromFloat(value))
}

// MustPercentage is NewPercentage for constants known to be in range
func MustPercentage(value decimal.Decimal) Percentage {
	p, err := NewPercentage(value)
	if err != nil {
		panic(err)
	}
	return p
}

// ZeroPercentage returns 0%
func ZeroPercentage() Percentage {
	return Percentage{value: decimal.Zero}
}

// Value returns the percentage as a decimal (e.g. 10 for 10%)
func (p Percentage) Value() decimal.Decimal {
	return p.value
}

// Of returns amount * p / 100
func (p Percentage) Of(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(p.value).Div(hundred)
}

// IsZero returns true for 0%
func (p Percentage) IsZero() bool {
	return p.value.IsZero()
}

// String returns a representation such as "12.5%"
func (p Percentage) String() string {
	return p.value.String() + "%"
}
