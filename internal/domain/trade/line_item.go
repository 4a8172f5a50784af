package trade

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradedesk/backend/internal/domain/shared"
	"github.com/tradedesk/backend/internal/domain/shared/valueobject"
)

// Line item minimums
const (
	MinQuantity = 1
)

// MinUnitPrice is the lowest accepted unit price
var MinUnitPrice = decimal.Zero

// InvalidLineItemError reports a line item whose quantity or unit price
// falls below the accepted minimum.
type InvalidLineItemError struct {
	Index   int    // position in the submitted list, -1 for a standalone item
	Field   string // "quantity" or "unit_price"
	Value   string
	Minimum string
}

// Error implements the error interface
func (e *InvalidLineItemError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("line item %s %s is below the minimum of %s", e.Field, e.Value, e.Minimum)
	}
	return fmt.Sprintf("line item %d: %s %s is below the minimum of %s", e.Index, e.Field, e.Value, e.Minimum)
}

// Unwrap exposes the error as a domain error for transport mapping
func (e *InvalidLineItemError) Unwrap() error {
	return shared.NewDomainError("INVALID_LINE_ITEM", e.Error())
}

// LineItem is a priced row on a quotation, purchase order, invoice or
// shipment. Total is always Quantity * UnitPrice.
type LineItem struct {
	ID          uuid.UUID
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
}

// LineItemInput carries the caller-supplied values for a line item
type LineItemInput struct {
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// NewLineItem validates quantity and price and returns a line item with
// its total computed.
func NewLineItem(description string, quantity int, unitPrice decimal.Decimal) (*LineItem, error) {
	return newLineItemAt(-1, description, quantity, unitPrice)
}

// ClampLineItem raises quantity to 1 and price to 0 where they fall below
// the minimum instead of rejecting them.
func ClampLineItem(description string, quantity int, unitPrice decimal.Decimal) *LineItem {
	if quantity < MinQuantity {
		quantity = MinQuantity
	}
	if unitPrice.LessThan(MinUnitPrice) {
		unitPrice = MinUnitPrice
	}
	item := &LineItem{
		ID:          uuid.New(),
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
	}
	item.recalculate()
	return item
}

// BuildLineItems validates every input in order, reporting the index of
// the first invalid one.
func BuildLineItems(inputs []LineItemInput) ([]LineItem, error) {
	items := make([]LineItem, 0, len(inputs))
	for i, in := range inputs {
		item, err := newLineItemAt(i, in.Description, in.Quantity, in.UnitPrice)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}

func newLineItemAt(index int, description string, quantity int, unitPrice decimal.Decimal) (*LineItem, error) {
	if err := validateQuantity(index, quantity); err != nil {
		return nil, err
	}
	if err := validateUnitPrice(index, unitPrice); err != nil {
		return nil, err
	}
	item := &LineItem{
		ID:          uuid.New(),
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
	}
	item.recalculate()
	return item, nil
}

// SetQuantity updates the quantity and recomputes the total
func (i *LineItem) SetQuantity(quantity int) error {
	if err := validateQuantity(-1, quantity); err != nil {
		return err
	}
	i.Quantity = quantity
	i.recalculate()
	return nil
}

// SetUnitPrice updates the unit price and recomputes the total
func (i *LineItem) SetUnitPrice(unitPrice decimal.Decimal) error {
	if err := validateUnitPrice(-1, unitPrice); err != nil {
		return err
	}
	i.UnitPrice = unitPrice
	i.recalculate()
	return nil
}

func (i *LineItem) recalculate() {
	i.Total = i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func validateQuantity(index, quantity int) error {
	if quantity < MinQuantity {
		return &InvalidLineItemError{
			Index:   index,
			Field:   "quantity",
			Value:   fmt.Sprintf("%d", quantity),
			Minimum: fmt.Sprintf("%d", MinQuantity),
		}
	}
	return nil
}

func validateUnitPrice(index int, unitPrice decimal.Decimal) error {
	if unitPrice.LessThan(MinUnitPrice) {
		return &InvalidLineItemError{
			Index:   index,
			Field:   "unit_price",
			Value:   unitPrice.String(),
			Minimum: MinUnitPrice.String(),
		}
	}
	return nil
}

// MoneyScale is the number of decimal places kept for stored money amounts
const MoneyScale = 4

// DocumentTotals is the computed money summary of a priced document
type DocumentTotals struct {
	Subtotal       decimal.Decimal
	CommissionRate decimal.Decimal
	CommissionFee  decimal.Decimal
	Total          decimal.Decimal
}

// CalculateSubtotal sums the line totals. An empty list yields zero.
func CalculateSubtotal(items []LineItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Total)
	}
	return subtotal
}

// CalculateDocumentTotals computes subtotal, commission fee and grand total.
// The commission rate is a percentage in [0, 100]. The fee is rounded half
// away from zero to MoneyScale places before it is added to the total.
func CalculateDocumentTotals(items []LineItem, commissionRate decimal.Decimal) (DocumentTotals, error) {
	rate, err := valueobject.NewPercentage(commissionRate)
	if err != nil {
		return DocumentTotals{}, shared.NewDomainError("INVALID_COMMISSION_RATE", "Commission rate must be between 0 and 100")
	}
	subtotal := CalculateSubtotal(items)
	fee := rate.Of(subtotal).Round(MoneyScale)
	return DocumentTotals{
		Subtotal:       subtotal,
		CommissionRate: rate.Value(),
		CommissionFee:  fee,
		Total:          subtotal.Add(fee),
	}, nil
}

func findLineItem(items []LineItem, itemID uuid.UUID) int {
	for idx := range items {
		if items[idx].ID == itemID {
			return idx
		}
	}
	return -1
}

func addLineItem(items []LineItem, description string, quantity int, unitPrice decimal.Decimal) ([]LineItem, *LineItem, error) {
	item, err := newLineItemAt(len(items), description, quantity, unitPrice)
	if err != nil {
		return items, nil, err
	}
	return append(items, *item), item, nil
}

func updateLineItem(items []LineItem, itemID uuid.UUID, description string, quantity int, unitPrice decimal.Decimal) error {
	idx := findLineItem(items, itemID)
	if idx < 0 {
		return shared.NewDomainError("ITEM_NOT_FOUND", "Line item not found")
	}
	if err := validateQuantity(idx, quantity); err != nil {
		return err
	}
	if err := validateUnitPrice(idx, unitPrice); err != nil {
		return err
	}
	items[idx].Description = description
	items[idx].Quantity = quantity
	items[idx].UnitPrice = unitPrice
	items[idx].recalculate()
	return nil
}

func removeLineItem(items []LineItem, itemID uuid.UUID) ([]LineItem, error) {
	idx := findLineItem(items, itemID)
	if idx < 0 {
		return items, shared.NewDomainError("ITEM_NOT_FOUND", "Line item not found")
	}
	return append(items[:idx], items[idx+1:]...), nil
}
