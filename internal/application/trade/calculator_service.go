package trade

import (
	"github.com/tradedesk/backend/internal/domain/trade"
)

// CalculatorService prices line items without touching storage
type CalculatorService struct{}

// NewCalculatorService creates a new CalculatorService
func NewCalculatorService() *CalculatorService {
	return &CalculatorService{}
}

// Totals computes per-line totals, subtotal, commission fee and total
func (s *CalculatorService) Totals(req CalculateTotalsRequest) (*TotalsResponse, error) {
	var items []trade.LineItem
	if req.Clamp {
		items = make([]trade.LineItem, len(req.Items))
		for i, in := range req.Items {
			items[i] = *trade.ClampLineItem(in.Description, in.Quantity, in.UnitPrice)
		}
	} else {
		built, err := trade.BuildLineItems(toLineItemInputs(req.Items))
		if err != nil {
			return nil, err
		}
		items = built
	}

	totals, err := trade.CalculateDocumentTotals(items, req.CommissionRate)
	if err != nil {
		return nil, err
	}
	return &TotalsResponse{
		Items:          ToLineItemResponses(items),
		Subtotal:       totals.Subtotal,
		CommissionRate: totals.CommissionRate,
		CommissionFee:  totals.CommissionFee,
		Total:          totals.Total,
	}, nil
}
