package trade

import "github.com/google/uuid"

// Workflow step names in business order
const (
	StepOrderCreated   = "Order Created"
	StepQuotations     = "Quotations"
	StepPurchaseOrders = "Purchase Orders"
	StepSalesInvoice   = "Sales Invoice"
	StepShipping       = "Shipping"
)

// WorkflowStep is one milestone of an order's workflow
type WorkflowStep struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
	Optional  bool   `json:"optional"`
}

// WorkflowDocuments are the child documents linked to an order.
// Quotations is nil when quotations do not take part in the workflow;
// an empty non-nil slice means they do but none exist yet.
type WorkflowDocuments struct {
	Quotations       []Quotation
	PurchaseOrders   []PurchaseOrder
	Invoices         []SalesInvoice
	ShippingInvoices []ShippingInvoice
}

// Workflow is the derived progress of an order
type Workflow struct {
	OrderID      uuid.UUID      `json:"order_id"`
	WorkflowType WorkflowType   `json:"workflow_type"`
	Steps        []WorkflowStep `json:"steps"`
}

// BuildWorkflow derives the ordered workflow steps of an order. A step is
// complete when at least one linked document exists; document statuses
// are not consulted. The result depends only on its inputs.
func BuildWorkflow(order *Order, docs WorkflowDocuments) Workflow {
	steps := make([]WorkflowStep, 0, 5)
	steps = append(steps, WorkflowStep{Name: StepOrderCreated, Completed: true})
	if docs.Quotations != nil {
		steps = append(steps, WorkflowStep{Name: StepQuotations, Completed: len(docs.Quotations) > 0, Optional: true})
	}
	steps = append(steps,
		WorkflowStep{Name: StepPurchaseOrders, Completed: len(docs.PurchaseOrders) > 0},
		WorkflowStep{Name: StepSalesInvoice, Completed: len(docs.Invoices) > 0},
		WorkflowStep{Name: StepShipping, Completed: len(docs.ShippingInvoices) > 0},
	)
	w := Workflow{Steps: steps}
	if order != nil {
		w.OrderID = order.ID
		w.WorkflowType = order.WorkflowType
	}
	return w
}

// Progress returns the fraction of required steps completed, in [0, 1]
func (w Workflow) Progress() float64 {
	required, done := 0, 0
	for _, step := range w.Steps {
		if step.Optional {
			continue
		}
		required++
		if step.Completed {
			done++
		}
	}
	if required == 0 {
		return 0
	}
	return float64(done) / float64(required)
}

// NextStep returns the first incomplete required step, if any
func (w Workflow) NextStep() (WorkflowStep, bool) {
	for _, step := range w.Steps {
		if !step.Optional && !step.Completed {
			return step, true
		}
	}
	return WorkflowStep{}, false
}

// IsComplete reports whether every required step is done
func (w Workflow) IsComplete() bool {
	_, pending := w.NextStep()
	return !pending
}
