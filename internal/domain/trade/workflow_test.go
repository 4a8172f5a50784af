package trade

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func stepNames(w Workflow) []string {
	names := make([]string, len(w.Steps))
	for i, s := range w.Steps {
		names[i] = s.Name
	}
	return names
}

func TestBuildWorkflow_InvoiceOnly(t *testing.T) {
	order := newTestOrder(t, WorkflowTypeFastTrack)

	w := BuildWorkflow(order, WorkflowDocuments{
		PurchaseOrders:   []PurchaseOrder{},
		Invoices:         []SalesInvoice{{}},
		ShippingInvoices: []ShippingInvoice{},
	})

	assert.Equal(t, []WorkflowStep{
		{Name: StepOrderCreated, Completed: true},
		{Name: StepPurchaseOrders, Completed: false},
		{Name: StepSalesInvoice, Completed: true},
		{Name: StepShipping, Completed: false},
	}, w.Steps)
	assert.Equal(t, order.ID, w.OrderID)
}

func TestBuildWorkflow_WithQuotations(t *testing.T) {
	order := newTestOrder(t, WorkflowTypeStandard)

	w := BuildWorkflow(order, WorkflowDocuments{Quotations: []Quotation{}})
	assert.Equal(t, []string{StepOrderCreated, StepQuotations, StepPurchaseOrders, StepSalesInvoice, StepShipping}, stepNames(w))
	assert.False(t, w.Steps[1].Completed)
	assert.True(t, w.Steps[1].Optional)

	w = BuildWorkflow(order, WorkflowDocuments{Quotations: []Quotation{{}}})
	assert.True(t, w.Steps[1].Completed)
}

func TestBuildWorkflow_IgnoresDocumentStatus(t *testing.T) {
	order := newTestOrder(t, WorkflowTypeFastTrack)
	cancelled := SalesInvoice{Status: InvoiceStatusCancelled}

	w := BuildWorkflow(order, WorkflowDocuments{Invoices: []SalesInvoice{cancelled}})
	assert.True(t, w.Steps[2].Completed)
}

func TestBuildWorkflow_Idempotent(t *testing.T) {
	order := newTestOrder(t, WorkflowTypeStandard)
	docs := WorkflowDocuments{
		Quotations:     []Quotation{{}},
		PurchaseOrders: []PurchaseOrder{{}},
	}

	first := BuildWorkflow(order, docs)
	second := BuildWorkflow(order, docs)
	assert.Equal(t, first, second)
}

func TestWorkflow_ProgressAndNextStep(t *testing.T) {
	order := newTestOrder(t, WorkflowTypeStandard)

	w := BuildWorkflow(order, WorkflowDocuments{Quotations: []Quotation{}})
	assert.InDelta(t, 0.25, w.Progress(), 1e-9)
	next, ok := w.NextStep()
	assert.True(t, ok)
	assert.Equal(t, StepPurchaseOrders, next.Name)

	w = BuildWorkflow(order, WorkflowDocuments{
		PurchaseOrders:   []PurchaseOrder{{}},
		Invoices:         []SalesInvoice{{}},
		ShippingInvoices: []ShippingInvoice{{}},
	})
	assert.InDelta(t, 1.0, w.Progress(), 1e-9)
	assert.True(t, w.IsComplete())
}
