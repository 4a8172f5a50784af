package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradedesk/backend/internal/domain/shared"
	"github.com/tradedesk/backend/internal/domain/shared/valueobject"
)

// WorkflowType selects which workflow steps an order goes through
type WorkflowType string

const (
	WorkflowTypeFastTrack WorkflowType = "fast-track" // skips supplier quotations
	WorkflowTypeStandard  WorkflowType = "standard"
)

// IsValid checks if the workflow type is known
func (w WorkflowType) IsValid() bool {
	return w == WorkflowTypeFastTrack || w == WorkflowTypeStandard
}

// String returns the string representation of WorkflowType
func (w WorkflowType) String() string {
	return string(w)
}

// Label returns the display label
func (w WorkflowType) Label() string {
	return shared.DisplayLabel(string(w))
}

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusInProgress OrderStatus = "in-progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// AllOrderStatuses lists statuses in lifecycle order
var AllOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusInProgress,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusInProgress, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// Label returns the display label
func (s OrderStatus) Label() string {
	return shared.DisplayLabel(string(s))
}

// IsTerminal reports whether no further transitions are possible
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusInProgress || target == OrderStatusCancelled
	case OrderStatusInProgress:
		return target == OrderStatusCompleted || target == OrderStatusCancelled
	}
	return false
}

// Priority ranks orders for the desk
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// IsValid checks if the priority is known
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Label returns the display label
func (p Priority) Label() string {
	return shared.DisplayLabel(string(p))
}

// Order is the brokerage engagement for a client. Purchase orders,
// invoices, quotations and shipments reference it by ID.
type Order struct {
	shared.TenantAggregateRoot
	OrderNumber    string
	ClientID       uuid.UUID
	ClientName     string
	ProjectName    string
	WorkflowType   WorkflowType
	Status         OrderStatus
	Currency       valueobject.Currency
	Priority       Priority
	CommissionRate decimal.Decimal
	Requirements   string
	Archived       bool
	ArchivedAt     *time.Time
}

// NewOrder creates a pending order in the default currency
func NewOrder(tenantID uuid.UUID, orderNumber string, clientID uuid.UUID, clientName, projectName string, workflowType WorkflowType) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if err := validateProjectName(projectName); err != nil {
		return nil, err
	}
	if !workflowType.IsValid() {
		return nil, shared.NewDomainError("INVALID_WORKFLOW_TYPE", fmt.Sprintf("Invalid workflow type: %s", workflowType))
	}

	order := &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderNumber:         orderNumber,
		ClientID:            clientID,
		ClientName:          clientName,
		ProjectName:         strings.TrimSpace(projectName),
		WorkflowType:        workflowType,
		Status:              OrderStatusPending,
		Currency:            valueobject.DefaultCurrency,
		Priority:            PriorityMedium,
		CommissionRate:      decimal.Zero,
	}
	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// UpdateDetails changes the project name and requirements text
func (o *Order) UpdateDetails(projectName, requirements string) error {
	if err := o.ensureEditable(); err != nil {
		return err
	}
	if err := validateProjectName(projectName); err != nil {
		return err
	}
	o.ProjectName = strings.TrimSpace(projectName)
	o.Requirements = requirements
	o.MarkChanged()
	return nil
}

// SetCurrency sets the order currency from an ISO code
func (o *Order) SetCurrency(code string) error {
	if err := o.ensureEditable(); err != nil {
		return err
	}
	currency, err := valueobject.ParseCurrency(code)
	if err != nil {
		return shared.NewDomainError("INVALID_CURRENCY", err.Error())
	}
	o.Currency = currency
	o.MarkChanged()
	return nil
}

// SetPriority sets the order priority
func (o *Order) SetPriority(priority Priority) error {
	if !priority.IsValid() {
		return shared.NewDomainError("INVALID_PRIORITY", fmt.Sprintf("Invalid priority: %s", priority))
	}
	o.Priority = priority
	o.MarkChanged()
	return nil
}

// SetCommissionRate sets the default commission percentage applied to
// the order's sales invoices.
func (o *Order) SetCommissionRate(rate decimal.Decimal) error {
	if err := o.ensureEditable(); err != nil {
		return err
	}
	if _, err := valueobject.NewPercentage(rate); err != nil {
		return shared.NewDomainError("INVALID_COMMISSION_RATE", "Commission rate must be between 0 and 100")
	}
	o.CommissionRate = rate
	o.MarkChanged()
	return nil
}

// TransitionTo moves the order to the target status
func (o *Order) TransitionTo(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Invalid order status: %s", target))
	}
	if o.Archived {
		return shared.NewDomainError("INVALID_STATE", "Cannot change the status of an archived order")
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move order from %s to %s", o.Status, target))
	}

	oldStatus := o.Status
	o.Status = target
	o.MarkChanged()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, oldStatus, target))
	return nil
}

// Archive soft-deletes the order
func (o *Order) Archive() error {
	if o.Archived {
		return shared.NewDomainError("ALREADY_ARCHIVED", "Order is already archived")
	}
	now := time.Now()
	o.Archived = true
	o.ArchivedAt = &now
	o.MarkChanged()
	o.AddDomainEvent(NewOrderArchivedEvent(o, true))
	return nil
}

// Restore brings an archived order back
func (o *Order) Restore() error {
	if !o.Archived {
		return shared.NewDomainError("NOT_ARCHIVED", "Order is not archived")
	}
	o.Archived = false
	o.ArchivedAt = nil
	o.MarkChanged()
	o.AddDomainEvent(NewOrderArchivedEvent(o, false))
	return nil
}

// CanHardDelete reports whether the order may be removed permanently.
// Linked documents are checked by the caller.
func (o *Order) CanHardDelete() bool {
	return !o.Archived && o.Status == OrderStatusPending
}

// AcceptsDocuments reports whether new child documents may reference the order
func (o *Order) AcceptsDocuments() bool {
	return !o.Archived && o.Status != OrderStatusCancelled
}

func (o *Order) ensureEditable() error {
	if o.Archived {
		return shared.NewDomainError("INVALID_STATE", "Cannot edit an archived order")
	}
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot edit a %s order", o.Status))
	}
	return nil
}

func validateProjectName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_PROJECT_NAME", "Project name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_PROJECT_NAME", "Project name cannot exceed 200 characters")
	}
	return nil
}
