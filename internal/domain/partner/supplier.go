package partner

import (
	"strings"

	"github.com/google/uuid"
	"github.com/tradedesk/backend/internal/domain/shared"
)

// MaxPaymentTermsDays bounds the payment terms a supplier may offer
const MaxPaymentTermsDays = 365

// Supplier is a vendor the brokerage sources goods from
type Supplier struct {
	shared.TenantAggregateRoot
	Code string
	Name string
	Contact
	PaymentTermsDays int // days until payment is due
	Notes            string
	Active           bool
}

// NewSupplier creates an active supplier with immediate payment terms
func NewSupplier(tenantID uuid.UUID, code, name string) (*Supplier, error) {
	if err := validateCode("Supplier", code); err != nil {
		return nil, err
	}
	if err := validateName("Supplier", name); err != nil {
		return nil, err
	}

	supplier := &Supplier{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                strings.TrimSpace(name),
		Active:              true,
	}
	supplier.AddDomainEvent(NewSupplierCreatedEvent(supplier))

	return supplier, nil
}

// Update changes the supplier's display name
func (s *Supplier) Update(name string) error {
	if err := validateName("Supplier", name); err != nil {
		return err
	}
	s.Name = strings.TrimSpace(name)
	s.MarkChanged()
	return nil
}

// SetContact replaces the supplier's contact details
func (s *Supplier) SetContact(contact Contact) {
	s.Contact = contact
	s.MarkChanged()
}

// SetPaymentTerms sets the number of days until payment is due
func (s *Supplier) SetPaymentTerms(days int) error {
	if days < 0 {
		return shared.NewDomainError("INVALID_PAYMENT_TERMS", "Payment terms cannot be negative")
	}
	if days > MaxPaymentTermsDays {
		return shared.NewDomainError("INVALID_PAYMENT_TERMS", "Payment terms cannot exceed 365 days")
	}
	s.PaymentTermsDays = days
	s.MarkChanged()
	return nil
}

// SetNotes sets free-form notes
func (s *Supplier) SetNotes(notes string) {
	s.Notes = notes
	s.MarkChanged()
}

// Activate re-enables a deactivated supplier
func (s *Supplier) Activate() error {
	if s.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "Supplier is already active")
	}
	s.Active = true
	s.MarkChanged()
	s.AddDomainEvent(NewPartnerStatusChangedEvent(AggregateTypeSupplier, s.ID, s.TenantID, true))
	return nil
}

// Deactivate stops new purchase orders being raised against the supplier
func (s *Supplier) Deactivate() error {
	if !s.Active {
		return shared.NewDomainError("ALREADY_INACTIVE", "Supplier is already inactive")
	}
	s.Active = false
	s.MarkChanged()
	s.AddDomainEvent(NewPartnerStatusChangedEvent(AggregateTypeSupplier, s.ID, s.TenantID, false))
	return nil
}
