package finance

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradedesk/backend/internal/domain/shared"
)

// AccountType is the chart-of-accounts category
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// AccountTypeOrder is the fixed presentation order of account types
var AccountTypeOrder = []AccountType{
	AccountTypeAsset,
	AccountTypeLiability,
	AccountTypeEquity,
	AccountTypeRevenue,
	AccountTypeExpense,
}

// IsValid checks if the type is a valid AccountType
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// String returns the string representation of AccountType
func (t AccountType) String() string {
	return string(t)
}

// Label returns the display label
func (t AccountType) Label() string {
	return shared.DisplayLabel(string(t))
}

// IsDebitNormal reports whether debits increase the balance.
// True for assets and expenses.
func (t AccountType) IsDebitNormal() bool {
	return t == AccountTypeAsset || t == AccountTypeExpense
}

// AccountClass sub-classifies asset and liability accounts for the balance sheet
type AccountClass string

const (
	AccountClassNone     AccountClass = ""
	AccountClassCurrent  AccountClass = "current"
	AccountClassFixed    AccountClass = "fixed"     // assets only
	AccountClassLongTerm AccountClass = "long_term" // liabilities only
)

// Label returns the display label
func (c AccountClass) Label() string {
	if c == AccountClassNone {
		return "Unclassified"
	}
	return shared.DisplayLabel(string(c))
}

// AllowedFor reports whether the class applies to the account type
func (c AccountClass) AllowedFor(t AccountType) bool {
	switch c {
	case AccountClassNone:
		return true
	case AccountClassCurrent:
		return t == AccountTypeAsset || t == AccountTypeLiability
	case AccountClassFixed:
		return t == AccountTypeAsset
	case AccountClassLongTerm:
		return t == AccountTypeLiability
	}
	return false
}

// Account is a chart-of-accounts entry. Its balance moves only when
// transactions are posted or cancelled.
type Account struct {
	shared.TenantAggregateRoot
	AccountNumber  string
	Name           string
	Type           AccountType
	Classification AccountClass
	Balance        decimal.Decimal
	Active         bool
	Description    string
}

// NewAccount creates an active account with a zero balance
func NewAccount(tenantID uuid.UUID, accountNumber, name string, accountType AccountType, class AccountClass) (*Account, error) {
	accountNumber = strings.TrimSpace(accountNumber)
	if accountNumber == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NUMBER", "Account number cannot be empty")
	}
	if len(accountNumber) > 20 {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NUMBER", "Account number cannot exceed 20 characters")
	}
	if err := validateAccountName(name); err != nil {
		return nil, err
	}
	if !accountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_TYPE", fmt.Sprintf("Invalid account type: %s", accountType))
	}
	if !class.AllowedFor(accountType) {
		return nil, shared.NewDomainError("INVALID_CLASSIFICATION",
			fmt.Sprintf("Classification %q does not apply to %s accounts", class, accountType))
	}

	account := &Account{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		AccountNumber:       accountNumber,
		Name:                strings.TrimSpace(name),
		Type:                accountType,
		Classification:      class,
		Balance:             decimal.Zero,
		Active:              true,
	}
	account.AddDomainEvent(NewAccountChangedEvent(account, EventTypeAccountCreated))

	return account, nil
}

// Update changes the descriptive fields
func (a *Account) Update(name, description string) error {
	if err := validateAccountName(name); err != nil {
		return err
	}
	a.Name = strings.TrimSpace(name)
	a.Description = description
	a.MarkChanged()
	a.AddDomainEvent(NewAccountChangedEvent(a, EventTypeAccountUpdated))
	return nil
}

// SetClassification changes the balance sheet sub-classification
func (a *Account) SetClassification(class AccountClass) error {
	if !class.AllowedFor(a.Type) {
		return shared.NewDomainError("INVALID_CLASSIFICATION",
			fmt.Sprintf("Classification %q does not apply to %s accounts", class, a.Type))
	}
	a.Classification = class
	a.MarkChanged()
	a.AddDomainEvent(NewAccountChangedEvent(a, EventTypeAccountUpdated))
	return nil
}

// Activate allows the account to receive postings again
func (a *Account) Activate() error {
	if a.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "Account is already active")
	}
	a.Active = true
	a.MarkChanged()
	a.AddDomainEvent(NewAccountChangedEvent(a, EventTypeAccountUpdated))
	return nil
}

// Deactivate stops further postings and hides the account from the trial balance
func (a *Account) Deactivate() error {
	if !a.Active {
		return shared.NewDomainError("ALREADY_INACTIVE", "Account is already inactive")
	}
	a.Active = false
	a.MarkChanged()
	a.AddDomainEvent(NewAccountChangedEvent(a, EventTypeAccountUpdated))
	return nil
}

// CanDelete reports whether the account carries no balance
func (a *Account) CanDelete() bool {
	return a.Balance.IsZero()
}

// applyMovement changes the balance by a debit and credit according to the
// account's normal side.
func (a *Account) applyMovement(debit, credit decimal.Decimal) {
	if a.Type.IsDebitNormal() {
		a.Balance = a.Balance.Add(debit).Sub(credit)
	} else {
		a.Balance = a.Balance.Add(credit).Sub(debit)
	}
	a.MarkChanged()
}

func validateAccountName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name cannot exceed 200 characters")
	}
	return nil
}
