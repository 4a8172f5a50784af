package finance

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradedesk/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeAccount     = "Account"
	AggregateTypeTransaction = "Transaction"
)

// Event type constants
const (
	EventTypeAccountCreated      = "AccountCreated"
	EventTypeAccountUpdated      = "AccountUpdated"
	EventTypeAccountDeleted      = "AccountDeleted"
	EventTypeTransactionPosted   = "TransactionPosted"
	EventTypeTransactionReversed = "TransactionReversed"
)

// LedgerEventTypes are the events after which computed statements are stale
var LedgerEventTypes = []string{
	EventTypeAccountCreated,
	EventTypeAccountUpdated,
	EventTypeAccountDeleted,
	EventTypeTransactionPosted,
	EventTypeTransactionReversed,
}

// AccountChangedEvent is published when an account is created, edited or removed
type AccountChangedEvent struct {
	shared.BaseDomainEvent
	AccountNumber string      `json:"account_number"`
	AccountType   AccountType `json:"account_type"`
	Active        bool        `json:"active"`
}

// NewAccountChangedEvent creates an account event of the given type
func NewAccountChangedEvent(account *Account, eventType string) *AccountChangedEvent {
	return &AccountChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeAccount, account.ID, account.TenantID),
		AccountNumber:   account.AccountNumber,
		AccountType:     account.Type,
		Active:          account.Active,
	}
}

// TransactionPostedEvent is published when a transaction is posted or a
// posted transaction is reversed by cancellation.
type TransactionPostedEvent struct {
	shared.BaseDomainEvent
	TransactionNumber string          `json:"transaction_number"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	AccountIDs        []uuid.UUID     `json:"account_ids"`
}

// NewTransactionPostedEvent creates a posting or reversal event
func NewTransactionPostedEvent(tx *Transaction, eventType string) *TransactionPostedEvent {
	return &TransactionPostedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(eventType, AggregateTypeTransaction, tx.ID, tx.TenantID),
		TransactionNumber: tx.TransactionNumber,
		TotalAmount:       tx.TotalAmount,
		AccountIDs:        tx.AccountIDs(),
	}
}
