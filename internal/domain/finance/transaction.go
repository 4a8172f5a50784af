package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradedesk/backend/internal/domain/shared"
)

// MinPostingEntries is the fewest entries a postable transaction may have
const MinPostingEntries = 2

// TransactionNumberPrefix starts every generated transaction number
const TransactionNumberPrefix = "TXN"

// TransactionStatus represents the state of a journal entry
type TransactionStatus string

const (
	TransactionStatusDraft     TransactionStatus = "draft"
	TransactionStatusPosted    TransactionStatus = "posted"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// IsValid checks if the status is a valid TransactionStatus
func (s TransactionStatus) IsValid() bool {
	return s == TransactionStatusDraft || s == TransactionStatusPosted || s == TransactionStatusCancelled
}

// Label returns the display label
func (s TransactionStatus) Label() string {
	return shared.DisplayLabel(string(s))
}

// Transaction is a journal entry. Drafts may be saved while unbalanced;
// only valid transactions can be posted.
type Transaction struct {
	shared.TenantAggregateRoot
	TransactionNumber string
	Date              time.Time
	Description       string
	Reference         string
	Entries           []TransactionEntry
	TotalAmount       decimal.Decimal // sum of debits
	Status            TransactionStatus
	PostedAt          *time.Time
	CancelledAt       *time.Time
}

// NewTransaction creates a draft journal entry
func NewTransaction(tenantID uuid.UUID, number string, date time.Time, description, reference string, entries []TransactionEntry) (*Transaction, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_NUMBER", "Transaction number cannot be empty")
	}
	if strings.TrimSpace(description) == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Transaction description cannot be empty")
	}
	if date.IsZero() {
		date = time.Now()
	}

	tx := &Transaction{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		TransactionNumber:   number,
		Date:                date,
		Description:         strings.TrimSpace(description),
		Reference:           reference,
		Status:              TransactionStatusDraft,
	}
	tx.setEntries(entries)
	return tx, nil
}

// ReplaceEntries swaps the entry list of a draft
func (t *Transaction) ReplaceEntries(entries []TransactionEntry) error {
	if t.Status != TransactionStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot edit a %s transaction", t.Status))
	}
	t.setEntries(entries)
	t.MarkChanged()
	return nil
}

// Validate applies the ledger entry rules to the transaction
func (t *Transaction) Validate() error {
	return ValidateEntries(t.Entries)
}

// Check reports every problem with the transaction's entries
func (t *Transaction) Check() ValidationReport {
	return CheckEntries(t.Entries)
}

// AccountIDs returns the distinct accounts referenced by the entries
func (t *Transaction) AccountIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(t.Entries))
	ids := make([]uuid.UUID, 0, len(t.Entries))
	for _, e := range t.Entries {
		if _, ok := seen[e.AccountID]; ok {
			continue
		}
		seen[e.AccountID] = struct{}{}
		ids = append(ids, e.AccountID)
	}
	return ids
}

// Post validates the transaction and applies every entry to its account.
// accounts must contain each referenced account; nothing is changed when
// an error is returned.
func (t *Transaction) Post(accounts map[uuid.UUID]*Account) error {
	if t.Status != TransactionStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot post a %s transaction", t.Status))
	}
	if len(t.Entries) < MinPostingEntries {
		return shared.NewDomainError("INSUFFICIENT_ENTRIES", "A transaction needs at least two entries to be posted")
	}
	if err := t.Validate(); err != nil {
		return err
	}
	for i, e := range t.Entries {
		if e.AccountID == uuid.Nil {
			return shared.NewDomainError("ACCOUNT_NOT_FOUND", fmt.Sprintf("Entry %d has no account", i))
		}
		account, ok := accounts[e.AccountID]
		if !ok || account.TenantID != t.TenantID {
			return shared.NewDomainError("ACCOUNT_NOT_FOUND", fmt.Sprintf("Entry %d references an unknown account", i))
		}
		if !account.Active {
			return shared.NewDomainError("ACCOUNT_INACTIVE", fmt.Sprintf("Entry %d references inactive account %s", i, account.AccountNumber))
		}
	}

	for _, e := range t.Entries {
		accounts[e.AccountID].applyMovement(e.Debit, e.Credit)
	}
	now := time.Now()
	t.Status = TransactionStatusPosted
	t.PostedAt = &now
	t.MarkChanged()
	t.AddDomainEvent(NewTransactionPostedEvent(t, EventTypeTransactionPosted))
	return nil
}

// Cancel voids the transaction. A posted transaction has its balance
// changes reversed, which requires every referenced account in accounts.
func (t *Transaction) Cancel(accounts map[uuid.UUID]*Account) error {
	switch t.Status {
	case TransactionStatusCancelled:
		return shared.NewDomainError("INVALID_STATE", "Transaction is already cancelled")
	case TransactionStatusPosted:
		for i, e := range t.Entries {
			if _, ok := accounts[e.AccountID]; !ok {
				return shared.NewDomainError("ACCOUNT_NOT_FOUND", fmt.Sprintf("Entry %d references an unknown account", i))
			}
		}
		for _, e := range t.Entries {
			accounts[e.AccountID].applyMovement(e.Credit, e.Debit)
		}
	}

	wasPosted := t.Status == TransactionStatusPosted
	now := time.Now()
	t.Status = TransactionStatusCancelled
	t.CancelledAt = &now
	t.MarkChanged()
	if wasPosted {
		t.AddDomainEvent(NewTransactionPostedEvent(t, EventTypeTransactionReversed))
	}
	return nil
}

func (t *Transaction) setEntries(entries []TransactionEntry) {
	t.Entries = make([]TransactionEntry, len(entries))
	for i, e := range entries {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		t.Entries[i] = e
	}
	t.TotalAmount, _ = SumEntries(t.Entries)
}
