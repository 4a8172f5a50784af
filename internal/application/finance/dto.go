package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradedesk/backend/internal/domain/finance"
)

// =============================================================================
// Account DTOs
// =============================================================================

// CreateAccountRequest represents a request to open an account
type CreateAccountRequest struct {
	AccountNumber  string `json:"account_number" binding:"required,min=1,max=20"`
	Name           string `json:"name" binding:"required,min=1,max=200"`
	Type           string `json:"type" binding:"required,account_type"`
	Classification string `json:"classification" binding:"omitempty,oneof=current fixed long_term"`
	Description    string `json:"description" binding:"max=1000"`
}

// UpdateAccountRequest represents a request to update an account.
// The balance is not editable.
type UpdateAccountRequest struct {
	Name           *string `json:"name" binding:"omitempty,min=1,max=200"`
	Description    *string `json:"description" binding:"omitempty,max=1000"`
	Classification *string `json:"classification" binding:"omitempty,oneof=current fixed long_term"`
	Active         *bool   `json:"active"`
}

// AccountListFilter represents filter options for listing accounts
type AccountListFilter struct {
	Search   string `form:"search"`
	Type     string `form:"type" binding:"omitempty,account_type"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=account_number name type balance created_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID                  uuid.UUID       `json:"id"`
	AccountNumber       string          `json:"account_number"`
	Name                string          `json:"name"`
	Type                string          `json:"type"`
	TypeLabel           string          `json:"type_label"`
	Classification      string          `json:"classification"`
	ClassificationLabel string          `json:"classification_label"`
	Balance             decimal.Decimal `json:"balance"`
	Active              bool            `json:"active"`
	Description         string          `json:"description"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	Version             int             `json:"version"`
}

// ToAccountResponse converts a domain Account to AccountResponse
func ToAccountResponse(a *finance.Account) AccountResponse {
	return AccountResponse{
		ID:                  a.ID,
		AccountNumber:       a.AccountNumber,
		Name:                a.Name,
		Type:                string(a.Type),
		TypeLabel:           a.Type.Label(),
		Classification:      string(a.Classification),
		ClassificationLabel: a.Classification.Label(),
		Balance:             a.Balance,
		Active:              a.Active,
		Description:         a.Description,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
		Version:             a.Version,
	}
}

// ToAccountResponses converts a slice of accounts
func ToAccountResponses(accounts []finance.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToAccountResponse(&accounts[i])
	}
	return out
}

// =============================================================================
// Transaction DTOs
// =============================================================================

// EntryInput is one journal line in a request
type EntryInput struct {
	AccountID   uuid.UUID       `json:"account_id"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description" binding:"max=500"`
}

// CreateTransactionRequest represents a request to record a draft journal entry
type CreateTransactionRequest struct {
	Date        *time.Time   `json:"date"`
	Description string       `json:"description" binding:"required,min=1,max=500"`
	Reference   string       `json:"reference" binding:"max=100"`
	Entries     []EntryInput `json:"entries" binding:"dive"`
	PostNow     bool         `json:"post_now"`
}

// ValidateEntriesRequest carries entries to check without saving them
type ValidateEntriesRequest struct {
	Entries []EntryInput `json:"entries" binding:"dive"`
}

// TransactionListFilter represents filter options for listing transactions
type TransactionListFilter struct {
	Search    string `form:"search"`
	Status    string `form:"status" binding:"omitempty,oneof=draft posted cancelled"`
	AccountID string `form:"account_id" binding:"omitempty,uuid"`
	Page      int    `form:"page" binding:"min=0"`
	PageSize  int    `form:"page_size" binding:"min=0,max=100"`
	OrderBy   string `form:"order_by" binding:"omitempty,oneof=date transaction_number total_amount created_at"`
	OrderDir  string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// EntryResponse is one journal line in API responses
type EntryResponse struct {
	ID          uuid.UUID       `json:"id"`
	AccountID   uuid.UUID       `json:"account_id"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// TransactionResponse represents a journal entry in API responses
type TransactionResponse struct {
	ID                uuid.UUID       `json:"id"`
	TransactionNumber string          `json:"transaction_number"`
	Date              time.Time       `json:"date"`
	Description       string          `json:"description"`
	Reference         string          `json:"reference"`
	Entries           []EntryResponse `json:"entries"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	Status            string          `json:"status"`
	StatusLabel       string          `json:"status_label"`
	PostedAt          *time.Time      `json:"posted_at,omitempty"`
	CancelledAt       *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Version           int             `json:"version"`
}

// ToTransactionResponse converts a domain Transaction to TransactionResponse
func ToTransactionResponse(t *finance.Transaction) TransactionResponse {
	entries := make([]EntryResponse, len(t.Entries))
	for i, e := range t.Entries {
		entries[i] = EntryResponse{
			ID:          e.ID,
			AccountID:   e.AccountID,
			Debit:       e.Debit,
			Credit:      e.Credit,
			Description: e.Description,
		}
	}
	return TransactionResponse{
		ID:                t.ID,
		TransactionNumber: t.TransactionNumber,
		Date:              t.Date,
		Description:       t.Description,
		Reference:         t.Reference,
		Entries:           entries,
		TotalAmount:       t.TotalAmount,
		Status:            string(t.Status),
		StatusLabel:       t.Status.Label(),
		PostedAt:          t.PostedAt,
		CancelledAt:       t.CancelledAt,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
		Version:           t.Version,
	}
}

// ToTransactionResponses converts a slice of transactions
func ToTransactionResponses(txs []finance.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txs))
	for i := range txs {
		out[i] = ToTransactionResponse(&txs[i])
	}
	return out
}

func toEntries(inputs []EntryInput) []finance.TransactionEntry {
	entries := make([]finance.TransactionEntry, len(inputs))
	for i, in := range inputs {
		entries[i] = finance.NewTransactionEntry(in.AccountID, in.Debit, in.Credit, in.Description)
	}
	return entries
}
