package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradedesk/backend/internal/domain/finance"
)

// AccountModel is the persistence model for the Account aggregate root
type AccountModel struct {
	TenantAggregateModel
	AccountNumber  string               `gorm:"type:varchar(20);not null;index"`
	Name           string               `gorm:"type:varchar(200);not null"`
	Type           finance.AccountType  `gorm:"type:varchar(20);not null;index"`
	Classification finance.AccountClass `gorm:"type:varchar(20);not null;default:''"`
	Balance        decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	Active         bool                 `gorm:"not null;default:true"`
	Description    string               `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account
func (m *AccountModel) ToDomain() *finance.Account {
	return &finance.Account{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		AccountNumber:       m.AccountNumber,
		Name:                m.Name,
		Type:                m.Type,
		Classification:      m.Classification,
		Balance:             m.Balance,
		Active:              m.Active,
		Description:         m.Description,
	}
}

// FromDomain populates the persistence model from a domain Account
func (m *AccountModel) FromDomain(a *finance.Account) {
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.AccountNumber = a.AccountNumber
	m.Name = a.Name
	m.Type = a.Type
	m.Classification = a.Classification
	m.Balance = a.Balance
	m.Active = a.Active
	m.Description = a.Description
}

// AccountModelFromDomain creates a new persistence model from a domain Account
func AccountModelFromDomain(a *finance.Account) *AccountModel {
	m := &AccountModel{}
	m.FromDomain(a)
	return m
}

// TransactionModel is the persistence model for the Transaction aggregate root
type TransactionModel struct {
	TenantAggregateModel
	TransactionNumber string                    `gorm:"type:varchar(50);not null;index"`
	Date              time.Time                 `gorm:"not null;index"`
	Description       string                    `gorm:"type:varchar(500);not null"`
	Reference         string                    `gorm:"type:varchar(100)"`
	Entries           []TransactionEntryModel   `gorm:"foreignKey:TransactionID;references:ID"`
	TotalAmount       decimal.Decimal           `gorm:"type:decimal(18,4);not null;default:0"`
	Status            finance.TransactionStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	PostedAt          *time.Time
	CancelledAt       *time.Time
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// TransactionEntryModel is one debit or credit line of a transaction
type TransactionEntryModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position      int             `gorm:"not null;default:0"`
	AccountID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Debit         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Credit        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Description   string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (TransactionEntryModel) TableName() string {
	return "transaction_entries"
}

// ToDomain converts the persistence model to a domain Transaction
func (m *TransactionModel) ToDomain() *finance.Transaction {
	entries := make([]finance.TransactionEntry, len(m.Entries))
	for i, e := range m.Entries {
		entries[i] = finance.TransactionEntry{
			ID:          e.ID,
			AccountID:   e.AccountID,
			Debit:       e.Debit,
			Credit:      e.Credit,
			Description: e.Description,
		}
	}
	return &finance.Transaction{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		TransactionNumber:   m.TransactionNumber,
		Date:                m.Date,
		Description:         m.Description,
		Reference:           m.Reference,
		Entries:             entries,
		TotalAmount:         m.TotalAmount,
		Status:              m.Status,
		PostedAt:            m.PostedAt,
		CancelledAt:         m.CancelledAt,
	}
}

// FromDomain populates the persistence model from a domain Transaction
func (m *TransactionModel) FromDomain(t *finance.Transaction) {
	m.FromDomainTenantAggregateRoot(t.TenantAggregateRoot)
	m.TransactionNumber = t.TransactionNumber
	m.Date = t.Date
	m.Description = t.Description
	m.Reference = t.Reference
	m.TotalAmount = t.TotalAmount
	m.Status = t.Status
	m.PostedAt = t.PostedAt
	m.CancelledAt = t.CancelledAt
	m.Entries = make([]TransactionEntryModel, len(t.Entries))
	for i, e := range t.Entries {
		m.Entries[i] = TransactionEntryModel{
			ID:            e.ID,
			TransactionID: t.ID,
			Position:      i,
			AccountID:     e.AccountID,
			Debit:         e.Debit,
			Credit:        e.Credit,
			Description:   e.Description,
		}
	}
}

// TransactionModelFromDomain creates a new persistence model from a domain Transaction
func TransactionModelFromDomain(t *finance.Transaction) *TransactionModel {
	m := &TransactionModel{}
	m.FromDomain(t)
	return m
}
