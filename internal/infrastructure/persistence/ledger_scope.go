package persistence

import (
	"context"

	appfinance "github.com/tradedesk/backend/internal/application/finance"
	"github.com/tradedesk/backend/internal/domain/finance"
	"gorm.io/gorm"
)

// GormLedgerScope implements LedgerScope using GORM transactions
type GormLedgerScope struct {
	db *gorm.DB
}

// NewGormLedgerScope creates a new GormLedgerScope
func NewGormLedgerScope(db *gorm.DB) *GormLedgerScope {
	return &GormLedgerScope{db: db}
}

// Execute runs fn within a database transaction. The transaction commits
// when fn returns nil and rolls back otherwise.
func (s *GormLedgerScope) Execute(ctx context.Context, fn func(repos appfinance.LedgerRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormLedgerRepositories{tx: tx})
	})
}

type gormLedgerRepositories struct {
	tx *gorm.DB
}

// Accounts returns a locking account repository bound to the transaction
func (r *gormLedgerRepositories) Accounts() finance.AccountRepository {
	return newLockingAccountRepository(r.tx)
}

// Transactions returns a locking transaction repository bound to the transaction
func (r *gormLedgerRepositories) Transactions() finance.TransactionRepository {
	return newLockingTransactionRepository(r.tx)
}

var (
	_ appfinance.LedgerScope        = (*GormLedgerScope)(nil)
	_ appfinance.LedgerRepositories = (*gormLedgerRepositories)(nil)
)
