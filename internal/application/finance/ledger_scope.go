package finance

import (
	"context"

	"github.com/tradedesk/backend/internal/domain/finance"
)

// LedgerScope runs ledger changes atomically. Posting or cancelling a
// transaction touches the transaction and every referenced account; either
// all of them are saved or none are.
type LedgerScope interface {
	// Execute runs fn within a database transaction, rolling back when fn returns an error
	Execute(ctx context.Context, fn func(repos LedgerRepositories) error) error
}

// LedgerRepositories gives access to ledger repositories bound to one transaction.
// Accounts loaded through it are locked until the transaction ends where the
// database supports row locks.
type LedgerRepositories interface {
	Accounts() finance.AccountRepository
	Transactions() finance.TransactionRepository
}

// NoOpLedgerScope runs the function against plain repositories without a transaction.
// Useful for tests.
type NoOpLedgerScope struct {
	accounts     finance.AccountRepository
	transactions finance.TransactionRepository
}

// NewNoOpLedgerScope creates a NoOpLedgerScope
func NewNoOpLedgerScope(accounts finance.AccountRepository, transactions finance.TransactionRepository) *NoOpLedgerScope {
	return &NoOpLedgerScope{accounts: accounts, transactions: transactions}
}

// Execute runs fn directly
func (s *NoOpLedgerScope) Execute(_ context.Context, fn func(repos LedgerRepositories) error) error {
	return fn(s)
}

// Accounts returns the account repository
func (s *NoOpLedgerScope) Accounts() finance.AccountRepository {
	return s.accounts
}

// Transactions returns the transaction repository
func (s *NoOpLedgerScope) Transactions() finance.TransactionRepository {
	return s.transactions
}

var (
	_ LedgerScope        = (*NoOpLedgerScope)(nil)
	_ LedgerRepositories = (*NoOpLedgerScope)(nil)
)
