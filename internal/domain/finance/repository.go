package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradedesk/backend/internal/domain/shared"
)

// AccountRepository defines the interface for chart-of-accounts persistence
type AccountRepository interface {
	// FindByIDForTenant finds an account by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Account, error)

	// FindByIDs loads the given accounts; missing IDs are simply absent from the result
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Account, error)

	// FindAllForTenant lists accounts. Recognised filter keys: "type", "active".
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Account, error)

	// CountForTenant counts accounts matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// ListAll returns every account of the tenant ordered by account number
	ListAll(ctx context.Context, tenantID uuid.UUID) ([]Account, error)

	// ExistsByNumber checks if an account number is taken in the tenant
	ExistsByNumber(ctx context.Context, tenantID uuid.UUID, accountNumber string) (bool, error)

	// Save creates or updates an account
	Save(ctx context.Context, account *Account) error

	// DeleteForTenant removes an account
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// TransactionRepository defines the interface for journal entry persistence
type TransactionRepository interface {
	// FindByIDForTenant finds a transaction with its entries
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Transaction, error)

	// FindAllForTenant lists transactions. Recognised filter keys: "status", "account_id".
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Transaction, error)

	// CountForTenant counts transactions matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsForAccount reports whether any entry references the account
	ExistsForAccount(ctx context.Context, tenantID, accountID uuid.UUID) (bool, error)

	// Save creates or updates a transaction and replaces its entries
	Save(ctx context.Context, tx *Transaction) error

	// GenerateTransactionNumber returns the next TXN-YYYY-NNNNN number
	GenerateTransactionNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
