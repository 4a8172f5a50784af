package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tradedesk/backend/internal/domain/finance"
	"github.com/tradedesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TransactionService records, validates, posts and cancels journal entries
type TransactionService struct {
	transactionRepo finance.TransactionRepository
	ledgerScope     LedgerScope
	eventPublisher  shared.EventPublisher
	logger          *zap.Logger
}

// NewTransactionService creates a new TransactionService. Posting and
// cancelling run inside ledgerScope.
func NewTransactionService(transactionRepo finance.TransactionRepository, ledgerScope LedgerScope, logger *zap.Logger) *TransactionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransactionService{
		transactionRepo: transactionRepo,
		ledgerScope:     ledgerScope,
		logger:          logger,
	}
}

// SetEventPublisher sets the event publisher for posting events
func (s *TransactionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create records a draft transaction. Drafts may be unbalanced; when
// PostNow is set the draft is posted immediately and a posting failure
// leaves the draft saved.
func (s *TransactionService) Create(ctx context.Context, tenantID uuid.UUID, req CreateTransactionRequest) (*TransactionResponse, error) {
	number, err := s.transactionRepo.GenerateTransactionNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}
	tx, err := finance.NewTransaction(tenantID, number, date, req.Description, req.Reference, toEntries(req.Entries))
	if err != nil {
		return nil, err
	}

	if err := s.transactionRepo.Save(ctx, tx); err != nil {
		return nil, err
	}
	s.logger.Info("Transaction recorded",
		zap.String("tenant_id", tenantID.String()),
		zap.String("transaction_number", tx.TransactionNumber),
		zap.Int("entries", len(tx.Entries)),
	)

	if req.PostNow {
		return s.Post(ctx, tenantID, tx.ID)
	}

	response := ToTransactionResponse(tx)
	return &response, nil
}

// Validate checks entries without saving them and reports every problem
func (s *TransactionService) Validate(_ context.Context, req ValidateEntriesRequest) finance.ValidationReport {
	return finance.CheckEntries(toEntries(req.Entries))
}

// GetByID retrieves a transaction with its entries
func (s *TransactionService) GetByID(ctx context.Context, tenantID, transactionID uuid.UUID) (*TransactionResponse, error) {
	tx, err := s.transactionRepo.FindByIDForTenant(ctx, tenantID, transactionID)
	if err != nil {
		return nil, err
	}
	response := ToTransactionResponse(tx)
	return &response, nil
}

// List retrieves transactions with filtering and pagination
func (s *TransactionService) List(ctx context.Context, tenantID uuid.UUID, filter TransactionListFilter) ([]TransactionResponse, int64, error) {
	if filter.OrderBy == "" {
		filter.OrderBy = "date"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}.Normalize()
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.AccountID != "" {
		accountID, err := uuid.Parse(filter.AccountID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", "Invalid account_id")
		}
		domainFilter.Filters["account_id"] = accountID
	}

	txs, err := s.transactionRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.transactionRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToTransactionResponses(txs), total, nil
}

// Post validates a draft and applies its entries to the account balances.
// The transaction and every touched account are saved atomically.
func (s *TransactionService) Post(ctx context.Context, tenantID, transactionID uuid.UUID) (*TransactionResponse, error) {
	var posted *finance.Transaction
	err := s.ledgerScope.Execute(ctx, func(repos LedgerRepositories) error {
		tx, accounts, err := loadForLedger(ctx, repos, tenantID, transactionID)
		if err != nil {
			return err
		}
		if err := tx.Post(accounts); err != nil {
			return err
		}
		if err := saveLedger(ctx, repos, tx, accounts); err != nil {
			return err
		}
		posted = tx
		return nil
	})
	if err != nil {
		s.logger.Warn("Transaction posting rejected",
			zap.String("tenant_id", tenantID.String()),
			zap.String("transaction_id", transactionID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("Transaction posted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("transaction_number", posted.TransactionNumber),
		zap.String("total_amount", posted.TotalAmount.String()),
	)
	publishEvents(ctx, s.eventPublisher, s.logger, posted)

	response := ToTransactionResponse(posted)
	return &response, nil
}

// Cancel voids a transaction. A posted transaction has its balance changes
// reversed in the same database transaction.
func (s *TransactionService) Cancel(ctx context.Context, tenantID, transactionID uuid.UUID) (*TransactionResponse, error) {
	var cancelled *finance.Transaction
	err := s.ledgerScope.Execute(ctx, func(repos LedgerRepositories) error {
		tx, accounts, err := loadForLedger(ctx, repos, tenantID, transactionID)
		if err != nil {
			return err
		}
		wasPosted := tx.Status == finance.TransactionStatusPosted
		if err := tx.Cancel(accounts); err != nil {
			return err
		}
		if !wasPosted {
			accounts = nil
		}
		if err := saveLedger(ctx, repos, tx, accounts); err != nil {
			return err
		}
		cancelled = tx
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Transaction cancelled",
		zap.String("tenant_id", tenantID.String()),
		zap.String("transaction_number", cancelled.TransactionNumber),
	)
	publishEvents(ctx, s.eventPublisher, s.logger, cancelled)

	response := ToTransactionResponse(cancelled)
	return &response, nil
}

func loadForLedger(ctx context.Context, repos LedgerRepositories, tenantID, transactionID uuid.UUID) (*finance.Transaction, map[uuid.UUID]*finance.Account, error) {
	tx, err := repos.Transactions().FindByIDForTenant(ctx, tenantID, transactionID)
	if err != nil {
		return nil, nil, err
	}
	list, err := repos.Accounts().FindByIDs(ctx, tenantID, tx.AccountIDs())
	if err != nil {
		return nil, nil, err
	}
	accounts := make(map[uuid.UUID]*finance.Account, len(list))
	for i := range list {
		accounts[list[i].ID] = &list[i]
	}
	return tx, accounts, nil
}

// saveLedger writes the transaction before the balances so a stale
// transaction fails its version check before any balance moves.
func saveLedger(ctx context.Context, repos LedgerRepositories, tx *finance.Transaction, accounts map[uuid.UUID]*finance.Account) error {
	if err := repos.Transactions().Save(ctx, tx); err != nil {
		return err
	}
	for _, account := range accounts {
		if err := repos.Accounts().Save(ctx, account); err != nil {
			return err
		}
	}
	return nil
}
