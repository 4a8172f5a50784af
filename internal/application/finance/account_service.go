package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradedesk/backend/internal/domain/finance"
	"github.com/tradedesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AccountService manages the chart of accounts
type AccountService struct {
	accountRepo     finance.AccountRepository
	transactionRepo finance.TransactionRepository
	eventPublisher  shared.EventPublisher
	logger          *zap.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(accountRepo finance.AccountRepository, transactionRepo finance.TransactionRepository, logger *zap.Logger) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

// SetEventPublisher sets the event publisher for account events
func (s *AccountService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create opens a new account with a zero balance
func (s *AccountService) Create(ctx context.Context, tenantID uuid.UUID, req CreateAccountRequest) (*AccountResponse, error) {
	exists, err := s.accountRepo.ExistsByNumber(ctx, tenantID, req.AccountNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Account with this number already exists")
	}

	account, err := finance.NewAccount(tenantID, req.AccountNumber, req.Name,
		finance.AccountType(req.Type), finance.AccountClass(req.Classification))
	if err != nil {
		return nil, err
	}
	account.Description = req.Description

	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("Account created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("account_number", account.AccountNumber),
		zap.String("type", string(account.Type)),
	)
	publishEvents(ctx, s.eventPublisher, s.logger, account)

	response := ToAccountResponse(account)
	return &response, nil
}

// GetByID retrieves an account
func (s *AccountService) GetByID(ctx context.Context, tenantID, accountID uuid.UUID) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	response := ToAccountResponse(account)
	return &response, nil
}

// List retrieves accounts with filtering and pagination
func (s *AccountService) List(ctx context.Context, tenantID uuid.UUID, filter AccountListFilter) ([]AccountResponse, int64, error) {
	if filter.OrderBy == "" {
		filter.OrderBy = "account_number"
		if filter.OrderDir == "" {
			filter.OrderDir = "asc"
		}
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}.Normalize()
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}

	accounts, err := s.accountRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.accountRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToAccountResponses(accounts), total, nil
}

// Update edits the descriptive fields, classification and active flag.
// The balance only moves through posted transactions.
func (s *AccountService) Update(ctx context.Context, tenantID, accountID uuid.UUID, req UpdateAccountRequest) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil {
		name, description := account.Name, account.Description
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}
		if err := account.Update(name, description); err != nil {
			return nil, err
		}
	}
	if req.Classification != nil && finance.AccountClass(*req.Classification) != account.Classification {
		if err := account.SetClassification(finance.AccountClass(*req.Classification)); err != nil {
			return nil, err
		}
	}
	if req.Active != nil && *req.Active != account.Active {
		if *req.Active {
			err = account.Activate()
		} else {
			err = account.Deactivate()
		}
		if err != nil {
			return nil, err
		}
	}

	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, account)

	response := ToAccountResponse(account)
	return &response, nil
}

// Delete removes an account that carries no balance and is referenced by
// no transaction.
func (s *AccountService) Delete(ctx context.Context, tenantID, accountID uuid.UUID) error {
	account, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return err
	}
	if !account.CanDelete() {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete an account with a non-zero balance")
	}
	used, err := s.transactionRepo.ExistsForAccount(ctx, tenantID, accountID)
	if err != nil {
		return err
	}
	if used {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete an account referenced by transactions; deactivate it instead")
	}

	if err := s.accountRepo.DeleteForTenant(ctx, tenantID, accountID); err != nil {
		return err
	}

	s.logger.Info("Account deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("account_number", account.AccountNumber),
	)
	account.AddDomainEvent(finance.NewAccountChangedEvent(account, finance.EventTypeAccountDeleted))
	publishEvents(ctx, s.eventPublisher, s.logger, account)
	return nil
}
