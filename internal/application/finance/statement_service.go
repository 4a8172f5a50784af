package finance

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tradedesk/backend/internal/domain/finance"
	"github.com/tradedesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StatementCache stores computed ledger views per tenant.
// A miss is reported as (nil, false, nil).
type StatementCache interface {
	GetStatement(ctx context.Context, tenantID uuid.UUID) (*finance.FinancialStatement, bool, error)
	SetStatement(ctx context.Context, tenantID uuid.UUID, statement *finance.FinancialStatement) error
	GetTrialBalance(ctx context.Context, tenantID uuid.UUID) (*finance.TrialBalance, bool, error)
	SetTrialBalance(ctx context.Context, tenantID uuid.UUID, tb *finance.TrialBalance) error
	Invalidate(ctx context.Context, tenantID uuid.UUID) error
}

// StatementService builds the financial statement and trial balance from
// the chart of accounts. Cache failures degrade to recomputation.
type StatementService struct {
	accountRepo finance.AccountRepository
	cache       StatementCache
	logger      *zap.Logger
}

// NewStatementService creates a new StatementService. cache may be nil.
func NewStatementService(accountRepo finance.AccountRepository, cache StatementCache, logger *zap.Logger) *StatementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatementService{accountRepo: accountRepo, cache: cache, logger: logger}
}

// FinancialStatement returns the balance sheet and income statement of a tenant
func (s *StatementService) FinancialStatement(ctx context.Context, tenantID uuid.UUID) (*finance.FinancialStatement, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.GetStatement(ctx, tenantID)
		if err != nil {
			s.logger.Warn("Statement cache read failed", zap.String("tenant_id", tenantID.String()), zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	accounts, err := s.accountRepo.ListAll(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	statement := finance.BuildFinancialStatement(accounts)

	if s.cache != nil {
		if err := s.cache.SetStatement(ctx, tenantID, &statement); err != nil {
			s.logger.Warn("Statement cache write failed", zap.String("tenant_id", tenantID.String()), zap.Error(err))
		}
	}
	return &statement, nil
}

// TrialBalance returns the trial balance of a tenant's active accounts
func (s *StatementService) TrialBalance(ctx context.Context, tenantID uuid.UUID) (*finance.TrialBalance, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.GetTrialBalance(ctx, tenantID)
		if err != nil {
			s.logger.Warn("Trial balance cache read failed", zap.String("tenant_id", tenantID.String()), zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	accounts, err := s.accountRepo.ListAll(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	tb := finance.BuildTrialBalance(accounts)
	if !tb.IsBalanced {
		s.logger.Warn("Trial balance is out of balance",
			zap.String("tenant_id", tenantID.String()),
			zap.String("difference", tb.Difference.String()),
		)
	}

	if s.cache != nil {
		if err := s.cache.SetTrialBalance(ctx, tenantID, &tb); err != nil {
			s.logger.Warn("Trial balance cache write failed", zap.String("tenant_id", tenantID.String()), zap.Error(err))
		}
	}
	return &tb, nil
}

// StatementCacheInvalidator drops a tenant's cached statements whenever
// an account or a posting changes.
type StatementCacheInvalidator struct {
	cache  StatementCache
	logger *zap.Logger
}

// NewStatementCacheInvalidator creates the invalidation handler
func NewStatementCacheInvalidator(cache StatementCache, logger *zap.Logger) *StatementCacheInvalidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatementCacheInvalidator{cache: cache, logger: logger}
}

// EventTypes returns the ledger events that make statements stale
func (h *StatementCacheInvalidator) EventTypes() []string {
	return finance.LedgerEventTypes
}

// Handle invalidates the cache of the event's tenant
func (h *StatementCacheInvalidator) Handle(ctx context.Context, event shared.DomainEvent) error {
	if err := h.cache.Invalidate(ctx, event.TenantID()); err != nil {
		return fmt.Errorf("failed to invalidate statements after %s: %w", event.EventType(), err)
	}
	h.logger.Debug("Statement cache invalidated",
		zap.String("tenant_id", event.TenantID().String()),
		zap.String("event_type", event.EventType()),
	)
	return nil
}

var _ shared.EventHandler = (*StatementCacheInvalidator)(nil)
