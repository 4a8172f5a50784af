package finance

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/tradedesk/backend/internal/domain/finance"
	"github.com/tradedesk/backend/internal/domain/shared"
)

// MockAccountRepository is a mock implementation of finance.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Account, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]finance.Account, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]finance.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.Account, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]finance.Account), args.Error(1)
}

func (m *MockAccountRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) ListAll(ctx context.Context, tenantID uuid.UUID) ([]finance.Account, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]finance.Account), args.Error(1)
}

func (m *MockAccountRepository) ExistsByNumber(ctx context.Context, tenantID uuid.UUID, accountNumber string) (bool, error) {
	args := m.Called(ctx, tenantID, accountNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) Save(ctx context.Context, account *finance.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockTransactionRepository is a mock implementation of finance.TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Transaction, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.Transaction, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]finance.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) ExistsForAccount(ctx context.Context, tenantID, accountID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransactionRepository) Save(ctx context.Context, tx *finance.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) GenerateTransactionNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

// MockStatementCache is a mock implementation of StatementCache
type MockStatementCache struct {
	mock.Mock
}

func (m *MockStatementCache) GetStatement(ctx context.Context, tenantID uuid.UUID) (*finance.FinancialStatement, bool, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*finance.FinancialStatement), args.Bool(1), args.Error(2)
}

func (m *MockStatementCache) SetStatement(ctx context.Context, tenantID uuid.UUID, statement *finance.FinancialStatement) error {
	args := m.Called(ctx, tenantID, statement)
	return args.Error(0)
}

func (m *MockStatementCache) GetTrialBalance(ctx context.Context, tenantID uuid.UUID) (*finance.TrialBalance, bool, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*finance.TrialBalance), args.Bool(1), args.Error(2)
}

func (m *MockStatementCache) SetTrialBalance(ctx context.Context, tenantID uuid.UUID, tb *finance.TrialBalance) error {
	args := m.Called(ctx, tenantID, tb)
	return args.Error(0)
}

func (m *MockStatementCache) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

// recordingPublisher collects published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}
