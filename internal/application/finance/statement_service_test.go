package finance

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tradedesk/backend/internal/domain/finance"
)

func chartOfAccounts(t *testing.T, tenantID uuid.UUID) []finance.Account {
	t.Helper()
	mk := func(number, name string, typ finance.AccountType, class finance.AccountClass, balance int64) finance.Account {
		a, err := finance.NewAccount(tenantID, number, name, typ, class)
		require.NoError(t, err)
		a.Balance = decimal.NewFromInt(balance)
		return *a
	}
	return []finance.Account{
		mk("1000", "Cash", finance.AccountTypeAsset, finance.AccountClassCurrent, 5000),
		mk("1500", "Equipment", finance.AccountTypeAsset, finance.AccountClassFixed, 2000),
		mk("2000", "Payables", finance.AccountTypeLiability, finance.AccountClassCurrent, 1500),
		mk("3000", "Capital", finance.AccountTypeEquity, finance.AccountClassNone, 4000),
		mk("4000", "Commission Income", finance.AccountTypeRevenue, finance.AccountClassNone, 2500),
		mk("5000", "Freight", finance.AccountTypeExpense, finance.AccountClassNone, 1000),
	}
}

func TestStatementService_FinancialStatement(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("cache miss computes and stores", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		cache := new(MockStatementCache)
		svc := NewStatementService(accounts, cache, nil)

		cache.On("GetStatement", ctx, tenantID).Return(nil, false, nil)
		accounts.On("ListAll", ctx, tenantID).Return(chartOfAccounts(t, tenantID), nil)
		cache.On("SetStatement", ctx, tenantID, mock.AnythingOfType("*finance.FinancialStatement")).Return(nil)

		st, err := svc.FinancialStatement(ctx, tenantID)

		require.NoError(t, err)
		assert.True(t, st.BalanceSheet.TotalAssets.Equal(decimal.NewFromInt(7000)))
		assert.True(t, st.IncomeStatement.NetIncome.Equal(decimal.NewFromInt(1500)))
		assert.True(t, st.IsBalanced())
		cache.AssertExpectations(t)
	})

	t.Run("cache hit skips the repository", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		cache := new(MockStatementCache)
		svc := NewStatementService(accounts, cache, nil)
		cached := finance.BuildFinancialStatement(chartOfAccounts(t, tenantID))
		cache.On("GetStatement", ctx, tenantID).Return(&cached, true, nil)

		st, err := svc.FinancialStatement(ctx, tenantID)

		require.NoError(t, err)
		assert.Same(t, &cached, st)
		accounts.AssertNotCalled(t, "ListAll", mock.Anything, mock.Anything)
	})

	t.Run("cache errors fall back to computing", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		cache := new(MockStatementCache)
		svc := NewStatementService(accounts, cache, nil)
		cache.On("GetStatement", ctx, tenantID).Return(nil, false, errors.New("redis down"))
		accounts.On("ListAll", ctx, tenantID).Return(chartOfAccounts(t, tenantID), nil)
		cache.On("SetStatement", ctx, tenantID, mock.Anything).Return(errors.New("redis down"))

		st, err := svc.FinancialStatement(ctx, tenantID)

		require.NoError(t, err)
		assert.Len(t, st.BalanceSheet.CurrentAssets.Accounts, 1)
	})

	t.Run("works without a cache", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		svc := NewStatementService(accounts, nil, nil)
		accounts.On("ListAll", ctx, tenantID).Return([]finance.Account{}, nil)

		st, err := svc.FinancialStatement(ctx, tenantID)

		require.NoError(t, err)
		assert.True(t, st.BalanceSheet.TotalAssets.IsZero())
	})
}

func TestStatementService_TrialBalance(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	accounts := new(MockAccountRepository)
	cache := new(MockStatementCache)
	svc := NewStatementService(accounts, cache, nil)

	cache.On("GetTrialBalance", ctx, tenantID).Return(nil, false, nil)
	accounts.On("ListAll", ctx, tenantID).Return(chartOfAccounts(t, tenantID), nil)
	cache.On("SetTrialBalance", ctx, tenantID, mock.AnythingOfType("*finance.TrialBalance")).Return(nil)

	tb, err := svc.TrialBalance(ctx, tenantID)

	require.NoError(t, err)
	assert.True(t, tb.TotalDebit.Equal(decimal.NewFromInt(8000)))
	assert.True(t, tb.TotalCredit.Equal(decimal.NewFromInt(8000)))
	assert.True(t, tb.IsBalanced)
}

func TestStatementCacheInvalidator(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	account, err := finance.NewAccount(tenantID, "1000", "Cash", finance.AccountTypeAsset, finance.AccountClassNone)
	require.NoError(t, err)
	event := finance.NewAccountChangedEvent(account, finance.EventTypeAccountUpdated)

	t.Run("invalidates the event's tenant", func(t *testing.T) {
		cache := new(MockStatementCache)
		cache.On("Invalidate", ctx, tenantID).Return(nil)
		h := NewStatementCacheInvalidator(cache, nil)

		require.NoError(t, h.Handle(ctx, event))
		assert.ElementsMatch(t, finance.LedgerEventTypes, h.EventTypes())
		cache.AssertExpectations(t)
	})

	t.Run("wraps cache errors", func(t *testing.T) {
		cache := new(MockStatementCache)
		cache.On("Invalidate", ctx, tenantID).Return(errors.New("boom"))
		h := NewStatementCacheInvalidator(cache, nil)

		err := h.Handle(ctx, event)
		require.Error(t, err)
		assert.Contains(t, err.Error(), finance.EventTypeAccountUpdated)
	})
}
