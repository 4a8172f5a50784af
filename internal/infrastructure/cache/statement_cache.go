package cache

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradedesk/backend/internal/domain/finance"
)

// Report names used as cache fields
const (
	ReportFinancialStatement = "financial_statement"
	ReportTrialBalance       = "trial_balance"
)

// StatementCache keeps computed ledger views per tenant until the ledger changes.
// A miss is reported as (nil, false, nil).
type StatementCache interface {
	GetStatement(ctx context.Context, tenantID uuid.UUID) (*finance.FinancialStatement, bool, error)
	SetStatement(ctx context.Context, tenantID uuid.UUID, statement *finance.FinancialStatement) error
	GetTrialBalance(ctx context.Context, tenantID uuid.UUID) (*finance.TrialBalance, bool, error)
	SetTrialBalance(ctx context.Context, tenantID uuid.UUID, tb *finance.TrialBalance) error

	// Invalidate drops every cached view of the tenant
	Invalidate(ctx context.Context, tenantID uuid.UUID) error
}
