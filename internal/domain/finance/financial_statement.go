package finance

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StatementLine is one account in a statement section
type StatementLine struct {
	AccountID      uuid.UUID       `json:"account_id"`
	AccountNumber  string          `json:"account_number"`
	Name           string          `json:"name"`
	Classification AccountClass    `json:"classification,omitempty"`
	Balance        decimal.Decimal `json:"balance"`
}

// StatementSection groups accounts with their combined balance
type StatementSection struct {
	Accounts []StatementLine `json:"accounts"`
	Total    decimal.Decimal `json:"total"`
}

func (s *StatementSection) add(a Account) {
	s.Accounts = append(s.Accounts, StatementLine{
		AccountID:      a.ID,
		AccountNumber:  a.AccountNumber,
		Name:           a.Name,
		Classification: a.Classification,
		Balance:        a.Balance,
	})
	s.Total = s.Total.Add(a.Balance)
}

func newSection() StatementSection {
	return StatementSection{Accounts: make([]StatementLine, 0), Total: decimal.Zero}
}

// BalanceSheet partitions asset, liability and equity accounts. Accounts
// without a sub-classification are reported as unclassified rather than
// assigned to a guessed bucket.
type BalanceSheet struct {
	CurrentAssets           StatementSection `json:"current_assets"`
	FixedAssets             StatementSection `json:"fixed_assets"`
	UnclassifiedAssets      StatementSection `json:"unclassified_assets"`
	TotalAssets             decimal.Decimal  `json:"total_assets"`
	CurrentLiabilities      StatementSection `json:"current_liabilities"`
	LongTermLiabilities     StatementSection `json:"long_term_liabilities"`
	UnclassifiedLiabilities StatementSection `json:"unclassified_liabilities"`
	TotalLiabilities        decimal.Decimal  `json:"total_liabilities"`
	Equity                  StatementSection `json:"equity"`
	TotalEquity             decimal.Decimal  `json:"total_equity"`
}

// IncomeStatement reports revenue against expenses
type IncomeStatement struct {
	Revenue       StatementSection `json:"revenue"`
	TotalRevenue  decimal.Decimal  `json:"total_revenue"`
	Expenses      StatementSection `json:"expenses"`
	TotalExpenses decimal.Decimal  `json:"total_expenses"`
	NetIncome     decimal.Decimal  `json:"net_income"`
}

// FinancialStatement combines the balance sheet and income statement
type FinancialStatement struct {
	GeneratedAt     time.Time       `json:"generated_at"`
	BalanceSheet    BalanceSheet    `json:"balance_sheet"`
	IncomeStatement IncomeStatement `json:"income_statement"`
}

// IsBalanced reports whether assets equal liabilities plus equity plus
// the period's unclosed net income, within BalanceTolerance.
func (f FinancialStatement) IsBalanced() bool {
	rhs := f.BalanceSheet.TotalLiabilities.Add(f.BalanceSheet.TotalEquity).Add(f.IncomeStatement.NetIncome)
	return WithinTolerance(f.BalanceSheet.TotalAssets, rhs)
}

// BuildFinancialStatement rolls account balances up by type and
// sub-classification. Every account passed in is included.
func BuildFinancialStatement(accounts []Account) FinancialStatement {
	bs := BalanceSheet{
		CurrentAssets:           newSection(),
		FixedAssets:             newSection(),
		UnclassifiedAssets:      newSection(),
		CurrentLiabilities:      newSection(),
		LongTermLiabilities:     newSection(),
		UnclassifiedLiabilities: newSection(),
		Equity:                  newSection(),
	}
	is := IncomeStatement{
		Revenue:  newSection(),
		Expenses: newSection(),
	}

	for _, a := range sortedByNumber(accounts) {
		switch a.Type {
		case AccountTypeAsset:
			switch a.Classification {
			case AccountClassCurrent:
				bs.CurrentAssets.add(a)
			case AccountClassFixed:
				bs.FixedAssets.add(a)
			default:
				bs.UnclassifiedAssets.add(a)
			}
		case AccountTypeLiability:
			switch a.Classification {
			case AccountClassCurrent:
				bs.CurrentLiabilities.add(a)
			case AccountClassLongTerm:
				bs.LongTermLiabilities.add(a)
			default:
				bs.UnclassifiedLiabilities.add(a)
			}
		case AccountTypeEquity:
			bs.Equity.add(a)
		case AccountTypeRevenue:
			is.Revenue.add(a)
		case AccountTypeExpense:
			is.Expenses.add(a)
		}
	}

	bs.TotalAssets = bs.CurrentAssets.Total.Add(bs.FixedAssets.Total).Add(bs.UnclassifiedAssets.Total)
	bs.TotalLiabilities = bs.CurrentLiabilities.Total.Add(bs.LongTermLiabilities.Total).Add(bs.UnclassifiedLiabilities.Total)
	bs.TotalEquity = bs.Equity.Total
	is.TotalRevenue = is.Revenue.Total
	is.TotalExpenses = is.Expenses.Total
	is.NetIncome = is.TotalRevenue.Sub(is.TotalExpenses)

	return FinancialStatement{
		GeneratedAt:     time.Now(),
		BalanceSheet:    bs,
		IncomeStatement: is,
	}
}

func sortedByNumber(accounts []Account) []Account {
	out := make([]Account, len(accounts))
	copy(out, accounts)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AccountNumber < out[j].AccountNumber
	})
	return out
}
