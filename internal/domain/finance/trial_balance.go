package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TrialBalanceStatus represents the result status of a trial balance check
type TrialBalanceStatus string

const (
	TrialBalanceStatusBalanced   TrialBalanceStatus = "balanced"
	TrialBalanceStatusUnbalanced TrialBalanceStatus = "unbalanced"
)

// Label returns the display label
func (s TrialBalanceStatus) Label() string {
	if s == TrialBalanceStatusBalanced {
		return "Balanced"
	}
	return "Unbalanced"
}

// TrialBalanceLine is one account with its balance in the debit or credit column
type TrialBalanceLine struct {
	AccountID     uuid.UUID       `json:"account_id"`
	AccountNumber string          `json:"account_number"`
	Name          string          `json:"name"`
	Type          AccountType     `json:"type"`
	DebitBalance  decimal.Decimal `json:"debit_balance"`
	CreditBalance decimal.Decimal `json:"credit_balance"`
}

// TrialBalanceGroup collects the lines of one account type
type TrialBalanceGroup struct {
	Type        AccountType        `json:"type"`
	Label       string             `json:"label"`
	Lines       []TrialBalanceLine `json:"lines"`
	TotalDebit  decimal.Decimal    `json:"total_debit"`
	TotalCredit decimal.Decimal    `json:"total_credit"`
}

// TrialBalance lists every active account by type with debit and credit totals
type TrialBalance struct {
	GeneratedAt time.Time           `json:"generated_at"`
	Groups      []TrialBalanceGroup `json:"groups"`
	TotalDebit  decimal.Decimal     `json:"total_debit"`
	TotalCredit decimal.Decimal     `json:"total_credit"`
	Difference  decimal.Decimal     `json:"difference"`
	Status      TrialBalanceStatus  `json:"status"`
	IsBalanced  bool                `json:"is_balanced"`
}

// NewTrialBalanceLine places the balance in the account's normal column.
// A negative balance is shown as a positive amount in the opposite column.
func NewTrialBalanceLine(a Account) TrialBalanceLine {
	line := TrialBalanceLine{
		AccountID:     a.ID,
		AccountNumber: a.AccountNumber,
		Name:          a.Name,
		Type:          a.Type,
		DebitBalance:  decimal.Zero,
		CreditBalance: decimal.Zero,
	}
	debitSide := a.Type.IsDebitNormal()
	if a.Balance.IsNegative() {
		debitSide = !debitSide
	}
	if debitSide {
		line.DebitBalance = a.Balance.Abs()
	} else {
		line.CreditBalance = a.Balance.Abs()
	}
	return line
}

// BuildTrialBalance groups active accounts by type in AccountTypeOrder.
// Types with no active accounts are omitted.
func BuildTrialBalance(accounts []Account) TrialBalance {
	byType := make(map[AccountType][]Account, len(AccountTypeOrder))
	for _, a := range sortedByNumber(accounts) {
		if !a.Active {
			continue
		}
		byType[a.Type] = append(byType[a.Type], a)
	}

	tb := TrialBalance{
		GeneratedAt: time.Now(),
		Groups:      make([]TrialBalanceGroup, 0, len(AccountTypeOrder)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for _, t := range AccountTypeOrder {
		members := byType[t]
		if len(members) == 0 {
			continue
		}
		group := TrialBalanceGroup{
			Type:        t,
			Label:       t.Label(),
			Lines:       make([]TrialBalanceLine, 0, len(members)),
			TotalDebit:  decimal.Zero,
			TotalCredit: decimal.Zero,
		}
		for _, a := range members {
			line := NewTrialBalanceLine(a)
			group.Lines = append(group.Lines, line)
			group.TotalDebit = group.TotalDebit.Add(line.DebitBalance)
			group.TotalCredit = group.TotalCredit.Add(line.CreditBalance)
		}
		tb.Groups = append(tb.Groups, group)
		tb.TotalDebit = tb.TotalDebit.Add(group.TotalDebit)
		tb.TotalCredit = tb.TotalCredit.Add(group.TotalCredit)
	}

	tb.Difference = tb.TotalDebit.Sub(tb.TotalCredit)
	tb.IsBalanced = WithinTolerance(tb.TotalDebit, tb.TotalCredit)
	tb.Status = TrialBalanceStatusUnbalanced
	if tb.IsBalanced {
		tb.Status = TrialBalanceStatusBalanced
	}
	return tb
}
