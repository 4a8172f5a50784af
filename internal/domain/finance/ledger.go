package finance

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradedesk/backend/internal/domain/shared"
)

// BalanceTolerance is the largest debit/credit difference still treated as balanced
var BalanceTolerance = decimal.NewFromFloat(0.01)

// Reasons reported by InvalidEntryError
const (
	ReasonBothSides      = "entry has both a debit and a credit"
	ReasonNeitherSide    = "entry has neither a debit nor a credit"
	ReasonNegativeAmount = "entry amounts cannot be negative"
)

// TransactionEntry is one line of a journal entry
type TransactionEntry struct {
	ID          uuid.UUID
	AccountID   uuid.UUID
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
}

// NewTransactionEntry creates an entry with a fresh ID
func NewTransactionEntry(accountID uuid.UUID, debit, credit decimal.Decimal, description string) TransactionEntry {
	return TransactionEntry{
		ID:          uuid.New(),
		AccountID:   accountID,
		Debit:       debit,
		Credit:      credit,
		Description: description,
	}
}

// check returns the reason the entry is invalid, or "" when it is valid
func (e TransactionEntry) check() string {
	if e.Debit.IsNegative() || e.Credit.IsNegative() {
		return ReasonNegativeAmount
	}
	hasDebit := e.Debit.IsPositive()
	hasCredit := e.Credit.IsPositive()
	switch {
	case hasDebit && hasCredit:
		return ReasonBothSides
	case !hasDebit && !hasCredit:
		return ReasonNeitherSide
	}
	return ""
}

// InvalidEntryError identifies the first entry that breaks the
// one-sided entry rule.
type InvalidEntryError struct {
	Index  int
	Reason string
}

// Error implements the error interface
func (e *InvalidEntryError) Error() string {
	return fmt.Sprintf("entry %d: %s", e.Index, e.Reason)
}

// Unwrap exposes the error as a domain error for transport mapping
func (e *InvalidEntryError) Unwrap() error {
	return shared.NewDomainError("INVALID_ENTRY", e.Error())
}

// UnbalancedEntryError reports debits and credits that differ by more than
// BalanceTolerance. Difference is TotalDebit - TotalCredit.
type UnbalancedEntryError struct {
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Difference  decimal.Decimal
}

// Error implements the error interface
func (e *UnbalancedEntryError) Error() string {
	return fmt.Sprintf("transaction is unbalanced: debits %s, credits %s, difference %s",
		e.TotalDebit.StringFixed(2), e.TotalCredit.StringFixed(2), e.Difference.StringFixed(2))
}

// Unwrap exposes the error as a domain error for transport mapping
func (e *UnbalancedEntryError) Unwrap() error {
	return shared.NewDomainError("UNBALANCED_ENTRY", e.Error())
}

// SumEntries returns the debit and credit totals
func SumEntries(entries []TransactionEntry) (totalDebit, totalCredit decimal.Decimal) {
	totalDebit, totalCredit = decimal.Zero, decimal.Zero
	for _, e := range entries {
		totalDebit = totalDebit.Add(e.Debit)
		totalCredit = totalCredit.Add(e.Credit)
	}
	return totalDebit, totalCredit
}

// WithinTolerance reports whether two totals are equal up to BalanceTolerance
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(BalanceTolerance)
}

// ValidateEntries checks every entry for exactly one positive side, then
// checks that debits and credits balance. It returns *InvalidEntryError for
// the first bad entry or *UnbalancedEntryError.
func ValidateEntries(entries []TransactionEntry) error {
	for i, e := range entries {
		if reason := e.check(); reason != "" {
			return &InvalidEntryError{Index: i, Reason: reason}
		}
	}
	totalDebit, totalCredit := SumEntries(entries)
	if !WithinTolerance(totalDebit, totalCredit) {
		return &UnbalancedEntryError{
			TotalDebit:  totalDebit,
			TotalCredit: totalCredit,
			Difference:  totalDebit.Sub(totalCredit),
		}
	}
	return nil
}

// EntryProblem is one invalid entry in a ValidationReport
type EntryProblem struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// ValidationReport lists every problem in a set of entries so they can be
// corrected together.
type ValidationReport struct {
	Valid       bool            `json:"valid"`
	Balanced    bool            `json:"balanced"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	Difference  decimal.Decimal `json:"difference"`
	Problems    []EntryProblem  `json:"problems"`
}

// CheckEntries validates entries without stopping at the first problem.
// Valid matches ValidateEntries returning nil.
func CheckEntries(entries []TransactionEntry) ValidationReport {
	totalDebit, totalCredit := SumEntries(entries)
	report := ValidationReport{
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		Difference:  totalDebit.Sub(totalCredit),
		Balanced:    WithinTolerance(totalDebit, totalCredit),
		Problems:    make([]EntryProblem, 0),
	}
	for i, e := range entries {
		if reason := e.check(); reason != "" {
			report.Problems = append(report.Problems, EntryProblem{Index: i, Reason: reason})
		}
	}
	report.Valid = report.Balanced && len(report.Problems) == 0
	return report
}
