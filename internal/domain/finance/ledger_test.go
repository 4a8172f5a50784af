package finance

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradedesk/backend/internal/domain/shared"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func entry(debit, credit string) TransactionEntry {
	return NewTransactionEntry(uuid.New(), dec(debit), dec(credit), "")
}

func TestValidateEntries_Balanced(t *testing.T) {
	err := ValidateEntries([]TransactionEntry{entry("100", "0"), entry("0", "100")})
	assert.NoError(t, err)
}

func TestValidateEntries_Unbalanced(t *testing.T) {
	err := ValidateEntries([]TransactionEntry{entry("100", "0"), entry("0", "90")})

	var unbalanced *UnbalancedEntryError
	require.True(t, errors.As(err, &unbalanced))
	assert.True(t, unbalanced.Difference.Equal(dec("10")))
	assert.True(t, unbalanced.TotalDebit.Equal(dec("100")))
	assert.True(t, unbalanced.TotalCredit.Equal(dec("90")))

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "UNBALANCED_ENTRY", domainErr.Code)
}

func TestValidateEntries_Tolerance(t *testing.T) {
	assert.NoError(t, ValidateEntries([]TransactionEntry{entry("100.01", "0"), entry("0", "100")}))
	assert.Error(t, ValidateEntries([]TransactionEntry{entry("100.02", "0"), entry("0", "100")}))
}

func TestValidateEntries_InvalidEntry(t *testing.T) {
	tests := []struct {
		name    string
		entries []TransactionEntry
		index   int
		reason  string
	}{
		{"both sides", []TransactionEntry{entry("10", "0"), entry("5", "5")}, 1, ReasonBothSides},
		{"neither side", []TransactionEntry{entry("0", "0"), entry("0", "0")}, 0, ReasonNeitherSide},
		{"negative", []TransactionEntry{entry("-10", "0"), entry("0", "-10")}, 0, ReasonNegativeAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEntries(tt.entries)

			var invalid *InvalidEntryError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tt.index, invalid.Index)
			assert.Equal(t, tt.reason, invalid.Reason)
		})
	}
}

// Accounts are resolved when posting; validation only looks at amounts.
func TestValidateEntries_IgnoresAccounts(t *testing.T) {
	entries := []TransactionEntry{
		{Debit: dec("40"), Credit: decimal.Zero},
		{Debit: decimal.Zero, Credit: dec("40")},
	}

	assert.NoError(t, ValidateEntries(entries))
	assert.True(t, CheckEntries(entries).Valid)
}

func TestCheckEntries_ReportsAllProblems(t *testing.T) {
	report := CheckEntries([]TransactionEntry{entry("5", "5"), entry("100", "0"), entry("0", "0")})

	assert.False(t, report.Valid)
	assert.False(t, report.Balanced)
	require.Len(t, report.Problems, 2)
	assert.Equal(t, 0, report.Problems[0].Index)
	assert.Equal(t, 2, report.Problems[1].Index)
	assert.True(t, report.Difference.Equal(dec("100")))
}

func TestCheckEntries_AgreesWithValidateEntries(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	amounts := []string{"0", "0", "10", "25.5", "100", "-1"}

	for run := 0; run < 200; run++ {
		n := rng.Intn(5)
		entries := make([]TransactionEntry, n)
		for i := range entries {
			entries[i] = entry(amounts[rng.Intn(len(amounts))], amounts[rng.Intn(len(amounts))])
		}
		err := ValidateEntries(entries)
		report := CheckEntries(entries)
		assert.Equal(t, err == nil, report.Valid, "run %d", run)
	}
}
