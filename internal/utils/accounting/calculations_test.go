package accounting

import (
	"testing"

	"github.com/SscSPs/microlend_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNormalBalanceFor(t *testing.T) {
	tests := []struct {
		accountType domain.AccountType
		want        domain.NormalBalance
	}{
		{domain.Asset, domain.DebitNormal},
		{domain.Expense, domain.DebitNormal},
		{domain.Liability, domain.CreditNormal},
		{domain.Equity, domain.CreditNormal},
		{domain.Revenue, domain.CreditNormal},
	}
	for _, tt := range tests {
		t.Run(string(tt.accountType), func(t *testing.T) {
			got, err := NormalBalanceFor(tt.accountType)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := NormalBalanceFor("BOGUS")
	assert.Error(t, err)
}

func TestCalculateSignedAmount(t *testing.T) {
	debit := domain.Line{Debit: d("100.00"), Credit: decimal.Zero}
	credit := domain.Line{Debit: decimal.Zero, Credit: d("40.00")}

	assert.True(t, CalculateSignedAmount(debit, domain.DebitNormal).Equal(d("100")))
	assert.True(t, CalculateSignedAmount(credit, domain.DebitNormal).Equal(d("-40")))
	assert.True(t, CalculateSignedAmount(debit, domain.CreditNormal).Equal(d("-100")))
	assert.True(t, CalculateSignedAmount(credit, domain.CreditNormal).Equal(d("40")))
}

func TestWithinTolerance(t *testing.T) {
	assert.True(t, WithinTolerance(d("10.00"), d("10.00")))
	assert.True(t, WithinTolerance(d("10.005"), d("10.00")))
	assert.False(t, WithinTolerance(d("10.01"), d("10.00")))
}
