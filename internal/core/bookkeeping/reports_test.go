package bookkeeping

import (
	"testing"

	"github.com/SscSPs/microlend_ledger/internal/apperrors"
	"github.com/SscSPs/microlend_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleChart() []domain.Account {
	return []domain.Account{
		account("interest", "4001", domain.Revenue),
		account("cash", "1001", domain.Asset),
		account("loans", "1100", domain.Asset),
		account("borrowings", "2001", domain.Liability),
		account("capital", "3001", domain.Equity),
		account("salaries", "5001", domain.Expense),
	}
}

func sampleEntries() []domain.JournalEntry {
	return []domain.JournalEntry{
		entry(1, "2024-01-01", "cash", "capital", "400"),
		entry(2, "2024-01-02", "cash", "borrowings", "600"),
		entry(3, "2024-01-15", "loans", "cash", "700"),
		entry(4, "2024-02-10", "cash", "interest", "35"),
		entry(5, "2024-02-28", "salaries", "cash", "20"),
		entry(6, "2024-03-05", "cash", "interest", "15"),
	}
}

func TestTrialBalance(t *testing.T) {
	tb := TrialBalance(sampleChart(), sampleEntries(), date("2024-02-28"))

	require.Len(t, tb.Rows, 6)
	codes := make([]string, 0, len(tb.Rows))
	for _, r := range tb.Rows {
		codes = append(codes, r.Code)
	}
	assert.Equal(t, []string{"1001", "1100", "2001", "3001", "4001", "5001"}, codes)

	assertMoney(t, "315", tb.Rows[0].Debit)  // cash 400+600-700+35-20
	assertMoney(t, "700", tb.Rows[1].Debit)  // loans
	assertMoney(t, "600", tb.Rows[2].Credit) // borrowings
	assertMoney(t, "400", tb.Rows[3].Credit) // capital
	assertMoney(t, "35", tb.Rows[4].Credit)  // interest, March excluded
	assertMoney(t, "20", tb.Rows[5].Debit)   // salaries
	assertMoney(t, "1035", tb.TotalDebits)
	assertMoney(t, "1035", tb.TotalCredits)
	assert.True(t, tb.IsBalanced)
	assert.Contains(t, tb.Message, "is balanced")
}

func TestTrialBalance_NegativeAssetLandsInCreditColumn(t *testing.T) {
	accounts := []domain.Account{account("cash", "1001", domain.Asset), account("payable", "2001", domain.Liability)}
	entries := []domain.JournalEntry{entry(1, "2024-01-01", "payable", "cash", "80")}

	tb := TrialBalance(accounts, entries, date("2024-01-31"))

	require.Len(t, tb.Rows, 2)
	assertMoney(t, "0", tb.Rows[0].Debit)
	assertMoney(t, "80", tb.Rows[0].Credit)
	assertMoney(t, "80", tb.Rows[1].Debit)
	assertMoney(t, "0", tb.Rows[1].Credit)
	assert.True(t, tb.IsBalanced)
}

func TestTrialBalance_Idempotent(t *testing.T) {
	accounts, entries := sampleChart(), sampleEntries()

	first := TrialBalance(accounts, entries, date("2024-12-31"))
	second := TrialBalance(accounts, entries, date("2024-12-31"))

	assert.True(t, first.TotalDebits.Equal(second.TotalDebits))
	assert.True(t, first.TotalCredits.Equal(second.TotalCredits))
	assert.Equal(t, first.IsBalanced, second.IsBalanced)
	assert.Equal(t, first.Message, second.Message)
}

func TestTrialBalance_BalancedEntriesAlwaysBalance(t *testing.T) {
	accounts := sampleChart()
	ids := make([]string, len(accounts))
	for i, a := range accounts {
		ids[i] = a.AccountID
	}

	entries := make([]domain.JournalEntry, 0)
	seq := int64(0)
	for i, debitID := range ids {
		for j, creditID := range ids {
			if i == j {
				continue
			}
			seq++
			amount := decimal.NewFromInt(seq).Mul(dec("1.37")).String()
			entries = append(entries, entry(seq, "2024-06-01", debitID, creditID, amount))
		}
	}

	tb := TrialBalance(accounts, entries, date("2024-06-30"))
	assert.True(t, tb.IsBalanced, tb.Message)
}

func TestTrialBalance_OutOfBalanceMessage(t *testing.T) {
	accounts := []domain.Account{account("cash", "1001", domain.Asset)}
	// Only one leg of the entry is in the chart.
	entries := []domain.JournalEntry{entry(1, "2024-01-01", "cash", "missing", "12.50")}

	tb := TrialBalance(accounts, entries, date("2024-01-31"))
	assert.False(t, tb.IsBalanced)
	assert.Contains(t, tb.Message, "out of balance by 12.50")
}

func TestIncomeStatement_PeriodActivityOnly(t *testing.T) {
	is, err := IncomeStatement(sampleChart(), sampleEntries(), date("2024-02-01"), date("2024-02-29"))
	require.NoError(t, err)

	require.Len(t, is.Revenue, 1)
	require.Len(t, is.Expenses, 1)
	assertMoney(t, "35", is.TotalRevenue)
	assertMoney(t, "20", is.TotalExpenses)
	assertMoney(t, "15", is.NetIncome)

	march, err := IncomeStatement(sampleChart(), sampleEntries(), date("2024-03-01"), date("2024-03-31"))
	require.NoError(t, err)
	assertMoney(t, "15", march.TotalRevenue)
	assertMoney(t, "0", march.TotalExpenses)
}

func TestIncomeStatement_InvertedRange(t *testing.T) {
	_, err := IncomeStatement(sampleChart(), sampleEntries(), date("2024-03-01"), date("2024-02-01"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = IncomeStatement(sampleChart(), sampleEntries(), date("2024-03-01"), date("2024-03-01"))
	assert.NoError(t, err)
}

func TestBalanceSheet_Balanced(t *testing.T) {
	accounts := []domain.Account{
		account("cash", "1001", domain.Asset),
		account("loans", "1100", domain.Asset),
		account("borrowings", "2001", domain.Liability),
		account("capital", "3001", domain.Equity),
	}
	entries := []domain.JournalEntry{
		entry(1, "2024-01-01", "cash", "capital", "400"),
		entry(2, "2024-01-02", "cash", "borrowings", "600"),
		entry(3, "2024-01-03", "loans", "cash", "250"),
	}

	bs := BalanceSheet(accounts, entries, date("2024-01-31"))

	assertMoney(t, "1000", bs.TotalAssets)
	assertMoney(t, "600", bs.TotalLiabilities)
	assertMoney(t, "400", bs.TotalEquity)
	assert.True(t, bs.IsBalanced)
	assert.Contains(t, bs.Message, "is balanced")
}

func TestBalanceSheet_CumulativeAndUnclosedEarnings(t *testing.T) {
	bs := BalanceSheet(sampleChart(), sampleEntries(), date("2024-03-31"))

	assertMoney(t, "1030", bs.TotalAssets) // cash 330 + loans 700
	assertMoney(t, "600", bs.TotalLiabilities)
	assertMoney(t, "400", bs.TotalEquity)
	assertMoney(t, "30", bs.NetIncomeToDate)
	assert.False(t, bs.IsBalanced)
	assert.Contains(t, bs.Message, "assets exceed liabilities and equity by 30.00")
	assert.Contains(t, bs.Message, "has not been closed to equity")
}

func TestBalanceSheet_LiabilitySideLarger(t *testing.T) {
	accounts := []domain.Account{account("cash", "1001", domain.Asset), account("borrowings", "2001", domain.Liability)}
	entries := []domain.JournalEntry{entry(1, "2024-01-01", "missing", "borrowings", "50")}

	bs := BalanceSheet(accounts, entries, date("2024-01-31"))
	assert.False(t, bs.IsBalanced)
	assert.Contains(t, bs.Message, "liabilities and equity exceed assets by 50.00")
}
