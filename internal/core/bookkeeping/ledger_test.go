package bookkeeping

import (
	"testing"

	"github.com/SscSPs/microlend_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectLedger_NoEntries(t *testing.T) {
	cash := account("cash", "1001", domain.Asset)

	ledger := ProjectLedger(cash, nil, domain.DateRange{Start: datePtr("2024-01-01"), End: datePtr("2024-12-31")})

	assertMoney(t, "0", ledger.OpeningBalance)
	assertMoney(t, "0", ledger.ClosingBalance)
	assert.Empty(t, ledger.Rows)
}

func TestProjectLedger_OpeningBalanceCarriesIntoRows(t *testing.T) {
	cash := account("cash", "1001", domain.Asset)
	entries := []domain.JournalEntry{
		entry(1, "2024-01-10", "cash", "equity", "200"),
		entry(2, "2024-02-01", "cash", "equity", "50"),
	}

	ledger := ProjectLedger(cash, entries, domain.DateRange{Start: datePtr("2024-02-01")})

	assertMoney(t, "200", ledger.OpeningBalance)
	require.Len(t, ledger.Rows, 1)
	assertMoney(t, "250", ledger.Rows[0].RunningBalance)
	assertMoney(t, "250", ledger.ClosingBalance)
}

func TestProjectLedger_CreditNormalSign(t *testing.T) {
	interest := account("interest", "4001", domain.Revenue)
	entries := []domain.JournalEntry{
		entry(1, "2024-01-05", "cash", "interest", "30"),
		entry(2, "2024-01-06", "interest", "cash", "5"),
	}

	ledger := ProjectLedger(interest, entries, domain.DateRange{})

	require.Len(t, ledger.Rows, 2)
	assertMoney(t, "30", ledger.Rows[0].RunningBalance)
	assertMoney(t, "25", ledger.Rows[1].RunningBalance)
	assertMoney(t, "25", ledger.ClosingBalance)
}

func TestProjectLedger_WindowIsInclusiveAndOrdered(t *testing.T) {
	cash := account("cash", "1001", domain.Asset)
	entries := []domain.JournalEntry{
		entry(4, "2024-03-31", "cash", "equity", "4"),
		entry(3, "2024-03-01", "cash", "equity", "3"),
		entry(2, "2024-03-15", "equity", "cash", "2"),
		entry(1, "2024-03-01", "cash", "equity", "1"),
		entry(5, "2024-04-01", "cash", "equity", "100"),
	}

	ledger := ProjectLedger(cash, entries, domain.DateRange{Start: datePtr("2024-03-01"), End: datePtr("2024-03-31")})

	require.Len(t, ledger.Rows, 4)
	assert.Equal(t, []string{"je-1", "je-3", "je-2", "je-4"}, []string{
		ledger.Rows[0].EntryID, ledger.Rows[1].EntryID, ledger.Rows[2].EntryID, ledger.Rows[3].EntryID,
	})
	assertMoney(t, "0", ledger.OpeningBalance)
	assertMoney(t, "1", ledger.Rows[0].RunningBalance)
	assertMoney(t, "4", ledger.Rows[1].RunningBalance)
	assertMoney(t, "2", ledger.Rows[2].RunningBalance)
	assertMoney(t, "6", ledger.ClosingBalance)
}

func TestProjectLedger_SameEntryTwoLinesKeepLineOrder(t *testing.T) {
	cash := account("cash", "1001", domain.Asset)
	split := domain.JournalEntry{
		EntryID:  "je-split",
		Sequence: 1,
		Date:     date("2024-05-01"),
		Lines: []domain.Line{
			{AccountID: "cash", Debit: dec("10"), Credit: decimal.Zero, Memo: "first"},
			{AccountID: "cash", Debit: decimal.Zero, Credit: dec("4"), Memo: "second"},
			{AccountID: "fees", Debit: decimal.Zero, Credit: dec("6")},
		},
	}

	ledger := ProjectLedger(cash, []domain.JournalEntry{split}, domain.DateRange{})

	require.Len(t, ledger.Rows, 2)
	assert.Equal(t, "first", ledger.Rows[0].Memo)
	assert.Equal(t, "second", ledger.Rows[1].Memo)
	assertMoney(t, "6", ledger.ClosingBalance)
}

func TestProjectLedger_NormalBalanceFollowsType(t *testing.T) {
	// A stale stored normal balance must not change the sign convention.
	cash := account("cash", "1001", domain.Asset)
	cash.NormalBalance = domain.CreditNormal

	ledger := ProjectLedger(cash, []domain.JournalEntry{entry(1, "2024-01-01", "cash", "equity", "10")}, domain.DateRange{})
	assertMoney(t, "10", ledger.ClosingBalance)
}
