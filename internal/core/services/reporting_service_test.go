package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/microlend_ledger/internal/apperrors"
	"github.com/SscSPs/microlend_ledger/internal/core/domain"
)

func TestReporting_BalanceSheetScenario(t *testing.T) {
	f := newLedgerFixture(t)
	f.post(t, f.transfer("2026-01-01", "Share capital", "1001", "3001", "400"))
	f.post(t, f.transfer("2026-01-02", "Borrowing", "1001", "2100", "600"))
	f.post(t, f.transfer("2026-01-03", "Disburse loan", "1100", "1001", "250"))
	f.post(t, f.transfer("2026-02-01", "Later entry", "1001", "3001", "99"))

	bs, err := f.svc.Reporting.BalanceSheet(f.ctx, day("2026-01-31"))
	require.NoError(t, err)

	assert.Equal(t, "1000.00", bs.TotalAssets.StringFixed(2))
	assert.Equal(t, "600.00", bs.TotalLiabilities.StringFixed(2))
	assert.Equal(t, "400.00", bs.TotalEquity.StringFixed(2))
	assert.True(t, bs.IsBalanced)
	assert.Contains(t, bs.Message, "balance")
}

func TestReporting_TrialBalanceIncludesReversals(t *testing.T) {
	f := newLedgerFixture(t)
	entry := f.post(t, f.transfer("2026-01-01", "Fee", "1001", "4100", "50"))
	_, err := f.svc.Journal.ReverseEntry(f.ctx, entry.EntryID, dayPtr("2026-01-15"), testUser)
	require.NoError(t, err)

	before, err := f.svc.Reporting.TrialBalance(f.ctx, day("2026-01-10"))
	require.NoError(t, err)
	assert.Equal(t, "50.00", before.TotalDebits.StringFixed(2))

	after, err := f.svc.Reporting.TrialBalance(f.ctx, day("2026-01-31"))
	require.NoError(t, err)
	assert.True(t, after.TotalDebits.IsZero())
	assert.True(t, after.IsBalanced)
}

func TestReporting_IncomeStatementInvertedRange(t *testing.T) {
	f := newLedgerFixture(t)
	_, err := f.svc.Reporting.IncomeStatement(f.ctx, day("2026-02-01"), day("2026-01-01"))
	require.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, "startDate", apperrors.FieldErrors(err)[0].Field)
}

func TestLedger_WindowAndUnknownAccount(t *testing.T) {
	f := newLedgerFixture(t)
	f.post(t, f.transfer("2026-01-01", "Opening", "1001", "3001", "200"))
	f.post(t, f.transfer("2026-01-05", "Fee", "1001", "4100", "50"))

	ledger, err := f.svc.Ledger.AccountLedger(f.ctx, f.id("1001"), domain.DateRange{Start: dayPtr("2026-01-02")})
	require.NoError(t, err)
	assert.Equal(t, "200.00", ledger.OpeningBalance.StringFixed(2))
	require.Len(t, ledger.Rows, 1)
	assert.Equal(t, "250.00", ledger.Rows[0].RunningBalance.StringFixed(2))
	assert.Equal(t, "250.00", ledger.ClosingBalance.StringFixed(2))

	_, err = f.svc.Ledger.AccountLedger(f.ctx, "missing", domain.DateRange{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
