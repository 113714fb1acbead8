package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/microlend_ledger/internal/apperrors"
	"github.com/SscSPs/microlend_ledger/internal/core/domain"
	"github.com/SscSPs/microlend_ledger/internal/core/services"
)

func TestLoanPosting_DisbursementAndRepayment(t *testing.T) {
	f := newLedgerFixture(t)
	f.post(t, f.transfer("2026-01-01", "Capital", "1001", "3001", "5000"))

	entry, err := f.svc.Loan.RecordDisbursement(f.ctx, "L-7", dec("1000"), day("2026-01-05"), testUser)
	require.NoError(t, err)
	require.NotNil(t, entry.RelatedDocument)
	assert.Equal(t, domain.RelatedDocument{Type: services.RelatedDocumentLoan, ID: "L-7"}, *entry.RelatedDocument)

	_, err = f.svc.Loan.RecordRepayment(f.ctx, "L-7", dec("300"), dec("20"), day("2026-02-05"), testUser)
	require.NoError(t, err)

	outstanding, err := f.svc.Loan.OutstandingPrincipal(f.ctx, "L-7")
	require.NoError(t, err)
	assert.Equal(t, "700.00", outstanding.StringFixed(2))

	income, err := f.svc.Reporting.IncomeStatement(f.ctx, day("2026-02-01"), day("2026-02-28"))
	require.NoError(t, err)
	assert.Equal(t, "20.00", income.TotalRevenue.StringFixed(2))

	cash, err := f.svc.Ledger.AccountLedger(f.ctx, f.id("1001"), domain.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, "4320.00", cash.ClosingBalance.StringFixed(2))
}

// Editing a loan's principal must leave an explicit adjusting entry behind.
func TestLoanPosting_AdjustPrincipalPostsDifference(t *testing.T) {
	f := newLedgerFixture(t)
	original, err := f.svc.Loan.RecordDisbursement(f.ctx, "L-1", dec("1000"), day("2026-03-01"), testUser)
	require.NoError(t, err)

	adjustment, err := f.svc.Loan.AdjustPrincipal(f.ctx, "L-1", dec("1200"), day("2026-03-02"), testUser)
	require.NoError(t, err)
	assert.NotEqual(t, original.EntryID, adjustment.EntryID)
	assert.True(t, dec("200").Equal(adjustment.TotalDebits()))

	outstanding, err := f.svc.Loan.OutstandingPrincipal(f.ctx, "L-1")
	require.NoError(t, err)
	assert.Equal(t, "1200.00", outstanding.StringFixed(2))

	// The original entry is untouched; both remain visible in the ledger.
	stored, err := f.svc.Journal.GetEntryByID(f.ctx, original.EntryID)
	require.NoError(t, err)
	assert.True(t, dec("1000").Equal(stored.TotalDebits()))

	receivable, err := f.svc.Ledger.AccountLedger(f.ctx, f.id("1100"), domain.DateRange{})
	require.NoError(t, err)
	require.Len(t, receivable.Rows, 2)
	assert.Equal(t, "1200.00", receivable.ClosingBalance.StringFixed(2))

	// Lowering the principal credits the receivable.
	_, err = f.svc.Loan.AdjustPrincipal(f.ctx, "L-1", dec("900"), day("2026-03-03"), testUser)
	require.NoError(t, err)
	outstanding, err = f.svc.Loan.OutstandingPrincipal(f.ctx, "L-1")
	require.NoError(t, err)
	assert.Equal(t, "900.00", outstanding.StringFixed(2))

	tb, err := f.svc.Reporting.TrialBalance(f.ctx, day("2026-12-31"))
	require.NoError(t, err)
	assert.True(t, tb.IsBalanced)
}

func TestLoanPosting_AdjustPrincipalAfterRepayment(t *testing.T) {
	f := newLedgerFixture(t)
	_, err := f.svc.Loan.RecordDisbursement(f.ctx, "L-1", dec("1000"), day("2026-03-01"), testUser)
	require.NoError(t, err)
	repayment, err := f.svc.Loan.RecordRepayment(f.ctx, "L-1", dec("200"), decimal.Zero, day("2026-03-10"), testUser)
	require.NoError(t, err)
	assert.Equal(t, services.RelatedDocumentLoanRepayment, repayment.RelatedDocument.Type)

	// The loan was raised from 1000 to 1200; the repayment does not change that.
	adjustment, err := f.svc.Loan.AdjustPrincipal(f.ctx, "L-1", dec("1200"), day("2026-03-15"), testUser)
	require.NoError(t, err)
	assert.Equal(t, "200.00", adjustment.TotalDebits().StringFixed(2))
	assert.Equal(t, f.id("1100"), adjustment.Lines[0].AccountID)
	assert.Contains(t, adjustment.Description, "1000.00 to 1200.00")

	outstanding, err := f.svc.Loan.OutstandingPrincipal(f.ctx, "L-1")
	require.NoError(t, err)
	assert.Equal(t, "1000.00", outstanding.StringFixed(2))

	receivable, err := f.svc.Ledger.AccountLedger(f.ctx, f.id("1100"), domain.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, "1000.00", receivable.ClosingBalance.StringFixed(2))

	_, err = f.svc.Loan.AdjustPrincipal(f.ctx, "L-1", dec("1200"), day("2026-03-16"), testUser)
	require.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, services.CodeUnchanged, apperrors.FieldErrors(err)[0].Code)

	_, err = f.svc.Loan.AdjustPrincipal(f.ctx, "L-1", dec("150"), day("2026-03-16"), testUser)
	require.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, services.CodeBelowRepaid, apperrors.FieldErrors(err)[0].Code)
}

func TestLoanPosting_AdjustPrincipalErrors(t *testing.T) {
	f := newLedgerFixture(t)
	_, err := f.svc.Loan.RecordDisbursement(f.ctx, "L-1", dec("1000"), day("2026-03-01"), testUser)
	require.NoError(t, err)

	_, err = f.svc.Loan.AdjustPrincipal(f.ctx, "L-1", dec("1000.00"), day("2026-03-02"), testUser)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, services.CodeUnchanged, apperrors.FieldErrors(err)[0].Code)

	_, err = f.svc.Loan.AdjustPrincipal(f.ctx, "L-unknown", dec("10"), day("2026-03-02"), testUser)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.svc.Loan.AdjustPrincipal(f.ctx, "L-1", dec("-1"), day("2026-03-02"), testUser)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestLoanPosting_RepaymentValidation(t *testing.T) {
	f := newLedgerFixture(t)
	_, err := f.svc.Loan.RecordDisbursement(f.ctx, "L-1", dec("100"), day("2026-03-01"), testUser)
	require.NoError(t, err)

	tests := []struct {
		name      string
		principal decimal.Decimal
		interest  decimal.Decimal
		code      string
	}{
		{"nothing paid", decimal.Zero, decimal.Zero, services.CodeNonPositive},
		{"negative interest", dec("10"), dec("-1"), services.CodeNegativeLoanAmount},
		{"over outstanding", dec("150"), decimal.Zero, services.CodeExceedsOutstanding},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Loan.RecordRepayment(f.ctx, "L-1", tt.principal, tt.interest, day("2026-03-10"), testUser)
			require.ErrorIs(t, err, apperrors.ErrValidation)
			assert.Equal(t, tt.code, apperrors.FieldErrors(err)[0].Code)
		})
	}

	_, err = f.svc.Loan.RecordDisbursement(f.ctx, "L-2", decimal.Zero, day("2026-03-01"), testUser)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestLoanPosting_MissingChartAccount(t *testing.T) {
	f := newLedgerFixture(t)
	require.NoError(t, f.svc.Account.DeleteAccount(f.ctx, f.id("4001"), false, testUser))

	_, err := f.svc.Loan.RecordDisbursement(f.ctx, "L-1", dec("100"), day("2026-03-01"), testUser)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
