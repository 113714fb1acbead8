package services

import (
	"context"
	"time"

	"github.com/SscSPs/microlend_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LoanPostingService keeps the ledger in step with loan servicing events.
type LoanPostingService interface {
	// RecordDisbursement posts Dr Loans Receivable / Cr Cash for a new loan.
	RecordDisbursement(ctx context.Context, loanID string, principal decimal.Decimal, date time.Time, userID string) (*domain.JournalEntry, error)

	// AdjustPrincipal posts the adjusting entry that moves the carried principal to newPrincipal.
	AdjustPrincipal(ctx context.Context, loanID string, newPrincipal decimal.Decimal, date time.Time, userID string) (*domain.JournalEntry, error)

	// RecordRepayment posts Dr Cash against principal and interest income.
	RecordRepayment(ctx context.Context, loanID string, principal, interest decimal.Decimal, date time.Time, userID string) (*domain.JournalEntry, error)

	// OutstandingPrincipal is the loan principal currently carried on Loans Receivable.
	OutstandingPrincipal(ctx context.Context, loanID string) (decimal.Decimal, error)
}
