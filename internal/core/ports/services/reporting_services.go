package services

import (
	"context"
	"time"

	"github.com/SscSPs/microlend_ledger/internal/core/domain"
)

// LedgerService projects account ledgers.
type LedgerService interface {
	// AccountLedger computes the running balance of an account over window.
	AccountLedger(ctx context.Context, accountID string, window domain.DateRange) (*domain.Ledger, error)
}

// ReportingService defines operations for generating financial reports
type ReportingService interface {
	// TrialBalance generates a trial balance report as of a specific date
	TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error)

	// IncomeStatement generates an income statement for a specific period
	IncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatement, error)

	// BalanceSheet generates a balance sheet report as of a specific date
	BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error)
}
