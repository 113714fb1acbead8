package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/microlend_ledger/internal/core/bookkeeping"
	"github.com/SscSPs/microlend_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/microlend_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/microlend_ledger/internal/core/ports/services"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	snapshots portsrepo.LedgerSnapshotReader
}

// NewReportingService creates a new reporting service reading from snapshots.
func NewReportingService(snapshots portsrepo.LedgerSnapshotReader) portssvc.ReportingService {
	return &reportingService{snapshots: snapshots}
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// snapshotUntil loads every account and every entry dated on or before end.
func (s *reportingService) snapshotUntil(ctx context.Context, end time.Time) (domain.LedgerSnapshot, error) {
	end = domain.DateOf(end)
	snapshot, err := s.snapshots.Snapshot(ctx, domain.EntryFilter{Range: domain.DateRange{End: &end}})
	if err != nil {
		s.LogError(ctx, err, "Failed to read report snapshot", slog.Time("end", end))
	}
	return snapshot, err
}

// TrialBalance generates a trial balance report as of a specific date
func (s *reportingService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error) {
	snapshot, err := s.snapshotUntil(ctx, asOf)
	if err != nil {
		return nil, err
	}

	report := bookkeeping.TrialBalance(snapshot.Accounts, snapshot.Entries, asOf)
	if !report.IsBalanced {
		s.GetLogger(ctx).Warn("Trial balance out of balance",
			slog.String("as_of", report.AsOf.Format(domain.DateLayout)),
			slog.String("message", report.Message))
	}
	return &report, nil
}

// IncomeStatement reports revenue and expense activity within [from, to].
func (s *reportingService) IncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatement, error) {
	if err := checkRange(domain.DateRange{Start: &from, End: &to}); err != nil {
		return nil, err
	}

	snapshot, err := s.snapshotUntil(ctx, to)
	if err != nil {
		return nil, err
	}

	report, err := bookkeeping.IncomeStatement(snapshot.Accounts, snapshot.Entries, from, to)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// BalanceSheet reports cumulative asset, liability and equity balances.
func (s *reportingService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error) {
	snapshot, err := s.snapshotUntil(ctx, asOf)
	if err != nil {
		return nil, err
	}

	report := bookkeeping.BalanceSheet(snapshot.Accounts, snapshot.Entries, asOf)
	if !report.IsBalanced {
		s.GetLogger(ctx).Warn("Balance sheet out of balance",
			slog.String("as_of", report.AsOf.Format(domain.DateLayout)),
			slog.String("message", report.Message))
	}
	return &report, nil
}
