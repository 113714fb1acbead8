package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/microlend_ledger/internal/apperrors"
	"github.com/SscSPs/microlend_ledger/internal/core/bookkeeping"
	"github.com/SscSPs/microlend_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/microlend_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/microlend_ledger/internal/core/ports/services"
)

// ledgerService projects per-account ledgers from a consistent snapshot.
type ledgerService struct {
	BaseService
	snapshots portsrepo.LedgerSnapshotReader
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(snapshots portsrepo.LedgerSnapshotReader) portssvc.LedgerService {
	return &ledgerService{snapshots: snapshots}
}

var _ portssvc.LedgerService = (*ledgerService)(nil)

func (s *ledgerService) AccountLedger(ctx context.Context, accountID string, window domain.DateRange) (*domain.Ledger, error) {
	if err := checkRange(window); err != nil {
		return nil, err
	}

	snapshot, err := s.snapshots.Snapshot(ctx, domain.EntryFilter{AccountID: accountID, Range: window})
	if err != nil {
		s.LogError(ctx, err, "Failed to read ledger snapshot", slog.String("account_id", accountID))
		return nil, err
	}

	account, ok := findAccount(snapshot.Accounts, accountID)
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}

	ledger := bookkeeping.ProjectLedger(account, snapshot.Entries, window)
	s.LogDebug(ctx, "Projected account ledger",
		slog.String("account_id", accountID),
		slog.Int("rows", len(ledger.Rows)))
	return &ledger, nil
}

func findAccount(accounts []domain.Account, accountID string) (domain.Account, bool) {
	for _, acc := range accounts {
		if acc.AccountID == accountID {
			return acc, true
		}
	}
	return domain.Account{}, false
}
