package repositories

import (
	"context"

	"github.com/SscSPs/microlend_ledger/internal/core/domain"
)

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindEntryByID retrieves a specific journal entry with its lines.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindEntryByIdempotencyKey retrieves the entry first posted under key.
	FindEntryByIdempotencyKey(ctx context.Context, key string) (*domain.JournalEntry, error)

	// ListEntries retrieves entries ordered by sequence, starting after filter.AfterSequence.
	ListEntries(ctx context.Context, filter domain.EntryFilter) ([]domain.JournalEntry, error)
}

// EntryReferenceChecker answers whether journal lines point at an account.
type EntryReferenceChecker interface {
	// AccountHasEntries reports whether any posted line references accountID.
	AccountHasEntries(ctx context.Context, accountID string) (bool, error)
}

// JournalWriter defines write operations for journal data.
// Every method commits atomically or not at all.
type JournalWriter interface {
	// SaveEntry persists an entry and its lines and assigns its Sequence.
	// A reused idempotency key yields apperrors.ErrDuplicate; a line pointing at
	// a missing account yields apperrors.ErrNotFound.
	SaveEntry(ctx context.Context, entry *domain.JournalEntry) error

	// UpdateEntryDetails rewrites the description and line memos of a posted entry.
	UpdateEntryDetails(ctx context.Context, entry domain.JournalEntry) error

	// SaveReversal posts reversal, marks the original REVERSED and links both.
	// When replacement is not nil it is posted in the same transaction.
	// An original that is already reversed yields apperrors.ErrConflict.
	SaveReversal(ctx context.Context, originalID string, reversal *domain.JournalEntry, replacement *domain.JournalEntry) error
}

// LedgerSnapshotReader reads accounts and entries from one consistent view.
type LedgerSnapshotReader interface {
	// Snapshot returns all accounts and the entries matching filter.AccountID and
	// dated on or before filter.Range.End. filter.Range.Start is not applied so
	// callers can derive opening balances.
	Snapshot(ctx context.Context, filter domain.EntryFilter) (domain.LedgerSnapshot, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
// This is a facade for clients that need access to all operations
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	EntryReferenceChecker
	LedgerSnapshotReader
}
