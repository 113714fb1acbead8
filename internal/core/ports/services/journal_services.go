package services

import (
	"context"
	"time"

	"github.com/SscSPs/microlend_ledger/internal/core/domain"
)

// JournalValidatorSvc checks a proposed entry without posting it.
type JournalValidatorSvc interface {
	// ValidateEntry runs every entry rule plus the account checks and reports all problems at once.
	ValidateEntry(ctx context.Context, input domain.JournalEntryInput) (*domain.ValidatedEntry, error)
}

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetEntryByID retrieves a specific entry by its ID.
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a page of entries ordered by posting sequence.
	ListEntries(ctx context.Context, filter domain.EntryFilter, nextToken *string) (*domain.EntryPage, error)
}

// JournalWriterSvc defines write operations for journal data
type JournalWriterSvc interface {
	// PostEntry validates and persists an entry. When idempotencyKey was used before
	// the earlier entry is returned and created is false.
	PostEntry(ctx context.Context, input domain.JournalEntryInput, idempotencyKey string, userID string) (entry *domain.JournalEntry, created bool, err error)

	// UpdateEntry changes description or line memos of a posted entry.
	// Anything that would move a balance is rejected with a conflict.
	UpdateEntry(ctx context.Context, entryID string, patch domain.EntryPatch, userID string) (*domain.JournalEntry, error)

	// ReverseEntry posts the mirror of an entry and marks the original reversed.
	ReverseEntry(ctx context.Context, entryID string, date *time.Time, userID string) (*domain.JournalEntry, error)

	// AmendEntry reverses an entry and posts its replacement in one transaction.
	AmendEntry(ctx context.Context, entryID string, input domain.JournalEntryInput, userID string) (reversal *domain.JournalEntry, replacement *domain.JournalEntry, err error)
}

// JournalSvcFacade combines all journal-related service interfaces
// This is a facade for clients that need access to all operations
type JournalSvcFacade interface {
	JournalValidatorSvc
	JournalReaderSvc
	JournalWriterSvc
}
