package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is the row stored in the journal_entries table.
type JournalEntry struct {
	EntryID             string    `db:"entry_id"`
	Sequence            int64     `db:"sequence"`
	EntryDate           time.Time `db:"entry_date"`
	Description         string    `db:"description"`
	RelatedDocumentType *string   `db:"related_document_type"` // Nullable
	RelatedDocumentID   *string   `db:"related_document_id"`   // Nullable
	Status              string    `db:"status"`
	ReversalOf          *string   `db:"reversal_of"` // Nullable
	ReversedBy          *string   `db:"reversed_by"` // Nullable
	IdempotencyKey      *string   `db:"idempotency_key"`
	RecordedBy          string    `db:"recorded_by"`
	CreatedAt           time.Time `db:"created_at"`
}

// JournalLine is the row stored in the journal_lines table.
type JournalLine struct {
	EntryID   string          `db:"entry_id"`
	LineIndex int             `db:"line_index"`
	AccountID string          `db:"account_id"`
	Debit     decimal.Decimal `db:"debit"`
	Credit    decimal.Decimal `db:"credit"`
	Memo      *string         `db:"memo"` // Nullable
}
