package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	Posted   EntryStatus = "POSTED"
	Reversed EntryStatus = "REVERSED"
)

// RelatedDocument links an entry to the business document that caused it (a loan, a payment).
type RelatedDocument struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Line is one side of a double entry against a single account.
// Exactly one of Debit and Credit is positive.
type Line struct {
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo,omitempty"`
}

// JournalEntry is a single, balanced financial event composed of two or more lines.
type JournalEntry struct {
	EntryID         string           `json:"entryID"`  // Primary Key (UUID)
	Sequence        int64            `json:"sequence"` // Insertion order, breaks same-date ties
	Date            time.Time        `json:"date"`
	Description     string           `json:"description"`
	Lines           []Line           `json:"lines"`
	RelatedDocument *RelatedDocument `json:"relatedDocument,omitempty"`
	RecordedBy      string           `json:"recordedBy"`
	Status          EntryStatus      `json:"status"`
	ReversalOf      *string          `json:"reversalOf,omitempty"` // Set on the mirror entry
	ReversedBy      *string          `json:"reversedBy,omitempty"` // Set on the original once reversed
	IdempotencyKey  string           `json:"-"`
	CreatedAt       time.Time        `json:"createdAt"`
}

// TotalDebits sums the debit side.
func (e JournalEntry) TotalDebits() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Debit)
	}
	return total
}

// TotalCredits sums the credit side.
func (e JournalEntry) TotalCredits() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Credit)
	}
	return total
}

// References reports whether any line posts to accountID.
func (e JournalEntry) References(accountID string) bool {
	for _, l := range e.Lines {
		if l.AccountID == accountID {
			return true
		}
	}
	return false
}

// LineInput is a proposed line as received from a caller.
type LineInput struct {
	AccountID string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Memo      string
}

// JournalEntryInput is a proposed entry before validation.
type JournalEntryInput struct {
	Date            *time.Time
	Description     string
	Lines           []LineInput
	RelatedDocument *RelatedDocument
}

// ValidatedEntry is the normalised result of a successful validation.
type ValidatedEntry struct {
	Date            time.Time
	Description     string
	Lines           []Line
	RelatedDocument *RelatedDocument
	Total           decimal.Decimal
}

// EntryPatch holds the only fields a posted entry accepts in place.
// Everything that moves a balance goes through reversal instead.
type EntryPatch struct {
	Description *string
	Date        *time.Time
	Lines       []LinePatch
	LineMemos   map[int]string
}

// LinePatch echoes a posted line. Account and amounts must match what was
// posted; a nil Memo leaves the posted memo as it is.
type LinePatch struct {
	AccountID string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Memo      *string
}

// EntryFilter narrows an entry listing.
type EntryFilter struct {
	AccountID       string
	Range           DateRange
	RelatedDocument *RelatedDocument
	Limit           int
	AfterSequence   int64 // Exclusive cursor for pagination
}

// EntryPage is one page of an entry listing.
type EntryPage struct {
	Entries   []JournalEntry
	NextToken *string
}
