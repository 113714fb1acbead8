package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerRow is one posting to an account, with the balance after it.
// Rows are derived on every query and never persisted.
type LedgerRow struct {
	Date           time.Time       `json:"date"`
	EntryID        string          `json:"entryID"`
	EntrySequence  int64           `json:"entrySequence"`
	Description    string          `json:"description"`
	Memo           string          `json:"memo,omitempty"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// Ledger is the projection of one account over a date window.
type Ledger struct {
	Account        Account         `json:"account"`
	Range          DateRange       `json:"-"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Rows           []LedgerRow     `json:"rows"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// LedgerSnapshot is a consistent read of accounts and posted entries.
// Entries are ordered by Sequence.
type LedgerSnapshot struct {
	Accounts []Account
	Entries  []JournalEntry
}
