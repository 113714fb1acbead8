package bookkeeping

import (
	"sort"
	"time"

	"github.com/SscSPs/microlend_ledger/internal/core/domain"
	"github.com/SscSPs/microlend_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// posting is one line of one entry, flattened for projection.
type posting struct {
	date        time.Time
	sequence    int64
	lineIndex   int
	entryID     string
	description string
	line        domain.Line
}

// postingIndex groups postings by account ID.
type postingIndex map[string][]posting

func indexPostings(entries []domain.JournalEntry) postingIndex {
	idx := make(postingIndex)
	for _, e := range entries {
		date := domain.DateOf(e.Date)
		for i, l := range e.Lines {
			idx[l.AccountID] = append(idx[l.AccountID], posting{
				date:        date,
				sequence:    e.Sequence,
				lineIndex:   i,
				entryID:     e.EntryID,
				description: e.Description,
				line:        l,
			})
		}
	}
	return idx
}

// ProjectLedger computes the running balance of account over the window.
// Lines dated before the window start fold into the opening balance; lines
// inside it become rows ordered by date, entry sequence and line position.
func ProjectLedger(account domain.Account, entries []domain.JournalEntry, window domain.DateRange) domain.Ledger {
	return project(account, indexPostings(entries)[account.AccountID], window)
}

func project(account domain.Account, postings []posting, window domain.DateRange) domain.Ledger {
	normal := normalBalanceOf(account)

	sorted := make([]posting, len(postings))
	copy(sorted, postings)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.date.Equal(b.date) {
			return a.date.Before(b.date)
		}
		if a.sequence != b.sequence {
			return a.sequence < b.sequence
		}
		return a.lineIndex < b.lineIndex
	})

	opening := decimal.Zero
	rows := make([]domain.LedgerRow, 0)
	for _, p := range sorted {
		if window.Before(p.date) {
			opening = opening.Add(accounting.CalculateSignedAmount(p.line, normal))
		}
	}

	running := opening
	for _, p := range sorted {
		if !window.Contains(p.date) {
			continue
		}
		running = running.Add(accounting.CalculateSignedAmount(p.line, normal))
		rows = append(rows, domain.LedgerRow{
			Date:           p.date,
			EntryID:        p.entryID,
			EntrySequence:  p.sequence,
			Description:    p.description,
			Memo:           p.line.Memo,
			Debit:          p.line.Debit,
			Credit:         p.line.Credit,
			RunningBalance: running,
		})
	}

	return domain.Ledger{
		Account:        account,
		Range:          window,
		OpeningBalance: opening,
		Rows:           rows,
		ClosingBalance: running,
	}
}

// normalBalanceOf trusts the account type over any stored normal balance.
func normalBalanceOf(account domain.Account) domain.NormalBalance {
	if normal, err := accounting.NormalBalanceFor(account.AccountType); err == nil {
		return normal
	}
	return account.NormalBalance
}
