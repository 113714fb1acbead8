package bookkeeping

import (
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/microlend_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(s string) time.Time {
	t, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func datePtr(s string) *time.Time {
	t := date(s)
	return &t
}

func assertMoney(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func account(id, code string, accountType domain.AccountType) domain.Account {
	acc := domain.Account{AccountID: id, Code: code, Name: id, AccountType: accountType, IsActive: true}
	switch accountType {
	case domain.Asset, domain.Expense:
		acc.NormalBalance = domain.DebitNormal
	default:
		acc.NormalBalance = domain.CreditNormal
	}
	return acc
}

// entry builds a two-line posted entry moving amount from creditID to debitID.
func entry(seq int64, on, debitID, creditID, amount string) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:     fmt.Sprintf("je-%d", seq),
		Sequence:    seq,
		Date:        date(on),
		Description: fmt.Sprintf("entry %d", seq),
		Status:      domain.Posted,
		Lines: []domain.Line{
			{AccountID: debitID, Debit: dec(amount), Credit: decimal.Zero},
			{AccountID: creditID, Debit: decimal.Zero, Credit: dec(amount)},
		},
	}
}
