package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/microlend_ledger/internal/core/chart"
	"github.com/SscSPs/microlend_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/microlend_ledger/internal/core/ports/services"
	"github.com/SscSPs/microlend_ledger/internal/core/services"
	"github.com/SscSPs/microlend_ledger/internal/observability"
	"github.com/SscSPs/microlend_ledger/internal/platform/config"
	"github.com/SscSPs/microlend_ledger/internal/repositories/memory"
)

const testUser = "user-1"

// ledgerFixture wires every service over a fresh in-memory store seeded with
// the default chart.
type ledgerFixture struct {
	ctx      context.Context
	store    *memory.Store
	svc      *portssvc.ServiceContainer
	metrics  *observability.Metrics
	accounts map[string]domain.Account // by code
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	metrics := observability.NewMetrics()
	cfg := &config.Config{LoanAccounts: config.LoanAccountCodes{Receivable: "1100", Cash: "1001", InterestIncome: "4001"}}

	svc := services.NewServiceContainer(cfg, store.Provider(), metrics)
	created, err := svc.Account.SeedChart(ctx, chart.Default(), testUser)
	require.NoError(t, err)
	require.Equal(t, len(chart.Default()), created)

	all, err := svc.Account.ListAccounts(ctx, domain.AccountFilter{})
	require.NoError(t, err)
	byCode := make(map[string]domain.Account, len(all))
	for _, acc := range all {
		byCode[acc.Code] = acc
	}

	return &ledgerFixture{ctx: ctx, store: store, svc: svc, metrics: metrics, accounts: byCode}
}

func (f *ledgerFixture) id(code string) string {
	return f.accounts[code].AccountID
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func dayPtr(s string) *time.Time {
	d := day(s)
	return &d
}

// transfer builds a two-line entry moving amount from creditCode to debitCode.
func (f *ledgerFixture) transfer(on, description, debitCode, creditCode, amount string) domain.JournalEntryInput {
	return domain.JournalEntryInput{
		Date:        dayPtr(on),
		Description: description,
		Lines: []domain.LineInput{
			{AccountID: f.id(debitCode), Debit: dec(amount), Credit: decimal.Zero},
			{AccountID: f.id(creditCode), Debit: decimal.Zero, Credit: dec(amount)},
		},
	}
}

// echo turns posted line inputs into an update patch that repeats them.
func echo(lines []domain.LineInput) []domain.LinePatch {
	out := make([]domain.LinePatch, len(lines))
	for i, l := range lines {
		out[i] = domain.LinePatch{AccountID: l.AccountID, Debit: l.Debit, Credit: l.Credit}
	}
	return out
}

func (f *ledgerFixture) post(t *testing.T, input domain.JournalEntryInput) *domain.JournalEntry {
	t.Helper()
	entry, created, err := f.svc.Journal.PostEntry(f.ctx, input, "", testUser)
	require.NoError(t, err)
	require.True(t, created)
	return entry
}
