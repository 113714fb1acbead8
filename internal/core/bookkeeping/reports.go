package bookkeeping

import (
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/microlend_ledger/internal/apperrors"
	"github.com/SscSPs/microlend_ledger/internal/core/domain"
	"github.com/SscSPs/microlend_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

func sortedByCode(accounts []domain.Account) []domain.Account {
	out := make([]domain.Account, len(accounts))
	copy(out, accounts)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func money(d decimal.Decimal) string {
	return d.StringFixed(domain.MoneyPlaces)
}

// TrialBalance lists the cumulative balance of every account at asOf.
// Each balance lands in the column of its actual sign, so an asset that went
// negative shows up as a credit.
func TrialBalance(accounts []domain.Account, entries []domain.JournalEntry, asOf time.Time) domain.TrialBalance {
	asOf = domain.DateOf(asOf)
	idx := indexPostings(entries)
	window := domain.DateRange{End: &asOf}

	report := domain.TrialBalance{
		AsOf:         asOf,
		Rows:         make([]domain.TrialBalanceRow, 0, len(accounts)),
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
	}

	for _, acc := range sortedByCode(accounts) {
		balance := project(acc, idx[acc.AccountID], window).ClosingBalance
		netDebit := balance
		if normalBalanceOf(acc) == domain.CreditNormal {
			netDebit = balance.Neg()
		}

		row := domain.TrialBalanceRow{
			AccountID:   acc.AccountID,
			Code:        acc.Code,
			AccountName: acc.Name,
			AccountType: acc.AccountType,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
		}
		if netDebit.IsPositive() {
			row.Debit = netDebit
		} else if netDebit.IsNegative() {
			row.Credit = netDebit.Neg()
		}

		report.TotalDebits = report.TotalDebits.Add(row.Debit)
		report.TotalCredits = report.TotalCredits.Add(row.Credit)
		report.Rows = append(report.Rows, row)
	}

	report.IsBalanced = accounting.WithinTolerance(report.TotalDebits, report.TotalCredits)
	if report.IsBalanced {
		report.Message = fmt.Sprintf("Trial balance is balanced: total debits %s equal total credits %s",
			money(report.TotalDebits), money(report.TotalCredits))
	} else {
		report.Message = fmt.Sprintf("Trial balance is out of balance by %s: total debits %s, total credits %s",
			money(report.TotalDebits.Sub(report.TotalCredits).Abs()), money(report.TotalDebits), money(report.TotalCredits))
	}
	return report
}

// IncomeStatement sums revenue and expense activity between start and end
// inclusive. Balances carried from before start are not part of the period.
func IncomeStatement(accounts []domain.Account, entries []domain.JournalEntry, start, end time.Time) (domain.IncomeStatement, error) {
	start, end = domain.DateOf(start), domain.DateOf(end)
	if start.After(end) {
		return domain.IncomeStatement{}, apperrors.NewValidationError(apperrors.FieldError{
			Field:   "startDate",
			Code:    "invalid_range",
			Message: fmt.Sprintf("start date %s is after end date %s", start.Format(domain.DateLayout), end.Format(domain.DateLayout)),
		})
	}

	idx := indexPostings(entries)
	window := domain.DateRange{Start: &start, End: &end}

	report := domain.IncomeStatement{
		StartDate:     start,
		EndDate:       end,
		Revenue:       make([]domain.AccountAmount, 0),
		Expenses:      make([]domain.AccountAmount, 0),
		TotalRevenue:  decimal.Zero,
		TotalExpenses: decimal.Zero,
	}

	for _, acc := range sortedByCode(accounts) {
		if acc.AccountType != domain.Revenue && acc.AccountType != domain.Expense {
			continue
		}
		ledger := project(acc, idx[acc.AccountID], window)
		activity := ledger.ClosingBalance.Sub(ledger.OpeningBalance)
		amount := domain.AccountAmount{AccountID: acc.AccountID, Code: acc.Code, Name: acc.Name, NetAmount: activity}

		if acc.AccountType == domain.Revenue {
			report.Revenue = append(report.Revenue, amount)
			report.TotalRevenue = report.TotalRevenue.Add(activity)
		} else {
			report.Expenses = append(report.Expenses, amount)
			report.TotalExpenses = report.TotalExpenses.Add(activity)
		}
	}

	report.NetIncome = report.TotalRevenue.Sub(report.TotalExpenses)
	return report, nil
}

// BalanceSheet sums cumulative asset, liability and equity balances at asOf
// and checks the accounting equation.
func BalanceSheet(accounts []domain.Account, entries []domain.JournalEntry, asOf time.Time) domain.BalanceSheet {
	asOf = domain.DateOf(asOf)
	idx := indexPostings(entries)
	window := domain.DateRange{End: &asOf}

	report := domain.BalanceSheet{
		AsOf:             asOf,
		Assets:           make([]domain.AccountAmount, 0),
		Liabilities:      make([]domain.AccountAmount, 0),
		Equity:           make([]domain.AccountAmount, 0),
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
		NetIncomeToDate:  decimal.Zero,
	}

	for _, acc := range sortedByCode(accounts) {
		balance := project(acc, idx[acc.AccountID], window).ClosingBalance
		amount := domain.AccountAmount{AccountID: acc.AccountID, Code: acc.Code, Name: acc.Name, NetAmount: balance}

		switch acc.AccountType {
		case domain.Asset:
			report.Assets = append(report.Assets, amount)
			report.TotalAssets = report.TotalAssets.Add(balance)
		case domain.Liability:
			report.Liabilities = append(report.Liabilities, amount)
			report.TotalLiabilities = report.TotalLiabilities.Add(balance)
		case domain.Equity:
			report.Equity = append(report.Equity, amount)
			report.TotalEquity = report.TotalEquity.Add(balance)
		case domain.Revenue:
			report.NetIncomeToDate = report.NetIncomeToDate.Add(balance)
		case domain.Expense:
			report.NetIncomeToDate = report.NetIncomeToDate.Sub(balance)
		}
	}

	liabilitiesAndEquity := report.TotalLiabilities.Add(report.TotalEquity)
	report.IsBalanced = accounting.WithinTolerance(report.TotalAssets, liabilitiesAndEquity)
	report.Message = balanceSheetMessage(report, liabilitiesAndEquity)
	return report
}

func balanceSheetMessage(report domain.BalanceSheet, liabilitiesAndEquity decimal.Decimal) string {
	if report.IsBalanced {
		return fmt.Sprintf("Balance sheet is balanced: assets %s equal liabilities and equity %s",
			money(report.TotalAssets), money(liabilitiesAndEquity))
	}

	diff := report.TotalAssets.Sub(liabilitiesAndEquity)
	var msg string
	if diff.IsPositive() {
		msg = fmt.Sprintf("Balance sheet is out of balance: assets exceed liabilities and equity by %s", money(diff))
	} else {
		msg = fmt.Sprintf("Balance sheet is out of balance: liabilities and equity exceed assets by %s", money(diff.Neg()))
	}
	if !report.NetIncomeToDate.IsZero() && accounting.WithinTolerance(diff, report.NetIncomeToDate) {
		msg += fmt.Sprintf(" (net income to date of %s has not been closed to equity)", money(report.NetIncomeToDate))
	}
	return msg
}
