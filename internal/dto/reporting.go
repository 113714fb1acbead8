package dto

import (
	"time"

	"github.com/SscSPs/microlend_ledger/internal/core/domain"
)

// DateRangeParams is an optional inclusive window.
type DateRangeParams struct {
	StartDate string `form:"startDate" binding:"omitempty,isodate"`
	EndDate   string `form:"endDate" binding:"omitempty,isodate"`
}

// ToDomain converts the query to a date range.
func (p DateRangeParams) ToDomain() domain.DateRange {
	return domain.DateRange{Start: parseOptionalDate(p.StartDate), End: parseOptionalDate(p.EndDate)}
}

// PeriodParams is a required inclusive reporting period.
type PeriodParams struct {
	StartDate string `form:"startDate" binding:"required,isodate"`
	EndDate   string `form:"endDate" binding:"required,isodate"`
}

// Bounds returns the parsed period.
func (p PeriodParams) Bounds() (time.Time, time.Time) {
	return *parseOptionalDate(p.StartDate), *parseOptionalDate(p.EndDate)
}

// AsOfParams selects the report date; it defaults to today.
type AsOfParams struct {
	AsOf string `form:"asOf" binding:"omitempty,isodate"`
}

// Date returns the report date, falling back to today's date in UTC.
func (p AsOfParams) Date(now time.Time) time.Time {
	if d := parseOptionalDate(p.AsOf); d != nil {
		return *d
	}
	return domain.DateOf(now.UTC())
}

// LedgerRowResponse is one line of an account ledger.
type LedgerRowResponse struct {
	Date           string `json:"date"`
	EntryID        string `json:"entryID"`
	EntrySequence  int64  `json:"entrySequence"`
	Description    string `json:"description"`
	Memo           string `json:"memo,omitempty"`
	Debit          string `json:"debit"`
	Credit         string `json:"credit"`
	RunningBalance string `json:"runningBalance"`
}

// LedgerResponse is an account ledger over an optional window.
type LedgerResponse struct {
	Account        AccountResponse     `json:"account"`
	StartDate      *string             `json:"startDate,omitempty"`
	EndDate        *string             `json:"endDate,omitempty"`
	OpeningBalance string              `json:"openingBalance"`
	Rows           []LedgerRowResponse `json:"rows"`
	ClosingBalance string              `json:"closingBalance"`
}

// ToLedgerResponse converts a projected ledger.
func ToLedgerResponse(l *domain.Ledger) LedgerResponse {
	rows := make([]LedgerRowResponse, len(l.Rows))
	for i, r := range l.Rows {
		rows[i] = LedgerRowResponse{
			Date:           formatDate(r.Date),
			EntryID:        r.EntryID,
			EntrySequence:  r.EntrySequence,
			Description:    r.Description,
			Memo:           r.Memo,
			Debit:          money(r.Debit),
			Credit:         money(r.Credit),
			RunningBalance: money(r.RunningBalance),
		}
	}
	return LedgerResponse{
		Account:        ToAccountResponse(&l.Account),
		StartDate:      formatOptionalDate(l.Range.Start),
		EndDate:        formatOptionalDate(l.Range.End),
		OpeningBalance: money(l.OpeningBalance),
		Rows:           rows,
		ClosingBalance: money(l.ClosingBalance),
	}
}

// TrialBalanceRowResponse is one account line of a trial balance.
type TrialBalanceRowResponse struct {
	AccountID   string             `json:"accountID"`
	Code        string             `json:"code"`
	AccountName string             `json:"accountName"`
	AccountType domain.AccountType `json:"accountType"`
	Debit       string             `json:"debit"`
	Credit      string             `json:"credit"`
}

// TrialBalanceResponse defines the trial balance report.
type TrialBalanceResponse struct {
	AsOf         string                    `json:"asOf"`
	Rows         []TrialBalanceRowResponse `json:"rows"`
	TotalDebits  string                    `json:"totalDebits"`
	TotalCredits string                    `json:"totalCredits"`
	IsBalanced   bool                      `json:"isBalanced"`
	Message      string                    `json:"message"`
}

// ToTrialBalanceResponse converts a trial balance.
func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	rows := make([]TrialBalanceRowResponse, len(tb.Rows))
	for i, r := range tb.Rows {
		rows[i] = TrialBalanceRowResponse{
			AccountID:   r.AccountID,
			Code:        r.Code,
			AccountName: r.AccountName,
			AccountType: r.AccountType,
			Debit:       money(r.Debit),
			Credit:      money(r.Credit),
		}
	}
	return TrialBalanceResponse{
		AsOf:         formatDate(tb.AsOf),
		Rows:         rows,
		TotalDebits:  money(tb.TotalDebits),
		TotalCredits: money(tb.TotalCredits),
		IsBalanced:   tb.IsBalanced,
		Message:      tb.Message,
	}
}

// AccountAmountResponse is one account and its amount within a report section.
type AccountAmountResponse struct {
	AccountID string `json:"accountID"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Amount    string `json:"amount"`
}

func toAccountAmounts(in []domain.AccountAmount) []AccountAmountResponse {
	out := make([]AccountAmountResponse, len(in))
	for i, a := range in {
		out[i] = AccountAmountResponse{AccountID: a.AccountID, Code: a.Code, Name: a.Name, Amount: money(a.NetAmount)}
	}
	return out
}

// IncomeStatementResponse defines the income statement report.
type IncomeStatementResponse struct {
	StartDate     string                  `json:"startDate"`
	EndDate       string                  `json:"endDate"`
	Revenue       []AccountAmountResponse `json:"revenue"`
	Expenses      []AccountAmountResponse `json:"expenses"`
	TotalRevenue  string                  `json:"totalRevenue"`
	TotalExpenses string                  `json:"totalExpenses"`
	NetIncome     string                  `json:"netIncome"`
}

// ToIncomeStatementResponse converts an income statement.
func ToIncomeStatementResponse(is *domain.IncomeStatement) IncomeStatementResponse {
	return IncomeStatementResponse{
		StartDate:     formatDate(is.StartDate),
		EndDate:       formatDate(is.EndDate),
		Revenue:       toAccountAmounts(is.Revenue),
		Expenses:      toAccountAmounts(is.Expenses),
		TotalRevenue:  money(is.TotalRevenue),
		TotalExpenses: money(is.TotalExpenses),
		NetIncome:     money(is.NetIncome),
	}
}

// BalanceSheetResponse defines the balance sheet report.
type BalanceSheetResponse struct {
	AsOf             string                  `json:"asOf"`
	Assets           []AccountAmountResponse `json:"assets"`
	Liabilities      []AccountAmountResponse `json:"liabilities"`
	Equity           []AccountAmountResponse `json:"equity"`
	TotalAssets      string                  `json:"totalAssets"`
	TotalLiabilities string                  `json:"totalLiabilities"`
	TotalEquity      string                  `json:"totalEquity"`
	NetIncomeToDate  string                  `json:"netIncomeToDate"`
	IsBalanced       bool                    `json:"isBalanced"`
	Message          string                  `json:"message"`
}

// ToBalanceSheetResponse converts a balance sheet.
func ToBalanceSheetResponse(bs *domain.BalanceSheet) BalanceSheetResponse {
	return BalanceSheetResponse{
		AsOf:             formatDate(bs.AsOf),
		Assets:           toAccountAmounts(bs.Assets),
		Liabilities:      toAccountAmounts(bs.Liabilities),
		Equity:           toAccountAmounts(bs.Equity),
		TotalAssets:      money(bs.TotalAssets),
		TotalLiabilities: money(bs.TotalLiabilities),
		TotalEquity:      money(bs.TotalEquity),
		NetIncomeToDate:  money(bs.NetIncomeToDate),
		IsBalanced:       bs.IsBalanced,
		Message:          bs.Message,
	}
}
