package accounting

import (
	"fmt"

	"github.com/SscSPs/microlend_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// NormalBalanceFor derives the normal balance side from the account type.
// Asset and Expense accounts are debit-normal; Liability, Equity and Revenue are credit-normal.
func NormalBalanceFor(accountType domain.AccountType) (domain.NormalBalance, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		return domain.DebitNormal, nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return domain.CreditNormal, nil
	default:
		return "", fmt.Errorf("unknown account type '%s'", accountType)
	}
}

// CalculateSignedAmount returns the effect of one line on an account balance.
// A debit to a debit-normal account increases it; a credit decreases it, and the
// reverse holds for credit-normal accounts.
func CalculateSignedAmount(line domain.Line, normal domain.NormalBalance) decimal.Decimal {
	if normal == domain.CreditNormal {
		return line.Credit.Sub(line.Debit)
	}
	return line.Debit.Sub(line.Credit)
}

// NetDebit returns the raw debit-minus-credit effect of a line, independent of the account.
func NetDebit(line domain.Line) decimal.Decimal {
	return line.Debit.Sub(line.Credit)
}

// WithinTolerance reports whether a and b differ by less than one cent.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(domain.Tolerance)
}
