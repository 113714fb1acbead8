package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/microlend_ledger/internal/core/domain"
)

// DisbursementRequest records money paid out on a loan.
type DisbursementRequest struct {
	Principal *decimal.Decimal `json:"principal" binding:"required" swaggertype:"string" example:"1000.00"`
	Date      string           `json:"date" binding:"omitempty,isodate"`
}

// AdjustPrincipalRequest sets the principal the loan should carry.
type AdjustPrincipalRequest struct {
	Principal *decimal.Decimal `json:"principal" binding:"required" swaggertype:"string" example:"1000.00"`
	Date      string           `json:"date" binding:"omitempty,isodate"`
}

// RepaymentRequest splits a repayment into principal and interest.
type RepaymentRequest struct {
	Principal *decimal.Decimal `json:"principal" binding:"required" swaggertype:"string" example:"1000.00"`
	Interest  *decimal.Decimal `json:"interest" swaggertype:"string" example:"20.00"`
	Date      string           `json:"date" binding:"omitempty,isodate"`
}

// InterestOrZero returns the interest portion, zero when omitted.
func (r RepaymentRequest) InterestOrZero() decimal.Decimal {
	if r.Interest == nil {
		return decimal.Zero
	}
	return *r.Interest
}

// PostingDate returns the parsed date or today's date in UTC.
func PostingDate(s string, now time.Time) time.Time {
	if d := parseOptionalDate(s); d != nil {
		return *d
	}
	return domain.DateOf(now.UTC())
}

// OutstandingPrincipalResponse reports what the ledger carries for a loan.
type OutstandingPrincipalResponse struct {
	LoanID    string `json:"loanID"`
	Principal string `json:"principal"`
}

// NewOutstandingPrincipalResponse formats the outstanding principal.
func NewOutstandingPrincipalResponse(loanID string, principal decimal.Decimal) OutstandingPrincipalResponse {
	return OutstandingPrincipalResponse{LoanID: loanID, Principal: money(principal)}
}
