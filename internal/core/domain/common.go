package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical wire form of a calendar date.
const DateLayout = "2006-01-02"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

// DateOf truncates t to a calendar date at UTC midnight.
// Time of day carries no meaning in the ledger.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}

// DateRange is an inclusive window of calendar dates. A nil bound is open.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// Contains reports whether d falls inside the window.
func (r DateRange) Contains(d time.Time) bool {
	d = DateOf(d)
	if r.Start != nil && d.Before(DateOf(*r.Start)) {
		return false
	}
	if r.End != nil && d.After(DateOf(*r.End)) {
		return false
	}
	return true
}

// Before reports whether d is strictly before the window start.
func (r DateRange) Before(d time.Time) bool {
	return r.Start != nil && DateOf(d).Before(DateOf(*r.Start))
}

// MoneyPlaces is the number of fraction digits carried by every amount.
const MoneyPlaces = 2

// Tolerance is the balance tolerance used by the equality checks (one cent).
var Tolerance = decimal.New(1, -MoneyPlaces)

// HasMoneyPrecision reports whether amount has no more than two fraction digits.
func HasMoneyPrecision(amount decimal.Decimal) bool {
	return amount.Equal(amount.Truncate(MoneyPlaces))
}
