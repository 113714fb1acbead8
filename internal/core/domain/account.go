package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// AccountTypes lists every account type in chart order.
var AccountTypes = []AccountType{Asset, Liability, Equity, Revenue, Expense}

// IsValid reports whether t is one of the five account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// NormalBalance is the side that increases an account.
type NormalBalance string

const (
	DebitNormal  NormalBalance = "DEBIT"
	CreditNormal NormalBalance = "CREDIT"
)

// Account represents an entry in the chart of accounts.
// NormalBalance is always derived from AccountType and never taken from input.
type Account struct {
	AccountID     string        `json:"accountID"` // Primary Key (UUID)
	Code          string        `json:"code"`      // Unique, type-prefixed (1xxx assets, 2xxx liabilities, ...)
	Name          string        `json:"name"`
	AccountType   AccountType   `json:"accountType"`
	SubType       string        `json:"subType,omitempty"`
	NormalBalance NormalBalance `json:"normalBalance"`
	Description   string        `json:"description,omitempty"`
	IsActive      bool          `json:"isActive"`
	AuditFields
}

// AccountInput carries the caller supplied fields for creating an account.
type AccountInput struct {
	Code        string
	Name        string
	AccountType AccountType
	SubType     string
	Description string
}

// AccountPatch carries optional updates. Nil fields are left untouched.
// There is deliberately no NormalBalance field.
type AccountPatch struct {
	Code        *string
	Name        *string
	AccountType *AccountType
	SubType     *string
	Description *string
	IsActive    *bool
}

// AccountFilter narrows an account listing.
type AccountFilter struct {
	AccountType *AccountType
	ActiveOnly  bool
}

// Matches reports whether acc passes the filter.
func (f AccountFilter) Matches(acc Account) bool {
	if f.AccountType != nil && acc.AccountType != *f.AccountType {
		return false
	}
	if f.ActiveOnly && !acc.IsActive {
		return false
	}
	return true
}
