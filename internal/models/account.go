package models

// Account is the row stored in the accounts table.
// normal_balance is persisted for readers of the table but always rewritten from account_type.
type Account struct {
	AccountID     string  `db:"account_id"`
	Code          string  `db:"code"`
	Name          string  `db:"name"`
	AccountType   string  `db:"account_type"`
	SubType       *string `db:"sub_type"` // Nullable
	NormalBalance string  `db:"normal_balance"`
	Description   *string `db:"description"` // Nullable
	IsActive      bool    `db:"is_active"`
	AuditFields
}
