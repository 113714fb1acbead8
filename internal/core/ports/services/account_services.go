package services

import (
	"context"

	"github.com/SscSPs/microlend_ledger/internal/core/domain"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts retrieves accounts matching filter, sorted by code.
	ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount validates and persists a new account, generating its code when blank.
	CreateAccount(ctx context.Context, input domain.AccountInput, userID string) (*domain.Account, error)

	// UpdateAccount applies patch, re-deriving the normal balance from the type.
	UpdateAccount(ctx context.Context, accountID string, patch domain.AccountPatch, userID string) (*domain.Account, error)

	// DeleteAccount removes or, when soft is set, deactivates an account without journal lines.
	DeleteAccount(ctx context.Context, accountID string, soft bool, userID string) error
}

// ChartSeederSvc installs a starting chart of accounts.
type ChartSeederSvc interface {
	// SeedChart creates the given accounts when the registry is empty and reports how many were created.
	SeedChart(ctx context.Context, chart []domain.AccountInput, userID string) (int, error)
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	ChartSeederSvc
}
