package services

import (
	portsrepo "github.com/SscSPs/microlend_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/microlend_ledger/internal/core/ports/services"
	"github.com/SscSPs/microlend_ledger/internal/observability"
	"github.com/SscSPs/microlend_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, metrics *observability.Metrics) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo, repos.JournalRepo)
	container.Journal = NewJournalService(repos.JournalRepo, repos.AccountRepo, WithJournalMetrics(metrics))
	container.Ledger = NewLedgerService(repos.JournalRepo)
	container.Reporting = NewReportingService(repos.JournalRepo)

	// Loan postings go through the journal service so they share its validation.
	container.Loan = NewLoanPostingService(container.Journal, repos.AccountRepo, repos.JournalRepo, cfg.LoanAccounts)

	return container
}
