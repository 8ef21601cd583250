package services

import (
	"time"

	portsrepo "github.com/glbooks/accounting_backend/internal/core/ports/repositories"
	portssvc "github.com/glbooks/accounting_backend/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, fiscalYearStart time.Month) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Account service first since journal validation and reporting depend on it
	container.Account = NewAccountService(repos.AccountRepo, repos.JournalRepo)

	container.Journal = NewJournalService(repos.JournalRepo, repos.AccountRepo)
	container.Ledger = NewLedgerService(repos.AccountRepo, repos.JournalRepo)
	container.Reporting = NewReportingService(repos.AccountRepo, container.Account, repos.JournalRepo, repos.InvoiceRepo, fiscalYearStart)
	container.Reconciliation = NewReconciliationService(repos.BankRepo, repos.JournalRepo, repos.AccountRepo)
	container.Invoice = NewInvoiceService(repos.InvoiceRepo, repos.JournalRepo, repos.AccountRepo, container.Journal)

	return container
}
