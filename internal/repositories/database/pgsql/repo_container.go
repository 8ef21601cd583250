package pgsql

import (
	portsrepo "github.com/glbooks/accounting_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider creates a provider with all PostgreSQL repositories
func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		AccountRepo: newPgxAccountRepository(dbPool),
		JournalRepo: newPgxJournalRepository(dbPool),
		BankRepo:    newPgxBankRepository(dbPool),
		InvoiceRepo: newPgxInvoiceRepository(dbPool),
	}
}
