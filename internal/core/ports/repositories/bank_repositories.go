package repositories

import (
	"context"
	"time"

	"github.com/glbooks/accounting_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BankAccountReader defines read operations for bank account data
type BankAccountReader interface {
	// FindBankAccountByID retrieves a bank account by its unique identifier.
	FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error)

	// ListBankAccounts retrieves all bank accounts ordered by name, optionally active only.
	ListBankAccounts(ctx context.Context, activeOnly bool) ([]domain.BankAccount, error)
}

// BankAccountWriter defines write operations for bank account data
type BankAccountWriter interface {
	// SaveBankAccount persists a new bank account.
	SaveBankAccount(ctx context.Context, bankAccount domain.BankAccount) error

	// UpdateBankAccount updates an existing bank account's details.
	UpdateBankAccount(ctx context.Context, bankAccount domain.BankAccount) error
}

// StatementReader defines read operations for imported bank statement lines
type StatementReader interface {
	// FindStatementByID retrieves a statement line by its unique identifier.
	FindStatementByID(ctx context.Context, statementID string) (*domain.BankStatementLine, error)

	// ListStatementsByBankAccount retrieves all statement lines for a bank account,
	// ordered by transaction date then import time.
	ListStatementsByBankAccount(ctx context.Context, bankAccountID string) ([]domain.BankStatementLine, error)

	// ListUnreconciledStatements retrieves unmatched statement lines for a bank account.
	ListUnreconciledStatements(ctx context.Context, bankAccountID string) ([]domain.BankStatementLine, error)

	// ListStatementsByDateRange retrieves statement lines whose transaction date falls
	// within [startDate, endDate].
	ListStatementsByDateRange(ctx context.Context, bankAccountID string, startDate, endDate time.Time) ([]domain.BankStatementLine, error)

	// SumReconciledNet returns the sum of net amounts (credit minus debit) over
	// reconciled statement lines of a bank account.
	SumReconciledNet(ctx context.Context, bankAccountID string) (decimal.Decimal, error)

	// CountUnreconciled counts unmatched statement lines for a bank account.
	CountUnreconciled(ctx context.Context, bankAccountID string) (int, error)
}

// StatementWriter defines write operations for imported bank statement lines
type StatementWriter interface {
	// SaveStatements persists a batch of imported statement lines.
	SaveStatements(ctx context.Context, statements []domain.BankStatementLine) error

	// ApplyStatementReconciliation records or clears the match between a statement
	// line and a journal entry line, and refreshes the owning bank account's
	// derived balance in the same transaction. A nil matchedJournalLineID clears
	// the match.
	ApplyStatementReconciliation(ctx context.Context, statementID string, matchedJournalLineID *string, reconciled bool, userID string, now time.Time) error
}

// BankRepositoryFacade combines all bank-related repository interfaces
// This is a facade for clients that need access to all operations
type BankRepositoryFacade interface {
	BankAccountReader
	BankAccountWriter
	StatementReader
	StatementWriter
}

// BankRepositoryWithTx extends BankRepositoryFacade with transaction capabilities
type BankRepositoryWithTx interface {
	BankRepositoryFacade
	TransactionManager
}
