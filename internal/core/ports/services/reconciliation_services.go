package services

import (
	"context"

	"github.com/glbooks/accounting_backend/internal/core/domain"
	"github.com/glbooks/accounting_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// BankAccountSvc defines operations for managing bank accounts
type BankAccountSvc interface {
	// CreateBankAccount persists a new bank account linked to a GL account.
	CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest, creatorUserID string) (*domain.BankAccount, error)

	// GetBankAccountByID retrieves a bank account by its ID.
	GetBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error)

	// ListBankAccounts retrieves bank accounts, optionally active only.
	ListBankAccounts(ctx context.Context, activeOnly bool) ([]domain.BankAccount, error)
}

// StatementSvc defines operations for importing and listing bank statement lines
type StatementSvc interface {
	// ImportStatements persists a batch of statement lines for a bank account.
	ImportStatements(ctx context.Context, bankAccountID string, req dto.ImportStatementsRequest, requestingUserID string) ([]domain.BankStatementLine, error)

	// ListStatements retrieves statement lines for a bank account, optionally
	// restricted to unreconciled lines or a date range.
	ListStatements(ctx context.Context, bankAccountID string, params dto.ListStatementsParams) ([]domain.BankStatementLine, error)
}

// ReconciliationSvc defines matching operations between statement lines and journal lines
type ReconciliationSvc interface {
	// Reconcile matches a statement line with a journal entry line. The statement's
	// net amount must equal the line's signed amount exactly.
	Reconcile(ctx context.Context, statementID string, journalLineID string, requestingUserID string) error

	// Unreconcile clears the match on a statement line.
	Unreconcile(ctx context.Context, statementID string, requestingUserID string) error

	// FindPotentialMatches lists posted journal lines on the bank's GL account dated
	// within seven days of the statement's transaction date.
	FindPotentialMatches(ctx context.Context, statementID string) ([]domain.JournalEntryLine, error)

	// ReconciledBalance returns the bank account's opening balance plus the net of
	// all reconciled statement lines.
	ReconciledBalance(ctx context.Context, bankAccountID string) (decimal.Decimal, error)

	// UnreconciledDifference returns the GL account balance minus the reconciled balance.
	UnreconciledDifference(ctx context.Context, bankAccountID string) (decimal.Decimal, error)
}

// ReconciliationSvcFacade combines all bank reconciliation service interfaces
// This is a facade for clients that need access to all operations
type ReconciliationSvcFacade interface {
	BankAccountSvc
	StatementSvc
	ReconciliationSvc
}
