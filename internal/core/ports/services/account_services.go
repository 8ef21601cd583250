package services

import (
	"context"
	"time"

	"github.com/glbooks/accounting_backend/internal/core/domain"
	"github.com/glbooks/accounting_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// AccountReaderSvc defines read operations for chart of accounts data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its ID.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountByCode retrieves an account by its chart of accounts code.
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// ListAccounts retrieves accounts filtered by the given params, ordered by code.
	ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error)

	// ListChildAccounts retrieves the direct children of an account.
	ListChildAccounts(ctx context.Context, parentAccountID string) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for chart of accounts data
type AccountWriterSvc interface {
	// CreateAccount persists a new account after validating its code and parent.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	// UpdateAccount updates mutable account details (name, description, parent).
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, requestingUserID string) (*domain.Account, error)

	// DeactivateAccount marks an account as inactive. Accounts with a non-zero
	// posted balance cannot be deactivated.
	DeactivateAccount(ctx context.Context, accountID string, requestingUserID string) error

	// ActivateAccount marks an account as active again.
	ActivateAccount(ctx context.Context, accountID string, requestingUserID string) error
}

// BalanceCalculatorSvc defines balance calculations derived from posted journal lines
type BalanceCalculatorSvc interface {
	// GetBalance calculates the current balance of an account from all posted entries,
	// signed by the account type's normal balance side.
	GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error)

	// GetBalanceAsOf calculates the balance from posted entries dated on or before asOf.
	GetBalanceAsOf(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error)

	// GetBalanceBetween calculates the balance movement from posted entries dated
	// within [startDate, endDate].
	GetBalanceBetween(ctx context.Context, accountID string, startDate, endDate time.Time) (decimal.Decimal, error)
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	BalanceCalculatorSvc
}
