package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/glbooks/accounting_backend/internal/apperrors"
	"github.com/glbooks/accounting_backend/internal/core/domain"
	portsrepo "github.com/glbooks/accounting_backend/internal/core/ports/repositories"
	portssvc "github.com/glbooks/accounting_backend/internal/core/ports/services"
	"github.com/glbooks/accounting_backend/internal/dto"
	"github.com/glbooks/accounting_backend/internal/middleware"
	"github.com/glbooks/accounting_backend/internal/utils/accounting"
)

// startOfTime bounds open-ended balance queries; no entry predates it.
var startOfTime = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// accountService provides chart of accounts management and balance calculations.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	journalRepo portsrepo.JournalLineReader
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, journalRepo portsrepo.JournalLineReader) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
	}
}

// Ensure accountService implements the portssvc.AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount persists a new account after validating its code and parent.
// Implements portssvc.AccountSvcFacade
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.accountRepo.FindAccountByCode(ctx, req.Code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check account code: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: account code already exists: %s", apperrors.ErrDuplicate, req.Code)
	}

	parentID := ""
	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		parent, err := s.accountRepo.FindAccountByID(ctx, *req.ParentAccountID)
		if err != nil {
			return nil, fmt.Errorf("parent account lookup failed: %w", err)
		}
		if parent.AccountType != req.AccountType {
			return nil, fmt.Errorf("%w: parent account type %s does not match %s", apperrors.ErrValidation, parent.AccountType, req.AccountType)
		}
		parentID = parent.AccountID
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		Code:            req.Code,
		Name:            req.Name,
		AccountType:     req.AccountType,
		ParentAccountID: parentID,
		CurrencyCode:    req.CurrencyCode,
		Description:     req.Description,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// GetAccountByID retrieves a specific account by its ID.
// Implements portssvc.AccountSvcFacade
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

// GetAccountByCode retrieves an account by its chart of accounts code.
// Implements portssvc.AccountSvcFacade
func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByCode(ctx, code)
}

// ListAccounts retrieves accounts filtered by the given params.
// Implements portssvc.AccountSvcFacade
func (s *accountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	if params.AccountType != nil {
		return s.accountRepo.ListAccountsByType(ctx, *params.AccountType, params.ActiveOnly)
	}
	return s.accountRepo.ListAccounts(ctx, params.ActiveOnly)
}

// ListChildAccounts retrieves the direct children of an account.
// Implements portssvc.AccountSvcFacade
func (s *accountService) ListChildAccounts(ctx context.Context, parentAccountID string) ([]domain.Account, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, parentAccountID); err != nil {
		return nil, err
	}
	return s.accountRepo.ListChildAccounts(ctx, parentAccountID)
}

// UpdateAccount updates mutable account details.
// Implements portssvc.AccountSvcFacade
func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, requestingUserID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.ParentAccountID != nil {
		if *req.ParentAccountID == accountID {
			return nil, fmt.Errorf("%w: account cannot be its own parent", apperrors.ErrValidation)
		}
		if *req.ParentAccountID != "" {
			parent, err := s.accountRepo.FindAccountByID(ctx, *req.ParentAccountID)
			if err != nil {
				return nil, fmt.Errorf("parent account lookup failed: %w", err)
			}
			if parent.AccountType != account.AccountType {
				return nil, fmt.Errorf("%w: parent account type %s does not match %s", apperrors.ErrValidation, parent.AccountType, account.AccountType)
			}
		}
		account.ParentAccountID = *req.ParentAccountID
	}

	now := time.Now().UTC()
	account.LastUpdatedAt = now
	account.LastUpdatedBy = requestingUserID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return account, nil
}

// DeactivateAccount marks an account as inactive. Accounts with a non-zero
// posted balance stay active.
// Implements portssvc.AccountSvcFacade
func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return err
	}

	balance, err := s.GetBalance(ctx, accountID)
	if err != nil {
		return err
	}
	if !balance.IsZero() {
		return fmt.Errorf("%w: cannot deactivate account with non-zero balance", apperrors.ErrValidation)
	}

	if err := s.accountRepo.SetAccountActive(ctx, accountID, false, requestingUserID, time.Now().UTC()); err != nil {
		logger.Error("Failed to deactivate account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return fmt.Errorf("failed to deactivate account: %w", err)
	}
	return nil
}

// ActivateAccount marks an account as active again.
// Implements portssvc.AccountSvcFacade
func (s *accountService) ActivateAccount(ctx context.Context, accountID string, requestingUserID string) error {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return err
	}
	return s.accountRepo.SetAccountActive(ctx, accountID, true, requestingUserID, time.Now().UTC())
}

// GetBalance calculates the current balance of an account from all posted entries.
// Implements portssvc.AccountSvcFacade
func (s *accountService) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	debit, credit, err := s.journalRepo.SumPostedByAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum posted lines: %w", err)
	}
	return accounting.Balance(account.AccountType, debit, credit)
}

// GetBalanceAsOf calculates the balance from posted entries dated on or before asOf.
// Implements portssvc.AccountSvcFacade
func (s *accountService) GetBalanceAsOf(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	debit, credit, err := s.journalRepo.SumPostedByAccountBetween(ctx, accountID, startOfTime, asOf)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum posted lines: %w", err)
	}
	return accounting.Balance(account.AccountType, debit, credit)
}

// GetBalanceBetween calculates the balance movement over [startDate, endDate].
// Implements portssvc.AccountSvcFacade
func (s *accountService) GetBalanceBetween(ctx context.Context, accountID string, startDate, endDate time.Time) (decimal.Decimal, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	debit, credit, err := s.journalRepo.SumPostedByAccountBetween(ctx, accountID, startDate, endDate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum posted lines: %w", err)
	}
	return accounting.Balance(account.AccountType, debit, credit)
}
