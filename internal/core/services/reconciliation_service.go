package services

import (
	"context"
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
)

// potentialMatchWindow bounds the date search around a statement's
// transaction date when suggesting journal lines.
const potentialMatchWindow = 7 * 24 * time.Hour

// reconciliationService matches imported bank statement lines against posted
// journal lines and maintains the derived bank account balance.
type reconciliationService struct {
	bankRepo    portsrepo.BankRepositoryFacade
	journalRepo portsrepo.JournalLineReader
	accountRepo portsrepo.AccountReader
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(bankRepo portsrepo.BankRepositoryFacade, journalRepo portsrepo.JournalLineReader, accountRepo portsrepo.AccountReader) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{
		bankRepo:    bankRepo,
		journalRepo: journalRepo,
		accountRepo: accountRepo,
	}
}

// Ensure reconciliationService implements the portssvc.ReconciliationSvcFacade interface
var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// CreateBankAccount persists a new bank account linked to a GL account.
// Implements portssvc.ReconciliationSvcFacade
func (s *reconciliationService) CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest, creatorUserID string) (*domain.BankAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.GLAccountID != "" {
		account, err := s.accountRepo.FindAccountByID(ctx, req.GLAccountID)
		if err != nil {
			return nil, fmt.Errorf("GL account lookup failed: %w", err)
		}
		if account.AccountType != domain.Asset {
			return nil, fmt.Errorf("%w: GL account for a bank account must be an asset account", apperrors.ErrValidation)
		}
	}

	now := time.Now().UTC()
	bankAccount := domain.BankAccount{
		BankAccountID:  uuid.NewString(),
		Name:           req.Name,
		BankName:       req.BankName,
		AccountNumber:  req.AccountNumber,
		GLAccountID:    req.GLAccountID,
		CurrencyCode:   req.CurrencyCode,
		OpeningBalance: req.OpeningBalance,
		CurrentBalance: req.OpeningBalance,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.bankRepo.SaveBankAccount(ctx, bankAccount); err != nil {
		logger.Error("Failed to save bank account", slog.String("error", err.Error()), slog.String("name", req.Name))
		return nil, fmt.Errorf("failed to save bank account: %w", err)
	}

	return &bankAccount, nil
}

// GetBankAccountByID retrieves a bank account by its ID.
// Implements portssvc.ReconciliationSvcFacade
func (s *reconciliationService) GetBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	return s.bankRepo.FindBankAccountByID(ctx, bankAccountID)
}

// ListBankAccounts retrieves bank accounts, optionally active only.
// Implements portssvc.ReconciliationSvcFacade
func (s *reconciliationService) ListBankAccounts(ctx context.Context, activeOnly bool) ([]domain.BankAccount, error) {
	return s.bankRepo.ListBankAccounts(ctx, activeOnly)
}

// ImportStatements persists a batch of statement lines for a bank account.
// Implements portssvc.ReconciliationSvcFacade
func (s *reconciliationService) ImportStatements(ctx context.Context, bankAccountID string, req dto.ImportStatementsRequest, requestingUserID string) ([]domain.BankStatementLine, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.bankRepo.FindBankAccountByID(ctx, bankAccountID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	statements := make([]domain.BankStatementLine, len(req.Lines))
	for i, lr := range req.Lines {
		if lr.DebitAmount.IsNegative() || lr.CreditAmount.IsNegative() {
			return nil, fmt.Errorf("%w: statement amounts cannot be negative", apperrors.ErrValidation)
		}
		statements[i] = domain.BankStatementLine{
			StatementID:     uuid.NewString(),
			BankAccountID:   bankAccountID,
			StatementDate:   lr.StatementDate,
			TransactionDate: lr.TransactionDate,
			Description:     lr.Description,
			Reference:       lr.Reference,
			DebitAmount:     lr.DebitAmount,
			CreditAmount:    lr.CreditAmount,
			IsReconciled:    false,
			ImportedAt:      now,
		}
	}

	if err := s.bankRepo.SaveStatements(ctx, statements); err != nil {
		logger.Error("Failed to import statements", slog.String("error", err.Error()), slog.String("bank_account_id", bankAccountID))
		return nil, fmt.Errorf("failed to import statements: %w", err)
	}

	logger.Info("Bank statements imported", slog.String("bank_account_id", bankAccountID), slog.Int("count", len(statements)))
	return statements, nil
}

// ListStatements retrieves statement lines for a bank account.
// Implements portssvc.ReconciliationSvcFacade
func (s *reconciliationService) ListStatements(ctx context.Context, bankAccountID string, params dto.ListStatementsParams) ([]domain.BankStatementLine, error) {
	if _, err := s.bankRepo.FindBankAccountByID(ctx, bankAccountID); err != nil {
		return nil, err
	}
	if params.UnreconciledOnly {
		return s.bankRepo.ListUnreconciledStatements(ctx, bankAccountID)
	}
	if params.StartDate != nil && params.EndDate != nil {
		return s.bankRepo.ListStatementsByDateRange(ctx, bankAccountID, *params.StartDate, *params.EndDate)
	}
	return s.bankRepo.ListStatementsByBankAccount(ctx, bankAccountID)
}

// Reconcile matches a statement line with a journal entry line. The
// statement's net amount (credit minus debit) must equal the journal line's
// signed amount (debit positive, credit negative) exactly; otherwise neither
// side changes.
// Implements portssvc.ReconciliationSvcFacade
func (s *reconciliationService) Reconcile(ctx context.Context, statementID string, journalLineID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	statement, err := s.bankRepo.FindStatementByID(ctx, statementID)
	if err != nil {
		return err
	}
	line, err := s.journalRepo.FindLineByID(ctx, journalLineID)
	if err != nil {
		return err
	}

	statementAmount := statement.NetAmount()
	journalAmount := line.SignedAmount()
	if !statementAmount.Equal(journalAmount) {
		return fmt.Errorf("%w: statement amount %s does not match journal entry amount %s",
			apperrors.ErrMatchMismatch, statementAmount.String(), journalAmount.String())
	}

	// The match flag and the derived balance travel together so a failure
	// cannot leave one applied without the other.
	if err := s.bankRepo.ApplyStatementReconciliation(ctx, statementID, &line.LineID, true, requestingUserID, time.Now().UTC()); err != nil {
		logger.Error("Failed to reconcile statement", slog.String("error", err.Error()), slog.String("statement_id", statementID))
		return fmt.Errorf("failed to reconcile statement: %w", err)
	}

	logger.Info("Statement reconciled", slog.String("statement_id", statementID), slog.String("journal_line_id", journalLineID))
	return nil
}

// Unreconcile clears the match on a statement line.
// Implements portssvc.ReconciliationSvcFacade
func (s *reconciliationService) Unreconcile(ctx context.Context, statementID string, requestingUserID string) error {
	if _, err := s.bankRepo.FindStatementByID(ctx, statementID); err != nil {
		return err
	}

	if err := s.bankRepo.ApplyStatementReconciliation(ctx, statementID, nil, false, requestingUserID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to unreconcile statement: %w", err)
	}
	return nil
}

// FindPotentialMatches lists posted journal lines on the bank's GL account
// dated within seven days of the statement's transaction date.
// Implements portssvc.ReconciliationSvcFacade
func (s *reconciliationService) FindPotentialMatches(ctx context.Context, statementID string) ([]domain.JournalEntryLine, error) {
	statement, err := s.bankRepo.FindStatementByID(ctx, statementID)
	if err != nil {
		return nil, err
	}
	bankAccount, err := s.bankRepo.FindBankAccountByID(ctx, statement.BankAccountID)
	if err != nil {
		return nil, err
	}
	if bankAccount.GLAccountID == "" {
		return nil, fmt.Errorf("%w: bank account is not linked to a GL account", apperrors.ErrValidation)
	}

	startDate := statement.TransactionDate.Add(-potentialMatchWindow)
	endDate := statement.TransactionDate.Add(potentialMatchWindow)
	return s.journalRepo.FindPostedLinesByAccountBetween(ctx, bankAccount.GLAccountID, startDate, endDate)
}

// ReconciledBalance returns the opening balance plus the net of all
// reconciled statement lines.
// Implements portssvc.ReconciliationSvcFacade
func (s *reconciliationService) ReconciledBalance(ctx context.Context, bankAccountID string) (decimal.Decimal, error) {
	bankAccount, err := s.bankRepo.FindBankAccountByID(ctx, bankAccountID)
	if err != nil {
		return decimal.Zero, err
	}
	reconciledNet, err := s.bankRepo.SumReconciledNet(ctx, bankAccountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum reconciled statements: %w", err)
	}
	return bankAccount.OpeningBalance.Add(reconciledNet), nil
}

// UnreconciledDifference returns the GL account balance minus the reconciled
// balance. Zero means the books agree with the bank.
// Implements portssvc.ReconciliationSvcFacade
func (s *reconciliationService) UnreconciledDifference(ctx context.Context, bankAccountID string) (decimal.Decimal, error) {
	bankAccount, err := s.bankRepo.FindBankAccountByID(ctx, bankAccountID)
	if err != nil {
		return decimal.Zero, err
	}
	if bankAccount.GLAccountID == "" {
		return decimal.Zero, fmt.Errorf("%w: bank account is not linked to a GL account", apperrors.ErrValidation)
	}

	// GL side is the raw debit-minus-credit movement of the linked asset account.
	glBalance := decimal.Zero
	lines, err := s.journalRepo.FindPostedLinesByAccount(ctx, bankAccount.GLAccountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch posted lines: %w", err)
	}
	for _, line := range lines {
		glBalance = glBalance.Add(line.DebitAmount).Sub(line.CreditAmount)
	}

	reconciled, err := s.ReconciledBalance(ctx, bankAccountID)
	if err != nil {
		return decimal.Zero, err
	}
	return glBalance.Sub(reconciled), nil
}
