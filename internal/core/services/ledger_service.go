package services

import (
	"context"
	"fmt"
	"time"

	"github.com/glbooks/accounting_backend/internal/core/domain"
	portsrepo "github.com/glbooks/accounting_backend/internal/core/ports/repositories"
	portssvc "github.com/glbooks/accounting_backend/internal/core/ports/services"
	"github.com/glbooks/accounting_backend/internal/utils/accounting"
)

// ledgerService builds per-account transaction histories with running balances.
type ledgerService struct {
	accountRepo portsrepo.AccountReader
	journalRepo portsrepo.JournalLineReader
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(accountRepo portsrepo.AccountReader, journalRepo portsrepo.JournalLineReader) portssvc.LedgerSvc {
	return &ledgerService{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
	}
}

// Ensure ledgerService implements the portssvc.LedgerSvc interface
var _ portssvc.LedgerSvc = (*ledgerService)(nil)

// GetLedger builds the ledger of an account over [startDate, endDate].
// The opening balance covers everything posted before startDate; each line in
// the period then advances the running balance by its signed effect.
// Implements portssvc.LedgerSvc
func (s *ledgerService) GetLedger(ctx context.Context, accountID string, startDate, endDate time.Time) (*domain.Ledger, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	openingDebit, openingCredit, err := s.journalRepo.SumPostedByAccountBefore(ctx, accountID, startDate)
	if err != nil {
		return nil, fmt.Errorf("failed to sum opening balance: %w", err)
	}
	openingBalance, err := accounting.Balance(account.AccountType, openingDebit, openingCredit)
	if err != nil {
		return nil, err
	}

	lines, err := s.journalRepo.FindPostedLinesByAccountBetween(ctx, accountID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posted lines: %w", err)
	}

	ledger := &domain.Ledger{
		AccountID:      account.AccountID,
		AccountCode:    account.Code,
		AccountName:    account.Name,
		AccountType:    account.AccountType,
		StartDate:      startDate,
		EndDate:        endDate,
		OpeningBalance: openingBalance,
		Lines:          make([]domain.LedgerLine, 0, len(lines)),
	}

	runningBalance := openingBalance
	for _, line := range lines {
		effect, err := accounting.LineEffect(account.AccountType, line.DebitAmount, line.CreditAmount)
		if err != nil {
			return nil, err
		}
		runningBalance = runningBalance.Add(effect)

		description := line.Description
		if description == "" {
			description = line.EntryDescription
		}

		ledger.Lines = append(ledger.Lines, domain.LedgerLine{
			EntryID:        line.EntryID,
			EntryNumber:    line.EntryNumber,
			EntryDate:      line.EntryDate,
			Description:    description,
			Reference:      line.EntryReference,
			DebitAmount:    line.DebitAmount,
			CreditAmount:   line.CreditAmount,
			RunningBalance: runningBalance,
		})
	}
	ledger.ClosingBalance = runningBalance

	return ledger, nil
}
