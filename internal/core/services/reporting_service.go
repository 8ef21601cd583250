package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/glbooks/accounting_backend/internal/apperrors"
	"github.com/glbooks/accounting_backend/internal/core/domain"
	portsrepo "github.com/glbooks/accounting_backend/internal/core/ports/repositories"
	portssvc "github.com/glbooks/accounting_backend/internal/core/ports/services"
)

// Well-known chart of accounts codes used for dashboard headline figures.
const (
	cashAccountCode  = "1000"
	receivablesCode  = "1200"
	payablesCode     = "2000"
	salesRevenueCode = "4000"
)

// reportingService aggregates posted journal data into financial reports.
// It composes the account directory with the balance calculator instead of
// issuing report-shaped queries of its own.
type reportingService struct {
	accountRepo portsrepo.AccountReader
	accountSvc  portssvc.BalanceCalculatorSvc
	journalRepo portsrepo.JournalEntryReader
	invoiceRepo portsrepo.InvoiceReader

	fiscalYearStart time.Month
}

// NewReportingService creates a new ReportingService. fiscalYearStart is the
// month the fiscal year opens on; retained earnings accumulate from it.
func NewReportingService(accountRepo portsrepo.AccountReader, accountSvc portssvc.BalanceCalculatorSvc, journalRepo portsrepo.JournalEntryReader, invoiceRepo portsrepo.InvoiceReader, fiscalYearStart time.Month) portssvc.ReportingSvc {
	return &reportingService{
		accountRepo:     accountRepo,
		accountSvc:      accountSvc,
		journalRepo:     journalRepo,
		invoiceRepo:     invoiceRepo,
		fiscalYearStart: fiscalYearStart,
	}
}

// fiscalYearStartFor returns the opening day of the fiscal year containing ref.
func (s *reportingService) fiscalYearStartFor(ref time.Time) time.Time {
	year := ref.Year()
	if ref.Month() < s.fiscalYearStart {
		year--
	}
	return time.Date(year, s.fiscalYearStart, 1, 0, 0, 0, 0, ref.Location())
}

// Ensure reportingService implements the portssvc.ReportingSvc interface
var _ portssvc.ReportingSvc = (*reportingService)(nil)

// TrialBalance lists every active account with a nonzero balance as of the
// given date in debit/credit columns bucketed by normal balance side.
// Implements portssvc.ReportingSvc
func (s *reportingService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	tb := &domain.TrialBalance{
		AsOfDate:    asOf,
		Rows:        make([]domain.TrialBalanceRow, 0, len(accounts)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}

	for _, account := range accounts {
		balance, err := s.accountSvc.GetBalanceAsOf(ctx, account.AccountID, asOf)
		if err != nil {
			return nil, err
		}
		if balance.IsZero() {
			continue
		}

		row := domain.TrialBalanceRow{
			AccountID:   account.AccountID,
			AccountCode: account.Code,
			AccountName: account.Name,
			AccountType: account.AccountType,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
		}

		// A negative balance lands in the opposite column of the account's
		// normal side, as a positive figure.
		debitNormal := account.AccountType == domain.Asset || account.AccountType == domain.Expense
		if balance.IsPositive() == debitNormal {
			row.Debit = balance.Abs()
		} else {
			row.Credit = balance.Abs()
		}

		tb.Rows = append(tb.Rows, row)
		tb.TotalDebit = tb.TotalDebit.Add(row.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(row.Credit)
	}

	return tb, nil
}

// sectionBalances computes one report section: the nonzero balances of all
// active accounts of a type, via the supplied balance function.
func (s *reportingService) sectionBalances(ctx context.Context, accountType domain.AccountType, balanceOf func(ctx context.Context, accountID string) (decimal.Decimal, error)) ([]domain.AccountBalance, decimal.Decimal, error) {
	accounts, err := s.accountRepo.ListAccountsByType(ctx, accountType, true)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("failed to list %s accounts: %w", accountType, err)
	}

	rows := make([]domain.AccountBalance, 0, len(accounts))
	total := decimal.Zero
	for _, account := range accounts {
		balance, err := balanceOf(ctx, account.AccountID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if balance.IsZero() {
			continue
		}
		rows = append(rows, domain.AccountBalance{
			AccountID:   account.AccountID,
			AccountCode: account.Code,
			AccountName: account.Name,
			Balance:     balance,
		})
		total = total.Add(balance)
	}
	return rows, total, nil
}

// ProfitAndLoss reports revenue and expense movement over [startDate, endDate].
// Implements portssvc.ReportingSvc
func (s *reportingService) ProfitAndLoss(ctx context.Context, startDate, endDate time.Time) (*domain.ProfitLossReport, error) {
	between := func(ctx context.Context, accountID string) (decimal.Decimal, error) {
		return s.accountSvc.GetBalanceBetween(ctx, accountID, startDate, endDate)
	}

	revenue, totalRevenue, err := s.sectionBalances(ctx, domain.Revenue, between)
	if err != nil {
		return nil, err
	}
	expenses, totalExpenses, err := s.sectionBalances(ctx, domain.Expense, between)
	if err != nil {
		return nil, err
	}

	return &domain.ProfitLossReport{
		StartDate:     startDate,
		EndDate:       endDate,
		Revenue:       revenue,
		Expenses:      expenses,
		TotalRevenue:  totalRevenue,
		TotalExpenses: totalExpenses,
		NetIncome:     totalRevenue.Sub(totalExpenses),
	}, nil
}

// BalanceSheet reports the financial position as of a date, with the fiscal
// year-to-date net income carried as retained earnings.
// Implements portssvc.ReportingSvc
func (s *reportingService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error) {
	asOfBalance := func(ctx context.Context, accountID string) (decimal.Decimal, error) {
		return s.accountSvc.GetBalanceAsOf(ctx, accountID, asOf)
	}

	assets, totalAssets, err := s.sectionBalances(ctx, domain.Asset, asOfBalance)
	if err != nil {
		return nil, err
	}
	liabilities, totalLiabilities, err := s.sectionBalances(ctx, domain.Liability, asOfBalance)
	if err != nil {
		return nil, err
	}
	equity, totalEquity, err := s.sectionBalances(ctx, domain.Equity, asOfBalance)
	if err != nil {
		return nil, err
	}

	profitLoss, err := s.ProfitAndLoss(ctx, s.fiscalYearStartFor(asOf), asOf)
	if err != nil {
		return nil, err
	}

	return &domain.BalanceSheetReport{
		AsOfDate:         asOf,
		Assets:           assets,
		Liabilities:      liabilities,
		Equity:           equity,
		TotalAssets:      totalAssets,
		TotalLiabilities: totalLiabilities,
		TotalEquity:      totalEquity,
		RetainedEarnings: profitLoss.NetIncome,
	}, nil
}

// balanceByCode resolves a well-known account code to its current balance,
// returning zero when the account does not exist.
func (s *reportingService) balanceByCode(ctx context.Context, code string) (decimal.Decimal, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return s.accountSvc.GetBalance(ctx, account.AccountID)
}

// Dashboard aggregates the headline figures for the landing page.
// Implements portssvc.ReportingSvc
func (s *reportingService) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	now := time.Now().UTC()
	startOfYear := s.fiscalYearStartFor(now)

	current := func(ctx context.Context, accountID string) (decimal.Decimal, error) {
		return s.accountSvc.GetBalance(ctx, accountID)
	}

	_, totalAssets, err := s.sectionBalances(ctx, domain.Asset, current)
	if err != nil {
		return nil, err
	}
	_, totalLiabilities, err := s.sectionBalances(ctx, domain.Liability, current)
	if err != nil {
		return nil, err
	}
	_, totalEquity, err := s.sectionBalances(ctx, domain.Equity, current)
	if err != nil {
		return nil, err
	}

	profitLoss, err := s.ProfitAndLoss(ctx, startOfYear, now)
	if err != nil {
		return nil, err
	}

	cash, err := s.balanceByCode(ctx, cashAccountCode)
	if err != nil {
		return nil, err
	}
	receivables, err := s.balanceByCode(ctx, receivablesCode)
	if err != nil {
		return nil, err
	}
	payables, err := s.balanceByCode(ctx, payablesCode)
	if err != nil {
		return nil, err
	}

	draftCount, err := s.journalRepo.CountEntriesByStatus(ctx, domain.Draft)
	if err != nil {
		return nil, fmt.Errorf("failed to count draft entries: %w", err)
	}

	overdue, err := s.invoiceRepo.ListOverdueInvoices(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue invoices: %w", err)
	}
	overdueAmount, err := s.invoiceRepo.SumTotalByStatus(ctx, domain.InvoiceOverdue)
	if err != nil {
		return nil, fmt.Errorf("failed to sum overdue invoices: %w", err)
	}

	return &domain.Dashboard{
		TotalAssets:        totalAssets,
		TotalLiabilities:   totalLiabilities,
		TotalEquity:        totalEquity,
		TotalRevenue:       profitLoss.TotalRevenue,
		TotalExpenses:      profitLoss.TotalExpenses,
		NetIncome:          profitLoss.NetIncome,
		CashBalance:        cash,
		AccountsReceivable: receivables,
		AccountsPayable:    payables,
		DraftEntryCount:    int64(draftCount),
		OverdueInvoices:    int64(len(overdue)),
		OverdueAmount:      overdueAmount,
	}, nil
}
