package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/glbooks/accounting_backend/internal/apperrors"
	"github.com/glbooks/accounting_backend/internal/core/domain"
	portssvc "github.com/glbooks/accounting_backend/internal/core/ports/services"
	"github.com/glbooks/accounting_backend/internal/core/services"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockJournalRepo *MockJournalRepository
	mockInvoiceRepo *MockInvoiceRepository
	service         portssvc.ReportingSvc
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockInvoiceRepo = new(MockInvoiceRepository)

	accountSvc := services.NewAccountService(suite.mockAccountRepo, suite.mockJournalRepo)
	suite.service = services.NewReportingService(suite.mockAccountRepo, accountSvc,
		suite.mockJournalRepo, suite.mockInvoiceRepo, time.January)
}

func (suite *ReportingServiceTestSuite) account(code string, t domain.AccountType) domain.Account {
	return domain.Account{
		AccountID:    uuid.NewString(),
		Code:         code,
		Name:         "Account " + code,
		AccountType:  t,
		CurrencyCode: "USD",
		IsActive:     true,
	}
}

// expectAsOfBalance wires the lookups behind GetBalanceAsOf for one account.
func (suite *ReportingServiceTestSuite) expectAsOfBalance(ctx context.Context, account domain.Account, debit, credit int64) {
	acc := account
	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&acc, nil)
	suite.mockJournalRepo.On("SumPostedByAccountBetween", ctx, account.AccountID,
		mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return(decimal.NewFromInt(debit), decimal.NewFromInt(credit), nil)
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_DebitsEqualCredits() {
	ctx := context.Background()
	asOf := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	cash := suite.account("1000", domain.Asset)
	revenue := suite.account("4000", domain.Revenue)
	rent := suite.account("5100", domain.Expense)
	dormant := suite.account("1900", domain.Asset)

	suite.mockAccountRepo.On("ListAccounts", ctx, true).
		Return([]domain.Account{cash, dormant, revenue, rent}, nil).Once()
	suite.expectAsOfBalance(ctx, cash, 1000, 300)
	suite.expectAsOfBalance(ctx, dormant, 0, 0)
	suite.expectAsOfBalance(ctx, revenue, 0, 1000)
	suite.expectAsOfBalance(ctx, rent, 300, 0)

	tb, err := suite.service.TrialBalance(ctx, asOf)

	suite.Require().NoError(err)
	suite.Equal(asOf, tb.AsOfDate)
	// Zero-balance accounts are dropped.
	suite.Require().Len(tb.Rows, 3)
	suite.True(tb.Rows[0].Debit.Equal(decimal.NewFromInt(700)))
	suite.True(tb.Rows[1].Credit.Equal(decimal.NewFromInt(1000)))
	suite.True(tb.Rows[2].Debit.Equal(decimal.NewFromInt(300)))
	suite.True(tb.TotalDebit.Equal(tb.TotalCredit))
	suite.True(tb.TotalDebit.Equal(decimal.NewFromInt(1000)))
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_NegativeBalanceOppositeColumn() {
	ctx := context.Background()
	asOf := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	// A liability with more debits than credits carries a negative balance
	// and lands in the debit column as a positive figure.
	overpaid := suite.account("2100", domain.Liability)

	suite.mockAccountRepo.On("ListAccounts", ctx, true).Return([]domain.Account{overpaid}, nil).Once()
	suite.expectAsOfBalance(ctx, overpaid, 500, 200)

	tb, err := suite.service.TrialBalance(ctx, asOf)

	suite.Require().NoError(err)
	suite.Require().Len(tb.Rows, 1)
	suite.True(tb.Rows[0].Debit.Equal(decimal.NewFromInt(300)))
	suite.True(tb.Rows[0].Credit.IsZero())
}

func (suite *ReportingServiceTestSuite) TestProfitAndLoss() {
	ctx := context.Background()
	startDate := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	endDate := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	revenue := suite.account("4000", domain.Revenue)
	salaries := suite.account("5000", domain.Expense)

	suite.mockAccountRepo.On("ListAccountsByType", ctx, domain.Revenue, true).
		Return([]domain.Account{revenue}, nil).Once()
	suite.mockAccountRepo.On("ListAccountsByType", ctx, domain.Expense, true).
		Return([]domain.Account{salaries}, nil).Once()

	revAcc := revenue
	suite.mockAccountRepo.On("FindAccountByID", ctx, revenue.AccountID).Return(&revAcc, nil)
	suite.mockJournalRepo.On("SumPostedByAccountBetween", ctx, revenue.AccountID, startDate, endDate).
		Return(decimal.Zero, decimal.NewFromInt(5000), nil).Once()

	salAcc := salaries
	suite.mockAccountRepo.On("FindAccountByID", ctx, salaries.AccountID).Return(&salAcc, nil)
	suite.mockJournalRepo.On("SumPostedByAccountBetween", ctx, salaries.AccountID, startDate, endDate).
		Return(decimal.NewFromInt(2000), decimal.Zero, nil).Once()

	report, err := suite.service.ProfitAndLoss(ctx, startDate, endDate)

	suite.Require().NoError(err)
	suite.True(report.TotalRevenue.Equal(decimal.NewFromInt(5000)))
	suite.True(report.TotalExpenses.Equal(decimal.NewFromInt(2000)))
	suite.True(report.NetIncome.Equal(decimal.NewFromInt(3000)))
	suite.Require().Len(report.Revenue, 1)
	suite.True(report.Revenue[0].Balance.Equal(decimal.NewFromInt(5000)))
}

func (suite *ReportingServiceTestSuite) TestBalanceSheet_RetainedEarningsFromFiscalYearStart() {
	ctx := context.Background()
	asOf := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	fiscalStart := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	cash := suite.account("1000", domain.Asset)
	revenue := suite.account("4000", domain.Revenue)

	suite.mockAccountRepo.On("ListAccountsByType", ctx, domain.Asset, true).
		Return([]domain.Account{cash}, nil).Once()
	suite.mockAccountRepo.On("ListAccountsByType", ctx, domain.Liability, true).
		Return([]domain.Account{}, nil).Once()
	suite.mockAccountRepo.On("ListAccountsByType", ctx, domain.Equity, true).
		Return([]domain.Account{}, nil).Once()
	suite.mockAccountRepo.On("ListAccountsByType", ctx, domain.Revenue, true).
		Return([]domain.Account{revenue}, nil).Once()
	suite.mockAccountRepo.On("ListAccountsByType", ctx, domain.Expense, true).
		Return([]domain.Account{}, nil).Once()

	suite.expectAsOfBalance(ctx, cash, 4000, 0)

	// The P&L window inside the balance sheet must open on the fiscal year start.
	revAcc := revenue
	suite.mockAccountRepo.On("FindAccountByID", ctx, revenue.AccountID).Return(&revAcc, nil)
	suite.mockJournalRepo.On("SumPostedByAccountBetween", ctx, revenue.AccountID, fiscalStart, asOf).
		Return(decimal.Zero, decimal.NewFromInt(4000), nil).Once()

	report, err := suite.service.BalanceSheet(ctx, asOf)

	suite.Require().NoError(err)
	suite.True(report.TotalAssets.Equal(decimal.NewFromInt(4000)))
	suite.True(report.TotalLiabilities.IsZero())
	suite.True(report.TotalEquity.IsZero())
	suite.True(report.RetainedEarnings.Equal(decimal.NewFromInt(4000)))
	// Assets = Liabilities + Equity + RetainedEarnings on a consistent ledger.
	suite.True(report.TotalAssets.Equal(
		report.TotalLiabilities.Add(report.TotalEquity).Add(report.RetainedEarnings)))
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestBalanceSheet_AprilFiscalYearStart() {
	ctx := context.Background()
	service := services.NewReportingService(suite.mockAccountRepo,
		services.NewAccountService(suite.mockAccountRepo, suite.mockJournalRepo),
		suite.mockJournalRepo, suite.mockInvoiceRepo, time.April)

	// March 2026 falls in the fiscal year that opened April 2025.
	asOf := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	fiscalStart := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	revenue := suite.account("4000", domain.Revenue)

	for _, t := range []domain.AccountType{domain.Asset, domain.Liability, domain.Equity, domain.Expense} {
		suite.mockAccountRepo.On("ListAccountsByType", ctx, t, true).Return([]domain.Account{}, nil).Once()
	}
	suite.mockAccountRepo.On("ListAccountsByType", ctx, domain.Revenue, true).
		Return([]domain.Account{revenue}, nil).Once()

	revAcc := revenue
	suite.mockAccountRepo.On("FindAccountByID", ctx, revenue.AccountID).Return(&revAcc, nil)
	suite.mockJournalRepo.On("SumPostedByAccountBetween", ctx, revenue.AccountID, fiscalStart, asOf).
		Return(decimal.Zero, decimal.NewFromInt(1200), nil).Once()

	report, err := service.BalanceSheet(ctx, asOf)

	suite.Require().NoError(err)
	suite.True(report.RetainedEarnings.Equal(decimal.NewFromInt(1200)))
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestDashboard() {
	ctx := context.Background()

	for _, t := range []domain.AccountType{domain.Asset, domain.Liability, domain.Equity,
		domain.Revenue, domain.Expense} {
		suite.mockAccountRepo.On("ListAccountsByType", ctx, t, true).Return([]domain.Account{}, nil)
	}
	// Headline codes missing from the chart read as zero.
	suite.mockAccountRepo.On("FindAccountByCode", ctx, mock.AnythingOfType("string")).
		Return(nil, apperrors.ErrNotFound)
	suite.mockJournalRepo.On("CountEntriesByStatus", ctx, domain.Draft).Return(3, nil).Once()
	suite.mockInvoiceRepo.On("ListOverdueInvoices", ctx, mock.AnythingOfType("time.Time")).
		Return([]domain.Invoice{{InvoiceID: uuid.NewString()}, {InvoiceID: uuid.NewString()}}, nil).Once()
	suite.mockInvoiceRepo.On("SumTotalByStatus", ctx, domain.InvoiceOverdue).
		Return(decimal.NewFromInt(450), nil).Once()

	dashboard, err := suite.service.Dashboard(ctx)

	suite.Require().NoError(err)
	suite.Equal(int64(3), dashboard.DraftEntryCount)
	suite.Equal(int64(2), dashboard.OverdueInvoices)
	suite.True(dashboard.OverdueAmount.Equal(decimal.NewFromInt(450)))
	suite.True(dashboard.CashBalance.IsZero())
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func TestReportingService(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
