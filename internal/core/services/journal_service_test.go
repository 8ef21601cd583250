package services_test

import (
	"context"
	"fmt"
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
	"github.com/glbooks/accounting_backend/internal/dto"
)

type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.JournalSvcFacade

	cashAccount    domain.Account
	revenueAccount domain.Account
	expenseAccount domain.Account
	userID         string
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewJournalService(suite.mockJournalRepo, suite.mockAccountRepo)

	suite.cashAccount = domain.Account{
		AccountID:    uuid.NewString(),
		Code:         "1000",
		Name:         "Cash",
		AccountType:  domain.Asset,
		CurrencyCode: "USD",
		IsActive:     true,
	}
	suite.revenueAccount = domain.Account{
		AccountID:    uuid.NewString(),
		Code:         "4000",
		Name:         "Sales Revenue",
		AccountType:  domain.Revenue,
		CurrencyCode: "USD",
		IsActive:     true,
	}
	suite.expenseAccount = domain.Account{
		AccountID:    uuid.NewString(),
		Code:         "5000",
		Name:         "Office Supplies",
		AccountType:  domain.Expense,
		CurrencyCode: "USD",
		IsActive:     true,
	}
	suite.userID = uuid.NewString()
}

func (suite *JournalServiceTestSuite) accountsMap(accounts ...domain.Account) map[string]domain.Account {
	m := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		m[a.AccountID] = a
	}
	return m
}

func (suite *JournalServiceTestSuite) balancedRequest(amount int64) dto.CreateJournalEntryRequest {
	return dto.CreateJournalEntryRequest{
		EntryDate:   time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		Description: "Consulting income",
		Lines: []dto.CreateJournalEntryLineRequest{
			{
				AccountID:    suite.cashAccount.AccountID,
				DebitAmount:  decimal.NewFromInt(amount),
				CurrencyCode: "USD",
			},
			{
				AccountID:    suite.revenueAccount.AccountID,
				CreditAmount: decimal.NewFromInt(amount),
				CurrencyCode: "USD",
			},
		},
	}
}

func (suite *JournalServiceTestSuite) TestCreateEntry_Success() {
	ctx := context.Background()
	req := suite.balancedRequest(500)
	expectedPrefix := fmt.Sprintf("JE-%s", time.Now().UTC().Format("200601"))

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{suite.cashAccount.AccountID, suite.revenueAccount.AccountID}).
		Return(suite.accountsMap(suite.cashAccount, suite.revenueAccount), nil).Once()
	suite.mockJournalRepo.On("NextEntryNumber", ctx, expectedPrefix).Return(42, nil).Once()
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry")).Return(nil).Once()

	entry, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal(expectedPrefix+"-0042", entry.EntryNumber)
	suite.Equal(domain.Draft, entry.Status)
	suite.Nil(entry.PostedAt)
	suite.Len(entry.Lines, 2)
	suite.NotEmpty(entry.Lines[0].LineID)
	suite.Equal(entry.EntryID, entry.Lines[0].EntryID)
	suite.True(entry.Lines[0].ExchangeRate.Equal(decimal.NewFromInt(1)))
	suite.Equal(suite.userID, entry.CreatedBy)

	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateEntry_Unbalanced() {
	ctx := context.Background()
	req := suite.balancedRequest(500)
	req.Lines[1].CreditAmount = decimal.NewFromInt(300)

	entry, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "must balance")
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_FewerThanTwoLines() {
	ctx := context.Background()
	req := suite.balancedRequest(500)
	req.Lines = req.Lines[:1]

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "at least two lines")
}

func (suite *JournalServiceTestSuite) TestCreateEntry_LineWithBothSides() {
	ctx := context.Background()
	req := suite.balancedRequest(500)
	req.Lines[0].CreditAmount = decimal.NewFromInt(500)
	req.Lines[1].CreditAmount = decimal.Zero
	req.Lines[1].DebitAmount = decimal.NewFromInt(500)

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "both debit and credit")
}

func (suite *JournalServiceTestSuite) TestCreateEntry_LineWithNoSide() {
	ctx := context.Background()
	req := suite.balancedRequest(500)
	req.Lines[0].DebitAmount = decimal.Zero

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "either a debit or credit")
}

func (suite *JournalServiceTestSuite) TestCreateEntry_InactiveAccount() {
	ctx := context.Background()
	req := suite.balancedRequest(500)
	inactive := suite.revenueAccount
	inactive.IsActive = false

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(suite.accountsMap(suite.cashAccount, inactive), nil).Once()

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "inactive account")
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_UnknownAccount() {
	ctx := context.Background()
	req := suite.balancedRequest(500)

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(suite.accountsMap(suite.cashAccount), nil).Once()

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *JournalServiceTestSuite) draftEntry() *domain.JournalEntry {
	entryID := uuid.NewString()
	return &domain.JournalEntry{
		EntryID:     entryID,
		EntryNumber: "JE-202608-0007",
		EntryDate:   time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		Description: "Consulting income",
		Status:      domain.Draft,
	}
}

func (suite *JournalServiceTestSuite) draftLines(entryID string, amount int64) []domain.JournalEntryLine {
	return []domain.JournalEntryLine{
		{
			LineID:       uuid.NewString(),
			EntryID:      entryID,
			AccountID:    suite.cashAccount.AccountID,
			DebitAmount:  decimal.NewFromInt(amount),
			CurrencyCode: "USD",
			ExchangeRate: decimal.NewFromInt(1),
		},
		{
			LineID:       uuid.NewString(),
			EntryID:      entryID,
			AccountID:    suite.revenueAccount.AccountID,
			CreditAmount: decimal.NewFromInt(amount),
			CurrencyCode: "USD",
			ExchangeRate: decimal.NewFromInt(1),
		},
	}
}

func (suite *JournalServiceTestSuite) TestPostEntry_Success() {
	ctx := context.Background()
	entry := suite.draftEntry()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).
		Return(suite.draftLines(entry.EntryID, 500), nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(suite.accountsMap(suite.cashAccount, suite.revenueAccount), nil).Once()
	suite.mockJournalRepo.On("UpdateEntryStatus", ctx, entry.EntryID, domain.Posted,
		mock.AnythingOfType("*time.Time"), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	posted, err := suite.service.PostEntry(ctx, entry.EntryID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, posted.Status)
	suite.Require().NotNil(posted.PostedAt)
	suite.Equal(suite.userID, posted.LastUpdatedBy)

	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostEntry_AlreadyPosted() {
	ctx := context.Background()
	entry := suite.draftEntry()
	entry.Status = domain.Posted

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).
		Return(suite.draftLines(entry.EntryID, 500), nil).Once()

	_, err := suite.service.PostEntry(ctx, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "UpdateEntryStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestVoidEntry_Success() {
	ctx := context.Background()
	entry := suite.draftEntry()
	entry.Status = domain.Posted

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).
		Return(suite.draftLines(entry.EntryID, 500), nil).Once()
	suite.mockJournalRepo.On("UpdateEntryStatus", ctx, entry.EntryID, domain.Void,
		(*time.Time)(nil), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	voided, err := suite.service.VoidEntry(ctx, entry.EntryID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Void, voided.Status)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestVoidEntry_DraftRejected() {
	ctx := context.Background()
	entry := suite.draftEntry()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).
		Return(suite.draftLines(entry.EntryID, 500), nil).Once()

	_, err := suite.service.VoidEntry(ctx, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *JournalServiceTestSuite) TestVoidEntry_AlreadyVoid() {
	ctx := context.Background()
	entry := suite.draftEntry()
	entry.Status = domain.Void

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).
		Return(suite.draftLines(entry.EntryID, 500), nil).Once()

	_, err := suite.service.VoidEntry(ctx, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.Contains(err.Error(), "already void")
}

func (suite *JournalServiceTestSuite) TestUpdateEntry_PostedRejected() {
	ctx := context.Background()
	entry := suite.draftEntry()
	entry.Status = domain.Posted

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.UpdateEntry(ctx, entry.EntryID, dto.UpdateJournalEntryRequest{
		EntryDate:   entry.EntryDate,
		Description: "Updated",
		Lines:       suite.balancedRequest(500).Lines,
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "UpdateEntry", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestDeleteEntry_Success() {
	ctx := context.Background()
	entry := suite.draftEntry()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("DeleteEntry", ctx, entry.EntryID).Return(nil).Once()

	err := suite.service.DeleteEntry(ctx, entry.EntryID, suite.userID)

	suite.Require().NoError(err)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestDeleteEntry_PostedRejected() {
	ctx := context.Background()
	entry := suite.draftEntry()
	entry.Status = domain.Posted

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	err := suite.service.DeleteEntry(ctx, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "DeleteEntry", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestGetEntryByID_NotFound() {
	ctx := context.Background()
	entryID := uuid.NewString()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(nil, apperrors.ErrNotFound).Once()

	entry, err := suite.service.GetEntryByID(ctx, entryID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestJournalService(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
