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

type InvoiceServiceTestSuite struct {
	suite.Suite
	mockInvoiceRepo *MockInvoiceRepository
	mockJournalRepo *MockJournalRepository
	mockAccountRepo *MockAccountRepository
	mockJournalSvc  *MockJournalService
	service         portssvc.InvoiceSvcFacade

	arAccount      domain.Account
	revenueAccount domain.Account
	cashAccount    domain.Account
	userID         string
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockJournalSvc = new(MockJournalService)
	suite.service = services.NewInvoiceService(suite.mockInvoiceRepo, suite.mockJournalRepo,
		suite.mockAccountRepo, suite.mockJournalSvc)

	suite.cashAccount = domain.Account{
		AccountID: uuid.NewString(), Code: "1000", Name: "Cash",
		AccountType: domain.Asset, CurrencyCode: "USD", IsActive: true,
	}
	suite.arAccount = domain.Account{
		AccountID: uuid.NewString(), Code: "1200", Name: "Accounts Receivable",
		AccountType: domain.Asset, CurrencyCode: "USD", IsActive: true,
	}
	suite.revenueAccount = domain.Account{
		AccountID: uuid.NewString(), Code: "4000", Name: "Sales Revenue",
		AccountType: domain.Revenue, CurrencyCode: "USD", IsActive: true,
	}
	suite.userID = uuid.NewString()
}

func (suite *InvoiceServiceTestSuite) draftInvoice() *domain.Invoice {
	invoiceID := uuid.NewString()
	invoice := &domain.Invoice{
		InvoiceID:     invoiceID,
		InvoiceNumber: "INV-202608-0003",
		CustomerRef:   uuid.NewString(),
		CustomerName:  "Acme Corp",
		InvoiceDate:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		CurrencyCode:  "USD",
		TaxAmount:     decimal.NewFromInt(10),
		Status:        domain.InvoiceDraft,
		Items: []domain.InvoiceItem{
			{
				ItemID:      uuid.NewString(),
				InvoiceID:   invoiceID,
				Description: "Consulting",
				Quantity:    decimal.NewFromInt(2),
				UnitPrice:   decimal.NewFromInt(45),
			},
		},
	}
	invoice.CalculateTotals()
	return invoice
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_Success() {
	ctx := context.Background()
	expectedPrefix := fmt.Sprintf("INV-%s", time.Now().UTC().Format("200601"))
	req := dto.CreateInvoiceRequest{
		CustomerName: "Acme Corp",
		InvoiceDate:  time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		DueDate:      time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		CurrencyCode: "USD",
		TaxAmount:    decimal.NewFromFloat(12.50),
		Items: []dto.InvoiceItemRequest{
			{Description: "Consulting", Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromFloat(19.99)},
			{Description: "Support", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(40)},
		},
	}

	suite.mockInvoiceRepo.On("NextInvoiceNumber", ctx, expectedPrefix).Return(7, nil).Once()
	suite.mockInvoiceRepo.On("SaveInvoice", ctx, mock.AnythingOfType("domain.Invoice")).Return(nil).Once()

	invoice, err := suite.service.CreateInvoice(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(expectedPrefix+"-0007", invoice.InvoiceNumber)
	suite.Equal(domain.InvoiceDraft, invoice.Status)
	suite.True(invoice.Subtotal.Equal(decimal.NewFromFloat(99.97)))
	suite.True(invoice.TotalAmount.Equal(decimal.NewFromFloat(112.47)))
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_DueDateBeforeInvoiceDate() {
	ctx := context.Background()

	_, err := suite.service.CreateInvoice(ctx, dto.CreateInvoiceRequest{
		CustomerName: "Acme Corp",
		InvoiceDate:  time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		DueDate:      time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		CurrencyCode: "USD",
		Items: []dto.InvoiceItemRequest{
			{Description: "Consulting", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100)},
		},
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SaveInvoice", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_NonPositiveQuantity() {
	ctx := context.Background()

	_, err := suite.service.CreateInvoice(ctx, dto.CreateInvoiceRequest{
		CustomerName: "Acme Corp",
		InvoiceDate:  time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		DueDate:      time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		CurrencyCode: "USD",
		Items: []dto.InvoiceItemRequest{
			{Description: "Consulting", Quantity: decimal.Zero, UnitPrice: decimal.NewFromInt(100)},
		},
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InvoiceServiceTestSuite) TestSendInvoice_Success() {
	ctx := context.Background()
	invoice := suite.draftInvoice()
	arAccount := suite.arAccount
	revenueAccount := suite.revenueAccount

	draftEntry := &domain.JournalEntry{EntryID: uuid.NewString(), Status: domain.Draft}
	postedEntry := &domain.JournalEntry{EntryID: draftEntry.EntryID, Status: domain.Posted}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("FindItemsByInvoiceID", ctx, invoice.InvoiceID).Return(invoice.Items, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, "1200").Return(&arAccount, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, "4000").Return(&revenueAccount, nil).Once()

	var capturedReq dto.CreateJournalEntryRequest
	suite.mockJournalSvc.On("CreateEntry", ctx, mock.AnythingOfType("dto.CreateJournalEntryRequest"), suite.userID).
		Run(func(args mock.Arguments) {
			capturedReq = args.Get(1).(dto.CreateJournalEntryRequest)
		}).Return(draftEntry, nil).Once()
	suite.mockJournalSvc.On("PostEntry", ctx, draftEntry.EntryID, suite.userID).Return(postedEntry, nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoiceStatus", ctx, invoice.InvoiceID, domain.InvoiceSent,
		&postedEntry.EntryID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	sent, err := suite.service.SendInvoice(ctx, invoice.InvoiceID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceSent, sent.Status)
	suite.Require().NotNil(sent.JournalEntryID)
	suite.Equal(draftEntry.EntryID, *sent.JournalEntryID)

	// The generated entry debits AR and credits revenue for the invoice total.
	suite.Require().Len(capturedReq.Lines, 2)
	suite.Equal(suite.arAccount.AccountID, capturedReq.Lines[0].AccountID)
	suite.True(capturedReq.Lines[0].DebitAmount.Equal(invoice.TotalAmount))
	suite.Equal(suite.revenueAccount.AccountID, capturedReq.Lines[1].AccountID)
	suite.True(capturedReq.Lines[1].CreditAmount.Equal(invoice.TotalAmount))
	suite.Equal(invoice.InvoiceNumber, capturedReq.Reference)

	suite.mockJournalSvc.AssertExpectations(suite.T())
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestSendInvoice_NotDraft() {
	ctx := context.Background()
	invoice := suite.draftInvoice()
	invoice.Status = domain.InvoiceSent

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("FindItemsByInvoiceID", ctx, invoice.InvoiceID).Return(invoice.Items, nil).Once()

	_, err := suite.service.SendInvoice(ctx, invoice.InvoiceID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockJournalSvc.AssertNotCalled(suite.T(), "CreateEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestMarkInvoicePaid_Success() {
	ctx := context.Background()
	entryID := uuid.NewString()
	invoice := suite.draftInvoice()
	invoice.Status = domain.InvoiceSent
	invoice.JournalEntryID = &entryID
	paymentDate := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)

	cashAccount := suite.cashAccount
	arAccount := suite.arAccount
	paymentEntry := &domain.JournalEntry{EntryID: uuid.NewString(), Status: domain.Draft}
	postedPayment := &domain.JournalEntry{EntryID: paymentEntry.EntryID, Status: domain.Posted}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("FindItemsByInvoiceID", ctx, invoice.InvoiceID).Return(invoice.Items, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, "1000").Return(&cashAccount, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, "1200").Return(&arAccount, nil).Once()

	var capturedReq dto.CreateJournalEntryRequest
	suite.mockJournalSvc.On("CreateEntry", ctx, mock.AnythingOfType("dto.CreateJournalEntryRequest"), suite.userID).
		Run(func(args mock.Arguments) {
			capturedReq = args.Get(1).(dto.CreateJournalEntryRequest)
		}).Return(paymentEntry, nil).Once()
	suite.mockJournalSvc.On("PostEntry", ctx, paymentEntry.EntryID, suite.userID).Return(postedPayment, nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoiceStatus", ctx, invoice.InvoiceID, domain.InvoicePaid,
		&entryID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	paid, err := suite.service.MarkInvoicePaid(ctx, invoice.InvoiceID, paymentDate, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoicePaid, paid.Status)
	suite.Equal(paymentDate, capturedReq.EntryDate)
	suite.Equal(suite.cashAccount.AccountID, capturedReq.Lines[0].AccountID)
	suite.True(capturedReq.Lines[0].DebitAmount.Equal(invoice.TotalAmount))
	suite.Equal(suite.arAccount.AccountID, capturedReq.Lines[1].AccountID)
	suite.True(capturedReq.Lines[1].CreditAmount.Equal(invoice.TotalAmount))

	suite.mockJournalSvc.AssertExpectations(suite.T())
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestMarkInvoicePaid_DraftRejected() {
	ctx := context.Background()
	invoice := suite.draftInvoice()

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("FindItemsByInvoiceID", ctx, invoice.InvoiceID).Return(invoice.Items, nil).Once()

	_, err := suite.service.MarkInvoicePaid(ctx, invoice.InvoiceID, time.Now().UTC(), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *InvoiceServiceTestSuite) TestCancelInvoice_VoidsPostedEntry() {
	ctx := context.Background()
	entryID := uuid.NewString()
	invoice := suite.draftInvoice()
	invoice.Status = domain.InvoiceSent
	invoice.JournalEntryID = &entryID

	voided := &domain.JournalEntry{EntryID: entryID, Status: domain.Void}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("FindItemsByInvoiceID", ctx, invoice.InvoiceID).Return(invoice.Items, nil).Once()
	suite.mockJournalSvc.On("VoidEntry", ctx, entryID, suite.userID).Return(voided, nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoiceStatus", ctx, invoice.InvoiceID, domain.InvoiceCancelled,
		&entryID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	cancelled, err := suite.service.CancelInvoice(ctx, invoice.InvoiceID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceCancelled, cancelled.Status)
	suite.mockJournalSvc.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCancelInvoice_PaidRejected() {
	ctx := context.Background()
	invoice := suite.draftInvoice()
	invoice.Status = domain.InvoicePaid

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("FindItemsByInvoiceID", ctx, invoice.InvoiceID).Return(invoice.Items, nil).Once()

	_, err := suite.service.CancelInvoice(ctx, invoice.InvoiceID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockJournalSvc.AssertNotCalled(suite.T(), "VoidEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestPromoteOverdueInvoices_SkipsAlreadyOverdue() {
	ctx := context.Background()
	asOf := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	sent := *suite.draftInvoice()
	sent.Status = domain.InvoiceSent
	alreadyOverdue := *suite.draftInvoice()
	alreadyOverdue.Status = domain.InvoiceOverdue

	suite.mockInvoiceRepo.On("ListOverdueInvoices", ctx, asOf).
		Return([]domain.Invoice{sent, alreadyOverdue}, nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoiceStatus", ctx, sent.InvoiceID, domain.InvoiceOverdue,
		sent.JournalEntryID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	promoted, err := suite.service.PromoteOverdueInvoices(ctx, asOf, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(1, promoted)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoice_SentRejected() {
	ctx := context.Background()
	invoice := suite.draftInvoice()
	invoice.Status = domain.InvoiceSent

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()

	_, err := suite.service.UpdateInvoice(ctx, invoice.InvoiceID, dto.UpdateInvoiceRequest{
		CustomerName: "Acme Corp",
		InvoiceDate:  invoice.InvoiceDate,
		DueDate:      invoice.DueDate,
		Items: []dto.InvoiceItemRequest{
			{Description: "Consulting", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(50)},
		},
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "UpdateInvoice", mock.Anything, mock.Anything)
}

func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}
