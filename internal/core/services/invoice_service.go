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

const invoiceNumberPrefix = "INV"

// invoiceService manages the invoice lifecycle and the journal entries each
// transition generates.
type invoiceService struct {
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountReader
	journalSvc  portssvc.JournalSvcFacade
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(invoiceRepo portsrepo.InvoiceRepositoryFacade, journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountReader, journalSvc portssvc.JournalSvcFacade) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		journalSvc:  journalSvc,
	}
}

// Ensure invoiceService implements the portssvc.InvoiceSvcFacade interface
var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// nextInvoiceNumber reserves the next number in the month's sequence, e.g. INV-202608-0042.
func (s *invoiceService) nextInvoiceNumber(ctx context.Context, now time.Time) (string, error) {
	prefix := fmt.Sprintf("%s-%s", invoiceNumberPrefix, now.Format("200601"))
	seq, err := s.invoiceRepo.NextInvoiceNumber(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to reserve invoice number: %w", err)
	}
	return fmt.Sprintf("%s-%04d", prefix, seq), nil
}

// buildItems converts item requests into domain items owned by invoiceID.
func buildItems(invoiceID string, reqs []dto.InvoiceItemRequest) []domain.InvoiceItem {
	items := make([]domain.InvoiceItem, len(reqs))
	for i, ir := range reqs {
		items[i] = domain.InvoiceItem{
			ItemID:      uuid.NewString(),
			InvoiceID:   invoiceID,
			Description: ir.Description,
			Quantity:    ir.Quantity,
			UnitPrice:   ir.UnitPrice,
		}
	}
	return items
}

func validateItems(items []domain.InvoiceItem) error {
	for _, it := range items {
		if !it.Quantity.IsPositive() {
			return fmt.Errorf("%w: item quantity must be positive", apperrors.ErrValidation)
		}
		if it.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: item unit price cannot be negative", apperrors.ErrValidation)
		}
	}
	return nil
}

// CreateInvoice persists a new draft invoice with computed totals.
// Implements portssvc.InvoiceSvcFacade
func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.DueDate.Before(req.InvoiceDate) {
		return nil, fmt.Errorf("%w: due date cannot precede invoice date", apperrors.ErrValidation)
	}
	if req.TaxAmount.IsNegative() {
		return nil, fmt.Errorf("%w: tax amount cannot be negative", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	invoiceID := uuid.NewString()

	invoice := domain.Invoice{
		InvoiceID:    invoiceID,
		CustomerRef:  req.CustomerRef,
		CustomerName: req.CustomerName,
		InvoiceDate:  req.InvoiceDate,
		DueDate:      req.DueDate,
		CurrencyCode: req.CurrencyCode,
		TaxAmount:    req.TaxAmount,
		Status:       domain.InvoiceDraft,
		Notes:        req.Notes,
		Items:        buildItems(invoiceID, req.Items),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := validateItems(invoice.Items); err != nil {
		return nil, err
	}
	invoice.CalculateTotals()

	invoiceNumber, err := s.nextInvoiceNumber(ctx, now)
	if err != nil {
		logger.Error("Failed to generate invoice number", slog.String("error", err.Error()))
		return nil, err
	}
	invoice.InvoiceNumber = invoiceNumber

	if err := s.invoiceRepo.SaveInvoice(ctx, invoice); err != nil {
		logger.Error("Failed to save invoice", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	logger.Info("Invoice created", slog.String("invoice_id", invoiceID), slog.String("invoice_number", invoiceNumber))
	return &invoice, nil
}

// GetInvoiceByID retrieves an invoice with its items.
// Implements portssvc.InvoiceSvcFacade
func (s *invoiceService) GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	items, err := s.invoiceRepo.FindItemsByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch items for invoice %s: %w", invoiceID, err)
	}
	invoice.Items = items
	return invoice, nil
}

// ListInvoices retrieves a paginated list of invoices with their items.
// Implements portssvc.InvoiceSvcFacade
func (s *invoiceService) ListInvoices(ctx context.Context, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	invoices, nextToken, err := s.invoiceRepo.ListInvoices(ctx, params.Status, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	responses := make([]dto.InvoiceResponse, len(invoices))
	for i := range invoices {
		items, err := s.invoiceRepo.FindItemsByInvoiceID(ctx, invoices[i].InvoiceID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch items for invoice %s: %w", invoices[i].InvoiceID, err)
		}
		invoices[i].Items = items
		responses[i] = dto.ToInvoiceResponse(&invoices[i])
	}

	return &dto.ListInvoicesResponse{
		Invoices:  responses,
		NextToken: nextToken,
	}, nil
}

// ListOverdueInvoices retrieves sent invoices past their due date as of the given day.
// Implements portssvc.InvoiceSvcFacade
func (s *invoiceService) ListOverdueInvoices(ctx context.Context, asOf time.Time) ([]domain.Invoice, error) {
	return s.invoiceRepo.ListOverdueInvoices(ctx, asOf)
}

// UpdateInvoice replaces the header fields and items of a draft invoice.
// Implements portssvc.InvoiceSvcFacade
func (s *invoiceService) UpdateInvoice(ctx context.Context, invoiceID string, req dto.UpdateInvoiceRequest, requestingUserID string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != domain.InvoiceDraft {
		return nil, fmt.Errorf("%w: only draft invoices can be modified", apperrors.ErrInvalidState)
	}
	if req.DueDate.Before(req.InvoiceDate) {
		return nil, fmt.Errorf("%w: due date cannot precede invoice date", apperrors.ErrValidation)
	}
	if req.TaxAmount.IsNegative() {
		return nil, fmt.Errorf("%w: tax amount cannot be negative", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	invoice.CustomerRef = req.CustomerRef
	invoice.CustomerName = req.CustomerName
	invoice.InvoiceDate = req.InvoiceDate
	invoice.DueDate = req.DueDate
	invoice.TaxAmount = req.TaxAmount
	invoice.Notes = req.Notes
	invoice.Items = buildItems(invoiceID, req.Items)
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = requestingUserID

	if err := validateItems(invoice.Items); err != nil {
		return nil, err
	}
	invoice.CalculateTotals()

	if err := s.invoiceRepo.UpdateInvoice(ctx, *invoice); err != nil {
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}
	return invoice, nil
}

// postGeneratedEntry creates and immediately posts a journal entry produced by
// an invoice transition.
func (s *invoiceService) postGeneratedEntry(ctx context.Context, req dto.CreateJournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	entry, err := s.journalSvc.CreateEntry(ctx, req, userID)
	if err != nil {
		return nil, err
	}
	return s.journalSvc.PostEntry(ctx, entry.EntryID, userID)
}

// SendInvoice transitions a draft invoice to sent and posts the AR/revenue entry.
// Implements portssvc.InvoiceSvcFacade
func (s *invoiceService) SendInvoice(ctx context.Context, invoiceID string, requestingUserID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoice, err := s.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != domain.InvoiceDraft {
		return nil, fmt.Errorf("%w: only draft invoices can be sent", apperrors.ErrInvalidState)
	}

	arAccount, err := s.accountRepo.FindAccountByCode(ctx, receivablesCode)
	if err != nil {
		return nil, fmt.Errorf("accounts receivable account not found: %w", err)
	}
	revenueAccount, err := s.accountRepo.FindAccountByCode(ctx, salesRevenueCode)
	if err != nil {
		return nil, fmt.Errorf("sales revenue account not found: %w", err)
	}

	entry, err := s.postGeneratedEntry(ctx, dto.CreateJournalEntryRequest{
		EntryDate:   invoice.InvoiceDate,
		Description: fmt.Sprintf("Invoice %s - %s", invoice.InvoiceNumber, invoice.CustomerName),
		Reference:   invoice.InvoiceNumber,
		Lines: []dto.CreateJournalEntryLineRequest{
			{
				AccountID:    arAccount.AccountID,
				DebitAmount:  invoice.TotalAmount,
				CreditAmount: decimal.Zero,
				CurrencyCode: invoice.CurrencyCode,
				Description:  fmt.Sprintf("Invoice to %s", invoice.CustomerName),
			},
			{
				AccountID:    revenueAccount.AccountID,
				DebitAmount:  decimal.Zero,
				CreditAmount: invoice.TotalAmount,
				CurrencyCode: invoice.CurrencyCode,
				Description:  "Sales revenue",
			},
		},
	}, requestingUserID)
	if err != nil {
		logger.Error("Failed to post invoice journal entry", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, invoiceID, domain.InvoiceSent, &entry.EntryID, requestingUserID, now); err != nil {
		return nil, fmt.Errorf("failed to mark invoice sent: %w", err)
	}

	invoice.Status = domain.InvoiceSent
	invoice.JournalEntryID = &entry.EntryID
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = requestingUserID

	logger.Info("Invoice sent", slog.String("invoice_id", invoiceID), slog.String("entry_id", entry.EntryID))
	return invoice, nil
}

// MarkInvoicePaid transitions a sent or overdue invoice to paid and posts the
// cash/AR entry.
// Implements portssvc.InvoiceSvcFacade
func (s *invoiceService) MarkInvoicePaid(ctx context.Context, invoiceID string, paymentDate time.Time, requestingUserID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoice, err := s.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != domain.InvoiceSent && invoice.Status != domain.InvoiceOverdue {
		return nil, fmt.Errorf("%w: only sent or overdue invoices can be marked as paid", apperrors.ErrInvalidState)
	}

	cashAccount, err := s.accountRepo.FindAccountByCode(ctx, cashAccountCode)
	if err != nil {
		return nil, fmt.Errorf("cash account not found: %w", err)
	}
	arAccount, err := s.accountRepo.FindAccountByCode(ctx, receivablesCode)
	if err != nil {
		return nil, fmt.Errorf("accounts receivable account not found: %w", err)
	}

	if _, err := s.postGeneratedEntry(ctx, dto.CreateJournalEntryRequest{
		EntryDate:   paymentDate,
		Description: fmt.Sprintf("Payment received for Invoice %s", invoice.InvoiceNumber),
		Reference:   fmt.Sprintf("PMT-%s", invoice.InvoiceNumber),
		Lines: []dto.CreateJournalEntryLineRequest{
			{
				AccountID:    cashAccount.AccountID,
				DebitAmount:  invoice.TotalAmount,
				CreditAmount: decimal.Zero,
				CurrencyCode: invoice.CurrencyCode,
				Description:  fmt.Sprintf("Payment from %s", invoice.CustomerName),
			},
			{
				AccountID:    arAccount.AccountID,
				DebitAmount:  decimal.Zero,
				CreditAmount: invoice.TotalAmount,
				CurrencyCode: invoice.CurrencyCode,
				Description:  fmt.Sprintf("Clear AR for Invoice %s", invoice.InvoiceNumber),
			},
		},
	}, requestingUserID); err != nil {
		logger.Error("Failed to post payment journal entry", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, invoiceID, domain.InvoicePaid, invoice.JournalEntryID, requestingUserID, now); err != nil {
		return nil, fmt.Errorf("failed to mark invoice paid: %w", err)
	}

	invoice.Status = domain.InvoicePaid
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = requestingUserID

	logger.Info("Invoice paid", slog.String("invoice_id", invoiceID))
	return invoice, nil
}

// CancelInvoice transitions an unpaid invoice to cancelled, voiding its
// journal entry if one was posted.
// Implements portssvc.InvoiceSvcFacade
func (s *invoiceService) CancelInvoice(ctx context.Context, invoiceID string, requestingUserID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoice, err := s.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status == domain.InvoicePaid {
		return nil, fmt.Errorf("%w: paid invoices cannot be cancelled", apperrors.ErrInvalidState)
	}
	if invoice.Status == domain.InvoiceCancelled {
		return nil, fmt.Errorf("%w: invoice is already cancelled", apperrors.ErrInvalidState)
	}

	if invoice.JournalEntryID != nil {
		if _, err := s.journalSvc.VoidEntry(ctx, *invoice.JournalEntryID, requestingUserID); err != nil {
			logger.Error("Failed to void invoice journal entry", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
			return nil, err
		}
	}

	now := time.Now().UTC()
	if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, invoiceID, domain.InvoiceCancelled, invoice.JournalEntryID, requestingUserID, now); err != nil {
		return nil, fmt.Errorf("failed to cancel invoice: %w", err)
	}

	invoice.Status = domain.InvoiceCancelled
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = requestingUserID

	logger.Info("Invoice cancelled", slog.String("invoice_id", invoiceID))
	return invoice, nil
}

// PromoteOverdueInvoices transitions sent invoices past due as of asOf to
// overdue. The operation is idempotent: invoices already overdue are skipped.
// Implements portssvc.InvoiceSvcFacade
func (s *invoiceService) PromoteOverdueInvoices(ctx context.Context, asOf time.Time, requestingUserID string) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	overdue, err := s.invoiceRepo.ListOverdueInvoices(ctx, asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to list overdue invoices: %w", err)
	}

	now := time.Now().UTC()
	promoted := 0
	for _, invoice := range overdue {
		if invoice.Status != domain.InvoiceSent {
			continue
		}
		if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, invoice.InvoiceID, domain.InvoiceOverdue, invoice.JournalEntryID, requestingUserID, now); err != nil {
			return promoted, fmt.Errorf("failed to promote invoice %s: %w", invoice.InvoiceNumber, err)
		}
		promoted++
	}

	if promoted > 0 {
		logger.Info("Overdue invoices promoted", slog.Int("count", promoted))
	}
	return promoted, nil
}
