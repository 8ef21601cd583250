package services

import (
	"context"
	"time"

	"github.com/glbooks/accounting_backend/internal/core/domain"
	"github.com/glbooks/accounting_backend/internal/dto"
)

// InvoiceReaderSvc defines read operations for invoices
type InvoiceReaderSvc interface {
	// GetInvoiceByID retrieves an invoice with its items.
	GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// ListInvoices retrieves a paginated list of invoices.
	ListInvoices(ctx context.Context, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error)

	// ListOverdueInvoices retrieves sent invoices past their due date as of the given day.
	ListOverdueInvoices(ctx context.Context, asOf time.Time) ([]domain.Invoice, error)
}

// InvoiceWriterSvc defines write and lifecycle operations for invoices
type InvoiceWriterSvc interface {
	// CreateInvoice persists a new draft invoice, assigning the next invoice number
	// and computing item amounts and totals.
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, error)

	// UpdateInvoice replaces the header fields and items of a draft invoice.
	UpdateInvoice(ctx context.Context, invoiceID string, req dto.UpdateInvoiceRequest, requestingUserID string) (*domain.Invoice, error)

	// SendInvoice transitions a draft invoice to sent and posts the receivable
	// journal entry for it.
	SendInvoice(ctx context.Context, invoiceID string, requestingUserID string) (*domain.Invoice, error)

	// MarkInvoicePaid transitions a sent or overdue invoice to paid and posts the
	// payment journal entry dated paymentDate.
	MarkInvoicePaid(ctx context.Context, invoiceID string, paymentDate time.Time, requestingUserID string) (*domain.Invoice, error)

	// CancelInvoice transitions an unpaid invoice to cancelled, voiding its journal
	// entry if one was posted.
	CancelInvoice(ctx context.Context, invoiceID string, requestingUserID string) (*domain.Invoice, error)

	// PromoteOverdueInvoices transitions sent invoices past due as of asOf to overdue
	// and returns how many were promoted. Already-overdue invoices are left untouched.
	PromoteOverdueInvoices(ctx context.Context, asOf time.Time, requestingUserID string) (int, error)
}

// InvoiceSvcFacade combines all invoice-related service interfaces
// This is a facade for clients that need access to all operations
type InvoiceSvcFacade interface {
	InvoiceReaderSvc
	InvoiceWriterSvc
}
