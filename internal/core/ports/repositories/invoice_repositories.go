package repositories

import (
	"context"
	"time"

	"github.com/glbooks/accounting_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InvoiceReader defines read operations for invoice data
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice header by its unique identifier.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// FindInvoiceByNumber retrieves an invoice header by its human-readable invoice number.
	FindInvoiceByNumber(ctx context.Context, invoiceNumber string) (*domain.Invoice, error)

	// FindItemsByInvoiceID retrieves the item lines of an invoice in insertion order.
	FindItemsByInvoiceID(ctx context.Context, invoiceID string) ([]domain.InvoiceItem, error)

	// ListInvoices retrieves a paginated list of invoices using token-based pagination,
	// newest invoice date first. A nil status returns invoices in every status.
	ListInvoices(ctx context.Context, status *domain.InvoiceStatus, limit int, nextToken *string) ([]domain.Invoice, *string, error)

	// ListOverdueInvoices retrieves sent invoices whose due date is strictly before asOf.
	ListOverdueInvoices(ctx context.Context, asOf time.Time) ([]domain.Invoice, error)

	// SumTotalByStatus returns the summed total amount of invoices in the given status.
	SumTotalByStatus(ctx context.Context, status domain.InvoiceStatus) (decimal.Decimal, error)
}

// InvoiceWriter defines write operations for invoice data
type InvoiceWriter interface {
	// SaveInvoice persists an invoice header and its items within a transaction.
	SaveInvoice(ctx context.Context, invoice domain.Invoice) error

	// UpdateInvoice updates an invoice header and replaces its items within a transaction.
	// Only draft invoices may be updated; callers enforce the status rule.
	UpdateInvoice(ctx context.Context, invoice domain.Invoice) error

	// UpdateInvoiceStatus transitions an invoice to a new status, optionally linking the
	// journal entry generated for it.
	UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus, journalEntryID *string, userID string, now time.Time) error

	// NextInvoiceNumber atomically increments and returns the sequence counter for an
	// invoice number prefix such as "INV-202608".
	NextInvoiceNumber(ctx context.Context, prefix string) (int, error)
}

// InvoiceRepositoryFacade combines all invoice-related repository interfaces
// This is a facade for clients that need access to all operations
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}

// InvoiceRepositoryWithTx extends InvoiceRepositoryFacade with transaction capabilities
type InvoiceRepositoryWithTx interface {
	InvoiceRepositoryFacade
	TransactionManager
}
