package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/glbooks/accounting_backend/internal/apperrors"
	"github.com/glbooks/accounting_backend/internal/core/domain"
	portsrepo "github.com/glbooks/accounting_backend/internal/core/ports/repositories"
	"github.com/glbooks/accounting_backend/internal/models"
	"github.com/glbooks/accounting_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxInvoiceRepository struct {
	BaseRepository
}

// newPgxInvoiceRepository creates a new repository for invoice data.
func newPgxInvoiceRepository(pool *pgxpool.Pool) *PgxInvoiceRepository {
	return &PgxInvoiceRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxInvoiceRepository implements portsrepo.InvoiceRepositoryWithTx
var _ portsrepo.InvoiceRepositoryWithTx = (*PgxInvoiceRepository)(nil)

const invoiceColumns = `invoice_id, invoice_number, customer_ref, customer_name, invoice_date, due_date, currency_code, subtotal, tax_amount, total_amount, status, journal_entry_id, notes, created_at, created_by, last_updated_at, last_updated_by`

const invoiceItemColumns = `item_id, invoice_id, description, quantity, unit_price, amount`

func toDomainInvoice(m models.Invoice) domain.Invoice {
	return domain.Invoice{
		InvoiceID:      m.InvoiceID,
		InvoiceNumber:  m.InvoiceNumber,
		CustomerRef:    m.CustomerRef,
		CustomerName:   m.CustomerName,
		InvoiceDate:    m.InvoiceDate,
		DueDate:        m.DueDate,
		CurrencyCode:   m.CurrencyCode,
		Subtotal:       m.Subtotal,
		TaxAmount:      m.TaxAmount,
		TotalAmount:    m.TotalAmount,
		Status:         domain.InvoiceStatus(m.Status),
		JournalEntryID: m.JournalEntryID,
		Notes:          m.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func toDomainInvoiceItem(m models.InvoiceItem) domain.InvoiceItem {
	return domain.InvoiceItem{
		ItemID:      m.ItemID,
		InvoiceID:   m.InvoiceID,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		Amount:      m.Amount,
	}
}

func scanInvoice(row pgx.Row) (models.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID,
		&m.InvoiceNumber,
		&m.CustomerRef,
		&m.CustomerName,
		&m.InvoiceDate,
		&m.DueDate,
		&m.CurrencyCode,
		&m.Subtotal,
		&m.TaxAmount,
		&m.TotalAmount,
		&m.Status,
		&m.JournalEntryID,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanInvoiceItem(row pgx.Row) (models.InvoiceItem, error) {
	var m models.InvoiceItem
	err := row.Scan(
		&m.ItemID,
		&m.InvoiceID,
		&m.Description,
		&m.Quantity,
		&m.UnitPrice,
		&m.Amount,
	)
	return m, err
}

func queueItemInsert(batch *pgx.Batch, item domain.InvoiceItem) {
	itemQuery := `
		INSERT INTO invoice_items (item_id, invoice_id, description, quantity, unit_price, amount)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	batch.Queue(itemQuery,
		item.ItemID,
		item.InvoiceID,
		item.Description,
		item.Quantity,
		item.UnitPrice,
		item.Amount,
	)
}

// SaveInvoice persists an invoice header and its items within a transaction.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	headerQuery := `
		INSERT INTO invoices (invoice_id, invoice_number, customer_ref, customer_name, invoice_date, due_date, currency_code, subtotal, tax_amount, total_amount, status, journal_entry_id, notes, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err = tx.Exec(ctx, headerQuery,
		invoice.InvoiceID,
		invoice.InvoiceNumber,
		invoice.CustomerRef,
		invoice.CustomerName,
		invoice.InvoiceDate,
		invoice.DueDate,
		invoice.CurrencyCode,
		invoice.Subtotal,
		invoice.TaxAmount,
		invoice.TotalAmount,
		string(invoice.Status),
		invoice.JournalEntryID,
		invoice.Notes,
		invoice.CreatedAt,
		invoice.CreatedBy,
		invoice.LastUpdatedAt,
		invoice.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: invoice number %s already exists", apperrors.ErrDuplicate, invoice.InvoiceNumber)
		}
		return fmt.Errorf("failed to save invoice %s: %w", invoice.InvoiceID, err)
	}

	batch := &pgx.Batch{}
	for _, item := range invoice.Items {
		queueItemInsert(batch, item)
	}
	br := tx.SendBatch(ctx, batch)
	for range invoice.Items {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("failed to save items for invoice %s: %w", invoice.InvoiceID, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close item batch for invoice %s: %w", invoice.InvoiceID, err)
	}

	return r.Commit(ctx, tx)
}

// UpdateInvoice updates an invoice header and replaces its items within a transaction.
func (r *PgxInvoiceRepository) UpdateInvoice(ctx context.Context, invoice domain.Invoice) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	headerQuery := `
		UPDATE invoices
		SET customer_ref = $2, customer_name = $3, invoice_date = $4, due_date = $5, subtotal = $6, tax_amount = $7, total_amount = $8, notes = $9, last_updated_at = $10, last_updated_by = $11
		WHERE invoice_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, headerQuery,
		invoice.InvoiceID,
		invoice.CustomerRef,
		invoice.CustomerName,
		invoice.InvoiceDate,
		invoice.DueDate,
		invoice.Subtotal,
		invoice.TaxAmount,
		invoice.TotalAmount,
		invoice.Notes,
		invoice.LastUpdatedAt,
		invoice.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update invoice %s: %w", invoice.InvoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, invoice.InvoiceID)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1;`, invoice.InvoiceID); err != nil {
		return fmt.Errorf("failed to clear items for invoice %s: %w", invoice.InvoiceID, err)
	}

	batch := &pgx.Batch{}
	for _, item := range invoice.Items {
		queueItemInsert(batch, item)
	}
	br := tx.SendBatch(ctx, batch)
	for range invoice.Items {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("failed to save items for invoice %s: %w", invoice.InvoiceID, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close item batch for invoice %s: %w", invoice.InvoiceID, err)
	}

	return r.Commit(ctx, tx)
}

// UpdateInvoiceStatus transitions an invoice to a new status, optionally
// linking the journal entry generated for it.
func (r *PgxInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus, journalEntryID *string, userID string, now time.Time) error {
	query := `
		UPDATE invoices
		SET status = $2, journal_entry_id = COALESCE($3, journal_entry_id), last_updated_at = $4, last_updated_by = $5
		WHERE invoice_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, invoiceID, string(status), journalEntryID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update status of invoice %s: %w", invoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, invoiceID)
	}
	return nil
}

// NextInvoiceNumber atomically increments and returns the counter for an
// invoice number prefix. Shares the sequence table with journal entries;
// prefixes keep the two apart.
func (r *PgxInvoiceRepository) NextInvoiceNumber(ctx context.Context, prefix string) (int, error) {
	query := `
		INSERT INTO entry_sequences (prefix, last_number)
		VALUES ($1, 1)
		ON CONFLICT (prefix) DO UPDATE SET last_number = entry_sequences.last_number + 1
		RETURNING last_number;
	`
	var next int
	if err := r.Pool.QueryRow(ctx, query, prefix).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to advance invoice sequence %s: %w", prefix, err)
	}
	return next, nil
}

// FindInvoiceByID retrieves an invoice header by ID.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1;`

	m, err := scanInvoice(r.Pool.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, invoiceID)
		}
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	inv := toDomainInvoice(m)
	return &inv, nil
}

// FindInvoiceByNumber retrieves an invoice header by its invoice number.
func (r *PgxInvoiceRepository) FindInvoiceByNumber(ctx context.Context, invoiceNumber string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_number = $1;`

	m, err := scanInvoice(r.Pool.QueryRow(ctx, query, invoiceNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, invoiceNumber)
		}
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceNumber, err)
	}
	inv := toDomainInvoice(m)
	return &inv, nil
}

// FindItemsByInvoiceID retrieves the item lines of an invoice.
func (r *PgxInvoiceRepository) FindItemsByInvoiceID(ctx context.Context, invoiceID string) ([]domain.InvoiceItem, error) {
	query := `SELECT ` + invoiceItemColumns + ` FROM invoice_items WHERE invoice_id = $1 ORDER BY item_id;`

	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items for invoice %s: %w", invoiceID, err)
	}
	defer rows.Close()

	var items []domain.InvoiceItem
	for rows.Next() {
		m, err := scanInvoiceItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice item row: %w", err)
		}
		items = append(items, toDomainInvoiceItem(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice item rows: %w", err)
	}
	return items, nil
}

func (r *PgxInvoiceRepository) listInvoices(ctx context.Context, query string, args ...any) ([]domain.Invoice, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		m, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		invoices = append(invoices, toDomainInvoice(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice rows: %w", err)
	}
	return invoices, nil
}

// ListInvoices retrieves a page of invoice headers, newest invoice date first,
// using token-based pagination over (invoice_date, created_at).
func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, status *domain.InvoiceStatus, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	fetchLimit := limit + 1 // Fetch one extra to detect the next page

	var args []any
	conditions := ""
	if status != nil {
		args = append(args, string(*status))
		conditions += ` AND status = $` + strconv.Itoa(len(args))
	}
	if nextToken != nil && *nextToken != "" {
		invoiceDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		args = append(args, invoiceDate, createdAt)
		conditions += ` AND (invoice_date, created_at) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}
	args = append(args, fetchLimit)

	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE TRUE` + conditions + `
		ORDER BY invoice_date DESC, created_at DESC
		LIMIT $` + strconv.Itoa(len(args)) + `;
	`

	invoices, err := r.listInvoices(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}

	var newNextToken *string
	if len(invoices) > limit {
		invoices = invoices[:limit]
		lastItem := invoices[limit-1]
		token := pagination.EncodeToken(lastItem.InvoiceDate, lastItem.CreatedAt)
		newNextToken = &token
	}
	return invoices, newNextToken, nil
}

// ListOverdueInvoices retrieves sent invoices whose due date is strictly before asOf.
func (r *PgxInvoiceRepository) ListOverdueInvoices(ctx context.Context, asOf time.Time) ([]domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE status = 'SENT' AND due_date < $1
		ORDER BY due_date;
	`
	return r.listInvoices(ctx, query, asOf)
}

// SumTotalByStatus returns the summed total amount of invoices in a status.
func (r *PgxInvoiceRepository) SumTotalByStatus(ctx context.Context, status domain.InvoiceStatus) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.Pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(total_amount), 0) FROM invoices WHERE status = $1;`,
		string(status),
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum %s invoices: %w", status, err)
	}
	return total, nil
}
