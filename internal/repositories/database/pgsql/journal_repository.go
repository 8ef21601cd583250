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

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entry data.
func newPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryWithTx
var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

const entryColumns = `entry_id, entry_number, entry_date, description, reference, status, posted_at, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, account_id, debit_amount, credit_amount, currency_code, exchange_rate, description`

// lineWithEntryColumns joins in the owning entry's header fields for
// per-account listings.
const lineWithEntryColumns = `l.line_id, l.entry_id, l.account_id, l.debit_amount, l.credit_amount, l.currency_code, l.exchange_rate, l.description, e.entry_date, e.entry_number, e.description, e.reference`

func toDomainEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:     m.EntryID,
		EntryNumber: m.EntryNumber,
		EntryDate:   m.EntryDate,
		Description: m.Description,
		Reference:   m.Reference,
		Status:      domain.EntryStatus(m.Status),
		PostedAt:    m.PostedAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func toDomainLine(m models.JournalEntryLine) domain.JournalEntryLine {
	return domain.JournalEntryLine{
		LineID:       m.LineID,
		EntryID:      m.EntryID,
		AccountID:    m.AccountID,
		DebitAmount:  m.DebitAmount,
		CreditAmount: m.CreditAmount,
		CurrencyCode: m.CurrencyCode,
		ExchangeRate: m.ExchangeRate,
		Description:  m.Description,
	}
}

func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.EntryNumber,
		&m.EntryDate,
		&m.Description,
		&m.Reference,
		&m.Status,
		&m.PostedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanLine(row pgx.Row) (models.JournalEntryLine, error) {
	var m models.JournalEntryLine
	err := row.Scan(
		&m.LineID,
		&m.EntryID,
		&m.AccountID,
		&m.DebitAmount,
		&m.CreditAmount,
		&m.CurrencyCode,
		&m.ExchangeRate,
		&m.Description,
	)
	return m, err
}

func scanLineWithEntry(row pgx.Row) (domain.JournalEntryLine, error) {
	var m models.JournalEntryLine
	var entryDate time.Time
	var entryNumber, entryDescription, entryReference string
	err := row.Scan(
		&m.LineID,
		&m.EntryID,
		&m.AccountID,
		&m.DebitAmount,
		&m.CreditAmount,
		&m.CurrencyCode,
		&m.ExchangeRate,
		&m.Description,
		&entryDate,
		&entryNumber,
		&entryDescription,
		&entryReference,
	)
	if err != nil {
		return domain.JournalEntryLine{}, err
	}
	l := toDomainLine(m)
	l.EntryDate = entryDate
	l.EntryNumber = entryNumber
	l.EntryDescription = entryDescription
	l.EntryReference = entryReference
	return l, nil
}

func queueLineInsert(batch *pgx.Batch, line domain.JournalEntryLine) {
	lineQuery := `
		INSERT INTO journal_entry_lines (line_id, entry_id, account_id, debit_amount, credit_amount, currency_code, exchange_rate, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	batch.Queue(lineQuery,
		line.LineID,
		line.EntryID,
		line.AccountID,
		line.DebitAmount,
		line.CreditAmount,
		line.CurrencyCode,
		line.ExchangeRate,
		line.Description,
	)
}

// SaveEntry persists a journal entry header and its lines within a transaction.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	headerQuery := `
		INSERT INTO journal_entries (entry_id, entry_number, entry_date, description, reference, status, posted_at, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, headerQuery,
		entry.EntryID,
		entry.EntryNumber,
		entry.EntryDate,
		entry.Description,
		entry.Reference,
		string(entry.Status),
		entry.PostedAt,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: entry number %s already exists", apperrors.ErrDuplicate, entry.EntryNumber)
		}
		return fmt.Errorf("failed to save journal entry %s: %w", entry.EntryID, err)
	}

	batch := &pgx.Batch{}
	for _, line := range entry.Lines {
		queueLineInsert(batch, line)
	}
	br := tx.SendBatch(ctx, batch)
	for range entry.Lines {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("failed to save lines for entry %s: %w", entry.EntryID, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close line batch for entry %s: %w", entry.EntryID, err)
	}

	return r.Commit(ctx, tx)
}

// UpdateEntry updates an entry header and replaces its lines within a transaction.
func (r *PgxJournalRepository) UpdateEntry(ctx context.Context, entry domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	headerQuery := `
		UPDATE journal_entries
		SET entry_date = $2, description = $3, reference = $4, last_updated_at = $5, last_updated_by = $6
		WHERE entry_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, headerQuery,
		entry.EntryID,
		entry.EntryDate,
		entry.Description,
		entry.Reference,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update journal entry %s: %w", entry.EntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entry.EntryID)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM journal_entry_lines WHERE entry_id = $1;`, entry.EntryID); err != nil {
		return fmt.Errorf("failed to clear lines for entry %s: %w", entry.EntryID, err)
	}

	batch := &pgx.Batch{}
	for _, line := range entry.Lines {
		queueLineInsert(batch, line)
	}
	br := tx.SendBatch(ctx, batch)
	for range entry.Lines {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("failed to save lines for entry %s: %w", entry.EntryID, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close line batch for entry %s: %w", entry.EntryID, err)
	}

	return r.Commit(ctx, tx)
}

// UpdateEntryStatus transitions an entry to a new status.
func (r *PgxJournalRepository) UpdateEntryStatus(ctx context.Context, entryID string, status domain.EntryStatus, postedAt *time.Time, userID string, now time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = $2, posted_at = COALESCE($3, posted_at), last_updated_at = $4, last_updated_by = $5
		WHERE entry_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, entryID, string(status), postedAt, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update status of entry %s: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
	}
	return nil
}

// DeleteEntry removes an entry and its lines. Line rows cascade on the FK.
func (r *PgxJournalRepository) DeleteEntry(ctx context.Context, entryID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1;`, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete journal entry %s: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
	}
	return nil
}

// NextEntryNumber atomically increments and returns the counter for a number
// prefix. The single upsert statement needs no surrounding transaction;
// sequence gaps from rolled-back callers are acceptable.
func (r *PgxJournalRepository) NextEntryNumber(ctx context.Context, prefix string) (int, error) {
	query := `
		INSERT INTO entry_sequences (prefix, last_number)
		VALUES ($1, 1)
		ON CONFLICT (prefix) DO UPDATE SET last_number = entry_sequences.last_number + 1
		RETURNING last_number;
	`
	var next int
	if err := r.Pool.QueryRow(ctx, query, prefix).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to advance entry sequence %s: %w", prefix, err)
	}
	return next, nil
}

// FindEntryByID retrieves a journal entry header by ID.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`

	m, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	entry := toDomainEntry(m)
	return &entry, nil
}

// FindEntryByNumber retrieves a journal entry header by its entry number.
func (r *PgxJournalRepository) FindEntryByNumber(ctx context.Context, entryNumber string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_number = $1;`

	m, err := scanEntry(r.Pool.QueryRow(ctx, query, entryNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryNumber)
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryNumber, err)
	}
	entry := toDomainEntry(m)
	return &entry, nil
}

// ListEntries retrieves a page of entry headers, newest entry date first,
// using token-based pagination over (entry_date, created_at).
func (r *PgxJournalRepository) ListEntries(ctx context.Context, status *domain.EntryStatus, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	fetchLimit := limit + 1 // Fetch one extra to detect the next page

	var args []any
	conditions := ""
	if status != nil {
		args = append(args, string(*status))
		conditions += ` AND status = $` + strconv.Itoa(len(args))
	}
	if nextToken != nil && *nextToken != "" {
		entryDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		args = append(args, entryDate, createdAt)
		conditions += ` AND (entry_date, created_at) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}
	args = append(args, fetchLimit)

	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE TRUE` + conditions + `
		ORDER BY entry_date DESC, created_at DESC
		LIMIT $` + strconv.Itoa(len(args)) + `;
	`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		entries = append(entries, toDomainEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating journal entry rows: %w", err)
	}

	var newNextToken *string
	if len(entries) > limit {
		entries = entries[:limit]
		lastItem := entries[limit-1]
		token := pagination.EncodeToken(lastItem.EntryDate, lastItem.CreatedAt)
		newNextToken = &token
	}
	return entries, newNextToken, nil
}

// CountEntriesByStatus counts entries in the given status.
func (r *PgxJournalRepository) CountEntriesByStatus(ctx context.Context, status domain.EntryStatus) (int, error) {
	var count int
	err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM journal_entries WHERE status = $1;`, string(status)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s entries: %w", status, err)
	}
	return count, nil
}

// FindLineByID retrieves a single line by ID.
func (r *PgxJournalRepository) FindLineByID(ctx context.Context, lineID string) (*domain.JournalEntryLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_entry_lines WHERE line_id = $1;`

	m, err := scanLine(r.Pool.QueryRow(ctx, query, lineID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: journal line %s", apperrors.ErrNotFound, lineID)
		}
		return nil, fmt.Errorf("failed to find journal line %s: %w", lineID, err)
	}
	line := toDomainLine(m)
	return &line, nil
}

// FindLinesByEntryID retrieves the lines of one entry in insertion order.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_entry_lines WHERE entry_id = $1 ORDER BY line_id;`

	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entry %s: %w", entryID, err)
	}
	defer rows.Close()

	var lines []domain.JournalEntryLine
	for rows.Next() {
		m, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal line row: %w", err)
		}
		lines = append(lines, toDomainLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal line rows: %w", err)
	}
	return lines, nil
}

// FindLinesByEntryIDs retrieves lines for multiple entries, grouped by entry ID.
func (r *PgxJournalRepository) FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalEntryLine, error) {
	if len(entryIDs) == 0 {
		return map[string][]domain.JournalEntryLine{}, nil
	}

	query := `SELECT ` + lineColumns + ` FROM journal_entry_lines WHERE entry_id = ANY($1) ORDER BY entry_id, line_id;`

	rows, err := r.Pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entries: %w", err)
	}
	defer rows.Close()

	lines := make(map[string][]domain.JournalEntryLine, len(entryIDs))
	for rows.Next() {
		m, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal line row: %w", err)
		}
		lines[m.EntryID] = append(lines[m.EntryID], toDomainLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal line rows: %w", err)
	}
	return lines, nil
}

func (r *PgxJournalRepository) listPostedLines(ctx context.Context, query string, args ...any) ([]domain.JournalEntryLine, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posted lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.JournalEntryLine
	for rows.Next() {
		line, err := scanLineWithEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan posted line row: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posted line rows: %w", err)
	}
	return lines, nil
}

// FindPostedLinesByAccount retrieves every posted line hitting the account.
func (r *PgxJournalRepository) FindPostedLinesByAccount(ctx context.Context, accountID string) ([]domain.JournalEntryLine, error) {
	query := `
		SELECT ` + lineWithEntryColumns + `
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.account_id = $1 AND e.status = 'POSTED'
		ORDER BY e.entry_date, e.entry_number, l.line_id;
	`
	return r.listPostedLines(ctx, query, accountID)
}

// FindPostedLinesByAccountBetween retrieves posted lines for the account whose
// entry date falls within [startDate, endDate].
func (r *PgxJournalRepository) FindPostedLinesByAccountBetween(ctx context.Context, accountID string, startDate, endDate time.Time) ([]domain.JournalEntryLine, error) {
	query := `
		SELECT ` + lineWithEntryColumns + `
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.account_id = $1 AND e.status = 'POSTED' AND e.entry_date BETWEEN $2 AND $3
		ORDER BY e.entry_date, e.entry_number, l.line_id;
	`
	return r.listPostedLines(ctx, query, accountID, startDate, endDate)
}

func (r *PgxJournalRepository) sumPostedLines(ctx context.Context, query string, args ...any) (debit, credit decimal.Decimal, err error) {
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(&debit, &credit); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum posted lines: %w", err)
	}
	return debit, credit, nil
}

// SumPostedByAccount returns total posted debit and credit amounts for an account.
func (r *PgxJournalRepository) SumPostedByAccount(ctx context.Context, accountID string) (debit, credit decimal.Decimal, err error) {
	query := `
		SELECT COALESCE(SUM(l.debit_amount), 0), COALESCE(SUM(l.credit_amount), 0)
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.account_id = $1 AND e.status = 'POSTED';
	`
	return r.sumPostedLines(ctx, query, accountID)
}

// SumPostedByAccountBefore returns posted totals for entries dated strictly before cutoff.
func (r *PgxJournalRepository) SumPostedByAccountBefore(ctx context.Context, accountID string, cutoff time.Time) (debit, credit decimal.Decimal, err error) {
	query := `
		SELECT COALESCE(SUM(l.debit_amount), 0), COALESCE(SUM(l.credit_amount), 0)
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.account_id = $1 AND e.status = 'POSTED' AND e.entry_date < $2;
	`
	return r.sumPostedLines(ctx, query, accountID, cutoff)
}

// SumPostedByAccountBetween returns posted totals for entries dated within [startDate, endDate].
func (r *PgxJournalRepository) SumPostedByAccountBetween(ctx context.Context, accountID string, startDate, endDate time.Time) (debit, credit decimal.Decimal, err error) {
	query := `
		SELECT COALESCE(SUM(l.debit_amount), 0), COALESCE(SUM(l.credit_amount), 0)
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.account_id = $1 AND e.status = 'POSTED' AND e.entry_date BETWEEN $2 AND $3;
	`
	return r.sumPostedLines(ctx, query, accountID, startDate, endDate)
}
