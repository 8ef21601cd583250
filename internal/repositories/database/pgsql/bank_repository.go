package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/glbooks/accounting_backend/internal/apperrors"
	"github.com/glbooks/accounting_backend/internal/core/domain"
	portsrepo "github.com/glbooks/accounting_backend/internal/core/ports/repositories"
	"github.com/glbooks/accounting_backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxBankRepository struct {
	BaseRepository
}

// newPgxBankRepository creates a new repository for bank account and
// statement data.
func newPgxBankRepository(pool *pgxpool.Pool) *PgxBankRepository {
	return &PgxBankRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxBankRepository implements portsrepo.BankRepositoryWithTx
var _ portsrepo.BankRepositoryWithTx = (*PgxBankRepository)(nil)

const bankAccountColumns = `bank_account_id, name, bank_name, account_number, gl_account_id, currency_code, opening_balance, current_balance, is_active, created_at, created_by, last_updated_at, last_updated_by`

const statementColumns = `statement_id, bank_account_id, statement_date, transaction_date, description, reference, debit_amount, credit_amount, is_reconciled, matched_journal_line_id, imported_at`

func toDomainBankAccount(m models.BankAccount) domain.BankAccount {
	return domain.BankAccount{
		BankAccountID:  m.BankAccountID,
		Name:           m.Name,
		BankName:       m.BankName,
		AccountNumber:  m.AccountNumber,
		GLAccountID:    m.GLAccountID,
		CurrencyCode:   m.CurrencyCode,
		OpeningBalance: m.OpeningBalance,
		CurrentBalance: m.CurrentBalance,
		IsActive:       m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func toDomainStatement(m models.BankStatementLine) domain.BankStatementLine {
	return domain.BankStatementLine{
		StatementID:          m.StatementID,
		BankAccountID:        m.BankAccountID,
		StatementDate:        m.StatementDate,
		TransactionDate:      m.TransactionDate,
		Description:          m.Description,
		Reference:            m.Reference,
		DebitAmount:          m.DebitAmount,
		CreditAmount:         m.CreditAmount,
		IsReconciled:         m.IsReconciled,
		MatchedJournalLineID: m.MatchedJournalLineID,
		ImportedAt:           m.ImportedAt,
	}
}

func scanBankAccount(row pgx.Row) (models.BankAccount, error) {
	var m models.BankAccount
	var glAccountID sql.NullString

	err := row.Scan(
		&m.BankAccountID,
		&m.Name,
		&m.BankName,
		&m.AccountNumber,
		&glAccountID,
		&m.CurrencyCode,
		&m.OpeningBalance,
		&m.CurrentBalance,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.BankAccount{}, err
	}
	if glAccountID.Valid {
		m.GLAccountID = glAccountID.String
	}
	return m, nil
}

func scanStatement(row pgx.Row) (models.BankStatementLine, error) {
	var m models.BankStatementLine
	err := row.Scan(
		&m.StatementID,
		&m.BankAccountID,
		&m.StatementDate,
		&m.TransactionDate,
		&m.Description,
		&m.Reference,
		&m.DebitAmount,
		&m.CreditAmount,
		&m.IsReconciled,
		&m.MatchedJournalLineID,
		&m.ImportedAt,
	)
	return m, err
}

// SaveBankAccount persists a new bank account.
func (r *PgxBankRepository) SaveBankAccount(ctx context.Context, bankAccount domain.BankAccount) error {
	query := `
		INSERT INTO bank_accounts (bank_account_id, name, bank_name, account_number, gl_account_id, currency_code, opening_balance, current_balance, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	var glAccountID sql.NullString
	if bankAccount.GLAccountID != "" {
		glAccountID = sql.NullString{String: bankAccount.GLAccountID, Valid: true}
	}

	_, err := r.Pool.Exec(ctx, query,
		bankAccount.BankAccountID,
		bankAccount.Name,
		bankAccount.BankName,
		bankAccount.AccountNumber,
		glAccountID,
		bankAccount.CurrencyCode,
		bankAccount.OpeningBalance,
		bankAccount.CurrentBalance,
		bankAccount.IsActive,
		bankAccount.CreatedAt,
		bankAccount.CreatedBy,
		bankAccount.LastUpdatedAt,
		bankAccount.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: bank account %s already exists", apperrors.ErrDuplicate, bankAccount.Name)
		}
		return fmt.Errorf("failed to save bank account %s: %w", bankAccount.BankAccountID, err)
	}
	return nil
}

// FindBankAccountByID retrieves a bank account by ID.
func (r *PgxBankRepository) FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE bank_account_id = $1;`

	m, err := scanBankAccount(r.Pool.QueryRow(ctx, query, bankAccountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: bank account %s", apperrors.ErrNotFound, bankAccountID)
		}
		return nil, fmt.Errorf("failed to find bank account %s: %w", bankAccountID, err)
	}
	acc := toDomainBankAccount(m)
	return &acc, nil
}

// ListBankAccounts retrieves bank accounts ordered by name.
func (r *PgxBankRepository) ListBankAccounts(ctx context.Context, activeOnly bool) ([]domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query bank accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.BankAccount
	for rows.Next() {
		m, err := scanBankAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank account row: %w", err)
		}
		accounts = append(accounts, toDomainBankAccount(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bank account rows: %w", err)
	}
	return accounts, nil
}

// UpdateBankAccount updates an existing bank account's details.
func (r *PgxBankRepository) UpdateBankAccount(ctx context.Context, bankAccount domain.BankAccount) error {
	query := `
		UPDATE bank_accounts
		SET name = $2, bank_name = $3, account_number = $4, is_active = $5, last_updated_at = $6, last_updated_by = $7
		WHERE bank_account_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		bankAccount.BankAccountID,
		bankAccount.Name,
		bankAccount.BankName,
		bankAccount.AccountNumber,
		bankAccount.IsActive,
		bankAccount.LastUpdatedAt,
		bankAccount.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update bank account %s: %w", bankAccount.BankAccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: bank account %s", apperrors.ErrNotFound, bankAccount.BankAccountID)
	}
	return nil
}

// ApplyStatementReconciliation records or clears the match on a statement line
// and refreshes the owning bank account's derived balance, both within one
// transaction. A failure on either side leaves neither applied.
func (r *PgxBankRepository) ApplyStatementReconciliation(ctx context.Context, statementID string, matchedJournalLineID *string, reconciled bool, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	flipQuery := `
		UPDATE bank_statement_lines
		SET is_reconciled = $2, matched_journal_line_id = $3
		WHERE statement_id = $1
		RETURNING bank_account_id;
	`
	var bankAccountID string
	if err := tx.QueryRow(ctx, flipQuery, statementID, reconciled, matchedJournalLineID).Scan(&bankAccountID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: statement line %s", apperrors.ErrNotFound, statementID)
		}
		return fmt.Errorf("failed to set reconciliation of statement %s: %w", statementID, err)
	}

	// Full re-sum of reconciled lines keeps the balance correct even after
	// out-of-order reconcile and unreconcile operations.
	balanceQuery := `
		UPDATE bank_accounts
		SET current_balance = opening_balance + (
			SELECT COALESCE(SUM(credit_amount - debit_amount), 0)
			FROM bank_statement_lines
			WHERE bank_account_id = $1 AND is_reconciled = TRUE
		), last_updated_at = $2, last_updated_by = $3
		WHERE bank_account_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, balanceQuery, bankAccountID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to refresh balance of bank account %s: %w", bankAccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: bank account %s", apperrors.ErrNotFound, bankAccountID)
	}

	return r.Commit(ctx, tx)
}

// SaveStatements persists a batch of imported statement lines within a
// transaction so a failed import leaves nothing behind.
func (r *PgxBankRepository) SaveStatements(ctx context.Context, statements []domain.BankStatementLine) error {
	if len(statements) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	insertQuery := `
		INSERT INTO bank_statement_lines (statement_id, bank_account_id, statement_date, transaction_date, description, reference, debit_amount, credit_amount, is_reconciled, matched_journal_line_id, imported_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	batch := &pgx.Batch{}
	for _, s := range statements {
		batch.Queue(insertQuery,
			s.StatementID,
			s.BankAccountID,
			s.StatementDate,
			s.TransactionDate,
			s.Description,
			s.Reference,
			s.DebitAmount,
			s.CreditAmount,
			s.IsReconciled,
			s.MatchedJournalLineID,
			s.ImportedAt,
		)
	}
	br := tx.SendBatch(ctx, batch)
	for range statements {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("failed to save statement lines: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close statement batch: %w", err)
	}

	return r.Commit(ctx, tx)
}

// FindStatementByID retrieves a statement line by ID.
func (r *PgxBankRepository) FindStatementByID(ctx context.Context, statementID string) (*domain.BankStatementLine, error) {
	query := `SELECT ` + statementColumns + ` FROM bank_statement_lines WHERE statement_id = $1;`

	m, err := scanStatement(r.Pool.QueryRow(ctx, query, statementID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: statement line %s", apperrors.ErrNotFound, statementID)
		}
		return nil, fmt.Errorf("failed to find statement line %s: %w", statementID, err)
	}
	s := toDomainStatement(m)
	return &s, nil
}

func (r *PgxBankRepository) listStatements(ctx context.Context, query string, args ...any) ([]domain.BankStatementLine, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query statement lines: %w", err)
	}
	defer rows.Close()

	var statements []domain.BankStatementLine
	for rows.Next() {
		m, err := scanStatement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan statement line row: %w", err)
		}
		statements = append(statements, toDomainStatement(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating statement line rows: %w", err)
	}
	return statements, nil
}

// ListStatementsByBankAccount retrieves all statement lines for a bank account.
func (r *PgxBankRepository) ListStatementsByBankAccount(ctx context.Context, bankAccountID string) ([]domain.BankStatementLine, error) {
	query := `
		SELECT ` + statementColumns + `
		FROM bank_statement_lines
		WHERE bank_account_id = $1
		ORDER BY transaction_date, imported_at;
	`
	return r.listStatements(ctx, query, bankAccountID)
}

// ListUnreconciledStatements retrieves unmatched statement lines for a bank account.
func (r *PgxBankRepository) ListUnreconciledStatements(ctx context.Context, bankAccountID string) ([]domain.BankStatementLine, error) {
	query := `
		SELECT ` + statementColumns + `
		FROM bank_statement_lines
		WHERE bank_account_id = $1 AND is_reconciled = FALSE
		ORDER BY transaction_date, imported_at;
	`
	return r.listStatements(ctx, query, bankAccountID)
}

// ListStatementsByDateRange retrieves statement lines within [startDate, endDate].
func (r *PgxBankRepository) ListStatementsByDateRange(ctx context.Context, bankAccountID string, startDate, endDate time.Time) ([]domain.BankStatementLine, error) {
	query := `
		SELECT ` + statementColumns + `
		FROM bank_statement_lines
		WHERE bank_account_id = $1 AND transaction_date BETWEEN $2 AND $3
		ORDER BY transaction_date, imported_at;
	`
	return r.listStatements(ctx, query, bankAccountID, startDate, endDate)
}

// SumReconciledNet sums credit minus debit over reconciled statement lines.
func (r *PgxBankRepository) SumReconciledNet(ctx context.Context, bankAccountID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(credit_amount - debit_amount), 0)
		FROM bank_statement_lines
		WHERE bank_account_id = $1 AND is_reconciled = TRUE;
	`
	var net decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, bankAccountID).Scan(&net); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum reconciled statements for bank account %s: %w", bankAccountID, err)
	}
	return net, nil
}

// CountUnreconciled counts unmatched statement lines for a bank account.
func (r *PgxBankRepository) CountUnreconciled(ctx context.Context, bankAccountID string) (int, error) {
	var count int
	err := r.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM bank_statement_lines WHERE bank_account_id = $1 AND is_reconciled = FALSE;`,
		bankAccountID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unreconciled statements for bank account %s: %w", bankAccountID, err)
	}
	return count, nil
}

