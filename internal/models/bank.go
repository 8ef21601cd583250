package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankAccount is the DB representation of a bank account.
type BankAccount struct {
	BankAccountID  string          `db:"bank_account_id"`
	Name           string          `db:"name"`
	BankName       string          `db:"bank_name"`
	AccountNumber  string          `db:"account_number"`
	GLAccountID    string          `db:"gl_account_id"` // Nullable
	CurrencyCode   string          `db:"currency_code"`
	OpeningBalance decimal.Decimal `db:"opening_balance"`
	CurrentBalance decimal.Decimal `db:"current_balance"`
	IsActive       bool            `db:"is_active"`
	AuditFields
}

// BankStatementLine is the DB representation of an imported statement line.
type BankStatementLine struct {
	StatementID          string          `db:"statement_id"`
	BankAccountID        string          `db:"bank_account_id"`
	StatementDate        time.Time       `db:"statement_date"`
	TransactionDate      time.Time       `db:"transaction_date"`
	Description          string          `db:"description"`
	Reference            string          `db:"reference"`
	DebitAmount          decimal.Decimal `db:"debit_amount"`
	CreditAmount         decimal.Decimal `db:"credit_amount"`
	IsReconciled         bool            `db:"is_reconciled"`
	MatchedJournalLineID *string         `db:"matched_journal_line_id"` // Nullable
	ImportedAt           time.Time       `db:"imported_at"`
}
