package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus mirrors the domain entry status for DB storage.
type EntryStatus string

// JournalEntry is the DB representation of a journal entry header.
type JournalEntry struct {
	EntryID     string      `db:"entry_id"`
	EntryNumber string      `db:"entry_number"`
	EntryDate   time.Time   `db:"entry_date"`
	Description string      `db:"description"`
	Reference   string      `db:"reference"`
	Status      EntryStatus `db:"status"`
	PostedAt    *time.Time  `db:"posted_at"` // Nullable
	AuditFields
}

// JournalEntryLine is the DB representation of one entry line.
type JournalEntryLine struct {
	LineID       string          `db:"line_id"`
	EntryID      string          `db:"entry_id"`
	AccountID    string          `db:"account_id"`
	DebitAmount  decimal.Decimal `db:"debit_amount"`
	CreditAmount decimal.Decimal `db:"credit_amount"`
	CurrencyCode string          `db:"currency_code"`
	ExchangeRate decimal.Decimal `db:"exchange_rate"`
	Description  string          `db:"description"`
}
