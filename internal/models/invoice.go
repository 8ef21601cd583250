package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus mirrors the domain invoice status for DB storage.
type InvoiceStatus string

// Invoice is the DB representation of an invoice header.
type Invoice struct {
	InvoiceID      string          `db:"invoice_id"`
	InvoiceNumber  string          `db:"invoice_number"`
	CustomerRef    string          `db:"customer_ref"`
	CustomerName   string          `db:"customer_name"`
	InvoiceDate    time.Time       `db:"invoice_date"`
	DueDate        time.Time       `db:"due_date"`
	CurrencyCode   string          `db:"currency_code"`
	Subtotal       decimal.Decimal `db:"subtotal"`
	TaxAmount      decimal.Decimal `db:"tax_amount"`
	TotalAmount    decimal.Decimal `db:"total_amount"`
	Status         InvoiceStatus   `db:"status"`
	JournalEntryID *string         `db:"journal_entry_id"` // Nullable
	Notes          string          `db:"notes"`
	AuditFields
}

// InvoiceItem is the DB representation of one billed invoice line.
type InvoiceItem struct {
	ItemID      string          `db:"item_id"`
	InvoiceID   string          `db:"invoice_id"`
	Description string          `db:"description"`
	Quantity    decimal.Decimal `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	Amount      decimal.Decimal `db:"amount"`
}
