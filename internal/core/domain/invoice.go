package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus indicates the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "DRAFT"
	InvoiceSent      InvoiceStatus = "SENT"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceOverdue   InvoiceStatus = "OVERDUE"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

// Invoice is a customer invoice. Sending it posts an AR/revenue journal
// entry; marking it paid posts a cash/AR entry. The customer itself is an
// opaque reference, the core only needs a display name for entry
// descriptions.
type Invoice struct {
	InvoiceID      string          `json:"invoiceID"`     // Primary key (UUID)
	InvoiceNumber  string          `json:"invoiceNumber"` // Unique, INV-YYYYMM-NNNN
	CustomerRef    string          `json:"customerRef"`   // Opaque customer identity
	CustomerName   string          `json:"customerName"`
	InvoiceDate    time.Time       `json:"invoiceDate"`
	DueDate        time.Time       `json:"dueDate"`
	CurrencyCode   string          `json:"currencyCode"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	Status         InvoiceStatus   `json:"status"`
	JournalEntryID *string         `json:"journalEntryID,omitempty"` // Entry posted when sent
	Notes          string          `json:"notes"`
	Items          []InvoiceItem   `json:"items,omitempty"`
	AuditFields
}

// InvoiceItem is one billed line of an invoice, owned by it exclusively.
type InvoiceItem struct {
	ItemID      string          `json:"itemID"`
	InvoiceID   string          `json:"invoiceID"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      decimal.Decimal `json:"amount"` // Quantity * UnitPrice at scale 2
}

// CalculateTotals recomputes subtotal, per-item amounts and the grand total.
func (i *Invoice) CalculateTotals() {
	subtotal := decimal.Zero
	for idx := range i.Items {
		amount := i.Items[idx].Quantity.Mul(i.Items[idx].UnitPrice).Round(2)
		i.Items[idx].Amount = amount
		subtotal = subtotal.Add(amount)
	}
	i.Subtotal = subtotal
	i.TotalAmount = subtotal.Add(i.TaxAmount)
}

// IsPastDue reports whether the invoice's due date lies strictly before the
// given day.
func (i *Invoice) IsPastDue(today time.Time) bool {
	return !i.DueDate.IsZero() && i.DueDate.Before(today)
}
