package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntryLine is a single debit or credit against one account within a
// journal entry. Exactly one of DebitAmount/CreditAmount is positive.
type JournalEntryLine struct {
	LineID       string          `json:"lineID"`  // Primary key (UUID)
	EntryID      string          `json:"entryID"` // Owning entry (plain FK, no back pointer)
	AccountID    string          `json:"accountID"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	CurrencyCode string          `json:"currencyCode"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"` // Scale 6, 1 for base currency
	Description  string          `json:"description"`

	// Populated from the owning entry when lines are listed per account.
	EntryDate        time.Time `json:"entryDate,omitempty"`
	EntryNumber      string    `json:"entryNumber,omitempty"`
	EntryDescription string    `json:"entryDescription,omitempty"`
	EntryReference   string    `json:"entryReference,omitempty"`
}

// IsDebit reports whether the line carries a positive debit amount.
func (l JournalEntryLine) IsDebit() bool {
	return l.DebitAmount.IsPositive()
}

// IsCredit reports whether the line carries a positive credit amount.
func (l JournalEntryLine) IsCredit() bool {
	return l.CreditAmount.IsPositive()
}

// Amount returns whichever side of the line is populated.
func (l JournalEntryLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.DebitAmount
	}
	if l.IsCredit() {
		return l.CreditAmount
	}
	return decimal.Zero
}

// SignedAmount returns the line amount with debit positive and credit
// negative. Bank reconciliation compares this against a statement net amount.
func (l JournalEntryLine) SignedAmount() decimal.Decimal {
	if l.IsDebit() {
		return l.DebitAmount
	}
	return l.CreditAmount.Neg()
}
