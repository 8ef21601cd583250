package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the lifecycle state of a journal entry.
type EntryStatus string

const (
	Draft  EntryStatus = "DRAFT"
	Posted EntryStatus = "POSTED"
	Void   EntryStatus = "VOID"
)

// JournalEntry represents a single, balanced financial event composed of
// multiple lines. Lines are owned exclusively by their entry: they are stored
// keyed by entry ID and replaced as a set while the entry is a draft.
type JournalEntry struct {
	EntryID     string      `json:"entryID"`     // Primary key (UUID)
	EntryNumber string      `json:"entryNumber"` // Unique, JE-YYYYMM-NNNN, sequential within month
	EntryDate   time.Time   `json:"entryDate"`
	Description string      `json:"description"`
	Reference   string      `json:"reference"`
	Status      EntryStatus `json:"status"`
	PostedAt    *time.Time  `json:"postedAt,omitempty"` // Set once on DRAFT -> POSTED
	Lines       []JournalEntryLine `json:"lines,omitempty"`
	AuditFields
}

// TotalDebit sums the debit side of all lines.
func (e *JournalEntry) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.DebitAmount)
	}
	return total
}

// TotalCredit sums the credit side of all lines.
func (e *JournalEntry) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.CreditAmount)
	}
	return total
}

// IsBalanced reports whether debits equal credits exactly.
func (e *JournalEntry) IsBalanced() bool {
	return e.TotalDebit().Equal(e.TotalCredit())
}

func (e *JournalEntry) IsDraft() bool  { return e.Status == Draft }
func (e *JournalEntry) IsPosted() bool { return e.Status == Posted }
func (e *JournalEntry) IsVoid() bool   { return e.Status == Void }
