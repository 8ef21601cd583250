package repositories

import (
	"context"
	"time"

	"github.com/glbooks/accounting_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalEntryReader defines read operations for journal entry headers
type JournalEntryReader interface {
	// FindEntryByID retrieves a journal entry header by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindEntryByNumber retrieves a journal entry header by its human-readable entry number.
	FindEntryByNumber(ctx context.Context, entryNumber string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of journal entries using token-based pagination,
	// newest entry date first. A nil status returns entries in every status.
	// It returns the entries, a token for the next page, and an error.
	ListEntries(ctx context.Context, status *domain.EntryStatus, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)

	// CountEntriesByStatus counts journal entries in the given status.
	CountEntriesByStatus(ctx context.Context, status domain.EntryStatus) (int, error)
}

// JournalEntryWriter defines write operations for journal entries
type JournalEntryWriter interface {
	// SaveEntry persists a journal entry header and its lines within a transaction.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error

	// UpdateEntry updates a journal entry header and replaces its lines within a transaction.
	// Only draft entries may be updated; callers enforce the status rule.
	UpdateEntry(ctx context.Context, entry domain.JournalEntry) error

	// UpdateEntryStatus transitions a journal entry to a new status, recording postedAt when set.
	UpdateEntryStatus(ctx context.Context, entryID string, status domain.EntryStatus, postedAt *time.Time, userID string, now time.Time) error

	// DeleteEntry removes a journal entry and its lines.
	DeleteEntry(ctx context.Context, entryID string) error

	// NextEntryNumber atomically increments and returns the sequence counter for an
	// entry number prefix such as "JE-202608".
	NextEntryNumber(ctx context.Context, prefix string) (int, error)
}

// JournalLineReader defines read operations for journal entry lines
type JournalLineReader interface {
	// FindLineByID retrieves a single journal entry line by its identifier.
	FindLineByID(ctx context.Context, lineID string) (*domain.JournalEntryLine, error)

	// FindLinesByEntryID retrieves all lines belonging to a journal entry, in insertion order.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error)

	// FindLinesByEntryIDs retrieves lines for multiple journal entries, grouped by entry ID.
	FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalEntryLine, error)

	// FindPostedLinesByAccount retrieves every line of a posted entry hitting the account,
	// ordered by entry date, then entry number, then line ID.
	FindPostedLinesByAccount(ctx context.Context, accountID string) ([]domain.JournalEntryLine, error)

	// FindPostedLinesByAccountBetween retrieves posted lines for the account whose entry
	// date falls within [startDate, endDate], in the same ordering.
	FindPostedLinesByAccountBetween(ctx context.Context, accountID string, startDate, endDate time.Time) ([]domain.JournalEntryLine, error)

	// SumPostedByAccount returns the total posted debit and credit amounts for an account.
	SumPostedByAccount(ctx context.Context, accountID string) (debit, credit decimal.Decimal, err error)

	// SumPostedByAccountBefore returns posted debit and credit totals for entries dated strictly before cutoff.
	SumPostedByAccountBefore(ctx context.Context, accountID string, cutoff time.Time) (debit, credit decimal.Decimal, err error)

	// SumPostedByAccountBetween returns posted debit and credit totals for entries dated within [startDate, endDate].
	SumPostedByAccountBetween(ctx context.Context, accountID string, startDate, endDate time.Time) (debit, credit decimal.Decimal, err error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
// This is a facade for clients that need access to all operations
type JournalRepositoryFacade interface {
	JournalEntryReader
	JournalEntryWriter
	JournalLineReader
}

// JournalRepositoryWithTx extends JournalRepositoryFacade with transaction capabilities
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TransactionManager
}
