package services

import (
	"context"

	"github.com/glbooks/accounting_backend/internal/core/domain"
	"github.com/glbooks/accounting_backend/internal/dto"
)

// JournalEntryReaderSvc defines read operations for journal entries
type JournalEntryReaderSvc interface {
	// GetEntryByID retrieves a journal entry with its lines.
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of journal entries.
	ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error)
}

// JournalEntryWriterSvc defines write operations for journal entries
type JournalEntryWriterSvc interface {
	// CreateEntry validates and persists a new draft journal entry with its lines,
	// assigning the next entry number.
	CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error)

	// UpdateEntry replaces the header fields and lines of a draft journal entry.
	UpdateEntry(ctx context.Context, entryID string, req dto.UpdateJournalEntryRequest, requestingUserID string) (*domain.JournalEntry, error)

	// PostEntry transitions a draft entry to posted after re-validating it.
	PostEntry(ctx context.Context, entryID string, requestingUserID string) (*domain.JournalEntry, error)

	// VoidEntry transitions a posted entry to void.
	VoidEntry(ctx context.Context, entryID string, requestingUserID string) (*domain.JournalEntry, error)

	// DeleteEntry removes a draft entry and its lines.
	DeleteEntry(ctx context.Context, entryID string, requestingUserID string) error
}

// JournalSvcFacade combines all journal-related service interfaces
// This is a facade for clients that need access to all operations
type JournalSvcFacade interface {
	JournalEntryReaderSvc
	JournalEntryWriterSvc
}
