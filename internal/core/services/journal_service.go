package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/glbooks/accounting_backend/internal/apperrors"
	"github.com/glbooks/accounting_backend/internal/core/domain"
	portsrepo "github.com/glbooks/accounting_backend/internal/core/ports/repositories"
	portssvc "github.com/glbooks/accounting_backend/internal/core/ports/services"
	"github.com/glbooks/accounting_backend/internal/dto"
	"github.com/glbooks/accounting_backend/internal/middleware"
)

var (
	ErrEntryUnbalanced = errors.New("journal entry must balance")
	ErrEntryMinLines   = errors.New("journal entry must have at least two lines (debit and credit)")
	ErrEntryZeroTotal  = errors.New("journal entry total cannot be zero")
	ErrLineNoSide      = errors.New("each line must have either a debit or credit amount")
	ErrLineBothSides   = errors.New("a line cannot have both debit and credit amounts")
)

const entryNumberPrefix = "JE"

// journalService provides journal entry lifecycle and validation operations.
type journalService struct {
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountReader
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountReader) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
	}
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// validateEntry enforces the double-entry rules on an entry and its lines.
// The same checks run on creation, on every draft update, and again on posting.
func (s *journalService) validateEntry(ctx context.Context, entry *domain.JournalEntry) error {
	if len(entry.Lines) < 2 {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrEntryMinLines)
	}

	accountIDs := make([]string, 0, len(entry.Lines))
	for _, line := range entry.Lines {
		if line.DebitAmount.IsNegative() || line.CreditAmount.IsNegative() {
			return fmt.Errorf("%w: line amounts cannot be negative", apperrors.ErrValidation)
		}
		if line.DebitAmount.IsZero() && line.CreditAmount.IsZero() {
			return fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrLineNoSide)
		}
		if line.DebitAmount.IsPositive() && line.CreditAmount.IsPositive() {
			return fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrLineBothSides)
		}
		accountIDs = append(accountIDs, line.AccountID)
	}

	totalDebit := entry.TotalDebit()
	totalCredit := entry.TotalCredit()
	if !totalDebit.Equal(totalCredit) {
		return fmt.Errorf("%w: %s: debits (%s) != credits (%s)",
			apperrors.ErrValidation, ErrEntryUnbalanced, totalDebit.String(), totalCredit.String())
	}
	if totalDebit.IsZero() {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrEntryZeroTotal)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, uniqueStrings(accountIDs))
	if err != nil {
		return fmt.Errorf("failed to fetch accounts for validation: %w", err)
	}
	for _, line := range entry.Lines {
		acc, found := accounts[line.AccountID]
		if !found {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, line.AccountID)
		}
		if !acc.IsActive {
			return fmt.Errorf("%w: cannot use inactive account: %s", apperrors.ErrValidation, acc.FullName())
		}
	}

	return nil
}

// buildLines converts line requests into domain lines owned by entryID.
func buildLines(entryID string, reqs []dto.CreateJournalEntryLineRequest) []domain.JournalEntryLine {
	lines := make([]domain.JournalEntryLine, len(reqs))
	for i, lr := range reqs {
		rate := lr.ExchangeRate
		if rate.IsZero() {
			rate = decimal.NewFromInt(1)
		}
		lines[i] = domain.JournalEntryLine{
			LineID:       uuid.NewString(),
			EntryID:      entryID,
			AccountID:    lr.AccountID,
			DebitAmount:  lr.DebitAmount,
			CreditAmount: lr.CreditAmount,
			CurrencyCode: lr.CurrencyCode,
			ExchangeRate: rate,
			Description:  lr.Description,
		}
	}
	return lines
}

// nextEntryNumber reserves the next number in the month's sequence, e.g. JE-202608-0042.
func (s *journalService) nextEntryNumber(ctx context.Context, now time.Time) (string, error) {
	prefix := fmt.Sprintf("%s-%s", entryNumberPrefix, now.Format("200601"))
	seq, err := s.journalRepo.NextEntryNumber(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to reserve entry number: %w", err)
	}
	return fmt.Sprintf("%s-%04d", prefix, seq), nil
}

// CreateEntry validates and persists a new draft journal entry.
// Implements portssvc.JournalSvcFacade
func (s *journalService) CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	entryID := uuid.NewString()

	entry := domain.JournalEntry{
		EntryID:     entryID,
		EntryDate:   req.EntryDate,
		Description: req.Description,
		Reference:   req.Reference,
		Status:      domain.Draft,
		Lines:       buildLines(entryID, req.Lines),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.validateEntry(ctx, &entry); err != nil {
		return nil, err
	}

	entryNumber, err := s.nextEntryNumber(ctx, now)
	if err != nil {
		logger.Error("Failed to generate entry number", slog.String("error", err.Error()))
		return nil, err
	}
	entry.EntryNumber = entryNumber

	if err := s.journalRepo.SaveEntry(ctx, entry); err != nil {
		logger.Error("Failed to save journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	logger.Info("Journal entry created", slog.String("entry_id", entryID), slog.String("entry_number", entryNumber))
	return &entry, nil
}

// GetEntryByID retrieves a journal entry with its lines.
// Implements portssvc.JournalSvcFacade
func (s *journalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lines for entry %s: %w", entryID, err)
	}
	entry.Lines = lines
	return entry, nil
}

// ListEntries retrieves a paginated list of journal entries with their lines.
// Implements portssvc.JournalSvcFacade
func (s *journalService) ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.journalRepo.ListEntries(ctx, params.Status, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}

	entryIDs := make([]string, len(entries))
	for i, e := range entries {
		entryIDs[i] = e.EntryID
	}
	linesByEntry, err := s.journalRepo.FindLinesByEntryIDs(ctx, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lines for entries: %w", err)
	}

	responses := make([]dto.JournalEntryResponse, len(entries))
	for i := range entries {
		entries[i].Lines = linesByEntry[entries[i].EntryID]
		responses[i] = dto.ToJournalEntryResponse(&entries[i])
	}

	return &dto.ListJournalEntriesResponse{
		Entries:   responses,
		NextToken: nextToken,
	}, nil
}

// UpdateEntry replaces the header fields and lines of a draft entry.
// Implements portssvc.JournalSvcFacade
func (s *journalService) UpdateEntry(ctx context.Context, entryID string, req dto.UpdateJournalEntryRequest, requestingUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if !entry.IsDraft() {
		return nil, fmt.Errorf("%w: only draft entries can be modified", apperrors.ErrInvalidState)
	}

	now := time.Now().UTC()
	entry.EntryDate = req.EntryDate
	entry.Description = req.Description
	entry.Reference = req.Reference
	entry.Lines = buildLines(entryID, req.Lines)
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = requestingUserID

	if err := s.validateEntry(ctx, entry); err != nil {
		return nil, err
	}

	if err := s.journalRepo.UpdateEntry(ctx, *entry); err != nil {
		logger.Error("Failed to update journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to update journal entry: %w", err)
	}

	return entry, nil
}

// PostEntry transitions a draft entry to posted after re-validating it.
// Implements portssvc.JournalSvcFacade
func (s *journalService) PostEntry(ctx context.Context, entryID string, requestingUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.GetEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if !entry.IsDraft() {
		return nil, fmt.Errorf("%w: only draft entries can be posted", apperrors.ErrInvalidState)
	}

	if err := s.validateEntry(ctx, entry); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.journalRepo.UpdateEntryStatus(ctx, entryID, domain.Posted, &now, requestingUserID, now); err != nil {
		logger.Error("Failed to post journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to post journal entry: %w", err)
	}

	entry.Status = domain.Posted
	entry.PostedAt = &now
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = requestingUserID

	logger.Info("Journal entry posted", slog.String("entry_id", entryID), slog.String("entry_number", entry.EntryNumber))
	return entry, nil
}

// VoidEntry transitions a posted entry to void.
// Implements portssvc.JournalSvcFacade
func (s *journalService) VoidEntry(ctx context.Context, entryID string, requestingUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.GetEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.IsVoid() {
		return nil, fmt.Errorf("%w: entry is already void", apperrors.ErrInvalidState)
	}
	if !entry.IsPosted() {
		return nil, fmt.Errorf("%w: only posted entries can be voided", apperrors.ErrInvalidState)
	}

	now := time.Now().UTC()
	if err := s.journalRepo.UpdateEntryStatus(ctx, entryID, domain.Void, nil, requestingUserID, now); err != nil {
		logger.Error("Failed to void journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to void journal entry: %w", err)
	}

	entry.Status = domain.Void
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = requestingUserID

	logger.Info("Journal entry voided", slog.String("entry_id", entryID), slog.String("entry_number", entry.EntryNumber))
	return entry, nil
}

// DeleteEntry removes a draft entry and its lines.
// Implements portssvc.JournalSvcFacade
func (s *journalService) DeleteEntry(ctx context.Context, entryID string, requestingUserID string) error {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return err
	}
	if !entry.IsDraft() {
		return fmt.Errorf("%w: only draft entries can be deleted", apperrors.ErrInvalidState)
	}
	return s.journalRepo.DeleteEntry(ctx, entryID)
}

// uniqueStrings returns the unique values of a string slice, order preserved.
func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}
