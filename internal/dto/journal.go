package dto

import (
	"time"

	"github.com/glbooks/accounting_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateJournalEntryLineRequest defines one line of a new journal entry.
// Exactly one of debitAmount/creditAmount must be positive; the service
// enforces the one-sided rule.
type CreateJournalEntryLineRequest struct {
	AccountID    string          `json:"accountID" binding:"required"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	CurrencyCode string          `json:"currencyCode"` // Defaults to the entry currency
	ExchangeRate decimal.Decimal `json:"exchangeRate"` // Defaults to 1
	Description  string          `json:"description"`
}

// CreateJournalEntryRequest defines the data needed to create a journal entry.
type CreateJournalEntryRequest struct {
	EntryDate   time.Time                       `json:"entryDate" binding:"required"`
	Description string                          `json:"description" binding:"required"`
	Reference   string                          `json:"reference"`
	Lines       []CreateJournalEntryLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// UpdateJournalEntryRequest replaces the header fields and lines of a draft entry.
type UpdateJournalEntryRequest struct {
	EntryDate   time.Time                       `json:"entryDate" binding:"required"`
	Description string                          `json:"description" binding:"required"`
	Reference   string                          `json:"reference"`
	Lines       []CreateJournalEntryLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// JournalEntryLineResponse defines the data returned for a journal entry line.
type JournalEntryLineResponse struct {
	LineID       string          `json:"lineID"`
	EntryID      string          `json:"entryID"`
	AccountID    string          `json:"accountID"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	CurrencyCode string          `json:"currencyCode"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	Description  string          `json:"description"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID     string                     `json:"entryID"`
	EntryNumber string                     `json:"entryNumber"`
	EntryDate   time.Time                  `json:"entryDate"`
	Description string                     `json:"description"`
	Reference   string                     `json:"reference"`
	Status      domain.EntryStatus         `json:"status"`
	PostedAt    *time.Time                 `json:"postedAt,omitempty"`
	TotalDebit  decimal.Decimal            `json:"totalDebit"`
	TotalCredit decimal.Decimal            `json:"totalCredit"`
	Lines       []JournalEntryLineResponse `json:"lines"`
	CreatedAt   time.Time                  `json:"createdAt"`
	CreatedBy   string                     `json:"createdBy"`
}

// ToJournalEntryLineResponse converts a domain.JournalEntryLine to its DTO.
func ToJournalEntryLineResponse(l *domain.JournalEntryLine) JournalEntryLineResponse {
	return JournalEntryLineResponse{
		LineID:       l.LineID,
		EntryID:      l.EntryID,
		AccountID:    l.AccountID,
		DebitAmount:  l.DebitAmount,
		CreditAmount: l.CreditAmount,
		CurrencyCode: l.CurrencyCode,
		ExchangeRate: l.ExchangeRate,
		Description:  l.Description,
	}
}

// ToJournalEntryResponse converts a domain.JournalEntry (with lines) to its DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	lines := make([]JournalEntryLineResponse, len(e.Lines))
	for i := range e.Lines {
		lines[i] = ToJournalEntryLineResponse(&e.Lines[i])
	}
	return JournalEntryResponse{
		EntryID:     e.EntryID,
		EntryNumber: e.EntryNumber,
		EntryDate:   e.EntryDate,
		Description: e.Description,
		Reference:   e.Reference,
		Status:      e.Status,
		PostedAt:    e.PostedAt,
		TotalDebit:  e.TotalDebit(),
		TotalCredit: e.TotalCredit(),
		Lines:       lines,
		CreatedAt:   e.CreatedAt,
		CreatedBy:   e.CreatedBy,
	}
}

// ListJournalEntriesParams defines query parameters for listing journal entries.
type ListJournalEntriesParams struct {
	Status    *domain.EntryStatus `form:"status" binding:"omitempty,oneof=DRAFT POSTED VOID"`
	Limit     int                 `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string             `form:"nextToken"`
}

// ListJournalEntriesResponse is the paginated journal entry listing.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}
