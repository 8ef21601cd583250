package dto

import (
	"time"

	"github.com/glbooks/accounting_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerParams defines query parameters for generating an account ledger.
type LedgerParams struct {
	StartDate time.Time `form:"startDate" time_format:"2006-01-02" binding:"required"`
	EndDate   time.Time `form:"endDate" time_format:"2006-01-02" binding:"required"`
}

// LedgerLineResponse is one ledger movement with its running balance.
type LedgerLineResponse struct {
	EntryID        string          `json:"entryID"`
	EntryNumber    string          `json:"entryNumber"`
	EntryDate      time.Time       `json:"entryDate"`
	Description    string          `json:"description"`
	Reference      string          `json:"reference"`
	DebitAmount    decimal.Decimal `json:"debitAmount"`
	CreditAmount   decimal.Decimal `json:"creditAmount"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// LedgerResponse is the full ledger of an account over a date range.
type LedgerResponse struct {
	AccountID      string               `json:"accountID"`
	AccountCode    string               `json:"accountCode"`
	AccountName    string               `json:"accountName"`
	AccountType    domain.AccountType   `json:"accountType"`
	StartDate      time.Time            `json:"startDate"`
	EndDate        time.Time            `json:"endDate"`
	OpeningBalance decimal.Decimal      `json:"openingBalance"`
	Lines          []LedgerLineResponse `json:"lines"`
	ClosingBalance decimal.Decimal      `json:"closingBalance"`
}

// ToLedgerResponse converts a domain.Ledger to its DTO.
func ToLedgerResponse(l *domain.Ledger) LedgerResponse {
	lines := make([]LedgerLineResponse, len(l.Lines))
	for i, line := range l.Lines {
		lines[i] = LedgerLineResponse{
			EntryID:        line.EntryID,
			EntryNumber:    line.EntryNumber,
			EntryDate:      line.EntryDate,
			Description:    line.Description,
			Reference:      line.Reference,
			DebitAmount:    line.DebitAmount,
			CreditAmount:   line.CreditAmount,
			RunningBalance: line.RunningBalance,
		}
	}
	return LedgerResponse{
		AccountID:      l.AccountID,
		AccountCode:    l.AccountCode,
		AccountName:    l.AccountName,
		AccountType:    l.AccountType,
		StartDate:      l.StartDate,
		EndDate:        l.EndDate,
		OpeningBalance: l.OpeningBalance,
		Lines:          lines,
		ClosingBalance: l.ClosingBalance,
	}
}
