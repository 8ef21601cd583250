package dto

import (
	"time"

	"github.com/glbooks/accounting_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBankAccountRequest defines the data needed to register a bank account.
type CreateBankAccountRequest struct {
	Name           string          `json:"name" binding:"required"`
	BankName       string          `json:"bankName"`
	AccountNumber  string          `json:"accountNumber"`
	GLAccountID    string          `json:"glAccountID"` // Optional link into the chart of accounts
	CurrencyCode   string          `json:"currencyCode" binding:"required,len=3"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
}

// BankAccountResponse defines the data returned for a bank account.
type BankAccountResponse struct {
	BankAccountID  string          `json:"bankAccountID"`
	Name           string          `json:"name"`
	BankName       string          `json:"bankName"`
	AccountNumber  string          `json:"accountNumber"`
	GLAccountID    string          `json:"glAccountID"`
	CurrencyCode   string          `json:"currencyCode"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	IsActive       bool            `json:"isActive"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// ToBankAccountResponse converts a domain.BankAccount to its DTO.
func ToBankAccountResponse(b *domain.BankAccount) BankAccountResponse {
	return BankAccountResponse{
		BankAccountID:  b.BankAccountID,
		Name:           b.Name,
		BankName:       b.BankName,
		AccountNumber:  b.AccountNumber,
		GLAccountID:    b.GLAccountID,
		CurrencyCode:   b.CurrencyCode,
		OpeningBalance: b.OpeningBalance,
		CurrentBalance: b.CurrentBalance,
		IsActive:       b.IsActive,
		CreatedAt:      b.CreatedAt,
	}
}

// ToListBankAccountResponse converts a slice of domain.BankAccount to DTOs.
func ToListBankAccountResponse(accounts []domain.BankAccount) []BankAccountResponse {
	res := make([]BankAccountResponse, len(accounts))
	for i, b := range accounts {
		res[i] = ToBankAccountResponse(&b)
	}
	return res
}

// ImportStatementLineRequest is one statement line of an import batch.
type ImportStatementLineRequest struct {
	StatementDate   time.Time       `json:"statementDate" binding:"required"`
	TransactionDate time.Time       `json:"transactionDate" binding:"required"`
	Description     string          `json:"description"`
	Reference       string          `json:"reference"`
	DebitAmount     decimal.Decimal `json:"debitAmount"`
	CreditAmount    decimal.Decimal `json:"creditAmount"`
}

// ImportStatementsRequest defines a batch import of bank statement lines.
type ImportStatementsRequest struct {
	Lines []ImportStatementLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// StatementLineResponse defines the data returned for a statement line.
type StatementLineResponse struct {
	StatementID          string          `json:"statementID"`
	BankAccountID        string          `json:"bankAccountID"`
	StatementDate        time.Time       `json:"statementDate"`
	TransactionDate      time.Time       `json:"transactionDate"`
	Description          string          `json:"description"`
	Reference            string          `json:"reference"`
	DebitAmount          decimal.Decimal `json:"debitAmount"`
	CreditAmount         decimal.Decimal `json:"creditAmount"`
	NetAmount            decimal.Decimal `json:"netAmount"`
	IsReconciled         bool            `json:"isReconciled"`
	MatchedJournalLineID *string         `json:"matchedJournalLineID,omitempty"`
	ImportedAt           time.Time       `json:"importedAt"`
}

// ToStatementLineResponse converts a domain.BankStatementLine to its DTO.
func ToStatementLineResponse(s *domain.BankStatementLine) StatementLineResponse {
	return StatementLineResponse{
		StatementID:          s.StatementID,
		BankAccountID:        s.BankAccountID,
		StatementDate:        s.StatementDate,
		TransactionDate:      s.TransactionDate,
		Description:          s.Description,
		Reference:            s.Reference,
		DebitAmount:          s.DebitAmount,
		CreditAmount:         s.CreditAmount,
		NetAmount:            s.NetAmount(),
		IsReconciled:         s.IsReconciled,
		MatchedJournalLineID: s.MatchedJournalLineID,
		ImportedAt:           s.ImportedAt,
	}
}

// ToListStatementLineResponse converts a slice of domain.BankStatementLine to DTOs.
func ToListStatementLineResponse(statements []domain.BankStatementLine) []StatementLineResponse {
	res := make([]StatementLineResponse, len(statements))
	for i, s := range statements {
		res[i] = ToStatementLineResponse(&s)
	}
	return res
}

// ListStatementsParams defines query parameters for listing statement lines.
type ListStatementsParams struct {
	UnreconciledOnly bool       `form:"unreconciledOnly"`
	StartDate        *time.Time `form:"startDate" time_format:"2006-01-02"`
	EndDate          *time.Time `form:"endDate" time_format:"2006-01-02"`
}

// ReconcileRequest names the journal line a statement line should match.
type ReconcileRequest struct {
	JournalLineID string `json:"journalLineID" binding:"required"`
}

// ReconciliationSummaryResponse reports the reconciliation position of a bank account.
type ReconciliationSummaryResponse struct {
	BankAccountID          string          `json:"bankAccountID"`
	ReconciledBalance      decimal.Decimal `json:"reconciledBalance"`
	UnreconciledDifference decimal.Decimal `json:"unreconciledDifference"`
}
