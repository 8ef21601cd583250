package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankAccount mirrors a real-world bank account and links it to a GL account
// in the chart of accounts. CurrentBalance is derived: it is recomputed from
// the reconciled statement lines on every reconciliation state change.
type BankAccount struct {
	BankAccountID  string          `json:"bankAccountID"` // Primary key (UUID)
	Name           string          `json:"name"`
	BankName       string          `json:"bankName"`
	AccountNumber  string          `json:"accountNumber"`
	GLAccountID    string          `json:"glAccountID"` // Non-owning reference, may be empty
	CurrencyCode   string          `json:"currencyCode"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	IsActive       bool            `json:"isActive"`
	AuditFields
}

// BankStatementLine is one imported line of an external bank statement.
// Reconciliation is a two-state toggle: matching sets IsReconciled and
// MatchedJournalLineID, unmatching clears both.
type BankStatementLine struct {
	StatementID          string          `json:"statementID"` // Primary key (UUID)
	BankAccountID        string          `json:"bankAccountID"`
	StatementDate        time.Time       `json:"statementDate"`
	TransactionDate      time.Time       `json:"transactionDate"`
	Description          string          `json:"description"`
	Reference            string          `json:"reference"`
	DebitAmount          decimal.Decimal `json:"debitAmount"`
	CreditAmount         decimal.Decimal `json:"creditAmount"`
	IsReconciled         bool            `json:"isReconciled"`
	MatchedJournalLineID *string         `json:"matchedJournalLineID,omitempty"`
	ImportedAt           time.Time       `json:"importedAt"`
}

// NetAmount is the statement's signed movement from the bank's perspective:
// credits (money in) positive, debits (money out) negative.
func (s BankStatementLine) NetAmount() decimal.Decimal {
	return s.CreditAmount.Sub(s.DebitAmount)
}
