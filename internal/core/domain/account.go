package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account represents one node of the chart of accounts.
// Balances are never stored on the account; they are always derived from
// posted journal lines.
type Account struct {
	AccountID       string      `json:"accountID"`       // Primary key (UUID)
	Code            string      `json:"code"`            // Unique chart-of-accounts code, e.g. "1000"
	Name            string      `json:"name"`            // User-defined name
	AccountType     AccountType `json:"accountType"`     // Fixed at creation
	ParentAccountID string      `json:"parentAccountID"` // Optional self-reference, empty for top level
	CurrencyCode    string      `json:"currencyCode"`    // ISO 4217
	Description     string      `json:"description"`
	IsActive        bool        `json:"isActive"`
	AuditFields
}

// FullName returns the conventional "code - name" display form.
func (a Account) FullName() string {
	return a.Code + " - " + a.Name
}
