package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow is one nonzero account on the trial balance. The balance is
// bucketed into the debit or credit column according to the account's normal
// balance side.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalance lists every active account with a nonzero balance as of a date.
type TrialBalance struct {
	AsOfDate    time.Time         `json:"asOfDate"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
}

// AccountBalance pairs an account with a computed balance for report lines.
type AccountBalance struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Balance     decimal.Decimal `json:"balance"`
}

// ProfitLossReport covers a date range of revenue and expense activity.
type ProfitLossReport struct {
	StartDate     time.Time        `json:"startDate"`
	EndDate       time.Time        `json:"endDate"`
	Revenue       []AccountBalance `json:"revenue"`
	Expenses      []AccountBalance `json:"expenses"`
	TotalRevenue  decimal.Decimal  `json:"totalRevenue"`
	TotalExpenses decimal.Decimal  `json:"totalExpenses"`
	NetIncome     decimal.Decimal  `json:"netIncome"`
}

// BalanceSheetReport is the as-of-date statement of financial position.
// RetainedEarnings carries the fiscal-year-to-date net income so that
// TotalAssets == TotalLiabilities + TotalEquity + RetainedEarnings holds on a
// consistent ledger.
type BalanceSheetReport struct {
	AsOfDate         time.Time        `json:"asOfDate"`
	Assets           []AccountBalance `json:"assets"`
	Liabilities      []AccountBalance `json:"liabilities"`
	Equity           []AccountBalance `json:"equity"`
	TotalAssets      decimal.Decimal  `json:"totalAssets"`
	TotalLiabilities decimal.Decimal  `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal  `json:"totalEquity"`
	RetainedEarnings decimal.Decimal  `json:"retainedEarnings"`
}

// LedgerLine is one movement in an account's ledger with the running balance
// after applying it.
type LedgerLine struct {
	EntryID        string          `json:"entryID"`
	EntryNumber    string          `json:"entryNumber"`
	EntryDate      time.Time       `json:"entryDate"`
	Description    string          `json:"description"`
	Reference      string          `json:"reference"`
	DebitAmount    decimal.Decimal `json:"debitAmount"`
	CreditAmount   decimal.Decimal `json:"creditAmount"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// Ledger is the chronological transaction history of one account over a date
// range, bracketed by opening and closing balances.
type Ledger struct {
	AccountID      string          `json:"accountID"`
	AccountCode    string          `json:"accountCode"`
	AccountName    string          `json:"accountName"`
	AccountType    AccountType     `json:"accountType"`
	StartDate      time.Time       `json:"startDate"`
	EndDate        time.Time       `json:"endDate"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Lines          []LedgerLine    `json:"lines"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// Dashboard aggregates the headline numbers for the landing page.
type Dashboard struct {
	TotalAssets        decimal.Decimal `json:"totalAssets"`
	TotalLiabilities   decimal.Decimal `json:"totalLiabilities"`
	TotalEquity        decimal.Decimal `json:"totalEquity"`
	TotalRevenue       decimal.Decimal `json:"totalRevenue"`
	TotalExpenses      decimal.Decimal `json:"totalExpenses"`
	NetIncome          decimal.Decimal `json:"netIncome"`
	CashBalance        decimal.Decimal `json:"cashBalance"`
	AccountsReceivable decimal.Decimal `json:"accountsReceivable"`
	AccountsPayable    decimal.Decimal `json:"accountsPayable"`
	DraftEntryCount    int64           `json:"draftEntryCount"`
	OverdueInvoices    int64           `json:"overdueInvoices"`
	OverdueAmount      decimal.Decimal `json:"overdueAmount"`
}
