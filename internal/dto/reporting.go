package dto

import (
	"time"

	"github.com/glbooks/accounting_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceParams defines query parameters for the trial balance report.
type TrialBalanceParams struct {
	AsOf time.Time `form:"asOf" time_format:"2006-01-02"`
}

// DateRangeParams defines the reporting period for range-based reports.
type DateRangeParams struct {
	StartDate time.Time `form:"startDate" time_format:"2006-01-02" binding:"required"`
	EndDate   time.Time `form:"endDate" time_format:"2006-01-02" binding:"required"`
}

// TrialBalanceRowResponse is one account row on the trial balance.
type TrialBalanceRowResponse struct {
	AccountID   string             `json:"accountID"`
	AccountCode string             `json:"accountCode"`
	AccountName string             `json:"accountName"`
	AccountType domain.AccountType `json:"accountType"`
	Debit       decimal.Decimal    `json:"debit"`
	Credit      decimal.Decimal    `json:"credit"`
}

// TrialBalanceResponse is the trial balance report payload.
type TrialBalanceResponse struct {
	AsOfDate    time.Time                 `json:"asOfDate"`
	Rows        []TrialBalanceRowResponse `json:"rows"`
	TotalDebit  decimal.Decimal           `json:"totalDebit"`
	TotalCredit decimal.Decimal           `json:"totalCredit"`
}

// ToTrialBalanceResponse converts a domain.TrialBalance to its DTO.
func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	rows := make([]TrialBalanceRowResponse, len(tb.Rows))
	for i, r := range tb.Rows {
		rows[i] = TrialBalanceRowResponse{
			AccountID:   r.AccountID,
			AccountCode: r.AccountCode,
			AccountName: r.AccountName,
			AccountType: r.AccountType,
			Debit:       r.Debit,
			Credit:      r.Credit,
		}
	}
	return TrialBalanceResponse{
		AsOfDate:    tb.AsOfDate,
		Rows:        rows,
		TotalDebit:  tb.TotalDebit,
		TotalCredit: tb.TotalCredit,
	}
}

// ReportAccountBalance is one account line within a report section.
type ReportAccountBalance struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Balance     decimal.Decimal `json:"balance"`
}

func toReportAccountBalances(rows []domain.AccountBalance) []ReportAccountBalance {
	out := make([]ReportAccountBalance, len(rows))
	for i, r := range rows {
		out[i] = ReportAccountBalance{
			AccountID:   r.AccountID,
			AccountCode: r.AccountCode,
			AccountName: r.AccountName,
			Balance:     r.Balance,
		}
	}
	return out
}

// ProfitLossResponse is the profit and loss report payload.
type ProfitLossResponse struct {
	StartDate     time.Time              `json:"startDate"`
	EndDate       time.Time              `json:"endDate"`
	Revenue       []ReportAccountBalance `json:"revenue"`
	Expenses      []ReportAccountBalance `json:"expenses"`
	TotalRevenue  decimal.Decimal        `json:"totalRevenue"`
	TotalExpenses decimal.Decimal        `json:"totalExpenses"`
	NetIncome     decimal.Decimal        `json:"netIncome"`
}

// ToProfitLossResponse converts a domain.ProfitLossReport to its DTO.
func ToProfitLossResponse(pl *domain.ProfitLossReport) ProfitLossResponse {
	return ProfitLossResponse{
		StartDate:     pl.StartDate,
		EndDate:       pl.EndDate,
		Revenue:       toReportAccountBalances(pl.Revenue),
		Expenses:      toReportAccountBalances(pl.Expenses),
		TotalRevenue:  pl.TotalRevenue,
		TotalExpenses: pl.TotalExpenses,
		NetIncome:     pl.NetIncome,
	}
}

// BalanceSheetResponse is the balance sheet report payload.
type BalanceSheetResponse struct {
	AsOfDate         time.Time              `json:"asOfDate"`
	Assets           []ReportAccountBalance `json:"assets"`
	Liabilities      []ReportAccountBalance `json:"liabilities"`
	Equity           []ReportAccountBalance `json:"equity"`
	TotalAssets      decimal.Decimal        `json:"totalAssets"`
	TotalLiabilities decimal.Decimal        `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal        `json:"totalEquity"`
	RetainedEarnings decimal.Decimal        `json:"retainedEarnings"`
}

// ToBalanceSheetResponse converts a domain.BalanceSheetReport to its DTO.
func ToBalanceSheetResponse(bs *domain.BalanceSheetReport) BalanceSheetResponse {
	return BalanceSheetResponse{
		AsOfDate:         bs.AsOfDate,
		Assets:           toReportAccountBalances(bs.Assets),
		Liabilities:      toReportAccountBalances(bs.Liabilities),
		Equity:           toReportAccountBalances(bs.Equity),
		TotalAssets:      bs.TotalAssets,
		TotalLiabilities: bs.TotalLiabilities,
		TotalEquity:      bs.TotalEquity,
		RetainedEarnings: bs.RetainedEarnings,
	}
}

// DashboardResponse is the headline figures payload for the landing page.
type DashboardResponse struct {
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

// ToDashboardResponse converts a domain.Dashboard to its DTO.
func ToDashboardResponse(d *domain.Dashboard) DashboardResponse {
	return DashboardResponse{
		TotalAssets:        d.TotalAssets,
		TotalLiabilities:   d.TotalLiabilities,
		TotalEquity:        d.TotalEquity,
		TotalRevenue:       d.TotalRevenue,
		TotalExpenses:      d.TotalExpenses,
		NetIncome:          d.NetIncome,
		CashBalance:        d.CashBalance,
		AccountsReceivable: d.AccountsReceivable,
		AccountsPayable:    d.AccountsPayable,
		DraftEntryCount:    d.DraftEntryCount,
		OverdueInvoices:    d.OverdueInvoices,
		OverdueAmount:      d.OverdueAmount,
	}
}
