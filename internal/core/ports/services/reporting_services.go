package services

import (
	"context"
	"time"

	"github.com/glbooks/accounting_backend/internal/core/domain"
)

// ReportingSvc builds financial reports from posted journal data
type ReportingSvc interface {
	// TrialBalance lists every active account with its posted debit and credit totals
	// as of the given date, with grand totals for both columns.
	TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error)

	// ProfitAndLoss reports revenue and expense balances over [startDate, endDate]
	// and the resulting net income.
	ProfitAndLoss(ctx context.Context, startDate, endDate time.Time) (*domain.ProfitLossReport, error)

	// BalanceSheet reports asset, liability, and equity balances as of the given date,
	// folding lifetime-to-date net income into equity as retained earnings.
	BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error)

	// Dashboard aggregates headline figures: totals by account type, cash, receivables,
	// payables, draft entry and overdue invoice counts.
	Dashboard(ctx context.Context) (*domain.Dashboard, error)
}
