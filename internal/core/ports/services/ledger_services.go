package services

import (
	"context"
	"time"

	"github.com/glbooks/accounting_backend/internal/core/domain"
)

// LedgerSvc produces account ledgers with running balances
type LedgerSvc interface {
	// GetLedger builds the ledger of an account over [startDate, endDate]: the opening
	// balance from entries before startDate, each posted line in the period with a
	// running balance, and the closing balance.
	GetLedger(ctx context.Context, accountID string, startDate, endDate time.Time) (*domain.Ledger, error)
}
