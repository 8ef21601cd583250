package accounting

import (
	"fmt"

	"github.com/glbooks/accounting_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// debitNormal is the polarity table: true means the account type's natural
// positive balance is carried on the debit side.
var debitNormal = map[domain.AccountType]bool{
	domain.Asset:     true,
	domain.Expense:   true,
	domain.Liability: false,
	domain.Equity:    false,
	domain.Revenue:   false,
}

// IsDebitNormal reports whether the account type carries its natural balance
// on the debit side. The second return is false for an unknown type.
func IsDebitNormal(t domain.AccountType) (bool, bool) {
	v, ok := debitNormal[t]
	return v, ok
}

// Balance applies the normal-balance polarity to raw debit/credit totals:
// debit-normal accounts report totalDebit - totalCredit, credit-normal
// accounts the inverse.
func Balance(t domain.AccountType, totalDebit, totalCredit decimal.Decimal) (decimal.Decimal, error) {
	dn, ok := debitNormal[t]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown account type %q", t)
	}
	if dn {
		return totalDebit.Sub(totalCredit), nil
	}
	return totalCredit.Sub(totalDebit), nil
}

// LineEffect returns the signed effect of a journal line on the running
// balance of an account of the given type: debits add and credits subtract
// for debit-normal accounts, inverted for credit-normal ones.
func LineEffect(t domain.AccountType, debit, credit decimal.Decimal) (decimal.Decimal, error) {
	dn, ok := debitNormal[t]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown account type %q", t)
	}
	if dn {
		return debit.Sub(credit), nil
	}
	return credit.Sub(debit), nil
}
