package accounting_test

import (
	"testing"

	"github.com/glbooks/accounting_backend/internal/core/domain"
	"github.com/glbooks/accounting_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDebitNormal(t *testing.T) {
	cases := map[domain.AccountType]bool{
		domain.Asset:     true,
		domain.Expense:   true,
		domain.Liability: false,
		domain.Equity:    false,
		domain.Revenue:   false,
	}
	for accountType, want := range cases {
		got, ok := accounting.IsDebitNormal(accountType)
		require.True(t, ok, "type %s should be known", accountType)
		assert.Equal(t, want, got, "type %s", accountType)
	}

	_, ok := accounting.IsDebitNormal(domain.AccountType("BOGUS"))
	assert.False(t, ok)
}

func TestBalancePolarity(t *testing.T) {
	// Debit-normal: 1000 debit, 300 credit -> 700.
	balance, err := accounting.Balance(domain.Asset, decimal.NewFromInt(1000), decimal.NewFromInt(300))
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(700)), "got %s", balance)

	// Credit-normal: 100 debit, 500 credit -> 400.
	balance, err = accounting.Balance(domain.Revenue, decimal.NewFromInt(100), decimal.NewFromInt(500))
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(400)), "got %s", balance)

	_, err = accounting.Balance(domain.AccountType("BOGUS"), decimal.Zero, decimal.Zero)
	assert.Error(t, err)
}

func TestLineEffect(t *testing.T) {
	effect, err := accounting.LineEffect(domain.Asset, decimal.NewFromInt(250), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, effect.Equal(decimal.NewFromInt(250)))

	effect, err = accounting.LineEffect(domain.Asset, decimal.Zero, decimal.NewFromInt(250))
	require.NoError(t, err)
	assert.True(t, effect.Equal(decimal.NewFromInt(-250)))

	effect, err = accounting.LineEffect(domain.Liability, decimal.Zero, decimal.NewFromInt(80))
	require.NoError(t, err)
	assert.True(t, effect.Equal(decimal.NewFromInt(80)))
}
