package billing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAmountDue(t *testing.T) {
	require.Equal(t, 120.0, AmountDue(100, -20, 0))
	require.Equal(t, 70.0, AmountDue(100, 30, 0))
	require.Equal(t, 0.0, AmountDue(50, 80, 0))
	require.Equal(t, 40.0, AmountDue(100, 0, 60))
	require.Equal(t, 0.0, AmountDue(100, 0, 150))
}

func TestAmountDueNeverNegative(t *testing.T) {
	for _, balance := range []float64{-50, 0, 50, 500} {
		for _, paid := range []float64{0, 30, 200} {
			require.GreaterOrEqual(t, AmountDue(100, balance, paid), 0.0)
		}
	}
}

func TestSettleExactPaymentKeepsBalance(t *testing.T) {
	due := AmountDue(100, -20, 0)
	require.Equal(t, -20.0, Settle(-20, due, due))

	due = AmountDue(50, 80, 0)
	require.Equal(t, 80.0, Settle(80, due, due))
}

func TestSettleCreditsOverpay(t *testing.T) {
	due := AmountDue(100, -20, 0)
	require.Equal(t, -5.0, Settle(-20, due, due+15))
}

func TestAccrueShortfall(t *testing.T) {
	// Due 70 (60 charge + 10 debt), paid 50: the remaining 20 becomes debt.
	require.Equal(t, -20.0, AccrueShortfall(70, 50))
	require.Equal(t, 0.0, AccrueShortfall(70, 70))
}

func TestMethodRequiresReference(t *testing.T) {
	require.True(t, MethodMobilePayment.RequiresReference())
	require.True(t, MethodTransfer.RequiresReference())
	require.True(t, MethodZelle.RequiresReference())
	require.False(t, MethodCashUSD.RequiresReference())
	require.False(t, MethodCashLocal.RequiresReference())
	require.False(t, MethodOther.RequiresReference())
}
