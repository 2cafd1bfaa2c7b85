package billing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestLineSetIDsAreMonotonic(t *testing.T) {
	set := NewLineSet()

	a := set.Add()
	b := set.Add()
	require.Less(t, a, b)

	set.Remove(a)
	c := set.Add()
	require.Greater(t, c, b, "removed ids must not be reused")

	// Removing an absent id is a no-op.
	set.Remove(a)
	require.Len(t, set.Lines(), 2)
}

func TestLineSetDerivesByMethod(t *testing.T) {
	const rate = 36.0
	set := NewLineSet()
	id := set.Add()

	require.NoError(t, set.Update(id, LineUpdate{RawAmount: ptr(10.0)}, rate))
	lines := set.Lines()
	require.Equal(t, 10.0, lines[0].AmountUSD)
	require.Equal(t, 360.0, lines[0].AmountLocal)

	// Switching to CASH_LOCAL reinterprets the raw amount as local currency
	// and must re-derive both amounts.
	require.NoError(t, set.Update(id, LineUpdate{Method: ptr(MethodCashLocal)}, rate))
	lines = set.Lines()
	require.Equal(t, 10.0, lines[0].AmountLocal)
	require.InDelta(t, 0.2778, lines[0].AmountUSD, 0.0001)

	// A cash-local amount that covers a full stay must convert local/rate,
	// not the other way around: Bs 2520 at 36 is exactly $70.
	require.NoError(t, set.Update(id, LineUpdate{RawAmount: ptr(2520.0)}, rate))
	lines = set.Lines()
	require.Equal(t, 2520.0, lines[0].AmountLocal)
	require.Equal(t, 70.0, lines[0].AmountUSD)
}

func TestLineSetValidateFlagsMissingReferences(t *testing.T) {
	set := NewLineSet()
	cash := set.Add()
	transfer := set.Add()
	require.NoError(t, set.Update(cash, LineUpdate{RawAmount: ptr(10.0)}, 36))
	require.NoError(t, set.Update(transfer, LineUpdate{RawAmount: ptr(20.0), Method: ptr(MethodTransfer)}, 36))

	violations := set.Validate()
	require.Len(t, violations, 1)
	require.Equal(t, 2, violations[0].Position)
	require.Equal(t, MethodTransfer, violations[0].Method)

	// Whitespace-only references still violate.
	require.NoError(t, set.Update(transfer, LineUpdate{Reference: ptr("   ")}, 36))
	require.Len(t, set.Validate(), 1)

	require.NoError(t, set.Update(transfer, LineUpdate{Reference: ptr("0412-555")}, 36))
	require.Empty(t, set.Validate())
}

func TestLineSetTotals(t *testing.T) {
	set := NewLineSet()
	a := set.Add()
	b := set.Add()
	c := set.Add()
	require.NoError(t, set.Update(a, LineUpdate{RawAmount: ptr(30.0)}, 36))
	require.NoError(t, set.Update(b, LineUpdate{RawAmount: ptr(-5.0)}, 36))
	require.NoError(t, set.Update(c, LineUpdate{RawAmount: ptr(0.0)}, 36))

	// Negative lines count toward the display total but not the commit total.
	require.Equal(t, 25.0, set.TotalUSD())
	require.Equal(t, 30.0, set.CollectedUSD())
}
