package fx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToLocalRoundsToCents(t *testing.T) {
	require.InDelta(t, 2520.0, ToLocal(36.0, 70.0), 0.0001)
	require.InDelta(t, 36.33, ToLocal(36.0, 1.0091), 0.0001)
}

func TestToUSDKeepsFourPlaces(t *testing.T) {
	require.InDelta(t, 27.7778, ToUSD(36.0, 1000.0), 0.0001)
}

func TestToUSDZeroRate(t *testing.T) {
	require.Zero(t, ToUSD(0, 1000.0))
	require.Zero(t, ToUSD(0, 0))
}

func TestRoundTripWithinTolerance(t *testing.T) {
	rates := []float64{1, 7.35, 36.0, 36.55, 44.1}
	amounts := []float64{0, 0.01, 1, 25, 31.99, 70, 1234.56}
	for _, rate := range rates {
		for _, usd := range amounts {
			got := ToUSD(rate, ToLocal(rate, usd))
			require.InDeltaf(t, usd, got, 0.01, "rate=%v usd=%v", rate, usd)
		}
	}
}

func TestFormatters(t *testing.T) {
	require.Equal(t, "$70.00", FormatUSD(70))
	require.Equal(t, "Bs. 520,50", FormatLocal(520.5))
}
