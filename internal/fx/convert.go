// Package fx converts amounts between USD and the local currency.
//
// The exchange rate is a daily operational parameter, not a per-transaction
// attribute: callers read the current rate from settings at the moment of
// use and pass it in explicitly, so a mid-session rate change affects every
// conversion performed after it.
package fx

import "math"

// ToLocal converts a USD amount into local currency at the given rate.
// Local currency carries no sub-cent granularity, so the result is rounded
// to 2 decimal places.
func ToLocal(rate, amountUSD float64) float64 {
	return round(amountUSD*rate, 2)
}

// ToUSD converts a local-currency amount into USD at the given rate.
// USD keeps 4 decimal places to limit cumulative drift when amounts are
// back-converted. A zero rate yields zero rather than propagating a
// division by zero.
func ToUSD(rate, amountLocal float64) float64 {
	if rate == 0 {
		return 0
	}
	return round(amountLocal/rate, 4)
}

func round(v float64, places int) float64 {
	shift := math.Pow10(places)
	return math.Round(v*shift) / shift
}

// Round2 rounds to cents. Guest balances and stored local amounts use it.
func Round2(v float64) float64 {
	return round(v, 2)
}

// Round4 rounds to the USD storage precision.
func Round4(v float64) float64 {
	return round(v, 4)
}
