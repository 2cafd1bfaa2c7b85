package stays

import (
	"fmt"
	"time"

	"github.com/posada-hms/posada/internal/shared"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a calendar date, wrapping failures as ErrInvalidDate so
// callers can recover instead of aborting.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a valid date", shared.ErrInvalidDate, s)
	}
	return t, nil
}

// Nights returns the billable night count for a stay span. A same-day or
// inverted span still bills one night.
func Nights(entry, exit time.Time) int {
	days := int(exit.Sub(entry).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

// NightsBetween parses both dates then counts nights.
func NightsBetween(entry, exit string) (int, error) {
	e, err := ParseDate(entry)
	if err != nil {
		return 0, err
	}
	x, err := ParseDate(exit)
	if err != nil {
		return 0, err
	}
	return Nights(e, x), nil
}

// BaseCharge is the pre-adjustment stay cost: nights times the nightly rate.
// No proration, taxes or discounts.
func BaseCharge(nights int, nightlyRate float64) float64 {
	return float64(nights) * nightlyRate
}
