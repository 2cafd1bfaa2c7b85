package stays

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/posada-hms/posada/internal/shared"
)

func TestNightsClampsToOne(t *testing.T) {
	entry := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.Equal(t, 1, Nights(entry, entry))
	require.Equal(t, 1, Nights(entry, entry.AddDate(0, 0, -3)))
	require.Equal(t, 4, Nights(entry, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, 1, Nights(entry, entry.AddDate(0, 0, 1)))
}

func TestNightsBetween(t *testing.T) {
	n, err := NightsBetween("2024-01-01", "2024-01-05")
	require.NoError(t, err)
	require.Equal(t, 4, n)

	_, err = NightsBetween("not-a-date", "2024-01-05")
	require.ErrorIs(t, err, shared.ErrInvalidDate)

	_, err = NightsBetween("2024-01-01", "2024-13-40")
	require.ErrorIs(t, err, shared.ErrInvalidDate)
}

func TestBaseCharge(t *testing.T) {
	require.Equal(t, 120.0, BaseCharge(4, 30))
	require.Equal(t, 35.0, BaseCharge(1, 35))
	require.Equal(t, 0.0, BaseCharge(3, 0))
}
