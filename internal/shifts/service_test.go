package shifts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/posada-hms/posada/internal/shared"
)

type fakeRepo struct {
	payments []PaymentRow
	since    time.Time
	closures []Closure
}

func (f *fakeRepo) PaymentsSince(ctx context.Context, userID int64, since time.Time) ([]PaymentRow, error) {
	f.since = since
	return f.payments, nil
}

func (f *fakeRepo) InsertClosure(ctx context.Context, c Closure) (Closure, error) {
	c.ID = int64(len(f.closures) + 1)
	f.closures = append(f.closures, c)
	return c, nil
}

func (f *fakeRepo) History(ctx context.Context, limit int) ([]Closure, error) {
	return f.closures, nil
}

type fakeMarker struct {
	at *time.Time
}

func (f *fakeMarker) ShiftOpenedAt(ctx context.Context) (*time.Time, error) { return f.at, nil }

func (f *fakeMarker) SetShiftOpenedAt(ctx context.Context, at time.Time) error {
	f.at = &at
	return nil
}

func TestOpenIsIdempotent(t *testing.T) {
	marker := &fakeMarker{}
	svc := NewService(&fakeRepo{}, marker, nil)
	first := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return first }

	opened, err := svc.Open(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, opened.Equal(first))

	// A second open does not move the marker.
	svc.now = func() time.Time { return first.Add(2 * time.Hour) }
	opened, err = svc.Open(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, opened.Equal(first))
}

func TestCloseRequiresOpenShift(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeMarker{}, nil)

	_, err := svc.Close(context.Background(), 1)
	require.ErrorIs(t, err, shared.ErrPrecondition)
}

func TestCloseGroupsByMethod(t *testing.T) {
	opened := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	repo := &fakeRepo{payments: []PaymentRow{
		{Method: "CASH_USD", AmountUSD: 10, AmountLocal: 360},
		{Method: "CASH_USD", AmountUSD: 5, AmountLocal: 180},
		{Method: "ZELLE", AmountUSD: 20, AmountLocal: 720},
	}}
	marker := &fakeMarker{at: &opened}
	svc := NewService(repo, marker, nil)
	closedAt := opened.Add(8 * time.Hour)
	svc.now = func() time.Time { return closedAt }

	closure, err := svc.Close(context.Background(), 4)
	require.NoError(t, err)

	require.Equal(t, 35.0, closure.TotalUSD)
	require.Equal(t, 1260.0, closure.TotalLocal)
	require.Equal(t, Breakdown{"CASH_USD": 15, "ZELLE": 20}, closure.Breakdown)
	require.True(t, closure.OpenedAt.Equal(opened))
	require.True(t, closure.ClosedAt.Equal(closedAt))

	// The query window starts exactly at the marker, inclusive.
	require.True(t, repo.since.Equal(opened))

	// The marker moves to the close instant so the next shift starts there.
	require.NotNil(t, marker.at)
	require.True(t, marker.at.Equal(closedAt))
}

func TestCloseWithNoPayments(t *testing.T) {
	opened := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	marker := &fakeMarker{at: &opened}
	svc := NewService(&fakeRepo{}, marker, nil)

	closure, err := svc.Close(context.Background(), 4)
	require.NoError(t, err)
	require.Equal(t, 0.0, closure.TotalUSD)
	require.Empty(t, closure.Breakdown)
}
