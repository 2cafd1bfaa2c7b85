package rooms

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/posada-hms/posada/internal/shared"
)

type fakeRepo struct {
	rooms map[int]Room
	board []BoardRow
}

func newFakeRepo(rooms ...Room) *fakeRepo {
	f := &fakeRepo{rooms: make(map[int]Room)}
	for _, r := range rooms {
		f.rooms[r.Number] = r
	}
	return f
}

func (f *fakeRepo) Get(ctx context.Context, number int) (Room, error) {
	r, ok := f.rooms[number]
	if !ok {
		return Room{}, shared.ErrNotFound
	}
	return r, nil
}

func (f *fakeRepo) Board(ctx context.Context) ([]BoardRow, error) {
	out := make([]BoardRow, len(f.board))
	copy(out, f.board)
	return out, nil
}

func (f *fakeRepo) Update(ctx context.Context, number int, in UpdateInput) error {
	r, ok := f.rooms[number]
	if !ok {
		return shared.ErrNotFound
	}
	r.RoomType = in.RoomType
	r.Description = in.Description
	r.RateUSD = in.RateUSD
	f.rooms[number] = r
	return nil
}

func (f *fakeRepo) SetStatus(ctx context.Context, number int, status Status) error {
	r, ok := f.rooms[number]
	if !ok {
		return shared.ErrNotFound
	}
	r.Status = status
	f.rooms[number] = r
	return nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestManualCycle(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusFree, StatusReserved, true},
		{StatusFree, StatusMaintenance, true},
		{StatusReserved, StatusFree, true},
		{StatusCleaning, StatusFree, true},
		{StatusCleaning, StatusReserved, false},
		{StatusMaintenance, StatusFree, true},
		{StatusMaintenance, StatusCleaning, false},
		{StatusFree, StatusOccupied, false},
		{StatusOccupied, StatusFree, false},
		{StatusOccupied, StatusCleaning, false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.ok, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestSetStatusRejectsOccupancyChanges(t *testing.T) {
	repo := newFakeRepo(Room{Number: 5, Status: StatusOccupied})
	svc := NewService(repo, nil)

	_, err := svc.SetStatus(context.Background(), 1, 5, StatusFree)
	require.ErrorIs(t, err, shared.ErrPrecondition)
}

func TestSetStatusFollowsCycle(t *testing.T) {
	repo := newFakeRepo(Room{Number: 7, Status: StatusCleaning})
	svc := NewService(repo, nil)

	got, err := svc.SetStatus(context.Background(), 1, 7, StatusFree)
	require.NoError(t, err)
	require.Equal(t, StatusFree, got.Status)

	_, err = svc.SetStatus(context.Background(), 1, 7, Status("GONE"))
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateValidatesRate(t *testing.T) {
	repo := newFakeRepo(Room{Number: 3, RoomType: "Standard", RateUSD: 30, Status: StatusFree})
	svc := NewService(repo, nil)

	_, err := svc.Update(context.Background(), 1, 3, UpdateInput{RoomType: "Suite", RateUSD: 0})
	require.ErrorIs(t, err, shared.ErrInvalidAmount)

	got, err := svc.Update(context.Background(), 1, 3, UpdateInput{RoomType: "Suite", RateUSD: 55})
	require.NoError(t, err)
	require.Equal(t, 55.0, got.RateUSD)
}

func TestBoardAlerts(t *testing.T) {
	today := date(2025, 3, 10)
	repo := newFakeRepo()
	repo.board = []BoardRow{
		{Room: Room{Number: 1, Status: StatusFree}},
		{
			Room: Room{Number: 2, Status: StatusOccupied},
			Occupancy: &OccupancySummary{
				GuestBalance:    -40,
				PlannedExitDate: date(2025, 3, 9),
			},
		},
		{
			Room: Room{Number: 3, Status: StatusOccupied},
			Occupancy: &OccupancySummary{
				GuestBalance:    10,
				PlannedExitDate: date(2025, 3, 11),
			},
		},
		{
			Room: Room{Number: 4, Status: StatusOccupied},
			Occupancy: &OccupancySummary{
				PlannedExitDate: date(2025, 3, 15),
			},
		},
	}
	svc := NewService(repo, nil)
	svc.now = func() time.Time { return today }

	rows, err := svc.Board(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 4)

	require.False(t, rows[0].HasDebt)
	require.False(t, rows[0].Overdue)

	require.True(t, rows[1].HasDebt)
	require.True(t, rows[1].Overdue)
	require.False(t, rows[1].LeavesTomorrow)

	require.False(t, rows[2].HasDebt)
	require.False(t, rows[2].Overdue)
	require.True(t, rows[2].LeavesTomorrow)

	require.False(t, rows[3].Overdue)
	require.False(t, rows[3].LeavesTomorrow)
}

func TestBoardExitTodayIsOverdue(t *testing.T) {
	repo := newFakeRepo()
	repo.board = []BoardRow{{
		Room:      Room{Number: 2, Status: StatusOccupied},
		Occupancy: &OccupancySummary{PlannedExitDate: date(2025, 3, 10)},
	}}
	svc := NewService(repo, nil)
	svc.now = func() time.Time { return date(2025, 3, 10).Add(14 * time.Hour) }

	rows, err := svc.Board(context.Background())
	require.NoError(t, err)
	require.True(t, rows[0].Overdue)
}
