package stays

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/posada-hms/posada/internal/shared"
)

type fakeRepo struct {
	roomStatus string
	roomRate   float64
	roomErr    error

	committed  *CheckInInput
	charge     ChargeRecord
	commitErr  error
	active     map[int]ActiveStay
	overdue    []ActiveStay
	companions map[int64][]int64
}

func (f *fakeRepo) CommitCheckIn(ctx context.Context, in CheckInInput, entry, exit time.Time, charge ChargeRecord) (Stay, error) {
	if f.commitErr != nil {
		return Stay{}, f.commitErr
	}
	f.committed = &in
	f.charge = charge
	return Stay{ID: 42, GuestID: in.GuestID, RoomNumber: in.RoomNumber, EntryDate: entry, PlannedExitDate: exit, Status: StatusActive}, nil
}

func (f *fakeRepo) RoomStatus(ctx context.Context, roomNumber int) (string, float64, error) {
	if f.roomErr != nil {
		return "", 0, f.roomErr
	}
	return f.roomStatus, f.roomRate, nil
}

func (f *fakeRepo) ActiveByRoom(ctx context.Context, roomNumber int) (ActiveStay, error) {
	a, ok := f.active[roomNumber]
	if !ok {
		return ActiveStay{}, shared.ErrNotFound
	}
	return a, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id int64) (ActiveStay, error) {
	for _, a := range f.active {
		if a.ID == id {
			return a, nil
		}
	}
	return ActiveStay{}, shared.ErrNotFound
}

func (f *fakeRepo) Companions(ctx context.Context, stayID int64) ([]int64, error) {
	return f.companions[stayID], nil
}

func (f *fakeRepo) Overdue(ctx context.Context, asOf time.Time) ([]ActiveStay, error) {
	return f.overdue, nil
}

type fixedRate float64

func (r fixedRate) CurrentRate(ctx context.Context) (float64, error) { return float64(r), nil }

func TestCheckInComputesCharge(t *testing.T) {
	repo := &fakeRepo{roomStatus: "FREE", roomRate: 30}
	svc := NewService(repo, fixedRate(36.5), nil)
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC) }

	stay, err := svc.CheckIn(context.Background(), 1, CheckInInput{
		GuestID:         7,
		RoomNumber:      5,
		EntryDate:       "2025-03-10",
		PlannedExitDate: "2025-03-14",
		CompanionIDs:    []int64{8, 9},
	})
	require.NoError(t, err)
	require.EqualValues(t, 42, stay.ID)
	require.NotNil(t, repo.committed)
	require.Equal(t, 120.0, repo.charge.AmountUSD)
	require.Equal(t, 36.5, repo.charge.ExchangeRate)
	require.Equal(t, 4380.0, repo.charge.AmountLocal)
	require.Equal(t, "Stay charge, 4 night(s)", repo.charge.Description)
	require.EqualValues(t, 1, repo.charge.UserID)
}

func TestCheckInRejectsOccupiedRoom(t *testing.T) {
	repo := &fakeRepo{roomStatus: "OCCUPIED", roomRate: 30}
	svc := NewService(repo, fixedRate(36), nil)

	_, err := svc.CheckIn(context.Background(), 1, CheckInInput{
		GuestID:         7,
		RoomNumber:      5,
		EntryDate:       "2025-03-10",
		PlannedExitDate: "2025-03-14",
	})
	require.ErrorIs(t, err, shared.ErrPrecondition)
	require.Nil(t, repo.committed)
}

func TestCheckInRejectsBadDates(t *testing.T) {
	repo := &fakeRepo{roomStatus: "FREE", roomRate: 30}
	svc := NewService(repo, fixedRate(36), nil)

	_, err := svc.CheckIn(context.Background(), 1, CheckInInput{
		GuestID:         7,
		RoomNumber:      5,
		EntryDate:       "10/03/2025",
		PlannedExitDate: "2025-03-14",
	})
	require.ErrorIs(t, err, shared.ErrInvalidDate)
}

func TestCheckInSameDayBillsOneNight(t *testing.T) {
	repo := &fakeRepo{roomStatus: "RESERVED", roomRate: 45}
	svc := NewService(repo, fixedRate(36), nil)

	_, err := svc.CheckIn(context.Background(), 1, CheckInInput{
		GuestID:         7,
		RoomNumber:      12,
		EntryDate:       "2025-03-10",
		PlannedExitDate: "2025-03-10",
	})
	require.NoError(t, err)
	require.Equal(t, 45.0, repo.charge.AmountUSD)
	require.Equal(t, "Stay charge, 1 night(s)", repo.charge.Description)
}
