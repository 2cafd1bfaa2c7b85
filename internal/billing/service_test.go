package billing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/posada-hms/posada/internal/shared"
	"github.com/posada-hms/posada/internal/stays"
)

type fakeRepo struct {
	entries   map[int64][]Transaction
	checkout  *checkoutCommit
	partial   [][]Transaction
	commitErr error
}

type checkoutCommit struct {
	stayID     int64
	roomNumber int
	guestID    int64
	payments   []Transaction
	newBalance float64
	closedOn   time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{entries: make(map[int64][]Transaction)}
}

func (f *fakeRepo) ListByStay(ctx context.Context, stayID int64) ([]Transaction, error) {
	return f.entries[stayID], nil
}

func (f *fakeRepo) TotalPaidUSD(ctx context.Context, stayID int64) (float64, error) {
	var total float64
	for _, t := range f.entries[stayID] {
		if t.Kind == KindPayment {
			total += t.AmountUSD
		}
	}
	return total, nil
}

func (f *fakeRepo) CommitPartialPayment(ctx context.Context, payments []Transaction) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.partial = append(f.partial, payments)
	for _, p := range payments {
		f.entries[*p.StayID] = append(f.entries[*p.StayID], p)
	}
	return nil
}

func (f *fakeRepo) CommitCheckout(ctx context.Context, stayID int64, roomNumber int, guestID int64, payments []Transaction, newBalance float64, closedOn time.Time) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.checkout = &checkoutCommit{
		stayID:     stayID,
		roomNumber: roomNumber,
		guestID:    guestID,
		payments:   payments,
		newBalance: newBalance,
		closedOn:   closedOn,
	}
	return nil
}

type fakeStays struct {
	byRoom map[int]stays.ActiveStay
}

func (f *fakeStays) ActiveByRoom(ctx context.Context, roomNumber int) (stays.ActiveStay, error) {
	s, ok := f.byRoom[roomNumber]
	if !ok {
		return stays.ActiveStay{}, shared.ErrNotFound
	}
	return s, nil
}

type fixedRate float64

func (r fixedRate) CurrentRate(ctx context.Context) (float64, error) { return float64(r), nil }

type fakeLocker struct {
	held map[int]bool
	err  error
}

func (l *fakeLocker) Acquire(ctx context.Context, roomNumber int) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	if l.held == nil {
		l.held = make(map[int]bool)
	}
	if l.held[roomNumber] {
		return nil, shared.ErrRoomBusy
	}
	l.held[roomNumber] = true
	return func() { l.held[roomNumber] = false }, nil
}

type fakeIdem struct {
	seen map[string]bool
}

func (f *fakeIdem) CheckAndInsert(ctx context.Context, key, module string) error {
	if f.seen == nil {
		f.seen = make(map[string]bool)
	}
	if f.seen[key] {
		return shared.ErrIdempotencyConflict
	}
	f.seen[key] = true
	return nil
}

func room5Stay() stays.ActiveStay {
	return stays.ActiveStay{
		Stay: stays.Stay{
			ID:              11,
			GuestID:         7,
			RoomNumber:      5,
			EntryDate:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			PlannedExitDate: time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
			Status:          stays.StatusActive,
		},
		GuestNames:   "Maria Perez",
		GuestBalance: -10,
		RoomRateUSD:  30,
	}
}

func newCheckoutService(repo *fakeRepo, st *fakeStays, rate float64) *Service {
	svc := NewService(repo, st, fixedRate(rate), &fakeLocker{}, &fakeIdem{}, nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 3, 11, 30, 0, 0, time.UTC) }
	return svc
}

func TestCheckoutRoom5Scenario(t *testing.T) {
	repo := newFakeRepo()
	st := &fakeStays{byRoom: map[int]stays.ActiveStay{5: room5Stay()}}
	svc := newCheckoutService(repo, st, 36)

	result, err := svc.Checkout(context.Background(), 1, CheckoutInput{
		RoomNumber: 5,
		Lines:      []LineInput{{Method: MethodCashUSD, RawAmount: 80}},
	})
	require.NoError(t, err)

	// 2 nights x $30 = $60 base, plus $10 carried debt = $70 due.
	require.Equal(t, 70.0, result.AmountDue)
	require.Equal(t, 80.0, result.TotalCollected)
	require.Equal(t, 10.0, result.Overpay)
	require.Equal(t, 0.0, result.NewBalance)
	require.True(t, result.Closed)

	require.NotNil(t, repo.checkout)
	require.EqualValues(t, 11, repo.checkout.stayID)
	require.Equal(t, 5, repo.checkout.roomNumber)
	require.EqualValues(t, 7, repo.checkout.guestID)
	require.Equal(t, 0.0, repo.checkout.newBalance)
	require.Len(t, repo.checkout.payments, 1)
	require.Equal(t, "Room #5 - 2n", repo.checkout.payments[0].Description)
	require.Equal(t, time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC), repo.checkout.closedOn)
}

func TestCheckoutSkipsNonPositiveLines(t *testing.T) {
	repo := newFakeRepo()
	st := &fakeStays{byRoom: map[int]stays.ActiveStay{5: room5Stay()}}
	svc := newCheckoutService(repo, st, 36)

	_, err := svc.Checkout(context.Background(), 1, CheckoutInput{
		RoomNumber: 5,
		Lines: []LineInput{
			{Method: MethodCashUSD, RawAmount: 70},
			{Method: MethodCashUSD, RawAmount: 0},
			{Method: MethodOther, RawAmount: -3},
		},
	})
	require.NoError(t, err)
	require.Len(t, repo.checkout.payments, 1)
}

func TestCheckoutRejectsUnderpaid(t *testing.T) {
	repo := newFakeRepo()
	st := &fakeStays{byRoom: map[int]stays.ActiveStay{5: room5Stay()}}
	svc := newCheckoutService(repo, st, 36)

	_, err := svc.Checkout(context.Background(), 1, CheckoutInput{
		RoomNumber: 5,
		Lines:      []LineInput{{Method: MethodCashUSD, RawAmount: 50}},
	})
	require.ErrorIs(t, err, shared.ErrUnderpaid)
	require.Nil(t, repo.checkout)
}

func TestCheckoutAccruesShortfallWhenAsked(t *testing.T) {
	repo := newFakeRepo()
	st := &fakeStays{byRoom: map[int]stays.ActiveStay{5: room5Stay()}}
	svc := newCheckoutService(repo, st, 36)

	result, err := svc.Checkout(context.Background(), 1, CheckoutInput{
		RoomNumber:      5,
		Lines:           []LineInput{{Method: MethodCashUSD, RawAmount: 50}},
		AccrueShortfall: true,
	})
	require.NoError(t, err)
	require.Equal(t, -20.0, result.NewBalance)
	require.True(t, result.Closed)
}

func TestCheckoutValidatesReferences(t *testing.T) {
	repo := newFakeRepo()
	st := &fakeStays{byRoom: map[int]stays.ActiveStay{5: room5Stay()}}
	svc := newCheckoutService(repo, st, 36)

	_, err := svc.Checkout(context.Background(), 1, CheckoutInput{
		RoomNumber: 5,
		Lines:      []LineInput{{Method: MethodZelle, RawAmount: 80}},
	})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Checkout(context.Background(), 1, CheckoutInput{
		RoomNumber: 5,
		Lines:      []LineInput{{Method: MethodZelle, RawAmount: 80, Reference: "Z-1001"}},
	})
	require.NoError(t, err)
}

func TestCheckoutIdempotencyKeyRejectsRetry(t *testing.T) {
	repo := newFakeRepo()
	st := &fakeStays{byRoom: map[int]stays.ActiveStay{5: room5Stay()}}
	svc := newCheckoutService(repo, st, 36)

	in := CheckoutInput{
		RoomNumber:     5,
		Lines:          []LineInput{{Method: MethodCashUSD, RawAmount: 80}},
		IdempotencyKey: "ck-123",
	}
	_, err := svc.Checkout(context.Background(), 1, in)
	require.NoError(t, err)

	_, err = svc.Checkout(context.Background(), 1, in)
	require.ErrorIs(t, err, shared.ErrIdempotencyConflict)
}

func TestCheckoutCountsPriorPartialPayments(t *testing.T) {
	repo := newFakeRepo()
	st := &fakeStays{byRoom: map[int]stays.ActiveStay{5: room5Stay()}}
	svc := newCheckoutService(repo, st, 36)

	_, err := svc.PartialPayment(context.Background(), 1, CheckoutInput{
		RoomNumber: 5,
		Lines:      []LineInput{{Method: MethodCashUSD, RawAmount: 40}},
	})
	require.NoError(t, err)

	// Due drops from 70 to 30 after the partial payment.
	inv, err := svc.InvoiceByRoom(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, 30.0, inv.AmountDue)

	result, err := svc.Checkout(context.Background(), 1, CheckoutInput{
		RoomNumber: 5,
		Lines:      []LineInput{{Method: MethodCashUSD, RawAmount: 30}},
	})
	require.NoError(t, err)
	require.Equal(t, 30.0, result.AmountDue)
	require.Equal(t, -10.0, result.NewBalance)
}

func TestPartialPaymentRequiresPayableLine(t *testing.T) {
	repo := newFakeRepo()
	st := &fakeStays{byRoom: map[int]stays.ActiveStay{5: room5Stay()}}
	svc := newCheckoutService(repo, st, 36)

	_, err := svc.PartialPayment(context.Background(), 1, CheckoutInput{
		RoomNumber: 5,
		Lines:      []LineInput{{Method: MethodCashUSD, RawAmount: 0}},
	})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCheckoutCashLocalLineConverts(t *testing.T) {
	repo := newFakeRepo()
	st := &fakeStays{byRoom: map[int]stays.ActiveStay{5: room5Stay()}}
	svc := newCheckoutService(repo, st, 36)

	// 2520 Bs at rate 36 is exactly $70, the amount due.
	result, err := svc.Checkout(context.Background(), 1, CheckoutInput{
		RoomNumber: 5,
		Lines:      []LineInput{{Method: MethodCashLocal, RawAmount: 2520}},
	})
	require.NoError(t, err)
	require.Equal(t, 70.0, result.TotalCollected)
	require.Equal(t, -10.0, result.NewBalance)
}

func TestCheckoutRoomLockBlocksConcurrentCommit(t *testing.T) {
	repo := newFakeRepo()
	st := &fakeStays{byRoom: map[int]stays.ActiveStay{5: room5Stay()}}
	locker := &fakeLocker{held: map[int]bool{5: true}}
	svc := NewService(repo, st, fixedRate(36), locker, &fakeIdem{}, nil)

	_, err := svc.Checkout(context.Background(), 1, CheckoutInput{
		RoomNumber: 5,
		Lines:      []LineInput{{Method: MethodCashUSD, RawAmount: 80}},
	})
	require.ErrorIs(t, err, shared.ErrRoomBusy)
}
