package guests

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/posada-hms/posada/internal/shared"
)

type fakeRepo struct {
	nextID int64
	byID   map[int64]Guest
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1, byID: make(map[int64]Guest)}
}

func (f *fakeRepo) Create(ctx context.Context, in Input) (Guest, error) {
	for _, g := range f.byID {
		if g.Document == in.Document {
			return Guest{}, shared.ErrDuplicate
		}
	}
	g := Guest{ID: f.nextID, Document: in.Document, Names: in.Names, Phone: in.Phone, Nationality: in.Nationality}
	f.byID[g.ID] = g
	f.nextID++
	return g, nil
}

func (f *fakeRepo) Update(ctx context.Context, id int64, in Input) (Guest, error) {
	g, ok := f.byID[id]
	if !ok {
		return Guest{}, shared.ErrNotFound
	}
	g.Document = in.Document
	g.Names = in.Names
	g.Phone = in.Phone
	f.byID[id] = g
	return g, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id int64) (Guest, error) {
	g, ok := f.byID[id]
	if !ok {
		return Guest{}, shared.ErrNotFound
	}
	return g, nil
}

func (f *fakeRepo) GetByDocument(ctx context.Context, document string) (Guest, error) {
	for _, g := range f.byID {
		if g.Document == document {
			return g, nil
		}
	}
	return Guest{}, shared.ErrNotFound
}

func (f *fakeRepo) Search(ctx context.Context, query string, limit int) ([]Guest, error) {
	var out []Guest
	for _, g := range f.byID {
		if strings.HasPrefix(g.Document, query) || strings.Contains(g.Names, query) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeRepo) SetBalance(ctx context.Context, id int64, balance float64) error {
	g, ok := f.byID[id]
	if !ok {
		return shared.ErrNotFound
	}
	g.Balance = balance
	f.byID[id] = g
	return nil
}

func TestCreateTrimsAndDefaultsNationality(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)

	g, err := svc.Create(context.Background(), Input{Document: " V-12345678 ", Names: " Maria Perez "})
	require.NoError(t, err)
	require.Equal(t, "V-12345678", g.Document)
	require.Equal(t, "Maria Perez", g.Names)
	require.Equal(t, "Venezolano", g.Nationality)
}

func TestCreateRejectsMissingFields(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)

	_, err := svc.Create(context.Background(), Input{Names: "Maria"})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(context.Background(), Input{Document: "V-1"})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateDuplicateDocument(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)

	_, err := svc.Create(context.Background(), Input{Document: "V-1", Names: "Maria"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), Input{Document: "V-1", Names: "Otra Maria"})
	require.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestLookupByDocument(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	created, err := svc.Create(context.Background(), Input{Document: "E-900", Names: "John Doe"})
	require.NoError(t, err)

	got, err := svc.Lookup(context.Background(), "E-900")
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)

	_, err = svc.Lookup(context.Background(), "E-901")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAdjustBalanceAudits(t *testing.T) {
	repo := newFakeRepo()
	audit := &fakeAuditor{}
	svc := NewService(repo, audit)

	g, err := svc.Create(context.Background(), Input{Document: "V-2", Names: "Pedro"})
	require.NoError(t, err)

	got, err := svc.AdjustBalance(context.Background(), 3, g.ID, 25.50)
	require.NoError(t, err)
	require.Equal(t, 25.50, got.Balance)
	require.Len(t, audit.logs, 1)
	require.Equal(t, "guests.balance_adjust", audit.logs[0].Action)
}

type fakeAuditor struct {
	logs []shared.AuditLog
}

func (f *fakeAuditor) Record(ctx context.Context, log shared.AuditLog) error {
	f.logs = append(f.logs, log)
	return nil
}
