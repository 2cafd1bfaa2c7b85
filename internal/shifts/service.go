package shifts

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/posada-hms/posada/internal/fx"
	"github.com/posada-hms/posada/internal/shared"
)

// RepositoryPort defines data access for shift reconciliation.
type RepositoryPort interface {
	PaymentsSince(ctx context.Context, userID int64, since time.Time) ([]PaymentRow, error)
	InsertClosure(ctx context.Context, c Closure) (Closure, error)
	History(ctx context.Context, limit int) ([]Closure, error)
}

// MarkerStore tracks the single global shift-open marker. One shift is open
// for the property at a time, not one per user.
type MarkerStore interface {
	ShiftOpenedAt(ctx context.Context) (*time.Time, error)
	SetShiftOpenedAt(ctx context.Context, at time.Time) error
}

// Auditor records shift events.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles shift reconciliation.
type Service struct {
	repo   RepositoryPort
	marker MarkerStore
	audit  Auditor
	now    func() time.Time
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, marker MarkerStore, audit Auditor) *Service {
	return &Service{repo: repo, marker: marker, audit: audit, now: time.Now}
}

// Open starts a shift if none is open and returns the open timestamp.
// Opening while a shift is already open returns the existing timestamp
// unchanged.
func (s *Service) Open(ctx context.Context, userID int64) (time.Time, error) {
	existing, err := s.marker.ShiftOpenedAt(ctx)
	if err != nil {
		return time.Time{}, err
	}
	if existing != nil {
		return *existing, nil
	}
	opened := s.now()
	if err := s.marker.SetShiftOpenedAt(ctx, opened); err != nil {
		return time.Time{}, err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  userID,
			Action:   "shifts.open",
			Entity:   "shift",
			EntityID: opened.Format(time.RFC3339),
		})
	}
	return opened, nil
}

// OpenedAt returns the current shift marker, nil when no shift is open.
func (s *Service) OpenedAt(ctx context.Context) (*time.Time, error) {
	return s.marker.ShiftOpenedAt(ctx)
}

// Close reconciles the open shift for a user: groups that user's payments
// since the marker by method, snapshots the totals and moves the marker to
// the close instant so the next shift starts immediately.
func (s *Service) Close(ctx context.Context, userID int64) (Closure, error) {
	openedAt, err := s.marker.ShiftOpenedAt(ctx)
	if err != nil {
		return Closure{}, err
	}
	if openedAt == nil {
		return Closure{}, fmt.Errorf("%w: no shift is open", shared.ErrPrecondition)
	}

	payments, err := s.repo.PaymentsSince(ctx, userID, *openedAt)
	if err != nil {
		return Closure{}, err
	}

	breakdown := make(Breakdown)
	var totalUSD, totalLocal float64
	for _, p := range payments {
		breakdown[p.Method] += p.AmountUSD
		totalUSD += p.AmountUSD
		totalLocal += p.AmountLocal
	}

	closedAt := s.now()
	closure, err := s.repo.InsertClosure(ctx, Closure{
		UserID:     userID,
		OpenedAt:   *openedAt,
		ClosedAt:   closedAt,
		TotalUSD:   fx.Round2(totalUSD),
		TotalLocal: fx.Round2(totalLocal),
		Breakdown:  breakdown,
	})
	if err != nil {
		return Closure{}, err
	}
	if err := s.marker.SetShiftOpenedAt(ctx, closedAt); err != nil {
		return Closure{}, err
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  userID,
			Action:   "shifts.close",
			Entity:   "shift_closure",
			EntityID: strconv.FormatInt(closure.ID, 10),
			Meta: map[string]any{
				"total_usd": strconv.FormatFloat(closure.TotalUSD, 'f', 2, 64),
			},
		})
	}
	return closure, nil
}

// History lists recent closures.
func (s *Service) History(ctx context.Context, limit int) ([]Closure, error) {
	return s.repo.History(ctx, limit)
}
