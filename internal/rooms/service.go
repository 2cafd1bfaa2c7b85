package rooms

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/posada-hms/posada/internal/shared"
)

// RepositoryPort defines data access for rooms.
type RepositoryPort interface {
	Get(ctx context.Context, number int) (Room, error)
	Board(ctx context.Context) ([]BoardRow, error)
	Update(ctx context.Context, number int, in UpdateInput) error
	SetStatus(ctx context.Context, number int, status Status) error
}

// Auditor records room changes.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles room board logic.
type Service struct {
	repo  RepositoryPort
	audit Auditor
	group singleflight.Group
	now   func() time.Time
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, audit Auditor) *Service {
	return &Service{repo: repo, audit: audit, now: time.Now}
}

// Get loads one room.
func (s *Service) Get(ctx context.Context, number int) (Room, error) {
	return s.repo.Get(ctx, number)
}

// Board returns every room with its occupancy summary and alert flags.
// Concurrent callers share a single repository read.
func (s *Service) Board(ctx context.Context) ([]BoardRow, error) {
	v, err, _ := s.group.Do("board", func() (any, error) {
		rows, err := s.repo.Board(ctx)
		if err != nil {
			return nil, err
		}
		today := truncateToDay(s.now())
		for i := range rows {
			deriveAlerts(&rows[i], today)
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]BoardRow), nil
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// deriveAlerts mirrors the board card rules: alerts apply only to occupied
// rooms. Debt is a negative guest balance; an exit today or earlier is
// overdue; an exit exactly one day out warns that the guest leaves tomorrow.
func deriveAlerts(row *BoardRow, today time.Time) {
	if row.Status != StatusOccupied || row.Occupancy == nil {
		return
	}
	row.HasDebt = row.Occupancy.GuestBalance < 0
	days := int(truncateToDay(row.Occupancy.PlannedExitDate).Sub(today).Hours() / 24)
	row.Overdue = days <= 0
	row.LeavesTomorrow = days == 1
}

// Update rewrites the editable room attributes.
func (s *Service) Update(ctx context.Context, actorID int64, number int, in UpdateInput) (Room, error) {
	in.RoomType = strings.TrimSpace(in.RoomType)
	if in.RoomType == "" {
		return Room{}, fmt.Errorf("%w: room type is required", shared.ErrValidation)
	}
	if in.RateUSD <= 0 {
		return Room{}, fmt.Errorf("%w: nightly rate must be positive", shared.ErrInvalidAmount)
	}
	if err := s.repo.Update(ctx, number, in); err != nil {
		return Room{}, err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "rooms.update",
			Entity:   "room",
			EntityID: strconv.Itoa(number),
			Meta:     map[string]any{"rate_usd": strconv.FormatFloat(in.RateUSD, 'f', 2, 64)},
		})
	}
	return s.repo.Get(ctx, number)
}

// SetStatus applies a manual status override, constrained to the allowed
// cycle. Occupancy changes are rejected here; check-in and checkout own them.
func (s *Service) SetStatus(ctx context.Context, actorID int64, number int, to Status) (Room, error) {
	if !to.Valid() {
		return Room{}, fmt.Errorf("%w: unknown status %q", shared.ErrValidation, to)
	}
	room, err := s.repo.Get(ctx, number)
	if err != nil {
		return Room{}, err
	}
	if !CanTransition(room.Status, to) {
		return Room{}, fmt.Errorf("%w: cannot move room %d from %s to %s", shared.ErrPrecondition, number, room.Status, to)
	}
	if err := s.repo.SetStatus(ctx, number, to); err != nil {
		return Room{}, err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "rooms.status_override",
			Entity:   "room",
			EntityID: strconv.Itoa(number),
			Meta:     map[string]any{"from": string(room.Status), "to": string(to)},
		})
	}
	room.Status = to
	return room, nil
}
