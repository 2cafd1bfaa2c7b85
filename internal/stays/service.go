package stays

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/posada-hms/posada/internal/fx"
	"github.com/posada-hms/posada/internal/shared"
)

// RepositoryPort defines data access for stays.
type RepositoryPort interface {
	CommitCheckIn(ctx context.Context, in CheckInInput, entry, exit time.Time, charge ChargeRecord) (Stay, error)
	RoomStatus(ctx context.Context, roomNumber int) (string, float64, error)
	ActiveByRoom(ctx context.Context, roomNumber int) (ActiveStay, error)
	GetByID(ctx context.Context, id int64) (ActiveStay, error)
	Companions(ctx context.Context, stayID int64) ([]int64, error)
	Overdue(ctx context.Context, asOf time.Time) ([]ActiveStay, error)
}

// RateSource supplies the exchange rate at commit time.
type RateSource interface {
	CurrentRate(ctx context.Context) (float64, error)
}

// Auditor records stay lifecycle events.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles stay lifecycle logic.
type Service struct {
	repo  RepositoryPort
	rates RateSource
	audit Auditor
	now   func() time.Time
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, rates RateSource, audit Auditor) *Service {
	return &Service{repo: repo, rates: rates, audit: audit, now: time.Now}
}

// Quote is the pre-invoice shown before confirming a check-in.
type Quote struct {
	Nights     int     `json:"nights"`
	RateUSD    float64 `json:"rate_usd"`
	BaseCharge float64 `json:"base_charge_usd"`
}

// QuoteStay computes nights and base charge for a prospective stay.
func (s *Service) QuoteStay(ctx context.Context, roomNumber int, entryDate, exitDate string) (Quote, error) {
	nights, err := NightsBetween(entryDate, exitDate)
	if err != nil {
		return Quote{}, err
	}
	_, rate, err := s.repo.RoomStatus(ctx, roomNumber)
	if err != nil {
		return Quote{}, err
	}
	return Quote{Nights: nights, RateUSD: rate, BaseCharge: BaseCharge(nights, rate)}, nil
}

// CheckIn opens a stay. The room must not be occupied; the stay, room flip,
// companions and base charge commit atomically.
func (s *Service) CheckIn(ctx context.Context, actorID int64, in CheckInInput) (Stay, error) {
	entry, err := ParseDate(in.EntryDate)
	if err != nil {
		return Stay{}, err
	}
	exit, err := ParseDate(in.PlannedExitDate)
	if err != nil {
		return Stay{}, err
	}
	if in.GuestID == 0 {
		return Stay{}, fmt.Errorf("%w: a primary guest is required", shared.ErrValidation)
	}

	status, nightlyRate, err := s.repo.RoomStatus(ctx, in.RoomNumber)
	if err != nil {
		return Stay{}, err
	}
	if status == "OCCUPIED" {
		return Stay{}, fmt.Errorf("%w: room %d is already occupied", shared.ErrPrecondition, in.RoomNumber)
	}

	rate, err := s.rates.CurrentRate(ctx)
	if err != nil {
		return Stay{}, err
	}

	nights := Nights(entry, exit)
	base := BaseCharge(nights, nightlyRate)
	charge := ChargeRecord{
		AmountUSD:    base,
		ExchangeRate: rate,
		AmountLocal:  fx.ToLocal(rate, base),
		RecordedAt:   s.now(),
		UserID:       actorID,
		Description:  fmt.Sprintf("Stay charge, %d night(s)", nights),
	}

	stay, err := s.repo.CommitCheckIn(ctx, in, entry, exit, charge)
	if err != nil {
		return Stay{}, err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "stays.check_in",
			Entity:   "stay",
			EntityID: strconv.FormatInt(stay.ID, 10),
			Meta: map[string]any{
				"room":   strconv.Itoa(in.RoomNumber),
				"guest":  strconv.FormatInt(in.GuestID, 10),
				"nights": strconv.Itoa(nights),
			},
		})
	}
	return stay, nil
}

// ActiveByRoom returns the active stay for a room.
func (s *Service) ActiveByRoom(ctx context.Context, roomNumber int) (ActiveStay, error) {
	return s.repo.ActiveByRoom(ctx, roomNumber)
}

// Get returns one stay with guest and room context.
func (s *Service) Get(ctx context.Context, id int64) (ActiveStay, error) {
	return s.repo.GetByID(ctx, id)
}

// Companions lists the companion guest ids of a stay.
func (s *Service) Companions(ctx context.Context, stayID int64) ([]int64, error) {
	return s.repo.Companions(ctx, stayID)
}

// Overdue lists active stays whose planned exit has passed.
func (s *Service) Overdue(ctx context.Context) ([]ActiveStay, error) {
	return s.repo.Overdue(ctx, s.now())
}
