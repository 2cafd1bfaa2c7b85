package settings

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/posada-hms/posada/internal/shared"
)

// RepositoryPort defines data access for settings.
type RepositoryPort interface {
	Get(ctx context.Context) (Settings, error)
	Update(ctx context.Context, in UpdateInput) error
	ShiftOpenedAt(ctx context.Context) (*time.Time, error)
	SetShiftOpenedAt(ctx context.Context, at time.Time) error
}

// Auditor records configuration changes.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles settings business logic.
type Service struct {
	repo  RepositoryPort
	audit Auditor
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, audit Auditor) *Service {
	return &Service{repo: repo, audit: audit}
}

// Get returns the configuration singleton.
func (s *Service) Get(ctx context.Context) (Settings, error) {
	return s.repo.Get(ctx)
}

// Update validates and stores the mutable configuration fields.
func (s *Service) Update(ctx context.Context, actorID int64, in UpdateInput) (Settings, error) {
	in.HotelName = strings.TrimSpace(in.HotelName)
	if in.HotelName == "" {
		return Settings{}, fmt.Errorf("%w: hotel name is required", shared.ErrValidation)
	}
	if in.ExchangeRate <= 0 {
		return Settings{}, fmt.Errorf("%w: exchange rate must be positive", shared.ErrInvalidAmount)
	}
	before, err := s.repo.Get(ctx)
	if err != nil {
		return Settings{}, err
	}
	if err := s.repo.Update(ctx, in); err != nil {
		return Settings{}, err
	}
	if s.audit != nil && before.ExchangeRate != in.ExchangeRate {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "settings.rate_change",
			Entity:   "settings",
			EntityID: "1",
			Meta: map[string]any{
				"from": strconv.FormatFloat(before.ExchangeRate, 'f', 4, 64),
				"to":   strconv.FormatFloat(in.ExchangeRate, 'f', 4, 64),
			},
		})
	}
	return s.repo.Get(ctx)
}

// CurrentRate reads the exchange rate as of now. Every conversion reads the
// rate through this method rather than caching it.
func (s *Service) CurrentRate(ctx context.Context) (float64, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return 0, err
	}
	return cfg.ExchangeRate, nil
}

// ShiftOpenedAt exposes the global shift marker.
func (s *Service) ShiftOpenedAt(ctx context.Context) (*time.Time, error) {
	return s.repo.ShiftOpenedAt(ctx)
}

// SetShiftOpenedAt stores the global shift marker.
func (s *Service) SetShiftOpenedAt(ctx context.Context, at time.Time) error {
	return s.repo.SetShiftOpenedAt(ctx, at)
}
