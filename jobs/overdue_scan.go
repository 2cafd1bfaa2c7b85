package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/hibiken/asynq"

	"github.com/posada-hms/posada/internal/shared"
	"github.com/posada-hms/posada/internal/stays"
)

// OverdueScanJob reports active stays that should have checked out, so the
// morning shift starts with a list instead of walking the board.
type OverdueScanJob struct {
	Stays  *stays.Service
	Audit  *shared.AuditLogger
	Logger *slog.Logger
	clock  func() time.Time
}

// NewOverdueScanJob initialises the overdue scan handler.
func NewOverdueScanJob(staysService *stays.Service, audit *shared.AuditLogger, logger *slog.Logger) *OverdueScanJob {
	return &OverdueScanJob{
		Stays:  staysService,
		Audit:  audit,
		Logger: logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the scan. It only reports; room alerts stay a pure read
// on the board.
func (j *OverdueScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("overdue scan: handler not configured")
	}
	var payload OverdueScanPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}

	overdue, err := j.Stays.Overdue(ctx)
	if err != nil {
		return err
	}
	now := j.clock()
	cutoff := now.AddDate(0, 0, -payload.GraceDays)

	var flagged int
	for _, stay := range overdue {
		if stay.PlannedExitDate.After(cutoff) {
			continue
		}
		flagged++
		j.Logger.Warn("overdue departure",
			slog.Int("room", stay.RoomNumber),
			slog.Int64("stay_id", stay.ID),
			slog.String("guest", stay.GuestNames),
			slog.Time("planned_exit", stay.PlannedExitDate))
		if j.Audit != nil {
			_ = j.Audit.Record(ctx, shared.AuditLog{
				Action:   "stays.overdue_flagged",
				Entity:   "stay",
				EntityID: strconv.FormatInt(stay.ID, 10),
				Meta: map[string]any{
					"room":         strconv.Itoa(stay.RoomNumber),
					"planned_exit": stay.PlannedExitDate.Format("2006-01-02"),
				},
				At: now,
			})
		}
	}
	j.Logger.Info("overdue scan finished", slog.Int("flagged", flagged), slog.Int("active_overdue", len(overdue)))
	return nil
}

// MaintenanceCleanupJob prunes expired sessions and old idempotency keys.
type MaintenanceCleanupJob struct {
	Sessions    SessionPruner
	Idempotency *shared.IdempotencyStore
	Logger      *slog.Logger
}

// SessionPruner removes expired session rows.
type SessionPruner interface {
	DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error)
}

// Handle removes state that outlived its purpose.
func (j *MaintenanceCleanupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("maintenance cleanup: handler not configured")
	}
	if j.Sessions != nil {
		n, err := j.Sessions.DeleteExpiredSessions(ctx, time.Now())
		if err != nil {
			return err
		}
		j.Logger.Info("expired sessions pruned", slog.Int64("count", n))
	}
	if j.Idempotency != nil {
		if err := j.Idempotency.Cleanup(ctx, 48*time.Hour); err != nil {
			return err
		}
	}
	return nil
}
