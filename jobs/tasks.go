package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskOverdueScan reports active stays whose planned exit has passed.
	TaskOverdueScan = "stays:overdue_scan"
	// TaskMaintenanceCleanup prunes expired sessions and idempotency keys.
	TaskMaintenanceCleanup = "maintenance:cleanup"
)

// OverdueScanPayload parameterises the overdue scan.
type OverdueScanPayload struct {
	// GraceDays shifts the cutoff: 0 flags stays due today or earlier.
	GraceDays int `json:"grace_days"`
}

// NewOverdueScanTask constructs an Asynq task.
func NewOverdueScanTask(payload OverdueScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOverdueScan, data), nil
}

// NewMaintenanceCleanupTask constructs an Asynq task.
func NewMaintenanceCleanupTask() *asynq.Task {
	return asynq.NewTask(TaskMaintenanceCleanup, nil)
}
