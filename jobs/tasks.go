package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskGLIntegrity scans posted entries for unbalanced lines.
	TaskGLIntegrity = "gl:integrity"
	// TaskReportsWarmup rebuilds report caches for active companies.
	TaskReportsWarmup = "reports:warmup"
	// TaskIdempotencyCleanup prunes expired idempotency keys.
	TaskIdempotencyCleanup = "idempotency:cleanup"
)

// GLIntegrityPayload scopes the integrity scan.
type GLIntegrityPayload struct {
	// CompanyID limits the scan to one company; zero scans all.
	CompanyID int64 `json:"company_id"`
}

// NewGLIntegrityTask constructs the integrity scan task.
func NewGLIntegrityTask(payload GLIntegrityPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskGLIntegrity, data), nil
}

// ReportsWarmupPayload selects which companies to warm.
type ReportsWarmupPayload struct {
	Scope string `json:"scope"`
}

// NewReportsWarmupTask constructs the cache warmup task.
func NewReportsWarmupTask(scope string) (*asynq.Task, error) {
	data, err := json.Marshal(ReportsWarmupPayload{Scope: scope})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportsWarmup, data), nil
}

// NewIdempotencyCleanupTask constructs the key pruning task.
func NewIdempotencyCleanupTask() *asynq.Task {
	return asynq.NewTask(TaskIdempotencyCleanup, nil)
}
