package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"github.com/cinescope/hrdash/internal/dashboard"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSnapshotWarmup primes the upstream response cache with a full load cycle.
	TaskSnapshotWarmup = "dashboard:snapshot_warmup"
)

// SnapshotWarmupPayload selects the parameters of the warmed cycle. A nil
// Params warms the default view.
type SnapshotWarmupPayload struct {
	Params *dashboard.Params `json:"params,omitempty"`
	Reason string            `json:"reason,omitempty"`
}

// NewSnapshotWarmupTask constructs an Asynq task for the warmup job.
func NewSnapshotWarmupTask(payload SnapshotWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSnapshotWarmup, data), nil
}

// WarmupOptions are applied to every warmup task, scheduled or enqueued by
// hand. Unique drops a second warmup submitted within a minute of the first.
func WarmupOptions() []asynq.Option {
	return []asynq.Option{
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(3),
		asynq.Timeout(2 * time.Minute),
		asynq.Unique(time.Minute),
	}
}
