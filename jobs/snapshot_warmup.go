package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/cinescope/hrdash/internal/dashboard"
	jobmetrics "github.com/cinescope/hrdash/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// ErrAllDatasetsFailed marks a warmup run in which nothing could be loaded.
var ErrAllDatasetsFailed = errors.New("snapshot warmup: every dataset failed")

// Loader runs one dashboard load cycle.
type Loader interface {
	Load(ctx context.Context, p dashboard.Params) (*dashboard.Dashboard, *dashboard.Bundle, error)
}

// SnapshotWarmupJob runs a load cycle so the response cache holds fresh data
// before users arrive.
type SnapshotWarmupJob struct {
	Loader  Loader
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewSnapshotWarmupJob wires dependencies for the warmup handler.
func NewSnapshotWarmupJob(loader Loader, logger *slog.Logger, metrics *jobmetrics.Metrics) *SnapshotWarmupJob {
	return &SnapshotWarmupJob{
		Loader:  loader,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes snapshot warmup tasks. Partial failures are logged and
// counted; the task fails only when no dataset loaded.
func (j *SnapshotWarmupJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Loader == nil {
		return errors.New("snapshot warmup: handler not configured")
	}
	var payload SnapshotWarmupPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("snapshot warmup payload: %v: %w", err, asynq.SkipRetry)
		}
	}
	params := dashboard.DefaultParams()
	if payload.Params != nil {
		params = *payload.Params
	}

	run := j.metrics().Track(TaskSnapshotWarmup)
	defer func() {
		resultErr = run.End(resultErr)
	}()

	logger := j.logger().With(slog.String("params", params.Key()))
	if payload.Reason != "" {
		logger = logger.With(slog.String("reason", payload.Reason))
	}
	started := j.now()
	logger.Info("starting snapshot warmup")

	_, bundle, err := j.Loader.Load(ctx, params)
	if err != nil {
		logger.Error("snapshot warmup rejected", slog.Any("error", err))
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	failed := bundle.Failed()
	run.Datasets(bundle.Succeeded(), len(failed))
	logger = logger.With(
		slog.String("cycle_id", bundle.CycleID.String()),
		slog.Int("succeeded", bundle.Succeeded()),
		slog.Int("failed", len(failed)),
		slog.Duration("duration", j.now().Sub(started)),
	)
	if len(bundle.Outcomes) > 0 && len(failed) == len(bundle.Outcomes) {
		first := bundle.FirstError()
		logger.Error("snapshot warmup failed", slog.Any("error", first))
		return fmt.Errorf("%w: %v", ErrAllDatasetsFailed, first)
	}
	if len(failed) > 0 {
		logger.Warn("snapshot warmup completed with failures", slog.Any("datasets", failed))
		return nil
	}
	logger.Info("snapshot warmup completed")
	return nil
}

func (j *SnapshotWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

func (j *SnapshotWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *SnapshotWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
