package jobs

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

func TestNewWorkerRejectsBadCron(t *testing.T) {
	task, err := NewSnapshotWarmupTask(SnapshotWarmupPayload{})
	require.NoError(t, err)
	_, err = NewWorker(WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: "127.0.0.1:0"},
		Cron:      []CronRegistration{{Spec: "every now and then", Task: task}},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), TaskSnapshotWarmup)
	require.Contains(t, err.Error(), "every now and then")
}

func TestLogTasksPassesResultThrough(t *testing.T) {
	boom := errors.New("boom")
	h := logTasks(slog.New(slog.DiscardHandler))(asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
		return boom
	}))
	require.ErrorIs(t, h.ProcessTask(context.Background(), asynq.NewTask(TaskSnapshotWarmup, nil)), boom)
}

func TestWarmupOptions(t *testing.T) {
	types := map[asynq.OptionType]any{}
	for _, opt := range WarmupOptions() {
		types[opt.Type()] = opt.Value()
	}
	require.Equal(t, QueueDefault, types[asynq.QueueOpt])
	require.Equal(t, 3, types[asynq.MaxRetryOpt])
	require.Equal(t, 2*time.Minute, types[asynq.TimeoutOpt])
	require.Equal(t, time.Minute, types[asynq.UniqueOpt])
}

func TestNewClientRequiresAddr(t *testing.T) {
	_, err := NewClient(asynq.RedisClientOpt{})
	require.Error(t, err)
}
