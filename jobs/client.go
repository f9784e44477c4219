package jobs

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
)

// ErrAlreadyQueued means an identical warmup is still pending.
var ErrAlreadyQueued = errors.New("jobs: warmup already queued")

// Client submits tasks to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient connects to the queue's Redis.
func NewClient(redisOpts asynq.RedisClientOpt) (*Client, error) {
	if redisOpts.Addr == "" {
		return nil, errors.New("jobs: redis address required")
	}
	return &Client{client: asynq.NewClient(redisOpts)}, nil
}

// EnqueueSnapshotWarmup submits a warmup task with WarmupOptions.
func (c *Client) EnqueueSnapshotWarmup(ctx context.Context, payload SnapshotWarmupPayload) (*asynq.TaskInfo, error) {
	task, err := NewSnapshotWarmupTask(payload)
	if err != nil {
		return nil, err
	}
	info, err := c.client.EnqueueContext(ctx, task, WarmupOptions()...)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		return nil, ErrAlreadyQueued
	}
	return info, err
}

// Close releases the Redis connection.
func (c *Client) Close() error {
	return c.client.Close()
}
