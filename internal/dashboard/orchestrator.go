package dashboard

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/cinescope/hrdash/internal/upstream"
)

// Fetcher is the upstream collaborator of the orchestrator.
type Fetcher interface {
	Fetch(ctx context.Context, req upstream.Request) (json.RawMessage, error)
	URL(req upstream.Request) string
}

// CycleObserver receives the settlement of each load cycle.
type CycleObserver interface {
	ObserveCycle(total int, failed []string)
}

// Orchestrator dispatches every dataset of a plan concurrently and waits for
// all of them to settle.
type Orchestrator struct {
	fetcher  Fetcher
	limit    int
	logger   *slog.Logger
	observer CycleObserver
}

// OrchestratorOption customises an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithConcurrency caps simultaneous requests; n <= 0 dispatches all at once.
func WithConcurrency(n int) OrchestratorOption {
	return func(o *Orchestrator) { o.limit = n }
}

// WithCycleObserver attaches load cycle metrics.
func WithCycleObserver(obs CycleObserver) OrchestratorOption {
	return func(o *Orchestrator) { o.observer = obs }
}

// WithOrchestratorLogger sets the logger.
func WithOrchestratorLogger(logger *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewOrchestrator wires the fetcher.
func NewOrchestrator(fetcher Fetcher, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{fetcher: fetcher, logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Load runs one cycle. Individual failures are captured in their Outcome and
// never abort the other requests; Load returns only after every request settled.
func (o *Orchestrator) Load(ctx context.Context, plan []Dataset) *Bundle {
	bundle := &Bundle{CycleID: uuid.New(), Outcomes: make([]Outcome, len(plan))}
	logger := o.logger.With(slog.String("cycle_id", bundle.CycleID.String()))
	start := time.Now()

	var g errgroup.Group
	if o.limit > 0 {
		g.SetLimit(o.limit)
	}
	for i, ds := range plan {
		g.Go(func() error {
			bundle.Outcomes[i] = o.Fetch(ctx, ds)
			return nil
		})
	}
	_ = g.Wait()

	failed := bundle.Failed()
	for _, out := range bundle.Outcomes {
		if out.Err != nil {
			logger.Warn("dataset failed",
				slog.String("dataset", out.Name),
				slog.String("url", out.URL),
				slog.Any("error", out.Err))
		} else if out.Unrecognized > 0 {
			logger.Warn("dataset rows in unrecognized shape",
				slog.String("dataset", out.Name),
				slog.Int("rows", out.Unrecognized))
		}
	}
	logger.Info("load cycle settled",
		slog.Int("datasets", len(plan)),
		slog.Int("failed", len(failed)),
		slog.Duration("duration", time.Since(start)))
	if o.observer != nil {
		o.observer.ObserveCycle(len(plan), failed)
	}
	return bundle
}

// Fetch runs a single dataset and normalizes its failure.
func (o *Orchestrator) Fetch(ctx context.Context, ds Dataset) Outcome {
	start := time.Now()
	out := Outcome{Name: ds.Name, URL: o.fetcher.URL(ds.Request)}
	raw, err := o.fetcher.Fetch(ctx, ds.Request)
	switch {
	case err != nil:
	case ds.Decode == nil:
		out.Value = raw
	default:
		out.Value, out.Unrecognized, err = ds.Decode(raw)
		if err != nil {
			out.Value = nil
			err = upstream.DecodeError(out.URL, raw, err)
		}
	}
	out.Err = err
	out.Duration = time.Since(start)
	return out
}
