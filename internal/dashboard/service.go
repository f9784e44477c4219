package dashboard

import (
	"context"
	"fmt"
	"log/slog"
)

// DefaultCorrelationFeature is classified by the correlation insight.
const DefaultCorrelationFeature = "monthly_income"

// Service runs load cycles and single-dataset refetches.
type Service struct {
	orchestrator *Orchestrator
	feature      string
	logger       *slog.Logger
}

// NewService wires an Orchestrator. An empty feature uses DefaultCorrelationFeature.
func NewService(orchestrator *Orchestrator, feature string, logger *slog.Logger) *Service {
	if feature == "" {
		feature = DefaultCorrelationFeature
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{orchestrator: orchestrator, feature: feature, logger: logger}
}

// Load validates p, fetches every dataset and assembles the result. The
// error is non-nil only for invalid parameters; dataset failures are part of
// the returned Bundle and Dashboard.
func (s *Service) Load(ctx context.Context, p Params) (*Dashboard, *Bundle, error) {
	if err := p.Validate(); err != nil {
		return nil, nil, err
	}
	bundle := s.orchestrator.Load(ctx, BuildPlan(p))
	return Assemble(bundle, p, s.feature, s.logger), bundle, nil
}

// Refetch reloads one parameter-controlled dataset. Its failure is returned in
// the Outcome, scoped to that slot.
func (s *Service) Refetch(ctx context.Context, name string, p Params) (Outcome, error) {
	ds, err := DatasetFor(name, p)
	if err != nil {
		return Outcome{}, err
	}
	if !IsRefetchable(name) {
		return Outcome{}, fmt.Errorf("%w: %s", ErrNotRefetchable, name)
	}
	if err := p.Validate(); err != nil {
		return Outcome{}, err
	}
	out := s.orchestrator.Fetch(ctx, ds)
	if out.Err != nil {
		s.logger.Warn("refetch failed", slog.String("dataset", name), slog.String("url", out.URL), slog.Any("error", out.Err))
	}
	return out, nil
}

// Logger exposes the service logger for collaborators.
func (s *Service) Logger() *slog.Logger {
	return s.logger
}
