package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/cinescope/hrdash/internal/dashboard"
	"github.com/cinescope/hrdash/internal/observability"
	"github.com/cinescope/hrdash/internal/upstream"
)

// Services bundles the collaborators shared by the binaries.
type Services struct {
	Upstream  *upstream.Client
	Dashboard *dashboard.Service
	Cache     *upstream.Cache
	Redis     *redis.Client
}

// NewServices builds the upstream client and dashboard service from cfg.
// Redis is dialed only when REDIS_ADDR is set; an unreachable Redis is logged
// and the cache stays in place so it recovers once Redis returns.
func NewServices(ctx context.Context, cfg *Config, logger *slog.Logger, metrics *observability.Metrics) (*Services, error) {
	if cfg == nil {
		return nil, errors.New("app: config required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Services{}
	opts := []upstream.Option{upstream.WithTimeout(cfg.APITimeout), upstream.WithLogger(logger)}
	if metrics != nil {
		opts = append(opts, upstream.WithObserver(metrics))
	}

	if cfg.RedisAddr != "" {
		s.Redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := s.Redis.Ping(ctx).Err(); err != nil {
			logger.Warn("redis ping", slog.Any("error", err))
		}
	}
	if cfg.CacheEnabled() {
		s.Cache = upstream.NewCache(s.Redis, cfg.CacheTTL, logger)
		opts = append(opts, upstream.WithCache(s.Cache))
	}

	client, err := upstream.NewClient(cfg.APIBase, opts...)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	s.Upstream = client

	orchestratorOpts := []dashboard.OrchestratorOption{
		dashboard.WithConcurrency(cfg.FetchConcurrency),
		dashboard.WithOrchestratorLogger(logger),
	}
	if metrics != nil {
		orchestratorOpts = append(orchestratorOpts, dashboard.WithCycleObserver(metrics))
	}
	s.Dashboard = dashboard.NewService(dashboard.NewOrchestrator(client, orchestratorOpts...), cfg.CorrelationFeature, logger)
	logger.Debug("services ready",
		slog.String("api_base", client.BaseURL()),
		slog.Bool("cache", s.Cache != nil),
		slog.Int("fetch_concurrency", cfg.FetchConcurrency))
	return s, nil
}

// Close releases the Redis connection.
func (s *Services) Close() error {
	if s == nil || s.Redis == nil {
		return nil
	}
	return s.Redis.Close()
}
