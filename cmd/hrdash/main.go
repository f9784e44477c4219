package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/cinescope/hrdash/internal/app"
	"github.com/cinescope/hrdash/internal/dashboard/export"
	dashboardhttp "github.com/cinescope/hrdash/internal/dashboard/http"
	"github.com/cinescope/hrdash/internal/dashboard/svg"
	"github.com/cinescope/hrdash/internal/observability"
	"github.com/cinescope/hrdash/internal/view"
	"github.com/cinescope/hrdash/jobs"
	"github.com/cinescope/hrdash/report"
)

func main() {
	if app.SkipStartup(slog.Default(), "server") {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	metrics := observability.NewMetrics()

	services, err := app.NewServices(ctx, cfg, logger, metrics)
	if err != nil {
		logger.Error("init services", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := services.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	if err := services.Cache.ListenForInvalidation(ctx); err != nil {
		logger.Warn("cache invalidation listener", slog.Any("error", err))
	}

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	gotenberg := report.NewClient(cfg.GotenbergURL, 0)
	handlerOpts := []dashboardhttp.Option{dashboardhttp.WithRequestTimeout(cfg.AppRequestTimeout)}
	if gotenberg.Enabled() {
		handlerOpts = append(handlerOpts, dashboardhttp.WithPDF(&export.PDFExporter{Renderer: gotenberg}))
	}
	dashboardHandler := dashboardhttp.NewHandler(logger, services.Dashboard, templates, svg.Renderer{}, handlerOpts...)

	readiness := []app.ReadinessCheck{{
		Name: "upstream",
		Check: func(ctx context.Context) error {
			_, err := services.Upstream.Health(ctx)
			return err
		},
	}}
	if gotenberg.Enabled() {
		readiness = append(readiness, app.ReadinessCheck{Name: "gotenberg", Optional: true, Check: gotenberg.Ping})
	}

	var jobHandler *jobs.Handler
	if cfg.RedisAddr != "" {
		inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		defer func() {
			if err := inspector.Close(); err != nil {
				logger.Warn("inspector close", slog.Any("error", err))
			}
		}()
		jobHandler = jobs.NewHandler(inspector, logger)
		readiness = append(readiness, app.ReadinessCheck{
			Name:     "redis",
			Optional: true,
			Check: func(ctx context.Context) error {
				return services.Redis.Ping(ctx).Err()
			},
		})
	}

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		DashboardHandler: dashboardHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
		Readiness:        readiness,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("api_base", cfg.APIBase))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
