package app

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	dashboardhttp "github.com/cinescope/hrdash/internal/dashboard/http"
	"github.com/cinescope/hrdash/internal/observability"
	"github.com/cinescope/hrdash/internal/platform/httpx"
	"github.com/cinescope/hrdash/jobs"
	"github.com/cinescope/hrdash/web"
)

const readinessTimeout = 3 * time.Second

// ReadinessCheck probes one dependency for /readyz. Optional checks report
// their failure without failing readiness.
type ReadinessCheck struct {
	Name     string
	Optional bool
	Check    func(ctx context.Context) error
}

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	DashboardHandler *dashboardhttp.Handler
	JobHandler       *jobs.Handler
	Metrics          *observability.Metrics
	Readiness        []ReadinessCheck
}

// NewRouter constructs the chi.Router with dashboard defaults.
func NewRouter(params RouterParams) http.Handler {
	if params.Logger == nil {
		params.Logger = slog.Default()
	}
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", readinessHandler(params.Logger, params.Readiness))

	if params.DashboardHandler != nil {
		params.DashboardHandler.MountRoutes(r)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	return r
}

type readiness struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func readinessHandler(logger *slog.Logger, checks []ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		var (
			mu  sync.Mutex
			wg  sync.WaitGroup
			out = readiness{Status: "ok", Checks: make(map[string]string, len(checks))}
		)
		for _, c := range checks {
			if c.Check == nil {
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := c.Check(ctx)
				mu.Lock()
				defer mu.Unlock()
				if err == nil {
					out.Checks[c.Name] = "ok"
					return
				}
				out.Checks[c.Name] = err.Error()
				if !c.Optional {
					out.Status = "unavailable"
				}
			}()
		}
		wg.Wait()

		status := http.StatusOK
		if out.Status != "ok" {
			status = http.StatusServiceUnavailable
			failing := make([]string, 0, len(out.Checks))
			for name, result := range out.Checks {
				if result != "ok" {
					failing = append(failing, name)
				}
			}
			sort.Strings(failing)
			logger.Warn("readiness failed", slog.Any("checks", failing))
		}
		httpx.JSON(w, status, out)
	}
}

// staticCacheHandler wraps a file server with Cache-Control headers.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
