package dashboardhttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cinescope/hrdash/internal/dashboard"
	"github.com/cinescope/hrdash/internal/dashboard/export"
	"github.com/cinescope/hrdash/internal/dashboard/ui"
	"github.com/cinescope/hrdash/internal/platform/httpx"
	"github.com/cinescope/hrdash/internal/view"
)

const defaultRequestTimeout = 20 * time.Second

// DashboardService defines the data contract used by the handler.
type DashboardService interface {
	Load(ctx context.Context, p dashboard.Params) (*dashboard.Dashboard, *dashboard.Bundle, error)
	Refetch(ctx context.Context, name string, p dashboard.Params) (dashboard.Outcome, error)
}

// PDFService renders dashboard content to PDF bytes.
type PDFService interface {
	RenderDashboard(ctx context.Context, payload export.DashboardPayload) ([]byte, error)
}

// Handler coordinates HTTP requests for the attrition dashboard.
type Handler struct {
	logger    *slog.Logger
	service   DashboardService
	templates *view.Engine
	charts    ui.ChartRenderer
	pdf       PDFService
	loads     loadGroup
	bufPool   sync.Pool
	timeout   time.Duration
	now       func() time.Time
}

// Option customises a Handler.
type Option func(*Handler)

// WithPDF enables the PDF export.
func WithPDF(pdf PDFService) Option {
	return func(h *Handler) { h.pdf = pdf }
}

// WithRequestTimeout bounds a single page load.
func WithRequestTimeout(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// WithNow overrides the handler clock for testing.
func WithNow(fn func() time.Time) Option {
	return func(h *Handler) {
		if fn != nil {
			h.now = fn
		}
	}
}

// NewHandler constructs the dashboard HTTP handler.
func NewHandler(logger *slog.Logger, service DashboardService, templates *view.Engine, charts ui.ChartRenderer, opts ...Option) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		logger:    logger,
		service:   service,
		templates: templates,
		charts:    charts,
		timeout:   defaultRequestTimeout,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.bufPool.New = func() any { return new(bytes.Buffer) }
	return h
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	params, err := dashboard.ParseParams(r.URL.Query())
	if err != nil {
		h.handleParamError(w, err)
		return
	}
	dash, err := h.load(r.Context(), params)
	if err != nil {
		h.handleServerError(w, "load dashboard", err)
		return
	}
	vm := ui.Build(dash, h.charts, ui.ParseCorrelationSort(r.URL.Query()))
	vm.PDFEnabled = h.pdf != nil
	data := view.TemplateData{
		Title:       "HR Attrition Dashboard",
		CurrentPath: r.URL.Path,
		RenderedAt:  h.now(),
		Data:        vm,
	}
	if err := h.templates.Render(w, "pages/dashboard.html", data); err != nil {
		h.handleServerError(w, "render template", err)
	}
}

// handleChart refetches one parameter-controlled dataset and returns its
// figure fragment. A failed refetch renders the slot's own error.
func (h *Handler) handleChart(w http.ResponseWriter, r *http.Request) {
	slot := chi.URLParam(r, "dataset")
	if !dashboard.IsRefetchable(slot) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}
	params, err := dashboard.ParseParams(r.URL.Query())
	if err != nil {
		h.handleParamError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	out, err := h.service.Refetch(ctx, slot, params)
	if err != nil {
		h.handleServerError(w, "refetch chart", err)
		return
	}
	dash := (&dashboard.Dashboard{Params: params}).WithRefetch(out, params, h.logger)
	chart := ui.BuildChart(dash, slot, h.charts)

	buf := h.buffer()
	defer h.release(buf)
	if err := h.templates.RenderPartial(buf, "partials/chart.html", chart); err != nil {
		h.handleServerError(w, "render chart", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logError("stream chart", err)
	}
}

func (h *Handler) handleJSON(w http.ResponseWriter, r *http.Request) {
	params, err := dashboard.ParseParams(r.URL.Query())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	dash, err := h.load(r.Context(), params)
	if err != nil {
		h.logError("load dashboard", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dash)
}

// handleDatasetJSON serves one parameter-controlled dataset, the JSON
// counterpart of handleChart.
func (h *Handler) handleDatasetJSON(w http.ResponseWriter, r *http.Request) {
	slot := chi.URLParam(r, "dataset")
	if !dashboard.IsRefetchable(slot) {
		httpx.RespondError(w, fmt.Errorf("%w: dataset %q", httpx.ErrNotFound, slot))
		return
	}
	params, err := dashboard.ParseParams(r.URL.Query())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	out, err := h.service.Refetch(ctx, slot, params)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if out.Err != nil {
		httpx.Problem(w, http.StatusBadGateway, "Upstream Failure", out.Err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"dataset": out.Name,
		"url":     out.URL,
		"data":    out.Value,
	})
}

func (h *Handler) handleCSV(w http.ResponseWriter, r *http.Request) {
	params, err := dashboard.ParseParams(r.URL.Query())
	if err != nil {
		h.handleParamError(w, err)
		return
	}
	dash, err := h.load(r.Context(), params)
	if err != nil {
		h.handleServerError(w, "load dashboard", err)
		return
	}
	buf := h.buffer()
	defer h.release(buf)
	if err := export.WriteDashboardCSV(buf, dash); err != nil {
		h.handleServerError(w, "write csv", err)
		return
	}
	h.attach(w, "text/csv; charset=utf-8", "csv", buf.Bytes())
}

func (h *Handler) handleXLSX(w http.ResponseWriter, r *http.Request) {
	params, err := dashboard.ParseParams(r.URL.Query())
	if err != nil {
		h.handleParamError(w, err)
		return
	}
	dash, err := h.load(r.Context(), params)
	if err != nil {
		h.handleServerError(w, "load dashboard", err)
		return
	}
	buf := h.buffer()
	defer h.release(buf)
	if err := export.WriteDashboardXLSX(buf, dash); err != nil {
		h.handleServerError(w, "write xlsx", err)
		return
	}
	h.attach(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx", buf.Bytes())
}

func (h *Handler) handlePDF(w http.ResponseWriter, r *http.Request) {
	if h.pdf == nil {
		http.Error(w, "PDF export is not configured", http.StatusNotFound)
		return
	}
	params, err := dashboard.ParseParams(r.URL.Query())
	if err != nil {
		h.handleParamError(w, err)
		return
	}
	dash, err := h.load(r.Context(), params)
	if err != nil {
		h.handleServerError(w, "load dashboard", err)
		return
	}
	payload := export.DashboardPayload{Dashboard: dash, GeneratedAt: h.now()}
	for _, slot := range ui.ChartSlots {
		chart := ui.BuildChart(dash, slot, h.charts)
		if chart.SVG != "" {
			payload.Figures = append(payload.Figures, export.Figure{Title: chart.Title, SVG: chart.SVG})
		}
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	pdf, err := h.pdf.RenderDashboard(ctx, payload)
	if err != nil {
		h.logError("render pdf", err)
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}
	h.attach(w, "application/pdf", "pdf", pdf)
}

func (h *Handler) attach(w http.ResponseWriter, contentType, ext string, body []byte) {
	filename := fmt.Sprintf("hr-attrition-%s.%s", h.now().UTC().Format("2006-01-02"), ext)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	if _, err := w.Write(body); err != nil {
		h.logError("stream "+ext, err)
	}
}

// load runs one load cycle, sharing it between identical concurrent requests.
// The cycle is detached from the first caller so that caller leaving does not
// fail the others; each caller still stops waiting when its own context ends.
func (h *Handler) load(ctx context.Context, p dashboard.Params) (*dashboard.Dashboard, error) {
	dash, err, shared := h.loads.do(ctx, p.Key(), func() (*dashboard.Dashboard, error) {
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.timeout)
		defer cancel()
		d, _, err := h.service.Load(cctx, p)
		return d, err
	})
	if shared {
		h.logger.Debug("dashboard load shared", slog.String("params", p.Key()))
	}
	return dash, err
}

func (h *Handler) buffer() *bytes.Buffer {
	buf := h.bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func (h *Handler) release(buf *bytes.Buffer) {
	buf.Reset()
	h.bufPool.Put(buf)
}

func (h *Handler) handleParamError(w http.ResponseWriter, err error) {
	var perr *dashboard.ParamError
	if errors.As(err, &perr) {
		http.Error(w, perr.Error(), http.StatusBadRequest)
		return
	}
	h.handleServerError(w, "parse params", err)
}

func (h *Handler) handleServerError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	if errors.Is(err, context.DeadlineExceeded) {
		h.logError(op, err)
		http.Error(w, http.StatusText(http.StatusGatewayTimeout), http.StatusGatewayTimeout)
		return
	}
	h.logError(op, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (h *Handler) logError(op string, err error) {
	h.logger.Error("dashboard handler error", slog.String("op", strings.TrimSpace(op)), slog.Any("error", err))
}
