package view

import (
	"bytes"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngine(t *testing.T) {
	engine, err := NewEngine()
	assert.NoError(t, err, "Templates should parse without error")
	assert.NotNil(t, engine)
}

func TestRenderPartialFuncs(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	chart := struct {
		Slot, Title, Error string
		SVG, Caption       string
		Empty              bool
		Control            any
	}{Slot: "gender_split", Title: "Gender split", Error: "HTTP 502 @ http://api/api/pie/gender\n<b>bad</b>"}

	var buf bytes.Buffer
	require.NoError(t, engine.RenderPartial(&buf, "partials/chart.html", chart))
	out := buf.String()
	assert.Contains(t, out, `id="chart-gender_split"`)
	assert.Contains(t, out, "Could not load this chart: HTTP 502 @ http://api/api/pie/gender</p>")
	assert.NotContains(t, out, "<b>bad</b>")
}

func TestRenderLayout(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	data := TemplateData{
		Title:       "HR Attrition Dashboard",
		CurrentPath: "/",
		RenderedAt:  time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC),
	}
	require.NoError(t, engine.Render(rec, "pages/dashboard.html", data))
	body := rec.Body.String()
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, body, "<title>HR Attrition Dashboard</title>")
	assert.Contains(t, body, `aria-current="page"`)
	assert.Contains(t, body, "Rendered 05 Mar 2024 09:30 UTC")
}

func TestRenderUnknownTemplateWritesNothing(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.Error(t, engine.Render(rec, "pages/missing.html", TemplateData{}))
	assert.Zero(t, rec.Body.Len())
	assert.Empty(t, rec.Header().Get("Content-Type"))
}

func TestRenderNilEngine(t *testing.T) {
	var engine *Engine
	assert.ErrorIs(t, engine.Render(httptest.NewRecorder(), "pages/dashboard.html", TemplateData{}), ErrNoEngine)
	assert.ErrorIs(t, engine.RenderPartial(&bytes.Buffer{}, "partials/chart.html", nil), ErrNoEngine)
}
