package view

import (
	"bytes"
	"errors"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cinescope/hrdash/internal/attrition"
	"github.com/cinescope/hrdash/web"
)

// ErrNoEngine is returned by a nil Engine.
var ErrNoEngine = errors.New("view: template engine not initialised")

// Engine renders the embedded HTML templates.
type Engine struct {
	templates *template.Template
}

// TemplateData wraps a page view model with layout values.
type TemplateData struct {
	Title       string
	CurrentPath string
	RenderedAt  time.Time
	Data        any
}

// NewEngine parses layouts, partials and pages from the embedded filesystem.
func NewEngine() (*Engine, error) {
	tpl, err := template.New("root").Funcs(funcs()).ParseFS(web.Templates,
		"templates/layouts/*.html",
		"templates/partials/*.html",
		"templates/pages/*.html",
	)
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.UTC().Format("02 Jan 2006 15:04 MST")
		},
		"percent":  attrition.FormatPercent,
		"count":    attrition.FormatCount,
		"humanize": func(s string) string { return strings.ReplaceAll(s, "_", " ") },
		"firstLine": func(s string) string {
			line, _, _ := strings.Cut(s, "\n")
			return line
		},
	}
}

// Render executes a page template. Output is buffered so a template error
// leaves the response untouched for the caller's error handler.
func (e *Engine) Render(w http.ResponseWriter, name string, data TemplateData) error {
	if e == nil {
		return ErrNoEngine
	}
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}

// RenderPartial executes a fragment template into w.
func (e *Engine) RenderPartial(w io.Writer, name string, data any) error {
	if e == nil {
		return ErrNoEngine
	}
	return e.templates.ExecuteTemplate(w, name, data)
}
