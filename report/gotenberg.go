package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrNotConfigured is returned when no Gotenberg URL was supplied.
var ErrNotConfigured = errors.New("report: gotenberg url not configured")

const maxErrorBody = 4 << 10

// StatusError reports a non-2xx answer from Gotenberg.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("gotenberg %s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("gotenberg %s: status %d: %s", e.Op, e.Status, e.Body)
}

// Page describes the paper layout sent with every conversion. Sizes are in
// inches, the unit Gotenberg expects.
type Page struct {
	Width     float64
	Height    float64
	Margin    float64
	Landscape bool
}

// DashboardPage fits the chart grid on A4 landscape.
var DashboardPage = Page{Width: 8.27, Height: 11.7, Margin: 0.4, Landscape: true}

// Client converts dashboard HTML into PDF through the Gotenberg chromium route.
type Client struct {
	baseURL    string
	page       Page
	httpClient *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithPage overrides the paper layout.
func WithPage(p Page) Option {
	return func(c *Client) { c.page = p }
}

// NewClient builds a client for baseURL. An empty baseURL yields a client
// whose calls return ErrNotConfigured; a non-positive timeout means 30s.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		page:       DashboardPage,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether a Gotenberg URL is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// Ping checks the Gotenberg health route; used as an optional readiness check.
func (c *Client) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return ErrNotConfigured
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	_, err = c.do(req, "health")
	return err
}

// RenderHTML converts a standalone HTML document into a PDF.
func (c *Client) RenderHTML(ctx context.Context, html string) ([]byte, error) {
	if !c.Enabled() {
		return nil, ErrNotConfigured
	}
	body, contentType, err := c.form(html)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/forms/chromium/convert/html", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	return c.do(req, "convert")
}

// form builds the multipart body. Gotenberg requires the document to be
// named index.html.
func (c *Client) form(html string) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("files", "index.html")
	if err != nil {
		return nil, "", err
	}
	if _, err := io.WriteString(part, html); err != nil {
		return nil, "", err
	}
	fields := [][2]string{
		{"printBackground", "true"},
		{"landscape", strconv.FormatBool(c.page.Landscape)},
	}
	if c.page.Width > 0 && c.page.Height > 0 {
		fields = append(fields,
			[2]string{"paperWidth", formatInches(c.page.Width)},
			[2]string{"paperHeight", formatInches(c.page.Height)},
		)
	}
	if c.page.Margin > 0 {
		m := formatInches(c.page.Margin)
		for _, side := range []string{"marginTop", "marginBottom", "marginLeft", "marginRight"} {
			fields = append(fields, [2]string{side, m})
		}
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return body, w.FormDataContentType(), nil
}

func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gotenberg %s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	return io.ReadAll(resp.Body)
}

func formatInches(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "in"
}
