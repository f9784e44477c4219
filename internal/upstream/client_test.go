package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
	hits     []bool
}

func (o *recordingObserver) ObserveFetch(endpoint, outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, endpoint+"="+outcome)
}

func (o *recordingObserver) ObserveCache(_ string, hit bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.hits = append(o.hits, hit)
}

func newAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/attrition/summary", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"n_total":1470,"n_left":237,"attrition_rate":0.1612}`))
	})
	mux.HandleFunc("/api/attrition/by", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("dim") == "bogus" {
			http.Error(w, `{"detail":"Invalid dimension 'bogus'"}`, http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`[{"key":"Sales","n":446,"attrition_rate":0.2063}]`))
	})
	mux.HandleFunc("/api/pie/gender", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<!doctype html><html><body>index</body></html>"))
	})
	mux.HandleFunc("/api/radar/satisfaction", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"broken":`))
	})
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok","db":1}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient("  ")
	require.ErrorIs(t, err, ErrMissingBaseURL)

	_, err = NewClient("api.example.com")
	require.Error(t, err)

	c, err := NewClient("https://api.example.com/")
	require.NoError(t, err)
	require.Equal(t, "https://api.example.com/api/attrition/by?dim=job_role", c.URL(AttritionBy("job_role")))
}

func TestFetchSuccess(t *testing.T) {
	srv := newAPI(t)
	obs := &recordingObserver{}
	c, err := NewClient(srv.URL, WithObserver(obs))
	require.NoError(t, err)

	raw, err := c.Fetch(context.Background(), Summary())
	require.NoError(t, err)
	require.JSONEq(t, `{"n_total":1470,"n_left":237,"attrition_rate":0.1612}`, string(raw))

	raw, err = c.Fetch(context.Background(), AttritionBy("department"))
	require.NoError(t, err)
	require.Contains(t, string(raw), `"key":"Sales"`)
	require.Equal(t, []string{"/api/attrition/summary=success", "/api/attrition/by=success"}, obs.outcomes)
	require.Empty(t, obs.hits)
}

func TestFetchHTTPErrorIncludesURLAndExcerpt(t *testing.T) {
	srv := newAPI(t)
	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = c.Fetch(context.Background(), AttritionBy("bogus"))
	fe, ok := AsFetchError(err)
	require.True(t, ok)
	require.Equal(t, KindHTTP, fe.Kind)
	require.Equal(t, http.StatusBadRequest, fe.Status)
	require.True(t, strings.HasPrefix(err.Error(), "HTTP 400 @ "+srv.URL+"/api/attrition/by?dim=bogus\n"), err.Error())
	require.Contains(t, err.Error(), "Invalid dimension")
}

func TestFetchDetectsHTML(t *testing.T) {
	srv := newAPI(t)
	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = c.Fetch(context.Background(), GenderPie())
	fe, ok := AsFetchError(err)
	require.True(t, ok)
	require.Equal(t, KindHTML, fe.Kind)
	require.Contains(t, err.Error(), "Invalid JSON from "+srv.URL+"/api/pie/gender")
	require.Contains(t, err.Error(), "Body: <!doctype html>")
}

func TestFetchInvalidJSON(t *testing.T) {
	srv := newAPI(t)
	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = c.Fetch(context.Background(), SatisfactionRadar())
	fe, ok := AsFetchError(err)
	require.True(t, ok)
	require.Equal(t, KindDecode, fe.Kind)
	require.True(t, strings.HasPrefix(err.Error(), "Invalid JSON from "+srv.URL+"/api/radar/satisfaction: "), err.Error())
	require.Contains(t, err.Error(), "\nBody: {\"broken\":")
}

func TestFetchTransportError(t *testing.T) {
	srv := newAPI(t)
	base := srv.URL
	srv.Close()

	c, err := NewClient(base)
	require.NoError(t, err)
	_, err = c.Fetch(context.Background(), Summary())
	fe, ok := AsFetchError(err)
	require.True(t, ok)
	require.Equal(t, KindTransport, fe.Kind)
}

func TestFetchHonoursCancellation(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(block) })

	c, err := NewClient(srv.URL)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Fetch(ctx, Summary())
	require.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestExcerptTruncates(t *testing.T) {
	body := strings.Repeat("x", 500)
	require.Len(t, excerpt([]byte(body)), excerptLimit)
	require.Equal(t, "short", excerpt([]byte("short")))
}

func TestHealth(t *testing.T) {
	srv := newAPI(t)
	c, err := NewClient(srv.URL)
	require.NoError(t, err)
	status, err := c.Health(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ok", status.Status)
}
