package upstream

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrMissingBaseURL is returned when the client is constructed without a base URL.
var ErrMissingBaseURL = errors.New("upstream: base URL required")

// excerptLimit bounds the response body quoted in error messages.
const excerptLimit = 200

// Kind classifies a normalized fetch failure.
type Kind string

const (
	KindTransport Kind = "transport"
	KindHTTP      Kind = "http"
	KindDecode    Kind = "decode"
	KindHTML      Kind = "html"
)

// FetchError is the single failure representation for every upstream request.
type FetchError struct {
	Kind    Kind
	URL     string
	Status  int
	Excerpt string
	Err     error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindHTTP:
		return fmt.Sprintf("HTTP %d @ %s\n%s", e.Status, e.URL, e.Excerpt)
	case KindDecode:
		return fmt.Sprintf("Invalid JSON from %s: %v\nBody: %s", e.URL, e.Err, e.Excerpt)
	case KindHTML:
		return fmt.Sprintf("Invalid JSON from %s: received an HTML document, check the API base URL\nBody: %s", e.URL, e.Excerpt)
	default:
		return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// AsFetchError extracts a FetchError from err.
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// excerpt returns at most excerptLimit bytes of body without splitting a rune.
func excerpt(body []byte) string {
	if len(body) <= excerptLimit {
		return string(body)
	}
	cut := body[:excerptLimit]
	for len(cut) > 0 && !utf8.Valid(cut) {
		cut = cut[:len(cut)-1]
	}
	return string(cut)
}

func looksLikeHTML(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		return true
	}
	head := strings.ToLower(strings.TrimSpace(string(body[:min(len(body), 64)])))
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}

// DecodeError reports a body that is valid JSON but not the expected structure.
func DecodeError(url string, body []byte, err error) *FetchError {
	return &FetchError{Kind: KindDecode, URL: url, Excerpt: excerpt(body), Err: err}
}
