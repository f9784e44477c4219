package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type paramErr struct{ field string }

func (e paramErr) Error() string        { return "invalid " + e.field }
func (e paramErr) InvalidField() string { return e.field }

func TestRespondError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		field  string
	}{
		{fmt.Errorf("load: %w", paramErr{field: "age_buckets"}), http.StatusBadRequest, "age_buckets"},
		{fmt.Errorf("chart: %w", ErrNotFound), http.StatusNotFound, ""},
		{ErrValidation, http.StatusBadRequest, ""},
		{ErrUnavailable, http.StatusServiceUnavailable, ""},
		{errors.New("boom"), http.StatusInternalServerError, ""},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		RespondError(rec, tc.err)
		require.Equal(t, tc.status, rec.Code, tc.err.Error())
		var body ProblemDetail
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, tc.status, body.Status)
		require.Equal(t, tc.field, body.Field)
	}
}

func TestProblemContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	Problem(rec, http.StatusBadGateway, "Bad Gateway", "upstream")
	require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}
