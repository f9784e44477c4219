package dashboard

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultParamsAreValid(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())
}

func TestParseParams(t *testing.T) {
	p, err := ParseParams(url.Values{"age_buckets": {"12"}, "scatter_limit": {" 250 "}, "dim2": {"gender"}})
	require.NoError(t, err)
	require.Equal(t, 12, p.AgeBuckets)
	require.Equal(t, 250, p.ScatterLimit)
	require.Equal(t, "gender", p.PivotSecondary)
	require.Equal(t, 20, p.IncomeBuckets)

	round, err := ParseParams(p.Query())
	require.NoError(t, err)
	require.Equal(t, p, round)
}

func TestParseParamsErrors(t *testing.T) {
	cases := []struct {
		query url.Values
		field string
		msg   string
	}{
		{url.Values{"age_buckets": {"abc"}}, "age_buckets", "must be an integer"},
		{url.Values{"age_buckets": {"0"}}, "age_buckets", "must be at least 1"},
		{url.Values{"scatter_limit": {"5001"}}, "scatter_limit", "must be at most 5000"},
		{url.Values{"min_age": {"60"}, "max_age": {"30"}}, "max_age", "must be greater than min_age"},
		{url.Values{"dim1": {"salary"}}, "dim1", "must be one of department, job_role, education_field, business_travel, gender, marital_status, over_time"},
		{url.Values{"dim1": {"over_time"}}, "dim2", "must differ from dim1"},
	}
	for _, tc := range cases {
		_, err := ParseParams(tc.query)
		var perr *ParamError
		require.True(t, errors.As(err, &perr), "query %v: %v", tc.query, err)
		require.Equal(t, tc.field, perr.Field, "query %v", tc.query)
		require.Equal(t, tc.msg, perr.Message, "query %v", tc.query)
	}
}

func TestBuildPlanOrderAndRequests(t *testing.T) {
	p := DefaultParams()
	p.ScatterLimit = 50
	plan := BuildPlan(p)
	require.Len(t, plan, len(DatasetNames()))
	for i, name := range DatasetNames() {
		require.Equal(t, name, plan[i].Name)
		require.NotNil(t, plan[i].Decode)
	}
	require.Equal(t, "/api/scatter/age_income?limit=50", plan[10].Request.String())
	require.Equal(t, "/api/distribution/age?buckets=9&max_age=60&min_age=18", plan[4].Request.String())
	require.Equal(t, "/api/attrition/by_two?dim1=department&dim2=over_time", plan[7].Request.String())
}

func TestDecodeRowsAcceptsWrappedArray(t *testing.T) {
	rows, err := decodeRows([]byte(`{"data":[{"key":"a"}]}`))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row, err := decodeObject([]byte(`[{"n_total":3}]`))
	require.NoError(t, err)
	require.Equal(t, 3.0, row["n_total"])
}
