package attrition

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestFindExtremesTiesKeepFirst(t *testing.T) {
	rows := []RateRow{
		{Key: "HR", AttritionRate: 0.19},
		{Key: "Sales", AttritionRate: 0.21},
		{Key: "Support", AttritionRate: 0.21},
		{Key: "R&D", AttritionRate: 0.14},
	}
	ext, ok := FindExtremes(rows)
	require.True(t, ok)
	require.Equal(t, "Sales", ext.Highest.Key)
	require.Equal(t, "R&D", ext.Lowest.Key)
	require.Equal(t, "HR", rows[0].Key, "input must not be reordered")

	_, ok = FindExtremes(nil)
	require.False(t, ok)
}

func TestOvertimeDelta(t *testing.T) {
	delta, ok := OvertimeDelta([]RateRow{{Key: "No", AttritionRate: 0.1}, {Key: "Yes", AttritionRate: 0.3}})
	require.True(t, ok)
	require.InDelta(t, 0.2, delta, 1e-9)

	_, ok = OvertimeDelta([]RateRow{{Key: "Yes", AttritionRate: 0.3}})
	require.False(t, ok)
}

func TestClassifyCorrelation(t *testing.T) {
	cases := map[float64]string{
		0.22:  "a moderate increase",
		0.30:  "a strong increase",
		-0.45: "a strong decrease",
		-0.15: "a moderate decrease",
		0.05:  "a weak increase",
		0:     "a weak increase",
	}
	for r, want := range cases {
		require.Equal(t, want, ClassifyCorrelation(r), "r=%v", r)
	}
}

func TestRankCorrelations(t *testing.T) {
	in := []Correlation{
		{Feature: "age", Corr: ptr(-0.16)},
		{Feature: "daily_rate", Corr: nil},
		{Feature: "total_working_years", Corr: ptr(-0.17)},
		{Feature: "distance", Corr: ptr(0.08)},
		{Feature: "broken", Corr: ptr(math.NaN())},
	}
	ranked := RankCorrelations(in)
	require.Len(t, ranked, 3)
	require.Equal(t, "total_working_years", ranked[0].Feature)
	require.Equal(t, "distance", ranked[2].Feature)
	require.Equal(t, "age", in[0].Feature)

	byName := SortCorrelations(ranked, "feature", true)
	require.Equal(t, "age", byName[0].Feature)
	byCorr := SortCorrelations(ranked, "corr", false)
	require.Equal(t, "distance", byCorr[0].Feature)
	require.Equal(t, ranked, SortCorrelations(ranked, "bogus", true))
}

func TestDeriveInsights(t *testing.T) {
	in := InsightInput{
		Departments:        []RateRow{{Key: "Sales", AttritionRate: 0.206}, {Key: "R&D", AttritionRate: 0.138}},
		Roles:              []RateRow{{Key: "Sales Representative", AttritionRate: 0.398}},
		Overtime:           []RateRow{{Key: "Yes", AttritionRate: 0.305}},
		Correlations:       []Correlation{{Feature: "monthly_income", Corr: ptr(0.22)}},
		CorrelationFeature: "monthly_income",
	}
	out := DeriveInsights(in)
	require.NotNil(t, out.Department)
	require.Equal(t, "Sales", out.Department.Highest.Key)
	require.NotNil(t, out.TopRole)
	require.Nil(t, out.Overtime, "delta omitted when a group is missing")
	require.NotNil(t, out.Correlation)
	require.Equal(t, "a moderate increase", out.Correlation.Label)
	require.NotNil(t, out.DepartmentSpread)
	require.InDelta(t, 0.068, out.DepartmentSpread.Range, 1e-9)

	lines := out.Statements()
	require.Contains(t, lines, "Highest attrition by department: Sales (20.6%)")
	require.Contains(t, lines, "Higher monthly income is associated with a moderate increase in attrition (r = 0.22)")
}

func TestDeriveInsightsEmpty(t *testing.T) {
	out := DeriveInsights(InsightInput{})
	require.Empty(t, out.Statements())
}

func TestHistogramTotal(t *testing.T) {
	require.Equal(t, 6, HistogramTotal([]HistogramBin{{Count: 2}, {Count: 4}}))
	require.Equal(t, 0, HistogramTotal(nil))
}
