package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cinescope/hrdash/internal/attrition"
)

func TestServiceLoadAssemblesDashboard(t *testing.T) {
	api := newFakeAPI(t, nil)
	svc := newTestService(t, api)

	dash, bundle, err := svc.Load(context.Background(), DefaultParams())
	require.NoError(t, err)
	require.Empty(t, bundle.Failed())
	require.Empty(t, dash.FirstError)
	require.Equal(t, bundle.CycleID.String(), dash.CycleID)

	require.Equal(t, "Total: 1,470 · Left: 237 · Attrition rate: 16.1%", dash.SummaryLine)
	require.Equal(t, "Sales", dash.ByDepartment[0].Key)
	require.Equal(t, attrition.Label("1"), dash.AgeHistogram[0].Bucket)

	require.Equal(t, []float64{0, 1, 2}, []float64{dash.TenureCurve[0].X, dash.TenureCurve[1].X, dash.TenureCurve[2].X})
	require.Equal(t, 1000.0, dash.MinIncomeCurve[0].X)
	require.Equal(t, 0.0, dash.EmployeeIndex[0].X)

	require.Equal(t, []string{"Yes", "No"}, dash.DepartmentOvertime.Columns)
	require.Len(t, dash.DepartmentOvertime.Rows, 2)
	require.Equal(t, 0.0, dash.DepartmentOvertime.Rows[1].Value("No"))

	require.Len(t, dash.Correlations, 2)
	require.Equal(t, "monthly_income", dash.Correlations[0].Feature)

	require.Len(t, dash.IncomeByRole, 2)
	require.Equal(t, 20000.0, dash.IncomeByRole[0].Total())
	require.True(t, dash.IncomeByRole[1].Clamped)
	require.Contains(t, dash.Notes, "Income range for Odd was adjusted: quantiles out of order")

	require.Len(t, dash.Scatter.Left, 1)
	require.Len(t, dash.Scatter.Stayed, 1)
	require.Equal(t, 882, dash.Gender[0].Count)

	require.NotNil(t, dash.Insights.Overtime)
	require.InDelta(t, 0.2009, *dash.Insights.Overtime, 1e-9)
	require.Equal(t, "a moderate increase", dash.Insights.Correlation.Label)
	require.Contains(t, dash.Statements, "Highest attrition by role: Sales Representative (39.8%)")
}

func TestServiceLoadPartialFailure(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"/api/correlation/numeric": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream exploded", http.StatusBadGateway)
		},
	})
	svc := newTestService(t, api)

	dash, bundle, err := svc.Load(context.Background(), DefaultParams())
	require.NoError(t, err)
	require.Len(t, bundle.Failed(), 1)
	require.Equal(t, len(datasetOrder)-1, bundle.Succeeded())
	require.Equal(t, bundle.FirstError().Error(), dash.FirstError)
	require.Contains(t, dash.FirstError, "HTTP 502 @ "+api.URL+"/api/correlation/numeric")
	require.Contains(t, dash.Err(DatasetCorrelations), "upstream exploded")
	require.Nil(t, dash.Insights.Correlation)
	require.NotNil(t, dash.Insights.Department)
	require.NotEmpty(t, dash.ByDepartment)
	require.False(t, dash.Empty())
}

func TestServiceLoadRejectsInvalidParams(t *testing.T) {
	svc := newTestService(t, newFakeAPI(t, nil))
	p := DefaultParams()
	p.ScatterLimit = 0
	_, _, err := svc.Load(context.Background(), p)
	var perr *ParamError
	require.True(t, errors.As(err, &perr))
	require.Equal(t, "scatter_limit", perr.Field)
}

func TestRefetchScopesErrorToSlot(t *testing.T) {
	var fail atomic.Bool
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"/api/distribution/age": func(w http.ResponseWriter, r *http.Request) {
			if fail.Load() {
				http.Error(w, "nope", http.StatusInternalServerError)
				return
			}
			_, _ = w.Write([]byte(`[{"bucket":"18-30","n":` + r.URL.Query().Get("buckets") + `}]`))
		},
	})
	svc := newTestService(t, api)
	dash, _, err := svc.Load(context.Background(), DefaultParams())
	require.NoError(t, err)
	require.Equal(t, 9, dash.AgeHistogram[0].Count)

	p := DefaultParams()
	p.AgeBuckets = 12
	out, err := svc.Refetch(context.Background(), DatasetAgeHistogram, p)
	require.NoError(t, err)
	require.True(t, out.OK())
	next := dash.WithRefetch(out, p, nil)
	require.Equal(t, 12, next.AgeHistogram[0].Count)
	require.Equal(t, 9, dash.AgeHistogram[0].Count, "original dashboard untouched")
	require.Equal(t, 12, next.Params.AgeBuckets)

	fail.Store(true)
	out, err = svc.Refetch(context.Background(), DatasetAgeHistogram, p)
	require.NoError(t, err)
	require.False(t, out.OK())
	failed := next.WithRefetch(out, p, nil)
	require.Empty(t, failed.FirstError)
	require.Contains(t, failed.Err(DatasetAgeHistogram), "HTTP 500")
	require.Nil(t, failed.AgeHistogram)
	require.Empty(t, next.Err(DatasetAgeHistogram))
}

func TestWithRefetchReplacesSlotNote(t *testing.T) {
	dash := &Dashboard{Params: DefaultParams(), Notes: []string{"Income range for Manager was adjusted: quantiles out of order"}}
	out := Outcome{Name: DatasetAgeHistogram, Value: []attrition.HistogramBin{{Bucket: "18-30", Count: 4}}, Unrecognized: 2}

	next := dash.WithRefetch(out, dash.Params, nil)
	next = next.WithRefetch(out, dash.Params, nil)
	require.Len(t, next.Notes, 2)
	require.Equal(t, "age_histogram: 2 rows in an unrecognized shape were shown as "+attrition.Unknown, next.Notes[1])

	out.Unrecognized = 0
	clean := next.WithRefetch(out, dash.Params, nil)
	require.Equal(t, dash.Notes, clean.Notes)
	require.Len(t, next.Notes, 2, "earlier dashboard untouched")
}

func TestRefetchRejectsOtherDatasets(t *testing.T) {
	svc := newTestService(t, newFakeAPI(t, nil))
	_, err := svc.Refetch(context.Background(), DatasetSummary, DefaultParams())
	require.ErrorIs(t, err, ErrNotRefetchable)
	_, err = svc.Refetch(context.Background(), "nope", DefaultParams())
	require.ErrorIs(t, err, ErrUnknownDataset)
}

func TestDashboardJSON(t *testing.T) {
	svc := newTestService(t, newFakeAPI(t, nil))
	dash, _, err := svc.Load(context.Background(), DefaultParams())
	require.NoError(t, err)
	data, err := json.Marshal(dash)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.JSONEq(t, `[{"dimension":"Sales","Yes":0.3,"No":0.1},{"dimension":"R&D","Yes":0.25,"No":0}]`, string(decoded["department_overtime"]))
	require.NotContains(t, decoded, "first_error")
}

func TestSplitScatter(t *testing.T) {
	split := SplitScatter([]attrition.ScatterPoint{{Age: 1, Left: 1}, {Age: 2}, {Age: 3, Left: 1}})
	require.Equal(t, 3, split.Total())
	require.Equal(t, 3.0, split.Left[1].Age)
}
