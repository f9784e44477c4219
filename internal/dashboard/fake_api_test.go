package dashboard

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cinescope/hrdash/internal/upstream"
)

var fixtures = map[string]string{
	"/api/attrition/summary":                `{"n_total":1470,"n_left":237,"attrition_rate":0.1612}`,
	"/api/attrition/by?dim=department":      `[{"key":"Sales","n":446,"attrition_rate":0.2063},{"key":"Human Resources","n":63,"attrition_rate":0.1905},{"key":"Research & Development","n":961,"attrition_rate":0.1384}]`,
	"/api/attrition/by?dim=job_role":        `[{"key":"Sales Representative","n":83,"attrition_rate":0.3976},{"key":"Laboratory Technician","n":259,"attrition_rate":0.2394}]`,
	"/api/attrition/by?dim=over_time":       `[{"key":"Yes","n":416,"attrition_rate":0.3053},{"key":"No","n":1054,"attrition_rate":0.1044}]`,
	"/api/distribution/age":                 `[{"bucket":1,"min_age":18,"max_age":22,"n":50,"attrition_rate":0.42},{"bucket":2,"min_age":23,"max_age":27,"n":150,"attrition_rate":0.25}]`,
	"/api/distribution/monthly_income":      `[{"bucket":"1000-2000","n":120},{"bucket":"2000-3000","n":300}]`,
	"/api/attrition/tenure_curve":           `[{"years_at_company":2,"attrition_rate":0.2},{"years_at_company":0,"attrition_rate":0.35},{"years_at_company":1,"attrition_rate":0.34}]`,
	"/api/attrition/by_two":                 `[{"k1":"Sales","k2":"Yes","attrition_rate":0.3},{"k1":"Sales","k2":"No","attrition_rate":0.1},{"k1":"R&D","k2":"Yes","attrition_rate":0.25}]`,
	"/api/correlation/numeric":              `[{"feature":"age","corr":-0.159},{"feature":"monthly_income","corr":0.22},{"feature":"daily_rate","corr":null}]`,
	"/api/boxplot/income_by_role":           `[{"job_role":"Manager","min":11000,"q1":13000,"median":17000,"q3":19000,"max":20000},{"job_role":"Odd","min":5,"q1":4,"median":6,"q3":7,"max":8}]`,
	"/api/scatter/age_income":               `[{"age":30,"monthly_income":5000,"left_flag":1},{"age":45,"monthly_income":9000,"left_flag":0}]`,
	"/api/radar/satisfaction":               `[{"group_name":"Left","environment":2.46,"job":2.47,"relationship":2.6,"work_life":2.66}]`,
	"/api/pie/gender":                       `[{"gender":"Male","n":882},{"gender":"Female","n":588}]`,
	"/api/line/attrition_vs_min_income":     `[{"min_income":5000,"attrition_rate":0.1},{"min_income":1000,"attrition_rate":0.3}]`,
	"/api/line/attrition_by_employee_index": `[{"idx":1,"left_flag":1},{"idx":0,"left_flag":0}]`,
}

type fakeAPI struct {
	*httptest.Server
	overrides map[string]http.HandlerFunc
}

func newFakeAPI(t *testing.T, overrides map[string]http.HandlerFunc) *fakeAPI {
	t.Helper()
	api := &fakeAPI{overrides: overrides}
	api.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := api.overrides[r.URL.Path]; ok {
			h(w, r)
			return
		}
		key := r.URL.Path
		if dim := r.URL.Query().Get("dim"); dim != "" {
			key += "?dim=" + dim
		}
		body, ok := fixtures[key]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(api.Close)
	return api
}

func newTestService(t *testing.T, api *fakeAPI, opts ...OrchestratorOption) *Service {
	t.Helper()
	client, err := upstream.NewClient(api.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return NewService(NewOrchestrator(client, opts...), "", nil)
}
