package upstream

import (
	"net/url"
	"strconv"
)

// Request describes one read-only GET against the aggregation API.
type Request struct {
	Path  string
	Query url.Values
}

// String renders the path and sorted query, used as a cache key.
func (r Request) String() string {
	if len(r.Query) == 0 {
		return r.Path
	}
	return r.Path + "?" + r.Query.Encode()
}

// Dimensions accepted by the by and by_two endpoints.
var Dimensions = []string{"department", "job_role", "education_field", "business_travel", "gender", "marital_status", "over_time"}

// Health probes API and database liveness.
func Health() Request { return Request{Path: "/api/health"} }

// Summary returns head count, leavers and the overall rate.
func Summary() Request { return Request{Path: "/api/attrition/summary"} }

// AttritionBy groups attrition rates by one dimension.
func AttritionBy(dim string) Request {
	return Request{Path: "/api/attrition/by", Query: url.Values{"dim": {dim}}}
}

// AttritionByTwo groups attrition rates by a pair of dimensions.
func AttritionByTwo(dim1, dim2 string) Request {
	return Request{Path: "/api/attrition/by_two", Query: url.Values{"dim1": {dim1}, "dim2": {dim2}}}
}

// TenureCurve returns the attrition rate per year at the company.
func TenureCurve(maxYears int) Request {
	return Request{Path: "/api/attrition/tenure_curve", Query: url.Values{"max_years": {strconv.Itoa(maxYears)}}}
}

// AgeDistribution buckets employees by age within [minAge, maxAge].
func AgeDistribution(buckets, minAge, maxAge int) Request {
	return Request{Path: "/api/distribution/age", Query: url.Values{
		"buckets": {strconv.Itoa(buckets)},
		"min_age": {strconv.Itoa(minAge)},
		"max_age": {strconv.Itoa(maxAge)},
	}}
}

// IncomeDistribution buckets employees by monthly income.
func IncomeDistribution(buckets int) Request {
	return Request{Path: "/api/distribution/monthly_income", Query: url.Values{"buckets": {strconv.Itoa(buckets)}}}
}

// NumericCorrelations returns each numeric feature's correlation with attrition.
func NumericCorrelations() Request { return Request{Path: "/api/correlation/numeric"} }

// IncomeByRole returns five-number income summaries per job role.
func IncomeByRole() Request { return Request{Path: "/api/boxplot/income_by_role"} }

// AgeIncomeScatter samples up to limit age and income points.
func AgeIncomeScatter(limit int) Request {
	return Request{Path: "/api/scatter/age_income", Query: url.Values{"limit": {strconv.Itoa(limit)}}}
}

// SatisfactionRadar averages the satisfaction scores of leavers and stayers.
func SatisfactionRadar() Request { return Request{Path: "/api/radar/satisfaction"} }

// GenderPie counts employees by gender.
func GenderPie() Request { return Request{Path: "/api/pie/gender"} }

// AttritionVsMinIncome relates attrition to a rising minimum income threshold.
func AttritionVsMinIncome(buckets int) Request {
	return Request{Path: "/api/line/attrition_vs_min_income", Query: url.Values{"buckets": {strconv.Itoa(buckets)}}}
}

// AttritionByEmployeeIndex returns attrition along the employee index.
func AttritionByEmployeeIndex() Request {
	return Request{Path: "/api/line/attrition_by_employee_index"}
}
