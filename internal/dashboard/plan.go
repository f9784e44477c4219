package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cinescope/hrdash/internal/attrition"
	"github.com/cinescope/hrdash/internal/upstream"
)

// Dataset names. Their order in BuildPlan defines which failure is "first".
const (
	DatasetSummary            = "summary"
	DatasetByDepartment       = "by_department"
	DatasetByJobRole          = "by_job_role"
	DatasetByOverTime         = "by_over_time"
	DatasetAgeHistogram       = "age_histogram"
	DatasetIncomeHistogram    = "income_histogram"
	DatasetTenureCurve        = "tenure_curve"
	DatasetDepartmentOvertime = "department_overtime"
	DatasetCorrelations       = "correlations"
	DatasetIncomeByRole       = "income_by_role"
	DatasetAgeIncomeScatter   = "age_income_scatter"
	DatasetSatisfactionRadar  = "satisfaction_radar"
	DatasetGenderSplit        = "gender_split"
	DatasetMinIncomeCurve     = "attrition_vs_min_income"
	DatasetEmployeeIndex      = "attrition_by_employee_index"
)

// ErrUnknownDataset is returned for a dataset name outside the plan.
var ErrUnknownDataset = errors.New("dashboard: unknown dataset")

// ErrNotRefetchable is returned when a dataset has no controlling parameter.
var ErrNotRefetchable = errors.New("dashboard: dataset cannot be refetched on its own")

// Decoder turns a validated JSON body into the dataset's normalized value and
// reports how many rows matched no known shape.
type Decoder func(raw json.RawMessage) (value any, unrecognized int, err error)

// Dataset is one named, independent request of a load cycle.
type Dataset struct {
	Name    string
	Request upstream.Request
	Decode  Decoder
}

var datasetOrder = []string{
	DatasetSummary,
	DatasetByDepartment,
	DatasetByJobRole,
	DatasetByOverTime,
	DatasetAgeHistogram,
	DatasetIncomeHistogram,
	DatasetTenureCurve,
	DatasetDepartmentOvertime,
	DatasetCorrelations,
	DatasetIncomeByRole,
	DatasetAgeIncomeScatter,
	DatasetSatisfactionRadar,
	DatasetGenderSplit,
	DatasetMinIncomeCurve,
	DatasetEmployeeIndex,
}

// Refetchable lists datasets reloaded on their own when their parameter changes.
var Refetchable = []string{DatasetAgeHistogram, DatasetIncomeHistogram, DatasetAgeIncomeScatter}

// DatasetNames returns every dataset name in plan order.
func DatasetNames() []string {
	return append([]string(nil), datasetOrder...)
}

// BuildPlan returns the full, ordered set of requests for p.
func BuildPlan(p Params) []Dataset {
	plan := make([]Dataset, 0, len(datasetOrder))
	for _, name := range datasetOrder {
		ds, _ := DatasetFor(name, p)
		plan = append(plan, ds)
	}
	return plan
}

// DatasetFor describes a single dataset for p.
func DatasetFor(name string, p Params) (Dataset, error) {
	switch name {
	case DatasetSummary:
		return Dataset{Name: name, Request: upstream.Summary(), Decode: decodeSummary}, nil
	case DatasetByDepartment:
		return Dataset{Name: name, Request: upstream.AttritionBy("department"), Decode: decodeRates("department")}, nil
	case DatasetByJobRole:
		return Dataset{Name: name, Request: upstream.AttritionBy("job_role"), Decode: decodeRates("job_role")}, nil
	case DatasetByOverTime:
		return Dataset{Name: name, Request: upstream.AttritionBy("over_time"), Decode: decodeRates("over_time")}, nil
	case DatasetAgeHistogram:
		return Dataset{Name: name, Request: upstream.AgeDistribution(p.AgeBuckets, p.MinAge, p.MaxAge), Decode: decodeHistogram}, nil
	case DatasetIncomeHistogram:
		return Dataset{Name: name, Request: upstream.IncomeDistribution(p.IncomeBuckets), Decode: decodeHistogram}, nil
	case DatasetTenureCurve:
		return Dataset{Name: name, Request: upstream.TenureCurve(p.TenureYears), Decode: decodeOrdinal(
			[]string{"years_at_company", "years"},
			[]string{"years_at_company", "key", "bucket", "label"},
			[]string{"attrition_rate", "rate", "value"},
		)}, nil
	case DatasetDepartmentOvertime:
		return Dataset{Name: name, Request: upstream.AttritionByTwo(p.PivotPrimary, p.PivotSecondary), Decode: decodeTwoKey(p.PivotPrimary, p.PivotSecondary)}, nil
	case DatasetCorrelations:
		return Dataset{Name: name, Request: upstream.NumericCorrelations(), Decode: decodeCorrelations}, nil
	case DatasetIncomeByRole:
		return Dataset{Name: name, Request: upstream.IncomeByRole(), Decode: decodeQuantiles}, nil
	case DatasetAgeIncomeScatter:
		return Dataset{Name: name, Request: upstream.AgeIncomeScatter(p.ScatterLimit), Decode: decodeScatter}, nil
	case DatasetSatisfactionRadar:
		return Dataset{Name: name, Request: upstream.SatisfactionRadar(), Decode: decodeRadar}, nil
	case DatasetGenderSplit:
		return Dataset{Name: name, Request: upstream.GenderPie(), Decode: decodeGender}, nil
	case DatasetMinIncomeCurve:
		return Dataset{Name: name, Request: upstream.AttritionVsMinIncome(p.MinIncomeBuckets), Decode: decodeOrdinal(
			[]string{"min_income", "bucket_min"},
			[]string{"bucket", "label", "key"},
			[]string{"attrition_rate", "rate", "value"},
		)}, nil
	case DatasetEmployeeIndex:
		return Dataset{Name: name, Request: upstream.AttritionByEmployeeIndex(), Decode: decodeOrdinal(
			[]string{"idx", "index"},
			[]string{"label", "key"},
			[]string{"left_flag", "attrition_rate", "rate", "value"},
		)}, nil
	default:
		return Dataset{}, fmt.Errorf("%w: %q", ErrUnknownDataset, name)
	}
}

// IsRefetchable reports whether name may be reloaded on its own.
func IsRefetchable(name string) bool {
	for _, n := range Refetchable {
		if n == name {
			return true
		}
	}
	return false
}

// decodeRows accepts a bare array or an object wrapping it under data, rows or items.
func decodeRows(raw json.RawMessage) ([]attrition.Row, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapped map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, err
		}
		for _, key := range []string{"data", "rows", "items"} {
			if inner, ok := wrapped[key]; ok {
				trimmed = inner
				break
			}
		}
	}
	var rows []attrition.Row
	if err := json.Unmarshal(trimmed, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func decodeObject(raw json.RawMessage) (attrition.Row, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		rows, err := decodeRows(trimmed)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, errors.New("expected an object, got an empty array")
		}
		return rows[0], nil
	}
	var row attrition.Row
	if err := json.Unmarshal(trimmed, &row); err != nil {
		return nil, err
	}
	return row, nil
}

func decodeSummary(raw json.RawMessage) (any, int, error) {
	row, err := decodeObject(raw)
	if err != nil {
		return nil, 0, err
	}
	return attrition.NormalizeSummary(row), 0, nil
}

func decodeRates(dim string) Decoder {
	return func(raw json.RawMessage) (any, int, error) {
		rows, err := decodeRows(raw)
		if err != nil {
			return nil, 0, err
		}
		out, unrecognized := attrition.NormalizeRates(rows, dim)
		return out, unrecognized, nil
	}
}

func decodeTwoKey(dim1, dim2 string) Decoder {
	return func(raw json.RawMessage) (any, int, error) {
		rows, err := decodeRows(raw)
		if err != nil {
			return nil, 0, err
		}
		out, unrecognized := attrition.NormalizeTwoKeyRates(rows, dim1, dim2)
		return out, unrecognized, nil
	}
}

func decodeHistogram(raw json.RawMessage) (any, int, error) {
	rows, err := decodeRows(raw)
	if err != nil {
		return nil, 0, err
	}
	out, unrecognized := attrition.NormalizeHistogram(rows)
	return out, unrecognized, nil
}

func decodeOrdinal(xKeys, labelKeys, yKeys []string) Decoder {
	return func(raw json.RawMessage) (any, int, error) {
		rows, err := decodeRows(raw)
		if err != nil {
			return nil, 0, err
		}
		return attrition.OrdinalFromRows(rows, xKeys, labelKeys, yKeys), 0, nil
	}
}

func decodeCorrelations(raw json.RawMessage) (any, int, error) {
	rows, err := decodeRows(raw)
	if err != nil {
		return nil, 0, err
	}
	return attrition.NormalizeCorrelations(rows), 0, nil
}

func decodeQuantiles(raw json.RawMessage) (any, int, error) {
	rows, err := decodeRows(raw)
	if err != nil {
		return nil, 0, err
	}
	out, unrecognized := attrition.NormalizeQuantiles(rows)
	return out, unrecognized, nil
}

func decodeScatter(raw json.RawMessage) (any, int, error) {
	rows, err := decodeRows(raw)
	if err != nil {
		return nil, 0, err
	}
	return attrition.NormalizeScatter(rows), 0, nil
}

func decodeRadar(raw json.RawMessage) (any, int, error) {
	rows, err := decodeRows(raw)
	if err != nil {
		return nil, 0, err
	}
	return attrition.NormalizeRadar(rows), 0, nil
}

func decodeGender(raw json.RawMessage) (any, int, error) {
	rows, err := decodeRows(raw)
	if err != nil {
		return nil, 0, err
	}
	return attrition.NormalizeGender(rows), 0, nil
}
