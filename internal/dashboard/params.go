package dashboard

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Params are the user-adjustable inputs of a load cycle.
type Params struct {
	AgeBuckets       int    `json:"age_buckets" validate:"min=1,max=100"`
	MinAge           int    `json:"min_age" validate:"min=0,max=100"`
	MaxAge           int    `json:"max_age" validate:"gtfield=MinAge,max=120"`
	IncomeBuckets    int    `json:"income_buckets" validate:"min=1,max=100"`
	TenureYears      int    `json:"tenure_years" validate:"min=1,max=60"`
	ScatterLimit     int    `json:"scatter_limit" validate:"min=1,max=5000"`
	MinIncomeBuckets int    `json:"min_income_buckets" validate:"min=1,max=100"`
	PivotPrimary     string `json:"dim1" validate:"oneof=department job_role education_field business_travel gender marital_status over_time"`
	PivotSecondary   string `json:"dim2" validate:"oneof=department job_role education_field business_travel gender marital_status over_time,nefield=PivotPrimary"`
}

// DefaultParams mirrors the dashboard's initial view.
func DefaultParams() Params {
	return Params{
		AgeBuckets:       9,
		MinAge:           18,
		MaxAge:           60,
		IncomeBuckets:    20,
		TenureYears:      40,
		ScatterLimit:     1000,
		MinIncomeBuckets: 10,
		PivotPrimary:     "department",
		PivotSecondary:   "over_time",
	}
}

// ParamError reports one invalid parameter by its query name.
type ParamError struct {
	Field   string
	Message string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the parameter bounds.
func (p Params) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return &ParamError{Field: queryName(fe.StructField()), Message: describe(fe)}
}

// Key identifies the parameter set for request coalescing.
func (p Params) Key() string {
	return p.Query().Encode()
}

// Query renders p as URL query values.
func (p Params) Query() url.Values {
	return url.Values{
		"age_buckets":        {strconv.Itoa(p.AgeBuckets)},
		"min_age":            {strconv.Itoa(p.MinAge)},
		"max_age":            {strconv.Itoa(p.MaxAge)},
		"income_buckets":     {strconv.Itoa(p.IncomeBuckets)},
		"tenure_years":       {strconv.Itoa(p.TenureYears)},
		"scatter_limit":      {strconv.Itoa(p.ScatterLimit)},
		"min_income_buckets": {strconv.Itoa(p.MinIncomeBuckets)},
		"dim1":               {p.PivotPrimary},
		"dim2":               {p.PivotSecondary},
	}
}

// ParseParams overlays query values on the defaults and validates the result.
func ParseParams(q url.Values) (Params, error) {
	p := DefaultParams()
	ints := map[string]*int{
		"age_buckets":        &p.AgeBuckets,
		"min_age":            &p.MinAge,
		"max_age":            &p.MaxAge,
		"income_buckets":     &p.IncomeBuckets,
		"tenure_years":       &p.TenureYears,
		"scatter_limit":      &p.ScatterLimit,
		"min_income_buckets": &p.MinIncomeBuckets,
	}
	for _, name := range []string{"age_buckets", "min_age", "max_age", "income_buckets", "tenure_years", "scatter_limit", "min_income_buckets"} {
		raw := strings.TrimSpace(q.Get(name))
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return Params{}, &ParamError{Field: name, Message: "must be an integer"}
		}
		*ints[name] = v
	}
	if v := strings.TrimSpace(q.Get("dim1")); v != "" {
		p.PivotPrimary = v
	}
	if v := strings.TrimSpace(q.Get("dim2")); v != "" {
		p.PivotSecondary = v
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

var queryNames = map[string]string{
	"AgeBuckets":       "age_buckets",
	"MinAge":           "min_age",
	"MaxAge":           "max_age",
	"IncomeBuckets":    "income_buckets",
	"TenureYears":      "tenure_years",
	"ScatterLimit":     "scatter_limit",
	"MinIncomeBuckets": "min_income_buckets",
	"PivotPrimary":     "dim1",
	"PivotSecondary":   "dim2",
}

func queryName(field string) string {
	if name, ok := queryNames[field]; ok {
		return name
	}
	return strings.ToLower(field)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gtfield":
		return "must be greater than " + queryName(fe.Param())
	case "nefield":
		return "must differ from " + queryName(fe.Param())
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "failed " + fe.Tag()
	}
}

// InvalidField names the offending query parameter.
func (e *ParamError) InvalidField() string {
	return e.Field
}
