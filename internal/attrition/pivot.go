package attrition

import (
	"bytes"
	"encoding/json"
)

// PivotedRow is one primary key spread across the secondary key columns.
type PivotedRow struct {
	Dimension string
	Values    map[string]float64
}

// Value returns the rate for column, 0 when the combination was absent.
func (r PivotedRow) Value(column string) float64 {
	return r.Values[column]
}

// Pivot is the wide table produced from two-dimension rates.
type Pivot struct {
	Columns []string
	Rows    []PivotedRow
}

// Empty reports whether the pivot has no rows.
func (p Pivot) Empty() bool {
	return len(p.Rows) == 0
}

// PivotTwoKey reshapes TwoKeyRateRows into one row per distinct k1 with one
// column per distinct k2. Columns are collected in a first pass so every row
// carries every column. Rows and columns keep first-seen order; missing or
// empty keys become Unknown. A repeated (k1, k2) pair keeps the last rate.
func PivotTwoKey(rows []TwoKeyRateRow) Pivot {
	var columns []string
	seen := make(map[string]struct{})
	for _, row := range rows {
		k2 := keyOrUnknown(row.K2)
		if _, ok := seen[k2]; ok {
			continue
		}
		seen[k2] = struct{}{}
		columns = append(columns, k2)
	}

	index := make(map[string]int)
	out := make([]PivotedRow, 0)
	for _, row := range rows {
		k1 := keyOrUnknown(row.K1)
		i, ok := index[k1]
		if !ok {
			values := make(map[string]float64, len(columns))
			for _, col := range columns {
				values[col] = 0
			}
			out = append(out, PivotedRow{Dimension: k1, Values: values})
			i = len(out) - 1
			index[k1] = i
		}
		out[i].Values[keyOrUnknown(row.K2)] = row.AttritionRate
	}
	return Pivot{Columns: columns, Rows: out}
}

func keyOrUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}

// MarshalJSON writes the row flat, {"dimension": ..., "<k2>": rate, ...},
// with columns in first-seen order.
func (p Pivot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range p.Rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(`{"dimension":`)
		dim, err := json.Marshal(row.Dimension)
		if err != nil {
			return nil, err
		}
		buf.Write(dim)
		for _, col := range p.Columns {
			name, err := json.Marshal(col)
			if err != nil {
				return nil, err
			}
			val, err := json.Marshal(row.Values[col])
			if err != nil {
				return nil, err
			}
			buf.WriteByte(',')
			buf.Write(name)
			buf.WriteByte(':')
			buf.Write(val)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}
