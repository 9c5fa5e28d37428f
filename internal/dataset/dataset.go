// Package dataset holds the in-memory tabular data a report is authored
// against, plus the column schema metadata produced at the ingestion boundary.
//
// A Dataset is an ordered sequence of flat rows sharing a nominal column set.
// The authoring engine only ever reads it — rows are never mutated after
// ingestion.
package dataset

import (
	"fmt"
	"strconv"
	"time"
)

// Row is a flat mapping of column name to scalar value.
// Missing keys are tolerated; the aggregation engine folds them into an
// "Unknown" bucket.
type Row map[string]any

// Dataset is an ordered sequence of rows.
type Dataset []Row

// ColumnType tags a column at the ingestion boundary.
type ColumnType string

const (
	TypeNumeric     ColumnType = "numeric"
	TypeCategorical ColumnType = "categorical"
	TypeDate        ColumnType = "date"
)

// ColumnMeta describes one column of a dataset.
type ColumnMeta struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// Schema is the ordered column metadata for a dataset, supplied once by the
// ingestion collaborator.
type Schema []ColumnMeta

// Columns returns all column names in schema order.
func (s Schema) Columns() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

// NumericColumns returns the names of all numeric columns.
func (s Schema) NumericColumns() []string {
	var names []string
	for _, c := range s {
		if c.Type == TypeNumeric {
			names = append(names, c.Name)
		}
	}
	return names
}

// NonNumericColumns returns the names of all categorical and date columns.
func (s Schema) NonNumericColumns() []string {
	var names []string
	for _, c := range s {
		if c.Type != TypeNumeric {
			names = append(names, c.Name)
		}
	}
	return names
}

// Has reports whether the schema contains a column with the given name.
func (s Schema) Has(name string) bool {
	for _, c := range s {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Sniff derives a schema from a single sample row by classifying each field
// by its runtime value type. This is a fallback for datasets that arrive
// without declared metadata — a declared Schema from the ingestion boundary
// is always preferred, since one row may not be representative.
// The resulting column order is not defined.
func Sniff(sample Row) Schema {
	sch := make(Schema, 0, len(sample))
	for name, val := range sample {
		sch = append(sch, ColumnMeta{Name: name, Type: classifyValue(val)})
	}
	return sch
}

func classifyValue(val any) ColumnType {
	switch v := val.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return TypeNumeric
	case time.Time:
		return TypeDate
	case string:
		if _, err := strconv.ParseFloat(v, 64); err == nil {
			return TypeNumeric
		}
		return TypeCategorical
	default:
		return TypeCategorical
	}
}

// CellString returns the string form of a cell value.
// nil yields the empty string; everything else goes through fmt.
func CellString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.Format(time.RFC3339)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// CellNumber coerces a cell value to a float64.
// The second return is false when the value is not numeric.
func CellNumber(val any) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
