package engine

import (
	"strings"

	"github.com/plotboard/plotboard/internal/dataset"
)

// ApplyFilters returns the rows matching every active filter.
// Filters are AND-combined. A filter with an empty Field or Value is
// vacuously true. A numeric comparison against a non-numeric cell or filter
// value evaluates to false — it never errors.
func ApplyFilters(rows dataset.Dataset, filters []Filter) dataset.Dataset {
	active := make([]Filter, 0, len(filters))
	for _, f := range filters {
		if f.Field != "" && f.Value != "" {
			active = append(active, f)
		}
	}
	if len(active) == 0 {
		return rows
	}

	out := make(dataset.Dataset, 0, len(rows))
	for _, row := range rows {
		if rowMatches(row, active) {
			out = append(out, row)
		}
	}
	return out
}

func rowMatches(row dataset.Row, filters []Filter) bool {
	for _, f := range filters {
		if !evalFilter(row[f.Field], f) {
			return false
		}
	}
	return true
}

func evalFilter(cell any, f Filter) bool {
	switch f.Operator {
	case OpEquals:
		return dataset.CellString(cell) == f.Value
	case OpNotEquals:
		return dataset.CellString(cell) != f.Value
	case OpContains:
		return strings.Contains(
			strings.ToLower(dataset.CellString(cell)),
			strings.ToLower(f.Value),
		)
	case OpGreaterThan:
		cv, ok1 := dataset.CellNumber(cell)
		fv, ok2 := dataset.CellNumber(f.Value)
		return ok1 && ok2 && cv > fv
	case OpLessThan:
		cv, ok1 := dataset.CellNumber(cell)
		fv, ok2 := dataset.CellNumber(f.Value)
		return ok1 && ok2 && cv < fv
	default:
		return true
	}
}
