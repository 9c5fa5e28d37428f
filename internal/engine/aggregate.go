package engine

import (
	"github.com/plotboard/plotboard/internal/dataset"
)

// Aggregate runs the full pipeline for a widget: filter, group, reduce.
//
// Rows are grouped by the string form of cfg.XAxis (missing values fall into
// the "Unknown" bucket). When cfg.Category is set, each x-bucket is
// sub-grouped the same way and the result is a multi-series, one series per
// distinct category value. Without a y-axis each bucket's value is its row
// count; otherwise the y-axis column is numerically coerced and reduced with
// cfg.Aggregation (unrecognised aggregations fall back to sum).
//
// Label order is first-seen insertion order at both levels.
func Aggregate(rows dataset.Dataset, cfg DataConfig) Result {
	filtered := ApplyFilters(rows, cfg.Filters)

	if cfg.Category == "" {
		return aggregateFlat(filtered, cfg)
	}
	return aggregateNested(filtered, cfg)
}

func aggregateFlat(rows dataset.Dataset, cfg DataConfig) Result {
	labels := make([]string, 0)
	buckets := make(map[string]dataset.Dataset)

	for _, row := range rows {
		key := bucketKey(row, cfg.XAxis)
		if _, seen := buckets[key]; !seen {
			labels = append(labels, key)
		}
		buckets[key] = append(buckets[key], row)
	}

	series := make(Series, 0, len(labels))
	for _, label := range labels {
		series = append(series, Point{
			Label: label,
			Value: reduceBucket(buckets[label], cfg),
		})
	}

	return Result{Kind: KindSeries, Labels: labels, Series: series}
}

func aggregateNested(rows dataset.Dataset, cfg DataConfig) Result {
	labels := make([]string, 0)
	subLabels := make([]string, 0)
	subSeen := make(map[string]bool)
	buckets := make(map[string]map[string]dataset.Dataset)

	for _, row := range rows {
		key := bucketKey(row, cfg.XAxis)
		sub := bucketKey(row, cfg.Category)

		if _, seen := buckets[key]; !seen {
			labels = append(labels, key)
			buckets[key] = make(map[string]dataset.Dataset)
		}
		if !subSeen[sub] {
			subSeen[sub] = true
			subLabels = append(subLabels, sub)
		}
		buckets[key][sub] = append(buckets[key][sub], row)
	}

	// One aligned series per sub-label; an x-bucket with no rows for a
	// sub-label contributes zero so all series share the label axis.
	multi := make([]NamedSeries, 0, len(subLabels))
	for _, sub := range subLabels {
		points := make(Series, 0, len(labels))
		for _, label := range labels {
			var value float64
			if bucket, ok := buckets[label][sub]; ok {
				value = reduceBucket(bucket, cfg)
			}
			points = append(points, Point{Label: label, Value: value})
		}
		multi = append(multi, NamedSeries{Name: sub, Points: points})
	}

	return Result{Kind: KindMultiSeries, Labels: labels, Multi: multi}
}

// bucketKey returns the string form of the grouping cell, or UnknownBucket
// when the field is missing or empty.
func bucketKey(row dataset.Row, field string) string {
	val, ok := row[field]
	if !ok || val == nil {
		return UnknownBucket
	}
	s := dataset.CellString(val)
	if s == "" {
		return UnknownBucket
	}
	return s
}

// reduceBucket collapses one bucket of rows to a scalar. Buckets only exist
// because at least one row landed in them, so len(rows) ≥ 1 and avg never
// divides by zero.
func reduceBucket(rows dataset.Dataset, cfg DataConfig) float64 {
	if cfg.YAxis == "" {
		return float64(len(rows))
	}
	return reduceValues(coerceColumn(rows, cfg.YAxis), cfg.Aggregation)
}

func reduceValues(values []float64, agg Aggregation) float64 {
	if len(values) == 0 {
		return 0
	}

	switch agg {
	case AggCount:
		return float64(len(values))
	case AggAvg:
		return sum(values) / float64(len(values))
	case AggMin:
		m := values[0]
		for _, v := range values[1:] {
			if v < m {
				m = v
			}
		}
		return m
	case AggMax:
		m := values[0]
		for _, v := range values[1:] {
			if v > m {
				m = v
			}
		}
		return m
	case AggSum:
		return sum(values)
	default:
		// Unrecognised aggregation falls back to sum.
		return sum(values)
	}
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

// coerceColumn numerically coerces one column across rows.
// Non-numeric cells coerce to zero rather than being dropped, so bucket
// sizes stay consistent with row counts.
func coerceColumn(rows dataset.Dataset, field string) []float64 {
	values := make([]float64, len(rows))
	for i, row := range rows {
		if v, ok := dataset.CellNumber(row[field]); ok {
			values[i] = v
		}
	}
	return values
}
