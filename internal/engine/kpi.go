package engine

import (
	"github.com/plotboard/plotboard/internal/dataset"
)

// AggregateKPI collapses the whole filtered set to one scalar using
// cfg.Aggregation over the numerically coerced value column (cfg.YAxis),
// plus a trend indicator.
//
// The trend splits the coerced values into first and second halves by index
// (floor split), compares the halves' means, and reports the percent change
// between them. A zero or undefined first-half mean yields a neutral trend
// with zero change rather than an undefined ratio.
func AggregateKPI(rows dataset.Dataset, cfg DataConfig) KPIResult {
	filtered := ApplyFilters(rows, cfg.Filters)
	values := coerceColumn(filtered, cfg.YAxis)

	return KPIResult{
		Value:         reduceValues(values, cfg.Aggregation),
		Trend:         computeTrend(values),
		PercentChange: percentChange(values),
	}
}

func splitHalves(values []float64) (first, second []float64) {
	mid := len(values) / 2
	return values[:mid], values[mid:]
}

func computeTrend(values []float64) Trend {
	first, second := splitHalves(values)
	if len(first) == 0 || len(second) == 0 {
		return TrendNeutral
	}

	firstMean := sum(first) / float64(len(first))
	secondMean := sum(second) / float64(len(second))

	switch {
	case secondMean > firstMean:
		return TrendUp
	case secondMean < firstMean:
		return TrendDown
	default:
		return TrendNeutral
	}
}

func percentChange(values []float64) float64 {
	first, second := splitHalves(values)
	if len(first) == 0 || len(second) == 0 {
		return 0
	}

	firstMean := sum(first) / float64(len(first))
	if firstMean == 0 {
		return 0
	}
	secondMean := sum(second) / float64(len(second))

	return (secondMean - firstMean) / firstMean * 100
}
