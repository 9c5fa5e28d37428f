package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NumberFormat selects a stateless presentation format for scalar values.
// Formatting has no bearing on aggregation results.
type NumberFormat string

const (
	FormatNumber   NumberFormat = "number"
	FormatDecimal  NumberFormat = "decimal"
	FormatCurrency NumberFormat = "currency"
	FormatPercent  NumberFormat = "percent"
	FormatCompact  NumberFormat = "compact"
)

// FormatValue renders a scalar for display. Unrecognised formats render as
// plain numbers.
func FormatValue(v float64, format NumberFormat) string {
	switch format {
	case FormatDecimal:
		return groupThousands(v, 2)
	case FormatCurrency:
		return "$" + groupThousands(v, 2)
	case FormatPercent:
		return strconv.FormatFloat(v, 'f', 1, 64) + "%"
	case FormatCompact:
		return formatCompact(v)
	default:
		return groupThousands(math.Round(v), 0)
	}
}

// formatCompact abbreviates large magnitudes with K/M suffixes.
func formatCompact(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1_000_000:
		return trimZeros(v/1_000_000) + "M"
	case abs >= 1_000:
		return trimZeros(v/1_000) + "K"
	default:
		return trimZeros(v)
	}
}

func trimZeros(v float64) string {
	s := strconv.FormatFloat(v, 'f', 1, 64)
	s = strings.TrimSuffix(s, ".0")
	return s
}

// groupThousands formats v with comma separators and the given number of
// decimal places.
func groupThousands(v float64, decimals int) string {
	negative := v < 0
	if negative {
		v = -v
	}

	s := strconv.FormatFloat(v, 'f', decimals, 64)
	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	if len(intPart) > 3 {
		var parts []string
		for len(intPart) > 3 {
			parts = append([]string{intPart[len(intPart)-3:]}, parts...)
			intPart = intPart[:len(intPart)-3]
		}
		parts = append([]string{intPart}, parts...)
		intPart = strings.Join(parts, ",")
	}

	out := intPart + fracPart
	if negative {
		out = "-" + out
	}
	return out
}

// FormatPoint renders one point for a table cell or a tooltip.
func FormatPoint(p Point, format NumberFormat) string {
	return fmt.Sprintf("%s: %s", p.Label, FormatValue(p.Value, format))
}
