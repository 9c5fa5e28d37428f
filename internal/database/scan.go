package database

import (
	"time"

	"github.com/plotboard/plotboard/internal/dataset"
	"github.com/plotboard/plotboard/internal/errs"
)

// ScanRows reads the whole result set into dataset rows, one map per row
// keyed by column name. The returned dataset is always non-nil.
// ScanRows always closes the Rows — callers do not need to call Close().
func ScanRows(rows Rows) (dataset.Dataset, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "failed to read column names", err)
	}

	result := make(dataset.Dataset, 0)

	for rows.Next() {
		// Allocate scan targets as *any so the driver can write any type.
		dest := make([]any, len(columns))
		destPtrs := make([]any, len(columns))
		for i := range dest {
			destPtrs[i] = &dest[i]
		}

		if err := rows.Scan(destPtrs...); err != nil {
			return nil, errs.Wrap(errs.ErrKindQueryFailed, "failed to scan row", err)
		}

		row := make(dataset.Row, len(columns))
		for i, col := range columns {
			row[col] = normalizeCell(dest[i])
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "error during row iteration", err)
	}

	return result, nil
}

// normalizeCell converts driver-native values into the scalar forms the
// aggregation engine understands. NULL cells stay nil and land in the
// Unknown bucket when grouped on.
func normalizeCell(v any) any {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case time.Time:
		return val
	default:
		return val
	}
}
