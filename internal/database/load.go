package database

import (
	"context"

	"github.com/plotboard/plotboard/internal/dataset"
	"github.com/plotboard/plotboard/internal/errs"
	"github.com/plotboard/plotboard/internal/logger"
)

// DefaultRowLimit caps how many rows a table load pulls into memory when
// the caller does not set a limit. The authoring core materializes the
// whole dataset, so an unbounded load of a large fact table would be fatal.
const DefaultRowLimit = 10000

// LoadDataset pulls one table into memory as a dataset plus its declared
// column schema. limit <= 0 applies DefaultRowLimit.
func LoadDataset(ctx context.Context, db DB, table string, limit int) (dataset.Dataset, dataset.Schema, error) {
	exists, err := db.TableExists(ctx, table)
	if err != nil {
		return nil, nil, err
	}
	if !exists {
		return nil, nil, errs.Newf(errs.ErrKindNotFound, "table %q does not exist", table)
	}

	info, err := db.InspectTable(ctx, table)
	if err != nil {
		return nil, nil, err
	}

	if limit <= 0 {
		limit = DefaultRowLimit
	}
	sql, args, err := Select(table, db.Dialect()).Limit(limit).Build()
	if err != nil {
		return nil, nil, err
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, nil, err
	}

	data, err := ScanRows(rows)
	if err != nil {
		return nil, nil, err
	}

	schema := info.DatasetSchema()
	logger.With().
		Str("table", table).
		Int("rows", len(data)).
		Int("columns", len(schema)).
		Logger().Debug("dataset loaded")

	return data, schema, nil
}
