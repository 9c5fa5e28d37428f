package database

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plotboard/plotboard/internal/dataset"
	"github.com/plotboard/plotboard/internal/errs"
)

func TestSelectBuilder(t *testing.T) {
	tests := []struct {
		name     string
		build    func() (string, []any, error)
		wantSQL  string
		wantArgs []any
	}{
		{
			name: "select all",
			build: func() (string, []any, error) {
				return Select("sales", DialectPostgres).Build()
			},
			wantSQL: `SELECT * FROM "sales"`,
		},
		{
			name: "columns where order limit",
			build: func() (string, []any, error) {
				return Select("sales", DialectPostgres).
					Columns("region", "revenue").
					Where("region", "=", "North").
					OrderBy("revenue", Desc).
					Limit(10).
					Build()
			},
			wantSQL:  `SELECT "region", "revenue" FROM "sales" WHERE "region" = $1 ORDER BY "revenue" DESC LIMIT $2`,
			wantArgs: []any{"North", 10},
		},
		{
			name: "mysql placeholders",
			build: func() (string, []any, error) {
				return Select("sales", DialectMySQL).
					Where("units", ">", 5).
					Limit(3).
					Offset(6).
					Build()
			},
			wantSQL:  `SELECT * FROM "sales" WHERE "units" > ? LIMIT ? OFFSET ?`,
			wantArgs: []any{5, 3, 6},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := tt.build()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestSelectBuilderRejectsUnknownOperator(t *testing.T) {
	_, _, err := Select("sales", DialectPostgres).
		Where("region", "; DROP TABLE sales; --", "x").
		Build()
	assert.True(t, errs.IsInvalidInput(err))
}

func TestClassifySQLType(t *testing.T) {
	tests := []struct {
		sqlType string
		want    dataset.ColumnType
	}{
		{"integer", dataset.TypeNumeric},
		{"BIGINT", dataset.TypeNumeric},
		{"numeric", dataset.TypeNumeric},
		{"double precision", dataset.TypeNumeric},
		{"date", dataset.TypeDate},
		{"timestamp with time zone", dataset.TypeDate},
		{"datetime", dataset.TypeDate},
		{"varchar", dataset.TypeCategorical},
		{"text", dataset.TypeCategorical},
		{"uuid", dataset.TypeCategorical},
	}
	for _, tt := range tests {
		t.Run(tt.sqlType, func(t *testing.T) {
			assert.Equal(t, tt.want, classifySQLType(tt.sqlType))
		})
	}
}

func TestTableInfoDatasetSchema(t *testing.T) {
	info := &TableInfo{
		Name: "sales",
		Columns: []ColumnInfo{
			{Name: "region", DataType: "varchar"},
			{Name: "sold_at", DataType: "timestamp"},
			{Name: "revenue", DataType: "numeric"},
		},
	}

	sch := info.DatasetSchema()
	require.Len(t, sch, 3)
	assert.Equal(t, dataset.ColumnMeta{Name: "region", Type: dataset.TypeCategorical}, sch[0])
	assert.Equal(t, dataset.ColumnMeta{Name: "sold_at", Type: dataset.TypeDate}, sch[1])
	assert.Equal(t, dataset.ColumnMeta{Name: "revenue", Type: dataset.TypeNumeric}, sch[2])
}

// fakeRows is an in-memory Rows implementation for scan tests.
type fakeRows struct {
	columns []string
	data    [][]any
	pos     int
	closed  bool
}

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.pos-1]
	for i := range dest {
		*dest[i].(*any) = row[i]
	}
	return nil
}

func (r *fakeRows) Columns() ([]string, error) { return r.columns, nil }
func (r *fakeRows) Close()                     { r.closed = true }
func (r *fakeRows) Err() error                 { return nil }

func TestScanRows(t *testing.T) {
	sold := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := &fakeRows{
		columns: []string{"region", "revenue", "sold_at", "note"},
		data: [][]any{
			{[]byte("North"), int64(100), sold, nil},
			{[]byte("South"), int64(25), sold, []byte("rush")},
		},
	}

	data, err := ScanRows(rows)
	require.NoError(t, err)
	require.Len(t, data, 2)
	assert.True(t, rows.closed, "ScanRows must close the result set")

	// []byte cells arrive as strings, NULLs stay nil.
	assert.Equal(t, "North", data[0]["region"])
	assert.Equal(t, int64(100), data[0]["revenue"])
	assert.Equal(t, sold, data[0]["sold_at"])
	assert.Nil(t, data[0]["note"])
	assert.Equal(t, "rush", data[1]["note"])
}

func TestScanRowsEmpty(t *testing.T) {
	data, err := ScanRows(&fakeRows{columns: []string{"a"}})
	require.NoError(t, err)
	assert.NotNil(t, data)
	assert.Empty(t, data)
}

// fakeDB implements DB over fixed fixtures for LoadDataset tests.
type fakeDB struct {
	tables  map[string]*TableInfo
	rows    map[string]*fakeRows
	lastSQL string
}

func (f *fakeDB) Ping(context.Context) error { return nil }
func (f *fakeDB) Close()                     {}
func (f *fakeDB) Dialect() Dialect           { return DialectPostgres }

func (f *fakeDB) Query(_ context.Context, sql string, _ ...any) (Rows, error) {
	f.lastSQL = sql
	for name, rows := range f.rows {
		if strings.Contains(sql, `"`+name+`"`) {
			return rows, nil
		}
	}
	return nil, errs.New(errs.ErrKindQueryFailed, "no fixture for query")
}

func (f *fakeDB) QueryRow(context.Context, string, ...any) (Row, error) {
	return nil, errs.New(errs.ErrKindQueryFailed, "not implemented")
}

func (f *fakeDB) ListTables(context.Context) ([]string, error) {
	var names []string
	for name := range f.tables {
		names = append(names, name)
	}
	return names, nil
}

func (f *fakeDB) TableExists(_ context.Context, table string) (bool, error) {
	_, ok := f.tables[table]
	return ok, nil
}

func (f *fakeDB) InspectTable(_ context.Context, table string) (*TableInfo, error) {
	info, ok := f.tables[table]
	if !ok {
		return nil, errs.Newf(errs.ErrKindNotFound, "table %q does not exist", table)
	}
	return info, nil
}

func (f *fakeDB) InspectSchema(context.Context) (*SchemaInfo, error) {
	info := &SchemaInfo{}
	for _, t := range f.tables {
		info.Tables = append(info.Tables, *t)
	}
	return info, nil
}


func TestLoadDataset(t *testing.T) {
	db := &fakeDB{
		tables: map[string]*TableInfo{
			"sales": {
				Name: "sales",
				Columns: []ColumnInfo{
					{Name: "region", DataType: "varchar"},
					{Name: "revenue", DataType: "numeric"},
				},
			},
		},
		rows: map[string]*fakeRows{
			"sales": {
				columns: []string{"region", "revenue"},
				data: [][]any{
					{[]byte("North"), int64(100)},
					{[]byte("South"), int64(25)},
				},
			},
		},
	}

	data, schema, err := LoadDataset(context.Background(), db, "sales", 0)
	require.NoError(t, err)
	assert.Len(t, data, 2)
	assert.Equal(t, "North", data[0]["region"])
	require.Len(t, schema, 2)
	assert.Equal(t, dataset.TypeNumeric, schema[1].Type)
	assert.Contains(t, db.lastSQL, "LIMIT", "unbounded loads must be capped")
}

func TestLoadDatasetUnknownTable(t *testing.T) {
	db := &fakeDB{tables: map[string]*TableInfo{}}
	_, _, err := LoadDataset(context.Background(), db, "missing", 0)
	assert.True(t, errs.IsNotFound(err))
}
