package database

import (
	"strings"

	"github.com/plotboard/plotboard/internal/dataset"
)

// ColumnInfo describes a single column of a table.
type ColumnInfo struct {
	Name      string
	DataType  string // engine-native type name, lower case
	Nullable  bool
	Default   *string
	IsPrimary bool
	IsUnique  bool
}

// ForeignKey describes one outgoing reference of a table.
type ForeignKey struct {
	Column    string
	RefTable  string
	RefColumn string
}

// TableInfo describes a table, its columns, and its keys.
type TableInfo struct {
	Name        string
	Columns     []ColumnInfo
	PrimaryKey  []string
	ForeignKeys []ForeignKey
}

// SchemaInfo is the full introspected database schema, in catalog order.
type SchemaInfo struct {
	Tables []TableInfo
}

// Table returns the named table's info, or nil.
func (s *SchemaInfo) Table(name string) *TableInfo {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// DatasetSchema maps the table's engine-native column types onto the
// three-way classification the authoring core works with. This is the
// declared-schema path — the first-row sniff in package dataset is only a
// fallback for data that arrives without catalog metadata.
func (t *TableInfo) DatasetSchema() dataset.Schema {
	sch := make(dataset.Schema, len(t.Columns))
	for i, c := range t.Columns {
		sch[i] = dataset.ColumnMeta{Name: c.Name, Type: classifySQLType(c.DataType)}
	}
	return sch
}

// classifySQLType folds an engine-native type name into numeric, date, or
// categorical. Unrecognised types are categorical.
func classifySQLType(dataType string) dataset.ColumnType {
	switch strings.ToLower(dataType) {
	case "smallint", "integer", "int", "bigint", "tinyint", "mediumint",
		"decimal", "numeric", "real", "float", "double", "double precision",
		"money", "serial", "bigserial":
		return dataset.TypeNumeric
	case "date", "time", "datetime", "timestamp", "timestamptz", "year",
		"timestamp with time zone", "timestamp without time zone":
		return dataset.TypeDate
	default:
		return dataset.TypeCategorical
	}
}
