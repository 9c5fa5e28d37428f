// Package relmodel holds the table/relationship graph authored on the
// relationship canvas, its one-shot schema inference, and the interactive
// surface over it (table drag, two-phase connection, selection).
package relmodel

import (
	"strings"

	"github.com/google/uuid"

	"github.com/plotboard/plotboard/internal/dataset"
	"github.com/plotboard/plotboard/internal/errs"
)

// Point is a location in model-canvas coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Column is one column of a model table.
type Column struct {
	Name         string             `json:"name"`
	Type         dataset.ColumnType `json:"type"`
	IsPrimaryKey bool               `json:"isPrimaryKey"`
	IsForeignKey bool               `json:"isForeignKey"`
}

// Table is one node of the relationship graph. The table set is fixed at
// inference time; only positions change afterwards.
type Table struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Position Point    `json:"position"`
	Columns  []Column `json:"columns"`
}

// Column returns the named column and its index, or nil.
func (t *Table) Column(name string) (*Column, int) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], i
		}
	}
	return nil, -1
}

// Cardinality is the one/many multiplicity between two table columns.
type Cardinality string

const (
	OneToOne   Cardinality = "one-to-one"
	OneToMany  Cardinality = "one-to-many"
	ManyToOne  Cardinality = "many-to-one"
	ManyToMany Cardinality = "many-to-many"
)

// Endpoint names one side of a relationship.
type Endpoint struct {
	Table  string `json:"table"` // table id
	Column string `json:"column"`
}

// Relationship is one edge of the graph.
//
// Invariant: From.Table != To.Table, and both endpoints reference columns
// that exist in their table.
type Relationship struct {
	ID          string      `json:"id"`
	From        Endpoint    `json:"from"`
	To          Endpoint    `json:"to"`
	Cardinality Cardinality `json:"cardinality"`
	CrossFilter string      `json:"crossFilterDirection"`
}

// DataModel is the full table/relationship graph.
type DataModel struct {
	Tables        []*Table       `json:"tables"`
	Relationships []Relationship `json:"relationships"`
}

// FindTable returns the table with the given id, or nil.
func (m *DataModel) FindTable(id string) *Table {
	for _, t := range m.Tables {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// FindRelationship returns the relationship with the given id, or nil.
func (m *DataModel) FindRelationship(id string) *Relationship {
	for i := range m.Relationships {
		if m.Relationships[i].ID == id {
			return &m.Relationships[i]
		}
	}
	return nil
}

// AddRelationship validates and appends a relationship, returning its id.
// Self-relationships and endpoints naming unknown tables or columns are
// rejected.
func (m *DataModel) AddRelationship(from, to Endpoint, card Cardinality) (string, error) {
	if from.Table == to.Table {
		return "", errs.New(errs.ErrKindInvalidInput, "a relationship cannot connect a table to itself")
	}
	for _, ep := range []Endpoint{from, to} {
		t := m.FindTable(ep.Table)
		if t == nil {
			return "", errs.Newf(errs.ErrKindNotFound, "unknown table %q", ep.Table)
		}
		if c, _ := t.Column(ep.Column); c == nil {
			return "", errs.Newf(errs.ErrKindNotFound, "table %q has no column %q", t.Name, ep.Column)
		}
	}

	rel := Relationship{
		ID:          uuid.NewString(),
		From:        from,
		To:          to,
		Cardinality: card,
		CrossFilter: "single",
	}
	m.Relationships = append(m.Relationships, rel)
	return rel.ID, nil
}

// RemoveRelationship deletes by id; unknown ids are a no-op.
func (m *DataModel) RemoveRelationship(id string) {
	for i := range m.Relationships {
		if m.Relationships[i].ID == id {
			m.Relationships = append(m.Relationships[:i], m.Relationships[i+1:]...)
			return
		}
	}
}

// MoveTable repositions a table, clamped to the canvas origin. Table drags
// do not snap to a grid.
func (m *DataModel) MoveTable(id string, x, y float64) {
	t := m.FindTable(id)
	if t == nil {
		return
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	t.Position = Point{X: x, Y: y}
}

// Infer builds the initial model from ingested schema metadata, once.
//
// Every column named `<prefix>_id` (but not the literal "id") is treated as
// a foreign key: a synthetic `<prefix>` table with an {id, name, description}
// skeleton is added, plus a many-to-one relationship from the foreign-key
// column to the synthetic id. This is a naming heuristic, not a catalog
// lookup — a numeric column that merely happens to end in "_id" (say an
// external tracking code) will produce a spurious table. Known limitation.
func Infer(name string, schema dataset.Schema) *DataModel {
	main := &Table{
		ID:       uuid.NewString(),
		Name:     name,
		Position: Point{X: 60, Y: 60},
	}
	for _, col := range schema {
		main.Columns = append(main.Columns, Column{
			Name:         col.Name,
			Type:         col.Type,
			IsPrimaryKey: col.Name == "id",
			IsForeignKey: foreignKeyPrefix(col.Name) != "",
		})
	}

	m := &DataModel{Tables: []*Table{main}}

	next := Point{X: 420, Y: 60}
	for _, col := range schema {
		prefix := foreignKeyPrefix(col.Name)
		if prefix == "" {
			continue
		}
		synth := &Table{
			ID:       uuid.NewString(),
			Name:     prefix,
			Position: next,
			Columns: []Column{
				{Name: "id", Type: dataset.TypeNumeric, IsPrimaryKey: true},
				{Name: "name", Type: dataset.TypeCategorical},
				{Name: "description", Type: dataset.TypeCategorical},
			},
		}
		next.Y += 180
		m.Tables = append(m.Tables, synth)

		m.Relationships = append(m.Relationships, Relationship{
			ID:          uuid.NewString(),
			From:        Endpoint{Table: main.ID, Column: col.Name},
			To:          Endpoint{Table: synth.ID, Column: "id"},
			Cardinality: ManyToOne,
			CrossFilter: "single",
		})
	}
	return m
}

// foreignKeyPrefix returns the `<prefix>` of a `<prefix>_id` column name, or
// "" when the name does not match the foreign-key pattern.
func foreignKeyPrefix(name string) string {
	if name == "id" || !strings.HasSuffix(name, "_id") {
		return ""
	}
	prefix := strings.TrimSuffix(name, "_id")
	if prefix == "" {
		return ""
	}
	return prefix
}
