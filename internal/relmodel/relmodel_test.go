package relmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plotboard/plotboard/internal/dataset"
	"github.com/plotboard/plotboard/internal/errs"
)

var orderSchema = dataset.Schema{
	{Name: "id", Type: dataset.TypeNumeric},
	{Name: "customer_id", Type: dataset.TypeNumeric},
	{Name: "product_id", Type: dataset.TypeNumeric},
	{Name: "amount", Type: dataset.TypeNumeric},
	{Name: "order_date", Type: dataset.TypeDate},
}

func TestInferSynthesizesForeignTables(t *testing.T) {
	m := Infer("orders", orderSchema)

	require.Len(t, m.Tables, 3)
	main := m.Tables[0]
	assert.Equal(t, "orders", main.Name)
	require.Len(t, main.Columns, 5)

	// The literal "id" column is the primary key, not a foreign key.
	idCol, _ := main.Column("id")
	require.NotNil(t, idCol)
	assert.True(t, idCol.IsPrimaryKey)
	assert.False(t, idCol.IsForeignKey)

	fkCol, _ := main.Column("customer_id")
	require.NotNil(t, fkCol)
	assert.True(t, fkCol.IsForeignKey)

	// "order_date" does not match the `<prefix>_id` pattern.
	dateCol, _ := main.Column("order_date")
	require.NotNil(t, dateCol)
	assert.False(t, dateCol.IsForeignKey)

	names := []string{m.Tables[1].Name, m.Tables[2].Name}
	assert.Equal(t, []string{"customer", "product"}, names)

	// Synthetic tables get the fixed three-column skeleton.
	synth := m.Tables[1]
	require.Len(t, synth.Columns, 3)
	assert.Equal(t, "id", synth.Columns[0].Name)
	assert.True(t, synth.Columns[0].IsPrimaryKey)
	assert.Equal(t, "name", synth.Columns[1].Name)
	assert.Equal(t, "description", synth.Columns[2].Name)
}

func TestInferAutoCreatesManyToOne(t *testing.T) {
	m := Infer("orders", orderSchema)

	require.Len(t, m.Relationships, 2)
	rel := m.Relationships[0]
	assert.Equal(t, ManyToOne, rel.Cardinality)
	assert.Equal(t, m.Tables[0].ID, rel.From.Table)
	assert.Equal(t, "customer_id", rel.From.Column)
	assert.Equal(t, m.Tables[1].ID, rel.To.Table)
	assert.Equal(t, "id", rel.To.Column)
}

func TestInferWithoutForeignKeys(t *testing.T) {
	m := Infer("events", dataset.Schema{
		{Name: "name", Type: dataset.TypeCategorical},
		{Name: "count", Type: dataset.TypeNumeric},
	})
	assert.Len(t, m.Tables, 1)
	assert.Empty(t, m.Relationships)
}

func TestAddRelationshipRejectsSameTable(t *testing.T) {
	m := Infer("orders", orderSchema)
	main := m.Tables[0]

	before := len(m.Relationships)
	_, err := m.AddRelationship(
		Endpoint{Table: main.ID, Column: "customer_id"},
		Endpoint{Table: main.ID, Column: "product_id"},
		OneToOne,
	)
	assert.True(t, errs.IsInvalidInput(err))
	assert.Len(t, m.Relationships, before, "model unchanged")
}

func TestAddRelationshipValidatesEndpoints(t *testing.T) {
	m := Infer("orders", orderSchema)
	main, synth := m.Tables[0], m.Tables[1]

	_, err := m.AddRelationship(
		Endpoint{Table: main.ID, Column: "nope"},
		Endpoint{Table: synth.ID, Column: "id"},
		OneToMany,
	)
	assert.True(t, errs.IsNotFound(err))

	_, err = m.AddRelationship(
		Endpoint{Table: "t-missing", Column: "id"},
		Endpoint{Table: synth.ID, Column: "id"},
		OneToMany,
	)
	assert.True(t, errs.IsNotFound(err))
}

func TestTableDragClampsWithoutSnapping(t *testing.T) {
	m := Infer("orders", orderSchema)
	c := NewCanvas(m)
	table := m.Tables[0] // at (60,60)

	c.PointerDownTable(table.ID, Point{X: 70, Y: 70})
	c.PointerMove(Point{X: 133, Y: 147})
	assert.Equal(t, Point{X: 123, Y: 137}, table.Position, "no grid snapping on the model canvas")

	c.PointerMove(Point{X: -50, Y: -50})
	assert.Equal(t, Point{X: 0, Y: 0}, table.Position)

	c.PointerUp()
	c.PointerMove(Point{X: 500, Y: 500})
	assert.Equal(t, Point{X: 0, Y: 0}, table.Position, "move after release is a no-op")
}

func TestTwoPhaseConnection(t *testing.T) {
	m := Infer("orders", orderSchema)
	c := NewCanvas(m)
	main, synth := m.Tables[0], m.Tables[2]
	before := len(m.Relationships)

	// First click arms the pending endpoint.
	c.ClickConnect(main.ID, "product_id")
	require.NotNil(t, c.Pending())
	assert.Equal(t, Endpoint{Table: main.ID, Column: "product_id"}, *c.Pending())
	assert.Nil(t, c.ActiveChooser())

	// Second click on another table opens the chooser; nothing committed yet.
	c.ClickConnect(synth.ID, "id")
	assert.Nil(t, c.Pending())
	require.NotNil(t, c.ActiveChooser())
	assert.Len(t, m.Relationships, before)

	// Committing a cardinality adds exactly one relationship.
	id := c.CommitCardinality(OneToMany)
	require.NotEmpty(t, id)
	assert.Nil(t, c.ActiveChooser())
	require.Len(t, m.Relationships, before+1)
	rel := m.FindRelationship(id)
	assert.Equal(t, OneToMany, rel.Cardinality)
	assert.Equal(t, "product_id", rel.From.Column)
}

func TestConnectionSameTableSilentlyCancels(t *testing.T) {
	m := Infer("orders", orderSchema)
	c := NewCanvas(m)
	main := m.Tables[0]
	before := len(m.Relationships)

	c.ClickConnect(main.ID, "customer_id")
	c.ClickConnect(main.ID, "product_id")

	assert.Nil(t, c.Pending())
	assert.Nil(t, c.ActiveChooser())
	assert.Len(t, m.Relationships, before, "same-table connect never produces a relationship")
}

func TestChooserDismissDiscards(t *testing.T) {
	m := Infer("orders", orderSchema)
	c := NewCanvas(m)
	before := len(m.Relationships)

	c.ClickConnect(m.Tables[0].ID, "customer_id")
	c.ClickConnect(m.Tables[1].ID, "name")
	require.NotNil(t, c.ActiveChooser())

	c.DismissChooser()
	assert.Nil(t, c.ActiveChooser())
	assert.Len(t, m.Relationships, before)
	assert.Empty(t, c.CommitCardinality(OneToOne), "commit after dismiss is a no-op")
}

func TestRelationshipSelectionAndDelete(t *testing.T) {
	m := Infer("orders", orderSchema)
	c := NewCanvas(m)
	relID := m.Relationships[0].ID

	c.ClickRelationship(relID)
	assert.Equal(t, relID, c.SelectedRelationship())

	// Clicking again toggles off.
	c.ClickRelationship(relID)
	assert.Empty(t, c.SelectedRelationship())

	c.ClickRelationship(relID)
	c.DeleteSelected()
	assert.Nil(t, m.FindRelationship(relID))
	assert.Empty(t, c.SelectedRelationship())
}

func TestColumnAnchorGeometry(t *testing.T) {
	m := Infer("orders", orderSchema)
	c := NewCanvas(m)
	table := m.Tables[0] // at (60,60)

	p0, ok := c.ColumnAnchor(table.ID, "id")
	require.True(t, ok)
	p2, ok := c.ColumnAnchor(table.ID, "product_id")
	require.True(t, ok)

	assert.Equal(t, table.Position.X+tableWidth, p0.X)
	assert.Equal(t, p0.Y+2*rowHeight, p2.Y, "anchors are offset by column index")

	_, ok = c.ColumnAnchor(table.ID, "nope")
	assert.False(t, ok)
}

func TestMidpoint(t *testing.T) {
	m := Infer("orders", orderSchema)
	c := NewCanvas(m)
	rel := m.Relationships[0]

	from, _ := c.ColumnAnchor(rel.From.Table, rel.From.Column)
	to, _ := c.ColumnAnchor(rel.To.Table, rel.To.Column)
	mid, ok := c.Midpoint(rel.ID)
	require.True(t, ok)
	assert.Equal(t, (from.X+to.X)/2, mid.X)
	assert.Equal(t, (from.Y+to.Y)/2, mid.Y)
}

func TestMarkers(t *testing.T) {
	tests := []struct {
		card     Cardinality
		from, to MarkerKind
	}{
		{OneToOne, MarkerOne, MarkerOne},
		{OneToMany, MarkerOne, MarkerMany},
		{ManyToOne, MarkerMany, MarkerOne},
		{ManyToMany, MarkerMany, MarkerMany},
	}
	for _, tt := range tests {
		t.Run(string(tt.card), func(t *testing.T) {
			from, to := Markers(tt.card)
			assert.Equal(t, tt.from, from)
			assert.Equal(t, tt.to, to)
		})
	}
}
