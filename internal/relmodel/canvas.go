package relmodel

// Table card geometry used to place connection endpoints on screen.
const (
	tableWidth   = 200.0
	headerHeight = 36.0
	rowHeight    = 24.0
)

// MarkerKind is the glyph drawn at one end of a relationship curve.
type MarkerKind string

const (
	MarkerOne  MarkerKind = "one"  // single crossbar
	MarkerMany MarkerKind = "many" // crow's-foot
)

// Chooser is the transient cardinality picker opened when the second
// endpoint of a connection is clicked. It holds both endpoints until the
// user commits a cardinality or dismisses it.
type Chooser struct {
	From Endpoint `json:"from"`
	To   Endpoint `json:"to"`
}

// Canvas is the interactive surface over one DataModel. The model is
// exclusively owned: all mutation goes through Canvas or DataModel methods.
type Canvas struct {
	model *DataModel

	// drag is the single active table-drag slot; empty tableID means idle.
	drag struct {
		tableID string
		offset  Point
	}

	// pending is the armed first endpoint of a connection, nil when none.
	pending *Endpoint

	chooser    *Chooser
	selectedID string // selected relationship, "" for none
}

// NewCanvas returns a canvas over the given model.
func NewCanvas(model *DataModel) *Canvas {
	return &Canvas{model: model}
}

// Model returns the underlying data model.
func (c *Canvas) Model() *DataModel {
	return c.model
}

// Pending returns the armed connection endpoint, or nil.
func (c *Canvas) Pending() *Endpoint {
	return c.pending
}

// ActiveChooser returns the open cardinality chooser, or nil.
func (c *Canvas) ActiveChooser() *Chooser {
	return c.chooser
}

// SelectedRelationship returns the id of the selected relationship, or "".
func (c *Canvas) SelectedRelationship() string {
	return c.selectedID
}

// PointerDownTable begins dragging a table from its header.
func (c *Canvas) PointerDownTable(tableID string, pointer Point) {
	t := c.model.FindTable(tableID)
	if t == nil {
		return
	}
	c.drag.tableID = tableID
	c.drag.offset = Point{X: pointer.X - t.Position.X, Y: pointer.Y - t.Position.Y}
}

// PointerMove advances an active table drag.
func (c *Canvas) PointerMove(pointer Point) {
	if c.drag.tableID == "" {
		return
	}
	c.model.MoveTable(c.drag.tableID, pointer.X-c.drag.offset.X, pointer.Y-c.drag.offset.Y)
}

// PointerUp ends any active drag.
func (c *Canvas) PointerUp() {
	c.drag.tableID = ""
}

// PointerLeave ends any active drag, same as PointerUp.
func (c *Canvas) PointerLeave() {
	c.drag.tableID = ""
}

// ClickConnect handles a click on a column's connect affordance.
//
// With no pending connection it arms one. With a connection pending: a
// click on the same table silently cancels (self-relationships are not
// allowed); a click on another table opens the cardinality chooser holding
// both endpoints. Nothing is committed until the chooser resolves.
func (c *Canvas) ClickConnect(tableID, column string) {
	t := c.model.FindTable(tableID)
	if t == nil {
		return
	}
	if col, _ := t.Column(column); col == nil {
		return
	}

	if c.pending == nil {
		c.pending = &Endpoint{Table: tableID, Column: column}
		return
	}

	from := *c.pending
	c.pending = nil
	if from.Table == tableID {
		return
	}
	c.chooser = &Chooser{From: from, To: Endpoint{Table: tableID, Column: column}}
}

// CommitCardinality commits the chooser's connection with the chosen
// cardinality and returns the new relationship id. With no chooser open it
// returns "".
func (c *Canvas) CommitCardinality(card Cardinality) string {
	if c.chooser == nil {
		return ""
	}
	ch := *c.chooser
	c.chooser = nil

	id, err := c.model.AddRelationship(ch.From, ch.To, card)
	if err != nil {
		return ""
	}
	return id
}

// DismissChooser discards the held connection without committing.
func (c *Canvas) DismissChooser() {
	c.chooser = nil
}

// ClickRelationship toggles selection of a drawn relationship. Selecting a
// relationship reveals its delete affordance at the curve midpoint.
func (c *Canvas) ClickRelationship(id string) {
	if c.model.FindRelationship(id) == nil {
		return
	}
	if c.selectedID == id {
		c.selectedID = ""
		return
	}
	c.selectedID = id
}

// DeleteSelected removes the selected relationship and clears selection.
func (c *Canvas) DeleteSelected() {
	if c.selectedID == "" {
		return
	}
	c.model.RemoveRelationship(c.selectedID)
	c.selectedID = ""
}

// ColumnAnchor returns the screen position of a column's connection point:
// the table position plus a fixed per-row offset.
func (c *Canvas) ColumnAnchor(tableID, column string) (Point, bool) {
	t := c.model.FindTable(tableID)
	if t == nil {
		return Point{}, false
	}
	_, idx := t.Column(column)
	if idx < 0 {
		return Point{}, false
	}
	return Point{
		X: t.Position.X + tableWidth,
		Y: t.Position.Y + headerHeight + float64(idx)*rowHeight + rowHeight/2,
	}, true
}

// Midpoint returns the midpoint of a relationship's curve, where the delete
// affordance is anchored.
func (c *Canvas) Midpoint(relID string) (Point, bool) {
	rel := c.model.FindRelationship(relID)
	if rel == nil {
		return Point{}, false
	}
	from, ok := c.ColumnAnchor(rel.From.Table, rel.From.Column)
	if !ok {
		return Point{}, false
	}
	to, ok := c.ColumnAnchor(rel.To.Table, rel.To.Column)
	if !ok {
		return Point{}, false
	}
	return Point{X: (from.X + to.X) / 2, Y: (from.Y + to.Y) / 2}, true
}

// Markers returns the endpoint glyphs for a cardinality, from-side then
// to-side. Each side is chosen independently, giving four distinct
// combinations.
func Markers(card Cardinality) (from, to MarkerKind) {
	switch card {
	case OneToOne:
		return MarkerOne, MarkerOne
	case OneToMany:
		return MarkerOne, MarkerMany
	case ManyToOne:
		return MarkerMany, MarkerOne
	default:
		return MarkerMany, MarkerMany
	}
}
