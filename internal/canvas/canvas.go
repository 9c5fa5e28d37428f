// Package canvas owns the report surface's interaction state: the
// drag/resize gesture machine, selection clicks, and the transient context
// menu. It dispatches actions to the report store and composes one renderer
// per widget — it never computes aggregation itself.
package canvas

import (
	"math"

	"github.com/plotboard/plotboard/internal/report"
)

// GridSize is the snap grid for widget positions and sizes.
const GridSize = 10

// Minimum widget dimensions enforced while resizing.
const (
	MinWidth  = 250
	MinHeight = 200
)

// Point is a pointer location in canvas coordinates.
type Point struct {
	X, Y float64
}

// GestureKind enumerates the interaction states.
type GestureKind int

const (
	GestureIdle GestureKind = iota
	GestureDragging
	GestureResizing
)

// gesture is the single authoritative active-gesture slot. Exactly one
// drag-or-resize may be active per canvas; kind == GestureIdle means none.
type gesture struct {
	kind         GestureKind
	widgetID     string
	offset       Point           // drag: pointer offset inside the widget
	startDims    report.Position // resize: dims when the gesture began
	pointerStart Point           // resize: pointer when the gesture began
}

// ContextMenu is the transient duplicate/delete menu anchored at the cursor.
type ContextMenu struct {
	WidgetID string
	At       Point
}

// Canvas drives the report surface for one authoring session.
type Canvas struct {
	store   *report.Store
	active  gesture
	menu    *ContextMenu
}

// New returns a Canvas dispatching to the given store.
func New(store *report.Store) *Canvas {
	return &Canvas{store: store}
}

// Gesture returns the current gesture kind, for rendering affordances.
func (c *Canvas) Gesture() GestureKind {
	return c.active.kind
}

// Menu returns the open context menu, or nil.
func (c *Canvas) Menu() *ContextMenu {
	return c.menu
}

// PointerDownHeader begins a drag from a pointer press on a widget's header.
func (c *Canvas) PointerDownHeader(widgetID string, pointer Point) {
	w := c.store.State().Find(widgetID)
	if w == nil {
		return
	}
	c.menu = nil
	c.active = gesture{
		kind:     GestureDragging,
		widgetID: widgetID,
		offset:   Point{X: pointer.X - w.Position.X, Y: pointer.Y - w.Position.Y},
	}
}

// PointerDownResizeHandle begins a resize. The handle only exists on the
// selected widget, so presses on anything else are ignored.
func (c *Canvas) PointerDownResizeHandle(widgetID string, pointer Point) {
	s := c.store.State()
	if s.SelectedVisualID != widgetID {
		return
	}
	w := s.Find(widgetID)
	if w == nil {
		return
	}
	c.menu = nil
	c.active = gesture{
		kind:         GestureResizing,
		widgetID:     widgetID,
		startDims:    w.Position,
		pointerStart: pointer,
	}
}

// PointerMove advances the active gesture, dispatching a move or resize.
// Positions snap to the grid and clamp to the canvas origin; sizes snap and
// clamp to the widget minimums. A move with no active gesture does nothing.
func (c *Canvas) PointerMove(pointer Point) {
	switch c.active.kind {
	case GestureDragging:
		x := clampMin(snap(pointer.X-c.active.offset.X), 0)
		y := clampMin(snap(pointer.Y-c.active.offset.Y), 0)
		c.store.Dispatch(report.MoveWidget{ID: c.active.widgetID, X: x, Y: y})

	case GestureResizing:
		w := clampMin(snap(c.active.startDims.W+(pointer.X-c.active.pointerStart.X)), MinWidth)
		h := clampMin(snap(c.active.startDims.H+(pointer.Y-c.active.pointerStart.Y)), MinHeight)
		c.store.Dispatch(report.ResizeWidget{ID: c.active.widgetID, W: w, H: h})
	}
}

// PointerUp ends any active gesture. Always returns the machine to Idle so
// a gesture can never leak across events.
func (c *Canvas) PointerUp() {
	c.active = gesture{}
}

// PointerLeave handles the pointer leaving the canvas: same guarantee as
// PointerUp.
func (c *Canvas) PointerLeave() {
	c.active = gesture{}
}

// ClickWidget selects a widget exclusively and dismisses any open menu.
func (c *Canvas) ClickWidget(widgetID string) {
	c.menu = nil
	c.store.Dispatch(report.SelectWidget{ID: widgetID})
}

// ClickBackground deselects and dismisses any open menu.
func (c *Canvas) ClickBackground() {
	c.menu = nil
	c.store.Dispatch(report.SelectWidget{ID: ""})
}

// SecondaryClick opens the context menu for a widget, anchored at the cursor.
func (c *Canvas) SecondaryClick(widgetID string, at Point) {
	if c.store.State().Find(widgetID) == nil {
		return
	}
	c.menu = &ContextMenu{WidgetID: widgetID, At: at}
}

// DismissMenu closes the context menu without invoking anything.
func (c *Canvas) DismissMenu() {
	c.menu = nil
}

// DuplicateFromMenu clones the menu's widget (config, style, and an offset
// position) and closes the menu. The clone becomes the selection.
func (c *Canvas) DuplicateFromMenu() string {
	if c.menu == nil {
		return ""
	}
	src := c.store.State().Find(c.menu.WidgetID)
	c.menu = nil
	if src == nil {
		return ""
	}

	id := c.store.AddWidget(src.Type)
	pos := src.Position
	pos.X += 2 * GridSize
	pos.Y += 2 * GridSize
	data := src.Data
	style := src.Style
	c.store.Dispatch(report.UpdateWidget{ID: id, Patch: report.WidgetPatch{
		Position: &pos,
		Data:     &data,
		Style:    &style,
	}})
	return id
}

// DeleteFromMenu deletes the menu's widget and closes the menu.
func (c *Canvas) DeleteFromMenu() {
	if c.menu == nil {
		return
	}
	id := c.menu.WidgetID
	c.menu = nil
	c.store.Dispatch(report.DeleteWidget{ID: id})
}

// Escape clears the selection. It deliberately does not abort an in-flight
// gesture — only pointer release does that.
func (c *Canvas) Escape() {
	c.store.Dispatch(report.SelectWidget{ID: ""})
}

// DeleteSelected removes the selected widget, if any.
func (c *Canvas) DeleteSelected() {
	s := c.store.State()
	if s.SelectedVisualID == "" {
		return
	}
	c.store.Dispatch(report.DeleteWidget{ID: s.SelectedVisualID})
}

func snap(v float64) float64 {
	return math.Round(v/GridSize) * GridSize
}

func clampMin(v, min float64) float64 {
	if v < min {
		return min
	}
	return v
}
