package main

import "math"

// Node is the live, rendered counterpart of a shape. During a gesture the
// renderer moves and scales nodes directly; the board only learns about it
// when the gesture ends.
type Node interface {
	Position() Point
	SetPosition(Point)
	Scale() (sx, sy float64)
	SetScale(sx, sy float64)
}

// NodeSource resolves the live node for a shape id.
type NodeSource interface {
	Node(id string) (Node, bool)
}

// nodeSyncer is implemented by node sources that can be reset to the model.
type nodeSyncer interface {
	Sync(Board)
}

type liveNode struct {
	pos    Point
	sx, sy float64
}

func (n *liveNode) Position() Point           { return n.pos }
func (n *liveNode) SetPosition(p Point)       { n.pos = p }
func (n *liveNode) Scale() (float64, float64) { return n.sx, n.sy }
func (n *liveNode) SetScale(sx, sy float64)   { n.sx, n.sy = sx, sy }

// nodeTable is the in-process node source used by the terminal renderer and
// by tests.
type nodeTable struct {
	nodes map[string]*liveNode
}

func newNodeTable() *nodeTable {
	return &nodeTable{nodes: make(map[string]*liveNode)}
}

func (t *nodeTable) Node(id string) (Node, bool) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, false
	}
	return n, true
}

// Sync puts every node back at its model position with unit scale and drops
// nodes whose shapes are gone.
func (t *nodeTable) Sync(b Board) {
	seen := make(map[string]struct{}, b.Len())
	b.Each(func(s Shape) {
		id := s.ShapeID()
		seen[id] = struct{}{}
		n, ok := t.nodes[id]
		if !ok {
			n = &liveNode{}
			t.nodes[id] = n
		}
		n.pos = shapePosition(s)
		n.sx, n.sy = 1, 1
	})
	for id := range t.nodes {
		if _, ok := seen[id]; !ok {
			delete(t.nodes, id)
		}
	}
}

type dragState struct {
	id     string
	starts map[string]Point
}

func (e *Editor) syncNodes() {
	if s, ok := e.nodes.(nodeSyncer); ok {
		s.Sync(e.board)
	}
}

func (e *Editor) node(id string) (Node, bool) {
	if e.nodes == nil {
		return nil, false
	}
	return e.nodes.Node(id)
}

func (e *Editor) dragAllowed() bool {
	return e.mode == ModeSelect && !e.panning && e.editingID == ""
}

// DragStart begins moving id and everything selected with it. An unselected
// shape replaces the selection. It reports false when dragging is not
// allowed in the current state.
func (e *Editor) DragStart(id string) bool {
	if !e.dragAllowed() || !e.board.Has(id) {
		return false
	}
	e.saveHistory()
	if !e.selection.Has(id) {
		e.selection.Only(id)
	}
	e.syncNodes()

	starts := make(map[string]Point, e.selection.Len())
	for _, sel := range e.SelectedIDs() {
		if n, ok := e.node(sel); ok {
			starts[sel] = n.Position()
		}
	}
	e.drag = &dragState{id: id, starts: starts}
	return true
}

// DragMove applies the dragged node's offset from its start to every other
// selected node. The board is not touched.
func (e *Editor) DragMove(id string) {
	if e.drag == nil || !e.dragAllowed() {
		return
	}
	n, ok := e.node(id)
	if !ok {
		return
	}
	origin, ok := e.drag.starts[id]
	if !ok {
		return
	}
	pos := n.Position()
	dx, dy := pos.X-origin.X, pos.Y-origin.Y
	for other, start := range e.drag.starts {
		if other == id {
			continue
		}
		if on, ok := e.node(other); ok {
			on.SetPosition(Point{start.X + dx, start.Y + dy})
		}
	}
}

// DragEnd writes the final node positions back into the board.
func (e *Editor) DragEnd(id string) {
	d := e.drag
	e.drag = nil
	if d == nil || !e.dragAllowed() {
		return
	}
	moves := make(map[string]Point, len(d.starts))
	for sel := range d.starts {
		if n, ok := e.node(sel); ok {
			moves[sel] = n.Position()
		}
	}
	e.board.Move(moves)
}

// View returns the board as it should be drawn: during a drag the selected
// shapes sit at their live node positions.
func (e *Editor) View() Board {
	if e.drag == nil {
		return e.board
	}
	b := e.board
	moves := make(map[string]Point, len(e.drag.starts))
	for id := range e.drag.starts {
		if n, ok := e.node(id); ok {
			moves[id] = n.Position()
		}
	}
	b.Move(moves)
	return b
}

// TransformEnd bakes each node's scale into the shape's size and resets the
// node to unit scale. Sizes are clamped to per-kind floors.
func (e *Editor) TransformEnd(ids []string) {
	if len(ids) == 0 {
		return
	}
	e.saveHistory()
	for _, id := range ids {
		n, ok := e.node(id)
		if !ok {
			continue
		}
		sx, sy := n.Scale()
		n.SetScale(1, 1)
		pos := n.Position()
		e.board.Update(id, func(s Shape) Shape {
			return withPosition(scaleShape(s, sx, sy), pos)
		})
	}
}

func scaleShape(s Shape, sx, sy float64) Shape {
	switch v := s.(type) {
	case Rect:
		v.Width = math.Max(minShapeSize, v.Width*sx)
		v.Height = math.Max(minShapeSize, v.Height*sy)
		return v
	case Circle:
		v.Radius = math.Max(minShapeSize, v.Radius*math.Max(sx, sy))
		return v
	case Text:
		v.FontSize = math.Max(minFontSize, v.FontSize*sy)
		return v
	case Image:
		v.Width = math.Max(minShapeSize, v.Width*sx)
		v.Height = math.Max(minShapeSize, v.Height*sy)
		return v
	case Terminal:
		v.Width = math.Max(minTerminalSize, v.Width*sx)
		v.Height = math.Max(minTerminalSize, v.Height*sy)
		return v
	case Line:
		v.Points = [4]float64{v.Points[0] * sx, v.Points[1] * sy, v.Points[2] * sx, v.Points[3] * sy}
		return v
	}
	return s
}

// ScaleSelection resizes every selected shape by f, the keyboard stand-in for
// dragging transform handles.
func (e *Editor) ScaleSelection(f float64) {
	ids := e.SelectedIDs()
	if len(ids) == 0 || !e.dragAllowed() {
		return
	}
	e.syncNodes()
	for _, id := range ids {
		if n, ok := e.node(id); ok {
			n.SetScale(f, f)
		}
	}
	e.TransformEnd(ids)
}
