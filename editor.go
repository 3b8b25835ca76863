package main

import (
	"fmt"
	"math/rand"
	"time"
)

// Editor is the whole interactive state of one whiteboard session: the shape
// model, selection, undo history, clipboard, and the mode flags the keyboard
// dispatcher and pointer handlers consult. Every handler reads the fields at
// call time, so there is no captured state to go stale between events.
type Editor struct {
	board     Board
	selection Selection
	history   *History
	clipboard *Board

	mode      Mode
	panning   bool
	editingID string

	pendingStart string
	drawing      *lineDraft
	marquee      *marqueeDraft
	grab         *grab
	drag         *dragState

	pointer   Point
	hasPtr    bool
	lastPress map[string]time.Time

	now      func() time.Time
	label    func() string
	newID    func(Kind) string
	measurer TextMeasurer
	nodes    NodeSource
	metrics  *Metrics
}

type lineDraft struct {
	Start, End Point
}

type marqueeDraft struct {
	Start, End Point
}

// EditorOption configures optional collaborators.
type EditorOption func(*Editor)

func WithClock(now func() time.Time) EditorOption {
	return func(e *Editor) { e.now = now }
}

func WithMeasurer(m TextMeasurer) EditorOption {
	return func(e *Editor) { e.measurer = m }
}

func WithNodes(n NodeSource) EditorOption {
	return func(e *Editor) { e.nodes = n }
}

func WithMetrics(m *Metrics) EditorOption {
	return func(e *Editor) { e.metrics = m }
}

func withLabels(label func() string) EditorOption {
	return func(e *Editor) { e.label = label }
}

func NewEditor(opts ...EditorOption) *Editor {
	e := &Editor{
		selection: NewSelection(),
		history:   NewHistory(maxHistorySize),
		mode:      ModeSelect,
		lastPress: make(map[string]time.Time),
		now:       time.Now,
		label:     randomHex2,
		newID:     newShapeID,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.nodes == nil {
		e.nodes = newNodeTable()
	}
	return e
}

func randomHex2() string {
	return fmt.Sprintf("%02x", rand.Intn(256))
}

// Board returns the current model. Callers must not modify the slices.
func (e *Editor) Board() Board { return e.board }

func (e *Editor) Selection() Selection { return e.selection }

func (e *Editor) SelectedIDs() []string { return e.selection.IDs(e.board) }

func (e *Editor) Mode() Mode { return e.mode }

func (e *Editor) Panning() bool { return e.panning }

func (e *Editor) EditingID() string { return e.editingID }

func (e *Editor) PendingStart() string { return e.pendingStart }

func (e *Editor) HistoryLen() int { return e.history.Len() }

func (e *Editor) ClipboardEmpty() bool { return e.clipboard == nil || e.clipboard.Empty() }

// DrawingLine returns the in-progress drag-drawn line, if any.
func (e *Editor) DrawingLine() (Point, Point, bool) {
	if e.drawing == nil {
		return Point{}, Point{}, false
	}
	return e.drawing.Start, e.drawing.End, true
}

// Marquee returns the in-progress rubber band box, if any.
func (e *Editor) Marquee() (Box, bool) {
	if e.marquee == nil {
		return Box{}, false
	}
	return boxFromPoints(e.marquee.Start, e.marquee.End), true
}

// Dragging reports whether a drag gesture is active.
func (e *Editor) Dragging() bool { return e.drag != nil }

// SetPointer records the latest pointer position in canvas coordinates.
func (e *Editor) SetPointer(p Point) {
	e.pointer = p
	e.hasPtr = true
}

func (e *Editor) pointerOr(def Point) Point {
	if !e.hasPtr {
		return def
	}
	return e.pointer
}

func (e *Editor) saveHistory() {
	e.history.Save(e.board)
	e.metrics.historyDepth(e.history.Len())
}

// Undo restores the previous snapshot. Selection, pending connection, the
// inline editor and any gesture in progress are reset.
func (e *Editor) Undo() bool {
	ok := e.history.Undo(func(b Board) {
		e.board.ReplaceAll(b)
		e.selection.Clear()
		e.pendingStart = ""
		e.editingID = ""
		e.grab = nil
		e.drag = nil
		e.marquee = nil
		e.drawing = nil
		e.syncNodes()
	})
	e.metrics.historyDepth(e.history.Len())
	return ok
}

func (e *Editor) create(s Shape) string {
	id := e.newID(s.Kind())
	e.board.Append(withID(s, id))
	return id
}

// Restore replaces the board without touching history. Used for the state
// read back at startup.
func (e *Editor) Restore(b Board) {
	e.board.ReplaceAll(b)
	e.selection.Prune(e.board)
}

// Load replaces the board with a loaded document. It is undoable.
func (e *Editor) Load(b Board) {
	e.saveHistory()
	e.board.ReplaceAll(b)
	e.selection.Clear()
	e.pendingStart = ""
	e.editingID = ""
	e.mode = ModeSelect
}

// Clear empties the board. It is undoable.
func (e *Editor) Clear() {
	e.saveHistory()
	e.board = Board{}
	e.selection.Clear()
	e.pendingStart = ""
	e.editingID = ""
}

// AddImage places a decoded image on the board and returns its id.
func (e *Editor) AddImage(img Image) string {
	e.saveHistory()
	return e.create(img)
}

// Select handles a click on a shape in select mode. Without modifiers the
// shape becomes the only selection unless it is already selected; with
// shift, ctrl or meta it is toggled.
func (e *Editor) Select(id string, mods Modifiers) {
	if !e.board.Has(id) {
		return
	}
	if !mods.Any() {
		if !e.selection.Has(id) {
			e.selection.Only(id)
		}
		return
	}
	e.selection.Toggle(id)
}
