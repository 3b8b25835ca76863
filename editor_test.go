package main

import (
	"strings"
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestEditor(t *testing.T) (*Editor, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}
	e := NewEditor(WithClock(clock.Now), withLabels(func() string { return "ab" }))
	return e, clock
}

func press(e *Editor, key string) bool {
	return e.HandleKeyDown(KeyEvent{Key: key})
}

func TestNewEditorDefaults(t *testing.T) {
	e, _ := newTestEditor(t)
	if e.Mode() != ModeSelect {
		t.Fatalf("expected select mode, got %v", e.Mode())
	}
	if !e.Board().Empty() || e.HistoryLen() != 0 || !e.ClipboardEmpty() {
		t.Fatalf("expected a blank editor")
	}
	if _, ok := e.nodes.(*nodeTable); !ok {
		t.Fatalf("expected default node table, got %T", e.nodes)
	}
}

func TestShapeIDsCarryKindPrefix(t *testing.T) {
	e, _ := newTestEditor(t)
	e.SetPointer(Point{10, 10})
	ids := []string{
		e.CreateCircle(Point{0, 0}),
		e.CreateRect(Point{0, 0}),
		e.CreateTerminal(Point{0, 0}),
	}
	for i, prefix := range []string{"circle-", "rect-", "terminal-"} {
		if !strings.HasPrefix(ids[i], prefix) {
			t.Fatalf("expected %s prefix, got %s", prefix, ids[i])
		}
	}
	if ids[0] == e.CreateCircle(Point{}) {
		t.Fatalf("expected unique ids")
	}
}

func TestLoadIsUndoableAndResetsState(t *testing.T) {
	e, _ := newTestEditor(t)
	id := e.CreateCircle(Point{1, 1})
	e.Select(id, Modifiers{})
	press(e, "l")

	loaded := Board{Rects: []Rect{{ID: "rect-x", Width: 10, Height: 10}}}
	e.Load(loaded)
	if !e.Board().Equal(loaded) {
		t.Fatalf("expected loaded board, got %+v", e.Board())
	}
	if e.Mode() != ModeSelect || !e.Selection().Empty() {
		t.Fatalf("expected select mode with no selection")
	}
	e.Undo()
	if len(e.Board().Circles) != 1 || len(e.Board().Rects) != 0 {
		t.Fatalf("expected pre-load board after undo, got %+v", e.Board())
	}
}

func TestRestoreDoesNotTouchHistory(t *testing.T) {
	e, _ := newTestEditor(t)
	e.Restore(Board{Circles: []Circle{{ID: "circle-1", Radius: 5}}})
	if e.HistoryLen() != 0 {
		t.Fatalf("expected empty history, got %d", e.HistoryLen())
	}
	if e.Undo() {
		t.Fatalf("expected nothing to undo")
	}
	if len(e.Board().Circles) != 1 {
		t.Fatalf("expected restored circle to remain")
	}
}

func TestClearAndUndo(t *testing.T) {
	e, _ := newTestEditor(t)
	e.CreateCircle(Point{})
	e.CreateRect(Point{})
	before := e.Board().Clone()
	e.Clear()
	if !e.Board().Empty() {
		t.Fatalf("expected empty board")
	}
	e.Undo()
	if !e.Board().Equal(before) {
		t.Fatalf("expected board restored by undo")
	}
}

func TestSelectClickSemantics(t *testing.T) {
	e, _ := newTestEditor(t)
	a := e.CreateCircle(Point{})
	b := e.CreateRect(Point{200, 200})

	e.Select(a, Modifiers{})
	e.Select(b, Modifiers{Shift: true})
	if e.Selection().Len() != 2 {
		t.Fatalf("expected both selected, got %d", e.Selection().Len())
	}
	// a plain click on a selected shape keeps the group for dragging
	e.Select(a, Modifiers{})
	if e.Selection().Len() != 2 {
		t.Fatalf("expected selection kept, got %d", e.Selection().Len())
	}
	e.Select(b, Modifiers{Ctrl: true})
	if e.Selection().Has(b) || !e.Selection().Has(a) {
		t.Fatalf("expected modifier click to toggle b off")
	}
	e.Select("missing", Modifiers{})
	if e.Selection().Len() != 1 {
		t.Fatalf("expected unknown id to be ignored")
	}
}
