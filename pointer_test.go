package main

import (
	"slices"
	"testing"
)

func TestMarqueeAddsToSelection(t *testing.T) {
	e, _ := newTestEditor(t)
	e.Restore(Board{
		Circles: []Circle{{ID: "circle-a", X: 20, Y: 20, Radius: 5}},
		Rects: []Rect{
			{ID: "rect-b", X: 40, Y: 40, Width: 10, Height: 10},
			{ID: "rect-far", X: 500, Y: 500, Width: 10, Height: 10},
		},
	})
	e.selection.Only("rect-far")

	e.PointerDown("", Point{0, 0}, Modifiers{Shift: true})
	e.PointerMove(Point{60, 60})
	if box, ok := e.Marquee(); !ok || box != (Box{0, 0, 60, 60}) {
		t.Fatalf("expected live marquee, got %+v %v", box, ok)
	}
	e.PointerUp(Point{60, 60})

	if _, ok := e.Marquee(); ok {
		t.Fatalf("expected marquee to end")
	}
	got := e.SelectedIDs()
	want := []string{"rect-b", "rect-far", "circle-a"}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestPlainPressOnCanvasClearsSelection(t *testing.T) {
	e, _ := newTestEditor(t)
	id := e.CreateRect(Point{0, 0})
	e.selection.Only(id)
	e.PointerDown("", Point{900, 900}, Modifiers{})
	e.PointerUp(Point{900, 900})
	if !e.Selection().Empty() {
		t.Fatalf("expected selection cleared")
	}
}

func TestTextModeClickCreatesText(t *testing.T) {
	e, _ := newTestEditor(t)
	press(e, "t")
	e.PointerDown("", Point{30, 40}, Modifiers{})
	texts := e.Board().Texts
	if len(texts) != 1 {
		t.Fatalf("expected one text, got %d", len(texts))
	}
	if texts[0].X != 30 || texts[0].Y != 40 || texts[0].FontSize != defaultTextFontSize || texts[0].Text != "" {
		t.Fatalf("unexpected text %+v", texts[0])
	}
	if e.EditingID() != texts[0].ID {
		t.Fatalf("expected editor opened on the new text")
	}
	e.InsertText("hi")
	press(e, "Escape")
	if e.Board().Texts[0].Text != "hi" {
		t.Fatalf("expected typed text kept")
	}
}

func TestLineModeDragDrawsLine(t *testing.T) {
	e, _ := newTestEditor(t)
	press(e, "l")
	e.PointerDown("", Point{10, 10}, Modifiers{})
	e.PointerMove(Point{50, 30})
	start, end, ok := e.DrawingLine()
	if !ok || start != (Point{10, 10}) || end != (Point{50, 30}) {
		t.Fatalf("unexpected preview %v %v %v", start, end, ok)
	}
	e.PointerUp(Point{60, 40})
	lines := e.Board().Lines
	if len(lines) != 1 || lines[0].Points != [4]float64{10, 10, 60, 40} {
		t.Fatalf("unexpected lines %+v", lines)
	}
	if e.HistoryLen() != 1 {
		t.Fatalf("expected one snapshot, got %d", e.HistoryLen())
	}
}

func TestLineModeClickWithoutDragLeavesNothing(t *testing.T) {
	e, _ := newTestEditor(t)
	press(e, "l")
	e.PointerDown("", Point{10, 10}, Modifiers{})
	e.PointerUp(Point{10, 10})
	if !e.Board().Empty() || e.HistoryLen() != 0 {
		t.Fatalf("expected a zero-length line to be dropped")
	}
}

func TestPointerIgnoredWhilePanning(t *testing.T) {
	e, _ := newTestEditor(t)
	press(e, " ")
	e.PointerDown("", Point{0, 0}, Modifiers{})
	if _, ok := e.Marquee(); ok {
		t.Fatalf("expected no marquee while panning")
	}
}

func TestPressOnShapeSelectsAndGrabs(t *testing.T) {
	e, _ := newTestEditor(t)
	id := e.CreateRect(Point{100, 100})
	e.PointerDown(id, Point{100, 100}, Modifiers{})
	if !e.Selection().Has(id) {
		t.Fatalf("expected press to select")
	}
	e.PointerUp(Point{100, 100})
	if e.Dragging() || e.HistoryLen() != 1 {
		t.Fatalf("expected a click without motion to leave no drag snapshot")
	}
}
