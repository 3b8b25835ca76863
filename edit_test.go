package main

import "testing"

func TestBeginEditOnlyForLabelledKinds(t *testing.T) {
	e, _ := newTestEditor(t)
	e.Restore(Board{
		Circles:   []Circle{{ID: "circle-a"}},
		Terminals: []Terminal{{ID: "terminal-b"}},
	})
	if e.BeginEdit("terminal-b") || e.BeginEdit("missing") {
		t.Fatalf("expected terminals and unknown ids to be refused")
	}
	if !e.BeginEdit("circle-a") {
		t.Fatalf("expected circle to be editable")
	}
	if e.HistoryLen() != 1 {
		t.Fatalf("expected a snapshot on begin edit")
	}
}

func TestInsertAndBackspace(t *testing.T) {
	e, _ := newTestEditor(t)
	e.Restore(Board{Rects: []Rect{{ID: "rect-a", Text: "hé"}}})
	e.BeginEdit("rect-a")
	e.InsertText("y")
	e.InsertText("\n!")
	if got := e.EditingText(); got != "héy\n!" {
		t.Fatalf("unexpected text %q", got)
	}
	for i := 0; i < 4; i++ {
		e.EditBackspace()
	}
	if got := e.Board().Rects[0].Text; got != "h" {
		t.Fatalf("expected rune-wise backspace, got %q", got)
	}
	e.EditBackspace()
	e.EditBackspace()
	if got := e.Board().Rects[0].Text; got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
	if e.HistoryLen() != 1 {
		t.Fatalf("expected keystrokes not to add snapshots, got %d", e.HistoryLen())
	}
}

func TestEditCallsWithoutEditorAreNoops(t *testing.T) {
	e, _ := newTestEditor(t)
	e.Restore(Board{Texts: []Text{{ID: "text-a", Text: "keep"}}})
	e.InsertText("x")
	e.EditBackspace()
	if e.Board().Texts[0].Text != "keep" {
		t.Fatalf("expected text untouched")
	}
}

func TestUndoClosesEditor(t *testing.T) {
	e, _ := newTestEditor(t)
	e.Restore(Board{Texts: []Text{{ID: "text-a"}}})
	e.BeginEdit("text-a")
	e.InsertText("abc")
	e.Undo()
	if e.EditingID() != "" || e.Board().Texts[0].Text != "" {
		t.Fatalf("expected undo to revert typing and close the editor")
	}
}
