package main

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel(t *testing.T) model {
	t.Helper()
	e, _ := newTestEditor(t)
	return model{
		width:     80,
		height:    24,
		editor:    e,
		config:    &Config{SaveDirectory: t.TempDir()},
		view:      newViewport(),
		terminals: make(map[string]*terminalPane),
		now:       func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) },
	}
}

func send(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyEventMapping(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		want KeyEvent
	}{
		{runes("c"), KeyEvent{Key: "c"}},
		{runes("R"), KeyEvent{Key: "R", Shift: true}},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("v"), Alt: true}, KeyEvent{Key: "v", Meta: true}},
		{tea.KeyMsg{Type: tea.KeyCtrlZ}, KeyEvent{Key: "z", Ctrl: true}},
		{tea.KeyMsg{Type: tea.KeyEsc}, KeyEvent{Key: "Escape"}},
		{tea.KeyMsg{Type: tea.KeySpace}, KeyEvent{Key: " "}},
		{tea.KeyMsg{Type: tea.KeyBackspace}, KeyEvent{Key: "Backspace"}},
	}
	for _, tt := range tests {
		got, ok := keyEvent(tt.msg)
		if !ok || got != tt.want {
			t.Fatalf("%v: expected %+v, got %+v (%v)", tt.msg, tt.want, got, ok)
		}
	}
	if _, ok := keyEvent(tea.KeyMsg{Type: tea.KeyF1}); ok {
		t.Fatalf("expected unmapped key to be rejected")
	}
}

func TestTerminalInput(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		want string
	}{
		{runes("ls"), "ls"},
		{tea.KeyMsg{Type: tea.KeyEnter}, "\r"},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, "\x03"},
		{tea.KeyMsg{Type: tea.KeyBackspace}, "\x7f"},
		{tea.KeyMsg{Type: tea.KeyUp}, "\x1b[A"},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b"), Alt: true}, "\x1bb"},
		{tea.KeyMsg{Type: tea.KeyF5}, ""},
	}
	for _, tt := range tests {
		if got := terminalInput(tt.msg); got != tt.want {
			t.Fatalf("%v: expected %q, got %q", tt.msg, tt.want, got)
		}
	}
}

func TestMouseDragThroughUpdate(t *testing.T) {
	m := newTestModel(t)
	m.editor.Restore(Board{Rects: []Rect{{ID: "rect-1", Width: 100, Height: 100}}})

	m = send(t, m, tea.MouseMsg{X: 2, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !m.editor.Selection().Has("rect-1") {
		t.Fatalf("expected press to select the rect")
	}
	m = send(t, m, tea.MouseMsg{X: 5, Y: 3, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = send(t, m, tea.MouseMsg{X: 5, Y: 3, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone})

	r := m.editor.Board().Rects[0]
	if r.X != 30 || r.Y != 40 {
		t.Fatalf("expected rect moved by (30,40), got (%v,%v)", r.X, r.Y)
	}
}

func TestKeyCreatesAtMousePointer(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, tea.MouseMsg{X: 9, Y: 4, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})
	m = send(t, m, runes("c"))
	c := m.editor.Board().Circles
	if len(c) != 1 || c[0].X != 95 || c[0].Y != 90 {
		t.Fatalf("expected circle at the pointer, got %+v", c)
	}
}

func TestSpaceTogglesPanAndMouseDragPans(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if !m.editor.Panning() {
		t.Fatalf("expected panning")
	}
	m = send(t, m, tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = send(t, m, tea.MouseMsg{X: 7, Y: 8, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	if m.view.panX != 30 || m.view.panY != 40 {
		t.Fatalf("unexpected pan %v,%v", m.view.panX, m.view.panY)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if m.editor.Panning() {
		t.Fatalf("expected second space to end panning")
	}
}

func TestZoomKeepsAnchor(t *testing.T) {
	m := newTestModel(t)
	before := m.view.toCanvas(20, 10)
	m.zoomAt(zoomStep, 20, 10)
	after := m.view.toCanvas(20, 10)
	if d := before.X - after.X + before.Y - after.Y; d > 1e-9 || d < -1e-9 {
		t.Fatalf("anchor drifted from %+v to %+v", before, after)
	}
	for i := 0; i < 20; i++ {
		m.zoomAt(zoomStep, 0, 0)
	}
	if m.view.zoom != maxZoom {
		t.Fatalf("expected zoom clamp at %v, got %v", maxZoom, m.view.zoom)
	}
}

func TestEditKeysRouteToEditor(t *testing.T) {
	m := newTestModel(t)
	m.editor.Restore(Board{Rects: []Rect{{ID: "rect-1", Width: 10, Height: 10}}})
	m.editor.selection.Only("rect-1")
	m = send(t, m, runes("e"))
	m = send(t, m, runes("d"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = send(t, m, runes("x"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if got := m.editor.Board().Rects[0].Text; got != "d\n" {
		t.Fatalf("expected typed text, got %q", got)
	}
	if m.editor.EditingID() != "" || len(m.editor.Board().Terminals) != 0 {
		t.Fatalf("expected editor closed and no shortcuts fired")
	}
}

func TestClearNeedsConfirmation(t *testing.T) {
	m := newTestModel(t)
	m.config.Confirmations = true
	m.editor.CreateCircle(Point{})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	if m.ui != uiConfirm || m.editor.Board().Empty() {
		t.Fatalf("expected a confirmation prompt first")
	}
	m = send(t, m, runes("n"))
	if m.ui != uiNormal || m.editor.Board().Empty() {
		t.Fatalf("expected n to cancel")
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	m = send(t, m, runes("y"))
	if !m.editor.Board().Empty() {
		t.Fatalf("expected board cleared")
	}
}

func TestSaveAndOpenThroughHost(t *testing.T) {
	m := newTestModel(t)
	m.editor.CreateRect(Point{50, 50})
	want := m.editor.Board().Clone()
	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if !strings.HasPrefix(m.successMessage, "Saved ") {
		t.Fatalf("expected save message, got %q (%s)", m.successMessage, m.errorMessage)
	}
	if err := os.WriteFile(filepath.Join(m.config.SaveDirectory, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	m.editor.Clear()
	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	if m.ui != uiFilePicker || len(m.fileList) != 1 {
		t.Fatalf("expected picker with one json file, got %v", m.fileList)
	}
	cmd := m.handleFilePicker(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected a load command")
	}
	m = send(t, m, cmd())
	if !m.editor.Board().Equal(want) {
		t.Fatalf("expected saved board back, got %+v", m.editor.Board())
	}
}

func TestBoardLoadErrorKeepsBoard(t *testing.T) {
	m := newTestModel(t)
	m.editor.CreateRect(Point{})
	m = send(t, m, boardLoadedMsg{path: "x.json", err: ErrInvalidDocument})
	if m.errorMessage == "" || len(m.editor.Board().Rects) != 1 {
		t.Fatalf("expected error reported and board kept")
	}
}

func TestImagePastedMsgAddsImage(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, imagePastedMsg{image: Image{Width: 5, Height: 5, Src: "data:image/png;base64,"}})
	if len(m.editor.Board().Images) != 1 || m.editor.HistoryLen() != 1 {
		t.Fatalf("expected one undoable image")
	}
}

func TestSyncTerminalsWithoutBackend(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, runes("x"))
	id := m.editor.Board().Terminals[0].ID
	pane, ok := m.terminals[id]
	if !ok || len(pane.screen.Tail(1)) != 1 {
		t.Fatalf("expected a pane with a notice for %s", id)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlZ})
	if len(m.terminals) != 0 {
		t.Fatalf("expected pane dropped with its shape")
	}
}

func TestFocusTerminalNeedsSession(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, runes("x"))
	id := m.editor.Board().Terminals[0].ID
	m.editor.selection.Only(id)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.ui == uiTerminalFocus || m.errorMessage == "" {
		t.Fatalf("expected focus refused without a session")
	}
}

func TestMultiRuneKeyIsTreatedAsPaste(t *testing.T) {
	m := newTestModel(t)
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(testPNG(t, 40, 20))

	next, cmd := m.Update(runes(uri))
	m = next.(model)
	if cmd == nil {
		t.Fatalf("expected a paste command")
	}
	if len(m.editor.Board().Circles) != 0 || len(m.editor.Board().Rects) != 0 {
		t.Fatalf("pasted runes must not fire shortcuts")
	}
	m = send(t, m, cmd())
	imgs := m.editor.Board().Images
	if len(imgs) != 1 || imgs[0].Width != 20 || imgs[0].Src != uri {
		t.Fatalf("expected the pasted image, got %+v (%s)", imgs, m.errorMessage)
	}
	if m.editor.HistoryLen() != 1 {
		t.Fatalf("expected the paste to be undoable")
	}

	if _, ok := pastedText(runes("c")); ok {
		t.Fatalf("a single rune is a key press, not a paste")
	}
}

func TestShortcutsIgnoredWhilePanning(t *testing.T) {
	m := newTestModel(t)
	m.config.Confirmations = true
	m.editor.CreateCircle(Point{})
	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace})

	m = send(t, m, runes("?"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = send(t, m, runes("]"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	m = send(t, m, runes("d"))
	if m.help || m.view.panX != 0 || m.view.zoom != 1 || m.ui != uiNormal {
		t.Fatalf("expected host shortcuts to be ignored while panning")
	}
	if m.editor.Board().Len() != 1 {
		t.Fatalf("expected the board untouched while panning")
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlQ})
	if m.ui != uiConfirm || m.confirmAction != ConfirmQuit {
		t.Fatalf("expected quit to stay available while panning")
	}
}
