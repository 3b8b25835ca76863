package main

import (
	"math"
	"sort"
	"strings"
)

// KeyEvent is a host-neutral key press. Key is the printable character for
// letters and digits (either case), " " for space, or one of Escape,
// Backspace, Delete, Enter.
type KeyEvent struct {
	Key    string
	Ctrl   bool
	Meta   bool
	Shift  bool
	Repeat bool
}

// Modifiers are the modifier keys held during a pointer event.
type Modifiers struct {
	Shift, Ctrl, Meta bool
}

func (m Modifiers) Any() bool { return m.Shift || m.Ctrl || m.Meta }

func (k KeyEvent) command() bool { return k.Ctrl || k.Meta }

func (k KeyEvent) is(name string) bool {
	return strings.EqualFold(k.Key, name)
}

// HandleKeyDown routes a key press. It reports whether the key was consumed.
func (e *Editor) HandleKeyDown(k KeyEvent) bool {
	if e.editingID != "" {
		if k.Key == "Escape" {
			e.StopEditing()
			return true
		}
		return false
	}

	if k.Key == " " {
		if !k.Repeat {
			e.panning = true
			e.metrics.command("pan")
		}
		return true
	}
	if e.panning {
		return false
	}

	if k.command() {
		switch {
		case k.is("z"):
			e.Undo()
			e.metrics.command("undo")
			return true
		case k.is("c"):
			e.Copy()
			e.metrics.command("copy")
			return true
		case k.is("v"):
			e.Paste()
			e.metrics.command("paste")
			return true
		}
		return false
	}

	if color, ok := palette[k.Key]; ok {
		if e.selection.Empty() {
			return false
		}
		e.Recolor(color)
		e.metrics.command("recolor")
		return true
	}

	switch {
	case k.is("l"):
		e.cycleLineMode()
		e.metrics.command("mode")
		return true
	case k.is("t"):
		if e.mode == ModeText {
			e.mode = ModeSelect
		} else {
			e.mode = ModeText
		}
		e.selection.Clear()
		e.pendingStart = ""
		e.metrics.command("mode")
		return true
	case k.Key == "Escape":
		e.mode = ModeSelect
		e.pendingStart = ""
		e.drawing = nil
		e.metrics.command("escape")
		return true
	}

	if e.mode != ModeSelect {
		return false
	}

	switch {
	case k.is("c"):
		if e.doubleTap("c") {
			e.clearLastCircleLabel()
		} else {
			e.CreateCircle(e.pointerOr(defaultPointer))
		}
		e.metrics.command("circle")
	case k.is("r"):
		if e.doubleTap("r") {
			e.growLastRect()
		} else {
			e.CreateRect(e.pointerOr(defaultPointer))
		}
		e.metrics.command("rect")
	case k.is("d"), k.Key == "Backspace", k.Key == "Delete":
		e.DeleteSelected()
		e.metrics.command("delete")
	case k.is("a"):
		e.AlignLeft()
		e.metrics.command("align")
	case k.is("q"):
		e.DistributeVertically()
		e.metrics.command("distribute")
	case k.is("x"):
		e.CreateTerminal(e.pointerOr(defaultPointer))
		e.metrics.command("terminal")
	case k.is("e"), k.Key == "Enter":
		ids := e.SelectedIDs()
		if len(ids) != 1 || !e.BeginEdit(ids[0]) {
			return false
		}
		e.metrics.command("edit")
	default:
		return false
	}
	return true
}

// HandleKeyUp only matters for space, which ends panning.
func (e *Editor) HandleKeyUp(k KeyEvent) {
	if k.Key == " " {
		e.panning = false
	}
}

// doubleTap records the press time for key and reports whether the previous
// press happened within the double-tap window.
func (e *Editor) doubleTap(key string) bool {
	now := e.now()
	last, seen := e.lastPress[key]
	e.lastPress[key] = now
	return seen && now.Sub(last) < doubleTapDelay
}

func (e *Editor) cycleLineMode() {
	switch e.mode {
	case ModeSelect:
		e.mode = ModeLine
	case ModeLine:
		e.mode = ModeArrow
	default:
		e.mode = ModeSelect
	}
	e.selection.Clear()
	e.pendingStart = ""
}

// CreateCircle adds a default circle centred at p with a random label.
func (e *Editor) CreateCircle(p Point) string {
	e.saveHistory()
	return e.create(Circle{
		X:      p.X,
		Y:      p.Y,
		Radius: defaultCircleRadius,
		Text:   e.label(),
		Stroke: defaultStroke,
	})
}

// CreateRect adds a default square centred on p.
func (e *Editor) CreateRect(p Point) string {
	e.saveHistory()
	return e.create(Rect{
		X:      p.X - rectSizeSmall/2,
		Y:      p.Y - rectSizeSmall/2,
		Width:  rectSizeSmall,
		Height: rectSizeSmall,
		Stroke: defaultStroke,
	})
}

// CreateTerminal adds a terminal shape with its top-left corner at p.
func (e *Editor) CreateTerminal(p Point) string {
	e.saveHistory()
	return e.create(Terminal{
		X:        p.X,
		Y:        p.Y,
		Width:    defaultTerminalWidth,
		Height:   defaultTerminalHeight,
		FontSize: defaultTerminalFontSize,
	})
}

func (e *Editor) clearLastCircleLabel() {
	n := len(e.board.Circles)
	if n == 0 {
		return
	}
	last := e.board.Circles[n-1]
	last.Text = ""
	e.board.Put(last)
}

// growLastRect walks the most recent rect through 75x75 -> 150x75 -> 150x150.
// Any other size is left alone.
func (e *Editor) growLastRect() {
	n := len(e.board.Rects)
	if n == 0 {
		return
	}
	last := e.board.Rects[n-1]
	switch {
	case last.Width == rectSizeSmall && last.Height == rectSizeSmall:
		last.Width = rectSizeMedium
	case last.Width == rectSizeMedium && last.Height == rectSizeSmall:
		last.Height = rectSizeMedium
	default:
		return
	}
	e.board.Put(last)
}

// Copy snapshots the selected shapes into the clipboard.
func (e *Editor) Copy() {
	if e.selection.Empty() {
		return
	}
	clip := e.board.Subset(e.selection.Copy())
	e.clipboard = &clip
}

// Paste appends offset clones of the clipboard with fresh ids and selects
// exactly the clones.
func (e *Editor) Paste() []string {
	if e.ClipboardEmpty() {
		return nil
	}
	e.saveHistory()
	var ids []string
	e.clipboard.Each(func(s Shape) {
		p := shapePosition(s)
		clone := withPosition(s, Point{p.X + pasteOffset, p.Y + pasteOffset})
		ids = append(ids, e.create(clone))
	})
	e.selection.Set(ids)
	return ids
}

// Recolor sets the stroke of selected circles, rects and lines and the fill
// of selected texts.
func (e *Editor) Recolor(color string) {
	if e.selection.Empty() {
		return
	}
	e.saveHistory()
	for _, id := range e.SelectedIDs() {
		e.board.Update(id, func(s Shape) Shape {
			switch v := s.(type) {
			case Circle:
				v.Stroke = color
				return v
			case Rect:
				v.Stroke = color
				return v
			case Line:
				v.Stroke = color
				return v
			case Text:
				v.Fill = color
				return v
			}
			return s
		})
	}
}

// DeleteSelected removes every selected shape and clears the selection.
func (e *Editor) DeleteSelected() {
	if e.selection.Empty() {
		return
	}
	e.saveHistory()
	e.board.Delete(e.selection.Copy())
	e.selection.Clear()
}

// AlignLeft moves every selected shape to the smallest selected x. Needs at
// least two shapes.
func (e *Editor) AlignLeft() {
	ids := e.SelectedIDs()
	if len(ids) < 2 {
		return
	}
	minX := math.Inf(1)
	for _, id := range ids {
		p, _ := e.board.Position(id)
		minX = math.Min(minX, p.X)
	}
	e.saveHistory()
	moves := make(map[string]Point, len(ids))
	for _, id := range ids {
		p, _ := e.board.Position(id)
		moves[id] = Point{minX, p.Y}
	}
	e.board.Move(moves)
}

// DistributeVertically spaces the selected shapes evenly between the lowest
// and highest y, keeping their y order. Needs at least three shapes.
func (e *Editor) DistributeVertically() {
	ids := e.SelectedIDs()
	if len(ids) < 3 {
		return
	}
	type item struct {
		id string
		p  Point
	}
	items := make([]item, 0, len(ids))
	for _, id := range ids {
		p, _ := e.board.Position(id)
		items = append(items, item{id, p})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].p.Y < items[j].p.Y })

	e.saveHistory()
	minY := items[0].p.Y
	interval := (items[len(items)-1].p.Y - minY) / float64(len(items)-1)
	moves := make(map[string]Point, len(items))
	for i, it := range items {
		moves[it.id] = Point{it.p.X, minY + interval*float64(i)}
	}
	e.board.Move(moves)
}
