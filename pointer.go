package main

// grab tracks a press on a selected shape until the pointer moves far enough
// to become a drag or is released as a plain click.
type grab struct {
	id     string
	origin Point
	start  Point
}

// PointerDown handles a press at canvas point p. target is the shape under
// the pointer as reported by HitTest, or "" for empty canvas.
func (e *Editor) PointerDown(target string, p Point, mods Modifiers) {
	if e.panning || e.editingID != "" {
		return
	}
	e.SetPointer(p)

	if target != "" {
		e.Click(target, mods)
		if e.mode == ModeSelect && e.selection.Has(target) {
			e.syncNodes()
			if n, ok := e.node(target); ok {
				e.grab = &grab{id: target, origin: p, start: n.Position()}
			}
		}
		return
	}

	switch e.mode {
	case ModeText:
		e.createText(p)
	case ModeLine, ModeArrow:
		e.beginLineDraft(p)
	default:
		if !mods.Any() {
			e.selection.Clear()
		}
		e.marquee = &marqueeDraft{Start: p, End: p}
	}
}

// Click handles a click on a shape: connector endpoints in line and arrow
// mode, selection otherwise.
func (e *Editor) Click(id string, mods Modifiers) {
	if e.editingID != "" {
		return
	}
	switch e.mode {
	case ModeLine, ModeArrow:
		e.connectClick(id)
	default:
		e.Select(id, mods)
	}
}

// PointerMove follows the pointer: it extends a line preview or marquee, or
// moves the grabbed node and the rest of the selection with it.
func (e *Editor) PointerMove(p Point) {
	if e.panning {
		return
	}
	e.SetPointer(p)

	switch {
	case e.drawing != nil:
		e.drawing.End = p
	case e.marquee != nil:
		e.marquee.End = p
	case e.grab != nil:
		g := e.grab
		if e.drag == nil && !e.DragStart(g.id) {
			e.grab = nil
			return
		}
		n, ok := e.node(g.id)
		if !ok {
			return
		}
		n.SetPosition(Point{g.start.X + p.X - g.origin.X, g.start.Y + p.Y - g.origin.Y})
		e.DragMove(g.id)
	}
}

// PointerUp finishes whatever gesture is in progress.
func (e *Editor) PointerUp(p Point) {
	if e.panning {
		return
	}
	e.SetPointer(p)

	switch {
	case e.drawing != nil:
		e.drawing.End = p
		e.commitLineDraft()
	case e.marquee != nil:
		e.marquee.End = p
		box := boxFromPoints(e.marquee.Start, e.marquee.End)
		e.marquee = nil
		for _, id := range MarqueeHits(e.board, box, e.measurer) {
			e.selection.Add(id)
		}
	case e.grab != nil:
		if e.drag != nil {
			e.DragEnd(e.grab.id)
		}
	}
	e.grab = nil
}

// createText drops an empty text at p and opens the editor on it.
func (e *Editor) createText(p Point) string {
	e.saveHistory()
	id := e.create(Text{
		X:        p.X,
		Y:        p.Y,
		FontSize: defaultTextFontSize,
		Fill:     defaultStroke,
	})
	e.editingID = id
	return id
}
