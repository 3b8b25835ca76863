package main

import "math"

// SurfacePoints returns where the straight line between the two centres
// crosses each circle's boundary, so a connector starts and ends outside
// both interiors.
func SurfacePoints(from, to Circle) (start, end Point) {
	angle := math.Atan2(to.Y-from.Y, to.X-from.X)
	cos, sin := math.Cos(angle), math.Sin(angle)
	start = Point{from.X + from.Radius*cos, from.Y + from.Radius*sin}
	end = Point{to.X - to.Radius*cos, to.Y - to.Radius*sin}
	return start, end
}

func (e *Editor) lineType() LineType {
	if e.mode == ModeArrow {
		return LineTypeArrow
	}
	return LineTypeLine
}

// connectClick drives the two-click connector in line and arrow mode. The
// first circle becomes the pending start; the same circle again cancels;
// a different circle commits a connector between their surface points.
func (e *Editor) connectClick(id string) {
	target, ok := e.circle(id)
	if !ok {
		return
	}
	if e.pendingStart == "" {
		e.pendingStart = id
		return
	}
	if e.pendingStart == id {
		e.pendingStart = ""
		return
	}
	if from, ok := e.circle(e.pendingStart); ok {
		start, end := SurfacePoints(from, target)
		e.saveHistory()
		e.addLine(start, end)
	}
	e.pendingStart = ""
}

func (e *Editor) circle(id string) (Circle, bool) {
	s, ok := e.board.Get(id)
	if !ok {
		return Circle{}, false
	}
	c, ok := s.(Circle)
	return c, ok
}

// addLine appends a line of the current mode's type with absolute endpoints.
func (e *Editor) addLine(start, end Point) string {
	return e.create(Line{
		Points:      [4]float64{start.X, start.Y, end.X, end.Y},
		Stroke:      defaultStroke,
		StrokeWidth: defaultStrokeWidth,
		Type:        e.lineType(),
	})
}

func (e *Editor) beginLineDraft(p Point) {
	e.drawing = &lineDraft{Start: p, End: p}
	e.pendingStart = ""
}

// commitLineDraft turns the preview into a line. A press and release on the
// same spot leaves nothing behind.
func (e *Editor) commitLineDraft() string {
	d := e.drawing
	e.drawing = nil
	if d == nil || d.Start == d.End {
		return ""
	}
	e.saveHistory()
	return e.addLine(d.Start, d.End)
}
