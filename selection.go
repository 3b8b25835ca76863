package main

import (
	"math"
)

// Selection is the set of selected shape ids.
type Selection struct {
	ids map[string]struct{}
}

func NewSelection() Selection {
	return Selection{ids: make(map[string]struct{})}
}

func (s Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s Selection) Len() int { return len(s.ids) }

func (s Selection) Empty() bool { return len(s.ids) == 0 }

func (s *Selection) Add(id string) {
	if s.ids == nil {
		s.ids = make(map[string]struct{})
	}
	s.ids[id] = struct{}{}
}

func (s *Selection) Remove(id string) {
	delete(s.ids, id)
}

// Only replaces the selection with a single id.
func (s *Selection) Only(id string) {
	s.ids = map[string]struct{}{id: {}}
}

func (s *Selection) Toggle(id string) {
	if s.Has(id) {
		s.Remove(id)
		return
	}
	s.Add(id)
}

func (s *Selection) Clear() {
	s.ids = make(map[string]struct{})
}

// Set replaces the selection with the given ids.
func (s *Selection) Set(ids []string) {
	s.ids = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
}

// IDs returns the selected ids in board paint order.
func (s Selection) IDs(b Board) []string {
	var out []string
	b.Each(func(sh Shape) {
		if s.Has(sh.ShapeID()) {
			out = append(out, sh.ShapeID())
		}
	})
	return out
}

// Copy returns a copy of the underlying id set.
func (s Selection) Copy() map[string]struct{} {
	out := make(map[string]struct{}, len(s.ids))
	for id := range s.ids {
		out[id] = struct{}{}
	}
	return out
}

// Prune drops ids that are no longer on the board.
func (s *Selection) Prune(b Board) {
	for id := range s.ids {
		if !b.Has(id) {
			delete(s.ids, id)
		}
	}
}

// Box is an axis-aligned rectangle in canvas coordinates, X1 <= X2, Y1 <= Y2.
type Box struct {
	X1, Y1, X2, Y2 float64
}

func boxFromPoints(a, b Point) Box {
	return Box{
		X1: math.Min(a.X, b.X),
		Y1: math.Min(a.Y, b.Y),
		X2: math.Max(a.X, b.X),
		Y2: math.Max(a.Y, b.Y),
	}
}

// Overlaps is the strict AABB test; touching edges do not overlap.
func (b Box) Overlaps(o Box) bool {
	return b.X1 < o.X2 && b.X2 > o.X1 && b.Y1 < o.Y2 && b.Y2 > o.Y1
}

func (b Box) Contains(p Point) bool {
	return p.X >= b.X1 && p.X <= b.X2 && p.Y >= b.Y1 && p.Y <= b.Y2
}

func (b Box) Width() float64  { return b.X2 - b.X1 }
func (b Box) Height() float64 { return b.Y2 - b.Y1 }

// Union grows b to cover o.
func (b Box) Union(o Box) Box {
	return Box{
		X1: math.Min(b.X1, o.X1),
		Y1: math.Min(b.Y1, o.Y1),
		X2: math.Max(b.X2, o.X2),
		Y2: math.Max(b.Y2, o.Y2),
	}
}

// Bounds returns the bounding box of a shape. Text extents come from the
// measurer; without one the default 100x20 box is used.
func Bounds(s Shape, m TextMeasurer) Box {
	switch v := s.(type) {
	case Circle:
		return Box{v.X - v.Radius, v.Y - v.Radius, v.X + v.Radius, v.Y + v.Radius}
	case Rect:
		return Box{v.X, v.Y, v.X + v.Width, v.Y + v.Height}
	case Image:
		return Box{v.X, v.Y, v.X + v.Width, v.Y + v.Height}
	case Terminal:
		return Box{v.X, v.Y, v.X + v.Width, v.Y + v.Height}
	case Text:
		w, h := textExtents(m, v)
		return Box{v.X, v.Y, v.X + w, v.Y + h}
	case Line:
		x1, y1, x2, y2 := v.Endpoints()
		return boxFromPoints(Point{x1, y1}, Point{x2, y2})
	}
	return Box{}
}

func textExtents(m TextMeasurer, t Text) (float64, float64) {
	if m == nil {
		return defaultTextWidth, defaultTextHeight
	}
	content := t.Text
	if content == "" {
		content = textPlaceholder
	}
	w, h, ok := m.Measure(content, t.FontSize)
	if !ok {
		return defaultTextWidth, defaultTextHeight
	}
	return w, h
}

// MarqueeHits returns the ids of every shape whose bounds overlap box.
func MarqueeHits(b Board, box Box, m TextMeasurer) []string {
	var hits []string
	b.Each(func(s Shape) {
		if box.Overlaps(Bounds(s, m)) {
			hits = append(hits, s.ShapeID())
		}
	})
	return hits
}

// HitTest returns the top-most shape under p, or "" for empty canvas.
func HitTest(b Board, p Point, m TextMeasurer) string {
	hit := ""
	b.Each(func(s Shape) {
		if shapeContains(s, p, m) {
			hit = s.ShapeID()
		}
	})
	return hit
}

func shapeContains(s Shape, p Point, m TextMeasurer) bool {
	switch v := s.(type) {
	case Circle:
		return math.Hypot(p.X-v.X, p.Y-v.Y) <= v.Radius
	case Line:
		x1, y1, x2, y2 := v.Endpoints()
		tolerance := math.Max(lineHitStrokeWidth, v.StrokeWidth) / 2
		return segmentDistance(p, Point{x1, y1}, Point{x2, y2}) <= tolerance
	default:
		return Bounds(s, m).Contains(p)
	}
}

func segmentDistance(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}
