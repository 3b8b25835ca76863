package main

import (
	"slices"

	"github.com/google/uuid"
)

type Point struct {
	X, Y float64
}

// Shape is implemented by the six shape records. The set is closed; code that
// needs per-kind behaviour switches on the concrete type.
type Shape interface {
	ShapeID() string
	Kind() Kind
	isShape()
}

type Circle struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Radius   float64 `json:"radius"`
	Text     string  `json:"text"`
	Stroke   string  `json:"stroke,omitempty"`
	Fill     string  `json:"fill,omitempty"`
	TextFill string  `json:"textFill,omitempty"`
}

type Rect struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Text     string  `json:"text,omitempty"`
	Stroke   string  `json:"stroke,omitempty"`
	Fill     string  `json:"fill,omitempty"`
	TextFill string  `json:"textFill,omitempty"`
}

// Line endpoints are stored relative to (X, Y).
type Line struct {
	ID          string     `json:"id"`
	X           float64    `json:"x"`
	Y           float64    `json:"y"`
	Points      [4]float64 `json:"points"`
	Stroke      string     `json:"stroke"`
	StrokeWidth float64    `json:"strokeWidth"`
	Type        LineType   `json:"type"`
}

type Text struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Text     string  `json:"text"`
	FontSize float64 `json:"fontSize"`
	Fill     string  `json:"fill"`
}

type Image struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Src    string  `json:"src"`
}

type Terminal struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	FontSize float64 `json:"fontSize"`
}

func (c Circle) ShapeID() string   { return c.ID }
func (r Rect) ShapeID() string     { return r.ID }
func (l Line) ShapeID() string     { return l.ID }
func (t Text) ShapeID() string     { return t.ID }
func (i Image) ShapeID() string    { return i.ID }
func (t Terminal) ShapeID() string { return t.ID }

func (Circle) Kind() Kind   { return KindCircle }
func (Rect) Kind() Kind     { return KindRect }
func (Line) Kind() Kind     { return KindLine }
func (Text) Kind() Kind     { return KindText }
func (Image) Kind() Kind    { return KindImage }
func (Terminal) Kind() Kind { return KindTerminal }

func (Circle) isShape()   {}
func (Rect) isShape()     {}
func (Line) isShape()     {}
func (Text) isShape()     {}
func (Image) isShape()    {}
func (Terminal) isShape() {}

// Endpoints returns the absolute endpoints of the line.
func (l Line) Endpoints() (x1, y1, x2, y2 float64) {
	return l.X + l.Points[0], l.Y + l.Points[1], l.X + l.Points[2], l.Y + l.Points[3]
}

func newShapeID(k Kind) string {
	return k.String() + "-" + uuid.NewString()
}

// shapePosition returns the origin of any shape.
func shapePosition(s Shape) Point {
	switch v := s.(type) {
	case Circle:
		return Point{v.X, v.Y}
	case Rect:
		return Point{v.X, v.Y}
	case Line:
		return Point{v.X, v.Y}
	case Text:
		return Point{v.X, v.Y}
	case Image:
		return Point{v.X, v.Y}
	case Terminal:
		return Point{v.X, v.Y}
	}
	return Point{}
}

func withPosition(s Shape, p Point) Shape {
	switch v := s.(type) {
	case Circle:
		v.X, v.Y = p.X, p.Y
		return v
	case Rect:
		v.X, v.Y = p.X, p.Y
		return v
	case Line:
		v.X, v.Y = p.X, p.Y
		return v
	case Text:
		v.X, v.Y = p.X, p.Y
		return v
	case Image:
		v.X, v.Y = p.X, p.Y
		return v
	case Terminal:
		v.X, v.Y = p.X, p.Y
		return v
	}
	return s
}

func withID(s Shape, id string) Shape {
	switch v := s.(type) {
	case Circle:
		v.ID = id
		return v
	case Rect:
		v.ID = id
		return v
	case Line:
		v.ID = id
		return v
	case Text:
		v.ID = id
		return v
	case Image:
		v.ID = id
		return v
	case Terminal:
		v.ID = id
		return v
	}
	return s
}

// Board is the whole shape model: six independent ordered collections.
// Insertion order is paint order within a collection.
//
// Mutating methods never write into a slice that is already published; they
// build a fresh one and swap it in, so snapshots and clipboard copies taken
// earlier can share backing arrays safely.
type Board struct {
	Circles   []Circle   `json:"circles"`
	Lines     []Line     `json:"lines"`
	Rects     []Rect     `json:"rects"`
	Texts     []Text     `json:"texts"`
	Images    []Image    `json:"images"`
	Terminals []Terminal `json:"terminals"`
}

// Clone returns a deep copy. All shape records are plain values, so copying
// each collection is sufficient.
func (b Board) Clone() Board {
	return Board{
		Circles:   slices.Clone(b.Circles),
		Lines:     slices.Clone(b.Lines),
		Rects:     slices.Clone(b.Rects),
		Texts:     slices.Clone(b.Texts),
		Images:    slices.Clone(b.Images),
		Terminals: slices.Clone(b.Terminals),
	}
}

// Equal reports whether both boards hold the same shapes in the same order.
// Nil and empty collections compare equal.
func (b Board) Equal(o Board) bool {
	return slices.Equal(b.Circles, o.Circles) &&
		slices.Equal(b.Lines, o.Lines) &&
		slices.Equal(b.Rects, o.Rects) &&
		slices.Equal(b.Texts, o.Texts) &&
		slices.Equal(b.Images, o.Images) &&
		slices.Equal(b.Terminals, o.Terminals)
}

func (b Board) Len() int {
	return len(b.Circles) + len(b.Lines) + len(b.Rects) + len(b.Texts) + len(b.Images) + len(b.Terminals)
}

func (b Board) Empty() bool { return b.Len() == 0 }

// Count returns the number of shapes of one kind.
func (b Board) Count(k Kind) int {
	switch k {
	case KindCircle:
		return len(b.Circles)
	case KindRect:
		return len(b.Rects)
	case KindLine:
		return len(b.Lines)
	case KindText:
		return len(b.Texts)
	case KindImage:
		return len(b.Images)
	case KindTerminal:
		return len(b.Terminals)
	}
	return 0
}

// Each calls fn for every shape in paint order.
func (b Board) Each(fn func(Shape)) {
	for _, k := range paintOrder {
		b.eachOf(k, fn)
	}
}

func (b Board) eachOf(k Kind, fn func(Shape)) {
	switch k {
	case KindCircle:
		for _, c := range b.Circles {
			fn(c)
		}
	case KindRect:
		for _, r := range b.Rects {
			fn(r)
		}
	case KindLine:
		for _, l := range b.Lines {
			fn(l)
		}
	case KindText:
		for _, t := range b.Texts {
			fn(t)
		}
	case KindImage:
		for _, i := range b.Images {
			fn(i)
		}
	case KindTerminal:
		for _, t := range b.Terminals {
			fn(t)
		}
	}
}

// IDs lists every shape id in paint order.
func (b Board) IDs() []string {
	ids := make([]string, 0, b.Len())
	b.Each(func(s Shape) { ids = append(ids, s.ShapeID()) })
	return ids
}

// Get finds a shape by id in any collection.
func (b Board) Get(id string) (Shape, bool) {
	var found Shape
	b.Each(func(s Shape) {
		if found == nil && s.ShapeID() == id {
			found = s
		}
	})
	return found, found != nil
}

// Lookup resolves the kind of an id.
func (b Board) Lookup(id string) (Kind, bool) {
	s, ok := b.Get(id)
	if !ok {
		return 0, false
	}
	return s.Kind(), true
}

func (b Board) Has(id string) bool {
	_, ok := b.Get(id)
	return ok
}

// Position returns the origin of the shape with the given id.
func (b Board) Position(id string) (Point, bool) {
	s, ok := b.Get(id)
	if !ok {
		return Point{}, false
	}
	return shapePosition(s), true
}

// Append adds a shape to the end of its collection.
func (b *Board) Append(s Shape) {
	switch v := s.(type) {
	case Circle:
		b.Circles = appendFresh(b.Circles, v)
	case Rect:
		b.Rects = appendFresh(b.Rects, v)
	case Line:
		b.Lines = appendFresh(b.Lines, v)
	case Text:
		b.Texts = appendFresh(b.Texts, v)
	case Image:
		b.Images = appendFresh(b.Images, v)
	case Terminal:
		b.Terminals = appendFresh(b.Terminals, v)
	}
}

// Put replaces the shape carrying the same id. Unknown ids are ignored.
func (b *Board) Put(s Shape) {
	switch v := s.(type) {
	case Circle:
		b.Circles = replaceByID(b.Circles, v, func(c Circle) string { return c.ID })
	case Rect:
		b.Rects = replaceByID(b.Rects, v, func(r Rect) string { return r.ID })
	case Line:
		b.Lines = replaceByID(b.Lines, v, func(l Line) string { return l.ID })
	case Text:
		b.Texts = replaceByID(b.Texts, v, func(t Text) string { return t.ID })
	case Image:
		b.Images = replaceByID(b.Images, v, func(i Image) string { return i.ID })
	case Terminal:
		b.Terminals = replaceByID(b.Terminals, v, func(t Terminal) string { return t.ID })
	}
}

// Update applies fn to the shape with the given id and stores the result.
func (b *Board) Update(id string, fn func(Shape) Shape) bool {
	s, ok := b.Get(id)
	if !ok {
		return false
	}
	b.Put(fn(s))
	return true
}

// Delete removes every listed id from all six collections.
func (b *Board) Delete(ids map[string]struct{}) {
	b.Circles = dropIDs(b.Circles, ids, func(c Circle) string { return c.ID })
	b.Lines = dropIDs(b.Lines, ids, func(l Line) string { return l.ID })
	b.Rects = dropIDs(b.Rects, ids, func(r Rect) string { return r.ID })
	b.Texts = dropIDs(b.Texts, ids, func(t Text) string { return t.ID })
	b.Images = dropIDs(b.Images, ids, func(i Image) string { return i.ID })
	b.Terminals = dropIDs(b.Terminals, ids, func(t Terminal) string { return t.ID })
}

// Move writes new origins for a batch of shapes, rebuilding each collection
// at most once.
func (b *Board) Move(positions map[string]Point) {
	if len(positions) == 0 {
		return
	}
	b.Circles = mapSlice(b.Circles, func(c Circle) Circle {
		if p, ok := positions[c.ID]; ok {
			c.X, c.Y = p.X, p.Y
		}
		return c
	})
	b.Lines = mapSlice(b.Lines, func(l Line) Line {
		if p, ok := positions[l.ID]; ok {
			l.X, l.Y = p.X, p.Y
		}
		return l
	})
	b.Rects = mapSlice(b.Rects, func(r Rect) Rect {
		if p, ok := positions[r.ID]; ok {
			r.X, r.Y = p.X, p.Y
		}
		return r
	})
	b.Texts = mapSlice(b.Texts, func(t Text) Text {
		if p, ok := positions[t.ID]; ok {
			t.X, t.Y = p.X, p.Y
		}
		return t
	})
	b.Images = mapSlice(b.Images, func(i Image) Image {
		if p, ok := positions[i.ID]; ok {
			i.X, i.Y = p.X, p.Y
		}
		return i
	})
	b.Terminals = mapSlice(b.Terminals, func(t Terminal) Terminal {
		if p, ok := positions[t.ID]; ok {
			t.X, t.Y = p.X, p.Y
		}
		return t
	})
}

// Subset returns a deep copy of the shapes whose ids are listed.
func (b Board) Subset(ids map[string]struct{}) Board {
	var out Board
	b.Each(func(s Shape) {
		if _, ok := ids[s.ShapeID()]; ok {
			out.Append(s)
		}
	})
	return out
}

// ReplaceAll swaps in a full model, used by undo and load.
func (b *Board) ReplaceAll(next Board) {
	*b = next.Clone()
}

func appendFresh[T any](s []T, v T) []T {
	out := make([]T, len(s), len(s)+1)
	copy(out, s)
	return append(out, v)
}

func replaceByID[T any](s []T, v T, id func(T) string) []T {
	want := id(v)
	idx := slices.IndexFunc(s, func(e T) bool { return id(e) == want })
	if idx < 0 {
		return s
	}
	out := slices.Clone(s)
	out[idx] = v
	return out
}

func dropIDs[T any](s []T, ids map[string]struct{}, id func(T) string) []T {
	if !slices.ContainsFunc(s, func(e T) bool { _, ok := ids[id(e)]; return ok }) {
		return s
	}
	out := make([]T, 0, len(s))
	for _, e := range s {
		if _, ok := ids[id(e)]; !ok {
			out = append(out, e)
		}
	}
	return out
}

func mapSlice[T any](s []T, fn func(T) T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	for i, e := range s {
		out[i] = fn(e)
	}
	return out
}
