package main

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type cell struct {
	r     rune
	color string
}

// raster is a screen-sized character grid that shapes are drawn into.
type raster struct {
	w, h  int
	cells [][]cell
	view  viewport
}

func newRaster(w, h int, v viewport) *raster {
	cells := make([][]cell, h)
	for y := range cells {
		cells[y] = make([]cell, w)
		for x := range cells[y] {
			cells[y][x] = cell{r: ' '}
		}
	}
	return &raster{w: w, h: h, cells: cells, view: v}
}

func (r *raster) set(col, row int, ch rune, color string) {
	if row < 0 || row >= r.h || col < 0 || col >= r.w {
		return
	}
	r.cells[row][col] = cell{r: ch, color: color}
}

func (r *raster) text(col, row int, s, color string) {
	for i, ch := range []rune(s) {
		r.set(col+i, row, ch, color)
	}
}

func (r *raster) centred(cx, cy int, s, color string) {
	lines := strings.Split(s, "\n")
	top := cy - len(lines)/2
	for i, line := range lines {
		r.text(cx-len([]rune(line))/2, top+i, line, color)
	}
}

func (r *raster) box(b Box, h, v, corner rune, color string) (c1, r1, c2, r2 int) {
	c1, r1 = r.view.toScreen(Point{b.X1, b.Y1})
	c2, r2 = r.view.toScreen(Point{b.X2, b.Y2})
	if c2 <= c1 {
		c2 = c1 + 1
	}
	if r2 <= r1 {
		r2 = r1 + 1
	}
	lo, hi := max(c1, 0), min(c2, r.w-1)
	for c := lo; c <= hi; c++ {
		r.set(c, r1, h, color)
		r.set(c, r2, h, color)
	}
	lo, hi = max(r1, 0), min(r2, r.h-1)
	for row := lo; row <= hi; row++ {
		r.set(c1, row, v, color)
		r.set(c2, row, v, color)
	}
	r.set(c1, r1, corner, color)
	r.set(c2, r1, corner, color)
	r.set(c1, r2, corner, color)
	r.set(c2, r2, corner, color)
	return c1, r1, c2, r2
}

func (r *raster) fill(c1, r1, c2, r2 int, ch rune, color string) {
	for row := max(r1, 0); row <= min(r2, r.h-1); row++ {
		for c := max(c1, 0); c <= min(c2, r.w-1); c++ {
			r.set(c, row, ch, color)
		}
	}
}

// line draws a segment with a stepping DDA, picking the glyph by slope. Only
// the steps that land on or next to the raster are walked.
func (r *raster) line(a, b Point, color string) {
	c1, r1 := r.view.toScreen(a)
	c2, r2 := r.view.toScreen(b)
	dc, dr := c2-c1, r2-r1
	steps := max(abs(dc), abs(dr))
	if steps == 0 {
		r.set(c1, r1, '·', color)
		return
	}
	t0, t1, ok := clipSegment(float64(c1), float64(r1), float64(dc), float64(dr), float64(r.w), float64(r.h))
	if !ok {
		return
	}
	ch := lineGlyph(b.X-a.X, b.Y-a.Y, r.view)
	first := max(int(math.Floor(t0*float64(steps))), 0)
	last := min(int(math.Ceil(t1*float64(steps))), steps)
	for i := first; i <= last; i++ {
		t := float64(i) / float64(steps)
		r.set(c1+int(math.Round(t*float64(dc))), r1+int(math.Round(t*float64(dr))), ch, color)
	}
}

// clipSegment returns the parameter range of x+t*dx, y+t*dy (t in [0,1])
// inside [-1,w]x[-1,h] (Liang-Barsky).
func clipSegment(x, y, dx, dy, w, h float64) (t0, t1 float64, ok bool) {
	t0, t1 = 0, 1
	edges := [4][2]float64{
		{-dx, x + 1},
		{dx, w - x},
		{-dy, y + 1},
		{dy, h - y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			t0 = math.Max(t0, t)
		} else {
			t1 = math.Min(t1, t)
		}
		if t0 > t1 {
			return 0, 0, false
		}
	}
	return t0, t1, true
}

func lineGlyph(dx, dy float64, v viewport) rune {
	// compare slope in screen cells, not canvas units
	sx, sy := dx/v.cellW(), dy/v.cellH()
	switch {
	case math.Abs(sy) < math.Abs(sx)/2:
		return '─'
	case math.Abs(sx) < math.Abs(sy)/2:
		return '│'
	case (sx > 0) == (sy > 0):
		return '\\'
	default:
		return '/'
	}
}

func arrowGlyph(dx, dy float64, v viewport) rune {
	sx, sy := dx/v.cellW(), dy/v.cellH()
	if math.Abs(sx) >= math.Abs(sy) {
		if sx >= 0 {
			return '▶'
		}
		return '◀'
	}
	if sy >= 0 {
		return '▼'
	}
	return '▲'
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// circle plots every cell whose centre lies within half a cell of the rim.
func (r *raster) circle(c Circle, color string) {
	b := Bounds(c, nil)
	c1, r1 := r.view.toScreen(Point{b.X1, b.Y1})
	c2, r2 := r.view.toScreen(Point{b.X2, b.Y2})
	tol := math.Max(r.view.cellW(), r.view.cellH()) / 2
	for row := max(r1, 0); row <= min(r2, r.h-1); row++ {
		for col := max(c1, 0); col <= min(c2, r.w-1); col++ {
			p := r.view.toCanvas(col, row)
			d := math.Hypot(p.X-c.X, p.Y-c.Y)
			if math.Abs(d-c.Radius) <= tol {
				r.set(col, row, '●', color)
			}
		}
	}
}

type renderState struct {
	selection Selection
	pending   string
	editing   string
	terminals map[string]*terminalPane
	focused   string
}

func strokeColor(s string, selected bool) string {
	if selected {
		return selectionColor
	}
	return colorHex(s)
}

func (r *raster) shape(s Shape, st renderState) {
	selected := st.selection.Has(s.ShapeID())
	switch v := s.(type) {
	case Circle:
		color := strokeColor(v.Stroke, selected)
		if st.pending == v.ID {
			color = "#f59e0b"
		}
		r.circle(v, color)
		col, row := r.view.toScreen(Point{v.X, v.Y})
		label := v.Text
		if st.editing == v.ID {
			label += "█"
		}
		r.centred(col, row, label, colorHex(v.TextFill))
	case Rect:
		c1, r1, c2, r2 := r.box(Bounds(v, nil), '─', '│', '+', strokeColor(v.Stroke, selected))
		if selected {
			r.box(Bounds(v, nil), '═', '║', '#', selectionColor)
		}
		label := v.Text
		if st.editing == v.ID {
			label += "█"
		}
		r.centred((c1+c2)/2, (r1+r2)/2, label, colorHex(v.TextFill))
	case Line:
		x1, y1, x2, y2 := v.Endpoints()
		color := strokeColor(v.Stroke, selected)
		r.line(Point{x1, y1}, Point{x2, y2}, color)
		if v.Type == LineTypeArrow {
			col, row := r.view.toScreen(Point{x2, y2})
			r.set(col, row, arrowGlyph(x2-x1, y2-y1, r.view), color)
		}
	case Text:
		col, row := r.view.toScreen(Point{v.X, v.Y})
		content := v.Text
		color := colorHex(v.Fill)
		if st.editing == v.ID {
			content += "█"
		} else if content == "" {
			content, color = textPlaceholder, "#9ca3af"
		}
		if selected {
			color = selectionColor
		}
		for i, line := range strings.Split(content, "\n") {
			r.text(col, row+i, line, color)
		}
	case Image:
		c1, r1, c2, r2 := r.box(Bounds(v, nil), '─', '│', '+', strokeColor("gray", selected))
		r.fill(c1+1, r1+1, c2-1, r2-1, '░', "#6b7280")
		r.centred((c1+c2)/2, (r1+r2)/2, "image", strokeColor("gray", selected))
	case Terminal:
		color := strokeColor("gray", selected)
		if st.focused == v.ID {
			color = "#22c55e"
		}
		c1, r1, c2, r2 := r.box(Bounds(v, nil), '═', '║', '#', color)
		r.fill(c1+1, r1+1, c2-1, r2-1, ' ', "")
		r.text(c1+2, r1, " terminal ", color)
		if pane, ok := st.terminals[v.ID]; ok {
			rows := r2 - r1 - 1
			width := c2 - c1 - 1
			for i, line := range pane.screen.Tail(rows) {
				runes := []rune(line)
				if len(runes) > width && width > 0 {
					runes = runes[:width]
				}
				r.text(c1+1, r1+1+i, string(runes), "#e5e7eb")
			}
		}
	}
}

// String renders the grid, colouring runs of equal colour with lipgloss.
func (r *raster) String() string {
	var out strings.Builder
	for y, row := range r.cells {
		if y > 0 {
			out.WriteByte('\n')
		}
		var run strings.Builder
		color := ""
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if color == "" {
				out.WriteString(run.String())
			} else {
				out.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(run.String()))
			}
			run.Reset()
		}
		for _, c := range row {
			if c.color != color {
				flush()
				color = c.color
			}
			run.WriteRune(c.r)
		}
		flush()
	}
	return out.String()
}

// renderCanvas draws the board plus any in-progress gesture.
func (m model) renderCanvas(w, h int) string {
	r := newRaster(w, h, m.view)
	st := renderState{
		selection: m.editor.Selection(),
		pending:   m.editor.PendingStart(),
		editing:   m.editor.EditingID(),
		terminals: m.terminals,
		focused:   m.focusedTerminal,
	}
	m.editor.View().Each(func(s Shape) { r.shape(s, st) })

	if start, end, ok := m.editor.DrawingLine(); ok {
		r.line(start, end, selectionColor)
	}
	if box, ok := m.editor.Marquee(); ok {
		r.box(box, '┄', '┆', '+', selectionColor)
	}
	return r.String()
}
