package main

import "math"

const (
	cellWidth  = 10.0
	cellHeight = 20.0
	minZoom    = 0.25
	maxZoom    = 4.0
	zoomStep   = 1.25
)

func newViewport() viewport {
	return viewport{zoom: 1}
}

func (v viewport) cellW() float64 { return cellWidth / v.zoom }
func (v viewport) cellH() float64 { return cellHeight / v.zoom }

// toCanvas returns the canvas point at the centre of a screen cell.
func (v viewport) toCanvas(col, row int) Point {
	return Point{
		X: v.panX + (float64(col)+0.5)*v.cellW(),
		Y: v.panY + (float64(row)+0.5)*v.cellH(),
	}
}

// toScreen returns the cell containing a canvas point. Far-off points are
// pinned to a bound that keeps cell arithmetic from overflowing.
func (v viewport) toScreen(p Point) (col, row int) {
	return screenCoord((p.X - v.panX) / v.cellW()), screenCoord((p.Y - v.panY) / v.cellH())
}

const screenBound = 1 << 24

func screenCoord(f float64) int {
	return int(math.Max(-screenBound, math.Min(screenBound, math.Floor(f))))
}

func (m *model) handlePan(key string) {
	speed := 1.0
	switch key {
	case "shift+left", "shift+right", "shift+up", "shift+down":
		speed = 2
	}
	dx, dy := m.view.cellW()*4*speed, m.view.cellH()*2*speed
	switch key {
	case "left", "shift+left":
		m.view.panX -= dx
	case "right", "shift+right":
		m.view.panX += dx
	case "up", "shift+up":
		m.view.panY -= dy
	case "down", "shift+down":
		m.view.panY += dy
	}
}

// zoomAt scales the view by f keeping the canvas point under (col, row)
// fixed on screen.
func (m *model) zoomAt(f float64, col, row int) {
	anchor := m.view.toCanvas(col, row)
	m.view.zoom = math.Max(minZoom, math.Min(maxZoom, m.view.zoom*f))
	after := m.view.toCanvas(col, row)
	m.view.panX += anchor.X - after.X
	m.view.panY += anchor.Y - after.Y
}

func (m *model) startPanDrag(col, row int) {
	m.panDrag = &panDrag{col: col, row: row, panX: m.view.panX, panY: m.view.panY}
}

func (m *model) movePanDrag(col, row int) {
	if m.panDrag == nil {
		return
	}
	m.view.panX = m.panDrag.panX - float64(col-m.panDrag.col)*m.view.cellW()
	m.view.panY = m.panDrag.panY - float64(row-m.panDrag.row)*m.view.cellH()
}
