package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// TextMeasurer reports the rendered extents of a text block in canvas units.
// ok is false when the text cannot be measured.
type TextMeasurer interface {
	Measure(text string, fontSize float64) (w, h float64, ok bool)
}

// fontMeasurer measures text with the Go Mono face, the same face the PNG
// exporter draws with, so hit boxes match exported output.
type fontMeasurer struct {
	mu    sync.Mutex
	font  *truetype.Font
	faces map[float64]font.Face
}

func newFontMeasurer() (*fontMeasurer, error) {
	f, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &fontMeasurer{font: f, faces: make(map[float64]font.Face)}, nil
}

func (m *fontMeasurer) face(size float64) font.Face {
	if face, ok := m.faces[size]; ok {
		return face
	}
	face := truetype.NewFace(m.font, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	m.faces[size] = face
	return face
}

func (m *fontMeasurer) Measure(text string, fontSize float64) (float64, float64, bool) {
	if m == nil || fontSize <= 0 {
		return 0, 0, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	face := m.face(fontSize)
	lines := strings.Split(text, "\n")
	width := 0.0
	for _, line := range lines {
		if w := float64(font.MeasureString(face, line).Ceil()); w > width {
			width = w
		}
	}
	return width, fontSize * float64(len(lines)), true
}
