package main

import "time"

// Mode is the editor's input mode. It decides what a pointer press on the
// canvas does and which single-key shortcuts are live.
type Mode int

const (
	ModeSelect Mode = iota
	ModeLine
	ModeArrow
	ModeText
)

func (m Mode) String() string {
	switch m {
	case ModeSelect:
		return "select"
	case ModeLine:
		return "line"
	case ModeArrow:
		return "arrow"
	case ModeText:
		return "text"
	default:
		return "unknown"
	}
}

// Kind tags the six shape variants.
type Kind int

const (
	KindCircle Kind = iota
	KindRect
	KindLine
	KindText
	KindImage
	KindTerminal
)

func (k Kind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindRect:
		return "rect"
	case KindLine:
		return "line"
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// paintOrder is the order collections are drawn in. Hit testing walks it
// backwards so the last painted shape wins.
var paintOrder = []Kind{KindImage, KindRect, KindText, KindLine, KindCircle, KindTerminal}

// LineType distinguishes plain connectors from arrows.
type LineType string

const (
	LineTypeLine  LineType = "line"
	LineTypeArrow LineType = "arrow"
)

type uiMode int

const (
	uiNormal uiMode = iota
	uiFilePicker
	uiConfirm
	uiTerminalFocus
)

type ConfirmAction int

const (
	ConfirmClear ConfirmAction = iota
	ConfirmQuit
)

const (
	defaultCircleRadius = 37.5
	rectSizeSmall       = 75.0
	rectSizeMedium      = 150.0
	defaultTextFontSize = 20.0
	defaultStrokeWidth  = 2.0
	lineHitStrokeWidth  = 10.0
	pasteOffset         = 20.0
	imageInitialScale   = 2.0

	defaultTerminalWidth    = 600.0
	defaultTerminalHeight   = 400.0
	defaultTerminalFontSize = 14.0

	minShapeSize    = 5.0
	minFontSize     = 12.0
	minTerminalSize = 100.0

	// unmeasured text falls back to this box
	defaultTextWidth  = 100.0
	defaultTextHeight = 20.0

	maxHistorySize = 20
	doubleTapDelay = 400 * time.Millisecond

	defaultStroke     = "black"
	selectionColor    = "#3b82f6"
	textPlaceholder   = "Type..."
	stateKey          = "whiteboard-data"
	terminalService   = "_wboard-term._tcp"
	terminalScrollMax = 500
)

// defaultPointer is used for keyboard creation when no pointer position has
// been reported yet.
var defaultPointer = Point{X: 100, Y: 100}

// palette maps the digit shortcuts to stroke colours. Texts use the same
// entry as their fill.
var palette = map[string]string{
	"1": "black",
	"2": "red",
	"3": "#1d4ed8",
	"4": "#15803d",
	"5": "gray",
	"6": "white",
}
