package main

import "time"

type model struct {
	width  int
	height int

	editor   *Editor
	measurer *fontMeasurer
	config   *Config
	store    *KVStore
	saver    *AutoSaver
	metrics  *Metrics

	ui            uiMode
	help          bool
	helpScroll    int
	confirmAction ConfirmAction

	view    viewport
	panDrag *panDrag

	fileList          []string
	selectedFileIndex int

	terminalURL     string
	terminals       map[string]*terminalPane
	focusedTerminal string

	errorMessage   string
	successMessage string
	now            func() time.Time
}

// viewport maps canvas coordinates to terminal cells. At zoom 1 one cell
// covers cellWidth x cellHeight canvas units.
type viewport struct {
	panX, panY float64
	zoom       float64
}

// panDrag is a mouse drag that moves the viewport while space is held.
type panDrag struct {
	col, row   int
	panX, panY float64
}

type boardLoadedMsg struct {
	path  string
	board Board
	err   error
}

type exportedMsg struct {
	path string
	err  error
}
