package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	scaleUpFactor   = 1.25
	scaleDownFactor = 0.8
)

func (m model) Init() tea.Cmd {
	if m.config.DiscoverTerminal {
		return discoverTerminalCmd()
	}
	return nil
}

// Update is the single place the board changes. Every message is applied
// to the editor first, then the store, metrics and terminal sessions catch
// up with the result.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	return m, tea.Batch(cmd, m.afterUpdate())
}

func (m *model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return nil

	case imagePastedMsg:
		if msg.err != nil {
			m.errorMessage = msg.err.Error()
			return nil
		}
		m.editor.AddImage(msg.image)
		m.successMessage = "Image pasted"
		return nil

	case boardLoadedMsg:
		if msg.err != nil {
			log.Printf("load: %v", msg.err)
			m.errorMessage = msg.err.Error()
			return nil
		}
		m.editor.Load(msg.board)
		m.successMessage = "Loaded " + filepath.Base(msg.path)
		return nil

	case exportedMsg:
		if msg.err != nil {
			m.errorMessage = msg.err.Error()
			return nil
		}
		m.successMessage = "Exported " + msg.path
		return nil

	case terminalURLMsg:
		if msg.err != nil {
			log.Printf("terminal discovery: %v", msg.err)
			return nil
		}
		m.terminalURL = msg.url
		return nil

	case terminalDialedMsg:
		pane, ok := m.terminals[msg.id]
		if !ok {
			if msg.session != nil {
				_ = msg.session.Close()
			}
			return nil
		}
		if msg.err != nil {
			pane.screen.notice(msg.err.Error())
			return nil
		}
		pane.session = msg.session
		return msg.session.next()

	case terminalOutputMsg:
		pane, ok := m.terminals[msg.id]
		if !ok {
			return nil
		}
		pane.screen.writeString(msg.data)
		return pane.session.next()

	case terminalClosedMsg:
		pane, ok := m.terminals[msg.id]
		if !ok {
			return nil
		}
		if msg.err != nil {
			pane.screen.notice(msg.err.Error())
		}
		pane.screen.notice(connectionClosed)
		if m.focusedTerminal == msg.id {
			m.focusedTerminal = ""
			m.ui = uiNormal
		}
		return nil
	}
	return nil
}

// afterUpdate persists the board and reconciles terminal sessions.
func (m *model) afterUpdate() tea.Cmd {
	b := m.editor.Board()
	m.metrics.ObserveBoard(b)
	if err := m.saver.Observe(context.Background(), b); err != nil {
		log.Printf("autosave: %v", err)
		m.errorMessage = err.Error()
	}
	return m.syncTerminals(b)
}

func (m *model) syncTerminals(b Board) tea.Cmd {
	var cmds []tea.Cmd
	live := make(map[string]struct{}, len(b.Terminals))
	for _, t := range b.Terminals {
		live[t.ID] = struct{}{}
		rows, cols := terminalGrid(t)
		pane, ok := m.terminals[t.ID]
		if !ok {
			pane = &terminalPane{screen: &terminalScreen{}}
			m.terminals[t.ID] = pane
			if m.terminalURL == "" {
				pane.screen.notice("no terminal backend configured")
				continue
			}
			cmds = append(cmds, dialTerminalCmd(m.terminalURL, t.ID, rows, cols))
			continue
		}
		if pane.session != nil {
			if err := pane.session.Resize(rows, cols); err != nil {
				log.Printf("terminal %s: %v", t.ID, err)
			}
		}
	}
	for id, pane := range m.terminals {
		if _, ok := live[id]; ok {
			continue
		}
		if pane.session != nil {
			_ = pane.session.Close()
		}
		delete(m.terminals, id)
		if m.focusedTerminal == id {
			m.focusedTerminal = ""
			m.ui = uiNormal
		}
	}
	return tea.Batch(cmds...)
}

func (m *model) closeTerminals() {
	for id, pane := range m.terminals {
		if pane.session != nil {
			_ = pane.session.Close()
		}
		delete(m.terminals, id)
	}
}

// keyEvent translates a bubbletea key into the editor's key vocabulary.
// pastedText reports the text of a key message that carries more than one
// rune, which is how a paste reaches the program.
func pastedText(msg tea.KeyMsg) (string, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) < 2 {
		return "", false
	}
	return string(msg.Runes), true
}

func keyEvent(msg tea.KeyMsg) (KeyEvent, bool) {
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return KeyEvent{}, false
		}
		r := msg.Runes[0]
		return KeyEvent{Key: string(r), Meta: msg.Alt, Shift: r >= 'A' && r <= 'Z'}, true
	case tea.KeySpace:
		return KeyEvent{Key: " "}, true
	case tea.KeyEsc:
		return KeyEvent{Key: "Escape"}, true
	case tea.KeyBackspace:
		return KeyEvent{Key: "Backspace"}, true
	case tea.KeyDelete:
		return KeyEvent{Key: "Delete"}, true
	case tea.KeyEnter:
		return KeyEvent{Key: "Enter"}, true
	case tea.KeyCtrlZ:
		return KeyEvent{Key: "z", Ctrl: true}, true
	case tea.KeyCtrlC:
		return KeyEvent{Key: "c", Ctrl: true}, true
	case tea.KeyCtrlV:
		return KeyEvent{Key: "v", Ctrl: true}, true
	}
	return KeyEvent{}, false
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	m.errorMessage = ""
	m.successMessage = ""

	if m.help {
		switch msg.String() {
		case "j", "down":
			m.helpScroll++
		case "k", "up":
			if m.helpScroll > 0 {
				m.helpScroll--
			}
		default:
			m.help = false
			m.helpScroll = 0
		}
		return nil
	}

	switch m.ui {
	case uiConfirm:
		return m.handleConfirm(msg)
	case uiFilePicker:
		return m.handleFilePicker(msg)
	case uiTerminalFocus:
		return m.handleTerminalKey(msg)
	}

	if m.editor.EditingID() != "" {
		m.handleEditKey(msg)
		return nil
	}

	// Pasted text arrives as one message with many runes: a data URI or an
	// image path.
	if text, ok := pastedText(msg); ok {
		return pastedTextCmd(text)
	}

	if m.editor.Panning() {
		switch {
		case msg.Type == tea.KeySpace:
			// Terminals report no key release; the second press ends the pan.
			m.editor.HandleKeyUp(KeyEvent{Key: " "})
			m.panDrag = nil
		case msg.String() == "ctrl+q":
			return m.confirm(ConfirmQuit)
		}
		return nil
	}

	switch msg.String() {
	case "ctrl+q":
		return m.confirm(ConfirmQuit)
	case "ctrl+s":
		m.saveFile()
		return nil
	case "ctrl+o":
		m.openFilePicker()
		return nil
	case "ctrl+n":
		return m.confirm(ConfirmClear)
	case "ctrl+e":
		return m.exportCmd("png")
	case "ctrl+p":
		return m.exportCmd("pdf")
	case "?":
		m.help = true
		return nil
	case "left", "right", "up", "down", "shift+left", "shift+right", "shift+up", "shift+down":
		m.handlePan(msg.String())
		return nil
	case "[":
		m.zoomAt(1/zoomStep, m.width/2, m.height/2)
		return nil
	case "]":
		m.zoomAt(zoomStep, m.width/2, m.height/2)
		return nil
	}

	if !m.editor.Panning() && m.editor.Mode() == ModeSelect {
		switch msg.String() {
		case "p", "P":
			return pasteImageCmd()
		case "+", "=":
			m.editor.ScaleSelection(scaleUpFactor)
			return nil
		case "-":
			m.editor.ScaleSelection(scaleDownFactor)
			return nil
		case "enter":
			if id, ok := m.selectedTerminal(); ok {
				m.focusTerminal(id)
				return nil
			}
		}
	}

	if k, ok := keyEvent(msg); ok {
		m.editor.HandleKeyDown(k)
	}
	return nil
}

func (m *model) handleEditKey(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEsc:
		m.editor.HandleKeyDown(KeyEvent{Key: "Escape"})
	case tea.KeyEnter:
		m.editor.InsertText("\n")
	case tea.KeyBackspace:
		m.editor.EditBackspace()
	case tea.KeySpace:
		m.editor.InsertText(" ")
	case tea.KeyRunes:
		m.editor.InsertText(string(msg.Runes))
	}
}

func (m *model) selectedTerminal() (string, bool) {
	ids := m.editor.SelectedIDs()
	if len(ids) != 1 {
		return "", false
	}
	if k, ok := m.editor.Board().Lookup(ids[0]); ok && k == KindTerminal {
		return ids[0], true
	}
	return "", false
}

func (m *model) focusTerminal(id string) {
	pane, ok := m.terminals[id]
	if !ok || pane.session == nil {
		m.errorMessage = "terminal is not connected"
		return
	}
	m.focusedTerminal = id
	m.ui = uiTerminalFocus
}

// terminalInput maps a key to the bytes a terminal expects.
func terminalInput(msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyRunes:
		if msg.Alt {
			return "\x1b" + string(msg.Runes)
		}
		return string(msg.Runes)
	case tea.KeySpace:
		return " "
	case tea.KeyUp:
		return "\x1b[A"
	case tea.KeyDown:
		return "\x1b[B"
	case tea.KeyRight:
		return "\x1b[C"
	case tea.KeyLeft:
		return "\x1b[D"
	case tea.KeyHome:
		return "\x1b[H"
	case tea.KeyEnd:
		return "\x1b[F"
	case tea.KeyDelete:
		return "\x1b[3~"
	}
	if msg.Type >= 0 && (msg.Type < 32 || msg.Type == 127) {
		return string(rune(msg.Type))
	}
	return ""
}

func (m *model) handleTerminalKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+]" {
		m.focusedTerminal = ""
		m.ui = uiNormal
		return nil
	}
	pane, ok := m.terminals[m.focusedTerminal]
	if !ok || pane.session == nil {
		m.focusedTerminal = ""
		m.ui = uiNormal
		return nil
	}
	data := terminalInput(msg)
	if data == "" {
		return nil
	}
	if err := pane.session.Send(data); err != nil {
		pane.screen.notice(err.Error())
	}
	return nil
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	if m.ui != uiNormal || m.help {
		return
	}
	p := m.view.toCanvas(msg.X, msg.Y)
	mods := Modifiers{Shift: msg.Shift, Ctrl: msg.Ctrl, Meta: msg.Alt}

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.zoomAt(zoomStep, msg.X, msg.Y)
		return
	case msg.Button == tea.MouseButtonWheelDown:
		m.zoomAt(1/zoomStep, msg.X, msg.Y)
		return
	}

	if m.editor.Panning() {
		switch msg.Action {
		case tea.MouseActionPress:
			m.startPanDrag(msg.X, msg.Y)
		case tea.MouseActionMotion:
			m.movePanDrag(msg.X, msg.Y)
		case tea.MouseActionRelease:
			m.panDrag = nil
		}
		return
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		if m.editor.EditingID() != "" {
			m.editor.StopEditing()
		}
		target := HitTest(m.editor.View(), p, m.measurer)
		m.editor.PointerDown(target, p, mods)
	case tea.MouseActionMotion:
		m.editor.PointerMove(p)
	case tea.MouseActionRelease:
		m.editor.PointerUp(p)
	}
}

func (m *model) confirm(action ConfirmAction) tea.Cmd {
	if !m.config.Confirmations {
		return m.runConfirmed(action)
	}
	m.confirmAction = action
	m.ui = uiConfirm
	return nil
}

func (m *model) handleConfirm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		m.ui = uiNormal
		return m.runConfirmed(m.confirmAction)
	case "n", "N", "esc":
		m.ui = uiNormal
	}
	return nil
}

func (m *model) runConfirmed(action ConfirmAction) tea.Cmd {
	switch action {
	case ConfirmQuit:
		m.closeTerminals()
		return tea.Quit
	case ConfirmClear:
		m.editor.Clear()
		if err := m.saver.Forget(context.Background()); err != nil {
			log.Printf("clear: %v", err)
		}
		m.successMessage = "Board cleared"
	}
	return nil
}

func (m *model) saveFile() {
	path, err := SaveBoardFile(m.config, m.editor.Board(), m.now())
	m.metrics.persisted("file", err)
	if err != nil {
		log.Printf("save: %v", err)
		m.errorMessage = err.Error()
		return
	}
	m.successMessage = "Saved " + path
}

func (m *model) saveDir() string {
	if m.config.SaveDirectory != "" {
		return m.config.SaveDirectory
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	return dir
}

func (m *model) scanJSONFiles() {
	m.fileList = nil
	m.selectedFileIndex = -1
	entries, err := os.ReadDir(m.saveDir())
	if err != nil {
		m.errorMessage = err.Error()
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(strings.ToLower(entry.Name()), ".json") {
			m.fileList = append(m.fileList, entry.Name())
		}
	}
	// newest timestamped saves first
	sort.Sort(sort.Reverse(sort.StringSlice(m.fileList)))
	if len(m.fileList) > 0 {
		m.selectedFileIndex = 0
	}
}

func (m *model) openFilePicker() {
	m.scanJSONFiles()
	m.ui = uiFilePicker
}

func (m *model) handleFilePicker(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "ctrl+o":
		m.ui = uiNormal
	case "up", "k":
		if m.selectedFileIndex > 0 {
			m.selectedFileIndex--
		}
	case "down", "j":
		if m.selectedFileIndex < len(m.fileList)-1 {
			m.selectedFileIndex++
		}
	case "enter":
		if m.selectedFileIndex < 0 || m.selectedFileIndex >= len(m.fileList) {
			return nil
		}
		m.ui = uiNormal
		return loadBoardCmd(filepath.Join(m.saveDir(), m.fileList[m.selectedFileIndex]))
	}
	return nil
}

func loadBoardCmd(path string) tea.Cmd {
	return func() tea.Msg {
		b, err := ReadBoardFile(path)
		return boardLoadedMsg{path: path, board: b, err: err}
	}
}

func (m *model) exportCmd(format string) tea.Cmd {
	name := strings.TrimSuffix(saveFileName(m.now()), ".json") + "." + format
	path, err := m.config.GetSavePath(name)
	if err != nil {
		m.errorMessage = err.Error()
		return nil
	}
	b := m.editor.Board().Clone()
	fm := m.measurer
	return func() tea.Msg {
		var err error
		switch format {
		case "pdf":
			err = ExportPDF(b, path, fm)
		default:
			err = ExportPNG(b, path, fm)
		}
		if err != nil {
			err = fmt.Errorf("export %s: %w", format, err)
		}
		return exportedMsg{path: path, err: err}
	}
}
