package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#e5e7eb")).Background(lipgloss.Color("#374151"))
	modeStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color(selectionColor)).Padding(0, 1)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	pickStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(selectionColor))
	titleStyle   = lipgloss.NewStyle().Bold(true)
)

func (m model) View() string {
	if m.help {
		return m.helpView()
	}

	width := max(m.width, 1)
	height := max(m.height-1, 1)

	var body string
	if m.ui == uiFilePicker {
		body = m.filePickerView(width, height)
	} else {
		body = m.renderCanvas(width, height)
	}
	return body + "\n" + m.statusLine(width)
}

func (m model) modeString() string {
	switch {
	case m.ui == uiTerminalFocus:
		return "TERMINAL"
	case m.ui == uiConfirm:
		return "CONFIRM"
	case m.ui == uiFilePicker:
		return "OPEN"
	case m.editor.EditingID() != "":
		return "EDIT"
	case m.editor.Panning():
		return "PAN"
	}
	return strings.ToUpper(m.editor.Mode().String())
}

func (m model) statusLine(width int) string {
	mode := modeStyle.Render(m.modeString())

	var status string
	switch m.ui {
	case uiConfirm:
		status = m.confirmMessage()
	case uiFilePicker:
		status = "↑/↓=navigate, Enter=open, Esc=cancel"
	case uiTerminalFocus:
		status = "Ctrl+]=release terminal"
	default:
		switch {
		case m.editor.EditingID() != "":
			status = "Enter=newline, Esc=finish"
		case m.editor.PendingStart() != "":
			status = "Connecting: click a target circle"
		default:
			status = fmt.Sprintf("Shapes: %d | Selected: %d | Zoom: %.0f%%", m.editor.Board().Len(), m.editor.Selection().Len(), m.view.zoom*100)
		}
	}

	switch {
	case m.errorMessage != "":
		status += " | " + errorStyle.Render("ERROR: "+m.errorMessage)
	case m.successMessage != "":
		status += " | " + successStyle.Render(m.successMessage)
	case m.ui == uiNormal:
		status += " | ? for help | Ctrl+Q to quit"
	}

	rest := max(width-lipgloss.Width(mode), 0)
	return mode + statusStyle.Width(rest).MaxWidth(rest).MaxHeight(1).Render(" "+status)
}

func (m model) confirmMessage() string {
	switch m.confirmAction {
	case ConfirmQuit:
		return "Quit? (y/n)"
	case ConfirmClear:
		return "Clear the board? (y/n)"
	}
	return "(y/n)"
}

func (m model) filePickerView(width, height int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Open a saved board from " + m.saveDir()))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", width))
	b.WriteString("\n")

	lines := 2
	if len(m.fileList) == 0 {
		b.WriteString("(No .json files found)\n")
		lines++
	} else {
		maxFiles := max(height-lines, 1)
		start := 0
		if m.selectedFileIndex >= maxFiles {
			start = m.selectedFileIndex - maxFiles + 1
		}
		end := min(start+maxFiles, len(m.fileList))
		for i := start; i < end; i++ {
			name := strings.TrimSuffix(filepath.Base(m.fileList[i]), ".json")
			if i == m.selectedFileIndex {
				b.WriteString(pickStyle.Render("> " + name))
			} else {
				b.WriteString("  " + name)
			}
			b.WriteString("\n")
			lines++
		}
	}
	for ; lines < height; lines++ {
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

var helpLines = []string{
	"Whiteboard Help",
	"===============",
	"",
	"Shapes:",
	"-------",
	"  c                Add a circle at the pointer (cc clears the label)",
	"  r                Add a rectangle at the pointer (rr makes it larger)",
	"  x                Add a terminal pane at the pointer",
	"  t                Toggle text mode; click to place text",
	"  l                Cycle line mode: off → line → arrow → off",
	"                   - Click two circles to connect them",
	"                   - Or drag on empty canvas to draw freely",
	"  p                Paste an image from the clipboard",
	"",
	"Selection:",
	"----------",
	"  click            Select a shape (Shift/Ctrl adds or removes)",
	"  drag             Move the selection, or draw a marquee on empty canvas",
	"  Esc              Leave line or text mode and cancel a connection",
	"  e/Enter          Edit the label of the selected shape",
	"  d/Backspace      Delete the selection",
	"  1-6              Recolor the selection",
	"  a                Align the selection to the left",
	"  q                Distribute the selection vertically",
	"  +/-              Scale the selection",
	"  Enter            Focus the selected terminal (Ctrl+] releases)",
	"",
	"Clipboard and History:",
	"----------------------",
	"  Ctrl+C/Ctrl+V    Copy and paste the selection",
	"  Ctrl+Z           Undo (last 20 changes)",
	"",
	"View:",
	"-----",
	"  Space            Toggle panning; drag to pan",
	"  arrows           Pan the view (Shift for faster)",
	"  [ / ] or wheel   Zoom out and in",
	"",
	"Files:",
	"------",
	"  Ctrl+S           Save the board as timestamped JSON",
	"  Ctrl+O           Open a saved board",
	"  Ctrl+E           Export as PNG",
	"  Ctrl+P           Export as PDF",
	"  Ctrl+N           Clear the board",
	"",
	"General:",
	"  ?                Toggle this help screen",
	"  Ctrl+Q           Quit",
}

func (m model) helpView() string {
	visible := max(m.height-1, 1)

	start := m.helpScroll
	if start > len(helpLines)-visible {
		start = max(len(helpLines)-visible, 0)
	}
	end := min(start+visible, len(helpLines))

	result := strings.Join(helpLines[start:end], "\n")
	status := fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, any other key to close", start+1, end, len(helpLines))
	return result + "\n" + statusStyle.Render(status)
}
