package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"github.com/hashicorp/mdns"
	"github.com/muesli/ansi"
)

const (
	connectionClosed = "Connection closed."
	discoverTimeout  = 2 * time.Second
)

func resizeMessage(rows, cols int) string {
	return "\x01Resize:" + strconv.Itoa(rows) + ":" + strconv.Itoa(cols)
}

// terminalGrid converts a terminal shape's size into character cells.
func terminalGrid(t Terminal) (rows, cols int) {
	fs := t.FontSize
	if fs <= 0 {
		fs = defaultTerminalFontSize
	}
	cols = int(math.Floor(t.Width / (fs * 0.6)))
	rows = int(math.Floor(t.Height / (fs * 1.2)))
	return max(rows, 1), max(cols, 1)
}

type terminalOutputMsg struct {
	id   string
	data string
}

type terminalClosedMsg struct {
	id  string
	err error
}

type terminalDialedMsg struct {
	id      string
	session *TerminalSession
	err     error
}

type terminalURLMsg struct {
	url string
	err error
}

// TerminalSession is one websocket byte stream backing a terminal shape.
type TerminalSession struct {
	id   string
	conn *websocket.Conn
	msgs chan tea.Msg
	done chan struct{}

	mu         sync.Mutex
	rows, cols int
	closed     bool
}

// DialTerminal connects to the backend and negotiates the initial size.
func DialTerminal(ctx context.Context, url, id string, rows, cols int) (*TerminalSession, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	t := &TerminalSession{id: id, conn: conn, msgs: make(chan tea.Msg, 64), done: make(chan struct{})}
	if err := t.Resize(rows, cols); err != nil {
		_ = conn.Close()
		return nil, err
	}
	go t.readLoop()
	return t, nil
}

func dialTerminalCmd(url, id string, rows, cols int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s, err := DialTerminal(ctx, url, id, rows, cols)
		return terminalDialedMsg{id: id, session: s, err: err}
	}
}

func (t *TerminalSession) readLoop() {
	defer close(t.msgs)
	for {
		_, data, err := t.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) || t.isClosed() {
				err = nil
			}
			t.emit(terminalClosedMsg{id: t.id, err: err})
			return
		}
		if !t.emit(terminalOutputMsg{id: t.id, data: string(data)}) {
			return
		}
	}
}

// emit hands msg to the update loop unless the session was closed, in which
// case nobody is reading any more.
func (t *TerminalSession) emit(msg tea.Msg) bool {
	select {
	case t.msgs <- msg:
		return true
	case <-t.done:
		return false
	}
}

// next waits for the session's next message.
func (t *TerminalSession) next() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-t.msgs
		if !ok {
			return nil
		}
		return msg
	}
}

func (t *TerminalSession) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

func (t *TerminalSession) write(s string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return errors.New("terminal session closed")
	}
	if err := t.conn.WriteMessage(websocket.TextMessage, []byte(s)); err != nil {
		return fmt.Errorf("terminal write: %w", err)
	}
	return nil
}

// Resize sends the size control message when the grid changed.
func (t *TerminalSession) Resize(rows, cols int) error {
	t.mu.Lock()
	same := t.rows == rows && t.cols == cols
	t.mu.Unlock()
	if same {
		return nil
	}
	if err := t.write(resizeMessage(rows, cols)); err != nil {
		return err
	}
	t.mu.Lock()
	t.rows, t.cols = rows, cols
	t.mu.Unlock()
	return nil
}

// Send forwards keystrokes verbatim.
func (t *TerminalSession) Send(data string) error {
	return t.write(data)
}

func (t *TerminalSession) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	close(t.done)
	_ = t.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	return t.conn.Close()
}

// terminalScreen is the display buffer of one terminal shape. Escape
// sequences are dropped; a carriage return followed by more output rewrites
// the current line.
type terminalScreen struct {
	lines  []string
	cur    []rune
	inEsc  bool
	atHome bool
}

func (s *terminalScreen) Write(p []byte) (int, error) {
	s.writeString(string(p))
	return len(p), nil
}

func (s *terminalScreen) writeString(text string) {
	for _, r := range text {
		if r == ansi.Marker {
			s.inEsc = true
			continue
		}
		if s.inEsc {
			if ansi.IsTerminator(r) || r == '\a' {
				s.inEsc = false
			}
			continue
		}
		switch r {
		case '\n':
			s.newline()
			continue
		case '\r':
			s.atHome = true
			continue
		}
		if s.atHome {
			s.cur = s.cur[:0]
			s.atHome = false
		}
		switch r {
		case '\b':
			if len(s.cur) > 0 {
				s.cur = s.cur[:len(s.cur)-1]
			}
		case '\t':
			s.cur = append(s.cur, []rune(strings.Repeat(" ", 4-len(s.cur)%4))...)
		default:
			if r >= ' ' {
				s.cur = append(s.cur, r)
			}
		}
	}
}

func (s *terminalScreen) newline() {
	s.lines = append(s.lines, string(s.cur))
	s.cur = s.cur[:0]
	s.atHome = false
	if over := len(s.lines) - terminalScrollMax; over > 0 {
		s.lines = append(s.lines[:0:0], s.lines[over:]...)
	}
}

// notice writes a line of our own, on a fresh line.
func (s *terminalScreen) notice(text string) {
	if len(s.cur) > 0 {
		s.newline()
	}
	s.writeString(text + "\n")
}

// Tail returns the last n lines, the unfinished line included.
func (s *terminalScreen) Tail(n int) []string {
	all := append(s.lines[:len(s.lines):len(s.lines)], string(s.cur))
	if len(s.cur) == 0 {
		all = all[:len(all)-1]
	}
	if n <= 0 || len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// terminalPane joins a session to its screen.
type terminalPane struct {
	session *TerminalSession
	screen  *terminalScreen
}

// discoverTerminalURL browses mDNS for a terminal backend.
func discoverTerminalURL(timeout time.Duration) (string, error) {
	entries := make(chan *mdns.ServiceEntry, 8)
	found := make(chan string, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			url := "ws://" + net.JoinHostPort(e.AddrV4.String(), strconv.Itoa(e.Port)) + "/ws/terminal"
			select {
			case found <- url:
			default:
			}
		}
	}()

	params := mdns.DefaultParams(terminalService)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	err := mdns.Query(params)
	close(entries)
	<-done
	if err != nil {
		return "", fmt.Errorf("mdns query: %w", err)
	}
	select {
	case url := <-found:
		return url, nil
	default:
		return "", fmt.Errorf("no %s service found", terminalService)
	}
}

func discoverTerminalCmd() tea.Cmd {
	return func() tea.Msg {
		url, err := discoverTerminalURL(discoverTimeout)
		return terminalURLMsg{url: url, err: err}
	}
}
