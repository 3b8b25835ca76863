package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestTerminalGrid(t *testing.T) {
	rows, cols := terminalGrid(Terminal{Width: 600, Height: 400, FontSize: 14})
	if rows != 23 || cols != 71 {
		t.Fatalf("expected 23x71, got %dx%d", rows, cols)
	}
	rows, cols = terminalGrid(Terminal{Width: 1, Height: 1})
	if rows != 1 || cols != 1 {
		t.Fatalf("expected the grid to floor at 1x1, got %dx%d", rows, cols)
	}
}

func TestResizeMessage(t *testing.T) {
	if got := resizeMessage(24, 80); got != "\x01Resize:24:80" {
		t.Fatalf("unexpected control message %q", got)
	}
}

func TestTerminalScreenStripsEscapes(t *testing.T) {
	s := &terminalScreen{}
	s.writeString("\x1b[1;32mgreen\x1b[0m text\r\nnext\tx")
	got := s.Tail(0)
	if len(got) != 2 || got[0] != "green text" || got[1] != "next    x" {
		t.Fatalf("unexpected screen %q", got)
	}
	s.writeString("\rover\bX")
	if tail := s.Tail(1); tail[0] != "oveX" {
		t.Fatalf("expected carriage return and backspace handling, got %q", tail)
	}
}

func TestTerminalScreenScrollback(t *testing.T) {
	s := &terminalScreen{}
	for i := 0; i < terminalScrollMax+10; i++ {
		s.writeString("line\n")
	}
	if len(s.lines) != terminalScrollMax {
		t.Fatalf("expected %d lines kept, got %d", terminalScrollMax, len(s.lines))
	}
	s.writeString("partial")
	s.notice(connectionClosed)
	tail := s.Tail(2)
	if tail[0] != "partial" || tail[1] != connectionClosed {
		t.Fatalf("expected notice on its own line, got %q", tail)
	}
}

func TestTerminalSessionRoundTrip(t *testing.T) {
	upgrader := websocket.Upgrader{}
	received := make(chan string, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			received <- string(data)
			if string(data) == "ls\r" {
				_ = conn.WriteMessage(websocket.TextMessage, []byte("file.txt\r\n"))
			}
		}
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/terminal"
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s, err := DialTerminal(ctx, url, "terminal-1", 24, 80)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer s.Close()

	if got := <-received; got != resizeMessage(24, 80) {
		t.Fatalf("expected initial resize, got %q", got)
	}
	if err := s.Resize(24, 80); err != nil {
		t.Fatalf("resize: %v", err)
	}
	if err := s.Send("ls\r"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got := <-received; got != "ls\r" {
		t.Fatalf("expected keystrokes, got %q (unchanged resize must not be sent)", got)
	}

	msg, ok := s.next()().(terminalOutputMsg)
	if !ok || msg.id != "terminal-1" || msg.data != "file.txt\r\n" {
		t.Fatalf("unexpected message %+v", msg)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := s.Send("x"); err == nil {
		t.Fatalf("expected send after close to fail")
	}
}

func TestDialTerminalFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := DialTerminal(ctx, "ws://127.0.0.1:1/ws/terminal", "t", 1, 1); err == nil {
		t.Fatalf("expected dial error")
	}
}
