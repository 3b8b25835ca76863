package main

import (
	"fmt"
	"testing"
)

func TestHistoryUndoOrder(t *testing.T) {
	h := NewHistory(3)
	for i := 0; i < 2; i++ {
		h.Save(Board{Circles: []Circle{{ID: fmt.Sprint(i)}}})
	}
	var got Board
	if !h.Undo(func(b Board) { got = b }) || got.Circles[0].ID != "1" {
		t.Fatalf("expected newest snapshot first, got %+v", got)
	}
	if !h.Undo(func(b Board) { got = b }) || got.Circles[0].ID != "0" {
		t.Fatalf("expected oldest snapshot second, got %+v", got)
	}
	if h.Undo(func(Board) { t.Fatalf("apply called on empty history") }) {
		t.Fatalf("expected empty history to report false")
	}
}

func TestHistoryDropsOldestBeyondLimit(t *testing.T) {
	h := NewHistory(maxHistorySize)
	for i := 0; i < 25; i++ {
		h.Save(Board{Circles: []Circle{{ID: fmt.Sprint(i)}}})
	}
	if h.Len() != maxHistorySize {
		t.Fatalf("expected %d entries, got %d", maxHistorySize, h.Len())
	}
	var oldest Board
	for h.Undo(func(b Board) { oldest = b }) {
	}
	if oldest.Circles[0].ID != "5" {
		t.Fatalf("expected snapshot 5 to be the oldest kept, got %s", oldest.Circles[0].ID)
	}
}

func TestHistorySnapshotsAreDeepCopies(t *testing.T) {
	h := NewHistory(0)
	b := Board{Circles: []Circle{{ID: "c", X: 1}}}
	h.Save(b)
	b.Circles[0].X = 50
	var got Board
	h.Undo(func(s Board) { got = s })
	if got.Circles[0].X != 1 {
		t.Fatalf("snapshot aliases the live board")
	}
}

func TestHistoryReset(t *testing.T) {
	h := NewHistory(5)
	h.Save(Board{})
	h.Reset()
	if h.Len() != 0 {
		t.Fatalf("expected reset history")
	}
}
