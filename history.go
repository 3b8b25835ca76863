package main

// History is a bounded stack of full board snapshots. Saving beyond the limit
// drops the oldest entry; Undo pops the newest.
type History struct {
	entries []Board
	limit   int
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = maxHistorySize
	}
	return &History{limit: limit}
}

// Save pushes a deep copy of b.
func (h *History) Save(b Board) {
	if len(h.entries) >= h.limit {
		h.entries = append(h.entries[:0:0], h.entries[len(h.entries)-h.limit+1:]...)
	}
	h.entries = append(h.entries, b.Clone())
}

// Undo pops the most recent snapshot and hands it to apply. It reports false
// and does nothing when the stack is empty.
func (h *History) Undo(apply func(Board)) bool {
	if len(h.entries) == 0 {
		return false
	}
	last := len(h.entries) - 1
	snapshot := h.entries[last]
	h.entries = h.entries[:last]
	apply(snapshot)
	return true
}

func (h *History) Len() int { return len(h.entries) }

func (h *History) Reset() { h.entries = nil }
