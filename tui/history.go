// Package tui provides a Bubble Tea front end for beatquest: the game runs
// on a fixed tick while keys are fed into the engine's input state.
package tui

// History keeps the lines typed in command mode, oldest first, with a
// cursor for Up/Down navigation.
type History struct {
	entries []string
	max     int
	cursor  int // -1 = not navigating, 0..len-1 = position in entries
}

// NewHistory creates a history holding at most max lines.
func NewHistory(max int) *History {
	return &History{
		entries: make([]string, 0, max),
		max:     max,
		cursor:  -1,
	}
}

// Push records a line. Consecutive duplicates are skipped.
func (h *History) Push(line string) {
	if n := len(h.entries); n > 0 && h.entries[n-1] == line {
		return
	}
	h.entries = append(h.entries, line)
	if len(h.entries) > h.max {
		h.entries = h.entries[1:]
	}
}

// Prev steps to the older line.
func (h *History) Prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	switch {
	case h.cursor == -1:
		h.cursor = len(h.entries) - 1
	case h.cursor > 0:
		h.cursor--
	}
	return h.entries[h.cursor], true
}

// Next steps to the newer line. It reports false once past the newest,
// which means back to an empty prompt.
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor >= len(h.entries) {
		h.cursor = -1
		return "", false
	}
	return h.entries[h.cursor], true
}

// ResetCursor stops navigating.
func (h *History) ResetCursor() {
	h.cursor = -1
}

// Len is the number of stored lines.
func (h *History) Len() int {
	return len(h.entries)
}
