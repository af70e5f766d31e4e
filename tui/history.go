// Package tui provides a Bubble Tea terminal UI for the duopoly engine.
package tui

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// History keeps the most recent input lines for Up/Down recall. It can be
// persisted one line per entry so formulas survive between sessions.
type History struct {
	entries []string
	limit   int
	cursor  int // -1 while not navigating
}

// NewHistory creates a history holding at most limit entries.
func NewHistory(limit int) *History {
	return &History{
		entries: make([]string, 0, limit),
		limit:   limit,
		cursor:  -1,
	}
}

// Push records a line. Repeating the latest entry is a no-op.
func (h *History) Push(line string) {
	if n := len(h.entries); n > 0 && h.entries[n-1] == line {
		return
	}
	h.entries = append(h.entries, line)
	if over := len(h.entries) - h.limit; over > 0 {
		h.entries = h.entries[over:]
	}
}

// Prev moves towards older entries and stops at the oldest one.
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

// Next moves towards newer entries. Stepping past the newest returns false
// and leaves navigation, so the caller can clear the input.
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	if h.cursor++; h.cursor >= len(h.entries) {
		h.cursor = -1
		return "", false
	}
	return h.entries[h.cursor], true
}

// ResetCursor leaves navigation mode.
func (h *History) ResetCursor() {
	h.cursor = -1
}

// Len returns the number of stored entries.
func (h *History) Len() int { return len(h.entries) }

// Load appends the entries stored at path. A missing file is not an error.
func (h *History) Load(path string) error {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			h.Push(line)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading history: %w", err)
	}
	return nil
}

// Save writes the entries to path, creating its directory.
func (h *History) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	data := strings.Join(h.entries, "\n")
	if data != "" {
		data += "\n"
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	return nil
}
