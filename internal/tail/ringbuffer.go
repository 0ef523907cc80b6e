package tail

import (
	"bytes"

	"github.com/vburojevic/trunk/internal/domain"
)

// window keeps the most recent lines pushed into it, up to limit. Storage
// grows with the input, so a large limit costs nothing until lines arrive.
type window struct {
	lines []domain.Line
	limit int
	head  int // oldest line once full
}

func newWindow(limit int) *window {
	if limit <= 0 {
		limit = DefaultLines
	}
	return &window{limit: limit}
}

// push copies line into the window, evicting the oldest once full
func (w *window) push(line domain.Line) {
	line.Text = bytes.Clone(line.Text)
	if len(w.lines) < w.limit {
		w.lines = append(w.lines, line)
		return
	}
	w.lines[w.head] = line
	w.head = (w.head + 1) % w.limit
}

// ordered returns the held lines oldest first
func (w *window) ordered() []domain.Line {
	out := make([]domain.Line, 0, len(w.lines))
	out = append(out, w.lines[w.head:]...)
	return append(out, w.lines[:w.head]...)
}
