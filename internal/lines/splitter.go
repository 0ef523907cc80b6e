package lines

import "github.com/vburojevic/trunk/internal/domain"

// DefaultMaxLineBytes caps the pending remainder held between reads
const DefaultMaxLineBytes = 1024 * 1024

// Splitter carries the unterminated remainder across successive reads and
// tracks the file offset of every line it completes.
type Splitter struct {
	max      int
	pending  []byte
	start    uint64 // file offset of pending[0]
	partials int
}

// NewSplitter creates a splitter that holds at most maxLineBytes of an
// unterminated line. Non-positive values select DefaultMaxLineBytes.
func NewSplitter(maxLineBytes int) *Splitter {
	if maxLineBytes <= 0 {
		maxLineBytes = DefaultMaxLineBytes
	}
	return &Splitter{max: maxLineBytes}
}

// Feed splits buf, which must directly follow everything fed so far, and
// returns the lines it completes. Once the remainder exceeds the limit it is
// emitted in limit-sized pieces marked Partial. The last held byte always
// stays pending, so a terminator arriving later never completes an empty piece.
func (s *Splitter) Feed(buf []byte) []domain.Line {
	raw, rest := cut(join(s.pending, buf))

	out := make([]domain.Line, 0, len(raw))
	off := s.start
	for _, r := range raw {
		out = append(out, domain.Line{Text: trim(r), Offset: off})
		off += uint64(len(r))
	}

	for held(rest) > s.max {
		out = append(out, domain.Line{Text: rest[:s.max], Offset: off, Partial: true})
		off += uint64(s.max)
		rest = rest[s.max:]
		s.partials++
	}

	s.pending = append(make([]byte, 0, len(rest)), rest...)
	s.start = off
	return out
}

// held is the length of rest counted against the limit. A trailing \r may be
// the first half of a CRLF terminator and is not counted.
func held(rest []byte) int {
	if n := len(rest); n > 0 && rest[n-1] == '\r' {
		return n - 1
	}
	return len(rest)
}

// Pending returns the bytes held back waiting for a terminator
func (s *Splitter) Pending() []byte {
	return s.pending
}

// Offset returns the file offset of the first pending byte, or of the next
// byte to be fed when nothing is pending
func (s *Splitter) Offset() uint64 {
	return s.start
}

// Reset discards the remainder and positions the splitter at offset
func (s *Splitter) Reset(offset uint64) {
	s.pending = nil
	s.start = offset
}

// Partials returns how many oversized remainders were flushed
func (s *Splitter) Partials() int {
	return s.partials
}
