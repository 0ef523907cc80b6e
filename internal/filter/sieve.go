package filter

import (
	"bytes"

	"github.com/vburojevic/trunk/internal/domain"
)

// Matches reports whether line contains pattern. An empty pattern matches
// every line.
func Matches(line, pattern []byte) bool {
	if len(pattern) == 0 {
		return true
	}
	return bytes.Contains(line, pattern)
}

// Sieve passes lines containing a fixed, case-sensitive substring
type Sieve struct {
	pattern []byte
}

// NewSieve creates a sieve. An empty pattern passes everything.
func NewSieve(pattern string) *Sieve {
	return &Sieve{pattern: []byte(pattern)}
}

// Match returns true if the line contains the sieve pattern
func (s *Sieve) Match(line *domain.Line) bool {
	if s == nil || line == nil {
		return true
	}
	return Matches(line.Text, s.pattern)
}

// Pattern returns the sieve pattern
func (s *Sieve) Pattern() string {
	if s == nil {
		return ""
	}
	return string(s.pattern)
}

// Empty reports whether the sieve lets every line through
func (s *Sieve) Empty() bool {
	return s == nil || len(s.pattern) == 0
}

// Indices returns the [start, end) spans of non-overlapping pattern
// occurrences in text, left to right.
func (s *Sieve) Indices(text []byte) [][2]int {
	if s.Empty() {
		return nil
	}
	var spans [][2]int
	base := 0
	for {
		i := bytes.Index(text[base:], s.pattern)
		if i < 0 {
			return spans
		}
		start := base + i
		end := start + len(s.pattern)
		spans = append(spans, [2]int{start, end})
		base = end
	}
}
