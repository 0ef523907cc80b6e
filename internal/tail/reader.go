// Package tail computes the last lines of a file before follow mode starts.
package tail

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/vburojevic/trunk/internal/domain"
	"github.com/vburojevic/trunk/internal/lines"
)

// DefaultLines is the number of lines printed when none is requested
const DefaultLines = 5

// ChunkSize bounds each backward read
const ChunkSize = 4096

// LastLines returns the last n lines of the first size bytes of r, oldest
// first, and the offset following the last scanned byte (always size). An
// unterminated final line counts as a line. Files with fewer than n lines
// yield all of them.
func LastLines(r io.ReaderAt, size int64, n int) ([]domain.Line, uint64, error) {
	if n <= 0 || size <= 0 {
		return nil, uint64(max(size, 0)), nil
	}

	start, err := scanBack(r, size, n)
	if err != nil {
		return nil, 0, err
	}

	data := make([]byte, size-start)
	if _, err := r.ReadAt(data, start); err != nil && !errors.Is(err, io.EOF) {
		return nil, 0, fmt.Errorf("failed to read tail at offset %d: %w", start, err)
	}

	s := lines.NewSplitter(len(data) + 1)
	s.Reset(uint64(start))
	out := s.Feed(data)
	if rest := s.Pending(); len(rest) > 0 {
		out = append(out, domain.Line{Text: rest, Offset: s.Offset()})
	}
	for i := range out {
		out[i].Origin = domain.OriginTail
	}
	return out, uint64(size), nil
}

// scanBack walks backward from size in ChunkSize reads and returns the
// offset where the last n lines begin.
func scanBack(r io.ReaderAt, size int64, n int) (int64, error) {
	buf := make([]byte, ChunkSize)
	pos := size
	found := 0
	last := true // the final byte's terminator does not open a new line

	for pos > 0 {
		chunkStart := max(pos-ChunkSize, 0)
		chunk := buf[:pos-chunkStart]
		if _, err := r.ReadAt(chunk, chunkStart); err != nil && !errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("failed to read at offset %d: %w", chunkStart, err)
		}
		for i := len(chunk) - 1; i >= 0; i-- {
			if chunk[i] != '\n' {
				last = false
				continue
			}
			if last {
				last = false
				continue
			}
			found++
			if found == n {
				return chunkStart + int64(i) + 1, nil
			}
		}
		pos = chunkStart
	}
	return 0, nil
}

// FromReader consumes r to its end and returns its last n lines. It serves
// inputs that cannot be scanned backward, such as a pipe on stdin.
func FromReader(r io.Reader, n int) ([]domain.Line, error) {
	if n <= 0 {
		return nil, nil
	}

	win := newWindow(n)
	s := lines.NewSplitter(0)
	br := bufio.NewReaderSize(r, 64*1024)
	buf := make([]byte, 32*1024)

	for {
		k, err := br.Read(buf)
		if k > 0 {
			for _, l := range s.Feed(buf[:k]) {
				win.push(l)
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
	}
	if rest := s.Pending(); len(rest) > 0 {
		win.push(domain.Line{Text: rest, Offset: s.Offset()})
	}

	out := win.ordered()
	for i := range out {
		out[i].Origin = domain.OriginTail
	}
	return out, nil
}
