package source

import (
	"io"
	"sync"
)

// Memory is an in-memory Source that tests grow, truncate and replace while
// an engine reads it.
type Memory struct {
	mu       sync.Mutex
	name     string
	data     []byte
	rotated  bool
	next     []byte
	readErr  error
	reopened int
}

// NewMemory creates a memory source holding data
func NewMemory(name string, data []byte) *Memory {
	return &Memory{name: name, data: append([]byte{}, data...)}
}

// ReadAt implements io.ReaderAt
func (m *Memory) ReadAt(p []byte, off int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.readErr != nil {
		return 0, m.readErr
	}
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Size returns the current length of the data
func (m *Memory) Size() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.data)), nil
}

// Name returns the source name
func (m *Memory) Name() string {
	return m.name
}

// Append grows the data
func (m *Memory) Append(p []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append(m.data, p...)
}

// Truncate shrinks the data to size bytes
func (m *Memory) Truncate(size int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if size < len(m.data) {
		m.data = m.data[:size]
	}
}

// Replace simulates a rename-and-create rotation: the open data is kept
// until Reopen switches to next.
func (m *Memory) Replace(next []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rotated = true
	m.next = append([]byte{}, next...)
}

// FailReads makes every later ReadAt return err
func (m *Memory) FailReads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}

// Rotated reports whether Replace was called since the last Reopen
func (m *Memory) Rotated() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rotated, nil
}

// Reopen switches to the replacement data
func (m *Memory) Reopen() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rotated {
		m.data = m.next
		m.next = nil
		m.rotated = false
	}
	m.reopened++
	return nil
}

// Reopened returns how many times Reopen was called
func (m *Memory) Reopened() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reopened
}

// Bytes returns a copy of the current data
func (m *Memory) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte{}, m.data...)
}
