package domain

import "fmt"

// Cursor is the follow engine's record of how much of a file has been consumed.
// Offset <= Size holds except transiently while recovering from a truncation.
type Cursor struct {
	Size   uint64 `json:"size"`   // Last observed file size
	Offset uint64 `json:"offset"` // Next byte to read
}

// NewCursor returns a cursor positioned at the end of a file of the given size
func NewCursor(size uint64) Cursor {
	return Cursor{Size: size, Offset: size}
}

// Advance records a successful read that brought the file to size
func (c *Cursor) Advance(size uint64) {
	c.Offset = size
	c.Size = size
}

// Reset repositions the cursor after a truncation or rotation
func (c *Cursor) Reset(size, offset uint64) {
	c.Size = size
	c.Offset = offset
}

// Pending returns how many bytes a file of the given size holds beyond the cursor
func (c Cursor) Pending(size uint64) uint64 {
	if size <= c.Size {
		return 0
	}
	return size - c.Size
}

func (c Cursor) String() string {
	return fmt.Sprintf("offset=%d size=%d", c.Offset, c.Size)
}
