package domain

// Origin records which stage produced a line
type Origin string

const (
	OriginTail   Origin = "tail"   // Printed from the initial last-N scan
	OriginFollow Origin = "follow" // Appended while following
)

// Line is a completed, terminator-stripped line of a tailed file
type Line struct {
	Text   []byte `json:"text"`
	Offset uint64 `json:"offset"` // Byte offset of the first byte of Text
	Origin Origin `json:"origin"`

	// Partial is set when the line was flushed because it exceeded the
	// pending-line limit before a terminator arrived.
	Partial bool `json:"partial,omitempty"`
}

// String returns the line text
func (l Line) String() string {
	return string(l.Text)
}
