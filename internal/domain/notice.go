package domain

// NoticeKind classifies structural changes the follow engine recovered from
type NoticeKind string

const (
	NoticeTruncated NoticeKind = "truncated"
	NoticeRotated   NoticeKind = "rotated"
)

// Notice reports a recovered structural change of the followed file. It is
// informational and never an error.
type Notice struct {
	Kind   NoticeKind `json:"kind"`
	Source string     `json:"source"`
	From   uint64     `json:"from"` // Size before the change
	To     uint64     `json:"to"`   // Size after the change
}
