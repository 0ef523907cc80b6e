package output

import (
	"encoding/json"
	"io"

	"github.com/vburojevic/trunk/internal/domain"
)

// NDJSONWriter writes lines and events as NDJSON
type NDJSONWriter struct {
	w       io.Writer
	encoder *json.Encoder
	source  string
}

// NewNDJSONWriter creates a new NDJSON writer for lines read from source
func NewNDJSONWriter(w io.Writer, source string) *NDJSONWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false) // keep lines unescaped and avoid extra allocations
	return &NDJSONWriter{
		w:       w,
		encoder: enc,
		source:  source,
	}
}

// LineOutput is the NDJSON form of one emitted line
type LineOutput struct {
	Type          string `json:"type"`          // Always "line"
	SchemaVersion int    `json:"schemaVersion"` // Schema version for compatibility
	Source        string `json:"source"`
	Origin        string `json:"origin"` // "tail" or "follow"
	Offset        uint64 `json:"offset"`
	Text          string `json:"text"`
	Partial       bool   `json:"partial,omitempty"`
}

// NoticeOutput reports a truncation or rotation the follow loop recovered from
type NoticeOutput struct {
	Type          string `json:"type"` // Always "notice"
	SchemaVersion int    `json:"schemaVersion"`
	Kind          string `json:"kind"`
	Source        string `json:"source"`
	From          uint64 `json:"from"`
	To            uint64 `json:"to"`
	Message       string `json:"message"`
}

// ErrorOutput represents a structured error
type ErrorOutput struct {
	Type          string `json:"type"` // Always "error"
	SchemaVersion int    `json:"schemaVersion"`
	Code          string `json:"code"`    // Machine-readable error code
	Message       string `json:"message"` // Human-readable message
	Hint          string `json:"hint,omitempty"`
}

// WarningOutput represents a warning message
type WarningOutput struct {
	Type          string `json:"type"` // Always "warning"
	SchemaVersion int    `json:"schemaVersion"`
	Message       string `json:"message"`
}

// StatsOutput summarizes a follow run
type StatsOutput struct {
	Type          string `json:"type"` // Always "stats"
	SchemaVersion int    `json:"schemaVersion"`
	Source        string `json:"source"`
	Polls         int    `json:"polls"`
	BytesRead     uint64 `json:"bytes_read"`
	LinesSeen     int    `json:"lines_seen"`
	LinesEmitted  int    `json:"lines_emitted"`
	Truncations   int    `json:"truncations"`
	Rotations     int    `json:"rotations"`
	Partials      int    `json:"partials"`
}

// WriteLine outputs a single line
func (w *NDJSONWriter) WriteLine(line *domain.Line) error {
	return w.encoder.Encode(&LineOutput{
		Type:          "line",
		SchemaVersion: SchemaVersion,
		Source:        w.source,
		Origin:        string(line.Origin),
		Offset:        line.Offset,
		Text:          string(line.Text),
		Partial:       line.Partial,
	})
}

// Notice outputs a truncation or rotation event
func (w *NDJSONWriter) Notice(n *domain.Notice) error {
	return w.encoder.Encode(&NoticeOutput{
		Type:          "notice",
		SchemaVersion: SchemaVersion,
		Kind:          string(n.Kind),
		Source:        n.Source,
		From:          n.From,
		To:            n.To,
		Message:       noticeMessage(n),
	})
}

// WriteError outputs an error
func (w *NDJSONWriter) WriteError(code, message string, hint ...string) error {
	out := &ErrorOutput{
		Type:          "error",
		SchemaVersion: SchemaVersion,
		Code:          code,
		Message:       message,
	}
	if len(hint) > 0 {
		out.Hint = hint[0]
	}
	return w.encoder.Encode(out)
}

// WriteWarning outputs a warning message
func (w *NDJSONWriter) WriteWarning(message string) error {
	return w.encoder.Encode(&WarningOutput{
		Type:          "warning",
		SchemaVersion: SchemaVersion,
		Message:       message,
	})
}

// WriteStats outputs a stats event
func (w *NDJSONWriter) WriteStats(s *StatsOutput) error {
	s.Type = "stats"
	s.SchemaVersion = SchemaVersion
	if s.Source == "" {
		s.Source = w.source
	}
	return w.encoder.Encode(s)
}

func noticeMessage(n *domain.Notice) string {
	switch n.Kind {
	case domain.NoticeTruncated:
		return "FILE TRUNCATED: READING FROM NEW EOF"
	case domain.NoticeRotated:
		return "FILE REPLACED: READING FROM START"
	default:
		return string(n.Kind)
	}
}
