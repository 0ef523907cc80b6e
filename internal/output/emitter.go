package output

import (
	"fmt"
	"io"

	"github.com/vburojevic/trunk/internal/domain"
	"github.com/vburojevic/trunk/internal/filter"
)

// Emitter is the sink shared by the text and NDJSON formats. It satisfies
// the follow engine's Sink and Notifier interfaces.
type Emitter interface {
	WriteLine(line *domain.Line) error
	Notice(n *domain.Notice) error
	WriteError(code, message string, hint ...string) error
	WriteWarning(message string) error
	WriteStats(s *StatsOutput) error
}

// NewEmitter creates the emitter for format ("text" or "ndjson").
// Highlighting only applies to text output.
func NewEmitter(format string, w io.Writer, source string, highlight *filter.Sieve) (Emitter, error) {
	switch format {
	case "", "text":
		return NewTextWriter(w, highlight), nil
	case "ndjson":
		return NewNDJSONWriter(w, source), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (expected text or ndjson)", format)
	}
}
