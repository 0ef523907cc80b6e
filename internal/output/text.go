package output

import (
	"io"
	"strconv"
	"strings"

	"github.com/vburojevic/trunk/internal/domain"
	"github.com/vburojevic/trunk/internal/filter"
)

// TextWriter writes lines as plain text, highlighting sieve matches
type TextWriter struct {
	w         io.Writer
	highlight *filter.Sieve
}

// NewTextWriter creates a new text writer. A nil or empty sieve disables
// highlighting.
func NewTextWriter(w io.Writer, highlight *filter.Sieve) *TextWriter {
	return &TextWriter{w: w, highlight: highlight}
}

// WriteLine outputs a single line followed by a newline
func (w *TextWriter) WriteLine(line *domain.Line) error {
	var b strings.Builder
	b.Grow(len(line.Text) + 1)

	if line.Origin == domain.OriginFollow && !w.highlight.Empty() {
		b.WriteString(highlight(line.Text, w.highlight.Indices(line.Text), Styles.Match.Render))
	} else {
		b.Write(line.Text)
	}
	b.WriteByte('\n')

	_, err := io.WriteString(w.w, b.String())
	return err
}

// Notice outputs the recovery marker
func (w *TextWriter) Notice(n *domain.Notice) error {
	_, err := io.WriteString(w.w, Styles.Notice.Render("***"+noticeMessage(n)+"***")+"\n")
	return err
}

// WriteError outputs a styled error
func (w *TextWriter) WriteError(code, message string, hint ...string) error {
	errorLabel := Styles.Danger.Render("Error")
	codeStr := Styles.Warning.Render("[" + code + "]")
	line := errorLabel + " " + codeStr + ": " + message + "\n"
	if len(hint) > 0 && hint[0] != "" {
		line += Styles.Label.Render("Hint: ") + hint[0] + "\n"
	}
	_, err := io.WriteString(w.w, line)
	return err
}

// WriteWarning outputs a styled warning
func (w *TextWriter) WriteWarning(message string) error {
	_, err := io.WriteString(w.w, Styles.Warning.Render("Warning")+": "+message+"\n")
	return err
}

// WriteStats outputs a styled summary of a follow run
func (w *TextWriter) WriteStats(s *StatsOutput) error {
	header := Styles.Header.Render("Summary")
	line := "\n" + header + "\n"
	line += Styles.Label.Render("Polls: ") + Styles.Value.Render(strconv.Itoa(s.Polls)) + " | "
	line += Styles.Label.Render("Bytes: ") + Styles.Value.Render(strconv.FormatUint(s.BytesRead, 10)) + " | "
	line += Styles.Label.Render("Lines: ") + Styles.Value.Render(strconv.Itoa(s.LinesEmitted)+"/"+strconv.Itoa(s.LinesSeen))

	if s.Truncations > 0 {
		line += " | " + Styles.Warning.Render("Truncations: "+strconv.Itoa(s.Truncations))
	}
	if s.Rotations > 0 {
		line += " | " + Styles.Warning.Render("Rotations: "+strconv.Itoa(s.Rotations))
	}
	if s.Partials > 0 {
		line += " | " + Styles.Warning.Render("Partial lines: "+strconv.Itoa(s.Partials))
	}
	line += "\n"

	_, err := io.WriteString(w.w, line)
	return err
}

// highlight renders the spans of text with render and leaves the rest as is
func highlight(text []byte, spans [][2]int, render func(...string) string) string {
	if len(spans) == 0 {
		return string(text)
	}
	var b strings.Builder
	prev := 0
	for _, sp := range spans {
		b.Write(text[prev:sp[0]])
		b.WriteString(render(string(text[sp[0]:sp[1]])))
		prev = sp[1]
	}
	b.Write(text[prev:])
	return b.String()
}
