// Package follow implements the polling loop that emits lines appended to a
// file after its initial tail was printed.
package follow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/vburojevic/trunk/internal/domain"
	"github.com/vburojevic/trunk/internal/filter"
	"github.com/vburojevic/trunk/internal/lines"
	"github.com/vburojevic/trunk/internal/source"
	"go.uber.org/zap"
)

// DefaultPollInterval is the sleep between two size checks
const DefaultPollInterval = 100 * time.Millisecond

// readChunk caps a single read while consuming a large delta
const readChunk = 1024 * 1024

// Config controls the follow loop
type Config struct {
	PollInterval time.Duration // Sleep between polls (default 100ms)
	MaxLineBytes int           // Pending-line limit (default 1 MiB)
	Reopen       bool          // Reopen by path when the file is replaced
}

// Sink receives the lines that pass the filter
type Sink interface {
	WriteLine(line *domain.Line) error
}

// Notifier is implemented by sinks that want truncation and rotation notices
type Notifier interface {
	Notice(n *domain.Notice) error
}

// ReadError is returned when reading an already open file fails. It ends the
// follow loop.
type ReadError struct {
	Path   string
	Offset uint64
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s at offset %d: %v", e.Path, e.Offset, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Stats counts what the engine has done so far
type Stats struct {
	Polls        int    `json:"polls"`
	BytesRead    uint64 `json:"bytes_read"`
	LinesSeen    int    `json:"lines_seen"`
	LinesEmitted int    `json:"lines_emitted"`
	Truncations  int    `json:"truncations"`
	Rotations    int    `json:"rotations"`
	Partials     int    `json:"partials"`
}

// Engine follows one file. It is not safe for concurrent use; Run owns the
// source for its whole lifetime.
type Engine struct {
	src      source.Source
	cfg      Config
	clk      clock.Clock
	logger   *zap.Logger
	filter   filter.Filter
	cursor   domain.Cursor
	splitter *lines.Splitter
	state    State
	stats    Stats
	buf      []byte
}

// Option configures an Engine
type Option func(*Engine)

// WithClock replaces the wall clock used for poll sleeps
func WithClock(c clock.Clock) Option {
	return func(e *Engine) { e.clk = c }
}

// WithLogger sets the diagnostics logger
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithFilter sets the predicate appended lines must pass
func WithFilter(f filter.Filter) Option {
	return func(e *Engine) { e.filter = f }
}

// New creates an engine that starts reading src at offset, normally the end
// of file reported by the initial tail read.
func New(src source.Source, offset uint64, cfg Config, opts ...Option) *Engine {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	e := &Engine{
		src:      src,
		cfg:      cfg,
		clk:      clock.New(),
		logger:   zap.NewNop(),
		cursor:   domain.NewCursor(offset),
		splitter: lines.NewSplitter(cfg.MaxLineBytes),
		state:    StatePolling,
	}
	e.splitter.Reset(offset)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run polls until ctx is cancelled or a read fails. Cancellation is checked
// between polls only and is a clean exit.
func (e *Engine) Run(ctx context.Context, sink Sink) error {
	log := e.logger.With(zap.String("file", e.src.Name()))
	log.Debug("follow started",
		zap.Stringer("cursor", e.cursor),
		zap.Duration("poll_interval", e.cfg.PollInterval),
		zap.Bool("reopen", e.cfg.Reopen))
	defer func() {
		log.Debug("follow stopped",
			zap.Int("polls", e.stats.Polls),
			zap.Uint64("bytes_read", e.stats.BytesRead),
			zap.Int("lines_emitted", e.stats.LinesEmitted),
			zap.Int("truncations", e.stats.Truncations),
			zap.Int("rotations", e.stats.Rotations))
	}()

	for {
		if ctx.Err() != nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-e.clk.After(e.cfg.PollInterval):
		}

		if _, err := e.Poll(sink); err != nil {
			return err
		}
	}
}

// Poll performs one iteration of the loop without sleeping and returns the
// number of lines written to sink.
func (e *Engine) Poll(sink Sink) (int, error) {
	e.stats.Polls++

	emitted := 0
	if e.cfg.Reopen {
		n, err := e.checkRotation(sink)
		emitted += n
		if err != nil {
			return emitted, err
		}
	}

	size, err := e.size()
	if err != nil {
		return emitted, err
	}

	switch {
	case size > e.cursor.Size:
		n, err := e.readGrowth(size, sink)
		return emitted + n, err
	case size < e.cursor.Size:
		e.recoverTruncation(size, sink)
	}
	return emitted, nil
}

func (e *Engine) size() (uint64, error) {
	size, err := e.src.Size()
	if err != nil {
		return 0, &ReadError{Path: e.src.Name(), Offset: e.cursor.Offset, Err: err}
	}
	return uint64(size), nil
}

// readGrowth reads exactly the bytes between the cursor and size.
func (e *Engine) readGrowth(size uint64, sink Sink) (int, error) {
	delta := e.cursor.Pending(size)
	section := io.NewSectionReader(e.src, int64(e.cursor.Offset), int64(delta))

	emitted := 0
	var read uint64
	for read < delta {
		want := min(delta-read, readChunk)
		if uint64(cap(e.buf)) < want {
			e.buf = make([]byte, want)
		}
		buf := e.buf[:want]

		n, err := io.ReadFull(section, buf)
		read += uint64(n)
		e.stats.BytesRead += uint64(n)

		k, werr := e.emit(e.splitter.Feed(buf[:n]), sink)
		emitted += k
		if werr != nil {
			e.cursor.Advance(e.cursor.Offset + read)
			return emitted, werr
		}

		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			// Shrunk between stat and read; the next poll sees the new size.
			e.logger.Debug("short read",
				zap.String("file", e.src.Name()),
				zap.Uint64("wanted", delta),
				zap.Uint64("got", read))
			break
		}
		if err != nil {
			return emitted, &ReadError{Path: e.src.Name(), Offset: e.cursor.Offset + read, Err: err}
		}
	}

	e.cursor.Advance(e.cursor.Offset + read)
	return emitted, nil
}

func (e *Engine) emit(ls []domain.Line, sink Sink) (int, error) {
	emitted := 0
	for i := range ls {
		l := &ls[i]
		l.Origin = domain.OriginFollow
		e.stats.LinesSeen++
		if l.Partial {
			e.stats.Partials++
			e.logger.Debug("flushed oversized line",
				zap.String("file", e.src.Name()),
				zap.Uint64("offset", l.Offset),
				zap.Int("bytes", len(l.Text)))
		}
		if e.filter != nil && !e.filter.Match(l) {
			continue
		}
		if err := sink.WriteLine(l); err != nil {
			return emitted, fmt.Errorf("failed to write line: %w", err)
		}
		emitted++
		e.stats.LinesEmitted++
	}
	return emitted, nil
}

// recoverTruncation drops the pending remainder and resumes at the new end of
// file, so only bytes appended after the truncation are emitted.
func (e *Engine) recoverTruncation(size uint64, sink Sink) {
	e.state = StateRecovering
	prev := e.cursor.Size

	e.splitter.Reset(size)
	e.cursor.Reset(size, size)
	e.stats.Truncations++

	e.logger.Info("file truncated, reading from new end of file",
		zap.String("file", e.src.Name()),
		zap.Uint64("previous_size", prev),
		zap.Uint64("size", size))
	e.notify(sink, &domain.Notice{Kind: domain.NoticeTruncated, Source: e.src.Name(), From: prev, To: size})

	e.state = StatePolling
}

// checkRotation drains what is left in the old file, then switches to the
// file now at the path and reads it from its start.
func (e *Engine) checkRotation(sink Sink) (int, error) {
	r, ok := e.src.(source.Reopener)
	if !ok {
		return 0, nil
	}
	rotated, err := r.Rotated()
	if err != nil {
		return 0, fmt.Errorf("failed to check rotation of %s: %w", e.src.Name(), err)
	}
	if !rotated {
		return 0, nil
	}

	emitted := 0
	if size, err := e.size(); err == nil && size > e.cursor.Size {
		n, err := e.readGrowth(size, sink)
		emitted += n
		if err != nil {
			return emitted, err
		}
	}

	e.state = StateRecovering
	prev := e.cursor.Size
	if err := r.Reopen(); err != nil {
		return emitted, fmt.Errorf("failed to reopen %s: %w", e.src.Name(), err)
	}
	e.splitter.Reset(0)
	e.cursor.Reset(0, 0)
	e.stats.Rotations++

	e.logger.Info("file replaced, reopened by path",
		zap.String("file", e.src.Name()),
		zap.Uint64("previous_size", prev))
	e.notify(sink, &domain.Notice{Kind: domain.NoticeRotated, Source: e.src.Name(), From: prev, To: 0})

	e.state = StatePolling
	return emitted, nil
}

func (e *Engine) notify(sink Sink, n *domain.Notice) {
	nt, ok := sink.(Notifier)
	if !ok {
		return
	}
	if err := nt.Notice(n); err != nil {
		e.logger.Warn("failed to write notice", zap.Error(err))
	}
}

// Cursor returns the current read position
func (e *Engine) Cursor() domain.Cursor {
	return e.cursor
}

// Pending returns the unterminated bytes held for the next poll
func (e *Engine) Pending() []byte {
	return e.splitter.Pending()
}

// State returns the current state of the loop
func (e *Engine) State() State {
	return e.state
}

// Stats returns a snapshot of the engine counters
func (e *Engine) Stats() Stats {
	return e.stats
}
