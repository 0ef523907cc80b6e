package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/vburojevic/trunk/internal/filter"
	"github.com/vburojevic/trunk/internal/follow"
	"github.com/vburojevic/trunk/internal/output"
	"github.com/vburojevic/trunk/internal/source"
	"github.com/vburojevic/trunk/internal/tail"
	"go.uber.org/zap"
)

// TailCmd prints the last lines of a file and optionally follows it
type TailCmd struct {
	File         string        `arg:"" name:"file" help:"File to read ('-' reads stdin once)"`
	Follow       bool          `short:"f" help:"Keep printing lines as they are appended"`
	Sieve        string        `short:"s" placeholder:"SIEVE" help:"Only print followed lines containing SIEVE (implies --follow)"`
	NumLines     string        `short:"n" name:"num-lines" default:"${config_num_lines}" placeholder:"N" help:"Number of lines to print first"`
	PollInterval time.Duration `default:"${config_poll_interval}" help:"Time between size checks while following"`
	MaxLineBytes int           `default:"${config_max_line_bytes}" help:"Flush an unterminated line once it exceeds this many bytes"`
	Reopen       bool          `default:"${config_reopen}" help:"Reopen the file by name when it is replaced (log rotation)"`
	Stats        bool          `help:"Print follow statistics on exit"`
}

// Run executes the tail command
func (c *TailCmd) Run(globals *Globals) error {
	// Disable styles when stdout is not a TTY
	maybeNoStyle(globals)

	n, err := parseNumLines(c.NumLines)
	if err != nil {
		return c.outputError(globals, CodeInvalidFlags, err.Error())
	}
	if c.PollInterval <= 0 {
		return c.outputError(globals, CodeInvalidFlags, fmt.Sprintf("--poll-interval must be positive, got %s", c.PollInterval))
	}
	if c.MaxLineBytes <= 0 {
		return c.outputError(globals, CodeInvalidFlags, fmt.Sprintf("--max-line-bytes must be positive, got %d", c.MaxLineBytes))
	}

	sieve := filter.NewSieve(c.Sieve)
	emitter, err := output.NewEmitter(globals.Format, globals.Stdout, c.File, sieve)
	if err != nil {
		return c.outputError(globals, CodeInvalidFlags, err.Error())
	}

	if c.File == "-" {
		return c.runStdin(globals, emitter, n)
	}

	src, err := source.Open(c.File)
	if err != nil {
		return outputCauseError(globals, codeForOpen(err), err, hintForOpen(err))
	}
	defer src.Close()

	size, err := src.Size()
	if err != nil {
		return outputCauseError(globals, CodeReadError, err)
	}
	initial, offset, err := tail.LastLines(src, size, n)
	if err != nil {
		return outputCauseError(globals, CodeReadError, err)
	}
	globals.Debug("printed %d initial lines of %s, follow offset %d", len(initial), c.File, offset)

	for i := range initial {
		if err := emitter.WriteLine(&initial[i]); err != nil {
			return outputCauseError(globals, CodeOutputError, err)
		}
	}

	if !c.followEnabled() {
		return nil
	}
	return c.follow(globals, src, offset, sieve, emitter)
}

// followEnabled reports whether the follow loop runs. A sieve only makes
// sense on followed lines, so it turns following on.
func (c *TailCmd) followEnabled() bool {
	return c.Follow || c.Sieve != ""
}

func (c *TailCmd) follow(globals *Globals, src source.Source, offset uint64, sieve *filter.Sieve, emitter output.Emitter) error {
	ctx, stop := signal.NotifyContext(globals.context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine := follow.New(src, offset, follow.Config{
		PollInterval: c.PollInterval,
		MaxLineBytes: c.MaxLineBytes,
		Reopen:       c.Reopen,
	},
		follow.WithLogger(globals.logger()),
		follow.WithFilter(sieve),
	)

	runErr := engine.Run(ctx, emitter)

	if c.Stats && !globals.Quiet {
		if err := emitter.WriteStats(statsOutput(c.File, engine.Stats())); err != nil {
			globals.logger().Warn("failed to write stats", zap.Error(err))
		}
	}

	if runErr != nil {
		var readErr *follow.ReadError
		if errors.As(runErr, &readErr) {
			return outputCauseError(globals, CodeReadError, runErr)
		}
		var openErr *source.OpenError
		if errors.As(runErr, &openErr) {
			return outputCauseError(globals, codeForOpen(runErr), runErr, hintForOpen(runErr))
		}
		return outputCauseError(globals, CodeOutputError, runErr)
	}
	return nil
}

// runStdin prints the last lines of stdin. A pipe cannot be followed.
func (c *TailCmd) runStdin(globals *Globals, emitter output.Emitter, n int) error {
	if c.followEnabled() {
		outputWarning(globals, "stdin cannot be followed; printing its last lines only")
	}

	lines, err := tail.FromReader(globals.Stdin, n)
	if err != nil {
		return outputCauseError(globals, CodeReadError, err)
	}
	for i := range lines {
		if err := emitter.WriteLine(&lines[i]); err != nil {
			return outputCauseError(globals, CodeOutputError, err)
		}
	}
	return nil
}

func (c *TailCmd) outputError(globals *Globals, code, message string, hint ...string) error {
	return outputErrorCommon(globals, code, message, hint...)
}

// parseNumLines accepts a non-negative decimal line count
func parseNumLines(v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("illegal offset: %s", v)
	}
	return n, nil
}

func statsOutput(name string, s follow.Stats) *output.StatsOutput {
	return &output.StatsOutput{
		Source:       name,
		Polls:        s.Polls,
		BytesRead:    s.BytesRead,
		LinesSeen:    s.LinesSeen,
		LinesEmitted: s.LinesEmitted,
		Truncations:  s.Truncations,
		Rotations:    s.Rotations,
		Partials:     s.Partials,
	}
}

func maybeNoStyle(globals *Globals) {
	if globals == nil {
		return
	}
	if globals.Format == "ndjson" {
		output.DisableStyles()
		return
	}
	if f, ok := globals.Stdout.(*os.File); ok {
		if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
			output.DisableStyles()
		}
		return
	}
	// Not a file: a buffer or pipe wrapper
	output.DisableStyles()
}

var (
	_ follow.Sink     = output.Emitter(nil)
	_ follow.Notifier = output.Emitter(nil)
)
