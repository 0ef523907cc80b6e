package cli

import (
	"context"
	"io"
	"os"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/vburojevic/trunk/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CLI is the root command structure for trunk
type CLI struct {
	// Global flags
	Format  string           `default:"${config_format}" enum:"text,ndjson" help:"Output format"`
	Quiet   bool             `short:"q" default:"${config_quiet}" help:"Suppress diagnostics and warnings (only emit lines and errors)"`
	Verbose bool             `short:"v" default:"${config_verbose}" help:"Show debug diagnostics on stderr"`
	Version kong.VersionFlag `short:"V" help:"Show version information and exit"`

	// Commands
	Tail       TailCmd       `cmd:"" default:"withargs" help:"Print the last lines of a file and optionally follow it"`
	Config     ConfigCmd     `cmd:"" help:"Show or manage configuration"`
	Completion CompletionCmd `cmd:"" help:"Generate shell completions"`
}

// Globals holds shared state for all commands
type Globals struct {
	Format  string
	Quiet   bool
	Verbose bool
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Config  *config.Config
	Logger  *zap.Logger
	// Context is the parent of every command context; nil means Background
	Context context.Context
}

// NewGlobals creates a Globals bound to the process streams. Execute fills
// in the flag values and the logger.
func NewGlobals(cfg *config.Config) *Globals {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Globals{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Config: cfg,
	}
}

// Debug logs a debug message when verbose mode is enabled
func (g *Globals) Debug(format string, args ...interface{}) {
	g.logger().Sugar().Debugf(format, args...)
}

func (g *Globals) logger() *zap.Logger {
	if g.Logger == nil {
		return zap.NewNop()
	}
	return g.Logger
}

func (g *Globals) context() context.Context {
	if g.Context == nil {
		return context.Background()
	}
	return g.Context
}

// newLogger builds the diagnostics logger. Diagnostics never go to stdout.
func newLogger(w io.Writer, verbose, quiet bool) *zap.Logger {
	if quiet {
		return zap.NewNop()
	}

	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core)
}

// Vars returns the kong variables that turn config values into flag defaults.
// Explicit flags still win.
func Vars(cfg *config.Config) kong.Vars {
	if cfg == nil {
		cfg = config.Default()
	}
	return kong.Vars{
		"version":               "trunk " + Version + " (" + Commit + ")",
		"config_format":         cfg.Format,
		"config_quiet":          strconv.FormatBool(cfg.Quiet),
		"config_verbose":        strconv.FormatBool(cfg.Verbose),
		"config_num_lines":      strconv.Itoa(cfg.Defaults.NumLines),
		"config_poll_interval":  cfg.Defaults.PollInterval.String(),
		"config_max_line_bytes": strconv.Itoa(cfg.Defaults.MaxLineBytes),
		"config_reopen":         strconv.FormatBool(cfg.Defaults.Reopen),
	}
}

// Version information (set at build time)
var (
	Version = "dev"
	Commit  = "none"
)
