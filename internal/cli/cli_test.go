package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/vburojevic/trunk/internal/config"
	"github.com/vburojevic/trunk/internal/output"
	"github.com/vburojevic/trunk/internal/source"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// syncBuffer is written by the follow loop while the test reads it
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// testGlobals creates a Globals struct with captured stdout/stderr
func testGlobals(format string) (*Globals, *bytes.Buffer, *bytes.Buffer) {
	output.DisableStyles()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &Globals{
		Format: format,
		Stdin:  strings.NewReader(""),
		Stdout: stdout,
		Stderr: stderr,
		Config: config.Default(),
		Logger: zap.NewNop(),
	}, stdout, stderr
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func appendFile(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = f.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

// --- Tail Command Tests ---

func TestExecute_Tail(t *testing.T) {
	path := writeFile(t, "a\nb\nc\n")

	tests := []struct {
		name string
		args []string
		cfg  func(*config.Config)
		want string
	}{
		{"default line count", []string{path}, nil, "a\nb\nc\n"},
		{"explicit line count", []string{"-n", "2", path}, nil, "b\nc\n"},
		{"long flag", []string{"--num-lines=1", path}, nil, "c\n"},
		{"zero lines", []string{"-n", "0", path}, nil, ""},
		{"explicit tail command", []string{"tail", "-n", "1", path}, nil, "c\n"},
		{"line count from config", []string{path}, func(c *config.Config) { c.Defaults.NumLines = 1 }, "c\n"},
		{"flag wins over config", []string{"-n", "2", path}, func(c *config.Config) { c.Defaults.NumLines = 1 }, "b\nc\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			globals, stdout, stderr := testGlobals("")
			cfg := config.Default()
			if tt.cfg != nil {
				tt.cfg(cfg)
			}

			code := Execute(tt.args, globals, cfg)
			require.Equal(t, 0, code, stderr.String())
			assert.Equal(t, tt.want, stdout.String())
		})
	}
}

func TestExecute_TailNDJSON(t *testing.T) {
	path := writeFile(t, "first\nsecond")
	globals, stdout, _ := testGlobals("")

	code := Execute([]string{"--format", "ndjson", "-n", "2", path}, globals, config.Default())
	require.Equal(t, 0, code)

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "line", gjson.Get(lines[0], "type").String())
	assert.Equal(t, "first", gjson.Get(lines[0], "text").String())
	assert.Equal(t, "tail", gjson.Get(lines[0], "origin").String())
	assert.Equal(t, path, gjson.Get(lines[0], "source").String())
	assert.Equal(t, "second", gjson.Get(lines[1], "text").String())
	assert.Equal(t, int64(6), gjson.Get(lines[1], "offset").Int())
}

func TestExecute_Errors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.log")

	t.Run("missing file in text format", func(t *testing.T) {
		globals, stdout, stderr := testGlobals("")

		code := Execute([]string{missing}, globals, config.Default())
		assert.Equal(t, 1, code)
		assert.Empty(t, stdout.String())
		assert.Contains(t, stderr.String(), "Error [FILE_NOT_FOUND]: cannot open "+missing)
		assert.Contains(t, stderr.String(), "Hint:")
	})

	t.Run("missing file in ndjson format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("")

		code := Execute([]string{"--format=ndjson", missing}, globals, config.Default())
		assert.Equal(t, 1, code)

		res := gjson.Parse(strings.TrimSpace(stdout.String()))
		assert.Equal(t, "error", res.Get("type").String())
		assert.Equal(t, "FILE_NOT_FOUND", res.Get("code").String())
	})

	t.Run("illegal offset", func(t *testing.T) {
		path := writeFile(t, "a\n")
		globals, _, stderr := testGlobals("")

		code := Execute([]string{"--num-lines=abc", path}, globals, config.Default())
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr.String(), "illegal offset: abc")
	})

	t.Run("negative offset", func(t *testing.T) {
		path := writeFile(t, "a\n")
		globals, _, stderr := testGlobals("")

		code := Execute([]string{"--num-lines=-3", path}, globals, config.Default())
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr.String(), "illegal offset: -3")
	})

	t.Run("directory", func(t *testing.T) {
		globals, _, stderr := testGlobals("")

		code := Execute([]string{t.TempDir()}, globals, config.Default())
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr.String(), "Error [OPEN_ERROR]")
	})

	t.Run("missing file argument", func(t *testing.T) {
		globals, _, stderr := testGlobals("")

		code := Execute([]string{"-n", "2"}, globals, config.Default())
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr.String(), "trunk: error:")
	})

	t.Run("unknown format", func(t *testing.T) {
		globals, _, stderr := testGlobals("")

		code := Execute([]string{"--format", "yaml", "x.log"}, globals, config.Default())
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr.String(), "yaml")
	})
}

func TestExecute_HelpAndVersion(t *testing.T) {
	t.Run("help exits zero", func(t *testing.T) {
		globals, stdout, _ := testGlobals("")

		code := Execute([]string{"--help"}, globals, config.Default())
		assert.Equal(t, 0, code)
		assert.Contains(t, stdout.String(), "Usage: trunk")
	})

	t.Run("version exits zero", func(t *testing.T) {
		globals, stdout, _ := testGlobals("")

		code := Execute([]string{"-V"}, globals, config.Default())
		assert.Equal(t, 0, code)
		assert.Equal(t, "trunk "+Version+" ("+Commit+")\n", stdout.String())
	})
}

func TestExecute_Stdin(t *testing.T) {
	t.Run("prints last lines", func(t *testing.T) {
		globals, stdout, _ := testGlobals("")
		globals.Stdin = strings.NewReader("1\n2\n3\n")

		code := Execute([]string{"-n", "2", "-"}, globals, config.Default())
		require.Equal(t, 0, code)
		assert.Equal(t, "2\n3\n", stdout.String())
	})

	t.Run("follow is ignored with a warning", func(t *testing.T) {
		globals, stdout, stderr := testGlobals("")
		globals.Stdin = strings.NewReader("1\n2\n")

		code := Execute([]string{"-f", "-n", "1", "-"}, globals, config.Default())
		require.Equal(t, 0, code)
		assert.Equal(t, "2\n", stdout.String())
		assert.Contains(t, stderr.String(), "stdin cannot be followed")
	})

	t.Run("quiet drops the warning", func(t *testing.T) {
		globals, _, stderr := testGlobals("")
		globals.Stdin = strings.NewReader("1\n")

		code := Execute([]string{"-q", "-s", "x", "-"}, globals, config.Default())
		require.Equal(t, 0, code)
		assert.Empty(t, stderr.String())
	})
}

// runFollow starts Execute in the background and returns a stop func that
// cancels it and returns its exit code.
func runFollow(t *testing.T, args []string) (*syncBuffer, func() int) {
	t.Helper()
	stdout := &syncBuffer{}
	ctx, cancel := context.WithCancel(context.Background())
	globals := &Globals{
		Stdin:   strings.NewReader(""),
		Stdout:  stdout,
		Stderr:  &syncBuffer{},
		Logger:  zap.NewNop(),
		Context: ctx,
	}

	done := make(chan int, 1)
	go func() {
		done <- Execute(args, globals, config.Default())
	}()

	return stdout, func() int {
		cancel()
		select {
		case code := <-done:
			return code
		case <-time.After(5 * time.Second):
			t.Fatal("follow did not stop after cancellation")
			return -1
		}
	}
}

func TestExecute_Follow(t *testing.T) {
	t.Run("emits appended lines", func(t *testing.T) {
		path := writeFile(t, "a\nb\nc\n")
		stdout, stop := runFollow(t, []string{"-f", "-n", "2", "--poll-interval", "5ms", path})

		require.Eventually(t, func() bool { return stdout.String() == "b\nc\n" }, 2*time.Second, 5*time.Millisecond)
		appendFile(t, path, "d\n")
		require.Eventually(t, func() bool { return stdout.String() == "b\nc\nd\n" }, 2*time.Second, 5*time.Millisecond)

		assert.Equal(t, 0, stop())
	})

	t.Run("sieve implies follow and filters", func(t *testing.T) {
		path := writeFile(t, "boot\n")
		stdout, stop := runFollow(t, []string{"-s", "ERR", "-n", "1", "--poll-interval", "5ms", path})

		require.Eventually(t, func() bool { return stdout.String() == "boot\n" }, 2*time.Second, 5*time.Millisecond)
		appendFile(t, path, "INFO ok\nERR bad\n")
		require.Eventually(t, func() bool { return strings.Contains(stdout.String(), "ERR bad") }, 2*time.Second, 5*time.Millisecond)

		assert.Equal(t, 0, stop())
		assert.Equal(t, "boot\nERR bad\n", stdout.String())
	})

	t.Run("recovers from truncation", func(t *testing.T) {
		path := writeFile(t, "old one\nold two\n")
		stdout, stop := runFollow(t, []string{"-f", "-n", "1", "--poll-interval", "5ms", path})

		require.Eventually(t, func() bool { return stdout.String() == "old two\n" }, 2*time.Second, 5*time.Millisecond)
		require.NoError(t, os.Truncate(path, 0))
		require.Eventually(t, func() bool {
			return strings.Contains(stdout.String(), "***FILE TRUNCATED: READING FROM NEW EOF***")
		}, 2*time.Second, 5*time.Millisecond)

		appendFile(t, path, "fresh\n")
		require.Eventually(t, func() bool { return strings.HasSuffix(stdout.String(), "fresh\n") }, 2*time.Second, 5*time.Millisecond)

		assert.Equal(t, 0, stop())
		assert.Equal(t, "old two\n***FILE TRUNCATED: READING FROM NEW EOF***\nfresh\n", stdout.String())
	})

	t.Run("reopens a replaced file", func(t *testing.T) {
		path := writeFile(t, "old\n")
		stdout, stop := runFollow(t, []string{"-f", "--reopen", "-n", "1", "--poll-interval", "5ms", path})

		require.Eventually(t, func() bool { return stdout.String() == "old\n" }, 2*time.Second, 5*time.Millisecond)
		require.NoError(t, os.Rename(path, path+".1"))
		require.NoError(t, os.WriteFile(path, []byte("new\n"), 0o644))

		require.Eventually(t, func() bool { return strings.HasSuffix(stdout.String(), "new\n") }, 2*time.Second, 5*time.Millisecond)
		assert.Equal(t, 0, stop())
		assert.Contains(t, stdout.String(), "***FILE REPLACED: READING FROM START***")
	})

	t.Run("ndjson stats on exit", func(t *testing.T) {
		path := writeFile(t, "boot\n")
		stdout, stop := runFollow(t, []string{"--format", "ndjson", "-f", "--stats", "--poll-interval", "5ms", path})

		require.Eventually(t, func() bool { return strings.Contains(stdout.String(), `"text":"boot"`) }, 2*time.Second, 5*time.Millisecond)
		appendFile(t, path, "x\n")
		require.Eventually(t, func() bool { return strings.Contains(stdout.String(), `"text":"x"`) }, 2*time.Second, 5*time.Millisecond)
		assert.Equal(t, 0, stop())

		lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
		last := gjson.Parse(lines[len(lines)-1])
		assert.Equal(t, "stats", last.Get("type").String())
		assert.Equal(t, int64(1), last.Get("lines_emitted").Int())
		assert.Positive(t, last.Get("polls").Int())
	})
}

func TestParseNumLines(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"0", 0, false},
		{"5", 5, false},
		{"1000000", 1000000, false},
		{"-1", 0, true},
		{"five", 0, true},
		{"", 0, true},
		{"2.5", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseNumLines(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, "illegal offset: "+tt.in, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFollowEnabled(t *testing.T) {
	assert.False(t, (&TailCmd{}).followEnabled())
	assert.True(t, (&TailCmd{Follow: true}).followEnabled())
	assert.True(t, (&TailCmd{Sieve: "ERR"}).followEnabled())
}

// --- Error Output Tests ---

func TestOutputErrorCommon(t *testing.T) {
	t.Run("text goes to stderr", func(t *testing.T) {
		globals, stdout, stderr := testGlobals("text")

		err := outputErrorCommon(globals, CodeReadError, "boom", "try again")
		require.Error(t, err)
		assert.Empty(t, stdout.String())
		assert.Equal(t, "Error [READ_ERROR]: boom\nHint: try again\n", stderr.String())

		var cliErr *CLIError
		require.ErrorAs(t, err, &cliErr)
		assert.Equal(t, CodeReadError, cliErr.Code)
		assert.Equal(t, "try again", cliErr.Hint)
	})

	t.Run("ndjson goes to stdout", func(t *testing.T) {
		globals, stdout, stderr := testGlobals("ndjson")

		_ = outputErrorCommon(globals, CodeInvalidFlags, "bad flag")
		assert.Empty(t, stderr.String())
		assert.Equal(t, "INVALID_FLAGS", gjson.Get(stdout.String(), "code").String())
		assert.False(t, gjson.Get(stdout.String(), "hint").Exists())
	})

	t.Run("cause stays reachable", func(t *testing.T) {
		globals, _, _ := testGlobals("text")
		_, openErr := source.Open(filepath.Join(t.TempDir(), "nope"))
		require.Error(t, openErr)

		err := outputCauseError(globals, codeForOpen(openErr), openErr)
		assert.ErrorIs(t, err, source.ErrNotFound)
	})
}

func TestCodeForOpen(t *testing.T) {
	assert.Equal(t, CodeFileNotFound, codeForOpen(&source.OpenError{Kind: source.ErrNotFound, Err: os.ErrNotExist}))
	assert.Equal(t, CodePermissionDenied, codeForOpen(&source.OpenError{Kind: source.ErrPermissionDenied, Err: os.ErrPermission}))
	assert.Equal(t, CodeOpenError, codeForOpen(errors.New("other")))
	assert.Empty(t, hintForOpen(errors.New("other")))
	assert.Empty(t, hintForOpen(nil))
}

// --- Config Command Tests ---

func TestConfigShowCmd_Run(t *testing.T) {
	t.Run("outputs config in text format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		cmd := &ConfigShowCmd{}

		err := cmd.Run(globals)
		require.NoError(t, err)

		out := stdout.String()
		assert.Contains(t, out, "Current Configuration:")
		assert.Contains(t, out, "format:")
		assert.Contains(t, out, "Defaults:")
		assert.Contains(t, out, "poll_interval:  100ms")
	})

	t.Run("outputs config in NDJSON format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		cmd := &ConfigShowCmd{}

		err := cmd.Run(globals)
		require.NoError(t, err)

		res := gjson.Parse(stdout.String())
		assert.Equal(t, "config", res.Get("type").String())
		assert.Equal(t, "text", res.Get("format").String())
		assert.Equal(t, int64(5), res.Get("defaults.num_lines").Int())
		assert.Equal(t, "100ms", res.Get("defaults.poll_interval").String())
	})

	t.Run("runs through Execute", func(t *testing.T) {
		globals, stdout, _ := testGlobals("")

		code := Execute([]string{"--format", "ndjson", "config"}, globals, config.Default())
		require.Equal(t, 0, code)
		assert.Equal(t, "config", gjson.Get(stdout.String(), "type").String())
	})
}

func TestConfigPathCmd_Run(t *testing.T) {
	t.Run("outputs path info in text format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		cmd := &ConfigPathCmd{}

		err := cmd.Run(globals)
		require.NoError(t, err)

		out := stdout.String()
		// Either shows the path or says no config found
		assert.True(t, strings.Contains(out, "Config file:") || strings.Contains(out, "No configuration file found"))
	})

	t.Run("outputs path info in NDJSON format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		cmd := &ConfigPathCmd{}

		require.NoError(t, cmd.Run(globals))
		res := gjson.Parse(stdout.String())
		assert.Equal(t, "config_path", res.Get("type").String())
		assert.True(t, res.Get("path").Exists())
	})
}

func TestConfigGenerateCmd_Run(t *testing.T) {
	globals, stdout, _ := testGlobals("text")
	cmd := &ConfigGenerateCmd{}

	require.NoError(t, cmd.Run(globals))

	// the sample must load back to the defaults
	path := filepath.Join(t.TempDir(), "trunk.yaml")
	require.NoError(t, os.WriteFile(path, stdout.Bytes(), 0o644))

	cfg, err := config.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

// --- Completion Command Tests ---

func TestCompletionCmd_Run(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish"} {
		t.Run(shell, func(t *testing.T) {
			globals, stdout, _ := testGlobals("text")
			cmd := &CompletionCmd{Shell: shell}

			require.NoError(t, cmd.Run(globals))
			assert.Contains(t, stdout.String(), "trunk")
			assert.Contains(t, stdout.String(), "sieve")
		})
	}

	t.Run("unsupported shell", func(t *testing.T) {
		globals, _, _ := testGlobals("text")
		err := (&CompletionCmd{Shell: "tcsh"}).Run(globals)
		assert.Error(t, err)
	})
}

// --- Root Tests ---

func TestVars(t *testing.T) {
	cfg := config.Default()
	cfg.Format = "ndjson"
	cfg.Verbose = true
	cfg.Defaults.NumLines = 12
	cfg.Defaults.PollInterval = 250 * time.Millisecond
	cfg.Defaults.Reopen = true

	vars := Vars(cfg)
	assert.Equal(t, "ndjson", vars["config_format"])
	assert.Equal(t, "false", vars["config_quiet"])
	assert.Equal(t, "true", vars["config_verbose"])
	assert.Equal(t, "12", vars["config_num_lines"])
	assert.Equal(t, "250ms", vars["config_poll_interval"])
	assert.Equal(t, "1048576", vars["config_max_line_bytes"])
	assert.Equal(t, "true", vars["config_reopen"])
	assert.Contains(t, vars["version"], "trunk ")

	assert.Equal(t, "text", Vars(nil)["config_format"])
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	quiet := newLogger(&buf, true, true)
	assert.False(t, quiet.Core().Enabled(zapcore.ErrorLevel))

	normal := newLogger(&buf, false, false)
	assert.True(t, normal.Core().Enabled(zapcore.WarnLevel))
	assert.False(t, normal.Core().Enabled(zapcore.InfoLevel))

	verbose := newLogger(&buf, true, false)
	assert.True(t, verbose.Core().Enabled(zapcore.DebugLevel))

	verbose.Warn("file truncated", zap.String("file", "app.log"))
	assert.Contains(t, buf.String(), "file truncated")
	assert.Contains(t, buf.String(), "app.log")
}

func TestNewGlobals(t *testing.T) {
	g := NewGlobals(nil)
	assert.Equal(t, os.Stdout, g.Stdout)
	assert.Equal(t, os.Stderr, g.Stderr)
	assert.Equal(t, config.Default(), g.Config)
	assert.NotNil(t, g.logger())
	assert.NotNil(t, g.context())
}
