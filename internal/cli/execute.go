package cli

import (
	"errors"
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/vburojevic/trunk/internal/config"
)

const description = `Print the last lines of a file and follow what is appended to it.

  trunk app.log                 last 5 lines
  trunk -n 20 -f app.log        last 20 lines, then follow
  trunk -s ERROR app.log        follow, printing only lines containing ERROR`

// exitCode unwinds kong's Exit calls back into Execute
type exitCode int

// Execute parses args, runs the selected command and returns the process
// exit code: 0 on success, help and version, 1 on any error.
func Execute(args []string, globals *Globals, cfg *config.Config) (code int) {
	var c CLI

	defer func() {
		if r := recover(); r != nil {
			ec, ok := r.(exitCode)
			if !ok {
				panic(r)
			}
			code = int(ec)
		}
	}()

	parser, err := kong.New(&c,
		kong.Name("trunk"),
		kong.Description(description),
		kong.Writers(globals.Stdout, globals.Stderr),
		kong.Exit(func(code int) { panic(exitCode(code)) }),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		Vars(cfg),
	)
	if err != nil {
		fmt.Fprintf(globals.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		var perr *kong.ParseError
		if errors.As(err, &perr) && perr.Context != nil {
			_ = perr.Context.PrintUsage(true)
		}
		fmt.Fprintf(globals.Stderr, "trunk: error: %v\n", err)
		return 1
	}

	globals.Format = c.Format
	globals.Quiet = c.Quiet
	globals.Verbose = c.Verbose
	if globals.Config == nil {
		globals.Config = cfg
	}
	if globals.Logger == nil {
		globals.Logger = newLogger(globals.Stderr, c.Verbose, c.Quiet)
	}
	defer func() { _ = globals.Logger.Sync() }()

	if err := ctx.Run(globals); err != nil {
		globals.Debug("command failed: %v", err)
		return 1
	}
	return 0
}
