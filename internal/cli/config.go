package cli

import (
	"encoding/json"
	"fmt"

	"github.com/vburojevic/trunk/internal/config"
)

// ConfigCmd shows or manages configuration
type ConfigCmd struct {
	Show     ConfigShowCmd     `cmd:"" default:"withargs" help:"Show current configuration"`
	Path     ConfigPathCmd     `cmd:"" help:"Show configuration file path"`
	Generate ConfigGenerateCmd `cmd:"" help:"Generate sample configuration file"`
}

// ConfigShowCmd shows current configuration
type ConfigShowCmd struct{}

// Run executes the config show command
func (c *ConfigShowCmd) Run(globals *Globals) error {
	cfg := globals.Config
	if cfg == nil {
		cfg = config.Default()
	}

	if globals.Format == "ndjson" {
		output := map[string]interface{}{
			"type":    "config",
			"format":  cfg.Format,
			"quiet":   cfg.Quiet,
			"verbose": cfg.Verbose,
			"defaults": map[string]interface{}{
				"num_lines":      cfg.Defaults.NumLines,
				"poll_interval":  cfg.Defaults.PollInterval.String(),
				"max_line_bytes": cfg.Defaults.MaxLineBytes,
				"reopen":         cfg.Defaults.Reopen,
			},
		}
		encoder := json.NewEncoder(globals.Stdout)
		return encoder.Encode(output)
	}

	// Text output
	fmt.Fprintln(globals.Stdout, "Current Configuration:")
	fmt.Fprintln(globals.Stdout, "")
	fmt.Fprintf(globals.Stdout, "  format:  %s\n", cfg.Format)
	fmt.Fprintf(globals.Stdout, "  quiet:   %v\n", cfg.Quiet)
	fmt.Fprintf(globals.Stdout, "  verbose: %v\n", cfg.Verbose)
	fmt.Fprintln(globals.Stdout, "")
	fmt.Fprintln(globals.Stdout, "Defaults:")
	fmt.Fprintf(globals.Stdout, "  num_lines:      %d\n", cfg.Defaults.NumLines)
	fmt.Fprintf(globals.Stdout, "  poll_interval:  %s\n", cfg.Defaults.PollInterval)
	fmt.Fprintf(globals.Stdout, "  max_line_bytes: %d\n", cfg.Defaults.MaxLineBytes)
	fmt.Fprintf(globals.Stdout, "  reopen:         %v\n", cfg.Defaults.Reopen)

	if path := config.ConfigFile(); path != "" {
		fmt.Fprintln(globals.Stdout, "")
		fmt.Fprintf(globals.Stdout, "Loaded from: %s\n", path)
	}

	return nil
}

// ConfigPathCmd shows config file path
type ConfigPathCmd struct{}

// Run executes the config path command
func (c *ConfigPathCmd) Run(globals *Globals) error {
	path := config.ConfigFile()

	if globals.Format == "ndjson" {
		output := map[string]interface{}{
			"type": "config_path",
			"path": path,
		}
		encoder := json.NewEncoder(globals.Stdout)
		return encoder.Encode(output)
	}

	if path == "" {
		fmt.Fprintln(globals.Stdout, "No configuration file found")
		fmt.Fprintln(globals.Stdout, "")
		fmt.Fprintln(globals.Stdout, "Create one at:")
		fmt.Fprintln(globals.Stdout, "  ./.trunk.yaml")
		fmt.Fprintln(globals.Stdout, "  ~/.trunk.yaml")
		fmt.Fprintln(globals.Stdout, "  ~/.config/trunk/config.yaml")
	} else {
		fmt.Fprintf(globals.Stdout, "Config file: %s\n", path)
	}

	return nil
}

// ConfigGenerateCmd generates a sample configuration file
type ConfigGenerateCmd struct{}

// Run executes the config generate command
func (c *ConfigGenerateCmd) Run(globals *Globals) error {
	sampleConfig := `# trunk configuration file
# Place this file at ./.trunk.yaml, ~/.trunk.yaml or ~/.config/trunk/config.yaml

# Output format: "text" (default) or "ndjson"
format: text

# Suppress diagnostics and warnings
quiet: false

# Enable debug diagnostics on stderr
verbose: false

# Default values for the tail command (flags override these)
defaults:
  # Number of lines printed before following
  num_lines: 5

  # Time between size checks while following
  poll_interval: 100ms

  # Flush an unterminated line once it exceeds this many bytes
  max_line_bytes: 1048576

  # Reopen the file by name when it is replaced (log rotation)
  reopen: false
`

	_, err := fmt.Fprint(globals.Stdout, sampleConfig)
	return err
}
