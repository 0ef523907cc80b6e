package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Global settings
	Format  string `mapstructure:"format"`
	Quiet   bool   `mapstructure:"quiet"`
	Verbose bool   `mapstructure:"verbose"`

	// Default values for the tail command
	Defaults DefaultsConfig `mapstructure:"defaults"`
}

// DefaultsConfig holds default values for the tail command
type DefaultsConfig struct {
	NumLines     int           `mapstructure:"num_lines"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	MaxLineBytes int           `mapstructure:"max_line_bytes"`
	Reopen       bool          `mapstructure:"reopen"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Format:  "text",
		Quiet:   false,
		Verbose: false,
		Defaults: DefaultsConfig{
			NumLines:     5,
			PollInterval: 100 * time.Millisecond,
			MaxLineBytes: 1024 * 1024,
		},
	}
}

// Load loads configuration from files and environment
// Config file search order (highest precedence first):
// 1. ./.trunk.yaml or ./.trunk.yml
// 2. ~/.trunk.yaml or ~/.trunk.yml
// 3. $XDG_CONFIG_HOME/trunk/config.yaml (or ~/.config/trunk/config.yaml)
// 4. /etc/trunk/config.yaml
func Load() (*Config, error) {
	cfg := Default()

	if configFile := findConfigFile(); configFile != "" {
		loaded, err := LoadFromFile(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile searches for config file in standard locations
func findConfigFile() string {
	names := []string{".trunk.yaml", ".trunk.yml", "trunk.yaml", "trunk.yml"}

	home, homeErr := os.UserHomeDir()
	configDir, configDirErr := os.UserConfigDir()

	var searchPaths []string

	// 1. Current directory
	if cwd, err := os.Getwd(); err == nil {
		searchPaths = append(searchPaths, cwd)
	}

	// 2. Home directory
	if homeErr == nil {
		searchPaths = append(searchPaths, home)
	}

	for _, dir := range searchPaths {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}

	// 3. Config directory (e.g., ~/.config/trunk/config.yaml)
	// 4. System config
	var configDirs []string
	if configDirErr == nil {
		configDirs = append(configDirs, filepath.Join(configDir, "trunk"))
	}
	configDirs = append(configDirs, "/etc/trunk")

	for _, dir := range configDirs {
		path := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("TRUNK_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("TRUNK_QUIET"); v == "true" || v == "1" {
		cfg.Quiet = true
	}
	if v := os.Getenv("TRUNK_VERBOSE"); v == "true" || v == "1" {
		cfg.Verbose = true
	}
	if v := os.Getenv("TRUNK_NUM_LINES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid TRUNK_NUM_LINES %q: %w", v, err)
		}
		cfg.Defaults.NumLines = n
	}
	if v := os.Getenv("TRUNK_POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TRUNK_POLL_INTERVAL %q: %w", v, err)
		}
		cfg.Defaults.PollInterval = d
	}
	if v := os.Getenv("TRUNK_REOPEN"); v == "true" || v == "1" {
		cfg.Defaults.Reopen = true
	}
	return nil
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var errs []error
	if c.Format != "text" && c.Format != "ndjson" {
		errs = append(errs, fmt.Errorf("format must be text or ndjson, got %q", c.Format))
	}
	if c.Defaults.NumLines < 0 {
		errs = append(errs, fmt.Errorf("defaults.num_lines must not be negative, got %d", c.Defaults.NumLines))
	}
	if c.Defaults.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("defaults.poll_interval must be positive, got %s", c.Defaults.PollInterval))
	}
	if c.Defaults.MaxLineBytes <= 0 {
		errs = append(errs, fmt.Errorf("defaults.max_line_bytes must be positive, got %d", c.Defaults.MaxLineBytes))
	}
	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ConfigFile returns the path to the config file that would be loaded
func ConfigFile() string {
	return findConfigFile()
}
