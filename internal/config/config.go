// Package config provides configuration management for workforce.
//
// The config file holds how the tool runs (rules file, output, logging,
// metrics); position data is always passed on the command line.
//
// Config file locations (priority order):
//  1. $WORKFORCE_CONFIG
//  2. ./workforce.yaml
//  3. ~/.config/workforce/config.yaml
//  4. /etc/workforce/config.yaml
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultDebounce is the watch debounce used when none is configured
const DefaultDebounce = 250 * time.Millisecond

// ErrInvalidConfig is wrapped by every Validate failure
var ErrInvalidConfig = errors.New("invalid config")

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path. A relative rules_file is
// resolved against the config file's directory.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if cfg.RulesFile != "" && !filepath.IsAbs(cfg.RulesFile) {
		cfg.RulesFile = filepath.Join(filepath.Dir(path), cfg.RulesFile)
	}

	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Version:   1,
		RulesMode: RulesModeMerge,
		Output:    OutputConfig{Format: FormatText},
		Logging:   LoggingConfig{Level: "warn", Format: "console"},
		Watch:     WatchConfig{Debounce: Duration(DefaultDebounce)},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.RulesMode == "" {
		c.RulesMode = RulesModeMerge
	}
	if c.Output.Format == "" {
		c.Output.Format = FormatText
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "warn"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Watch.Debounce <= 0 {
		c.Watch.Debounce = Duration(DefaultDebounce)
	}
}

// Validate checks enumerated settings
func (c *Config) Validate() error {
	if !c.RulesMode.IsValid() {
		return fmt.Errorf("%w: rules_mode %q (want merge or replace)", ErrInvalidConfig, c.RulesMode)
	}
	if _, ok := ParseFormat(string(c.Output.Format)); !ok {
		return fmt.Errorf("%w: output.format %q", ErrInvalidConfig, c.Output.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: logging.level %q", ErrInvalidConfig, c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: logging.format %q (want console or json)", ErrInvalidConfig, c.Logging.Format)
	}
	return nil
}

// ColorEnabled resolves the color setting; isTerminal is used when unset
func (c *Config) ColorEnabled(isTerminal bool) bool {
	if c.Output.Color != nil {
		return *c.Output.Color
	}
	return isTerminal
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	rules := "built-in"
	if c.RulesFile != "" {
		rules = fmt.Sprintf("%s (%s)", c.RulesFile, c.RulesMode)
	}
	summary := fmt.Sprintf("Rules: %s\n", rules)
	summary += fmt.Sprintf("Output: %s, Log: %s/%s\n", c.Output.Format, c.Logging.Level, c.Logging.Format)
	if c.Metrics.Textfile != "" {
		summary += fmt.Sprintf("Metrics: %s\n", c.Metrics.Textfile)
	}
	summary += fmt.Sprintf("Watch debounce: %s", c.Watch.Debounce.Duration())
	return summary
}
