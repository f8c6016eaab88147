package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version   int           `yaml:"version"`
	RulesFile string        `yaml:"rules_file,omitempty"` // empty = built-in rules only
	RulesMode RulesMode     `yaml:"rules_mode"`
	Output    OutputConfig  `yaml:"output"`
	Logging   LoggingConfig `yaml:"logging"`
	Metrics   MetricsConfig `yaml:"metrics"`
	Watch     WatchConfig   `yaml:"watch"`
}

// OutputConfig holds report rendering settings
type OutputConfig struct {
	Format Format `yaml:"format"`
	Color  *bool  `yaml:"color,omitempty"` // nil = detect from terminal
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// MetricsConfig holds metrics output settings
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"` // Prometheus textfile path, empty = disabled
}

// WatchConfig holds file watcher settings
type WatchConfig struct {
	Debounce Duration `yaml:"debounce"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
