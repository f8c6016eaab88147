package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseRulesMode(t *testing.T) {
	tests := []struct {
		input string
		want  RulesMode
	}{
		{"merge", RulesModeMerge},
		{"replace", RulesModeReplace},
		{"REPLACE", RulesModeReplace},
		{"invalid", RulesModeMerge}, // Default
		{"", RulesModeMerge},        // Default
	}

	for _, tt := range tests {
		if got := ParseRulesMode(tt.input); got != tt.want {
			t.Errorf("ParseRulesMode(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
		ok    bool
	}{
		{"text", FormatText, true},
		{"JSON", FormatJSON, true},
		{"yaml", FormatYAML, true},
		{"md", FormatMarkdown, true},
		{"markdown", FormatMarkdown, true},
		{"html", FormatHTML, true},
		{"pdf", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseFormat(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseFormat(%q) = %s, %v; want %s, %v", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.RulesMode != RulesModeMerge {
		t.Errorf("RulesMode = %s, want merge", cfg.RulesMode)
	}
	if cfg.Output.Format != FormatText {
		t.Errorf("Output.Format = %s, want text", cfg.Output.Format)
	}
	if cfg.Watch.Debounce.Duration() != DefaultDebounce {
		t.Errorf("Watch.Debounce = %s, want %s", cfg.Watch.Debounce.Duration(), DefaultDebounce)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"rules mode", func(c *Config) { c.RulesMode = "append" }},
		{"output format", func(c *Config) { c.Output.Format = "pdf" }},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestColorEnabled(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.ColorEnabled(true) || cfg.ColorEnabled(false) {
		t.Error("unset color should follow terminal detection")
	}

	off := false
	cfg.Output.Color = &off
	if cfg.ColorEnabled(true) {
		t.Error("explicit color: false should win over terminal detection")
	}
}

func TestSaveAndLoad(t *testing.T) {
	// Create temp directory
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	// Create and save config
	cfg := DefaultConfig()
	cfg.RulesFile = "rules.yaml"
	cfg.RulesMode = RulesModeReplace
	cfg.Output.Format = FormatJSON
	cfg.Metrics.Textfile = "/var/lib/node_exporter/workforce.prom"
	cfg.Watch.Debounce = Duration(time.Second)

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	// Load config
	loaded, path, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if path != configPath {
		t.Errorf("path = %s, want %s", path, configPath)
	}

	// Verify values
	if want := filepath.Join(tmpDir, "rules.yaml"); loaded.RulesFile != want {
		t.Errorf("RulesFile = %s, want %s", loaded.RulesFile, want)
	}
	if loaded.RulesMode != RulesModeReplace {
		t.Errorf("RulesMode = %s, want replace", loaded.RulesMode)
	}
	if loaded.Output.Format != FormatJSON {
		t.Errorf("Output.Format = %s, want json", loaded.Output.Format)
	}
	if loaded.Metrics.Textfile != cfg.Metrics.Textfile {
		t.Errorf("Metrics.Textfile = %s, want %s", loaded.Metrics.Textfile, cfg.Metrics.Textfile)
	}
	if loaded.Watch.Debounce.Duration() != time.Second {
		t.Errorf("Watch.Debounce = %s, want 1s", loaded.Watch.Debounce.Duration())
	}
}

func TestLoadFromPath_AppliesDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("output:\n  format: markdown\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if cfg.Output.Format != FormatMarkdown {
		t.Errorf("Output.Format = %s, want markdown", cfg.Output.Format)
	}
	if cfg.RulesMode != RulesModeMerge || cfg.Logging.Level != "warn" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadFromPath_Invalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("rules_mode: sideways\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := LoadFromPath(configPath); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("LoadFromPath() = %v, want ErrInvalidConfig", err)
	}

	if err := os.WriteFile(configPath, []byte("watch:\n  debounce: soon\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := LoadFromPath(configPath); err == nil {
		t.Error("LoadFromPath() should reject an unparseable duration")
	}
}

func TestFindConfigPath(t *testing.T) {
	// Create temp directory with config
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	cfg := DefaultConfig()
	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	// Set working directory to temp
	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Chdir() error: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWd) })

	// Should find config in working directory
	found := FindConfigPath()
	if found == "" {
		t.Error("FindConfigPath() should find config in working directory")
	}

	// Explicit path doesn't exist, should fall back
	t.Setenv(EnvConfigPath, "/nonexistent/path.yaml")
	found = FindConfigPath()
	if found == "" {
		t.Error("FindConfigPath() should fall back when env path doesn't exist")
	}

	// Explicit path wins when it exists
	explicit := filepath.Join(t.TempDir(), "explicit.yaml")
	if err := cfg.Save(explicit); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	t.Setenv(EnvConfigPath, explicit)
	if found := FindConfigPath(); found != explicit {
		t.Errorf("FindConfigPath() = %s, want %s", found, explicit)
	}
}

func TestDuration(t *testing.T) {
	d := Duration(5 * time.Minute)

	if d.Duration() != 5*time.Minute {
		t.Errorf("Duration() = %s, want 5m", d.Duration())
	}

	// Test YAML marshaling
	marshaled, err := d.MarshalYAML()
	if err != nil {
		t.Fatalf("MarshalYAML() error: %v", err)
	}
	if marshaled != "5m0s" {
		t.Errorf("MarshalYAML() = %v, want 5m0s", marshaled)
	}
}

func TestSearchPaths(t *testing.T) {
	t.Setenv(EnvConfigPath, "/tmp/explicit.yaml")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	t.Setenv("HOME", "/home/planner")

	paths := SearchPaths()
	if len(paths) != 5 {
		t.Fatalf("SearchPaths() returned %d paths, want 5: %v", len(paths), paths)
	}
	if paths[0] != "/tmp/explicit.yaml" {
		t.Errorf("first path = %s, want the explicit path", paths[0])
	}
	if paths[2] != filepath.Join("/xdg", ConfigDirName, "config.yaml") {
		t.Errorf("XDG path = %s", paths[2])
	}
	if paths[4] != filepath.Join("/etc", ConfigDirName, "config.yaml") {
		t.Errorf("last path = %s, want the system path", paths[4])
	}

	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", "")
	if got := len(SearchPaths()); got != 3 {
		t.Errorf("SearchPaths() without env returned %d paths, want 3", got)
	}
}
