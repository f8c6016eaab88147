// Package logging provides the logging collaborator used by the validators.
//
// Validators only see the narrow Logger interface. Zap adapts a *zap.Logger,
// Nop discards everything, and Safe shields callers from a sink that panics.
package logging

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the observability sink for validation code
type Logger interface {
	LogInfo(msg string, details map[string]any)
	LogWarning(msg string, details map[string]any)
	LogSystemError(err error, context string)
}

// Zap adapts a zap logger to Logger
type Zap struct {
	logger *zap.Logger
}

// NewZap wraps a zap logger. A nil logger discards output.
func NewZap(logger *zap.Logger) *Zap {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Zap{logger: logger}
}

// LogInfo logs at info level
func (z *Zap) LogInfo(msg string, details map[string]any) {
	z.logger.Info(msg, fields(details)...)
}

// LogWarning logs at warn level
func (z *Zap) LogWarning(msg string, details map[string]any) {
	z.logger.Warn(msg, fields(details)...)
}

// LogSystemError logs an internal failure at error level
func (z *Zap) LogSystemError(err error, context string) {
	z.logger.Error("system error", zap.String("context", context), zap.Error(err))
}

// Zap returns the underlying zap logger
func (z *Zap) Zap() *zap.Logger {
	return z.logger
}

// fields converts details to zap fields in key order, so log lines are stable
func fields(details map[string]any) []zap.Field {
	if len(details) == 0 {
		return nil
	}
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		out = append(out, zap.Any(k, details[k]))
	}
	return out
}

type nop struct{}

func (nop) LogInfo(string, map[string]any)    {}
func (nop) LogWarning(string, map[string]any) {}
func (nop) LogSystemError(error, string)      {}

// Nop returns a Logger that discards everything
func Nop() Logger {
	return nop{}
}

type safe struct {
	next Logger
}

// Safe wraps a logger so that a panicking or nil sink is ignored
func Safe(l Logger) Logger {
	if l == nil {
		return Nop()
	}
	if s, ok := l.(safe); ok {
		return s
	}
	return safe{next: l}
}

func (s safe) LogInfo(msg string, details map[string]any) {
	defer func() { _ = recover() }()
	s.next.LogInfo(msg, details)
}

func (s safe) LogWarning(msg string, details map[string]any) {
	defer func() { _ = recover() }()
	s.next.LogWarning(msg, details)
}

func (s safe) LogSystemError(err error, context string) {
	defer func() { _ = recover() }()
	s.next.LogSystemError(err, context)
}

// Options configures New
type Options struct {
	Level  string // debug, info, warn, error
	Format string // console or json
}

// New builds a zap logger writing to stderr
func New(opts Options) (*zap.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var cfg zap.Config
	switch strings.ToLower(opts.Format) {
	case "", "console":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		cfg.DisableStacktrace = true
	case "json":
		cfg = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// ParseLevel parses a level name; empty means info
func ParseLevel(s string) (zapcore.Level, error) {
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}
