package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type panickingLogger struct{}

func (panickingLogger) LogInfo(string, map[string]any)    { panic("sink down") }
func (panickingLogger) LogWarning(string, map[string]any) { panic("sink down") }
func (panickingLogger) LogSystemError(error, string)      { panic("sink down") }

func TestZapLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZap(zap.New(core))

	l.LogInfo("registered positions", map[string]any{"source": "page1", "count": 3})
	l.LogWarning("unknown department", map[string]any{"department": "Lab"})
	l.LogSystemError(errors.New("boom"), "validateConsistency")

	entries := logs.All()
	require.Len(t, entries, 3)

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "registered positions", entries[0].Message)
	assert.Equal(t, "page1", entries[0].ContextMap()["source"])
	assert.EqualValues(t, 3, entries[0].ContextMap()["count"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)

	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, "validateConsistency", entries[2].ContextMap()["context"])
	assert.Equal(t, "boom", entries[2].ContextMap()["error"])
}

func TestNewZapNil(t *testing.T) {
	l := NewZap(nil)
	assert.NotPanics(t, func() {
		l.LogInfo("x", nil)
	})
}

func TestSafe(t *testing.T) {
	t.Run("absorbs panicking sink", func(t *testing.T) {
		l := Safe(panickingLogger{})
		assert.NotPanics(t, func() {
			l.LogInfo("x", nil)
			l.LogWarning("x", nil)
			l.LogSystemError(errors.New("x"), "ctx")
		})
	})

	t.Run("nil becomes nop", func(t *testing.T) {
		l := Safe(nil)
		assert.NotPanics(t, func() {
			l.LogInfo("x", nil)
		})
	})

	t.Run("does not double wrap", func(t *testing.T) {
		once := Safe(Nop())
		assert.Equal(t, once, Safe(once))
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"WARN", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := New(Options{Format: "xml"})
	assert.Error(t, err)
}
