package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedLogger(buf *bytes.Buffer, level Level) *Logger {
	l := New(Config{Level: level, Output: buf, Prefix: "test"})
	l.sink.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return l
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(42), "UNKNOWN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.level.String())
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel(" error "))
	assert.Equal(t, LevelInfo, ParseLevel("nonsense"))
	assert.Equal(t, LevelInfo, ParseLevel(""))
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, LevelWarn)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown %d", 1)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Equal(t, "2026-01-02T03:04:05.000 [WARN] test: shown 1\n", out)
}

func TestLoggerFieldsAreSorted(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, LevelDebug).
		WithComponent("options").
		WithFields(map[string]any{"b": 2, "a": 1})

	l.Info("switched")
	assert.True(t, strings.HasSuffix(buf.String(), "switched {a=1, b=2, component=options}\n"), buf.String())
}

func TestDerivedLoggerSharesSink(t *testing.T) {
	var buf bytes.Buffer
	parent := fixedLogger(&buf, LevelInfo)
	child := parent.WithField("k", "v")

	parent.SetLevel(LevelError)
	child.Warn("dropped")
	require.Empty(t, buf.String())

	parent.Disable()
	child.Error("dropped too")
	require.Empty(t, buf.String())

	parent.Enable()
	child.Error("kept")
	assert.Contains(t, buf.String(), "kept {k=v}")
}

func TestNullLogger(t *testing.T) {
	NullLogger.Error("nothing happens")
	var nilLogger *Logger
	nilLogger.Info("no panic")
	assert.Same(t, NullLogger, OrNull(nil))
}
