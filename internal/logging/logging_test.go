package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  slog.Level
	}{
		{name: "default", input: "", want: slog.LevelInfo},
		{name: "debug", input: "debug", want: slog.LevelDebug},
		{name: "warn alias", input: "warning", want: slog.LevelWarn},
		{name: "error", input: "error", want: slog.LevelError},
		{name: "invalid", input: "nope", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.want {
				t.Fatalf("parseLevel(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLineRingKeepsNewestLines(t *testing.T) {
	r := NewLineRing(3)
	for _, line := range []string{"one\n", "two\n", "thr", "ee\nfour\n"} {
		_, err := r.Write([]byte(line))
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"two", "three", "four"}, r.Lines())
}

func TestLineRingPartialLineIsHeld(t *testing.T) {
	r := NewLineRing(4)
	_, _ = r.Write([]byte("half"))
	assert.Empty(t, r.Lines())
	_, _ = r.Write([]byte(" line\n"))
	assert.Equal(t, []string{"half line"}, r.Lines())
}

func TestInitWritesToRotatingFileAndRing(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(Config{Dir: dir, Level: "debug", RingLines: 10}))
	t.Cleanup(Shutdown)

	log := New("test")
	log.Debug("hello from test", "key", "value")

	data, err := os.ReadFile(filepath.Join(dir, "filecols.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
	assert.Contains(t, string(data), "component=test")

	recent := Recent()
	require.NotEmpty(t, recent)
	assert.True(t, strings.Contains(recent[len(recent)-1], "hello from test"))
}

func TestPackageLoggerFollowsLaterInit(t *testing.T) {
	early := New("early")
	dir := t.TempDir()
	require.NoError(t, Init(Config{Dir: dir, Level: "info"}))
	t.Cleanup(Shutdown)

	early.Info("after init")
	data, err := os.ReadFile(filepath.Join(dir, "filecols.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "after init")
}
