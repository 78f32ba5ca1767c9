// Package logging provides a shared, structured logger for filecols.
//
// It wraps the standard library's [log/slog] package and provides a single
// initialization point so all components share the same output handler and
// log level. The log level can be controlled at startup via the
// FILECOLS_LOG_LEVEL environment variable (debug, info, warn, error).
// If unset, the default level is INFO.
//
// Usage:
//
//	log := logging.New("view")         // creates a logger tagged with component="view"
//	log.Debug("redraw column", "level", 0)
//	log.Warn("owner lookup failed", "uid", uid, "error", err)
//
// Until Init is called, output goes to stderr. Once the terminal UI owns the
// screen, Init redirects everything into a rotating log file so log lines
// never tear the curses display. The most recent lines are also kept in
// memory (see Recent) for the in-app info panel.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelEnv names the environment variable consulted for the default level.
const LevelEnv = "FILECOLS_LOG_LEVEL"

// Config controls where Init sends log output.
type Config struct {
	// Dir is the directory holding filecols.log. Empty keeps stderr output.
	Dir string

	// Level is the minimum level: "debug", "info", "warn", "error".
	// Empty falls back to FILECOLS_LOG_LEVEL.
	Level string

	// Format is "text" (default) or "json".
	Format string

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool

	// RingLines is how many recent lines Recent returns (default 500).
	RingLines int
}

var (
	mu      sync.RWMutex
	base    *slog.Logger
	ring    = NewLineRing(500)
	rotator *lumberjack.Logger
)

// New returns a structured logger scoped to the given component name.
//
// The returned logger resolves the active handler at log time, so
// package-level loggers declared before Init still follow the file
// output configured later. If component is empty, no component attribute
// is attached.
func New(component string) *slog.Logger {
	return slog.New(&dynamicHandler{component: component})
}

// Init (re)configures the shared handler. It is safe to call more than once;
// the previous log file is closed.
func Init(cfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	if cfg.RingLines <= 0 {
		cfg.RingLines = 500
	}
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 5
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = 3
	}
	if cfg.MaxAgeDays <= 0 {
		cfg.MaxAgeDays = 14
	}
	level := cfg.Level
	if strings.TrimSpace(level) == "" {
		level = os.Getenv(LevelEnv)
	}

	if rotator != nil {
		_ = rotator.Close()
		rotator = nil
	}
	ring = NewLineRing(cfg.RingLines)

	var out io.Writer = os.Stderr
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o700); err != nil {
			return err
		}
		rotator = &lumberjack.Logger{
			Filename:   filepath.Join(cfg.Dir, "filecols.log"),
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		out = rotator
	}
	base = slog.New(newHandler(io.MultiWriter(out, ring), cfg.Format, parseLevel(level)))
	return nil
}

// Shutdown closes the log file, if any, and restores stderr output.
func Shutdown() {
	mu.Lock()
	defer mu.Unlock()
	if rotator != nil {
		_ = rotator.Close()
		rotator = nil
	}
	base = nil
}

// Recent returns the most recent log lines, oldest first.
func Recent() []string {
	mu.RLock()
	r := ring
	mu.RUnlock()
	return r.Lines()
}

func current() *slog.Logger {
	mu.RLock()
	l := base
	mu.RUnlock()
	if l != nil {
		return l
	}
	mu.Lock()
	defer mu.Unlock()
	if base == nil {
		base = slog.New(newHandler(io.MultiWriter(os.Stderr, ring), "text", parseLevel(os.Getenv(LevelEnv))))
	}
	return base
}

func newHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// parseLevel converts a human-readable log level string to a [slog.Level].
//
// Recognized values (case-insensitive, whitespace-trimmed):
//   - "debug"           → slog.LevelDebug
//   - "warn", "warning" → slog.LevelWarn
//   - "error"           → slog.LevelError
//   - anything else     → slog.LevelInfo (the default)
func parseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// dynamicHandler delegates to whatever handler Init installed last.
type dynamicHandler struct {
	component string
	attrs     []slog.Attr
	group     string
}

func (h *dynamicHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return current().Handler().Enabled(ctx, level)
}

func (h *dynamicHandler) Handle(ctx context.Context, r slog.Record) error {
	handler := current().Handler()
	if h.component != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String("component", h.component)})
	}
	if len(h.attrs) > 0 {
		handler = handler.WithAttrs(h.attrs)
	}
	if h.group != "" {
		handler = handler.WithGroup(h.group)
	}
	return handler.Handle(ctx, r)
}

func (h *dynamicHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &dynamicHandler{component: h.component, attrs: merged, group: h.group}
}

func (h *dynamicHandler) WithGroup(name string) slog.Handler {
	return &dynamicHandler{component: h.component, attrs: h.attrs, group: name}
}
