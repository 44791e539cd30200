// Package logger provides the slog logger used across ontograph, with ANSI
// level coloring for terminals: warnings yellow, errors red, persistence
// messages green.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
)

// NewDefaultLogger returns a colored console logger writing to stderr.
func NewDefaultLogger(level slog.Level) *slog.Logger {
	return New(os.Stderr, level, true)
}

// New creates a logger writing to w. Colors are disabled when color is false,
// for log files and non-TTY sinks.
func New(w io.Writer, level slog.Level, color bool) *slog.Logger {
	return slog.New(&consoleHandler{w: w, level: level, color: color})
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

type consoleHandler struct {
	w     io.Writer
	level slog.Level
	color bool
	attrs []slog.Attr
	mu    sync.Mutex
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(r.Time.Format(time.DateTime))
	sb.WriteString(" | ")
	sb.WriteString(r.Level.String())
	sb.WriteString(" | ")
	sb.WriteString(r.Message)

	for _, a := range h.attrs {
		fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value.Any())
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value.Any())
		return true
	})

	line := sb.String()
	if h.color {
		switch {
		case r.Level >= slog.LevelError:
			line = colorRed + line + colorReset
		case r.Level >= slog.LevelWarn:
			line = colorYellow + line + colorReset
		case strings.Contains(r.Message, "Persist") || strings.Contains(r.Message, "persisted"):
			line = colorGreen + line + colorReset
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintln(h.w, line)
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &consoleHandler{w: h.w, level: h.level, color: h.color, attrs: merged}
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	// Groups are flattened; the console format has no nesting.
	return h
}
