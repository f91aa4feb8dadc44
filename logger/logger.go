package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joeychilson/pdftools/config"
)

// Logger is the interface for structured logging. Implementations never write to
// stdout, which carries the command's JSON result.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// Level represents the log level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel converts a case-insensitive level name. The empty string means warn.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "", "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelWarn, fmt.Errorf("unknown log level %q", s)
	}
}

// New creates a new logger from an slog handler.
func New(handler slog.Handler) Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, nil)
	}
	return slogLogger{slog.New(handler)}
}

// NewText creates a logger with text output at the given minimum level.
func NewText(writer io.Writer, level Level) Logger {
	if writer == nil {
		writer = os.Stderr
	}
	return New(slog.NewTextHandler(writer, &slog.HandlerOptions{Level: level.toSlogLevel()}))
}

// NewJSON creates a logger with JSON output at the given minimum level.
func NewJSON(writer io.Writer, level Level) Logger {
	if writer == nil {
		writer = os.Stderr
	}
	return New(slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: level.toSlogLevel()}))
}

// FromConfig builds the logger described by cfg, writing to w.
func FromConfig(w io.Writer, cfg config.LogConfig) (Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(cfg.Format, "json") {
		return NewJSON(w, level), nil
	}
	return NewText(w, level), nil
}

// Noop returns a logger that discards everything.
func Noop() Logger {
	return noop
}
