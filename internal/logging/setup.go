package logging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation parameters for the file handler.
const (
	// MaxFileSizeMB is the size threshold at which the log file is rotated.
	MaxFileSizeMB = 10

	// MaxBackups is the number of rotated files kept on disk.
	MaxBackups = 5
)

// Options configures the process-wide logger built by Setup.
type Options struct {
	// Level is the minimum level for the console handler: debug, info,
	// warn or error. The file handler always records at debug level.
	Level string

	// FilePath is the path of the rotating log file. Empty disables the
	// file handler (console only).
	FilePath string

	// Console is the writer for the console handler. Defaults to stderr.
	Console *os.File
}

// Setup builds the process-wide slog logger and installs it as the default.
// It returns the logger and a close function that flushes the file handler.
func Setup(opts Options) (*slog.Logger, func() error, error) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(console, &slog.HandlerOptions{Level: ParseLevel(opts.Level)}),
	}

	closeFn := func() error { return nil }

	if opts.FilePath != "" {
		if dir := filepath.Dir(opts.FilePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, err
			}
		}
		rotator := &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    MaxFileSizeMB,
			MaxBackups: MaxBackups,
		}
		handlers = append(handlers, slog.NewJSONHandler(rotator, &slog.HandlerOptions{Level: slog.LevelDebug}))
		closeFn = rotator.Close
	}

	logger := slog.New(fanout(handlers...))
	slog.SetDefault(logger)
	return logger, closeFn, nil
}

// ParseLevel converts a level name to an slog.Level. Unknown names map
// to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// fanoutHandler duplicates records to multiple handlers, each with its own
// level filtering.
type fanoutHandler struct {
	handlers []slog.Handler
}

func fanout(handlers ...slog.Handler) slog.Handler {
	return &fanoutHandler{handlers: handlers}
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, hh := range h.handlers {
		if hh.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, hh := range h.handlers {
		if !hh.Enabled(ctx, record.Level) {
			continue
		}
		if err := hh.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, hh := range h.handlers {
		next[i] = hh.WithAttrs(attrs)
	}
	return &fanoutHandler{handlers: next}
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, hh := range h.handlers {
		next[i] = hh.WithGroup(name)
	}
	return &fanoutHandler{handlers: next}
}
