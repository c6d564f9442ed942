// Package logging builds the CLI's slog logger: a text handler on the
// console plus an optional size-rotated log file.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	platformerrors "github.com/jmgilman/gitsession/errors"
)

// Rotation defaults for the log file.
const (
	DefaultMaxSize    = 10 // megabytes
	DefaultMaxBackups = 3
	DefaultMaxAge     = 30 // days
)

// Options configures New.
type Options struct {
	// Level is the console level: debug, info, warn or error.
	Level string

	// JSON switches the console handler to JSON.
	JSON bool

	// File, if set, receives every record at debug level through a
	// lumberjack rotating writer.
	File       string
	MaxSize    int
	MaxBackups int
	MaxAge     int
}

// Logger is an slog.Logger that owns an optional log file.
type Logger struct {
	*slog.Logger
	file io.Closer
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// New builds a Logger writing to console at opts.Level.
func New(console io.Writer, opts Options) (*Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(console, handlerOpts)
	} else {
		handler = slog.NewTextHandler(console, handlerOpts)
	}

	if opts.File == "" {
		return &Logger{Logger: slog.New(handler)}, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o750); err != nil {
		return nil, platformerrors.Wrapf(err, platformerrors.CodeInvalidConfig, "failed to create log directory for %s", opts.File)
	}

	file := newRotatingFile(opts)
	fileHandler := slog.NewTextHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug})

	return &Logger{
		Logger: slog.New(&fanout{handlers: []slog.Handler{handler, fileHandler}}),
		file:   file,
	}, nil
}

func newRotatingFile(opts Options) *lumberjack.Logger {
	file := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    DefaultMaxSize,
		MaxBackups: DefaultMaxBackups,
		MaxAge:     DefaultMaxAge,
	}
	if opts.MaxSize > 0 {
		file.MaxSize = opts.MaxSize
	}
	if opts.MaxBackups > 0 {
		file.MaxBackups = opts.MaxBackups
	}
	if opts.MaxAge > 0 {
		file.MaxAge = opts.MaxAge
	}
	return file
}

// ParseLevel maps a level name to an slog.Level. An empty name is info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, platformerrors.Newf(platformerrors.CodeInvalidConfig, "unknown log level %q", s)
}

// fanout sends each record to every handler that accepts its level.
type fanout struct {
	handlers []slog.Handler
}

func (f *fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *fanout) Handle(ctx context.Context, record slog.Record) error {
	for _, h := range f.handlers {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (f *fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &fanout{handlers: handlers}
}

func (f *fanout) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &fanout{handlers: handlers}
}
