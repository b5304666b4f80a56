package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the process logger.
type Options struct {
	Env   string // "development" selects the text handler
	Level string
	File  string // rotating file sink in addition to stdout; empty disables it
}

// Init builds the logger, installs it as the slog default and returns a closer for the file sink.
func Init(opts Options) (*slog.Logger, io.Closer) {
	var out io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, lj)
		closer = lj
	}
	logger := New(out, opts.Env, opts.Level)
	slog.SetDefault(logger)
	return logger, closer
}

// New returns a text logger in development and a JSON logger otherwise.
func New(w io.Writer, env, level string) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if env == "development" {
		return slog.New(slog.NewTextHandler(w, hopts))
	}
	return slog.New(slog.NewJSONHandler(w, hopts))
}

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

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
