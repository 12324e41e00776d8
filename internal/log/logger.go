// Package log builds the process logger and the component loggers derived from it.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

type Config struct {
	Level  string
	Format Format
	Output io.Writer
}

func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}

	return l, nil
}

// New returns a logger writing to cfg.Output, stderr by default.
func New(cfg Config) (*slog.Logger, error) {
	level := slog.LevelInfo
	if cfg.Level != "" {
		l, err := ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}

		level = l
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: level}

	switch cfg.Format {
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(out, opts)), nil
	case FormatText, "":
		return slog.New(slog.NewTextHandler(out, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}
}

// Component tags every record of the returned logger with the component name.
func Component(l *slog.Logger, name string) *slog.Logger {
	if l == nil {
		l = slog.Default()
	}

	return l.With(FieldComponent, name)
}
