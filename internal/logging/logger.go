package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type config struct {
	out  io.Writer
	json bool
}

// Option configures New.
type Option func(*config)

// WithJSON switches the handler to JSON lines.
func WithJSON() Option {
	return func(c *config) {
		c.json = true
	}
}

// WithOutput redirects the log output.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		c.out = w
	}
}

// New creates a configured application logger.
// It writes to Stderr unless redirected, so command output on Stdout stays clean.
// It standardizes common keys (e.g., "error" -> "err").
func New(level slog.Level, opts ...Option) *slog.Logger {
	cfg := config{out: os.Stderr}
	for _, opt := range opts {
		opt(&cfg)
	}

	hopts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}
	if cfg.json {
		return slog.New(slog.NewJSONHandler(cfg.out, hopts))
	}
	return slog.New(slog.NewTextHandler(cfg.out, hopts))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps "debug", "info", "warn" and "error" to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
