package logging

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// Option configures the application logger.
type Option func(*config)

type config struct {
	console io.Writer
	json    []io.Writer
}

// WithConsole replaces the human-readable sink (default: Stderr).
func WithConsole(w io.Writer) Option {
	return func(c *config) {
		c.console = w
	}
}

// WithJSON adds a JSON sink, e.g. a log file collected by an agent.
func WithJSON(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.json = append(c.json, w)
		}
	}
}

// New creates a configured application logger.
// It writes to Stderr (to separate from the Stdout console stream) and fans
// out to any extra JSON sinks. It standardizes common keys (e.g., "error" -> "err").
func New(level slog.Leveler, opts ...Option) *slog.Logger {
	cfg := &config{console: os.Stderr}
	for _, opt := range opts {
		opt(cfg)
	}

	handlerOpts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceAttr,
	}

	handlers := []slog.Handler{slog.NewTextHandler(cfg.console, handlerOpts)}
	for _, w := range cfg.json {
		handlers = append(handlers, slog.NewJSONHandler(w, handlerOpts))
	}
	if len(handlers) == 1 {
		return slog.New(handlers[0])
	}
	return slog.New(slogmulti.Fanout(handlers...))
}

// ParseLevel maps a flag value to a slog level, defaulting to Info.
func ParseLevel(name string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	// Standardize 'error' key to 'err'
	if a.Key == "error" {
		a.Key = "err"
	}
	return a
}
