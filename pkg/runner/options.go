package runner

import (
	"log/slog"
	"time"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithHandler configures how frames are presented.
func WithHandler(handler FrameHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithTimeout stops the run cooperatively once d has elapsed. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.Timeout = d
	}
}
