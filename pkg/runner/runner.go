package runner

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/robotstudio/internal/logging"
	"github.com/aretw0/robotstudio/pkg/domain"
	"github.com/aretw0/robotstudio/pkg/workspace"
)

// Runner drives one workspace run from the terminal.
type Runner struct {
	// Handler is the strategy for output. Defaults to a TextHandler on stdout.
	Handler FrameHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// Timeout, if positive, stops the run after that long.
	Timeout time.Duration
}

// NewRunner creates a new Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(nil, false)
	}
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}
	return r
}

// Hooks returns the lifecycle hooks that stream frames to the handler.
// Install them on the engine of the workspace passed to Run.
func (r *Runner) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnFrame: func(ctx context.Context, f *domain.Frame) {
			if err := r.Handler.Frame(ctx, f); err != nil {
				r.Logger.Warn("failed to present frame", "seq", f.Sequence, "error", err)
			}
		},
	}
}

// Run executes the workspace program until it ends.
// The first interrupt (or the timeout) stops the run cooperatively; a second
// interrupt, or cancelling ctx, also cuts pending suspensions short.
func (r *Runner) Run(ctx context.Context, ws *workspace.Workspace) (domain.RunOutcome, error) {
	signals := NewSignalManager()
	defer signals.Stop()

	run, err := ws.Run()
	if err != nil {
		return "", err
	}

	var deadline <-chan time.Time
	if r.Timeout > 0 {
		timer := time.NewTimer(r.Timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	for {
		select {
		case <-run.Done():
			outcome := run.Outcome()
			r.Logger.Debug("run ended", "run", run.ID, "outcome", outcome)
			return outcome, r.Handler.Finish(ctx, outcome, ws.View())

		case <-deadline:
			r.Logger.Info("timeout reached, stopping run", "timeout", r.Timeout)
			ws.Stop()

		case sig := <-signals.Signals():
			switch signals.Escalate() {
			case EscalateStop:
				r.Logger.Info("interrupt received, stopping run", "signal", sig)
				ws.Stop()
			case EscalateAbort:
				r.Logger.Warn("second interrupt, aborting run", "signal", sig)
				ws.Engine().Close()
			}

		case <-ctx.Done():
			ws.Engine().Close()
			<-run.Done()
			return run.Outcome(), ctx.Err()
		}
	}
}
