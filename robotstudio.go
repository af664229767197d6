package robotstudio

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/robotstudio/internal/logging"
	"github.com/aretw0/robotstudio/internal/runtime"
	"github.com/aretw0/robotstudio/pkg/domain"
	"github.com/aretw0/robotstudio/pkg/observability"
	"github.com/aretw0/robotstudio/pkg/ports"
)

// Run is the handle of one program execution.
type Run = runtime.Run

// Random is the noise source used by simulated sensors.
type Random = runtime.Random

// Sleeper suspends the calling run for d, returning early with ctx's error.
type Sleeper = runtime.Sleeper

// DefaultPublishTimeout bounds each snapshot store write.
const DefaultPublishTimeout = 250 * time.Millisecond

// Engine is the high-level entry point for the library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime     *runtime.Engine
	store       ports.SnapshotStore
	pubTimeout  time.Duration
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	runtimeOpts []runtime.EngineOption
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = observability.Chain(e.hooks, hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithSnapshotStore mirrors every frame into store. Publish failures are
// logged and never interrupt the run.
func WithSnapshotStore(store ports.SnapshotStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithPublishTimeout bounds each snapshot store write. Frames are published
// in commit order, so a slow store stalls the run by at most d per frame.
func WithPublishTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.pubTimeout = d
	}
}

// WithRandom sets the noise source used by read_distance and read_gyro.
func WithRandom(r Random) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithRandom(r))
	}
}

// WithSleeper replaces the suspension primitive.
func WithSleeper(s Sleeper) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithSleeper(s))
	}
}

// WithTimeScale multiplies every simulated duration (1 is real time, 0 is instant).
func WithTimeScale(scale float64) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithTimeScale(scale))
	}
}

// WithSettleDelay overrides the pause inserted after every block.
func WithSettleDelay(d time.Duration) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithSettleDelay(d))
	}
}

// New initializes an idle engine with a clean robot state.
func New(opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	// Ensure logger is initialized (so we don't pass nil to runtime)
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.pubTimeout <= 0 {
		eng.pubTimeout = DefaultPublishTimeout
	}

	hooks := eng.hooks
	if eng.store != nil {
		hooks = observability.Chain(domain.LifecycleHooks{OnFrame: eng.publish}, hooks)
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLifecycleHooks(hooks),
		runtime.WithLogger(eng.logger),
	}
	runtimeOpts = append(runtimeOpts, eng.runtimeOpts...)
	eng.runtime = runtime.NewEngine(runtimeOpts...)

	return eng
}

func (e *Engine) publish(ctx context.Context, frame *domain.Frame) {
	ctx, cancel := context.WithTimeout(ctx, e.pubTimeout)
	defer cancel()
	if err := e.store.Publish(ctx, frame); err != nil {
		e.logger.Warn("failed to publish frame", "seq", frame.Sequence, "error", err)
	}
}

// Run starts executing blocks asynchronously and returns immediately.
// A run still in progress is superseded.
func (e *Engine) Run(blocks []domain.Block) *Run {
	return e.runtime.Run(blocks)
}

// Stop cancels the active run cooperatively and resets the motion channels.
func (e *Engine) Stop() {
	e.runtime.Stop()
}

// Close stops the active run and interrupts its pending suspensions.
func (e *Engine) Close() {
	e.runtime.Close()
}

// Snapshot returns a copy of the robot state.
func (e *Engine) Snapshot() domain.RobotState {
	return e.runtime.Snapshot()
}

// Log returns a copy of the execution log.
func (e *Engine) Log() []string {
	return e.runtime.Log()
}

// Executing reports whether a run is in progress.
func (e *Engine) Executing() bool {
	return e.runtime.Executing()
}

// Current returns the most recently started run, or nil.
func (e *Engine) Current() *Run {
	return e.runtime.Current()
}

// Store returns the configured snapshot store, or nil.
func (e *Engine) Store() ports.SnapshotStore {
	return e.store
}
