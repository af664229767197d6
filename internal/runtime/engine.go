package runtime

import (
	"context"
	"log/slog"
	"math"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/robotstudio/internal/logging"
	"github.com/aretw0/robotstudio/pkg/domain"
	"github.com/google/uuid"
)

// Timing constants, expressed at time scale 1.
const (
	DefaultSettleDelay = 500 * time.Millisecond
	MoveSteps          = 20
	MoveStepDelay      = 50 * time.Millisecond
	MoveDecay          = 0.95
	WaitUnit           = time.Second
)

// Engine interprets block programs against a single live robot state and
// execution log. Only the most recently started run may mutate either.
//
// Hooks must not call Run or Stop synchronously: they are invoked while the
// engine serializes publication.
type Engine struct {
	mu      sync.RWMutex
	state   *domain.RobotState
	journal journal
	gen     uint64
	seq     uint64
	current *Run

	// emitMu keeps frames delivered to hooks in commit order.
	// Writers take it before mu, so hooks may still read state.
	emitMu sync.Mutex

	hooks  domain.LifecycleHooks
	logger *slog.Logger
	random Random
	sleep  Sleeper
	scale  float64
	settle time.Duration
	rules  map[domain.BlockType]rule
}

// EngineOption defines a functional option for configuring the Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRandom sets the noise source used by simulated sensors.
func WithRandom(r Random) EngineOption {
	return func(e *Engine) {
		if r != nil {
			e.random = &lockedRandom{src: r}
		}
	}
}

// WithSleeper replaces the suspension primitive (tests use an instant one).
func WithSleeper(s Sleeper) EngineOption {
	return func(e *Engine) {
		if s != nil {
			e.sleep = s
		}
	}
}

// WithTimeScale multiplies every simulated duration. 1 is real time, 0 is instant.
func WithTimeScale(scale float64) EngineOption {
	return func(e *Engine) {
		if scale >= 0 {
			e.scale = scale
		}
	}
}

// WithSettleDelay overrides the pause inserted after every block.
func WithSettleDelay(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d >= 0 {
			e.settle = d
		}
	}
}

// NewEngine creates an idle engine with a clean baseline state.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		state:  domain.NewRobotState(),
		logger: logging.NewNop(),
		random: &lockedRandom{src: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))},
		sleep:  Sleep,
		scale:  1,
		settle: DefaultSettleDelay,
		rules:  defaultRules(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run starts executing blocks on a new goroutine and returns immediately.
// A run that is still active is superseded: its pending suspensions are
// interrupted and it never mutates state again.
func (e *Engine) Run(blocks []domain.Block) *Run {
	ctx, cancel := context.WithCancel(context.Background())
	run := &Run{
		ID:      uuid.NewString(),
		blocks:  slices.Clone(blocks),
		ctx:     ctx,
		hookCtx: context.WithoutCancel(ctx),
		cancel:  cancel,
		done:    make(chan struct{}),
		started: time.Now(),
	}

	e.emitMu.Lock()
	e.mu.Lock()
	if prev := e.current; prev != nil {
		prev.cancel()
	}
	e.gen++
	run.Generation = e.gen
	e.current = run
	e.state.Executing = true
	e.journal.reset()
	frame := e.frameLocked(run.Generation, true, nil)
	e.mu.Unlock()

	e.logger.Info("run started", "run", run.ID, "generation", run.Generation, "blocks", len(run.blocks))
	if e.hooks.OnRunStart != nil {
		e.hooks.OnRunStart(run.hookCtx, &domain.RunEvent{
			Timestamp:  run.started,
			RunID:      run.ID,
			Generation: run.Generation,
			Blocks:     len(run.blocks),
		})
	}
	e.fireFrame(run.hookCtx, frame)
	e.emitMu.Unlock()

	go e.execute(run)
	return run
}

// Stop requests cancellation of the active run. No further block begins,
// the motion channels are reset to zero and Executing becomes false.
// A block already in flight finishes its suspensions, but its remaining
// effects are discarded.
func (e *Engine) Stop() {
	e.emitMu.Lock()
	defer e.emitMu.Unlock()
	e.mu.Lock()
	var gen uint64
	if run := e.current; run != nil {
		run.stopped = true
		gen = run.Generation
	}
	e.state.ResetMotion()
	e.state.Executing = false
	frame := e.frameLocked(gen, false, nil)
	e.mu.Unlock()

	e.logger.Debug("stop requested", "generation", gen)
	e.fireFrame(context.Background(), frame)
}

// Close stops the active run and interrupts its pending suspensions.
func (e *Engine) Close() {
	e.Stop()
	e.mu.RLock()
	run := e.current
	e.mu.RUnlock()
	if run != nil {
		run.cancel()
	}
}

// Snapshot returns a copy of the current robot state.
func (e *Engine) Snapshot() domain.RobotState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Snapshot()
}

// Log returns a copy of the execution log.
func (e *Engine) Log() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.journal.snapshot()
}

// Executing reports whether a run is in progress.
func (e *Engine) Executing() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Executing
}

// Current returns the most recently started run, or nil.
func (e *Engine) Current() *Run {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current
}

func (e *Engine) frameLocked(gen uint64, reset bool, lines []string) *domain.Frame {
	e.seq++
	return &domain.Frame{
		Sequence:   e.seq,
		Generation: gen,
		State:      e.state.Snapshot(),
		ResetLog:   reset,
		Lines:      lines,
	}
}

func (e *Engine) fireFrame(ctx context.Context, frame *domain.Frame) {
	if e.hooks.OnFrame != nil {
		e.hooks.OnFrame(ctx, frame)
	}
}

func (e *Engine) scaled(d time.Duration) time.Duration {
	f := float64(d) * e.scale
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	return time.Duration(f)
}
