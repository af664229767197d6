package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/robotstudio/pkg/domain"
)

// Run is the handle of one program execution.
type Run struct {
	ID         string
	Generation uint64

	blocks  []domain.Block
	ctx     context.Context
	hookCtx context.Context
	cancel  context.CancelFunc
	started time.Time
	done    chan struct{}

	// stopped is guarded by Engine.mu.
	stopped bool
	// outcome is written before done is closed.
	outcome domain.RunOutcome
}

// Done is closed when the run's goroutine has exited.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Outcome reports how the run ended. Only meaningful after Done is closed.
func (r *Run) Outcome() domain.RunOutcome {
	select {
	case <-r.done:
		return r.outcome
	default:
		return ""
	}
}

// Wait blocks until the run ends or ctx is done.
func (r *Run) Wait(ctx context.Context) (domain.RunOutcome, error) {
	select {
	case <-r.done:
		return r.outcome, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// status is the verdict of a commit or suspension for the calling run.
type status int

const (
	live       status = iota // keep going
	halted                   // stop was requested, the effect was discarded
	superseded               // a newer run owns the state
)

func (e *Engine) execute(run *Run) {
	defer close(run.done)
	defer run.cancel()

	st := e.loop(run)

	e.mu.RLock()
	outcome := domain.OutcomeCompleted
	switch {
	case st == live:
	case e.current != run:
		outcome = domain.OutcomeSuperseded
	default:
		outcome = domain.OutcomeCancelled
	}
	e.mu.RUnlock()
	run.outcome = outcome

	elapsed := time.Since(run.started)
	e.emitMu.Lock()
	defer e.emitMu.Unlock()
	e.logger.Info("run finished", "run", run.ID, "outcome", outcome, "elapsed", elapsed)
	if e.hooks.OnRunFinish != nil {
		e.hooks.OnRunFinish(run.hookCtx, &domain.RunEvent{
			Timestamp:  time.Now(),
			RunID:      run.ID,
			Generation: run.Generation,
			Blocks:     len(run.blocks),
			Outcome:    outcome,
			Duration:   elapsed,
		})
	}
}

func (e *Engine) loop(run *Run) status {
	for i, block := range run.blocks {
		if st := e.step(run, i, block); st != live {
			return st
		}
		if e.stopRequested(run) {
			return halted
		}
		if st := e.suspend(run, e.settle); st != live {
			return st
		}
	}
	return e.commit(run, nil, func(s *domain.RobotState, j *journal) {
		s.ResetMotion()
		s.Executing = false
		j.add("Execution completed")
	})
}

// step runs one block: the Executing line and the rule's synchronous effect
// land together, then the rule's suspending tail (if any) runs.
func (e *Engine) step(run *Run, index int, block domain.Block) status {
	r, known := e.rules[block.Type]
	if !known {
		e.logger.Debug("inert block type", "run", run.ID, "index", index, "type", block.Type)
	}
	e.logger.Debug("block started", "run", run.ID, "index", index, "type", block.Type)

	entered := time.Now()
	announce := func(ctx context.Context) {
		if e.hooks.OnBlockEnter != nil {
			e.hooks.OnBlockEnter(ctx, &domain.BlockEvent{
				Timestamp: entered,
				RunID:     run.ID,
				Index:     index,
				Block:     block,
			})
		}
	}

	st := e.commit(run, announce, func(s *domain.RobotState, j *journal) {
		j.add(fmt.Sprintf("[%d] Executing: %s", index+1, block.Label))
		if r.effect != nil {
			r.effect(e, block, s, j)
		}
	})
	if st != live {
		return st
	}

	if r.tail != nil {
		if st = r.tail(e, run, block); st == superseded {
			return st
		}
	}

	if e.hooks.OnBlockLeave != nil {
		e.emitMu.Lock()
		e.hooks.OnBlockLeave(run.hookCtx, &domain.BlockEvent{
			Timestamp: time.Now(),
			RunID:     run.ID,
			Index:     index,
			Block:     block,
			Duration:  time.Since(entered),
		})
		e.emitMu.Unlock()
	}
	return live
}

// commit applies fn to the live state under the engine lock and publishes
// the resulting frame. announce, if set, is emitted just before the frame.
// Nothing is applied for a superseded or stopped run.
func (e *Engine) commit(run *Run, announce func(context.Context), fn func(*domain.RobotState, *journal)) status {
	e.emitMu.Lock()
	defer e.emitMu.Unlock()

	e.mu.Lock()
	if e.current != run {
		e.mu.Unlock()
		return superseded
	}
	if run.stopped {
		e.mu.Unlock()
		return halted
	}
	mark := e.journal.len()
	fn(e.state, &e.journal)
	frame := e.frameLocked(run.Generation, false, e.journal.since(mark))
	e.mu.Unlock()

	if announce != nil {
		announce(run.hookCtx)
	}
	e.fireFrame(run.hookCtx, frame)
	return live
}

// suspend parks the run for d (scaled). Only supersession or Close can cut
// it short; a stop request does not.
func (e *Engine) suspend(run *Run, d time.Duration) status {
	if err := e.sleep(run.ctx, e.scaled(d)); err != nil {
		return superseded
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.current != run {
		return superseded
	}
	return live
}

func (e *Engine) stopRequested(run *Run) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return run.stopped
}
