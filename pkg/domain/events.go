package domain

import (
	"context"
	"time"
)

// RunOutcome describes how a run ended.
type RunOutcome string

const (
	OutcomeCompleted  RunOutcome = "completed"
	OutcomeCancelled  RunOutcome = "cancelled"
	OutcomeSuperseded RunOutcome = "superseded" // A newer run took over before this one finished.
)

// RunEvent represents the start or end of a run.
type RunEvent struct {
	Timestamp  time.Time     `json:"timestamp"`
	RunID      string        `json:"run_id"`
	Generation uint64        `json:"generation"`
	Blocks     int           `json:"blocks"`
	Outcome    RunOutcome    `json:"outcome,omitempty"`
	Duration   time.Duration `json:"duration,omitempty"`
}

// BlockEvent represents entry into or exit from a block.
type BlockEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	RunID     string        `json:"run_id"`
	Index     int           `json:"index"`
	Block     Block         `json:"block"`
	Duration  time.Duration `json:"duration,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks are serialized in commit order and may read engine state, but must not
// start or stop runs synchronously.
type LifecycleHooks struct {
	OnRunStart   func(context.Context, *RunEvent)
	OnRunFinish  func(context.Context, *RunEvent)
	OnBlockEnter func(context.Context, *BlockEvent)
	OnBlockLeave func(context.Context, *BlockEvent)
	OnFrame      func(context.Context, *Frame)
}
