package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/robotstudio/pkg/domain"
)

// LoggingHooks audits run and block transitions through logger.
// Frames are logged at Debug level only.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "run_start", "run", e.RunID, "generation", e.Generation, "blocks", e.Blocks)
		},
		OnRunFinish: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "run_finish", "run", e.RunID, "outcome", e.Outcome, "duration", e.Duration)
		},
		OnBlockEnter: func(ctx context.Context, e *domain.BlockEvent) {
			logger.InfoContext(ctx, "block_enter", "run", e.RunID, "index", e.Index, "type", e.Block.Type, "label", e.Block.Label)
		},
		OnBlockLeave: func(ctx context.Context, e *domain.BlockEvent) {
			logger.InfoContext(ctx, "block_leave", "run", e.RunID, "index", e.Index, "duration", e.Duration)
		},
		OnFrame: func(ctx context.Context, f *domain.Frame) {
			logger.DebugContext(ctx, "frame", "seq", f.Sequence, "generation", f.Generation, "lines", len(f.Lines), "reset", f.ResetLog)
		},
	}
}

// Chain merges hook sets. Each event reaches every non-nil handler in order.
func Chain(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		out.OnRunStart = chainRun(out.OnRunStart, h.OnRunStart)
		out.OnRunFinish = chainRun(out.OnRunFinish, h.OnRunFinish)
		out.OnBlockEnter = chainBlock(out.OnBlockEnter, h.OnBlockEnter)
		out.OnBlockLeave = chainBlock(out.OnBlockLeave, h.OnBlockLeave)
		out.OnFrame = chainFrame(out.OnFrame, h.OnFrame)
	}
	return out
}

func chainRun(a, b func(context.Context, *domain.RunEvent)) func(context.Context, *domain.RunEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *domain.RunEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainBlock(a, b func(context.Context, *domain.BlockEvent)) func(context.Context, *domain.BlockEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *domain.BlockEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainFrame(a, b func(context.Context, *domain.Frame)) func(context.Context, *domain.Frame) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, f *domain.Frame) {
		a(ctx, f)
		b(ctx, f)
	}
}
