package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/robotstudio/pkg/domain"
	"github.com/aretw0/robotstudio/pkg/observability"
	"github.com/stretchr/testify/assert"
)

func TestChain_CallsEveryHandlerInOrder(t *testing.T) {
	var calls []string
	first := domain.LifecycleHooks{
		OnRunStart: func(context.Context, *domain.RunEvent) { calls = append(calls, "first:start") },
		OnFrame:    func(context.Context, *domain.Frame) { calls = append(calls, "first:frame") },
	}
	second := domain.LifecycleHooks{
		OnRunStart:   func(context.Context, *domain.RunEvent) { calls = append(calls, "second:start") },
		OnBlockEnter: func(context.Context, *domain.BlockEvent) { calls = append(calls, "second:enter") },
	}

	hooks := observability.Chain(first, domain.LifecycleHooks{}, second)
	ctx := context.Background()
	hooks.OnRunStart(ctx, &domain.RunEvent{})
	hooks.OnBlockEnter(ctx, &domain.BlockEvent{})
	hooks.OnFrame(ctx, &domain.Frame{})

	assert.Equal(t, []string{"first:start", "second:start", "second:enter", "first:frame"}, calls)
	assert.Nil(t, hooks.OnBlockLeave)
	assert.Nil(t, hooks.OnRunFinish)
}

func TestChain_Empty(t *testing.T) {
	hooks := observability.Chain()
	assert.Nil(t, hooks.OnRunStart)
	assert.Nil(t, hooks.OnFrame)
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	hooks := observability.LoggingHooks(logger)
	ctx := context.Background()

	hooks.OnRunStart(ctx, &domain.RunEvent{RunID: "r1", Blocks: 3})
	hooks.OnBlockEnter(ctx, &domain.BlockEvent{RunID: "r1", Block: domain.Block{Type: domain.BlockWait, Label: "Wait"}})
	hooks.OnFrame(ctx, &domain.Frame{Sequence: 9})
	hooks.OnRunFinish(ctx, &domain.RunEvent{RunID: "r1", Outcome: domain.OutcomeCompleted})

	out := buf.String()
	assert.Contains(t, out, "msg=run_start")
	assert.Contains(t, out, "blocks=3")
	assert.Contains(t, out, "type=wait")
	assert.Contains(t, out, "outcome=completed")
	assert.NotContains(t, out, "msg=frame", "frames are debug-level")
}
