package runner

import (
	"context"

	"github.com/aretw0/robotstudio/pkg/domain"
	"github.com/aretw0/robotstudio/pkg/workspace"
)

// FrameHandler defines how run progress is presented.
// This allows switching between Text (terminal) and JSON (structured) modes.
type FrameHandler interface {
	// Frame presents one engine frame. It is called from engine hooks and must
	// not start or stop runs.
	Frame(ctx context.Context, frame *domain.Frame) error

	// Finish presents the end of a run with the final robot view.
	Finish(ctx context.Context, outcome domain.RunOutcome, view workspace.View) error
}
