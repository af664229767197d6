package ports

import (
	"context"

	"github.com/aretw0/robotstudio/pkg/domain"
)

// SnapshotStore mirrors engine frames so that renderers can observe the robot
// without holding a reference to the engine.
type SnapshotStore interface {
	// Publish records a frame. A frame with ResetLog set clears the stored log
	// before its lines are appended.
	Publish(ctx context.Context, frame *domain.Frame) error

	// Latest returns the most recently published frame.
	// Returns domain.ErrSnapshotNotFound if nothing was published yet.
	Latest(ctx context.Context) (*domain.Frame, error)

	// Log returns the log accumulated since the last reset.
	Log(ctx context.Context) ([]string, error)
}
