package runtime

import (
	"context"
	"sync"
	"time"
)

// Sleeper suspends the caller for d or until ctx is done, whichever comes first.
// It returns ctx.Err() when interrupted.
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the wall-clock Sleeper.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Random is the noise source of the simulated sensors.
// *rand.Rand from math/rand/v2 satisfies it.
type Random interface {
	Float64() float64
}

// lockedRandom serializes access to a source that is not safe for concurrent use.
type lockedRandom struct {
	mu  sync.Mutex
	src Random
}

func (r *lockedRandom) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Float64()
}
