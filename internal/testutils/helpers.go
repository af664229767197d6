package testutils

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/robotstudio/pkg/domain"
)

// Recorder is a Sleeper that returns immediately and remembers every requested duration.
type Recorder struct {
	mu        sync.Mutex
	durations []time.Duration
}

// Sleep records d and returns at once (unless ctx is already done).
func (r *Recorder) Sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.durations = append(r.durations, d)
	r.mu.Unlock()
	return ctx.Err()
}

// Durations returns a copy of the recorded durations.
func (r *Recorder) Durations() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]time.Duration, len(r.durations))
	copy(out, r.durations)
	return out
}

// Gate is a Sleeper that parks every caller until the test releases it,
// letting tests interleave Stop/Run calls at exact suspension points.
type Gate struct {
	parked  chan time.Duration
	release chan struct{}
}

// NewGate creates a closed gate.
func NewGate() *Gate {
	return &Gate{
		parked:  make(chan time.Duration),
		release: make(chan struct{}),
	}
}

// Sleep blocks until Next has observed the call and Release has been called.
func (g *Gate) Sleep(ctx context.Context, d time.Duration) error {
	select {
	case g.parked <- d:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-g.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next waits for the next parked sleeper and returns its duration.
func (g *Gate) Next(t *testing.T) time.Duration {
	t.Helper()
	select {
	case d := <-g.parked:
		return d
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a suspension")
		return 0
	}
}

// Release lets the parked sleeper continue.
func (g *Gate) Release(t *testing.T) {
	t.Helper()
	select {
	case g.release <- struct{}{}:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out releasing a suspension")
	}
}

// Step is Next followed by Release.
func (g *Gate) Step(t *testing.T) time.Duration {
	t.Helper()
	d := g.Next(t)
	g.Release(t)
	return d
}

// FixedRandom replays the given values in a loop.
type FixedRandom struct {
	mu     sync.Mutex
	values []float64
	next   int
}

// NewFixedRandom creates a deterministic noise source.
func NewFixedRandom(values ...float64) *FixedRandom {
	return &FixedRandom{values: values}
}

// Float64 returns the next value.
func (r *FixedRandom) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[r.next%len(r.values)]
	r.next++
	return v
}

// FrameLog collects frames published through LifecycleHooks.OnFrame.
type FrameLog struct {
	mu     sync.Mutex
	frames []domain.Frame
}

// Record is suitable as an OnFrame hook.
func (l *FrameLog) Record(_ context.Context, f *domain.Frame) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.frames = append(l.frames, *f)
}

// Frames returns a copy of the collected frames.
func (l *FrameLog) Frames() []domain.Frame {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.Frame, len(l.frames))
	copy(out, l.frames)
	return out
}

// WheelSpeeds returns the wheel speed of every collected frame.
func (l *FrameLog) WheelSpeeds() []float64 {
	frames := l.Frames()
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = f.State.WheelSpeed
	}
	return out
}

// Block builds a block whose label is its type, handy for log assertions.
func Block(typ domain.BlockType, value any) domain.Block {
	return domain.Block{ID: "b-" + string(typ), Type: typ, Label: string(typ), Value: value}
}
