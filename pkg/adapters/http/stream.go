package http

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/aretw0/robotstudio/internal/logging"
	"github.com/aretw0/robotstudio/pkg/domain"
)

// FrameEvent is the SSE payload for one engine frame. Only the state
// channels that changed since the subscriber's previous event are sent; the
// first event of a subscription carries the whole state.
type FrameEvent struct {
	Sequence   uint64            `json:"sequence"`
	Generation uint64            `json:"generation"`
	ResetLog   bool              `json:"reset_log,omitempty"`
	Lines      []string          `json:"lines,omitempty"`
	Diff       *domain.StateDiff `json:"diff,omitempty"`
}

// subscriberBuffer is how many events a slow client may lag behind before
// events are dropped for it.
const subscriberBuffer = 64

// subscriber is one SSE connection. sent is the state its last delivered
// event described, nil until the first delivery.
type subscriber struct {
	ch   chan FrameEvent
	sent *domain.RobotState
}

// StreamManager fans engine frames out to SSE connections.
type StreamManager struct {
	mu          sync.Mutex
	subscribers map[*subscriber]struct{}

	logger *slog.Logger
}

// NewStreamManager creates a stream manager. A nil logger discards output.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StreamManager{
		subscribers: make(map[*subscriber]struct{}),
		logger:      logger,
	}
}

// Hooks returns the lifecycle hooks that feed the stream. Install them on
// the engine the server's workspace runs on.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnFrame: func(_ context.Context, f *domain.Frame) {
			sm.Publish(f)
		},
	}
}

// Subscribe registers a new listener. The returned func unregisters it and
// closes the channel.
func (sm *StreamManager) Subscribe() (<-chan FrameEvent, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sub := &subscriber{ch: make(chan FrameEvent, subscriberBuffer)}
	sm.subscribers[sub] = struct{}{}

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			delete(sm.subscribers, sub)
			close(sub.ch)
		})
	}
}

// Publish sends f to every subscriber without blocking. Each event's diff is
// taken against what that subscriber was last sent, so a dropped event's
// changes ride along with the next one delivered.
func (sm *StreamManager) Publish(f *domain.Frame) {
	state := f.State.Snapshot()
	lines := append([]string(nil), f.Lines...)

	sm.mu.Lock()
	defer sm.mu.Unlock()

	for sub := range sm.subscribers {
		ev := FrameEvent{
			Sequence:   f.Sequence,
			Generation: f.Generation,
			ResetLog:   f.ResetLog,
			Lines:      lines,
			Diff:       domain.Diff(sub.sent, &state),
		}
		select {
		case sub.ch <- ev:
			sub.sent = &state
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: client buffer full, dropping event", "sequence", f.Sequence)
		}
	}
}

// Subscribers returns the number of open subscriptions.
func (sm *StreamManager) Subscribers() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.subscribers)
}

// Watch selects which events a subscriber receives. An empty Watch passes
// everything.
type Watch []string

// ParseWatch reads a comma separated filter such as "log,wheel_speed".
func ParseWatch(raw string) Watch {
	var w Watch
	for _, field := range strings.Split(raw, ",") {
		if field = strings.TrimSpace(field); field != "" {
			w = append(w, field)
		}
	}
	return w
}

// Match reports whether ev carries anything the watcher asked for.
// "log" matches new lines or a log reset, "state" any state change, and
// a channel name (executing, wheel_speed, arm_rotation, drone_height,
// sensors) a change on that channel.
func (w Watch) Match(ev FrameEvent) bool {
	if len(w) == 0 {
		return true
	}
	d := ev.Diff
	for _, field := range w {
		switch field {
		case "log":
			if ev.ResetLog || len(ev.Lines) > 0 {
				return true
			}
		case "state":
			if d != nil {
				return true
			}
		case "executing":
			if d != nil && d.Executing != nil {
				return true
			}
		case "wheel_speed":
			if d != nil && d.WheelSpeed != nil {
				return true
			}
		case "arm_rotation":
			if d != nil && d.ArmRotation != nil {
				return true
			}
		case "drone_height":
			if d != nil && d.DroneHeight != nil {
				return true
			}
		case "sensors":
			if d != nil && len(d.Sensors) > 0 {
				return true
			}
		}
	}
	return false
}
