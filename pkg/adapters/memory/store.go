package memory

import (
	"context"
	"sync"

	"github.com/aretw0/robotstudio/pkg/domain"
)

// Store implements ports.SnapshotStore in memory.
// Safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	latest *domain.Frame
	log    []string
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{}
}

// Publish records the frame and appends its lines to the log.
func (s *Store) Publish(ctx context.Context, frame *domain.Frame) error {
	// Copy before taking the lock so the caller can't mutate store state by pointer
	copied := frame.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	if copied.ResetLog {
		s.log = nil
	}
	s.log = append(s.log, copied.Lines...)
	s.latest = copied
	return nil
}

// Latest returns a copy of the most recent frame.
func (s *Store) Latest(ctx context.Context) (*domain.Frame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == nil {
		return nil, domain.ErrSnapshotNotFound
	}
	return s.latest.Clone(), nil
}

// Log returns a copy of the accumulated log.
func (s *Store) Log(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.log))
	copy(out, s.log)
	return out, nil
}
