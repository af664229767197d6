package runner

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Escalation is what an interrupt asks of the run in progress.
type Escalation int

const (
	// EscalateStop discards the run's further effects and lets pending
	// suspensions finish.
	EscalateStop Escalation = iota + 1
	// EscalateAbort also cuts pending suspensions short.
	EscalateAbort
)

func (e Escalation) String() string {
	switch e {
	case EscalateStop:
		return "stop"
	case EscalateAbort:
		return "abort"
	}
	return "none"
}

// SignalManager escalates OS interrupts for one run: the first SIGINT or
// SIGTERM asks for a stop, every later one for an abort.
type SignalManager struct {
	signals chan os.Signal

	mu       sync.Mutex
	received int
	stopped  bool
}

// NewSignalManager starts listening for sigs, SIGINT and SIGTERM when none are given.
func NewSignalManager(sigs ...os.Signal) *SignalManager {
	if len(sigs) == 0 {
		sigs = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}
	sm := &SignalManager{signals: make(chan os.Signal, 2)}
	signal.Notify(sm.signals, sigs...)
	return sm
}

// Signals delivers the interrupts received. Pass each one to Escalate.
func (sm *SignalManager) Signals() <-chan os.Signal {
	return sm.signals
}

// Escalate records one interrupt and returns what it asks for.
func (sm *SignalManager) Escalate() Escalation {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.received++
	if sm.received == 1 {
		return EscalateStop
	}
	return EscalateAbort
}

// Received returns how many interrupts were escalated.
func (sm *SignalManager) Received() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.received
}

// Stop stops listening. Signals already queued stay readable.
func (sm *SignalManager) Stop() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if !sm.stopped {
		signal.Stop(sm.signals)
		sm.stopped = true
	}
}
