package observability

import (
	"context"
	"sync"

	"github.com/aretw0/robotstudio/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace prefixes every collector name.
const DefaultNamespace = "robotstudio"

// Metrics records run and block activity as Prometheus collectors.
type Metrics struct {
	runsStarted   prometheus.Counter
	runsFinished  *prometheus.CounterVec
	blocks        *prometheus.CounterVec
	blockDuration *prometheus.HistogramVec
	activeRuns    prometheus.Gauge

	mu     sync.Mutex
	active map[string]struct{}
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		runsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_started_total",
			Help:      "Total number of program runs started",
		}),
		runsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_finished_total",
			Help:      "Total number of program runs finished, by outcome",
		}, []string{"outcome"}),
		blocks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_executed_total",
			Help:      "Total number of blocks executed, by block type",
		}, []string{"type"}),
		blockDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "block_duration_seconds",
			Help:      "Wall clock time spent in a block, including its suspensions",
			Buckets:   []float64{.001, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"type"}),
		activeRuns: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_runs",
			Help:      "Number of runs whose goroutine has not exited",
		}),
		active: make(map[string]struct{}),
	}

	if reg != nil {
		for _, c := range m.collectors() {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.runsStarted, m.runsFinished, m.blocks, m.blockDuration, m.activeRuns}
}

// Hooks returns the lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(_ context.Context, e *domain.RunEvent) {
			m.runsStarted.Inc()
			m.mu.Lock()
			m.active[e.RunID] = struct{}{}
			m.activeRuns.Set(float64(len(m.active)))
			m.mu.Unlock()
		},
		OnRunFinish: func(_ context.Context, e *domain.RunEvent) {
			m.runsFinished.WithLabelValues(string(e.Outcome)).Inc()
			m.mu.Lock()
			delete(m.active, e.RunID)
			m.activeRuns.Set(float64(len(m.active)))
			m.mu.Unlock()
		},
		OnBlockLeave: func(_ context.Context, e *domain.BlockEvent) {
			typ := string(e.Block.Type)
			m.blocks.WithLabelValues(typ).Inc()
			m.blockDuration.WithLabelValues(typ).Observe(e.Duration.Seconds())
		},
	}
}
