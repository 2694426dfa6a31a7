package core

import (
	"fmt"
	"sync"
	"time"
)

// TestMetrics accumulates scenario outcomes across a run.
// The lifecycle manager is the only writer: exactly one Record call per
// completed scenario. The mutex exists for configurations that run scenario
// instances in parallel; sequential runs pay only an uncontended lock.
type TestMetrics struct {
	mu        sync.Mutex
	startTime time.Time
	total     int
	passed    int
	failed    int
	skipped   int
}

// NewTestMetrics creates a metrics accumulator with the clock started
func NewTestMetrics() *TestMetrics {
	return &TestMetrics{startTime: time.Now()}
}

// Record counts one completed scenario. Statuses other than passed/failed
// are counted as skipped.
func (m *TestMetrics) Record(status ScenarioStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total++
	switch status {
	case StatusPassed:
		m.passed++
	case StatusFailed:
		m.failed++
	default:
		m.skipped++
	}
}

// MetricsSnapshot is a point-in-time copy of the accumulated counters
type MetricsSnapshot struct {
	Total    int
	Passed   int
	Failed   int
	Skipped  int
	Duration time.Duration
	PassRate float64 // Percentage, 0 when no scenarios ran
}

// Snapshot returns a consistent copy of the counters
func (m *TestMetrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := MetricsSnapshot{
		Total:    m.total,
		Passed:   m.passed,
		Failed:   m.failed,
		Skipped:  m.skipped,
		Duration: time.Since(m.startTime),
	}
	if m.total > 0 {
		s.PassRate = float64(m.passed) / float64(m.total) * 100
	}
	return s
}

// AnyFailed reports whether at least one scenario failed
func (m *TestMetrics) AnyFailed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failed > 0
}

// String formats the snapshot as a single summary line
func (s MetricsSnapshot) String() string {
	return fmt.Sprintf("total=%d passed=%d failed=%d skipped=%d pass_rate=%.2f%%",
		s.Total, s.Passed, s.Failed, s.Skipped, s.PassRate)
}
