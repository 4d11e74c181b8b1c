package input

import (
	"sync/atomic"
	"time"
)

// Metrics tracks chord interpreter activity.
// A single Metrics may be shared by several interpreters.
type Metrics struct {
	tokensTotal     atomic.Uint64
	filteredEvents  atomic.Uint64
	immediateFires  atomic.Uint64
	timeoutFires    atomic.Uint64
	mismatches      atomic.Uint64
	supersededTimer atomic.Uint64

	startTime atomic.Int64

	enabled atomic.Bool
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{}
	m.startTime.Store(time.Now().UnixNano())
	m.enabled.Store(true)
	return m
}

// SetEnabled enables or disables metrics collection.
func (m *Metrics) SetEnabled(enabled bool) {
	m.enabled.Store(enabled)
}

// IsEnabled returns whether metrics collection is enabled.
func (m *Metrics) IsEnabled() bool {
	return m.enabled.Load()
}

func (m *Metrics) add(c *atomic.Uint64) {
	if m.enabled.Load() {
		c.Add(1)
	}
}

// RecordToken records a token fed to the state machine.
func (m *Metrics) RecordToken() { m.add(&m.tokensTotal) }

// RecordFiltered records a key event rejected before canonicalization.
func (m *Metrics) RecordFiltered() { m.add(&m.filteredEvents) }

// RecordFire records an emitted command.
func (m *Metrics) RecordFire(how Resolution) {
	if how == ResolveTimeout {
		m.add(&m.timeoutFires)
		return
	}
	m.add(&m.immediateFires)
}

// RecordMismatch records a candidate sequence that matched nothing.
func (m *Metrics) RecordMismatch() { m.add(&m.mismatches) }

// RecordSuperseded records a running timer cancelled by a newer token.
func (m *Metrics) RecordSuperseded() { m.add(&m.supersededTimer) }

// MetricsSnapshot holds a point-in-time view of metrics.
type MetricsSnapshot struct {
	TokensTotal      uint64
	FilteredEvents   uint64
	ImmediateFires   uint64
	TimeoutFires     uint64
	Mismatches       uint64
	SupersededTimers uint64

	// Rates
	TokensPerSecond float64

	Uptime time.Duration
}

// FiresTotal returns the number of emitted commands.
func (s MetricsSnapshot) FiresTotal() uint64 {
	return s.ImmediateFires + s.TimeoutFires
}

// Snapshot returns a point-in-time view of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	tokens := m.tokensTotal.Load()
	uptime := time.Since(time.Unix(0, m.startTime.Load()))

	snap := MetricsSnapshot{
		TokensTotal:      tokens,
		FilteredEvents:   m.filteredEvents.Load(),
		ImmediateFires:   m.immediateFires.Load(),
		TimeoutFires:     m.timeoutFires.Load(),
		Mismatches:       m.mismatches.Load(),
		SupersededTimers: m.supersededTimer.Load(),
		Uptime:           uptime,
	}

	if uptime > 0 {
		snap.TokensPerSecond = float64(tokens) / uptime.Seconds()
	}

	return snap
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.tokensTotal.Store(0)
	m.filteredEvents.Store(0)
	m.immediateFires.Store(0)
	m.timeoutFires.Store(0)
	m.mismatches.Store(0)
	m.supersededTimer.Store(0)
	m.startTime.Store(time.Now().UnixNano())
}
