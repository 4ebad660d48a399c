// Package metrics provides lock-free counters for engine observability.
//
// Counters live in cache-line-padded slots and are incremented atomically;
// the write path is allocation-free. This package owns storage and
// snapshotting only; export belongs to the caller, which reads Snapshot
// values on its own schedule. It performs no I/O and imports no sibling
// package.
package metrics

import "sync/atomic"

// MetricID identifies one counter slot.
type MetricID int

const (
	MetricLoginSuccess MetricID = iota
	MetricLoginFailure
	MetricLoginRateLimited
	MetricCaptchaIssued
	MetricCaptchaFailure
	MetricTokenIssued
	MetricTokenRejected
	MetricAccountCreated
	MetricPasswordChanged
	MetricUserinfoChanged
	MetricFlagsChanged
	MetricAccountDeleted
	MetricLogout

	// MetricIDCount is the number of counter slots; keep it last.
	MetricIDCount
)

// Config controls whether counting is active. Disabled metrics make every
// operation a no-op with no storage.
type Config struct {
	Enabled bool
}

// paddedCounter keeps each slot on its own cache line to avoid false
// sharing between hot counters.
type paddedCounter struct {
	value atomic.Uint64
	_     [56]byte
}

// Metrics holds the counter slots. A nil *Metrics is valid and inert.
type Metrics struct {
	counters [MetricIDCount]paddedCounter
}

// New returns an active Metrics, or nil when disabled.
func New(cfg Config) *Metrics {
	if !cfg.Enabled {
		return nil
	}
	return &Metrics{}
}

// Inc adds one to the counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || id < 0 || id >= MetricIDCount {
		return
	}
	m.counters[id].value.Add(1)
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	Counters map[MetricID]uint64
}

// Snapshot copies every counter. Counters incremented concurrently may or
// may not be reflected; each individual read is atomic.
func (m *Metrics) Snapshot() Snapshot {
	snap := Snapshot{Counters: make(map[MetricID]uint64, MetricIDCount)}
	if m == nil {
		return snap
	}
	for id := MetricID(0); id < MetricIDCount; id++ {
		snap.Counters[id] = m.counters[id].value.Load()
	}
	return snap
}
