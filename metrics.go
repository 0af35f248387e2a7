package ketenauth

import "sync/atomic"

// MetricID identifies a specific counter in the in-process metrics system.
type MetricID uint16

const (
	// MetricTokenSet counts non-empty tokens accepted by SetToken.
	MetricTokenSet MetricID = iota
	// MetricTokenCleared counts token clears (logout, empty SetToken, expiry).
	MetricTokenCleared
	// MetricTokenRejected counts tokens whose payload failed to decode.
	MetricTokenRejected
	// MetricTokenExpired counts expiry timer firings and expired-on-arrival clears.
	MetricTokenExpired
	// MetricLogout counts Logout calls.
	MetricLogout
	// MetricLogoutRevokeFailed counts revoke calls that did not reach the server.
	MetricLogoutRevokeFailed
	// MetricSignalReceived counts cross-context signals observed.
	MetricSignalReceived
	// MetricStoreFailure counts degraded store reads and writes.
	MetricStoreFailure
	metricIDCount
)

const cacheLineSize = 64

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds atomic counters for session lifecycle activity.
// A nil *Metrics is a valid no-op receiver.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// NewMetrics creates a [Metrics] instance. When cfg.Enabled is false, all
// operations are no-ops.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Enabled reports whether counters are being recorded.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc adds one to the counter identified by id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Value reads a single counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot deep-copies every counter.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snapshot := MetricsSnapshot{Counters: make(map[MetricID]uint64, metricIDCount)}
	if m == nil {
		return snapshot
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		snapshot.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}
	return snapshot
}
