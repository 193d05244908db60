package vmarena

import "sync/atomic"

// MetricsCollector defines an interface for collecting arena metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Methods are called on the allocating goroutine and must be safe for
// concurrent use when the arena uses a concurrent strategy.
type MetricsCollector interface {
	// RecordAlloc is called after each allocation. err is nil if successful.
	RecordAlloc(size int, err error)

	// RecordCommit is called after the committed boundary advances by bytes.
	RecordCommit(bytes int64)

	// RecordClear is called after each Clear with the offset it discarded.
	RecordClear(offset int64)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAlloc(int, error) {}
func (NoopMetricsCollector) RecordCommit(int64)     {}
func (NoopMetricsCollector) RecordClear(int64)      {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AllocCount     atomic.Int64
	AllocErrors    atomic.Int64
	AllocBytes     atomic.Int64
	CommitCount    atomic.Int64
	CommittedBytes atomic.Int64
	ClearCount     atomic.Int64
	ClearedBytes   atomic.Int64
}

// RecordAlloc implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAlloc(size int, err error) {
	b.AllocCount.Add(1)
	if err != nil {
		b.AllocErrors.Add(1)
		return
	}
	b.AllocBytes.Add(int64(size))
}

// RecordCommit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCommit(bytes int64) {
	b.CommitCount.Add(1)
	b.CommittedBytes.Add(bytes)
}

// RecordClear implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClear(offset int64) {
	b.ClearCount.Add(1)
	b.ClearedBytes.Add(offset)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		AllocCount:     b.AllocCount.Load(),
		AllocErrors:    b.AllocErrors.Load(),
		AllocBytes:     b.AllocBytes.Load(),
		CommitCount:    b.CommitCount.Load(),
		CommittedBytes: b.CommittedBytes.Load(),
		ClearCount:     b.ClearCount.Load(),
		ClearedBytes:   b.ClearedBytes.Load(),
	}
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	AllocCount     int64
	AllocErrors    int64
	AllocBytes     int64
	CommitCount    int64
	CommittedBytes int64
	ClearCount     int64
	ClearedBytes   int64
}
