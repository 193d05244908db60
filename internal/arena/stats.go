package arena

import "sync/atomic"

// Stats is a snapshot of arena state and counters.
//
// Note on semantics:
//   - Offset: current bump cursor (may transiently exceed Capacity under FetchAdd)
//   - Committed: bytes of backing made usable (equals Capacity in fixed-buffer mode)
//   - Allocs, Failures, BytesRequested: historical, not reset by Clear
//   - CASRetries: lost offset races under StrategyCAS
//   - Rollbacks: compensating subtractions under StrategyFetchAdd
//   - Commits, CommitRetries: published and lost commit rounds
type Stats struct {
	Strategy       Strategy
	Capacity       int64
	Offset         int64
	Committed      int64
	Allocs         uint64
	Failures       uint64
	BytesRequested uint64
	CASRetries     uint64
	Rollbacks      uint64
	Commits        uint64
	CommitRetries  uint64
	Clears         uint64
}

type atomicStats struct {
	Allocs         atomic.Uint64
	Failures       atomic.Uint64
	BytesRequested atomic.Uint64
	CASRetries     atomic.Uint64
	Rollbacks      atomic.Uint64
	Commits        atomic.Uint64
	CommitRetries  atomic.Uint64
	Clears         atomic.Uint64
}
