// Package arena provides a bump-pointer allocator over one contiguous region.
//
// The region is either a caller-supplied fixed buffer or a reserved range of
// virtual memory that is committed page by page as the bump offset grows.
// Individual allocations are never freed; Clear rewinds the offset to zero and
// Close releases the reservation.
//
// # Strategies
//
// Three interchangeable algorithms advance the offset:
//
//   - StrategySerial: plain read-modify-write. Exact alignment, zero-filled
//     results. Callers must serialize access.
//   - StrategyCAS: lock-free compare-and-swap retry loop. Exact alignment
//     for every call, safe for any number of goroutines.
//   - StrategyFetchAdd: one atomic add per allocation. The size, not the
//     address, is rounded to the alignment, so results are aligned only if
//     every allocation in the arena uses sizes congruent to the same
//     alignment. Do not mix alignments in a FetchAdd arena.
//
// # Commit Tracking
//
// In virtual-memory mode the committed prefix only grows. Clear keeps it, so
// refilling an arena after Clear issues no new commit calls. A failed commit
// fails the triggering allocation; Serial and CAS commit before publishing the
// new offset, FetchAdd rolls its add back when it is still the newest
// allocation.
//
// # Concurrency Model
//
// Alloc on a CAS or FetchAdd arena may be called from many goroutines.
// Clear, Load and Close are NOT safe concurrently with Alloc: quiesce all
// allocators first.
package arena
