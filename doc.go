// Package vmarena provides a bump-pointer memory arena for Go.
//
// An Arena hands out disjoint, aligned byte ranges from one contiguous
// region and frees them all at once with Clear. There is no per-object free.
// The region is either a caller-supplied buffer or a reserved range of
// virtual memory that is committed page by page as allocations reach it, so
// a large capacity costs address space, not RAM.
//
// # Quick Start
//
//	a, _ := vmarena.New(1 << 30) // reserve 1 GiB, commit nothing
//	defer a.Close()
//
//	b, _ := a.Alloc(64, 8)              // 64 bytes, 8-byte aligned
//	p, _ := vmarena.NewValue[point](a)   // typed allocation
//	xs, _ := vmarena.MakeSlice[int32](a, 1024)
//
//	a.Clear() // every range above is now invalid; committed pages are reused
//
// # Strategies
//
// The offset allocator is chosen at construction time:
//
//   - StrategyCAS (default): lock-free compare-and-swap loop, exact
//     alignment, safe for any number of goroutines.
//   - StrategySerial: no synchronization, zero-fills every range. One
//     goroutine at a time.
//   - StrategyFetchAdd: one atomic add per allocation. Only the size is
//     rounded to the alignment, so every allocation in the arena must use
//     the same alignment and congruent sizes.
//
// Clear, Snapshot and Close are barrier operations: no allocation may be in
// flight while they run.
//
// # Memory
//
// Arena memory is not scanned by the garbage collector. Values placed in it
// with NewValue or MakeSlice must not hold Go pointers to heap memory.
//
// # Snapshots
//
// Snapshot writes the used prefix of an arena, optionally LZ4 or Zstd
// compressed, and Restore builds a new arena from such a stream.
package vmarena
