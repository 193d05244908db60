package arena

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/hupe1980/vmarena/internal/mem"
)

// Arena is a bump-pointer allocator over a single Backing.
type Arena struct {
	buf      []byte
	base     uintptr // address of buf[0]
	capacity int64
	offset   atomic.Int64 // MUST be atomic - shared by concurrent allocators
	strategy Strategy
	zeroFill bool
	commit   *committer // nil in fixed-buffer mode
	backing  Backing
	closed   atomic.Bool
	stats    atomicStats
}

func newArena(b Backing, capacity int64, opts Options) *Arena {
	buf := b.Bytes()[:capacity:capacity]
	return &Arena{
		buf:      buf,
		base:     mem.Addr(buf),
		capacity: capacity,
		strategy: opts.Strategy,
		zeroFill: opts.ZeroFill || opts.Strategy == StrategySerial,
		backing:  b,
	}
}

// Alloc returns a size-byte range aligned to align. The range is disjoint
// from every other range returned since the last Clear. Its length and
// capacity both equal size, so appending never spills into a neighbor.
func (a *Arena) Alloc(size, align int) ([]byte, error) {
	off, err := a.AllocOffset(size, align)
	if err != nil {
		return nil, err
	}
	b := a.buf[off : off+int64(size) : off+int64(size)]
	if a.zeroFill {
		clear(b)
	}
	return b, nil
}

// AllocOffset is Alloc returning the offset of the range from the start of
// the arena. The range is not zero-filled.
func (a *Arena) AllocOffset(size, align int) (int64, error) {
	if a.closed.Load() {
		return 0, ErrClosed
	}
	if size < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if align <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidAlignment, align)
	}

	var (
		off int64
		err error
	)
	switch a.strategy {
	case StrategySerial:
		off, err = a.allocSerial(int64(size), int64(align))
	case StrategyFetchAdd:
		off, err = a.allocFetchAdd(int64(size), int64(align))
	default:
		off, err = a.allocCAS(int64(size), int64(align))
	}
	if err != nil {
		a.stats.Failures.Add(1)
		return 0, err
	}

	a.stats.Allocs.Add(1)
	a.stats.BytesRequested.Add(uint64(size)) //nolint:gosec // size >= 0
	return off, nil
}

// Pointer returns the address of the byte at off.
// off must come from an allocation made since the last Clear.
func (a *Arena) Pointer(off int64) unsafe.Pointer {
	return unsafe.Add(unsafe.Pointer(unsafe.SliceData(a.buf)), off) //nolint:gosec // unsafe is required for arena implementation
}

// Clear rewinds the offset to zero. Committed pages, memory contents and the
// reservation are kept. Every range returned before Clear becomes invalid.
//
// IMPORTANT: Do NOT call Clear concurrently with allocations.
func (a *Arena) Clear() {
	if a.closed.Load() {
		return
	}
	a.offset.Store(0)
	a.stats.Clears.Add(1)
}

// Load copies data to the start of an empty arena and moves the offset past
// it, committing pages as needed. It is a barrier operation like Clear.
func (a *Arena) Load(data []byte) error {
	n := int64(len(data))
	return a.LoadFunc(n, func(grow func(from, end int64) ([]byte, error)) error {
		dst, err := grow(0, n)
		if err != nil {
			return err
		}
		copy(dst, data)
		return nil
	})
}

// LoadFunc fills the first n bytes of an empty arena piecewise. fill calls
// grow to commit [0, end) and obtain the bytes [from, end) to write. The
// offset moves to n only if fill returns nil; on error the arena stays empty
// and pages committed so far remain committed.
func (a *Arena) LoadFunc(n int64, fill func(grow func(from, end int64) ([]byte, error)) error) error {
	if a.closed.Load() {
		return ErrClosed
	}
	if a.offset.Load() != 0 {
		return ErrNotEmpty
	}
	if n < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, n)
	}
	if n > a.capacity {
		return a.exhausted(0, n, 1)
	}

	grow := func(from, end int64) ([]byte, error) {
		if from < 0 || from > end || end > n {
			return nil, fmt.Errorf("%w: range [%d, %d) outside %d loaded bytes", ErrInvalidSize, from, end, n)
		}
		if a.commit != nil {
			if err := a.commit.ensure(end); err != nil {
				return nil, err
			}
		}
		return a.buf[from:end:end], nil
	}
	if err := fill(grow); err != nil {
		return err
	}

	a.offset.Store(n)
	return nil
}

// Used returns the bytes [0, offset). Like Clear, callers must quiesce
// allocators while holding the result.
func (a *Arena) Used() []byte {
	if a.closed.Load() {
		return nil
	}
	return a.buf[:min(a.offset.Load(), a.capacity)]
}

// Close releases the backing. After Close the arena cannot be reused and
// every range it returned is invalid.
//
// IMPORTANT: Do NOT call Close concurrently with allocations.
func (a *Arena) Close() error {
	if a.closed.Swap(true) {
		return nil
	}
	if a.commit != nil {
		a.commit.release()
	}
	a.buf = nil
	return a.backing.Close()
}

// Offset returns the current bump offset. Under StrategyFetchAdd a reading
// taken while a failing allocation is rolling back may exceed Capacity.
func (a *Arena) Offset() int64 {
	return a.offset.Load()
}

// Committed returns the number of usable bytes from the start of the arena.
func (a *Arena) Committed() int64 {
	if a.commit == nil {
		return a.capacity
	}
	return a.commit.committed.Load()
}

// Capacity returns the arena size in bytes.
func (a *Arena) Capacity() int64 {
	return a.capacity
}

// Strategy returns the offset allocator in use.
func (a *Arena) Strategy() Strategy {
	return a.strategy
}

// PageSize returns the commit granularity, or 0 in fixed-buffer mode.
func (a *Arena) PageSize() int64 {
	if a.commit == nil {
		return 0
	}
	return a.commit.pageSize
}

// Tracking reports whether the arena commits pages on demand.
func (a *Arena) Tracking() bool {
	return a.commit != nil
}

// Stats returns the current arena statistics.
func (a *Arena) Stats() Stats {
	return Stats{
		Strategy:       a.strategy,
		Capacity:       a.capacity,
		Offset:         a.offset.Load(),
		Committed:      a.Committed(),
		Allocs:         a.stats.Allocs.Load(),
		Failures:       a.stats.Failures.Load(),
		BytesRequested: a.stats.BytesRequested.Load(),
		CASRetries:     a.stats.CASRetries.Load(),
		Rollbacks:      a.stats.Rollbacks.Load(),
		Commits:        a.stats.Commits.Load(),
		CommitRetries:  a.stats.CommitRetries.Load(),
		Clears:         a.stats.Clears.Load(),
	}
}

func (a *Arena) String() string {
	s := a.Stats()
	return fmt.Sprintf(
		"Arena{strategy: %s, offset: %d, committed: %d, capacity: %d, allocs: %d, failures: %d}",
		s.Strategy, s.Offset, s.Committed, s.Capacity, s.Allocs, s.Failures,
	)
}
