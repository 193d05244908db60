package vmarena

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/hupe1980/vmarena/internal/arena"
)

// Stats is a point-in-time view of an arena's counters.
type Stats = arena.Stats

// Arena is a bump-pointer allocator. See the package documentation for the
// concurrency contract of each strategy.
type Arena struct {
	core     *arena.Arena
	zeroFill bool
	logger   *Logger
	metrics  MetricsCollector
}

// New creates an arena of capacity bytes.
//
// Without WithBuffer the arena reserves capacity bytes of address space,
// rounded up to the page size, and commits pages as allocations reach them.
// A failed reservation returns ErrOutOfAddressSpace.
func New(capacity int, opts ...Option) (*Arena, error) {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return newArena(capacity, o)
}

func newArena(capacity int, o options) (*Arena, error) {
	a := &Arena{
		zeroFill: o.zeroFill || o.strategy == StrategySerial,
		logger:   o.logger,
		metrics:  o.metrics,
	}

	mode := "virtual"
	if o.buffer != nil {
		mode = "fixed"
	}

	core, err := a.build(capacity, o)
	if err != nil {
		a.logger.LogInit(mode, o.strategy, int64(capacity), err)
		return nil, err
	}
	a.core = core
	a.logger.LogInit(mode, o.strategy, core.Capacity(), nil)

	return a, nil
}

func (a *Arena) build(capacity int, o options) (*arena.Arena, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}

	if o.buffer != nil {
		if len(o.buffer) < capacity {
			return nil, fmt.Errorf("%w: %d < %d", ErrBufferTooSmall, len(o.buffer), capacity)
		}
		return arena.NewFixed(o.buffer[:capacity], func(ao *arena.Options) {
			ao.Strategy = o.strategy
			ao.ZeroFill = o.zeroFill
		})
	}

	rc := o.controller
	if rc == nil && o.memoryLimit > 0 {
		rc = NewResourceController(o.memoryLimit)
	}

	return arena.NewVirtual(capacity, func(ao *arena.Options) {
		ao.Strategy = o.strategy
		ao.PageSize = o.pageSize
		ao.ZeroFill = o.zeroFill
		if rc != nil {
			ao.Acquirer = rc
		}
		ao.OnCommit = a.onCommit
	})
}

func (a *Arena) onCommit(from, n int64) {
	a.metrics.RecordCommit(n)
	a.logger.LogCommit(from, n)
}

// Alloc returns size bytes aligned to align, a power of two. The result is
// disjoint from every other range returned since the last Clear and its
// capacity equals size. It is zero-filled under StrategySerial or
// WithZeroFill; otherwise it may hold bytes from before the last Clear.
func (a *Arena) Alloc(size, align int) ([]byte, error) {
	b, err := a.core.Alloc(size, align)
	a.metrics.RecordAlloc(size, err)
	if err != nil {
		return nil, a.allocError(size, align, err)
	}
	return b, nil
}

// AllocPointer is Alloc returning the address of the range.
func (a *Arena) AllocPointer(size, align int) (unsafe.Pointer, error) {
	b, err := a.Alloc(size, align)
	if err != nil {
		return nil, err
	}
	return unsafe.Pointer(unsafe.SliceData(b)), nil
}

func (a *Arena) allocError(size, align int, err error) error {
	if errors.Is(err, ErrClosed) {
		return err
	}

	offset := a.core.Offset()
	switch {
	case errors.Is(err, ErrExhausted):
		a.logger.LogExhausted(size, align, offset, a.core.Capacity())
	case errors.Is(err, ErrCommitFailed):
		a.logger.LogCommitFailed(size, a.core.Committed(), err)
	}

	return &AllocError{
		Size:     size,
		Align:    align,
		Offset:   offset,
		Capacity: a.core.Capacity(),
		cause:    err,
	}
}

// Clear rewinds the arena to empty. Committed pages stay committed and their
// contents are not cleared. Every range returned before Clear becomes
// invalid.
//
// IMPORTANT: Do NOT call Clear concurrently with allocations.
func (a *Arena) Clear() {
	offset := a.core.Offset()
	a.core.Clear()
	a.metrics.RecordClear(offset)
	a.logger.LogClear(offset, a.core.Committed())
}

// Used returns the bytes [0, Offset), padding included. Like Clear, callers
// must quiesce allocators while holding the result.
func (a *Arena) Used() []byte { return a.core.Used() }

// Offset returns the bump offset: the number of bytes consumed, padding
// included.
func (a *Arena) Offset() int64 { return a.core.Offset() }

// Committed returns how many bytes from the start of the arena are usable.
// In fixed-buffer mode this is the capacity.
func (a *Arena) Committed() int64 { return a.core.Committed() }

// Capacity returns the arena size in bytes.
func (a *Arena) Capacity() int64 { return a.core.Capacity() }

// Strategy returns the offset allocator in use.
func (a *Arena) Strategy() Strategy { return a.core.Strategy() }

// PageSize returns the commit granularity, or 0 in fixed-buffer mode.
func (a *Arena) PageSize() int64 { return a.core.PageSize() }

// Stats returns the arena counters.
func (a *Arena) Stats() Stats { return a.core.Stats() }

func (a *Arena) String() string { return a.core.String() }
