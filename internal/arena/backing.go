package arena

import (
	"errors"
	"fmt"

	"github.com/hupe1980/vmarena/internal/mem"
	"github.com/hupe1980/vmarena/internal/mmap"
)

// Backing is the byte range an arena bumps through.
//
// Commit must make [off, off+n) usable; off and n are multiples of the
// arena's page size. Committing an already committed range must succeed.
type Backing interface {
	Bytes() []byte
	Commit(off, n int) error
	Close() error
}

// fixedBacking is caller memory that is usable in full from the start.
type fixedBacking []byte

func (b fixedBacking) Bytes() []byte       { return b }
func (fixedBacking) Commit(_, _ int) error { return nil }
func (fixedBacking) Close() error          { return nil }

// NewFixed creates an arena over buf. The whole buffer is usable memory, so
// no commit tracking takes place. The arena borrows buf; Close does not
// release it.
func NewFixed(buf []byte, optFns ...func(o *Options)) (*Arena, error) {
	if len(buf) == 0 {
		return nil, ErrInvalidCapacity
	}
	opts := buildOptions(optFns)
	return newArena(fixedBacking(buf), int64(len(buf)), opts), nil
}

// NewVirtual reserves capacity bytes of address space, rounded up to the
// page size, and commits nothing. Pages are committed as allocations reach
// them.
func NewVirtual(capacity int, optFns ...func(o *Options)) (*Arena, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	opts := buildOptions(optFns)

	page := opts.PageSize
	if page == 0 {
		page = mmap.PageSize()
	}
	if !mem.IsPowerOfTwo(uintptr(page)) || page < mmap.PageSize() { //nolint:gosec // page > 0
		return nil, fmt.Errorf("%w: %d (os page size %d)", ErrInvalidPageSize, page, mmap.PageSize())
	}
	opts.PageSize = page

	size := mem.RoundUp(int64(capacity), int64(page))

	r, err := mmap.Reserve(int(size))
	if err != nil {
		if errors.Is(err, mmap.ErrReserve) {
			return nil, fmt.Errorf("%w: %w", ErrOutOfAddressSpace, err)
		}
		return nil, err
	}

	a, err := NewWithBacking(r, int(size), func(o *Options) { *o = opts })
	if err != nil {
		_ = r.Close()
		return nil, err
	}
	return a, nil
}

// NewWithBacking creates an arena with commit tracking over the first
// capacity bytes of b. capacity must be a multiple of the page size.
func NewWithBacking(b Backing, capacity int, optFns ...func(o *Options)) (*Arena, error) {
	opts := buildOptions(optFns)
	if opts.PageSize <= 0 || !mem.IsPowerOfTwo(uintptr(opts.PageSize)) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPageSize, opts.PageSize)
	}
	if capacity <= 0 || capacity > len(b.Bytes()) || capacity%opts.PageSize != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}

	a := newArena(b, int64(capacity), opts)
	a.commit = &committer{
		backing:    b,
		pageSize:   int64(opts.PageSize),
		capacity:   int64(capacity),
		concurrent: opts.Strategy.Concurrent(),
		acquirer:   opts.Acquirer,
		onCommit:   opts.OnCommit,
		stats:      &a.stats,
	}
	return a, nil
}

func buildOptions(optFns []func(o *Options)) Options {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}
