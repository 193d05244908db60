package mmap

import (
	"fmt"
	"sync/atomic"
)

// Reservation owns a range of reserved virtual memory.
type Reservation struct {
	data   []byte
	size   int
	closed atomic.Bool
	// release is the platform-specific function to give the range back.
	release func([]byte) error
}

// Reserve sets aside size bytes of address space without committing any of it.
// size is rounded up to a multiple of the page size.
func Reserve(size int) (*Reservation, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	page := PageSize()
	size = (size + page - 1) &^ (page - 1)

	data, release, err := osReserve(size)
	if err != nil {
		return nil, fmt.Errorf("%w: %d bytes: %w", ErrReserve, size, err)
	}

	return &Reservation{
		data:    data,
		size:    size,
		release: release,
	}, nil
}

// Commit makes [off, off+n) readable and writable.
// off and n must be multiples of the page size.
func (r *Reservation) Commit(off, n int) error {
	if r.closed.Load() {
		return ErrClosed
	}
	if off < 0 || n < 0 || off > r.size-n {
		return ErrOutOfBounds
	}
	if n == 0 {
		return nil
	}
	page := PageSize()
	if off%page != 0 || n%page != 0 {
		return ErrUnaligned
	}
	if err := osCommit(r.data[off : off+n]); err != nil {
		return fmt.Errorf("%w: [%d, %d): %w", ErrCommit, off, off+n, err)
	}
	return nil
}

// Bytes returns the whole reserved range. Only committed pages may be touched.
// The slice is valid until Close is called.
func (r *Reservation) Bytes() []byte {
	if r.closed.Load() {
		return nil
	}
	return r.data
}

// Size returns the reserved size in bytes.
func (r *Reservation) Size() int {
	return r.size
}

// Close releases the reservation. It is idempotent.
func (r *Reservation) Close() error {
	if r.closed.Swap(true) {
		return nil
	}
	if r.release != nil && r.data != nil {
		return r.release(r.data)
	}
	return nil
}
