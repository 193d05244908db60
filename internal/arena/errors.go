package arena

import (
	"errors"

	"github.com/hupe1980/vmarena/internal/mem"
)

var (
	// ErrOutOfAddressSpace is returned when the address range cannot be reserved.
	ErrOutOfAddressSpace = errors.New("arena: out of address space")
	// ErrExhausted is returned when the arena has no room for a request.
	ErrExhausted = errors.New("arena: exhausted")
	// ErrInvalidAlignment is returned when an alignment is not a power of two.
	ErrInvalidAlignment = mem.ErrInvalidAlignment
	// ErrCommitFailed is returned when pages backing an allocation could not be committed.
	ErrCommitFailed = errors.New("arena: commit failed")
	// ErrInvalidSize is returned for a negative allocation size.
	ErrInvalidSize = errors.New("arena: invalid size")
	// ErrInvalidCapacity is returned for a non-positive capacity.
	ErrInvalidCapacity = errors.New("arena: invalid capacity")
	// ErrInvalidPageSize is returned when the page size is unusable.
	ErrInvalidPageSize = errors.New("arena: invalid page size")
	// ErrNotEmpty is returned when loading into an arena that holds allocations.
	ErrNotEmpty = errors.New("arena: not empty")
	// ErrClosed is returned when using a closed arena.
	ErrClosed = errors.New("arena: closed")
)
