package vmarena

import (
	"errors"
	"fmt"

	"github.com/hupe1980/vmarena/internal/arena"
	"github.com/hupe1980/vmarena/internal/resource"
	"github.com/hupe1980/vmarena/internal/snapshot"
)

var (
	// ErrOutOfAddressSpace is returned when the address range cannot be reserved.
	ErrOutOfAddressSpace = arena.ErrOutOfAddressSpace
	// ErrExhausted is returned when the arena has no room for a request.
	ErrExhausted = arena.ErrExhausted
	// ErrInvalidAlignment is returned when an alignment is not a power of two.
	ErrInvalidAlignment = arena.ErrInvalidAlignment
	// ErrCommitFailed is returned when pages for an allocation could not be committed.
	ErrCommitFailed = arena.ErrCommitFailed
	// ErrInvalidSize is returned for a negative size or element count.
	ErrInvalidSize = arena.ErrInvalidSize
	// ErrInvalidCapacity is returned for a non-positive capacity.
	ErrInvalidCapacity = arena.ErrInvalidCapacity
	// ErrInvalidPageSize is returned when the page size is unusable.
	ErrInvalidPageSize = arena.ErrInvalidPageSize
	// ErrClosed is returned when using a closed arena.
	ErrClosed = arena.ErrClosed
	// ErrMemoryLimitExceeded is the cause of ErrCommitFailed when a memory
	// limit refuses a commit.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded
	// ErrBufferTooSmall is returned when WithBuffer supplies fewer bytes than the capacity.
	ErrBufferTooSmall = errors.New("vmarena: buffer smaller than capacity")
	// ErrInvalidSnapshot is returned when a snapshot stream cannot be decoded.
	ErrInvalidSnapshot = errors.New("vmarena: invalid snapshot")
)

// AllocError describes a failed allocation.
//
// The original underlying error can be accessed via errors.Unwrap, so
// errors.Is(err, ErrExhausted) works on it.
type AllocError struct {
	Size     int
	Align    int
	Offset   int64 // bump offset when the allocation failed
	Capacity int64
	cause    error
}

func (e *AllocError) Error() string {
	return fmt.Sprintf("vmarena: alloc %d bytes (align %d) at offset %d of %d: %v",
		e.Size, e.Align, e.Offset, e.Capacity, e.cause)
}

func (e *AllocError) Unwrap() error { return e.cause }

func translateSnapshotError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, snapshot.ErrInvalidMagic),
		errors.Is(err, snapshot.ErrUnsupportedVersion),
		errors.Is(err, snapshot.ErrUnknownCompression),
		errors.Is(err, snapshot.ErrChecksumMismatch),
		errors.Is(err, snapshot.ErrCorrupt):
		return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	return err
}
