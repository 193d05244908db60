package mmap

import (
	"errors"
	"os"
)

var (
	// ErrClosed is returned when using a released reservation.
	ErrClosed = errors.New("mmap: reservation is closed")
	// ErrInvalidSize is returned for a non-positive reservation size.
	ErrInvalidSize = errors.New("mmap: invalid size")
	// ErrOutOfBounds is returned when a commit range leaves the reservation.
	ErrOutOfBounds = errors.New("mmap: out of bounds")
	// ErrUnaligned is returned when a commit range is not page aligned.
	ErrUnaligned = errors.New("mmap: range is not page aligned")
	// ErrReserve is returned when the OS refuses to reserve address space.
	ErrReserve = errors.New("mmap: reserve failed")
	// ErrCommit is returned when the OS refuses to back pages.
	ErrCommit = errors.New("mmap: commit failed")
)

// PageSize returns the OS page size.
func PageSize() int {
	return os.Getpagesize()
}
