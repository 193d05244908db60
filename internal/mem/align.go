package mem

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAlignment is returned when an alignment is not a power of two.
	ErrInvalidAlignment = errors.New("alignment is not a power of two")
	// ErrAlignOverflow is returned when aligning a value would wrap around.
	ErrAlignOverflow = errors.New("aligned value overflows")
)

// IsPowerOfTwo reports whether x is a non-zero power of two.
func IsPowerOfTwo(x uintptr) bool {
	return x != 0 && x&(x-1) == 0
}

// AlignForward returns the smallest multiple of align that is >= v.
func AlignForward(v, align uintptr) (uintptr, error) {
	if !IsPowerOfTwo(align) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidAlignment, align)
	}
	r := AlignUp(v, align)
	if r < v {
		return 0, fmt.Errorf("%w: %d to %d", ErrAlignOverflow, v, align)
	}
	return r, nil
}

// AlignUp rounds v up to a multiple of align without validation.
// align must be a power of two.
func AlignUp(v, align uintptr) uintptr {
	mask := align - 1
	return (v + mask) &^ mask
}

// RoundUp rounds n up to a multiple of unit. unit must be a power of two
// and n must be non-negative.
func RoundUp(n, unit int64) int64 {
	mask := unit - 1
	return (n + mask) &^ mask
}
