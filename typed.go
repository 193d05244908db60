package vmarena

import (
	"fmt"
	"math"
	"unsafe"
)

// NewValue allocates a zeroed T in a.
//
// T must not contain Go pointers: arena memory is invisible to the garbage
// collector.
func NewValue[T any](a *Arena) (*T, error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		return new(T), nil
	}

	b, err := a.Alloc(size, int(unsafe.Alignof(zero)))
	if err != nil {
		return nil, err
	}
	if !a.zeroFill {
		clear(b)
	}
	return (*T)(unsafe.Pointer(unsafe.SliceData(b))), nil
}

// MakeSlice allocates a zeroed []T of length and capacity n in a.
//
// T must not contain Go pointers: arena memory is invisible to the garbage
// collector.
func MakeSlice[T any](a *Arena, n int) ([]T, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: length %d", ErrInvalidSize, n)
	}

	var zero T
	elem := int(unsafe.Sizeof(zero))
	if elem == 0 || n == 0 {
		return make([]T, n), nil
	}
	if n > math.MaxInt/elem {
		return nil, fmt.Errorf("%w: %d elements of %d bytes", ErrInvalidSize, n, elem)
	}

	b, err := a.Alloc(n*elem, int(unsafe.Alignof(zero)))
	if err != nil {
		return nil, err
	}
	if !a.zeroFill {
		clear(b)
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n), nil
}
