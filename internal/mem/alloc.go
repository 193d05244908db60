package mem

import (
	"unsafe"
)

// AllocAligned allocates a zeroed byte slice of the given size whose first
// byte is aligned to align. It returns nil if size <= 0.
//
// It allocates up to align-1 extra bytes; the underlying array is kept alive
// by the returned slice. align must be a power of two.
func AllocAligned(size, align int) []byte {
	if size <= 0 {
		return nil
	}
	if !IsPowerOfTwo(uintptr(align)) { //nolint:gosec // negative align fails the check
		panic("mem: alignment is not a power of two")
	}

	buf := make([]byte, size+align-1)

	addr := uintptr(unsafe.Pointer(unsafe.SliceData(buf))) //nolint:gosec // address arithmetic only
	offset := int(AlignUp(addr, uintptr(align)) - addr)    //nolint:gosec // offset < align

	return buf[offset : offset+size : offset+size]
}

// Addr returns the address of the first byte of b, or 0 if b is empty.
func Addr(b []byte) uintptr {
	if cap(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(b))) //nolint:gosec // address arithmetic only
}
