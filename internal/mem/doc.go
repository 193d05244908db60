// Package mem provides alignment arithmetic and aligned heap buffers.
//
// # Alignment
//
// AlignForward is the checked primitive shared by every allocation strategy:
// it rejects alignments that are not a power of two instead of returning a
// wrong address. AlignUp is the unchecked form for callers that validated the
// alignment already.
//
// # Aligned Allocation
//
// AllocAligned returns a Go heap buffer whose first byte sits on the requested
// boundary, used for fixed-buffer arenas that must start page aligned.
package mem
