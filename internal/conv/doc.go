// Package conv provides checked integer conversions.
//
// Use it where an integer crosses a width or signedness boundary and the
// value is not provably in range, e.g. sizes and offsets decoded from a
// snapshot header. For values bounded by construction (loop indices, offsets
// already checked against capacity) use a direct cast instead.
package conv
