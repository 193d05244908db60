// Package mmap reserves address space and commits it page by page.
//
// # Overview
//
// A Reservation is a contiguous range of virtual addresses with no physical
// backing. Commit makes a page-aligned sub-range readable and writable; pages
// that were never committed fault on access. This lets an arena reserve its
// maximum capacity up front and only pay for the pages it actually touches.
//
// # Usage
//
//	r, err := mmap.Reserve(1 << 30)
//	if err != nil { ... }
//	defer r.Close()
//
//	// Make the first page usable
//	if err := r.Commit(0, mmap.PageSize()); err != nil { ... }
//	data := r.Bytes()[:mmap.PageSize()]
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with PROT_NONE, then mprotect(2) to commit
//   - Windows: VirtualAlloc with MEM_RESERVE, then MEM_COMMIT
//
// # Thread Safety
//
// Commit may be called concurrently; committing an already committed range is
// harmless. Close is idempotent, but callers must ensure no goroutine touches
// Bytes() after Close returns.
package mmap
