// Package resource implements a memory budget shared by arenas.
//
// A Controller caps the number of bytes arenas may commit. Commit managers
// call AcquireMemory before asking the OS for pages and ReleaseMemory when a
// reservation is released. Acquisition never blocks: if the budget would be
// exceeded it fails immediately with ErrMemoryLimitExceeded and the
// triggering allocation fails.
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30, // 1GB limit
//	})
//
//	if err := rc.AcquireMemory(4096); err != nil {
//	    // ErrMemoryLimitExceeded
//	}
//	defer rc.ReleaseMemory(4096)
//
// # Thread Safety
//
// All Controller methods are safe for concurrent use.
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
// This allows optional budgeting without nil checks everywhere.
package resource
