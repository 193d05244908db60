package vmarena

// Close releases the arena's reservation and returns its committed bytes to
// the memory budget. Every range the arena returned becomes invalid. In
// fixed-buffer mode the buffer itself stays with the caller.
//
// Close is idempotent. Do NOT call it concurrently with allocations.
func (a *Arena) Close() error {
	if a == nil || a.core == nil {
		return nil
	}
	err := a.core.Close()
	a.logger.LogClose(err)
	return err
}
