package arena

import (
	"fmt"
	"sync/atomic"

	"github.com/hupe1980/vmarena/internal/mem"
)

// committer tracks the committed prefix of a Backing.
type committer struct {
	backing    Backing
	pageSize   int64
	capacity   int64
	committed  atomic.Int64 // page multiple, never decreases
	concurrent bool
	acquirer   MemoryAcquirer
	onCommit   func(from, n int64)
	stats      *atomicStats
}

// ensure makes sure [0, end) is committed. end must not exceed capacity.
func (c *committer) ensure(end int64) error {
	if end <= c.committed.Load() {
		return nil
	}
	if c.concurrent {
		return c.ensureConcurrent(end)
	}
	return c.ensureSerial(end)
}

func (c *committer) ensureSerial(end int64) error {
	from := c.committed.Load()
	delta, err := c.grow(from, end)
	if err != nil {
		return err
	}
	c.committed.Store(from + delta)
	c.published(from, delta)
	return nil
}

// ensureConcurrent commits the page-rounded shortfall against a snapshot of
// the boundary and publishes it with CAS. A goroutine that loses the race
// has committed pages that are already (or will be) committed by the winner;
// it hands its budget back and retries against the new boundary. Until that
// refund lands, a third committer near a budget limit can still be refused.
func (c *committer) ensureConcurrent(end int64) error {
	for {
		snap := c.committed.Load()
		if end <= snap {
			return nil
		}

		delta, err := c.grow(snap, end)
		if err != nil {
			// A racing winner may have covered end while our budget request
			// was refused.
			if end <= c.committed.Load() {
				return nil
			}
			return err
		}

		if c.committed.CompareAndSwap(snap, snap+delta) {
			c.published(snap, delta)
			return nil
		}

		if c.acquirer != nil {
			c.acquirer.ReleaseMemory(delta)
		}
		c.stats.CommitRetries.Add(1)
	}
}

// grow commits pages from `from` up to end rounded to the page size and
// returns the number of bytes committed.
func (c *committer) grow(from, end int64) (int64, error) {
	delta := mem.RoundUp(end-from, c.pageSize)
	if delta > c.capacity-from {
		delta = c.capacity - from
	}

	if c.acquirer != nil {
		if err := c.acquirer.AcquireMemory(delta); err != nil {
			return 0, fmt.Errorf("%w: [%d, %d): %w", ErrCommitFailed, from, from+delta, err)
		}
	}

	if err := c.backing.Commit(int(from), int(delta)); err != nil {
		if c.acquirer != nil {
			c.acquirer.ReleaseMemory(delta)
		}
		return 0, fmt.Errorf("%w: [%d, %d): %w", ErrCommitFailed, from, from+delta, err)
	}

	return delta, nil
}

func (c *committer) published(from, delta int64) {
	c.stats.Commits.Add(1)
	if c.onCommit != nil {
		c.onCommit(from, delta)
	}
}

// release returns the committed bytes to the budget.
func (c *committer) release() {
	if c.acquirer != nil {
		c.acquirer.ReleaseMemory(c.committed.Load())
	}
}
