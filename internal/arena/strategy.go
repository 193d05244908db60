package arena

import (
	"fmt"

	"github.com/hupe1980/vmarena/internal/mem"
)

// candidate returns the first offset at or after off whose address is a
// multiple of align.
func (a *Arena) candidate(off, align int64) (int64, error) {
	addr, err := mem.AlignForward(a.base+uintptr(off), uintptr(align)) //nolint:gosec // off, align >= 0
	if err != nil {
		return 0, err
	}
	return int64(addr - a.base), nil //nolint:gosec // bounded by off+align
}

func (a *Arena) exhausted(off, size, align int64) error {
	return fmt.Errorf("%w: size %d align %d at offset %d of %d", ErrExhausted, size, align, off, a.capacity)
}

func (a *Arena) allocSerial(size, align int64) (int64, error) {
	off := a.offset.Load()

	cand, err := a.candidate(off, align)
	if err != nil {
		return 0, err
	}
	if size > a.capacity-cand {
		return 0, a.exhausted(off, size, align)
	}

	end := cand + size
	if a.commit != nil {
		if err := a.commit.ensure(end); err != nil {
			return 0, err
		}
	}
	a.offset.Store(end)

	return cand, nil
}

func (a *Arena) allocCAS(size, align int64) (int64, error) {
	off := a.offset.Load()

	for {
		cand, err := a.candidate(off, align)
		if err != nil {
			return 0, err
		}
		// offset never decreases between clears, so a full arena stays full.
		if size > a.capacity-cand {
			return 0, a.exhausted(off, size, align)
		}

		end := cand + size
		// Commit before publishing: a failed commit leaves offset untouched.
		if a.commit != nil {
			if err := a.commit.ensure(end); err != nil {
				return 0, err
			}
		}

		if a.offset.CompareAndSwap(off, end) {
			return cand, nil
		}

		a.stats.CASRetries.Add(1)
		off = a.offset.Load()
	}
}

func (a *Arena) allocFetchAdd(size, align int64) (int64, error) {
	// A step above capacity can never fit. Rejecting it before the add keeps
	// every in-flight step <= capacity, so offset cannot wrap past MaxInt64.
	if size > a.capacity {
		return 0, a.exhausted(a.offset.Load(), size, align)
	}
	rounded, err := mem.AlignForward(uintptr(size), uintptr(align)) //nolint:gosec // size, align >= 0
	if err != nil {
		return 0, err
	}
	step := int64(rounded) //nolint:gosec // bounded by size+align
	if step > a.capacity {
		return 0, a.exhausted(a.offset.Load(), size, align)
	}

	end := a.offset.Add(step)
	cand := end - step

	if size > a.capacity-cand {
		// Until every overshooting caller has subtracted its step, offset may
		// read above capacity. Every later adder overshoots too, so the sum
		// settles back at the last successful end.
		a.offset.Add(-step)
		a.stats.Rollbacks.Add(1)
		return 0, a.exhausted(cand, size, align)
	}

	if a.commit != nil {
		if err := a.commit.ensure(cand + size); err != nil {
			// Only undo the add while no later allocation sits on top of it;
			// otherwise the range stays consumed until Clear.
			if a.offset.CompareAndSwap(end, cand) {
				a.stats.Rollbacks.Add(1)
			}
			return 0, err
		}
	}

	return cand, nil
}
