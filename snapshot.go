package vmarena

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/hupe1980/vmarena/internal/conv"
	"github.com/hupe1980/vmarena/internal/fs"
	"github.com/hupe1980/vmarena/internal/mmap"
	"github.com/hupe1980/vmarena/internal/snapshot"
)

// Compression selects the snapshot block codec.
type Compression = snapshot.Compression

const (
	// CompressionNone stores blocks raw.
	CompressionNone = snapshot.CompressionNone
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 = snapshot.CompressionLZ4
	// CompressionZstd uses Zstandard (better ratio).
	CompressionZstd = snapshot.CompressionZstd
)

// snapshotFS backs SnapshotFile and RestoreFile.
var snapshotFS fs.FileSystem = fs.Default

// countingWriter reports how many bytes a snapshot produced.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// Snapshot writes the bytes [0, Offset) together with the arena's strategy,
// page size and capacity to w.
//
// Snapshot is a barrier operation: no allocation may be in flight.
func (a *Arena) Snapshot(w io.Writer, c Compression) error {
	used := a.core.Used()
	if used == nil {
		return ErrClosed
	}

	cw := &countingWriter{w: w}
	err := snapshot.Write(cw, snapshot.Header{
		Compression: c,
		Strategy:    uint8(a.core.Strategy()),
		PageSize:    a.core.PageSize(),
		Capacity:    a.core.Capacity(),
	}, used, 0)
	err = translateSnapshotError(err)

	a.logger.LogSnapshot(c, cw.n, err)
	return err
}

// SnapshotFile writes a snapshot to path. The file is written to a
// temporary sibling and renamed into place, so an existing snapshot at path
// is replaced only by a complete one.
func (a *Arena) SnapshotFile(path string, c Compression) error {
	return fs.WriteAtomic(snapshotFS, path, func(w io.Writer) error {
		bw := bufio.NewWriter(w)
		if err := a.Snapshot(bw, c); err != nil {
			return err
		}
		return bw.Flush()
	})
}

// RestoreFile restores an arena from a snapshot file written by SnapshotFile.
func RestoreFile(path string, opts ...Option) (*Arena, error) {
	f, err := snapshotFS.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Restore(bufio.NewReader(f), opts...)
}

// Restore reads a snapshot from r into a new arena with the recorded
// capacity, strategy and page size, and positions its offset after the
// restored bytes. opts are applied after the recorded settings, so they may
// override the strategy or supply a buffer.
func Restore(r io.Reader, opts ...Option) (*Arena, error) {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	a, err := restore(r, opts)
	o.logger.LogRestore(offsetOf(a), err)
	return a, err
}

func restore(r io.Reader, opts []Option) (*Arena, error) {
	h, err := snapshot.ReadHeader(r)
	if err != nil {
		return nil, translateSnapshotError(err)
	}

	capacity, err := conv.To[int](h.Capacity)
	if err != nil {
		return nil, fmt.Errorf("%w: capacity: %w", ErrInvalidSnapshot, err)
	}

	if Strategy(h.Strategy) > StrategyFetchAdd {
		return nil, fmt.Errorf("%w: strategy %d", ErrInvalidSnapshot, h.Strategy)
	}

	o := defaultOptions()
	o.strategy = Strategy(h.Strategy)
	if h.PageSize >= int64(mmap.PageSize()) {
		o.pageSize = int(h.PageSize)
	}
	for _, fn := range opts {
		fn(&o)
	}

	a, err := newArena(capacity, o)
	if err != nil {
		return nil, err
	}

	// Blocks are decoded straight into committed arena pages, so memory
	// grows only as payload data actually arrives.
	err = a.core.LoadFunc(h.Offset, func(grow func(from, end int64) ([]byte, error)) error {
		return snapshot.ReadBlocks(r, h, func(pos, n int) ([]byte, error) {
			return grow(int64(pos), int64(pos+n))
		})
	})
	if err != nil {
		_ = a.Close()
		return nil, translateSnapshotError(err)
	}

	return a, nil
}

func offsetOf(a *Arena) int64 {
	if a == nil {
		return 0
	}
	return a.Offset()
}
