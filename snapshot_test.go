package vmarena_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vmarena"
)

func fill(t *testing.T, a *vmarena.Arena) {
	t.Helper()

	for i := range 200 {
		b, err := a.Alloc(100+i, 8)
		require.NoError(t, err)
		for j := range b {
			b[j] = byte(i % 13)
		}
	}
}

func TestSnapshot_RoundTrip(t *testing.T) {
	for _, c := range []vmarena.Compression{vmarena.CompressionNone, vmarena.CompressionLZ4, vmarena.CompressionZstd} {
		t.Run(c.String(), func(t *testing.T) {
			a, err := vmarena.New(1<<20, vmarena.WithStrategy(vmarena.StrategySerial))
			require.NoError(t, err)
			defer a.Close()
			fill(t, a)

			var buf bytes.Buffer
			require.NoError(t, a.Snapshot(&buf, c))
			if c != vmarena.CompressionNone {
				assert.Less(t, int64(buf.Len()), a.Offset())
			}

			r, err := vmarena.Restore(&buf)
			require.NoError(t, err)
			defer r.Close()

			assert.Equal(t, a.Offset(), r.Offset())
			assert.Equal(t, a.Capacity(), r.Capacity())
			assert.Equal(t, vmarena.StrategySerial, r.Strategy())
			assert.Equal(t, a.Used(), r.Used())
			assert.GreaterOrEqual(t, r.Committed(), r.Offset())

			// Allocation continues after the restored prefix.
			b, err := r.Alloc(8, 8)
			require.NoError(t, err)
			assert.Len(t, b, 8)
			assert.Greater(t, r.Offset(), a.Offset())
		})
	}
}

func TestSnapshot_Empty(t *testing.T) {
	a, err := vmarena.New(1 << 16)
	require.NoError(t, err)
	defer a.Close()

	var buf bytes.Buffer
	require.NoError(t, a.Snapshot(&buf, vmarena.CompressionLZ4))

	r, err := vmarena.Restore(&buf)
	require.NoError(t, err)
	defer r.Close()
	assert.Zero(t, r.Offset())
	assert.Zero(t, r.Committed())
}

func TestRestore_Options(t *testing.T) {
	a, err := vmarena.New(1 << 16)
	require.NoError(t, err)
	defer a.Close()
	fill(t, a)

	var buf bytes.Buffer
	require.NoError(t, a.Snapshot(&buf, vmarena.CompressionZstd))
	data := buf.Bytes()

	t.Run("strategy override", func(t *testing.T) {
		r, err := vmarena.Restore(bytes.NewReader(data), vmarena.WithStrategy(vmarena.StrategyFetchAdd))
		require.NoError(t, err)
		defer r.Close()
		assert.Equal(t, vmarena.StrategyFetchAdd, r.Strategy())
	})

	t.Run("into buffer", func(t *testing.T) {
		mem := make([]byte, a.Capacity())
		r, err := vmarena.Restore(bytes.NewReader(data), vmarena.WithBuffer(mem))
		require.NoError(t, err)
		defer r.Close()
		assert.Equal(t, a.Used(), mem[:a.Offset()])
	})

	t.Run("memory limit", func(t *testing.T) {
		rc := vmarena.NewResourceController(int64(os.Getpagesize()))
		_, err := vmarena.Restore(bytes.NewReader(data), vmarena.WithResourceController(rc))
		assert.ErrorIs(t, err, vmarena.ErrCommitFailed)
		assert.Zero(t, rc.MemoryUsage())
	})
}

func TestRestore_Invalid(t *testing.T) {
	a, err := vmarena.New(1 << 16)
	require.NoError(t, err)
	defer a.Close()
	fill(t, a)

	var buf bytes.Buffer
	require.NoError(t, a.Snapshot(&buf, vmarena.CompressionNone))
	data := buf.Bytes()

	t.Run("magic", func(t *testing.T) {
		b := bytes.Clone(data)
		b[0] = 'x'
		_, err := vmarena.Restore(bytes.NewReader(b))
		assert.ErrorIs(t, err, vmarena.ErrInvalidSnapshot)
	})

	t.Run("payload", func(t *testing.T) {
		b := bytes.Clone(data)
		b[len(b)-1] ^= 0x01
		_, err := vmarena.Restore(bytes.NewReader(b))
		assert.ErrorIs(t, err, vmarena.ErrInvalidSnapshot)
	})

	t.Run("strategy", func(t *testing.T) {
		b := bytes.Clone(data)
		b[7] = 9
		_, err := vmarena.Restore(bytes.NewReader(b))
		assert.ErrorIs(t, err, vmarena.ErrInvalidSnapshot)
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := vmarena.Restore(bytes.NewReader(data[:20]))
		assert.Error(t, err)
	})

	t.Run("claimed offset without payload", func(t *testing.T) {
		b := bytes.Clone(data[:40])
		binary.LittleEndian.PutUint64(b[16:24], 4<<30) // capacity
		binary.LittleEndian.PutUint64(b[24:32], 4<<30) // offset

		var before, after runtime.MemStats
		runtime.ReadMemStats(&before)
		_, err := vmarena.Restore(bytes.NewReader(b))
		runtime.ReadMemStats(&after)
		if errors.Is(err, vmarena.ErrOutOfAddressSpace) {
			t.Skip("cannot reserve 4 GiB of address space here")
		}

		assert.ErrorIs(t, err, vmarena.ErrInvalidSnapshot)
		assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(16<<20), "restore must not size buffers from the header")
	})
}

func TestSnapshot_Closed(t *testing.T) {
	a, err := vmarena.New(1 << 16)
	require.NoError(t, err)
	require.NoError(t, a.Close())

	var buf bytes.Buffer
	assert.ErrorIs(t, a.Snapshot(&buf, vmarena.CompressionNone), vmarena.ErrClosed)
}

func TestSnapshotFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.snap")

	a, err := vmarena.New(1 << 20)
	require.NoError(t, err)
	defer a.Close()
	fill(t, a)

	require.NoError(t, a.SnapshotFile(path, vmarena.CompressionLZ4))

	r, err := vmarena.RestoreFile(path)
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, a.Used(), r.Used())

	_, err = vmarena.RestoreFile(filepath.Join(t.TempDir(), "missing.snap"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
