package vmarena

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vmarena/internal/fs"
)

func withSnapshotFS(t *testing.T, fsys fs.FileSystem) {
	t.Helper()
	prev := snapshotFS
	snapshotFS = fsys
	t.Cleanup(func() { snapshotFS = prev })
}

func TestSnapshotFile_Faults(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fs.FaultyFS)
	}{
		{"write", func(f *fs.FaultyFS) { f.AddRule(".tmp", fs.Fault{FailAfterBytes: 16}) }},
		{"sync", func(f *fs.FaultyFS) { f.AddRule(".tmp", fs.Fault{FailAfterBytes: -1, FailOnSync: true}) }},
		{"rename", func(f *fs.FaultyFS) { f.FailRename = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "arena.snap")

			a, err := New(1 << 16)
			require.NoError(t, err)
			defer a.Close()
			_, err = a.Alloc(1000, 8)
			require.NoError(t, err)

			// An earlier snapshot must survive a failed replacement.
			require.NoError(t, a.SnapshotFile(path, CompressionNone))
			prev, err := os.ReadFile(path)
			require.NoError(t, err)

			_, err = a.Alloc(1000, 8)
			require.NoError(t, err)

			ffs := fs.NewFaultyFS(nil)
			tt.setup(ffs)
			withSnapshotFS(t, ffs)

			assert.ErrorIs(t, a.SnapshotFile(path, CompressionNone), fs.ErrInjected)
			assert.Equal(t, []string{path + ".tmp"}, ffs.Removed())

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, prev, got)

			r, err := RestoreFile(path)
			require.NoError(t, err)
			defer r.Close()
			assert.Equal(t, int64(1000), r.Offset())
		})
	}
}
