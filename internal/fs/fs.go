package fs

import (
	"io"
	"os"
	"path/filepath"
)

// File represents an open file.
type File interface {
	io.ReadWriteCloser
	Sync() error
}

// FileSystem abstracts file system operations for testability.
type FileSystem interface {
	OpenFile(name string, flag int, perm os.FileMode) (File, error)
	Remove(name string) error
	Rename(oldpath, newpath string) error
}

// LocalFS implements FileSystem using the local os package.
type LocalFS struct{}

// OpenFile opens the named file with os.OpenFile.
func (LocalFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	return os.OpenFile(name, flag, perm) //nolint:gosec // caller-chosen snapshot path
}

// Remove removes the named file with os.Remove.
func (LocalFS) Remove(name string) error { return os.Remove(name) }

// Rename renames oldpath to newpath with os.Rename.
func (LocalFS) Rename(oldpath, newpath string) error { return os.Rename(oldpath, newpath) }

// Default is the default local file system.
var Default FileSystem = LocalFS{}

// WriteAtomic creates path with the bytes produced by write. The data goes
// to path+".tmp" first, is synced, and is renamed over path. On any error
// the temporary file is removed and path is left untouched.
func WriteAtomic(fsys FileSystem, path string, write func(w io.Writer) error) error {
	if fsys == nil {
		fsys = Default
	}

	tmpPath := path + ".tmp"
	f, err := fsys.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		_ = fsys.Remove(tmpPath)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = fsys.Remove(tmpPath)
		return err
	}
	if err := f.Close(); err != nil {
		_ = fsys.Remove(tmpPath)
		return err
	}

	if err := fsys.Rename(tmpPath, path); err != nil {
		_ = fsys.Remove(tmpPath)
		return err
	}

	return syncDir(fsys, filepath.Dir(path))
}

func syncDir(fsys FileSystem, dir string) error {
	f, err := fsys.OpenFile(dir, os.O_RDONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
