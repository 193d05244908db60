//go:build unix

package mmap

import (
	"golang.org/x/sys/unix"
)

func osReserve(size int) ([]byte, func([]byte) error, error) {
	// PROT_NONE private anonymous mappings take address space only;
	// the kernel backs nothing until the range is made writable.
	data, err := unix.Mmap(-1, 0, size, unix.PROT_NONE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, err
	}
	return data, unix.Munmap, nil
}

func osCommit(data []byte) error {
	return unix.Mprotect(data, unix.PROT_READ|unix.PROT_WRITE)
}
