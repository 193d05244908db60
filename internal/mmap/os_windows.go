//go:build windows

package mmap

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

func osReserve(size int) ([]byte, func([]byte) error, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_RESERVE, windows.PAGE_NOACCESS)
	if err != nil {
		return nil, nil, err
	}

	data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)

	return data, func([]byte) error {
		// MEM_RELEASE frees the whole reservation, committed pages included.
		return windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
	}, nil
}

func osCommit(data []byte) error {
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(data)))
	_, err := windows.VirtualAlloc(addr, uintptr(len(data)), windows.MEM_COMMIT, windows.PAGE_READWRITE)
	return err
}
