// Package hash provides the CRC32-Castagnoli (CRC32C) checksum that protects
// snapshot payloads.
//
// Go's crc32 package uses hardware instructions for the Castagnoli
// polynomial when available (SSE4.2 on x86-64, the CRC extension on ARM64).
//
// For one-shot checksums:
//
//	checksum := hash.CRC32C(data)
//
// For streaming checksums:
//
//	h := hash.NewCRC32C()
//	h.Write(chunk1)
//	h.Write(chunk2)
//	checksum := h.Sum32()
package hash
