// Package snapshot encodes the used prefix of an arena as a self-describing
// stream.
//
// Format (little endian):
//
//	Magic       (4 bytes)  "VMAR"
//	Version     (2 bytes)
//	Compression (1 byte)
//	Strategy    (1 byte)
//	PageSize    (8 bytes)
//	Capacity    (8 bytes)
//	Offset      (8 bytes)  length of the payload
//	Checksum    (4 bytes)  CRC-32C of the uncompressed payload
//	Reserved    (4 bytes)
//	Blocks...
//	  Uncompressed (4 bytes)
//	  Compressed   (4 bytes) 0 means stored raw
//	  Data
package snapshot
