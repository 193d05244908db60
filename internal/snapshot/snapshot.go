package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/vmarena/internal/conv"
	"github.com/hupe1980/vmarena/internal/hash"
)

// DefaultBlockSize is the uncompressed size of each block.
const DefaultBlockSize = 256 * 1024

const (
	headerSize      = 40
	blockHeaderSize = 8
	version         = uint16(1)
)

var magic = [4]byte{'V', 'M', 'A', 'R'}

var (
	// ErrInvalidMagic is returned when the stream is not a snapshot.
	ErrInvalidMagic = errors.New("snapshot: invalid magic")
	// ErrUnsupportedVersion is returned for snapshots from a newer format.
	ErrUnsupportedVersion = errors.New("snapshot: unsupported version")
	// ErrUnknownCompression is returned for an unrecognized codec byte.
	ErrUnknownCompression = errors.New("snapshot: unknown compression")
	// ErrChecksumMismatch is returned when the payload does not match its checksum.
	ErrChecksumMismatch = errors.New("snapshot: checksum mismatch")
	// ErrCorrupt is returned when the block stream is malformed.
	ErrCorrupt = errors.New("snapshot: corrupt block stream")
)

// Header describes the arena a snapshot was taken from.
type Header struct {
	Compression Compression
	Strategy    uint8
	PageSize    int64
	Capacity    int64
	Offset      int64
	Checksum    uint32
}

// Checksum returns the CRC-32C used to verify payloads.
func Checksum(payload []byte) uint32 {
	return hash.CRC32C(payload)
}

// Write encodes h and payload to w. h.Offset and h.Checksum are taken from
// payload. blockSize <= 0 selects DefaultBlockSize.
func Write(w io.Writer, h Header, payload []byte, blockSize int) error {
	if !h.Compression.valid() {
		return fmt.Errorf("%w: %d", ErrUnknownCompression, h.Compression)
	}
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}

	h.Offset = int64(len(payload))
	h.Checksum = Checksum(payload)
	if err := writeHeader(w, h); err != nil {
		return err
	}

	block := make([]byte, blockHeaderSize)
	for len(payload) > 0 {
		n := min(blockSize, len(payload))
		if err := writeBlock(w, block, payload[:n], h.Compression); err != nil {
			return err
		}
		payload = payload[n:]
	}
	return nil
}

func writeHeader(w io.Writer, h Header) error {
	pageSize, err := conv.To[uint64](h.PageSize)
	if err != nil {
		return fmt.Errorf("snapshot: page size: %w", err)
	}
	capacity, err := conv.To[uint64](h.Capacity)
	if err != nil {
		return fmt.Errorf("snapshot: capacity: %w", err)
	}
	offset, err := conv.To[uint64](h.Offset)
	if err != nil {
		return fmt.Errorf("snapshot: offset: %w", err)
	}

	buf := make([]byte, headerSize)
	copy(buf[0:4], magic[:])
	binary.LittleEndian.PutUint16(buf[4:6], version)
	buf[6] = byte(h.Compression)
	buf[7] = h.Strategy
	binary.LittleEndian.PutUint64(buf[8:16], pageSize)
	binary.LittleEndian.PutUint64(buf[16:24], capacity)
	binary.LittleEndian.PutUint64(buf[24:32], offset)
	binary.LittleEndian.PutUint32(buf[32:36], h.Checksum)
	// buf[36:40] reserved

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("snapshot: write header: %w", err)
	}
	return nil
}

func writeBlock(w io.Writer, hdr, data []byte, c Compression) error {
	raw, err := conv.To[uint32](len(data))
	if err != nil {
		return fmt.Errorf("snapshot: block size: %w", err)
	}

	out, err := compress(data, c)
	if err != nil {
		return fmt.Errorf("snapshot: compress block: %w", err)
	}

	var packed uint32
	if out != nil {
		packed = uint32(len(out)) //nolint:gosec // smaller than raw
	} else {
		out = data
	}

	binary.LittleEndian.PutUint32(hdr[0:4], raw)
	binary.LittleEndian.PutUint32(hdr[4:8], packed)
	if _, err := w.Write(hdr); err != nil {
		return fmt.Errorf("snapshot: write block: %w", err)
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("snapshot: write block: %w", err)
	}
	return nil
}

// ReadHeader decodes and validates the snapshot header.
func ReadHeader(r io.Reader) (Header, error) {
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Header{}, fmt.Errorf("snapshot: read header: %w", err)
	}

	if [4]byte(buf[0:4]) != magic {
		return Header{}, fmt.Errorf("%w: %q", ErrInvalidMagic, buf[0:4])
	}
	if v := binary.LittleEndian.Uint16(buf[4:6]); v != version {
		return Header{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}

	h := Header{
		Compression: Compression(buf[6]),
		Strategy:    buf[7],
		Checksum:    binary.LittleEndian.Uint32(buf[32:36]),
	}
	if !h.Compression.valid() {
		return Header{}, fmt.Errorf("%w: %d", ErrUnknownCompression, h.Compression)
	}

	var err error
	if h.PageSize, err = conv.To[int64](binary.LittleEndian.Uint64(buf[8:16])); err != nil {
		return Header{}, fmt.Errorf("snapshot: page size: %w", err)
	}
	if h.Capacity, err = conv.To[int64](binary.LittleEndian.Uint64(buf[16:24])); err != nil {
		return Header{}, fmt.Errorf("snapshot: capacity: %w", err)
	}
	if h.Offset, err = conv.To[int64](binary.LittleEndian.Uint64(buf[24:32])); err != nil {
		return Header{}, fmt.Errorf("snapshot: offset: %w", err)
	}
	if h.Offset > h.Capacity {
		return Header{}, fmt.Errorf("%w: offset %d beyond capacity %d", ErrCorrupt, h.Offset, h.Capacity)
	}

	return h, nil
}

// ReadPayload decodes the block stream following a header into dst, which
// must be exactly h.Offset bytes long, and verifies the checksum.
func ReadPayload(r io.Reader, h Header, dst []byte) error {
	if int64(len(dst)) != h.Offset {
		return fmt.Errorf("snapshot: payload buffer is %d bytes, want %d", len(dst), h.Offset)
	}
	return ReadBlocks(r, h, func(pos, n int) ([]byte, error) {
		return dst[pos : pos+n : pos+n], nil
	})
}

// ReadBlocks decodes the block stream following a header without buffering
// the payload. For each block, next returns the destination for the n bytes
// at pos; blocks arrive in order. The checksum over all blocks is verified
// after the last one, so callers must not expose the data before ReadBlocks
// returns nil. Errors from next are returned unchanged.
func ReadBlocks(r io.Reader, h Header, next func(pos, n int) ([]byte, error)) error {
	total, err := conv.To[int](h.Offset)
	if err != nil {
		return fmt.Errorf("%w: offset: %w", ErrCorrupt, err)
	}

	sum := hash.NewCRC32C()
	hdr := make([]byte, blockHeaderSize)
	var scratch []byte
	for pos := 0; pos < total; {
		if _, err := io.ReadFull(r, hdr); err != nil {
			return fmt.Errorf("%w: block header at %d: %w", ErrCorrupt, pos, err)
		}
		raw := int(binary.LittleEndian.Uint32(hdr[0:4]))
		packed := int(binary.LittleEndian.Uint32(hdr[4:8]))
		if raw == 0 || raw > total-pos {
			return fmt.Errorf("%w: block of %d bytes at %d", ErrCorrupt, raw, pos)
		}
		if packed >= raw {
			return fmt.Errorf("%w: compressed block larger than its data at %d", ErrCorrupt, pos)
		}

		out, err := next(pos, raw)
		if err != nil {
			return err
		}

		if packed == 0 {
			if _, err := io.ReadFull(r, out); err != nil {
				return fmt.Errorf("%w: block data at %d: %w", ErrCorrupt, pos, err)
			}
		} else {
			if cap(scratch) < packed {
				scratch = make([]byte, packed)
			}
			src := scratch[:packed]
			if _, err := io.ReadFull(r, src); err != nil {
				return fmt.Errorf("%w: block data at %d: %w", ErrCorrupt, pos, err)
			}
			if err := decompress(out, src, h.Compression); err != nil {
				return err
			}
		}
		_, _ = sum.Write(out)
		pos += raw
	}

	if got := sum.Sum32(); got != h.Checksum {
		return fmt.Errorf("%w: got %08x, want %08x", ErrChecksumMismatch, got, h.Checksum)
	}
	return nil
}
