package snapshot

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the block codec.
type Compression uint8

const (
	// CompressionNone stores blocks raw.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZstd uses Zstandard (better ratio).
	CompressionZstd Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

func (c Compression) valid() bool {
	return c <= CompressionZstd
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil)
}

// compress returns the encoded form of data, or nil when the codec does not
// make it smaller.
func compress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case CompressionLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, dst, nil)
		if err != nil {
			return nil, err
		}
		if n == 0 || n >= len(data) {
			return nil, nil
		}
		return dst[:n], nil
	case CompressionZstd:
		enc, err := getZstdEncoder()
		if err != nil {
			return nil, err
		}
		defer zstdEncoderPool.Put(enc)

		out := enc.EncodeAll(data, nil)
		if len(out) >= len(data) {
			return nil, nil
		}
		return out, nil
	default:
		return nil, nil
	}
}

// decompress decodes src into dst, which must have exactly the uncompressed
// length.
func decompress(dst, src []byte, c Compression) error {
	switch c {
	case CompressionLZ4:
		n, err := lz4.UncompressBlock(src, dst)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if n != len(dst) {
			return fmt.Errorf("%w: decompressed %d bytes, want %d", ErrCorrupt, n, len(dst))
		}
		return nil
	case CompressionZstd:
		dec, err := getZstdDecoder()
		if err != nil {
			return err
		}
		defer zstdDecoderPool.Put(dec)

		out, err := dec.DecodeAll(src, dst[:0])
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if len(out) != len(dst) {
			return fmt.Errorf("%w: decompressed %d bytes, want %d", ErrCorrupt, len(out), len(dst))
		}
		return nil
	default:
		return fmt.Errorf("%w: compressed block in an uncompressed snapshot", ErrCorrupt)
	}
}
