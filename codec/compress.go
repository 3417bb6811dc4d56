package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the block compression applied to encoded records.
type Compression uint8

const (
	// CompressionNone stores blocks as-is.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD block compression (better ratio).
	CompressionZSTD Compression = 2
)

var (
	// ErrShortBlock is returned when a block is smaller than its header says.
	ErrShortBlock = errors.New("codec: block too small")

	// ErrSizeMismatch is returned when a block decompresses to an unexpected size.
	ErrSizeMismatch = errors.New("codec: decompressed size mismatch")
)

// String returns the compression name.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// ParseCompression returns the compression for a name. The empty string
// selects CompressionNone.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	default:
		return CompressionNone, fmt.Errorf("codec: unknown compression %q", name)
	}
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

// blockHeaderSize is the size of [UncompressedSize uint32][CompressedSize uint32].
// A CompressedSize of 0 marks a block stored uncompressed.
const blockHeaderSize = 8

// minSavings is the compressed/raw ratio above which a block is stored raw.
const minSavings = 0.9

// Compress encodes data as a block. Blocks that do not shrink are stored
// raw, so Decompress must be called with the same Compression.
func Compress(data []byte, c Compression) ([]byte, error) {
	if c == CompressionNone {
		return data, nil
	}

	var (
		compressed []byte
		err        error
	)
	switch c {
	case CompressionLZ4:
		compressed, err = compressLZ4(data)
	case CompressionZSTD:
		compressed, err = compressZSTD(data)
	default:
		return nil, fmt.Errorf("codec: unknown compression %d", uint8(c))
	}
	if err != nil {
		return nil, err
	}

	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*minSavings {
		out := make([]byte, blockHeaderSize+len(data))
		binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
		binary.LittleEndian.PutUint32(out[4:], 0)
		copy(out[blockHeaderSize:], data)
		return out, nil
	}

	out := make([]byte, blockHeaderSize+len(compressed))
	binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(out[4:], uint32(len(compressed)))
	copy(out[blockHeaderSize:], compressed)
	return out, nil
}

func compressLZ4(data []byte) ([]byte, error) {
	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, dst, nil)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil // incompressible
	}
	return dst[:n], nil
}

func compressZSTD(data []byte) ([]byte, error) {
	enc, err := getZstdEncoder()
	if err != nil {
		return nil, err
	}
	defer zstdEncoderPool.Put(enc)
	return enc.EncodeAll(data, nil), nil
}

// Decompress reverses Compress.
func Decompress(block []byte, c Compression) ([]byte, error) {
	if c == CompressionNone {
		return block, nil
	}
	if len(block) < blockHeaderSize {
		return nil, ErrShortBlock
	}

	rawSize := binary.LittleEndian.Uint32(block[0:])
	compressedSize := binary.LittleEndian.Uint32(block[4:])
	body := block[blockHeaderSize:]

	if compressedSize == 0 {
		if uint64(len(body)) < uint64(rawSize) {
			return nil, ErrShortBlock
		}
		return body[:rawSize], nil
	}
	if uint64(len(body)) < uint64(compressedSize) {
		return nil, ErrShortBlock
	}
	body = body[:compressedSize]

	switch c {
	case CompressionLZ4:
		out := make([]byte, rawSize)
		n, err := lz4.UncompressBlock(body, out)
		if err != nil {
			return nil, err
		}
		if uint32(n) != rawSize {
			return nil, ErrSizeMismatch
		}
		return out, nil
	case CompressionZSTD:
		dec, err := getZstdDecoder()
		if err != nil {
			return nil, err
		}
		defer zstdDecoderPool.Put(dec)

		out, err := dec.DecodeAll(body, make([]byte, 0, rawSize))
		if err != nil {
			return nil, err
		}
		if uint32(len(out)) != rawSize {
			return nil, ErrSizeMismatch
		}
		return out, nil
	default:
		return nil, fmt.Errorf("codec: unknown compression %d", uint8(c))
	}
}
