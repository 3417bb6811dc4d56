package snapshot

import (
	"fmt"

	"github.com/hupe1980/abcsmc/codec"
)

// Blob layout: [compression uint8][len(codec) uint8][codec name][block].

func encodeHeader(c codec.Compression, codecName string, block []byte) []byte {
	out := make([]byte, 0, 2+len(codecName)+len(block))
	out = append(out, byte(c), byte(len(codecName)))
	out = append(out, codecName...)
	return append(out, block...)
}

func decodeHeader(data []byte) (codec.Compression, string, []byte, error) {
	if len(data) < 2 {
		return 0, "", nil, ErrCorrupt
	}
	c := codec.Compression(data[0])
	if c > codec.CompressionZSTD {
		return 0, "", nil, fmt.Errorf("unknown compression %d: %w", data[0], ErrCorrupt)
	}
	n := int(data[1])
	if len(data) < 2+n {
		return 0, "", nil, ErrCorrupt
	}
	return c, string(data[2 : 2+n]), data[2+n:], nil
}
