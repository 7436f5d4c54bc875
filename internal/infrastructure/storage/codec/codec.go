// Package codec frames stored values: large JSON documents are compressed
// with zstd, small ones are stored as-is. Decoding detects the frame magic,
// so values written before compression was enabled stay readable.
package codec

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// DefaultThreshold is the value size from which compression kicks in.
const DefaultThreshold = 10 * 1024

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Codec compresses and decompresses stored values. Safe for concurrent use.
type Codec struct {
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
	threshold int
}

// New creates a codec. threshold <= 0 disables compression on write.
func New(threshold int) (*Codec, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &Codec{
		encoder:   encoder,
		decoder:   decoder,
		threshold: threshold,
	}, nil
}

// Encode returns the bytes to store for raw.
func (c *Codec) Encode(raw []byte) []byte {
	if c.threshold <= 0 || len(raw) < c.threshold {
		return raw
	}
	return c.encoder.EncodeAll(raw, make([]byte, 0, len(raw)/4))
}

// Decode reverses Encode.
func (c *Codec) Decode(stored []byte) ([]byte, error) {
	if !IsCompressed(stored) {
		return stored, nil
	}
	raw, err := c.decoder.DecodeAll(stored, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	return raw, nil
}

// IsCompressed reports whether b starts with a zstd frame.
func IsCompressed(b []byte) bool {
	return bytes.HasPrefix(b, zstdMagic)
}
