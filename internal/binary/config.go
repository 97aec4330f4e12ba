// Package binary provides positioned little-endian I/O for HDF5 metadata
// with configurable offset and length widths.
package binary

import (
	"encoding/binary"
	"errors"
)

// ErrInvalidSize is returned when an offset or length width is not 2, 4 or 8.
var ErrInvalidSize = errors.New("invalid offset/length size: must be 2, 4, or 8")

// Config holds the field widths shared by readers and writers of one file.
type Config struct {
	ByteOrder  binary.ByteOrder
	OffsetSize int // 2, 4, or 8 bytes
	LengthSize int // 2, 4, or 8 bytes
}

// DefaultConfig returns little-endian with 8-byte offsets and lengths.
func DefaultConfig() Config {
	return Config{
		ByteOrder:  binary.LittleEndian,
		OffsetSize: 8,
		LengthSize: 8,
	}
}

// Validate checks the configured widths.
func (c Config) Validate() error {
	if !validSize(c.OffsetSize) || !validSize(c.LengthSize) {
		return ErrInvalidSize
	}
	return nil
}

func validSize(n int) bool {
	return n == 2 || n == 4 || n == 8
}

// undefined returns the all-ones value for a field of n bytes.
func undefined(n int) uint64 {
	if n >= 8 {
		return ^uint64(0)
	}
	return uint64(1)<<(8*uint(n)) - 1
}
