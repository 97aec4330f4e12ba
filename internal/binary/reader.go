package binary

import (
	"encoding/binary"
	"io"
)

// Reader reads HDF5 fields from an explicit position of an io.ReaderAt.
type Reader struct {
	r          io.ReaderAt
	order      binary.ByteOrder
	offsetSize int
	lengthSize int
	pos        int64
}

// NewReader creates a reader positioned at offset 0.
func NewReader(r io.ReaderAt, cfg Config) *Reader {
	return &Reader{
		r:          r,
		order:      cfg.ByteOrder,
		offsetSize: cfg.OffsetSize,
		lengthSize: cfg.LengthSize,
	}
}

// At returns a reader sharing the source but positioned at offset.
func (r *Reader) At(offset int64) *Reader {
	c := *r
	c.pos = offset
	return &c
}

// Pos returns the current read position.
func (r *Reader) Pos() int64 { return r.pos }

// Skip advances the position by n bytes.
func (r *Reader) Skip(n int64) { r.pos += n }

// OffsetSize returns the configured offset width in bytes.
func (r *Reader) OffsetSize() int { return r.offsetSize }

// LengthSize returns the configured length width in bytes.
func (r *Reader) LengthSize() int { return r.lengthSize }

// ReadBytes reads exactly n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if n == 0 {
		return buf, nil
	}
	read, err := r.r.ReadAt(buf, r.pos)
	r.pos += int64(read)
	if read == n {
		return buf, nil
	}
	if err == nil || err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return nil, err
}

// ReadUint8 reads one byte.
func (r *Reader) ReadUint8() (uint8, error) {
	b, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUint16 reads a 2-byte unsigned integer.
func (r *Reader) ReadUint16() (uint16, error) {
	v, err := r.ReadUintN(2)
	return uint16(v), err
}

// ReadUint32 reads a 4-byte unsigned integer.
func (r *Reader) ReadUint32() (uint32, error) {
	v, err := r.ReadUintN(4)
	return uint32(v), err
}

// ReadUintN reads an n-byte unsigned integer.
func (r *Reader) ReadUintN(n int) (uint64, error) {
	buf, err := r.ReadBytes(n)
	if err != nil {
		return 0, err
	}
	return DecodeUint(r.order, buf), nil
}

// ReadOffset reads a file address.
func (r *Reader) ReadOffset() (uint64, error) {
	return r.ReadUintN(r.offsetSize)
}

// ReadLength reads a length.
func (r *Reader) ReadLength() (uint64, error) {
	return r.ReadUintN(r.lengthSize)
}

// IsUndefinedOffset reports whether v is the all-ones address.
func (r *Reader) IsUndefinedOffset(v uint64) bool {
	return v == undefined(r.offsetSize)
}

// DecodeUint decodes a 1, 2, 4 or 8 byte unsigned integer; other widths
// are read little-endian.
func DecodeUint(order binary.ByteOrder, buf []byte) uint64 {
	switch len(buf) {
	case 2:
		return uint64(order.Uint16(buf))
	case 4:
		return uint64(order.Uint32(buf))
	case 8:
		return order.Uint64(buf)
	}
	var v uint64
	for i, b := range buf {
		v |= uint64(b) << (8 * uint(i))
	}
	return v
}
