package binary

import (
	"encoding/binary"
	"io"
)

// Writer writes HDF5 fields at an explicit position of an io.WriterAt.
type Writer struct {
	w          io.WriterAt
	order      binary.ByteOrder
	offsetSize int
	lengthSize int
	pos        int64
}

// NewWriter creates a writer positioned at offset 0.
func NewWriter(w io.WriterAt, cfg Config) *Writer {
	return &Writer{
		w:          w,
		order:      cfg.ByteOrder,
		offsetSize: cfg.OffsetSize,
		lengthSize: cfg.LengthSize,
	}
}

// At returns a writer sharing the destination but positioned at offset.
func (w *Writer) At(offset int64) *Writer {
	c := *w
	c.pos = offset
	return &c
}

// Config returns the writer's field widths.
func (w *Writer) Config() Config {
	return Config{ByteOrder: w.order, OffsetSize: w.offsetSize, LengthSize: w.lengthSize}
}

// Pos returns the current write position.
func (w *Writer) Pos() int64 { return w.pos }

// OffsetSize returns the configured offset width in bytes.
func (w *Writer) OffsetSize() int { return w.offsetSize }

// LengthSize returns the configured length width in bytes.
func (w *Writer) LengthSize() int { return w.lengthSize }

// ByteOrder returns the configured byte order.
func (w *Writer) ByteOrder() binary.ByteOrder { return w.order }

// WriteBytes writes p at the current position and advances past it.
func (w *Writer) WriteBytes(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	n, err := w.w.WriteAt(p, w.pos)
	w.pos += int64(n)
	return err
}

// WriteZeros writes n zero bytes.
func (w *Writer) WriteZeros(n int) error {
	if n <= 0 {
		return nil
	}
	return w.WriteBytes(make([]byte, n))
}

// WriteUint8 writes one byte.
func (w *Writer) WriteUint8(v uint8) error {
	return w.WriteBytes([]byte{v})
}

// WriteUint16 writes a 2-byte unsigned integer.
func (w *Writer) WriteUint16(v uint16) error {
	return w.WriteUintN(uint64(v), 2)
}

// WriteUint32 writes a 4-byte unsigned integer.
func (w *Writer) WriteUint32(v uint32) error {
	return w.WriteUintN(uint64(v), 4)
}

// WriteUint64 writes an 8-byte unsigned integer.
func (w *Writer) WriteUint64(v uint64) error {
	return w.WriteUintN(v, 8)
}

// WriteUintN writes v in n bytes.
func (w *Writer) WriteUintN(v uint64, n int) error {
	buf := make([]byte, n)
	switch n {
	case 2:
		w.order.PutUint16(buf, uint16(v))
	case 4:
		w.order.PutUint32(buf, uint32(v))
	case 8:
		w.order.PutUint64(buf, v)
	default:
		for i := 0; i < n; i++ {
			buf[i] = byte(v >> (8 * uint(i)))
		}
	}
	return w.WriteBytes(buf)
}

// WriteOffset writes a file address using the configured offset width.
func (w *Writer) WriteOffset(v uint64) error {
	return w.WriteUintN(v, w.offsetSize)
}

// WriteLength writes a length using the configured length width.
func (w *Writer) WriteLength(v uint64) error {
	return w.WriteUintN(v, w.lengthSize)
}

// UndefinedOffset returns the all-ones "undefined address" for this width.
func (w *Writer) UndefinedOffset() uint64 {
	return undefined(w.offsetSize)
}

// Buffer is a growable in-memory io.WriterAt and io.ReaderAt used to
// assemble checksummed structures before they are copied to the file.
type Buffer struct {
	buf []byte
}

// NewBuffer returns a buffer with the given initial capacity.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{buf: make([]byte, 0, capacity)}
}

// WriteAt implements io.WriterAt.
func (b *Buffer) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, io.ErrShortWrite
	}
	end := int(off) + len(p)
	if end > len(b.buf) {
		if end > cap(b.buf) {
			grown := make([]byte, end, 2*end)
			copy(grown, b.buf)
			b.buf = grown
		} else {
			b.buf = b.buf[:end]
		}
	}
	copy(b.buf[off:], p)
	return len(p), nil
}

// ReadAt implements io.ReaderAt. Reads past the written bytes return
// io.EOF.
func (b *Buffer) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, io.ErrUnexpectedEOF
	}
	if off >= int64(len(b.buf)) {
		return 0, io.EOF
	}
	n := copy(p, b.buf[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Bytes returns the written bytes.
func (b *Buffer) Bytes() []byte { return b.buf }
