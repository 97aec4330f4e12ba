package message

import (
	"fmt"

	"github.com/robert-malhotra/sofia2hdf5/internal/binary"
)

// DatatypeClass is the HDF5 datatype class.
type DatatypeClass uint8

const (
	ClassFixedPoint DatatypeClass = 0
	ClassFloatPoint DatatypeClass = 1
	ClassString     DatatypeClass = 3
)

// ByteOrder is the element byte order flag of numeric datatypes.
type ByteOrder uint8

const (
	OrderLE ByteOrder = 0
	OrderBE ByteOrder = 1
)

// StringPadding is the padding convention of fixed-length strings.
type StringPadding uint8

const (
	PadNullTerm StringPadding = 0
	PadNullPad  StringPadding = 1
	PadSpacePad StringPadding = 2
)

// CharacterSet is the encoding of string datatypes.
type CharacterSet uint8

const (
	CharsetASCII CharacterSet = 0
	CharsetUTF8  CharacterSet = 1
)

// Datatype describes the element type of a dataset or attribute (message 0x0003).
// Only fixed-point, IEEE floating-point and fixed-length strings are supported.
type Datatype struct {
	Class         DatatypeClass
	Size          uint32
	ByteOrder     ByteOrder
	Signed        bool
	StringPadding StringPadding
	CharSet       CharacterSet
}

func (m *Datatype) Type() Type { return TypeDatatype }

// NewFixedPointDatatype returns a two's-complement or unsigned integer type.
func NewFixedPointDatatype(size uint32, signed bool, order ByteOrder) *Datatype {
	return &Datatype{Class: ClassFixedPoint, Size: size, Signed: signed, ByteOrder: order}
}

// NewFloatDatatype returns an IEEE 754 binary32 or binary64 type.
func NewFloatDatatype(size uint32, order ByteOrder) *Datatype {
	return &Datatype{Class: ClassFloatPoint, Size: size, ByteOrder: order}
}

// NewStringDatatype returns a fixed-length string type of size bytes.
func NewStringDatatype(size uint32, padding StringPadding, charset CharacterSet) *Datatype {
	return &Datatype{Class: ClassString, Size: size, StringPadding: padding, CharSet: charset}
}

// classBits packs the 24 class-specific flag bits.
//
// Fixed-point: bit 0 byte order, bit 3 signed.
// Floating-point: bit 0 byte order, bits 4-5 mantissa normalisation
// (2 = implied MSB), bits 8-15 sign bit position.
// String: bits 0-3 padding, bits 4-7 character set.
func (m *Datatype) classBits() uint32 {
	switch m.Class {
	case ClassFixedPoint:
		bits := uint32(m.ByteOrder)
		if m.Signed {
			bits |= 0x08
		}
		return bits
	case ClassFloatPoint:
		return uint32(m.ByteOrder) | 2<<4 | (m.Size*8-1)<<8
	case ClassString:
		return uint32(m.StringPadding) | uint32(m.CharSet)<<4
	}
	return 0
}

// Serialize writes a version 1 datatype message.
func (m *Datatype) Serialize(w *binary.Writer) error {
	if err := w.WriteUint8(uint8(m.Class) | 1<<4); err != nil {
		return err
	}
	bits := m.classBits()
	for i := 0; i < 3; i++ {
		if err := w.WriteUint8(uint8(bits >> (8 * uint(i)))); err != nil {
			return err
		}
	}
	if err := w.WriteUint32(m.Size); err != nil {
		return err
	}

	switch m.Class {
	case ClassFixedPoint:
		// bit offset, bit precision
		if err := w.WriteUint16(0); err != nil {
			return err
		}
		return w.WriteUint16(uint16(m.Size * 8))
	case ClassFloatPoint:
		return writeFloatProperties(w, m.Size)
	}
	return nil
}

// SerializedSize returns the encoded size in bytes.
func (m *Datatype) SerializedSize(*binary.Writer) int {
	switch m.Class {
	case ClassFixedPoint:
		return 12
	case ClassFloatPoint:
		return 20
	}
	return 8
}

// ieeeLayout holds the precision, exponent location and size,
// mantissa location and size, and exponent bias.
type ieeeLayout struct {
	precision         uint16
	expLoc, expSize   uint8
	mantLoc, mantSize uint8
	bias              uint32
}

var ieeeLayouts = map[uint32]ieeeLayout{
	4: {32, 23, 8, 0, 23, 127},
	8: {64, 52, 11, 0, 52, 1023},
}

func writeFloatProperties(w *binary.Writer, size uint32) error {
	l, ok := ieeeLayouts[size]
	if !ok {
		return fmt.Errorf("unsupported float size %d", size)
	}
	if err := w.WriteUint16(0); err != nil {
		return err
	}
	if err := w.WriteUint16(l.precision); err != nil {
		return err
	}
	if err := w.WriteBytes([]byte{l.expLoc, l.expSize, l.mantLoc, l.mantSize}); err != nil {
		return err
	}
	return w.WriteUint32(l.bias)
}

func parseDatatype(r *binary.Reader) (*Datatype, error) {
	head, err := r.ReadBytes(4)
	if err != nil {
		return nil, err
	}
	size, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}

	class := DatatypeClass(head[0] & 0x0F)
	bits := uint32(head[1]) | uint32(head[2])<<8 | uint32(head[3])<<16
	dt := &Datatype{Class: class, Size: size}

	switch class {
	case ClassFixedPoint:
		dt.ByteOrder = ByteOrder(bits & 0x01)
		dt.Signed = bits&0x08 != 0
	case ClassFloatPoint:
		dt.ByteOrder = ByteOrder(bits & 0x01)
	case ClassString:
		dt.StringPadding = StringPadding(bits & 0x0F)
		dt.CharSet = CharacterSet((bits >> 4) & 0x0F)
	default:
		return nil, fmt.Errorf("unsupported datatype class %d", class)
	}
	return dt, nil
}
