package message

import (
	"fmt"

	"github.com/robert-malhotra/sofia2hdf5/internal/binary"
)

// LayoutClass is the raw data storage strategy.
type LayoutClass uint8

const (
	LayoutCompact    LayoutClass = 0
	LayoutContiguous LayoutClass = 1
	LayoutChunked    LayoutClass = 2
)

// DataLayout locates the raw data of a dataset (message 0x0008).
type DataLayout struct {
	Class   LayoutClass
	Address uint64 // contiguous
	Size    uint64 // contiguous
	Compact []byte // compact
}

func (m *DataLayout) Type() Type { return TypeDataLayout }

// NewContiguousLayout returns a layout for size bytes stored at addr.
// An empty dataset uses UndefinedAddress.
func NewContiguousLayout(addr, size uint64) *DataLayout {
	return &DataLayout{Class: LayoutContiguous, Address: addr, Size: size}
}

// Serialize writes a version 3 layout message.
func (m *DataLayout) Serialize(w *binary.Writer) error {
	if m.Class != LayoutContiguous {
		return fmt.Errorf("layout class %d not writable", m.Class)
	}
	if err := w.WriteUint8(3); err != nil {
		return err
	}
	if err := w.WriteUint8(uint8(m.Class)); err != nil {
		return err
	}
	if err := w.WriteOffset(m.Address); err != nil {
		return err
	}
	return w.WriteLength(m.Size)
}

// SerializedSize returns the encoded size in bytes.
func (m *DataLayout) SerializedSize(w *binary.Writer) int {
	return 2 + w.OffsetSize() + w.LengthSize()
}

func parseDataLayout(r *binary.Reader) (*DataLayout, error) {
	version, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	if version != 3 {
		return nil, fmt.Errorf("layout version %d", version)
	}
	class, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}

	l := &DataLayout{Class: LayoutClass(class)}
	switch l.Class {
	case LayoutCompact:
		n, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		if l.Compact, err = r.ReadBytes(int(n)); err != nil {
			return nil, err
		}
	case LayoutContiguous:
		if l.Address, err = r.ReadOffset(); err != nil {
			return nil, err
		}
		if l.Size, err = r.ReadLength(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("layout class %d not supported", class)
	}
	return l, nil
}
