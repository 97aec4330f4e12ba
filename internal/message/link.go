package message

import (
	"fmt"

	"github.com/robert-malhotra/sofia2hdf5/internal/binary"
)

// Link is a hard link from a group to a child object header (message 0x0006).
type Link struct {
	Name    string
	Address uint64
}

func (m *Link) Type() Type { return TypeLink }

// NewHardLink returns a link named name pointing at addr.
func NewHardLink(name string, addr uint64) *Link {
	return &Link{Name: name, Address: addr}
}

// nameWidth is the byte width of the name length field.
func (m *Link) nameWidth() int {
	if len(m.Name) > 0xFF {
		return 2
	}
	return 1
}

// Serialize writes a version 1 link message. The link type field is
// omitted, which means hard link; the name is stored without a terminator.
func (m *Link) Serialize(w *binary.Writer) error {
	if len(m.Name) == 0 {
		return fmt.Errorf("link name is empty")
	}
	if len(m.Name) > 0xFFFF {
		return fmt.Errorf("link name too long: %d bytes", len(m.Name))
	}
	width := m.nameWidth()
	if err := w.WriteUint8(1); err != nil {
		return err
	}
	if err := w.WriteUint8(uint8(width - 1)); err != nil {
		return err
	}
	if err := w.WriteUintN(uint64(len(m.Name)), width); err != nil {
		return err
	}
	if err := w.WriteBytes([]byte(m.Name)); err != nil {
		return err
	}
	return w.WriteOffset(m.Address)
}

// SerializedSize returns the encoded size in bytes.
func (m *Link) SerializedSize(w *binary.Writer) int {
	return 2 + m.nameWidth() + len(m.Name) + w.OffsetSize()
}

func parseLink(r *binary.Reader) (*Link, error) {
	version, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	if version != 1 {
		return nil, fmt.Errorf("link version %d", version)
	}
	flags, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}

	linkType := uint8(0)
	if flags&0x08 != 0 {
		if linkType, err = r.ReadUint8(); err != nil {
			return nil, err
		}
	}
	if flags&0x04 != 0 {
		r.Skip(8) // creation order
	}
	if flags&0x10 != 0 {
		r.Skip(1) // name charset
	}

	n, err := r.ReadUintN(1 << (flags & 0x03))
	if err != nil {
		return nil, err
	}
	name, err := r.ReadBytes(int(n))
	if err != nil {
		return nil, err
	}
	if linkType != 0 {
		return nil, fmt.Errorf("link %q: unsupported link type %d", name, linkType)
	}
	addr, err := r.ReadOffset()
	if err != nil {
		return nil, err
	}
	return &Link{Name: string(name), Address: addr}, nil
}
