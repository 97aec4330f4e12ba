package message

import (
	"fmt"

	"github.com/robert-malhotra/sofia2hdf5/internal/binary"
)

// Attribute is a small named value stored in an object header (message 0x000C).
type Attribute struct {
	Name      string
	Datatype  *Datatype
	Dataspace *Dataspace
	Data      []byte
}

func (m *Attribute) Type() Type { return TypeAttribute }

// NewAttribute builds an attribute. Data must already be encoded in the
// datatype's byte order.
func NewAttribute(name string, dt *Datatype, ds *Dataspace, data []byte) *Attribute {
	return &Attribute{Name: name, Datatype: dt, Dataspace: ds, Data: data}
}

// Serialize writes a version 3 attribute message. Version 3 stores the
// name, datatype and dataspace without alignment padding.
func (m *Attribute) Serialize(w *binary.Writer) error {
	nameSize := len(m.Name) + 1
	dtSize := m.Datatype.SerializedSize(w)
	dsSize := m.Dataspace.SerializedSize(w)
	if nameSize > 0xFFFF {
		return fmt.Errorf("attribute name too long: %d bytes", len(m.Name))
	}

	if err := w.WriteUint8(3); err != nil {
		return err
	}
	if err := w.WriteUint8(0); err != nil {
		return err
	}
	for _, v := range []int{nameSize, dtSize, dsSize} {
		if err := w.WriteUint16(uint16(v)); err != nil {
			return err
		}
	}
	if err := w.WriteUint8(uint8(CharsetASCII)); err != nil {
		return err
	}
	if err := w.WriteBytes(append([]byte(m.Name), 0)); err != nil {
		return err
	}
	if err := m.Datatype.Serialize(w); err != nil {
		return err
	}
	if err := m.Dataspace.Serialize(w); err != nil {
		return err
	}
	return w.WriteBytes(m.Data)
}

// SerializedSize returns the encoded size in bytes.
func (m *Attribute) SerializedSize(w *binary.Writer) int {
	return 9 + len(m.Name) + 1 + m.Datatype.SerializedSize(w) +
		m.Dataspace.SerializedSize(w) + len(m.Data)
}

func parseAttribute(r *binary.Reader, total int) (*Attribute, error) {
	start := r.Pos()
	version, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	if version != 3 {
		return nil, fmt.Errorf("attribute version %d", version)
	}
	r.Skip(1) // flags
	sizes := make([]int, 3)
	for i := range sizes {
		v, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		sizes[i] = int(v)
	}
	r.Skip(1) // name encoding

	name, err := r.ReadBytes(sizes[0])
	if err != nil {
		return nil, err
	}
	if n := len(name); n > 0 && name[n-1] == 0 {
		name = name[:n-1]
	}

	dtPos := r.Pos()
	dt, err := parseDatatype(r)
	if err != nil {
		return nil, err
	}
	r = r.At(dtPos + int64(sizes[1]))

	dsPos := r.Pos()
	ds, err := parseDataspace(r)
	if err != nil {
		return nil, err
	}
	r = r.At(dsPos + int64(sizes[2]))

	n := total - int(r.Pos()-start)
	want := int(ds.NumElements()) * int(dt.Size)
	if n < want {
		return nil, fmt.Errorf("attribute %q: %d data bytes, need %d", name, n, want)
	}
	data, err := r.ReadBytes(want)
	if err != nil {
		return nil, err
	}
	return &Attribute{Name: string(name), Datatype: dt, Dataspace: ds, Data: data}, nil
}
