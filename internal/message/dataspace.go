package message

import (
	"fmt"

	"github.com/robert-malhotra/sofia2hdf5/internal/binary"
)

// DataspaceType distinguishes scalar, simple and null dataspaces.
type DataspaceType uint8

const (
	DataspaceScalar DataspaceType = 0
	DataspaceSimple DataspaceType = 1
	DataspaceNull   DataspaceType = 2
)

// Dataspace describes the shape of a dataset or attribute (message 0x0001).
type Dataspace struct {
	SpaceType  DataspaceType
	Dimensions []uint64
}

func (m *Dataspace) Type() Type { return TypeDataspace }

// NewDataspace returns a simple dataspace with the given extents.
func NewDataspace(dims []uint64) *Dataspace {
	return &Dataspace{SpaceType: DataspaceSimple, Dimensions: dims}
}

// NewScalarDataspace returns a rank-0 dataspace holding one element.
func NewScalarDataspace() *Dataspace {
	return &Dataspace{SpaceType: DataspaceScalar}
}

// IsScalar reports whether the dataspace holds a single unshaped value.
func (m *Dataspace) IsScalar() bool { return m.SpaceType == DataspaceScalar }

// NumElements returns the number of elements described.
func (m *Dataspace) NumElements() uint64 {
	switch m.SpaceType {
	case DataspaceScalar:
		return 1
	case DataspaceNull:
		return 0
	}
	n := uint64(1)
	for _, d := range m.Dimensions {
		n *= d
	}
	return n
}

// Serialize writes a version 2 dataspace: version, rank, flags, type,
// then one length-sized extent per dimension. Maximum extents are never
// written, so datasets are fixed size.
func (m *Dataspace) Serialize(w *binary.Writer) error {
	for _, b := range []uint8{2, uint8(len(m.Dimensions)), 0, uint8(m.SpaceType)} {
		if err := w.WriteUint8(b); err != nil {
			return err
		}
	}
	for _, d := range m.Dimensions {
		if err := w.WriteLength(d); err != nil {
			return err
		}
	}
	return nil
}

// SerializedSize returns the encoded size in bytes.
func (m *Dataspace) SerializedSize(w *binary.Writer) int {
	return 4 + len(m.Dimensions)*w.LengthSize()
}

func parseDataspace(r *binary.Reader) (*Dataspace, error) {
	version, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	if version != 2 {
		return nil, fmt.Errorf("dataspace version %d", version)
	}
	rank, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	flags, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	typ, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}

	ds := &Dataspace{SpaceType: DataspaceType(typ)}
	for i := 0; i < int(rank); i++ {
		d, err := r.ReadLength()
		if err != nil {
			return nil, err
		}
		ds.Dimensions = append(ds.Dimensions, d)
	}
	if flags&0x01 != 0 {
		r.Skip(int64(rank) * int64(r.LengthSize()))
	}
	return ds, nil
}
