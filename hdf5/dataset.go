package hdf5

import (
	"fmt"
	"path"

	"github.com/robert-malhotra/sofia2hdf5/internal/dtype"
	"github.com/robert-malhotra/sofia2hdf5/internal/message"
	"github.com/robert-malhotra/sofia2hdf5/internal/object"
)

// Dataset is a contiguous n-dimensional array.
type Dataset struct {
	file      *File
	path      string
	addr      uint64
	dataspace *message.Dataspace
	datatype  *message.Datatype
	layout    *message.DataLayout
	attrs     []*message.Attribute
}

func newDatasetFromHeader(f *File, hdr *object.Header, p string) (*Dataset, error) {
	ds := &Dataset{
		file:      f,
		path:      p,
		addr:      hdr.Address,
		dataspace: hdr.Dataspace(),
		datatype:  hdr.Datatype(),
		layout:    hdr.DataLayout(),
		attrs:     hdr.Attributes(),
	}
	if ds.dataspace == nil || ds.datatype == nil {
		return nil, fmt.Errorf("%s: %w: dataset without dataspace or datatype", p, ErrUnsupported)
	}
	if ds.layout.Class == message.LayoutChunked {
		return nil, fmt.Errorf("%s: %w: chunked storage", p, ErrUnsupported)
	}
	return ds, nil
}

// Name returns the last path component.
func (d *Dataset) Name() string {
	return path.Base(d.path)
}

// Path returns the absolute path of the dataset.
func (d *Dataset) Path() string { return d.path }

// Shape returns the extents, slowest varying first.
func (d *Dataset) Shape() []uint64 {
	return append([]uint64(nil), d.dataspace.Dimensions...)
}

// NumElements returns the product of the extents.
func (d *Dataset) NumElements() uint64 { return d.dataspace.NumElements() }

// ElementSize returns the size of one element in bytes.
func (d *Dataset) ElementSize() int { return int(d.datatype.Size) }

// Class returns the datatype class.
func (d *Dataset) Class() Class { return Class(d.datatype.Class) }

// Datatype returns the element type.
func (d *Dataset) Datatype() Datatype { return Datatype{msg: d.datatype} }

// ReadRaw returns the stored bytes in the dataset's byte order.
func (d *Dataset) ReadRaw() ([]byte, error) {
	if d.file.closed {
		return nil, ErrClosed
	}
	want := d.NumElements() * uint64(d.datatype.Size)
	switch d.layout.Class {
	case message.LayoutCompact:
		if uint64(len(d.layout.Compact)) < want {
			return nil, fmt.Errorf("%s: compact data is %d bytes, need %d", d.path, len(d.layout.Compact), want)
		}
		return d.layout.Compact[:want], nil
	case message.LayoutContiguous:
		if want == 0 {
			return []byte{}, nil
		}
		if d.layout.Size < want || d.file.reader.IsUndefinedOffset(d.layout.Address) {
			return nil, fmt.Errorf("%s: storage holds %d bytes, need %d", d.path, d.layout.Size, want)
		}
		raw, err := d.file.reader.At(int64(d.layout.Address)).ReadBytes(int(want))
		if err != nil {
			return nil, fmt.Errorf("%s: reading data: %w", d.path, err)
		}
		return raw, nil
	}
	return nil, fmt.Errorf("%s: %w: layout class %d", d.path, ErrUnsupported, d.layout.Class)
}

// Values decodes the whole dataset as []int64, []uint64, []float64 or
// []string depending on its class and signedness.
func (d *Dataset) Values() (any, error) {
	raw, err := d.ReadRaw()
	if err != nil {
		return nil, err
	}
	return dtype.Decode(d.datatype, raw)
}

// Attrs returns the attribute names in storage order.
func (d *Dataset) Attrs() []string { return attrNames(d.attrs) }

// Attr returns the named attribute, or nil.
func (d *Dataset) Attr(name string) *Attribute { return findAttr(d.attrs, name) }
