package hdf5

import (
	"fmt"
	"reflect"

	"github.com/robert-malhotra/sofia2hdf5/internal/dtype"
	"github.com/robert-malhotra/sofia2hdf5/internal/message"
	"github.com/robert-malhotra/sofia2hdf5/internal/object"
)

// Class is a datatype class.
type Class uint8

const (
	ClassInteger Class = Class(message.ClassFixedPoint)
	ClassFloat   Class = Class(message.ClassFloatPoint)
	ClassString  Class = Class(message.ClassString)
)

func (c Class) String() string {
	switch c {
	case ClassInteger:
		return "integer"
	case ClassFloat:
		return "float"
	case ClassString:
		return "string"
	}
	return fmt.Sprintf("class(%d)", uint8(c))
}

// Datatype is an element type for CreateRawDataset. Numeric types use the
// host byte order.
type Datatype struct {
	msg *message.Datatype
}

// IntType returns a signed integer type of 1, 2, 4 or 8 bytes.
func IntType(size int) Datatype {
	return Datatype{msg: message.NewFixedPointDatatype(uint32(size), true, dtype.NativeOrder())}
}

// UintType returns an unsigned integer type of 1, 2, 4 or 8 bytes.
func UintType(size int) Datatype {
	return Datatype{msg: message.NewFixedPointDatatype(uint32(size), false, dtype.NativeOrder())}
}

// FloatType returns an IEEE float type of 4 or 8 bytes.
func FloatType(size int) Datatype {
	return Datatype{msg: message.NewFloatDatatype(uint32(size), dtype.NativeOrder())}
}

// StringType returns a null-terminated ASCII string type of size bytes.
func StringType(size int) Datatype {
	return Datatype{msg: message.NewStringDatatype(uint32(size), message.PadNullTerm, message.CharsetASCII)}
}

// Size returns the element size in bytes.
func (t Datatype) Size() int { return int(t.msg.Size) }

// Class returns the datatype class.
func (t Datatype) Class() Class { return Class(t.msg.Class) }

// Signed reports whether an integer type is signed.
func (t Datatype) Signed() bool { return t.msg.Signed }

// BigEndian reports whether numeric elements are stored big-endian.
func (t Datatype) BigEndian() bool { return t.msg.ByteOrder == message.OrderBE }

func (t Datatype) validate() error {
	if t.msg == nil {
		return fmt.Errorf("zero Datatype")
	}
	switch t.msg.Class {
	case message.ClassFixedPoint:
		switch t.msg.Size {
		case 1, 2, 4, 8:
			return nil
		}
	case message.ClassFloatPoint:
		if t.msg.Size == 4 || t.msg.Size == 8 {
			return nil
		}
	case message.ClassString:
		if t.msg.Size > 0 {
			return nil
		}
	}
	return fmt.Errorf("%w: %s of %d bytes", ErrUnsupported, t.Class(), t.msg.Size)
}

// CreateDataset writes data, a scalar or a (nested) slice of integers,
// floats or strings, as a new dataset. Nested slices must be rectangular.
func (g *Group) CreateDataset(name string, data any, opts ...DatasetOption) (*Dataset, error) {
	if err := g.checkNewLink(name); err != nil {
		return nil, err
	}
	options := &datasetOptions{}
	for _, opt := range opts {
		opt(options)
	}

	val := reflect.ValueOf(data)
	for val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if !val.IsValid() {
		return nil, fmt.Errorf("%s: nil data", childPath(g.path, name))
	}
	dims := dtype.Shape(val)

	strSize := options.stringSize
	if strSize == 0 {
		strSize = longestString(val) + 1
	}
	dt, err := dtype.FromGoType(val.Type(), strSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", childPath(g.path, name), err)
	}
	raw, err := dtype.Encode(dt, val.Interface())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", childPath(g.path, name), err)
	}
	if want := product(dims) * uint64(dt.Size); uint64(len(raw)) != want {
		return nil, fmt.Errorf("%s: ragged data: %d bytes for shape %v", childPath(g.path, name), len(raw), dims)
	}
	return g.writeDataset(name, dims, dt, raw, options.attributes)
}

// CreateRawDataset writes raw, already in t's byte order, as a dataset of
// shape dims.
func (g *Group) CreateRawDataset(name string, dims []uint64, t Datatype, raw []byte, opts ...DatasetOption) (*Dataset, error) {
	if err := g.checkNewLink(name); err != nil {
		return nil, err
	}
	if err := t.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", childPath(g.path, name), err)
	}
	if want := product(dims) * uint64(t.Size()); uint64(len(raw)) != want {
		return nil, fmt.Errorf("%s: %d bytes for shape %v of %d-byte elements", childPath(g.path, name), len(raw), dims, t.Size())
	}
	options := &datasetOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return g.writeDataset(name, dims, t.msg, raw, options.attributes)
}

func (g *Group) writeDataset(name string, dims []uint64, dt *message.Datatype, raw []byte, defs []attrDef) (*Dataset, error) {
	p := childPath(g.path, name)

	var attrs []*message.Attribute
	for _, def := range defs {
		if findAttr(attrs, def.name) != nil {
			return nil, fmt.Errorf("attribute %s: %w", JoinAttrPath(p, def.name), ErrExists)
		}
		a, err := newAttributeMessage(def.name, def.value)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", JoinAttrPath(p, def.name), err)
		}
		attrs = append(attrs, a)
	}

	space := message.NewDataspace(dims)
	if len(dims) == 0 {
		space = message.NewScalarDataspace()
	}

	dataAddr := message.UndefinedAddress
	if len(raw) > 0 {
		dataAddr = g.file.allocate(len(raw))
		if err := g.file.writer.At(int64(dataAddr)).WriteBytes(raw); err != nil {
			return nil, fmt.Errorf("%s: writing data: %w", p, err)
		}
	}
	layout := message.NewContiguousLayout(dataAddr, uint64(len(raw)))

	msgs := object.DatasetMessages(space, dt, layout, attrs)
	size, err := object.Size(g.file.writer, msgs, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	addr := g.file.allocate(size)
	if _, err := object.Write(g.file.writer.At(int64(addr)), msgs, 0); err != nil {
		return nil, fmt.Errorf("%s: writing header: %w", p, err)
	}

	ds := &Dataset{
		file:      g.file,
		path:      p,
		addr:      addr,
		dataspace: space,
		datatype:  dt,
		layout:    layout,
		attrs:     attrs,
	}
	g.addLink(name, ds, addr)
	return ds, nil
}

func product(dims []uint64) uint64 {
	n := uint64(1)
	for _, d := range dims {
		n *= d
	}
	return n
}

// longestString returns the byte length of the longest string in v.
func longestString(v reflect.Value) int {
	switch v.Kind() {
	case reflect.String:
		return v.Len()
	case reflect.Slice, reflect.Array:
		n := 0
		for i := 0; i < v.Len(); i++ {
			if l := longestString(v.Index(i)); l > n {
				n = l
			}
		}
		return n
	}
	return 0
}
