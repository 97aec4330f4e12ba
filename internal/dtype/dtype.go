package dtype

import (
	"encoding/binary"
	"fmt"
	"reflect"

	"github.com/robert-malhotra/sofia2hdf5/internal/endian"
	"github.com/robert-malhotra/sofia2hdf5/internal/message"
)

// NativeOrder is the host byte order as an HDF5 byte order flag.
func NativeOrder() message.ByteOrder {
	if endian.Big {
		return message.OrderBE
	}
	return message.OrderLE
}

// ByteOrder returns the encoding/binary order of a numeric datatype.
func ByteOrder(dt *message.Datatype) binary.ByteOrder {
	if dt.ByteOrder == message.OrderBE {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// FromGoType returns the datatype for t, or for t's element type when t is
// a slice or array. Strings need a fixed size, so stringSize must be > 0
// for string types; it includes room for the terminator.
func FromGoType(t reflect.Type, stringSize int) (*message.Datatype, error) {
	for t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		t = t.Elem()
	}
	order := NativeOrder()

	switch t.Kind() {
	case reflect.Int8:
		return message.NewFixedPointDatatype(1, true, order), nil
	case reflect.Int16:
		return message.NewFixedPointDatatype(2, true, order), nil
	case reflect.Int32:
		return message.NewFixedPointDatatype(4, true, order), nil
	case reflect.Int64, reflect.Int:
		return message.NewFixedPointDatatype(8, true, order), nil
	case reflect.Uint8, reflect.Bool:
		return message.NewFixedPointDatatype(1, false, order), nil
	case reflect.Uint16:
		return message.NewFixedPointDatatype(2, false, order), nil
	case reflect.Uint32:
		return message.NewFixedPointDatatype(4, false, order), nil
	case reflect.Uint64, reflect.Uint:
		return message.NewFixedPointDatatype(8, false, order), nil
	case reflect.Float32:
		return message.NewFloatDatatype(4, order), nil
	case reflect.Float64:
		return message.NewFloatDatatype(8, order), nil
	case reflect.String:
		if stringSize <= 0 {
			return nil, fmt.Errorf("string datatype needs a size")
		}
		return message.NewStringDatatype(uint32(stringSize), message.PadNullTerm, message.CharsetASCII), nil
	}
	return nil, fmt.Errorf("unsupported Go type: %v", t)
}

// Shape returns the extents of a (possibly nested) slice or array value.
// A scalar has no extents.
func Shape(v reflect.Value) []uint64 {
	var dims []uint64
	for v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		dims = append(dims, uint64(v.Len()))
		if v.Len() == 0 {
			break
		}
		v = v.Index(0)
	}
	return dims
}
