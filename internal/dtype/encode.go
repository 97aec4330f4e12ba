package dtype

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"

	"github.com/robert-malhotra/sofia2hdf5/internal/message"
)

// Encode flattens src, a scalar or a nested slice/array, into raw element
// bytes for dt in row-major order.
func Encode(dt *message.Datatype, src any) ([]byte, error) {
	if dt == nil {
		return nil, fmt.Errorf("nil datatype")
	}
	var elems []reflect.Value
	if err := flatten(reflect.ValueOf(src), &elems); err != nil {
		return nil, err
	}

	size := int(dt.Size)
	out := make([]byte, len(elems)*size)
	for i, e := range elems {
		if err := encodeElement(dt, e, out[i*size:(i+1)*size]); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return out, nil
}

func flatten(v reflect.Value, out *[]reflect.Value) error {
	switch v.Kind() {
	case reflect.Invalid:
		return fmt.Errorf("cannot encode nil")
	case reflect.Ptr, reflect.Interface:
		return flatten(v.Elem(), out)
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := flatten(v.Index(i), out); err != nil {
				return err
			}
		}
		return nil
	}
	*out = append(*out, v)
	return nil
}

func encodeElement(dt *message.Datatype, v reflect.Value, dst []byte) error {
	order := ByteOrder(dt)

	switch dt.Class {
	case message.ClassFixedPoint:
		var u uint64
		switch v.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			u = uint64(v.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			u = v.Uint()
		case reflect.Bool:
			if v.Bool() {
				u = 1
			}
		default:
			return fmt.Errorf("cannot encode %v as fixed-point", v.Kind())
		}
		putUint(order, dst, u)

	case message.ClassFloatPoint:
		var f float64
		switch v.Kind() {
		case reflect.Float32, reflect.Float64:
			f = v.Float()
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			f = float64(v.Int())
		default:
			return fmt.Errorf("cannot encode %v as float", v.Kind())
		}
		if len(dst) == 4 {
			order.PutUint32(dst, math.Float32bits(float32(f)))
		} else {
			order.PutUint64(dst, math.Float64bits(f))
		}

	case message.ClassString:
		if v.Kind() != reflect.String {
			return fmt.Errorf("cannot encode %v as string", v.Kind())
		}
		n := copy(dst, v.String())
		fill := byte(0)
		if dt.StringPadding == message.PadSpacePad {
			fill = ' '
		}
		for i := n; i < len(dst); i++ {
			dst[i] = fill
		}
		// Null-terminated strings always end in NUL, truncating if needed.
		if dt.StringPadding == message.PadNullTerm && len(dst) > 0 {
			dst[len(dst)-1] = 0
		}

	default:
		return fmt.Errorf("unsupported datatype class %d", dt.Class)
	}
	return nil
}

func putUint(order binary.ByteOrder, dst []byte, u uint64) {
	switch len(dst) {
	case 1:
		dst[0] = byte(u)
	case 2:
		order.PutUint16(dst, uint16(u))
	case 4:
		order.PutUint32(dst, uint32(u))
	case 8:
		order.PutUint64(dst, u)
	}
}
