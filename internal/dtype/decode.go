package dtype

import (
	"bytes"
	"fmt"
	"math"

	"github.com/robert-malhotra/sofia2hdf5/internal/binary"
	"github.com/robert-malhotra/sofia2hdf5/internal/message"
)

// Decode converts raw element bytes into a slice: []int64 for signed
// integers, []uint64 for unsigned integers, []float64 for floats and
// []string for strings. String padding is removed.
func Decode(dt *message.Datatype, raw []byte) (any, error) {
	size := int(dt.Size)
	if size == 0 || len(raw)%size != 0 {
		return nil, fmt.Errorf("%d bytes is not a multiple of element size %d", len(raw), size)
	}
	n := len(raw) / size
	order := ByteOrder(dt)

	switch dt.Class {
	case message.ClassFixedPoint:
		if dt.Signed {
			out := make([]int64, n)
			for i := range out {
				u := binary.DecodeUint(order, raw[i*size:(i+1)*size])
				shift := 64 - 8*uint(size)
				out[i] = int64(u<<shift) >> shift
			}
			return out, nil
		}
		out := make([]uint64, n)
		for i := range out {
			out[i] = binary.DecodeUint(order, raw[i*size:(i+1)*size])
		}
		return out, nil

	case message.ClassFloatPoint:
		out := make([]float64, n)
		for i := range out {
			el := raw[i*size : (i+1)*size]
			switch size {
			case 4:
				out[i] = float64(math.Float32frombits(order.Uint32(el)))
			case 8:
				out[i] = math.Float64frombits(order.Uint64(el))
			default:
				return nil, fmt.Errorf("unsupported float size %d", size)
			}
		}
		return out, nil

	case message.ClassString:
		out := make([]string, n)
		for i := range out {
			el := raw[i*size : (i+1)*size]
			if j := bytes.IndexByte(el, 0); j >= 0 {
				el = el[:j]
			}
			if dt.StringPadding == message.PadSpacePad {
				el = bytes.TrimRight(el, " ")
			}
			out[i] = string(el)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported datatype class %d", dt.Class)
}
