package fits

import (
	"fmt"
	"math"

	"github.com/robert-malhotra/sofia2hdf5/internal/endian"
)

// Cube is a fully loaded primary image.
//
// NX, NY and NZ are the extents of the first three axes; missing axes are
// 1. A fourth axis is folded into NZ so that Len is always the product of
// all declared extents. Data holds Len()*Kind.Size() bytes in host byte
// order.
type Cube struct {
	NX, NY, NZ int
	Axes       []int
	Kind       ElementKind
	Header     Header
	BScale     float64
	BZero      float64
	Data       []byte
}

// Len returns the number of elements.
func (c *Cube) Len() int {
	return c.NX * c.NY * c.NZ
}

// Bytes returns the payload size in bytes.
func (c *Cube) Bytes() int64 {
	return int64(c.Len()) * int64(c.Kind.Size())
}

// Dims returns the extents slowest axis first, {NZ, NY, NX}.
func (c *Cube) Dims() []uint64 {
	return []uint64{uint64(c.NZ), uint64(c.NY), uint64(c.NX)}
}

// Scaled reports whether the header asks for BSCALE/BZERO rescaling.
func (c *Cube) Scaled() bool {
	return c.BScale != 1 || c.BZero != 0
}

func (c *Cube) check(k ElementKind) {
	if c.Kind != k {
		panic(fmt.Sprintf("fits: %s view of %s cube", k, c.Kind))
	}
}

// Int8s returns a copy of the data as int8. It panics if Kind is not Int8.
func (c *Cube) Int8s() []int8 {
	c.check(Int8)
	out := make([]int8, c.Len())
	for i := range out {
		out[i] = int8(c.Data[i])
	}
	return out
}

// Int16s returns a copy of the data as int16. It panics if Kind is not Int16.
func (c *Cube) Int16s() []int16 {
	c.check(Int16)
	out := make([]int16, c.Len())
	for i := range out {
		out[i] = int16(endian.Native.Uint16(c.Data[2*i:]))
	}
	return out
}

// Int32s returns a copy of the data as int32. It panics if Kind is not Int32.
func (c *Cube) Int32s() []int32 {
	c.check(Int32)
	out := make([]int32, c.Len())
	for i := range out {
		out[i] = int32(endian.Native.Uint32(c.Data[4*i:]))
	}
	return out
}

// Int64s returns a copy of the data as int64. It panics if Kind is not Int64.
func (c *Cube) Int64s() []int64 {
	c.check(Int64)
	out := make([]int64, c.Len())
	for i := range out {
		out[i] = int64(endian.Native.Uint64(c.Data[8*i:]))
	}
	return out
}

// Float32s returns a copy of the data as float32. It panics if Kind is not
// Float32.
func (c *Cube) Float32s() []float32 {
	c.check(Float32)
	out := make([]float32, c.Len())
	for i := range out {
		out[i] = math.Float32frombits(endian.Native.Uint32(c.Data[4*i:]))
	}
	return out
}

// Float64s returns a copy of the data as float64. It panics if Kind is not
// Float64.
func (c *Cube) Float64s() []float64 {
	c.check(Float64)
	out := make([]float64, c.Len())
	for i := range out {
		out[i] = math.Float64frombits(endian.Native.Uint64(c.Data[8*i:]))
	}
	return out
}

// Float64At returns element i converted to float64.
func (c *Cube) Float64At(i int) float64 {
	b := c.Data[i*c.Kind.Size():]
	switch c.Kind {
	case Int8:
		return float64(int8(b[0]))
	case Int16:
		return float64(int16(endian.Native.Uint16(b)))
	case Int32:
		return float64(int32(endian.Native.Uint32(b)))
	case Int64:
		return float64(int64(endian.Native.Uint64(b)))
	case Float32:
		return float64(math.Float32frombits(endian.Native.Uint32(b)))
	case Float64:
		return math.Float64frombits(endian.Native.Uint64(b))
	}
	panic("fits: unknown element kind")
}

// SwapBytes reverses the bytes of each width-byte element of buf in place.
// Applying it twice restores buf. Widths of 0 or 1 are a no-op.
func SwapBytes(buf []byte, width int) {
	if width <= 1 {
		return
	}
	for off := 0; off+width <= len(buf); off += width {
		w := buf[off : off+width]
		for j := 0; j < width/2; j++ {
			w[j], w[width-1-j] = w[width-1-j], w[j]
		}
	}
}
