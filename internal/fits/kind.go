package fits

import "fmt"

// ElementKind is the element type of an image, selected by BITPIX.
type ElementKind uint8

// Element kinds.
const (
	Int8 ElementKind = iota + 1
	Int16
	Int32
	Int64
	Float32
	Float64
)

// KindFromBITPIX maps a BITPIX code to its element kind. BITPIX 8 maps to
// Int8.
func KindFromBITPIX(bitpix int) (ElementKind, error) {
	switch bitpix {
	case 8:
		return Int8, nil
	case 16:
		return Int16, nil
	case 32:
		return Int32, nil
	case 64:
		return Int64, nil
	case -32:
		return Float32, nil
	case -64:
		return Float64, nil
	}
	return 0, fmt.Errorf("BITPIX %d: %w", bitpix, ErrFormat)
}

// BITPIX returns the FITS code for k.
func (k ElementKind) BITPIX() int {
	switch k {
	case Int8:
		return 8
	case Int16:
		return 16
	case Int32:
		return 32
	case Int64:
		return 64
	case Float32:
		return -32
	case Float64:
		return -64
	}
	return 0
}

// Size returns the element width in bytes.
func (k ElementKind) Size() int {
	b := k.BITPIX()
	if b < 0 {
		b = -b
	}
	return b / 8
}

// IsFloat reports whether k is a floating-point kind.
func (k ElementKind) IsFloat() bool {
	return k == Float32 || k == Float64
}

func (k ElementKind) String() string {
	switch k {
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	}
	return fmt.Sprintf("ElementKind(%d)", uint8(k))
}
