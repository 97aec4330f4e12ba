package hdf5

import (
	"fmt"
	"reflect"

	"github.com/robert-malhotra/sofia2hdf5/internal/dtype"
	"github.com/robert-malhotra/sofia2hdf5/internal/message"
)

// Attribute is a small named value attached to a group or dataset.
type Attribute struct {
	msg *message.Attribute
}

// Name returns the attribute name.
func (a *Attribute) Name() string { return a.msg.Name }

// Shape returns the extents, or nil for a scalar.
func (a *Attribute) Shape() []uint64 {
	if a.msg.Dataspace.IsScalar() {
		return nil
	}
	return append([]uint64(nil), a.msg.Dataspace.Dimensions...)
}

// IsScalar reports whether the attribute holds a single value.
func (a *Attribute) IsScalar() bool { return a.msg.Dataspace.IsScalar() }

// Class returns the datatype class.
func (a *Attribute) Class() Class { return Class(a.msg.Datatype.Class) }

// Datatype returns the element type.
func (a *Attribute) Datatype() Datatype { return Datatype{msg: a.msg.Datatype} }

// Value decodes the attribute. Scalars come back as int64, uint64,
// float64 or string; arrays as the matching slice type.
func (a *Attribute) Value() (any, error) {
	if a.IsScalar() {
		return a.first()
	}
	vals, err := dtype.Decode(a.msg.Datatype, a.msg.Data)
	if err != nil {
		return nil, fmt.Errorf("attribute %s: %w", a.msg.Name, err)
	}
	return vals, nil
}

// ReadScalarFloat64 returns the first element as a float64. Integer
// attributes are converted.
func (a *Attribute) ReadScalarFloat64() (float64, error) {
	v, err := a.first()
	if err != nil {
		return 0, err
	}
	switch x := v.(type) {
	case float64:
		return x, nil
	case int64:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	}
	return 0, fmt.Errorf("attribute %s: %s is not numeric", a.msg.Name, a.Class())
}

// ReadScalarInt64 returns the first element of an integer attribute.
func (a *Attribute) ReadScalarInt64() (int64, error) {
	v, err := a.first()
	if err != nil {
		return 0, err
	}
	switch x := v.(type) {
	case int64:
		return x, nil
	case uint64:
		return int64(x), nil
	}
	return 0, fmt.Errorf("attribute %s: %s is not an integer", a.msg.Name, a.Class())
}

// ReadScalarString returns the first element of a string attribute.
func (a *Attribute) ReadScalarString() (string, error) {
	v, err := a.first()
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("attribute %s: %s is not a string", a.msg.Name, a.Class())
	}
	return s, nil
}

func (a *Attribute) first() (any, error) {
	vals, err := dtype.Decode(a.msg.Datatype, a.msg.Data)
	if err != nil {
		return nil, fmt.Errorf("attribute %s: %w", a.msg.Name, err)
	}
	v := reflect.ValueOf(vals)
	if v.Len() == 0 {
		return nil, fmt.Errorf("attribute %s: no value", a.msg.Name)
	}
	return v.Index(0).Interface(), nil
}

func attrNames(attrs []*message.Attribute) []string {
	names := make([]string, len(attrs))
	for i, a := range attrs {
		names[i] = a.Name
	}
	return names
}

func findAttr(attrs []*message.Attribute, name string) *Attribute {
	for _, a := range attrs {
		if a.Name == name {
			return &Attribute{msg: a}
		}
	}
	return nil
}

// newAttributeMessage encodes value as an attribute. Strings are stored
// as fixed-length, null-terminated ASCII of len+1 bytes; string slices use
// the longest element plus one.
func newAttributeMessage(name string, value any) (*message.Attribute, error) {
	if name == "" {
		return nil, fmt.Errorf("empty attribute name")
	}
	val := reflect.ValueOf(value)
	for val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if !val.IsValid() {
		return nil, fmt.Errorf("nil value")
	}

	dims := dtype.Shape(val)
	if len(dims) > 1 {
		return nil, fmt.Errorf("%w: attribute of rank %d", ErrUnsupported, len(dims))
	}
	if len(dims) == 1 && dims[0] == 0 {
		return nil, fmt.Errorf("%w: empty attribute array", ErrUnsupported)
	}

	dt, err := dtype.FromGoType(val.Type(), longestString(val)+1)
	if err != nil {
		return nil, err
	}
	data, err := dtype.Encode(dt, val.Interface())
	if err != nil {
		return nil, err
	}

	space := message.NewScalarDataspace()
	if len(dims) == 1 {
		space = message.NewDataspace(dims)
	}
	return message.NewAttribute(name, dt, space, data), nil
}
