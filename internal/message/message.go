// Package message encodes and decodes the HDF5 header messages used by
// sofia2hdf5 output files: dataspace, datatype, layout, attribute, link,
// link info and group info.
package message

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/robert-malhotra/sofia2hdf5/internal/binary"
)

// Type is an HDF5 header message type.
type Type uint16

// Header message types.
const (
	TypeNIL        Type = 0x0000
	TypeDataspace  Type = 0x0001
	TypeLinkInfo   Type = 0x0002
	TypeDatatype   Type = 0x0003
	TypeLink       Type = 0x0006
	TypeDataLayout Type = 0x0008
	TypeGroupInfo  Type = 0x000A
	TypeAttribute  Type = 0x000C
)

// ErrMalformed is returned when a message body is shorter or otherwise
// inconsistent with its declared layout.
var ErrMalformed = errors.New("malformed header message")

// UndefinedAddress is the 8-byte HDF5 "no address" value.
const UndefinedAddress = ^uint64(0)

// Message is implemented by every header message.
type Message interface {
	Type() Type
}

// Serializable is a message that can be written to an object header.
type Serializable interface {
	Message
	Serialize(w *binary.Writer) error
	SerializedSize(w *binary.Writer) int
}

// Unknown holds a message this package does not decode.
type Unknown struct {
	typ  Type
	Data []byte
}

func (m *Unknown) Type() Type { return m.typ }

// Parse decodes one message body. Types that are not decoded are returned
// as *Unknown.
func Parse(typ Type, data []byte, cfg binary.Config) (Message, error) {
	r := binary.NewReader(bytes.NewReader(data), cfg)
	var (
		msg Message
		err error
	)
	switch typ {
	case TypeDataspace:
		msg, err = parseDataspace(r)
	case TypeDatatype:
		msg, err = parseDatatype(r)
	case TypeDataLayout:
		msg, err = parseDataLayout(r)
	case TypeAttribute:
		msg, err = parseAttribute(r, len(data))
	case TypeLink:
		msg, err = parseLink(r)
	default:
		return &Unknown{typ: typ, Data: data}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: type 0x%04x: %v", ErrMalformed, uint16(typ), err)
	}
	return msg, nil
}
