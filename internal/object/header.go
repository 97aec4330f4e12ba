package object

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/robert-malhotra/sofia2hdf5/internal/binary"
	"github.com/robert-malhotra/sofia2hdf5/internal/message"
)

// Signature starts every version 2 object header.
var Signature = []byte{'O', 'H', 'D', 'R'}

var (
	ErrInvalidHeader      = errors.New("invalid object header")
	ErrUnsupportedVersion = errors.New("unsupported object header version")
	ErrChecksumMismatch   = errors.New("object header checksum mismatch")
)

// Header is a decoded object header.
type Header struct {
	Address  uint64
	Flags    uint8
	Messages []message.Message
}

// Read decodes the object header at address and verifies its checksum.
func Read(r *binary.Reader, address uint64) (*Header, error) {
	hr := r.At(int64(address))

	prefix, err := hr.ReadBytes(6)
	if err != nil {
		return nil, fmt.Errorf("reading object header at %d: %w", address, err)
	}
	if !bytes.Equal(prefix[:4], Signature) {
		if prefix[0] == 1 {
			return nil, fmt.Errorf("%w: version 1 at %d", ErrUnsupportedVersion, address)
		}
		return nil, fmt.Errorf("%w: no signature at %d", ErrInvalidHeader, address)
	}
	if prefix[4] != 2 {
		return nil, fmt.Errorf("%w: version %d at %d", ErrUnsupportedVersion, prefix[4], address)
	}
	flags := prefix[5]
	if flags&0xFC != 0 {
		return nil, fmt.Errorf("%w: flags 0x%02x at %d", ErrUnsupportedVersion, flags, address)
	}

	fieldSize := 1 << (flags & 0x03)
	sizeField, err := hr.ReadBytes(fieldSize)
	if err != nil {
		return nil, err
	}
	cfg := binary.Config{
		ByteOrder:  binary.DefaultConfig().ByteOrder,
		OffsetSize: r.OffsetSize(),
		LengthSize: r.LengthSize(),
	}
	chunkSize := binary.DecodeUint(cfg.ByteOrder, sizeField)

	body, err := hr.ReadBytes(int(chunkSize))
	if err != nil {
		return nil, fmt.Errorf("reading object header chunk at %d: %w", address, err)
	}
	stored, err := hr.ReadUint32()
	if err != nil {
		return nil, err
	}

	// Checksum covers the signature through the last message byte.
	whole := make([]byte, 0, len(prefix)+fieldSize+len(body))
	whole = append(whole, prefix...)
	whole = append(whole, sizeField...)
	whole = append(whole, body...)
	if binary.Lookup3Checksum(whole) != stored {
		return nil, fmt.Errorf("%w at %d", ErrChecksumMismatch, address)
	}

	hdr := &Header{Address: address, Flags: flags}
	for pos := 0; pos+4 <= len(body); {
		typ := message.Type(body[pos])
		size := int(body[pos+1]) | int(body[pos+2])<<8
		pos += 4
		if pos+size > len(body) {
			return nil, fmt.Errorf("%w: message 0x%02x overruns chunk at %d", ErrInvalidHeader, uint16(typ), address)
		}
		data := body[pos : pos+size]
		pos += size
		if typ == message.TypeNIL {
			continue
		}
		msg, err := message.Parse(typ, data, cfg)
		if err != nil {
			return nil, err
		}
		hdr.Messages = append(hdr.Messages, msg)
	}
	return hdr, nil
}

// Message returns the first message of typ, or nil.
func (h *Header) Message(typ message.Type) message.Message {
	for _, msg := range h.Messages {
		if msg.Type() == typ {
			return msg
		}
	}
	return nil
}

// MessagesOf returns every message of typ in header order.
func (h *Header) MessagesOf(typ message.Type) []message.Message {
	var out []message.Message
	for _, msg := range h.Messages {
		if msg.Type() == typ {
			out = append(out, msg)
		}
	}
	return out
}

// Dataspace returns the dataspace message, if any.
func (h *Header) Dataspace() *message.Dataspace {
	ds, _ := h.Message(message.TypeDataspace).(*message.Dataspace)
	return ds
}

// Datatype returns the datatype message, if any.
func (h *Header) Datatype() *message.Datatype {
	dt, _ := h.Message(message.TypeDatatype).(*message.Datatype)
	return dt
}

// DataLayout returns the data layout message, if any.
func (h *Header) DataLayout() *message.DataLayout {
	l, _ := h.Message(message.TypeDataLayout).(*message.DataLayout)
	return l
}

// Links returns the hard links of a group header in storage order.
func (h *Header) Links() []*message.Link {
	var links []*message.Link
	for _, msg := range h.MessagesOf(message.TypeLink) {
		links = append(links, msg.(*message.Link))
	}
	return links
}

// Attributes returns the attribute messages in storage order.
func (h *Header) Attributes() []*message.Attribute {
	var attrs []*message.Attribute
	for _, msg := range h.MessagesOf(message.TypeAttribute) {
		attrs = append(attrs, msg.(*message.Attribute))
	}
	return attrs
}

// IsGroup reports whether the header describes a group.
func (h *Header) IsGroup() bool {
	return h.Message(message.TypeLinkInfo) != nil || h.Message(message.TypeLink) != nil
}

// IsDataset reports whether the header describes a dataset.
func (h *Header) IsDataset() bool {
	return h.Message(message.TypeDataLayout) != nil
}
