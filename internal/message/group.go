package message

import "github.com/robert-malhotra/sofia2hdf5/internal/binary"

// LinkInfo marks an object header as a new-style group (message 0x0002).
// Links are always stored compactly in the header, so both index
// addresses are undefined.
type LinkInfo struct{}

func (m *LinkInfo) Type() Type { return TypeLinkInfo }

// NewLinkInfo returns a link info message for a compact group.
func NewLinkInfo() *LinkInfo { return &LinkInfo{} }

// Serialize writes version 0 with no creation order tracking.
func (m *LinkInfo) Serialize(w *binary.Writer) error {
	if err := w.WriteUint8(0); err != nil {
		return err
	}
	if err := w.WriteUint8(0); err != nil {
		return err
	}
	if err := w.WriteOffset(w.UndefinedOffset()); err != nil {
		return err
	}
	return w.WriteOffset(w.UndefinedOffset())
}

// SerializedSize returns the encoded size in bytes.
func (m *LinkInfo) SerializedSize(w *binary.Writer) int {
	return 2 + 2*w.OffsetSize()
}

// GroupInfo carries group storage hints (message 0x000A). Defaults only.
type GroupInfo struct{}

func (m *GroupInfo) Type() Type { return TypeGroupInfo }

// NewGroupInfo returns a group info message with library defaults.
func NewGroupInfo() *GroupInfo { return &GroupInfo{} }

func (m *GroupInfo) Serialize(w *binary.Writer) error {
	if err := w.WriteUint8(0); err != nil {
		return err
	}
	return w.WriteUint8(0)
}

func (m *GroupInfo) SerializedSize(*binary.Writer) int { return 2 }
