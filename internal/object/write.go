package object

import (
	"fmt"

	"github.com/robert-malhotra/sofia2hdf5/internal/binary"
	"github.com/robert-malhotra/sofia2hdf5/internal/message"
)

// MinGroupChunkSize is the chunk size reserved for group headers, matching
// what h5py writes for an empty group.
const MinGroupChunkSize = 120

// nilHeaderSize is the smallest NIL message: a message header with no data.
const nilHeaderSize = 4

// layout is the computed shape of a header before it is written.
type layout struct {
	messages  int // bytes of message headers and data
	chunk     int // messages plus NIL padding
	fieldSize int // width of the chunk size field
}

func plan(w *binary.Writer, msgs []message.Serializable, minChunk int) (layout, error) {
	var l layout
	for _, m := range msgs {
		n := m.SerializedSize(w)
		if n > 0xFFFF {
			return l, fmt.Errorf("message 0x%04x is %d bytes, limit is 65535", uint16(m.Type()), n)
		}
		l.messages += 4 + n
	}
	l.chunk = l.messages
	if l.chunk < minChunk {
		l.chunk = minChunk
	}
	if pad := l.chunk - l.messages; pad > 0 && pad < nilHeaderSize {
		l.chunk = l.messages + nilHeaderSize
	}
	l.fieldSize = chunkSizeFieldBytes(l.chunk)
	return l, nil
}

func (l layout) total() int {
	return 4 + 1 + 1 + l.fieldSize + l.chunk + 4
}

// Size returns the bytes Write will produce for msgs.
func Size(w *binary.Writer, msgs []message.Serializable, minChunk int) (int, error) {
	l, err := plan(w, msgs, minChunk)
	if err != nil {
		return 0, err
	}
	return l.total(), nil
}

// Write encodes a version 2 object header at the writer's position. The
// chunk is padded with a NIL message up to minChunk bytes. It returns the
// number of bytes written.
func Write(w *binary.Writer, msgs []message.Serializable, minChunk int) (int, error) {
	l, err := plan(w, msgs, minChunk)
	if err != nil {
		return 0, err
	}

	buf := binary.NewBuffer(l.total())
	bw := binary.NewWriter(buf, w.Config())

	if err := bw.WriteBytes(Signature); err != nil {
		return 0, err
	}
	if err := bw.WriteUint8(2); err != nil {
		return 0, err
	}
	if err := bw.WriteUint8(uint8(flagsForField(l.fieldSize))); err != nil {
		return 0, err
	}
	if err := bw.WriteUintN(uint64(l.chunk), l.fieldSize); err != nil {
		return 0, err
	}

	for _, m := range msgs {
		if err := writeMessage(bw, m.Type(), m.SerializedSize(bw), m.Serialize); err != nil {
			return 0, fmt.Errorf("message 0x%04x: %w", uint16(m.Type()), err)
		}
	}
	if pad := l.chunk - l.messages; pad > 0 {
		fill := func(w *binary.Writer) error { return w.WriteZeros(pad - nilHeaderSize) }
		if err := writeMessage(bw, message.TypeNIL, pad-nilHeaderSize, fill); err != nil {
			return 0, err
		}
	}

	if err := bw.WriteUint32(binary.Lookup3Checksum(buf.Bytes())); err != nil {
		return 0, err
	}
	if err := w.WriteBytes(buf.Bytes()); err != nil {
		return 0, err
	}
	return len(buf.Bytes()), nil
}

func writeMessage(w *binary.Writer, typ message.Type, size int, body func(*binary.Writer) error) error {
	start := w.Pos()
	if err := w.WriteUint8(uint8(typ)); err != nil {
		return err
	}
	if err := w.WriteUint16(uint16(size)); err != nil {
		return err
	}
	if err := w.WriteUint8(0); err != nil {
		return err
	}
	if err := body(w); err != nil {
		return err
	}
	if got := int(w.Pos()-start) - 4; got != size {
		return fmt.Errorf("wrote %d bytes, declared %d", got, size)
	}
	return nil
}

func chunkSizeFieldBytes(size int) int {
	switch {
	case size <= 0xFF:
		return 1
	case size <= 0xFFFF:
		return 2
	case size <= 0xFFFFFFFF:
		return 4
	}
	return 8
}

// flagsForField encodes the chunk size field width in flag bits 0-1.
func flagsForField(n int) int {
	switch n {
	case 1:
		return 0
	case 2:
		return 1
	case 4:
		return 2
	}
	return 3
}

// GroupMessages returns the messages of a compact group header: link info,
// group info, then attributes and links in the given order.
func GroupMessages(links []*message.Link, attrs []*message.Attribute) []message.Serializable {
	msgs := make([]message.Serializable, 0, 2+len(links)+len(attrs))
	msgs = append(msgs, message.NewLinkInfo(), message.NewGroupInfo())
	for _, a := range attrs {
		msgs = append(msgs, a)
	}
	for _, l := range links {
		msgs = append(msgs, l)
	}
	return msgs
}

// DatasetMessages returns the messages of a dataset header.
func DatasetMessages(ds *message.Dataspace, dt *message.Datatype, l *message.DataLayout, attrs []*message.Attribute) []message.Serializable {
	msgs := []message.Serializable{ds, dt, l}
	for _, a := range attrs {
		msgs = append(msgs, a)
	}
	return msgs
}
