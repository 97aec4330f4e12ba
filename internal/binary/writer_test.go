package binary

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"
)

func TestWriterFieldWidths(t *testing.T) {
	tests := []struct {
		name       string
		offsetSize int
		lengthSize int
		want       []byte
	}{
		{"8/8", 8, 8, []byte{1, 0, 0, 0, 0, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0}},
		{"4/4", 4, 4, []byte{1, 0, 0, 0, 2, 0, 0, 0}},
		{"2/8", 2, 8, []byte{1, 0, 2, 0, 0, 0, 0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := NewBuffer(0)
			w := NewWriter(buf, Config{ByteOrder: binary.LittleEndian, OffsetSize: tt.offsetSize, LengthSize: tt.lengthSize})
			if err := w.WriteOffset(1); err != nil {
				t.Fatalf("WriteOffset: %v", err)
			}
			if err := w.WriteLength(2); err != nil {
				t.Fatalf("WriteLength: %v", err)
			}
			if !bytes.Equal(buf.Bytes(), tt.want) {
				t.Errorf("got %v, want %v", buf.Bytes(), tt.want)
			}
			if w.Pos() != int64(len(tt.want)) {
				t.Errorf("Pos = %d, want %d", w.Pos(), len(tt.want))
			}
		})
	}
}

func TestWriterAtIsIndependent(t *testing.T) {
	buf := NewBuffer(0)
	w := NewWriter(buf, DefaultConfig())
	if err := w.WriteUint32(0xAABBCCDD); err != nil {
		t.Fatal(err)
	}

	w2 := w.At(8)
	if err := w2.WriteUint16(0x0102); err != nil {
		t.Fatal(err)
	}
	if w.Pos() != 4 {
		t.Errorf("original writer moved to %d", w.Pos())
	}

	want := []byte{0xDD, 0xCC, 0xBB, 0xAA, 0, 0, 0, 0, 0x02, 0x01}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got %v, want %v", buf.Bytes(), want)
	}
}

func TestUndefinedOffset(t *testing.T) {
	for _, size := range []int{2, 4, 8} {
		w := NewWriter(NewBuffer(0), Config{ByteOrder: binary.LittleEndian, OffsetSize: size, LengthSize: 8})
		r := NewReader(bytes.NewReader(nil), Config{ByteOrder: binary.LittleEndian, OffsetSize: size, LengthSize: 8})
		if !r.IsUndefinedOffset(w.UndefinedOffset()) {
			t.Errorf("size %d: reader does not recognise 0x%x as undefined", size, w.UndefinedOffset())
		}
	}
}

func TestReaderRoundTrip(t *testing.T) {
	buf := NewBuffer(0)
	cfg := Config{ByteOrder: binary.LittleEndian, OffsetSize: 4, LengthSize: 8}
	w := NewWriter(buf, cfg)
	_ = w.WriteUint8(7)
	_ = w.WriteUint16(300)
	_ = w.WriteOffset(0x12345678)
	_ = w.WriteLength(1 << 40)

	r := NewReader(bytes.NewReader(buf.Bytes()), cfg)
	if v, _ := r.ReadUint8(); v != 7 {
		t.Errorf("ReadUint8 = %d", v)
	}
	if v, _ := r.ReadUint16(); v != 300 {
		t.Errorf("ReadUint16 = %d", v)
	}
	if v, _ := r.ReadOffset(); v != 0x12345678 {
		t.Errorf("ReadOffset = 0x%x", v)
	}
	if v, _ := r.ReadLength(); v != 1<<40 {
		t.Errorf("ReadLength = %d", v)
	}
	if _, err := r.ReadUint8(); err == nil {
		t.Error("expected error reading past the end")
	}
}

func TestBufferReadAt(t *testing.T) {
	buf := NewBuffer(0)
	buf.WriteAt([]byte("abcdef"), 2)

	p := make([]byte, 4)
	if n, err := buf.ReadAt(p, 3); n != 4 || err != nil || string(p) != "bcde" {
		t.Errorf("ReadAt(3) = %d, %v, %q", n, err, p)
	}
	if n, err := buf.ReadAt(p, 6); n != 2 || err != io.EOF || string(p[:n]) != "ef" {
		t.Errorf("ReadAt(6) = %d, %v", n, err)
	}
	if _, err := buf.ReadAt(p, 8); err != io.EOF {
		t.Errorf("ReadAt past end = %v, want io.EOF", err)
	}

	r := NewReader(buf, DefaultConfig())
	if v, err := r.ReadUint8(); err != nil || v != 0 {
		t.Errorf("ReadUint8 = %d, %v", v, err)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	bad := Config{ByteOrder: binary.LittleEndian, OffsetSize: 3, LengthSize: 8}
	if err := bad.Validate(); err != ErrInvalidSize {
		t.Errorf("Validate = %v, want ErrInvalidSize", err)
	}
}
