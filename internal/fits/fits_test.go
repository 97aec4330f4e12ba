package fits

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/astrogo/fitsio"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/robert-malhotra/sofia2hdf5/internal/logging"
)

// buildFITS assembles a primary HDU from raw header lines and big-endian
// payload bytes, padding both to whole blocks.
func buildFITS(lines []string, payload []byte) []byte {
	var buf bytes.Buffer
	for _, l := range lines {
		fmt.Fprintf(&buf, "%-80s", l)
	}
	pad(&buf)
	buf.Write(payload)
	pad(&buf)
	return buf.Bytes()
}

func pad(buf *bytes.Buffer) {
	if rem := buf.Len() % BlockSize; rem != 0 {
		buf.Write(bytes.Repeat([]byte{' '}, BlockSize-rem))
	}
}

func beInt16s(vals ...int16) []byte {
	out := make([]byte, 2*len(vals))
	for i, v := range vals {
		binary.BigEndian.PutUint16(out[2*i:], uint16(v))
	}
	return out
}

func TestParseCard(t *testing.T) {
	tests := []struct {
		line string
		want Card
		ok   bool
	}{
		{"BITPIX  =                  -32 / data type", Card{"BITPIX", "-32"}, true},
		{"OBJECT  = 'NGC 1234  '         / target", Card{"OBJECT", "NGC 1234"}, true},
		{"CTYPE1  = 'RA---SIN'", Card{"CTYPE1", "RA---SIN"}, true},
		{"SIMPLE  =                    T", Card{"SIMPLE", "T"}, true},
		{"EMPTY   =", Card{"EMPTY", ""}, true},
		{"QUOTE   = '", Card{"QUOTE", "'"}, true},
		{"COMMENT = not a card", Card{}, false},
		{"HISTORY written by SoFiA", Card{}, false},
		{"        = leading blank", Card{}, false},
		{"NOEQUALS just text", Card{}, false},
		{"", Card{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseCard(tt.line)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseCard(%q) = %+v, %v; want %+v, %v", tt.line, got, ok, tt.want, tt.ok)
		}
	}
}

func TestHeaderLookups(t *testing.T) {
	h := Header{
		{"NAXIS", "3"},
		{"CRVAL3", "1.42D9"},
		{"NAXIS", "2"},
		{"BSCALE", "1.5"},
		{"JUNK", "abc"},
		{"PARTIAL", "  42 trailing"},
	}

	if v, ok := h.Lookup("NAXIS"); !ok || v != "3" {
		t.Errorf("Lookup(NAXIS) = %q, %v; want first duplicate", v, ok)
	}
	if _, ok := h.Lookup("MISSING"); ok {
		t.Error("Lookup(MISSING) ok")
	}
	if n, ok := h.Int("PARTIAL"); !ok || n != 42 {
		t.Errorf("Int(PARTIAL) = %d, %v", n, ok)
	}
	if _, ok := h.Int("JUNK"); ok {
		t.Error("Int(JUNK) ok")
	}
	if f, ok := h.Float("BSCALE"); !ok || f != 1.5 {
		t.Errorf("Float(BSCALE) = %v, %v", f, ok)
	}
	if f, ok := h.Float("CRVAL3"); !ok || f != 1.42e9 {
		t.Errorf("Float(CRVAL3) = %v, %v", f, ok)
	}
	if _, ok := h.Float("JUNK"); ok {
		t.Error("Float(JUNK) ok")
	}
	if _, ok := h.Float("MISSING"); ok {
		t.Error("Float(MISSING) ok")
	}
}

func TestParseInt16(t *testing.T) {
	raw := buildFITS([]string{
		"SIMPLE  =                    T",
		"BITPIX  =                   16",
		"NAXIS   =                    2",
		"NAXIS1  =                    3",
		"NAXIS2  =                    2",
		"COMMENT ignored",
		"OBJECT  = 'test'",
		"END",
		"AFTER   =                    1",
	}, beInt16s(1, -2, 3, 300, -32768, 32767))

	c, err := Parse(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.NX != 3 || c.NY != 2 || c.NZ != 1 {
		t.Errorf("dims = %d,%d,%d", c.NX, c.NY, c.NZ)
	}
	if c.Kind != Int16 || c.Kind.Size() != 2 {
		t.Errorf("kind = %v", c.Kind)
	}
	if diff := cmp.Diff([]int16{1, -2, 3, 300, -32768, 32767}, c.Int16s()); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}
	if got := c.Float64At(3); got != 300 {
		t.Errorf("Float64At(3) = %v", got)
	}
	if _, ok := c.Header.Lookup("AFTER"); ok {
		t.Error("card after END was kept")
	}
	if _, ok := c.Header.Lookup("COMMENT"); ok {
		t.Error("COMMENT card was kept")
	}
	if v, _ := c.Header.Lookup("OBJECT"); v != "test" {
		t.Errorf("OBJECT = %q", v)
	}
	if c.BScale != 1 || c.BZero != 0 || c.Scaled() {
		t.Errorf("scale = %v, %v", c.BScale, c.BZero)
	}
}

func TestParseInt8Signed(t *testing.T) {
	raw := buildFITS([]string{
		"SIMPLE  =                    T",
		"BITPIX  =                    8",
		"NAXIS   =                    1",
		"NAXIS1  =                    3",
		"END",
	}, []byte{0x01, 0x80, 0xFF})

	c, err := Parse(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if diff := cmp.Diff([]int8{1, -128, -1}, c.Int8s()); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}
	if c.NY != 1 || c.NZ != 1 {
		t.Errorf("NY, NZ = %d, %d", c.NY, c.NZ)
	}
}

func TestParseNAXIS4(t *testing.T) {
	payload := make([]byte, 4*2*3*2*4)
	for i := 0; i < 2*3*2*4; i++ {
		binary.BigEndian.PutUint32(payload[4*i:], math.Float32bits(float32(i)))
	}
	raw := buildFITS([]string{
		"SIMPLE  =                    T",
		"BITPIX  =                  -32",
		"NAXIS   =                    4",
		"NAXIS1  =                    2",
		"NAXIS2  =                    3",
		"NAXIS3  =                    2",
		"NAXIS4  =                    4",
		"END",
	}, payload)

	c, err := Parse(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Len() != 2*3*2*4 {
		t.Errorf("Len = %d", c.Len())
	}
	if c.NZ != 8 {
		t.Errorf("NZ = %d, want 8", c.NZ)
	}
	if diff := cmp.Diff([]int{2, 3, 2, 4}, c.Axes); diff != "" {
		t.Errorf("axes mismatch (-want +got):\n%s", diff)
	}
	if got := c.Float32s()[47]; got != 47 {
		t.Errorf("last = %v", got)
	}
}

func TestParseHeaderSpanningBlocks(t *testing.T) {
	lines := []string{
		"SIMPLE  =                    T",
		"BITPIX  =                  -64",
		"NAXIS   =                    1",
		"NAXIS1  =                    1",
	}
	for i := 0; i < 40; i++ {
		lines = append(lines, fmt.Sprintf("KEY%-5d= %20d", i, i))
	}
	lines = append(lines, "END")
	payload := make([]byte, 8)
	binary.BigEndian.PutUint64(payload, math.Float64bits(2.5))

	c, err := Parse(bytes.NewReader(buildFITS(lines, payload)))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := c.Float64s()[0]; got != 2.5 {
		t.Errorf("value = %v", got)
	}
	if v, ok := c.Header.Int("KEY39"); !ok || v != 39 {
		t.Errorf("KEY39 = %d, %v", v, ok)
	}
}

func TestParseErrors(t *testing.T) {
	base := func(extra ...string) []string {
		return append([]string{"SIMPLE  =                    T"}, extra...)
	}
	tests := []struct {
		name string
		raw  []byte
		want error
	}{
		{"empty", nil, ErrNotFITS},
		{"not fits", buildFITS([]string{"XTENSION= 'IMAGE'", "END"}, nil), ErrNotFITS},
		{"short first block", []byte("SIMPLE  =   T"), ErrTruncatedHeader},
		{"no END", buildFITS(base("BITPIX  = 16"), nil), ErrTruncatedHeader},
		{"missing BITPIX", buildFITS(base("NAXIS   = 1", "NAXIS1  = 1", "END"), nil), ErrFormat},
		{"bad BITPIX", buildFITS(base("BITPIX  = 12", "NAXIS   = 1", "NAXIS1  = 1", "END"), nil), ErrFormat},
		{"missing NAXIS", buildFITS(base("BITPIX  = 16", "END"), nil), ErrFormat},
		{"NAXIS 0", buildFITS(base("BITPIX  = 16", "NAXIS   = 0", "END"), nil), ErrFormat},
		{"NAXIS 5", buildFITS(base("BITPIX  = 16", "NAXIS   = 5", "END"), nil), ErrFormat},
		{"missing NAXIS2", buildFITS(base("BITPIX  = 16", "NAXIS   = 2", "NAXIS1  = 4", "END"), nil), ErrFormat},
		{"zero extent", buildFITS(base("BITPIX  = 16", "NAXIS   = 1", "NAXIS1  = 0", "END"), nil), ErrFormat},
		{"truncated data", buildFITS(base("BITPIX  = 16", "NAXIS   = 1", "NAXIS1  = 4000", "END"), beInt16s(1, 2)), ErrTruncatedData},
		{"element count overflows", buildFITS(base("BITPIX  = -64", "NAXIS   = 3",
			"NAXIS1  = 3000000", "NAXIS2  = 3000000", "NAXIS3  = 3000000", "END"), nil), ErrFormat},
		{"byte count overflows", buildFITS(base("BITPIX  = 64", "NAXIS   = 2",
			"NAXIS1  = 4294967296", "NAXIS2  = 536870912", "END"), nil), ErrFormat},
		{"header overstates data", buildFITS(base("BITPIX  = -64", "NAXIS   = 3",
			"NAXIS1  = 100000", "NAXIS2  = 100000", "NAXIS3  = 100000", "END"), beInt16s(1, 2)), ErrTruncatedData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(bytes.NewReader(tt.raw))
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseHeaderBlockLimit(t *testing.T) {
	raw := buildFITS([]string{"SIMPLE  =                    T", "BITPIX  =                   16"}, nil)
	raw = append(raw, bytes.Repeat([]byte{' '}, MaxHeaderBlocks*BlockSize)...)

	_, err := Parse(bytes.NewReader(raw))
	if !errors.Is(err, ErrTruncatedHeader) {
		t.Fatalf("err = %v, want ErrTruncatedHeader", err)
	}
	if want := fmt.Sprintf("no END in %d blocks", MaxHeaderBlocks); !strings.Contains(err.Error(), want) {
		t.Errorf("err = %v, want %q", err, want)
	}
}

func TestParseKinds(t *testing.T) {
	be := func(width int, bits ...uint64) []byte {
		out := make([]byte, width*len(bits))
		for i, b := range bits {
			switch width {
			case 1:
				out[i] = byte(b)
			case 2:
				binary.BigEndian.PutUint16(out[2*i:], uint16(b))
			case 4:
				binary.BigEndian.PutUint32(out[4*i:], uint32(b))
			case 8:
				binary.BigEndian.PutUint64(out[8*i:], b)
			}
		}
		return out
	}
	f32 := func(v float32) uint64 { return uint64(math.Float32bits(v)) }
	neg2 := uint64(math.MaxUint64 - 1)

	tests := []struct {
		bitpix  int
		kind    ElementKind
		payload []byte
		view    func(*Cube) any
		want    any
	}{
		{8, Int8, be(1, 1, neg2, 3), func(c *Cube) any { return c.Int8s() }, []int8{1, -2, 3}},
		{16, Int16, be(2, 1, neg2, 3), func(c *Cube) any { return c.Int16s() }, []int16{1, -2, 3}},
		{32, Int32, be(4, 1, neg2, 3), func(c *Cube) any { return c.Int32s() }, []int32{1, -2, 3}},
		{64, Int64, be(8, 1, neg2, 3), func(c *Cube) any { return c.Int64s() }, []int64{1, -2, 3}},
		{-32, Float32, be(4, f32(1), f32(-2), f32(3)), func(c *Cube) any { return c.Float32s() }, []float32{1, -2, 3}},
		{-64, Float64, be(8, math.Float64bits(1), math.Float64bits(-2), math.Float64bits(3)),
			func(c *Cube) any { return c.Float64s() }, []float64{1, -2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			raw := buildFITS([]string{
				"SIMPLE  =                    T",
				fmt.Sprintf("BITPIX  = %20d", tt.bitpix),
				"NAXIS   =                    1",
				"NAXIS1  =                    3",
				"END",
			}, tt.payload)

			c, err := Parse(bytes.NewReader(raw))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if c.Kind != tt.kind || c.Bytes() != int64(3*tt.kind.Size()) {
				t.Errorf("kind %v, %d bytes", c.Kind, c.Bytes())
			}
			if diff := cmp.Diff(tt.want, tt.view(c)); diff != "" {
				t.Errorf("data mismatch (-want +got):\n%s", diff)
			}
			var got []float64
			for i := range c.Len() {
				got = append(got, c.Float64At(i))
			}
			if diff := cmp.Diff([]float64{1, -2, 3}, got); diff != "" {
				t.Errorf("Float64At (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseScaledWarns(t *testing.T) {
	raw := buildFITS([]string{
		"SIMPLE  =                    T",
		"BITPIX  =                   16",
		"NAXIS   =                    1",
		"NAXIS1  =                    2",
		"BSCALE  =                  2.0",
		"BZERO   =              32768.0",
		"END",
	}, beInt16s(7, 8))

	var logs bytes.Buffer
	ctx := logging.WithLogger(context.Background(), zerolog.New(&logs))

	c, err := ParseContext(ctx, bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.BScale != 2 || c.BZero != 32768 {
		t.Errorf("scale = %v, %v", c.BScale, c.BZero)
	}
	if diff := cmp.Diff([]int16{7, 8}, c.Int16s()); diff != "" {
		t.Errorf("data was modified (-want +got):\n%s", diff)
	}
	if !strings.Contains(logs.String(), "BSCALE/BZERO present") {
		t.Errorf("no warning logged: %s", logs.String())
	}
}

func TestSwapBytes(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	orig := append([]byte(nil), buf...)

	SwapBytes(buf, 4)
	if want := []byte{4, 3, 2, 1, 8, 7, 6, 5}; !bytes.Equal(buf, want) {
		t.Fatalf("swap 4 = %v, want %v", buf, want)
	}
	SwapBytes(buf, 4)
	if !bytes.Equal(buf, orig) {
		t.Fatalf("swap is not an involution: %v", buf)
	}

	SwapBytes(buf, 8)
	if want := []byte{8, 7, 6, 5, 4, 3, 2, 1}; !bytes.Equal(buf, want) {
		t.Fatalf("swap 8 = %v", buf)
	}
	SwapBytes(buf, 1)
	if want := []byte{8, 7, 6, 5, 4, 3, 2, 1}; !bytes.Equal(buf, want) {
		t.Fatalf("swap 1 changed buf: %v", buf)
	}
}

func TestKindFromBITPIX(t *testing.T) {
	for _, k := range []ElementKind{Int8, Int16, Int32, Int64, Float32, Float64} {
		got, err := KindFromBITPIX(k.BITPIX())
		if err != nil || got != k {
			t.Errorf("KindFromBITPIX(%d) = %v, %v", k.BITPIX(), got, err)
		}
	}
	if _, err := KindFromBITPIX(24); !errors.Is(err, ErrFormat) {
		t.Errorf("BITPIX 24: err = %v", err)
	}
	if Float64.Size() != 8 || Int8.Size() != 1 || Float32.String() != "float32" {
		t.Error("unexpected kind metadata")
	}
}

func writeFitsio(t *testing.T, path string, bitpix int, dims []int, cards []fitsio.Card, data any) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	out, err := fitsio.Create(f)
	if err != nil {
		t.Fatal(err)
	}
	im := fitsio.NewImage(bitpix, dims)
	if err := im.Header().Append(cards...); err != nil {
		t.Fatal(err)
	}
	if err := im.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := out.Write(im); err != nil {
		t.Fatal(err)
	}
	if err := im.Close(); err != nil {
		t.Fatal(err)
	}
	if err := out.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestReadFileFitsio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube.fits")
	want := make([]float32, 4*3*2)
	for i := range want {
		want[i] = float32(i) * 0.5
	}
	writeFitsio(t, path, -32, []int{4, 3, 2}, []fitsio.Card{
		{Name: "OBJECT", Value: "NGC 4214"},
		{Name: "CTYPE3", Value: "FREQ"},
	}, want)

	c, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if c.NX != 4 || c.NY != 3 || c.NZ != 2 {
		t.Errorf("dims = %d,%d,%d", c.NX, c.NY, c.NZ)
	}
	if diff := cmp.Diff(want, c.Float32s()); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}
	if v, _ := c.Header.Lookup("OBJECT"); v != "NGC 4214" {
		t.Errorf("OBJECT = %q", v)
	}
	if v, _ := c.Header.Lookup("SIMPLE"); v != "T" {
		t.Errorf("SIMPLE = %q", v)
	}
}

func TestReadFileFitsioInt32(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mask.fits")
	want := []int32{0, 1, 2, 0, -5, 1 << 20}
	writeFitsio(t, path, 32, []int{3, 2}, nil, want)

	c, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if diff := cmp.Diff(want, c.Int32s()); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.fits"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v", err)
	}
}
