package hdf5

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func tempFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.h5")
}

func TestCreateEmptyFile(t *testing.T) {
	path := tempFile(t)
	f, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()
	if n := len(r.Root().Members()); n != 0 {
		t.Errorf("root has %d members", n)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if uint64(info.Size()) != r.Size() {
		t.Errorf("file is %d bytes, superblock EOF %d", info.Size(), r.Size())
	}
}

func TestNestedGroupsAndDatasets(t *testing.T) {
	path := tempFile(t)
	f, err := Create(path)
	if err != nil {
		t.Fatal(err)
	}
	sofia, err := f.Root().CreateGroup("SoFiA")
	if err != nil {
		t.Fatal(err)
	}
	mask, err := sofia.CreateGroup("Mask")
	if err != nil {
		t.Fatal(err)
	}
	deep, err := mask.CreateGroup("deeper")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := deep.CreateDataset("leaf", []int32{7, 8, 9}); err != nil {
		t.Fatal(err)
	}
	if _, err := sofia.CreateDataset("DATA", [][]float32{{1, 2, 3}, {4, 5, 6}}); err != nil {
		t.Fatal(err)
	}
	if err := mask.SetAttribute("type", "Mask"); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	leaf, err := r.OpenDataset("/SoFiA/Mask/deeper/leaf")
	if err != nil {
		t.Fatalf("OpenDataset leaf: %v", err)
	}
	vals, err := leaf.Values()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int64{7, 8, 9}, vals); diff != "" {
		t.Errorf("leaf (-want +got):\n%s", diff)
	}

	data, err := r.OpenDataset("/SoFiA/DATA")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]uint64{2, 3}, data.Shape()); diff != "" {
		t.Errorf("shape (-want +got):\n%s", diff)
	}
	if data.Class() != ClassFloat || data.ElementSize() != 4 {
		t.Errorf("class %v size %d", data.Class(), data.ElementSize())
	}

	g, err := r.OpenGroup("SoFiA/Mask")
	if err != nil {
		t.Fatal(err)
	}
	typ, err := g.Attr("type").ReadScalarString()
	if err != nil || typ != "Mask" {
		t.Errorf("type attr = %q, %v", typ, err)
	}
	if diff := cmp.Diff([]string{"Mask", "DATA"}, mustGroup(t, r.Root(), "SoFiA").Members()); diff != "" {
		t.Errorf("members (-want +got):\n%s", diff)
	}
}

func mustGroup(t *testing.T, g *Group, name string) *Group {
	t.Helper()
	sub, err := g.OpenGroup(name)
	if err != nil {
		t.Fatalf("OpenGroup %s: %v", name, err)
	}
	return sub
}

func TestAttributeTypes(t *testing.T) {
	path := tempFile(t)
	f, err := Create(path)
	if err != nil {
		t.Fatal(err)
	}
	root := f.Root()
	attrs := []struct {
		name  string
		value any
		want  any
	}{
		{"flag", uint8(1), uint64(1)},
		{"bitpix", -32.0, -32.0},
		{"naxis", int64(3), int64(3)},
		{"object", "NGC 1234", "NGC 1234"},
		{"axes", []int32{4, 3, 2}, []int64{4, 3, 2}},
		{"names", []string{"a", "bcd"}, []string{"a", "bcd"}},
	}
	for _, a := range attrs {
		if err := root.SetAttribute(a.name, a.value); err != nil {
			t.Fatalf("SetAttribute %s: %v", a.name, err)
		}
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	for _, a := range attrs {
		attr := r.Root().Attr(a.name)
		if attr == nil {
			t.Fatalf("attribute %s missing", a.name)
		}
		got, err := attr.Value()
		if err != nil {
			t.Fatalf("%s: %v", a.name, err)
		}
		if diff := cmp.Diff(a.want, got); diff != "" {
			t.Errorf("%s (-want +got):\n%s", a.name, diff)
		}
	}
	if v, err := r.Root().Attr("naxis").ReadScalarFloat64(); err != nil || v != 3 {
		t.Errorf("naxis as float = %v, %v", v, err)
	}
	if _, err := r.Root().Attr("object").ReadScalarInt64(); err == nil {
		t.Error("expected error reading string as int")
	}
}

func TestDuplicateNames(t *testing.T) {
	f, err := Create(tempFile(t))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	root := f.Root()
	if _, err := root.CreateGroup("SoFiA"); err != nil {
		t.Fatal(err)
	}
	if _, err := root.CreateGroup("SoFiA"); !errors.Is(err, ErrExists) {
		t.Errorf("second group: err = %v, want ErrExists", err)
	}
	if _, err := root.CreateDataset("SoFiA", []int8{1}); !errors.Is(err, ErrExists) {
		t.Errorf("dataset over group: err = %v, want ErrExists", err)
	}
	if err := root.SetAttribute("a", 1.0); err != nil {
		t.Fatal(err)
	}
	if err := root.SetAttribute("a", 2.0); !errors.Is(err, ErrExists) {
		t.Errorf("second attribute: err = %v, want ErrExists", err)
	}
}

func TestRawDataset(t *testing.T) {
	path := tempFile(t)
	f, err := Create(path, WithOffsetSize(4), WithLengthSize(4))
	if err != nil {
		t.Fatal(err)
	}
	raw := []byte{1, 2, 3, 4, 5, 6}
	if _, err := f.Root().CreateRawDataset("bytes", []uint64{2, 3}, IntType(1), raw); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Root().CreateRawDataset("short", []uint64{4}, IntType(2), raw); err == nil {
		t.Error("expected size mismatch error")
	}
	if _, err := f.Root().CreateRawDataset("bad", []uint64{1}, FloatType(2), []byte{0, 0}); !errors.Is(err, ErrUnsupported) {
		t.Errorf("float16: err = %v, want ErrUnsupported", err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	ds, err := r.OpenDataset("bytes")
	if err != nil {
		t.Fatal(err)
	}
	got, err := ds.ReadRaw()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(raw, got); diff != "" {
		t.Errorf("raw (-want +got):\n%s", diff)
	}
	if !ds.Datatype().Signed() {
		t.Error("IntType should be signed")
	}
}

func TestStringDataset(t *testing.T) {
	path := tempFile(t)
	f, err := Create(path)
	if err != nil {
		t.Fatal(err)
	}
	names := []string{"J1234-5678", "src 2"}
	ds, err := f.Root().CreateDataset("name", names, WithStringSize(256), WithAttribute("units", "none"))
	if err != nil {
		t.Fatal(err)
	}
	if ds.ElementSize() != 256 {
		t.Errorf("ElementSize = %d", ds.ElementSize())
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	back, err := r.OpenDataset("/name")
	if err != nil {
		t.Fatal(err)
	}
	vals, err := back.Values()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(names, vals); diff != "" {
		t.Errorf("names (-want +got):\n%s", diff)
	}
	if u, _ := back.Attr("units").ReadScalarString(); u != "none" {
		t.Errorf("units = %q", u)
	}
}

func TestEmptyDataset(t *testing.T) {
	path := tempFile(t)
	f, err := Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Root().CreateDataset("id", []int32{}); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	ds, err := r.OpenDataset("id")
	if err != nil {
		t.Fatal(err)
	}
	raw, err := ds.ReadRaw()
	if err != nil || len(raw) != 0 {
		t.Errorf("raw = %v, %v", raw, err)
	}
}

func TestFlushTwice(t *testing.T) {
	path := tempFile(t)
	f, err := Create(path)
	if err != nil {
		t.Fatal(err)
	}
	g, err := f.Root().CreateGroup("a")
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Flush(); err != nil {
		t.Fatal(err)
	}
	if _, err := g.CreateGroup("b"); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if _, err := r.OpenGroup("/a/b"); err != nil {
		t.Errorf("OpenGroup /a/b after second flush: %v", err)
	}
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()
	text := filepath.Join(dir, "cube.fits")
	if err := os.WriteFile(text, []byte("SIMPLE  =                    T"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(text); !errors.Is(err, ErrNotHDF5) {
		t.Errorf("Open text: err = %v, want ErrNotHDF5", err)
	}
	if _, err := Open(filepath.Join(dir, "missing.h5")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open missing: err = %v, want ErrNotExist", err)
	}

	path := tempFile(t)
	f, err := Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Root().CreateDataset("x", []float64{1}); err != nil {
		t.Fatal(err)
	}
	f.Close()

	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.OpenGroup("x"); !errors.Is(err, ErrNotGroup) {
		t.Errorf("OpenGroup dataset: err = %v, want ErrNotGroup", err)
	}
	if _, err := r.OpenDataset("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("OpenDataset missing: err = %v, want ErrNotFound", err)
	}
	if err := r.Root().SetAttribute("a", 1); !errors.Is(err, ErrReadOnly) {
		t.Errorf("SetAttribute read-only: err = %v, want ErrReadOnly", err)
	}
	r.Close()
	if _, err := r.OpenGroup("/"); !errors.Is(err, ErrClosed) {
		t.Errorf("after Close: err = %v, want ErrClosed", err)
	}
}
