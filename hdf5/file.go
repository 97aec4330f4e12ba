package hdf5

import (
	"errors"
	"fmt"
	"os"

	"github.com/robert-malhotra/sofia2hdf5/internal/alloc"
	"github.com/robert-malhotra/sofia2hdf5/internal/binary"
	"github.com/robert-malhotra/sofia2hdf5/internal/object"
	"github.com/robert-malhotra/sofia2hdf5/internal/superblock"
)

// File is an HDF5 file opened for reading with Open or writing with Create.
type File struct {
	path       string
	file       *os.File
	reader     *binary.Reader
	superblock *superblock.Superblock
	root       *Group
	closed     bool

	writable  bool
	writer    *binary.Writer
	allocator *alloc.Allocator
}

// Open opens an existing file read-only.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}

	sb, err := superblock.Read(f)
	if err != nil {
		f.Close()
		if errors.Is(err, superblock.ErrNotHDF5) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotHDF5)
		}
		if errors.Is(err, superblock.ErrUnsupportedVersion) {
			return nil, fmt.Errorf("%s: %w: %v", path, ErrUnsupported, err)
		}
		return nil, fmt.Errorf("reading superblock: %w", err)
	}

	hdf := &File{
		path:       path,
		file:       f,
		reader:     binary.NewReader(f, sb.Config()),
		superblock: sb,
	}
	root, err := hdf.openGroupAt(sb.RootGroupAddress, "/", nil)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("opening root group: %w", err)
	}
	hdf.root = root
	return hdf, nil
}

// Close flushes a writable file and releases the underlying handle.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	var flushErr error
	if f.writable {
		flushErr = f.Flush()
	}
	f.closed = true
	if err := f.file.Close(); err != nil && flushErr == nil {
		return err
	}
	return flushErr
}

// Root returns the root group.
func (f *File) Root() *Group { return f.root }

// Path returns the path the file was opened with.
func (f *File) Path() string { return f.path }

// Size returns the end-of-file address recorded in the superblock.
func (f *File) Size() uint64 {
	if f.allocator != nil {
		return f.allocator.EOFAddr()
	}
	return f.superblock.EOFAddress
}

// OpenGroup opens a group by absolute path.
func (f *File) OpenGroup(path string) (*Group, error) {
	if f.closed {
		return nil, ErrClosed
	}
	return f.root.OpenGroup(path)
}

// OpenDataset opens a dataset by absolute path.
func (f *File) OpenDataset(path string) (*Dataset, error) {
	if f.closed {
		return nil, ErrClosed
	}
	return f.root.OpenDataset(path)
}

// openObjectAt reads the header at addr and wraps it as a group or dataset.
func (f *File) openObjectAt(addr uint64, path string, parent *Group) (any, error) {
	hdr, err := object.Read(f.reader, addr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	switch {
	case hdr.IsGroup():
		return newGroupFromHeader(f, hdr, path, parent), nil
	case hdr.IsDataset():
		return newDatasetFromHeader(f, hdr, path)
	}
	return nil, fmt.Errorf("%s: %w: object is neither group nor dataset", path, ErrUnsupported)
}

func (f *File) openGroupAt(addr uint64, path string, parent *Group) (*Group, error) {
	obj, err := f.openObjectAt(addr, path, parent)
	if err != nil {
		return nil, err
	}
	g, ok := obj.(*Group)
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrNotGroup)
	}
	return g, nil
}
