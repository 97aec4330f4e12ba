package hdf5

import (
	"fmt"
	"os"

	"github.com/robert-malhotra/sofia2hdf5/internal/alloc"
	"github.com/robert-malhotra/sofia2hdf5/internal/binary"
	"github.com/robert-malhotra/sofia2hdf5/internal/superblock"
)

// Create creates or truncates the file at path. Group headers are held in
// memory and written by Flush or Close; dataset data and headers are
// written as soon as the dataset is created.
func Create(path string, opts ...FileOption) (*File, error) {
	options := defaultFileOptions()
	for _, opt := range opts {
		opt(options)
	}

	osFile, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	sb := superblock.New(options.offsetSize, options.lengthSize)
	cfg := sb.Config()
	if err := cfg.Validate(); err != nil {
		osFile.Close()
		os.Remove(path)
		return nil, err
	}

	f := &File{
		path:       path,
		file:       osFile,
		reader:     binary.NewReader(osFile, cfg),
		superblock: sb,
		writable:   true,
		writer:     binary.NewWriter(osFile, cfg),
		allocator:  alloc.New(uint64(sb.Size())),
	}
	f.root = newGroup(f, "/", nil)

	// Placeholder until Flush records the root group address.
	if err := sb.Write(f.writer.At(0)); err != nil {
		osFile.Close()
		os.Remove(path)
		return nil, err
	}
	return f, nil
}

// Flush writes every modified group header and then the superblock.
func (f *File) Flush() error {
	if f.closed {
		return ErrClosed
	}
	if !f.writable {
		return nil
	}

	if err := f.root.flush(); err != nil {
		return fmt.Errorf("writing group headers: %w", err)
	}
	f.superblock.RootGroupAddress = f.root.addr
	f.superblock.EOFAddress = f.allocator.EOFAddr()

	if err := f.superblock.Write(f.writer.At(0)); err != nil {
		return fmt.Errorf("writing superblock: %w", err)
	}
	if err := f.allocator.Validate(); err != nil {
		return err
	}
	return f.file.Sync()
}

// AllocStats reports space allocated in a writable file.
func (f *File) AllocStats() alloc.Stats {
	if f.allocator == nil {
		return alloc.Stats{}
	}
	return f.allocator.Stats()
}

func (f *File) allocate(size int) uint64 {
	return f.allocator.Alloc(uint64(size))
}

func (f *File) checkWritable() error {
	if f.closed {
		return ErrClosed
	}
	if !f.writable {
		return ErrReadOnly
	}
	return nil
}
