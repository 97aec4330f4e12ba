package superblock

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	binpkg "github.com/robert-malhotra/sofia2hdf5/internal/binary"
)

// Signature is the 8-byte HDF5 format signature.
var Signature = []byte{0x89, 'H', 'D', 'F', '\r', '\n', 0x1a, '\n'}

var searchOffsets = []int64{0, 512, 1024, 2048}

var (
	ErrNotHDF5            = errors.New("not an HDF5 file: signature not found")
	ErrUnsupportedVersion = errors.New("unsupported superblock version")
	ErrChecksumMismatch   = errors.New("superblock checksum mismatch")
)

// Superblock is the file-level metadata at the start of an HDF5 file.
type Superblock struct {
	Version          uint8
	OffsetSize       uint8
	LengthSize       uint8
	Flags            uint8
	BaseAddress      uint64
	ExtensionAddress uint64 // undefined when absent
	EOFAddress       uint64
	RootGroupAddress uint64

	// FileOffset is where the signature was found.
	FileOffset int64
}

// New returns a version 3 superblock with the given field widths and no
// extension.
func New(offsetSize, lengthSize int) *Superblock {
	return &Superblock{
		Version:          3,
		OffsetSize:       uint8(offsetSize),
		LengthSize:       uint8(lengthSize),
		ExtensionAddress: ^uint64(0),
	}
}

// Config returns the reader/writer configuration implied by the superblock.
func (sb *Superblock) Config() binpkg.Config {
	return binpkg.Config{
		ByteOrder:  binary.LittleEndian,
		OffsetSize: int(sb.OffsetSize),
		LengthSize: int(sb.LengthSize),
	}
}

// Size returns the encoded size including the checksum.
func (sb *Superblock) Size() int {
	return 12 + 4*int(sb.OffsetSize) + 4
}

// Write encodes the superblock at the writer's position.
func (sb *Superblock) Write(w *binpkg.Writer) error {
	buf := binpkg.NewBuffer(sb.Size())
	bw := binpkg.NewWriter(buf, sb.Config())

	if err := bw.WriteBytes(Signature); err != nil {
		return err
	}
	for _, b := range []uint8{sb.Version, sb.OffsetSize, sb.LengthSize, sb.Flags} {
		if err := bw.WriteUint8(b); err != nil {
			return err
		}
	}
	for _, addr := range []uint64{sb.BaseAddress, sb.ExtensionAddress, sb.EOFAddress, sb.RootGroupAddress} {
		if err := bw.WriteOffset(addr); err != nil {
			return err
		}
	}
	if err := bw.WriteUint32(binpkg.Lookup3Checksum(buf.Bytes())); err != nil {
		return err
	}
	return w.WriteBytes(buf.Bytes())
}

// Read locates and decodes the superblock of r.
func Read(r io.ReaderAt) (*Superblock, error) {
	head := make([]byte, 12)
	for _, off := range searchOffsets {
		if _, err := r.ReadAt(head, off); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		if !bytes.Equal(head[:8], Signature) {
			continue
		}
		return decode(r, off, head)
	}
	return nil, ErrNotHDF5
}

func decode(r io.ReaderAt, off int64, head []byte) (*Superblock, error) {
	sb := &Superblock{
		Version:    head[8],
		OffsetSize: head[9],
		LengthSize: head[10],
		Flags:      head[11],
		FileOffset: off,
	}
	if sb.Version != 2 && sb.Version != 3 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, sb.Version)
	}
	cfg := sb.Config()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	raw := make([]byte, sb.Size())
	if _, err := r.ReadAt(raw, off); err != nil {
		return nil, fmt.Errorf("reading superblock: %w", err)
	}
	body := raw[:len(raw)-4]
	if !binpkg.VerifyLookup3(body, binary.LittleEndian.Uint32(raw[len(raw)-4:])) {
		return nil, ErrChecksumMismatch
	}

	br := binpkg.NewReader(bytes.NewReader(body), cfg).At(12)
	fields := []*uint64{&sb.BaseAddress, &sb.ExtensionAddress, &sb.EOFAddress, &sb.RootGroupAddress}
	for _, f := range fields {
		v, err := br.ReadOffset()
		if err != nil {
			return nil, err
		}
		*f = v
	}
	return sb, nil
}
