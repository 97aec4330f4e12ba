package fits

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/robert-malhotra/sofia2hdf5/internal/endian"
	"github.com/robert-malhotra/sofia2hdf5/internal/logging"
)

// ReadFile parses the FITS file at path.
func ReadFile(path string) (*Cube, error) {
	return ReadFileContext(context.Background(), path)
}

// ReadFileContext is ReadFile with a context-scoped logger.
func ReadFileContext(ctx context.Context, path string) (*Cube, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fits: %w", err)
	}
	defer f.Close()

	c, err := ParseContext(ctx, bufio.NewReaderSize(f, 64*BlockSize))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse reads a primary header and its image from r.
func Parse(r io.Reader) (*Cube, error) {
	return ParseContext(context.Background(), r)
}

// ParseContext is Parse with the logger taken from ctx.
func ParseContext(ctx context.Context, r io.Reader) (*Cube, error) {
	log := logging.FromContext(ctx)

	hdr, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	c, err := FromHeader(hdr)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Int("bitpix", c.Kind.BITPIX()).
		Int("naxis", len(c.Axes)).
		Ints("axes", c.Axes).
		Int64("bytes", c.Bytes()).
		Msg("reading FITS data")

	if c.Scaled() {
		log.Warn().
			Float64("bscale", c.BScale).
			Float64("bzero", c.BZero).
			Msg("BSCALE/BZERO present; data is not rescaled")
	}

	c.Data, err = readPayload(r, c.Bytes())
	if err != nil {
		return nil, err
	}
	if !endian.Big {
		SwapBytes(c.Data, c.Kind.Size())
	}
	return c, nil
}

// readChunk bounds how far the payload buffer grows ahead of the bytes
// actually read.
const readChunk = 64 << 20

// readPayload reads exactly n bytes. The buffer grows with the data, so a
// header that overstates the payload fails with ErrTruncatedData instead
// of allocating its claimed size.
func readPayload(r io.Reader, n int64) ([]byte, error) {
	data := make([]byte, 0, min(n, readChunk))
	for int64(len(data)) < n {
		k := int(min(n-int64(len(data)), readChunk))
		data = slices.Grow(data, k)
		m, err := io.ReadFull(r, data[len(data):len(data)+k])
		data = data[:len(data)+m]
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, fmt.Errorf("want %d bytes, got %d: %w", n, len(data), ErrTruncatedData)
			}
			return nil, fmt.Errorf("read data: %w", err)
		}
	}
	return data, nil
}

// ReadHeader reads header blocks from r up to and including the block that
// holds END, leaving r at the start of the data.
func ReadHeader(r io.Reader) (Header, error) {
	block := make([]byte, BlockSize)
	var hdr Header

	for n := 0; ; n++ {
		if n == MaxHeaderBlocks {
			return nil, fmt.Errorf("no END in %d blocks: %w", n, ErrTruncatedHeader)
		}
		if _, err := io.ReadFull(r, block); err != nil {
			if n == 0 && errors.Is(err, io.EOF) {
				return nil, ErrNotFITS
			}
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				if n == 0 && !strings.HasPrefix(string(block), magic) {
					return nil, ErrNotFITS
				}
				return nil, fmt.Errorf("block %d: %w", n, ErrTruncatedHeader)
			}
			return nil, fmt.Errorf("read header: %w", err)
		}
		if n == 0 && string(block[:len(magic)]) != magic {
			return nil, ErrNotFITS
		}

		for i := 0; i < CardsPerBlock; i++ {
			line := string(block[i*CardSize : (i+1)*CardSize])
			if strings.HasPrefix(line, sentinel) {
				return hdr, nil
			}
			if c, ok := ParseCard(line); ok {
				hdr = append(hdr, c)
			}
		}
	}
}

// nth returns prefix followed by n, e.g. NAXIS3.
func nth(prefix string, n int) string {
	return prefix + strconv.Itoa(n)
}

// FromHeader validates the structural keywords of hdr and returns the
// cube it describes, without data.
func FromHeader(hdr Header) (*Cube, error) {
	bitpix, ok := hdr.Int("BITPIX")
	if !ok {
		return nil, fmt.Errorf("missing BITPIX: %w", ErrFormat)
	}
	kind, err := KindFromBITPIX(bitpix)
	if err != nil {
		return nil, err
	}

	naxis, ok := hdr.Int("NAXIS")
	if !ok {
		return nil, fmt.Errorf("missing NAXIS: %w", ErrFormat)
	}
	if naxis < 1 || naxis > 4 {
		return nil, fmt.Errorf("NAXIS %d not in 1..4: %w", naxis, ErrFormat)
	}

	axes := make([]int, naxis)
	for i := range axes {
		key := nth("NAXIS", i+1)
		v, ok := hdr.Int(key)
		if !ok {
			return nil, fmt.Errorf("missing %s: %w", key, ErrFormat)
		}
		if v <= 0 {
			return nil, fmt.Errorf("%s = %d: %w", key, v, ErrFormat)
		}
		axes[i] = v
	}

	count := 1
	for i, v := range axes {
		if v > math.MaxInt/count {
			return nil, fmt.Errorf("%s = %d overflows the element count: %w", nth("NAXIS", i+1), v, ErrFormat)
		}
		count *= v
	}
	if count > math.MaxInt/kind.Size() {
		return nil, fmt.Errorf("%d elements of %d bytes overflow: %w", count, kind.Size(), ErrFormat)
	}

	c := &Cube{
		NX:     axes[0],
		NY:     1,
		NZ:     1,
		Axes:   axes,
		Kind:   kind,
		Header: hdr,
		BScale: 1,
	}
	if naxis > 1 {
		c.NY = axes[1]
	}
	if naxis > 2 {
		c.NZ = axes[2]
	}
	if naxis > 3 {
		c.NZ *= axes[3]
	}
	if v, ok := hdr.Float("BSCALE"); ok {
		c.BScale = v
	}
	if v, ok := hdr.Float("BZERO"); ok {
		c.BZero = v
	}
	return c, nil
}
