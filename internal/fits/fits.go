// Package fits reads the primary image of a FITS file into memory.
//
// Only what a SoFiA cube needs is supported: a SIMPLE primary header of
// 2880-byte blocks terminated by END, one to four axes, and one of the six
// BITPIX element kinds. The payload is read whole and converted from FITS
// big-endian to host byte order. BSCALE and BZERO are reported but never
// applied.
package fits

import "errors"

// Block layout of a FITS header.
const (
	BlockSize     = 2880
	CardSize      = 80
	CardsPerBlock = BlockSize / CardSize

	// MaxHeaderBlocks bounds the header scan of a file without END.
	MaxHeaderBlocks = 1024
)

const (
	magic    = "SIMPLE"
	sentinel = "END"
)

var (
	// ErrNotFITS is returned when the first block does not start with SIMPLE.
	ErrNotFITS = errors.New("fits: not a FITS file")

	// ErrTruncatedHeader is returned when the stream ends before END.
	ErrTruncatedHeader = errors.New("fits: truncated header")

	// ErrTruncatedData is returned when the payload is shorter than the
	// header declares.
	ErrTruncatedData = errors.New("fits: truncated data")

	// ErrFormat is returned for missing or invalid structural keywords.
	ErrFormat = errors.New("fits: invalid format")
)
