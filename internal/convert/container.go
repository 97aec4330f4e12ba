// Package convert writes SoFiA products into one HDF5 container and runs
// the conversion pipeline from a parameter file.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/robert-malhotra/sofia2hdf5/hdf5"
	"github.com/robert-malhotra/sofia2hdf5/internal/catalog"
	"github.com/robert-malhotra/sofia2hdf5/internal/fits"
	"github.com/robert-malhotra/sofia2hdf5/internal/logging"
)

// Group and dataset names of the output layout.
const (
	SofiaGroup     = "SoFiA"
	MaskGroup      = "Mask"
	CatalogueGroup = "Catalogue"
	DataName       = "DATA"

	// NameSize is the fixed width of the catalog name dataset, terminator
	// included.
	NameSize = 256
)

var (
	// ErrOutputExists is returned when the output file exists and
	// overwriting is off.
	ErrOutputExists = errors.New("output file exists")

	// ErrNoInputData is returned when the parameter file names no cube.
	ErrNoInputData = errors.New("no input data file specified")
)

// Contents are the products placed in one container. Cube is required;
// Mask and Catalog may be nil.
type Contents struct {
	Cube     *fits.Cube
	Mask     *fits.Cube
	MaskKind string
	Catalog  *catalog.Catalog
}

// WriteOptions control WriteContainer.
type WriteOptions struct {
	Overwrite bool
}

// WriteContainer writes in to a new HDF5 file at path:
//
//	/SoFiA                cube header attributes
//	/SoFiA/DATA           cube, dims {NZ, NY, NX}
//	/SoFiA/Mask           mask header attributes and type
//	/SoFiA/Mask/DATA      mask
//	/SoFiA/Catalogue      type and name attributes, one dataset per column
//
// A partially written file is removed on error.
func WriteContainer(ctx context.Context, path string, in Contents, opts WriteOptions) (err error) {
	log := logging.FromContext(ctx)

	if in.Cube == nil {
		return fmt.Errorf("%s: no cube to write", path)
	}
	if _, statErr := os.Stat(path); statErr == nil {
		if !opts.Overwrite {
			return fmt.Errorf("%s: %w", path, ErrOutputExists)
		}
		log.Debug().Str("path", path).Msg("overwriting existing output")
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return fmt.Errorf("output: %w", statErr)
	}

	f, err := hdf5.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(path)
		}
	}()

	sofia, err := f.Root().CreateGroup(SofiaGroup)
	if err != nil {
		return err
	}
	if err := writeHeader(sofia, in.Cube.Header); err != nil {
		return err
	}
	if err := writeCube(sofia, in.Cube); err != nil {
		return err
	}
	log.Debug().Str("path", path).Int64("bytes", in.Cube.Bytes()).Msg("cube written")

	if err := ctx.Err(); err != nil {
		return err
	}
	if in.Mask != nil {
		if err := writeMask(sofia, in.Mask, in.MaskKind); err != nil {
			return err
		}
		log.Debug().Str("type", in.MaskKind).Msg("mask written")
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	switch {
	case in.Catalog == nil:
	case in.Catalog.Len() == 0:
		log.Warn().
			Str("catalog", in.Catalog.Path).
			Msg("catalog has no sources; not adding a Catalogue group")
	default:
		if err := writeCatalog(sofia, in.Catalog); err != nil {
			return err
		}
		log.Debug().Int("sources", in.Catalog.Len()).Msg("catalog written")
	}

	if err := f.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	st := f.AllocStats()
	log.Debug().
		Int("allocations", st.Allocations).
		Uint64("bytes", st.BytesAlloc).
		Uint64("largest", st.LargestAlloc).
		Msg("container laid out")
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// SniffValue picks the attribute type of a header value: "T" and "F"
// become uint8 1 and 0, values that parse whole as a float become
// float64, and everything else stays a string.
func SniffValue(v string) any {
	switch v {
	case "T":
		return uint8(1)
	case "F":
		return uint8(0)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err == nil || errors.Is(err, strconv.ErrRange) {
		return f
	}
	return v
}

// writeHeader stores header cards as attributes of g. HISTORY and COMMENT
// are skipped, and only the first card of a repeated key is kept.
func writeHeader(g *hdf5.Group, hdr fits.Header) error {
	for _, c := range hdr {
		if c.Key == "HISTORY" || c.Key == "COMMENT" || c.Key == "" {
			continue
		}
		if g.Attr(c.Key) != nil {
			continue
		}
		if err := g.SetAttribute(c.Key, SniffValue(c.Value)); err != nil {
			return err
		}
	}
	return nil
}

// datatypeOf returns the native-order HDF5 type of a cube's elements.
func datatypeOf(k fits.ElementKind) hdf5.Datatype {
	if k.IsFloat() {
		return hdf5.FloatType(k.Size())
	}
	return hdf5.IntType(k.Size())
}

func writeCube(g *hdf5.Group, c *fits.Cube) error {
	_, err := g.CreateRawDataset(DataName, c.Dims(), datatypeOf(c.Kind), c.Data)
	return err
}

func writeMask(sofia *hdf5.Group, m *fits.Cube, kind string) error {
	g, err := sofia.CreateGroup(MaskGroup)
	if err != nil {
		return err
	}
	if err := g.SetAttribute("type", kind); err != nil {
		return err
	}
	if err := writeHeader(g, m.Header); err != nil {
		return err
	}
	return writeCube(g, m)
}

func writeCatalog(sofia *hdf5.Group, cat *catalog.Catalog) error {
	g, err := sofia.CreateGroup(CatalogueGroup)
	if err != nil {
		return err
	}
	if err := g.SetAttribute("type", cat.Kind.String()); err != nil {
		return err
	}
	if err := g.SetAttribute("name", cat.Path); err != nil {
		return err
	}

	if _, err := g.CreateDataset(catalog.FieldID.String(), cat.IDs()); err != nil {
		return err
	}
	for _, f := range catalog.FloatFields {
		if _, err := g.CreateDataset(f.String(), cat.Floats(f)); err != nil {
			return err
		}
	}
	if _, err := g.CreateDataset(catalog.FieldNPix.String(), cat.NPix()); err != nil {
		return err
	}
	_, err = g.CreateDataset(catalog.FieldName.String(), cat.Names(), hdf5.WithStringSize(NameSize))
	return err
}
