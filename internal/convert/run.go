package convert

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/robert-malhotra/sofia2hdf5/internal/catalog"
	"github.com/robert-malhotra/sofia2hdf5/internal/config"
	"github.com/robert-malhotra/sofia2hdf5/internal/fits"
	"github.com/robert-malhotra/sofia2hdf5/internal/humanfmt"
	"github.com/robert-malhotra/sofia2hdf5/internal/logging"
	"github.com/robert-malhotra/sofia2hdf5/internal/params"
)

// Result summarises a finished conversion.
type Result struct {
	Output    string
	CubeBytes int64
	MaskBytes int64
	Sources   int
	Sidecar   string
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	}
	return false, err
}

// Run converts the products of the SoFiA run described by cfg.SofiaInput
// into one HDF5 file. Missing optional products are logged and skipped;
// parse failures of the cube or mask abort the run before any output is
// written.
func Run(ctx context.Context, cfg config.Config) (Result, error) {
	log := logging.FromContext(ctx)
	var res Result

	log.Info().
		Str("sofia_input", cfg.SofiaInput).
		Str("directory", cfg.General.Directory).
		Int("ncpu", cfg.General.NCPU).
		Msg("starting SoFiA to HDF5 conversion")

	p, err := params.LoadFile(cfg.SofiaInput)
	if err != nil {
		return res, err
	}

	workdir := WorkingDirectory(cfg.General.Directory, p)
	base := BaseName(p)
	res.Output = OutputPath(workdir, base)
	log.Debug().
		Str("workdir", workdir).
		Str("base", base).
		Str("output", res.Output).
		Msg("resolved output")

	data := p.GetStr("input.data")
	if data == "" {
		return res, fmt.Errorf("%s: %w", cfg.SofiaInput, ErrNoInputData)
	}
	cubePath := inputPath(cfg.General.Directory, data)
	log.Info().Str("path", cubePath).Msg("reading FITS cube")

	cube, err := fits.ReadFileContext(logging.WithPhase(ctx, "cube"), cubePath)
	if err != nil {
		return res, err
	}
	res.CubeBytes = cube.Bytes()

	if err := ctx.Err(); err != nil {
		return res, err
	}
	in := Contents{Cube: cube}

	in.Catalog = readCatalog(logging.WithPhase(ctx, "catalog"), workdir, cfg, p)
	res.Sources = in.Catalog.Len()

	if err := ctx.Err(); err != nil {
		return res, err
	}
	if in.Mask, in.MaskKind, err = readMask(logging.WithPhase(ctx, "mask"), workdir, base, p); err != nil {
		return res, err
	}
	if in.Mask != nil {
		res.MaskBytes = in.Mask.Bytes()
	}

	if p.GetBool("output.writekarma") {
		log.Warn().Msgf("You have produced Karma annotations but Karma does not read HDF5, "+
			"hence we are not adding them to the file %s", res.Output)
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	opts := WriteOptions{Overwrite: p.GetBool("output.overwrite") || cfg.General.Overwrite}
	log.Info().Str("output", res.Output).Msg("writing HDF5 file")
	if err := WriteContainer(logging.WithPhase(ctx, "write"), res.Output, in, opts); err != nil {
		return res, err
	}

	if cfg.General.ParquetCatalog && in.Catalog.Len() > 0 {
		res.Sidecar = workdir + base + "_cat.parquet"
		if err := catalog.WriteParquet(res.Sidecar, in.Catalog); err != nil {
			return res, err
		}
		log.Info().Str("path", res.Sidecar).Msg("catalog Parquet sidecar written")
	}

	total := res.CubeBytes + res.MaskBytes
	log.Info().
		Str("output", res.Output).
		Str("memory", humanfmt.Memory(total)).
		Str("memory_iec", humanfmt.Bytes(total)).
		Int("sources", res.Sources).
		Msg("conversion completed")
	return res, nil
}

// readCatalog returns the catalog to add, or nil when none was requested
// or it could not be read. Read failures are logged, never returned. An
// explicit cfg.SofiaCatalog replaces the path derived from the parameters.
func readCatalog(ctx context.Context, workdir string, cfg config.Config, p *params.Store) *catalog.Catalog {
	log := logging.FromContext(ctx)

	sel, ok := SelectCatalog(workdir, p)
	if cfg.SofiaCatalog != "" {
		sel = Selection{Path: cfg.SofiaCatalog, Kind: catalog.KindFromPath(cfg.SofiaCatalog).String()}
		ok = true
	}
	if !ok {
		return nil
	}

	found, err := exists(sel.Path)
	if err != nil {
		log.Warn().Err(err).Str("path", sel.Path).Msg("cannot access catalog file; not adding a catalog")
		return nil
	}
	if !found {
		log.Warn().Str("path", sel.Path).Msg("catalog file not found")
		return nil
	}
	log.Info().Str("path", sel.Path).Str("type", sel.Kind).Msg("adding catalog")
	cat, err := catalog.ReadFileContext(ctx, sel.Path)
	if err != nil {
		log.Warn().Err(err).Str("path", sel.Path).Msg("cannot read catalog; not adding a catalog")
		return nil
	}
	return cat
}

// readMask returns the mask to add and its kind, or nil when none was
// requested or its file is missing.
func readMask(ctx context.Context, workdir, base string, p *params.Store) (*fits.Cube, string, error) {
	log := logging.FromContext(ctx)

	sel, ok := SelectMask(workdir, base, p)
	if !ok {
		return nil, "", nil
	}
	found, err := exists(sel.Path)
	if err != nil {
		return nil, "", fmt.Errorf("mask: %w", err)
	}
	if !found {
		log.Warn().Str("path", sel.Path).Msg("mask file not found")
		return nil, "", nil
	}
	log.Info().Str("path", sel.Path).Str("type", sel.Kind).Msg("adding mask")
	m, err := fits.ReadFileContext(ctx, sel.Path)
	if err != nil {
		return nil, "", fmt.Errorf("mask: %w", err)
	}
	return m, sel.Kind, nil
}
