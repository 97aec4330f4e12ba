package convert

import (
	"path/filepath"
	"strings"

	"github.com/robert-malhotra/sofia2hdf5/internal/catalog"
	"github.com/robert-malhotra/sofia2hdf5/internal/params"
)

// Mask kinds, recorded as the type attribute of the Mask group.
const (
	MaskKindMask    = "Mask"
	MaskKindMask2D  = "2DMask"
	MaskKindRawMask = "RawMask"
)

// Selection is a product file chosen from the parameter flags.
type Selection struct {
	Path string
	Kind string
}

// setting returns the value of key unless it is empty or "false".
func setting(p *params.Store, key string) (string, bool) {
	v := p.GetStr(key)
	if v == "" || v == "false" {
		return "", false
	}
	return v, true
}

// BaseName returns the SoFiA output base name: output.filename when set,
// else the name of input.data without its extension, else "unknown".
func BaseName(p *params.Store) string {
	if v, ok := setting(p, "output.filename"); ok {
		return v
	}
	if v := p.GetStr("input.data"); v != "" {
		base := filepath.Base(v)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return "unknown"
}

// WorkingDirectory returns output.directory when set, else configDir, else
// ".". The result always ends with '/'.
func WorkingDirectory(configDir string, p *params.Store) string {
	dir, ok := setting(p, "output.directory")
	if !ok {
		dir = configDir
	}
	if dir == "" {
		dir = "."
	}
	if !strings.HasSuffix(dir, "/") {
		dir += "/"
	}
	return dir
}

// OutputPath returns the container path for a working directory and base
// name.
func OutputPath(workdir, base string) string {
	return workdir + base + ".hdf5"
}

// SelectCatalog picks the catalog SoFiA was asked to write, checking
// ASCII, XML and SQL in that order.
func SelectCatalog(workdir string, p *params.Store) (Selection, bool) {
	prefix := workdir + BaseName(p) + "_cat"
	switch {
	case p.GetBool("output.writecatascii"):
		return Selection{Path: prefix + ".txt", Kind: catalog.ASCII.String()}, true
	case p.GetBool("output.writecatxml"):
		return Selection{Path: prefix + ".xml", Kind: catalog.XML.String()}, true
	case p.GetBool("output.writecatsql"):
		return Selection{Path: prefix + ".sql", Kind: catalog.SQL.String()}, true
	}
	return Selection{}, false
}

// SelectMask picks the mask SoFiA was asked to write, checking the full,
// 2D and raw masks in that order.
func SelectMask(workdir, base string, p *params.Store) (Selection, bool) {
	prefix := workdir + base
	switch {
	case p.GetBool("output.writemask"):
		return Selection{Path: prefix + "_mask.fits", Kind: MaskKindMask}, true
	case p.GetBool("output.writemask2d"):
		return Selection{Path: prefix + "_mask-2d.fits", Kind: MaskKindMask2D}, true
	case p.GetBool("output.writerawmask"):
		return Selection{Path: prefix + "_mask-raw.fits", Kind: MaskKindRawMask}, true
	}
	return Selection{}, false
}

// inputPath joins input.data to dir unless it is absolute.
func inputPath(dir, data string) string {
	if filepath.IsAbs(data) || dir == "" {
		return data
	}
	return filepath.Join(dir, data)
}
