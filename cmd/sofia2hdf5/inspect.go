package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/robert-malhotra/sofia2hdf5/hdf5"
	"github.com/robert-malhotra/sofia2hdf5/internal/config"
	"github.com/robert-malhotra/sofia2hdf5/internal/fits"
)

type fitsCardJSON struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type fitsJSON struct {
	Path   string         `json:"path"`
	Format string         `json:"format"`
	BITPIX int            `json:"bitpix"`
	Kind   string         `json:"kind"`
	Axes   []int          `json:"axes"`
	NX     int            `json:"nx"`
	NY     int            `json:"ny"`
	NZ     int            `json:"nz"`
	Bytes  int64          `json:"bytes"`
	BScale float64        `json:"bscale"`
	BZero  float64        `json:"bzero"`
	Header []fitsCardJSON `json:"header"`
}

type objectJSON struct {
	Path        string         `json:"path"`
	Type        string         `json:"type"`
	Shape       []uint64       `json:"shape,omitempty"`
	Class       string         `json:"class,omitempty"`
	ElementSize int            `json:"element_size,omitempty"`
	Attrs       map[string]any `json:"attrs,omitempty"`
}

type hdf5JSON struct {
	Path    string       `json:"path"`
	Format  string       `json:"format"`
	Size    uint64       `json:"size"`
	Objects []objectJSON `json:"objects"`
}

func inspectCmd() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Describe a FITS cube or an HDF5 container as JSON",
		UsageText: "sofia2hdf5 inspect <file>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("inspect takes exactly one file: %w", config.ErrUsage)
			}
			path := cmd.Args().First()
			isFITS, err := sniffFITS(path)
			if err != nil {
				return err
			}
			var doc any
			if isFITS {
				doc, err = inspectFITS(path)
			} else {
				doc, err = inspectHDF5(path)
			}
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			out = append(out, '\n')
			_, err = cmd.Root().Writer.Write(out)
			return err
		},
	}
}

func sniffFITS(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()
	magic := make([]byte, 6)
	if _, err := io.ReadFull(f, magic); err != nil {
		return false, nil
	}
	return bytes.Equal(magic, []byte("SIMPLE")), nil
}

func inspectFITS(path string) (*fitsJSON, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	hdr, err := fits.ReadHeader(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cube, err := fits.FromHeader(hdr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	doc := &fitsJSON{
		Path:   path,
		Format: "fits",
		BITPIX: cube.Kind.BITPIX(),
		Kind:   cube.Kind.String(),
		Axes:   cube.Axes,
		NX:     cube.NX,
		NY:     cube.NY,
		NZ:     cube.NZ,
		Bytes:  cube.Bytes(),
		BScale: cube.BScale,
		BZero:  cube.BZero,
		Header: make([]fitsCardJSON, 0, len(hdr)),
	}
	for _, c := range hdr {
		doc.Header = append(doc.Header, fitsCardJSON{Key: c.Key, Value: c.Value})
	}
	return doc, nil
}

func inspectHDF5(path string) (*hdf5JSON, error) {
	f, err := hdf5.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc := &hdf5JSON{Path: path, Format: "hdf5", Size: f.Size()}
	err = hdf5.Walk(f.Root(), func(p string, obj any, err error) error {
		if err != nil {
			return err
		}
		var o objectJSON
		var names []string
		var attr func(string) *hdf5.Attribute
		switch v := obj.(type) {
		case *hdf5.Group:
			o = objectJSON{Path: p, Type: "group"}
			names, attr = v.Attrs(), v.Attr
		case *hdf5.Dataset:
			o = objectJSON{
				Path:        p,
				Type:        "dataset",
				Shape:       v.Shape(),
				Class:       v.Class().String(),
				ElementSize: v.ElementSize(),
			}
			names, attr = v.Attrs(), v.Attr
		}
		if len(names) > 0 {
			o.Attrs = make(map[string]any, len(names))
			for _, name := range names {
				val, err := attr(name).Value()
				if err != nil {
					return fmt.Errorf("%s@%s: %w", p, name, err)
				}
				o.Attrs[name] = jsonValue(val)
			}
		}
		doc.Objects = append(doc.Objects, o)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// jsonValue spells non-finite floats as strings, which JSON cannot carry.
func jsonValue(v any) any {
	f, ok := v.(float64)
	if !ok || (!math.IsNaN(f) && !math.IsInf(f, 0)) {
		return v
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
