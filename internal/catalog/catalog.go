// Package catalog parses SoFiA source catalogs.
//
// Only the ASCII form is read. Its column layout is recovered from the
// comment line that names the columns, and each data row is split into
// tokens with double quotes grouping the source name. XML and SQL
// catalogs are recognised by suffix and yield an empty catalog.
package catalog

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind is the serialisation of a catalog file.
type Kind uint8

// Catalog kinds.
const (
	ASCII Kind = iota
	XML
	SQL
)

func (k Kind) String() string {
	switch k {
	case ASCII:
		return "ASCII"
	case XML:
		return "XML"
	case SQL:
		return "SQL"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind maps "ASCII", "XML" or "SQL" (any case) to a Kind.
func ParseKind(name string) (Kind, error) {
	switch strings.ToUpper(name) {
	case "ASCII":
		return ASCII, nil
	case "XML":
		return XML, nil
	case "SQL":
		return SQL, nil
	}
	return 0, fmt.Errorf("unknown catalog kind %q", name)
}

// KindFromPath picks the kind from the file suffix. Anything other than
// .xml or .sql is ASCII.
func KindFromPath(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return XML
	case ".sql":
		return SQL
	}
	return ASCII
}

// Record is one source.
type Record struct {
	ID      int
	Name    string
	X       float64
	Y       float64
	Z       float64
	XMin    float64
	XMax    float64
	YMin    float64
	YMax    float64
	ZMin    float64
	ZMax    float64
	RA      float64
	Dec     float64
	VApp    float64
	FSum    float64
	ErrFSum float64
	ErrX    float64
	ErrY    float64
	ErrZ    float64
	KinPA   float64
	W50     float64
	RMS     float64
	NPix    int

	// Key is the name cut from the raw row by column offsets, with
	// whitespace runs joined by '_'.
	Key string
}

// Float returns the value of a floating-point field, or 0 for fields that
// are not floats.
func (r *Record) Float(f Field) float64 {
	switch f {
	case FieldX:
		return r.X
	case FieldY:
		return r.Y
	case FieldZ:
		return r.Z
	case FieldXMin:
		return r.XMin
	case FieldXMax:
		return r.XMax
	case FieldYMin:
		return r.YMin
	case FieldYMax:
		return r.YMax
	case FieldZMin:
		return r.ZMin
	case FieldZMax:
		return r.ZMax
	case FieldRA:
		return r.RA
	case FieldDec:
		return r.Dec
	case FieldVApp, FieldVRad, FieldVOpt:
		return r.VApp
	case FieldFSum:
		return r.FSum
	case FieldErrFSum:
		return r.ErrFSum
	case FieldErrX:
		return r.ErrX
	case FieldErrY:
		return r.ErrY
	case FieldErrZ:
		return r.ErrZ
	case FieldKinPA:
		return r.KinPA
	case FieldW50:
		return r.W50
	case FieldRMS:
		return r.RMS
	}
	return 0
}

// Catalog is a parsed catalog file. Schema is nil when no column line was
// found.
type Catalog struct {
	Kind    Kind
	Path    string
	Schema  *Schema
	Records []Record
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Records)
}

// Floats returns field f of every record in row order.
func (c *Catalog) Floats(f Field) []float64 {
	out := make([]float64, len(c.Records))
	for i := range c.Records {
		out[i] = c.Records[i].Float(f)
	}
	return out
}

// IDs returns the source ids in row order.
func (c *Catalog) IDs() []int32 {
	out := make([]int32, len(c.Records))
	for i, r := range c.Records {
		out[i] = int32(r.ID)
	}
	return out
}

// NPix returns the pixel counts in row order.
func (c *Catalog) NPix() []int32 {
	out := make([]int32, len(c.Records))
	for i, r := range c.Records {
		out[i] = int32(r.NPix)
	}
	return out
}

// Names returns the source names in row order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.Records))
	for i, r := range c.Records {
		out[i] = r.Name
	}
	return out
}
