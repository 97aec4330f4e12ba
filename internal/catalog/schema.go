package catalog

import "strings"

// Field identifies a catalog column the parser understands.
type Field uint8

// Known fields. FieldVRad and FieldVOpt feed VApp when there is no v_app
// column.
const (
	FieldUnknown Field = iota
	FieldID
	FieldX
	FieldY
	FieldZ
	FieldXMin
	FieldXMax
	FieldYMin
	FieldYMax
	FieldZMin
	FieldZMax
	FieldRA
	FieldDec
	FieldVApp
	FieldVRad
	FieldVOpt
	FieldFSum
	FieldErrFSum
	FieldErrX
	FieldErrY
	FieldErrZ
	FieldKinPA
	FieldW50
	FieldRMS
	FieldNPix
	FieldName
)

var fieldNames = [...]string{
	FieldUnknown: "",
	FieldID:      "id",
	FieldX:       "x",
	FieldY:       "y",
	FieldZ:       "z",
	FieldXMin:    "x_min",
	FieldXMax:    "x_max",
	FieldYMin:    "y_min",
	FieldYMax:    "y_max",
	FieldZMin:    "z_min",
	FieldZMax:    "z_max",
	FieldRA:      "ra",
	FieldDec:     "dec",
	FieldVApp:    "v_app",
	FieldVRad:    "v_rad",
	FieldVOpt:    "v_opt",
	FieldFSum:    "f_sum",
	FieldErrFSum: "err_f_sum",
	FieldErrX:    "err_x",
	FieldErrY:    "err_y",
	FieldErrZ:    "err_z",
	FieldKinPA:   "kin_pa",
	FieldW50:     "w50",
	FieldRMS:     "rms",
	FieldNPix:    "n_pix",
	FieldName:    "name",
}

// String returns the column name of f.
func (f Field) String() string {
	if int(f) < len(fieldNames) {
		return fieldNames[f]
	}
	return ""
}

// FieldByName maps a column name to its field, or FieldUnknown.
func FieldByName(name string) Field {
	for f, n := range fieldNames {
		if n != "" && n == name {
			return Field(f)
		}
	}
	return FieldUnknown
}

// FloatFields are the floating-point columns in output order.
var FloatFields = []Field{
	FieldX, FieldY, FieldZ,
	FieldXMin, FieldXMax, FieldYMin, FieldYMax, FieldZMin, FieldZMax,
	FieldRA, FieldDec, FieldVApp,
	FieldFSum, FieldErrFSum,
	FieldErrX, FieldErrY, FieldErrZ,
	FieldKinPA, FieldW50, FieldRMS,
}

// Required lists the columns a complete catalog carries.
var Required = []Field{
	FieldID,
	FieldX, FieldY, FieldZ,
	FieldXMin, FieldXMax, FieldYMin, FieldYMax, FieldZMin, FieldZMax,
	FieldRA, FieldDec, FieldVApp,
	FieldFSum, FieldErrFSum,
	FieldErrX, FieldErrY, FieldErrZ,
	FieldKinPA, FieldW50, FieldRMS,
	FieldNPix, FieldName,
}

// Schema is the column layout recovered from a catalog's header line.
// Offsets[i] is the position in the header line just past Columns[i].
type Schema struct {
	Columns []string
	Offsets []int
	Fields  []Field
}

// isSchemaLine reports whether trimmed is the comment line naming the
// columns.
func isSchemaLine(trimmed string) bool {
	return len(trimmed) > 1 && trimmed[0] == '#' &&
		strings.Contains(trimmed, "name") &&
		strings.Contains(trimmed, "id") &&
		strings.Contains(trimmed, "ra") &&
		strings.Contains(trimmed, "dec")
}

// newSchema builds a schema from the raw header line. Offsets are taken
// from the first occurrence of each token in raw.
func newSchema(raw string) *Schema {
	body := strings.TrimSpace(raw)[1:]
	cols := strings.Fields(body)

	s := &Schema{
		Columns: cols,
		Offsets: make([]int, len(cols)),
		Fields:  make([]Field, len(cols)),
	}
	for i, col := range cols {
		if j := strings.Index(raw, col); j >= 0 {
			s.Offsets[i] = j + len(col)
		}
		s.Fields[i] = FieldByName(col)
	}
	return s
}

// Index returns the position of column name, or -1.
func (s *Schema) Index(name string) int {
	for i, c := range s.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Has reports whether the schema has a column for f.
func (s *Schema) Has(f Field) bool {
	for _, g := range s.Fields {
		if g == f {
			return true
		}
	}
	return false
}

// velocity returns the column that feeds VApp.
func (s *Schema) velocity() Field {
	for _, f := range []Field{FieldVApp, FieldVRad, FieldVOpt} {
		if s.Has(f) {
			return f
		}
	}
	return FieldUnknown
}

// Missing returns the names of required columns absent from the schema.
// v_rad or v_opt satisfy v_app.
func (s *Schema) Missing() []string {
	var missing []string
	for _, f := range Required {
		if f == FieldVApp {
			if s.velocity() == FieldUnknown {
				missing = append(missing, f.String())
			}
			continue
		}
		if !s.Has(f) {
			missing = append(missing, f.String())
		}
	}
	return missing
}

// SliceName cuts the name column out of a raw data row by offset: from the
// end of the previous column to the end of the name column. Quotes and
// surrounding spaces are removed and inner whitespace runs become '_'.
func (s *Schema) SliceName(line string) string {
	i := s.Index(FieldName.String())
	if i < 0 {
		return ""
	}
	start := 0
	if i > 0 {
		start = s.Offsets[i-1]
	}
	end := s.Offsets[i]
	start = min(start, len(line))
	end = min(end, len(line))
	if end <= start {
		return ""
	}
	name := strings.Trim(strings.TrimSpace(line[start:end]), `"`)
	return strings.Join(strings.Fields(name), "_")
}
