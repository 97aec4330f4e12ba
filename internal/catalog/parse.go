package catalog

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/robert-malhotra/sofia2hdf5/internal/logging"
)

const maxLineSize = 1 << 20

// ReadFile reads the catalog at path. XML and SQL catalogs are not parsed:
// a warning is logged and an empty catalog of that kind is returned.
func ReadFile(path string) (*Catalog, error) {
	return ReadFileContext(context.Background(), path)
}

// ReadFileContext is ReadFile with the logger taken from ctx.
func ReadFileContext(ctx context.Context, path string) (*Catalog, error) {
	log := logging.FromContext(ctx)

	kind := KindFromPath(path)
	if kind != ASCII {
		log.Warn().
			Str("path", path).
			Stringer("kind", kind).
			Msg("catalog reading not implemented for this kind; adding an empty catalog")
		return &Catalog{Kind: kind, Path: path}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	defer f.Close()

	return ParseContext(ctx, f, path)
}

// Parse reads an ASCII catalog from r. path is recorded on the result.
func Parse(r io.Reader, path string) (*Catalog, error) {
	return ParseContext(context.Background(), r, path)
}

// ParseContext is Parse with the logger taken from ctx.
func ParseContext(ctx context.Context, r io.Reader, path string) (*Catalog, error) {
	log := logging.FromContext(ctx)
	cat := &Catalog{Kind: ASCII, Path: path}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "" || trimmed == "#":
			continue
		case trimmed[0] == '#':
			if isSchemaLine(trimmed) {
				cat.Schema = newSchema(line)
			}
			continue
		case cat.Schema == nil || trimmed[0] != '"':
			continue
		}

		cat.Records = append(cat.Records, cat.Schema.record(line, trimmed, len(cat.Records)))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}

	if cat.Schema == nil {
		log.Debug().Str("path", path).Msg("no column header found in catalog")
		return cat, nil
	}
	if missing := cat.Schema.Missing(); len(missing) > 0 {
		log.Warn().
			Str("path", path).
			Strs("missing", missing).
			Msg("catalog is missing required columns")
	}
	log.Debug().
		Str("path", path).
		Int("columns", len(cat.Schema.Columns)).
		Int("sources", len(cat.Records)).
		Msg("catalog parsed")
	return cat, nil
}

// record maps one data row onto a Record. n is the number of records
// already read.
func (s *Schema) record(line, trimmed string, n int) Record {
	rec := Record{ID: n + 1}
	vel := s.velocity()

	tokens := tokenize(trimmed)
	for i := 0; i < len(s.Fields) && i < len(tokens); i++ {
		tok := tokens[i]
		switch f := s.Fields[i]; f {
		case FieldName:
			rec.Name = strings.Trim(tok, `"`)
		case FieldID:
			if id := atoi(tok); id != 0 {
				rec.ID = id
			}
		case FieldNPix:
			rec.NPix = atoi(tok)
		case FieldVApp, FieldVRad, FieldVOpt:
			if f == vel {
				rec.VApp = atof(tok)
			}
		case FieldUnknown:
		default:
			rec.setFloat(f, atof(tok))
		}
	}
	rec.Key = s.SliceName(line)
	return rec
}

func (r *Record) setFloat(f Field, v float64) {
	switch f {
	case FieldX:
		r.X = v
	case FieldY:
		r.Y = v
	case FieldZ:
		r.Z = v
	case FieldXMin:
		r.XMin = v
	case FieldXMax:
		r.XMax = v
	case FieldYMin:
		r.YMin = v
	case FieldYMax:
		r.YMax = v
	case FieldZMin:
		r.ZMin = v
	case FieldZMax:
		r.ZMax = v
	case FieldRA:
		r.RA = v
	case FieldDec:
		r.Dec = v
	case FieldFSum:
		r.FSum = v
	case FieldErrFSum:
		r.ErrFSum = v
	case FieldErrX:
		r.ErrX = v
	case FieldErrY:
		r.ErrY = v
	case FieldErrZ:
		r.ErrZ = v
	case FieldKinPA:
		r.KinPA = v
	case FieldW50:
		r.W50 = v
	case FieldRMS:
		r.RMS = v
	}
}

// tokenize splits a data row on blanks and tabs. A token opening with '"'
// runs to the next '"' or the end of the line; the quotes are dropped.
func tokenize(line string) []string {
	var tokens []string
	i := 0
	for i < len(line) {
		for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
			i++
		}
		if i == len(line) {
			break
		}

		if line[i] == '"' {
			i++
			end := strings.IndexByte(line[i:], '"')
			if end < 0 {
				tokens = append(tokens, line[i:])
				break
			}
			tokens = append(tokens, line[i:i+end])
			i += end + 1
			continue
		}

		end := strings.IndexAny(line[i:], " \t")
		if end < 0 {
			tokens = append(tokens, line[i:])
			break
		}
		tokens = append(tokens, line[i:i+end])
		i += end
	}
	return tokens
}

// atoi parses the leading integer of s, returning 0 when there is none.
func atoi(s string) int {
	s = strings.TrimLeft(s, " \t")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// atof parses the longest leading float of s, returning 0 when there is
// none.
func atof(s string) float64 {
	s = strings.TrimLeft(s, " \t")
	end := floatPrefix(s)
	if end == 0 {
		return 0
	}
	// Out of range values come back as ±Inf.
	v, _ := strconv.ParseFloat(s[:end], 64)
	return v
}

func floatPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	for _, word := range []string{"infinity", "inf", "nan"} {
		if len(s)-i >= len(word) && strings.EqualFold(s[i:i+len(word)], word) {
			return i + len(word)
		}
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	return i
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
