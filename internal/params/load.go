package params

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Prefixes of the synthetic keys given to blank and comment lines.
const (
	EmptyPrefix = "EMPTY"
	HashPrefix  = "HASH"
)

// RequiredFlags are forced to "false" after a load when the file does not
// set them.
var RequiredFlags = []string{
	"output.writekarma",
	"output.directory",
	"output.filename",
	"output.writecatascii",
	"output.writecatxml",
	"output.writecatsql",
	"output.writenoise",
	"output.writefiltered",
	"output.writemask",
	"output.writemask2d",
	"output.writerawmask",
	"output.writemoments",
	"output.writecubelets",
	"output.writepv",
	"output.margincubelets",
	"output.thresholdmom12",
	"output.overwrite",
}

// Load reads a SoFiA parameter file.
//
// Keys are trimmed and lower-cased; values are trimmed and split from the
// key at the first '='. Lines that are neither blank, comments nor
// assignments are ignored.
func Load(r io.Reader) (*Store, error) {
	s := New()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var empties, hashes int
	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			s.Set(EmptyPrefix+strconv.Itoa(empties), "")
			empties++
		case trimmed[0] == '#':
			s.Set(HashPrefix+strconv.Itoa(hashes), line)
			hashes++
		default:
			key, value, ok := strings.Cut(line, "=")
			if !ok {
				continue
			}
			s.Set(strings.ToLower(strings.TrimSpace(key)), strings.TrimSpace(value))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read parameters: %w", err)
	}

	s.setDefaults()
	return s, nil
}

// LoadFile loads the parameter file at path. A missing file yields an
// error wrapping fs.ErrNotExist.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("parameter file: %w", err)
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func (s *Store) setDefaults() {
	for _, key := range RequiredFlags {
		if !s.Exists(key) {
			s.Set(key, "false")
		}
	}
}
