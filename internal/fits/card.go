package fits

import (
	"strconv"
	"strings"
)

// Card is one keyword/value pair of a header.
type Card struct {
	Key   string
	Value string
}

// ParseCard extracts the key and value from one header line. It reports
// false for lines that carry no value: lines starting with a space,
// COMMENT or HISTORY lines, and lines without '='.
//
// The value ends at the first '/' or at the end of the line. A value
// enclosed in single quotes is unquoted.
func ParseCard(line string) (Card, bool) {
	if line == "" || line[0] == ' ' ||
		strings.HasPrefix(line, "COMMENT") || strings.HasPrefix(line, "HISTORY") {
		return Card{}, false
	}

	key, rest, ok := strings.Cut(line, "=")
	if !ok {
		return Card{}, false
	}
	key = strings.TrimRight(key, " ")

	value := strings.TrimLeft(rest, " ")
	if i := strings.IndexByte(value, '/'); i >= 0 {
		value = value[:i]
	}
	value = strings.TrimRight(value, " ")

	if len(value) >= 2 && value[0] == '\'' && value[len(value)-1] == '\'' {
		value = strings.Trim(value[1:len(value)-1], " ")
	}

	return Card{Key: key, Value: value}, true
}

// Header is the ordered list of cards of a primary header. Duplicate keys
// are kept; lookups return the first.
type Header []Card

// Lookup returns the value of the first card named key.
func (h Header) Lookup(key string) (string, bool) {
	for _, c := range h {
		if c.Key == key {
			return c.Value, true
		}
	}
	return "", false
}

// Int parses the leading integer of the value for key. Trailing text is
// ignored. It reports false when key is absent or the value does not start
// with an integer.
func (h Header) Int(key string) (int, bool) {
	v, ok := h.Lookup(key)
	if !ok {
		return 0, false
	}
	return leadingInt(v)
}

// Float parses the value for key as a float. FITS 'D' exponents are
// accepted. It reports false when key is absent or the value is not a
// number.
func (h Header) Float(key string) (float64, bool) {
	v, ok := h.Lookup(key)
	if !ok {
		return 0, false
	}
	v = strings.TrimSpace(v)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		f, err = strconv.ParseFloat(strings.Replace(v, "D", "E", 1), 64)
		if err != nil {
			return 0, false
		}
	}
	return f, true
}

func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
