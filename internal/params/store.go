// Package params holds the key/value pairs of a SoFiA parameter file.
//
// A Store keeps insertion order and never holds two entries with the same
// key. Blank and comment lines are kept under synthetic keys so the file's
// layout survives a load.
package params

import "strings"

type entry struct {
	key   string
	value string
}

// Store is an ordered, duplicate-free string map.
type Store struct {
	entries []entry
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

func (s *Store) index(key string) int {
	for i, e := range s.entries {
		if e.key == key {
			return i
		}
	}
	return -1
}

// Set inserts key or overwrites its value in place.
func (s *Store) Set(key, value string) {
	if i := s.index(key); i >= 0 {
		s.entries[i].value = value
		return
	}
	s.entries = append(s.entries, entry{key: key, value: value})
}

// Exists reports whether key is present.
func (s *Store) Exists(key string) bool {
	return s.index(key) >= 0
}

// GetStr returns the value for key, or "" when absent.
func (s *Store) GetStr(key string) string {
	if i := s.index(key); i >= 0 {
		return s.entries[i].value
	}
	return ""
}

// GetBool interprets the value for key as a flag. "true", "yes", "1" and
// "t" are true in any case; everything else, including absence, is false.
func (s *Store) GetBool(key string) bool {
	switch strings.ToLower(s.GetStr(key)) {
	case "true", "yes", "1", "t":
		return true
	}
	return false
}

// Keys returns the keys in insertion order.
func (s *Store) Keys() []string {
	keys := make([]string, len(s.entries))
	for i, e := range s.entries {
		keys[i] = e.key
	}
	return keys
}

// Len returns the number of entries.
func (s *Store) Len() int { return len(s.entries) }
