// Package progress persists which concepts the user has marked as learned.
//
// The store is a small JSON document mapping grade -> domain -> ordered list
// of concept names, written to the XDG state directory. It is single-user
// state: last write wins, no locking, rewritten in full after every toggle.
package progress

import (
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
)

// DefaultFilename is the name of the store file inside the state directory.
const DefaultFilename = "learned_concepts.json"

// Store tracks learned concepts per grade and domain, preserving the order
// in which concepts were marked.
type Store struct {
	path    string
	learned map[string]map[string][]string
}

// Open reads the store at path. A missing file yields an empty store; any
// other read or parse failure is an error so corrupted state is not silently
// discarded.
func Open(path string) (*Store, error) {
	s := &Store{
		path:    path,
		learned: make(map[string]map[string][]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading progress store: %w", err)
	}

	if err := json.Unmarshal(data, &s.learned); err != nil {
		return nil, fmt.Errorf("parsing progress store %s: %w", path, err)
	}
	if s.learned == nil {
		s.learned = make(map[string]map[string][]string)
	}
	return s, nil
}

// Path returns the file backing this store.
func (s *Store) Path() string { return s.path }

// IsLearned reports whether the concept is marked learned for the grade.
func (s *Store) IsLearned(grade, domain, concept string) bool {
	for _, name := range s.learned[grade][domain] {
		if name == concept {
			return true
		}
	}
	return false
}

// Learned returns a copy of the ordered learned list for one grade/domain.
func (s *Store) Learned(grade, domain string) []string {
	src := s.learned[grade][domain]
	if len(src) == 0 {
		return nil
	}
	return append([]string(nil), src...)
}

// CountForGrade returns the total learned concepts across the grade's domains.
func (s *Store) CountForGrade(grade string) int {
	n := 0
	for _, concepts := range s.learned[grade] {
		n += len(concepts)
	}
	return n
}

// Toggle marks the concept learned, or unmarks it when already learned, then
// persists the store. The returned bool is the new learned state. A save
// failure is returned as the error but the in-memory toggle stands; callers
// surface it as a warning rather than rolling back.
func (s *Store) Toggle(grade, domain, concept string) (bool, error) {
	domains, ok := s.learned[grade]
	if !ok {
		domains = make(map[string][]string)
		s.learned[grade] = domains
	}

	list := domains[domain]
	for i, name := range list {
		if name == concept {
			domains[domain] = append(list[:i], list[i+1:]...)
			if len(domains[domain]) == 0 {
				delete(domains, domain)
			}
			if len(domains) == 0 {
				delete(s.learned, grade)
			}
			return false, s.Save()
		}
	}

	domains[domain] = append(list, concept)
	return true, s.Save()
}

// Save writes the store atomically: marshal to a temp file in the target
// directory, then rename over the destination.
func (s *Store) Save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := json.MarshalIndent(s.learned, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling progress store: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".learned-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing progress store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing progress store: %w", err)
	}
	return nil
}
