package state

import "sort"

// ProcessedSet is the set of remote paths whose artifacts were published.
type ProcessedSet struct {
	paths map[string]struct{}
}

// NewProcessedSet builds a set from paths; blanks are ignored.
func NewProcessedSet(paths ...string) *ProcessedSet {
	s := &ProcessedSet{paths: make(map[string]struct{}, len(paths))}
	for _, p := range paths {
		s.Add(p)
	}
	return s
}

// Has reports whether path was recorded.
func (s *ProcessedSet) Has(path string) bool {
	if s == nil {
		return false
	}
	_, ok := s.paths[path]
	return ok
}

// Add records path. It returns false when the path was already present.
func (s *ProcessedSet) Add(path string) bool {
	if path == "" {
		return false
	}
	if s.paths == nil {
		s.paths = make(map[string]struct{})
	}
	if _, ok := s.paths[path]; ok {
		return false
	}
	s.paths[path] = struct{}{}
	return true
}

// Remove deletes path. It returns false when the path was not present.
func (s *ProcessedSet) Remove(path string) bool {
	if s == nil {
		return false
	}
	if _, ok := s.paths[path]; !ok {
		return false
	}
	delete(s.paths, path)
	return true
}

// Len returns the number of recorded paths.
func (s *ProcessedSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.paths)
}

// Paths returns the recorded paths in sorted order.
func (s *ProcessedSet) Paths() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.paths))
	for p := range s.paths {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
