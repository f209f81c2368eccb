package scan

import "path/filepath"

// Scope is the set of files explicitly requested for checking.
type Scope struct {
	files map[string]struct{}
}

// NewScope builds a Scope from paths. Paths are compared after
// resolving them to absolute, cleaned form.
func NewScope(paths ...string) *Scope {
	s := &Scope{files: make(map[string]struct{}, len(paths))}
	for _, p := range paths {
		s.files[normalize(p)] = struct{}{}
	}
	return s
}

// Contains reports whether path names a file in scope.
func (s *Scope) Contains(path string) bool {
	if s == nil || path == "" {
		return false
	}
	_, ok := s.files[normalize(path)]
	return ok
}

// Len returns the number of distinct files in scope.
func (s *Scope) Len() int {
	if s == nil {
		return 0
	}
	return len(s.files)
}

func normalize(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
