package gitrepo

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Store resolves project repositories below a root directory.
type Store struct {
	root string
}

func NewStore(root string) *Store {
	return &Store{root: root}
}

// Open opens the repository at rel, a slash separated path below the root.
func (s *Store) Open(rel string) (*Repository, error) {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("%w: %s is outside the repositories root", ErrNotFound, rel)
	}
	return Open(filepath.Join(s.root, clean))
}
