package recipe

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"slices"

	"github.com/goplus/hgpkg/formula"
	"github.com/goplus/hgpkg/mod/module"
	"github.com/goplus/hgpkg/pkgs/gnu"
)

// ErrNotFound is returned when no recipe serves a package version.
var ErrNotFound = errors.New("recipe not found")

// Store reads recipes laid out as <name>/*.cue.
type Store struct {
	fsys fs.FS
}

// NewStore returns a Store reading recipes from fsys.
func NewStore(fsys fs.FS) *Store {
	return &Store{fsys: fsys}
}

// Revisions returns every recipe of a package, ordered by fromVer.
func (s *Store) Revisions(name string) ([]*formula.Recipe, error) {
	dir, err := module.EscapePath(name)
	if err != nil {
		return nil, err
	}
	dir = path.Clean(filepath.ToSlash(dir))
	files, err := fs.Glob(s.fsys, path.Join(dir, "*.cue"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	var revs []*formula.Recipe
	for _, file := range files {
		data, err := fs.ReadFile(s.fsys, file)
		if err != nil {
			return nil, err
		}
		r, err := Parse(file, data)
		if err != nil {
			return nil, err
		}
		if r.Name != name {
			return nil, fmt.Errorf("%s: recipe is for %q, not %q", file, r.Name, name)
		}
		revs = append(revs, r)
	}
	slices.SortStableFunc(revs, func(a, b *formula.Recipe) int {
		return gnu.Compare(a.FromVer, b.FromVer)
	})
	for i := 1; i < len(revs); i++ {
		if gnu.Compare(revs[i-1].FromVer, revs[i].FromVer) == 0 {
			return nil, fmt.Errorf("%s: two recipes start at version %s", name, revs[i].FromVer)
		}
	}
	return revs, nil
}

// Select returns the recipe serving version: the revision with the highest
// fromVer not above it.
func (s *Store) Select(name, version string) (*formula.Recipe, error) {
	revs, err := s.Revisions(name)
	if err != nil {
		return nil, err
	}
	for i := len(revs) - 1; i >= 0; i-- {
		if gnu.Compare(revs[i].FromVer, version) <= 0 {
			return revs[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s has no recipe for version %s", ErrNotFound, name, version)
}
