package engine

import (
	"errors"
	"io/fs"

	"github.com/goplus/hgpkg/internal/deps"
	"github.com/goplus/hgpkg/mod/versions"
)

// Lock lists the resolved transitive requirements of p as lock file
// entries. Packages pinned by an override are marked as such.
func (p *Plan) Lock() []versions.Dependency {
	pinned := make(map[string]bool)
	for _, r := range p.Requirements {
		if r.Override {
			pinned[r.Name] = true
		}
	}
	out := make([]versions.Dependency, 0, len(p.Graph))
	for _, n := range p.Graph {
		vis := deps.Private
		if n.Public {
			vis = deps.Public
		}
		out = append(out, versions.Dependency{
			Path:       n.Path,
			Version:    n.Version.Version,
			Visibility: vis.String(),
			Override:   pinned[n.Path],
		})
	}
	return out
}

// WriteLock records the requirements of p for the package version in the
// lock file at file, keeping entries of other versions.
func WriteLock(file string, p *Plan) error {
	v, err := versions.Parse(file, nil)
	if errors.Is(err, fs.ErrNotExist) {
		v = &versions.Versions{Path: p.Package.Path}
	} else if err != nil {
		return err
	}
	v.Set(p.Package.Version, p.Lock())
	return v.Write(file)
}
