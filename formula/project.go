package formula

import (
	"errors"
	"io"
	"io/fs"
	"path"
	"slices"
	"strings"
)

// -----------------------------------------------------------------------------

// Project represents the source tree of a package being built.
type Project struct {
	SourceFS fs.FS
}

// ReadFile reads the content of a file in the project.
func (p *Project) ReadFile(name string) ([]byte, error) {
	file, err := p.SourceFS.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

// Headers lists the files under dir whose base name matches one of
// patterns, as slash-separated paths relative to dir, sorted. A missing dir
// yields no headers.
func (p *Project) Headers(dir string, patterns []string) ([]string, error) {
	dir = path.Clean(dir)
	if dir == "." {
		dir = ""
	}
	root := dir
	if root == "" {
		root = "."
	}
	var out []string
	err := fs.WalkDir(p.SourceFS, root, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			if name == root && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		for _, pattern := range patterns {
			if ok, _ := path.Match(pattern, d.Name()); ok {
				out = append(out, strings.TrimPrefix(name, dir+"/"))
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(out)
	return out, nil
}

// -----------------------------------------------------------------------------
