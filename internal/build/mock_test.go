package build

import (
	"context"
	"os"
	"path/filepath"

	"github.com/goplus/hgpkg/x/cmake"
)

// fakeCMake stands in for a cmake run by writing files into the install
// prefix.
type fakeCMake struct {
	files []string // relative to the install prefix
	err   error
	calls int
	args  [][]string
}

func (f *fakeCMake) run(ctx context.Context, c *cmake.CMake) error {
	f.calls++
	f.args = append(f.args, c.ConfigureArgs())
	if f.err != nil {
		return f.err
	}
	for _, name := range f.files {
		dst := filepath.Join(c.OutputDir(), filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(dst, nil, 0o644); err != nil {
			return err
		}
	}
	return nil
}
