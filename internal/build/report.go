package build

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

// RootKind tells what a binary directory holds.
type RootKind int

const (
	// LinkRoot holds archives, import libraries and, off Windows, shared
	// libraries.
	LinkRoot RootKind = iota
	// RuntimeRoot holds binaries loaded at run time (DLLs).
	RuntimeRoot
)

func (k RootKind) String() string {
	switch k {
	case LinkRoot:
		return "link"
	case RuntimeRoot:
		return "runtime"
	}
	return fmt.Sprintf("RootKind(%d)", int(k))
}

// Root is one binary directory produced by a build.
type Root struct {
	Dir   string   `json:"dir"`
	Kind  RootKind `json:"kind"`
	Files []string `json:"files"` // absolute paths, sorted
}

// Report is what a build hands back once it has finished.
type Report struct {
	OS        string `json:"os"`
	Succeeded bool   `json:"succeeded"`
	Roots     []Root `json:"roots"`
	// InstallDir is the prefix the build installed into.
	InstallDir string `json:"installDir"`
}

// Scan builds the Report of a successful install into dir: dir/lib is the
// link root and dir/bin the runtime root. Only regular files and symlinks
// directly inside each root are reported.
func Scan(goos, dir string) (*Report, error) {
	r := &Report{OS: goos, Succeeded: true, InstallDir: dir}
	for _, sub := range []struct {
		name string
		kind RootKind
	}{
		{"lib", LinkRoot},
		{"bin", RuntimeRoot},
	} {
		rootDir := filepath.Join(dir, sub.name)
		files, err := listFiles(rootDir)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", rootDir, err)
		}
		if files == nil {
			continue
		}
		r.Roots = append(r.Roots, Root{Dir: rootDir, Kind: sub.kind, Files: files})
	}
	return r, nil
}

func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	files := []string{}
	for _, e := range entries {
		if e.Type().IsRegular() || e.Type()&fs.ModeSymlink != 0 {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(files)
	return files, nil
}
