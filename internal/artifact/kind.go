package artifact

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goplus/hgpkg/internal/build"
)

// Kind is the role of a file in the package.
type Kind int

const (
	Header Kind = iota
	// Shared is a shared library linked directly (.so, .dylib).
	Shared
	// Static is an archive (.a, or .lib without a DLL).
	Static
	// Import is the import library of a DLL (.lib, .dll.a).
	Import
	// Runtime is a binary only loaded at run time (.dll).
	Runtime
)

var kindNames = [...]string{"header", "shared", "static", "import", "runtime"}

func (k Kind) String() string {
	if k >= Header && k <= Runtime {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Linkable reports whether artifacts of kind k are handed to the linker.
func (k Kind) Linkable() bool {
	return k == Shared || k == Static || k == Import
}

// Artifact is a classified file produced by the build.
type Artifact struct {
	Path   string
	Stem   string
	Module string
	Kind   Kind
	OS     string

	// Root is the kind of build directory the file was reported in.
	Root build.RootKind
}

func isWindows(goos string) bool {
	return strings.EqualFold(goos, "windows")
}

// detect derives the stem and kind of a binary from its file name. The stem
// is the name without "lib" prefix, extension and .so version suffix.
// hasDLL reports whether a DLL with a given stem was produced; it tells an
// import library from a static one on Windows. ok is false for files that
// are not binaries.
func detect(goos, name string, hasDLL func(stem string) bool) (stem string, kind Kind, ok bool) {
	base := filepath.Base(name)
	lower := strings.ToLower(base)
	switch {
	case strings.HasSuffix(lower, ".dll.a"):
		return trimLib(base[:len(base)-len(".dll.a")]), Import, true
	case strings.HasSuffix(lower, ".dll"):
		return trimLib(base[:len(base)-len(".dll")]), Runtime, true
	case strings.HasSuffix(lower, ".lib"):
		stem = base[:len(base)-len(".lib")]
		if isWindows(goos) && (hasDLL(stem) || hasDLL(trimLib(stem))) {
			return stem, Import, true
		}
		return stem, Static, true
	case strings.HasSuffix(lower, ".a"):
		return trimLib(base[:len(base)-len(".a")]), Static, true
	case strings.HasSuffix(lower, ".dylib"):
		return trimLib(base[:len(base)-len(".dylib")]), Shared, true
	case strings.HasSuffix(lower, ".so"):
		return trimLib(base[:len(base)-len(".so")]), Shared, true
	}
	if i := strings.LastIndex(lower, ".so."); i > 0 && isVersion(lower[i+len(".so."):]) {
		return trimLib(base[:i]), Shared, true
	}
	return "", 0, false
}

func trimLib(s string) string {
	if rest, ok := strings.CutPrefix(s, "lib"); ok && rest != "" {
		return rest
	}
	return s
}

func isVersion(s string) bool {
	if s == "" {
		return false
	}
	for _, part := range strings.Split(s, ".") {
		if part == "" {
			return false
		}
		for _, r := range part {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}
