package artifact

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Manifest is the installable description of a built package. Libs is in
// link order and must not be re-sorted.
type Manifest struct {
	Package     string   `json:"package" toml:"package"`
	Version     string   `json:"version" toml:"version"`
	OS          string   `json:"os" toml:"os"`
	Libs        []string `json:"libs" toml:"libs"`
	IncludeDirs []string `json:"includeDirs" toml:"include_dirs"`
	LibDirs     []string `json:"libDirs" toml:"lib_dirs"`
	BinDirs     []string `json:"binDirs" toml:"bin_dirs"`
	SystemLibs  []string `json:"systemLibs" toml:"system_libs"`
	Plan        []Copy   `json:"plan,omitempty" toml:"plan,omitempty"`
}

// Copy moves one file into the package. Dst is slash-separated and
// relative to the package root.
type Copy struct {
	Src string `json:"src" toml:"src"`
	Dst string `json:"dst" toml:"dst"`
}

// Clone returns a deep copy of m.
func (m *Manifest) Clone() *Manifest {
	c := *m
	c.Libs = slices.Clone(m.Libs)
	c.IncludeDirs = slices.Clone(m.IncludeDirs)
	c.LibDirs = slices.Clone(m.LibDirs)
	c.BinDirs = slices.Clone(m.BinDirs)
	c.SystemLibs = slices.Clone(m.SystemLibs)
	c.Plan = slices.Clone(m.Plan)
	return &c
}

// Encode writes m as "json" or "toml".
func (m *Manifest) Encode(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	case "toml":
		enc := toml.NewEncoder(w)
		enc.SetArraysMultiline(true)
		return enc.Encode(m)
	}
	return fmt.Errorf("unknown manifest format %q", format)
}

// Decode reads a manifest written by Encode.
func Decode(r io.Reader, format string) (*Manifest, error) {
	var m Manifest
	var err error
	switch strings.ToLower(format) {
	case "", "json":
		err = json.NewDecoder(r).Decode(&m)
	case "toml":
		err = toml.NewDecoder(r).Decode(&m)
	default:
		return nil, fmt.Errorf("unknown manifest format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// PkgConfig writes a pkg-config file for the package installed at prefix.
func (m *Manifest) PkgConfig(w io.Writer, prefix, description string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "prefix=%s\n", prefix)
	for i, dir := range m.LibDirs {
		fmt.Fprintf(&b, "libdir%s=${prefix}/%s\n", suffix(i), dir)
	}
	for i, dir := range m.IncludeDirs {
		fmt.Fprintf(&b, "includedir%s=${prefix}/%s\n", suffix(i), dir)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Name: %s\n", m.Package)
	if description == "" {
		description = m.Package
	}
	fmt.Fprintf(&b, "Description: %s\n", description)
	fmt.Fprintf(&b, "Version: %s\n", m.Version)

	var libs []string
	for i := range m.LibDirs {
		libs = append(libs, "-L${libdir"+suffix(i)+"}")
	}
	for _, l := range m.Libs {
		libs = append(libs, "-l"+l)
	}
	fmt.Fprintf(&b, "Libs: %s\n", strings.Join(libs, " "))
	if len(m.SystemLibs) > 0 {
		var private []string
		for _, l := range m.SystemLibs {
			private = append(private, "-l"+l)
		}
		fmt.Fprintf(&b, "Libs.private: %s\n", strings.Join(private, " "))
	}
	var cflags []string
	for i := range m.IncludeDirs {
		cflags = append(cflags, "-I${includedir"+suffix(i)+"}")
	}
	fmt.Fprintf(&b, "Cflags: %s\n", strings.Join(cflags, " "))

	_, err := io.WriteString(w, b.String())
	return err
}

func suffix(i int) string {
	if i == 0 {
		return ""
	}
	return fmt.Sprint(i + 1)
}
