// Package artifact classifies the binaries produced by a build and
// assembles them into a package manifest.
package artifact

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/goplus/hgpkg/formula"
	"github.com/goplus/hgpkg/internal/build"
	"github.com/goplus/hgpkg/internal/registry"
	"github.com/goplus/hgpkg/mod/module"
)

// State is the step an Assembler has reached.
type State int

const (
	AwaitingArtifacts State = iota
	Classifying
	Ordering
	Assembled
)

func (s State) String() string {
	switch s {
	case AwaitingArtifacts:
		return "awaiting-artifacts"
	case Classifying:
		return "classifying"
	case Ordering:
		return "ordering"
	case Assembled:
		return "assembled"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Config holds what an Assembler needs besides the build report.
type Config struct {
	Package  module.Version
	Registry *registry.Registry

	// SourceDir is the package source tree holding module include
	// directories. Sources reads it; it defaults to os.DirFS(SourceDir).
	SourceDir      string
	Sources        fs.FS
	HeaderPatterns []string

	// SystemLibs are keyed by target OS, compared case-insensitively.
	SystemLibs map[string][]string

	Logger *log.Logger
}

// DefaultHeaderPatterns select C and C++ headers.
var DefaultHeaderPatterns = []string{"*.h", "*.hpp", "*.inl"}

// Assembler turns one build report into a Manifest. Its steps must be
// called in order: Ingest, Classify, Order. An Assembler serves a single
// run.
type Assembler struct {
	cfg    Config
	logger *log.Logger
	state  State

	report    *build.Report
	artifacts []Artifact
	manifest  *Manifest
}

// NewAssembler returns an Assembler awaiting artifacts.
func NewAssembler(cfg Config) *Assembler {
	if cfg.Sources == nil && cfg.SourceDir != "" {
		cfg.Sources = os.DirFS(cfg.SourceDir)
	}
	if cfg.HeaderPatterns == nil {
		cfg.HeaderPatterns = DefaultHeaderPatterns
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Assembler{cfg: cfg, logger: logger}
}

// State returns the current step.
func (a *Assembler) State() State {
	return a.state
}

func (a *Assembler) expect(want State, step string) error {
	if a.state != want {
		return fmt.Errorf("%w: %s in state %s", ErrState, step, a.state)
	}
	return nil
}

// Ingest accepts the report of a successful build.
func (a *Assembler) Ingest(r *build.Report) error {
	if err := a.expect(AwaitingArtifacts, "Ingest"); err != nil {
		return err
	}
	if r == nil || !r.Succeeded {
		return fmt.Errorf("cannot assemble %s: build did not succeed", a.cfg.Package)
	}
	a.report = r
	a.state = Classifying
	return nil
}

// Classify assigns every reported binary to exactly one module. Binaries
// matching no module are dropped with a warning; a binary matching several
// modules fails with *AmbiguityError.
func (a *Assembler) Classify() ([]Artifact, error) {
	if err := a.expect(Classifying, "Classify"); err != nil {
		return nil, err
	}
	goos := a.report.OS
	dlls := make(map[string]bool)
	for _, root := range a.report.Roots {
		for _, f := range root.Files {
			if stem, kind, ok := detect(goos, f, func(string) bool { return false }); ok && kind == Runtime {
				dlls[strings.ToLower(stem)] = true
			}
		}
	}
	hasDLL := func(stem string) bool { return dlls[strings.ToLower(stem)] }

	matchers := a.cfg.Registry.Matchers()
	var artifacts []Artifact
	for _, root := range a.report.Roots {
		for _, f := range root.Files {
			stem, kind, ok := detect(goos, f, hasDLL)
			if !ok {
				a.logger.Debug("skipping non-binary file", "path", f)
				continue
			}
			var owners []string
			for _, m := range matchers {
				if m.Match(stem) {
					owners = append(owners, m.Module)
				}
			}
			switch len(owners) {
			case 0:
				a.logger.Warn("artifact matches no module", "artifact", f)
				continue
			case 1:
			default:
				return nil, &AmbiguityError{Artifact: f, Modules: owners}
			}
			artifacts = append(artifacts, Artifact{Path: f, Stem: stem, Module: owners[0], Kind: kind, OS: goos, Root: root.Kind})
		}
	}
	a.artifacts = artifacts
	a.state = Ordering
	return slices.Clone(artifacts), nil
}

// Order builds the Manifest. Libraries are listed most dependent first:
// overlays, then Principals, Utilities and Foundation modules. Header-only
// modules are never listed. Binaries reported in a runtime root, and DLLs
// wherever they were reported, are planned into bin/; the rest into lib/.
// The result is a copy; changing it does not affect Manifest.
func (a *Assembler) Order() (*Manifest, error) {
	if err := a.expect(Ordering, "Order"); err != nil {
		return nil, err
	}
	goos := a.report.OS
	m := &Manifest{
		Package:     a.cfg.Package.Path,
		Version:     a.cfg.Package.Version,
		OS:          goos,
		Libs:        []string{},
		IncludeDirs: []string{"include"},
		LibDirs:     []string{"lib"},
		BinDirs:     []string{"bin"},
		SystemLibs:  a.systemLibs(goos),
	}

	byModule := make(map[string][]Artifact)
	for _, art := range a.artifacts {
		byModule[art.Module] = append(byModule[art.Module], art)
	}
	for _, mod := range a.cfg.Registry.LinkOrder() {
		arts := byModule[mod.Name]
		if !slices.ContainsFunc(arts, func(x Artifact) bool { return x.Kind.Linkable() }) {
			a.logger.Warn("module produced no link library", "module", mod.Name)
			continue
		}
		m.Libs = append(m.Libs, mod.Library)
	}

	headers, err := a.headers()
	if err != nil {
		return nil, err
	}
	m.Plan = append(m.Plan, headers...)
	for _, art := range a.artifacts {
		dir := "lib"
		if art.Kind == Runtime || art.Root == build.RuntimeRoot {
			dir = "bin"
		}
		m.Plan = append(m.Plan, Copy{Src: art.Path, Dst: path.Join(dir, filepath.Base(art.Path))})
	}

	a.manifest = m
	a.state = Assembled
	return m.Clone(), nil
}

// Manifest returns a copy of the assembled manifest.
func (a *Assembler) Manifest() (*Manifest, error) {
	if err := a.expect(Assembled, "Manifest"); err != nil {
		return nil, err
	}
	return a.manifest.Clone(), nil
}

// headers plans the copy of every module's headers into include/, core
// modules first, then overlays.
func (a *Assembler) headers() ([]Copy, error) {
	if a.cfg.Sources == nil {
		return nil, nil
	}
	proj := &formula.Project{SourceFS: a.cfg.Sources}
	mods := append(a.cfg.Registry.Modules(), a.cfg.Registry.Overlays()...)

	var plan []Copy
	seen := make(map[string]string)
	for _, mod := range mods {
		if mod.IncludeDir == "" {
			continue
		}
		files, err := proj.Headers(mod.IncludeDir, a.cfg.HeaderPatterns)
		if err != nil {
			return nil, fmt.Errorf("failed to collect headers of %s: %w", mod.Name, err)
		}
		for _, rel := range files {
			dst := path.Join("include", rel)
			if owner, dup := seen[dst]; dup {
				a.logger.Warn("header provided by two modules", "header", dst, "module", mod.Name, "previous", owner)
				continue
			}
			seen[dst] = mod.Name
			src := filepath.Join(a.cfg.SourceDir, filepath.FromSlash(mod.IncludeDir), filepath.FromSlash(rel))
			plan = append(plan, Copy{Src: src, Dst: dst})
		}
	}
	return plan, nil
}

func (a *Assembler) systemLibs(goos string) []string {
	for k, libs := range a.cfg.SystemLibs {
		if strings.EqualFold(k, goos) {
			return slices.Clone(libs)
		}
	}
	return []string{}
}
