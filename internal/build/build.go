// Package build runs the external configure and build step of a package
// and reports the binaries it produced.
package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/goplus/hgpkg/formula"
	"github.com/goplus/hgpkg/internal/options"
	"github.com/goplus/hgpkg/internal/toolchain"
	"github.com/goplus/hgpkg/mod/module"
	"github.com/goplus/hgpkg/x/cmake"
)

// Request describes one build.
type Request struct {
	Package   module.Version
	SourceDir string
	Platform  options.Platform
	// Options are the package's own cascaded option values.
	Options map[string]string
	// Prefixes are install roots of already built dependencies.
	Prefixes []string
	RunID    string
}

// Invoker runs a build. It blocks until the build has finished and
// returns its Report only on success.
type Invoker interface {
	Build(ctx context.Context, req Request) (*Report, error)
}

// Builder is the CMake Invoker. Successful builds are cached per package
// version and configuration in its workspace directory.
type Builder struct {
	workspaceDir string
	generator    string
	logger       *log.Logger
	output       io.Writer

	// run executes the configured steps; replaced in tests.
	run func(ctx context.Context, c *cmake.CMake) error
}

// NewBuilder returns a Builder keeping builds under workspaceDir. An empty
// generator lets CMake choose.
func NewBuilder(workspaceDir, generator string, logger *log.Logger) *Builder {
	return &Builder{
		workspaceDir: workspaceDir,
		generator:    generator,
		logger:       logger,
		output:       os.Stderr,
		run:          runCMake,
	}
}

// SetOutput sets where CMake output goes; os.Stderr by default.
func (b *Builder) SetOutput(w io.Writer) {
	b.output = w
}

func runCMake(ctx context.Context, c *cmake.CMake) error {
	if err := c.Configure(ctx); err != nil {
		return fmt.Errorf("failed to configure: %w", err)
	}
	if err := c.Build(ctx); err != nil {
		return fmt.Errorf("failed to build: %w", err)
	}
	if err := c.Install(ctx); err != nil {
		return fmt.Errorf("failed to install: %w", err)
	}
	return nil
}

// Matrix returns the configuration a request is built and cached under.
func Matrix(req Request) formula.Matrix {
	p := req.Platform
	require := map[string]string{}
	for k, v := range map[string]string{
		"os":         p.OS,
		"arch":       p.Arch,
		"compiler":   p.Compiler,
		"cppstd":     p.CppStd,
		"build_type": p.BuildType,
	} {
		if v != "" {
			require[k] = v
		}
	}
	return formula.Single(require, req.Options)
}

// Build implements Invoker.
func (b *Builder) Build(ctx context.Context, req Request) (*Report, error) {
	if req.SourceDir == "" {
		return nil, errors.New("failed to build: no source directory")
	}
	pkg := req.Package
	matrix := Matrix(req).String()
	logger := b.logger.With("package", pkg.String(), "matrix", matrix)

	installDir, err := b.installDir(pkg.Path, pkg.Version, matrix)
	if err != nil {
		return nil, err
	}

	cache, err := b.loadCache(pkg.Path)
	if err != nil {
		cache = &buildCache{}
	}
	if _, ok := cache.get(pkg.Version, matrix); ok && isDir(installDir) {
		logger.Info("using cached build", "dir", installDir)
		return Scan(req.Platform.OS, installDir)
	}

	if err := os.MkdirAll(b.workspaceDir, 0o755); err != nil {
		return nil, err
	}
	buildDir, err := os.MkdirTemp(b.workspaceDir, "build-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(buildDir)

	if err := os.RemoveAll(installDir); err != nil {
		return nil, err
	}

	c := cmake.New(req.SourceDir, buildDir, installDir)
	c.Stdout, c.Stderr = b.output, b.output
	c.Generator(b.generator)
	c.BuildType(req.Platform.BuildType)
	c.Options(req.Options)
	if req.Platform.CppStd != "" {
		std, err := toolchain.ParseStandard(req.Platform.CppStd)
		if err != nil {
			return nil, err
		}
		c.Standard(fmt.Sprintf("%02d", int(std)%100), strings.HasPrefix(strings.ToLower(req.Platform.CppStd), "gnu"))
	}
	for _, prefix := range req.Prefixes {
		c.Prefix(prefix)
	}

	logger.Info("building", "source", req.SourceDir)
	start := time.Now()
	if err := b.run(ctx, c); err != nil {
		os.RemoveAll(installDir)
		return nil, fmt.Errorf("failed to build %s: %w", pkg, err)
	}
	logger.Info("build finished", "elapsed", time.Since(start).Round(time.Millisecond))

	cache.set(pkg.Version, matrix, &buildEntry{RunID: req.RunID, BuildTime: time.Now()})
	if err := b.saveCache(pkg.Path, cache); err != nil {
		logger.Warn("failed to save build cache", "err", err)
	}
	return Scan(req.Platform.OS, installDir)
}

func isDir(name string) bool {
	fi, err := os.Stat(name)
	return err == nil && fi.IsDir()
}
