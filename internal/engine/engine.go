// Package engine drives one package through resolution, option cascading,
// the toolchain check, the external build and artifact assembly.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/goplus/hgpkg/formula"
	"github.com/goplus/hgpkg/internal/artifact"
	"github.com/goplus/hgpkg/internal/build"
	"github.com/goplus/hgpkg/internal/deps"
	"github.com/goplus/hgpkg/internal/options"
	"github.com/goplus/hgpkg/internal/recipe"
	"github.com/goplus/hgpkg/internal/registry"
	"github.com/goplus/hgpkg/internal/toolchain"
	"github.com/goplus/hgpkg/mod/module"
)

// Config holds the collaborators of an Engine.
type Config struct {
	Store *recipe.Store
	// Client answers transitive requirement queries. It defaults to the
	// recipes of Store.
	Client  deps.RegistryClient
	Invoker build.Invoker
	Logger  *log.Logger
}

type Engine struct {
	store   *recipe.Store
	client  deps.RegistryClient
	invoker build.Invoker
	logger  *log.Logger
}

func NewEngine(cfg Config) *Engine {
	e := &Engine{
		store:   cfg.Store,
		client:  cfg.Client,
		invoker: cfg.Invoker,
		logger:  cfg.Logger,
	}
	if e.client == nil {
		e.client = recipe.Client{Store: cfg.Store}
	}
	if e.logger == nil {
		e.logger = log.Default()
	}
	return e
}

// Request names the package to process and the target it is built for.
type Request struct {
	Package   module.Version
	SourceDir string
	// Sources reads SourceDir; it defaults to os.DirFS(SourceDir).
	Sources  fs.FS
	Platform options.Platform
	// Options are user overrides of the package's own options.
	Options  map[string]string
	Prefixes []string
}

// Plan is everything decided before the build runs.
type Plan struct {
	Package      module.Version
	Recipe       *formula.Recipe
	Registry     *registry.Registry
	Requirements []deps.Resolved
	Graph        []deps.Node
	Assignments  []options.Assignment
}

// Result is the outcome of a complete run.
type Result struct {
	RunID     string
	Plan      *Plan
	Report    *build.Report
	Artifacts []artifact.Artifact
	Manifest  *artifact.Manifest
}

// Prepare resolves the package without building it. Configuration,
// dependency and toolchain errors are returned here; options are cascaded
// only once the toolchain is known to be usable.
func (e *Engine) Prepare(ctx context.Context, req Request) (*Plan, error) {
	r, err := e.store.Select(req.Package.Path, req.Package.Version)
	if err != nil {
		return nil, err
	}
	reg, err := recipe.Registry(r)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("registry loaded", "package", req.Package, "modules", len(reg.All()))

	d, err := recipe.Declarator(r)
	if err != nil {
		return nil, err
	}
	resolved, err := d.Resolve()
	if err != nil {
		return nil, err
	}
	graph, err := deps.ResolveGraph(ctx, e.client, resolved)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("dependencies resolved", "direct", len(resolved), "total", len(graph))

	if minStd, ok, err := recipe.MinStandard(r); err != nil {
		return nil, err
	} else if ok {
		if err := toolchain.Validate(req.Platform.CppStd, minStd); err != nil {
			return nil, err
		}
	}

	c, err := recipe.Cascader(r)
	if err != nil {
		return nil, err
	}
	assignments, err := c.Cascade(req.Platform, req.Options)
	if err != nil {
		return nil, err
	}
	return &Plan{
		Package:      req.Package,
		Recipe:       r,
		Registry:     reg,
		Requirements: resolved,
		Graph:        graph,
		Assignments:  assignments,
	}, nil
}

// Run prepares the package, builds it and assembles the manifest of what
// the build produced.
func (e *Engine) Run(ctx context.Context, req Request) (*Result, error) {
	if e.invoker == nil {
		return nil, errors.New("engine: no build invoker configured")
	}
	runID := uuid.NewString()
	logger := e.logger.With("run", runID)

	plan, err := e.Prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	logger.Info("building", "package", req.Package, "os", req.Platform.OS)
	report, err := e.invoker.Build(ctx, build.Request{
		Package:   req.Package,
		SourceDir: req.SourceDir,
		Platform:  req.Platform,
		Options:   options.SelfValues(plan.Assignments),
		Prefixes:  req.Prefixes,
		RunID:     runID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build %s: %w", req.Package, err)
	}

	asm := artifact.NewAssembler(artifact.Config{
		Package:        req.Package,
		Registry:       plan.Registry,
		SourceDir:      req.SourceDir,
		Sources:        req.Sources,
		HeaderPatterns: plan.Recipe.HeaderPatterns,
		SystemLibs:     plan.Recipe.SystemLibs,
		Logger:         logger,
	})
	if err := asm.Ingest(report); err != nil {
		return nil, err
	}
	arts, err := asm.Classify()
	if err != nil {
		return nil, err
	}
	manifest, err := asm.Order()
	if err != nil {
		return nil, err
	}
	logger.Info("assembled", "package", req.Package, "libs", len(manifest.Libs))

	return &Result{
		RunID:     runID,
		Plan:      plan,
		Report:    report,
		Artifacts: arts,
		Manifest:  manifest,
	}, nil
}
