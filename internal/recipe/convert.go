package recipe

import (
	"fmt"
	"strings"

	"github.com/goplus/hgpkg/formula"
	"github.com/goplus/hgpkg/internal/deps"
	"github.com/goplus/hgpkg/internal/options"
	"github.com/goplus/hgpkg/internal/registry"
	"github.com/goplus/hgpkg/internal/toolchain"
	"github.com/goplus/hgpkg/mod/module"
)

// Registry builds the module registry of r.
func Registry(r *formula.Recipe) (*registry.Registry, error) {
	mods := make([]registry.Module, 0, len(r.Modules))
	for _, m := range r.Modules {
		layer, err := registry.ParseLayer(m.Layer)
		if err != nil {
			return nil, &registry.ConfigurationError{Module: m.Name, Reason: fmt.Sprintf("unknown layer %q", m.Layer)}
		}
		mods = append(mods, registry.Module{
			Name:       m.Name,
			Layer:      layer,
			Overlay:    m.Overlay,
			HeaderOnly: m.HeaderOnly,
			Stage:      m.Stage,
			Library:    m.Library,
			Pattern:    m.Pattern,
			IncludeDir: m.IncludeDir,
		})
	}
	return registry.New(mods)
}

// Declarator declares every requirement of r, failing on the first
// conflict.
func Declarator(r *formula.Recipe) (*deps.Declarator, error) {
	d := deps.NewDeclarator()
	for _, req := range r.Requires {
		vis, err := deps.ParseVisibility(req.Visibility)
		if err != nil {
			return nil, fmt.Errorf("requirement %s: %w", req.Ref, err)
		}
		if err := d.DeclareRef(req.Ref, vis, req.Override); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Cascader builds the option cascader of r. Dependency options may only
// target packages r requires.
func Cascader(r *formula.Recipe) (*options.Cascader, error) {
	decls := make([]options.Decl, 0, len(r.Options))
	for _, o := range r.Options {
		decls = append(decls, options.Decl{Name: o.Name, Values: o.Values, Default: o.Default})
	}
	rules := make([]options.Rule, 0, len(r.Rules))
	for _, rule := range r.Rules {
		stage, err := parseStage(rule.Stage)
		if err != nil {
			return nil, &options.Error{Option: rule.Option, Reason: err.Error()}
		}
		rules = append(rules, options.Rule{
			Stage:  stage,
			Target: rule.Target,
			Option: rule.Option,
			Value:  rule.Value,
			Remove: rule.Remove,
			When: options.Condition{
				OS:      rule.When.OS,
				NotOS:   rule.When.NotOS,
				Options: rule.When.Options,
			},
		})
	}
	c, err := options.New(decls, rules)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(r.Requires))
	for _, req := range r.Requires {
		ref, err := module.ParseRef(req.Ref)
		if err != nil {
			return nil, err
		}
		names = append(names, ref.Path)
	}
	if err := c.SetDependencies(names); err != nil {
		return nil, err
	}
	return c, nil
}

func parseStage(s string) (options.Stage, error) {
	switch strings.ToLower(s) {
	case "", "default":
		return options.StageDefault, nil
	case "force":
		return options.StageForce, nil
	}
	return 0, fmt.Errorf("unknown rule stage %q", s)
}

// MinStandard returns the oldest C++ standard r accepts. ok is false when
// the recipe sets none.
func MinStandard(r *formula.Recipe) (std toolchain.Standard, ok bool, err error) {
	if r.MinCppStd == "" {
		return 0, false, nil
	}
	std, err = toolchain.ParseStandard(r.MinCppStd)
	if err != nil {
		return 0, false, err
	}
	return std, true, nil
}
