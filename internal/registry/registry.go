// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package registry holds the catalog of build units (modules) of a package,
// grouped by dependency layer.
package registry

import (
	"fmt"
	"path"
	"slices"
	"strings"
)

// Layer ranks a module from most basic to most dependent. A module may only
// depend on modules of the same or a lower layer.
type Layer int

const (
	Foundation Layer = iota
	Utilities
	Principals
	Overlay
)

var layerNames = [...]string{"foundation", "utilities", "principals", "overlay"}

func (l Layer) String() string {
	if l.valid() {
		return layerNames[l]
	}
	return fmt.Sprintf("layer(%d)", int(l))
}

func (l Layer) valid() bool {
	return l >= Foundation && l <= Overlay
}

// ParseLayer converts a layer name ("foundation", "utilities", "principals"
// or "overlay") into a Layer.
func ParseLayer(s string) (Layer, error) {
	if i := slices.Index(layerNames[:], strings.ToLower(s)); i >= 0 {
		return Layer(i), nil
	}
	return 0, &ConfigurationError{Reason: fmt.Sprintf("unknown layer %q", s)}
}

// Module is one build unit of the package.
type Module struct {
	Name  string
	Layer Layer
	// Overlay marks a unit of the overlay tier, which sits above all core
	// layers and must use the Overlay layer.
	Overlay    bool
	HeaderOnly bool
	// Stage orders modules inside a layer; a higher stage may depend on a
	// lower one.
	Stage int
	// Library is the name handed to the linker. Defaults to Name.
	Library string
	// Pattern is a glob matched against artifact stems (file names without
	// "lib" prefix and extension). Defaults to Library.
	Pattern    string
	IncludeDir string
}

// ConfigurationError reports a malformed module or layer declaration.
type ConfigurationError struct {
	Module string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Module == "" {
		return "configuration error: " + e.Reason
	}
	return fmt.Sprintf("configuration error: module %s: %s", e.Module, e.Reason)
}

// Registry is an immutable, validated module catalog.
type Registry struct {
	modules  []Module // declaration order
	byName   map[string]int
	matchers []Matcher
}

// New validates mods and builds a Registry. The slice is copied.
func New(mods []Module) (*Registry, error) {
	r := &Registry{
		modules: make([]Module, 0, len(mods)),
		byName:  make(map[string]int, len(mods)),
	}
	for _, m := range mods {
		if err := check(m); err != nil {
			return nil, err
		}
		if _, dup := r.byName[m.Name]; dup {
			return nil, &ConfigurationError{Module: m.Name, Reason: "declared more than once"}
		}
		if m.Library == "" {
			m.Library = m.Name
		}
		if m.Pattern == "" {
			m.Pattern = m.Library
		}
		matcher, err := compile(m)
		if err != nil {
			return nil, err
		}
		r.byName[m.Name] = len(r.modules)
		r.modules = append(r.modules, m)
		r.matchers = append(r.matchers, matcher)
	}
	return r, nil
}

func check(m Module) error {
	switch {
	case m.Name == "":
		return &ConfigurationError{Reason: "module without a name"}
	case !m.Layer.valid():
		return &ConfigurationError{Module: m.Name, Reason: fmt.Sprintf("unknown layer ordinal %d", int(m.Layer))}
	case m.Overlay && m.Layer != Overlay:
		return &ConfigurationError{Module: m.Name, Reason: fmt.Sprintf("overlay cannot belong to the %s layer", m.Layer)}
	case !m.Overlay && m.Layer == Overlay:
		return &ConfigurationError{Module: m.Name, Reason: "core module cannot belong to the overlay layer"}
	case m.Stage < 0:
		return &ConfigurationError{Module: m.Name, Reason: fmt.Sprintf("negative stage %d", m.Stage)}
	}
	return nil
}

// Modules returns the core modules ordered by layer, lowest first, keeping
// declaration order inside a layer.
func (r *Registry) Modules() []Module {
	var out []Module
	for l := Foundation; l < Overlay; l++ {
		out = append(out, r.Layer(l)...)
	}
	return out
}

// Layer returns the modules of layer l in declaration order.
func (r *Registry) Layer(l Layer) []Module {
	var out []Module
	for _, m := range r.modules {
		if m.Layer == l {
			out = append(out, m)
		}
	}
	return out
}

// Overlays returns the overlay modules in declaration order.
func (r *Registry) Overlays() []Module {
	return r.Layer(Overlay)
}

// All returns every module, core and overlay, in declaration order.
func (r *Registry) All() []Module {
	return slices.Clone(r.modules)
}

// Lookup returns the module with the given name.
func (r *Registry) Lookup(name string) (Module, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Module{}, false
	}
	return r.modules[i], true
}

// Matchers returns one compiled artifact matcher per module, in declaration
// order.
func (r *Registry) Matchers() []Matcher {
	return slices.Clone(r.matchers)
}

// LinkOrder returns the modules that produce link libraries, most dependent
// first: overlays, then Principals, Utilities and Foundation. Inside a layer
// higher stages come first and ties keep reverse declaration order.
// Header-only modules are left out.
//
// Single-pass linkers resolve symbols left to right, so a module must be
// listed before every module it references.
func (r *Registry) LinkOrder() []Module {
	var out []Module
	for l := Overlay; l >= Foundation; l-- {
		layer := r.Layer(l)
		slices.Reverse(layer)
		slices.SortStableFunc(layer, func(a, b Module) int {
			return b.Stage - a.Stage
		})
		for _, m := range layer {
			if !m.HeaderOnly {
				out = append(out, m)
			}
		}
	}
	return out
}

// Matcher is a compiled artifact name pattern bound to its module.
type Matcher struct {
	Module  string
	pattern string
}

func compile(m Module) (Matcher, error) {
	// path.Match checks the whole pattern even when the name does not match.
	if _, err := path.Match(m.Pattern, ""); err != nil {
		return Matcher{}, &ConfigurationError{Module: m.Name, Reason: fmt.Sprintf("bad artifact pattern %q: %v", m.Pattern, err)}
	}
	return Matcher{Module: m.Name, pattern: m.Pattern}, nil
}

// Match reports whether an artifact stem belongs to the matcher's module.
func (m Matcher) Match(stem string) bool {
	ok, _ := path.Match(m.pattern, stem)
	return ok
}

func (m Matcher) String() string {
	return m.pattern
}
