// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package deps declares the external packages a package requires and
// resolves version conflicts between those declarations.
package deps

import (
	"fmt"
	"slices"
	"strings"

	"github.com/goplus/hgpkg/mod/module"
)

// Visibility tells whether a requirement's headers are exposed to consumers
// of this package.
type Visibility int

const (
	Private Visibility = iota
	Public
)

func (v Visibility) String() string {
	if v == Public {
		return "public"
	}
	return "private"
}

// ParseVisibility parses "public" or "private". The empty string is private.
func ParseVisibility(s string) (Visibility, error) {
	switch strings.ToLower(s) {
	case "public":
		return Public, nil
	case "private", "":
		return Private, nil
	}
	return Private, fmt.Errorf("invalid visibility %q", s)
}

// Requirement is a single declare call.
type Requirement struct {
	Name       string
	Version    string
	Visibility Visibility
	// Override forces Version onto the whole transitive graph.
	Override bool
}

// Resolved is the outcome for one package name.
type Resolved struct {
	Name       string
	Version    string
	Visibility Visibility
	Override   bool
	// Direct is false for pure transitive pins: an override for a package
	// that is never required directly.
	Direct bool
}

func (r Resolved) String() string {
	return r.Name + "/" + r.Version
}

// ConflictError reports declarations of one package that disagree on the
// version without a single override to settle it.
type ConflictError struct {
	Name     string
	Versions []string
	// Overrides is set when the conflicting declarations are all overrides.
	Overrides bool
}

func (e *ConflictError) Error() string {
	kind := "requirements"
	if e.Overrides {
		kind = "overrides"
	}
	return fmt.Sprintf("dependency conflict: %s has conflicting %s %s", e.Name, kind, strings.Join(e.Versions, ", "))
}

// Declarator collects requirements in declaration order.
type Declarator struct {
	reqs  []Requirement
	index map[string][]int
}

// NewDeclarator returns an empty Declarator.
func NewDeclarator() *Declarator {
	return &Declarator{index: make(map[string][]int)}
}

// Declare registers a requirement. A second non-override declaration with a
// different version, or a second override with a different version, is a
// *ConflictError; the requirement is not recorded in that case.
func (d *Declarator) Declare(name, version string, vis Visibility, override bool) error {
	if name == "" || version == "" {
		return fmt.Errorf("failed to declare %q: name and version are required", name+"/"+version)
	}
	req := Requirement{Name: name, Version: version, Visibility: vis, Override: override}
	if err := checkConflict(append(d.requirementsOf(name), req)); err != nil {
		return err
	}
	d.index[name] = append(d.index[name], len(d.reqs))
	d.reqs = append(d.reqs, req)
	return nil
}

// DeclareRef is Declare for a "name/version[@user/channel]" reference.
func (d *Declarator) DeclareRef(ref string, vis Visibility, override bool) error {
	r, err := module.ParseRef(ref)
	if err != nil {
		return err
	}
	version := r.Version.Version
	if r.User != "" {
		version += "@" + r.User + "/" + r.Channel
	}
	return d.Declare(r.Path, version, vis, override)
}

// Requirements returns every declaration in order.
func (d *Declarator) Requirements() []Requirement {
	return slices.Clone(d.reqs)
}

func (d *Declarator) requirementsOf(name string) []Requirement {
	idx := d.index[name]
	out := make([]Requirement, 0, len(idx)+1)
	for _, i := range idx {
		out = append(out, d.reqs[i])
	}
	return out
}

// Resolve flattens the declarations into one entry per package, sorted by
// name. Calling it repeatedly without new declarations returns equal
// results.
func (d *Declarator) Resolve() ([]Resolved, error) {
	names := make([]string, 0, len(d.index))
	for name := range d.index {
		names = append(names, name)
	}
	slices.Sort(names)

	out := make([]Resolved, 0, len(names))
	for _, name := range names {
		reqs := d.requirementsOf(name)
		if err := checkConflict(reqs); err != nil {
			return nil, err
		}
		out = append(out, merge(reqs))
	}
	return out, nil
}

// checkConflict applies the override rule to all declarations of one name.
func checkConflict(reqs []Requirement) error {
	var plain, pinned []string
	for _, r := range reqs {
		if r.Override {
			pinned = appendUnique(pinned, r.Version)
		} else {
			plain = appendUnique(plain, r.Version)
		}
	}
	switch {
	case len(pinned) > 1:
		return &ConflictError{Name: reqs[0].Name, Versions: pinned, Overrides: true}
	case len(pinned) == 0 && len(plain) > 1:
		return &ConflictError{Name: reqs[0].Name, Versions: plain}
	}
	return nil
}

func merge(reqs []Requirement) Resolved {
	res := Resolved{Name: reqs[0].Name}
	for _, r := range reqs {
		if r.Override {
			res.Version = r.Version
			res.Override = true
		} else {
			res.Direct = true
			if !res.Override {
				res.Version = r.Version
			}
		}
		if r.Visibility == Public {
			res.Visibility = Public
		}
	}
	return res
}

func appendUnique(list []string, v string) []string {
	if slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}
