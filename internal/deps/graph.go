// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package deps

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/goplus/hgpkg/mod/module"
)

// RegistryClient answers which packages a given package version requires.
// It is implemented outside of this package, typically by a remote
// registry.
type RegistryClient interface {
	Requirements(ctx context.Context, pkg module.Version) ([]Requirement, error)
}

// Node is one package of the resolved transitive graph.
type Node struct {
	module.Version
	// Public is set when the package headers reach consumers of the root
	// package: every edge on some path to it is public.
	Public bool
	// RequiredBy is the package that first pulled this one in; empty for
	// direct requirements.
	RequiredBy string
}

// ResolveGraph expands the direct requirements in roots into the full
// transitive graph. Overrides in roots replace every transitive request for
// the same package; any other disagreement between two requests is a
// *ConflictError. Nodes are returned sorted by name.
func ResolveGraph(ctx context.Context, client RegistryClient, roots []Resolved) ([]Node, error) {
	pins := make(map[string]string)
	for _, r := range roots {
		if r.Override {
			pins[r.Name] = r.Version
		}
	}

	nodes := make(map[string]*Node)
	var queue []string

	for _, r := range roots {
		if !r.Direct {
			continue
		}
		nodes[r.Name] = &Node{
			Version: module.Version{Path: r.Name, Version: r.Version},
			Public:  r.Visibility == Public,
		}
		queue = append(queue, r.Name)
	}

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		parent := nodes[name]

		if err := ctx.Err(); err != nil {
			return nil, err
		}
		reqs, err := client.Requirements(ctx, parent.Version)
		if err != nil {
			return nil, fmt.Errorf("failed to load requirements of %s: %w", parent.Version, err)
		}

		for _, req := range reqs {
			want := req.Version
			if pin, ok := pins[req.Name]; ok {
				want = pin
			}
			public := parent.Public && req.Visibility == Public

			if n, ok := nodes[req.Name]; ok {
				if n.Version.Version != want {
					return nil, &ConflictError{Name: req.Name, Versions: []string{n.Version.Version, want}}
				}
				if public && !n.Public {
					// Revisit so the upgrade reaches its own requirements.
					n.Public = true
					queue = append(queue, req.Name)
				}
				continue
			}
			nodes[req.Name] = &Node{
				Version:    module.Version{Path: req.Name, Version: want},
				Public:     public,
				RequiredBy: name,
			}
			queue = append(queue, req.Name)
		}
	}

	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, *n)
	}
	slices.SortFunc(out, func(a, b Node) int {
		return strings.Compare(a.Path, b.Path)
	})
	return out, nil
}
