// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package module defines the module.Version and module.Ref types along with
// support code.
package module

import (
	"fmt"
	"path/filepath"
	"strings"
)

// A Version (for clients, a module.Version) represents a specific version
// of a package identified by its path.
type Version struct {
	Path    string // Package name, e.g. "fmt" or "ms-gsl"
	Version string // Version string (e.g., "10.0.0")
}

func (v Version) String() string {
	if v.Version == "" {
		return v.Path
	}
	return v.Path + "/" + v.Version
}

// A Ref is a package reference in the form "name/version[@user/channel]".
type Ref struct {
	Version
	User    string
	Channel string
}

func (r Ref) String() string {
	s := r.Version.String()
	if r.User != "" {
		s += "@" + r.User + "/" + r.Channel
	}
	return s
}

// ParseRef parses a reference such as "fmt/10.0.0" or
// "ztcpp/3.0.2@jbatnozic/stable".
func ParseRef(s string) (Ref, error) {
	var r Ref

	pkg, origin, hasOrigin := strings.Cut(s, "@")
	name, ver, ok := strings.Cut(pkg, "/")
	if !ok || name == "" || ver == "" || strings.Contains(ver, "/") {
		return r, fmt.Errorf("invalid package reference %q: expected name/version", s)
	}
	r.Path, r.Version.Version = name, ver

	if hasOrigin {
		user, channel, ok := strings.Cut(origin, "/")
		if !ok || user == "" || channel == "" || strings.Contains(channel, "/") {
			return Ref{}, fmt.Errorf("invalid package reference %q: expected @user/channel", s)
		}
		r.User, r.Channel = user, channel
	}
	return r, nil
}

// EscapePath returns the escaped form of the given package path as a valid
// file system path. It fails if the path is invalid.
func EscapePath(path string) (escaped string, err error) {
	return filepath.Localize(path)
}
