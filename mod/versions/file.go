// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package versions provides functionality for parsing and writing the
// versions.json lock file of a package.
package versions

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
)

// Dependency is one resolved requirement as recorded in versions.json.
type Dependency struct {
	Path       string `json:"path"`
	Version    string `json:"version"`
	Visibility string `json:"visibility,omitempty"`
	Override   bool   `json:"override,omitempty"`
}

// Versions represents a package's version file: for every package version
// it records the resolved requirements.
type Versions struct {
	Path         string                  `json:"path"` // Package Path
	Dependencies map[string][]Dependency `json:"deps"` // Package version to its dependencies
}

// Parse reads and parses a version file from either provided data or a file path.
// If data is non-nil, it is used directly and the file parameter is ignored.
// Otherwise, the file is read from the provided path.
// Returns the parsed Versions struct or an error if parsing fails.
func Parse(file string, data []byte) (*Versions, error) {
	var reader io.Reader

	if data != nil {
		reader = bytes.NewBuffer(data)
	} else {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		reader = f
	}

	var v Versions

	if err := json.NewDecoder(reader).Decode(&v); err != nil {
		return nil, err
	}

	return &v, nil
}

// Set replaces the dependencies recorded for version.
func (v *Versions) Set(version string, deps []Dependency) {
	if v.Dependencies == nil {
		v.Dependencies = make(map[string][]Dependency)
	}
	v.Dependencies[version] = deps
}

// Write stores v at file, creating parent directories as needed.
func (v *Versions) Write(file string) error {
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(file, data, 0o644)
}
