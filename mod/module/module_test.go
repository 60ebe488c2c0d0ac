// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package module

import (
	"path/filepath"
	"testing"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		in      string
		want    Ref
		wantErr bool
	}{
		{in: "fmt/10.0.0", want: Ref{Version: Version{Path: "fmt", Version: "10.0.0"}}},
		{in: "ms-gsl/4.0.0", want: Ref{Version: Version{Path: "ms-gsl", Version: "4.0.0"}}},
		{
			in: "ztcpp/3.0.2@jbatnozic/stable",
			want: Ref{
				Version: Version{Path: "ztcpp", Version: "3.0.2"},
				User:    "jbatnozic",
				Channel: "stable",
			},
		},
		{in: "fmt", wantErr: true},
		{in: "/1.0", wantErr: true},
		{in: "fmt/", wantErr: true},
		{in: "a/b/c", wantErr: true},
		{in: "ztcpp/3.0.2@jbatnozic", wantErr: true},
		{in: "ztcpp/3.0.2@/stable", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRef(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRef(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got != tt.want {
				t.Errorf("ParseRef(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
			if got.String() != tt.in {
				t.Errorf("String() = %q, want %q", got.String(), tt.in)
			}
		})
	}
}

func TestEscapePath(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		wantEscaped string
		wantErr     bool
	}{
		{"simple path", "hobgoblin", "hobgoblin", false},
		{"nested path", "owner/repo", filepath.Join("owner", "repo"), false},
		{"empty string", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			escaped, err := EscapePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("EscapePath() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if escaped != tt.wantEscaped {
				t.Errorf("EscapePath() = %v, want %v", escaped, tt.wantEscaped)
			}
		})
	}
}
