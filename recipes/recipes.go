// Package recipes embeds the recipes shipped with hgpkg.
package recipes

import "embed"

// FS holds the recipes laid out as <name>/*.cue.
//
//go:embed */*.cue
var FS embed.FS
