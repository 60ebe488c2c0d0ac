// Package recipe loads package recipes, versioned CUE descriptions of a
// package's modules, requirements and options, and turns them into the
// engine's registry, declarator and cascader.
package recipe

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"golang.org/x/mod/semver"

	"github.com/goplus/hgpkg/formula"
	"github.com/goplus/hgpkg/internal/toolchain"
)

//go:embed schema.cue
var schema []byte

const schemaPath = "#Recipe"

// Parse validates data against the recipe schema and decodes it.
func Parse(filename string, data []byte) (*formula.Recipe, error) {
	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if err := schemaValue.Err(); err != nil {
		return nil, fmt.Errorf("internal error: failed to compile recipe schema: %w", err)
	}
	root := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if err := root.Err(); err != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, err)
	}

	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, formatError(err, filename)
	}

	unified := root.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatError(err, filename)
	}

	var r formula.Recipe
	if err := unified.Decode(&r); err != nil {
		return nil, formatError(err, filename)
	}
	if err := check(&r); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return &r, nil
}

func check(r *formula.Recipe) error {
	if !semver.IsValid("v" + r.FromVer) {
		return fmt.Errorf("fromVer %q is not a valid version", r.FromVer)
	}
	if r.MinCppStd != "" {
		if _, err := toolchain.ParseStandard(r.MinCppStd); err != nil {
			return fmt.Errorf("minCppStd: %w", err)
		}
	}
	return nil
}

// formatError prefixes every CUE error with the file and the path of the
// offending field.
func formatError(err error, filename string) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return fmt.Errorf("%s: %w", filename, err)
	}
	lines := make([]string, 0, len(errs))
	for _, e := range errs {
		msg := e.Error()
		if p := strings.Join(cueerrors.Path(e), "."); p != "" && !strings.HasPrefix(msg, p) {
			msg = p + ": " + msg
		}
		lines = append(lines, msg)
	}
	return fmt.Errorf("%s: %s", filename, strings.Join(lines, "; "))
}
