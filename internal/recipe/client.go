package recipe

import (
	"context"
	"errors"
	"strings"

	"github.com/goplus/hgpkg/internal/deps"
	"github.com/goplus/hgpkg/mod/module"
)

// Client answers requirement queries from the recipes of a Store. A
// package without a recipe is treated as having no requirements.
type Client struct {
	Store *Store
}

// Requirements implements deps.RegistryClient.
func (c Client) Requirements(ctx context.Context, pkg module.Version) ([]deps.Requirement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	version, _, _ := strings.Cut(pkg.Version, "@")
	r, err := c.Store.Select(pkg.Path, version)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	d, err := Declarator(r)
	if err != nil {
		return nil, err
	}
	return d.Requirements(), nil
}
