package catalog

import (
	_ "embed"
	"fmt"
)

//go:embed default_catalog.toml
var defaultCatalog string

// Builtin returns the catalog shipped with the binary.
func Builtin() (*Catalog, error) {
	c, err := Load(defaultCatalog)
	if err != nil {
		return nil, fmt.Errorf("builtin catalog: %w", err)
	}
	return c, nil
}
