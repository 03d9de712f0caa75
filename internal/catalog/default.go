package catalog

import (
	_ "embed"
)

//go:embed default.yaml
var defaultCatalog []byte

// Default returns the catalog bundled with the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}
