package catalog

import (
	"context"

	"spendly/internal/model"
)

// Loader reads a gzipped JSON-lines product seed file, one product record
// per line.
type Loader interface {
	Load(ctx context.Context, path string) ([]model.Product, error)
}
