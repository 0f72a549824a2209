package catalog

import (
	"context"
	"errors"
	"fmt"
)

const (
	SourceBuiltin = "builtin"
	SourceFile    = "file"
	SourceDB      = "db"
)

var ErrUnknownSource = errors.New("unknown catalog source")

// FromSource loads the catalog from the configured source. An empty source means builtin;
// repo is only used for the db source.
func FromSource(ctx context.Context, source, path string, repo *Repo) (*Catalog, error) {
	switch source {
	case "", SourceBuiltin:
		return Builtin()
	case SourceFile:
		return LoadFile(path)
	case SourceDB:
		if repo == nil {
			return nil, fmt.Errorf("%w: db source without a database", ErrUnknownSource)
		}
		return LoadFromDB(ctx, repo)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, source)
	}
}
