package config

import "context"

// Loader is the interface for a format-specific manifest loader. A path
// may be a single manifest file or a directory searched recursively for
// files of the loader's format.
type Loader interface {
	Load(ctx context.Context, paths ...string) (*Model, error)
}
