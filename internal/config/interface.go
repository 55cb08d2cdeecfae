package config

import (
	"context"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from the given files or directories and
	// translates it into the format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}

// Writer is the interface for a format-specific configuration writer.
type Writer interface {
	// Write stores the instances and connections of m at path. Definitions
	// are not written.
	Write(ctx context.Context, path string, m *Model) error
}
