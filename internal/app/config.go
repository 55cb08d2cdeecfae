package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	LibraryPath string // block definitions: .hcl file or directory
	GraphPath   string // instances and connections: .hcl file or directory
	OutPath     string // where to write the graph back, empty to skip

	DBPath        string // SQLite snapshot database, empty for in-memory
	SyncURL       string // socket.io editor endpoint, empty to disable
	SyncNamespace string

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.LibraryPath == "" {
		return nil, errors.New("LibraryPath is a required configuration field and cannot be empty")
	}
	if cfg.SyncNamespace == "" {
		cfg.SyncNamespace = "/"
	}
	return &cfg, nil
}
