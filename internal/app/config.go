package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// Program is the binary name shown in usage and help output.
	Program string

	// ManifestPath points at a single manifest file or a directory of
	// manifest files.
	ManifestPath string

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ManifestPath == "" {
		return nil, errors.New("ManifestPath is a required configuration field and cannot be empty")
	}
	if cfg.Program == "" {
		cfg.Program = "weft"
	}

	return &cfg, nil
}
