package app

import (
	"errors"
	"path/filepath"
)

// DefaultConfigFile is loaded from the root when no pipeline file is given.
const DefaultConfigFile = "assetgrid.hcl"

// DefaultTask is invoked when no task is named.
const DefaultTask = "default"

// ReloadOff disables the live-reload server.
const ReloadOff = "off"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ConfigPaths are HCL files or directories; relative paths are resolved
	// against the working directory.
	ConfigPaths []string
	// Root is the project directory every selector is relative to.
	Root string
	Task string

	LogFormat string
	LogLevel  string
	Jobs      int
	// ReloadAddr overrides the livereload block; ReloadOff disables it.
	ReloadAddr string

	List   bool
	DryRun bool
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Root == "" {
		cfg.Root = "."
	}
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, err
	}
	cfg.Root = root

	if len(cfg.ConfigPaths) == 0 {
		cfg.ConfigPaths = []string{filepath.Join(cfg.Root, DefaultConfigFile)}
	}
	if cfg.Task == "" {
		cfg.Task = DefaultTask
	}
	if cfg.Jobs < 0 {
		return nil, errors.New("jobs must not be negative")
	}
	if cfg.List && cfg.DryRun {
		return nil, errors.New("--list and --dry-run are mutually exclusive")
	}
	return &cfg, nil
}
