// Package models defines data structures for configuration and filter
// results.
package models

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFile is looked up in the working directory when no
	// --config flag is given.
	DefaultConfigFile = "noiseless.yaml"

	// DefaultDataRoot holds the logs/, filters/ and filtered_logs/ trees.
	DefaultDataRoot = "data"
)

// Config holds runtime configuration for filter operations. Values come from
// an optional YAML file; CLI flags override individual fields afterwards.
type Config struct {
	DataRoot   string `yaml:"data_root"`
	MaxWorkers int    `yaml:"max_workers"` // 0 means use all CPUs
	HistoryDB  string `yaml:"history_db"`  // empty means next to the binary
	Quiet      bool   `yaml:"quiet"`
}

// LoadConfig reads the YAML config at path. A missing file is not an error;
// defaults apply.
func LoadConfig(path string) (*Config, error) {
	config := &Config{DataRoot: DefaultDataRoot}

	data, err := os.ReadFile(filepath.Clean(path))
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if config.DataRoot == "" {
		config.DataRoot = DefaultDataRoot
	}
	return config, nil
}

// LogsDir is where bare log names are resolved.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataRoot, "logs")
}

// FiltersDir is where bare filter-spec names are resolved.
func (c *Config) FiltersDir() string {
	return filepath.Join(c.DataRoot, "filters")
}

// FilteredDir is the root of the per-log output tree.
func (c *Config) FilteredDir() string {
	return filepath.Join(c.DataRoot, "filtered_logs")
}
