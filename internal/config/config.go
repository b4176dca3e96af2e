// Package config loads the server's startup options. The authoritative
// source is the CLI flags in cmd/giftid-server; an optional YAML file,
// loaded the same way the teacher's shard config was, can supply defaults
// that flags then override.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config mirrors the CLI surface: the same three server options
// (workshop-id, port, host), nothing more.
type Config struct {
	WorkshopID *int    `yaml:"workshop-id"`
	Port       *int    `yaml:"port"`
	Host       *string `yaml:"host"`
}

// Load reads and parses a YAML config file. A missing file is not an
// error only when path is empty; any other read or parse failure is
// returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(file, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}
