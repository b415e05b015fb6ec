// Package config loads the serve command's YAML configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Redis configures the optional shared-namespace backend. A non-empty Addr
// switches the kernel namespace from in-memory to Redis.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// Config holds the runtime settings of the sidecomm server.
type Config struct {
	Listen   string `yaml:"listen"`
	LogLevel string `yaml:"log_level"`
	Redis    Redis  `yaml:"redis"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Listen:   ":8777",
		LogLevel: "info",
	}
}

// Load reads a YAML config file, applying defaults for absent keys.
// An empty path returns the defaults untouched.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if cfg.Listen == "" {
		cfg.Listen = Default().Listen
	}
	return cfg, nil
}
