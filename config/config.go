package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Conflict resolution strategies accepted in the configuration file.
const (
	StrategyOrdinal = "ordinal"
	StrategySemver  = "semver"
)

// Config is the top-level configuration for centralise.
type Config struct {
	// ExcludePackages are filtered out of the central manifest in addition
	// to the built-in implicit framework references.
	ExcludePackages []string `yaml:"exclude_packages"`
	// Extensions overrides the recognized project-file extensions.
	Extensions []string `yaml:"extensions"`
	// Strategy selects the version conflict rule: "ordinal" (default) or
	// "semver" (highest version wins).
	Strategy string `yaml:"strategy"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{Strategy: StrategyOrdinal}
}

// Semver reports whether the semantic conflict strategy is selected.
func (c *Config) Semver() bool {
	return c.Strategy == StrategySemver
}

// Load reads and parses a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	cfg := Default()
	if unmarshalErr := yaml.Unmarshal(data, cfg); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	if validateErr := validate(cfg); validateErr != nil {
		return nil, validateErr
	}

	return cfg, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile(root string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		root,
		".",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".centralise.yaml",
		".centralise.yml",
		"centralise.yaml",
		"centralise.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// validate checks for required configuration values.
func validate(cfg *Config) error {
	switch cfg.Strategy {
	case "", StrategyOrdinal, StrategySemver:
	default:
		return fmt.Errorf(
			"strategy must be %q or %q, got %q",
			StrategyOrdinal, StrategySemver, cfg.Strategy,
		)
	}

	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extensions[%d] must start with a dot, got %q", i, ext)
		}
	}

	return nil
}
