package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// DefaultInitialScale is the scale a freshly attached model starts at.
const DefaultInitialScale = 0.5

// Config represents the operational model catalog
type Config struct {
	Version      string       `yaml:"version" json:"version"`
	ConfigID     string       `yaml:"config_id" json:"config_id"`
	LastUpdated  string       `yaml:"lastUpdated" json:"lastUpdated"`
	DefaultModel string       `yaml:"default_model" json:"default_model"`
	Models       []ModelEntry `yaml:"models" json:"models"`
}

// ModelEntry describes one selectable model
type ModelEntry struct {
	Name         string  `yaml:"name" json:"name"`
	File         string  `yaml:"file,omitempty" json:"file,omitempty"`
	InitialScale float64 `yaml:"initial_scale,omitempty" json:"initial_scale,omitempty"`
	Description  string  `yaml:"description,omitempty" json:"description,omitempty"`
}

var modelNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// LoadConfig loads the model catalog from the specified file path
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses and validates catalog YAML
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks required fields and model names.
func (c *Config) Validate() error {
	if c.ConfigID == "" || c.Version == "" {
		return fmt.Errorf("validation failed: missing required fields (config_id, version)")
	}
	seen := make(map[string]bool, len(c.Models))
	for i, m := range c.Models {
		if !modelNamePattern.MatchString(m.Name) {
			return fmt.Errorf("validation failed: models[%d] has invalid name '%s'", i, m.Name)
		}
		if seen[m.Name] {
			return fmt.Errorf("validation failed: duplicate model '%s'", m.Name)
		}
		if m.InitialScale < 0 {
			return fmt.Errorf("validation failed: model '%s' has negative initial_scale", m.Name)
		}
		seen[m.Name] = true
	}
	if c.DefaultModel != "" && !seen[c.DefaultModel] {
		return fmt.Errorf("validation failed: default_model '%s' is not in models", c.DefaultModel)
	}
	return nil
}

// GetModel returns the catalog entry for a model name
func (c *Config) GetModel(name string) (ModelEntry, bool) {
	for _, m := range c.Models {
		if m.Name == name {
			return m, true
		}
	}
	return ModelEntry{}, false
}

// AssetName is the file stem the loader resolves; it falls back to the name.
func (m ModelEntry) AssetName() string {
	if m.File != "" {
		return m.File
	}
	return m.Name
}

// Scale returns the entry's initial scale or DefaultInitialScale.
func (m ModelEntry) Scale() float64 {
	if m.InitialScale > 0 {
		return m.InitialScale
	}
	return DefaultInitialScale
}
